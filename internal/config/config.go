// Package config loads the judge's service configuration (cpjudge.yml)
// and resolves language specs into executable judging plans.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"

	"github.com/cutekitek/cpjudge/internal/command"
	"github.com/cutekitek/cpjudge/internal/judge"
	"github.com/cutekitek/cpjudge/internal/suite"
	"github.com/cutekitek/cpjudge/internal/template"
)

// CompileSpec describes a language's one-time compile step. Bin, Command
// and WorkingDirectory are templates.
type CompileSpec struct {
	Bin              string `yaml:"bin"`
	Command          string `yaml:"command"`
	WorkingDirectory string `yaml:"working_directory"`
}

// RunSpec describes how a language's built (or interpreted) solution is
// invoked. Command and WorkingDirectory are templates.
type RunSpec struct {
	Command          string `yaml:"command"`
	WorkingDirectory string `yaml:"working_directory"`
}

// LanguageSpec is one entry of the language catalogue. Src is a template
// for the solution source path; a nil Compile means an interpreted
// language. LanguageIDs map service names to that service's identifier for
// this language and are only consulted on the submission path.
type LanguageSpec struct {
	Src         string            `yaml:"src"`
	Compile     *CompileSpec      `yaml:"compile"`
	Run         RunSpec           `yaml:"run"`
	Replace     *ReplaceSpec      `yaml:"replace"`
	LanguageIDs map[string]string `yaml:"language_ids"`
}

// Config is the whole service configuration. Ambient knobs can be
// overridden from the environment.
type Config struct {
	Service    string                  `yaml:"service" env:"CPJUDGE_SERVICE"`
	Contest    string                  `yaml:"contest" env:"CPJUDGE_CONTEST"`
	Language   string                  `yaml:"language" env:"CPJUDGE_LANGUAGE"`
	LogLevel   string                  `yaml:"log_level" env:"CPJUDGE_LOG_LEVEL" env-default:"info"`
	Testsuites string                  `yaml:"testsuites"`
	Variables  map[string]string       `yaml:"variables"`
	Languages  map[string]LanguageSpec `yaml:"languages"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}
	if cfg.Testsuites == "" {
		return nil, errors.New("config: testsuites path template is required")
	}
	if len(cfg.Languages) == 0 {
		return nil, errors.New("config: at least one language is required")
	}
	for name, lang := range cfg.Languages {
		if lang.Src == "" {
			return nil, errors.Errorf("config: language %q has no src template", name)
		}
		if lang.Run.Command == "" {
			return nil, errors.Errorf("config: language %q has no run command", name)
		}
		if lang.Compile != nil && (lang.Compile.Bin == "" || lang.Compile.Command == "") {
			return nil, errors.Errorf("config: language %q has an incomplete compile section", name)
		}
	}
	return cfg, nil
}

// SuitePath resolves the suite file path template for a problem.
func (c *Config) SuitePath(problem string) (string, error) {
	return template.ResolvePath(c.Testsuites, c.context(problem))
}

// Plan resolves a full judging plan for a suite: the solver commands for
// the given language (the configured default when empty) and, for an
// interactive suite, the tester commands for the language the suite names.
// Compile steps for both are collected in run order.
func (c *Config) Plan(language string, s *suite.Suite) (judge.Plan, error) {
	plan := judge.Plan{Suite: s}

	lang, err := c.language(language)
	if err != nil {
		return plan, err
	}
	run, compile, err := c.resolveLanguage(lang, s.Problem)
	if err != nil {
		return plan, err
	}
	plan.Solver = run
	if compile != nil {
		plan.Compile = append(plan.Compile, *compile)
	}

	if s.Kind == suite.KindInteractive {
		testerLang, err := c.language(s.Tester)
		if err != nil {
			return plan, errors.Wrap(err, "tester")
		}
		testerRun, testerCompile, err := c.resolveLanguage(testerLang, s.Problem)
		if err != nil {
			return plan, errors.Wrap(err, "tester")
		}
		plan.Tester = testerRun
		if testerCompile != nil {
			plan.Compile = append(plan.Compile, *testerCompile)
		}
	}
	return plan, nil
}

func (c *Config) language(name string) (LanguageSpec, error) {
	if name == "" {
		name = c.Language
	}
	lang, ok := c.Languages[name]
	if !ok {
		return LanguageSpec{}, errors.Errorf("language %q is not configured", name)
	}
	return lang, nil
}

// resolveLanguage expands a language spec for one problem: the source path
// first, then (for compiled languages) the binary path, and finally the
// compile and run command lines with $src and $bin bound. Session
// arguments are appended to the argv at run time, so $* resolves empty
// here.
func (c *Config) resolveLanguage(lang LanguageSpec, problem string) (command.Command, *command.Compilation, error) {
	ctx := c.context(problem)

	src, err := template.ResolvePath(lang.Src, ctx)
	if err != nil {
		return command.Command{}, nil, err
	}
	ctx = ctx.WithBindings(map[string]string{"src": src})

	var compile *command.Compilation
	if lang.Compile != nil {
		bin, err := template.ResolvePath(lang.Compile.Bin, ctx)
		if err != nil {
			return command.Command{}, nil, err
		}
		ctx = ctx.WithBindings(map[string]string{"bin": bin})
		cmd, err := resolveCommand(lang.Compile.Command, lang.Compile.WorkingDirectory, ctx)
		if err != nil {
			return command.Command{}, nil, err
		}
		compile = &command.Compilation{Command: cmd, Src: src, Bin: bin}
	}

	run, err := resolveCommand(lang.Run.Command, lang.Run.WorkingDirectory, ctx)
	if err != nil {
		return command.Command{}, nil, err
	}
	return run, compile, nil
}

func resolveCommand(cmdTmpl, dirTmpl string, ctx template.Context) (command.Command, error) {
	dir, err := template.ResolvePath(dirTmpl, ctx)
	if err != nil {
		return command.Command{}, err
	}
	line, err := template.Resolve(cmdTmpl, ctx)
	if err != nil {
		return command.Command{}, err
	}
	return command.Parse(line, dir)
}

func (c *Config) context(problem string) template.Context {
	bindings := map[string]string{
		"service": c.Service,
		"contest": c.Contest,
		"*":       "",
	}
	for k, v := range c.Variables {
		bindings[k] = v
	}
	return template.Context{Problem: problem, Bindings: bindings}
}
