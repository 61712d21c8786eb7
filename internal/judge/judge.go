// Package judge runs a problem's test suite against a resolved solution
// command and aggregates per-case verdicts into a report.
package judge

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cutekitek/cpjudge/internal/command"
	"github.com/cutekitek/cpjudge/internal/suite"
)

const defaultExcerptLimit = 4096

// Plan is everything one judging invocation needs, resolved up front and
// immutable: the suite, the solver command, the one-time compile steps (the
// solution's and, for interactive suites, the tester's) and the tester
// command.
type Plan struct {
	Suite   *suite.Suite
	Solver  command.Command
	Tester  command.Command
	Compile []command.Compilation
}

// Judge is the orchestrator. It alone builds and owns the report.
type Judge struct {
	plan         Plan
	logger       *slog.Logger
	excerptLimit int
}

func New(plan Plan, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{plan: plan, logger: logger, excerptLimit: defaultExcerptLimit}
}

// Run judges every case of the suite in stable order. A compile failure
// marks every case CompileError and runs nothing. A per-case failure never
// aborts the remaining cases. The returned error is only ever ctx's; the
// partial report is still valid then.
func (j *Judge) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:        uuid.NewString(),
		Problem:   j.plan.Suite.Problem,
		StartedAt: time.Now(),
	}

	for _, c := range j.plan.Compile {
		j.logger.Debug("compiling", "args", c.Args, "bin", c.Bin)
		res, err := runProcess(ctx, c.Command, "", 0)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			j.markAll(report, compileError(err.Error()))
			return report, nil
		}
		if res.ExitCode != 0 {
			j.logger.Debug("compilation failed", "exit", res.ExitCode)
			j.markAll(report, compileError(excerpt(res.Stderr, j.excerptLimit)))
			return report, nil
		}
	}

	switch j.plan.Suite.Kind {
	case suite.KindInteractive:
		for _, c := range j.plan.Suite.Interactive {
			entry, err := j.runInteractiveCase(ctx, c)
			report.Entries = append(report.Entries, entry)
			if err != nil {
				return report, err
			}
		}
	default:
		for _, c := range j.plan.Suite.Simple {
			entry, err := j.runSimpleCase(ctx, c)
			report.Entries = append(report.Entries, entry)
			if err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

func (j *Judge) runSimpleCase(ctx context.Context, c suite.SimpleCase) (Entry, error) {
	entry := Entry{CaseID: c.Name}
	res, err := runProcess(ctx, j.plan.Solver, c.Input, c.Timelimit)
	if err != nil {
		if ctx.Err() != nil {
			return entry, ctx.Err()
		}
		entry.Verdict = ioError(err)
		return entry, nil
	}
	entry.Verdict = batchVerdict(res, c)
	entry.Elapsed = res.Elapsed
	entry.Stdout = excerpt(res.Stdout, j.excerptLimit)
	entry.Stderr = excerpt(res.Stderr, j.excerptLimit)
	j.logger.Debug("case finished",
		"case", c.Name, "verdict", entry.Verdict.String(), "elapsed", res.Elapsed)
	return entry, nil
}

// runInteractiveCase runs one session per each_args entry, sequentially
// and isolated from each other. The first non-accepted session decides the
// case verdict and the remaining sessions are skipped; every executed
// session keeps its own verdict in the entry.
func (j *Judge) runInteractiveCase(ctx context.Context, c suite.InteractiveCase) (Entry, error) {
	entry := Entry{CaseID: c.Name}
	argSets := c.EachArgs
	if len(argSets) == 0 {
		argSets = [][]string{nil}
	}
	for i, args := range argSets {
		res, err := runSession(ctx, Session{
			Tester:    j.plan.Tester,
			Solution:  j.plan.Solver,
			Args:      args,
			Timelimit: c.Timelimit,
		})
		if err != nil {
			if ctx.Err() != nil {
				return entry, ctx.Err()
			}
			verdict := ioError(err)
			entry.Sessions = append(entry.Sessions, verdict)
			entry.Verdict = verdict
			return entry, nil
		}
		entry.Sessions = append(entry.Sessions, res.Verdict)
		entry.Elapsed += res.Elapsed
		entry.Stdout = excerpt(res.TesterStderr, j.excerptLimit)
		entry.Stderr = excerpt(res.SolutionStderr, j.excerptLimit)
		j.logger.Debug("session finished",
			"case", c.Name, "session", i, "args", args,
			"verdict", res.Verdict.String(), "elapsed", res.Elapsed)
		if res.Verdict.Kind != VerdictAccepted {
			entry.Verdict = res.Verdict
			return entry, nil
		}
	}
	entry.Verdict = accepted()
	return entry, nil
}

func (j *Judge) markAll(report *Report, v Verdict) {
	for _, id := range j.plan.Suite.CaseIDs() {
		report.Entries = append(report.Entries, Entry{CaseID: id, Verdict: v})
	}
}

func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "\n...(truncated)"
}
