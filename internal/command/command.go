// Package command holds resolved command values: an argument vector plus
// the working directory it must run in.
package command

import (
	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// Command is a fully resolved invocation. Args[0] is the program.
type Command struct {
	Args []string
	Dir  string
}

// WithArgs returns a copy of c with extra arguments appended.
func (c Command) WithArgs(extra []string) Command {
	args := make([]string, 0, len(c.Args)+len(extra))
	args = append(args, c.Args...)
	args = append(args, extra...)
	c.Args = args
	return c
}

// Compilation is a one-time compile step plus the source it reads and the
// binary it produces.
type Compilation struct {
	Command
	Src string
	Bin string
}

// Parse splits a resolved command string into an argument vector using
// shell-style quoting rules.
func Parse(line, dir string) (Command, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return Command{}, errors.Wrapf(err, "parse command %q", line)
	}
	if len(args) == 0 {
		return Command{}, errors.Errorf("command %q is empty", line)
	}
	return Command{Args: args, Dir: dir}, nil
}
