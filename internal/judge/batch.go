package judge

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/cutekitek/cpjudge/internal/command"
	"github.com/cutekitek/cpjudge/internal/suite"
)

// ExecResult is the raw outcome of one batch process run.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
	TimedOut bool
}

// runProcess feeds input to the command's stdin, closes it and captures
// both output streams in full. When timelimit expires the whole process
// group is killed and whatever output was captured so far is kept.
// A non-nil error means the process could not be run at all.
func runProcess(ctx context.Context, cmd command.Command, input string, timelimit time.Duration) (ExecResult, error) {
	var res ExecResult

	proc := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	proc.Dir = cmd.Dir
	proc.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	proc.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := proc.Start(); err != nil {
		return res, errors.Wrapf(err, "start %q", cmd.Args[0])
	}

	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()

	var deadline <-chan time.Time
	if timelimit > 0 {
		timer := time.NewTimer(timelimit)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case err := <-done:
		res.Elapsed = time.Since(start)
		res.ExitCode = waitExitCode(err)
	case <-deadline:
		killGroup(proc.Process.Pid)
		<-done
		res.Elapsed = time.Since(start)
		res.TimedOut = true
		res.ExitCode = -1
	case <-ctx.Done():
		killGroup(proc.Process.Pid)
		<-done
		return res, ctx.Err()
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res, nil
}

// batchVerdict derives the verdict for a simple case. A timeout overrides
// output correctness; exit 0 with no expected output is accepted as-is.
func batchVerdict(res ExecResult, c suite.SimpleCase) Verdict {
	switch {
	case res.TimedOut:
		return timeLimitExceeded()
	case res.ExitCode != 0:
		return runtimeError(res.ExitCode)
	case c.Output == nil:
		return accepted()
	}
	if m := Compare(*c.Output, res.Stdout, c.Match); !m.Matched {
		return wrongAnswer(m.Diff)
	}
	return accepted()
}

func waitExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// killGroup kills the whole process group so children of the judged
// process cannot survive and keep pipes open.
func killGroup(pid int) {
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		_ = unix.Kill(pid, unix.SIGKILL)
	}
}
