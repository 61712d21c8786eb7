package judge

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/cutekitek/cpjudge/internal/command"
)

// Session is one interactive exchange: a solution and a tester wired to
// each other over raw pipes, both invoked with the same argument set.
type Session struct {
	Tester    command.Command
	Solution  command.Command
	Args      []string
	Timelimit time.Duration
}

// SessionResult carries the session verdict and the diagnostics captured
// from each process's stderr (stdout of both is consumed by the peer).
type SessionResult struct {
	Verdict        Verdict
	Elapsed        time.Duration
	TesterStderr   string
	SolutionStderr string
}

// runSession starts both processes, connects tester stdout to solution
// stdin and solution stdout to tester stdin, and waits on both exits and
// the deadline concurrently. The pipes are kernel pipes: a writer blocks
// when its reader stops draining, which is the only flow control.
//
// The tester's exit code renders the verdict (0 accepted, otherwise wrong
// answer). A solution exiting nonzero before the tester is classified as
// a runtime error immediately, pre-empting the tester. On deadline expiry
// both process groups are killed and the verdict is a time limit excess.
func runSession(ctx context.Context, s Session) (SessionResult, error) {
	var res SessionResult

	testerCmd := s.Tester.WithArgs(s.Args)
	solutionCmd := s.Solution.WithArgs(s.Args)

	tester := exec.Command(testerCmd.Args[0], testerCmd.Args[1:]...)
	tester.Dir = testerCmd.Dir
	solution := exec.Command(solutionCmd.Args[0], solutionCmd.Args[1:]...)
	solution.Dir = solutionCmd.Dir

	testerToSolution, solutionToTester, err := sessionPipes()
	if err != nil {
		return res, err
	}
	tester.Stdout = testerToSolution.w
	solution.Stdin = testerToSolution.r
	solution.Stdout = solutionToTester.w
	tester.Stdin = solutionToTester.r

	var testerStderr, solutionStderr bytes.Buffer
	tester.Stderr = &testerStderr
	solution.Stderr = &solutionStderr
	tester.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	solution.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := tester.Start(); err != nil {
		testerToSolution.close()
		solutionToTester.close()
		return res, errors.Wrapf(err, "start tester %q", testerCmd.Args[0])
	}
	if err := solution.Start(); err != nil {
		killGroup(tester.Process.Pid)
		testerToSolution.close()
		solutionToTester.close()
		_ = tester.Wait()
		return res, errors.Wrapf(err, "start solution %q", solutionCmd.Args[0])
	}

	// The children hold the pipe ends now. The parent's copies must go,
	// or neither process ever sees EOF when its peer exits.
	testerToSolution.close()
	solutionToTester.close()

	testerDone := make(chan error, 1)
	solutionDone := make(chan error, 1)
	go func() { testerDone <- tester.Wait() }()
	go func() { solutionDone <- solution.Wait() }()

	var deadline <-chan time.Time
	if s.Timelimit > 0 {
		timer := time.NewTimer(s.Timelimit)
		defer timer.Stop()
		deadline = timer.C
	}

	solutionExited := false
	for {
		select {
		case err := <-solutionDone:
			solutionExited = true
			solutionDone = nil
			if code := waitExitCode(err); code != 0 {
				killGroup(tester.Process.Pid)
				<-testerDone
				res.Verdict = runtimeError(code)
				return finishSession(res, start, &testerStderr, &solutionStderr), nil
			}
			// Clean solution exit: the tester still renders the verdict.
		case err := <-testerDone:
			if !solutionExited {
				killGroup(solution.Process.Pid)
				<-solutionDone
			}
			if waitExitCode(err) == 0 {
				res.Verdict = accepted()
			} else {
				res.Verdict = wrongAnswer(strings.TrimSpace(testerStderr.String()))
			}
			return finishSession(res, start, &testerStderr, &solutionStderr), nil
		case <-deadline:
			killGroup(tester.Process.Pid)
			killGroup(solution.Process.Pid)
			<-testerDone
			if !solutionExited {
				<-solutionDone
			}
			res.Verdict = timeLimitExceeded()
			return finishSession(res, start, &testerStderr, &solutionStderr), nil
		case <-ctx.Done():
			killGroup(tester.Process.Pid)
			killGroup(solution.Process.Pid)
			<-testerDone
			if !solutionExited {
				<-solutionDone
			}
			return res, ctx.Err()
		}
	}
}

func finishSession(res SessionResult, start time.Time, testerStderr, solutionStderr *bytes.Buffer) SessionResult {
	res.Elapsed = time.Since(start)
	res.TesterStderr = testerStderr.String()
	res.SolutionStderr = solutionStderr.String()
	return res
}

type pipe struct {
	r, w *os.File
}

func (p pipe) close() {
	_ = p.r.Close()
	_ = p.w.Close()
}

func sessionPipes() (testerToSolution, solutionToTester pipe, err error) {
	testerToSolution.r, testerToSolution.w, err = os.Pipe()
	if err != nil {
		return pipe{}, pipe{}, errors.Wrap(err, "create session pipe")
	}
	solutionToTester.r, solutionToTester.w, err = os.Pipe()
	if err != nil {
		testerToSolution.close()
		return pipe{}, pipe{}, errors.Wrap(err, "create session pipe")
	}
	return testerToSolution, solutionToTester, nil
}
