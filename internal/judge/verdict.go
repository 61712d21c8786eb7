package judge

import (
	"fmt"
	"time"
)

// VerdictKind is the final per-case classification.
type VerdictKind int

const (
	VerdictAccepted VerdictKind = iota
	VerdictWrongAnswer
	VerdictRuntimeError
	VerdictTimeLimitExceeded
	VerdictCompileError
	VerdictIoError
)

// Verdict carries the classification plus whatever detail the kind needs:
// the exit code for runtime errors, the first difference for wrong answers.
type Verdict struct {
	Kind     VerdictKind
	ExitCode int
	Detail   string
}

func accepted() Verdict { return Verdict{Kind: VerdictAccepted} }

func wrongAnswer(detail string) Verdict {
	return Verdict{Kind: VerdictWrongAnswer, Detail: detail}
}

func runtimeError(code int) Verdict {
	return Verdict{Kind: VerdictRuntimeError, ExitCode: code}
}

func timeLimitExceeded() Verdict { return Verdict{Kind: VerdictTimeLimitExceeded} }

func compileError(detail string) Verdict {
	return Verdict{Kind: VerdictCompileError, Detail: detail}
}

func ioError(err error) Verdict {
	return Verdict{Kind: VerdictIoError, Detail: err.Error()}
}

func (v Verdict) String() string {
	switch v.Kind {
	case VerdictAccepted:
		return "Accepted"
	case VerdictWrongAnswer:
		return "Wrong Answer"
	case VerdictRuntimeError:
		return fmt.Sprintf("Runtime Error (%d)", v.ExitCode)
	case VerdictTimeLimitExceeded:
		return "Time Limit Exceeded"
	case VerdictCompileError:
		return "Compile Error"
	case VerdictIoError:
		return "I/O Error"
	default:
		return fmt.Sprintf("VerdictKind(%d)", int(v.Kind))
	}
}

// Entry is one judged case. For interactive cases Sessions holds one
// verdict per executed session, in execution order.
type Entry struct {
	CaseID   string
	Verdict  Verdict
	Elapsed  time.Duration
	Stdout   string
	Stderr   string
	Sessions []Verdict
}

// Report is the result of one judging invocation. It is built and owned
// by the orchestrator alone.
type Report struct {
	ID        string
	Problem   string
	StartedAt time.Time
	Entries   []Entry
}

// Failed counts the entries that did not end Accepted.
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Verdict.Kind != VerdictAccepted {
			n++
		}
	}
	return n
}
