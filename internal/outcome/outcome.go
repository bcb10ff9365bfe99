// Package outcome classifies a completed subprocess invocation into the
// mutation-testing taxonomy: caught, not caught, build failed, check
// failed, timeout, and friends.
package outcome

import (
	"fmt"
	"time"
)

// Scenario distinguishes an unmodified source tree, a staged unmodified
// baseline, and a single applied mutation.
type Scenario int

const (
	SourceTree Scenario = iota
	Baseline
	Mutant
)

func (s Scenario) String() string {
	switch s {
	case SourceTree:
		return "source tree"
	case Baseline:
		return "baseline"
	case Mutant:
		return "mutant"
	default:
		return fmt.Sprintf("scenario(%d)", int(s))
	}
}

// Phase is one step of the check/build/test pipeline. Ordering is
// meaningful: check before build before test.
type Phase int

const (
	Check Phase = iota
	Build
	Test
)

func (p Phase) String() string {
	switch p {
	case Check:
		return "check"
	case Build:
		return "build"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CargoResult is the coarse result of a single subprocess invocation.
type CargoResult int

const (
	Success CargoResult = iota
	Failure
	Timeout
)

func (r CargoResult) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("cargo-result(%d)", int(r))
	}
}

// Record is a completed phase invocation, owned by the driver and handed
// to reporting sinks.
type Record struct {
	Scenario Scenario
	Phase    Phase
	Result   CargoResult
	LogPath  string
	Elapsed  time.Duration
}

// Classify maps a Record to its display label, per the scenario x phase x
// result table.
func Classify(r Record) string {
	switch {
	case r.Scenario != Mutant && r.Result == Success:
		return "ok"
	case r.Scenario != Mutant && r.Result == Failure:
		return "FAILED"
	case r.Scenario != Mutant && r.Result == Timeout:
		return "TIMEOUT"
	case r.Result == Timeout:
		return "TIMEOUT"
	case r.Scenario == Mutant && r.Phase == Test && r.Result == Failure:
		return "caught"
	case r.Scenario == Mutant && r.Phase == Test && r.Result == Success:
		return "NOT CAUGHT"
	case r.Scenario == Mutant && r.Phase == Build && r.Result == Success:
		return "build ok"
	case r.Scenario == Mutant && r.Phase == Check && r.Result == Success:
		return "check ok"
	case r.Scenario == Mutant && r.Phase == Build && r.Result == Failure:
		return "build failed"
	case r.Scenario == Mutant && r.Phase == Check && r.Result == Failure:
		return "check failed"
	default:
		return r.Result.String()
	}
}

// ShouldShowLogs reports whether the full invocation log is worth
// surfacing: true for any result that is unexpected or otherwise
// informative, false for the two "nothing to see" cases (a mutant caught
// by the test suite, a clean baseline).
func ShouldShowLogs(r Record) bool {
	if r.Scenario == Mutant && r.Phase == Test && r.Result == Failure {
		return false
	}
	if r.Scenario != Mutant && r.Result == Success {
		return false
	}
	return true
}
