package domain

import (
	"mutest.dev/pkg/mutest/internal/adapter"
	m "mutest.dev/pkg/mutest/internal/model"
)

// Classify turns a finished test run into a mutant status.
//
// A run that hit its deadline is a Timeout. A run that could not be started,
// or whose output carries neither a pass nor a fail marker, is an Error.
// Otherwise failing tests kill the mutant and passing tests let it escape.
func Classify(framework adapter.TestFrameworkAdapter, outcome m.Outcome) m.Status {
	switch {
	case outcome.TimedOut:
		return m.Timeout
	case outcome.Err != nil:
		return m.Error
	case !framework.Recognizes(outcome.Output):
		return m.Error
	case !framework.TestsPass(outcome.Output):
		return m.Killed
	default:
		return m.Escaped
	}
}
