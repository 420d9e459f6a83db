package testutil

import (
	"go.uber.org/goleak"
)

// GoLeakIgnores returns the goleak options shared by packages that run scan
// workers on goroutines. Goroutines already running when the options are
// built, such as those of the test runner, are not reported.
func GoLeakIgnores() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreCurrent(),
	}
}
