package scanerrors

import (
	"fmt"
	"os"
	"strings"
)

// IsInTests reports whether the binary is running under go test.
func IsInTests() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// MustBugf returns an error representing a protocol bug, such as a node
// handed to the host with a missing tag or method table. Will panic if run
// under testing.
func MustBugf(format string, args ...any) error {
	if IsInTests() {
		panic(fmt.Sprintf(format, args...))
	}

	return fmt.Errorf("BUG: "+format, args...)
}
