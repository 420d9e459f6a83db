package scanerrors

import (
	"fmt"

	log "github.com/zombodb/zdbscan/internal/logging"
)

// BestEffort runs a release step during teardown. Teardown may run while the
// host is already unwinding an aborted statement, so a failure is logged and
// swallowed instead of returned. It reports whether the step succeeded.
func BestEffort(op string, release func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("op", op).Str("panic", fmt.Sprint(r)).Msg("panic while releasing scan resources")
			ok = false
		}
	}()

	if err := release(); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("failed to release scan resources")
		return false
	}
	return true
}
