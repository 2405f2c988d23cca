package clients

import "errors"

// ErrDependencyUnavailable marks transport and protocol failures of the
// external services: connection errors, timeouts, open circuit breakers and
// non-2xx responses. A failed stock check never silently reports
// out-of-stock, it surfaces this error instead.
var ErrDependencyUnavailable = errors.New("dependency unavailable")
