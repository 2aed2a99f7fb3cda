package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	ai "github.com/spetersoncode/blogsmith"
)

// statusCoder matches SDK errors that expose an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// IsTransient reports whether err should be retried.
//
// Categorized errors decide for themselves. Schema failures and context
// cancellation are never retried. Anything else falls back to status code
// and network heuristics.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if ai.IsSchemaError(err) {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return ai.CategorizeStatus(sc.StatusCode()) == ai.ErrorTransient
	}

	return isTransientNetworkError(err)
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"bad gateway",
	"gateway timeout",
	"resource exhausted",
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
