// Package apierr classifies failures of remote model APIs into domain errors.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// maxBodyInError limits how much of a response body is quoted in an error.
const maxBodyInError = 512

// Status wraps a non-2xx response. 429 wraps domain.ErrRateLimited and
// 5xx wraps domain.ErrUnavailable so callers can retry them.
func Status(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodyInError {
		msg = msg[:maxBodyInError] + "..."
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrRateLimited, status, msg)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrUnavailable, status, msg)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}

// Transport wraps a failed request. Deadline expiry and network timeouts
// wrap domain.ErrTimeout; refused connections wrap domain.ErrUnavailable.
func Transport(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", provider, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTimeout, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrUnavailable, err)
	}

	return fmt.Errorf("%s: request failed: %w", provider, err)
}
