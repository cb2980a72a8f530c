package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		retryable bool
	}{
		{429, domain.ErrRateLimited, true},
		{500, domain.ErrUnavailable, true},
		{503, domain.ErrUnavailable, true},
		{401, nil, false},
		{400, nil, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := Status("groq", tt.status, []byte(`{"error":"x"}`))

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "groq")
			assert.Equal(t, tt.retryable, domain.IsRetryable(err))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestStatus_TruncatesBody(t *testing.T) {
	err := Status("openai", 400, []byte(strings.Repeat("x", 2000)))

	assert.Less(t, len(err.Error()), 600)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransport(t *testing.T) {
	assert.ErrorIs(t, Transport("ollama", context.DeadlineExceeded), domain.ErrTimeout)
	assert.ErrorIs(t, Transport("ollama", fmt.Errorf("wrapped: %w", timeoutErr{})), domain.ErrTimeout)
	assert.ErrorIs(t, Transport("ollama", &net.OpError{Op: "dial", Err: errors.New("refused")}), domain.ErrUnavailable)

	canceled := Transport("ollama", context.Canceled)
	assert.ErrorIs(t, canceled, context.Canceled)
	assert.False(t, domain.IsRetryable(canceled))

	assert.False(t, domain.IsRetryable(Transport("ollama", errors.New("bad url"))))
}
