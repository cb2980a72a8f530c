// Package openaicompat builds clients for OpenAI-compatible APIs (OpenAI, Groq)
// and maps their failures onto domain errors.
package openaicompat

import (
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/apierr"
)

// Well-known base URLs.
const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	GroqBaseURL   = "https://api.groq.com/openai/v1"
)

// ClientConfig configures an OpenAI-compatible client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a client with SDK retries disabled. Retrying is
// decided by the caller from the classified error.
func NewClient(cfg ClientConfig) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return openai.NewClient(opts...)
}

// Classify maps an SDK error onto the domain error kinds.
func Classify(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return apierr.Status(provider, apiErr.StatusCode, []byte(msg))
	}
	return apierr.Transport(provider, err)
}
