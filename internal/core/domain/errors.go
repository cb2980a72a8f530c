package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures by kind.
// Adapters and services wrap them with fmt.Errorf("...: %w", err) so callers
// can classify a failure with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format with no registered loader.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConfiguration indicates missing or invalid startup configuration,
	// such as an absent credential or model identifier. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// Ingestion Errors.

	// ErrIngestion indicates a source document could not be ingested.
	// Ingestion errors are recoverable: the document is skipped.
	ErrIngestion = errors.New("ingestion failed")

	// ErrDocumentMissing indicates a configured source file does not exist.
	ErrDocumentMissing = fmt.Errorf("%w: document missing", ErrIngestion)

	// ErrDocumentUnreadable indicates a source file exists but cannot be parsed.
	ErrDocumentUnreadable = fmt.Errorf("%w: document unreadable", ErrIngestion)

	// ErrIndexBuild indicates the embedding index could not be built.
	// No partial index is kept.
	ErrIndexBuild = errors.New("index build failed")

	// Query Errors.

	// ErrValidation indicates a rejected client request, e.g. an empty question.
	ErrValidation = errors.New("validation failed")

	// ErrRetrieval indicates embedding the query or searching the index failed.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the completion service failed.
	ErrGeneration = errors.New("generation failed")

	// External service errors. These are retryable.

	// ErrTimeout indicates a call to an external model service timed out.
	ErrTimeout = errors.New("timeout")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the external service answered with a server error.
	ErrUnavailable = errors.New("service unavailable")
)

// IsRetryable reports whether err is a transient external failure
// that may succeed if the same request is sent again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable)
}
