package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// Adapters wrap their causes with one of these so callers can classify
// failures with errors.Is.
var (
	// ErrValidation indicates missing or malformed caller input.
	// It is never retried and maps to a client error.
	ErrValidation = errors.New("validation error")

	// ErrPromptTooLong indicates the assembled prompt exceeds the answer
	// generator's character budget. It is a validation error.
	ErrPromptTooLong = fmt.Errorf("%w: prompt too long", ErrValidation)

	// ErrProvider indicates an embedding or answer generation call failed.
	ErrProvider = errors.New("provider error")

	// ErrStorage indicates a document store I/O failure.
	ErrStorage = errors.New("storage error")

	// ErrDimensionMismatch indicates a vector does not match the
	// dimensionality established by the index.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the answer generator is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedType indicates an unknown provider or backend name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// IsClientError reports whether err should be surfaced as a client error.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err means a requested entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
