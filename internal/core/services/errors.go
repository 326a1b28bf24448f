package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// withTimeout bounds a provider call. A zero timeout leaves ctx unchanged.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// storageErr wraps err with domain.ErrStorage unless it is already classified.
func storageErr(op string, err error) error {
	if isClassified(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// providerErr wraps err with domain.ErrProvider unless it is already classified.
func providerErr(op string, err error) error {
	if isClassified(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrProvider, op, err)
}

func isClassified(err error) bool {
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrProvider,
		domain.ErrStorage,
		domain.ErrDimensionMismatch,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
