// Package service holds the account workflows: the membership store, the
// invite ledger, the session classifier and the orchestrator that sequences
// them. Store errors leave this package as domain kinds.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
)

// DefaultOperationTimeout bounds each call into the store, identity provider or mail transport.
const DefaultOperationTimeout = 5 * time.Second

// storeErr translates a repository error. NotFound keeps its kind, anything
// else unclassified becomes a retryable transport failure.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domain.ErrNotFound
	default:
		return domain.Transport(op, err)
	}
}

// within runs fn under a deadline of d.
func within[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		d = DefaultOperationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}

// withinErr is within for calls that return only an error.
func withinErr(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	_, err := within(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
