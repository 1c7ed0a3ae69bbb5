package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"auction-shop/internal/shoperrors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// transientErr mimics a pgx failure that is safe to retry
type transientErr struct{}

func (transientErr) Error() string     { return "conn closed" }
func (transientErr) SafeToRetry() bool { return true }

// Tests withRetry outcome mapping
func TestWithRetry(t *testing.T) {
	t.Run("success_needs_no_retry", func(t *testing.T) {
		calls := 0
		err := withRetry(func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("second_attempt_succeeds", func(t *testing.T) {
		calls := 0
		err := withRetry(func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return transientErr{}
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("persistent_transient_failure_is_store_unavailable", func(t *testing.T) {
		calls := 0
		err := withRetry(func(ctx context.Context) error {
			calls++
			return transientErr{}
		})
		require.Equal(t, 2, calls, "a retryable failure gets exactly one retry")
		require.True(t, errors.Is(err, shoperrors.ErrStoreUnavailable), "expected ErrStoreUnavailable, got: %v", err)
	})

	t.Run("non_retryable_failure_is_store_unavailable", func(t *testing.T) {
		calls := 0
		err := withRetry(func(ctx context.Context) error {
			calls++
			return errors.New("read tcp: connection reset by peer")
		})
		require.Equal(t, 1, calls, "non-retryable failures must not be retried")
		require.True(t, errors.Is(err, shoperrors.ErrStoreUnavailable), "expected ErrStoreUnavailable, got: %v", err)
	})

	t.Run("row_level_outcomes_pass_through", func(t *testing.T) {
		cases := []struct {
			opErr    error
			sentinel error
		}{
			{pgx.ErrNoRows, pgx.ErrNoRows},
			{fmt.Errorf("update: %w", shoperrors.ErrAuctionNotFound), shoperrors.ErrAuctionNotFound},
			{fmt.Errorf("delete: %w", shoperrors.ErrProductNotFound), shoperrors.ErrProductNotFound},
		}
		for _, tc := range cases {
			err := withRetry(func(ctx context.Context) error {
				return tc.opErr
			})
			require.True(t, errors.Is(err, tc.sentinel), "row outcome must survive, got: %v", err)
			require.False(t, errors.Is(err, shoperrors.ErrStoreUnavailable), "row outcome must not become ErrStoreUnavailable: %v", err)
		}
	})
}

// Tests that every attempt gets its own deadline: a first attempt that eats
// its budget must not starve the retry
func TestWithRetry_FreshDeadlinePerAttempt(t *testing.T) {
	var deadlines []time.Time

	err := withRetry(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok, "attempt context must carry a deadline")
		deadlines = append(deadlines, deadline)
		if len(deadlines) == 1 {
			return transientErr{}
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, deadlines, 2)
	require.True(t, deadlines[1].After(deadlines[0]), "retry must get a fresh deadline, not the first attempt's leftover")
}
