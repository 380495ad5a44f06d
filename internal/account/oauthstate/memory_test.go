package oauthstate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SingleUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	want := State{Provider: "google", Verifier: "v", Nonce: "n", ReturnTo: "/dashboard"}
	require.NoError(t, s.Save(ctx, "k", want, time.Minute))

	got, err := s.Take(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = s.Take(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "k", State{Provider: "google"}, time.Minute))

	now = now.Add(time.Minute)
	_, err := s.Take(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentTake(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, "k", State{Provider: "google"}, time.Minute))

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "k"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
}
