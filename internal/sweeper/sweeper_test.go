package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	auction "auction-shop/internal/auctionService"
	"auction-shop/internal/notify"
	"auction-shop/internal/repository"

	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *captureNotifier) Notify(recipientID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, message)
	return nil
}

// Tests that one sweep closes due auctions, notifies, and a repeat sweep with
// the same now sends nothing new
func TestSweeper_SweepOnce(t *testing.T) {
	repo := repository.NewMemoryRepo()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	engine := auction.NewEngineWithClock(repo, func() time.Time { return now })

	created, err := engine.CreateAuction("Due lot", "", 1000, 100, time.Minute)
	require.NoError(t, err)
	_, err = engine.PlaceBid(created.AuctionID, "777", 1500)
	require.NoError(t, err)

	_, err = engine.CreateAuction("Still open", "", 1000, 100, time.Hour)
	require.NoError(t, err)

	notifier := &captureNotifier{}
	sweep := New(engine, notify.NewDispatcher(notifier, []int64{1}), time.Second)

	now = start.Add(2 * time.Minute)
	sweep.SweepOnce(now)

	closedAuction, err := engine.GetAuction(created.AuctionID)
	require.NoError(t, err)
	require.True(t, closedAuction.Finished)

	// one admin message plus one winner message
	require.Len(t, notifier.sent, 2)

	notifier.mu.Lock()
	notifier.sent = nil
	notifier.mu.Unlock()

	sweep.SweepOnce(now)
	require.Empty(t, notifier.sent, "repeat sweep must not re-notify")
}

// Tests that Run stops when the context is cancelled
func TestSweeper_Run_StopsOnCancel(t *testing.T) {
	repo := repository.NewMemoryRepo()
	engine := auction.NewEngine(repo)
	sweep := New(engine, notify.NewDispatcher(&captureNotifier{}, nil), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweep.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
