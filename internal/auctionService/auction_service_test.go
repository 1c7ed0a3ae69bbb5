package auction

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	model "auction-shop/internal/models"
	"auction-shop/internal/repository"
	"auction-shop/internal/shoperrors"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move auction time forward deterministically
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine(t *testing.T) (*Engine, *repository.MemoryRepo, *fakeClock) {
	t.Helper()
	repo := repository.NewMemoryRepo()
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewEngineWithClock(repo, clock.Now), repo, clock
}

// Tests CreateAuction
func TestEngine_CreateAuction(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		startPrice    int64
		step          int64
		duration      time.Duration
		expectedError error
	}{
		{
			name:       "valid_auction",
			title:      "AK-47 Redline",
			startPrice: 1000,
			step:       100,
			duration:   time.Hour,
		},
		{
			name:       "zero_start_price_is_valid",
			title:      "Free start",
			startPrice: 0,
			step:       0,
			duration:   time.Minute,
		},
		{
			name:          "empty_title",
			title:         "",
			startPrice:    1000,
			step:          100,
			duration:      time.Hour,
			expectedError: shoperrors.ErrInvalidInput,
		},
		{
			name:          "negative_start_price",
			title:         "Bad price",
			startPrice:    -1,
			step:          100,
			duration:      time.Hour,
			expectedError: shoperrors.ErrInvalidInput,
		},
		{
			name:          "negative_step",
			title:         "Bad step",
			startPrice:    1000,
			step:          -5,
			duration:      time.Hour,
			expectedError: shoperrors.ErrInvalidInput,
		},
		{
			name:          "zero_duration",
			title:         "Instant",
			startPrice:    1000,
			step:          100,
			duration:      0,
			expectedError: shoperrors.ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			engine, _, clock := newTestEngine(t)

			auction, err := engine.CreateAuction(tc.title, "desc", tc.startPrice, tc.step, tc.duration)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, auction.AuctionID)
			_, parseErr := uuid.Parse(auction.AuctionID)
			require.NoError(t, parseErr, "AuctionID should be a valid UUID")

			require.Equal(t, tc.startPrice, auction.StartPrice)
			require.Equal(t, tc.startPrice, auction.CurrentPrice)
			require.Equal(t, clock.Now().Add(tc.duration), auction.EndTimestamp)
			require.False(t, auction.Finished)
		})
	}
}

// Tests PlaceBid input validation: no repository call may happen for
// malformed arguments
func TestEngine_PlaceBid_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	engine := NewEngine(mockRepo)

	tests := []struct {
		name      string
		auctionID string
		bidderID  string
		amount    int64
	}{
		{name: "empty_auctionID", auctionID: "", bidderID: "user1", amount: 100},
		{name: "empty_bidderID", auctionID: "a1", bidderID: "", amount: 100},
		{name: "zero_amount", auctionID: "a1", bidderID: "user1", amount: 0},
		{name: "negative_amount", auctionID: "a1", bidderID: "user1", amount: -50},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.PlaceBid(tc.auctionID, tc.bidderID, tc.amount)
			require.Error(t, err)
			require.True(t, errors.Is(err, shoperrors.ErrInvalidInput), "expected ErrInvalidInput, got: %v", err)
		})
	}
}

// Tests PlaceBid business rules against a real repository
func TestEngine_PlaceBid(t *testing.T) {
	engine, _, clock := newTestEngine(t)

	auction, err := engine.CreateAuction("M4A4 Howl", "rare", 1000, 100, time.Minute)
	require.NoError(t, err)

	t.Run("unknown_auction", func(t *testing.T) {
		_, err := engine.PlaceBid("no-such-auction", "user1", 5000)
		require.True(t, errors.Is(err, shoperrors.ErrAuctionNotFound), "expected ErrAuctionNotFound, got: %v", err)
	})

	t.Run("bid_below_start_price", func(t *testing.T) {
		_, err := engine.PlaceBid(auction.AuctionID, "user1", 500)
		require.True(t, errors.Is(err, shoperrors.ErrBidTooLow), "expected ErrBidTooLow, got: %v", err)
	})

	t.Run("bid_equal_to_current_price_rejected", func(t *testing.T) {
		_, err := engine.PlaceBid(auction.AuctionID, "user1", 1000)
		require.True(t, errors.Is(err, shoperrors.ErrBidTooLow), "ties must be rejected, got: %v", err)
	})

	t.Run("valid_bid_raises_current_price", func(t *testing.T) {
		bid, err := engine.PlaceBid(auction.AuctionID, "user1", 1500)
		require.NoError(t, err)
		require.Equal(t, int64(1500), bid.Amount)

		got, err := engine.GetAuction(auction.AuctionID)
		require.NoError(t, err)
		require.Equal(t, int64(1500), got.CurrentPrice)
	})

	t.Run("rejected_bid_does_not_mutate_state", func(t *testing.T) {
		_, err := engine.PlaceBid(auction.AuctionID, "user2", 1500)
		require.True(t, errors.Is(err, shoperrors.ErrBidTooLow))

		got, err := engine.GetAuction(auction.AuctionID)
		require.NoError(t, err)
		require.Equal(t, int64(1500), got.CurrentPrice)

		bids, err := engine.GetBidsForAuction(auction.AuctionID)
		require.NoError(t, err)
		require.Len(t, bids, 1)
	})

	t.Run("past_end_timestamp_rejected_before_sweep", func(t *testing.T) {
		// no sweep has run: finished is still false, but the time check alone
		// must reject the bid
		clock.Advance(2 * time.Minute)

		got, err := engine.GetAuction(auction.AuctionID)
		require.NoError(t, err)
		require.False(t, got.Finished)

		_, err = engine.PlaceBid(auction.AuctionID, "user3", 9999)
		require.True(t, errors.Is(err, shoperrors.ErrAuctionClosed), "expected ErrAuctionClosed, got: %v", err)
	})

	t.Run("finished_auction_rejected", func(t *testing.T) {
		closed, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Len(t, closed, 1)

		_, err = engine.PlaceBid(auction.AuctionID, "user3", 9999)
		require.True(t, errors.Is(err, shoperrors.ErrAuctionClosed), "expected ErrAuctionClosed, got: %v", err)
	})
}

// Tests the full bid lifecycle: start 10.00, bids 5.00 / 15.00 / 15.00 / 20.00,
// then the sweep closes the auction with the 20.00 bid as winner
func TestEngine_BidFlow(t *testing.T) {
	engine, _, clock := newTestEngine(t)

	auction, err := engine.CreateAuction("Desert Eagle Blaze", "", 1000, 100, time.Minute)
	require.NoError(t, err)

	_, err = engine.PlaceBid(auction.AuctionID, "alice", 500)
	require.True(t, errors.Is(err, shoperrors.ErrBidTooLow))

	_, err = engine.PlaceBid(auction.AuctionID, "alice", 1500)
	require.NoError(t, err)

	_, err = engine.PlaceBid(auction.AuctionID, "bob", 1500)
	require.True(t, errors.Is(err, shoperrors.ErrBidTooLow))

	winningBid, err := engine.PlaceBid(auction.AuctionID, "bob", 2000)
	require.NoError(t, err)

	got, err := engine.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, int64(2000), got.CurrentPrice)

	clock.Advance(2 * time.Minute)
	closed, err := engine.CloseDueAuctions(clock.Now())
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.True(t, closed[0].Auction.Finished)
	require.NotNil(t, closed[0].WinningBid)
	require.Equal(t, winningBid.BidID, closed[0].WinningBid.BidID)
	require.Equal(t, "bob", closed[0].WinningBid.BidderID)
}

// Tests CloseDueAuctions
func TestEngine_CloseDueAuctions(t *testing.T) {
	t.Run("no_bids_closes_without_winner", func(t *testing.T) {
		engine, _, clock := newTestEngine(t)

		_, err := engine.CreateAuction("Lonely lot", "", 1000, 100, time.Minute)
		require.NoError(t, err)

		clock.Advance(2 * time.Minute)
		closed, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Len(t, closed, 1)
		require.Nil(t, closed[0].WinningBid)
		require.True(t, closed[0].Auction.Finished)
	})

	t.Run("idempotent", func(t *testing.T) {
		engine, _, clock := newTestEngine(t)

		_, err := engine.CreateAuction("Once only", "", 1000, 100, time.Minute)
		require.NoError(t, err)

		clock.Advance(2 * time.Minute)
		first, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Empty(t, second, "second sweep with the same now must close nothing")
	})

	t.Run("not_yet_due_left_alone", func(t *testing.T) {
		engine, _, clock := newTestEngine(t)

		_, err := engine.CreateAuction("Still running", "", 1000, 100, time.Hour)
		require.NoError(t, err)

		closed, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Empty(t, closed)
	})

	t.Run("winner_tie_broken_by_earliest_bid", func(t *testing.T) {
		engine, repo, clock := newTestEngine(t)

		auction, err := engine.CreateAuction("Tied lot", "", 0, 0, time.Minute)
		require.NoError(t, err)

		// seed the tie directly: the engine itself never accepts equal amounts
		base := clock.Now()
		seed := []struct {
			bidder string
			amount int64
			at     time.Time
		}{
			{"A", 10000, base.Add(1 * time.Second)},
			{"B", 15000, base.Add(2 * time.Second)},
			{"C", 15000, base.Add(3 * time.Second)},
		}
		for i, s := range seed {
			require.NoError(t, repo.AppendBid(newSeedBid(i, auction.AuctionID, s.bidder, s.amount, s.at)))
		}

		clock.Advance(2 * time.Minute)
		closed, err := engine.CloseDueAuctions(clock.Now())
		require.NoError(t, err)
		require.Len(t, closed, 1)
		require.NotNil(t, closed[0].WinningBid)
		require.Equal(t, "B", closed[0].WinningBid.BidderID, "highest amount tie must go to the earliest bid")
		require.Equal(t, int64(15000), closed[0].WinningBid.Amount)
	})
}

// Concurrency property: racing bids on one auction must never lose an update.
// Whatever the interleaving, the final current price equals the maximum
// amount, because every acceptance runs under the per-auction lock.
func TestEngine_ConcurrentBids(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	auction, err := engine.CreateAuction("Contended lot", "", 100, 1, time.Hour)
	require.NoError(t, err)

	const bidders = 50
	var wg sync.WaitGroup
	accepted := make(chan int64, bidders)

	for i := 1; i <= bidders; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			bid, err := engine.PlaceBid(auction.AuctionID, fmt.Sprintf("user%d", amount), amount)
			if err == nil {
				accepted <- bid.Amount
			} else if !errors.Is(err, shoperrors.ErrBidTooLow) {
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(100 + i))
	}
	wg.Wait()
	close(accepted)

	var maxAccepted int64
	for amount := range accepted {
		if amount > maxAccepted {
			maxAccepted = amount
		}
	}
	require.Equal(t, int64(100+bidders), maxAccepted, "the highest bid must always be accepted")

	got, err := engine.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, maxAccepted, got.CurrentPrice, "no accepted bid may be overwritten by a lower one")
	require.GreaterOrEqual(t, got.CurrentPrice, got.StartPrice)

	winning, err := engine.GetWinningBid(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, maxAccepted, winning.Amount)
}

func newSeedBid(i int, auctionID, bidder string, amount int64, at time.Time) model.Bid {
	return model.Bid{
		BidID:     fmt.Sprintf("seed-%d", i),
		AuctionID: auctionID,
		BidderID:  bidder,
		Amount:    amount,
		CreatedAt: at,
	}
}
