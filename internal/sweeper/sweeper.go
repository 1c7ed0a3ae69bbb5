package sweeper

import (
	"context"
	"time"

	auction "auction-shop/internal/auctionService"
	"auction-shop/internal/notify"
	"auction-shop/utils"
)

// Sweeper periodically closes due auctions and announces the results.
type Sweeper struct {
	engine     *auction.Engine
	dispatcher *notify.Dispatcher
	interval   time.Duration
}

// New creates a sweeper running the closing sweep at the given interval
func New(engine *auction.Engine, dispatcher *notify.Dispatcher, interval time.Duration) *Sweeper {
	return &Sweeper{engine: engine, dispatcher: dispatcher, interval: interval}
}

// Run sweeps until the context is cancelled. Blocks; run it in a goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepOnce(now)
		}
	}
}

// SweepOnce closes every due auction and notifies per result. Notifications
// happen after the closures are committed, and one auction's notification
// cannot affect the processing of the next.
func (s *Sweeper) SweepOnce(now time.Time) {
	closed, err := s.engine.CloseDueAuctions(now)
	if err != nil {
		utils.Error("sweep: failed to close due auctions", map[string]any{"error": err.Error()})
		return
	}

	for _, result := range closed {
		fields := map[string]any{
			"auction_id": result.Auction.AuctionID,
			"title":      result.Auction.Title,
		}
		if result.WinningBid != nil {
			fields["winner"] = result.WinningBid.BidderID
			fields["amount"] = result.WinningBid.Amount
		}
		utils.Info("sweep: auction closed", fields)

		s.dispatcher.AuctionClosed(result)
	}
}
