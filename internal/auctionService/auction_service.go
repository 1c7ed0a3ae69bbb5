package auction

import (
	"errors"
	"fmt"
	"sync"
	"time"

	model "auction-shop/internal/models"
	"auction-shop/internal/repository"
	"auction-shop/internal/shoperrors"
	"auction-shop/utils"
)

// Engine owns auction and bid state and the Active -> Finished transition.
// Every mutation of one auction runs under that auction's mutex, so a bid
// validation and its append cannot interleave with another bid or with the
// closing sweep on the same auction.
type Engine struct {
	repo repository.AuctionDB
	now  func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // key: auctionID
}

// NewEngine creates an auction engine backed by the given repository
func NewEngine(repo repository.AuctionDB) *Engine {
	return NewEngineWithClock(repo, time.Now)
}

// NewEngineWithClock creates an engine with an injected clock, used by tests
func NewEngineWithClock(repo repository.AuctionDB, clock func() time.Time) *Engine {
	return &Engine{
		repo:  repo,
		now:   clock,
		locks: make(map[string]*sync.Mutex),
	}
}

// auctionLock returns the mutex guarding one auction's read-modify-write cycle
func (e *Engine) auctionLock(auctionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[auctionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[auctionID] = l
	}
	return l
}

// CreateAuction validates and stores a new auction ending now+duration
func (e *Engine) CreateAuction(title, description string, startPrice, step int64, duration time.Duration) (model.Auction, error) {
	if title == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing title", shoperrors.ErrInvalidInput)
	}
	if startPrice < 0 {
		return model.Auction{}, fmt.Errorf("service: %w - negative start price", shoperrors.ErrInvalidInput)
	}
	if step < 0 {
		return model.Auction{}, fmt.Errorf("service: %w - negative step", shoperrors.ErrInvalidInput)
	}
	if duration <= 0 {
		return model.Auction{}, fmt.Errorf("service: %w - non-positive duration", shoperrors.ErrInvalidInput)
	}

	now := e.now().UTC()
	auction := model.Auction{
		AuctionID:    utils.GenerateID(),
		Title:        title,
		Description:  description,
		StartPrice:   startPrice,
		Step:         step,
		CurrentPrice: startPrice,
		EndTimestamp: now.Add(duration),
		CreatedAt:    now,
	}

	if err := e.repo.CreateAuction(auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction %q: %w", title, err)
	}
	return auction, nil
}

// PlaceBid validates and records a bid on an auction. The end timestamp is
// authoritative: once it has passed, bids are rejected even if the sweep has
// not flipped the finished flag yet.
func (e *Engine) PlaceBid(auctionID, bidderID string, amount int64) (model.Bid, error) {
	if auctionID == "" || bidderID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - missing auctionID or bidderID", shoperrors.ErrInvalidInput)
	}
	if amount <= 0 {
		return model.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", shoperrors.ErrInvalidInput)
	}

	lock := e.auctionLock(auctionID)
	lock.Lock()
	defer lock.Unlock()

	auction, err := e.repo.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	now := e.now().UTC()
	if auction.Finished || !now.Before(auction.EndTimestamp) {
		return model.Bid{}, fmt.Errorf("service: %w - auction %s no longer accepts bids", shoperrors.ErrAuctionClosed, auctionID)
	}
	if amount <= auction.CurrentPrice {
		return model.Bid{}, fmt.Errorf("service: %w - current price is %d", shoperrors.ErrBidTooLow, auction.CurrentPrice)
	}

	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: now,
	}

	if err := e.repo.AppendBid(bid); err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to record bid on auction %s by %s: %w", auctionID, bidderID, err)
	}
	return bid, nil
}

// CloseDueAuctions finishes every unfinished auction whose end timestamp has
// passed and returns, per auction, its winning bid (nil when no bids were
// placed). Already-finished auctions are skipped, so repeated calls with the
// same now produce no new closures.
func (e *Engine) CloseDueAuctions(now time.Time) ([]model.ClosedAuction, error) {
	due, err := e.repo.ListDueAuctions(now)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list due auctions: %w", err)
	}

	var closed []model.ClosedAuction
	for _, candidate := range due {
		result, ok := e.closeOne(candidate.AuctionID)
		if ok {
			closed = append(closed, result)
		}
	}
	return closed, nil
}

// closeOne finishes a single auction under its lock. A store failure on one
// auction must not stop the sweep, so errors are logged and reported as a skip.
func (e *Engine) closeOne(auctionID string) (model.ClosedAuction, bool) {
	lock := e.auctionLock(auctionID)
	lock.Lock()
	defer lock.Unlock()

	auction, err := e.repo.GetAuction(auctionID)
	if err != nil {
		utils.Warn("sweep: failed to reload auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return model.ClosedAuction{}, false
	}
	if auction.Finished {
		// lost the race with another sweep pass
		return model.ClosedAuction{}, false
	}

	var winner *model.Bid
	winning, err := e.repo.GetWinningBid(auctionID)
	switch {
	case err == nil:
		winner = &winning
	case errors.Is(err, shoperrors.ErrNoBids):
		winner = nil
	default:
		utils.Warn("sweep: failed to determine winning bid", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return model.ClosedAuction{}, false
	}

	if err := e.repo.FinishAuction(auctionID); err != nil {
		utils.Warn("sweep: failed to finish auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return model.ClosedAuction{}, false
	}

	auction.Finished = true
	return model.ClosedAuction{Auction: auction, WinningBid: winner}, true
}

// GetAuction returns a single auction
func (e *Engine) GetAuction(auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", shoperrors.ErrInvalidInput)
	}

	auction, err := e.repo.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns active auctions soonest-ending first, or all newest-first
func (e *Engine) ListAuctions(onlyActive bool) ([]model.Auction, error) {
	auctions, err := e.repo.ListAuctions(onlyActive, e.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// GetBidsForAuction returns all bids for an auction, highest first
func (e *Engine) GetBidsForAuction(auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", shoperrors.ErrInvalidInput)
	}

	bids, err := e.repo.GetBidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction, earliest on ties
func (e *Engine) GetWinningBid(auctionID string) (model.Bid, error) {
	if auctionID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty auction ID", shoperrors.ErrInvalidInput)
	}

	bid, err := e.repo.GetWinningBid(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}
