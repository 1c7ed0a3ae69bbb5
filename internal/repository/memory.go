package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	model "auction-shop/internal/models"
	"auction-shop/internal/shoperrors"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB,
// CatalogDB and PreferenceDB. It is the default backend and the test double.
type MemoryRepo struct {
	mu           sync.RWMutex
	products     map[string]model.Product
	productOrder []string // insertion order, oldest first
	auctions     map[string]model.Auction
	auctionOrder []string
	bids         map[string][]model.Bid // key: auctionID -> bids in acceptance order
	prefs        map[int64]model.UserPreference
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		products: make(map[string]model.Product),
		auctions: make(map[string]model.Auction),
		bids:     make(map[string][]model.Bid),
		prefs:    make(map[int64]model.UserPreference),
	}
}

// --- AuctionDB ---

// CreateAuction stores a new auction
func (r *MemoryRepo) CreateAuction(auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auction.AuctionID]; !ok {
		r.auctionOrder = append(r.auctionOrder, auction.AuctionID)
	}
	r.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns an auction by id
func (r *MemoryRepo) GetAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, shoperrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns active auctions by soonest end first, or all newest-first
func (r *MemoryRepo) ListAuctions(onlyActive bool, now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if onlyActive {
		var active []model.Auction
		for _, id := range r.auctionOrder {
			a := r.auctions[id]
			if !a.Finished && a.EndTimestamp.After(now) {
				active = append(active, a)
			}
		}
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].EndTimestamp.Before(active[j].EndTimestamp)
		})
		return active, nil
	}

	all := make([]model.Auction, 0, len(r.auctionOrder))
	for i := len(r.auctionOrder) - 1; i >= 0; i-- {
		all = append(all, r.auctions[r.auctionOrder[i]])
	}
	return all, nil
}

// ListDueAuctions returns unfinished auctions past their end timestamp
func (r *MemoryRepo) ListDueAuctions(now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []model.Auction
	for _, id := range r.auctionOrder {
		a := r.auctions[id]
		if !a.Finished && !a.EndTimestamp.After(now) {
			due = append(due, a)
		}
	}
	return due, nil
}

// AppendBid records an accepted bid and raises the auction's current price
func (r *MemoryRepo) AppendBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[bid.AuctionID]
	if !ok {
		return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, shoperrors.ErrAuctionNotFound)
	}

	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
	if bid.Amount > auction.CurrentPrice {
		auction.CurrentPrice = bid.Amount
		r.auctions[bid.AuctionID] = auction
	}
	return nil
}

// FinishAuction flips the finished flag. Already-finished auctions are a no-op.
func (r *MemoryRepo) FinishAuction(auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("finish auction %s: %w", auctionID, shoperrors.ErrAuctionNotFound)
	}
	auction.Finished = true
	r.auctions[auctionID] = auction
	return nil
}

// GetBidsByAuction returns all bids for an auction, highest amount first,
// earlier bid first on equal amounts
func (r *MemoryRepo) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, shoperrors.ErrAuctionNotFound)
	}

	bids := append([]model.Bid(nil), r.bids[auctionID]...)
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction, earliest on ties
func (r *MemoryRepo) GetWinningBid(auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, shoperrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// --- CatalogDB ---

// AddProduct stores a new product
func (r *MemoryRepo) AddProduct(product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ProductID]; !ok {
		r.productOrder = append(r.productOrder, product.ProductID)
	}
	r.products[product.ProductID] = product
	return nil
}

// GetProduct returns a product by id
func (r *MemoryRepo) GetProduct(productID string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, shoperrors.ErrProductNotFound)
	}
	return product, nil
}

// ListProducts returns products newest-first, optionally only unsold ones
func (r *MemoryRepo) ListProducts(onlyAvailable bool) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.productOrder))
	for i := len(r.productOrder) - 1; i >= 0; i-- {
		p := r.products[r.productOrder[i]]
		if onlyAvailable && p.Sold {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// MarkSold marks a product as sold. Re-marking a sold product is a no-op.
func (r *MemoryRepo) MarkSold(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("mark product %s sold: %w", productID, shoperrors.ErrProductNotFound)
	}
	product.Sold = true
	r.products[productID] = product
	return nil
}

// DeleteProduct removes a product
func (r *MemoryRepo) DeleteProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("delete product %s: %w", productID, shoperrors.ErrProductNotFound)
	}
	delete(r.products, productID)
	for i, id := range r.productOrder {
		if id == productID {
			r.productOrder = append(r.productOrder[:i], r.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// --- PreferenceDB ---

// GetPreference returns a stored preference row
func (r *MemoryRepo) GetPreference(tgID int64) (model.UserPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[tgID]
	if !ok {
		return model.UserPreference{}, fmt.Errorf("get preference for %d: %w", tgID, shoperrors.ErrPrefNotFound)
	}
	return pref, nil
}

// UpsertPreference creates or replaces a preference row
func (r *MemoryRepo) UpsertPreference(pref model.UserPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[pref.TgID] = pref
	return nil
}
