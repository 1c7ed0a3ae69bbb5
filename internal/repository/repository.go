package repository

import (
	"time"

	model "auction-shop/internal/models"
)

// AuctionDB defines auction and bid storage for the auction engine
type AuctionDB interface {
	CreateAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	// ListAuctions returns active auctions ordered by soonest end first when
	// onlyActive is set, otherwise all auctions newest-first.
	ListAuctions(onlyActive bool, now time.Time) ([]model.Auction, error)
	// ListDueAuctions returns unfinished auctions whose end timestamp has passed.
	ListDueAuctions(now time.Time) ([]model.Auction, error)
	// AppendBid records an accepted bid and raises the auction's current price
	// to the bid amount as one update.
	AppendBid(bid model.Bid) error
	FinishAuction(auctionID string) error
	GetBidsByAuction(auctionID string) ([]model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
}

// CatalogDB defines product storage for the shop catalog
type CatalogDB interface {
	AddProduct(product model.Product) error
	GetProduct(productID string) (model.Product, error)
	ListProducts(onlyAvailable bool) ([]model.Product, error)
	MarkSold(productID string) error
	DeleteProduct(productID string) error
}

// PreferenceDB defines per-user language/theme storage
type PreferenceDB interface {
	GetPreference(tgID int64) (model.UserPreference, error)
	UpsertPreference(pref model.UserPreference) error
}
