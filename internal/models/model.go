package models

import "time"

// Prices and bid amounts are carried as int64 minor currency units so that
// comparisons stay exact.

// Product categories known to the shop.
const (
	CategoryWeapon = "weapon"
	CategoryAgent  = "agent"
)

// Product represents an item in the shop catalog
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	FloatValue  *float64  `json:"float_value,omitempty"` // weapon wear, weapons only
	Link        *string   `json:"link,omitempty"`
	Sold        bool      `json:"sold"`
	CreatedAt   time.Time `json:"created_at"`
}

// Auction represents a timed lot. CurrentPrice never decreases: it equals the
// highest accepted bid, or StartPrice while there are no bids.
type Auction struct {
	AuctionID    string    `json:"auction_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartPrice   int64     `json:"start_price"`
	Step         int64     `json:"step"` // suggested increment, shown to bidders but not enforced
	CurrentPrice int64     `json:"current_price"`
	EndTimestamp time.Time `json:"end_timestamp"`
	Finished     bool      `json:"finished"`
	CreatedAt    time.Time `json:"created_at"`
}

// Bid represents an accepted bid on an auction. Bids are append-only.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// UserPreference holds a Telegram user's language and theme choice
type UserPreference struct {
	TgID      int64     `json:"tg_id"`
	Lang      string    `json:"lang"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClosedAuction is the outcome of one auction closed by the sweep.
// WinningBid is nil when the auction ended with no bids.
type ClosedAuction struct {
	Auction    Auction `json:"auction"`
	WinningBid *Bid    `json:"winning_bid,omitempty"`
}
