package helpers

// Request/Response DTOs. Monetary fields are int64 minor currency units.

type PlaceBidRequest struct {
	AuctionID string `json:"auction_id" binding:"required"`
	BidderID  string `json:"bidder_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type CreateAuctionRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	StartPrice      int64  `json:"start_price" binding:"gte=0"`
	Step            int64  `json:"step" binding:"gte=0"`
	DurationSeconds int64  `json:"duration_seconds" binding:"required,gt=0"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       int64    `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"required,oneof=weapon agent"`
	FloatValue  *float64 `json:"float_value"`
	Link        *string  `json:"link"`
}

type BuyProductRequest struct {
	TgID int64 `json:"tg_id" binding:"required"`
}

type SetPreferenceRequest struct {
	Lang  *string `json:"lang" binding:"omitempty,min=2"`
	Theme *string `json:"theme" binding:"omitempty,oneof=dark light"`
}
