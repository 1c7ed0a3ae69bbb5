package shoperrors

import "errors"

// Repository-level errors
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrNoBids           = errors.New("no bids found for auction")
	ErrPrefNotFound     = errors.New("preference not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// business logic errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrAuctionClosed = errors.New("auction closed")
)
