package notify

import (
	"fmt"
	"strconv"

	model "auction-shop/internal/models"
	"auction-shop/utils"
)

// Notifier delivers a single message to a single Telegram recipient
type Notifier interface {
	Notify(recipientID int64, message string) error
}

// Dispatcher formats outbound shop events and fans them out. Delivery
// failures are logged and swallowed: the state change that triggered a
// notification is already committed and must not be rolled back or retried
// because a recipient was unreachable.
type Dispatcher struct {
	notifier Notifier
	adminIDs []int64
}

// NewDispatcher creates a dispatcher delivering through the given notifier
func NewDispatcher(notifier Notifier, adminIDs []int64) *Dispatcher {
	return &Dispatcher{notifier: notifier, adminIDs: adminIDs}
}

// NotifyUser sends one message to one user, logging delivery failures
func (d *Dispatcher) NotifyUser(recipientID int64, message string) {
	if err := d.notifier.Notify(recipientID, message); err != nil {
		utils.Warn("notify: delivery to user failed", map[string]any{
			"recipient_id": recipientID,
			"error":        err.Error(),
		})
	}
}

// NotifyAdmins fans a message out to every configured admin. A failure for
// one admin does not stop delivery to the rest.
func (d *Dispatcher) NotifyAdmins(message string) {
	for _, adminID := range d.adminIDs {
		if err := d.notifier.Notify(adminID, message); err != nil {
			utils.Warn("notify: delivery to admin failed", map[string]any{
				"admin_id": adminID,
				"error":    err.Error(),
			})
		}
	}
}

// PurchaseRequested tells the admins a user wants to buy a product
func (d *Dispatcher) PurchaseRequested(product model.Product, buyerID int64) {
	d.NotifyAdmins(fmt.Sprintf(
		"Purchase request: %s (%s) from user %d", product.Name, FormatPrice(product.Price), buyerID))
}

// BidAccepted tells the admins a bid was accepted on an auction
func (d *Dispatcher) BidAccepted(auction model.Auction, bid model.Bid) {
	d.NotifyAdmins(fmt.Sprintf(
		"New bid on %q: %s by %s", auction.Title, FormatPrice(bid.Amount), bid.BidderID))
}

// AuctionClosed announces an auction's outcome to the admins and, when there
// is a winner whose bidder id is a Telegram id, to the winner.
func (d *Dispatcher) AuctionClosed(result model.ClosedAuction) {
	auction := result.Auction
	if result.WinningBid == nil {
		d.NotifyAdmins(fmt.Sprintf("Auction %q closed with no bids", auction.Title))
		return
	}

	bid := result.WinningBid
	d.NotifyAdmins(fmt.Sprintf(
		"Auction %q closed: winner %s at %s", auction.Title, bid.BidderID, FormatPrice(bid.Amount)))

	if winnerID, err := strconv.ParseInt(bid.BidderID, 10, 64); err == nil {
		d.NotifyUser(winnerID, fmt.Sprintf(
			"You won the auction %q with a bid of %s", auction.Title, FormatPrice(bid.Amount)))
	}
}

// FormatPrice renders minor currency units as a decimal string
func FormatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
