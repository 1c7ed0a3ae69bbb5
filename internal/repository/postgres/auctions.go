package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	model "auction-shop/internal/models"
	"auction-shop/internal/shoperrors"
)

const auctionColumns = `id, title, description, start_price, step, current_price, end_timestamp, finished, created_at`

// CreateAuction stores a new auction
func (s *Storage) CreateAuction(auction model.Auction) error {
	query := `
		INSERT INTO auctions (` + auctionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := withRetry(func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, query,
			auction.AuctionID, auction.Title, auction.Description,
			auction.StartPrice, auction.Step, auction.CurrentPrice,
			auction.EndTimestamp, auction.Finished, auction.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("repository: create auction: %w", err)
	}
	return nil
}

// GetAuction returns an auction by id
func (s *Storage) GetAuction(auctionID string) (model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`

	var auction model.Auction
	err := withRetry(func(ctx context.Context) error {
		return s.db.QueryRow(ctx, query, auctionID).Scan(
			&auction.AuctionID, &auction.Title, &auction.Description,
			&auction.StartPrice, &auction.Step, &auction.CurrentPrice,
			&auction.EndTimestamp, &auction.Finished, &auction.CreatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, shoperrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("repository: get auction: %w", err)
	}
	return auction, nil
}

// ListAuctions returns active auctions by soonest end first, or all newest-first
func (s *Storage) ListAuctions(onlyActive bool, now time.Time) ([]model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions ORDER BY created_at DESC`
	args := []any{}
	if onlyActive {
		query = `SELECT ` + auctionColumns + ` FROM auctions
			WHERE finished = FALSE AND end_timestamp > $1
			ORDER BY end_timestamp ASC`
		args = append(args, now)
	}

	var auctions []model.Auction
	err := withRetry(func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		auctions = nil
		for rows.Next() {
			var a model.Auction
			if err := rows.Scan(
				&a.AuctionID, &a.Title, &a.Description,
				&a.StartPrice, &a.Step, &a.CurrentPrice,
				&a.EndTimestamp, &a.Finished, &a.CreatedAt); err != nil {
				return err
			}
			auctions = append(auctions, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repository: list auctions: %w", err)
	}
	return auctions, nil
}

// ListDueAuctions returns unfinished auctions past their end timestamp
func (s *Storage) ListDueAuctions(now time.Time) ([]model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions
		WHERE finished = FALSE AND end_timestamp <= $1
		ORDER BY end_timestamp ASC`

	var auctions []model.Auction
	err := withRetry(func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query, now)
		if err != nil {
			return err
		}
		defer rows.Close()

		auctions = nil
		for rows.Next() {
			var a model.Auction
			if err := rows.Scan(
				&a.AuctionID, &a.Title, &a.Description,
				&a.StartPrice, &a.Step, &a.CurrentPrice,
				&a.EndTimestamp, &a.Finished, &a.CreatedAt); err != nil {
				return err
			}
			auctions = append(auctions, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repository: list due auctions: %w", err)
	}
	return auctions, nil
}

// AppendBid records an accepted bid and raises the auction's current price in
// one transaction.
func (s *Storage) AppendBid(bid model.Bid) error {
	err := withRetry(func(ctx context.Context) error {
		tx, err := s.db.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		tag, err := tx.Exec(ctx,
			`UPDATE auctions SET current_price = GREATEST(current_price, $2) WHERE id = $1`,
			bid.AuctionID, bid.Amount)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shoperrors.ErrAuctionNotFound
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bids (id, auction_id, bidder_identifier, amount, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			bid.BidID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if errors.Is(err, shoperrors.ErrAuctionNotFound) {
		return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, shoperrors.ErrAuctionNotFound)
	}
	if err != nil {
		return fmt.Errorf("repository: append bid: %w", err)
	}
	return nil
}

// FinishAuction flips the finished flag
func (s *Storage) FinishAuction(auctionID string) error {
	err := withRetry(func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, `UPDATE auctions SET finished = TRUE WHERE id = $1`, auctionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shoperrors.ErrAuctionNotFound
		}
		return nil
	})
	if errors.Is(err, shoperrors.ErrAuctionNotFound) {
		return fmt.Errorf("finish auction %s: %w", auctionID, shoperrors.ErrAuctionNotFound)
	}
	if err != nil {
		return fmt.Errorf("repository: finish auction: %w", err)
	}
	return nil
}

// GetBidsByAuction returns all bids for an auction, highest amount first,
// earlier bid first on equal amounts
func (s *Storage) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	if _, err := s.GetAuction(auctionID); err != nil {
		return nil, err
	}

	query := `SELECT id, auction_id, bidder_identifier, amount, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC`

	var bids []model.Bid
	err := withRetry(func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query, auctionID)
		if err != nil {
			return err
		}
		defer rows.Close()

		bids = nil
		for rows.Next() {
			var b model.Bid
			if err := rows.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
				return err
			}
			bids = append(bids, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repository: get bids: %w", err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction, earliest on ties
func (s *Storage) GetWinningBid(auctionID string) (model.Bid, error) {
	query := `SELECT id, auction_id, bidder_identifier, amount, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1`

	var bid model.Bid
	err := withRetry(func(ctx context.Context) error {
		return s.db.QueryRow(ctx, query, auctionID).Scan(
			&bid.BidID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.CreatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, shoperrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("repository: get winning bid: %w", err)
	}
	return bid, nil
}
