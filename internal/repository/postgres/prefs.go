package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	model "auction-shop/internal/models"
	"auction-shop/internal/shoperrors"
)

// GetPreference returns a stored preference row
func (s *Storage) GetPreference(tgID int64) (model.UserPreference, error) {
	query := `SELECT tg_id, lang, theme, updated_at FROM users WHERE tg_id = $1`

	var pref model.UserPreference
	err := withRetry(func(ctx context.Context) error {
		return s.db.QueryRow(ctx, query, tgID).Scan(
			&pref.TgID, &pref.Lang, &pref.Theme, &pref.UpdatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserPreference{}, fmt.Errorf("get preference for %d: %w", tgID, shoperrors.ErrPrefNotFound)
	}
	if err != nil {
		return model.UserPreference{}, fmt.Errorf("repository: get preference: %w", err)
	}
	return pref, nil
}

// UpsertPreference creates or replaces a preference row
func (s *Storage) UpsertPreference(pref model.UserPreference) error {
	query := `
		INSERT INTO users (tg_id, lang, theme, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tg_id) DO UPDATE
		SET lang = EXCLUDED.lang, theme = EXCLUDED.theme, updated_at = EXCLUDED.updated_at`

	err := withRetry(func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, query, pref.TgID, pref.Lang, pref.Theme, pref.UpdatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("repository: upsert preference: %w", err)
	}
	return nil
}
