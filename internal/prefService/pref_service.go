package prefs

import (
	"errors"
	"fmt"
	"time"

	model "auction-shop/internal/models"
	"auction-shop/internal/repository"
	"auction-shop/internal/shoperrors"
)

// Store defines the business logic for per-user language/theme preferences
type Store struct {
	repo         repository.PreferenceDB
	defaultLang  string
	defaultTheme string
	now          func() time.Time
}

// NewStore creates a preference Store with the configured defaults
func NewStore(repo repository.PreferenceDB, defaultLang, defaultTheme string) *Store {
	return &Store{
		repo:         repo,
		defaultLang:  defaultLang,
		defaultTheme: defaultTheme,
		now:          time.Now,
	}
}

// Get returns the user's preferences, falling back to defaults when the user
// has never set any. Absence is not an error.
func (s *Store) Get(tgID int64) (model.UserPreference, error) {
	pref, err := s.repo.GetPreference(tgID)
	if errors.Is(err, shoperrors.ErrPrefNotFound) {
		return model.UserPreference{
			TgID:  tgID,
			Lang:  s.defaultLang,
			Theme: s.defaultTheme,
		}, nil
	}
	if err != nil {
		return model.UserPreference{}, fmt.Errorf("service: failed to get preferences for %d: %w", tgID, err)
	}
	return pref, nil
}

// Set creates or updates the user's preferences. Nil fields are left
// unchanged; lang and theme are independently settable.
func (s *Store) Set(tgID int64, lang, theme *string) (model.UserPreference, error) {
	pref, err := s.Get(tgID)
	if err != nil {
		return model.UserPreference{}, err
	}

	if lang != nil {
		pref.Lang = *lang
	}
	if theme != nil {
		pref.Theme = *theme
	}
	pref.UpdatedAt = s.now().UTC()

	if err := s.repo.UpsertPreference(pref); err != nil {
		return model.UserPreference{}, fmt.Errorf("service: failed to save preferences for %d: %w", tgID, err)
	}
	return pref, nil
}
