package catalog

import (
	"errors"
	"testing"

	model "auction-shop/internal/models"
	"auction-shop/internal/repository"
	"auction-shop/internal/shoperrors"

	"github.com/stretchr/testify/require"
)

// Tests AddProduct
func TestStore_AddProduct(t *testing.T) {
	wear := 0.07

	tests := []struct {
		name          string
		productName   string
		price         int64
		category      string
		floatValue    *float64
		expectedError error
	}{
		{
			name:        "valid_weapon",
			productName: "AWP Dragon Lore",
			price:       250000,
			category:    model.CategoryWeapon,
			floatValue:  &wear,
		},
		{
			name:        "valid_agent",
			productName: "Sir Bloody Miami Darryl",
			price:       5000,
			category:    model.CategoryAgent,
		},
		{
			name:        "zero_price_is_valid",
			productName: "Giveaway",
			price:       0,
			category:    model.CategoryWeapon,
		},
		{
			name:          "empty_name",
			productName:   "",
			price:         100,
			category:      model.CategoryWeapon,
			expectedError: shoperrors.ErrInvalidInput,
		},
		{
			name:          "negative_price",
			productName:   "Broken",
			price:         -1,
			category:      model.CategoryWeapon,
			expectedError: shoperrors.ErrInvalidInput,
		},
		{
			name:          "unknown_category",
			productName:   "Mystery",
			price:         100,
			category:      "sticker",
			expectedError: shoperrors.ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			store := NewStore(repository.NewMemoryRepo())

			product, err := store.AddProduct(tc.productName, "desc", tc.price, tc.category, tc.floatValue, nil)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, product.ProductID)
			require.Equal(t, tc.price, product.Price)
			require.False(t, product.Sold)
		})
	}
}

// Tests that float value is dropped for non-weapon products
func TestStore_AddProduct_FloatValueOnlyForWeapons(t *testing.T) {
	store := NewStore(repository.NewMemoryRepo())
	wear := 0.15

	agent, err := store.AddProduct("Agent", "", 100, model.CategoryAgent, &wear, nil)
	require.NoError(t, err)
	require.Nil(t, agent.FloatValue)

	weapon, err := store.AddProduct("Weapon", "", 100, model.CategoryWeapon, &wear, nil)
	require.NoError(t, err)
	require.NotNil(t, weapon.FloatValue)
	require.Equal(t, wear, *weapon.FloatValue)
}

// Tests ListProducts ordering and availability filtering
func TestStore_ListProducts(t *testing.T) {
	store := NewStore(repository.NewMemoryRepo())

	first, err := store.AddProduct("first", "", 100, model.CategoryWeapon, nil, nil)
	require.NoError(t, err)
	second, err := store.AddProduct("second", "", 200, model.CategoryWeapon, nil, nil)
	require.NoError(t, err)
	third, err := store.AddProduct("third", "", 300, model.CategoryAgent, nil, nil)
	require.NoError(t, err)

	all, err := store.ListProducts(false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, third.ProductID, all[0].ProductID, "newest product must come first")
	require.Equal(t, second.ProductID, all[1].ProductID)
	require.Equal(t, first.ProductID, all[2].ProductID)

	require.NoError(t, store.MarkSold(second.ProductID))

	available, err := store.ListProducts(true)
	require.NoError(t, err)
	require.Len(t, available, 2)
	for _, p := range available {
		require.NotEqual(t, second.ProductID, p.ProductID)
	}
}

// Tests that MarkSold is a one-way idempotent transition
func TestStore_MarkSold_Idempotent(t *testing.T) {
	store := NewStore(repository.NewMemoryRepo())

	product, err := store.AddProduct("item", "", 100, model.CategoryWeapon, nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.MarkSold(product.ProductID))
	require.NoError(t, store.MarkSold(product.ProductID), "re-marking a sold product must succeed")

	got, err := store.GetProduct(product.ProductID)
	require.NoError(t, err)
	require.True(t, got.Sold)

	err = store.MarkSold("no-such-product")
	require.True(t, errors.Is(err, shoperrors.ErrProductNotFound), "expected ErrProductNotFound, got: %v", err)
}

// Tests DeleteProduct
func TestStore_DeleteProduct(t *testing.T) {
	store := NewStore(repository.NewMemoryRepo())

	product, err := store.AddProduct("item", "", 100, model.CategoryWeapon, nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteProduct(product.ProductID))

	_, err = store.GetProduct(product.ProductID)
	require.True(t, errors.Is(err, shoperrors.ErrProductNotFound))

	err = store.DeleteProduct(product.ProductID)
	require.True(t, errors.Is(err, shoperrors.ErrProductNotFound))
}
