package catalog

import (
	"fmt"
	"time"

	model "auction-shop/internal/models"
	"auction-shop/internal/repository"
	"auction-shop/internal/shoperrors"
	"auction-shop/utils"
)

// Store defines the business logic for the shop catalog
type Store struct {
	repo repository.CatalogDB
	now  func() time.Time
}

// NewStore creates a new catalog Store instance
func NewStore(repo repository.CatalogDB) *Store {
	return &Store{repo: repo, now: time.Now}
}

// AddProduct validates and stores a new product
func (s *Store) AddProduct(name, description string, price int64, category string, floatValue *float64, link *string) (model.Product, error) {
	if name == "" {
		return model.Product{}, fmt.Errorf("service: %w - missing product name", shoperrors.ErrInvalidInput)
	}
	if price < 0 {
		return model.Product{}, fmt.Errorf("service: %w - negative price", shoperrors.ErrInvalidInput)
	}
	if category != model.CategoryWeapon && category != model.CategoryAgent {
		return model.Product{}, fmt.Errorf("service: %w - unknown category %q", shoperrors.ErrInvalidInput, category)
	}
	if category != model.CategoryWeapon {
		// float value is weapon wear, meaningless elsewhere
		floatValue = nil
	}

	product := model.Product{
		ProductID:   utils.GenerateID(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		FloatValue:  floatValue,
		Link:        link,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.AddProduct(product); err != nil {
		return model.Product{}, fmt.Errorf("service: failed to add product %q: %w", name, err)
	}
	return product, nil
}

// GetProduct returns a single product
func (s *Store) GetProduct(productID string) (model.Product, error) {
	if productID == "" {
		return model.Product{}, fmt.Errorf("service: %w - empty product ID", shoperrors.ErrInvalidInput)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return model.Product{}, fmt.Errorf("service: failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts returns products newest-first, optionally only unsold ones
func (s *Store) ListProducts(onlyAvailable bool) ([]model.Product, error) {
	products, err := s.repo.ListProducts(onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

// MarkSold transitions a product to sold. The transition is one-way and
// idempotent: re-marking an already-sold product succeeds without change.
func (s *Store) MarkSold(productID string) error {
	if productID == "" {
		return fmt.Errorf("service: %w - empty product ID", shoperrors.ErrInvalidInput)
	}

	if err := s.repo.MarkSold(productID); err != nil {
		return fmt.Errorf("service: failed to mark product %s sold: %w", productID, err)
	}
	return nil
}

// DeleteProduct removes a product from the catalog
func (s *Store) DeleteProduct(productID string) error {
	if productID == "" {
		return fmt.Errorf("service: %w - empty product ID", shoperrors.ErrInvalidInput)
	}

	if err := s.repo.DeleteProduct(productID); err != nil {
		return fmt.Errorf("service: failed to delete product %s: %w", productID, err)
	}
	return nil
}
