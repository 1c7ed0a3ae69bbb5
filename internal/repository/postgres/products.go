package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	model "auction-shop/internal/models"
	"auction-shop/internal/shoperrors"
)

const productColumns = `id, name, description, price, category, float_value, link, sold, created_at`

// AddProduct stores a new product
func (s *Storage) AddProduct(product model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := withRetry(func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, query,
			product.ProductID, product.Name, product.Description,
			product.Price, product.Category, product.FloatValue,
			product.Link, product.Sold, product.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("repository: add product: %w", err)
	}
	return nil
}

// GetProduct returns a product by id
func (s *Storage) GetProduct(productID string) (model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product model.Product
	err := withRetry(func(ctx context.Context) error {
		return s.db.QueryRow(ctx, query, productID).Scan(
			&product.ProductID, &product.Name, &product.Description,
			&product.Price, &product.Category, &product.FloatValue,
			&product.Link, &product.Sold, &product.CreatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, shoperrors.ErrProductNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("repository: get product: %w", err)
	}
	return product, nil
}

// ListProducts returns products newest-first, optionally only unsold ones
func (s *Storage) ListProducts(onlyAvailable bool) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	if onlyAvailable {
		query = `SELECT ` + productColumns + ` FROM products WHERE sold = FALSE ORDER BY created_at DESC`
	}

	var products []model.Product
	err := withRetry(func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		products = nil
		for rows.Next() {
			var p model.Product
			if err := rows.Scan(
				&p.ProductID, &p.Name, &p.Description,
				&p.Price, &p.Category, &p.FloatValue,
				&p.Link, &p.Sold, &p.CreatedAt); err != nil {
				return err
			}
			products = append(products, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repository: list products: %w", err)
	}
	return products, nil
}

// MarkSold marks a product as sold. Re-marking a sold product is a no-op.
func (s *Storage) MarkSold(productID string) error {
	err := withRetry(func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, `UPDATE products SET sold = TRUE WHERE id = $1`, productID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shoperrors.ErrProductNotFound
		}
		return nil
	})
	if errors.Is(err, shoperrors.ErrProductNotFound) {
		return fmt.Errorf("mark product %s sold: %w", productID, shoperrors.ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("repository: mark product sold: %w", err)
	}
	return nil
}

// DeleteProduct removes a product
func (s *Storage) DeleteProduct(productID string) error {
	err := withRetry(func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shoperrors.ErrProductNotFound
		}
		return nil
	})
	if errors.Is(err, shoperrors.ErrProductNotFound) {
		return fmt.Errorf("delete product %s: %w", productID, shoperrors.ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("repository: delete product: %w", err)
	}
	return nil
}
