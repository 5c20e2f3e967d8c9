package repository

import (
	"context"
	"fmt"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// ProductRepository stores the product catalog and acts as the stock
// ledger: stock only changes through ReserveStock and ReleaseStock.
type ProductRepository struct {
	file *jsonFile[model.Product]
}

// NewProductRepository opens (or creates) the products collection.
func NewProductRepository(path string) (*ProductRepository, error) {
	file, err := newJSONFile[model.Product](path)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{file: file}, nil
}

// List returns all products.
func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.file.load()
}

// Get returns the product with the given id.
func (r *ProductRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	products, err := r.file.load()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// Create appends a new product to the catalog.
func (r *ProductRepository) Create(ctx context.Context, p model.Product) error {
	return r.file.update(func(products []model.Product) ([]model.Product, error) {
		return append(products, p), nil
	})
}

// Update replaces the product with the same id.
func (r *ProductRepository) Update(ctx context.Context, p model.Product) error {
	return r.file.update(func(products []model.Product) ([]model.Product, error) {
		for i := range products {
			if products[i].ID == p.ID {
				products[i] = p
				return products, nil
			}
		}
		return nil, ErrProductNotFound
	})
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.file.update(func(products []model.Product) ([]model.Product, error) {
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, ErrProductNotFound
	})
}

// ReserveStock decrements stock for every order line, all or nothing.
// Quantities for the same product accumulate across lines (one product
// ordered in two sizes draws from one stock pool); if any accumulated
// total exceeds the available stock the whole reservation fails with an
// InsufficientStockError and no stock is touched.
func (r *ProductRepository) ReserveStock(ctx context.Context, items []model.OrderItem) error {
	return r.file.update(func(products []model.Product) ([]model.Product, error) {
		index := make(map[string]int, len(products))
		for i, p := range products {
			index[p.ID] = i
		}

		needed := make(map[string]int, len(items))
		for _, item := range items {
			i, ok := index[item.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			needed[item.ProductID] += item.Quantity
			if needed[item.ProductID] > products[i].Stock {
				return nil, &InsufficientStockError{
					ProductID: products[i].ID,
					Name:      products[i].Name,
					Requested: needed[item.ProductID],
					Available: products[i].Stock,
				}
			}
		}

		for id, quantity := range needed {
			products[index[id]].Stock -= quantity
		}
		return products, nil
	})
}

// ReleaseStock increments stock for every order line, unconditionally.
// Lines referencing products that no longer exist are skipped.
func (r *ProductRepository) ReleaseStock(ctx context.Context, items []model.OrderItem) error {
	return r.file.update(func(products []model.Product) ([]model.Product, error) {
		index := make(map[string]int, len(products))
		for i, p := range products {
			index[p.ID] = i
		}

		for _, item := range items {
			if i, ok := index[item.ProductID]; ok {
				products[i].Stock += item.Quantity
			}
		}
		return products, nil
	})
}
