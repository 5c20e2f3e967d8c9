package repository

import (
	"context"
	"fmt"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// OrderRepository stores placed orders.
type OrderRepository struct {
	file *jsonFile[model.Order]
}

// NewOrderRepository opens (or creates) the orders collection.
func NewOrderRepository(path string) (*OrderRepository, error) {
	file, err := newJSONFile[model.Order](path)
	if err != nil {
		return nil, err
	}
	return &OrderRepository{file: file}, nil
}

// List returns all orders.
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.file.load()
}

// ListByUser returns the orders placed by the given user.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := r.file.load()
	if err != nil {
		return nil, err
	}

	var out []model.Order
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// GetByNo returns the order with the given number.
func (r *OrderRepository) GetByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	orders, err := r.file.load()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderNo == orderNo {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// GetByNoForUser returns the order only if it belongs to the user.
func (r *OrderRepository) GetByNoForUser(ctx context.Context, orderNo, userID string) (*model.Order, error) {
	order, err := r.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Create appends a new order. Order numbers are unique.
func (r *OrderRepository) Create(ctx context.Context, o model.Order) error {
	return r.file.update(func(orders []model.Order) ([]model.Order, error) {
		for _, existing := range orders {
			if existing.OrderNo == o.OrderNo {
				return nil, fmt.Errorf("%w: %s", ErrOrderExists, o.OrderNo)
			}
		}
		return append(orders, o), nil
	})
}

// Update replaces the order with the same number.
func (r *OrderRepository) Update(ctx context.Context, o model.Order) error {
	return r.file.update(func(orders []model.Order) ([]model.Order, error) {
		for i := range orders {
			if orders[i].OrderNo == o.OrderNo {
				orders[i] = o
				return orders, nil
			}
		}
		return nil, ErrOrderNotFound
	})
}

// Delete removes the order with the given number. Used to roll back an
// order whose stock reservation failed after the order was persisted.
func (r *OrderRepository) Delete(ctx context.Context, orderNo string) error {
	return r.file.update(func(orders []model.Order) ([]model.Order, error) {
		for i := range orders {
			if orders[i].OrderNo == orderNo {
				return append(orders[:i], orders[i+1:]...), nil
			}
		}
		return nil, ErrOrderNotFound
	})
}
