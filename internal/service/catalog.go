package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// ErrMissingProductFields is returned when a product is created without
// its required fields.
var ErrMissingProductFields = errors.New("Urun bilgileri eksik.")

const placeholderImage = "https://via.placeholder.com/400"

// ProductFilter narrows and orders a catalog listing.
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
}

// ListProducts returns the catalog filtered by category, text search
// and sort order. The default order puts featured products first.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(products))
	category := normalizeText(filter.Category)
	search := strings.ToLower(normalizeText(filter.Search))

	for _, p := range products {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}

	switch filter.Sort {
	case "price-asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price-desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "new":
		sort.SliceStable(out, func(i, j int) bool { return out[i].New && !out[j].New })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	}

	return out, nil
}

func matchesSearch(p model.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// GetProduct returns a single catalog item.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.products.Get(ctx, normalizeText(id))
}

// ProductInput is a new catalog item.
type ProductInput struct {
	Name        string
	Category    string
	Price       int
	OldPrice    int
	Image       string
	Stock       int
	Sizes       []string
	Description string
	Featured    bool
	New         bool
}

// CreateProduct adds a product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	name := normalizeText(in.Name)
	category := normalizeText(in.Category)
	description := normalizeText(in.Description)

	if name == "" || category == "" || in.Price <= 0 || len(in.Sizes) == 0 || description == "" {
		return nil, ErrMissingProductFields
	}

	oldPrice := in.OldPrice
	if oldPrice <= 0 {
		oldPrice = in.Price
	}
	image := normalizeText(in.Image)
	if image == "" {
		image = placeholderImage
	}
	stock := in.Stock
	if stock < 0 {
		stock = 0
	}

	product := model.Product{
		ID:          newProductID(s.now()),
		Name:        name,
		Category:    category,
		Price:       in.Price,
		OldPrice:    oldPrice,
		Image:       image,
		Stock:       stock,
		Sizes:       in.Sizes,
		Description: description,
		Featured:    in.Featured,
		New:         in.New,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductUpdate carries the fields to change; nil fields are left as
// they are.
type ProductUpdate struct {
	Name        *string
	Category    *string
	Price       *int
	OldPrice    *int
	Image       *string
	Stock       *int
	Sizes       []string
	Description *string
	Featured    *bool
	New         *bool
}

// UpdateProduct applies a partial update to a product.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*model.Product, error) {
	product, err := s.products.Get(ctx, normalizeText(id))
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = normalizeText(*in.Name)
	}
	if in.Category != nil {
		product.Category = normalizeText(*in.Category)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.OldPrice != nil {
		product.OldPrice = *in.OldPrice
	}
	if in.Image != nil {
		product.Image = normalizeText(*in.Image)
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Sizes != nil {
		product.Sizes = in.Sizes
	}
	if in.Description != nil {
		product.Description = normalizeText(*in.Description)
	}
	if in.Featured != nil {
		product.Featured = *in.Featured
	}
	if in.New != nil {
		product.New = *in.New
	}

	if err := s.products.Update(ctx, *product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, normalizeText(id))
}
