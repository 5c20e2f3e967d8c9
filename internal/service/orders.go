package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/payment"
	"github.com/giyimsepeti/storefront-system/internal/repository"
)

// Cancellation and status update failures.
var (
	ErrAlreadyCancelled = errors.New("Bu siparis zaten iptal edilmis.")
	ErrNotCancellable   = errors.New("Teslim edilmis siparisler iptal edilemez.")
	ErrInvalidStatus    = errors.New("Gecersiz durum degeri.")
)

// OrderError is a checkout validation failure reported to the caller.
type OrderError struct {
	Message       string
	MissingFields []string
}

func (e *OrderError) Error() string { return e.Message }

// CartLine is one requested cart entry, supplied by the caller per
// request and never persisted.
type CartLine struct {
	ProductID string
	Size      string
	Quantity  int
}

// CustomerInput is the delivery contact submitted at checkout. Name and
// phone fall back to the account values; email always comes from the
// account.
type CustomerInput struct {
	FullName   string
	Phone      string
	Address    string
	City       string
	District   string
	PostalCode string
}

// CreateOrderInput is a checkout request.
type CreateOrderInput struct {
	Customer      CustomerInput
	Items         []CartLine
	PaymentMethod string
	Card          *payment.CardInput
}

// CreateOrder validates and places an order for the user. Validation is
// all or nothing: customer fields, a non-empty cart, every line
// (product, size, quantity, stock) and the card payment must all pass
// before anything is written. On success the order is persisted and
// stock is reserved for every line.
func (s *Service) CreateOrder(ctx context.Context, user *model.User, in CreateOrderInput) (*model.TrackedOrder, error) {
	now := s.now()

	customer := model.Customer{
		FullName:   firstNonEmpty(normalizeText(in.Customer.FullName), user.FullName),
		Email:      user.Email,
		Phone:      firstNonEmpty(normalizeText(in.Customer.Phone), user.Phone),
		Address:    normalizeText(in.Customer.Address),
		City:       normalizeText(in.Customer.City),
		District:   normalizeText(in.Customer.District),
		PostalCode: normalizeText(in.Customer.PostalCode),
	}

	if missing := missingCustomerFields(customer); len(missing) > 0 {
		return nil, &OrderError{Message: "Musteri bilgileri eksik.", MissingFields: missing}
	}

	if len(in.Items) == 0 {
		return nil, &OrderError{Message: "Sepet bos olamaz."}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	productByID := make(map[string]model.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	subtotal := 0

	// Lines for the same product in different sizes draw from one stock
	// pool, so quantities accumulate across lines.
	requested := make(map[string]int, len(in.Items))

	for _, line := range in.Items {
		productID := normalizeText(line.ProductID)
		size := normalizeText(line.Size)

		product, ok := productByID[productID]
		if !ok {
			return nil, &OrderError{Message: fmt.Sprintf("Urun bulunamadi: %s", productID)}
		}
		if size == "" || !product.HasSize(size) {
			return nil, &OrderError{Message: fmt.Sprintf("Beden gecersiz: %s", product.Name)}
		}
		if line.Quantity <= 0 {
			return nil, &OrderError{Message: fmt.Sprintf("Adet gecersiz: %s", product.Name)}
		}
		requested[productID] += line.Quantity
		if requested[productID] > product.Stock {
			return nil, &OrderError{
				Message: fmt.Sprintf("Yetersiz stok: %s. Kalan stok: %d", product.Name, product.Stock),
			}
		}

		lineTotal := product.Price * line.Quantity
		subtotal += lineTotal

		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      size,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
	}

	method := firstNonEmpty(normalizeText(in.PaymentMethod), model.PaymentMethodCashOnDelivery)
	snapshot := model.PaymentSnapshot{Method: method}

	if method == model.PaymentMethodCard {
		var card payment.CardInput
		if in.Card != nil {
			card = *in.Card
		}
		snap, err := payment.ValidateCard(card, now)
		if err != nil {
			return nil, &OrderError{Message: err.Error()}
		}
		snapshot = snap
	}

	shipping := model.ShippingFor(subtotal)

	order := model.Order{
		OrderNo:       newOrderNo(now),
		UserID:        user.ID,
		CreatedAt:     now,
		Customer:      customer,
		Items:         items,
		PaymentMethod: method,
		Payment:       snapshot,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal + shipping,
		Status:        model.StatusPreparing,
	}

	// A colliding order number is retried with a fresh one.
	for attempt := 0; ; attempt++ {
		err := s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrOrderExists) || attempt >= 5 {
			return nil, err
		}
		order.OrderNo = newOrderNo(now)
	}

	// Stock is reserved after the order is persisted. A concurrent
	// checkout may have depleted stock since validation; ReserveStock
	// re-checks under the product lock and the order is rolled back on
	// failure.
	if err := s.products.ReserveStock(ctx, order.Items); err != nil {
		_ = s.orders.Delete(ctx, order.OrderNo)

		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, &OrderError{Message: stockErr.Error()}
		}
		return nil, err
	}

	tracked := order.WithTracking(now)
	return &tracked, nil
}

func missingCustomerFields(c model.Customer) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"fullName", c.FullName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"district", c.District},
		{"postalCode", c.PostalCode},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// OrdersByUser returns the user's orders, newest first, with the
// derived tracking status attached.
func (s *Service) OrdersByUser(ctx context.Context, userID string) ([]model.TrackedOrder, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.trackAndSort(orders), nil
}

// TrackOrder returns one of the user's orders with its tracking status.
func (s *Service) TrackOrder(ctx context.Context, userID, orderNo string) (*model.TrackedOrder, error) {
	order, err := s.orders.GetByNoForUser(ctx, normalizeText(orderNo), userID)
	if err != nil {
		return nil, err
	}
	tracked := order.WithTracking(s.now())
	return &tracked, nil
}

// CancelOrder cancels one of the user's own orders. Orders already
// cancelled are rejected, as are orders whose derived tracking status
// says they were delivered.
func (s *Service) CancelOrder(ctx context.Context, userID, orderNo string) (*model.TrackedOrder, error) {
	order, err := s.orders.GetByNoForUser(ctx, normalizeText(orderNo), userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if order.Cancelled {
		return nil, ErrAlreadyCancelled
	}
	if order.TrackingStatus(now) == model.StatusDelivered {
		return nil, ErrNotCancellable
	}

	return s.cancel(ctx, *order, now)
}

// AdminCancelOrder cancels any order regardless of owner. Unlike the
// self-service path it does not refuse delivered orders.
func (s *Service) AdminCancelOrder(ctx context.Context, orderNo string) (*model.TrackedOrder, error) {
	order, err := s.orders.GetByNo(ctx, normalizeText(orderNo))
	if err != nil {
		return nil, err
	}

	if order.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	return s.cancel(ctx, *order, s.now())
}

// cancel restores stock for every line and marks the order cancelled.
func (s *Service) cancel(ctx context.Context, order model.Order, now time.Time) (*model.TrackedOrder, error) {
	if err := s.products.ReleaseStock(ctx, order.Items); err != nil {
		return nil, err
	}

	order.Cancelled = true
	order.Status = model.StatusCancelled
	cancelledAt := now
	order.CancelledAt = &cancelledAt

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	tracked := order.WithTracking(now)
	return &tracked, nil
}

// AdminListOrders returns every order, newest first, with tracking.
func (s *Service) AdminListOrders(ctx context.Context) ([]model.TrackedOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.trackAndSort(orders), nil
}

// AdminUpdateOrderStatus sets the persisted status to one of the four
// non-cancelled states. Setting a status on a cancelled order resets
// its cancelled flag; stock is not re-reserved.
func (s *Service) AdminUpdateOrderStatus(ctx context.Context, orderNo string, status model.OrderStatus) (*model.TrackedOrder, error) {
	if !model.ValidAdminStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.GetByNo(ctx, normalizeText(orderNo))
	if err != nil {
		return nil, err
	}

	order.Status = status
	if order.Cancelled {
		order.Cancelled = false
	}

	if err := s.orders.Update(ctx, *order); err != nil {
		return nil, err
	}

	tracked := order.WithTracking(s.now())
	return &tracked, nil
}

func (s *Service) trackAndSort(orders []model.Order) []model.TrackedOrder {
	now := s.now()

	out := make([]model.TrackedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.WithTracking(now))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
