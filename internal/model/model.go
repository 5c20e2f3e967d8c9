// Package model contains the domain entities of the storefront service.
package model

import "time"

// Product is a catalog item. Stock is mutated only through the order
// lifecycle (reserve on creation, release on cancellation) and never
// goes negative. Prices are whole Turkish Lira.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       int      `json:"price"`
	OldPrice    int      `json:"oldPrice"`
	Image       string   `json:"image"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Description string   `json:"description"`
	Featured    bool     `json:"featured"`
	New         bool     `json:"new"`
}

// HasSize reports whether the size is one of the product's declared sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// User is a registered customer or administrator.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	IsAdmin      bool      `json:"isAdmin,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the user representation returned to clients, without the
// password hash.
type PublicUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-safe view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// Session is an opaque bearer-token session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Active reports whether the session has not yet expired.
func (s Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Customer is the delivery contact recorded on an order.
type Customer struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
}

// OrderItem is a priced order line.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
	LineTotal int    `json:"lineTotal"`
}

// Payment methods accepted at checkout.
const (
	PaymentMethodCard           = "Kredi Karti"
	PaymentMethodCashOnDelivery = "Kapida Odeme"
)

// PaymentSnapshot is the redacted payment record stored on an order.
// For card payments only the holder name, brand, last four digits and
// the synthetic approval code are kept; the raw number, expiry and CVV
// are never persisted.
type PaymentSnapshot struct {
	Method       string `json:"method"`
	CardHolder   string `json:"cardHolder,omitempty"`
	CardBrand    string `json:"cardBrand,omitempty"`
	CardLast4    string `json:"cardLast4,omitempty"`
	ApprovalCode string `json:"approvalCode,omitempty"`
}

// OrderStatus is a persisted or derived order phase.
type OrderStatus string

const (
	StatusPreparing OrderStatus = "Hazirlaniyor"
	StatusShipped   OrderStatus = "Kargoya Verildi"
	StatusInTransit OrderStatus = "Yolda"
	StatusDelivered OrderStatus = "Teslim Edildi"
	StatusCancelled OrderStatus = "Iptal Edildi"
)

// ValidAdminStatus reports whether the status may be set through the
// admin status update. Cancellation goes through the cancel endpoints.
func ValidAdminStatus(s OrderStatus) bool {
	switch s {
	case StatusPreparing, StatusShipped, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// Shipping cost rule: orders at or above the threshold ship free.
const (
	FreeShippingThreshold = 1500
	ShippingFee           = 79
)

// ShippingFor returns the shipping cost for the given subtotal.
func ShippingFor(subtotal int) int {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

// Order is a placed order. After creation only Status, Cancelled and
// CancelledAt change (admin status update or cancellation).
type Order struct {
	OrderNo       string          `json:"orderNo"`
	UserID        string          `json:"userId"`
	CreatedAt     time.Time       `json:"createdAt"`
	Customer      Customer        `json:"customer"`
	Items         []OrderItem     `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	Payment       PaymentSnapshot `json:"payment"`
	Subtotal      int             `json:"subtotal"`
	Shipping      int             `json:"shipping"`
	Total         int             `json:"total"`
	Status        OrderStatus     `json:"status"`
	Cancelled     bool            `json:"cancelled"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
}

// TrackingStatus derives the shipment phase from the order's age. It is
// computed on every read and never stored, independently of the
// admin-settable Status field.
func (o Order) TrackingStatus(now time.Time) OrderStatus {
	age := now.Sub(o.CreatedAt)

	switch {
	case age < 2*time.Hour:
		return StatusPreparing
	case age < 24*time.Hour:
		return StatusShipped
	case age < 72*time.Hour:
		return StatusInTransit
	}
	return StatusDelivered
}

// TrackedOrder is an order together with its derived tracking status,
// as returned by the read endpoints.
type TrackedOrder struct {
	Order
	TrackingStatus OrderStatus `json:"trackingStatus"`
}

// WithTracking attaches the derived tracking status to the order.
func (o Order) WithTracking(now time.Time) TrackedOrder {
	return TrackedOrder{
		Order:          o,
		TrackingStatus: o.TrackingStatus(now),
	}
}
