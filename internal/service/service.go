// Package service implements the business logic of the storefront.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// ProductRepository is the catalog store contract, including the stock
// ledger operations.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
	ReserveStock(ctx context.Context, items []model.OrderItem) error
	ReleaseStock(ctx context.Context, items []model.OrderItem) error
}

// OrderRepository is the order store contract.
type OrderRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetByNo(ctx context.Context, orderNo string) (*model.Order, error)
	GetByNoForUser(ctx context.Context, orderNo, userID string) (*model.Order, error)
	Create(ctx context.Context, o model.Order) error
	Update(ctx context.Context, o model.Order) error
	Delete(ctx context.Context, orderNo string) error
}

// UserRepository is the account store contract.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository is the session store contract.
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	GetActive(ctx context.Context, token string, now time.Time) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Service contains the storefront business logic.
type Service struct {
	products ProductRepository
	orders   OrderRepository
	users    UserRepository
	sessions SessionRepository

	// now is replaceable in tests; the tracking status and card expiry
	// both derive from it.
	now func() time.Time
}

// NewService creates the service over the given repositories.
func NewService(products ProductRepository, orders OrderRepository, users UserRepository, sessions SessionRepository) *Service {
	return &Service{
		products: products,
		orders:   orders,
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// normalizeText trims the value and strips angle brackets.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newOrderNo builds an order number in the form GS-<stamp>-<3 digits>.
func newOrderNo(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if len(stamp) > 8 {
		stamp = stamp[len(stamp)-8:]
	}
	return fmt.Sprintf("GS-%s-%d", stamp, mathrand.IntN(900)+100)
}

func newUserID(now time.Time) string {
	return fmt.Sprintf("USR-%s-%d", strconv.FormatInt(now.UnixMilli(), 36), mathrand.IntN(9000)+1000)
}

func newProductID(now time.Time) string {
	return fmt.Sprintf("urun-%s-%d", strconv.FormatInt(now.UnixMilli(), 36), mathrand.IntN(9000)+1000)
}

// newSessionToken returns 32 random bytes hex encoded.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
