package service

import (
	"context"
	"sync"
	"time"

	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/repository"
)

// In-memory fakes mirroring the repository semantics, including the
// all-or-nothing stock reservation.

type fakeProducts struct {
	items []model.Product
}

func (f *fakeProducts) List(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			p := f.items[i]
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeProducts) Create(ctx context.Context, p model.Product) error {
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p model.Product) error {
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = p
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (f *fakeProducts) ReserveStock(ctx context.Context, items []model.OrderItem) error {
	index := make(map[string]int, len(f.items))
	for i, p := range f.items {
		index[p.ID] = i
	}
	needed := make(map[string]int, len(items))
	for _, item := range items {
		i, ok := index[item.ProductID]
		if !ok {
			return repository.ErrProductNotFound
		}
		needed[item.ProductID] += item.Quantity
		if needed[item.ProductID] > f.items[i].Stock {
			return &repository.InsufficientStockError{
				ProductID: f.items[i].ID,
				Name:      f.items[i].Name,
				Requested: needed[item.ProductID],
				Available: f.items[i].Stock,
			}
		}
	}
	for id, quantity := range needed {
		f.items[index[id]].Stock -= quantity
	}
	return nil
}

func (f *fakeProducts) ReleaseStock(ctx context.Context, items []model.OrderItem) error {
	for i := range f.items {
		for _, item := range items {
			if f.items[i].ID == item.ProductID {
				f.items[i].Stock += item.Quantity
			}
		}
	}
	return nil
}

func (f *fakeProducts) stockOf(id string) int {
	for _, p := range f.items {
		if p.ID == id {
			return p.Stock
		}
	}
	return -1
}

type fakeOrders struct {
	items []model.Order

	// rejectCreates makes the next N Create calls fail with
	// ErrOrderExists, simulating order number collisions.
	rejectCreates int
}

func (f *fakeOrders) List(ctx context.Context) ([]model.Order, error) {
	out := make([]model.Order, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.items {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	for i := range f.items {
		if f.items[i].OrderNo == orderNo {
			o := f.items[i]
			return &o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (f *fakeOrders) GetByNoForUser(ctx context.Context, orderNo, userID string) (*model.Order, error) {
	o, err := f.GetByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrders) Create(ctx context.Context, o model.Order) error {
	if f.rejectCreates > 0 {
		f.rejectCreates--
		return repository.ErrOrderExists
	}
	for _, existing := range f.items {
		if existing.OrderNo == o.OrderNo {
			return repository.ErrOrderExists
		}
	}
	f.items = append(f.items, o)
	return nil
}

func (f *fakeOrders) Update(ctx context.Context, o model.Order) error {
	for i := range f.items {
		if f.items[i].OrderNo == o.OrderNo {
			f.items[i] = o
			return nil
		}
	}
	return repository.ErrOrderNotFound
}

func (f *fakeOrders) Delete(ctx context.Context, orderNo string) error {
	for i := range f.items {
		if f.items[i].OrderNo == orderNo {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrOrderNotFound
}

type fakeUsers struct {
	items []model.User
}

func (f *fakeUsers) List(ctx context.Context) ([]model.User, error) {
	return f.items, nil
}

func (f *fakeUsers) Create(ctx context.Context, u model.User) error {
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return repository.ErrUserExists
		}
	}
	f.items = append(f.items, u)
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for i := range f.items {
		if f.items[i].Email == email {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// fakeSessions is mutex guarded; the session sweeper accesses it from
// its own goroutine.
type fakeSessions struct {
	mu    sync.Mutex
	items []model.Session
}

func (f *fakeSessions) Create(ctx context.Context, s model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSessions) GetActive(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].Token == token && f.items[i].Active(now) {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f *fakeSessions) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].Token == token {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSessions) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := f.items[:0]
	removed := 0
	for _, s := range f.items {
		if s.Active(now) {
			active = append(active, s)
		} else {
			removed++
		}
	}
	f.items = active
	return removed, nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// testEnv bundles a service over fresh fakes with a fixed clock.
type testEnv struct {
	svc      *Service
	products *fakeProducts
	orders   *fakeOrders
	users    *fakeUsers
	sessions *fakeSessions
	now      time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		products: &fakeProducts{},
		orders:   &fakeOrders{},
		users:    &fakeUsers{},
		sessions: &fakeSessions{},
		now:      time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.products, env.orders, env.users, env.sessions)
	env.svc.now = func() time.Time { return env.now }
	return env
}
