// Package memstore keeps the catalog, accounts and orders in process
// memory. It backs STORE_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/auth"
	"storefront/catalog"
	"storefront/models"
)

type productRow struct {
	seq     int64
	product models.Product
}

type Store struct {
	mu       sync.RWMutex
	seq      int64
	products map[string]productRow
	users    map[string]models.User
	orders   map[string]models.Order
}

func New() *Store {
	return &Store{
		products: make(map[string]productRow),
		users:    make(map[string]models.User),
		orders:   make(map[string]models.Order),
	}
}

func (s *Store) Products() *Products { return &Products{s} }
func (s *Store) Users() *Users       { return &Users{s} }
func (s *Store) Orders() *Orders     { return &Orders{s} }

type Products struct{ s *Store }

// sorted returns rows newest first; insertion order breaks ties.
func (r *Products) sorted() []productRow {
	rows := make([]productRow, 0, len(r.s.products))
	for _, row := range r.s.products {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})
	return rows
}

func (r *Products) Find(_ context.Context, q catalog.Query) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Product
	for _, row := range r.sorted() {
		if q.Matches(row.product) {
			matched = append(matched, clone(row.product))
		}
	}

	total := int64(len(matched))
	start := q.Offset()
	if start < 0 || start >= total {
		return []models.Product{}, total, nil
	}
	end := start + q.Limit()
	if end > total || end < start {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Products) FindAll(_ context.Context) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Product, 0, len(r.s.products))
	for _, row := range r.sorted() {
		out = append(out, clone(row.product))
	}
	return out, nil
}

func (r *Products) FindByID(_ context.Context, id string) (models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.products[id]
	if !ok {
		return models.Product{}, catalog.ErrNotFound
	}
	return clone(row.product), nil
}

func (r *Products) Insert(_ context.Context, p models.Product) (models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq++
	p.ID = uuid.NewString()
	r.s.products[p.ID] = productRow{seq: r.s.seq, product: clone(p)}
	return clone(p), nil
}

func (r *Products) Update(_ context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.products[id]
	if !ok {
		return models.Product{}, catalog.ErrNotFound
	}
	row.product.Apply(patch)
	row.product.UpdatedAt = updatedAt
	r.s.products[id] = row
	return clone(row.product), nil
}

func (r *Products) Delete(_ context.Context, id string) (models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.products[id]
	if !ok {
		return models.Product{}, catalog.ErrNotFound
	}
	delete(r.s.products, id)
	return row.product, nil
}

type Users struct{ s *Store }

func (r *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, auth.ErrUserNotFound
}

func (r *Users) FindByVerifyToken(_ context.Context, token string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.VerifyToken != "" && u.VerifyToken == token {
			return u, nil
		}
	}
	return models.User{}, auth.ErrUserNotFound
}

func (r *Users) Insert(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return models.User{}, auth.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	r.s.users[u.ID] = u
	return u, nil
}

func (r *Users) MarkVerified(_ context.Context, id, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.VerifyToken != token || token == "" {
		return auth.ErrUserNotFound
	}
	u.Verified = true
	u.VerifyToken = ""
	r.s.users[id] = u
	return nil
}

type Orders struct{ s *Store }

func (r *Orders) Insert(_ context.Context, o models.Order) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.ID = uuid.NewString()
	r.s.orders[o.ID] = o
	return o, nil
}

// Count reports how many orders are stored.
func (r *Orders) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.orders)
}

// clone copies the slices a caller could otherwise mutate in place.
func clone(p models.Product) models.Product {
	p.Images = cloneStrings(p.Images)
	p.Categories = cloneStrings(p.Categories)
	p.Tags = cloneStrings(p.Tags)
	p.Sizes = cloneStrings(p.Sizes)
	p.Colors = cloneStrings(p.Colors)
	if p.Variants != nil {
		p.Variants = append(make([]models.Variant, 0, len(p.Variants)), p.Variants...)
	}
	return p
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
