// Package memstore keeps every repository in process memory. Transactions
// snapshot the whole store and restore it when the callback fails.
package memstore

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/lib/pq"
)

type Store struct {
	mu sync.Mutex

	users      map[string]model.User
	categories map[string]model.Category
	products   map[string]model.Product
	addresses  map[string]model.Address
	cartItems  map[string]model.CartItem
	orders     map[string]model.Order
	orderItems map[string]model.OrderItem

	failOn map[string]error
}

func New() *Store {
	return &Store{
		users:      map[string]model.User{},
		categories: map[string]model.Category{},
		products:   map[string]model.Product{},
		addresses:  map[string]model.Address{},
		cartItems:  map[string]model.CartItem{},
		orders:     map[string]model.Order{},
		orderItems: map[string]model.OrderItem{},
		failOn:     map[string]error{},
	}
}

// FailOn makes the named operation, e.g. "orders.CreateItems", return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[op] = err
}

func (s *Store) fail(op string) error {
	return s.failOn[op]
}

type snapshot struct {
	users      map[string]model.User
	categories map[string]model.Category
	products   map[string]model.Product
	addresses  map[string]model.Address
	cartItems  map[string]model.CartItem
	orders     map[string]model.Order
	orderItems map[string]model.OrderItem
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:      maps.Clone(s.users),
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		addresses:  maps.Clone(s.addresses),
		cartItems:  maps.Clone(s.cartItems),
		orders:     maps.Clone(s.orders),
		orderItems: maps.Clone(s.orderItems),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.addresses = snap.addresses
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
}

type txKey struct{}

// WithinTx implements postgres.TxManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pq.Error{Code: "23503", Constraint: constraint}
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortNewest[T any](items []T, base func(T) model.BaseModel) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := base(items[i]), base(items[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func sortOldest[T any](items []T, base func(T) model.BaseModel) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := base(items[i]), base(items[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
