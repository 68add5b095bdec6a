package memstore

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type CartRepository struct{ s *Store }

func (s *Store) Carts() *CartRepository { return &CartRepository{s: s} }

func (r *CartRepository) byUser(userID string) []model.CartItem {
	items := []model.CartItem{}
	for _, item := range r.s.cartItems {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sortOldest(items, func(c model.CartItem) model.BaseModel { return c.BaseModel })
	return items
}

func (r *CartRepository) find(userID, productID string) (model.CartItem, bool) {
	for _, item := range r.s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			return item, true
		}
	}
	return model.CartItem{}, false
}

func (r *CartRepository) FindByUser(_ context.Context, userID string) ([]model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byUser(userID), nil
}

func (r *CartRepository) LockByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	return r.FindByUser(ctx, userID)
}

func (r *CartRepository) AddQuantity(_ context.Context, item *model.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("carts.AddQuantity"); err != nil {
		return err
	}
	if _, ok := r.s.products[item.ProductID]; !ok {
		return foreignKeyViolation("cart_items_product_id_fkey")
	}
	if existing, ok := r.find(item.UserID, item.ProductID); ok {
		existing.Quantity += item.Quantity
		existing.UpdatedAt = item.UpdatedAt
		r.s.cartItems[existing.ID] = existing
		*item = existing
		return nil
	}
	stored := *item
	stored.Product = nil
	r.s.cartItems[item.ID] = stored
	*item = stored
	return nil
}

func (r *CartRepository) SetQuantity(_ context.Context, userID, productID string, quantity int) (*model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.find(userID, productID)
	if !ok {
		return nil, nil
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	r.s.cartItems[item.ID] = item
	return &item, nil
}

func (r *CartRepository) Delete(_ context.Context, userID, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.find(userID, productID)
	if !ok {
		return 0, nil
	}
	delete(r.s.cartItems, item.ID)
	return 1, nil
}

func (r *CartRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("carts.DeleteByUser"); err != nil {
		return 0, err
	}
	var n int64
	for id, item := range r.s.cartItems {
		if item.UserID == userID {
			delete(r.s.cartItems, id)
			n++
		}
	}
	return n, nil
}
