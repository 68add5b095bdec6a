package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/dashboard/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	orderdto "github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/shopspring/decimal"
)

type OrderRepository struct{ s *Store }

func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

func (r *OrderRepository) Create(_ context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	if _, ok := r.s.users[o.UserID]; !ok {
		return foreignKeyViolation("orders_user_id_fkey")
	}
	stored := *o
	stored.Items, stored.Address, stored.User = nil, nil, nil
	r.s.orders[o.ID] = stored
	return nil
}

func (r *OrderRepository) CreateItems(_ context.Context, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.CreateItems"); err != nil {
		return err
	}
	for _, item := range items {
		if _, ok := r.s.orders[item.OrderID]; !ok {
			return foreignKeyViolation("order_items_order_id_fkey")
		}
		item.Product = nil
		r.s.orderItems[item.ID] = item
	}
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepository) FindByPaymentReference(_ context.Context, ref string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.PaymentReference != nil && *o.PaymentReference == ref {
			return &o, nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) FindAll(_ context.Context, f *orderdto.OrderFilters) ([]model.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	orders := []model.Order{}
	for _, o := range r.s.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.SearchQuery != "" {
			u := r.s.users[o.UserID]
			if !contains(o.ID, f.SearchQuery) && !contains(u.Name, f.SearchQuery) && !contains(u.Email, f.SearchQuery) {
				continue
			}
		}
		if f.DateFrom != nil && o.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && !o.CreatedAt.Before(f.DateTo.AddDate(0, 0, 1)) {
			continue
		}
		orders = append(orders, o)
	}
	sortNewest(orders, func(o model.Order) model.BaseModel { return o.BaseModel })
	return paginate(orders, f.Page, f.PageSize), len(orders), nil
}

func (r *OrderRepository) FindItemsByOrderIDs(_ context.Context, orderIDs []string) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	items := []model.OrderItem{}
	for _, item := range r.s.orderItems {
		if wanted[item.OrderID] {
			items = append(items, item)
		}
	}
	sortOldest(items, func(i model.OrderItem) model.BaseModel { return i.BaseModel })
	return items, nil
}

func (r *OrderRepository) update(id string, fn func(o *model.Order)) {
	o, ok := r.s.orders[id]
	if !ok {
		return
	}
	fn(&o)
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.update(id, func(o *model.Order) { o.Status = status })
	return nil
}

func (r *OrderRepository) SetPaymentReference(_ context.Context, id, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.update(id, func(o *model.Order) { o.PaymentReference = &ref })
	return nil
}

func (r *OrderRepository) MarkPaid(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != model.OrderPending {
		return false, nil
	}
	r.update(id, func(o *model.Order) { o.Status = model.OrderPaid })
	return true, nil
}

type DashboardRepository struct{ s *Store }

func (s *Store) Dashboard() *DashboardRepository { return &DashboardRepository{s: s} }

func (r *DashboardRepository) Counts(_ context.Context) (*dto.Counts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := &dto.Counts{
		Products:   len(r.s.products),
		Categories: len(r.s.categories),
		Users:      len(r.s.users),
		Orders:     len(r.s.orders),
	}
	for _, u := range r.s.users {
		switch u.Role {
		case model.RoleAdmin:
			c.Admins++
		case model.RoleCustomer:
			c.Customers++
		}
	}
	return c, nil
}

func (r *DashboardRepository) OrderStatusCounts(_ context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, o := range r.s.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *DashboardRepository) Sales(_ context.Context, monthStart, dayStart time.Time) (*dto.Sales, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales := &dto.Sales{Total: decimal.Zero, Monthly: decimal.Zero, Daily: decimal.Zero}
	for _, o := range r.s.orders {
		if strings.EqualFold(o.Status, model.OrderCanceled) {
			continue
		}
		sales.Total = sales.Total.Add(o.Total)
		if !o.CreatedAt.Before(monthStart) {
			sales.Monthly = sales.Monthly.Add(o.Total)
		}
		if !o.CreatedAt.Before(dayStart) {
			sales.Daily = sales.Daily.Add(o.Total)
		}
	}
	return sales, nil
}
