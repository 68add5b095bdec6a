package memstore

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
)

type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []model.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindAll(_ context.Context, f *dto.UserFilters) ([]model.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []model.User{}
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.SearchQuery != "" && !contains(u.Name, f.SearchQuery) && !contains(u.Email, f.SearchQuery) {
			continue
		}
		orders, addresses := 0, 0
		for _, o := range r.s.orders {
			if o.UserID == u.ID {
				orders++
			}
		}
		for _, a := range r.s.addresses {
			if a.UserID == u.ID {
				addresses++
			}
		}
		u.OrdersCount, u.AddressesCount = &orders, &addresses
		users = append(users, u)
	}
	sortNewest(users, func(u model.User) model.BaseModel { return u.BaseModel })
	return paginate(users, f.Page, f.PageSize), len(users), nil
}

func (r *UserRepository) Update(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Update"); err != nil {
		return err
	}
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

// Delete cascades to the user's orders, addresses and cart.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	for oid, o := range r.s.orders {
		if o.UserID != id {
			continue
		}
		delete(r.s.orders, oid)
		for iid, item := range r.s.orderItems {
			if item.OrderID == oid {
				delete(r.s.orderItems, iid)
			}
		}
	}
	for aid, a := range r.s.addresses {
		if a.UserID == id {
			delete(r.s.addresses, aid)
		}
	}
	for cid, c := range r.s.cartItems {
		if c.UserID == id {
			delete(r.s.cartItems, cid)
		}
	}
	return nil
}

func (r *UserRepository) IsEmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
