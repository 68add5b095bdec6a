package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type AddressRepository struct{ s *Store }

func (s *Store) Addresses() *AddressRepository { return &AddressRepository{s: s} }

func (r *AddressRepository) byUser(userID string) []model.Address {
	addresses := []model.Address{}
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			addresses = append(addresses, a)
		}
	}
	sortNewest(addresses, func(a model.Address) model.BaseModel { return a.BaseModel })
	return addresses
}

func (r *AddressRepository) FindByUser(_ context.Context, userID string) ([]model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	addresses := r.byUser(userID)
	sort.SliceStable(addresses, func(i, j int) bool { return addresses[i].IsDefault && !addresses[j].IsDefault })
	return addresses, nil
}

func (r *AddressRepository) FindByID(_ context.Context, id string) (*model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AddressRepository) FindByIDs(_ context.Context, ids []string) ([]model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	addresses := []model.Address{}
	for _, id := range ids {
		if a, ok := r.s.addresses[id]; ok {
			addresses = append(addresses, a)
		}
	}
	return addresses, nil
}

func (r *AddressRepository) Create(_ context.Context, a *model.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("addresses.Create"); err != nil {
		return err
	}
	if _, ok := r.s.users[a.UserID]; !ok {
		return foreignKeyViolation("addresses_user_id_fkey")
	}
	a.IsDefault = len(r.byUser(a.UserID)) == 0
	r.s.addresses[a.ID] = *a
	return nil
}

func (r *AddressRepository) Update(_ context.Context, a *model.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.addresses[a.ID]
	if !ok {
		return nil
	}
	stored.Address, stored.PostalCode, stored.City, stored.Country = a.Address, a.PostalCode, a.City, a.Country
	stored.Type = a.Type
	stored.UpdatedAt = a.UpdatedAt
	r.s.addresses[a.ID] = stored
	return nil
}

// Delete detaches the address from orders that shipped to it.
func (r *AddressRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("addresses.Delete"); err != nil {
		return err
	}
	delete(r.s.addresses, id)
	for oid, o := range r.s.orders {
		if o.AddressID != nil && *o.AddressID == id {
			o.AddressID = nil
			r.s.orders[oid] = o
		}
	}
	return nil
}

func (r *AddressRepository) ClearDefault(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			a.UpdatedAt = time.Now()
			r.s.addresses[id] = a
		}
	}
	return nil
}

// MarkDefault enforces one default address per user like the partial unique index.
func (r *AddressRepository) MarkDefault(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("addresses.MarkDefault"); err != nil {
		return err
	}
	a, ok := r.s.addresses[id]
	if !ok {
		return nil
	}
	for otherID, other := range r.s.addresses {
		if otherID != id && other.UserID == a.UserID && other.IsDefault {
			return uniqueViolation("addresses_one_default_per_user")
		}
	}
	a.IsDefault = true
	a.UpdatedAt = time.Now()
	r.s.addresses[id] = a
	return nil
}

func (r *AddressRepository) PromoteLatest(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	addresses := r.byUser(userID)
	if len(addresses) == 0 {
		return nil
	}
	for _, a := range addresses {
		if a.IsDefault {
			return nil
		}
	}
	latest := addresses[0]
	latest.IsDefault = true
	latest.UpdatedAt = time.Now()
	r.s.addresses[latest.ID] = latest
	return nil
}
