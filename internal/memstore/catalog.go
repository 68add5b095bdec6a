package memstore

import (
	"context"
	"sort"
	"strings"

	categorydto "github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	productdto "github.com/fekuna/omnipos-storefront/internal/product/dto"
)

type CategoryRepository struct{ s *Store }

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

func (r *CategoryRepository) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("categories.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return uniqueViolation("categories_name_key")
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) withCount(c model.Category) model.Category {
	n := r.countProducts(c.ID)
	c.ProductsCount = &n
	return c
}

func (r *CategoryRepository) countProducts(id string) int {
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			n++
		}
	}
	return n
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	c = r.withCount(c)
	return &c, nil
}

func (r *CategoryRepository) FindByIDs(_ context.Context, ids []string) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := []model.Category{}
	for _, id := range ids {
		if c, ok := r.s.categories[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (r *CategoryRepository) FindAll(_ context.Context, f *categorydto.CategoryFilters) ([]model.Category, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := []model.Category{}
	for _, c := range r.s.categories {
		if f.SearchQuery != "" && !contains(c.Name, f.SearchQuery) {
			continue
		}
		categories = append(categories, r.withCount(c))
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return paginate(categories, f.Page, f.PageSize), len(categories), nil
}

func (r *CategoryRepository) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.categories {
		if id != c.ID && existing.Name == c.Name {
			return uniqueViolation("categories_name_key")
		}
	}
	stored := *c
	stored.ProductsCount = nil
	r.s.categories[c.ID] = stored
	return nil
}

// Delete refuses categories still referenced by products.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.countProducts(id) > 0 {
		return foreignKeyViolation("products_category_id_fkey")
	}
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepository) IsNameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.categories {
		if id != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *CategoryRepository) CountProducts(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countProducts(id), nil
}

type ProductRepository struct{ s *Store }

func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

func (r *ProductRepository) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Create"); err != nil {
		return err
	}
	r.s.products[p.ID] = stripProduct(*p)
	return nil
}

func stripProduct(p model.Product) model.Product {
	p.Category = nil
	p.ImageURL = nil
	return p
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	products := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *ProductRepository) FindAll(_ context.Context, f *productdto.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	products := []model.Product{}
	for _, p := range r.s.products {
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.SearchQuery != "" && !contains(p.Name, f.SearchQuery) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		products = append(products, p)
	}
	sortProducts(products, f.SortBy, f.SortOrder)
	return paginate(products, f.Page, f.PageSize), len(products), nil
}

func sortProducts(products []model.Product, by, order string) {
	desc := !strings.EqualFold(order, "asc")
	if by != "name" && by != "price" {
		if desc {
			sortNewest(products, func(p model.Product) model.BaseModel { return p.BaseModel })
		} else {
			sortOldest(products, func(p model.Product) model.BaseModel { return p.BaseModel })
		}
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		var cmp int
		if by == "name" {
			cmp = strings.Compare(a.Name, b.Name)
		} else {
			cmp = a.Price.Cmp(b.Price)
		}
		if cmp == 0 {
			cmp = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func (r *ProductRepository) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Update"); err != nil {
		return err
	}
	r.s.products[p.ID] = stripProduct(*p)
	return nil
}

// Delete drops the product from carts and detaches it from order lines.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	for cid, c := range r.s.cartItems {
		if c.ProductID == id {
			delete(r.s.cartItems, cid)
		}
	}
	for iid, item := range r.s.orderItems {
		if item.ProductID != nil && *item.ProductID == id {
			item.ProductID = nil
			r.s.orderItems[iid] = item
		}
	}
	return nil
}
