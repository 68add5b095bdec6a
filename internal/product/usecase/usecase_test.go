package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type memImages struct {
	mu    sync.Mutex
	files map[string]string
	seq   int
	err   error
}

func newMemImages() *memImages {
	return &memImages{files: map[string]string{}}
}

func (m *memImages) Save(_ context.Context, dir, ext string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	path := fmt.Sprintf("%s/img%d.%s", dir, m.seq, ext)
	m.files[path] = string(data)
	return path, nil
}

func (m *memImages) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memImages) URL(path string) string {
	return "http://localhost/storage/" + path
}

func (m *memImages) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func setup(t *testing.T, rc *cache.RedisClient) (*memstore.Store, *memImages, *productUseCase) {
	t.Helper()
	s := memstore.New()
	images := newMemImages()
	uc := NewProductUseCase(s.Products(), s.Categories(), images, rc, nil, logger.NewNop())
	return s, images, uc.(*productUseCase)
}

func seedCategory(t *testing.T, s *memstore.Store, id, name string) {
	t.Helper()
	require.NoError(t, s.Categories().Create(context.Background(), &model.Category{
		BaseModel: model.BaseModel{ID: id, CreatedAt: time.Now()},
		Name:      name,
	}))
}

func upload(name, body string) *dto.Upload {
	return &dto.Upload{Filename: name, Body: strings.NewReader(body)}
}

func strPtr(s string) *string { return &s }

func TestCreateProduct_WithImageAndCategory(t *testing.T) {
	s, images, uc := setup(t, nil)
	seedCategory(t, s, "cat-1", "Tea")

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		CategoryID: strPtr("cat-1"),
		Name:       "Sencha",
		Price:      decimal.RequireFromString("12.50"),
		Image:      upload("leaf.PNG", "png-bytes"),
	})
	require.NoError(t, err)

	require.NotNil(t, p.Image)
	assert.True(t, images.has(*p.Image))
	assert.True(t, strings.HasSuffix(*p.Image, ".png"))
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "http://localhost/storage/"+*p.Image, *p.ImageURL)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Tea", p.Category.Name)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	_, images, uc := setup(t, nil)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		CategoryID: strPtr("missing"),
		Name:       "Sencha",
		Price:      decimal.NewFromInt(1),
		Image:      upload("leaf.png", "x"),
	})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{msgInvalidCategory}, appErr.Fields["category_id"])
	assert.Zero(t, images.count())
}

func TestCreateProduct_RepoFailureRemovesImage(t *testing.T) {
	s, images, uc := setup(t, nil)
	s.FailOn("products.Create", errors.New("insert failed"))

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:  "Sencha",
		Price: decimal.NewFromInt(1),
		Image: upload("leaf.png", "x"),
	})
	require.Error(t, err)
	assert.Zero(t, images.count())
}

func TestUpdateProduct_ReplacesImage(t *testing.T) {
	_, images, uc := setup(t, nil)
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name: "Sencha", Price: decimal.NewFromInt(10), Image: upload("a.png", "old"),
	})
	require.NoError(t, err)
	oldPath := *p.Image

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Sencha Premium", Price: decimal.NewFromInt(15), Image: upload("b.jpg", "new"),
	})
	require.NoError(t, err)

	assert.False(t, images.has(oldPath))
	assert.True(t, images.has(*updated.Image))
	assert.Equal(t, "Sencha Premium", updated.Name)
	assert.True(t, decimal.NewFromInt(15).Equal(updated.Price))
}

func TestUpdateProduct_KeepsImageWhenNoneGiven(t *testing.T) {
	_, images, uc := setup(t, nil)
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name: "Sencha", Price: decimal.NewFromInt(10), Image: upload("a.png", "old"),
	})
	require.NoError(t, err)

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Sencha", Description: strPtr("Green"), DescriptionSet: true, Price: decimal.NewFromInt(11),
	})
	require.NoError(t, err)
	assert.Equal(t, *p.Image, *updated.Image)
	assert.True(t, images.has(*p.Image))
	assert.Equal(t, "Green", *updated.Description)
}

func TestUpdateProduct_KeepsOmittedFields(t *testing.T) {
	s, _, uc := setup(t, nil)
	ctx := context.Background()
	seedCategory(t, s, "cat-1", "Tea")
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		CategoryID: strPtr("cat-1"), Name: "Sencha", Description: strPtr("Green tea"), Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Sencha", Price: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, "cat-1", *updated.CategoryID)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Green tea", *updated.Description)

	stored, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat-1", *stored.CategoryID)
	assert.Equal(t, "Green tea", *stored.Description)
	assert.True(t, decimal.NewFromInt(12).Equal(stored.Price))
}

func TestUpdateProduct_ExplicitNullClears(t *testing.T) {
	s, _, uc := setup(t, nil)
	ctx := context.Background()
	seedCategory(t, s, "cat-1", "Tea")
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		CategoryID: strPtr("cat-1"), Name: "Sencha", Description: strPtr("Green tea"), Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Sencha", Price: decimal.NewFromInt(10), CategorySet: true, DescriptionSet: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Category)
	assert.Nil(t, updated.Description)
}

func TestUpdateProduct_UnknownCategory(t *testing.T) {
	_, _, uc := setup(t, nil)
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Sencha", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Sencha", Price: decimal.NewFromInt(10), CategoryID: strPtr("missing"), CategorySet: true,
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteProduct_RemovesImage(t *testing.T) {
	_, images, uc := setup(t, nil)
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name: "Sencha", Price: decimal.NewFromInt(10), Image: upload("a.png", "img"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(ctx, p.ID))
	assert.Zero(t, images.count())

	_, err = uc.GetProduct(ctx, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(uc.DeleteProduct(ctx, p.ID), apperror.KindNotFound))
}

func seedProducts(t *testing.T, s *memstore.Store) {
	t.Helper()
	seedCategory(t, s, "cat-1", "Tea")
	base := time.Now().Add(-time.Hour)
	for i, tc := range []struct {
		name, price string
		category    *string
	}{
		{"Sencha", "12", strPtr("cat-1")},
		{"Matcha", "30", strPtr("cat-1")},
		{"Mug", "8", nil},
	} {
		require.NoError(t, s.Products().Create(context.Background(), &model.Product{
			BaseModel:  model.BaseModel{ID: tc.name, CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			CategoryID: tc.category,
			Name:       tc.name,
			Price:      decimal.RequireFromString(tc.price),
		}))
	}
}

func names(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestListProducts_FiltersAndSort(t *testing.T) {
	s, _, uc := setup(t, nil)
	seedProducts(t, s)
	ctx := context.Background()
	floor := decimal.NewFromInt(10)

	products, total, err := uc.ListProducts(ctx, &dto.ProductFilters{CategoryID: "cat-1", MinPrice: &floor, SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Sencha", "Matcha"}, names(products))
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Tea", products[0].Category.Name)

	products, total, err = uc.ListProducts(ctx, &dto.ProductFilters{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Mug", "Matcha"}, names(products))

	products, _, err = uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: "cha"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sencha", "Matcha"}, names(products))
}

func TestListProducts_ServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	s, _, uc := setup(t, rc)
	seedProducts(t, s)
	ctx := context.Background()
	filters := &dto.ProductFilters{SortBy: "name", SortOrder: "asc"}

	first, _, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.True(t, mr.Exists(uc.cacheKey(filters)))

	// Writes that bypass the usecase do not invalidate, so the cached page is returned.
	require.NoError(t, s.Products().Delete(ctx, "Mug"))
	second, total, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))
	assert.Equal(t, 3, total)
}

func TestExportProducts(t *testing.T) {
	s, _, uc := setup(t, nil)
	seedProducts(t, s)

	var buf bytes.Buffer
	require.NoError(t, uc.ExportProducts(context.Background(), &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)
	require.Len(t, sheet.Rows, 4)

	header := make([]string, 0, len(sheet.Rows[0].Cells))
	for _, c := range sheet.Rows[0].Cells {
		header = append(header, c.Value)
	}
	assert.Equal(t, exportHeaders, header)
}

func TestBuildSearchQuery(t *testing.T) {
	ceiling := decimal.NewFromInt(20)
	q := buildSearchQuery(&dto.ProductFilters{
		SearchQuery: "green (tea)",
		CategoryID:  "cat-1",
		MaxPrice:    &ceiling,
		SortBy:      "name",
		SortOrder:   "asc",
		Page:        2,
		PageSize:    12,
	})

	must := q["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]map[string]interface{})
	assert.Equal(t, `*green \(tea\)*`, must[0]["query_string"].(map[string]interface{})["query"])

	filter := q["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]map[string]interface{})
	require.Len(t, filter, 2)
	assert.Equal(t, map[string]interface{}{"lte": 20.0}, filter[1]["range"].(map[string]interface{})["price"])

	assert.Equal(t, 12, q["from"])
	assert.Equal(t, 12, q["size"])
	assert.Equal(t, []map[string]interface{}{{"name.raw": map[string]interface{}{"order": "asc"}}}, q["sort"])
}
