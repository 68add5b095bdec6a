package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/internal/storage"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgProductNotFound = "Product not found"
	msgInvalidCategory = "The selected category id is invalid."

	imageDir     = "products"
	listCacheTTL = 5 * time.Minute
	listPattern  = "products:list:*"
)

type productUseCase struct {
	repo       product.Repository
	categories category.Repository
	images     storage.ImageStore
	cache      *cache.RedisClient
	es         *search.Client
	logger     logger.ZapLogger
}

// NewProductUseCase builds the catalog usecase. cache and es are optional.
func NewProductUseCase(
	repo product.Repository,
	categories category.Repository,
	images storage.ImageStore,
	cache *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		images:     images,
		cache:      cache,
		es:         es,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := uc.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}

	if input.Image != nil {
		path, err := uc.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		uc.removeImage(ctx, p.Image)
		return nil, err
	}

	if err := uc.attach(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) ensureCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	c, err := uc.categories.FindByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.Field("category_id", msgInvalidCategory)
	}
	return nil
}

func (uc *productUseCase) saveImage(ctx context.Context, img *dto.Upload) (string, error) {
	path, err := uc.images.Save(ctx, imageDir, storage.Ext(img.Filename), img.Body)
	if err != nil {
		return "", fmt.Errorf("store product image: %w", err)
	}
	return path, nil
}

func (uc *productUseCase) removeImage(ctx context.Context, path *string) {
	if path == nil {
		return
	}
	if err := uc.images.Delete(ctx, *path); err != nil {
		uc.logger.Warn("failed to delete product image", zap.String("path", *path), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.attach(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) find(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(msgProductNotFound)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := uc.cacheKey(filters)
	if cacheKey != "" {
		var cached cachedList
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if hit {
			return cached.Products, cached.Count, nil
		}
	}

	products, count, err := uc.list(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*model.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := uc.attach(ctx, refs); err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) list(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) cacheKey(filters *dto.ProductFilters) string {
	if uc.cache == nil {
		return ""
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data))
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, listPattern); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

// attach loads each product's category and resolves its image URL.
func (uc *productUseCase) attach(ctx context.Context, products []*model.Product) error {
	ids := make([]string, 0, len(products))
	seen := map[string]bool{}
	for _, p := range products {
		if p.CategoryID != nil && !seen[*p.CategoryID] {
			seen[*p.CategoryID] = true
			ids = append(ids, *p.CategoryID)
		}
	}

	byID := map[string]*model.Category{}
	if len(ids) > 0 {
		categories, err := uc.categories.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i := range categories {
			byID[categories[i].ID] = &categories[i]
		}
	}

	for _, p := range products {
		p.Category = nil
		if p.CategoryID != nil {
			p.Category = byID[*p.CategoryID]
		}
		p.ImageURL = nil
		if p.Image != nil {
			url := uc.images.URL(*p.Image)
			p.ImageURL = &url
		}
	}
	return nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.CategorySet {
		if err := uc.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	oldImage := p.Image
	if input.Image != nil {
		path, err := uc.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	if input.CategorySet {
		p.CategoryID = input.CategoryID
	}
	if input.DescriptionSet {
		p.Description = input.Description
	}
	p.Name = input.Name
	p.Price = input.Price
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		if input.Image != nil {
			uc.removeImage(ctx, p.Image)
		}
		return nil, err
	}
	if input.Image != nil {
		uc.removeImage(ctx, oldImage)
	}

	if err := uc.attach(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.find(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	uc.removeImage(ctx, p.Image)

	go uc.invalidateProductCache(context.Background())
	go uc.removeFromElastic(context.Background(), p.ID)

	return nil
}
