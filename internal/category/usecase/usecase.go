package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgCategoryNotFound = "Category not found"
	msgNameTaken        = "The name has already been taken."
	msgHasProducts      = "Cannot delete this category as it contains products"

	// Product listings embed the category, so they are dropped on change.
	productListPattern = "products:list:*"
)

type categoryUseCase struct {
	repo   category.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache *cache.RedisClient, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if err := uc.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, apperror.Field("name", msgNameTaken)
		}
		return nil, err
	}

	zero := 0
	cat.ProductsCount = &zero
	return cat, nil
}

func (uc *categoryUseCase) ensureNameFree(ctx context.Context, name, excludeID string) error {
	taken, err := uc.repo.IsNameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Field("name", msgNameTaken)
	}
	return nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound(msgCategoryNotFound)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := uc.ensureNameFree(ctx, name, cat.ID); err != nil {
		return nil, err
	}

	cat.Name = name
	cat.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, cat); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, apperror.Field("name", msgNameTaken)
		}
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	cat, err := uc.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	count, err := uc.repo.CountProducts(ctx, cat.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict(msgHasProducts)
	}

	if err := uc.repo.Delete(ctx, cat.ID); err != nil {
		// A product may have been attached after the count.
		if postgres.IsForeignKeyViolation(err) {
			return apperror.Conflict(msgHasProducts)
		}
		return err
	}

	go uc.invalidateProductCache(context.Background())
	return nil
}

func (uc *categoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, productListPattern); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}
