package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

const defaultPerPage = 15

var categorySchema = validation.Schema{Rules: []validation.Rule{
	{Field: "name", Type: validation.String, Required: true, Max: validation.Limit(255)},
}}

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

// ListPublic returns every category ordered by name.
func (h *CategoryHandler) ListPublic(c *gin.Context) {
	categories, _, err := h.uc.ListCategories(c.Request.Context(), &dto.CategoryFilters{})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, categories)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, perPage := response.ParsePage(c, defaultPerPage)
	categories, total, err := h.uc.ListCategories(c.Request.Context(), &dto.CategoryFilters{
		SearchQuery: c.Query("search"),
		Page:        page,
		PageSize:    perPage,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paginated(c, categories, page, perPage, total)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, cat)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	in, err := request.Bind(c, categorySchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name: in.String("name"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	in, err := request.Bind(c, categorySchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:   c.Param("category"),
		Name: in.String("name"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("category")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Category deleted successfully")
}
