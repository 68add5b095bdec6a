package handler

import (
	"bytes"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/storage"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	publicPerPage = 12
	adminPerPage  = 15
	exportName    = "products.xlsx"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// maxPrice is the largest NUMERIC(12,2) value.
	maxPrice = 9999999999.99
)

var (
	productSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "name", Type: validation.String, Required: true, Max: validation.Limit(255)},
		{Field: "description", Type: validation.String},
		{Field: "price", Type: validation.Numeric, Required: true, Min: validation.Limit(0), Max: validation.Limit(maxPrice), Places: validation.Places(2)},
		{Field: "category_id", Type: validation.UUID},
	}}

	publicListSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "min_price", Type: validation.Numeric, Min: validation.Limit(0)},
		{Field: "max_price", Type: validation.Numeric, Min: validation.Limit(0)},
		{Field: "sort_by", Type: validation.String, In: []string{"name", "price", "created_at"}},
		{Field: "sort_direction", Type: validation.String, In: []string{"asc", "desc"}},
	}}
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

// ListPublic is the storefront catalog listing.
func (h *ProductHandler) ListPublic(c *gin.Context) {
	in, err := request.BindQuery(c, publicListSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	page, perPage := response.ParsePage(c, publicPerPage)
	filters := &dto.ProductFilters{
		CategoryID:  in.String("category"),
		SearchQuery: in.String("search"),
		MinPrice:    decimalPtr(in, "min_price"),
		MaxPrice:    decimalPtr(in, "max_price"),
		SortBy:      in.String("sort_by"),
		SortOrder:   in.String("sort_direction"),
		Page:        page,
		PageSize:    perPage,
	}
	h.list(c, filters)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, perPage := response.ParsePage(c, adminPerPage)
	h.list(c, &dto.ProductFilters{
		CategoryID:  c.Query("category"),
		SearchQuery: c.Query("search"),
		Page:        page,
		PageSize:    perPage,
	})
}

func (h *ProductHandler) list(c *gin.Context, filters *dto.ProductFilters) {
	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paginated(c, products, filters.Page, filters.PageSize, total)
}

func decimalPtr(in validation.Input, field string) *decimal.Decimal {
	if !in.Filled(field) {
		return nil
	}
	d := in.Decimal(field)
	return &d
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("product"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, err := request.Bind(c, productSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	upload, closeFn, err := h.image(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	defer closeFn()

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		CategoryID:  in.StringPtr("category_id"),
		Name:        in.String("name"),
		Description: in.StringPtr("description"),
		Price:       in.Decimal("price"),
		Image:       upload,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusCreated, "Product created successfully", p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	in, err := request.Bind(c, productSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	upload, closeFn, err := h.image(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	defer closeFn()

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:             c.Param("product"),
		CategoryID:     in.StringPtr("category_id"),
		CategorySet:    in.Present("category_id"),
		Name:           in.String("name"),
		Description:    in.StringPtr("description"),
		DescriptionSet: in.Present("description"),
		Price:          in.Decimal("price"),
		Image:          upload,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Product updated successfully", p)
}

// image returns the validated "image" upload of a multipart request, or nil.
func (h *ProductHandler) image(c *gin.Context) (*dto.Upload, func(), error) {
	noop := func() {}
	form := c.Request.MultipartForm
	if form == nil || len(form.File["image"]) == 0 {
		return nil, noop, nil
	}

	fh := form.File["image"][0]
	if err := storage.ValidateImage("image", fh); err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &dto.Upload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("product")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.uc.ExportProducts(c.Request.Context(), &buf); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportName)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, xlsxMediaType, buf.Bytes())
}
