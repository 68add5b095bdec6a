package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

var (
	addSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "quantity", Type: validation.Integer, Min: validation.Limit(1), Max: validation.Limit(100)},
	}}

	updateSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "quantity", Type: validation.Integer, Required: true, Min: validation.Limit(0), Max: validation.Limit(100)},
	}}
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	ct, err := h.uc.GetCart(c.Request.Context(), session.UserID())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": ct.Items,
		"meta": gin.H{
			"total":          ct.Total,
			"items_count":    ct.ItemsCount,
			"total_quantity": ct.TotalQuantity,
		},
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, addSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	quantity := 1
	if in.Filled("quantity") {
		quantity = in.Int("quantity")
	}

	item, err := h.uc.AddItem(c.Request.Context(), &dto.AddItemInput{
		UserID:    session.UserID(),
		ProductID: c.Param("product"),
		Quantity:  quantity,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusCreated, "Product added to cart", item)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, updateSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateItemInput{
		UserID:    session.UserID(),
		ProductID: c.Param("product"),
		Quantity:  in.Int("quantity"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if item == nil {
		response.Message(c, http.StatusOK, "Product removed from cart")
		return
	}
	response.MessageData(c, http.StatusOK, "Cart updated", item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.uc.RemoveItem(c.Request.Context(), session.UserID(), c.Param("product")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Product removed from cart")
}

func (h *CartHandler) Clear(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.uc.Clear(c.Request.Context(), session.UserID()); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Cart cleared")
}
