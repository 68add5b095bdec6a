package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage  = 15
	maxWebhookBytes = 64 << 10
)

var (
	checkoutSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "address_id", Type: validation.UUID, RequiredWithout: "new_address"},
		{Field: "new_address", Type: validation.Object, RequiredWithout: "address_id"},
		{Field: "new_address.address", Type: validation.String, RequiredWith: "new_address", Max: validation.Limit(255)},
		{Field: "new_address.postal_code", Type: validation.String, RequiredWith: "new_address", Max: validation.Limit(255)},
		{Field: "new_address.city", Type: validation.String, RequiredWith: "new_address", Max: validation.Limit(255)},
		{Field: "new_address.country", Type: validation.String, RequiredWith: "new_address", Max: validation.Limit(255)},
		{Field: "payment_method", Type: validation.String, In: model.PaymentMethods},
	}}

	adminListSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "status", Type: validation.String, In: model.OrderStatuses},
		{Field: "date_from", Type: validation.Date},
		{Field: "date_to", Type: validation.Date},
	}}

	statusSchema = validation.Schema{Strict: true, Rules: []validation.Rule{
		{Field: "status", Type: validation.String, Required: true, In: model.OrderStatuses},
	}}
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, checkoutSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	input := &dto.CheckoutInput{
		UserID:        session.UserID(),
		UserName:      session.User.Name,
		UserEmail:     session.User.Email,
		PaymentMethod: in.StringPtr("payment_method"),
	}
	if in.Filled("new_address") {
		input.NewAddress = &dto.NewAddressInput{
			Address:    in.String("new_address.address"),
			PostalCode: in.String("new_address.postal_code"),
			City:       in.String("new_address.city"),
			Country:    in.String("new_address.country"),
		}
	} else {
		input.AddressID = in.StringPtr("address_id")
	}

	o, err := h.uc.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusCreated, "Order placed successfully", o)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	page, perPage := response.ParsePage(c, defaultPerPage)
	orders, total, err := h.uc.ListOrders(c.Request.Context(), &dto.OrderFilters{
		UserID:   session.UserID(),
		Page:     page,
		PageSize: perPage,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paginated(c, orders, page, perPage, total)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	o, err := h.uc.GetOrder(c.Request.Context(), session.UserID(), c.Param("order"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, o)
}

func (h *OrderHandler) CreatePaymentIntent(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	intent, err := h.uc.CreatePaymentIntent(c.Request.Context(), session.UserID(), c.Param("order"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, intent)
}

func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.Message(c, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if err := h.uc.HandlePaymentWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	in, err := request.BindQuery(c, adminListSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	page, perPage := response.ParsePage(c, defaultPerPage)
	orders, total, err := h.uc.ListOrders(c.Request.Context(), &dto.OrderFilters{
		Status:      in.String("status"),
		SearchQuery: in.String("search"),
		DateFrom:    datePtr(in, "date_from"),
		DateTo:      datePtr(in, "date_to"),
		Page:        page,
		PageSize:    perPage,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paginated(c, orders, page, perPage, total)
}

func datePtr(in validation.Input, field string) *time.Time {
	if !in.Filled(field) {
		return nil
	}
	t, err := time.Parse(validation.DateLayout, in.String(field))
	if err != nil {
		return nil
	}
	return &t
}

func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.uc.GetOrderAdmin(c.Request.Context(), c.Param("order"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, o)
}

func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	in, err := request.Bind(c, statusSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	o, err := h.uc.UpdateStatus(c.Request.Context(), &dto.UpdateStatusInput{
		ID:     c.Param("order"),
		Status: in.String("status"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Order status updated successfully", o)
}
