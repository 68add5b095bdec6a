package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/address"
	"github.com/fekuna/omnipos-storefront/internal/address/dto"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

var addressSchema = validation.Schema{Rules: []validation.Rule{
	{Field: "address", Type: validation.String, Required: true, Max: validation.Limit(255)},
	{Field: "postal_code", Type: validation.String, Required: true, Max: validation.Limit(255)},
	{Field: "city", Type: validation.String, Required: true, Max: validation.Limit(255)},
	{Field: "country", Type: validation.String, Required: true, Max: validation.Limit(255)},
	{Field: "type", Type: validation.String, In: model.AddressTypes},
}}

type AddressHandler struct {
	uc     address.UseCase
	logger logger.ZapLogger
}

func NewAddressHandler(uc address.UseCase, log logger.ZapLogger) *AddressHandler {
	return &AddressHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	addresses, err := h.uc.ListAddresses(c.Request.Context(), session.UserID())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, addresses)
}

func (h *AddressHandler) CreateAddress(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, addressSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	a, err := h.uc.CreateAddress(c.Request.Context(), &dto.CreateAddressInput{
		UserID:     session.UserID(),
		Address:    in.String("address"),
		PostalCode: in.String("postal_code"),
		City:       in.String("city"),
		Country:    in.String("country"),
		Type:       in.String("type"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusCreated, "Address added successfully", a)
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, addressSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	a, err := h.uc.UpdateAddress(c.Request.Context(), &dto.UpdateAddressInput{
		ID:         c.Param("address"),
		UserID:     session.UserID(),
		Address:    in.String("address"),
		PostalCode: in.String("postal_code"),
		City:       in.String("city"),
		Country:    in.String("country"),
		Type:       in.String("type"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Address updated successfully", a)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.uc.DeleteAddress(c.Request.Context(), session.UserID(), c.Param("address")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Address deleted successfully")
}

func (h *AddressHandler) SetDefault(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	a, err := h.uc.SetDefault(c.Request.Context(), session.UserID(), c.Param("address"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Default address set successfully", a)
}
