package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/request"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/internal/user"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

const defaultPerPage = 15

var (
	registerSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "name", Type: validation.String, Required: true, Max: validation.Limit(255)},
		{Field: "email", Type: validation.Email, Required: true, Max: validation.Limit(255)},
		{Field: "password", Type: validation.String, Required: true, Min: validation.Limit(8), Confirmed: true},
	}}

	loginSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "email", Type: validation.Email, Required: true},
		{Field: "password", Type: validation.String, Required: true},
	}}

	profileSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "name", Type: validation.String, Required: true, Max: validation.Limit(255)},
		{Field: "email", Type: validation.Email, Required: true, Max: validation.Limit(255)},
	}}

	deleteAccountSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "password", Type: validation.String, Required: true},
	}}

	adminUpdateSchema = validation.Schema{Rules: []validation.Rule{
		{Field: "role", Type: validation.String, Required: true, In: model.Roles},
		{Field: "name", Type: validation.String, Max: validation.Limit(255)},
		{Field: "email", Type: validation.Email, Max: validation.Limit(255)},
	}}
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	in, err := request.Bind(c, registerSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	res, err := h.uc.Register(c.Request.Context(), &dto.RegisterInput{
		Name:     in.String("name"),
		Email:    in.String("email"),
		Password: in.String("password"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	in, err := request.Bind(c, loginSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	res, err := h.uc.Login(c.Request.Context(), &dto.LoginInput{
		Email:    in.String("email"),
		Password: in.String("password"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.uc.Logout(c.Request.Context(), session); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Logout successful")
}

func (h *UserHandler) Me(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": session.User})
}

func (h *UserHandler) ShowProfile(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	u, err := h.uc.GetProfile(c.Request.Context(), session.UserID())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, profileSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	u, err := h.uc.UpdateProfile(c.Request.Context(), &dto.UpdateProfileInput{
		UserID: session.UserID(),
		Name:   in.String("name"),
		Email:  in.String("email"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "Profile updated successfully", u)
}

func (h *UserHandler) DeleteProfile(c *gin.Context) {
	session, err := auth.Current(c)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	in, err := request.Bind(c, deleteAccountSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	err = h.uc.DeleteAccount(c.Request.Context(), &dto.DeleteAccountInput{
		UserID:    session.UserID(),
		Password:  in.String("password"),
		TokenID:   session.TokenID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Account deleted successfully")
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, perPage := response.ParsePage(c, defaultPerPage)
	users, total, err := h.uc.ListUsers(c.Request.Context(), &dto.UserFilters{
		Role:        c.Query("role"),
		SearchQuery: c.Query("search"),
		Page:        page,
		PageSize:    perPage,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paginated(c, users, page, perPage, total)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.uc.GetUser(c.Request.Context(), c.Param("user"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Data(c, http.StatusOK, u)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	in, err := request.Bind(c, adminUpdateSchema)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), &dto.AdminUpdateUserInput{
		ID:    c.Param("user"),
		Role:  in.String("role"),
		Name:  in.StringPtr("name"),
		Email: in.StringPtr("email"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.MessageData(c, http.StatusOK, "User updated successfully", u)
}
