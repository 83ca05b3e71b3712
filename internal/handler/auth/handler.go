package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/smartplan-api/internal/handler"
	"github.com/jwalitptl/smartplan-api/internal/middleware"
	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/service/auth"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/refresh", h.Refresh)
	}

	authed := group.Group("", authMW.Authenticate())
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/user", h.CurrentUser)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	account, tokens, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.AuthResponse{
		Account: account.Identity(),
		Tokens:  *tokens,
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	account, tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.AuthResponse{
		Account: account.Identity(),
		Tokens:  *tokens,
	}))
}

func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization header"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) CurrentUser(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return
	}

	account, err := h.svc.CurrentAccount(c.Request.Context(), accountID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"user": account.Identity()}))
}
