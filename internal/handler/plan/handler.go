package plan

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/handler"
	"github.com/jwalitptl/smartplan-api/internal/middleware"
	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/service/generation"
	"github.com/jwalitptl/smartplan-api/internal/service/plan"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

type Handler struct {
	svc    *plan.Service
	genSvc *generation.Service
}

func NewHandler(svc *plan.Service, genSvc *generation.Service) *Handler {
	return &Handler{svc: svc, genSvc: genSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/plans", authMW.Authenticate())
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/generate", h.Generate)
		group.GET("/:id/generations", h.Generations)
	}
}

func (h *Handler) List(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return
	}

	plans, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(plans))
}

func (h *Handler) Create(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return
	}

	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	accountID, planID, ok := h.scope(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), accountID, planID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	accountID, planID, ok := h.scope(c)
	if !ok {
		return
	}

	var req model.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), accountID, planID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	accountID, planID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), accountID, planID); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Generate(c *gin.Context) {
	accountID, planID, ok := h.scope(c)
	if !ok {
		return
	}

	p, err := h.genSvc.Start(c.Request.Context(), accountID, planID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(p))
}

func (h *Handler) Generations(c *gin.Context) {
	accountID, planID, ok := h.scope(c)
	if !ok {
		return
	}

	history, err := h.genSvc.History(c.Request.Context(), accountID, planID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(history))
}

// scope extracts the authenticated account and the plan id from the request.
// A malformed plan id is indistinguishable from a missing plan.
func (h *Handler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return uuid.Nil, uuid.Nil, false
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NotFound("plan"))
		return uuid.Nil, uuid.Nil, false
	}

	return accountID, planID, true
}
