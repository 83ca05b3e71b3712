package settings

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/jwalitptl/smartplan-api/internal/handler"
	"github.com/jwalitptl/smartplan-api/internal/middleware"
	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/service/settings"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

// maxLogoSize caps logo uploads at 5 MiB.
const maxLogoSize = 5 << 20

type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/users", authMW.Authenticate())
	{
		group.GET("/settings", h.GetSettings)
		group.PUT("/settings", h.UpdateSettings)
	}
}

func (h *Handler) GetSettings(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return
	}

	s, err := h.svc.GetSettings(c.Request.Context(), accountID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}

// UpdateSettings accepts either a JSON body or a multipart form with a
// "payload" JSON part and an optional "logo" file part.
func (h *Handler) UpdateSettings(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(""))
		return
	}

	patch, logo, err := h.parseRequest(c)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if logo != nil {
		defer logo.close()
	}

	var upload *settings.LogoUpload
	if logo != nil {
		upload = &logo.LogoUpload
	}

	s, err := h.svc.UpdateSettings(c.Request.Context(), accountID, patch, upload)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}

type logoPart struct {
	settings.LogoUpload
	close func() error
}

func (h *Handler) parseRequest(c *gin.Context) (*model.SettingsPatch, *logoPart, error) {
	mediaType, _, err := mime.ParseMediaType(c.ContentType())
	if err != nil {
		return nil, nil, apperrors.Validation("unsupported content type")
	}

	if mediaType != "multipart/form-data" {
		var patch model.SettingsPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			return nil, nil, apperrors.Validation(err.Error())
		}
		return &patch, nil, nil
	}

	patch := &model.SettingsPatch{}
	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), patch); err != nil {
			return nil, nil, apperrors.Validation("invalid payload JSON")
		}
		if err := binding.Validator.ValidateStruct(patch); err != nil {
			return nil, nil, apperrors.Validation(err.Error())
		}
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		if err == http.ErrMissingFile {
			return patch, nil, nil
		}
		return nil, nil, apperrors.Validation("invalid logo upload")
	}
	if fh.Size > maxLogoSize {
		return nil, nil, apperrors.Validation("logo exceeds maximum size of 5MB")
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, nil, apperrors.Validation("logo must be an image")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	return patch, &logoPart{
		LogoUpload: settings.LogoUpload{ContentType: contentType, Body: f},
		close:      f.Close,
	}, nil
}
