package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "github.com/jwalitptl/smartplan-api/internal/handler/auth"
	planhandler "github.com/jwalitptl/smartplan-api/internal/handler/plan"
	settingshandler "github.com/jwalitptl/smartplan-api/internal/handler/settings"
	templatehandler "github.com/jwalitptl/smartplan-api/internal/handler/template"
	"github.com/jwalitptl/smartplan-api/internal/middleware"
	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository/memory"
	authService "github.com/jwalitptl/smartplan-api/internal/service/auth"
	generationService "github.com/jwalitptl/smartplan-api/internal/service/generation"
	planService "github.com/jwalitptl/smartplan-api/internal/service/plan"
	settingsService "github.com/jwalitptl/smartplan-api/internal/service/settings"
	templateService "github.com/jwalitptl/smartplan-api/internal/service/template"
	"github.com/jwalitptl/smartplan-api/internal/storage"
	"github.com/jwalitptl/smartplan-api/pkg/auth"
)

type testApp struct {
	engine  *gin.Engine
	objects *storage.MemoryStore
}

var (
	appOnce sync.Once
	app     *testApp
)

// testAppInstance builds the API once for the whole package. Router
// metrics register globally, so the engine cannot be rebuilt per test;
// tests keep independent by using distinct accounts.
func testAppInstance() *testApp {
	appOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		accountRepo := memory.NewAccountRepository()
		planRepo := memory.NewPlanRepository()
		templateRepo := memory.NewTemplateRepository()
		generationRepo := memory.NewGenerationRepository()
		tokenStore := memory.NewTokenStore()
		objects := storage.NewMemoryStore()

		templateRepo.Seed(&model.Template{
			Name:           "Past Clients SmartPlan",
			Description:    "Re-engage your past clients",
			PromptTemplate: "Write a {timeline} plan for {business_name} using {channels}.",
			IsActive:       true,
		})
		templateRepo.Seed(&model.Template{
			Name:           "Open House SmartPlan",
			Description:    "Promote an open house",
			PromptTemplate: "Promote an open house for {business_name}.",
			IsActive:       true,
		})

		jwtSvc := auth.NewJWTService(auth.Config{Secret: "test", RefreshSecret: "test-refresh"})
		authSvc := authService.NewService(accountRepo, tokenStore, jwtSvc)
		settingsSvc := settingsService.NewService(accountRepo, objects)
		planSvc := planService.NewService(planRepo)
		templateSvc := templateService.NewService(templateRepo, templateService.DefaultConfig())
		generationSvc := generationService.NewService(
			planRepo, accountRepo, templateRepo, generationRepo,
			generationService.NewStaticGenerator(),
		)

		r := NewRouter(
			middleware.NewAuthMiddleware(authSvc),
			authhandler.NewHandler(authSvc),
			settingshandler.NewHandler(settingsSvc),
			planhandler.NewHandler(planSvc, generationSvc),
			templatehandler.NewHandler(templateSvc),
			DefaultConfig(),
		)
		r.Setup()

		app = &testApp{engine: r.Engine(), objects: objects}
	})
	return app
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, &env
}

var emailSeq int

func (a *testApp) register(t *testing.T) string {
	t.Helper()
	emailSeq++
	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     fmt.Sprintf("agent%d@example.com", emailSeq),
		"password":  "secret-password",
		"full_name": "Jane Agent",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload model.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Tokens.AccessToken)
	return payload.Tokens.AccessToken
}

func TestHealth(t *testing.T) {
	a := testAppInstance()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTemplatesArePublic(t *testing.T) {
	a := testAppInstance()

	w, env := a.do(t, http.MethodGet, "/api/v1/templates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var templates []*model.Template
	require.NoError(t, json.Unmarshal(env.Data, &templates))
	assert.Len(t, templates, 2)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := testAppInstance()

	body := gin.H{
		"email":     "duplicate@example.com",
		"password":  "secret-password",
		"full_name": "Jane Agent",
	}
	w, _ := a.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", env.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	a := testAppInstance()

	w, _ := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "login@example.com",
		"password":  "secret-password",
		"full_name": "Jane Agent",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := a.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "login@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Code)
}

func TestPlansRequireAuth(t *testing.T) {
	a := testAppInstance()

	w, env := a.do(t, http.MethodGet, "/api/v1/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, _ := a.do(t, http.MethodGet, "/api/v1/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(t, http.MethodGet, "/api/v1/auth/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlanLifecycle(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPost, "/api/v1/plans", token, gin.H{
		"title":     "Spring Outreach",
		"plan_type": "past-clients",
		"channels":  []string{"email", "text"},
		"timeline":  "30days",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "draft", created.Status)

	w, env = a.do(t, http.MethodGet, "/api/v1/plans", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []*model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &plans))
	require.Len(t, plans, 1)

	planPath := "/api/v1/plans/" + created.ID.String()

	w, env = a.do(t, http.MethodPut, planPath, token, gin.H{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, created.PlanType, updated.PlanType)

	w, _ = a.do(t, http.MethodDelete, planPath, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = a.do(t, http.MethodGet, planPath, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanValidation(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPost, "/api/v1/plans", token, gin.H{
		"plan_type": "cold-calls",
		"channels":  []string{"email"},
		"timeline":  "30days",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)

	w, env = a.do(t, http.MethodPost, "/api/v1/plans", token, gin.H{
		"plan_type": "past-clients",
		"channels":  []string{},
		"timeline":  "30days",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)
}

func TestPlanMalformedIDIsNotFound(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodGet, "/api/v1/plans/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Code)
}

func TestPlanIsolationBetweenAccounts(t *testing.T) {
	a := testAppInstance()
	owner := a.register(t)
	other := a.register(t)

	w, env := a.do(t, http.MethodPost, "/api/v1/plans", owner, gin.H{
		"plan_type": "open-house",
		"channels":  []string{"video"},
		"timeline":  "60days",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, _ = a.do(t, http.MethodGet, "/api/v1/plans/"+created.ID.String(), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeneratePlan(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPost, "/api/v1/plans", token, gin.H{
		"plan_type": "past-clients",
		"channels":  []string{"email"},
		"timeline":  "90days",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &created))

	planPath := "/api/v1/plans/" + created.ID.String()

	w, env = a.do(t, http.MethodPost, planPath+"/generate", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var generating model.Plan
	require.NoError(t, json.Unmarshal(env.Data, &generating))
	assert.Equal(t, "generating", generating.Status)

	// The static generator finishes almost immediately.
	deadline := time.Now().Add(2 * time.Second)
	for {
		w, env = a.do(t, http.MethodGet, planPath, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var current model.Plan
		require.NoError(t, json.Unmarshal(env.Data, &current))
		if current.Status == "completed" {
			assert.NotEmpty(t, current.Content)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("plan stuck in status %q", current.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	w, env = a.do(t, http.MethodGet, planPath+"/generations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []*model.GeneratedPlan
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)
}

func TestSettingsFlow(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPut, "/api/v1/users/settings", token, gin.H{
		"business": gin.H{"name": "Acme Realty"},
		"branding": gin.H{"primary_color": "#485fc7"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var settings model.Settings
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	require.NotNil(t, settings.Business.Name)
	assert.Equal(t, "Acme Realty", *settings.Business.Name)

	w, env = a.do(t, http.MethodGet, "/api/v1/users/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	require.NotNil(t, settings.Branding.PrimaryColor)
	assert.Equal(t, "#485fc7", *settings.Branding.PrimaryColor)
}

func TestSettingsRejectsEmptyPayload(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPut, "/api/v1/users/settings", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)
}

func TestSettingsInvalidColor(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	w, env := a.do(t, http.MethodPut, "/api/v1/users/settings", token, gin.H{
		"branding": gin.H{"primary_color": "blue"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)
}

func TestSettingsLogoUpload(t *testing.T) {
	a := testAppInstance()
	token := a.register(t)

	before := a.objects.Len()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("payload", `{"branding":{"brand_voice":"friendly"}}`))

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="logo"; filename="logo.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/settings", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var settings model.Settings
	require.NoError(t, json.Unmarshal(env.Data, &settings))

	require.NotNil(t, settings.Branding.LogoURL)
	require.NotNil(t, settings.Branding.BrandVoice)
	assert.Equal(t, "friendly", *settings.Branding.BrandVoice)
	assert.Equal(t, before+1, a.objects.Len())
}

func TestRefreshTokenFlow(t *testing.T) {
	a := testAppInstance()

	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "refresh@example.com",
		"password":  "secret-password",
		"full_name": "Jane Agent",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload model.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	w, env = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{
		"refresh_token": payload.Tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokens model.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	assert.NotEmpty(t, tokens.AccessToken)

	w, _ = a.do(t, http.MethodGet, "/api/v1/auth/user", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
