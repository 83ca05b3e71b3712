package plan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func validCreateRequest() *model.CreatePlanRequest {
	return &model.CreatePlanRequest{
		Title:    "Spring Outreach",
		PlanType: model.PlanTypePastClients,
		Channels: []string{model.ChannelEmail, model.ChannelText},
		Timeline: model.Timeline30Days,
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	accountID := uuid.New()

	plan, err := svc.Create(context.Background(), accountID, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, accountID, plan.AccountID)
	assert.Equal(t, "Spring Outreach", plan.Title)
	assert.Equal(t, model.PlanStatusDraft, plan.Status)
	assert.NotEqual(t, uuid.Nil, plan.ID)
}

func TestCreateDefaultTitle(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())

	req := validCreateRequest()
	req.Title = ""

	plan, err := svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	want := fmt.Sprintf("New SmartPlan - %s", time.Now().Format("January 2, 2006"))
	assert.Equal(t, want, plan.Title)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*model.CreatePlanRequest)
	}{
		{"invalid plan type", func(r *model.CreatePlanRequest) { r.PlanType = "cold-calls" }},
		{"invalid timeline", func(r *model.CreatePlanRequest) { r.Timeline = "45days" }},
		{"empty channels", func(r *model.CreatePlanRequest) { r.Channels = nil }},
		{"invalid channel", func(r *model.CreatePlanRequest) { r.Channels = []string{"email", "fax"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			_, err := svc.Create(ctx, accountID, req)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		req.Title = fmt.Sprintf("Plan %d", i)
		_, err := svc.Create(ctx, accountID, req)
		require.NoError(t, err)
	}

	plans, err := svc.List(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Plan 2", plans[0].Title)
	assert.Equal(t, "Plan 0", plans[2].Title)
}

func TestListScopedToAccount(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	_, err := svc.Create(ctx, owner, validCreateRequest())
	require.NoError(t, err)

	plans, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGetCrossAccount(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()

	plan, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	require.NoError(t, err)

	// Another account sees not-found, never forbidden.
	_, err = svc.Get(ctx, uuid.New(), plan.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdatePartial(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	plan, err := svc.Create(ctx, accountID, validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, accountID, plan.ID, &model.UpdatePlanRequest{
		Title: strPtr("Renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, plan.PlanType, updated.PlanType)
	assert.Equal(t, plan.Channels, updated.Channels)
	assert.Equal(t, plan.Timeline, updated.Timeline)
	assert.Equal(t, plan.Status, updated.Status)
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	plan, err := svc.Create(ctx, accountID, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, accountID, plan.ID, &model.UpdatePlanRequest{
		Timeline: strPtr("forever"),
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.Update(ctx, accountID, plan.ID, &model.UpdatePlanRequest{
		Channels: []string{},
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	// Failed validation left the plan untouched.
	stored, err := svc.Get(ctx, accountID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Timeline, stored.Timeline)
}

func TestUpdateCrossAccount(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()

	plan, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.New(), plan.ID, &model.UpdatePlanRequest{
		Title: strPtr("Hijacked"),
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{model.PlanStatusDraft, model.PlanStatusGenerating, true},
		{model.PlanStatusDraft, model.PlanStatusCompleted, true},
		{model.PlanStatusGenerating, model.PlanStatusCompleted, true},
		{model.PlanStatusGenerating, model.PlanStatusFailed, true},
		{model.PlanStatusFailed, model.PlanStatusGenerating, true},
		{model.PlanStatusCompleted, model.PlanStatusCompleted, true},
		{model.PlanStatusCompleted, model.PlanStatusDraft, false},
		{model.PlanStatusCompleted, model.PlanStatusGenerating, false},
		{model.PlanStatusGenerating, model.PlanStatusDraft, false},
		{model.PlanStatusFailed, model.PlanStatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			err := checkTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
			}
		})
	}
}

func TestUpdateToCompletedWithContent(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	plan, err := svc.Create(ctx, accountID, validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, accountID, plan.ID, &model.UpdatePlanRequest{
		Status:  strPtr(model.PlanStatusCompleted),
		Content: model.JSONMap{"weeks": []any{"week one"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PlanStatusCompleted, updated.Status)
	assert.Equal(t, model.JSONMap{"weeks": []any{"week one"}}, updated.Content)
}

func TestDelete(t *testing.T) {
	svc := NewService(memory.NewPlanRepository())
	ctx := context.Background()
	accountID := uuid.New()

	plan, err := svc.Create(ctx, accountID, validCreateRequest())
	require.NoError(t, err)

	// Another account cannot delete it.
	err = svc.Delete(ctx, uuid.New(), plan.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, accountID, plan.ID))

	err = svc.Delete(ctx, accountID, plan.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
