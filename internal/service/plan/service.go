package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

type Service struct {
	planRepo repository.PlanRepository
}

func NewService(planRepo repository.PlanRepository) *Service {
	return &Service{planRepo: planRepo}
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]*model.Plan, error) {
	plans, err := s.planRepo.List(ctx, accountID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return plans, nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, req *model.CreatePlanRequest) (*model.Plan, error) {
	if !model.ValidPlanType(req.PlanType) {
		return nil, apperrors.Validationf("plan_type: invalid value %q", req.PlanType)
	}
	if !model.ValidTimeline(req.Timeline) {
		return nil, apperrors.Validationf("timeline: invalid value %q", req.Timeline)
	}
	if err := validateChannels(req.Channels); err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = defaultTitle(time.Now())
	}

	plan := &model.Plan{
		AccountID: accountID,
		Title:     title,
		PlanType:  req.PlanType,
		Channels:  model.StringList(req.Channels),
		Timeline:  req.Timeline,
		Status:    model.PlanStatusDraft,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperrors.Internal(err)
	}

	return plan, nil
}

func (s *Service) Get(ctx context.Context, accountID, planID uuid.UUID) (*model.Plan, error) {
	plan, err := s.planRepo.Get(ctx, accountID, planID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("plan")
		}
		return nil, apperrors.Internal(err)
	}
	return plan, nil
}

// Update applies a partial update: nil fields retain their stored value.
// Status follows the forward-only machine draft -> generating ->
// {completed, failed}, with failed -> generating permitted as a retry.
func (s *Service) Update(ctx context.Context, accountID, planID uuid.UUID, req *model.UpdatePlanRequest) (*model.Plan, error) {
	plan, err := s.Get(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.PlanType != nil {
		if !model.ValidPlanType(*req.PlanType) {
			return nil, apperrors.Validationf("plan_type: invalid value %q", *req.PlanType)
		}
		plan.PlanType = *req.PlanType
	}
	if req.Channels != nil {
		if err := validateChannels(req.Channels); err != nil {
			return nil, err
		}
		plan.Channels = model.StringList(req.Channels)
	}
	if req.Timeline != nil {
		if !model.ValidTimeline(*req.Timeline) {
			return nil, apperrors.Validationf("timeline: invalid value %q", *req.Timeline)
		}
		plan.Timeline = *req.Timeline
	}
	if req.Status != nil {
		if !model.ValidPlanStatus(*req.Status) {
			return nil, apperrors.Validationf("status: invalid value %q", *req.Status)
		}
		if err := checkTransition(plan.Status, *req.Status); err != nil {
			return nil, err
		}
		plan.Status = *req.Status
	}
	if req.Content != nil {
		plan.Content = req.Content
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("plan")
		}
		return nil, apperrors.Internal(err)
	}

	return plan, nil
}

func (s *Service) Delete(ctx context.Context, accountID, planID uuid.UUID) error {
	if err := s.planRepo.Delete(ctx, accountID, planID); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("plan")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func validateChannels(channels []string) error {
	if len(channels) == 0 {
		return apperrors.Validation("channels: at least one channel is required")
	}
	for _, ch := range channels {
		if !model.ValidChannel(ch) {
			return apperrors.Validationf("channels: invalid value %q", ch)
		}
	}
	return nil
}

// statusStage orders statuses along the lifecycle. Moves to a later stage
// are allowed (including skipping generating when the collaborator reports
// results in one shot); moves backwards are not, except failed ->
// generating, which is the retry path.
func statusStage(status string) int {
	switch status {
	case model.PlanStatusDraft:
		return 0
	case model.PlanStatusGenerating:
		return 1
	default:
		return 2
	}
}

func checkTransition(from, to string) error {
	if from == to {
		return nil
	}
	if from == model.PlanStatusFailed && to == model.PlanStatusGenerating {
		return nil
	}
	if statusStage(to) > statusStage(from) {
		return nil
	}
	return apperrors.Validationf("status: cannot transition from %q to %q", from, to)
}

func defaultTitle(now time.Time) string {
	return fmt.Sprintf("New SmartPlan - %s", now.Format("January 2, 2006"))
}
