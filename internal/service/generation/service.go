package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

// Generator is the external content-generation collaborator. It receives
// the constructed prompt and produces the opaque content document; its
// scheduling and internals are not this service's concern.
type Generator interface {
	Generate(ctx context.Context, prompt string, options []*model.TemplateOption) (model.JSONMap, error)
}

// templateNames maps a plan type to its catalog template.
var templateNames = map[string]string{
	model.PlanTypePastClients: "Past Clients SmartPlan",
	model.PlanTypeOpenHouse:   "Open House SmartPlan",
}

type Service struct {
	planRepo       repository.PlanRepository
	accountRepo    repository.AccountRepository
	templateRepo   repository.TemplateRepository
	generationRepo repository.GenerationRepository
	generator      Generator
	timeout        time.Duration
}

func NewService(
	planRepo repository.PlanRepository,
	accountRepo repository.AccountRepository,
	templateRepo repository.TemplateRepository,
	generationRepo repository.GenerationRepository,
	generator Generator,
) *Service {
	return &Service{
		planRepo:       planRepo,
		accountRepo:    accountRepo,
		templateRepo:   templateRepo,
		generationRepo: generationRepo,
		generator:      generator,
		timeout:        5 * time.Minute,
	}
}

// Start moves a draft (or failed) plan to generating and hands the work to
// the generator. The call returns as soon as the status is persisted; the
// outcome lands through Complete or Fail.
func (s *Service) Start(ctx context.Context, accountID, planID uuid.UUID) (*model.Plan, error) {
	plan, err := s.planRepo.Get(ctx, accountID, planID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("plan")
		}
		return nil, apperrors.Internal(err)
	}

	if plan.Status != model.PlanStatusDraft && plan.Status != model.PlanStatusFailed {
		return nil, apperrors.Validationf("status: plan is already %s", plan.Status)
	}

	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	prompt, options, err := s.buildPrompt(ctx, account, plan)
	if err != nil {
		return nil, err
	}

	plan.Status = model.PlanStatusGenerating
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, apperrors.Internal(err)
	}

	go s.run(accountID, planID, prompt, options)

	return plan, nil
}

func (s *Service) run(accountID, planID uuid.UUID, prompt string, options []*model.TemplateOption) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	content, err := s.generator.Generate(ctx, prompt, options)
	if err != nil {
		log.Error().Err(err).Str("plan_id", planID.String()).Msg("plan generation failed")
		if failErr := s.Fail(ctx, accountID, planID); failErr != nil {
			log.Error().Err(failErr).Str("plan_id", planID.String()).Msg("failed to mark plan as failed")
		}
		return
	}

	if err := s.Complete(ctx, accountID, planID, content); err != nil {
		log.Error().Err(err).Str("plan_id", planID.String()).Msg("failed to complete plan")
	}
}

// Complete is the collaborator's success callback: content is attached,
// the plan moves to completed, and a generation event is recorded.
func (s *Service) Complete(ctx context.Context, accountID, planID uuid.UUID, content model.JSONMap) error {
	plan, err := s.planRepo.Get(ctx, accountID, planID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("plan")
		}
		return apperrors.Internal(err)
	}

	plan.Status = model.PlanStatusCompleted
	plan.Content = content
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return apperrors.Internal(err)
	}

	generated := &model.GeneratedPlan{
		AccountID: accountID,
		PlanID:    planID,
		Content:   content,
	}
	if err := s.generationRepo.Create(ctx, generated); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// Fail is the collaborator's failure callback.
func (s *Service) Fail(ctx context.Context, accountID, planID uuid.UUID) error {
	plan, err := s.planRepo.Get(ctx, accountID, planID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("plan")
		}
		return apperrors.Internal(err)
	}

	plan.Status = model.PlanStatusFailed
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// History lists recorded generation events for a plan, newest first.
func (s *Service) History(ctx context.Context, accountID, planID uuid.UUID) ([]*model.GeneratedPlan, error) {
	if _, err := s.planRepo.Get(ctx, accountID, planID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("plan")
		}
		return nil, apperrors.Internal(err)
	}

	generated, err := s.generationRepo.ListByPlan(ctx, accountID, planID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return generated, nil
}

func (s *Service) buildPrompt(ctx context.Context, account *model.Account, plan *model.Plan) (string, []*model.TemplateOption, error) {
	templates, err := s.templateRepo.ListActive(ctx)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}

	wanted := templateNames[plan.PlanType]
	var tmpl *model.Template
	for _, t := range templates {
		if t.Name == wanted {
			tmpl = t
			break
		}
	}
	if tmpl == nil {
		return "", nil, apperrors.NotFound("template")
	}

	replacer := strings.NewReplacer(
		"{business_name}", deref(account.BusinessName),
		"{target_market}", deref(account.TargetMarket),
		"{value_proposition}", deref(account.ValueProposition),
		"{additional_context}", deref(account.AdditionalContext),
		"{timeline}", plan.Timeline,
		"{channels}", strings.Join(plan.Channels, ", "),
	)

	return replacer.Replace(tmpl.PromptTemplate), tmpl.Options, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
