// Package memory holds in-memory repository implementations backing the
// service and handler tests. They honor the same sentinel-error contract
// as the Postgres implementations.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*model.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[uuid.UUID]*model.Account)}
}

func cloneAccount(a *model.Account) *model.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *AccountRepository) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return repository.ErrDuplicate
		}
	}

	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *AccountRepository) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			return cloneAccount(account), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) Update(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

type PlanRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]*model.Plan
	seq   int
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[uuid.UUID]*model.Plan)}
}

func clonePlan(p *model.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Channels = append(model.StringList(nil), p.Channels...)
	if p.Content != nil {
		clone.Content = make(model.JSONMap, len(p.Content))
		for k, v := range p.Content {
			clone.Content[k] = v
		}
	}
	return &clone
}

func (r *PlanRepository) Create(_ context.Context, plan *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	// Monotonic ordering even when two creates land on the same clock tick.
	r.seq++
	plan.CreatedAt = plan.CreatedAt.Add(time.Duration(r.seq) * time.Microsecond)
	r.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (r *PlanRepository) Get(_ context.Context, accountID, planID uuid.UUID) (*model.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[planID]
	if !ok || plan.AccountID != accountID {
		return nil, repository.ErrNotFound
	}
	return clonePlan(plan), nil
}

func (r *PlanRepository) List(_ context.Context, accountID uuid.UUID) ([]*model.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := []*model.Plan{}
	for _, plan := range r.plans {
		if plan.AccountID == accountID {
			plans = append(plans, clonePlan(plan))
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (r *PlanRepository) Update(_ context.Context, plan *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok || existing.AccountID != plan.AccountID {
		return repository.ErrNotFound
	}
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now()
	r.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (r *PlanRepository) Delete(_ context.Context, accountID, planID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[planID]
	if !ok || plan.AccountID != accountID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*model.Template
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{templates: make(map[uuid.UUID]*model.Template)}
}

// Seed registers a catalog entry, assigning IDs where absent.
func (r *TemplateRepository) Seed(template *model.Template) *model.Template {
	r.mu.Lock()
	defer r.mu.Unlock()

	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	for _, opt := range template.Options {
		if opt.ID == uuid.Nil {
			opt.ID = uuid.New()
		}
		opt.TemplateID = template.ID
	}
	r.templates[template.ID] = template
	return template
}

func (r *TemplateRepository) ListActive(_ context.Context) ([]*model.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := []*model.Template{}
	for _, t := range r.templates {
		if t.IsActive {
			templates = append(templates, t)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (r *TemplateRepository) GetActive(_ context.Context, id uuid.UUID) (*model.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok || !t.IsActive {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

type GenerationRepository struct {
	mu        sync.RWMutex
	generated []*model.GeneratedPlan
}

func NewGenerationRepository() *GenerationRepository {
	return &GenerationRepository{}
}

func (r *GenerationRepository) Create(_ context.Context, generated *model.GeneratedPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	generated.ID = uuid.New()
	generated.CreatedAt = time.Now()
	clone := *generated
	r.generated = append(r.generated, &clone)
	return nil
}

func (r *GenerationRepository) ListByPlan(_ context.Context, accountID, planID uuid.UUID) ([]*model.GeneratedPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.GeneratedPlan{}
	for _, g := range r.generated {
		if g.AccountID == accountID && g.PlanID == planID {
			clone := *g
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type TokenStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{revoked: make(map[string]time.Time)}
}

func (s *TokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *TokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expiry, ok := s.revoked[tokenID]
	return ok && time.Now().Before(expiry), nil
}
