package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/model"
)

// Store-level sentinel errors. Services translate these into the API error
// taxonomy; repositories never shape HTTP responses themselves.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AccountRepository persists user identity and profile fields.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
}

// PlanRepository persists plans. Every read and write is scoped by the
// owning account: a plan under another account is indistinguishable from
// an absent one.
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	Get(ctx context.Context, accountID, planID uuid.UUID) (*model.Plan, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	Delete(ctx context.Context, accountID, planID uuid.UUID) error
}

// TemplateRepository reads the catalog. Entries are seeded out of band.
type TemplateRepository interface {
	ListActive(ctx context.Context) ([]*model.Template, error)
	GetActive(ctx context.Context, id uuid.UUID) (*model.Template, error)
}

// GenerationRepository appends generation events.
type GenerationRepository interface {
	Create(ctx context.Context, generated *model.GeneratedPlan) error
	ListByPlan(ctx context.Context, accountID, planID uuid.UUID) ([]*model.GeneratedPlan, error)
}

// TokenStore tracks revoked credentials until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
