package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
)

type generationRepository struct {
	BaseRepository
}

func NewGenerationRepository(base BaseRepository) repository.GenerationRepository {
	return &generationRepository{base}
}

func (r *generationRepository) Create(ctx context.Context, generated *model.GeneratedPlan) error {
	query := `
		INSERT INTO generated_plans (
			id, account_id, plan_id, content, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	generated.ID = uuid.New()
	generated.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			generated.ID,
			generated.AccountID,
			generated.PlanID,
			generated.Content,
			generated.CreatedAt,
		)
		return translateError(err)
	})
}

func (r *generationRepository) ListByPlan(ctx context.Context, accountID, planID uuid.UUID) ([]*model.GeneratedPlan, error) {
	query := `
		SELECT * FROM generated_plans
		WHERE account_id = $1 AND plan_id = $2
		ORDER BY created_at DESC
	`

	generated := []*model.GeneratedPlan{}
	if err := r.db.SelectContext(ctx, &generated, query, accountID, planID); err != nil {
		return nil, fmt.Errorf("failed to list generated plans: %w", err)
	}

	return generated, nil
}
