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

type planRepository struct {
	BaseRepository
}

func NewPlanRepository(base BaseRepository) repository.PlanRepository {
	return &planRepository{base}
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	query := `
		INSERT INTO plans (
			id, account_id, title, plan_type, channels, timeline,
			status, content, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			plan.ID,
			plan.AccountID,
			plan.Title,
			plan.PlanType,
			plan.Channels,
			plan.Timeline,
			plan.Status,
			plan.Content,
			plan.CreatedAt,
			plan.UpdatedAt,
		)
		return translateError(err)
	})
}

func (r *planRepository) Get(ctx context.Context, accountID, planID uuid.UUID) (*model.Plan, error) {
	query := `SELECT * FROM plans WHERE id = $1 AND account_id = $2`

	var plan model.Plan
	if err := r.db.GetContext(ctx, &plan, query, planID, accountID); err != nil {
		return nil, translateError(err)
	}

	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, accountID uuid.UUID) ([]*model.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	plans := []*model.Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return plans, nil
}

// Update writes all mutable columns; ownership is part of the WHERE clause
// so a plan under another account reads as absent.
func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	query := `
		UPDATE plans SET
			title = $1,
			plan_type = $2,
			channels = $3,
			timeline = $4,
			status = $5,
			content = $6,
			updated_at = $7
		WHERE id = $8 AND account_id = $9
	`

	plan.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			plan.Title,
			plan.PlanType,
			plan.Channels,
			plan.Timeline,
			plan.Status,
			plan.Content,
			plan.UpdatedAt,
			plan.ID,
			plan.AccountID,
		)
		if err != nil {
			return translateError(err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *planRepository) Delete(ctx context.Context, accountID, planID uuid.UUID) error {
	query := `DELETE FROM plans WHERE id = $1 AND account_id = $2`

	result, err := r.db.ExecContext(ctx, query, planID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
