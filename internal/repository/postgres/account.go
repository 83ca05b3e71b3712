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

type accountRepository struct {
	BaseRepository
}

func NewAccountRepository(base BaseRepository) repository.AccountRepository {
	return &accountRepository{base}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, full_name, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			account.ID,
			account.Email,
			account.FullName,
			account.PasswordHash,
			account.CreatedAt,
			account.UpdatedAt,
		)
		return translateError(err)
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT * FROM accounts WHERE id = $1`

	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, translateError(err)
	}

	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT * FROM accounts WHERE lower(email) = lower($1)`

	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, translateError(err)
	}

	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts SET
			email = $1,
			full_name = $2,
			password_hash = $3,
			business_name = $4,
			business_phone = $5,
			business_address = $6,
			target_market = $7,
			value_proposition = $8,
			additional_context = $9,
			instagram = $10,
			facebook = $11,
			tiktok = $12,
			linkedin = $13,
			youtube = $14,
			twitter = $15,
			threads = $16,
			primary_color = $17,
			secondary_color = $18,
			brand_voice = $19,
			brand_description = $20,
			logo_key = $21,
			updated_at = $22
		WHERE id = $23
	`

	account.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			account.Email,
			account.FullName,
			account.PasswordHash,
			account.BusinessName,
			account.BusinessPhone,
			account.BusinessAddress,
			account.TargetMarket,
			account.ValueProposition,
			account.AdditionalContext,
			account.Instagram,
			account.Facebook,
			account.TikTok,
			account.LinkedIn,
			account.YouTube,
			account.Twitter,
			account.Threads,
			account.PrimaryColor,
			account.SecondaryColor,
			account.BrandVoice,
			account.BrandDescription,
			account.LogoKey,
			account.UpdatedAt,
			account.ID,
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
