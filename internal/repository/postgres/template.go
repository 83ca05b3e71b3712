package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
)

type templateRepository struct {
	BaseRepository
}

func NewTemplateRepository(base BaseRepository) repository.TemplateRepository {
	return &templateRepository{base}
}

func (r *templateRepository) ListActive(ctx context.Context) ([]*model.Template, error) {
	query := `
		SELECT * FROM templates
		WHERE is_active = TRUE
		ORDER BY name
	`

	templates := []*model.Template{}
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if err := r.attachOptions(ctx, templates); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) GetActive(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	query := `SELECT * FROM templates WHERE id = $1 AND is_active = TRUE`

	var template model.Template
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, translateError(err)
	}

	if err := r.attachOptions(ctx, []*model.Template{&template}); err != nil {
		return nil, err
	}

	return &template, nil
}

func (r *templateRepository) attachOptions(ctx context.Context, templates []*model.Template) error {
	if len(templates) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(templates))
	byID := make(map[uuid.UUID]*model.Template, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	query, args, err := sqlx.In(
		`SELECT * FROM template_options WHERE template_id IN (?) ORDER BY name`, ids)
	if err != nil {
		return fmt.Errorf("failed to build options query: %w", err)
	}

	var options []*model.TemplateOption
	if err := r.db.SelectContext(ctx, &options, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list template options: %w", err)
	}

	for _, opt := range options {
		if t, ok := byID[opt.TemplateID]; ok {
			t.Options = append(t.Options, opt)
		}
	}

	return nil
}
