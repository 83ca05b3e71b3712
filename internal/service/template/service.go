package template

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

const activeTemplatesKey = "templates:active"

// Service serves the read-only catalog. Entries change rarely and only out
// of band, so reads go through a short in-memory cache.
type Service struct {
	templateRepo repository.TemplateRepository
	cache        *cache.Cache
}

type Config struct {
	CacheDuration   time.Duration
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		CacheDuration:   5 * time.Minute,
		CleanupInterval: 15 * time.Minute,
	}
}

func NewService(templateRepo repository.TemplateRepository, cfg Config) *Service {
	if cfg.CacheDuration <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		templateRepo: templateRepo,
		cache:        cache.New(cfg.CacheDuration, cfg.CleanupInterval),
	}
}

func (s *Service) ListActive(ctx context.Context) ([]*model.Template, error) {
	if cached, found := s.cache.Get(activeTemplatesKey); found {
		return cached.([]*model.Template), nil
	}

	templates, err := s.templateRepo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Set(activeTemplatesKey, templates, cache.DefaultExpiration)
	return templates, nil
}

func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	template, err := s.templateRepo.GetActive(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("template")
		}
		return nil, apperrors.Internal(err)
	}
	return template, nil
}
