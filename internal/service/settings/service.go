package settings

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
	"github.com/jwalitptl/smartplan-api/internal/storage"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

// LogoUpload carries the binary part of a branding update.
type LogoUpload struct {
	ContentType string
	Body        io.Reader
}

type Service struct {
	accountRepo repository.AccountRepository
	objects     storage.ObjectStore
}

func NewService(accountRepo repository.AccountRepository, objects storage.ObjectStore) *Service {
	return &Service{
		accountRepo: accountRepo,
		objects:     objects,
	}
}

func (s *Service) GetSettings(ctx context.Context, accountID uuid.UUID) (*model.Settings, error) {
	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("account")
		}
		return nil, apperrors.Internal(err)
	}
	return s.snapshot(account), nil
}

// UpdateSettings applies a partial update. Each present group is merged
// field-by-field: nil fields keep their stored value, non-nil fields
// overwrite even when empty. A patch carrying no recognized group and no
// logo is rejected rather than silently accepted.
func (s *Service) UpdateSettings(ctx context.Context, accountID uuid.UUID, patch *model.SettingsPatch, logo *LogoUpload) (*model.Settings, error) {
	if patch.Empty() && logo == nil {
		return nil, apperrors.Validation("request must include at least one settings group")
	}

	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("account")
		}
		return nil, apperrors.Internal(err)
	}

	applyPatch(account, patch)

	oldLogoKey := account.LogoKey
	var newLogoKey *string
	if logo != nil {
		key := storage.LogoKey(accountID)
		if err := s.objects.Put(ctx, key, logo.ContentType, logo.Body); err != nil {
			return nil, apperrors.Internal(err)
		}
		newLogoKey = &key
		account.LogoKey = &key
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		// The row still references the old object; discard the new one so
		// nothing is orphaned.
		if newLogoKey != nil {
			s.objects.Delete(ctx, *newLogoKey)
		}
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("account")
		}
		return nil, apperrors.Internal(err)
	}

	// The row now references the new object; the old one is unreachable
	// and removed best-effort.
	if newLogoKey != nil && oldLogoKey != nil {
		s.objects.Delete(ctx, *oldLogoKey)
	}

	return s.snapshot(account), nil
}

func applyPatch(account *model.Account, patch *model.SettingsPatch) {
	if b := patch.Business; b != nil {
		if b.Name != nil {
			account.BusinessName = b.Name
		}
		if b.Phone != nil {
			account.BusinessPhone = b.Phone
		}
		if b.Address != nil {
			account.BusinessAddress = b.Address
		}
		if b.TargetMarket != nil {
			account.TargetMarket = b.TargetMarket
		}
		if b.ValueProposition != nil {
			account.ValueProposition = b.ValueProposition
		}
		if b.AdditionalContext != nil {
			account.AdditionalContext = b.AdditionalContext
		}
	}

	if so := patch.Social; so != nil {
		if so.Instagram != nil {
			account.Instagram = so.Instagram
		}
		if so.Facebook != nil {
			account.Facebook = so.Facebook
		}
		if so.TikTok != nil {
			account.TikTok = so.TikTok
		}
		if so.LinkedIn != nil {
			account.LinkedIn = so.LinkedIn
		}
		if so.YouTube != nil {
			account.YouTube = so.YouTube
		}
		if so.Twitter != nil {
			account.Twitter = so.Twitter
		}
		if so.Threads != nil {
			account.Threads = so.Threads
		}
	}

	if br := patch.Branding; br != nil {
		if br.PrimaryColor != nil {
			account.PrimaryColor = br.PrimaryColor
		}
		if br.SecondaryColor != nil {
			account.SecondaryColor = br.SecondaryColor
		}
		if br.BrandVoice != nil {
			account.BrandVoice = br.BrandVoice
		}
		if br.BrandDescription != nil {
			account.BrandDescription = br.BrandDescription
		}
	}
}

func (s *Service) snapshot(account *model.Account) *model.Settings {
	settings := &model.Settings{
		Email: account.Email,
		Business: model.BusinessInfo{
			Name:              account.BusinessName,
			Phone:             account.BusinessPhone,
			Address:           account.BusinessAddress,
			TargetMarket:      account.TargetMarket,
			ValueProposition:  account.ValueProposition,
			AdditionalContext: account.AdditionalContext,
		},
		Social: model.SocialLinks{
			Instagram: account.Instagram,
			Facebook:  account.Facebook,
			TikTok:    account.TikTok,
			LinkedIn:  account.LinkedIn,
			YouTube:   account.YouTube,
			Twitter:   account.Twitter,
			Threads:   account.Threads,
		},
		Branding: model.Branding{
			PrimaryColor:     account.PrimaryColor,
			SecondaryColor:   account.SecondaryColor,
			BrandVoice:       account.BrandVoice,
			BrandDescription: account.BrandDescription,
		},
	}

	if account.LogoKey != nil {
		url := s.objects.URL(*account.LogoKey)
		settings.Branding.LogoURL = &url
	}

	return settings
}
