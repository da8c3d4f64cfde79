package service

import (
	"context"
	"fmt"

	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/pkg/cache"
)

// DefaultSettings are seeded once at startup; existing values are never
// overwritten.
var DefaultSettings = []model.Setting{
	{Key: "site_name", Value: "SportsMeet Manager", Type: "string", Description: "Site title shown in headers"},
	{Key: "items_per_page", Value: "10", Type: "int", Description: "Default page size for list views"},
	{Key: "registration_open", Value: "true", Type: "bool", Description: "Allow new user self-registration"},
	{Key: "contact_email", Value: "admin@sportsmeet.local", Type: "string", Description: "Contact address shown in footers"},
	{Key: "default_event_capacity", Value: "20", Type: "int", Description: "Capacity pre-filled on the event form"},
}

type SettingsService interface {
	All(ctx context.Context) ([]*model.Setting, error)
	Update(ctx context.Context, values map[string]string) (old, updated map[string]string, err error)
	SendTestEmail(to string) error
	ClearCache(ctx context.Context) (int, error)
}

type settingsService struct {
	repo   repository.SettingRepository
	mailer Mailer
	cache  *cache.Cache
}

func NewSettingsService(repo repository.SettingRepository, mailer Mailer, c *cache.Cache) SettingsService {
	return &settingsService{repo: repo, mailer: mailer, cache: c}
}

func (s *settingsService) All(ctx context.Context) ([]*model.Setting, error) {
	return s.repo.All(ctx)
}

// Update writes only keys that already exist and actually changed, and
// returns old/new maps for the activity snapshot.
func (s *settingsService) Update(ctx context.Context, values map[string]string) (map[string]string, map[string]string, error) {
	current, err := s.repo.All(ctx)
	if err != nil {
		return nil, nil, err
	}

	old := make(map[string]string)
	updated := make(map[string]string)

	for _, setting := range current {
		value, ok := values[setting.Key]
		if !ok || value == setting.Value {
			continue
		}
		if err := s.repo.SetValue(ctx, setting.Key, value); err != nil {
			return nil, nil, err
		}
		old[setting.Key] = setting.Value
		updated[setting.Key] = value
	}

	if len(updated) > 0 && s.cache != nil {
		_ = s.cache.Delete(ctx, "settings")
	}

	return old, updated, nil
}

func (s *settingsService) SendTestEmail(to string) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer is not configured")
	}
	return s.mailer.Send(to, "SportsMeet test email", "This is a test email from SportsMeet Manager.")
}

func (s *settingsService) ClearCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.Clear(ctx)
}
