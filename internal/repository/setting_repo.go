package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sportsmeet/manager/internal/model"
)

type SettingRepository interface {
	All(ctx context.Context) ([]*model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	SetValue(ctx context.Context, key, value string) error
	Seed(ctx context.Context, defaults []model.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) All(ctx context.Context) ([]*model.Setting, error) {
	var settings []*model.Setting
	if err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		return nil, err
	}

	return &setting, nil
}

func (r *settingRepository) SetValue(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Model(&model.Setting{}).
		Where("key = ?", key).
		Update("value", value).Error
}

// Seed inserts missing defaults and never overwrites existing values.
func (r *settingRepository) Seed(ctx context.Context, defaults []model.Setting) error {
	if len(defaults) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error
}
