package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLogEntry) error
	List(ctx context.Context, filter dto.ActivityFilter, page dto.Pagination) ([]*model.ActivityLogEntry, int64, error)
	Recent(ctx context.Context, limit int) ([]*model.ActivityLogEntry, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, filter dto.ActivityFilter, page dto.Pagination) ([]*model.ActivityLogEntry, int64, error) {
	var entries []*model.ActivityLogEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ActivityLogEntry{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if filter.Table != "" {
		query = query.Where("table_name = ?", filter.Table)
	}

	if filter.UserID != "" {
		if actorID, err := uuid.Parse(filter.UserID); err == nil {
			query = query.Where("actor_id = ?", actorID)
		}
	}

	if filter.Date != "" {
		if day, err := time.Parse("2006-01-02", filter.Date); err == nil {
			query = query.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"action ILIKE ? OR table_name ILIKE ? OR record_id ILIKE ?",
			like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Actor").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]*model.ActivityLogEntry, error) {
	var entries []*model.ActivityLogEntry
	if err := r.db.WithContext(ctx).
		Preload("Actor").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
