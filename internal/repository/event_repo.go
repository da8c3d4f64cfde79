package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

// participantCountExpr counts non-cancelled participations per event. It is a
// correlated subquery on purpose: cancelled rows must never inflate counts.
const participantCountExpr = `(
	SELECT COUNT(*) FROM event_participants ep
	WHERE ep.event_id = events.id AND ep.status <> 'cancelled'
) AS participant_count`

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*model.Event, int64, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	BulkSetStatus(ctx context.Context, ids []uuid.UUID, status string) (int64, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountsByStatus(ctx context.Context) (map[string]int64, error)
	CountsByDay(ctx context.Context, from, to time.Time) ([]dto.DayCount, error)
	TopSports(ctx context.Context, limit int) ([]dto.SportCount, error)
	TopByParticipants(ctx context.Context, limit int) ([]dto.TopEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).
		Select("events.*, " + participantCountExpr).
		Preload("Creator").
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*model.Event, int64, error) {
	var events []*model.Event
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Event{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR venue ILIKE ?",
			like, like, like,
		)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Sport != "" {
		query = query.Where("sport ILIKE ?", filter.Sport)
	}

	if filter.Venue != "" {
		query = query.Where("venue ILIKE ?", "%"+filter.Venue+"%")
	}

	if filter.Date != "" {
		if day, err := time.Parse("2006-01-02", filter.Date); err == nil {
			query = query.Where("event_date >= ? AND event_date < ?", day, day.AddDate(0, 0, 1))
		}
	}

	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}

	if filter.UpcomingFrom != nil {
		query = query.Where("event_date >= ?", *filter.UpcomingFrom)
	}

	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderAsc {
		query = query.Order("event_date ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.
		Select("events.*, "+participantCountExpr).
		Preload("Creator").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes the event and its participations explicitly; there is no
// database-level cascade on event_participants.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Participation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, "id = ?", id).Error
	})
}

func (r *eventRepository) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id IN ?", ids).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *eventRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id IN ?", ids).Delete(&model.Participation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Event{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error
	return count, err
}

func (r *eventRepository) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *eventRepository) CountsByDay(ctx context.Context, from, to time.Time) ([]dto.DayCount, error) {
	var rows []dto.DayCount
	query := `
		SELECT DATE(created_at) AS day, COUNT(*) AS count
		FROM events
		WHERE created_at >= ? AND created_at < ?
		GROUP BY DATE(created_at)
		ORDER BY day
	`
	if err := r.db.WithContext(ctx).Raw(query, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) TopSports(ctx context.Context, limit int) ([]dto.SportCount, error) {
	var rows []dto.SportCount
	if err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("sport, COUNT(*) AS count").
		Group("sport").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) TopByParticipants(ctx context.Context, limit int) ([]dto.TopEvent, error) {
	var rows []dto.TopEvent
	query := `
		SELECT id, title, sport,
			(SELECT COUNT(*) FROM event_participants ep
			 WHERE ep.event_id = events.id AND ep.status <> 'cancelled') AS participant_count
		FROM events
		ORDER BY participant_count DESC, created_at DESC
		LIMIT ?
	`
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
