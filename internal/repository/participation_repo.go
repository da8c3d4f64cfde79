package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *model.Participation) error
	FindActive(ctx context.Context, eventID, userID uuid.UUID) (*model.Participation, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error)
	EventIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Cancel(ctx context.Context, eventID, userID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)

	// JoinLocked performs the whole join state machine inside a transaction
	// with the event row locked, closing the capacity race.
	JoinLocked(ctx context.Context, eventID, userID uuid.UUID, now time.Time) (model.JoinOutcome, error)
}

type participationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) Create(ctx context.Context, p *model.Participation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *participationRepository) FindActive(ctx context.Context, eventID, userID uuid.UUID) (*model.Participation, error) {
	var p model.Participation
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, model.ParticipationCancelled).
		First(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *participationRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Participation{}).
		Where("event_id = ? AND status <> ?", eventID, model.ParticipationCancelled).
		Count(&count).Error
	return count, err
}

func (r *participationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	var rows []*model.Participation
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Participation{}).
		Where("event_id = ?", eventID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("joined_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *participationRepository) ListByUser(ctx context.Context, userID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	var rows []*model.Participation
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Participation{}).
		Where("user_id = ? AND status <> ?", userID, model.ParticipationCancelled)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Event").
		Order("joined_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *participationRepository) EventIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Participation{}).
		Where("user_id = ? AND status <> ?", userID, model.ParticipationCancelled).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *participationRepository) Cancel(ctx context.Context, eventID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Participation{}).
		Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, model.ParticipationCancelled).
		Update("status", model.ParticipationCancelled)
	return res.RowsAffected, res.Error
}

func (r *participationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Participation{}).Count(&count).Error
	return count, err
}

func (r *participationRepository) JoinLocked(ctx context.Context, eventID, userID uuid.UUID, now time.Time) (model.JoinOutcome, error) {
	outcome := model.EventUnavailable

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = model.EventUnavailable
				return nil
			}
			return err
		}

		if !event.RegistrationOpen(now) {
			outcome = model.EventUnavailable
			return nil
		}

		var existing int64
		if err := tx.Model(&model.Participation{}).
			Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, model.ParticipationCancelled).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			outcome = model.AlreadyJoined
			return nil
		}

		var count int64
		if err := tx.Model(&model.Participation{}).
			Where("event_id = ? AND status <> ?", eventID, model.ParticipationCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(event.MaxParticipants) {
			outcome = model.EventFull
			return nil
		}

		p := &model.Participation{
			EventID: eventID,
			UserID:  userID,
			Status:  model.ParticipationRegistered,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		outcome = model.Joined
		return nil
	})
	if err != nil {
		return model.EventUnavailable, err
	}

	return outcome, nil
}
