package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter dto.UserFilter, page dto.Pagination) ([]*model.User, int64, error) {
	var rows []*model.User
	for _, user := range f.users {
		copied := *user
		rows = append(rows, &copied)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	var affected int64
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			user.IsActive = active
			affected++
		}
	}
	return affected, nil
}

func (f *fakeUserRepo) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			delete(f.users, id)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLoginAt = &at
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) CountsByDay(ctx context.Context, from, to time.Time) ([]dto.DayCount, error) {
	return nil, nil
}

type fakeEventRepo struct {
	events map[uuid.UUID]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*model.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*model.Event, int64, error) {
	var rows []*model.Event
	for _, event := range f.events {
		copied := *event
		rows = append(rows, &copied)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if event, ok := f.events[id]; ok {
			event.Status = status
			affected++
		}
	}
	return affected, nil
}

func (f *fakeEventRepo) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, ok := f.events[id]; ok {
			delete(f.events, id)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeEventRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeEventRepo) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, event := range f.events {
		counts[event.Status]++
	}
	return counts, nil
}

func (f *fakeEventRepo) CountsByDay(ctx context.Context, from, to time.Time) ([]dto.DayCount, error) {
	return nil, nil
}

func (f *fakeEventRepo) TopSports(ctx context.Context, limit int) ([]dto.SportCount, error) {
	return nil, nil
}

func (f *fakeEventRepo) TopByParticipants(ctx context.Context, limit int) ([]dto.TopEvent, error) {
	return nil, nil
}

type fakeParticipationRepo struct {
	events *fakeEventRepo
	rows   []*model.Participation
}

func newFakeParticipationRepo(events *fakeEventRepo) *fakeParticipationRepo {
	return &fakeParticipationRepo{events: events}
}

func (f *fakeParticipationRepo) Create(ctx context.Context, p *model.Participation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	copied := *p
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeParticipationRepo) FindActive(ctx context.Context, eventID, userID uuid.UUID) (*model.Participation, error) {
	for _, p := range f.rows {
		if p.EventID == eventID && p.UserID == userID && p.Status != model.ParticipationCancelled {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeParticipationRepo) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range f.rows {
		if p.EventID == eventID && p.Status != model.ParticipationCancelled {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipationRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	var rows []*model.Participation
	for _, p := range f.rows {
		if p.EventID == eventID {
			copied := *p
			rows = append(rows, &copied)
		}
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeParticipationRepo) ListByUser(ctx context.Context, userID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	var rows []*model.Participation
	for _, p := range f.rows {
		if p.UserID == userID && p.Status != model.ParticipationCancelled {
			copied := *p
			rows = append(rows, &copied)
		}
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeParticipationRepo) EventIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range f.rows {
		if p.UserID == userID && p.Status != model.ParticipationCancelled {
			ids = append(ids, p.EventID)
		}
	}
	return ids, nil
}

func (f *fakeParticipationRepo) Cancel(ctx context.Context, eventID, userID uuid.UUID) (int64, error) {
	var affected int64
	for _, p := range f.rows {
		if p.EventID == eventID && p.UserID == userID && p.Status != model.ParticipationCancelled {
			p.Status = model.ParticipationCancelled
			affected++
		}
	}
	return affected, nil
}

func (f *fakeParticipationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeParticipationRepo) JoinLocked(ctx context.Context, eventID, userID uuid.UUID, now time.Time) (model.JoinOutcome, error) {
	event, ok := f.events.events[eventID]
	if !ok {
		return model.EventUnavailable, nil
	}
	if !event.RegistrationOpen(now) {
		return model.EventUnavailable, nil
	}
	if _, err := f.FindActive(ctx, eventID, userID); err == nil {
		return model.AlreadyJoined, nil
	}
	count, _ := f.CountActiveByEvent(ctx, eventID)
	if count >= int64(event.MaxParticipants) {
		return model.EventFull, nil
	}
	if err := f.Create(ctx, &model.Participation{
		EventID: eventID,
		UserID:  userID,
		Status:  model.ParticipationRegistered,
	}); err != nil {
		return model.EventUnavailable, err
	}
	return model.Joined, nil
}
