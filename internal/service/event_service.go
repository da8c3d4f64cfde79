package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/pkg/storage"
)

// PosterFile is an uploaded event poster.
type PosterFile struct {
	Reader   io.Reader
	FileName string
}

type EventService interface {
	List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*model.Event, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, creatorID uuid.UUID, input dto.EventInput, poster *PosterFile) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, input dto.EventInput, poster *PosterFile) (*model.Event, *model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Bulk(ctx context.Context, input dto.BulkEventInput) (int64, error)

	Join(ctx context.Context, eventID, userID uuid.UUID) (model.JoinOutcome, error)
	CancelJoin(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Participants(ctx context.Context, eventID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error)
	JoinedEventIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	MyParticipations(ctx context.Context, userID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error)
}

type eventService struct {
	events       repository.EventRepository
	participants repository.ParticipationRepository
	posters      storage.ImageStorage
	search       SearchService
	sanitizer    *bluemonday.Policy

	// capacityTx switches the join capacity check from the legacy
	// check-then-insert sequence to a locked transaction.
	capacityTx bool
}

func NewEventService(
	events repository.EventRepository,
	participants repository.ParticipationRepository,
	posters storage.ImageStorage,
	search SearchService,
	capacityTx bool,
) EventService {
	return &eventService{
		events:       events,
		participants: participants,
		posters:      posters,
		search:       search,
		sanitizer:    bluemonday.StrictPolicy(),
		capacityTx:   capacityTx,
	}
}

func (s *eventService) List(ctx context.Context, filter dto.EventFilter, page dto.Pagination) ([]*model.Event, int64, error) {
	return s.events.List(ctx, filter, page)
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, creatorID uuid.UUID, input dto.EventInput, poster *PosterFile) (*model.Event, error) {
	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	event.CreatedBy = &creatorID

	if poster != nil && poster.Reader != nil && s.posters != nil {
		url, err := s.posters.UploadImage(ctx, poster.Reader, "posters", poster.FileName)
		if err != nil {
			return nil, err
		}
		event.PosterURL = &url
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexEvent(ctx, event)
	}

	return event, nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, input dto.EventInput, poster *PosterFile) (*model.Event, *model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	before := *event

	updated, err := s.buildEvent(input)
	if err != nil {
		return nil, nil, err
	}

	event.Title = updated.Title
	event.Description = updated.Description
	event.Sport = updated.Sport
	event.Venue = updated.Venue
	event.EventDate = updated.EventDate
	event.MaxParticipants = updated.MaxParticipants
	event.RegistrationDeadline = updated.RegistrationDeadline
	if updated.Status != "" {
		event.Status = updated.Status
	}

	if poster != nil && poster.Reader != nil && s.posters != nil {
		url, err := s.posters.UploadImage(ctx, poster.Reader, "posters", poster.FileName)
		if err != nil {
			return nil, nil, err
		}
		if before.PosterURL != nil {
			if err := s.posters.DeleteImage(ctx, *before.PosterURL); err != nil {
				log.Printf("failed to delete replaced poster for event %s: %v", event.ID, err)
			}
		}
		event.PosterURL = &url
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, nil, err
	}

	if s.search != nil {
		s.search.IndexEvent(ctx, event)
	}

	return &before, event, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return nil, err
	}

	if event.PosterURL != nil && s.posters != nil {
		if err := s.posters.DeleteImage(ctx, *event.PosterURL); err != nil {
			log.Printf("failed to delete poster for event %s: %v", id, err)
		}
	}

	if s.search != nil {
		s.search.DeleteEvent(ctx, id)
	}

	return event, nil
}

func (s *eventService) Bulk(ctx context.Context, input dto.BulkEventInput) (int64, error) {
	ids := make([]uuid.UUID, 0, len(input.EventIDs))
	for _, raw := range input.EventIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	switch input.Action {
	case "publish":
		return s.events.BulkSetStatus(ctx, ids, model.EventPublished)
	case "cancel":
		return s.events.BulkSetStatus(ctx, ids, model.EventCancelled)
	case "delete":
		affected, err := s.events.BulkDelete(ctx, ids)
		if err == nil && s.search != nil {
			for _, id := range ids {
				s.search.DeleteEvent(ctx, id)
			}
		}
		return affected, err
	default:
		return 0, fmt.Errorf("unknown bulk action %q", input.Action)
	}
}

// Join runs the three-outcome join state machine. In legacy mode the capacity
// check and the insert are separate statements, so two near-simultaneous
// joins can both pass the check; the transactional mode locks the event row.
func (s *eventService) Join(ctx context.Context, eventID, userID uuid.UUID) (model.JoinOutcome, error) {
	outcome, err := s.join(ctx, eventID, userID)
	if err == nil {
		metrics.JoinOutcomes.WithLabelValues(outcome.String()).Inc()
	}
	return outcome, err
}

func (s *eventService) join(ctx context.Context, eventID, userID uuid.UUID) (model.JoinOutcome, error) {
	now := time.Now().UTC()

	if s.capacityTx {
		return s.participants.JoinLocked(ctx, eventID, userID, now)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.EventUnavailable, nil
		}
		return model.EventUnavailable, err
	}

	if !event.RegistrationOpen(now) {
		return model.EventUnavailable, nil
	}

	if _, err := s.participants.FindActive(ctx, eventID, userID); err == nil {
		return model.AlreadyJoined, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EventUnavailable, err
	}

	count, err := s.participants.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return model.EventUnavailable, err
	}
	if count >= int64(event.MaxParticipants) {
		return model.EventFull, nil
	}

	p := &model.Participation{
		EventID: eventID,
		UserID:  userID,
		Status:  model.ParticipationRegistered,
	}
	if err := s.participants.Create(ctx, p); err != nil {
		return model.EventUnavailable, err
	}

	return model.Joined, nil
}

func (s *eventService) CancelJoin(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	affected, err := s.participants.Cancel(ctx, eventID, userID)
	return affected > 0, err
}

func (s *eventService) Participants(ctx context.Context, eventID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	return s.participants.ListByEvent(ctx, eventID, page)
}

func (s *eventService) JoinedEventIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := s.participants.EventIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		joined[id] = true
	}
	return joined, nil
}

func (s *eventService) MyParticipations(ctx context.Context, userID uuid.UUID, page dto.Pagination) ([]*model.Participation, int64, error) {
	return s.participants.ListByUser(ctx, userID, page)
}

func (s *eventService) buildEvent(input dto.EventInput) (*model.Event, error) {
	eventDate, err := parseDateTime(input.EventDate, input.EventTime)
	if err != nil {
		return nil, fmt.Errorf("invalid event date: %w", err)
	}

	var deadline *time.Time
	if input.RegistrationDeadline != "" {
		d, err := parseDateTime(input.RegistrationDeadline, "")
		if err != nil {
			return nil, fmt.Errorf("invalid registration deadline: %w", err)
		}
		deadline = &d
	}

	status := input.Status
	if status == "" {
		status = model.EventDraft
	}

	return &model.Event{
		Title:                strings.TrimSpace(s.sanitizer.Sanitize(input.Title)),
		Description:          strings.TrimSpace(s.sanitizer.Sanitize(input.Description)),
		Sport:                strings.TrimSpace(s.sanitizer.Sanitize(input.Sport)),
		Venue:                strings.TrimSpace(s.sanitizer.Sanitize(input.Venue)),
		EventDate:            eventDate,
		MaxParticipants:      input.MaxParticipants,
		RegistrationDeadline: deadline,
		Status:               status,
	}, nil
}

func parseDateTime(date, clock string) (time.Time, error) {
	if clock != "" {
		return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", date, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", date, time.UTC)
}
