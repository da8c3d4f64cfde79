package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

func newTestEventService(capacityTx bool) (EventService, *fakeEventRepo, *fakeParticipationRepo) {
	events := newFakeEventRepo()
	participants := newFakeParticipationRepo(events)
	svc := NewEventService(events, participants, nil, nil, capacityTx)
	return svc, events, participants
}

func publishedEvent(t *testing.T, events *fakeEventRepo, maxParticipants int) *model.Event {
	t.Helper()

	event := &model.Event{
		Title:           "Inter-Department Football",
		Sport:           "football",
		Venue:           "Main Ground",
		EventDate:       time.Now().UTC().Add(72 * time.Hour),
		MaxParticipants: maxParticipants,
		Status:          model.EventPublished,
	}
	require.NoError(t, events.Create(context.Background(), event))
	return event
}

func TestJoin_Success(t *testing.T) {
	svc, events, participants := newTestEventService(false)
	event := publishedEvent(t, events, 10)
	userID := uuid.New()

	outcome, err := svc.Join(context.Background(), event.ID, userID)

	require.NoError(t, err)
	assert.Equal(t, model.Joined, outcome)

	count, err := participants.CountActiveByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJoin_DuplicateIsNoOp(t *testing.T) {
	svc, events, participants := newTestEventService(false)
	event := publishedEvent(t, events, 10)
	userID := uuid.New()

	_, err := svc.Join(context.Background(), event.ID, userID)
	require.NoError(t, err)

	outcome, err := svc.Join(context.Background(), event.ID, userID)

	require.NoError(t, err)
	assert.Equal(t, model.AlreadyJoined, outcome)

	count, err := participants.CountActiveByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "duplicate join must not insert a second row")
}

func TestJoin_FullEventRejected(t *testing.T) {
	svc, events, participants := newTestEventService(false)
	event := publishedEvent(t, events, 1)

	outcome, err := svc.Join(context.Background(), event.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, model.Joined, outcome)

	outcome, err = svc.Join(context.Background(), event.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, model.EventFull, outcome)

	count, err := participants.CountActiveByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "a rejected join must leave no row behind")
}

func TestJoin_UnpublishedEventUnavailable(t *testing.T) {
	svc, events, _ := newTestEventService(false)

	draft := &model.Event{
		Title:           "Draft Tournament",
		Sport:           "cricket",
		Venue:           "North Field",
		EventDate:       time.Now().UTC().Add(72 * time.Hour),
		MaxParticipants: 10,
		Status:          model.EventDraft,
	}
	require.NoError(t, events.Create(context.Background(), draft))

	outcome, err := svc.Join(context.Background(), draft.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, model.EventUnavailable, outcome)
}

func TestJoin_PastDeadlineUnavailable(t *testing.T) {
	svc, events, _ := newTestEventService(false)
	event := publishedEvent(t, events, 10)

	deadline := time.Now().UTC().Add(-time.Hour)
	event.RegistrationDeadline = &deadline
	require.NoError(t, events.Update(context.Background(), event))

	outcome, err := svc.Join(context.Background(), event.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, model.EventUnavailable, outcome)
}

func TestJoin_UnknownEventUnavailable(t *testing.T) {
	svc, _, _ := newTestEventService(false)

	outcome, err := svc.Join(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, model.EventUnavailable, outcome)
}

func TestJoin_CancelledSeatReopens(t *testing.T) {
	svc, events, _ := newTestEventService(false)
	event := publishedEvent(t, events, 1)
	first := uuid.New()

	outcome, err := svc.Join(context.Background(), event.ID, first)
	require.NoError(t, err)
	require.Equal(t, model.Joined, outcome)

	cancelled, err := svc.CancelJoin(context.Background(), event.ID, first)
	require.NoError(t, err)
	require.True(t, cancelled)

	outcome, err = svc.Join(context.Background(), event.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, model.Joined, outcome, "a cancelled registration frees its seat")
}

func TestJoin_LockedModeSameOutcomes(t *testing.T) {
	svc, events, _ := newTestEventService(true)
	event := publishedEvent(t, events, 1)
	userID := uuid.New()

	outcome, err := svc.Join(context.Background(), event.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.Joined, outcome)

	outcome, err = svc.Join(context.Background(), event.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.AlreadyJoined, outcome)

	outcome, err = svc.Join(context.Background(), event.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.EventFull, outcome)
}

func TestCancelJoin_NotRegistered(t *testing.T) {
	svc, events, _ := newTestEventService(false)
	event := publishedEvent(t, events, 10)

	cancelled, err := svc.CancelJoin(context.Background(), event.ID, uuid.New())

	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestCreate_SanitizesInput(t *testing.T) {
	svc, _, _ := newTestEventService(false)

	event, err := svc.Create(context.Background(), uuid.New(), dto.EventInput{
		Title:           "<script>alert(1)</script>Annual Meet",
		Description:     "<b>Bring</b> your kit",
		Sport:           "football",
		Venue:           "Main Ground",
		EventDate:       "2026-10-01",
		EventTime:       "09:30",
		MaxParticipants: 30,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Annual Meet", event.Title)
	assert.Equal(t, "Bring your kit", event.Description)
	assert.Equal(t, model.EventDraft, event.Status)
	assert.Equal(t, time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC), event.EventDate)
}

func TestCreate_RejectsBadDate(t *testing.T) {
	svc, _, _ := newTestEventService(false)

	_, err := svc.Create(context.Background(), uuid.New(), dto.EventInput{
		Title:           "Broken",
		Sport:           "tennis",
		Venue:           "Court 1",
		EventDate:       "01/10/2026",
		MaxParticipants: 8,
	}, nil)

	assert.Error(t, err)
}

func TestBulk_SkipsUnparseableIDs(t *testing.T) {
	svc, events, _ := newTestEventService(false)
	event := publishedEvent(t, events, 10)

	affected, err := svc.Bulk(context.Background(), dto.BulkEventInput{
		Action:   "cancel",
		EventIDs: []string{event.ID.String(), "not-a-uuid"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := events.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventCancelled, updated.Status)
}

func TestBulk_UnknownAction(t *testing.T) {
	svc, _, _ := newTestEventService(false)

	_, err := svc.Bulk(context.Background(), dto.BulkEventInput{
		Action:   "archive",
		EventIDs: []string{uuid.New().String()},
	})

	assert.Error(t, err)
}

func TestJoinedEventIDs(t *testing.T) {
	svc, events, _ := newTestEventService(false)
	first := publishedEvent(t, events, 10)
	second := publishedEvent(t, events, 10)
	userID := uuid.New()

	_, err := svc.Join(context.Background(), first.ID, userID)
	require.NoError(t, err)

	joined, err := svc.JoinedEventIDs(context.Background(), userID)

	require.NoError(t, err)
	assert.True(t, joined[first.ID])
	assert.False(t, joined[second.ID])
}
