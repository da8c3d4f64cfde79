package handler_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/handler"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/internal/service"
)

type stubUserCounts struct {
	repository.UserRepository
	err error
}

func (s stubUserCounts) Count(context.Context) (int64, error) {
	return 7, s.err
}

type stubEventCounts struct {
	repository.EventRepository
}

func (stubEventCounts) Count(context.Context) (int64, error) {
	return 4, nil
}

func (stubEventCounts) CountsByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{model.EventPublished: 4}, nil
}

type stubParticipationCounts struct {
	repository.ParticipationRepository
}

func (stubParticipationCounts) Count(context.Context) (int64, error) {
	return 9, nil
}

type stubActivityRecent struct {
	repository.ActivityRepository
}

func (stubActivityRecent) Recent(context.Context, int) ([]*model.ActivityLogEntry, error) {
	return nil, nil
}

type stubMyParticipations struct {
	service.EventService
	rows []*model.Participation
}

func (s *stubMyParticipations) MyParticipations(context.Context, uuid.UUID, dto.Pagination) ([]*model.Participation, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

func TestAdminDashboard_RendersStats(t *testing.T) {
	h := handler.NewDashboardHandler(
		stubUserCounts{}, nil, stubEventCounts{}, stubParticipationCounts{}, stubActivityRecent{},
	)

	router := pageRouter(newAdmin())
	router.GET("/admin/dashboard", h.Admin)

	w := getPage(router, "/admin/dashboard")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<span class="stat">7</span> Users`)
	assert.Contains(t, w.Body.String(), `<span class="stat">4</span> Events`)
	assert.Contains(t, w.Body.String(), `<span class="stat">9</span> Registrations`)
}

func TestAdminDashboard_ReadFailureShowsBanner(t *testing.T) {
	h := handler.NewDashboardHandler(
		stubUserCounts{err: errors.New("connection refused")},
		nil, stubEventCounts{}, stubParticipationCounts{}, stubActivityRecent{},
	)

	router := pageRouter(newAdmin())
	router.GET("/admin/dashboard", h.Admin)

	w := getPage(router, "/admin/dashboard")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading dashboard")
	assert.Contains(t, w.Body.String(), `<span class="stat">0</span> Users`)
}

func TestUserDashboard_UpcomingSortedByEventDate(t *testing.T) {
	member := newMember()
	now := time.Now().UTC()

	participation := func(title string, eventDate time.Time) *model.Participation {
		return &model.Participation{
			ID:     uuid.New(),
			UserID: member.ID,
			Status: model.ParticipationRegistered,
			Event: &model.Event{
				ID:        uuid.New(),
				Title:     title,
				Sport:     "cricket",
				Venue:     "Central Ground",
				EventDate: eventDate,
				Status:    model.EventPublished,
			},
		}
	}

	// Ordered by join date, newest first, the way the service returns them.
	rows := []*model.Participation{
		participation("Finals Week", now.Add(14*24*time.Hour)),
		participation("Opening Run", now.Add(2*24*time.Hour)),
		participation("Last Month Gala", now.Add(-10*24*time.Hour)),
	}

	h := handler.NewDashboardHandler(nil, &stubMyParticipations{rows: rows}, nil, nil, nil)

	router := pageRouter(member)
	router.GET("/user/dashboard", h.User)

	w := getPage(router, "/user/dashboard")
	body := w.Body.String()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, body, "Last Month Gala")

	opening := strings.Index(body, "Opening Run")
	finals := strings.Index(body, "Finals Week")
	require.GreaterOrEqual(t, opening, 0)
	require.GreaterOrEqual(t, finals, 0)
	assert.Less(t, opening, finals)
}
