package handler

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
)

type DashboardHandler struct {
	users        repository.UserRepository
	events       service.EventService
	eventRepo    repository.EventRepository
	participants repository.ParticipationRepository
	activity     repository.ActivityRepository
}

func NewDashboardHandler(
	users repository.UserRepository,
	events service.EventService,
	eventRepo repository.EventRepository,
	participants repository.ParticipationRepository,
	activity repository.ActivityRepository,
) *DashboardHandler {
	return &DashboardHandler{
		users:        users,
		events:       events,
		eventRepo:    eventRepo,
		participants: participants,
		activity:     activity,
	}
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	ctx := c.Request.Context()

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	totalUsers, err := h.users.Count(ctx)
	keep(err)
	totalEvents, err := h.eventRepo.Count(ctx)
	keep(err)
	totalParticipations, err := h.participants.Count(ctx)
	keep(err)
	eventsByStatus, err := h.eventRepo.CountsByStatus(ctx)
	keep(err)
	recent, err := h.activity.Recent(ctx, 10)
	keep(err)

	if firstErr != nil {
		response.HTMLWithBanner(c, "admin_dashboard.tmpl", response.FlashDanger, "Error loading dashboard", gin.H{
			"Title":               "Dashboard",
			"User":                middleware.CurrentUser(c),
			"TotalUsers":          int64(0),
			"TotalEvents":         int64(0),
			"TotalParticipations": int64(0),
			"EventsByStatus":      map[string]int64{},
			"RecentActivity":      []*model.ActivityLogEntry{},
		})
		return
	}

	response.HTML(c, "admin_dashboard.tmpl", gin.H{
		"Title":               "Dashboard",
		"User":                middleware.CurrentUser(c),
		"TotalUsers":          totalUsers,
		"TotalEvents":         totalEvents,
		"TotalParticipations": totalParticipations,
		"EventsByStatus":      eventsByStatus,
		"RecentActivity":      recent,
	})
}

func (h *DashboardHandler) User(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	mine, totalJoined, err := h.events.MyParticipations(ctx, user.ID, dto.Pagination{Page: 1, PerPage: 5})
	if err != nil {
		response.HTMLWithBanner(c, "user_dashboard.tmpl", response.FlashDanger, "Error loading dashboard", gin.H{
			"Title": "Dashboard", "User": user, "TotalJoined": 0,
		})
		return
	}

	// Upcoming joined events in chronological order. The participation list
	// arrives ordered by join date, so re-sort by event date here.
	upcoming := make([]*model.Participation, 0, len(mine))
	now := time.Now().UTC()
	for _, p := range mine {
		if p.Event != nil && p.Event.EventDate.After(now) {
			upcoming = append(upcoming, p)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Event.EventDate.Before(upcoming[j].Event.EventDate)
	})

	response.HTML(c, "user_dashboard.tmpl", gin.H{
		"Title":       "Dashboard",
		"User":        user,
		"TotalJoined": totalJoined,
		"Upcoming":    upcoming,
	})
}
