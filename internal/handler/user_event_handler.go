package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
)

type UserEventHandler struct {
	events   service.EventService
	search   service.SearchService
	activity service.ActivityService
}

func NewUserEventHandler(events service.EventService, search service.SearchService, activity service.ActivityService) *UserEventHandler {
	return &UserEventHandler{events: events, search: search, activity: activity}
}

// Browse lists published upcoming events with optional filters.
func (h *UserEventHandler) Browse(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var filter dto.EventFilter
	var page dto.Pagination
	_ = c.ShouldBindQuery(&filter)
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	now := time.Now().UTC()
	filter.Status = model.EventPublished
	filter.UpcomingFrom = &now
	filter.OrderAsc = true

	// When the search index is available it answers free-text queries and
	// the SQL filter narrows by id; otherwise List falls back to ILIKE.
	if filter.Search != "" && h.search != nil && h.search.Enabled() {
		if ids, err := h.search.SearchEvents(c.Request.Context(), filter.Search, 200); err == nil {
			filter.IDs = ids
			filter.Search = ""
			if len(ids) == 0 {
				response.HTML(c, "user_events.tmpl", gin.H{
					"Title": "Browse Events", "User": user,
					"Rows": []*model.Event{}, "Filter": filter,
					"Meta": dto.NewPaginationMeta(page, 0),
				})
				return
			}
		}
	}

	rows, total, err := h.events.List(c.Request.Context(), filter, page)
	if err != nil {
		response.HTMLWithBanner(c, "user_events.tmpl", response.FlashDanger, "Error loading events", gin.H{
			"Title": "Browse Events", "User": user,
			"Filter": filter, "Meta": dto.NewPaginationMeta(page, 0),
		})
		return
	}

	joined, err := h.events.JoinedEventIDs(c.Request.Context(), user.ID)
	if err != nil {
		joined = map[uuid.UUID]bool{}
	}

	response.HTML(c, "user_events.tmpl", gin.H{
		"Title":  "Browse Events",
		"User":   user,
		"Rows":   rows,
		"Joined": joined,
		"Filter": filter,
		"Meta":   dto.NewPaginationMeta(page, total),
	})
}

// Join attempts to register the session user for an event.
func (h *UserEventHandler) Join(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input dto.JoinInput
	if err := c.ShouldBind(&input); err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event")
		response.Redirect(c, "/user/events")
		return
	}

	eventID, err := uuid.Parse(input.EventID)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event")
		response.Redirect(c, "/user/events")
		return
	}

	outcome, err := h.events.Join(c.Request.Context(), eventID, user.ID)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error joining event")
		response.Redirect(c, "/user/events")
		return
	}

	switch outcome {
	case model.Joined:
		h.activity.Record(c.Request.Context(), service.ActivityEntry{
			ActorID:   &user.ID,
			Action:    "event_join",
			Table:     "event_participants",
			RecordID:  eventID.String(),
			NewValues: gin.H{"event_id": eventID, "status": model.ParticipationRegistered},
			Meta:      requestMeta(c),
		})
		metrics.Mutations.WithLabelValues("event_join").Inc()
		response.SetFlash(c, response.FlashSuccess, "You have joined the event")
	case model.AlreadyJoined:
		response.SetFlash(c, response.FlashInfo, "You have already joined this event")
	case model.EventFull:
		response.SetFlash(c, response.FlashWarning, "This event is full")
	default:
		response.SetFlash(c, response.FlashWarning, "This event is not open for registration")
	}

	response.Redirect(c, "/user/events")
}

// MyEvents lists the session user's non-cancelled participations.
func (h *UserEventHandler) MyEvents(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var page dto.Pagination
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	rows, total, err := h.events.MyParticipations(c.Request.Context(), user.ID, page)
	if err != nil {
		response.HTMLWithBanner(c, "user_my_events.tmpl", response.FlashDanger, "Error loading your events", gin.H{
			"Title": "My Events", "User": user,
		})
		return
	}

	response.HTML(c, "user_my_events.tmpl", gin.H{
		"Title": "My Events",
		"User":  user,
		"Rows":  rows,
		"Meta":  dto.NewPaginationMeta(page, total),
	})
}

// CancelJoin withdraws the session user from an event.
func (h *UserEventHandler) CancelJoin(c *gin.Context) {
	user := middleware.CurrentUser(c)

	eventID, err := uuid.Parse(c.PostForm("event_id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event")
		response.Redirect(c, "/user/my_events")
		return
	}

	cancelled, err := h.events.CancelJoin(c.Request.Context(), eventID, user.ID)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error cancelling registration")
		response.Redirect(c, "/user/my_events")
		return
	}

	if !cancelled {
		response.SetFlash(c, response.FlashInfo, "You are not registered for this event")
		response.Redirect(c, "/user/my_events")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   &user.ID,
		Action:    "event_join_cancel",
		Table:     "event_participants",
		RecordID:  eventID.String(),
		NewValues: gin.H{"event_id": eventID, "status": model.ParticipationCancelled},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("event_join_cancel").Inc()

	response.SetFlash(c, response.FlashSuccess, "Registration cancelled")
	response.Redirect(c, "/user/my_events")
}
