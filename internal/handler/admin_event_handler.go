package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/display"
	"github.com/sportsmeet/manager/pkg/response"
	"github.com/sportsmeet/manager/pkg/timeutil"
	"github.com/sportsmeet/manager/pkg/validator"
)

type AdminEventHandler struct {
	events   service.EventService
	activity service.ActivityService
}

func NewAdminEventHandler(events service.EventService, activity service.ActivityService) *AdminEventHandler {
	return &AdminEventHandler{events: events, activity: activity}
}

// Index renders the event list, or one of the sub-views selected by ?action=.
func (h *AdminEventHandler) Index(c *gin.Context) {
	switch c.Query("action") {
	case "new":
		response.HTML(c, "admin_event_form.tmpl", gin.H{
			"Title": "New Event", "User": middleware.CurrentUser(c),
		})
		return
	case "edit":
		h.showEdit(c)
		return
	case "participants":
		h.participants(c)
		return
	case "export":
		h.exportParticipants(c)
		return
	}

	var filter dto.EventFilter
	var page dto.Pagination
	_ = c.ShouldBindQuery(&filter)
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	rows, total, err := h.events.List(c.Request.Context(), filter, page)
	if err != nil {
		response.HTMLWithBanner(c, "admin_events.tmpl", response.FlashDanger, "Error loading events", gin.H{
			"Title": "Events", "User": middleware.CurrentUser(c),
			"Filter": filter, "Meta": dto.NewPaginationMeta(page, 0),
		})
		return
	}

	response.HTML(c, "admin_events.tmpl", gin.H{
		"Title":  "Events",
		"User":   middleware.CurrentUser(c),
		"Rows":   rows,
		"Filter": filter,
		"Meta":   dto.NewPaginationMeta(page, total),
	})
}

func (h *AdminEventHandler) showEdit(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event id")
		response.Redirect(c, "/admin/events")
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Event not found")
		response.Redirect(c, "/admin/events")
		return
	}

	response.HTML(c, "admin_event_form.tmpl", gin.H{
		"Title": "Edit Event", "User": middleware.CurrentUser(c), "Event": event,
	})
}

func (h *AdminEventHandler) participants(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event id")
		response.Redirect(c, "/admin/events")
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Event not found")
		response.Redirect(c, "/admin/events")
		return
	}

	var page dto.Pagination
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	rows, total, err := h.events.Participants(c.Request.Context(), id, page)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error loading participants")
		response.Redirect(c, "/admin/events")
		return
	}

	response.HTML(c, "admin_event_participants.tmpl", gin.H{
		"Title": "Participants", "User": middleware.CurrentUser(c),
		"Event": event, "Rows": rows,
		"Meta": dto.NewPaginationMeta(page, total),
	})
}

// exportParticipants streams the full participant list of one event as CSV.
func (h *AdminEventHandler) exportParticipants(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event id")
		response.Redirect(c, "/admin/events")
		return
	}

	page := dto.Pagination{Page: 1, PerPage: 10000}
	rows, _, err := h.events.Participants(c.Request.Context(), id, page)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error exporting participants")
		response.Redirect(c, "/admin/events")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=participants-%s.csv", id))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Name", "Username", "Email", "Status", "Joined At"})
	for _, p := range rows {
		var username, email string
		if p.User != nil {
			username = p.User.Username
			email = p.User.Email
		}
		_ = w.Write([]string{
			display.Name(p.User),
			username,
			email,
			p.Status,
			timeutil.ToDisplayZone(p.JoinedAt),
		})
	}
	w.Flush()
}

// Submit dispatches POST mutations: create, update, delete and bulk actions.
func (h *AdminEventHandler) Submit(c *gin.Context) {
	switch c.PostForm("action") {
	case "create":
		h.create(c)
	case "update":
		h.update(c)
	case "delete":
		h.delete(c)
	case "bulk":
		h.bulk(c)
	default:
		response.SetFlash(c, response.FlashDanger, "Unknown action")
		response.Redirect(c, "/admin/events")
	}
}

func (h *AdminEventHandler) create(c *gin.Context) {
	var input dto.EventInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "admin_event_form.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "New Event", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	actor := middleware.CurrentUser(c)
	event, err := h.events.Create(c.Request.Context(), actor.ID, input, posterFile(c))
	if err != nil {
		response.HTMLWithBanner(c, "admin_event_form.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "New Event", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:  actorID(c),
		Action:   "event_create",
		Table:    "events",
		RecordID: event.ID.String(),
		NewValues: gin.H{
			"title": event.Title, "sport": event.Sport, "venue": event.Venue,
			"status": event.Status, "max_participants": event.MaxParticipants,
		},
		Meta: requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("event_create").Inc()

	response.SetFlash(c, response.FlashSuccess, "Event created")
	response.Redirect(c, "/admin/events")
}

func (h *AdminEventHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.PostForm("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event id")
		response.Redirect(c, "/admin/events")
		return
	}

	var input dto.EventInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "admin_event_form.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "Edit Event", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	before, after, err := h.events.Update(c.Request.Context(), id, input, posterFile(c))
	if err != nil {
		response.HTMLWithBanner(c, "admin_event_form.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "Edit Event", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "event_update",
		Table:     "events",
		RecordID:  id.String(),
		OldValues: gin.H{"title": before.Title, "status": before.Status, "max_participants": before.MaxParticipants},
		NewValues: gin.H{"title": after.Title, "status": after.Status, "max_participants": after.MaxParticipants},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("event_update").Inc()

	response.SetFlash(c, response.FlashSuccess, "Event updated")
	response.Redirect(c, "/admin/events")
}

func (h *AdminEventHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.PostForm("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid event id")
		response.Redirect(c, "/admin/events")
		return
	}

	deleted, err := h.events.Delete(c.Request.Context(), id)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error deleting event")
		response.Redirect(c, "/admin/events")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "event_delete",
		Table:     "events",
		RecordID:  id.String(),
		OldValues: gin.H{"title": deleted.Title, "sport": deleted.Sport, "status": deleted.Status},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("event_delete").Inc()

	response.SetFlash(c, response.FlashSuccess, "Event deleted")
	response.Redirect(c, "/admin/events")
}

func (h *AdminEventHandler) bulk(c *gin.Context) {
	var input dto.BulkEventInput
	if err := c.ShouldBind(&input); err != nil {
		response.SetFlash(c, response.FlashDanger, validator.FormatValidationError(err))
		response.Redirect(c, "/admin/events")
		return
	}

	affected, err := h.events.Bulk(c.Request.Context(), input)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error applying bulk action")
		response.Redirect(c, "/admin/events")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "event_bulk_" + input.Action,
		Table:     "events",
		NewValues: gin.H{"ids": input.EventIDs, "affected": affected},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("event_bulk_" + input.Action).Inc()

	response.SetFlash(c, response.FlashSuccess, fmt.Sprintf("%d event(s) affected", affected))
	response.Redirect(c, "/admin/events")
}

func posterFile(c *gin.Context) *service.PosterFile {
	fileHeader, err := c.FormFile("poster")
	if err != nil || fileHeader == nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil
	}
	return &service.PosterFile{Reader: file, FileName: fileHeader.Filename}
}
