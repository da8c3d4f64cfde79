package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
)

type AdminSettingsHandler struct {
	settings service.SettingsService
	activity service.ActivityService
}

func NewAdminSettingsHandler(settings service.SettingsService, activity service.ActivityService) *AdminSettingsHandler {
	return &AdminSettingsHandler{settings: settings, activity: activity}
}

func (h *AdminSettingsHandler) Index(c *gin.Context) {
	rows, err := h.settings.All(c.Request.Context())
	if err != nil {
		response.HTMLWithBanner(c, "admin_settings.tmpl", response.FlashDanger, "Error loading settings", gin.H{
			"Title": "Settings", "User": middleware.CurrentUser(c),
		})
		return
	}

	response.HTML(c, "admin_settings.tmpl", gin.H{
		"Title": "Settings", "User": middleware.CurrentUser(c), "Rows": rows,
	})
}

func (h *AdminSettingsHandler) Submit(c *gin.Context) {
	switch c.PostForm("action") {
	case "test_email":
		h.testEmail(c)
	case "clear_cache":
		h.clearCache(c)
	default:
		h.update(c)
	}
}

func (h *AdminSettingsHandler) update(c *gin.Context) {
	values := c.PostFormMap("settings")
	if len(values) == 0 {
		response.SetFlash(c, response.FlashWarning, "Nothing to update")
		response.Redirect(c, "/admin/settings")
		return
	}

	old, updated, err := h.settings.Update(c.Request.Context(), values)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error updating settings")
		response.Redirect(c, "/admin/settings")
		return
	}

	if len(updated) == 0 {
		response.SetFlash(c, response.FlashInfo, "No settings changed")
		response.Redirect(c, "/admin/settings")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "settings_update",
		Table:     "settings",
		OldValues: old,
		NewValues: updated,
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("settings_update").Inc()

	response.SetFlash(c, response.FlashSuccess, fmt.Sprintf("%d setting(s) updated", len(updated)))
	response.Redirect(c, "/admin/settings")
}

func (h *AdminSettingsHandler) testEmail(c *gin.Context) {
	to := c.PostForm("test_email")
	if to == "" {
		response.SetFlash(c, response.FlashDanger, "Recipient address is required")
		response.Redirect(c, "/admin/settings")
		return
	}

	if err := h.settings.SendTestEmail(to); err != nil {
		response.SetFlash(c, response.FlashDanger, "Error sending test email: "+err.Error())
		response.Redirect(c, "/admin/settings")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "settings_test_email",
		Table:     "settings",
		NewValues: gin.H{"to": to},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("settings_test_email").Inc()

	response.SetFlash(c, response.FlashSuccess, "Test email sent to "+to)
	response.Redirect(c, "/admin/settings")
}

func (h *AdminSettingsHandler) clearCache(c *gin.Context) {
	removed, err := h.settings.ClearCache(c.Request.Context())
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error clearing cache")
		response.Redirect(c, "/admin/settings")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "settings_clear_cache",
		Table:     "settings",
		NewValues: gin.H{"removed": removed},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("settings_clear_cache").Inc()

	response.SetFlash(c, response.FlashSuccess, fmt.Sprintf("Cache cleared (%d entries removed)", removed))
	response.Redirect(c, "/admin/settings")
}
