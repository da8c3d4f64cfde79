package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
)

type AdminAnalyticsHandler struct {
	analytics service.AnalyticsService
}

func NewAdminAnalyticsHandler(analytics service.AnalyticsService) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{analytics: analytics}
}

func (h *AdminAnalyticsHandler) Index(c *gin.Context) {
	to := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	report, err := h.analytics.Report(c.Request.Context(), from, to)
	if err != nil {
		response.HTMLWithBanner(c, "admin_analytics.tmpl", response.FlashDanger, "Error loading analytics", gin.H{
			"Title": "Analytics", "User": middleware.CurrentUser(c),
			"Report":    &dto.AnalyticsReport{From: from, To: to},
			"StartDate": from.Format("2006-01-02"),
			"EndDate":   to.AddDate(0, 0, -1).Format("2006-01-02"),
		})
		return
	}

	response.HTML(c, "admin_analytics.tmpl", gin.H{
		"Title":  "Analytics",
		"User":   middleware.CurrentUser(c),
		"Report": report,
		// To is an exclusive bound; render the inclusive end date.
		"StartDate": from.Format("2006-01-02"),
		"EndDate":   to.AddDate(0, 0, -1).Format("2006-01-02"),
	})
}
