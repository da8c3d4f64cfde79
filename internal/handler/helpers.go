package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
)

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func actorID(c *gin.Context) *uuid.UUID {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

// landingFor picks the role-specific landing page after login.
func landingFor(role string) string {
	if role == "admin" {
		return "/admin/dashboard"
	}
	return "/user/dashboard"
}
