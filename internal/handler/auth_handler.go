package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
	"github.com/sportsmeet/manager/pkg/validator"
)

type AuthHandler struct {
	authService     service.AuthService
	activityService service.ActivityService
}

func NewAuthHandler(authService service.AuthService, activityService service.ActivityService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		activityService: activityService,
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		response.Redirect(c, landingFor(user.Role))
		return
	}
	response.HTML(c, "login.tmpl", gin.H{"Title": "Login", "Username": ""})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "login.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "Login", "Username": input.Username})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.HTMLWithBanner(c, "login.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "Login", "Username": input.Username})
		return
	}

	token, expiresAt, err := h.authService.IssueSessionToken(user)
	if err != nil {
		response.HTMLWithBanner(c, "login.tmpl", response.FlashDanger, "Error creating session",
			gin.H{"Title": "Login", "Username": input.Username})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)

	h.activityService.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:  &user.ID,
		Action:   "user_login",
		Table:    "users",
		RecordID: user.ID.String(),
		Meta:     requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_login").Inc()

	response.SetFlash(c, response.FlashSuccess, "Welcome back, "+user.Username+"!")
	response.Redirect(c, landingFor(user.Role))
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		response.Redirect(c, landingFor(user.Role))
		return
	}
	response.HTML(c, "register.tmpl", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "register.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "Register", "Form": input})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.HTMLWithBanner(c, "register.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "Register", "Form": input})
		return
	}

	h.activityService.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   &user.ID,
		Action:    "user_register",
		Table:     "users",
		RecordID:  user.ID.String(),
		NewValues: gin.H{"username": user.Username, "email": user.Email, "role": user.Role},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_register").Inc()

	response.SetFlash(c, response.FlashSuccess, "Registration successful. Please log in.")
	response.Redirect(c, "/auth/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.SetFlash(c, response.FlashInfo, "You have been logged out.")
	response.Redirect(c, "/auth/login")
}
