package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/apperror"
	"github.com/sportsmeet/manager/pkg/response"
	"github.com/sportsmeet/manager/pkg/validator"
)

type AdminUserHandler struct {
	users    service.UserAdminService
	activity service.ActivityService
}

func NewAdminUserHandler(users service.UserAdminService, activity service.ActivityService) *AdminUserHandler {
	return &AdminUserHandler{users: users, activity: activity}
}

// Index renders the user list, or the create/edit form when ?action=new|edit.
func (h *AdminUserHandler) Index(c *gin.Context) {
	switch c.Query("action") {
	case "new":
		response.HTML(c, "admin_user_form.tmpl", gin.H{
			"Title": "New User", "User": middleware.CurrentUser(c),
		})
		return
	case "edit":
		id, err := uuid.Parse(c.Query("id"))
		if err != nil {
			response.SetFlash(c, response.FlashDanger, "Invalid user id")
			response.Redirect(c, "/admin/users")
			return
		}
		target, err := h.users.Get(c.Request.Context(), id)
		if err != nil {
			response.SetFlash(c, response.FlashDanger, "User not found")
			response.Redirect(c, "/admin/users")
			return
		}
		response.HTML(c, "admin_user_form.tmpl", gin.H{
			"Title": "Edit User", "User": middleware.CurrentUser(c), "Target": target,
		})
		return
	}

	var filter dto.UserFilter
	var page dto.Pagination
	_ = c.ShouldBindQuery(&filter)
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	rows, total, err := h.users.List(c.Request.Context(), filter, page)
	if err != nil {
		response.HTMLWithBanner(c, "admin_users.tmpl", response.FlashDanger, "Error loading users", gin.H{
			"Title": "Users", "User": middleware.CurrentUser(c),
			"Filter": filter, "Meta": dto.NewPaginationMeta(page, 0),
		})
		return
	}

	response.HTML(c, "admin_users.tmpl", gin.H{
		"Title":  "Users",
		"User":   middleware.CurrentUser(c),
		"Rows":   rows,
		"Filter": filter,
		"Meta":   dto.NewPaginationMeta(page, total),
	})
}

// Submit dispatches POST mutations: create, update, delete and bulk actions.
func (h *AdminUserHandler) Submit(c *gin.Context) {
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
		response.Redirect(c, "/admin/users")
	}
}

func (h *AdminUserHandler) create(c *gin.Context) {
	var input dto.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "admin_user_form.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "New User", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		response.HTMLWithBanner(c, "admin_user_form.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "New User", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "user_create",
		Table:     "users",
		RecordID:  user.ID.String(),
		NewValues: gin.H{"username": user.Username, "email": user.Email, "role": user.Role},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_create").Inc()

	response.SetFlash(c, response.FlashSuccess, "User created")
	response.Redirect(c, "/admin/users")
}

func (h *AdminUserHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.PostForm("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid user id")
		response.Redirect(c, "/admin/users")
		return
	}

	var input dto.UpdateUserInput
	if err := c.ShouldBind(&input); err != nil {
		response.HTMLWithBanner(c, "admin_user_form.tmpl", response.FlashDanger,
			validator.FormatValidationError(err),
			gin.H{"Title": "Edit User", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	before, after, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		response.HTMLWithBanner(c, "admin_user_form.tmpl", response.FlashDanger, err.Error(),
			gin.H{"Title": "Edit User", "User": middleware.CurrentUser(c), "Form": input})
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "user_update",
		Table:     "users",
		RecordID:  id.String(),
		OldValues: gin.H{"username": before.Username, "email": before.Email, "role": before.Role, "is_active": before.IsActive},
		NewValues: gin.H{"username": after.Username, "email": after.Email, "role": after.Role, "is_active": after.IsActive},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_update").Inc()

	response.SetFlash(c, response.FlashSuccess, "User updated")
	response.Redirect(c, "/admin/users")
}

func (h *AdminUserHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.PostForm("id"))
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Invalid user id")
		response.Redirect(c, "/admin/users")
		return
	}

	actor := middleware.CurrentUser(c)
	deleted, err := h.users.Delete(c.Request.Context(), actor.ID, id)
	if err != nil {
		if err == apperror.ErrSelfTarget {
			response.SetFlash(c, response.FlashWarning, "You cannot delete your own account")
		} else {
			response.SetFlash(c, response.FlashDanger, "Error deleting user")
		}
		response.Redirect(c, "/admin/users")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "user_delete",
		Table:     "users",
		RecordID:  id.String(),
		OldValues: gin.H{"username": deleted.Username, "email": deleted.Email},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_delete").Inc()

	response.SetFlash(c, response.FlashSuccess, "User deleted")
	response.Redirect(c, "/admin/users")
}

func (h *AdminUserHandler) bulk(c *gin.Context) {
	var input dto.BulkUserInput
	if err := c.ShouldBind(&input); err != nil {
		response.SetFlash(c, response.FlashDanger, validator.FormatValidationError(err))
		response.Redirect(c, "/admin/users")
		return
	}

	actor := middleware.CurrentUser(c)
	affected, err := h.users.Bulk(c.Request.Context(), actor.ID, input)
	if err != nil {
		response.SetFlash(c, response.FlashDanger, "Error applying bulk action")
		response.Redirect(c, "/admin/users")
		return
	}

	h.activity.Record(c.Request.Context(), service.ActivityEntry{
		ActorID:   actorID(c),
		Action:    "user_bulk_" + input.Action,
		Table:     "users",
		NewValues: gin.H{"ids": input.UserIDs, "affected": affected},
		Meta:      requestMeta(c),
	})
	metrics.Mutations.WithLabelValues("user_bulk_" + input.Action).Inc()

	response.SetFlash(c, response.FlashSuccess, fmt.Sprintf("%d user(s) affected", affected))
	response.Redirect(c, "/admin/users")
}
