package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/server"
	"github.com/sportsmeet/manager/internal/service"
)

// recordingActivity captures audit entries so tests can assert exactly how
// many records a request produced.
type recordingActivity struct {
	entries []service.ActivityEntry
}

func (r *recordingActivity) Record(_ context.Context, entry service.ActivityEntry) {
	r.entries = append(r.entries, entry)
}

func newAdmin() *model.User {
	return &model.User{ID: uuid.New(), Username: "boss", Role: model.RoleAdmin, IsActive: true}
}

func newMember() *model.User {
	return &model.User{ID: uuid.New(), Username: "meera", Role: model.RoleUser, IsActive: true}
}

// sessionRouter returns a router whose requests run as the given user.
func sessionRouter(user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	})
	return router
}

// pageRouter additionally compiles the real templates for rendered pages.
func pageRouter(user *model.User) *gin.Engine {
	router := sessionRouter(user)
	router.SetFuncMap(server.TemplateFuncs())
	router.LoadHTMLGlob("../../web/templates/*.tmpl")
	return router
}

func getPage(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}
