package response

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "sm_flash"

// Flash kinds map to banner colors in the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

type FlashMessage struct {
	Kind    string
	Message string
}

// SetFlash stores a one-shot banner message for the next rendered page.
func SetFlash(c *gin.Context, kind, message string) {
	value := url.QueryEscape(kind + "|" + message)
	c.SetCookie(flashCookie, value, 60, "/", "", false, true)
}

// TakeFlash returns and clears the pending flash message, if any.
func TakeFlash(c *gin.Context) *FlashMessage {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}

	kind, message, found := strings.Cut(decoded, "|")
	if !found || message == "" {
		return nil
	}
	return &FlashMessage{Kind: kind, Message: message}
}

// HTML renders a template with the pending flash merged in. Pages always
// answer 200; handled failures surface as banners, not status codes.
func HTML(c *gin.Context, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = TakeFlash(c)
	}
	c.HTML(http.StatusOK, template, data)
}

// HTMLWithBanner renders a template with an inline banner, bypassing the
// flash cookie. Used when a form re-renders with the submitted values.
func HTMLWithBanner(c *gin.Context, template, kind, message string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = &FlashMessage{Kind: kind, Message: message}
	c.HTML(http.StatusOK, template, data)
}

// Redirect sends a see-other redirect (POST/redirect/GET).
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
