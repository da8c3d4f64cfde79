package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
)

// SessionCookie holds the signed session token. The token only carries the
// user id; the user row is loaded per request, never cached globally.
const SessionCookie = "sm_session"

const currentUserKey = "current_user"

type AuthMiddleware struct {
	userRepo repository.UserRepository
	secret   string
}

func NewAuthMiddleware(userRepo repository.UserRepository, secret string) *AuthMiddleware {
	if secret == "" {
		secret = "change-me"
	}

	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
	}
}

// RequireLogin redirects guests to the login page. Authorization failures on
// a server-rendered surface are always redirects, never error pages.
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.resolveUser(c)
		if user == nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireAdmin bounces non-admin sessions to the user dashboard. Must run
// after RequireLogin.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.Redirect(http.StatusSeeOther, "/user/dashboard")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoadUser resolves the session if present without halting the request.
// Used by pages that render differently for guests.
func (m *AuthMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.resolveUser(c); user != nil {
			SetCurrentUser(c, user)
		}
		c.Next()
	}
}

// SetCurrentUser attaches the authenticated user to the request context.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated user for this request, or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

func IsLoggedIn(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

func IsAdmin(c *gin.Context) bool {
	user := CurrentUser(c)
	return user != nil && user.IsAdmin()
}

func (m *AuthMiddleware) resolveUser(c *gin.Context) *model.User {
	tokenString, err := c.Cookie(SessionCookie)
	if err != nil || tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil || !user.IsActive {
		return nil
	}

	return user
}
