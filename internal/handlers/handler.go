// Package handlers exposes the HTTP surface. Responses use the
// {"status": ..., "data"|"message": ...} envelope; lifecycle errors map to
// status codes here and nowhere else.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kngkeeper/therapydash-demo/internal/middleware"
	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
)

// UserStore is the account persistence the auth handlers need. CreateUser
// returns store.ErrDuplicateEmail on a taken email; UserByEmail returns
// session.ErrNotFound for unknown addresses.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	users    UserStore
	sessions *session.Service
	secret   string
}

func New(users UserStore, sessions *session.Service, secret string) *Handler {
	return &Handler{users: users, sessions: sessions, secret: secret}
}

func actorFrom(c *gin.Context) session.Actor {
	id, _ := c.Get(middleware.CtxUserID)
	role, _ := c.Get(middleware.CtxUserRole)
	return session.Actor{ID: id.(int64), Role: role.(models.Role)}
}

func ok(c *gin.Context, code int, data gin.H) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"status": "error", "message": msg})
}

// serviceError translates lifecycle errors into HTTP responses. Unexpected
// failures are logged and reported generically.
func serviceError(c *gin.Context, err error) {
	var validation *session.ValidationError
	var state *session.InvalidStateError
	var authz *session.AuthorizationError
	switch {
	case errors.As(err, &validation), errors.As(err, &state):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &authz):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, session.ErrNotFound):
		fail(c, http.StatusNotFound, "Session not found")
	default:
		log.Printf("session handler: %v", err)
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
