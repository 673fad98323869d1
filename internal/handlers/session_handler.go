package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
)

// ListSessions returns every session the caller participates in.
func (h *Handler) ListSessions(c *gin.Context) {
	actor := actorFrom(c)
	sessions, err := h.sessions.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if sessions == nil {
		sessions = make([]models.Session, 0)
	}
	ok(c, http.StatusOK, gin.H{"sessions": sessions})
}

// ListAvailable returns upcoming open slots, paginated.
func (h *Handler) ListAvailable(c *gin.Context) {
	f := session.AvailableFilter{Page: 1, Limit: 10}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.Query("therapistId"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.TherapistID = &n
		}
	}

	sessions, pg, err := h.sessions.ListAvailable(c.Request.Context(), f)
	if err != nil {
		serviceError(c, err)
		return
	}
	if sessions == nil {
		sessions = make([]models.Session, 0)
	}
	ok(c, http.StatusOK, gin.H{"sessions": sessions, "pagination": pg})
}

type createSessionRequest struct {
	TherapistID int64 `json:"therapistId" binding:"required"`
	Datetime    int64 `json:"datetime" binding:"required"` // unix seconds
	Duration    int   `json:"duration"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), actorFrom(c),
		req.TherapistID, time.Unix(req.Datetime, 0), req.Duration)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"session": sess})
}

func (h *Handler) BookSession(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		return
	}
	sess, err := h.sessions.Book(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"session": sess})
}

type rescheduleRequest struct {
	Datetime int64 `json:"datetime" binding:"required"` // unix seconds
}

func (h *Handler) RescheduleSession(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.sessions.Reschedule(c.Request.Context(), actorFrom(c), id, time.Unix(req.Datetime, 0))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"session": sess})
}

func (h *Handler) CancelSession(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		return
	}
	sess, err := h.sessions.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"session": sess})
}

type feedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

func (h *Handler) AddFeedback(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.sessions.AttachFeedback(c.Request.Context(), actorFrom(c), id, req.Feedback)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"session": sess})
}

// sessionID parses the :id path param, responding 404 on garbage since no
// session can exist at that path.
func sessionID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusNotFound, "Session not found")
	}
	return id, err
}
