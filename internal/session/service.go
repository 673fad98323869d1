// Package session implements the session lifecycle: state transitions on
// appointment slots and the authorization rules guarding them. Every mutation
// takes the acting user and performs its own capability check, so the HTTP
// layer never re-derives permissions per route.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kngkeeper/therapydash-demo/internal/models"
)

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   int64
	Role models.Role
}

// AvailableFilter selects upcoming available slots.
type AvailableFilter struct {
	TherapistID *int64
	Page        int
	Limit       int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
}

// UserDirectory resolves user references. Lookups return ErrNotFound for
// unknown ids.
type UserDirectory interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore is the persistence the service needs. SessionByID returns
// ErrNotFound for unknown ids. BookSession must apply the booked transition
// only while the row is still available and report whether it did, so two
// racing bookings cannot both win.
type SessionStore interface {
	CreateSession(ctx context.Context, sess *models.Session) error
	SessionByID(ctx context.Context, id int64) (*models.Session, error)
	SessionsForUser(ctx context.Context, userID int64) ([]models.Session, error)
	AvailableSessions(ctx context.Context, f AvailableFilter) ([]models.Session, int, error)
	BookSession(ctx context.Context, id, clientID int64) (bool, error)
	UpdateSession(ctx context.Context, sess *models.Session) error
}

type Service struct {
	users UserDirectory
	store SessionStore
}

func New(users UserDirectory, store SessionStore) *Service {
	return &Service{users: users, store: store}
}

// Create publishes a new available slot for a therapist.
func (s *Service) Create(ctx context.Context, actor Actor, therapistID int64, datetime time.Time, duration int) (*models.Session, error) {
	if actor.Role != models.RoleTherapist {
		return nil, &AuthorizationError{"only therapists can create sessions"}
	}
	if duration == 0 {
		duration = models.DefaultDuration
	}
	if duration < models.MinDuration || duration > models.MaxDuration {
		return nil, &ValidationError{fmt.Sprintf("duration must be between %d and %d minutes", models.MinDuration, models.MaxDuration)}
	}
	if !datetime.After(time.Now()) {
		return nil, &ValidationError{"session date must be in the future"}
	}

	therapist, err := s.users.UserByID(ctx, therapistID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{"session creator must be a therapist"}
		}
		return nil, err
	}
	if !therapist.IsTherapist() {
		return nil, &ValidationError{"session creator must be a therapist"}
	}

	sess := &models.Session{
		Datetime:    datetime.UTC(),
		Duration:    duration,
		Status:      models.StatusAvailable,
		TherapistID: therapistID,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Book lets a client claim an available slot. The store applies the
// transition conditionally, so a slot booked out from under us surfaces the
// same invalid-state error as one that was never available.
func (s *Service) Book(ctx context.Context, actor Actor, sessionID int64) (*models.Session, error) {
	if actor.Role != models.RoleClient {
		return nil, &AuthorizationError{"only clients can book sessions"}
	}

	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.StatusAvailable {
		return nil, &InvalidStateError{"session is not available for booking"}
	}

	applied, err := s.store.BookSession(ctx, sessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !applied {
		// lost the race to another client
		return nil, &InvalidStateError{"session is not available for booking"}
	}
	return s.store.SessionByID(ctx, sessionID)
}

// Reschedule moves a session to a new datetime. The prior datetime is kept in
// OriginalDatetime and the status becomes rescheduled regardless of whether
// the slot was available or booked.
func (s *Service) Reschedule(ctx context.Context, actor Actor, sessionID int64, newDatetime time.Time) (*models.Session, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, sess) {
		return nil, &AuthorizationError{"not a participant of this session"}
	}
	if sess.Status == models.StatusCancelled {
		return nil, &InvalidStateError{"cannot reschedule cancelled session"}
	}

	prior := sess.Datetime
	sess.OriginalDatetime = &prior
	sess.Datetime = newDatetime.UTC()
	sess.Status = models.StatusRescheduled
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Cancel aborts a session. Cancellation is terminal.
func (s *Service) Cancel(ctx context.Context, actor Actor, sessionID int64) (*models.Session, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, sess) {
		return nil, &AuthorizationError{"not a participant of this session"}
	}
	if sess.Status == models.StatusCancelled {
		return nil, &InvalidStateError{"session is already cancelled"}
	}

	cancelledBy := actor.ID
	sess.Status = models.StatusCancelled
	sess.CancelledBy = &cancelledBy
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AttachFeedback records the booked client's feedback once the session date
// has passed. Status is deliberately not checked, only the datetime.
func (s *Service) AttachFeedback(ctx context.Context, actor Actor, sessionID int64, text string) (*models.Session, error) {
	sess, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.ClientID == nil || *sess.ClientID != actor.ID {
		return nil, &AuthorizationError{"only the booked client can add feedback"}
	}
	if sess.Datetime.After(time.Now()) {
		return nil, &ValidationError{"feedback can only be added after the session date"}
	}
	if text == "" {
		return nil, &ValidationError{"feedback is required"}
	}
	if utf8.RuneCountInString(text) > models.MaxFeedbackLen {
		return nil, &ValidationError{fmt.Sprintf("feedback must be at most %d characters", models.MaxFeedbackLen)}
	}

	sess.Feedback = &text
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ListForUser returns every session the user participates in, soonest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	return s.store.SessionsForUser(ctx, userID)
}

// ListAvailable returns one page of upcoming available slots, soonest first,
// optionally filtered by therapist.
func (s *Service) ListAvailable(ctx context.Context, f AvailableFilter) ([]models.Session, Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	sessions, total, err := s.store.AvailableSessions(ctx, f)
	if err != nil {
		return nil, Pagination{}, err
	}
	pg := Pagination{
		Total:       total,
		Pages:       (total + f.Limit - 1) / f.Limit,
		CurrentPage: f.Page,
	}
	return sessions, pg, nil
}

func isParticipant(actor Actor, sess *models.Session) bool {
	if sess.TherapistID == actor.ID {
		return true
	}
	return sess.ClientID != nil && *sess.ClientID == actor.ID
}
