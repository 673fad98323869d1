// Package testutil provides an in-memory store implementing the same
// contracts as the Postgres store, so lifecycle and handler tests run
// without a database.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
	"github.com/kngkeeper/therapydash-demo/internal/store"
)

type MemStore struct {
	mu       sync.Mutex
	users    map[int64]models.User
	sessions map[int64]models.Session
	nextUser int64
	nextSess int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[int64]models.User),
		sessions: make(map[int64]models.Session),
	}
}

// SeedUser inserts a user directly, bypassing registration.
func (m *MemStore) SeedUser(name string, role models.Role) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUser++
	u := models.User{
		ID:        m.nextUser,
		Email:     fmt.Sprintf("%s-%d@test.com", role, m.nextUser),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	}
	m.users[u.ID] = u
	return &u
}

// SeedSession inserts a session directly in any state, bypassing the
// lifecycle rules. Used to set up past or already-transitioned records.
func (m *MemStore) SeedSession(sess models.Session) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess.ID == 0 {
		m.nextSess++
		sess.ID = m.nextSess
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	sess.UpdatedAt = sess.CreatedAt
	m.sessions[sess.ID] = sess
	return sess
}

func (m *MemStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	m.nextUser++
	u.ID = m.nextUser
	u.CreatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, session.ErrNotFound
}

func (m *MemStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &u, nil
}

func (m *MemStore) CreateSession(_ context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSess++
	sess.ID = m.nextSess
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt
	m.sessions[sess.ID] = *sess
	return nil
}

func (m *MemStore) SessionByID(_ context.Context, id int64) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	m.fillNames(&sess)
	return &sess, nil
}

func (m *MemStore) SessionsForUser(_ context.Context, userID int64) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, sess := range m.sessions {
		if sess.TherapistID == userID || (sess.ClientID != nil && *sess.ClientID == userID) {
			m.fillNames(&sess)
			out = append(out, sess)
		}
	}
	sortByDatetime(out)
	return out, nil
}

func (m *MemStore) AvailableSessions(_ context.Context, f session.AvailableFilter) ([]models.Session, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var all []models.Session
	for _, sess := range m.sessions {
		if sess.Status != models.StatusAvailable || !sess.Datetime.After(now) {
			continue
		}
		if f.TherapistID != nil && sess.TherapistID != *f.TherapistID {
			continue
		}
		m.fillNames(&sess)
		all = append(all, sess)
	}
	sortByDatetime(all)

	total := len(all)
	offset := (f.Page - 1) * f.Limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + f.Limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MemStore) BookSession(_ context.Context, id, clientID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || sess.Status != models.StatusAvailable {
		return false, nil
	}
	sess.ClientID = &clientID
	sess.Status = models.StatusBooked
	sess.UpdatedAt = time.Now()
	m.sessions[id] = sess
	return true, nil
}

func (m *MemStore) UpdateSession(_ context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.ID]; !ok {
		return session.ErrNotFound
	}
	sess.UpdatedAt = time.Now()
	stored := *sess
	stored.Therapist = nil
	stored.Client = nil
	m.sessions[sess.ID] = stored
	return nil
}

func (m *MemStore) fillNames(sess *models.Session) {
	if t, ok := m.users[sess.TherapistID]; ok {
		sess.Therapist = &models.Person{ID: t.ID, Name: t.Name, Surname: t.Surname}
	}
	if sess.ClientID != nil {
		if cl, ok := m.users[*sess.ClientID]; ok {
			sess.Client = &models.Person{ID: cl.ID, Name: cl.Name, Surname: cl.Surname}
		}
	}
}

func sortByDatetime(sessions []models.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Datetime.Before(sessions[j].Datetime)
	})
}
