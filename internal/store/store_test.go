package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
	"github.com/kngkeeper/therapydash-demo/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if migration, err := os.ReadFile("../../db/migrations/001_init.sql"); err == nil {
		_, _ = pool.Exec(context.Background(), string(migration))
	}
	return store.New(pool)
}

func seedUser(t *testing.T, st *store.Store, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Email:        fmt.Sprintf("test-%s@test.com", uuid.NewString()[:8]),
		Name:         "Test",
		Surname:      "User",
		PasswordHash: "x",
		Role:         role,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedSession(t *testing.T, st *store.Store, therapistID int64, offset time.Duration) *models.Session {
	t.Helper()
	sess := &models.Session{
		Datetime:    time.Now().Add(offset).UTC().Truncate(time.Microsecond),
		Duration:    60,
		Status:      models.StatusAvailable,
		TherapistID: therapistID,
	}
	if err := st.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := setup(t)
	u := seedUser(t, st, models.RoleClient)

	dup := &models.User{Email: u.Email, Name: "Dup", PasswordHash: "x", Role: models.RoleClient}
	err := st.CreateUser(context.Background(), dup)
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	st := setup(t)
	u := seedUser(t, st, models.RoleTherapist)

	byEmail, err := st.UserByEmail(context.Background(), u.Email)
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("by email: %v (%+v)", err, byEmail)
	}
	byID, err := st.UserByID(context.Background(), u.ID)
	if err != nil || byID.Email != u.Email {
		t.Fatalf("by id: %v (%+v)", err, byID)
	}
	if _, err := st.UserByID(context.Background(), -1); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	st := setup(t)
	therapist := seedUser(t, st, models.RoleTherapist)
	sess := seedSession(t, st, therapist.ID, time.Hour)

	got, err := st.SessionByID(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.Status != models.StatusAvailable || got.TherapistID != therapist.ID {
		t.Errorf("got %+v", got)
	}
	if got.Therapist == nil || got.Therapist.Name != "Test" {
		t.Error("therapist name not joined")
	}
	if got.Client != nil {
		t.Error("unbooked session has a client view")
	}
}

func TestBookSessionConditional(t *testing.T) {
	st := setup(t)
	therapist := seedUser(t, st, models.RoleTherapist)
	clientA := seedUser(t, st, models.RoleClient)
	clientB := seedUser(t, st, models.RoleClient)
	sess := seedSession(t, st, therapist.ID, time.Hour)

	ctx := context.Background()
	applied, err := st.BookSession(ctx, sess.ID, clientA.ID)
	if err != nil || !applied {
		t.Fatalf("first book: applied=%v err=%v", applied, err)
	}

	// slot already taken, second booking must not apply
	applied, err = st.BookSession(ctx, sess.ID, clientB.ID)
	if err != nil {
		t.Fatalf("second book: %v", err)
	}
	if applied {
		t.Fatal("second booking applied, double-booking race is open")
	}

	got, _ := st.SessionByID(ctx, sess.ID)
	if got.ClientID == nil || *got.ClientID != clientA.ID {
		t.Errorf("client = %v, want %d", got.ClientID, clientA.ID)
	}
}

func TestUpdateSessionTransitions(t *testing.T) {
	st := setup(t)
	therapist := seedUser(t, st, models.RoleTherapist)
	sess := seedSession(t, st, therapist.ID, 2*time.Hour)
	ctx := context.Background()

	prior := sess.Datetime
	sess.OriginalDatetime = &prior
	sess.Datetime = prior.Add(time.Hour)
	sess.Status = models.StatusRescheduled
	if err := st.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.SessionByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.StatusRescheduled {
		t.Errorf("status = %s", got.Status)
	}
	if got.OriginalDatetime == nil || !got.OriginalDatetime.Equal(prior) {
		t.Errorf("originalDatetime = %v, want %v", got.OriginalDatetime, prior)
	}
}

func TestAvailableSessionsPagination(t *testing.T) {
	st := setup(t)
	therapist := seedUser(t, st, models.RoleTherapist)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedSession(t, st, therapist.ID, time.Duration(i+1)*time.Hour)
	}

	f := session.AvailableFilter{TherapistID: &therapist.ID, Page: 2, Limit: 10}
	sessions, total, err := st.AvailableSessions(ctx, f)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(sessions) != 10 {
		t.Errorf("got %d sessions, want 10", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].Datetime.Before(sessions[i-1].Datetime) {
			t.Fatal("not ordered by datetime ascending")
		}
	}
}

func TestSessionsForUser(t *testing.T) {
	st := setup(t)
	therapist := seedUser(t, st, models.RoleTherapist)
	client := seedUser(t, st, models.RoleClient)
	ctx := context.Background()

	sess := seedSession(t, st, therapist.ID, time.Hour)
	if _, err := st.BookSession(ctx, sess.ID, client.ID); err != nil {
		t.Fatalf("book: %v", err)
	}

	for _, uid := range []int64{therapist.ID, client.ID} {
		got, err := st.SessionsForUser(ctx, uid)
		if err != nil {
			t.Fatalf("list for %d: %v", uid, err)
		}
		found := false
		for _, s := range got {
			if s.ID == sess.ID {
				found = true
				if s.Client == nil || s.Client.ID != client.ID {
					t.Error("client view not joined")
				}
			}
		}
		if !found {
			t.Errorf("session missing from listing of user %d", uid)
		}
	}
}
