package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
)

const sessionCols = `
	SELECT s.id, s.datetime, s.duration, s.status, s.cancelled_by,
	       s.original_datetime, s.feedback, s.therapist_id, s.client_id,
	       s.created_at, s.updated_at,
	       t.name, t.surname, c.name, c.surname
	FROM sessions s
	JOIN users t ON t.id = s.therapist_id
	LEFT JOIN users c ON c.id = s.client_id`

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO sessions (datetime, duration, status, therapist_id)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at, updated_at`,
		sess.Datetime, sess.Duration, sess.Status, sess.TherapistID,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

func (s *Store) SessionByID(ctx context.Context, id int64) (*models.Session, error) {
	row := s.pool.QueryRow(ctx, sessionCols+` WHERE s.id = $1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	return sess, err
}

func (s *Store) SessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	rows, err := s.pool.Query(ctx,
		sessionCols+`
		 WHERE s.client_id = $1 OR s.therapist_id = $1
		 ORDER BY s.datetime ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (s *Store) AvailableSessions(ctx context.Context, f session.AvailableFilter) ([]models.Session, int, error) {
	where := ` WHERE s.status = 'available' AND s.datetime > NOW()`
	args := []any{}
	if f.TherapistID != nil {
		args = append(args, *f.TherapistID)
		where += fmt.Sprintf(` AND s.therapist_id = $%d`, len(args))
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions s`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	q := fmt.Sprintf(sessionCols+where+` ORDER BY s.datetime ASC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectSessions(rows)
	return out, total, err
}

// BookSession applies the available->booked transition as a single
// conditional update. Returns false when the row was no longer available,
// which closes the race between two clients booking the same slot.
func (s *Store) BookSession(ctx context.Context, id, clientID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions
		 SET client_id = $2, status = 'booked', updated_at = NOW()
		 WHERE id = $1 AND status = 'available'`, id, clientID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE sessions
		 SET datetime=$1, status=$2, cancelled_by=$3, original_datetime=$4,
		     feedback=$5, updated_at=NOW()
		 WHERE id=$6
		 RETURNING updated_at`,
		sess.Datetime, sess.Status, sess.CancelledBy, sess.OriginalDatetime,
		sess.Feedback, sess.ID,
	).Scan(&sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.ErrNotFound
	}
	return err
}

func scanSession(row pgx.Row) (*models.Session, error) {
	sess := &models.Session{}
	var tName, tSurname string
	var cName, cSurname *string
	err := row.Scan(
		&sess.ID, &sess.Datetime, &sess.Duration, &sess.Status, &sess.CancelledBy,
		&sess.OriginalDatetime, &sess.Feedback, &sess.TherapistID, &sess.ClientID,
		&sess.CreatedAt, &sess.UpdatedAt,
		&tName, &tSurname, &cName, &cSurname,
	)
	if err != nil {
		return nil, err
	}
	sess.Therapist = &models.Person{ID: sess.TherapistID, Name: tName, Surname: tSurname}
	if sess.ClientID != nil && cName != nil {
		cl := &models.Person{ID: *sess.ClientID, Name: *cName}
		if cSurname != nil {
			cl.Surname = *cSurname
		}
		sess.Client = cl
	}
	return sess, nil
}

func collectSessions(rows pgx.Rows) ([]models.Session, error) {
	defer rows.Close()
	var out []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}
