package class

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, studioID int, req CreateSessionRequest) (*Session, error) {
	sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, apperr.ErrInvalidRequest
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperr.ErrInvalidRequest
	}

	query := `
		INSERT INTO class_sessions (studio_id, class_name, capacity, session_date, start_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, studio_id, class_name, capacity, session_date, start_time, is_cancelled, created_at
	`

	var s Session
	err = r.db.GetContext(ctx, &s, query, studioID, req.ClassName, req.Capacity, sessionDate, startTime)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetSessionByID(ctx context.Context, studioID, id int) (*Session, error) {
	query := `
		SELECT id, studio_id, class_name, capacity, session_date, start_time, is_cancelled, created_at
		FROM class_sessions
		WHERE id = $1 AND studio_id = $2
	`

	var s Session
	err := r.db.GetContext(ctx, &s, query, id, studioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) ListSessionsWithAvailability(ctx context.Context, studioID int, onlyUpcoming bool) ([]SessionWithAvailability, error) {
	query := `
		SELECT
			cs.id,
			cs.studio_id,
			cs.class_name,
			cs.capacity,
			cs.session_date,
			cs.start_time,
			cs.is_cancelled,
			cs.created_at,
			COUNT(*) FILTER (WHERE b.status = 'confirmed') AS confirmed_count,
			COUNT(*) FILTER (WHERE b.status = 'waitlist') AS waitlist_count
		FROM class_sessions cs
		LEFT JOIN bookings b ON b.session_id = cs.id
		WHERE cs.studio_id = $1
	`
	if onlyUpcoming {
		query += ` AND cs.start_time >= NOW()`
	}
	query += `
		GROUP BY cs.id
		ORDER BY cs.start_time ASC
	`

	var sessions []SessionWithAvailability
	err := r.db.SelectContext(ctx, &sessions, query, studioID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		spots := sessions[i].Capacity - sessions[i].ConfirmedCount
		if spots < 0 {
			spots = 0
		}
		sessions[i].SpotsLeft = spots
		sessions[i].IsFull = sessions[i].ConfirmedCount >= sessions[i].Capacity
	}

	return sessions, nil
}

func (r *repository) CancelSession(ctx context.Context, studioID, id int) error {
	query := `
		UPDATE class_sessions
		SET is_cancelled = true
		WHERE id = $1 AND studio_id = $2 AND is_cancelled = false
	`

	result, err := r.db.ExecContext(ctx, query, id, studioID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (r *repository) CountsForSession(ctx context.Context, sessionID int) (Counts, error) {
	var counts Counts
	err := r.db.GetContext(ctx, &counts, countsQuery, sessionID)
	if err != nil {
		return Counts{}, err
	}
	return counts, nil
}

const countsQuery = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
		COUNT(*) FILTER (WHERE status = 'waitlist') AS waitlist
	FROM bookings
	WHERE session_id = $1
`

// CountsForSessionTx recomputes the capacity view inside an open transaction,
// so a booking decision sees counts consistent with the session row it holds
// locked.
func CountsForSessionTx(ctx context.Context, tx *sqlx.Tx, sessionID int) (Counts, error) {
	var counts Counts
	err := tx.GetContext(ctx, &counts, countsQuery, sessionID)
	if err != nil {
		return Counts{}, err
	}
	return counts, nil
}
