package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SetBookingAttended(ctx context.Context, bookingID int, attended bool) error {
	query := `
		UPDATE bookings
		SET attended = $1, updated_at = NOW()
		WHERE id = $2 AND status <> 'cancelled'
	`

	result, err := r.db.ExecContext(ctx, query, attended, bookingID)
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

func (r *repository) CreateDropIn(ctx context.Context, memberID, sessionID int) (*DropInAttendance, error) {
	query := `
		INSERT INTO drop_in_attendances (member_id, session_id, credit_deducted, attended_at)
		VALUES ($1, $2, false, NOW())
		RETURNING id, member_id, session_id, credit_deducted, attended_at
	`

	var d DropInAttendance
	err := r.db.GetContext(ctx, &d, query, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *repository) GetDropInByID(ctx context.Context, id int) (*DropInAttendance, error) {
	query := `
		SELECT id, member_id, session_id, credit_deducted, attended_at
		FROM drop_in_attendances
		WHERE id = $1
	`

	var d DropInAttendance
	err := r.db.GetContext(ctx, &d, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &d, nil
}

func (r *repository) ListDropInsBySession(ctx context.Context, sessionID int) ([]DropInAttendance, error) {
	query := `
		SELECT id, member_id, session_id, credit_deducted, attended_at
		FROM drop_in_attendances
		WHERE session_id = $1
		ORDER BY attended_at ASC
	`

	var dropIns []DropInAttendance
	err := r.db.SelectContext(ctx, &dropIns, query, sessionID)
	if err != nil {
		return nil, err
	}

	return dropIns, nil
}
