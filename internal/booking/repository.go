package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/class"
	"github.com/taka1452/klasly-app-sub001/internal/credit"
	"github.com/taka1452/klasly-app-sub001/internal/member"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, member_id, session_id, status, attended, credit_deducted, created_at, updated_at`

func (r *repository) CreateOrRebook(ctx context.Context, memberID, sessionID int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Locking the session row serializes all capacity decisions for it, so
	// the count below cannot race another booking request.
	var capacity int
	var isCancelled bool
	err = tx.QueryRowxContext(ctx,
		`SELECT capacity, is_cancelled FROM class_sessions WHERE id = $1 FOR UPDATE`,
		sessionID,
	).Scan(&capacity, &isCancelled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if isCancelled {
		return nil, apperr.ErrNotFound
	}

	var existing Booking
	err = tx.GetContext(ctx, &existing,
		`SELECT `+bookingColumns+` FROM bookings WHERE member_id = $1 AND session_id = $2 ORDER BY id LIMIT 1 FOR UPDATE`,
		memberID, sessionID,
	)
	hasExisting := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if hasExisting && existing.Status != StatusCancelled {
		return nil, apperr.ErrAlreadyBooked
	}

	counts, err := class.CountsForSessionTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	target := StatusConfirmed
	if counts.Full(capacity) {
		target = StatusWaitlist
	}

	var b Booking
	if hasExisting {
		err = tx.GetContext(ctx, &b,
			`UPDATE bookings
			 SET status = $1, attended = false, credit_deducted = false, updated_at = NOW()
			 WHERE id = $2
			 RETURNING `+bookingColumns,
			target, existing.ID,
		)
	} else {
		err = tx.GetContext(ctx, &b,
			`INSERT INTO bookings (member_id, session_id, status)
			 VALUES ($1, $2, $3)
			 RETURNING `+bookingColumns,
			memberID, sessionID, target,
		)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}

	if target == StatusConfirmed {
		balance, err := credit.DeductTx(ctx, tx, memberID)
		if err != nil {
			// Rolls back the status write too: the placement and the
			// deduction are one unit.
			return nil, err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE bookings SET credit_deducted = true WHERE id = $1`, b.ID,
		); err != nil {
			return nil, err
		}
		b.CreditDeducted = true

		delta := -1
		if balance == member.UnlimitedCredits {
			delta = 0
		}
		if err := credit.RecordTransactionTx(ctx, tx, memberID, delta, balance, credit.SourceBooking, &b.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) Cancel(ctx context.Context, id int) (*Booking, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var current Booking
	err = tx.GetContext(ctx, &current,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, apperr.ErrNotFound
		}
		return nil, false, err
	}
	if current.Status == StatusCancelled {
		return nil, false, apperr.ErrNotFound
	}

	refund := current.Status == StatusConfirmed && current.CreditDeducted

	var b Booking
	err = tx.GetContext(ctx, &b,
		`UPDATE bookings
		 SET status = 'cancelled', credit_deducted = false, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		id,
	)
	if err != nil {
		return nil, false, err
	}

	if refund {
		balance, err := credit.RefundTx(ctx, tx, current.MemberID)
		if err != nil {
			return nil, false, err
		}

		delta := 1
		if balance == member.UnlimitedCredits {
			delta = 0
		}
		if err := credit.RecordTransactionTx(ctx, tx, current.MemberID, delta, balance, credit.SourceRefund, &b.ID); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &b, refund, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE member_id = $1 ORDER BY created_at DESC`,
		memberID,
	)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID int) ([]BookingWithMember, error) {
	query := `
		SELECT
			b.id,
			b.member_id,
			b.session_id,
			b.status,
			b.attended,
			b.credit_deducted,
			b.created_at,
			b.updated_at,
			m.name AS member_name,
			m.email AS member_email
		FROM bookings b
		JOIN members m ON b.member_id = m.id
		WHERE b.session_id = $1 AND b.status <> 'cancelled'
		ORDER BY b.created_at ASC
	`

	var bookings []BookingWithMember
	err := r.db.SelectContext(ctx, &bookings, query, sessionID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListWaitlist(ctx context.Context, sessionID int) ([]BookingWithMember, error) {
	query := `
		SELECT
			b.id,
			b.member_id,
			b.session_id,
			b.status,
			b.attended,
			b.credit_deducted,
			b.created_at,
			b.updated_at,
			m.name AS member_name,
			m.email AS member_email
		FROM bookings b
		JOIN members m ON b.member_id = m.id
		WHERE b.session_id = $1 AND b.status = 'waitlist'
		ORDER BY b.created_at ASC
	`

	var bookings []BookingWithMember
	err := r.db.SelectContext(ctx, &bookings, query, sessionID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
