package credit

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/member"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// DeductTx decrements a member's balance inside an open transaction. No-op
// for unlimited members. The row lock plus the conditional decrement make the
// balance check and the write a single unit.
func DeductTx(ctx context.Context, tx *sqlx.Tx, memberID int) (int, error) {
	var credits int
	err := tx.QueryRowxContext(ctx,
		`SELECT credits FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).Scan(&credits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, err
	}

	if credits == member.UnlimitedCredits {
		return member.UnlimitedCredits, nil
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE members SET credits = credits - 1, updated_at = NOW() WHERE id = $1 AND credits > 0`,
		memberID,
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return 0, apperr.ErrNoCreditsRemaining
	}

	return credits - 1, nil
}

// RefundTx increments a member's balance inside an open transaction. No-op
// for unlimited members.
func RefundTx(ctx context.Context, tx *sqlx.Tx, memberID int) (int, error) {
	var credits int
	err := tx.QueryRowxContext(ctx,
		`SELECT credits FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).Scan(&credits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, err
	}

	if credits == member.UnlimitedCredits {
		return member.UnlimitedCredits, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET credits = credits + 1, updated_at = NOW() WHERE id = $1`,
		memberID,
	)
	if err != nil {
		return 0, err
	}

	return credits + 1, nil
}

// RecordTransactionTx appends a ledger entry within an open transaction.
func RecordTransactionTx(ctx context.Context, tx *sqlx.Tx, memberID, delta, balanceAfter int, sourceKind string, sourceID *int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (member_id, delta, balance_after, source_kind, source_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		memberID, delta, balanceAfter, sourceKind, sourceID,
	)
	return err
}

func (r *repository) DeductForBooking(ctx context.Context, memberID, bookingID int) (int, error) {
	// Only a confirmed booking is a chargeable source. Waitlisted and
	// cancelled rows fall through to the not-found path so they can never
	// fund a deduction that a later cancel would not refund.
	return r.deductForSource(ctx, memberID, bookingID, SourceBooking,
		`UPDATE bookings SET credit_deducted = true WHERE id = $1 AND member_id = $2 AND status = 'confirmed' AND credit_deducted = false`,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1 AND member_id = $2 AND status = 'confirmed')`,
	)
}

func (r *repository) DeductForDropIn(ctx context.Context, memberID, dropInID int) (int, error) {
	return r.deductForSource(ctx, memberID, dropInID, SourceDropIn,
		`UPDATE drop_in_attendances SET credit_deducted = true WHERE id = $1 AND member_id = $2 AND credit_deducted = false`,
		`SELECT EXISTS(SELECT 1 FROM drop_in_attendances WHERE id = $1 AND member_id = $2)`,
	)
}

// deductForSource is the at-most-once path: the conditional update on the
// source record succeeds exactly once, and the balance decrement commits or
// rolls back with it.
func (r *repository) deductForSource(ctx context.Context, memberID, sourceID int, sourceKind, markQuery, existsQuery string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, markQuery, sourceID, memberID)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, existsQuery, sourceID, memberID); err != nil {
			return 0, err
		}
		if exists {
			return 0, apperr.ErrAlreadyDeducted
		}
		return 0, apperr.ErrNotFound
	}

	balance, err := DeductTx(ctx, tx, memberID)
	if err != nil {
		return 0, err
	}

	delta := -1
	if balance == member.UnlimitedCredits {
		delta = 0
	}
	if err := RecordTransactionTx(ctx, tx, memberID, delta, balance, sourceKind, &sourceID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *repository) Adjust(ctx context.Context, memberID, newBalance int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var credits int
	err = tx.QueryRowxContext(ctx,
		`SELECT credits FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).Scan(&credits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET credits = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, memberID,
	)
	if err != nil {
		return 0, err
	}

	if err := RecordTransactionTx(ctx, tx, memberID, newBalance-credits, newBalance, SourceAdjustment, nil); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (r *repository) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, member_id, delta, balance_after, source_kind, source_id, created_at
		FROM credit_transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
