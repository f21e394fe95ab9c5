package studio

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

const studioColumns = `id, name, owner_email, plan_status, trial_ends_at, grace_period_ends_at, cancel_at_period_end, subscription_ref, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id int) (*Studio, error) {
	query := `SELECT ` + studioColumns + ` FROM studios WHERE id = $1`

	var s Studio
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetBySubscriptionRef(ctx context.Context, ref string) (*Studio, error) {
	query := `SELECT ` + studioColumns + ` FROM studios WHERE subscription_ref = $1`

	var s Studio
	err := r.db.GetContext(ctx, &s, query, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) UpdatePlanStatus(ctx context.Context, id int, status PlanStatus) error {
	query := `
		UPDATE studios
		SET plan_status = $1,
		    grace_period_ends_at = CASE WHEN $1 <> 'grace' THEN NULL ELSE grace_period_ends_at END,
		    updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
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

func (r *repository) OpenGracePeriod(ctx context.Context, id int, endsAt time.Time) error {
	query := `
		UPDATE studios
		SET plan_status = 'grace', grace_period_ends_at = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, endsAt, id)
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

func (r *repository) CancelIfGraceExpired(ctx context.Context, id int, now time.Time) (bool, error) {
	// Conditional update keeps the sweep idempotent across instances: only
	// one run can move a given studio out of grace.
	query := `
		UPDATE studios
		SET plan_status = 'canceled', updated_at = NOW()
		WHERE id = $1
		  AND plan_status = 'grace'
		  AND grace_period_ends_at IS NOT NULL
		  AND grace_period_ends_at <= $2
	`

	result, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) ListGraceExpired(ctx context.Context, now time.Time) ([]Studio, error) {
	query := `
		SELECT ` + studioColumns + `
		FROM studios
		WHERE plan_status = 'grace'
		  AND grace_period_ends_at IS NOT NULL
		  AND grace_period_ends_at <= $1
		ORDER BY grace_period_ends_at ASC
	`

	var studios []Studio
	err := r.db.SelectContext(ctx, &studios, query, now)
	if err != nil {
		return nil, err
	}

	return studios, nil
}

func (r *repository) SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error {
	query := `UPDATE studios SET cancel_at_period_end = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, cancel, id)
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
