package member

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

func (r *repository) Create(ctx context.Context, studioID int, name, email string, planType PlanType, credits int) (*Member, error) {
	query := `
		INSERT INTO members (studio_id, name, email, plan_type, credits, status)
		VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING id, studio_id, name, email, plan_type, credits, status, created_at, updated_at
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, studioID, name, email, planType, credits)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetByID(ctx context.Context, studioID, id int) (*Member, error) {
	query := `
		SELECT id, studio_id, name, email, plan_type, credits, status, created_at, updated_at
		FROM members
		WHERE id = $1 AND studio_id = $2
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, studioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) ListByStudio(ctx context.Context, studioID int) ([]Member, error) {
	query := `
		SELECT id, studio_id, name, email, plan_type, credits, status, created_at, updated_at
		FROM members
		WHERE studio_id = $1
		ORDER BY name ASC
	`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query, studioID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) UpdateStatus(ctx context.Context, studioID, id int, status Status) error {
	query := `
		UPDATE members
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND studio_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, id, studioID)
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
