package user

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

const userColumns = `id, studio_id, member_id, name, email, password_hash, role, created_at`

// CreateWithStudio creates the studio and its owner account in one
// transaction. New studios start on a trial.
func (r *repository) CreateWithStudio(ctx context.Context, studioName, name, email, passwordHash string, trialDays int) (*User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var studioID int
	err = tx.GetContext(ctx, &studioID, `
		INSERT INTO studios (name, owner_email, plan_status, trial_ends_at)
		VALUES ($1, $2, 'trialing', $3)
		RETURNING id
	`, studioName, email, time.Now().AddDate(0, 0, trialDays))
	if err != nil {
		return nil, err
	}

	var u User
	err = tx.GetContext(ctx, &u, `
		INSERT INTO users (studio_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, 'owner')
		RETURNING `+userColumns+`
	`, studioID, name, email, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, err
	}

	return exists, nil
}
