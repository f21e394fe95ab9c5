package studio

import (
	"context"
	"testing"
	"time"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

var studioCols = []string{"id", "name", "owner_email", "plan_status", "trial_ends_at", "grace_period_ends_at", "cancel_at_period_end", "subscription_ref", "created_at", "updated_at"}

func TestGetByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery("FROM studios WHERE id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(studioCols).
			AddRow(7, "Sunrise Pilates", "owner@example.com", "active", nil, nil, false, "sub_1", now, now))

	s, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, StatusActive, s.PlanStatus)

	mock.ExpectQuery("FROM studios WHERE id").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(studioCols))

	_, err = repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetBySubscriptionRef(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery("FROM studios WHERE subscription_ref").
		WithArgs("sub_1").
		WillReturnRows(sqlmock.NewRows(studioCols).
			AddRow(7, "Sunrise Pilates", "owner@example.com", "past_due", nil, nil, false, "sub_1", now, now))

	s, err := repo.GetBySubscriptionRef(context.Background(), "sub_1")
	require.NoError(t, err)
	require.Equal(t, 7, s.ID)
}

func TestCancelIfGraceExpired_Idempotent(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectExec("UPDATE studios").
		WithArgs(7, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.CancelIfGraceExpired(context.Background(), 7, now)
	require.NoError(t, err)
	require.True(t, ok)

	// A second sweep finds the studio no longer in grace and touches nothing.
	mock.ExpectExec("UPDATE studios").
		WithArgs(7, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.CancelIfGraceExpired(context.Background(), 7, now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenGracePeriod(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	endsAt := time.Now().AddDate(0, 0, 14)

	mock.ExpectExec("UPDATE studios").
		WithArgs(endsAt, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.OpenGracePeriod(context.Background(), 7, endsAt))
}

func TestListGraceExpired(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	past := now.Add(-time.Hour)

	mock.ExpectQuery("FROM studios").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(studioCols).
			AddRow(7, "Sunrise Pilates", "owner@example.com", "grace", nil, past, false, "sub_1", now, now))

	studios, err := repo.ListGraceExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, studios, 1)
	require.Equal(t, StatusGrace, studios[0].PlanStatus)
}
