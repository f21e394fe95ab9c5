package user

import (
	"context"
	"testing"

	"github.com/taka1452/klasly-app-sub001/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) CreateWithStudio(ctx context.Context, studioName, name, email, passwordHash string, trialDays int) (*User, error) {
	args := m.Called(ctx, studioName, name, email, passwordHash, trialDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestRegister_CreatesOwner(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("EmailExists", mock.Anything, "owner@example.com").Return(false, nil)
	repo.On("CreateWithStudio", mock.Anything, "Sunrise Pilates", "Jo", "owner@example.com", mock.AnythingOfType("string"), 14).
		Return(&User{ID: 1, StudioID: 7, Name: "Jo", Email: "owner@example.com", Role: auth.RoleOwner}, nil)

	svc := NewService(repo, "test-secret")
	u, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		StudioName: "Sunrise Pilates",
		Name:       "Jo",
		Email:      "owner@example.com",
		Password:   "supersecret",
	})

	require.NoError(t, err)
	assert.Equal(t, auth.RoleOwner, u.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ValidateToken(access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.StudioID)
	assert.Equal(t, 0, claims.MemberID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("EmailExists", mock.Anything, "owner@example.com").Return(true, nil)

	svc := NewService(repo, "test-secret")
	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		StudioName: "Sunrise Pilates",
		Name:       "Jo",
		Email:      "owner@example.com",
		Password:   "supersecret",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	repo := new(MockUserRepo)
	repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(&User{
		ID: 1, StudioID: 7, Email: "owner@example.com", PasswordHash: hash, Role: auth.RoleOwner,
	}, nil)

	svc := NewService(repo, "test-secret")

	_, access, _, err := svc.Login(context.Background(), LoginRequest{Email: "owner@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	memberID := 31
	repo := new(MockUserRepo)
	repo.On("FindByID", mock.Anything, 2).Return(&User{
		ID: 2, StudioID: 7, MemberID: &memberID, Email: "member@example.com", Role: auth.RoleMember,
	}, nil)

	_, refresh, err := auth.GenerateTokens(2, 7, memberID, "member@example.com", auth.RoleMember, "test-secret")
	require.NoError(t, err)

	svc := NewService(repo, "test-secret")
	access, u, err := svc.RefreshToken(context.Background(), refresh)

	require.NoError(t, err)
	assert.Equal(t, 2, u.ID)

	claims, err := auth.ValidateToken(access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, memberID, claims.MemberID)
	assert.Equal(t, "access", claims.TokenType)
}
