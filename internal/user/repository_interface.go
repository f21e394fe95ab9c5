package user

import "context"

type Repository interface {
	CreateWithStudio(ctx context.Context, studioName, name, email, passwordHash string, trialDays int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
