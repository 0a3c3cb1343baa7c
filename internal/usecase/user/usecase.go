// Package user implements user management.
package user

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
)

// CacheInvalidator is notified when a user changes so stale cached lookups
// are dropped.
type CacheInvalidator interface {
	InvalidateUser(userID int64)
}

type Usecase struct {
	users       repository.UserRepository
	invalidator CacheInvalidator
}

func NewUsecase(users repository.UserRepository, invalidator CacheInvalidator) *Usecase {
	return &Usecase{users: users, invalidator: invalidator}
}

func (u *Usecase) CreateUser(ctx context.Context, req entity.CreateUserRequest) (*entity.User, error) {
	return u.users.CreateUser(ctx, 0, req.FirstName, req.LastName)
}

func (u *Usecase) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return u.users.GetUserByID(ctx, id)
}

func (u *Usecase) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return u.users.ListUsers(ctx, limit, offset)
}

func (u *Usecase) UpdateUser(ctx context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error) {
	user, err := u.users.UpdateUser(ctx, id, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if u.invalidator != nil {
		u.invalidator.InvalidateUser(id)
	}
	return user, nil
}

// DeleteUser removes the user; journeys and messages go with them through
// the cascade.
func (u *Usecase) DeleteUser(ctx context.Context, id int64) error {
	if err := u.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	if u.invalidator != nil {
		u.invalidator.InvalidateUser(id)
	}
	return nil
}
