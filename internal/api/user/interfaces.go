package user

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
)

type UserUsecase interface {
	CreateUser(ctx context.Context, req entity.CreateUserRequest) (*entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error)
	UpdateUser(ctx context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
