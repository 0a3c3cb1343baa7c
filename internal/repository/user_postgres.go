package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homereno/journey-backend/internal/entity"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	CreateUser(ctx context.Context, id int64, firstName, lastName *string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error)
	UpdateUser(ctx context.Context, id int64, firstName, lastName *string) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

var _ UserRepository = &UserPostgres{}

// UserPostgres implements UserRepository using PostgreSQL
type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = "id, first_name, last_name, created_at"

func (r *UserPostgres) CreateUser(ctx context.Context, id int64, firstName, lastName *string) (*entity.User, error) {
	var query string
	var row pgx.Row
	if id > 0 {
		// Clients may bring their own identifier (e.g. an external account id).
		query = `
			INSERT INTO users (id, first_name, last_name)
			VALUES ($1, $2, $3)
			RETURNING ` + userColumns
		row = r.db.QueryRow(ctx, query, id, firstName, lastName)
	} else {
		query = `
			INSERT INTO users (first_name, last_name)
			VALUES ($1, $2)
			RETURNING ` + userColumns
		row = r.db.QueryRow(ctx, query, firstName, lastName)
	}

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserPostgres) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserPostgres) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserPostgres) UpdateUser(ctx context.Context, id int64, firstName, lastName *string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name)
		WHERE id = $1
		RETURNING `+userColumns,
		id, firstName, lastName,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user together with their journeys and messages.
func (r *UserPostgres) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
