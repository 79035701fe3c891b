package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"todoapp/internal/models"
)

// defines methods for user db operations. Passwords are stored and compared
// as opaque cleartext values; a hashing scheme must be specified before this
// holds real credentials.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	var exists bool
	check := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`)
	if err := r.db.GetContext(ctx, &exists, check, user.Username); err != nil {
		return fmt.Errorf("check username %q: %w", user.Username, err)
	}
	if exists {
		return ErrDuplicate
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := r.db.Rebind(`INSERT INTO users (username, password, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, user.Username, user.Password, user.CreatedAt); err != nil {
		// the primary key catches the race the EXISTS check leaves open
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.db.Rebind(`SELECT username, password, created_at FROM users WHERE username = ?`)

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}
