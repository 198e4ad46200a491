package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain/models"

	"github.com/google/uuid"
)

var usersResource = models.Resource{Name: "users", Table: "users"}

const userColumns = "id, name, email, password_hash, role, active, created_at, updated_at"

type UserRepository struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail loads an account by its (case-insensitive) login email.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	b := r.Dialect.NewBuilder()
	stmt := "SELECT " + userColumns + " FROM users WHERE email = " + b.Arg(strings.ToLower(strings.TrimSpace(email))) + " LIMIT 1"

	var u models.User
	err := r.db().QueryRowContext(ctx, stmt, b.Args()...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, classify(usersResource, email, err)
	}
	return u, nil
}

// Create stores a new account. ID and timestamps are filled in when empty.
func (r UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	b := r.Dialect.NewBuilder()
	stmt := "INSERT INTO users (" + userColumns + ") VALUES (" +
		strings.Join([]string{
			b.Arg(u.ID), b.Arg(u.Name), b.Arg(u.Email), b.Arg(u.PasswordHash),
			b.Arg(u.Role), b.Arg(u.Active), b.Arg(u.CreatedAt), b.Arg(u.UpdatedAt),
		}, ", ") + ")"
	if _, err := r.db().ExecContext(ctx, stmt, b.Args()...); err != nil {
		return models.User{}, classify(usersResource, u.ID, err)
	}
	return u, nil
}
