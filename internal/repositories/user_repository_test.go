package repositories

import (
	"context"
	"regexp"
	"testing"

	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := UserRepository{DB: db, Dialect: intdb.Postgres}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "active", "created_at", "updated_at"}).
			AddRow("u1", "Ana", "ana@example.com", "hash", "admin", true, fixedNow, fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.GetByEmail(context.Background(), "  Ana@Example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.Role != "admin" || !u.Active {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := UserRepository{DB: db, Dialect: intdb.MySQL}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, name, email, password_hash, role, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")).
		WithArgs("u1", "Ana", "ana@example.com", "hash", "admin", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := repo.Create(context.Background(), models.User{ID: "u1", Name: "Ana", Email: "ANA@example.com", PasswordHash: "hash", Role: "admin", Active: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "ana@example.com" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
