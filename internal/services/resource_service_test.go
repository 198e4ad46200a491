package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"
	"orderdesk/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T, res models.Resource) (ResourceService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ResourceService{
		Repo: repositories.ResourceRepository{
			DB:           db,
			Dialect:      intdb.MySQL,
			Resource:     res,
			DefaultLimit: 20,
			Now:          func() time.Time { return testNow },
			NewID:        func() string { return "new-id" },
		},
		RequestID: "req-1",
	}, mock
}

func TestResourceServiceListEchoesQuery(t *testing.T) {
	svc, mock := newService(t, models.Jobs)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `jobs` WHERE `progress` >= ? AND `deleted_at` IS NULL")).
		WithArgs(50.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE `progress` >= ? AND `deleted_at` IS NULL ORDER BY `progress` DESC LIMIT 20")).
		WithArgs(50.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "progress"}).AddRow("j1", "75.00"))

	page, err := svc.List(context.Background(), map[string]any{
		"progress": map[string]any{"gte": 50.0, "regex": ".*"},
		"sort_by":  "progress",
		"order_by": "desc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Rows) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Query["sort_by"] != "progress" || page.Query["order_by"] != "desc" {
		t.Fatalf("order not echoed: %#v", page.Query)
	}
	progress, ok := page.Query["progress"].(map[string]any)
	if !ok || len(progress) != 1 || progress["gte"] != 50.0 {
		t.Fatalf("filter not echoed cleanly: %#v", page.Query["progress"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResourceServiceCreateReadsBack(t *testing.T) {
	svc, mock := newService(t, models.Customers)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `customers` (`created_at`, `id`, `name`, `updated_at`)")).
		WithArgs(testNow, "new-id", "Acme", testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`, `name` FROM `customers` WHERE `id` = ? AND `deleted_at` IS NULL LIMIT 1")).
		WithArgs("new-id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("new-id", "Acme"))

	rec, err := svc.Create(context.Background(), map[string]any{"name": "Acme"}, map[string]any{"attributes": []string{"name"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["name"] != "Acme" {
		t.Fatalf("unexpected record %#v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResourceServiceCreateWithoutReturning(t *testing.T) {
	svc, mock := newService(t, models.Customers)
	mock.ExpectExec("INSERT INTO `customers`").WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := svc.Create(context.Background(), map[string]any{"name": "Acme"}, map[string]any{"returning": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec) != 1 || rec["id"] != "new-id" {
		t.Fatalf("expected id only, got %#v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResourceServiceDeleteForce(t *testing.T) {
	svc, mock := newService(t, models.Orders)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `orders` WHERE `id` = ?")).
		WithArgs("o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders` SET `deleted_at` = ?")).
		WithArgs(testNow, "o2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.Delete(context.Background(), "o1", map[string]any{"force": true}); err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "o2", nil); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResourceServiceUpdateMissing(t *testing.T) {
	svc, mock := newService(t, models.Workers)
	mock.ExpectExec("UPDATE `workers` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := svc.Update(context.Background(), "w9", map[string]any{"name": "X"}, nil); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
