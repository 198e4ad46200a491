package repositories

import (
	"database/sql"
	"errors"

	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// MySQL error numbers and Postgres SQLSTATE codes we translate.
const (
	mysqlDuplicate     = 1062
	mysqlRowReferenced = 1451
	mysqlNoParent      = 1452
	mysqlNotNull       = 1048

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// classify turns driver and builder errors into domain errors.
func classify(res models.Resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: res.Name, ID: id, Err: err}
	}
	if errors.Is(err, intdb.ErrUnknownColumn) || errors.Is(err, intdb.ErrBadOperand) {
		return domain.ValidationError{Msg: err.Error(), Err: err}
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicate:
			return domain.ConflictError{Resource: res.Name, Msg: "duplicate value", Err: err}
		case mysqlRowReferenced:
			return domain.ConflictError{Resource: res.Name, Msg: "still referenced", Err: err}
		case mysqlNoParent:
			return domain.ValidationError{Msg: "referenced record does not exist", Err: err}
		case mysqlNotNull:
			return domain.ValidationError{Msg: "missing required value", Err: err}
		}
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case pgUniqueViolation:
			return domain.ConflictError{Resource: res.Name, Msg: "duplicate value", Err: err}
		case pgForeignKeyViolation:
			if pe.ColumnName != "" {
				return domain.ValidationError{Field: pe.ColumnName, Msg: "referenced record does not exist", Err: err}
			}
			return domain.ValidationError{Msg: "referenced record does not exist", Err: err}
		case pgNotNullViolation:
			return domain.ValidationError{Field: pe.ColumnName, Msg: "missing required value", Err: err}
		}
	}

	return domain.InternalError{Msg: "database error", Err: err}
}
