package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"
	"orderdesk/internal/query"

	"github.com/google/uuid"
)

const fallbackLimit = 20

// ResourceRepository runs translated criteria against one resource table.
type ResourceRepository struct {
	DB           *sql.DB
	Dialect      intdb.Dialect
	Resource     models.Resource
	DefaultLimit int
	Now          func() time.Time
	NewID        func() string
}

func (r ResourceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ResourceRepository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

func (r ResourceRepository) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func (r ResourceRepository) limit() int {
	if r.DefaultLimit > 0 {
		return r.DefaultLimit
	}
	return fallbackLimit
}

// List returns one page of rows matching c plus the total count of matches.
func (r ResourceRepository) List(ctx context.Context, c query.Criteria) (domain.Page, error) {
	countSQL, countArgs, err := r.Dialect.Count(r.Resource, c)
	if err != nil {
		return domain.Page{}, classify(r.Resource, "", err)
	}
	var total int
	if err := r.db().QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.Page{}, classify(r.Resource, "", err)
	}

	rows, err := r.selectRows(ctx, c, r.limit())
	if err != nil {
		return domain.Page{}, err
	}

	limit, ok := c.Int(query.KeyLimit)
	if !ok || limit <= 0 {
		limit = r.limit()
	}
	offset, _ := c.Int(query.KeyOffset)
	return domain.Page{Rows: rows, Total: total, Limit: limit, Offset: offset}, nil
}

// Get loads one row by id. Filters and options in c still apply.
func (r ResourceRepository) Get(ctx context.Context, id string, c query.Criteria) (domain.Record, error) {
	where := make(map[string]any, len(c.Where)+1)
	for k, v := range c.Where {
		where[k] = v
	}
	where[models.ColID] = id
	opts := make(map[string]any, len(c.Options))
	for k, v := range c.Options {
		opts[k] = v
	}
	delete(opts, query.KeyOffset)
	delete(opts, query.KeyOrder)
	opts[query.KeyLimit] = 1

	rows, err := r.selectRows(ctx, query.Criteria{Where: where, Options: opts}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, classify(r.Resource, id, sql.ErrNoRows)
	}
	return rows[0], nil
}

// Create inserts values with a fresh id and timestamps and returns the new id.
func (r ResourceRepository) Create(ctx context.Context, values map[string]any) (string, error) {
	row := make(map[string]any, len(values)+3)
	for k, v := range values {
		row[k] = v
	}
	id := r.newID()
	now := r.now()
	row[models.ColID] = id
	row[models.ColCreatedAt] = now
	row[models.ColUpdatedAt] = now
	delete(row, models.ColDeletedAt)

	stmt, args, err := r.Dialect.Insert(r.Resource, row)
	if err != nil {
		return "", classify(r.Resource, "", err)
	}
	if _, err := r.db().ExecContext(ctx, stmt, args...); err != nil {
		return "", classify(r.Resource, "", err)
	}
	return id, nil
}

// Update applies values to a live row. A missing row is a not-found error.
func (r ResourceRepository) Update(ctx context.Context, id string, values map[string]any) error {
	row := make(map[string]any, len(values)+1)
	for k, v := range values {
		row[k] = v
	}
	delete(row, models.ColID)
	delete(row, models.ColCreatedAt)
	delete(row, models.ColDeletedAt)
	row[models.ColUpdatedAt] = r.now()

	stmt, args, err := r.Dialect.Update(r.Resource, id, row)
	if err != nil {
		return classify(r.Resource, id, err)
	}
	return r.execOne(ctx, id, stmt, args)
}

// Delete soft deletes paranoid rows unless force is set; other rows are removed.
func (r ResourceRepository) Delete(ctx context.Context, id string, force bool) error {
	stmt, args := r.Dialect.Delete(r.Resource, id, force, r.now())
	return r.execOne(ctx, id, stmt, args)
}

func (r ResourceRepository) execOne(ctx context.Context, id, stmt string, args []any) error {
	res, err := r.db().ExecContext(ctx, stmt, args...)
	if err != nil {
		return classify(r.Resource, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(r.Resource, id, err)
	}
	if n == 0 {
		return classify(r.Resource, id, sql.ErrNoRows)
	}
	return nil
}

func (r ResourceRepository) selectRows(ctx context.Context, c query.Criteria, defaultLimit int) ([]domain.Record, error) {
	stmt, args, err := r.Dialect.Select(r.Resource, c, defaultLimit)
	if err != nil {
		return nil, classify(r.Resource, "", err)
	}
	rows, err := r.queryRecords(ctx, stmt, args)
	if err != nil {
		return nil, classify(r.Resource, "", err)
	}
	if err := r.loadIncludes(ctx, rows, c.Strings(query.KeyInclude)); err != nil {
		return nil, classify(r.Resource, "", err)
	}
	return rows, nil
}

func (r ResourceRepository) queryRecords(ctx context.Context, stmt string, args []any) ([]domain.Record, error) {
	rows, err := r.db().QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// loadIncludes resolves each requested association with a single IN query.
func (r ResourceRepository) loadIncludes(ctx context.Context, rows []domain.Record, include []string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, name := range include {
		assoc, ok := r.Resource.Association(name)
		if !ok {
			continue
		}
		target, ok := models.Lookup(assoc.Target)
		if !ok {
			return fmt.Errorf("association %s: unknown resource %s", name, assoc.Target)
		}

		switch assoc.Kind {
		case models.BelongsTo:
			keys := distinct(rows, assoc.ForeignKey)
			byID := map[string]domain.Record{}
			if len(keys) > 0 {
				stmt, args := r.Dialect.SelectIn(target, models.ColID, keys)
				related, err := r.queryRecords(ctx, stmt, args)
				if err != nil {
					return err
				}
				for _, rec := range related {
					byID[key(rec[models.ColID])] = rec
				}
			}
			for _, row := range rows {
				if rec, ok := byID[key(row[assoc.ForeignKey])]; ok {
					row[name] = rec
				} else {
					row[name] = nil
				}
			}
		case models.HasMany:
			stmt, args := r.Dialect.SelectIn(target, assoc.ForeignKey, distinct(rows, models.ColID))
			related, err := r.queryRecords(ctx, stmt, args)
			if err != nil {
				return err
			}
			grouped := map[string][]domain.Record{}
			for _, rec := range related {
				k := key(rec[assoc.ForeignKey])
				grouped[k] = append(grouped[k], rec)
			}
			for _, row := range rows {
				children := grouped[key(row[models.ColID])]
				if children == nil {
					children = []domain.Record{}
				}
				row[name] = children
			}
		}
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []domain.Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(domain.Record, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func distinct(rows []domain.Record, col string) []any {
	seen := map[string]bool{}
	out := []any{}
	for _, row := range rows {
		v := row[col]
		if v == nil {
			continue
		}
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func key(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
