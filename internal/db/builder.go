package db

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"orderdesk/internal/domain/models"
	"orderdesk/internal/query"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrBadOperand    = errors.New("bad operand")
)

// Builder accumulates arguments while a statement is assembled.
type Builder struct {
	d    Dialect
	args []any
}

func (d Dialect) NewBuilder() *Builder {
	return &Builder{d: d}
}

func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

func (b *Builder) Args() []any { return b.args }

// Select builds the list/get statement for res. Included belongs-to associations add
// their foreign keys to the projection so they can be resolved afterwards.
func (d Dialect) Select(res models.Resource, c query.Criteria, defaultLimit int) (string, []any, error) {
	cols, err := projection(res, c)
	if err != nil {
		return "", nil, err
	}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.Quote(col)
	}

	b := d.NewBuilder()
	where, err := b.Where(res, c)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(d.Quote(res.Table))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if terms := c.Order(); len(terms) > 0 {
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			if !res.HasColumn(t.Field) {
				return "", nil, fmt.Errorf("%w: %s", ErrUnknownColumn, t.Field)
			}
			dir := "ASC"
			if strings.EqualFold(t.Direction, query.Desc) {
				dir = "DESC"
			}
			parts = append(parts, d.Quote(t.Field)+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	limit, ok := c.Int(query.KeyLimit)
	if !ok || limit <= 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(limit))
	}
	if offset, ok := c.Int(query.KeyOffset); ok && offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(offset))
	}
	return sb.String(), b.Args(), nil
}

// Count builds a COUNT(*) over the same filter as Select.
func (d Dialect) Count(res models.Resource, c query.Criteria) (string, []any, error) {
	b := d.NewBuilder()
	where, err := b.Where(res, c)
	if err != nil {
		return "", nil, err
	}
	stmt := "SELECT COUNT(*) FROM " + d.Quote(res.Table)
	if where != "" {
		stmt += " WHERE " + where
	}
	return stmt, b.Args(), nil
}

// SelectIn loads the rows of res whose column matches one of values. Used to resolve includes.
func (d Dialect) SelectIn(res models.Resource, column string, values []any) (string, []any) {
	b := d.NewBuilder()
	quoted := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		quoted[i] = d.Quote(col)
	}
	stmt := "SELECT " + strings.Join(quoted, ", ") + " FROM " + d.Quote(res.Table) +
		" WHERE " + d.Quote(column) + " IN (" + b.list(values) + ")"
	if res.Paranoid {
		stmt += " AND " + d.Quote(models.ColDeletedAt) + " IS NULL"
	}
	stmt += " ORDER BY " + d.Quote(models.ColCreatedAt) + " ASC"
	return stmt, b.Args()
}

// Insert builds an INSERT of every key in values.
func (d Dialect) Insert(res models.Resource, values map[string]any) (string, []any, error) {
	keys := sortedKeys(values)
	cols := make([]string, 0, len(keys))
	b := d.NewBuilder()
	marks := make([]string, 0, len(keys))
	for _, k := range keys {
		if !res.HasColumn(k) {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
		cols = append(cols, d.Quote(k))
		marks = append(marks, b.Arg(values[k]))
	}
	stmt := "INSERT INTO " + d.Quote(res.Table) + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return stmt, b.Args(), nil
}

// Update builds an UPDATE of one live row by id.
func (d Dialect) Update(res models.Resource, id string, values map[string]any) (string, []any, error) {
	b := d.NewBuilder()
	sets := make([]string, 0, len(values))
	for _, k := range sortedKeys(values) {
		if !res.HasColumn(k) {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
		sets = append(sets, d.Quote(k)+" = "+b.Arg(values[k]))
	}
	stmt := "UPDATE " + d.Quote(res.Table) + " SET " + strings.Join(sets, ", ") +
		" WHERE " + d.Quote(models.ColID) + " = " + b.Arg(id)
	if res.Paranoid {
		stmt += " AND " + d.Quote(models.ColDeletedAt) + " IS NULL"
	}
	return stmt, b.Args(), nil
}

// Delete builds a hard DELETE, or a soft delete for paranoid resources unless force is set.
func (d Dialect) Delete(res models.Resource, id string, force bool, now any) (string, []any) {
	b := d.NewBuilder()
	if res.Paranoid && !force {
		stmt := "UPDATE " + d.Quote(res.Table) + " SET " + d.Quote(models.ColDeletedAt) + " = " + b.Arg(now) +
			" WHERE " + d.Quote(models.ColID) + " = " + b.Arg(id) + " AND " + d.Quote(models.ColDeletedAt) + " IS NULL"
		return stmt, b.Args()
	}
	return "DELETE FROM " + d.Quote(res.Table) + " WHERE " + d.Quote(models.ColID) + " = " + b.Arg(id), b.Args()
}

// Where renders c.Where plus the soft-delete clause. Field names are checked against
// the resource columns; tokens must come from the dialect's operator table.
func (b *Builder) Where(res models.Resource, c query.Criteria) (string, error) {
	conds := []string{}
	for _, field := range sortedKeys(c.Where) {
		if !res.HasColumn(field) {
			return "", fmt.Errorf("%w: %s", ErrUnknownColumn, field)
		}
		col := b.d.Quote(field)
		switch v := c.Where[field].(type) {
		case map[string]any:
			group, err := b.group(col, v)
			if err != nil {
				return "", fmt.Errorf("%s: %w", field, err)
			}
			conds = append(conds, group...)
		case nil:
			conds = append(conds, col+" IS NULL")
		case []any:
			conds = append(conds, col+" IN ("+b.list(v)+")")
		default:
			conds = append(conds, col+" = "+b.Arg(v))
		}
	}
	if res.Paranoid && c.Bool(query.KeyParanoid, true) {
		conds = append(conds, b.d.Quote(models.ColDeletedAt)+" IS NULL")
	}
	return strings.Join(conds, " AND "), nil
}

func (b *Builder) group(col string, ops map[string]any) ([]string, error) {
	out := make([]string, 0, len(ops))
	for _, tok := range sortedKeys(ops) {
		cond, err := b.condition(col, tok, ops[tok])
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

var comparisons = map[string]string{
	TokEq:  "=",
	TokNe:  "<>",
	TokGt:  ">",
	TokGte: ">=",
	TokLt:  "<",
	TokLte: "<=",
}

func (b *Builder) condition(col, tok string, operand any) (string, error) {
	if sym, ok := comparisons[tok]; ok {
		if operand == nil {
			if tok == TokNe {
				return col + " IS NOT NULL", nil
			}
			if tok == TokEq {
				return col + " IS NULL", nil
			}
			return "", fmt.Errorf("%w: %s needs a value", ErrBadOperand, tok)
		}
		return col + " " + sym + " " + b.Arg(operand), nil
	}

	switch tok {
	case TokBetween, TokNotBetween:
		neg := ""
		if tok == TokNotBetween {
			neg = "NOT "
		}
		if nested, ok := operand.(map[string]any); ok {
			parts, err := b.group(col, nested)
			if err != nil {
				return "", err
			}
			if len(parts) == 0 {
				return "", fmt.Errorf("%w: empty %s", ErrBadOperand, tok)
			}
			return neg + "(" + strings.Join(parts, " AND ") + ")", nil
		}
		bounds, ok := operand.([]any)
		if !ok || len(bounds) != 2 {
			return "", fmt.Errorf("%w: %s needs two bounds", ErrBadOperand, tok)
		}
		return col + " " + neg + "BETWEEN " + b.Arg(bounds[0]) + " AND " + b.Arg(bounds[1]), nil
	case TokIn, TokNotIn:
		list, ok := operand.([]any)
		if !ok {
			return "", fmt.Errorf("%w: %s needs a list", ErrBadOperand, tok)
		}
		if len(list) == 0 {
			if tok == TokIn {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		if tok == TokNotIn {
			return col + " NOT IN (" + b.list(list) + ")", nil
		}
		return col + " IN (" + b.list(list) + ")", nil
	case TokIs:
		return col + " IS NULL", nil
	case TokNot:
		return col + " IS NOT NULL", nil
	}

	s, ok := operand.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s needs text", ErrBadOperand, tok)
	}
	switch tok {
	case TokLike:
		return col + " LIKE " + b.Arg(s), nil
	case TokNotLike:
		return col + " NOT LIKE " + b.Arg(s), nil
	case TokILike:
		return col + " ILIKE " + b.Arg(s), nil
	case TokStartsWith:
		return col + " LIKE " + b.Arg(escapeLike(s)+"%"), nil
	case TokEndsWith:
		return col + " LIKE " + b.Arg("%"+escapeLike(s)), nil
	case TokSubstring:
		return col + " LIKE " + b.Arg("%"+escapeLike(s)+"%"), nil
	}
	return "", fmt.Errorf("%w: unsupported operator %s", ErrBadOperand, tok)
}

func (b *Builder) list(values []any) string {
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = b.Arg(v)
	}
	return strings.Join(marks, ", ")
}

func projection(res models.Resource, c query.Criteria) ([]string, error) {
	attrs := c.Strings(query.KeyAttributes)
	if len(attrs) == 0 {
		return append([]string(nil), res.Columns...), nil
	}

	seen := map[string]bool{}
	out := []string{}
	add := func(col string) error {
		if !res.HasColumn(col) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		if !seen[col] {
			seen[col] = true
			out = append(out, col)
		}
		return nil
	}

	if err := add(models.ColID); err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if err := add(a); err != nil {
			return nil, err
		}
	}
	for _, name := range c.Strings(query.KeyInclude) {
		if assoc, ok := res.Association(name); ok && assoc.Kind == models.BelongsTo {
			if err := add(assoc.ForeignKey); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
