package db

import (
	"strconv"
	"strings"

	"orderdesk/internal/query"
)

// Operator tokens understood by the SQL builder. A dialect's operator table maps public
// filter operator names onto these.
const (
	TokEq         = "$eq"
	TokNe         = "$ne"
	TokGt         = "$gt"
	TokGte        = "$gte"
	TokLt         = "$lt"
	TokLte        = "$lte"
	TokBetween    = "$between"
	TokNotBetween = "$notBetween"
	TokIn         = "$in"
	TokNotIn      = "$notIn"
	TokIs         = "$is"
	TokNot        = "$not"
	TokLike       = "$like"
	TokNotLike    = "$notLike"
	TokILike      = "$iLike"
	TokStartsWith = "$startsWith"
	TokEndsWith   = "$endsWith"
	TokSubstring  = "$substring"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

// Dialect carries what differs between the supported databases.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder PlaceholderStyle
	quote       byte
	ops         query.Operators
}

func baseOperators() query.Operators {
	return query.Operators{
		"eq":         TokEq,
		"ne":         TokNe,
		"gt":         TokGt,
		"gte":        TokGte,
		"lt":         TokLt,
		"lte":        TokLte,
		"between":    TokBetween,
		"notBetween": TokNotBetween,
		"in":         TokIn,
		"notIn":      TokNotIn,
		"is":         TokIs,
		"not":        TokNot,
		"like":       TokLike,
		"notLike":    TokNotLike,
		"startsWith": TokStartsWith,
		"endsWith":   TokEndsWith,
		"substring":  TokSubstring,
	}
}

// MySQL compares case-insensitively under the default collations, so iLike is plain LIKE.
var MySQL = func() Dialect {
	ops := baseOperators()
	ops["iLike"] = TokLike
	return Dialect{Name: "mysql", DriverName: "mysql", Placeholder: PlaceholderQuestion, quote: '`', ops: ops}
}()

var Postgres = func() Dialect {
	ops := baseOperators()
	ops["iLike"] = TokILike
	return Dialect{Name: "postgres", DriverName: "pgx", Placeholder: PlaceholderDollar, quote: '"', ops: ops}
}()

// DialectFor resolves a configured driver name. Unknown names fall back to MySQL.
func DialectFor(driver string) Dialect {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return Postgres
	default:
		return MySQL
	}
}

// Operators returns a copy of the operator table to inject into the query translator.
func (d Dialect) Operators() query.Operators {
	out := make(query.Operators, len(d.ops))
	for k, v := range d.ops {
		out[k] = v
	}
	return out
}

// Quote quotes an identifier. Identifiers always come from resource metadata.
func (d Dialect) Quote(ident string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

func (d Dialect) placeholder(n int) string {
	if d.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
