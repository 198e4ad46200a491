// Package query turns validated, flat query options into the where/options criteria
// consumed by the repositories.
package query

// Control keys are routed to Options instead of Where.
const (
	KeyAttributes = "attributes"
	KeyInclude    = "include"
	KeyForce      = "force"
	KeyLimit      = "limit"
	KeyOffset     = "offset"
	KeyOrderBy    = "order_by"
	KeyParanoid   = "paranoid"
	KeyPlain      = "plain"
	KeyRaw        = "raw"
	KeyReturning  = "returning"
	KeySortBy     = "sort_by"

	// KeyOrder is derived from sort_by/order_by.
	KeyOrder = "order"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

var controlKeys = map[string]struct{}{
	KeyAttributes: {},
	KeyInclude:    {},
	KeyForce:      {},
	KeyLimit:      {},
	KeyOffset:     {},
	KeyOrderBy:    {},
	KeyParanoid:   {},
	KeyPlain:      {},
	KeyRaw:        {},
	KeyReturning:  {},
	KeySortBy:     {},
}

// IsControlKey reports whether key configures the query shape rather than filtering rows.
func IsControlKey(key string) bool {
	_, ok := controlKeys[key]
	return ok
}

// OperatorTable maps public filter operator names to backend tokens.
type OperatorTable interface {
	Token(name string) (string, bool)
}

// Operators is a map based OperatorTable.
type Operators map[string]string

func (o Operators) Token(name string) (string, bool) {
	t, ok := o[name]
	return t, ok
}

// OrderTerm is a single ordering directive.
type OrderTerm struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Criteria is the translated form of a query: Where filters rows, Options shapes the result.
type Criteria struct {
	Where   map[string]any `json:"where"`
	Options map[string]any `json:"options"`
}

// Order returns the ordering directive, if any.
func (c Criteria) Order() []OrderTerm {
	terms, _ := c.Options[KeyOrder].([]OrderTerm)
	return terms
}

// Strings returns a string-list option such as attributes or include.
func (c Criteria) Strings(key string) []string {
	switch v := c.Options[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Int returns an integer option such as limit or offset.
func (c Criteria) Int(key string) (int, bool) {
	switch v := c.Options[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Bool returns a flag option; def is used when the option is absent.
func (c Criteria) Bool(key string, def bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return def
}

// Translator rewrites query options using an injected operator table.
type Translator struct {
	ops OperatorTable
}

func New(ops OperatorTable) Translator {
	if ops == nil {
		ops = Operators{}
	}
	return Translator{ops: ops}
}

// Translate partitions q into Where and Options. It never fails: nested keys that
// are not known operators are dropped.
func (t Translator) Translate(q map[string]any) Criteria {
	out := Criteria{Where: map[string]any{}, Options: map[string]any{}}

	for key, value := range q {
		if IsControlKey(key) {
			out.Options[key] = value
			continue
		}
		out.Where[key] = t.criterion(value)
	}

	sortBy, hasSort := out.Options[KeySortBy]
	direction, _ := out.Options[KeyOrderBy].(string)
	delete(out.Options, KeySortBy)
	delete(out.Options, KeyOrderBy)
	if field, ok := sortBy.(string); hasSort && ok && field != "" {
		if direction == "" {
			direction = Asc
		}
		out.Options[KeyOrder] = []OrderTerm{{Field: field, Direction: direction}}
	}
	return out
}

func (t Translator) criterion(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	return t.rewrite(obj)
}

func (t Translator) rewrite(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for name, operand := range obj {
		token, ok := t.ops.Token(name)
		if !ok {
			continue
		}
		if nested, isObj := operand.(map[string]any); isObj {
			out[token] = t.rewrite(nested)
			continue
		}
		out[token] = operand
	}
	return out
}

// Flatten maps c back into query options: tokens become operator names again and
// the order directive becomes sort_by/order_by.
func Flatten(c Criteria, ops Operators) map[string]any {
	names := make(map[string]string, len(ops))
	for name, token := range ops {
		// several names may share a token; keep the result stable
		if prev, ok := names[token]; !ok || name < prev {
			names[token] = name
		}
	}

	out := make(map[string]any, len(c.Where)+len(c.Options))
	for field, value := range c.Where {
		out[field] = unrewrite(value, names)
	}
	for key, value := range c.Options {
		if key == KeyOrder {
			if terms := c.Order(); len(terms) > 0 {
				out[KeySortBy] = terms[0].Field
				out[KeyOrderBy] = terms[0].Direction
			}
			continue
		}
		out[key] = value
	}
	return out
}

func unrewrite(v any, names map[string]string) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(obj))
	for token, operand := range obj {
		name, ok := names[token]
		if !ok {
			continue
		}
		out[name] = unrewrite(operand, names)
	}
	return out
}
