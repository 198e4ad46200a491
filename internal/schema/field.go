package schema

// Kind is the semantic type of an accepted input field.
type Kind int

const (
	KindUUID Kind = iota + 1
	KindCode
	KindText
	KindEnum
	KindNumber
	KindDate
	KindBoolean
	KindNumberFilter
	KindDateFilter
	KindTextFilter
	KindAttributes
	KindInclude
	KindOrderBy
	KindLimit
	KindOffset
)

var kindNames = map[Kind]string{
	KindUUID:         "uuid",
	KindCode:         "code",
	KindText:         "text",
	KindEnum:         "enum",
	KindNumber:       "number",
	KindDate:         "date",
	KindBoolean:      "boolean",
	KindNumberFilter: "number_filter",
	KindDateFilter:   "date_filter",
	KindTextFilter:   "text_filter",
	KindAttributes:   "attributes",
	KindInclude:      "include",
	KindOrderBy:      "order_by",
	KindLimit:        "limit",
	KindOffset:       "offset",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

const (
	// MaxLimit bounds LIMIT fields that do not declare their own maximum.
	MaxLimit = 100
	// codeMaxLen bounds CODE fields that do not declare their own maximum.
	codeMaxLen = 64
)

// Field describes one accepted input field. It is pure metadata: modifiers return
// a modified copy so a Field can be shared between endpoints.
type Field struct {
	kind      Kind
	values    []string
	optional  bool
	nullable  bool
	deny      bool
	forbidden bool
	hasDef    bool
	def       any
	min       *float64
	max       *float64
	zero      bool
	negative  bool
	empty     bool
	integer   bool
}

func UUID() Field         { return Field{kind: KindUUID} }
func Code() Field         { return Field{kind: KindCode} }
func Text() Field         { return Field{kind: KindText} }
func Number() Field       { return Field{kind: KindNumber} }
func Date() Field         { return Field{kind: KindDate} }
func Boolean() Field      { return Field{kind: KindBoolean} }
func NumberFilter() Field { return Field{kind: KindNumberFilter} }
func DateFilter() Field   { return Field{kind: KindDateFilter} }
func TextFilter() Field   { return Field{kind: KindTextFilter} }
func OrderBy() Field      { return Field{kind: KindOrderBy} }
func Offset() Field       { return Field{kind: KindOffset, zero: true} }

// Limit accepts integers from 1 to MaxLimit, or to the bound set with Max.
// Zero is rejected: SQL builders treat a missing limit as the default page size,
// and a page of zero rows is never a useful request.
func Limit() Field { return Field{kind: KindLimit} }

// Enum accepts exactly one of values. It is also used for sort_by fields, where
// values are the sortable attribute names of a resource.
func Enum(values ...string) Field {
	return Field{kind: KindEnum, values: append([]string(nil), values...)}
}

// Attributes accepts a comma separated string or an array of names taken from names.
func Attributes(names ...string) Field {
	return Field{kind: KindAttributes, values: append([]string(nil), names...)}
}

// Include accepts a comma separated string or an array of association names.
func Include(associations ...string) Field {
	return Field{kind: KindInclude, values: append([]string(nil), associations...)}
}

func (f Field) Kind() Kind { return f.kind }

func (f Field) Optional() Field { f.optional = true; return f }
func (f Field) Nullable() Field { f.nullable = true; return f }

// Deny rejects the field whenever the client supplies it.
func (f Field) Deny() Field { f.deny = true; return f }

// Forbidden rejects the field whenever the client supplies it. Used for identity
// fields such as id and timestamps.
func (f Field) Forbidden() Field { f.forbidden = true; return f }

// Default is applied when the field is absent.
func (f Field) Default(v any) Field {
	f.hasDef = true
	f.def = v
	return f
}

// Min is a numeric lower bound for numbers and a length lower bound for strings.
func (f Field) Min(n float64) Field { f.min = &n; return f }

// Max is a numeric upper bound for numbers and a length upper bound for strings.
func (f Field) Max(n float64) Field { f.max = &n; return f }

func (f Field) AllowZero() Field     { f.zero = true; return f }
func (f Field) AllowNegative() Field { f.negative = true; return f }
func (f Field) AllowEmpty() Field    { f.empty = true; return f }

// Integer makes NUMBER fields reject fractions and normalize to int.
func (f Field) Integer() Field { f.integer = true; return f }

// Values returns the allowed set of ENUM, ATTRIBUTES and INCLUDE fields.
func (f Field) Values() []string { return append([]string(nil), f.values...) }

func (f Field) allows(v string) bool {
	for _, a := range f.values {
		if a == v {
			return true
		}
	}
	return false
}

// base returns the scalar rule applied to filter operands.
func (f Field) base() Field {
	switch f.kind {
	case KindNumberFilter:
		f.kind = KindNumber
	case KindDateFilter:
		f.kind = KindDate
	case KindTextFilter:
		f.kind = KindText
	}
	return f
}

func (f Field) isFilter() bool {
	return f.kind == KindNumberFilter || f.kind == KindDateFilter || f.kind == KindTextFilter
}
