package schema

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Filter operator names accepted inside NUMBER_FILTER, DATE_FILTER and TEXT_FILTER objects.
const (
	OpEq         = "eq"
	OpNe         = "ne"
	OpGt         = "gt"
	OpGte        = "gte"
	OpLt         = "lt"
	OpLte        = "lte"
	OpBetween    = "between"
	OpNotBetween = "notBetween"
	OpIn         = "in"
	OpNotIn      = "notIn"
	OpIs         = "is"
	OpNot        = "not"
	OpLike       = "like"
	OpNotLike    = "notLike"
	OpILike      = "iLike"
	OpStartsWith = "startsWith"
	OpEndsWith   = "endsWith"
	OpSubstring  = "substring"
)

var (
	rangeOperators = map[string]bool{
		OpEq: true, OpNe: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
		OpBetween: true, OpNotBetween: true, OpIn: true, OpNotIn: true, OpIs: true, OpNot: true,
	}
	textOperators = map[string]bool{
		OpEq: true, OpNe: true, OpLike: true, OpNotLike: true, OpILike: true,
		OpStartsWith: true, OpEndsWith: true, OpSubstring: true,
		OpIn: true, OpNotIn: true, OpIs: true, OpNot: true,
	}
)

// FilterOperators lists the operator names a filter kind accepts.
func FilterOperators(k Kind) []string {
	var set map[string]bool
	switch k {
	case KindNumberFilter, KindDateFilter:
		set = rangeOperators
	case KindTextFilter:
		set = textOperators
	default:
		return nil
	}
	out := make([]string, 0, len(set))
	for op := range set {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type problem struct {
	sub    string
	reason string
}

func fail(reason string) []problem { return []problem{{reason: reason}} }

// check coerces v according to the field kind.
func (f Field) check(v any) (any, []problem) {
	switch f.kind {
	case KindUUID:
		return checkUUID(v)
	case KindCode:
		return f.checkString(v, true)
	case KindText:
		return f.checkString(v, false)
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fail(ReasonInvalidType)
		}
		if !f.allows(s) {
			return nil, fail(ReasonNotAllowed)
		}
		return s, nil
	case KindNumber:
		return f.checkNumber(v)
	case KindDate:
		return checkDate(v)
	case KindBoolean:
		return checkBoolean(v)
	case KindNumberFilter, KindDateFilter, KindTextFilter:
		return f.checkFilter(v)
	case KindAttributes, KindInclude:
		return f.checkNames(v)
	case KindOrderBy:
		s, ok := v.(string)
		if !ok {
			return nil, fail(ReasonInvalidType)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "asc" && s != "desc" {
			return nil, fail(ReasonNotAllowed)
		}
		return s, nil
	case KindLimit:
		g := f
		g.kind = KindNumber
		g.integer = true
		if g.max == nil {
			m := float64(MaxLimit)
			g.max = &m
		}
		return g.checkNumber(v)
	case KindOffset:
		g := f
		g.kind = KindNumber
		g.integer = true
		return g.checkNumber(v)
	}
	return nil, fail(ReasonInvalidType)
}

func checkUUID(v any) (any, []problem) {
	s, ok := v.(string)
	if !ok {
		return nil, fail(ReasonInvalidType)
	}
	// uuid.Parse also accepts urn and braced forms; only the canonical one is valid here.
	if len(s) != 36 {
		return nil, fail(ReasonInvalidUUID)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fail(ReasonInvalidUUID)
	}
	return id.String(), nil
}

func (f Field) checkString(v any, code bool) (any, []problem) {
	s, ok := v.(string)
	if !ok {
		return nil, fail(ReasonInvalidType)
	}
	if code {
		s = strings.TrimSpace(s)
		if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return nil, fail(ReasonInvalidType)
		}
	}
	if strings.TrimSpace(s) == "" {
		if !f.empty {
			return nil, fail(ReasonEmpty)
		}
		return s, nil
	}
	n := float64(utf8.RuneCountInString(s))
	if f.min != nil && n < *f.min {
		return nil, fail(ReasonTooShort)
	}
	upper := f.max
	if upper == nil && code {
		m := float64(codeMaxLen)
		upper = &m
	}
	if upper != nil && n > *upper {
		return nil, fail(ReasonTooLong)
	}
	return s, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func (f Field) checkNumber(v any) (any, []problem) {
	n, ok := toFloat(v)
	if !ok {
		return nil, fail(ReasonInvalidType)
	}
	if f.integer && n != math.Trunc(n) {
		return nil, fail(ReasonNotInteger)
	}
	if n < 0 && !f.negative {
		return nil, fail(ReasonNegative)
	}
	if n == 0 && !f.zero {
		return nil, fail(ReasonZero)
	}
	if f.min != nil && n < *f.min {
		return nil, fail(ReasonTooSmall)
	}
	if f.max != nil && n > *f.max {
		return nil, fail(ReasonTooLarge)
	}
	if f.integer {
		return int(n), nil
	}
	return n, nil
}

func checkDate(v any) (any, []problem) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return nil, fail(ReasonInvalidDate)
}

func checkBoolean(v any) (any, []problem) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return nil, fail(ReasonInvalidBoolean)
}

func (f Field) checkFilter(v any) (any, []problem) {
	base := f.base()
	obj, ok := v.(map[string]any)
	if !ok {
		return base.check(v)
	}

	allowed := rangeOperators
	if f.kind == KindTextFilter {
		allowed = textOperators
	}

	out := make(map[string]any, len(obj))
	var probs []problem
	for _, op := range sortedKeys(obj) {
		if !allowed[op] {
			probs = append(probs, problem{sub: op, reason: ReasonUnknownOperator})
			continue
		}
		operand, reason := base.checkOperand(op, obj[op])
		if reason != "" {
			probs = append(probs, problem{sub: op, reason: reason})
			continue
		}
		out[op] = operand
	}
	if len(probs) > 0 {
		return nil, probs
	}
	return out, nil
}

func (f Field) checkOperand(op string, v any) (any, string) {
	switch op {
	case OpIs, OpNot:
		if v == nil {
			return nil, ""
		}
		if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "null") {
			return nil, ""
		}
		return nil, ReasonInvalidOperand
	case OpBetween, OpNotBetween, OpIn, OpNotIn:
		list, ok := toList(v)
		if !ok || len(list) == 0 {
			return nil, ReasonInvalidOperand
		}
		if (op == OpBetween || op == OpNotBetween) && len(list) != 2 {
			return nil, ReasonInvalidOperand
		}
		out := make([]any, 0, len(list))
		for _, item := range list {
			norm, probs := f.check(item)
			if len(probs) > 0 {
				return nil, probs[0].reason
			}
			out = append(out, norm)
		}
		return out, ""
	}
	if v == nil {
		return nil, ReasonNull
	}
	norm, probs := f.check(v)
	if len(probs) > 0 {
		return nil, probs[0].reason
	}
	return norm, ""
}

func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case string:
		parts := strings.Split(l, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

func (f Field) checkNames(v any) (any, []problem) {
	list, ok := toList(v)
	if !ok {
		return nil, fail(ReasonInvalidType)
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fail(ReasonInvalidType)
		}
		s = strings.TrimSpace(s)
		if !f.allows(s) {
			return nil, fail(ReasonNotAllowed)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 && !f.empty {
		return nil, fail(ReasonEmpty)
	}
	return out, nil
}
