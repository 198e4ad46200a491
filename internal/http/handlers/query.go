package handlers

import (
	"net/url"
	"sort"
	"strings"
)

// ParseQuery decodes a query string into nested maps using bracket notation:
//
//	status=done             -> {"status": "done"}
//	progress[gte]=10        -> {"progress": {"gte": "10"}}
//	status[in][]=a&...[]=b  -> {"status": {"in": ["a", "b"]}}
//	include[]=quote         -> {"include": ["quote"]}
//
// A key repeated without brackets becomes a list. Values stay strings; the request
// schema coerces them.
func ParseQuery(values url.Values) map[string]any {
	out := map[string]any{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		path, ok := splitKey(raw)
		if !ok {
			continue
		}
		for _, v := range values[raw] {
			assign(out, path, v)
		}
	}
	return out
}

// splitKey turns "a[b][]" into ["a", "b", ""].
func splitKey(key string) ([]string, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}, key != ""
	}
	if open == 0 {
		return nil, false
	}
	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, true
}

// assign stores v under path. When one key is sent in several shapes, such as
// progress=5&progress[gte]=1, every shape is kept in a list so the request schema
// rejects it instead of one form silently winning.
func assign(m map[string]any, path []string, v string) {
	head := path[0]
	if len(path) == 1 {
		switch cur := m[head].(type) {
		case nil:
			m[head] = v
		case []any:
			m[head] = append(cur, v)
		default:
			m[head] = []any{cur, v}
		}
		return
	}

	if path[1] == "" {
		var list []any
		switch cur := m[head].(type) {
		case nil:
		case []any:
			list = cur
		default:
			list = []any{cur}
		}
		if len(path) == 2 {
			m[head] = append(list, v)
			return
		}
		// a[][b]=x appends one object per value
		child := map[string]any{}
		assign(child, path[2:], v)
		m[head] = append(list, child)
		return
	}

	var child map[string]any
	switch cur := m[head].(type) {
	case nil:
		child = map[string]any{}
		m[head] = child
	case map[string]any:
		child = cur
	case []any:
		if n := len(cur); n > 0 {
			child, _ = cur[n-1].(map[string]any)
		}
		if child == nil {
			child = map[string]any{}
			m[head] = append(cur, child)
		}
	default:
		child = map[string]any{}
		m[head] = []any{cur, child}
	}
	assign(child, path[1:], v)
}
