package query

import (
	"reflect"
	"testing"
)

var testOps = Operators{
	"eq":      "$eq",
	"ne":      "$ne",
	"gt":      "$gt",
	"gte":     "$gte",
	"lt":      "$lt",
	"lte":     "$lte",
	"in":      "$in",
	"like":    "$like",
	"between": "$between",
	"is":      "$is",
}

func TestTranslateScalarFilterAndLimit(t *testing.T) {
	got := New(testOps).Translate(map[string]any{"status": "done", "limit": 1})

	if !reflect.DeepEqual(got.Where, map[string]any{"status": "done"}) {
		t.Fatalf("unexpected where: %#v", got.Where)
	}
	if !reflect.DeepEqual(got.Options, map[string]any{"limit": 1}) {
		t.Fatalf("unexpected options: %#v", got.Options)
	}
}

func TestTranslateSortByWithOrderBy(t *testing.T) {
	got := New(testOps).Translate(map[string]any{"sort_by": "status", "order_by": "desc"})

	if len(got.Where) != 0 {
		t.Fatalf("where should be empty, got %#v", got.Where)
	}
	want := map[string]any{"order": []OrderTerm{{Field: "status", Direction: "desc"}}}
	if !reflect.DeepEqual(got.Options, want) {
		t.Fatalf("unexpected options: %#v", got.Options)
	}
}

func TestTranslateSortByDefaultsToAscending(t *testing.T) {
	got := New(testOps).Translate(map[string]any{"sort_by": "created_at"})

	terms := got.Order()
	if len(terms) != 1 || terms[0] != (OrderTerm{Field: "created_at", Direction: Asc}) {
		t.Fatalf("unexpected order: %#v", terms)
	}
}

func TestTranslateOrderByAloneIsDropped(t *testing.T) {
	got := New(testOps).Translate(map[string]any{"order_by": "desc"})

	if len(got.Options) != 0 || len(got.Where) != 0 {
		t.Fatalf("expected empty criteria, got %#v", got)
	}
}

func TestTranslateRewritesOperators(t *testing.T) {
	got := New(testOps).Translate(map[string]any{
		"progress": map[string]any{"gte": 10, "lte": 50},
	})

	want := map[string]any{"progress": map[string]any{"$gte": 10, "$lte": 50}}
	if !reflect.DeepEqual(got.Where, want) {
		t.Fatalf("unexpected where: %#v", got.Where)
	}
}

func TestTranslateDropsUnknownOperator(t *testing.T) {
	got := New(testOps).Translate(map[string]any{
		"progress": map[string]any{"unknownOp": 5},
	})

	want := map[string]any{"progress": map[string]any{}}
	if !reflect.DeepEqual(got.Where, want) {
		t.Fatalf("unexpected where: %#v", got.Where)
	}
}

func TestTranslateRecursesIntoNestedOperands(t *testing.T) {
	got := New(testOps).Translate(map[string]any{
		"amount": map[string]any{
			"between": map[string]any{"gte": 1, "lte": 9, "evil": "1;DROP"},
			"in":      []any{1, 2},
		},
	})

	want := map[string]any{"amount": map[string]any{
		"$between": map[string]any{"$gte": 1, "$lte": 9},
		"$in":      []any{1, 2},
	}}
	if !reflect.DeepEqual(got.Where, want) {
		t.Fatalf("unexpected where: %#v", got.Where)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	got := New(nil).Translate(map[string]any{})
	if got.Where == nil || got.Options == nil {
		t.Fatalf("criteria maps must be allocated")
	}
	if len(got.Where) != 0 || len(got.Options) != 0 {
		t.Fatalf("expected empty criteria, got %#v", got)
	}
}

func TestTranslatePartition(t *testing.T) {
	in := map[string]any{
		"status":     "open",
		"progress":   map[string]any{"gt": 1},
		"attributes": []string{"id", "status"},
		"include":    []string{"jobs"},
		"force":      true,
		"limit":      10,
		"offset":     20,
		"paranoid":   false,
		"plain":      true,
		"raw":        true,
		"returning":  true,
	}
	got := New(testOps).Translate(in)

	for key := range in {
		_, inWhere := got.Where[key]
		_, inOptions := got.Options[key]
		if inWhere == inOptions {
			t.Fatalf("key %q must be in exactly one partition (where=%v options=%v)", key, inWhere, inOptions)
		}
		if IsControlKey(key) != inOptions {
			t.Fatalf("key %q routed to the wrong partition", key)
		}
	}
}

func TestTranslateOperatorWhitelist(t *testing.T) {
	tokens := map[string]bool{}
	for _, tok := range testOps {
		tokens[tok] = true
	}
	got := New(testOps).Translate(map[string]any{
		"a": map[string]any{"gt": 1, "$gt": 2, "__proto__": 3, "or": 4},
		"b": map[string]any{"like": "x%", "regexp": ".*"},
	})

	for field, crit := range got.Where {
		for key := range crit.(map[string]any) {
			if !tokens[key] {
				t.Fatalf("foreign key %q survived under %q", key, field)
			}
		}
	}
}

func TestTranslateIsIdempotentThroughFlatten(t *testing.T) {
	tr := New(testOps)
	first := tr.Translate(map[string]any{
		"status":   "done",
		"progress": map[string]any{"gte": 10, "bogus": 1},
		"limit":    5,
		"sort_by":  "status",
		"order_by": "desc",
	})
	second := tr.Translate(Flatten(first, testOps))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("translation not idempotent:\nfirst  %#v\nsecond %#v", first, second)
	}
}

func TestCriteriaAccessors(t *testing.T) {
	c := Criteria{Options: map[string]any{
		"limit":      float64(7),
		"attributes": []any{"id", 3, "name"},
		"paranoid":   false,
	}}
	if n, ok := c.Int("limit"); !ok || n != 7 {
		t.Fatalf("limit = %d, %v", n, ok)
	}
	if _, ok := c.Int("offset"); ok {
		t.Fatalf("offset should be absent")
	}
	if got := c.Strings("attributes"); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Fatalf("attributes = %#v", got)
	}
	if c.Bool("paranoid", true) {
		t.Fatalf("paranoid should be false")
	}
	if !c.Bool("returning", true) {
		t.Fatalf("missing flag should use default")
	}
}
