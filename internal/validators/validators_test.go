package validators

import (
	"errors"
	"testing"

	"orderdesk/internal/domain/models"
	"orderdesk/internal/schema"
)

const someUUID = "3f1c2d9e-8a7b-4c6d-9e0f-1a2b3c4d5e6f"

func validationError(t *testing.T, err error) *schema.Error {
	t.Helper()
	var verr *schema.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *schema.Error, got %v", err)
	}
	return verr
}

func TestEveryResourceHasSchemas(t *testing.T) {
	if len(All()) != len(models.All()) {
		t.Fatalf("expected one schema set per resource, got %d/%d", len(All()), len(models.All()))
	}
	for _, res := range models.All() {
		if _, ok := For(res.Name); !ok {
			t.Fatalf("no schemas for %s", res.Name)
		}
	}
}

func TestOrdersListQuery(t *testing.T) {
	out, err := Orders.List.Validate(schema.Input{Query: map[string]any{"status": "done", "limit": "1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Query["status"] != "done" || out.Query["limit"] != 1 {
		t.Fatalf("unexpected normalized query %#v", out.Query)
	}
}

func TestOrdersListRejectsUnknownFiltersAndColumns(t *testing.T) {
	_, err := Orders.List.Validate(schema.Input{Query: map[string]any{
		"password": "x",
		"sort_by":  "deleted_at",
		"include":  "workers",
		"progress": map[string]any{"regex": "1"},
	}})
	verr := validationError(t, err)
	want := map[string]string{
		"password":       schema.ReasonUnknown,
		"sort_by":        schema.ReasonNotAllowed,
		"include":        schema.ReasonNotAllowed,
		"progress.regex": schema.ReasonUnknownOperator,
	}
	for name, reason := range want {
		if got := verr.Reason(name); got != reason {
			t.Fatalf("%s: got reason %q want %q (all: %+v)", name, got, reason, verr.Fields)
		}
	}
}

func TestOrderCreateRequiresQuoteID(t *testing.T) {
	_, err := Orders.Create.Validate(schema.Input{Body: map[string]any{
		"customer_id": someUUID,
		"number":      "ORD-1",
	}})
	verr := validationError(t, err)
	if verr.Code != schema.CodeValidation {
		t.Fatalf("unexpected code %s", verr.Code)
	}
	if verr.Reason("quote_id") != schema.ReasonRequired {
		t.Fatalf("quote_id should be required: %+v", verr.Fields)
	}
	for _, f := range verr.Fields {
		if f.In != schema.InBody {
			t.Fatalf("unexpected part %s", f.In)
		}
	}
}

func TestOrderCreateAppliesDefaultsAndForbidsIdentity(t *testing.T) {
	body := map[string]any{"quote_id": someUUID, "customer_id": someUUID, "number": "ORD-1"}
	out, err := Orders.Create.Validate(schema.Input{Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Body["status"] != "pending" || out.Body["progress"] != 0.0 {
		t.Fatalf("defaults not applied: %#v", out.Body)
	}

	body["id"] = someUUID
	body["created_at"] = "2025-01-01"
	_, err = Orders.Create.Validate(schema.Input{Body: body})
	verr := validationError(t, err)
	if verr.Reason("id") != schema.ReasonForbidden || verr.Reason("created_at") != schema.ReasonForbidden {
		t.Fatalf("identity fields should be forbidden: %+v", verr.Fields)
	}
}

func TestUpdateRules(t *testing.T) {
	params := map[string]any{"id": someUUID}

	_, err := Quotes.Update.Validate(schema.Input{Params: params, Body: map[string]any{}})
	verr := validationError(t, err)
	if len(verr.Fields) != 1 || verr.Fields[0].Reason != schema.ReasonTooFewKeys {
		t.Fatalf("empty update should be rejected: %+v", verr.Fields)
	}

	_, err = Quotes.Update.Validate(schema.Input{Params: params, Body: map[string]any{"number": "Q-2"}})
	verr = validationError(t, err)
	if verr.Reason("number") != schema.ReasonDenied {
		t.Fatalf("number should be denied on update: %+v", verr.Fields)
	}

	out, err := Quotes.Update.Validate(schema.Input{Params: params, Body: map[string]any{"status": "sent"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out.Body["amount"]; ok {
		t.Fatalf("update must not apply defaults or absent fields: %#v", out.Body)
	}
}

func TestGetAndDeleteParams(t *testing.T) {
	_, err := Jobs.Get.Validate(schema.Input{Params: map[string]any{"id": "42"}})
	verr := validationError(t, err)
	if verr.Reason("id") != schema.ReasonInvalidUUID {
		t.Fatalf("expected invalid uuid: %+v", verr.Fields)
	}

	out, err := Jobs.Delete.Validate(schema.Input{
		Params: map[string]any{"id": someUUID},
		Query:  map[string]any{"force": "1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Query["force"] != true {
		t.Fatalf("force should coerce to bool: %#v", out.Query)
	}

	_, err = Jobs.Delete.Validate(schema.Input{Params: map[string]any{"id": someUUID}, Body: map[string]any{"x": 1}})
	verr = validationError(t, err)
	if verr.Reason("x") != schema.ReasonUnknown {
		t.Fatalf("delete takes no body: %+v", verr.Fields)
	}
}

func TestMaterialsNumbers(t *testing.T) {
	_, err := Materials.Create.Validate(schema.Input{Body: map[string]any{
		"job_id":    someUUID,
		"name":      "Bolt",
		"quantity":  0,
		"unit":      "pcs",
		"unit_cost": -1,
	}})
	verr := validationError(t, err)
	if verr.Reason("quantity") != schema.ReasonZero || verr.Reason("unit_cost") != schema.ReasonNegative {
		t.Fatalf("unexpected reasons: %+v", verr.Fields)
	}
}

func TestNumberFiltersAcceptZero(t *testing.T) {
	cases := []struct {
		name  string
		set   Set
		query map[string]any
	}{
		{"unstarted orders", Orders, map[string]any{"progress": "0"}},
		{"gte zero", Orders, map[string]any{"progress": map[string]any{"gte": "0"}}},
		{"between from zero", Orders, map[string]any{"progress": map[string]any{"between": "0,50"}}},
		{"free quotes", Quotes, map[string]any{"amount": map[string]any{"lte": "0"}}},
		{"unlogged hours", Jobs, map[string]any{"hours": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.set.List.Validate(schema.Input{Query: tc.query}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	_, err := Orders.List.Validate(schema.Input{Query: map[string]any{"progress": map[string]any{"gte": "-1"}}})
	verr := validationError(t, err)
	if verr.Reason("progress.gte") != schema.ReasonNegative {
		t.Fatalf("negative operand should still fail: %+v", verr.Fields)
	}
}

func TestBodyKeyBound(t *testing.T) {
	body := map[string]any{
		"name":    "Acme",
		"email":   "ops@acme.test",
		"phone":   "555 0100",
		"address": "1 Main St",
		"extra":   "x",
	}
	_, err := Customers.Create.Validate(schema.Input{Body: body})
	verr := validationError(t, err)
	if verr.Reason("") != schema.ReasonTooManyKeys || verr.Reason("extra") != schema.ReasonUnknown {
		t.Fatalf("expected too_many_keys and unknown: %+v", verr.Fields)
	}

	delete(body, "extra")
	if _, err := Customers.Create.Validate(schema.Input{Body: body}); err != nil {
		t.Fatalf("full body should pass: %v", err)
	}
}
