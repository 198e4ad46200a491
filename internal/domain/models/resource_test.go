package models

import "testing"

func TestRegisterAddsStandardColumns(t *testing.T) {
	for _, col := range []string{ColID, "quote_id", ColCreatedAt, ColUpdatedAt, ColDeletedAt} {
		if !Orders.HasColumn(col) {
			t.Fatalf("orders missing column %s", col)
		}
	}
	if Materials.HasColumn(ColDeletedAt) {
		t.Fatalf("materials are not paranoid and must not carry deleted_at")
	}
}

func TestAssociationsPointAtRegisteredResources(t *testing.T) {
	for _, r := range All() {
		for _, a := range r.Associations {
			target, ok := Lookup(a.Target)
			if !ok {
				t.Fatalf("%s.%s targets unknown resource %s", r.Name, a.Name, a.Target)
			}
			switch a.Kind {
			case BelongsTo:
				if !r.HasColumn(a.ForeignKey) {
					t.Fatalf("%s.%s: foreign key %s missing on %s", r.Name, a.Name, a.ForeignKey, r.Name)
				}
			case HasMany:
				if !target.HasColumn(a.ForeignKey) {
					t.Fatalf("%s.%s: foreign key %s missing on %s", r.Name, a.Name, a.ForeignKey, target.Name)
				}
			default:
				t.Fatalf("%s.%s has no kind", r.Name, a.Name)
			}
		}
	}
}

func TestLookupAndNames(t *testing.T) {
	if _, ok := Lookup("invoices"); ok {
		t.Fatalf("unexpected resource")
	}
	if got := len(All()); got != 6 {
		t.Fatalf("expected 6 resources, got %d", got)
	}
	names := Jobs.AssociationNames()
	if len(names) != 3 || names[0] != "order" {
		t.Fatalf("unexpected association names %v", names)
	}
	if _, ok := Jobs.Association("worker"); !ok {
		t.Fatalf("worker association missing")
	}
}
