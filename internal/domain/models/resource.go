package models

import "sort"

// Standard column names shared by every resource table.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
	ColDeletedAt = "deleted_at"
)

type AssociationKind int

const (
	// BelongsTo: ForeignKey lives on this resource and points at the target's id.
	BelongsTo AssociationKind = iota + 1
	// HasMany: ForeignKey lives on the target and points at this resource's id.
	HasMany
)

// Association is a named relation that clients may request with include.
type Association struct {
	Name       string
	Target     string
	Kind       AssociationKind
	ForeignKey string
}

// Resource describes a table exposed as a REST resource.
type Resource struct {
	Name         string
	Table        string
	Columns      []string
	Associations []Association
	// Paranoid resources are soft deleted through deleted_at.
	Paranoid bool
}

func (r Resource) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (r Resource) Association(name string) (Association, bool) {
	for _, a := range r.Associations {
		if a.Name == name {
			return a, true
		}
	}
	return Association{}, false
}

// AssociationNames lists the names accepted by include.
func (r Resource) AssociationNames() []string {
	out := make([]string, 0, len(r.Associations))
	for _, a := range r.Associations {
		out = append(out, a.Name)
	}
	return out
}

var registry = map[string]Resource{}

func register(r Resource) Resource {
	cols := []string{ColID}
	cols = append(cols, r.Columns...)
	cols = append(cols, ColCreatedAt, ColUpdatedAt)
	if r.Paranoid {
		cols = append(cols, ColDeletedAt)
	}
	r.Columns = cols
	registry[r.Name] = r
	return r
}

// Lookup returns a registered resource by name.
func Lookup(name string) (Resource, bool) {
	r, ok := registry[name]
	return r, ok
}

// All returns every registered resource ordered by name.
func All() []Resource {
	out := make([]Resource, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
