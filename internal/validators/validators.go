// Package validators declares the request schemas of every resource endpoint.
package validators

import (
	"sort"

	"orderdesk/internal/domain/models"
	"orderdesk/internal/query"
	"orderdesk/internal/schema"
)

// Set holds the request schema of each CRUD endpoint of one resource.
type Set struct {
	Resource string
	List     schema.Request
	Get      schema.Request
	Create   schema.Request
	Update   schema.Request
	Delete   schema.Request
}

// definition is the per-resource input to build.
type definition struct {
	res models.Resource
	// filters lists the columns clients may filter on, with their filter kind.
	filters map[string]schema.Field
	// body lists writable columns. Required ones are named in required.
	body     map[string]schema.Field
	required []string
	defaults map[string]any
	// immutable columns may be set on create but are denied on update.
	immutable []string
}

var identity = []string{models.ColID, models.ColCreatedAt, models.ColUpdatedAt, models.ColDeletedAt}

func idParams() *schema.Part {
	return schema.Object(map[string]schema.Field{"id": schema.UUID()})
}

func build(d definition) Set {
	attrs := columnNames(d.res)
	assocs := d.res.AssociationNames()

	list := map[string]schema.Field{
		query.KeyAttributes: schema.Attributes(attrs...).Optional(),
		query.KeyInclude:    schema.Include(assocs...).Optional(),
		query.KeySortBy:     schema.Enum(attrs...).Optional(),
		query.KeyOrderBy:    schema.OrderBy().Optional(),
		query.KeyLimit:      schema.Limit().Optional(),
		query.KeyOffset:     schema.Offset().Optional(),
		query.KeyParanoid:   schema.Boolean().Optional(),
		models.ColID:        schema.TextFilter().Optional(),
		models.ColCreatedAt: schema.DateFilter().Optional(),
		models.ColUpdatedAt: schema.DateFilter().Optional(),
	}
	for name, f := range d.filters {
		list[name] = f.Optional()
	}

	get := map[string]schema.Field{
		query.KeyAttributes: schema.Attributes(attrs...).Optional(),
		query.KeyInclude:    schema.Include(assocs...).Optional(),
		query.KeyParanoid:   schema.Boolean().Optional(),
	}

	writeQuery := func() *schema.Part {
		return schema.Object(map[string]schema.Field{
			query.KeyReturning:  schema.Boolean().Optional(),
			query.KeyAttributes: schema.Attributes(attrs...).Optional(),
			query.KeyInclude:    schema.Include(assocs...).Optional(),
		})
	}

	required := map[string]bool{}
	for _, name := range d.required {
		required[name] = true
	}
	create := map[string]schema.Field{}
	update := map[string]schema.Field{}
	for name, f := range d.body {
		c := f
		if def, ok := d.defaults[name]; ok {
			c = c.Default(def)
		} else if !required[name] {
			c = c.Optional()
		}
		create[name] = c
		update[name] = f.Optional()
	}
	for _, name := range d.immutable {
		update[name] = update[name].Deny()
	}
	for _, name := range identity {
		create[name] = schema.Text().Forbidden()
		update[name] = schema.Text().Forbidden()
	}

	return Set{
		Resource: d.res.Name,
		List:     schema.Request{Query: schema.Object(list).Max(len(list))},
		Get:      schema.Request{Params: idParams(), Query: schema.Object(get)},
		Create:   schema.Request{Query: writeQuery(), Body: schema.Object(create).Max(len(d.body))},
		Update:   schema.Request{Params: idParams(), Query: writeQuery(), Body: schema.Object(update).Min(1).Max(len(d.body))},
		Delete: schema.Request{
			Params: idParams(),
			Query:  schema.Object(map[string]schema.Field{query.KeyForce: schema.Boolean().Optional()}),
		},
	}
}

// columnNames are the selectable and sortable columns, deleted_at excluded.
func columnNames(res models.Resource) []string {
	out := make([]string, 0, len(res.Columns))
	for _, c := range res.Columns {
		if c != models.ColDeletedAt {
			out = append(out, c)
		}
	}
	return out
}

var registry = map[string]Set{}

func register(d definition) Set {
	s := build(d)
	registry[s.Resource] = s
	return s
}

// For returns the schemas of a resource.
func For(resource string) (Set, bool) {
	s, ok := registry[resource]
	return s, ok
}

// All returns every schema set ordered by resource name.
func All() []Set {
	out := make([]Set, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out
}
