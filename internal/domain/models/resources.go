package models

var Customers = register(Resource{
	Name:     "customers",
	Table:    "customers",
	Columns:  []string{"name", "email", "phone", "address"},
	Paranoid: true,
	Associations: []Association{
		{Name: "quotes", Target: "quotes", Kind: HasMany, ForeignKey: "customer_id"},
		{Name: "orders", Target: "orders", Kind: HasMany, ForeignKey: "customer_id"},
	},
})

var Quotes = register(Resource{
	Name:     "quotes",
	Table:    "quotes",
	Columns:  []string{"customer_id", "number", "description", "amount", "status", "valid_until"},
	Paranoid: true,
	Associations: []Association{
		{Name: "customer", Target: "customers", Kind: BelongsTo, ForeignKey: "customer_id"},
		{Name: "orders", Target: "orders", Kind: HasMany, ForeignKey: "quote_id"},
	},
})

var Orders = register(Resource{
	Name:     "orders",
	Table:    "orders",
	Columns:  []string{"quote_id", "customer_id", "number", "status", "progress", "due_date", "notes"},
	Paranoid: true,
	Associations: []Association{
		{Name: "quote", Target: "quotes", Kind: BelongsTo, ForeignKey: "quote_id"},
		{Name: "customer", Target: "customers", Kind: BelongsTo, ForeignKey: "customer_id"},
		{Name: "jobs", Target: "jobs", Kind: HasMany, ForeignKey: "order_id"},
	},
})

var Jobs = register(Resource{
	Name:     "jobs",
	Table:    "jobs",
	Columns:  []string{"order_id", "worker_id", "title", "description", "status", "progress", "hours", "scheduled_at"},
	Paranoid: true,
	Associations: []Association{
		{Name: "order", Target: "orders", Kind: BelongsTo, ForeignKey: "order_id"},
		{Name: "worker", Target: "workers", Kind: BelongsTo, ForeignKey: "worker_id"},
		{Name: "materials", Target: "materials", Kind: HasMany, ForeignKey: "job_id"},
	},
})

var Workers = register(Resource{
	Name:     "workers",
	Table:    "workers",
	Columns:  []string{"name", "email", "phone", "role", "hourly_rate", "active"},
	Paranoid: true,
	Associations: []Association{
		{Name: "jobs", Target: "jobs", Kind: HasMany, ForeignKey: "worker_id"},
	},
})

// Materials are hard deleted; a consumed material line has no history worth keeping.
var Materials = register(Resource{
	Name:    "materials",
	Table:   "materials",
	Columns: []string{"job_id", "name", "sku", "quantity", "unit", "unit_cost"},
	Associations: []Association{
		{Name: "job", Target: "jobs", Kind: BelongsTo, ForeignKey: "job_id"},
	},
})
