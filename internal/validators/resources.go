package validators

import (
	"orderdesk/internal/domain/models"
	"orderdesk/internal/schema"
)

var (
	QuoteStatuses  = []string{"draft", "sent", "accepted", "rejected", "expired"}
	OrderStatuses  = []string{"pending", "in_progress", "done", "cancelled"}
	JobStatuses    = []string{"pending", "scheduled", "in_progress", "done", "cancelled"}
	WorkerRoles    = []string{"technician", "helper", "supervisor", "manager"}
	MaterialUnits  = []string{"pcs", "m", "m2", "m3", "kg", "l", "h"}
	percentage     = schema.Number().AllowZero().Max(100)
	nonNegative    = schema.Number().AllowZero()
	optionalString = schema.Text().Nullable()
)

var Customers = register(definition{
	res: models.Customers,
	filters: map[string]schema.Field{
		"name":  schema.TextFilter(),
		"email": schema.TextFilter(),
		"phone": schema.TextFilter(),
	},
	body: map[string]schema.Field{
		"name":    schema.Text().Max(160),
		"email":   schema.Text().Max(190).Nullable(),
		"phone":   schema.Text().Max(40).Nullable(),
		"address": optionalString,
	},
	required: []string{"name"},
})

var Quotes = register(definition{
	res: models.Quotes,
	filters: map[string]schema.Field{
		"customer_id": schema.TextFilter(),
		"number":      schema.TextFilter(),
		"amount":      schema.NumberFilter().AllowZero(),
		"status":      schema.TextFilter(),
		"valid_until": schema.DateFilter(),
	},
	body: map[string]schema.Field{
		"customer_id": schema.UUID(),
		"number":      schema.Code(),
		"description": optionalString,
		"amount":      nonNegative,
		"status":      schema.Enum(QuoteStatuses...),
		"valid_until": schema.Date().Nullable(),
	},
	required:  []string{"customer_id", "number", "amount"},
	defaults:  map[string]any{"status": "draft"},
	immutable: []string{"number"},
})

var Orders = register(definition{
	res: models.Orders,
	filters: map[string]schema.Field{
		"quote_id":    schema.TextFilter(),
		"customer_id": schema.TextFilter(),
		"number":      schema.TextFilter(),
		"status":      schema.TextFilter(),
		"progress":    schema.NumberFilter().AllowZero(),
		"due_date":    schema.DateFilter(),
	},
	body: map[string]schema.Field{
		"quote_id":    schema.UUID(),
		"customer_id": schema.UUID(),
		"number":      schema.Code(),
		"status":      schema.Enum(OrderStatuses...),
		"progress":    percentage,
		"due_date":    schema.Date().Nullable(),
		"notes":       optionalString,
	},
	required:  []string{"quote_id", "customer_id", "number"},
	defaults:  map[string]any{"status": "pending", "progress": 0.0},
	immutable: []string{"number", "quote_id"},
})

var Jobs = register(definition{
	res: models.Jobs,
	filters: map[string]schema.Field{
		"order_id":     schema.TextFilter(),
		"worker_id":    schema.TextFilter(),
		"title":        schema.TextFilter(),
		"status":       schema.TextFilter(),
		"progress":     schema.NumberFilter().AllowZero(),
		"hours":        schema.NumberFilter().AllowZero(),
		"scheduled_at": schema.DateFilter(),
	},
	body: map[string]schema.Field{
		"order_id":     schema.UUID(),
		"worker_id":    schema.UUID().Nullable(),
		"title":        schema.Text().Max(200),
		"description":  optionalString,
		"status":       schema.Enum(JobStatuses...),
		"progress":     percentage,
		"hours":        nonNegative,
		"scheduled_at": schema.Date().Nullable(),
	},
	required:  []string{"order_id", "title"},
	defaults:  map[string]any{"status": "pending", "progress": 0.0},
	immutable: []string{"order_id"},
})

var Workers = register(definition{
	res: models.Workers,
	filters: map[string]schema.Field{
		"name":        schema.TextFilter(),
		"email":       schema.TextFilter(),
		"role":        schema.TextFilter(),
		"hourly_rate": schema.NumberFilter().AllowZero(),
		"active":      schema.Boolean(),
	},
	body: map[string]schema.Field{
		"name":        schema.Text().Max(160),
		"email":       schema.Text().Max(190).Nullable(),
		"phone":       schema.Text().Max(40).Nullable(),
		"role":        schema.Enum(WorkerRoles...),
		"hourly_rate": nonNegative,
		"active":      schema.Boolean(),
	},
	required: []string{"name", "role"},
	defaults: map[string]any{"active": true},
})

var Materials = register(definition{
	res: models.Materials,
	filters: map[string]schema.Field{
		"job_id":    schema.TextFilter(),
		"name":      schema.TextFilter(),
		"sku":       schema.TextFilter(),
		"quantity":  schema.NumberFilter().AllowZero(),
		"unit_cost": schema.NumberFilter().AllowZero(),
	},
	body: map[string]schema.Field{
		"job_id":    schema.UUID(),
		"name":      schema.Text().Max(160),
		"sku":       schema.Code().Nullable(),
		"quantity":  schema.Number(),
		"unit":      schema.Enum(MaterialUnits...),
		"unit_cost": nonNegative,
	},
	required:  []string{"job_id", "name", "quantity", "unit"},
	immutable: []string{"job_id"},
})
