package domain

// Record is one row as returned to clients: column (or association) name to value.
type Record map[string]any

// Page is one window of a list query plus the total number of matching rows.
type Page struct {
	Rows   []Record `json:"data"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	// Query echoes the normalized filter and options the page was produced from.
	Query map[string]any `json:"query,omitempty"`
}
