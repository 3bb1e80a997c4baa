package models

// Filter is a single column comparison extracted from a table query.
// Value holds a float64, int or string depending on how the literal parsed.
type Filter struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// TableParams describes what slice of tabular data the user asked for.
type TableParams struct {
	ExtractionType string   `json:"extraction_type"`
	NResults       int      `json:"n_results"`
	SortColumn     string   `json:"sort_column,omitempty"`
	Ascending      bool     `json:"ascending"`
	Filters        []Filter `json:"filters,omitempty"`
}
