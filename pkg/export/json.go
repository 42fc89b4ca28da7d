package export

import "github.com/xfinder/reporting-api/internal/models"

// Collection is the {data,total} envelope used by exports and report lists.
type Collection struct {
	Success bool         `json:"success"`
	Data    []models.Row `json:"data"`
	Total   int          `json:"total"`
}

// NewCollection wraps rows without reshaping them.
func NewCollection(rows []models.Row) Collection {
	if rows == nil {
		rows = []models.Row{}
	}
	return Collection{Success: true, Data: rows, Total: len(rows)}
}

// NewPage wraps a query result, normalizing a nil page to an empty list.
func NewPage(result *models.QueryResult) models.QueryResult {
	out := *result
	if out.Data == nil {
		out.Data = []models.Row{}
	}
	return out
}
