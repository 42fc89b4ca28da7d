package models

// PageInfo is the pagination block of a raw dataset response.
type PageInfo struct {
	CurrentPage  uint64 `json:"current_page"`
	PerPage      uint64 `json:"per_page"`
	TotalRecords uint64 `json:"total_records"`
	TotalPages   uint64 `json:"total_pages"`
}

// QueryResult is one page of rows with its page metadata.
type QueryResult struct {
	Data       []Row    `json:"data"`
	Pagination PageInfo `json:"pagination"`
}
