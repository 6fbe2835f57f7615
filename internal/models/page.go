package models

// PageRequest carries pagination and optional query refinements for
// discovery operations. Skip must be >= 0 and Limit >= 1.
type PageRequest struct {
	Skip          int
	Limit         int
	RadiusKm      *float64
	SortField     string
	SortDirection string
	SearchTerm    string
}

// PageResult is a generic page of discovery results. HasMore follows the
// invariant hasMore == (skip + limit < totalCount) in both store-paginated
// and manually paginated modes.
type PageResult[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"totalCount"`
	Skip       int  `json:"skip"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"hasMore"`
}
