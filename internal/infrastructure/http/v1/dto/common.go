// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse carries the identifier of a created record.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic confirmation body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
