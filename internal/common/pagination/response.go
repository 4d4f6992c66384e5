package pagination

import "math"

// Metadata describes the page returned by a list endpoint.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Response wraps one page of items with its metadata.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse builds a Response. A nil data slice is rendered as an empty JSON array.
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data:       data,
		Pagination: metadata,
	}
}

// CalculateOffset converts a 1-based page into a row offset.
// Pages past MaxPage are clamped to the largest representable offset.
func CalculateOffset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page > MaxPage(limit) {
		return math.MaxInt - math.MaxInt%limit
	}
	return (page - 1) * limit
}

// CalculateTotalPages returns the number of pages needed for total items.
// There is always at least one page.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NewMetadata builds Metadata for params and total.
func NewMetadata(params Params, total int64) Metadata {
	return Metadata{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: CalculateTotalPages(total, params.Limit),
	}
}
