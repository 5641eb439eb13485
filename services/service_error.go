package services

// ServiceError carries an HTTP status code alongside a caller-facing
// message. Unexpected data-layer failures are logged server-side and
// reported as a generic 500.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// MetaData describes a paginated listing
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: calculateTotalPages(total, limit),
		HasMore:    total > int64(page*limit),
	}
}
