package types

// PageRequest selects one page of a repository listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset converts the 1-based page number into a row offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageMeta describes the full result set a page was cut from.
type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPageMeta computes totalPages = ceil(total/pageSize) and the
// navigation flags.
func NewPageMeta(total, page, pageSize int) PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PageMeta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
