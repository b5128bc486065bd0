package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// Paginate computes the envelope for a one-based page over total items
// and returns the half-open slice bounds for the page window.
func Paginate(page, pageSize, total int) (Pagination, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	from := (page - 1) * pageSize
	if from > total {
		from = total
	}
	to := from + pageSize
	if to > total {
		to = total
	}
	p := Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64((total + pageSize - 1) / pageSize),
		TotalItems: int64(total),
		HasMore:    to < total,
		From:       from + 1,
		To:         to,
	}
	if from == to {
		p.From = from
	}
	return p, from, to
}
