package request

import "watchmate/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"page_size" validate:"min=1"`
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.PerPage)
}

// Limit clamps the page size to [1, max].
func (p PaginatedRequest) Limit(max int) int {
	if p.PerPage < 1 {
		return 1
	}
	if max > 0 && p.PerPage > max {
		return max
	}
	return p.PerPage
}
