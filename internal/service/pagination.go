package service

import "math"

// Pagination 分页计算结果
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	Offset     int   `json:"offset"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Paginate 计算偏移量与翻页标记，page/limit 必须为正数
// 偏移量无法用 int 表示的页码返回 ErrPageTooLarge
func Paginate(page, limit int, total int64) (Pagination, error) {
	if page < 1 {
		return Pagination{}, ErrInvalidPage
	}
	if limit < 1 {
		return Pagination{}, ErrInvalidLimit
	}
	if page-1 > math.MaxInt/limit {
		return Pagination{}, ErrPageTooLarge
	}
	if total < 0 {
		total = 0
	}
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		Offset:     (page - 1) * limit,
		TotalPages: int(totalPages),
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}, nil
}
