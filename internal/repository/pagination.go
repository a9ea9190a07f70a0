package repository

import (
	"math"

	"gorm.io/gorm"
)

const defaultPostOrder = "created_at DESC, id DESC"

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset, ok := pageOffset(page, pageSize)
	if !ok {
		// 偏移量超出 int 范围，必然越过最后一页
		return query.Where("1 = 0")
	}
	return query.Limit(pageSize).Offset(offset)
}

// pageOffset 计算偏移量，溢出时返回 false
func pageOffset(page, pageSize int) (int, bool) {
	if page < 1 || pageSize < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}
