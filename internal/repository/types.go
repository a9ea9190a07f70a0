package repository

// PostListFilter 查询作者文章列表的过滤条件，Status 为空表示全部状态
type PostListFilter struct {
	Page     int
	PageSize int
	AuthorID string
	Status   string
}
