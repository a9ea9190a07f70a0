package constants

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// 文章字段约束
const (
	PostTitleMaxLength   = 200
	PostExcerptMaxLength = 160
	PostExcerptEllipsis  = "..."
	PostSlugBaseMaxLen   = 80
	PostSlugMaxLength    = 100
)

// 分页默认值
const (
	DefaultPage      = 1
	DefaultPageLimit = 20
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskPublicationReconcile = "publication:reconcile"
)

// Feed 缓存类型
const (
	FeedKindPublished       = "published"
	FeedKindLatestPerAuthor = "latest_per_author"
)

// IsValidPostStatus 判断文章状态是否合法
func IsValidPostStatus(status string) bool {
	switch status {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	default:
		return false
	}
}

// 请求上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyAuthorID  = "author_id"
)
