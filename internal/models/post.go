package models

import (
	"time"

	"github.com/inkpost/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 文章表
// 约束：status = published 当且仅当 published_at 非空，数据库层同样以 CHECK 约束兜底
type Post struct {
	ID          string     `gorm:"primarykey;type:varchar(36)" json:"id"`                                                  // 主键（UUID）
	AuthorID    string     `gorm:"type:varchar(64);not null;index:idx_posts_author_status,priority:1" json:"author_id"` // 作者
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`                                                // 标题
	Content     string     `gorm:"type:text;not null" json:"content"`                                                      // 正文
	Excerpt     string     `gorm:"type:varchar(200)" json:"excerpt"`                                                       // 摘要
	Slug        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`                                     // 唯一标识
	Status      string     `gorm:"type:varchar(16);not null;default:draft;index:idx_posts_author_status,priority:2;index:idx_posts_status_created,priority:1;check:chk_posts_publish_state,(status = 'published') = (published_at IS NOT NULL)" json:"status"` // 状态
	PublishedAt *time.Time `json:"published_at"`                                                                  // 发布时间
	CreatedAt   time.Time  `gorm:"index:idx_posts_status_created,priority:2" json:"created_at"`           // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                                                    // 更新时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate 补齐主键
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublished 是否处于发布状态
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == constants.PostStatusPublished
}

// PublishStateConsistent 校验状态与发布时间是否一致
func (p *Post) PublishStateConsistent() bool {
	if p == nil {
		return false
	}
	if p.Status == constants.PostStatusPublished {
		return p.PublishedAt != nil
	}
	return p.PublishedAt == nil
}

// PublishStateColumns 状态与发布时间总是成对写入
func (p *Post) PublishStateColumns() map[string]interface{} {
	columns := map[string]interface{}{"status": p.Status, "published_at": nil}
	if p.PublishedAt != nil {
		columns["published_at"] = *p.PublishedAt
	}
	return columns
}

// ApplyStatus 设置状态并同步发布时间，发布时间只由服务端计算
func (p *Post) ApplyStatus(status string, now time.Time) {
	p.Status = status
	if status == constants.PostStatusPublished {
		publishedAt := now
		p.PublishedAt = &publishedAt
		return
	}
	p.PublishedAt = nil
}
