package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	Create(post *models.Post) error
	UpdateFields(id string, fields map[string]interface{}) error
	GetByID(id string) (*models.Post, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Post, error)
	ListByAuthorAndStatus(authorID, status string) ([]models.Post, error)
	ListByAuthor(filter PostListFilter) ([]models.Post, int64, error)
	ListPublished(page, pageSize int) ([]models.Post, int64, error)
	ListLatestPerAuthor(page, pageSize int) ([]models.Post, int64, error)
	ArchivePublishedByAuthor(authorID, keepID string, now time.Time) ([]string, error)
	ListAuthorsWithMultiplePublished(limit int) ([]string, error)
	WithTx(tx *gorm.DB) PostRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	return classifyWriteError(r.db.Create(post).Error)
}

// UpdateFields 只写入给定列，其余列保留数据库当前值
func (r *GormPostRepository) UpdateFields(id string, fields map[string]interface{}) error {
	if strings.TrimSpace(id) == "" || len(fields) == 0 {
		return nil
	}
	return classifyWriteError(r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error)
}

// GetByID 根据 ID 获取文章
func (r *GormPostRepository) GetByID(id string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var post models.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug 根据 slug 获取文章
func (r *GormPostRepository) GetBySlug(slug string, onlyPublished bool) (*models.Post, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.PostStatusPublished)
	}

	var post models.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListByAuthorAndStatus 按作者与状态查询，新的在前
func (r *GormPostRepository) ListByAuthorAndStatus(authorID, status string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("author_id = ? AND status = ?", authorID, status).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor 作者的全部文章（含归档），新的在前
func (r *GormPostRepository) ListByAuthor(filter PostListFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{}).Where("author_id = ?", filter.AuthorID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order(defaultPostOrder).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPublished 全部已发布文章，按 created_at 倒序
func (r *GormPostRepository) ListPublished(page, pageSize int) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{}).Where("status = ?", constants.PostStatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Order(defaultPostOrder).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListLatestPerAuthor 每位作者只取最新一篇已发布文章，total 为去重后的作者数
func (r *GormPostRepository) ListLatestPerAuthor(page, pageSize int) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{}).Where("id IN (?)", r.latestPublishedPerAuthorIDs())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Order(defaultPostOrder).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// latestPublishedPerAuthorIDs 按作者分区取 created_at 最新的一行
func (r *GormPostRepository) latestPublishedPerAuthorIDs() *gorm.DB {
	ranked := r.db.Model(&models.Post{}).
		Select("id, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("status = ?", constants.PostStatusPublished)
	return r.db.Table("(?) AS ranked", ranked).Select("id").Where("rn = ?", 1)
}

// ArchivePublishedByAuthor 归档作者除 keepID 外的全部已发布文章，返回被归档的 ID
func (r *GormPostRepository) ArchivePublishedByAuthor(authorID, keepID string, now time.Time) ([]string, error) {
	var ids []string
	query := r.db.Model(&models.Post{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("author_id = ? AND status = ?", authorID, constants.PostStatusPublished)
	if keepID != "" {
		query = query.Where("id <> ?", keepID)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err := r.db.Model(&models.Post{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":       constants.PostStatusArchived,
			"published_at": nil,
			"updated_at":   now,
		}).Error
	if err != nil {
		return nil, classifyWriteError(err)
	}
	return ids, nil
}

// ListAuthorsWithMultiplePublished 查找同时存在多篇已发布文章的作者
func (r *GormPostRepository) ListAuthorsWithMultiplePublished(limit int) ([]string, error) {
	var authorIDs []string
	query := r.db.Model(&models.Post{}).
		Where("status = ?", constants.PostStatusPublished).
		Group("author_id").
		Having("COUNT(*) > ?", 1).
		Order("author_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("author_id", &authorIDs).Error; err != nil {
		return nil, err
	}
	return authorIDs, nil
}
