package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	feedVersionKey      = "feed:version"
	defaultFeedCacheTTL = 30 * time.Second
)

// FeedCache 信息流分页缓存
// 写操作递增版本号，旧版本的分页键自然过期，无需逐个删除
type FeedCache struct {
	ttl time.Duration
}

// NewFeedCache 创建信息流缓存
func NewFeedCache(ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = defaultFeedCacheTTL
	}
	return &FeedCache{ttl: ttl}
}

// Load 读取当前版本下的分页缓存，返回读取时的版本号供回写使用
func (c *FeedCache) Load(ctx context.Context, kind string, page, limit int, dest interface{}) (int64, bool, error) {
	if c == nil || !Enabled() {
		return 0, false, nil
	}
	version, err := GetInt64(ctx, feedVersionKey)
	if err != nil {
		return 0, false, err
	}
	hit, err := GetJSON(ctx, feedPageKey(kind, version, page, limit), dest)
	if err != nil {
		return version, false, err
	}
	return version, hit, nil
}

// Store 按读取时的版本号写入分页缓存
func (c *FeedCache) Store(ctx context.Context, kind string, page, limit int, version int64, value interface{}) error {
	if c == nil || !Enabled() {
		return nil
	}
	return SetJSON(ctx, feedPageKey(kind, version, page, limit), value, c.ttl)
}

// Invalidate 使全部信息流缓存失效
func (c *FeedCache) Invalidate(ctx context.Context) error {
	if c == nil || !Enabled() {
		return nil
	}
	_, err := Incr(ctx, feedVersionKey)
	return err
}

func feedPageKey(kind string, version int64, page, limit int) string {
	return fmt.Sprintf("feed:%s:v%d:p%d:l%d", kind, version, page, limit)
}
