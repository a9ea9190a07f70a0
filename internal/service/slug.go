package service

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/inkpost/internal/constants"
)

const slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// SlugGenerator 由标题生成 URL 安全的 slug，后缀为时间戳与随机串
type SlugGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	rand *rand.Rand
}

// NewSlugGenerator 创建 slug 生成器；src 为空时使用全局随机源
func NewSlugGenerator(now func() time.Time, src rand.Source) *SlugGenerator {
	if now == nil {
		now = time.Now
	}
	g := &SlugGenerator{now: now}
	if src != nil {
		g.rand = rand.New(src)
	}
	return g
}

// Generate 生成 slug，如 my-post-title-m8x2kq1a-a1b2
func (g *SlugGenerator) Generate(title string) string {
	suffix := strconv.FormatInt(g.now().UnixMilli(), 36) + "-" + g.randomSuffix(4)
	base := slugBase(title)
	if base == "" {
		return truncateSlug(suffix, constants.PostSlugMaxLength)
	}
	return truncateSlug(base+"-"+suffix, constants.PostSlugMaxLength)
}

func (g *SlugGenerator) randomSuffix(n int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		var idx int
		if g.rand != nil {
			idx = g.rand.IntN(len(slugAlphabet))
		} else {
			idx = rand.IntN(len(slugAlphabet))
		}
		b.WriteByte(slugAlphabet[idx])
	}
	return b.String()
}

// slugBase 小写化并将非字母数字串替换为单个连字符
func slugBase(title string) string {
	base := slugInvalidChars.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")
	base = truncateSlug(base, constants.PostSlugBaseMaxLen)
	return strings.TrimRight(base, "-")
}

// truncateSlug slug 仅包含 ASCII，按字节截断即按字符截断
func truncateSlug(slug string, max int) string {
	if len(slug) <= max {
		return slug
	}
	return slug[:max]
}
