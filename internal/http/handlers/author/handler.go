package author

import (
	"github.com/inkpost/internal/provider"
)

// Handler 作者端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建作者端接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) defaultLimit() int {
	if h.Config == nil {
		return 0
	}
	return h.Config.Feed.DefaultLimit
}
