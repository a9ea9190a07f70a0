package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
)

// HTTPService 对外提供文章接口的 HTTP 服务
type HTTPService struct {
	server    *http.Server
	readyOnce sync.Once
	ready     chan struct{}

	mu   sync.RWMutex
	addr string
}

// NewHTTPService 按服务器配置创建 HTTP 服务，超时为 0 表示不限制
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: seconds(cfg.ReadHeaderTimeoutSeconds),
			ReadTimeout:       seconds(cfg.ReadTimeoutSeconds),
			WriteTimeout:      seconds(cfg.WriteTimeoutSeconds),
			IdleTimeout:       seconds(cfg.IdleTimeoutSeconds),
		},
		ready: make(chan struct{}),
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Start 监听端口并阻塞到服务关闭
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	logger.SW("service", s.Name()).Infow("http_listening",
		"addr", s.Addr(),
		"read_header_timeout", s.server.ReadHeaderTimeout,
		"write_timeout", s.server.WriteTimeout,
	)
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Ready 监听成功后关闭
func (s *HTTPService) Ready() <-chan struct{} {
	return s.ready
}

// Addr 实际监听地址，端口为 0 时可取到系统分配的端口
func (s *HTTPService) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Stop 停止服务，等待进行中的请求完成
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}
