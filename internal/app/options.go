package app

import (
	"fmt"
	"os"
	"time"

	"github.com/inkpost/internal/config"
)

// 运行模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Signals []os.Signal
	// ShutdownTimeout 为 0 时取 server.shutdown_timeout_seconds
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数并校验运行模式
func normalizeOptions(opts Options) (Options, error) {
	if opts.ShutdownTimeout <= 0 && opts.Config != nil {
		opts.ShutdownTimeout = seconds(opts.Config.Server.ShutdownTimeoutSeconds)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	switch opts.Mode {
	case "":
		opts.Mode = ModeAll
	case ModeAll, ModeAPI, ModeWorker:
	default:
		return opts, fmt.Errorf("unknown run mode %q (want all, api or worker)", opts.Mode)
	}
	return opts, nil
}
