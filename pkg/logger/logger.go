// Package logger 根据配置构建 slog.Logger
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options 日志配置
type Options struct {
	Level  string // debug | info | warn | error
	Format string // console | json
	Output string // stdout | stderr | 文件路径
}

// New 构建logger，返回的closer用于关闭日志文件
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w, closer, err := output(opts.Output)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(handler(w, opts.Format, level)), closer, nil
}

func handler(w io.Writer, format string, level slog.Level) slog.Handler {
	ho := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, ho)
	}
	return slog.NewTextHandler(w, ho)
}

// ParseLevel 空串视为info
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("未知日志级别: %q", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func output(target string) (io.Writer, io.Closer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	default:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, f, nil
	}
}
