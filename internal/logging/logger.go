// Package logging 构建推断引擎使用的 zap 日志
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/typeinfer/internal/config"
)

// DebugEnv 设置为 1/true/on 时强制输出调试日志
const DebugEnv = "TYPEINFER_DEBUG"

// Logger 日志记录器
type Logger struct {
	*zap.Logger
	file *os.File // 日志文件句柄
}

// New 按配置创建日志记录器
// 配置了文件时日志写入文件，Error 及以上级别同时输出到 stderr
func New(cfg config.LogConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if DebugEnabled() {
		level = zapcore.DebugLevel
	}

	logger := &Logger{}
	stderr := zapcore.Lock(os.Stderr)

	var core zapcore.Core
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		logger.file = f
		core = zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(f), level),
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), stderr, zapcore.ErrorLevel),
		)
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), stderr, level)
	}

	logger.Logger = zap.New(core)
	return logger, nil
}

// ParseLevel 解析日志级别，空字符串视为 info
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// DebugEnabled 检查环境变量
func DebugEnabled() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "on":
		return true
	}
	return false
}

// Close 刷新并关闭日志文件
func (l *Logger) Close() error {
	// stderr 上的 Sync 在部分平台会失败，忽略
	_ = l.Logger.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
