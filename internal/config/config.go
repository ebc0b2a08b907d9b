// Package config 读取推断引擎的 typeinfer.toml 配置
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/infer"
)

// 常量定义
const (
	ConfigFileName = "typeinfer.toml" // 配置文件名
)

// Config 引擎配置
type Config struct {
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Inference   InferenceConfig   `toml:"inference"`
	Log         LogConfig         `toml:"log"`
}

// DiagnosticsConfig 诊断输出
type DiagnosticsConfig struct {
	// Language 消息语言（en / zh）
	Language string `toml:"language"`

	// WarningsAsErrors 警告也使 Collector.Err 失败
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

// InferenceConfig 推断行为
type InferenceConfig struct {
	WarnUnnecessarySafeCall bool `toml:"warn_unnecessary_safe_call"`
	WarnUselessElvis        bool `toml:"warn_useless_elvis"`
}

// LogConfig 日志
type LogConfig struct {
	// Level 日志级别（debug / info / warn / error）
	Level string `toml:"level"`

	// File 日志文件路径，为空时输出到 stderr
	File string `toml:"file"`
}

// Default 默认配置
func Default() *Config {
	opts := infer.DefaultOptions()
	return &Config{
		Diagnostics: DiagnosticsConfig{Language: "en"},
		Inference: InferenceConfig{
			WarnUnnecessarySafeCall: opts.WarnUnnecessarySafeCall,
			WarnUselessElvis:        opts.WarnUselessElvis,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig 从文件加载配置，文件中没有出现的键保持默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 TOML 内容
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load 从 startPath 向上查找配置文件并加载；找不到时返回默认配置
func Load(startPath string) (*Config, error) {
	path := FindConfigFile(startPath)
	if path == "" {
		return Default(), nil
	}
	return LoadConfig(path)
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Diagnostics.Language {
	case "en", "zh":
	default:
		return fmt.Errorf("unsupported language %q", c.Diagnostics.Language)
	}
	return nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EngineOptions 推断引擎选项
func (c *Config) EngineOptions() infer.Options {
	return infer.Options{
		WarnUnnecessarySafeCall: c.Inference.WarnUnnecessarySafeCall,
		WarnUselessElvis:        c.Inference.WarnUselessElvis,
	}
}

// Apply 设置消息语言与收集器的严格程度
func (c *Config) Apply(collector *diag.Collector) {
	i18n.SetLanguageFromString(c.Diagnostics.Language)
	if collector != nil {
		collector.SetWarningsAsErrors(c.Diagnostics.WarningsAsErrors)
	}
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	// 如果是文件，从其所在目录开始
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}
