package main

import (
	"os"
	"strings"
)

// Messages 命令行消息
type Messages struct {
	VersionTitle string

	HelpUsage    string
	HelpCommands string
	HelpOptions  string
	HelpExamples string

	CmdSample  string
	CmdStdlib  string
	CmdCodes   string
	CmdConfig  string
	CmdVersion string
	CmdHelp    string

	OptConfig string
	OptLang   string
	OptLSP    string

	ErrUnknownCmd   string
	ErrLoadConfig   string
	ErrInitLogger   string
	ErrUnknownClass string
	ErrInference    string

	SampleSummary string
	NoDiagnostics string
}

var messagesEN = Messages{
	VersionTitle: "typeinfer %s",

	HelpUsage:    "Usage:",
	HelpCommands: "Commands:",
	HelpOptions:  "Options:",
	HelpExamples: "Examples:",

	CmdSample:  "Infer the built-in sample expressions and print their types",
	CmdStdlib:  "List built-in classes, or the members of one class",
	CmdCodes:   "List diagnostic codes",
	CmdConfig:  "Print the effective configuration",
	CmdVersion: "Show version information",
	CmdHelp:    "Show this help",

	OptConfig: "Configuration file (default: search upward for typeinfer.toml)",
	OptLang:   "Message language",
	OptLSP:    "Print diagnostics as LSP publishDiagnostics JSON",

	ErrUnknownCmd:   "Unknown command: %s",
	ErrLoadConfig:   "Failed to load configuration: %v",
	ErrInitLogger:   "Failed to initialize logging: %v",
	ErrUnknownClass: "Unknown class: %s",
	ErrInference:    "Inference failed: %v",

	SampleSummary: "%d expressions, %d errors, %d warnings",
	NoDiagnostics: "no diagnostics",
}

var messagesZH = Messages{
	VersionTitle: "typeinfer %s",

	HelpUsage:    "用法:",
	HelpCommands: "命令:",
	HelpOptions:  "选项:",
	HelpExamples: "示例:",

	CmdSample:  "推断内置示例表达式并打印类型",
	CmdStdlib:  "列出内建类，或某个类的成员",
	CmdCodes:   "列出诊断错误码",
	CmdConfig:  "打印生效的配置",
	CmdVersion: "显示版本信息",
	CmdHelp:    "显示帮助",

	OptConfig: "配置文件（默认向上查找 typeinfer.toml）",
	OptLang:   "消息语言",
	OptLSP:    "以 LSP publishDiagnostics JSON 输出诊断",

	ErrUnknownCmd:   "未知命令: %s",
	ErrLoadConfig:   "加载配置失败: %v",
	ErrInitLogger:   "初始化日志失败: %v",
	ErrUnknownClass: "未知的类: %s",
	ErrInference:    "推断失败: %v",

	SampleSummary: "%d 个表达式，%d 个错误，%d 个警告",
	NoDiagnostics: "没有诊断",
}

var msg = messagesEN

// Msg 当前语言的消息
func Msg() *Messages {
	return &msg
}

// resolveLanguage 优先级: 命令行参数 > 环境变量 TYPEINFER_LANG > 配置文件
func resolveLanguage(override, configured string) string {
	if override != "" {
		return normalizeLanguage(override)
	}
	if env := os.Getenv("TYPEINFER_LANG"); env != "" {
		return normalizeLanguage(env)
	}
	return normalizeLanguage(configured)
}

func normalizeLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		return "zh"
	default:
		return "en"
	}
}

func setMessages(lang string) {
	if lang == "zh" {
		msg = messagesZH
	} else {
		msg = messagesEN
	}
}
