// Package diag 提供推断诊断的分类、收集与导出
package diag

import "sort"

// ============================================================================
// 诊断级别
// ============================================================================

// Level 诊断级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ============================================================================
// 诊断种类
// ============================================================================

// Kind 诊断种类
type Kind int

const (
	KindGeneric            Kind = iota // 其他错误与警告
	KindUnresolvedReference            // 未解析的引用
	KindArgumentMismatch               // 唯一候选的实参不匹配
	KindAmbiguity                      // 多个候选都适用
	KindTypeMismatch                   // 期望类型与实际类型不符
	KindNullSafety                     // 空安全违规
	KindEmptyIntersection              // 相等比较的两侧类型不相交
	KindUnsupported                    // 尚未实现的语法（不作为诊断上报）
)

func (k Kind) String() string {
	switch k {
	case KindUnresolvedReference:
		return "unresolved-reference"
	case KindArgumentMismatch:
		return "argument-mismatch"
	case KindAmbiguity:
		return "ambiguity"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindNullSafety:
		return "null-safety"
	case KindEmptyIntersection:
		return "empty-intersection"
	case KindUnsupported:
		return "unsupported"
	default:
		return "generic"
	}
}

// ============================================================================
// 错误码
// ============================================================================

const (
	E0001 = "E0001" // 一般错误
	W0001 = "W0001" // 一般警告

	E0100 = "E0100" // 未解析的引用

	E0200 = "E0200" // 类型不匹配

	E0301 = "E0301" // 实参不匹配
	E0302 = "E0302" // 重载歧义

	E0400 = "E0400" // 可空接收者上的不安全访问 / 命名空间上的安全调用
	W0400 = "W0400" // 多余的安全调用

	E0500 = "E0500" // 相等比较两侧不相交

	E0900 = "E0900" // 尚未实现，仅用于给 NotImplementedError 分类，不作为诊断上报
)

// CodeInfo 错误码信息
type CodeInfo struct {
	Code     string
	Level    Level
	Kind     Kind
	Category string
}

var codes = map[string]CodeInfo{
	E0001: {E0001, LevelError, KindGeneric, "general"},
	W0001: {W0001, LevelWarning, KindGeneric, "general"},
	E0100: {E0100, LevelError, KindUnresolvedReference, "name"},
	E0200: {E0200, LevelError, KindTypeMismatch, "type"},
	E0301: {E0301, LevelError, KindArgumentMismatch, "call"},
	E0302: {E0302, LevelError, KindAmbiguity, "call"},
	E0400: {E0400, LevelError, KindNullSafety, "null-safety"},
	W0400: {W0400, LevelWarning, KindNullSafety, "null-safety"},
	E0500: {E0500, LevelError, KindEmptyIntersection, "type"},
	E0900: {E0900, LevelError, KindUnsupported, "internal"},
}

// LookupCode 获取错误码信息
func LookupCode(code string) (CodeInfo, bool) {
	info, ok := codes[code]
	return info, ok
}

// Codes 按编号排序的全部已登记错误码
func Codes() []CodeInfo {
	out := make([]CodeInfo, 0, len(codes))
	for _, info := range codes {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// levelOf 未登记的错误码按首字母判断级别
func levelOf(code string) Level {
	if info, ok := codes[code]; ok {
		return info.Level
	}
	if len(code) > 0 && code[0] == 'W' {
		return LevelWarning
	}
	return LevelError
}

func kindOf(code string) Kind {
	if info, ok := codes[code]; ok {
		return info.Kind
	}
	return KindGeneric
}
