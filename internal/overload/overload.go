// Package overload 在同名函数候选中选择被调用的那一个
package overload

import (
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/scope"
	"github.com/tangzhangming/typeinfer/internal/types"
)

// ============================================================================
// 解析结果
// ============================================================================

// Code 重载解析的结果码
type Code int

const (
	Success                         Code = iota // 唯一确定
	SingleCandidateArgumentMismatch             // 只有一个候选但实参不匹配
	Ambiguity                                   // 多个候选同样适用
	NameNotFound                                // 没有可用的候选
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case SingleCandidateArgumentMismatch:
		return "single-candidate-argument-mismatch"
	case Ambiguity:
		return "ambiguity"
	default:
		return "name-not-found"
	}
}

// Result 重载解析结果
//
// Success 与 SingleCandidateArgumentMismatch 时 Function 是选中的（或唯一的）候选，
// 已按类型实参替换。
type Result struct {
	Code       Code
	Function   *types.FunctionDescriptor
	Candidates []*types.FunctionDescriptor
}

// IsSuccess 是否解析成功
func (r Result) IsSuccess() bool { return r.Code == Success }

// IsSingleCandidate 是否确定到了唯一候选（无论实参是否匹配）
func (r Result) IsSingleCandidate() bool {
	return r.Code == Success || r.Code == SingleCandidateArgumentMismatch
}

// ReturnType 成功时的返回类型，否则为 nil
func (r Result) ReturnType() *types.Type {
	if r.Code != Success {
		return nil
	}
	return r.Function.ReturnType
}

// ============================================================================
// 重载域
// ============================================================================

// Domain 一组可供调用的候选
type Domain interface {
	// ResolvePositional 按位置实参解析
	ResolvePositional(typeArgs []*types.Type, argTypes []*types.Type) Result
	// ResolveNamed 按命名实参解析（尚未实现）
	ResolveNamed(typeArgs []*types.Type, positional []*types.Type, named map[string]*types.Type) (Result, error)
	// IsEmpty 是否没有任何候选
	IsEmpty() bool
}

// Resolver 默认的重载解析服务
type Resolver struct {
	tc *types.Checker
}

// NewResolver 创建重载解析服务
func NewResolver(tc *types.Checker) *Resolver {
	return &Resolver{tc: tc}
}

// Domain 构建名为 name 的调用域
//
// receiver 为 nil 时在 sc 中按层级查找：普通函数，以及接收者能接受当前 this 的扩展函数。
// 否则在 receiver 的成员中查找，找不到时查找 sc 中适用于 receiver 的扩展函数。
func (r *Resolver) Domain(receiver *types.Type, sc scope.Scope, name string) Domain {
	if receiver != nil {
		return r.FunctionsDomain(scope.WithReceiver(r.tc, sc, receiver).Functions(name))
	}
	group := sc.Functions(name)
	this := sc.ThisType()
	var candidates []*types.FunctionDescriptor
	for _, fd := range group.Functions {
		if fd.Receiver == nil {
			candidates = append(candidates, fd)
			continue
		}
		if this != nil && !this.IsNothing() && r.tc.IsSubtypeOf(this, fd.Receiver) {
			candidates = append(candidates, fd)
		}
	}
	return r.FunctionsDomain(&types.FunctionGroup{Name: name, Functions: candidates})
}

// FunctionsDomain 以给定函数组为候选的调用域（构造函数组等）
func (r *Resolver) FunctionsDomain(group *types.FunctionGroup) Domain {
	return &groupDomain{tc: r.tc, group: group}
}

// ----------------------------------------------------------------------------
// groupDomain
// ----------------------------------------------------------------------------

type groupDomain struct {
	tc    *types.Checker
	group *types.FunctionGroup
}

func (d *groupDomain) IsEmpty() bool { return d.group.IsEmpty() }

func (d *groupDomain) ResolveNamed(typeArgs []*types.Type, positional []*types.Type, named map[string]*types.Type) (Result, error) {
	return Result{Code: NameNotFound}, diag.NotImplemented(nil, "named arguments")
}

func (d *groupDomain) ResolvePositional(typeArgs []*types.Type, argTypes []*types.Type) Result {
	if d.group.IsEmpty() {
		return Result{Code: NameNotFound}
	}

	var instantiated, applicable []*types.FunctionDescriptor
	for _, fd := range d.group.Functions {
		inst := d.instantiate(fd, typeArgs)
		if inst == nil {
			continue
		}
		instantiated = append(instantiated, inst)
		if d.accepts(inst, argTypes) {
			applicable = append(applicable, inst)
		}
	}

	switch len(applicable) {
	case 0:
		if len(d.group.Functions) == 1 && len(instantiated) == 1 {
			return Result{Code: SingleCandidateArgumentMismatch, Function: instantiated[0], Candidates: instantiated}
		}
		return Result{Code: NameNotFound, Candidates: instantiated}
	case 1:
		return Result{Code: Success, Function: applicable[0], Candidates: applicable}
	}

	if best := d.mostSpecific(applicable); best != nil {
		return Result{Code: Success, Function: best, Candidates: applicable}
	}
	return Result{Code: Ambiguity, Candidates: applicable}
}

// instantiate 代入显式类型实参；没有给出时类型参数取其上界。数量不符时返回 nil
func (d *groupDomain) instantiate(fd *types.FunctionDescriptor, typeArgs []*types.Type) *types.FunctionDescriptor {
	params := fd.TypeParameters
	if len(params) == 0 {
		if len(typeArgs) != 0 {
			return nil
		}
		return fd
	}
	args := make([]types.Projection, len(params))
	switch {
	case len(typeArgs) == 0:
		for i, p := range params {
			bound := p.UpperBound
			if bound == nil {
				bound = types.Standard().DefaultBound()
			}
			args[i] = types.InvariantOf(bound)
		}
	case len(typeArgs) == len(params):
		for i, t := range typeArgs {
			args[i] = types.InvariantOf(t)
		}
	default:
		return nil
	}
	return fd.Substitute(types.NewSubstitution(params, args))
}

func (d *groupDomain) accepts(fd *types.FunctionDescriptor, argTypes []*types.Type) bool {
	if len(fd.Params) != len(argTypes) {
		return false
	}
	for i, p := range fd.Params {
		if !d.tc.IsSubtypeOf(argTypes[i], p.Type) {
			return false
		}
	}
	return true
}

// mostSpecific 返回参数类型逐个不宽于其他所有候选的那一个，不唯一时返回 nil
func (d *groupDomain) mostSpecific(candidates []*types.FunctionDescriptor) *types.FunctionDescriptor {
	var best *types.FunctionDescriptor
	for _, f := range candidates {
		ok := true
		for _, g := range candidates {
			if f == g {
				continue
			}
			if !d.atLeastAsSpecific(f, g) || d.atLeastAsSpecific(g, f) {
				ok = false
				break
			}
		}
		if ok {
			if best != nil {
				return nil
			}
			best = f
		}
	}
	return best
}

func (d *groupDomain) atLeastAsSpecific(f, g *types.FunctionDescriptor) bool {
	for i := range f.Params {
		if !d.tc.IsSubtypeOf(f.Params[i].Type, g.Params[i].Type) {
			return false
		}
	}
	return true
}
