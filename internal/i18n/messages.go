package i18n

// 消息 ID
const (
	// ========== 名称与类型 ==========
	ErrUnresolvedReference = "infer.unresolved_reference"
	ErrTypeMismatch        = "infer.type_mismatch"
	ErrWriteOnlyProperty   = "infer.write_only_property"
	ErrTypeArgumentCount   = "infer.type_argument_count"
	ErrTupleTooLong        = "infer.tuple_too_long"
	ErrPropertyNeedsType   = "infer.property_needs_type"
	ErrParameterNeedsType  = "infer.parameter_needs_type"

	// ========== 重载 ==========
	ErrCannotFindOverload     = "infer.cannot_find_overload"
	ErrArgumentsDoNotMatch    = "infer.arguments_do_not_match"
	ErrOverloadAmbiguity      = "infer.overload_ambiguity"
	ErrMethodTypeProjections  = "infer.method_type_projections"
	ErrTooManyFunctionLiteral = "infer.too_many_function_literals"

	// ========== 空安全 ==========
	ErrUnsafeCall          = "infer.unsafe_call"
	ErrSafeCallOnNamespace = "infer.safe_call_on_namespace"
	WarnUnnecessarySafe    = "infer.unnecessary_safe_call"
	ErrUnsafeInfixCall     = "infer.unsafe_infix_call"

	// ========== 运算符 ==========
	ErrEqualityNotApplicable = "infer.equality_not_applicable"
	ErrNoEqualsMethod        = "infer.no_equals_method"
	ErrMustReturnBoolean     = "infer.must_return_boolean"
	ErrCompareToReturn       = "infer.compare_to_return"
	ErrIncDecReturn          = "infer.inc_dec_return"
	ErrUnknownUnary          = "infer.unknown_unary"
	ErrUnknownOperation      = "infer.unknown_operation"
	ErrUnsupportedBinaryOp   = "infer.unsupported_binary_operation"
	WarnUselessElvis         = "infer.useless_elvis"

	// ========== 语句与声明 ==========
	ErrAssignmentNotExpression = "infer.assignment_not_expression"
	ErrDeclarationNotAllowed   = "infer.declaration_not_allowed"
	ErrUnsupportedInBlock      = "infer.unsupported_in_block"
	ErrLocalGetter             = "infer.local_getter"
	ErrLocalSetter             = "infer.local_setter"

	// ========== 控制流 ==========
	ErrConditionNotBoolean = "infer.condition_not_boolean"
	ErrExpectingIterable   = "infer.expecting_iterable"
	ErrLoopParameterType   = "infer.loop_parameter_type"
	ErrMustReturnValue     = "infer.must_return_value"

	// ========== 构造与 this ==========
	ErrConstructorProjections = "infer.constructor_projections"
	ErrNotAClass              = "infer.not_a_class"
	ErrThisNotDefined         = "infer.this_not_defined"
	ErrAmbiguousLabel         = "infer.ambiguous_label"
	ErrNotASuperclass         = "infer.not_a_superclass"
	ErrUnsupportedSelector    = "infer.unsupported_selector"

	// ========== 内部 ==========
	ErrNotImplemented = "infer.not_implemented"
)
