package i18n

var messagesZH = map[string]string{
	// ========== 名称与类型 ==========
	ErrUnresolvedReference: "未解析的引用: %s",
	ErrTypeMismatch:        "类型不匹配: 推断类型为 %s，但期望 %s",
	ErrWriteOnlyProperty:   "属性 '%s' 只写，不能读取",
	ErrTypeArgumentCount:   "%[2]s 需要 %[1]d 个类型实参，实际给出 %[3]d 个",
	ErrTupleTooLong:        "不支持超过 %d 个元素的元组",
	ErrPropertyNeedsType:   "属性必须有类型注解或初始化表达式",
	ErrParameterNeedsType:  "值参数必须有类型注解",

	// ========== 重载 ==========
	ErrCannotFindOverload:     "找不到与这些实参匹配的重载",
	ErrArgumentsDoNotMatch:    "实参与 %s 不匹配",
	ErrOverloadAmbiguity:      "重载有歧义",
	ErrMethodTypeProjections:  "方法的类型实参不允许使用投影",
	ErrTooManyFunctionLiteral: "实参列表之后只允许一个函数字面量",

	// ========== 空安全 ==========
	ErrUnsafeCall:          "可空接收者（类型 %s）上只允许安全调用 (?.)",
	ErrSafeCallOnNamespace: "命名空间上不允许安全调用",
	WarnUnnecessarySafe:    "非空接收者（类型 %s）上的安全调用是多余的",
	ErrUnsafeInfixCall:     "中缀调用相当于点调用 '%s.%s(%s)'，而可空接收者 '%s' 上不允许这样调用，请改用 '?.'",

	// ========== 运算符 ==========
	ErrEqualityNotApplicable: "运算符 %s 不能用于 %s 和 %s",
	ErrNoEqualsMethod:        "没有可用的 'equals(Any?) : Boolean' 方法",
	ErrMustReturnBoolean:     "'%s' 必须返回 Boolean，实际返回 %s",
	ErrCompareToReturn:       "compareTo 必须返回 Int，实际返回 %s",
	ErrIncDecReturn:          "%s 必须返回 %s，实际返回 %s",
	ErrUnknownUnary:          "未知的一元运算",
	ErrUnknownOperation:      "未知的运算",
	ErrUnsupportedBinaryOp:   "不支持的二元运算",
	WarnUselessElvis:         "Elvis 运算符 (?:) 总是返回左侧的非空类型 %s 的操作数",

	// ========== 语句与声明 ==========
	ErrAssignmentNotExpression: "赋值不是表达式，此处只允许表达式",
	ErrDeclarationNotAllowed:   "此处不允许声明",
	ErrUnsupportedInBlock:      "代码块中不支持的元素",
	ErrLocalGetter:             "局部变量不允许有 getter",
	ErrLocalSetter:             "局部变量不允许有 setter",

	// ========== 控制流 ==========
	ErrConditionNotBoolean: "条件必须是 Boolean 类型，实际为 %s",
	ErrExpectingIterable:   "需要 Iterable，实际为 %s",
	ErrLoopParameterType:   "循环遍历的值类型为 %s，但参数声明为 %s",
	ErrMustReturnValue:     "该函数必须返回 %s 类型的值",

	// ========== 构造与 this ==========
	ErrConstructorProjections: "构造函数的类型实参不允许使用投影",
	ErrNotAClass:              "只能调用普通类的构造函数",
	ErrThisNotDefined:         "此处没有定义 'this'",
	ErrAmbiguousLabel:         "标签有歧义",
	ErrNotASuperclass:         "不是超类",
	ErrUnsupportedSelector:    "不支持的选择器元素类型: %s",

	// ========== 内部 ==========
	ErrNotImplemented: "尚未实现: %s",
}
