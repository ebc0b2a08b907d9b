package i18n

var messagesEN = map[string]string{
	// ========== Names & types ==========
	ErrUnresolvedReference: "Unresolved reference: %s",
	ErrTypeMismatch:        "Type mismatch: inferred type is %s but %s was expected",
	ErrWriteOnlyProperty:   "Property '%s' is write-only and cannot be read",
	ErrTypeArgumentCount:   "%d type arguments expected for %s, but %d were given",
	ErrTupleTooLong:        "Tuples of more than %d elements are not supported",
	ErrPropertyNeedsType:   "This property must either have a type annotation or be initialized",
	ErrParameterNeedsType:  "A type annotation is required on a value parameter",

	// ========== Overloads ==========
	ErrCannotFindOverload:     "Cannot find an overload for these arguments",
	ErrArgumentsDoNotMatch:    "Arguments do not match %s",
	ErrOverloadAmbiguity:      "Overload ambiguity",
	ErrMethodTypeProjections:  "Projections are not allowed on type parameters for methods",
	ErrTooManyFunctionLiteral: "Only one function literal is allowed after the argument list",

	// ========== Null safety ==========
	ErrUnsafeCall:          "Only safe calls (?.) are allowed on a nullable receiver of type %s",
	ErrSafeCallOnNamespace: "Safe calls are not allowed on namespaces",
	WarnUnnecessarySafe:    "Unnecessary safe call on a non-null receiver of type %s",
	ErrUnsafeInfixCall:     "Infix call corresponds to a dot-qualified call '%s.%s(%s)' which is not allowed on a nullable receiver '%s'. Use '?.'-qualified call instead",

	// ========== Operators ==========
	ErrEqualityNotApplicable: "Operator %s cannot be applied to %s and %s",
	ErrNoEqualsMethod:        "No method 'equals(Any?) : Boolean' available",
	ErrMustReturnBoolean:     "'%s' must return Boolean but returns %s",
	ErrCompareToReturn:       "compareTo must return Int, but returns %s",
	ErrIncDecReturn:          "%s must return %s but returns %s",
	ErrUnknownUnary:          "Unknown unary operation",
	ErrUnknownOperation:      "Unknown operation",
	ErrUnsupportedBinaryOp:   "Unsupported binary operation",
	WarnUselessElvis:         "Elvis operator (?:) always returns the left operand of non-nullable type %s",

	// ========== Statements & declarations ==========
	ErrAssignmentNotExpression: "Assignments are not expressions, and only expressions are allowed in this context",
	ErrDeclarationNotAllowed:   "Declarations are not allowed in this position",
	ErrUnsupportedInBlock:      "Unsupported element in a block",
	ErrLocalGetter:             "Local variables are not allowed to have getters",
	ErrLocalSetter:             "Local variables are not allowed to have setters",

	// ========== Control flow ==========
	ErrConditionNotBoolean: "Condition must be of type Boolean, but was of type %s",
	ErrExpectingIterable:   "Expecting an Iterable, but found %s",
	ErrLoopParameterType:   "The loop iterates over values of type %s but the parameter is declared to be %s",
	ErrMustReturnValue:     "This function must return a value of type %s",

	// ========== Constructors & this ==========
	ErrConstructorProjections: "Projections are not allowed in constructor type arguments",
	ErrNotAClass:              "Calling a constructor is only supported for ordinary classes",
	ErrThisNotDefined:         "'this' is not defined in this context",
	ErrAmbiguousLabel:         "Ambiguous label",
	ErrNotASuperclass:         "Not a superclass",
	ErrUnsupportedSelector:    "Unsupported selector element type: %s",

	// ========== Internal ==========
	ErrNotImplemented: "Not implemented: %s",
}
