package fakevalues

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache shares compiled programs through cache.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions by name and through
// call(name, ...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// ExprWithMaxNodes rejects expressions whose syntax tree exceeds n nodes.
// Zero keeps the expr default.
func ExprWithMaxNodes(n uint) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.maxNodes = n
	}
}

// exprEvaluator is the default engine. Data keys are untyped at compile
// time, so one program serves every locale.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	maxNodes uint
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate compiles expression, or reuses the cached program, and runs it
// with every ctx.Data key bound as a top-level variable.
func (e *exprEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx.withDefaults(), expression, program)
}

// Compile returns a rule bound to the compiled program.
func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return exprRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *exprEvaluator) run(ctx EvalContext, expression string, program *exprvm.Program) (any, error) {
	env := ctx.bindings()
	if e.registry != nil {
		env["call"] = e.registry.Call
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, runError("expr", expression, ctx.Locale, err)
	}
	return result, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if expression == "" {
		return nil, compileError("expr", expression, ErrEmptyExpression)
	}
	key := "expr:" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}

	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if e.maxNodes > 0 {
		options = append(options, exprlang.MaxNodes(e.maxNodes))
	}
	for _, name := range e.registry.Names() {
		options = append(options, exprlang.Function(name, e.bound(name)))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, compileError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *exprEvaluator) bound(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}

type exprRule struct {
	evaluator  *exprEvaluator
	expression string
	program    *exprvm.Program
}

func (r exprRule) Evaluate(ctx EvalContext) (any, error) {
	return r.evaluator.run(ctx.withDefaults(), r.expression, r.program)
}
