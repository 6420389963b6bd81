package fakevalues

import (
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache shares compiled programs through cache.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions by name and through
// call(name, ...). Both accept up to four arguments.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// CELWithCostLimit aborts evaluations whose runtime cost exceeds limit.
// Zero disables the limit.
func CELWithCostLimit(limit uint64) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.costLimit = limit
	}
}

// celEvaluator declares every data key as a dyn variable, so a program is
// compiled once per distinct key set.
type celEvaluator struct {
	cache     ProgramCache
	registry  *FunctionRegistry
	costLimit uint64
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression, KeysOf(ctx.Data))
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(ctx.bindings())
	if err != nil {
		return nil, runError("cel", expression, ctx.Locale, err)
	}
	if out == types.NullValue {
		return nil, nil
	}
	return out.Value(), nil
}

// Compile checks expression against an environment without data keys and
// returns a rule that compiles per data shape on first use.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, compileError("cel", expression, ErrEmptyExpression)
	}
	if _, err := e.parse(expression); err != nil {
		return nil, err
	}
	return celRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, keys []string) (celgo.Program, error) {
	if expression == "" {
		return nil, compileError("cel", expression, ErrEmptyExpression)
	}
	cacheKey := "cel:" + strings.Join(keys, ",") + ":" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.env(keys)
	if err != nil {
		return nil, compileError("cel", expression, err)
	}
	checked, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, compileError("cel", expression, issues.Err())
	}
	var programOpts []celgo.ProgramOption
	if e.costLimit > 0 {
		programOpts = append(programOpts, celgo.CostLimit(e.costLimit))
	}
	program, err := env.Program(checked, programOpts...)
	if err != nil {
		return nil, compileError("cel", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(cacheKey, program)
	}
	return program, nil
}

// parse validates syntax only. Identifiers are resolved later against the
// data keys.
func (e *celEvaluator) parse(expression string) (*celgo.Ast, error) {
	env, err := e.env(nil)
	if err != nil {
		return nil, compileError("cel", expression, err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, compileError("cel", expression, issues.Err())
	}
	return ast, nil
}

func (e *celEvaluator) env(keys []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("locale", celgo.StringType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", e.overloads("call", celgo.StringType)...))
		for _, name := range e.registry.Names() {
			if _, reserved := celReserved[name]; reserved {
				continue
			}
			opts = append(opts, celgo.Function(name, e.overloads(name)...))
		}
	}
	for _, key := range keys {
		if _, reserved := celReserved[key]; reserved {
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r celRule) Evaluate(ctx EvalContext) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}

var celReserved = map[string]struct{}{"now": {}, "args": {}, "locale": {}, "call": {}}

// maxCallArgs bounds the arity of function overloads; CEL has no variadic
// functions.
const maxCallArgs = 4

// overloads declares name for 0..maxCallArgs dyn arguments after the leading
// parameters. call passes its first argument as the function name, every
// other function is bound to its own registry entry.
func (e *celEvaluator) overloads(name string, leading ...*celgo.Type) []celgo.FunctionOpt {
	out := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
	for arity := 0; arity <= maxCallArgs; arity++ {
		params := append([]*celgo.Type{}, leading...)
		id := name
		for _, param := range leading {
			id += "_" + param.String()
		}
		for i := 0; i < arity; i++ {
			params = append(params, celgo.DynType)
			id += "_dyn"
		}
		out = append(out, celgo.Overload(id, params, celgo.DynType,
			celgo.FunctionBinding(e.binding(name, len(leading) > 0))))
	}
	return out
}

func (e *celEvaluator) binding(name string, dynamicName bool) func(values ...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		target := name
		if dynamicName {
			if len(values) == 0 {
				return types.NewErr("fakevalues: call requires a function name")
			}
			fn, ok := values[0].Value().(string)
			if !ok {
				return types.NewErr("fakevalues: call name must be a string")
			}
			target, values = fn, values[1:]
		}
		args := make([]any, 0, len(values))
		for _, val := range values {
			args = append(args, nativeValue(val))
		}
		result, err := e.registry.Call(target, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

// nativeValue unwraps CEL lists so registry functions see []any like they
// do under the other engines.
func nativeValue(val ref.Val) any {
	if lister, ok := val.(interface {
		Size() ref.Val
		Get(ref.Val) ref.Val
	}); ok && val.Type() == types.ListType {
		size, _ := lister.Size().Value().(int64)
		out := make([]any, 0, size)
		for i := int64(0); i < size; i++ {
			out = append(out, nativeValue(lister.Get(types.Int(i))))
		}
		return out
	}
	return val.Value()
}
