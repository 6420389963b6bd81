//go:build js_eval

package fakevalues

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// errJSTimeout is the interrupt value raised when a script overruns.
var errJSTimeout = errors.New("script timed out")

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
	strict   bool
}

// NewJSEvaluator constructs an Evaluator backed by goja. Every run gets a
// fresh runtime with the category data bound as globals.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyJSEvaluatorOptions(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
		timeout:  cfg.timeout,
		strict:   cfg.strict,
	}
}

// JSEvaluatorAvailable reports whether NewJSEvaluator returns an evaluator.
func JSEvaluatorAvailable() bool {
	return true
}

func (e *jsEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx.withDefaults(), expression, program)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

// Engine names the evaluator in logs and errors.
func (e *jsEvaluator) Engine() string {
	return "js"
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, compileError("js", expression, ErrEmptyExpression)
	}
	key := e.cacheKey(expression)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	source := fmt.Sprintf("(function(){ return (%s); })()", expression)
	program, err := goja.Compile("fakevalues.js", source, e.strict)
	if err != nil {
		return nil, compileError("js", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(ctx EvalContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	if err := e.bind(vm, ctx); err != nil {
		return nil, runError("js", expression, ctx.Locale, err)
	}
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt(errJSTimeout)
		})
		defer timer.Stop()
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, runError("js", expression, ctx.Locale, fmt.Errorf("%w after %s", errJSTimeout, e.timeout))
		}
		return nil, runError("js", expression, ctx.Locale, err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, nil
	}
	return value.Export(), nil
}

func (e *jsEvaluator) bind(vm *goja.Runtime, ctx EvalContext) error {
	for key, value := range ctx.Data {
		if err := vm.Set(key, value); err != nil {
			return err
		}
	}
	globals := map[string]any{
		"now":    ctx.timestamp(),
		"args":   ctx.Args,
		"locale": ctx.Locale,
	}
	if e.registry != nil {
		globals["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			globals[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	for key, value := range globals {
		if err := vm.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (e *jsEvaluator) cacheKey(expression string) string {
	if e.strict {
		return "js:strict:" + expression
	}
	return "js:" + expression
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx EvalContext) (any, error) {
	return r.evaluator.run(ctx.withDefaults(), r.expression, r.program)
}
