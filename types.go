package fakevalues

import "time"

// Provider is anything a Grouping can hold: a *Values or a nested *Grouping.
type Provider interface {
	Get(key string) (any, error)
}

// EvalContext carries the inputs of one expression evaluation.
type EvalContext struct {
	// Data maps category keys ("address", "creature") to resolved data.
	Data   map[string]any
	Args   map[string]any
	Now    *time.Time
	Locale string
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Data == nil {
		ctx.Data = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// bindings returns the variables every engine exposes: one per data key plus
// now, args and locale. Data keys never shadow those three.
func (ctx EvalContext) bindings() map[string]any {
	vars := make(map[string]any, len(ctx.Data)+3)
	for key, value := range ctx.Data {
		vars[key] = value
	}
	vars["now"] = ctx.timestamp()
	vars["args"] = ctx.Args
	vars["locale"] = ctx.Locale
	return vars
}

func (ctx EvalContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx EvalContext) localeLabel() string {
	if ctx.Locale == "" {
		return "unknown"
	}
	return ctx.Locale
}

// Evaluator executes expressions against resolved fake values.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}
