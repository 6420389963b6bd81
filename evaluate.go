package fakevalues

import "time"

// resolveEvaluator returns the configured evaluator, or an expr evaluator
// wired with the configured program cache and functions.
func (cfg config) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

// evaluate runs expr with evaluator, wrapping failures and logging the
// attempt.
func evaluate(evaluator Evaluator, logger EvaluatorLogger, ctx EvalContext, expr string) (any, error) {
	ctx = ctx.withDefaults()
	if expr == "" {
		return nil, &EvaluationError{Engine: evaluatorEngineName(evaluator), Phase: PhaseCompile, Locale: ctx.Locale, Err: ErrEmptyExpression}
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	err = wrapEvaluationError(engine, expr, ctx.Locale, err)
	logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Locale:   ctx.localeLabel(),
		Duration: duration,
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name, ok := e.(interface{ Engine() string }); ok {
			return name.Engine()
		}
		return "custom"
	}
}
