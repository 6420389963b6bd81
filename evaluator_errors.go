package fakevalues

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned for an empty expression by every engine.
var ErrEmptyExpression = errors.New("fakevalues: expression must not be empty")

// Evaluation phases reported by EvaluationError.
const (
	PhaseCompile = "compile"
	PhaseRun     = "run"
)

// EvaluationError carries the engine, phase, expression and locale of a
// failed evaluation alongside the cause.
type EvaluationError struct {
	Engine string
	Phase  string
	Expr   string
	Locale string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	locale := e.Locale
	if locale == "" {
		locale = "<none>"
	}
	phase := e.Phase
	if phase == "" {
		phase = PhaseRun
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("fakevalues: %s %s failed %s locale=%s: %v", e.Engine, phase, expr, locale, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func compileError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	return &EvaluationError{Engine: engine, Phase: PhaseCompile, Expr: expr, Err: err}
}

func runError(engine, expr, locale string, err error) error {
	if err == nil {
		return nil
	}
	return &EvaluationError{Engine: engine, Phase: PhaseRun, Expr: expr, Locale: locale, Err: err}
}

// wrapEvaluationError fills missing metadata on an existing EvaluationError
// or wraps err in a new one.
func wrapEvaluationError(engine, expr, locale string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Locale == "" {
			evalErr.Locale = locale
		}
		return err
	}
	return runError(engine, expr, locale, err)
}
