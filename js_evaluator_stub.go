//go:build !js_eval

package fakevalues

// NewJSEvaluator returns nil unless the module is built with the js_eval tag,
// which links goja.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

// JSEvaluatorAvailable reports whether NewJSEvaluator returns an evaluator.
func JSEvaluatorAvailable() bool {
	return false
}
