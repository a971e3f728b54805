package tools

import (
	"github.com/papercomputeco/cassette/pkg/tools/calc"
)

// Calculate evaluates a restricted arithmetic expression and formats the
// result. Errors wrap calc.ErrInvalidExpression or calc.ErrEvaluation.
func Calculate(expr string) (string, error) {
	v, err := calc.Eval(expr)
	if err != nil {
		return "", err
	}
	return calc.Format(v), nil
}
