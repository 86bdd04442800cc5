package expr

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrMalformedExpression is returned for token sequences that fail Validate.
	ErrMalformedExpression = errors.New("malformed expression")
	// ErrDivisionByZero is returned when the right operand of ÷ is exactly 0.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidResult is returned when evaluation ends in ±Inf or NaN.
	ErrInvalidResult = errors.New("invalid result")
)

// tiers lists the operators reduced by each pass, highest precedence first.
var tiers = [][]Operator{
	{Modulo},
	{Multiply, Divide},
	{Add, Subtract},
}

// Eval tokenizes, validates and evaluates expression.
func Eval(expression string) (float64, error) {
	return Evaluate(Tokenize(expression))
}

// Evaluate reduces tokens to a single value. Each precedence tier is
// reduced in its own left-to-right pass; a reduction replaces
// left, op, right with the result and the scan resumes at the same
// position.
func Evaluate(tokens []Token) (float64, error) {
	if !Validate(tokens) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedExpression, joinTokens(tokens))
	}

	nums := make([]float64, 0, len(tokens)/2+1)
	ops := make([]Operator, 0, len(tokens)/2)
	for _, tok := range tokens {
		if tok.IsOperator() {
			ops = append(ops, tok.Op)
			continue
		}
		v, _ := parseNumeral(tok.Text)
		nums = append(nums, v)
	}

	for _, tier := range tiers {
		for i := 0; i < len(ops); {
			if !slices.Contains(tier, ops[i]) {
				i++
				continue
			}

			v, err := apply(ops[i], nums[i], nums[i+1])
			if err != nil {
				return 0, err
			}

			nums[i] = v
			nums = slices.Delete(nums, i+1, i+2)
			ops = slices.Delete(ops, i, i+1)
		}
	}

	result := nums[0]
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidResult, result)
	}

	return result, nil
}

func apply(op Operator, a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g %s %g", ErrDivisionByZero, a, op, b)
		}
		return a / b, nil
	case Modulo:
		return math.Mod(a, b), nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %d", ErrMalformedExpression, op)
	}
}

func joinTokens(tokens []Token) string {
	var s string
	for _, tok := range tokens {
		s += tok.Text
	}
	return s
}
