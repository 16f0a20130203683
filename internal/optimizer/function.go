package optimizer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Knetic/govaluate"
)

// Func — интерфейс для абстрактной функции f(x)
type Func interface {
	Eval(x float64) (float64, error)
}

// funcOf — адаптер обычной Go-функции под интерфейс Func
type funcOf func(float64) float64

func (f funcOf) Eval(x float64) (float64, error) { return f(x), nil }

// FuncOf оборачивает func(float64) float64 в Func (для тестов и CLI)
func FuncOf(f func(float64) float64) Func { return funcOf(f) }

// evalFunc — реализация Func на основе govaluate
type evalFunc struct {
	expr   *govaluate.EvaluableExpression
	params map[string]interface{}
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: ожидается 1 аргумент, получено %d", name, len(args))
		}
		return fn(toFloat(args[0])), nil
	}
}

// NewEvalFunc создаёт вычислимую функцию по строке f(x)
func NewEvalFunc(expr string) (Func, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"sin":  unary("sin", math.Sin),
		"cos":  unary("cos", math.Cos),
		"tan":  unary("tan", math.Tan),
		"atan": unary("atan", math.Atan),
		"sinh": unary("sinh", math.Sinh),
		"cosh": unary("cosh", math.Cosh),
		"exp":  unary("exp", math.Exp),
		"log":  unary("log", math.Log),
		"sqrt": unary("sqrt", math.Sqrt),
		"abs":  unary("abs", math.Abs),
		"pow": func(args ...interface{}) (interface{}, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("pow: ожидается 2 аргумента, получено %d", len(args))
			}
			return math.Pow(toFloat(args[0]), toFloat(args[1])), nil
		},
	}

	expr = normalizeDecimalCommas(expr)

	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
	if err != nil {
		return nil, err
	}

	return &evalFunc{
		expr:   parsed,
		params: map[string]interface{}{"x": 0.0},
	}, nil
}

func (f *evalFunc) Eval(x float64) (float64, error) {
	f.params["x"] = x
	v, err := f.expr.Evaluate(f.params)
	if err != nil {
		return math.NaN(), err
	}

	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN(), err
		}
		return parsed, nil
	default:
		return math.NaN(), fmt.Errorf("выражение не вернуло число: %T", v)
	}
}

// normalizeDecimalCommas заменяет десятичные запятые на точки.
// Запятые внутри скобок не трогаем — это разделители аргументов
// (например, в pow(x-2, 2)).
func normalizeDecimalCommas(expr string) string {
	out := []byte(expr)
	depth := 0
	for i, c := range out {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out[i] = '.'
			}
		}
	}
	return string(out)
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return math.NaN()
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// evalFinite вычисляет f(x) и проверяет, что значение конечно
func evalFinite(f Func, x float64) (float64, error) {
	v, err := f.Eval(x)
	if err != nil {
		return v, err
	}
	if !isFinite(v) {
		return v, &NonFiniteError{X: x, FX: v}
	}
	return v, nil
}
