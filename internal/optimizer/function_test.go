package optimizer

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestNewEvalFunc(t *testing.T) {
	f, err := NewEvalFunc("x*x - 2*x + sin(x)")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	v, err := f.Eval(2)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if !scalar.EqualWithinAbs(v, math.Sin(2), 1e-15) {
		t.Errorf("expected %v, found %v", math.Sin(2), v)
	}
}

func TestNewEvalFuncCommaDecimal(t *testing.T) {
	// запятая как десятичный разделитель нормализуется в точку
	f, err := NewEvalFunc("x + 0,5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	v, err := f.Eval(1)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if v != 1.5 {
		t.Errorf("expected 1.5, found %v", v)
	}
}

func TestNewEvalFuncPowArguments(t *testing.T) {
	// запятая внутри скобок — разделитель аргументов, не десятичная
	for _, expr := range []string{"pow(x-2,2)+1", "pow(x-2, 2) + 1"} {
		f, err := NewEvalFunc(expr)
		if err != nil {
			t.Fatalf("%q: unexpected parse error: %v", expr, err)
		}
		v, err := f.Eval(5)
		if err != nil {
			t.Fatalf("%q: unexpected eval error: %v", expr, err)
		}
		if v != 10 {
			t.Errorf("%q: expected 10, found %v", expr, v)
		}
	}
}

func TestNewEvalFuncArity(t *testing.T) {
	cases := []string{"pow(x)", "pow(1,2,3)", "sin(1,2)", "sqrt()"}
	for _, expr := range cases {
		f, err := NewEvalFunc(expr)
		if err != nil {
			// часть выражений отбрасывается уже парсером
			continue
		}
		if _, err := f.Eval(1); err == nil {
			t.Errorf("%q: expected arity error", expr)
		}
	}
}

func TestNewEvalFuncParseError(t *testing.T) {
	if _, err := NewEvalFunc("x +* 2"); err == nil {
		t.Error("expected parse error")
	}
}

func TestEvalFuncNonFinite(t *testing.T) {
	f, err := NewEvalFunc("log(x)")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	v, err := f.Eval(-1)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("expected NaN for log of a negative number, found %v", v)
	}
}
