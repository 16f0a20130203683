package optimizer

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestBrentQuadratic(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return x * x })

	res, err := Brent(f, -1, 1, 0, 1e-10, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	if !scalar.EqualWithinAbs(res.X, 0, 1e-8) {
		t.Errorf("xmin mismatch: expected 0, found %v", res.X)
	}
	if !scalar.EqualWithinAbs(res.FX, 0, 1e-15) {
		t.Errorf("fmin mismatch: expected 0, found %v", res.FX)
	}
}

func TestBrentQuartic(t *testing.T) {
	f := FuncOf(func(x float64) float64 {
		d := x - 2
		return d * d * d * d
	})

	res, err := Brent(f, 0, 4, 1e-8, 1e-8, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scalar.EqualWithinAbs(res.X, 2, 1e-3) {
		t.Errorf("xmin mismatch: expected 2, found %v", res.X)
	}
}

func TestBrentXCosX(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return x * math.Cos(x) })

	res, err := Brent(f, 0, 5, 1e-10, 1e-10, 200, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	// единственный внутренний минимум x*cos(x) на [0,5]: x ~ 3.4256
	if !scalar.EqualWithinAbs(res.X, 3.42561846, 1e-5) {
		t.Errorf("xmin mismatch: found %v", res.X)
	}
	if res.FX >= 0 {
		t.Errorf("fmin must be negative, found %v", res.FX)
	}
}

func TestBrentHistory(t *testing.T) {
	f := FuncOf(func(x float64) float64 {
		d := x - 2
		return d * d * d * d
	})

	res, err := Brent(f, 0, 4, 1e-8, 1e-8, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Iters) != res.Iterations {
		t.Fatalf("history length %d does not match iteration count %d", len(res.Iters), res.Iterations)
	}

	var parabolic bool
	for i, it := range res.Iters {
		if it.K != i+1 {
			t.Errorf("iteration %d: record numbered %d", i+1, it.K)
		}
		if it.U <= it.A || it.U >= it.B {
			t.Errorf("iteration %d: trial point %v outside bracket (%v, %v)", it.K, it.U, it.A, it.B)
		}
		if i > 0 {
			prev := res.Iters[i-1]
			// fx не возрастает, скобка строго сжимается
			if it.FX > prev.FX {
				t.Errorf("iteration %d: fx regressed from %v to %v", it.K, prev.FX, it.FX)
			}
			if it.Len >= prev.Len {
				t.Errorf("iteration %d: bracket did not shrink, %v -> %v", it.K, prev.Len, it.Len)
			}
		}
		if it.Step == StepParabolic {
			parabolic = true
		}
	}
	if !parabolic {
		t.Error("expected at least one parabolic step on a smooth function")
	}
}

func TestBrentNonFiniteProbe(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return math.NaN() })

	_, err := Brent(f, 0, 1, 1e-6, 1e-8, 100, nil)
	var nf *NonFiniteError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NonFiniteError, found %v", err)
	}
	if !math.IsNaN(nf.FX) {
		t.Errorf("expected NaN in error, found %v", nf.FX)
	}
}

func TestBrentNonFiniteTrial(t *testing.T) {
	// конечно в первой пробной точке, дальше NaN
	n := 0
	f := FuncOf(func(x float64) float64 {
		n++
		if n == 1 {
			return x * x
		}
		return math.Inf(1)
	})

	_, err := Brent(f, -1, 1, 1e-6, 1e-8, 100, nil)
	var nf *NonFiniteError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NonFiniteError, found %v", err)
	}
}

func TestBrentInvalidInterval(t *testing.T) {
	n := 0
	f := FuncOf(func(x float64) float64 {
		n++
		return x * x
	})

	_, err := Brent(f, 1.0, 0.5, 1e-6, 1e-8, 100, nil)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, found %v", err)
	}
	if n != 0 {
		t.Errorf("function must not be evaluated, called %d times", n)
	}
}

func TestBrentInvalidTolerance(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return x * x })

	if _, err := Brent(f, 0, 1, -1, 1e-8, 100, nil); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("negative relTol: expected ErrInvalidTolerance, found %v", err)
	}
	if _, err := Brent(f, 0, 1, 1e-6, 0, 100, nil); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("zero absTol: expected ErrInvalidTolerance, found %v", err)
	}
	if _, err := Brent(f, 0, 1, 1e-6, 1e-8, 0, nil); !errors.Is(err, ErrInvalidTolerance) {
		t.Errorf("zero maxIter: expected ErrInvalidTolerance, found %v", err)
	}
}

func TestBrentImmediateStop(t *testing.T) {
	n := 0
	f := FuncOf(func(x float64) float64 {
		n++
		return x * x
	})

	// скобка изначально меньше допуска: остановка до первого шага
	res, err := Brent(f, 0, 1e-12, 0, 1e-8, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations != 0 {
		t.Errorf("expected immediate stop, iterations=%d converged=%v", res.Iterations, res.Converged)
	}
	if n != 1 {
		t.Errorf("expected only the initial probe, found %d evaluations", n)
	}

	// повторный запуск на том же интервале даёт тот же исход
	again, err := Brent(f, 0, 1e-12, 0, 1e-8, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Converged || again.Iterations != 0 || again.X != res.X {
		t.Error("stop condition is not idempotent")
	}
}

func TestBrentStopCallback(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return (x - 1) * (x - 1) })

	res, err := Brent(f, -4, 4, 1e-12, 1e-12, 100, func(it Iter) error {
		if it.K == 3 {
			return ErrStopped
		}
		return nil
	})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, found %v", err)
	}
	if res.Iterations != 3 {
		t.Errorf("expected 3 iterations before stop, found %d", res.Iterations)
	}
}

func TestBrentMaxIterations(t *testing.T) {
	f := FuncOf(func(x float64) float64 { return x * x })

	res, err := Brent(f, -100, 100, 1e-12, 1e-12, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Converged {
		t.Error("3 iterations must not converge on [-100, 100]")
	}
	if res.Iterations != 3 {
		t.Errorf("expected 3 iterations, found %d", res.Iterations)
	}
}

func TestBrentEvalFuncExpression(t *testing.T) {
	f, err := NewEvalFunc("pow(x-2, 2) + 1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	res, err := Brent(f, 0, 5, 1e-10, 1e-10, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scalar.EqualWithinAbs(res.X, 2, 1e-6) {
		t.Errorf("xmin mismatch: expected 2, found %v", res.X)
	}
	if !scalar.EqualWithinAbs(res.FX, 1, 1e-10) {
		t.Errorf("fmin mismatch: expected 1, found %v", res.FX)
	}
}
