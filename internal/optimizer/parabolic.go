package optimizer

import "math"

// Parabolic — метод последовательной квадратичной аппроксимации:
// пробная точка — вершина параболы через тройку x1 < x2 < x3.
// Если парабола вырождена или вершина вне скобки, делается шаг
// золотого сечения в больший подотрезок.
func Parabolic(
	f Func,
	a, b, eps float64,
	maxIter int,
	onIter func(Iter) error,
) (Result, error) {
	var res Result

	if !(a < b) {
		return res, ErrInvalidInterval
	}
	if eps <= 0 || maxIter < 1 {
		return res, ErrInvalidTolerance
	}

	x1, x3 := a, b
	x2 := (a + b) / 2
	f1, err := evalFinite(f, x1)
	if err != nil {
		return Result{}, err
	}
	f2, err := evalFinite(f, x2)
	if err != nil {
		return Result{}, err
	}
	f3, err := evalFinite(f, x3)
	if err != nil {
		return Result{}, err
	}
	res.X, res.FX = x2, f2

	for k := 1; k <= maxIter; k++ {
		if (x3-x1)/2 <= eps {
			res.Converged = true
			break
		}

		// вершина параболы через (x1,f1), (x2,f2), (x3,f3)
		den := (x2-x1)*(f2-f3) - (x2-x3)*(f2-f1)
		num := (x2-x1)*(x2-x1)*(f2-f3) - (x2-x3)*(x2-x3)*(f2-f1)

		step := StepParabolic
		var u float64
		// den < 0 — ветви параболы направлены вверх, вершина — минимум
		if den < 0 {
			u = x2 - num/(2*den)
		}
		if den >= 0 || u <= x1 || u >= x3 {
			step = StepGolden
			if x2-x1 > x3-x2 {
				u = x2 - resphi*(x2-x1)
			} else {
				u = x2 + resphi*(x3-x2)
			}
		}

		if step == StepParabolic && math.Abs(u-x2) < eps {
			// вершина перестала смещаться — дальше уточнять нечего
			res.Converged = true
			break
		}
		if math.Abs(u-x2) < eps {
			// минимальный шаг eps в сторону большего подотрезка
			if x2-x1 > x3-x2 {
				u = x2 - eps
			} else {
				u = x2 + eps
			}
		}

		fu, err := evalFinite(f, u)
		if err != nil {
			return Result{}, err
		}

		it := Iter{
			K: k,
			A: x1, B: x3,
			X: x2, FX: f2,
			U: u, FU: fu,
			Step: step,
		}

		if u < x2 {
			if fu <= f2 {
				x3, f3 = x2, f2
				x2, f2 = u, fu
			} else {
				x1, f1 = u, fu
			}
		} else {
			if fu <= f2 {
				x1, f1 = x2, f2
				x2, f2 = u, fu
			} else {
				x3, f3 = u, fu
			}
		}

		it.Len = x3 - x1
		res.Iters = append(res.Iters, it)
		res.X, res.FX = x2, f2

		if onIter != nil {
			if err := onIter(it); err != nil {
				res.Iterations = len(res.Iters)
				return res, err
			}
		}
	}

	res.Iterations = len(res.Iters)
	return res, nil
}
