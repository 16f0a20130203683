package optimizer

// GoldenSection — метод золотого сечения: две внутренние точки в
// отношении resphi, после первой итерации на каждом шаге вычисляется
// только одна новая точка.
func GoldenSection(
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

	x1 := a + resphi*(b-a)
	x2 := b - resphi*(b-a)
	f1, err := evalFinite(f, x1)
	if err != nil {
		return Result{}, err
	}
	f2, err := evalFinite(f, x2)
	if err != nil {
		return Result{}, err
	}

	// результат осмыслен и при немедленной остановке
	res.X, res.FX = x1, f1
	if f2 < f1 {
		res.X, res.FX = x2, f2
	}

	for k := 1; k <= maxIter; k++ {
		if (b-a)/2 <= eps {
			res.Converged = true
			break
		}

		var u, fu float64
		if f1 <= f2 {
			b = x2
			x2, f2 = x1, f1
			x1 = a + resphi*(b-a)
			if f1, err = evalFinite(f, x1); err != nil {
				return Result{}, err
			}
			u, fu = x1, f1
		} else {
			a = x1
			x1, f1 = x2, f2
			x2 = b - resphi*(b-a)
			if f2, err = evalFinite(f, x2); err != nil {
				return Result{}, err
			}
			u, fu = x2, f2
		}

		x, fx := x1, f1
		if f2 < f1 {
			x, fx = x2, f2
		}

		it := Iter{
			K: k,
			A: a, B: b,
			X: x, FX: fx,
			U: u, FU: fu,
			Len:  b - a,
			Step: StepGolden,
		}
		res.Iters = append(res.Iters, it)
		res.X, res.FX = x, fx

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
