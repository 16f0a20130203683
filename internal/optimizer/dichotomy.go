package optimizer

// Dichotomy — метод дихотомии: две пробы на расстоянии delta около
// середины скобки, по сравнению значений отбрасывается половина.
// onIter вызывается после каждой итерации; если вернёт ErrStopped —
// алгоритм прерывается.
func Dichotomy(
	f Func,
	a, b, eps, delta float64,
	maxIter int,
	onIter func(Iter) error,
) (Result, error) {
	var res Result

	if !(a < b) {
		return res, ErrInvalidInterval
	}
	if eps <= 0 || delta <= 0 || maxIter < 1 {
		return res, ErrInvalidTolerance
	}

	// стартовая оценка — середина отрезка, чтобы результат был
	// осмыслен и при немедленной остановке
	mid := (a + b) / 2
	fmid, err := evalFinite(f, mid)
	if err != nil {
		return Result{}, err
	}
	res.X, res.FX = mid, fmid

	for k := 1; k <= maxIter; k++ {
		if (b-a)/2 <= eps {
			res.Converged = true
			break
		}

		u1 := (a + b - delta) / 2
		u2 := (a + b + delta) / 2

		fu1, err := evalFinite(f, u1)
		if err != nil {
			return Result{}, err
		}
		fu2, err := evalFinite(f, u2)
		if err != nil {
			return Result{}, err
		}

		if fu1 <= fu2 {
			b = u2
		} else {
			a = u1
		}

		mid = (a + b) / 2
		if fmid, err = evalFinite(f, mid); err != nil {
			return Result{}, err
		}

		it := Iter{
			K: k,
			A: a, B: b,
			X: mid, FX: fmid,
			U: u1, FU: fu1,
			Len: b - a,
		}
		res.Iters = append(res.Iters, it)
		res.X, res.FX = mid, fmid

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
