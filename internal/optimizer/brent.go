package optimizer

import "math"

// resphi = (3 - sqrt 5)/2 — квадрат отношения золотого сечения
const resphi = 2 - math.Phi

// brentState — скобка [a,b] и тройка лучших точек объединённого метода:
// x — точка с наименьшим известным значением, w — со вторым,
// v — предыдущее значение w. d — текущий шаг, e — шаг позапрошлой итерации.
type brentState struct {
	a, b       float64
	x, w, v    float64
	fx, fw, fv float64
	d, e       float64
}

// Brent — объединённый метод: параболическая интерполяция по тройке
// (x,w,v), когда она даёт надёжный шаг, иначе золотое сечение.
// Допуск на итерации: tol = relTol*|x| + absTol; остановка, когда
// скобка не позволяет улучшить оценку больше, чем на tol.
// onIter вызывается после каждой итерации; если вернёт ErrStopped —
// алгоритм прерывается, возвращая лучшую найденную точку.
func Brent(
	f Func,
	a, b, relTol, absTol float64,
	maxIter int,
	onIter func(Iter) error,
) (Result, error) {
	var res Result

	if !(a < b) {
		return res, ErrInvalidInterval
	}
	if relTol < 0 || absTol <= 0 || maxIter < 1 {
		return res, ErrInvalidTolerance
	}

	x := a + resphi*(b-a)
	fx, err := evalFinite(f, x)
	if err != nil {
		return Result{}, err
	}
	s := &brentState{
		a: a, b: b,
		x: x, w: x, v: x,
		fx: fx, fw: fx, fv: fx,
	}
	res.X, res.FX = s.x, s.fx

	for k := 1; k <= maxIter; k++ {
		m := (s.a + s.b) / 2
		tol := relTol*math.Abs(s.x) + absTol
		tol2 := 2 * tol

		if math.Abs(s.x-m) <= tol2-(s.b-s.a)/2 {
			res.Converged = true
			break
		}

		step := StepGolden
		var d float64

		if math.Abs(s.e) > tol {
			// вершина параболы через (x,fx), (w,fw), (v,fv): смещение p/q от x
			r := (s.x - s.w) * (s.fx - s.fv)
			q := (s.x - s.v) * (s.fx - s.fw)
			p := (s.x-s.v)*q - (s.x-s.w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			} else {
				q = -q
			}
			prev := s.e
			s.e = s.d
			// шаг принимается, только если он меньше половины позапрошлого
			// и вершина лежит строго внутри скобки
			if math.Abs(p) < math.Abs(q*prev/2) && p > q*(s.a-s.x) && p < q*(s.b-s.x) {
				step = StepParabolic
				d = p / q
				// не подходить к краям скобки ближе, чем на 2*tol
				if u := s.x + d; u-s.a < tol2 || s.b-u < tol2 {
					d = tol
					if s.x >= m {
						d = -tol
					}
				}
			}
		}

		if step == StepGolden {
			// шаг в больший из двух подотрезков
			if s.x < m {
				s.e = s.b - s.x
			} else {
				s.e = s.a - s.x
			}
			d = resphi * s.e
		}

		// минимальный шаг tol, иначе u неотличимо от x в float64
		if math.Abs(d) < tol {
			if d < 0 {
				d = -tol
			} else {
				d = tol
			}
		}

		u := s.x + d
		fu, err := evalFinite(f, u)
		if err != nil {
			return Result{}, err
		}
		s.d = d

		it := Iter{
			K: k,
			A: s.a, B: s.b,
			X: s.x, FX: s.fx,
			W: s.w, V: s.v,
			U: u, FU: fu,
			Step: step,
		}

		if fu <= s.fx {
			// u — новый лучший: скобка сжимается со стороны, где нет u
			if u < s.x {
				s.b = s.x
			} else {
				s.a = s.x
			}
			s.v, s.fv = s.w, s.fw
			s.w, s.fw = s.x, s.fx
			s.x, s.fx = u, fu
		} else {
			// u хуже x: скобка сжимается со стороны u;
			// w и v обновляются по порядку предпочтения
			if u < s.x {
				s.a = u
			} else {
				s.b = u
			}
			if fu <= s.fw || s.w == s.x {
				s.v, s.fv = s.w, s.fw
				s.w, s.fw = u, fu
			} else if fu <= s.fv || s.v == s.x || s.v == s.w {
				s.v, s.fv = u, fu
			}
		}

		it.Len = s.b - s.a
		res.Iters = append(res.Iters, it)
		res.X, res.FX = s.x, s.fx

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
