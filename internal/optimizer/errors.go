package optimizer

import (
	"errors"
	"fmt"
)

// ErrStopped — специальная ошибка для принудительной остановки из колбэка onIter
var ErrStopped = errors.New("optimizer: stopped by callback")

// ErrInvalidInterval — требуется a < b
var ErrInvalidInterval = errors.New("optimizer: invalid interval, need a < b")

// ErrInvalidTolerance — неположительные точности или maxIter < 1
var ErrInvalidTolerance = errors.New("optimizer: invalid tolerance or iteration limit")

// NonFiniteError — функция вернула NaN или ±Inf; запуск прерывается,
// частичный результат не возвращается (скобка уже не достоверна).
type NonFiniteError struct {
	X  float64 // точка вычисления
	FX float64 // полученное значение
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("optimizer: non-finite value f(%g) = %g", e.X, e.FX)
}
