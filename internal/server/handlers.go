package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image/gif"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"idz2_opt/internal/optimizer"
	"idz2_opt/internal/render"
)

// StartRun запускает новый процесс минимизации выбранным методом
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}

	var p RunParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "ошибка JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if p.Method == "" {
		p.Method = MethodBrent
	}
	switch p.Method {
	case MethodDichotomy, MethodGolden, MethodParabolic, MethodBrent:
	default:
		http.Error(w, "неизвестный метод: "+p.Method, http.StatusBadRequest)
		return
	}
	if p.MaxIter <= 0 {
		p.MaxIter = 100
	}
	if p.RelTol < 0 {
		p.RelTol = 0
	}
	if p.AbsTol <= 0 {
		p.AbsTol = 1e-8
	}
	if p.Eps <= 0 {
		p.Eps = 1e-5
	}
	if p.Delta <= 0 {
		p.Delta = p.Eps / 2
	}
	if !(p.A < p.B) {
		http.Error(w, "требуется a < b", http.StatusBadRequest)
		return
	}

	f, err := optimizer.NewEvalFunc(p.Func)
	if err != nil {
		http.Error(w, "ошибка в выражении функции: "+err.Error(), http.StatusBadRequest)
		return
	}

	// предварительно считаем значения функции для графика;
	// NaN/Inf не представимы в JSON, точки разрыва кодируем как null
	const n = 400
	xs := make([]float64, n)
	ys := make([]any, n)
	h := (p.B - p.A) / float64(n-1)
	for i := 0; i < n; i++ {
		x := p.A + float64(i)*h
		xs[i] = x
		y, err := f.Eval(x)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			ys[i] = nil
		} else {
			ys[i] = y
		}
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	rs := &RunState{
		ID:        id,
		Params:    p,
		CreatedAt: time.Now(),
		Fn:        f,
		Cancel:    cancel,
	}
	s.saveRun(rs)

	// асинхронный запуск оптимизации
	go s.runMethod(ctx, rs, f)

	resp := map[string]any{
		"id": id,
		"xs": xs,
		"ys": ys,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка записи ответа /start:", err)
	}
}

func (s *Server) runMethod(ctx context.Context, rs *RunState, f optimizer.Func) {
	id := rs.ID
	p := rs.Params

	startMsg, _ := json.Marshal(map[string]any{
		"type":   "start",
		"id":     id,
		"method": p.Method,
	})
	s.hub.Publish(id, string(startMsg))

	onIter := func(it optimizer.Iter) error {
		select {
		case <-ctx.Done():
			return optimizer.ErrStopped
		default:
		}

		s.appendIter(rs, it)

		msg, _ := json.Marshal(map[string]any{
			"type": "iter",
			"iter": it,
		})
		s.hub.Publish(id, string(msg))
		return nil
	}

	var res optimizer.Result
	var err error
	switch p.Method {
	case MethodDichotomy:
		res, err = optimizer.Dichotomy(f, p.A, p.B, p.Eps, p.Delta, p.MaxIter, onIter)
	case MethodGolden:
		res, err = optimizer.GoldenSection(f, p.A, p.B, p.Eps, p.MaxIter, onIter)
	case MethodParabolic:
		res, err = optimizer.Parabolic(f, p.A, p.B, p.Eps, p.MaxIter, onIter)
	default:
		res, err = optimizer.Brent(f, p.A, p.B, p.RelTol, p.AbsTol, p.MaxIter, onIter)
	}

	if err != nil {
		if errors.Is(err, optimizer.ErrStopped) || errors.Is(err, context.Canceled) {
			s.finishRun(rs, res, "")
			stopMsg, _ := json.Marshal(map[string]any{
				"type": "stopped",
			})
			s.hub.Publish(id, string(stopMsg))
			return
		}

		errText := "ошибка при вычислении: " + err.Error()
		s.finishRun(rs, res, errText)
		errMsg, _ := json.Marshal(map[string]any{
			"type": "error",
			"err":  errText,
		})
		s.hub.Publish(id, string(errMsg))
		return
	}

	s.finishRun(rs, res, "")
	doneMsg, _ := json.Marshal(map[string]any{
		"type":       "done",
		"x":          res.X,
		"fx":         res.FX,
		"iterations": res.Iterations,
		"converged":  res.Converged,
	})
	s.hub.Publish(id, string(doneMsg))
}

// StopRun — прерывание процесса минимизации
func (s *Server) StopRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return
	}

	rs := s.getRun(id)
	if rs == nil {
		http.Error(w, "неизвестный id", http.StatusNotFound)
		return
	}

	if rs.Cancel != nil {
		rs.Cancel()
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV — экспорт итераций в CSV
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return
	}

	rs := s.getRun(id)
	if rs == nil {
		http.Error(w, "неизвестный id", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=iterations_"+id+".csv")

	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{"k", "a", "b", "x", "f(x)", "u", "f(u)", "b-a", "step"})

	for _, it := range s.itersSnapshot(rs) {
		_ = cw.Write([]string{
			strconv.Itoa(it.K),
			fmtFloat(it.A),
			fmtFloat(it.B),
			fmtFloat(it.X),
			fmtFloat(it.FX),
			fmtFloat(it.U),
			fmtFloat(it.FU),
			fmtFloat(it.Len),
			string(it.Step),
		})
	}
}

// ExportGIF — экспорт анимации запуска
func (s *Server) ExportGIF(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return
	}

	rs := s.getRun(id)
	if rs == nil {
		http.Error(w, "неизвестный id", http.StatusNotFound)
		return
	}

	iters := s.itersSnapshot(rs)
	anim, err := render.Animate(rs.Fn, rs.Params.A, rs.Params.B, iters, render.Options{})
	if err != nil {
		http.Error(w, "ошибка отрисовки: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Disposition", "attachment; filename=run_"+id+".gif")
	_ = gif.EncodeAll(w, anim)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 16, 64)
}

// Stream — SSE-стрим итераций
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.hub.Subscribe(id)
	defer cancel()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: msg\n")
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
