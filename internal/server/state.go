package server

import (
	"context"
	"sync"
	"time"

	"idz2_opt/internal/optimizer"
	"idz2_opt/internal/sse"
)

// имена методов в параметрах запуска
const (
	MethodDichotomy = "dichotomy"
	MethodGolden    = "golden"
	MethodParabolic = "parabolic"
	MethodBrent     = "brent"
)

// параметры запуска метода
type RunParams struct {
	Func    string  `json:"func"`
	Method  string  `json:"method"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	RelTol  float64 `json:"relTol"`
	AbsTol  float64 `json:"absTol"`
	Eps     float64 `json:"eps"`
	Delta   float64 `json:"delta"`
	MaxIter int     `json:"maxIter"`
}

// состояние одного запуска
type RunState struct {
	ID        string
	Params    RunParams
	CreatedAt time.Time

	Fn optimizer.Func

	LastIter optimizer.Iter
	Iters    []optimizer.Iter
	Result   optimizer.Result

	Err    string
	Done   bool
	Cancel context.CancelFunc
}

// Server — реестр запусков и hub для SSE
type Server struct {
	mu   sync.Mutex
	runs map[string]*RunState
	hub  *sse.Hub
}

func New() *Server {
	return &Server{
		runs: map[string]*RunState{},
		hub:  sse.NewHub(),
	}
}

func (s *Server) saveRun(rs *RunState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rs.ID] = rs
}

func (s *Server) getRun(id string) *RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

func (s *Server) appendIter(rs *RunState, it optimizer.Iter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs.LastIter = it
	rs.Iters = append(rs.Iters, it)
}

func (s *Server) finishRun(rs *RunState, res optimizer.Result, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs.Result = res
	rs.Err = errMsg
	rs.Done = true
}

// itersSnapshot — копия журнала итераций для экспорта
func (s *Server) itersSnapshot(rs *RunState) []optimizer.Iter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]optimizer.Iter(nil), rs.Iters...)
}
