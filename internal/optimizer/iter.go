package optimizer

// StepKind — вид шага объединённого метода
type StepKind string

const (
	StepGolden    StepKind = "golden"
	StepParabolic StepKind = "parabolic"
)

// Iter — снимок одной итерации поиска. Поля A..FX фиксируются до
// обновления состояния, U/FU — пробная точка этой итерации,
// Len — длина скобки после обновления.
// W и V заполняются только методами, которые ведут тройку точек.
type Iter struct {
	K    int      `json:"k"`
	A    float64  `json:"a"`
	B    float64  `json:"b"`
	X    float64  `json:"x"`
	FX   float64  `json:"fx"`
	W    float64  `json:"w"`
	V    float64  `json:"v"`
	U    float64  `json:"u"`
	FU   float64  `json:"fu"`
	Len  float64  `json:"len"`
	Step StepKind `json:"step,omitempty"`
}

// Result — итог запуска метода
type Result struct {
	X          float64 `json:"x"`
	FX         float64 `json:"fx"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Iters      []Iter  `json:"-"`
}
