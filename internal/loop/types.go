package loop

// State is the plant state vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Plant is the controlled process: a scalar actuation command in, a
// scalar measured value out.
type Plant interface {
	Derive(x State, u float64, t float64) State
	StateDim() int
	Output(x State) float64
}

// Integrator advances the plant state by one timestep.
type Integrator interface {
	Step(p Plant, x State, u float64, t float64, dt float64) State
}

// Metric accumulates a scalar quality figure over a run.
type Metric interface {
	Name() string
	Observe(measurement, u, t float64)
	Value() float64
	Reset()
}

// Observer is notified after each control step.
type Observer interface {
	OnStep(x State, measurement, u, t float64)
}

// Configurable supports live parameter adjustment.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Times        []float64
	States       []State
	Measurements []float64
	Actuations   []float64
	Metrics      map[string]float64
}
