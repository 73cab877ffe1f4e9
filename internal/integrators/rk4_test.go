package integrators

import (
	"math"
	"testing"

	"github.com/Panzon1496/405Labs/internal/loop"
)

// oscillator is x'' = -x, an undamped unit oscillator.
type oscillator struct{}

func (o *oscillator) Derive(x loop.State, u float64, t float64) loop.State {
	return loop.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int               { return 2 }
func (o *oscillator) Output(x loop.State) float64 { return x[0] }

type decay struct{}

func (d *decay) Derive(x loop.State, u float64, t float64) loop.State {
	return loop.State{-x[0]}
}

func (d *decay) StateDim() int               { return 1 }
func (d *decay) Output(x loop.State) float64 { return x[0] }

func TestRK4Accuracy(t *testing.T) {
	p := &oscillator{}
	integ := NewRK4()

	x := loop.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(p, x, 0, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrderDecay(t *testing.T) {
	p := &decay{}
	integ := NewEuler()

	x := loop.State{1.0}
	dt := 0.001
	for i := 0; i < 1000; i++ {
		x = integ.Step(p, x, 0, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-math.Exp(-1)) > 1e-3 {
		t.Errorf("expected ~%.6f, got %.6f", math.Exp(-1), x[0])
	}
}
