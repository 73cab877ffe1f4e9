package plant

import (
	"fmt"

	"github.com/Panzon1496/405Labs/internal/loop"
)

const (
	// DefaultGain is the steady-state shaft speed in rad/s per percent duty.
	DefaultGain = 1.6
	// DefaultTau is the mechanical time constant in seconds.
	DefaultTau = 0.25
)

// Motor is a first-order DC gearmotor driven by a duty-cycle command.
// State is [position rad, velocity rad/s]; the measured output is the
// shaft velocity.
type Motor struct {
	Gain float64
	Tau  float64
}

func NewMotor() *Motor {
	return &Motor{
		Gain: DefaultGain,
		Tau:  DefaultTau,
	}
}

func (m *Motor) StateDim() int { return 2 }

func (m *Motor) Derive(x loop.State, u float64, t float64) loop.State {
	vel := x[1]
	acc := (m.Gain*u - vel) / m.Tau
	return loop.State{vel, acc}
}

func (m *Motor) Output(x loop.State) float64 { return x[1] }

func (m *Motor) GetParams() map[string]float64 {
	return map[string]float64{
		"gain": m.Gain,
		"tau":  m.Tau,
	}
}

func (m *Motor) SetParam(name string, value float64) error {
	switch name {
	case "gain":
		m.Gain = value
	case "tau":
		m.Tau = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Servo is the same gearmotor measured at the shaft position, for
// position-control runs.
type Servo struct {
	Motor
}

func NewServo() *Servo {
	return &Servo{Motor: *NewMotor()}
}

func (s *Servo) Output(x loop.State) float64 { return x[0] }
