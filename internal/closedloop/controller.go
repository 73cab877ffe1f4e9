package closedloop

import "errors"

var (
	// ErrInvalidBounds reports inverted saturation limits at construction.
	ErrInvalidBounds = errors.New("closedloop: saturation limits inverted (low > high)")
	// ErrInvalidTimeDelta reports a zero or negative elapsed time passed
	// to Update.
	ErrInvalidTimeDelta = errors.New("closedloop: elapsed time must be positive")
)

// Limits is the saturation range applied to every actuation output.
type Limits struct {
	Low  float64
	High float64
}

// DefaultLimits is the duty-cycle range of the lab motor driver.
func DefaultLimits() Limits {
	return Limits{Low: -100, High: 100}
}

// Config carries construction parameters for a Controller. Gains and
// setpoint are taken as-is; zero and negative gains are legal.
type Config struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint float64

	// Limits bounds the actuation output. Nil selects DefaultLimits.
	Limits *Limits

	// Clock timestamps trace samples. Nil selects NewSystemClock.
	Clock Clock

	// Sink receives completed traces. Nil drops them; the recorder
	// still disarms at capacity.
	Sink TraceSink
}

// Controller is a discrete PID controller with trapezoidal integration
// and an embedded bounded trace recorder.
type Controller struct {
	kp, ki, kd float64
	setpoint   float64
	limits     Limits

	integral float64
	lastErr  float64

	clock  Clock
	origin int64

	rec  recorder
	sink TraceSink
}

// New constructs a Controller. The current clock reading becomes the
// trace time origin; integral and derivative state start at zero and
// the recorder starts disarmed.
func New(cfg Config) (*Controller, error) {
	limits := DefaultLimits()
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	if limits.Low > limits.High {
		return nil, ErrInvalidBounds
	}

	clock := cfg.Clock
	if clock == nil {
		clock = NewSystemClock()
	}

	return &Controller{
		kp:       cfg.Kp,
		ki:       cfg.Ki,
		kd:       cfg.Kd,
		setpoint: cfg.Setpoint,
		limits:   limits,
		clock:    clock,
		origin:   clock.Now(),
		sink:     cfg.Sink,
	}, nil
}

// Update advances the controller by one step and returns the saturated
// actuation command. measurement is the current process value; dt is
// the caller-tracked elapsed time since the previous call and must be
// strictly positive, otherwise ErrInvalidTimeDelta is returned and no
// state is mutated.
//
// Integral and derivative state persist to the next call. While the
// recorder is armed, one (elapsed ms, measurement) sample is captured
// per call; the call that fills the buffer emits the trace through the
// sink and disarms the recorder.
func (c *Controller) Update(measurement, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, ErrInvalidTimeDelta
	}

	e := c.setpoint - measurement
	c.integral += (c.lastErr + e) * dt / 2
	derivative := (e - c.lastErr) / dt
	c.lastErr = e

	u := c.kp*e + c.ki*c.integral + c.kd*derivative

	elapsed := c.clock.Diff(c.clock.Now(), c.origin)
	if trace := c.rec.observe(elapsed, measurement); trace != nil && c.sink != nil {
		c.sink(trace)
	}

	return c.Saturate(u), nil
}

// Saturate clamps v to the configured limits.
func (c *Controller) Saturate(v float64) float64 {
	if v < c.limits.Low {
		return c.limits.Low
	}
	if v > c.limits.High {
		return c.limits.High
	}
	return v
}

// SetSetpoint changes the target, resets the trace time origin to now
// and re-arms the recorder with an empty buffer. The integral
// accumulator and last error are intentionally left untouched: error
// history carries across target changes, matching the behavior of the
// lab rig this controller was built against. Callers that need a clean
// integrator must construct a fresh Controller.
func (c *Controller) SetSetpoint(point float64) {
	c.setpoint = point
	c.origin = c.clock.Now()
	c.rec.rearm()
}

// SetControlGain sets the proportional gain. The integral and
// derivative gains are fixed at construction.
func (c *Controller) SetControlGain(gain float64) {
	c.kp = gain
}

// Record clears the sample buffer and re-arms the recorder without
// changing the setpoint or the trace time origin.
func (c *Controller) Record() {
	c.rec.rearm()
}

// Setpoint returns the current target value.
func (c *Controller) Setpoint() float64 { return c.setpoint }

// Gains returns the current proportional, integral and derivative gains.
func (c *Controller) Gains() (kp, ki, kd float64) { return c.kp, c.ki, c.kd }

// Limits returns the configured saturation range.
func (c *Controller) Limits() Limits { return c.limits }

// Integral returns the accumulated trapezoidal error area.
func (c *Controller) Integral() float64 { return c.integral }

// LastError returns the error from the previous Update call.
func (c *Controller) LastError() float64 { return c.lastErr }

// Recording reports whether the recorder is armed.
func (c *Controller) Recording() bool { return c.rec.armed }

// TraceLen returns the number of samples currently buffered.
func (c *Controller) TraceLen() int { return len(c.rec.samples) }
