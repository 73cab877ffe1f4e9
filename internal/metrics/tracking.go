package metrics

import "math"

// TrackingError is the RMS deviation of the measurement from the setpoint.
type TrackingError struct {
	name     string
	setpoint float64
	sumSq    float64
	samples  int
}

func NewTrackingError(setpoint float64) *TrackingError {
	return &TrackingError{
		name:     "tracking_error_rms",
		setpoint: setpoint,
	}
}

func (e *TrackingError) Name() string {
	return e.name
}

func (e *TrackingError) Observe(measurement, u, t float64) {
	d := e.setpoint - measurement
	e.sumSq += d * d
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

// Overshoot is the peak excursion beyond the setpoint, as a fraction
// of the step from the first observed measurement to the setpoint.
// Zero for runs that never cross the target or start on it.
type Overshoot struct {
	name     string
	setpoint float64
	start    float64
	peak     float64
	seen     bool
}

func NewOvershoot(setpoint float64) *Overshoot {
	return &Overshoot{
		name:     "overshoot",
		setpoint: setpoint,
	}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(measurement, u, t float64) {
	if !o.seen {
		o.start = measurement
		o.seen = true
	}

	var beyond float64
	if o.setpoint >= o.start {
		beyond = measurement - o.setpoint
	} else {
		beyond = o.setpoint - measurement
	}
	if beyond > o.peak {
		o.peak = beyond
	}
}

func (o *Overshoot) Value() float64 {
	span := math.Abs(o.setpoint - o.start)
	if !o.seen || span == 0 {
		return 0
	}
	return o.peak / span
}

func (o *Overshoot) Reset() {
	o.start = 0
	o.peak = 0
	o.seen = false
}

// SettlingTime is the last instant the measurement sat outside the
// tolerance band around the setpoint. A run that never enters the band
// reports its final observation time.
type SettlingTime struct {
	name        string
	setpoint    float64
	tolerance   float64
	lastOutside float64
}

func NewSettlingTime(setpoint, tolerance float64) *SettlingTime {
	return &SettlingTime{
		name:      "settling_time",
		setpoint:  setpoint,
		tolerance: tolerance,
	}
}

func (s *SettlingTime) Name() string {
	return s.name
}

func (s *SettlingTime) Observe(measurement, u, t float64) {
	if math.Abs(measurement-s.setpoint) > s.tolerance {
		s.lastOutside = t
	}
}

func (s *SettlingTime) Value() float64 {
	return s.lastOutside
}

func (s *SettlingTime) Reset() {
	s.lastOutside = 0
}
