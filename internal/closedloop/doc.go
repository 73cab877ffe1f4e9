// Package closedloop implements a discrete-time PID controller for a
// single actuated axis, plus a bounded trace recorder for offline
// analysis of the controlled variable.
//
// The controller is driven by an external control loop that calls
// [Controller.Update] at its own cadence, passing the measured process
// value and the elapsed time since the previous call:
//
//	ctrl, _ := closedloop.New(closedloop.Config{Kp: 4, Ki: 0.5})
//	ctrl.SetSetpoint(120) // also arms the trace recorder
//	for range ticker.C {
//		duty, err := ctrl.Update(encoder.Velocity(), dt)
//		...
//	}
//
// Every value returned by Update is clamped to the configured
// saturation limits. While the recorder is armed, each Update call
// captures one (elapsed ms, measurement) sample; the call that fills
// the buffer hands the complete trace to the configured sink and
// disarms the recorder until the next [Controller.Record] or
// [Controller.SetSetpoint].
//
// A Controller is not safe for concurrent use. The expected caller is
// a single control loop invoking Update, SetSetpoint and Record
// strictly sequentially; anything else needs external locking.
package closedloop
