// Package loop runs a plant model in closed loop with a controller at
// a fixed cadence, standing in for the hardware task loop of the lab
// rig.
package loop

import (
	"context"
	"fmt"

	"github.com/Panzon1496/405Labs/internal/closedloop"
)

type Runner struct {
	plant      Plant
	integrator Integrator
	controller *closedloop.Controller
	metrics    []Metric
	observers  []Observer
}

func New(plant Plant, integrator Integrator, controller *closedloop.Controller) *Runner {
	return &Runner{
		plant:      plant,
		integrator: integrator,
		controller: controller,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run drives the plant from x0 for the configured duration. Each step
// measures the plant output, asks the controller for an actuation
// command and integrates the plant under that command for one dt.
func (r *Runner) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:        make([]float64, 0, steps),
		States:       make([]State, 0, steps),
		Measurements: make([]float64, 0, steps),
		Actuations:   make([]float64, 0, steps),
		Metrics:      make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		y := r.plant.Output(x)
		u, err := r.controller.Update(y, cfg.Dt)
		if err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}

		for _, m := range r.metrics {
			m.Observe(y, u, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(x, y, u, t)
		}

		x = r.integrator.Step(r.plant, x, u, t, cfg.Dt)
		t += cfg.Dt

		result.Times = append(result.Times, t)
		result.States = append(result.States, x.Clone())
		result.Measurements = append(result.Measurements, y)
		result.Actuations = append(result.Actuations, u)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
