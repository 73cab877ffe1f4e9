package loop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Panzon1496/405Labs/internal/closedloop"
	"github.com/Panzon1496/405Labs/internal/loop"
)

// firstOrder is y' = (gain*u - y)/tau, measuring the state itself.
type firstOrder struct {
	gain, tau float64
}

func (p *firstOrder) Derive(x loop.State, u float64, t float64) loop.State {
	return loop.State{(p.gain*u - x[0]) / p.tau}
}

func (p *firstOrder) StateDim() int               { return 1 }
func (p *firstOrder) Output(x loop.State) float64 { return x[0] }

type eulerStep struct{}

func (eulerStep) Step(p loop.Plant, x loop.State, u float64, t float64, dt float64) loop.State {
	dx := p.Derive(x, u, t)
	next := make(loop.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}

type stepCounter struct {
	n int
}

func (c *stepCounter) Name() string                      { return "steps_observed" }
func (c *stepCounter) Observe(measurement, u, t float64) { c.n++ }
func (c *stepCounter) Value() float64                    { return float64(c.n) }
func (c *stepCounter) Reset()                            { c.n = 0 }

var _ = Describe("Runner", func() {
	var plant *firstOrder

	newController := func(kp, setpoint float64) *closedloop.Controller {
		ctrl, err := closedloop.New(closedloop.Config{Kp: kp, Setpoint: setpoint})
		Expect(err).NotTo(HaveOccurred())
		return ctrl
	}

	BeforeEach(func() {
		plant = &firstOrder{gain: 2, tau: 0.1}
	})

	It("records one entry per step", func() {
		r := loop.New(plant, eulerStep{}, newController(1, 1))

		result, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0.01, Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Times).To(HaveLen(50))
		Expect(result.Measurements).To(HaveLen(50))
		Expect(result.Actuations).To(HaveLen(50))
		Expect(result.States).To(HaveLen(50))
	})

	It("converges to the proportional steady state", func() {
		// Loop gain L = kp*gain; first-order closed loop settles at
		// setpoint * L/(1+L).
		r := loop.New(plant, eulerStep{}, newController(4, 9))

		result, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0.001, Duration: 2})
		Expect(err).NotTo(HaveOccurred())

		final := result.Measurements[len(result.Measurements)-1]
		Expect(final).To(BeNumerically("~", 8.0, 0.01))
	})

	It("keeps every actuation within the controller limits", func() {
		ctrl, err := closedloop.New(closedloop.Config{
			Kp:       500,
			Setpoint: 50,
			Limits:   &closedloop.Limits{Low: -25, High: 25},
		})
		Expect(err).NotTo(HaveOccurred())

		r := loop.New(plant, eulerStep{}, ctrl)
		result, err := r.Run(context.Background(), loop.State{-100}, loop.Config{Dt: 0.001, Duration: 1})
		Expect(err).NotTo(HaveOccurred())

		for _, u := range result.Actuations {
			Expect(u).To(And(BeNumerically(">=", -25), BeNumerically("<=", 25)))
		}
	})

	It("rejects a non-positive timestep", func() {
		r := loop.New(plant, eulerStep{}, newController(1, 1))

		_, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0, Duration: 1})
		Expect(err).To(MatchError(ContainSubstring("dt must be positive")))
	})

	It("rejects a non-positive duration", func() {
		r := loop.New(plant, eulerStep{}, newController(1, 1))

		_, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0.01, Duration: -1})
		Expect(err).To(MatchError(ContainSubstring("duration must be positive")))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := loop.New(plant, eulerStep{}, newController(1, 1))
		result, err := r.Run(ctx, loop.State{0}, loop.Config{Dt: 0.01, Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Times).To(BeEmpty())
	})

	It("collects metric values into the result", func() {
		r := loop.New(plant, eulerStep{}, newController(1, 1))
		counter := &stepCounter{}
		r.AddMetric(counter)

		result, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0.01, Duration: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("steps_observed", 100.0))
	})

	It("notifies observers on every step", func() {
		r := loop.New(plant, eulerStep{}, newController(1, 1))

		var seen int
		r.AddObserver(observerFunc(func(x loop.State, measurement, u, t float64) {
			seen++
		}))

		_, err := r.Run(context.Background(), loop.State{0}, loop.Config{Dt: 0.01, Duration: 0.3})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(30))
	})
})

type observerFunc func(x loop.State, measurement, u, t float64)

func (f observerFunc) OnStep(x loop.State, measurement, u, t float64) {
	f(x, measurement, u, t)
}
