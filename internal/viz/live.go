// Package viz renders a live terminal view of a closed-loop run.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/Panzon1496/405Labs/internal/closedloop"
	"github.com/Panzon1496/405Labs/internal/loop"
)

const (
	graphWidth      = 80
	graphHeight     = 12
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

// Model steps the plant and controller in real time and draws the
// measured value against the setpoint.
type Model struct {
	plant      loop.Plant
	integrator loop.Integrator
	ctrl       *closedloop.Controller
	plantName  string

	state     loop.State
	initState loop.State
	t         float64
	dt        float64
	duty      float64

	running bool
	err     error

	history []float64
	duties  []float64
}

func NewModel(plant loop.Plant, integrator loop.Integrator, ctrl *closedloop.Controller, x0 loop.State, dt float64, plantName string) Model {
	return Model{
		plant:      plant,
		integrator: integrator,
		ctrl:       ctrl,
		plantName:  plantName,
		state:      x0.Clone(),
		initState:  x0.Clone(),
		dt:         dt,
		running:    true,
		history:    make([]float64, 0, historyCapacity),
		duties:     make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.ctrl.Record()
		case "0":
			m.state = m.initState.Clone()
			m.t = 0
			m.history = m.history[:0]
			m.duties = m.duties[:0]
		case "up":
			kp, _, _ := m.ctrl.Gains()
			m.ctrl.SetControlGain(kp * 1.1)
		case "down":
			kp, _, _ := m.ctrl.Gains()
			m.ctrl.SetControlGain(kp / 1.1)
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			m = m.step()
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) step() Model {
	// Advance one frame of wall time in dt-sized control steps.
	substeps := int(1.0 / frameRate / m.dt)
	if substeps < 1 {
		substeps = 1
	}

	for i := 0; i < substeps; i++ {
		y := m.plant.Output(m.state)
		u, err := m.ctrl.Update(y, m.dt)
		if err != nil {
			m.err = err
			return m
		}
		m.duty = u
		m.state = m.integrator.Step(m.plant, m.state, u, m.t, m.dt)
		m.t += m.dt

		m.history = append(m.history, y)
		m.duties = append(m.duties, u)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
			m.duties = m.duties[1:]
		}
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  t=%.2fs", m.plantName, m.t)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("measurement"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(m.statsView())
	b.WriteString(helpStyle.Render("space pause · r record trace · up/down kp · 0 reset · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) statsView() string {
	kp, ki, kd := m.ctrl.Gains()
	y := m.plant.Output(m.state)

	rows := []string{
		statRow("setpoint", fmt.Sprintf("%.3f", m.ctrl.Setpoint())),
		statRow("measured", fmt.Sprintf("%.3f", y)),
		statRow("error", fmt.Sprintf("%.3f", m.ctrl.Setpoint()-y)),
		statRow("duty", fmt.Sprintf("%.1f", m.duty)),
		statRow("gains", fmt.Sprintf("kp=%.3g ki=%.3g kd=%.3g", kp, ki, kd)),
		statRow("recorder", m.recorderStatus()),
	}
	if !m.running {
		rows = append(rows, pausedStyle.Render("PAUSED"))
	}
	if m.err != nil {
		rows = append(rows, recStyle.Render("error: "+m.err.Error()))
	}

	return statsStyle.Render(strings.Join(rows, "\n")) + "\n"
}

func (m Model) recorderStatus() string {
	if m.ctrl.Recording() {
		return recStyle.Render(fmt.Sprintf("REC %d/%d", m.ctrl.TraceLen(), closedloop.TraceCapacity))
	}
	return "idle"
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
