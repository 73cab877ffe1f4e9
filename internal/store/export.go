package store

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	ID           string             `json:"id"`
	Plant        string             `json:"plant"`
	Integrator   string             `json:"integrator"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Setpoint     float64            `json:"setpoint"`
	Steps        int                `json:"steps"`
	Times        []float64          `json:"times"`
	Measurements []float64          `json:"measurements"`
	Duties       []float64          `json:"duties"`
	Metrics      map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, times, measurements, duties []float64) error {
	data := ExportData{
		ID:           meta.ID,
		Plant:        meta.Plant,
		Integrator:   meta.Integrator,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Setpoint:     meta.Setpoint,
		Steps:        len(times),
		Times:        times,
		Measurements: measurements,
		Duties:       duties,
		Metrics:      meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
