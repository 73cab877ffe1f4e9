package config

var Presets = map[string]map[string]*Config{
	"motor": {
		"cruise": {
			Plant: "motor", Integrator: "rk4", Dt: 0.01, Duration: 5.0,
			Setpoint: 80,
			Gains:    GainConfig{Kp: 2.0, Ki: 0.8, Kd: 0.0},
			Limits:   LimitConfig{Low: -100, High: 100},
		},
		"sprint": {
			Plant: "motor", Integrator: "rk4", Dt: 0.005, Duration: 3.0,
			Setpoint: 150,
			Gains:    GainConfig{Kp: 6.0, Ki: 1.5, Kd: 0.0},
			Limits:   LimitConfig{Low: -100, High: 100},
		},
		"reverse": {
			Plant: "motor", Integrator: "rk4", Dt: 0.01, Duration: 5.0,
			Setpoint: -60,
			Gains:    GainConfig{Kp: 2.0, Ki: 0.8, Kd: 0.0},
			Limits:   LimitConfig{Low: -100, High: 100},
		},
	},
	"servo": {
		"step_small": {
			Plant: "servo", Integrator: "rk4", Dt: 0.01, Duration: 8.0,
			Setpoint: 3.14,
			Gains:    GainConfig{Kp: 12.0, Ki: 0.2, Kd: 1.5},
			Limits:   LimitConfig{Low: -100, High: 100},
		},
		"step_large": {
			Plant: "servo", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			Setpoint: 25.0,
			Gains:    GainConfig{Kp: 8.0, Ki: 0.1, Kd: 2.0},
			Limits:   LimitConfig{Low: -100, High: 100},
		},
		"gentle": {
			Plant: "servo", Integrator: "rk4", Dt: 0.01, Duration: 12.0,
			Setpoint: 1.57,
			Gains:    GainConfig{Kp: 3.0, Ki: 0.05, Kd: 0.8},
			Limits:   LimitConfig{Low: -40, High: 40},
		},
	},
}

func GetPreset(plant, preset string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	return names
}
