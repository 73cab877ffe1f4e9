package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 5.0
	DefaultKp       = 4.0
	DefaultKi       = 0.5
	DefaultKd       = 0.05
	DefaultLow      = -100.0
	DefaultHigh     = 100.0
)

type Config struct {
	Plant      string      `yaml:"plant"`
	Integrator string      `yaml:"integrator"`
	Dt         float64     `yaml:"dt"`
	Duration   float64     `yaml:"duration"`
	Setpoint   float64     `yaml:"setpoint"`
	Record     bool        `yaml:"record"`
	Gains      GainConfig  `yaml:"gains"`
	Limits     LimitConfig `yaml:"limits"`
	Motor      MotorConfig `yaml:"motor"`
}

type GainConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type LimitConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

type MotorConfig struct {
	Gain float64 `yaml:"gain"`
	Tau  float64 `yaml:"tau"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:      "motor",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Setpoint:   0,
		Gains: GainConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Limits: LimitConfig{
			Low:  DefaultLow,
			High: DefaultHigh,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
