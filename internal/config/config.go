// Package config loads run and server settings from YAML.
//
// Values missing from the file take the defaults from Default. Command-line
// flags are applied by the caller after Load and re-checked with Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"uk.ac.bris.cs/rule110/rule110"
)

// MaxFileSize bounds the config file read from disk.
const MaxFileSize = 1024 * 1024

// Config is the root of the YAML document.
type Config struct {
	Run    RunConfig    `yaml:"run"`
	Server ServerConfig `yaml:"server"`
}

type RunConfig struct {
	Length      int    `yaml:"length" validate:"gte=3"`
	Generations int    `yaml:"generations" validate:"gte=0"`
	Workers     int    `yaml:"workers" validate:"gte=1"`
	Boundary    string `yaml:"boundary" validate:"omitempty,oneof=fixed wrap"`
	// Seed is "wolfram", "single", or an explicit string of 0s and 1s
	// which then sets the length.
	Seed string `yaml:"seed" validate:"omitempty,seed"`
	Rule uint8  `yaml:"rule"`
	// Sequential runs the single-threaded baseline instead.
	Sequential bool `yaml:"sequential"`
}

type ServerConfig struct {
	Address        string `yaml:"address" validate:"required,hostname_port"`
	MetricsAddress string `yaml:"metrics_address" validate:"omitempty,hostname_port"`
}

// Default mirrors the MathWorld benchmark: a 1002-cell Wolfram seed run for
// 10000 generations on 4 workers.
func Default() Config {
	return Config{
		Run: RunConfig{
			Length:      1002,
			Generations: 10000,
			Workers:     4,
			Boundary:    "fixed",
			Seed:        "wolfram",
		},
		Server: ServerConfig{
			Address: "127.0.0.1:8030",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("seed", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return namedSeed(s) || strings.Trim(s, "01") == ""
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return Config{}, fmt.Errorf("config: %s is %d bytes, limit %d", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field ranges and that the workers fit the tape.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: %s fails %q (value %v)", f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if n := c.Run.Cells(); c.Run.Workers > n && !c.Run.Sequential {
		return fmt.Errorf("config: %d workers for %d cells: %w", c.Run.Workers, n, rule110.ErrInvalidPartitionRequest)
	}
	return nil
}

func namedSeed(s string) bool {
	return s == "" || s == "wolfram" || s == "single"
}

// Cells is the tape length: the length of an explicit seed, else Length.
func (r RunConfig) Cells() int {
	if !namedSeed(r.Seed) {
		return len(r.Seed)
	}
	return r.Length
}

// Params converts the run section.
func (r RunConfig) Params() (rule110.Params, error) {
	b, err := rule110.ParseBoundary(r.Boundary)
	if err != nil {
		return rule110.Params{}, err
	}
	return rule110.Params{
		Generations: r.Generations,
		Workers:     r.Workers,
		Boundary:    b,
		Rule:        rule110.Rule(r.Rule),
	}, nil
}

// Tape builds the initial tape from Seed and Length.
func (r RunConfig) Tape() (rule110.Tape, error) {
	switch r.Seed {
	case "", "wolfram":
		return rule110.WolframSeed(r.Length), nil
	case "single":
		return rule110.SingleCell(r.Length), nil
	}
	return rule110.ParseTape(r.Seed)
}
