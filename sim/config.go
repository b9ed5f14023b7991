package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WecsGroup declares count identical WECS in the scenario file.
type WecsGroup struct {
	Count  int     `yaml:"count"`
	PRated float64 `yaml:"p_rated"`
	VRated float64 `yaml:"v_rated"`
	VMin   float64 `yaml:"v_min"`
	VMax   float64 `yaml:"v_max"`
}

// ControllerSpec configures the feed-in controller of the scenario.
type ControllerSpec struct {
	MaxFeedin     float64 `yaml:"max_feedin"`     // aggregate park output limit in kW
	CheckInterval int64   `yaml:"check_interval"` // seconds between feed-in checks
}

// Scenario is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Duration    int64          `yaml:"duration"`  // simulated seconds
	StepSize    int64          `yaml:"step_size"` // seconds per physical step
	WindFile    string         `yaml:"wind_file"`
	ArchiveFile string         `yaml:"archive_file"`
	Wecs        []WecsGroup    `yaml:"wecs"`
	Controller  ControllerSpec `yaml:"controller"`
	Containers  int            `yaml:"containers,omitempty"` // agent containers; 0 = NumCPU
}

// LoadScenario reads and parses a scenario file. Unknown keys are rejected
// so a typo in the scenario does not silently fall back to a default.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &scenario, nil
}

// Validate checks that all fields of the scenario are usable. Any violation
// is a configuration error: it is reported before the run starts and no run
// starts after it.
func (s *Scenario) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", s.Duration)
	}
	if s.StepSize <= 0 {
		return fmt.Errorf("step_size must be positive, got %d", s.StepSize)
	}
	if s.WindFile == "" {
		return fmt.Errorf("wind_file is required")
	}
	if len(s.Wecs) == 0 {
		return fmt.Errorf("at least one wecs group required")
	}
	for i, g := range s.Wecs {
		if g.Count < 1 {
			return fmt.Errorf("wecs[%d]: count must be >= 1, got %d", i, g.Count)
		}
		if err := g.Config().Validate(); err != nil {
			return fmt.Errorf("wecs[%d]: %w", i, err)
		}
	}
	if s.Controller.MaxFeedin <= 0 {
		return fmt.Errorf("controller.max_feedin must be positive, got %f", s.Controller.MaxFeedin)
	}
	if s.Controller.CheckInterval < s.StepSize || s.Controller.CheckInterval%s.StepSize != 0 {
		return fmt.Errorf("controller.check_interval must be a positive multiple of step_size, got %d",
			s.Controller.CheckInterval)
	}
	if s.Containers < 0 {
		return fmt.Errorf("containers must be >= 0, got %d", s.Containers)
	}
	return nil
}

// Config returns the physical parameter set shared by the group's WECS.
func (g WecsGroup) Config() WecsConfig {
	return WecsConfig{PRated: g.PRated, VRated: g.VRated, VMin: g.VMin, VMax: g.VMax}
}

// WecsConfigs expands the scenario groups into one config per WECS, in
// park order.
func (s *Scenario) WecsConfigs() []WecsConfig {
	var configs []WecsConfig
	for _, g := range s.Wecs {
		for i := 0; i < g.Count; i++ {
			configs = append(configs, g.Config())
		}
	}
	return configs
}
