package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
duration: 86400
step_size: 900
wind_file: data/wind.csv
archive_file: out/run.csv
wecs:
  - count: 2
    p_rated: 2000
    v_rated: 12
    v_min: 2.0
    v_max: 25
  - count: 1
    p_rated: 5000
    v_rated: 13
    v_min: 3.5
    v_max: 25
controller:
  max_feedin: 7000
  check_interval: 900
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validScenario() *Scenario {
	return &Scenario{
		Duration:    86400,
		StepSize:    900,
		WindFile:    "data/wind.csv",
		ArchiveFile: "out/run.csv",
		Wecs: []WecsGroup{
			{Count: 2, PRated: 2000, VRated: 12, VMin: 2.0, VMax: 25},
			{Count: 1, PRated: 5000, VRated: 13, VMin: 3.5, VMax: 25},
		},
		Controller: ControllerSpec{MaxFeedin: 7000, CheckInterval: 900},
	}
}

func TestLoadScenario_ParsesAllFields(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, validScenario(), scenario)
	assert.NoError(t, scenario.Validate())
}

func TestLoadScenario_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "duration: 10\nwind_speed_file: x\n"))
	assert.Error(t, err)
}

func TestScenario_WecsConfigs_ExpandsGroups(t *testing.T) {
	configs := validScenario().WecsConfigs()
	require.Len(t, configs, 3)
	assert.Equal(t, WecsConfig{PRated: 2000, VRated: 12, VMin: 2.0, VMax: 25}, configs[0])
	assert.Equal(t, configs[0], configs[1])
	assert.Equal(t, WecsConfig{PRated: 5000, VRated: 13, VMin: 3.5, VMax: 25}, configs[2])
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"zero duration", func(s *Scenario) { s.Duration = 0 }},
		{"zero step size", func(s *Scenario) { s.StepSize = 0 }},
		{"missing wind file", func(s *Scenario) { s.WindFile = "" }},
		{"no wecs groups", func(s *Scenario) { s.Wecs = nil }},
		{"zero group count", func(s *Scenario) { s.Wecs[0].Count = 0 }},
		{"bad wecs thresholds", func(s *Scenario) { s.Wecs[0].VMin = 13 }},
		{"negative ceiling", func(s *Scenario) { s.Controller.MaxFeedin = -1 }},
		{"check interval below step size", func(s *Scenario) { s.Controller.CheckInterval = 450 }},
		{"check interval not a multiple", func(s *Scenario) { s.Controller.CheckInterval = 1000 }},
		{"negative containers", func(s *Scenario) { s.Containers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := validScenario()
			tt.mutate(scenario)
			assert.Error(t, scenario.Validate())
		})
	}
}

func TestScenario_Validate_CoarserCheckInterval(t *testing.T) {
	scenario := validScenario()
	scenario.Controller.CheckInterval = 3600 // four physical steps per check
	assert.NoError(t, scenario.Validate())
}
