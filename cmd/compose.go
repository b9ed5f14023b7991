package cmd

import (
	"fmt"

	"github.com/windpark-sim/windpark-sim/mas"
	sim "github.com/windpark-sim/windpark-sim/sim"
	"github.com/windpark-sim/windpark-sim/sim/archive"
)

// runScenario composes the park, wind trace, agent system, and archive from
// a validated scenario, runs the simulation, and summarizes the archive.
func runScenario(scenario *sim.Scenario) (*archive.Summary, error) {
	configs := scenario.WecsConfigs()
	park, err := sim.NewPark(configs)
	if err != nil {
		return nil, err
	}

	wind, err := sim.OpenWindTrace(scenario.WindFile, park.Count())
	if err != nil {
		return nil, err
	}
	defer wind.Close()

	recorder, err := archive.Create(scenario.ArchiveFile)
	if err != nil {
		return nil, err
	}

	entities := make([]mas.EntityConfig, len(configs))
	for i, id := range park.IDs() {
		entities[i] = mas.EntityConfig{ID: id, PRated: configs[i].PRated}
	}
	agents, err := mas.BuildSystem(mas.SystemConfig{
		MaxFeedin:  scenario.Controller.MaxFeedin,
		Containers: scenario.Containers,
		Entities:   entities,
	})
	if err != nil {
		recorder.Close()
		return nil, err
	}
	defer agents.Shutdown()

	simulator, err := sim.NewSimulator(sim.RunConfig{
		Duration:      scenario.Duration,
		StepSize:      scenario.StepSize,
		CheckInterval: scenario.Controller.CheckInterval,
	}, park, wind, agents, recorder)
	if err != nil {
		recorder.Close()
		return nil, err
	}

	if err := simulator.Run(); err != nil {
		recorder.Close()
		return nil, err
	}
	if err := recorder.Close(); err != nil {
		return nil, err
	}

	records, err := archive.ReadFile(scenario.ArchiveFile)
	if err != nil {
		return nil, fmt.Errorf("reading back archive: %w", err)
	}
	return archive.Summarize(records), nil
}
