package sim

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/windpark-sim/windpark-sim/sim/archive"
)

// Event defines the interface for all simulation events. Each event has a
// Timestamp (seconds of simulated time) and an Execute method that advances
// simulation state when invoked. Phase breaks ties between events scheduled
// at the same timestamp: the park always steps before the controller checks,
// so a check observes the outputs of the step that just completed.
type Event interface {
	Timestamp() int64
	Phase() int
	Execute(*Simulator)
}

// Execution phases at equal timestamps.
const (
	phasePark = iota
	phaseCheck
)

// ParkStepEvent advances the physical simulation by one step: pending power
// limits are pulled from the agents, the park is stepped with the next wind
// row, fresh outputs are pushed back to the agents, and the completed step
// is archived.
type ParkStepEvent struct {
	time int64
}

// Timestamp returns the scheduled time of the ParkStepEvent.
func (e *ParkStepEvent) Timestamp() int64 { return e.time }

// Phase orders the park step before any check at the same time.
func (e *ParkStepEvent) Phase() int { return phasePark }

// Execute runs one physical step.
func (e *ParkStepEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< ParkStep at t=%ds", e.time)

	ids := sim.Park.IDs()

	// Power limits staged by the last feed-in check; +Inf means uncapped.
	caps, err := sim.Agents.PullCaps(ids)
	if err != nil {
		sim.fail(err)
		return
	}
	pRated := sim.Park.PRated()
	pMax := make([]float64, len(caps))
	for i, limit := range caps {
		pMax[i] = math.Min(limit, pRated[i])
	}
	if err := sim.Park.SetPMax(pMax); err != nil {
		sim.fail(err)
		return
	}

	v, err := sim.Wind.Next()
	if err == io.EOF {
		logrus.Infof("wind trace exhausted at t=%ds, ending run", e.time)
		sim.halt()
		return
	}
	if err != nil {
		sim.fail(err)
		return
	}

	if err := sim.Park.Step(v); err != nil {
		sim.fail(err)
		return
	}
	p := sim.Park.P()

	if err := sim.Agents.PushOutputs(ids, p); err != nil {
		sim.fail(err)
		return
	}

	batch := make([]archive.Record, len(ids))
	for i, id := range ids {
		batch[i] = archive.Record{Time: e.time, Wecs: id, V: v[i], P: p[i], PMax: caps[i]}
	}
	if err := sim.Recorder.Append(batch); err != nil {
		sim.fail(err)
		return
	}

	sim.StepCount++
	if next := e.time + sim.StepSize; next < sim.Duration {
		sim.Schedule(&ParkStepEvent{time: next})
	}
}

// FeedinCheckEvent runs one controller activation over the agent
// population. It fires on the controller's own, coarser period; between
// activations the previously staged caps stay in effect.
type FeedinCheckEvent struct {
	time int64
}

// Timestamp returns the scheduled time of the FeedinCheckEvent.
func (e *FeedinCheckEvent) Timestamp() int64 { return e.time }

// Phase orders the check after the park step at the same time.
func (e *FeedinCheckEvent) Phase() int { return phaseCheck }

// Execute runs one feed-in check.
func (e *FeedinCheckEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< FeedinCheck at t=%ds", e.time)

	if err := sim.Agents.CheckFeedin(); err != nil {
		sim.fail(err)
		return
	}
	if next := e.time + sim.CheckInterval; next < sim.Duration {
		sim.Schedule(&FeedinCheckEvent{time: next})
	}
}
