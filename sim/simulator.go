// Package sim simulates a park of wind energy conversion systems (WECS)
// driven by a discrete time axis, together with the event loop that plays
// the role of the co-simulation orchestrator: it advances time, steps the
// park, lets the agent system stage power limits, and feeds the archive.
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/windpark-sim/windpark-sim/sim/archive"
)

// AgentSystem is the surface the simulator drives each step. Implemented by
// mas.System; tests may substitute their own.
type AgentSystem interface {
	// PushOutputs delivers the active power of every entity to its proxy.
	PushOutputs(ids []string, p []float64) error
	// PullCaps returns the staged power limit of every entity; +Inf means
	// uncapped.
	PullCaps(ids []string) ([]float64, error)
	// CheckFeedin runs one controller activation.
	CheckFeedin() error
}

// WindSource yields one wind speed vector per step and io.EOF at the end of
// the trace. Implemented by WindTrace.
type WindSource interface {
	Next() ([]float64, error)
}

// Recorder accepts the archive batch of a completed step. Implemented by
// archive.Writer.
type Recorder interface {
	Append(batch []archive.Record) error
}

// EventQueue implements heap.Interface and orders events by timestamp,
// breaking ties by phase.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Timestamp() != eq[j].Timestamp() {
		return eq[i].Timestamp() < eq[j].Timestamp()
	}
	return eq[i].Phase() < eq[j].Phase()
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// RunConfig groups the timing parameters of one run.
type RunConfig struct {
	Duration      int64 // simulated seconds
	StepSize      int64 // seconds per physical step
	CheckInterval int64 // seconds between feed-in checks; multiple of StepSize
}

// Simulator is the core object that holds simulation time, the park, the
// attached agent system, and the event loop.
type Simulator struct {
	Clock         int64
	Duration      int64
	StepSize      int64
	CheckInterval int64

	EventQueue EventQueue
	Park       *Park
	Agents     AgentSystem
	Wind       WindSource
	Recorder   Recorder

	StepCount int

	failure error
	halted  bool
}

// NewSimulator wires the park, wind source, agent system, and recorder into
// a simulator and schedules the initial events at t=0.
func NewSimulator(cfg RunConfig, park *Park, wind WindSource, agents AgentSystem, recorder Recorder) (*Simulator, error) {
	if cfg.Duration <= 0 || cfg.StepSize <= 0 {
		return nil, fmt.Errorf("duration and step size must be positive, got %d/%d", cfg.Duration, cfg.StepSize)
	}
	if cfg.CheckInterval < cfg.StepSize || cfg.CheckInterval%cfg.StepSize != 0 {
		return nil, fmt.Errorf("check interval %d is not a multiple of step size %d", cfg.CheckInterval, cfg.StepSize)
	}
	s := &Simulator{
		Duration:      cfg.Duration,
		StepSize:      cfg.StepSize,
		CheckInterval: cfg.CheckInterval,
		EventQueue:    make(EventQueue, 0),
		Park:          park,
		Agents:        agents,
		Wind:          wind,
		Recorder:      recorder,
	}
	s.Schedule(&ParkStepEvent{time: 0})
	s.Schedule(&FeedinCheckEvent{time: 0})
	return s, nil
}

// Schedule pushes an event into the simulator's event queue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, ev)
}

// Run drains the event queue until the scenario duration is covered, the
// wind trace ends, or an event fails. The first failure aborts the run;
// nothing is retried.
func (sim *Simulator) Run() error {
	for len(sim.EventQueue) > 0 {
		ev := heap.Pop(&sim.EventQueue).(Event)
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
		if sim.failure != nil {
			return fmt.Errorf("t=%ds: %w", sim.Clock, sim.failure)
		}
		if sim.halted {
			break
		}
	}
	logrus.Infof("run finished after %d steps (t=%ds)", sim.StepCount, sim.Clock)
	return nil
}

// fail records the first error and stops the run.
func (sim *Simulator) fail(err error) {
	if sim.failure == nil {
		sim.failure = err
	}
}

// halt ends the run cleanly, dropping all pending events.
func (sim *Simulator) halt() {
	sim.halted = true
	sim.EventQueue = sim.EventQueue[:0]
}
