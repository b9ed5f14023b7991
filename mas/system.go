package mas

import (
	"fmt"
)

// EntityConfig describes one park entity an agent should mirror.
type EntityConfig struct {
	ID     string
	PRated float64
}

// SystemConfig bundles everything needed to build the agent system.
type SystemConfig struct {
	MaxFeedin  float64
	Containers int // 0 = one per CPU core
	Entities   []EntityConfig
}

// System is the assembled multi-agent system of one run: the container
// pool, one WecsAgent per park entity, the feed-in controller, and the
// gateway. It is the surface the simulator drives.
type System struct {
	pool       *ContainerPool
	gateway    *Gateway
	controller *Controller
	agents     []*WecsAgent
}

// BuildSystem starts the containers, spawns one agent per entity
// (round-robin over the containers) and registers each with the controller
// and the gateway.
func BuildSystem(cfg SystemConfig) (*System, error) {
	if len(cfg.Entities) == 0 {
		return nil, fmt.Errorf("agent system needs at least one entity")
	}
	controller, err := NewController(cfg.MaxFeedin)
	if err != nil {
		return nil, err
	}

	sys := &System{
		pool:       NewContainerPool(cfg.Containers),
		gateway:    NewGateway(),
		controller: controller,
	}
	for i, entity := range cfg.Entities {
		agent := SpawnWecsAgent(sys.pool.Container(i), entity.ID, entity.PRated)
		if err := sys.controller.Register(agent); err != nil {
			sys.Shutdown()
			return nil, err
		}
		if err := sys.gateway.Add(agent); err != nil {
			sys.Shutdown()
			return nil, err
		}
		sys.agents = append(sys.agents, agent)
	}
	return sys, nil
}

// PushOutputs relays fresh park outputs to the proxies.
func (s *System) PushOutputs(ids []string, p []float64) error {
	return s.gateway.PushOutputs(ids, p)
}

// PullCaps relays the staged power limits back to the simulation.
func (s *System) PullCaps(ids []string) ([]float64, error) {
	return s.gateway.PullCaps(ids)
}

// CheckFeedin runs one controller activation.
func (s *System) CheckFeedin() error {
	return s.controller.CheckFeedin()
}

// Controller exposes the feed-in controller, mainly for inspection.
func (s *System) Controller() *Controller {
	return s.controller
}

// Shutdown stops all agent containers.
func (s *System) Shutdown() {
	s.pool.Shutdown()
}
