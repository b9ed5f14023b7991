package mas

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Gateway relays state between the physical simulation and the agent
// population. It has no decision logic of its own: every output pushed in
// reaches exactly one proxy, and every staged cap is pulled back out, both
// in park order. An output for an unknown entity is a relay error and
// aborts the run.
type Gateway struct {
	agents map[string]*WecsAgent // entity id -> proxy
}

// NewGateway creates an empty gateway.
func NewGateway() *Gateway {
	return &Gateway{agents: make(map[string]*WecsAgent)}
}

// Add attaches a proxy to the gateway. Each entity id may be attached once.
func (g *Gateway) Add(a *WecsAgent) error {
	if _, ok := g.agents[a.Entity()]; ok {
		return fmt.Errorf("gateway already relays for %s", a.Entity())
	}
	g.agents[a.Entity()] = a
	return nil
}

// PushOutputs forwards the active power of every entity to its proxy.
// ids and p are parallel slices in park order.
func (g *Gateway) PushOutputs(ids []string, p []float64) error {
	if len(ids) != len(p) {
		return fmt.Errorf("pushing %d outputs for %d entities", len(p), len(ids))
	}
	agents, err := g.resolve(ids)
	if err != nil {
		return err
	}
	var eg errgroup.Group
	for i, agent := range agents {
		i, agent := i, agent
		eg.Go(func() error {
			agent.UpdateState(p[i])
			return nil
		})
	}
	return eg.Wait()
}

// PullCaps collects the staged power limit of every entity, in the order
// of ids. Uncapped entities report +Inf.
func (g *Gateway) PullCaps(ids []string) ([]float64, error) {
	agents, err := g.resolve(ids)
	if err != nil {
		return nil, err
	}
	pMax := make([]float64, len(ids))
	var eg errgroup.Group
	for i, agent := range agents {
		i, agent := i, agent
		eg.Go(func() error {
			pMax[i] = agent.PMax()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pMax, nil
}

// resolve maps entity ids to their proxies, failing on the first unknown id
// before any relay work starts.
func (g *Gateway) resolve(ids []string) ([]*WecsAgent, error) {
	agents := make([]*WecsAgent, len(ids))
	for i, id := range ids {
		agent, ok := g.agents[id]
		if !ok {
			return nil, fmt.Errorf("no agent registered for %s", id)
		}
		agents[i] = agent
	}
	return agents, nil
}
