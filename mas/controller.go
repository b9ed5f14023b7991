package mas

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Controller knows all WecsAgents of its wind park. On every check it
// collects their current power outputs and, if the park total exceeds
// maxFeedin, throttles every WECS by the same fraction so the corrected
// total equals the limit exactly (proportional fairness). If the total is
// back under the limit, all caps are cleared.
type Controller struct {
	maxFeedin float64

	agents   []*WecsAgent // registration order
	byEntity map[string]*WecsAgent

	// lastFactor is the most recent scale factor; 1 while uncapped.
	lastFactor float64
}

// NewController creates a controller enforcing the given feed-in limit.
func NewController(maxFeedin float64) (*Controller, error) {
	if maxFeedin <= 0 {
		return nil, fmt.Errorf("max_feedin must be positive, got %v", maxFeedin)
	}
	return &Controller{
		maxFeedin:  maxFeedin,
		byEntity:   make(map[string]*WecsAgent),
		lastFactor: 1,
	}, nil
}

// Register adds a WecsAgent to the controller. Each park entity may only
// register once.
func (c *Controller) Register(a *WecsAgent) error {
	if _, ok := c.byEntity[a.Entity()]; ok {
		return fmt.Errorf("agent for %s already registered", a.Entity())
	}
	c.agents = append(c.agents, a)
	c.byEntity[a.Entity()] = a
	return nil
}

// Agents returns the number of registered agents.
func (c *Controller) Agents() int {
	return len(c.agents)
}

// LastFactor returns the scale factor computed by the most recent check;
// 1 while the park runs uncapped.
func (c *Controller) LastFactor() float64 {
	return c.lastFactor
}

// CheckFeedin runs one feed-in check over all registered agents.
//
// The check is the single synchronization point of the system: it reads
// every proxy's output for the completed step exactly once, then stages the
// new caps before any proxy state for the next period is written. Running
// it twice on unchanged outputs stages identical caps.
func (c *Controller) CheckFeedin() error {
	feedin := make([]float64, len(c.agents))
	var g errgroup.Group
	for i, a := range c.agents {
		i, a := i, a
		g.Go(func() error {
			feedin[i] = a.P()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := floats.Sum(feedin)
	if total == 0 {
		// All WECS idle. Nothing to correct, and no factor to compute.
		return nil
	}

	var set errgroup.Group
	if total > c.maxFeedin {
		factor := c.maxFeedin / total
		c.lastFactor = factor
		pMax := make([]float64, len(feedin))
		copy(pMax, feedin)
		floats.Scale(factor, pMax)
		logrus.Debugf("feed-in %.1f kW over limit %.1f kW, scaling all WECS by %.4f",
			total, c.maxFeedin, factor)

		for i, a := range c.agents {
			i, a := i, a
			set.Go(func() error {
				a.SetPMax(pMax[i])
				return nil
			})
		}
	} else {
		c.lastFactor = 1
		logrus.Debugf("feed-in %.1f kW within limit %.1f kW, clearing caps", total, c.maxFeedin)
		for _, a := range c.agents {
			a := a
			set.Go(func() error {
				a.SetPMax(Uncapped())
				return nil
			})
		}
	}
	return set.Wait()
}
