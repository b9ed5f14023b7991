package mas

import (
	"math"

	"github.com/google/uuid"
)

// Uncapped is the staged power limit of a proxy whose WECS may run at full
// rated power. It is the initial value and the value the controller resets
// caps to when the park total drops back under the feed-in limit.
func Uncapped() float64 { return math.Inf(1) }

// WecsAgent is the agent-side mirror of one simulated WECS. It holds the
// latest active power observed for its entity and the power limit staged
// for the next physical step. All accessors are routed through the agent's
// container mailbox.
type WecsAgent struct {
	id        string
	entity    string
	pRated    float64
	container *Container

	// container-owned state, touched only inside container.invoke
	p    float64
	pMax float64
}

// SpawnWecsAgent creates a proxy for the given park entity inside
// container c.
func SpawnWecsAgent(c *Container, entity string, pRated float64) *WecsAgent {
	return &WecsAgent{
		id:        uuid.NewString(),
		entity:    entity,
		pRated:    pRated,
		container: c,
		pMax:      Uncapped(),
	}
}

// ID returns the agent's unique id.
func (a *WecsAgent) ID() string { return a.id }

// Entity returns the park entity id this agent mirrors.
func (a *WecsAgent) Entity() string { return a.entity }

// PRated returns the rated power of the mirrored WECS.
func (a *WecsAgent) PRated() float64 { return a.pRated }

// UpdateState stores the active power reported for the mirrored WECS.
func (a *WecsAgent) UpdateState(p float64) {
	a.container.invoke(func() { a.p = p })
}

// P returns the latest observed active power. Called by the controller
// when it aggregates the park feed-in.
func (a *WecsAgent) P() float64 {
	var p float64
	a.container.invoke(func() { p = a.p })
	return p
}

// SetPMax stages a new power limit for the mirrored WECS. Pass Uncapped()
// to remove the limit.
func (a *WecsAgent) SetPMax(pMax float64) {
	a.container.invoke(func() { a.pMax = pMax })
}

// PMax returns the power limit currently staged for the next step.
func (a *WecsAgent) PMax() float64 {
	var pMax float64
	a.container.invoke(func() { pMax = a.pMax })
	return pMax
}
