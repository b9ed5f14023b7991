// Package mas holds the multi-agent system of the wind park: one proxy
// agent per WECS, a feed-in controller, and the gateway that relays state
// between the physical simulation and the agents.
//
// Agents live in containers. A container is a single goroutine draining a
// mailbox of calls, so everything running inside one container is
// serialized and the agents never share mutable state with their callers.
// Distributing agents over several containers is a throughput illustration,
// not a correctness requirement; every contract holds with one container.
package mas

import (
	"runtime"
)

// call is one unit of work delivered to a container mailbox.
type call struct {
	fn   func()
	done chan struct{}
}

// Container executes agent calls from its mailbox in arrival order.
type Container struct {
	id      int
	mailbox chan call
	stopped chan struct{}
}

func newContainer(id int) *Container {
	c := &Container{
		id:      id,
		mailbox: make(chan call, 64),
		stopped: make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Container) run() {
	defer close(c.stopped)
	for msg := range c.mailbox {
		msg.fn()
		close(msg.done)
	}
}

// invoke runs fn inside the container and waits for it to finish.
func (c *Container) invoke(fn func()) {
	msg := call{fn: fn, done: make(chan struct{})}
	c.mailbox <- msg
	<-msg.done
}

// stop closes the mailbox and waits until the container goroutine exits.
func (c *Container) stop() {
	close(c.mailbox)
	<-c.stopped
}

// ContainerPool manages the agent containers of one run.
type ContainerPool struct {
	containers []*Container
}

// NewContainerPool starts n containers. n <= 0 means one per CPU core.
func NewContainerPool(n int) *ContainerPool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	pool := &ContainerPool{containers: make([]*Container, n)}
	for i := range pool.containers {
		pool.containers[i] = newContainer(i)
	}
	return pool
}

// Size returns the number of containers in the pool.
func (p *ContainerPool) Size() int {
	return len(p.containers)
}

// Container returns the container agents with index i are spawned into.
// Assignment is round-robin over the pool.
func (p *ContainerPool) Container(i int) *Container {
	return p.containers[i%len(p.containers)]
}

// Shutdown stops every container and waits for their goroutines.
func (p *ContainerPool) Shutdown() {
	for _, c := range p.containers {
		c.stop()
	}
}
