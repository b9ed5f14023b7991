package mas

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerPool_SizeDefaultsToPositive(t *testing.T) {
	pool := NewContainerPool(0)
	defer pool.Shutdown()
	assert.Greater(t, pool.Size(), 0)
}

func TestContainerPool_RoundRobinAssignment(t *testing.T) {
	pool := NewContainerPool(3)
	defer pool.Shutdown()

	assert.Same(t, pool.Container(0), pool.Container(3))
	assert.Same(t, pool.Container(1), pool.Container(4))
	assert.NotSame(t, pool.Container(0), pool.Container(1))
}

func TestContainer_SerializesCalls(t *testing.T) {
	// GIVEN one container and many goroutines hammering the same counter
	pool := NewContainerPool(1)
	defer pool.Shutdown()
	c := pool.Container(0)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.invoke(func() { counter++ })
		}()
	}
	wg.Wait()

	// THEN every call ran exactly once; the mailbox serialized them all
	assert.Equal(t, 100, counter)
}

func TestSystem_BuildAndShutdown(t *testing.T) {
	sys, err := BuildSystem(SystemConfig{
		MaxFeedin:  200,
		Containers: 2,
		Entities: []EntityConfig{
			{ID: "wecs-0", PRated: 100},
			{ID: "wecs-1", PRated: 100},
			{ID: "wecs-2", PRated: 100},
		},
	})
	require.NoError(t, err)
	defer sys.Shutdown()

	ids := []string{"wecs-0", "wecs-1", "wecs-2"}
	require.NoError(t, sys.PushOutputs(ids, []float64{80, 90, 95}))
	require.NoError(t, sys.CheckFeedin())

	caps, err := sys.PullCaps(ids)
	require.NoError(t, err)
	assert.InDelta(t, 60.4, caps[0], 0.1)
	assert.InDelta(t, 67.9, caps[1], 0.1)
	assert.InDelta(t, 71.7, caps[2], 0.1)
	assert.Equal(t, 3, sys.Controller().Agents())
}

func TestBuildSystem_Validation(t *testing.T) {
	_, err := BuildSystem(SystemConfig{MaxFeedin: 200})
	assert.Error(t, err, "no entities")

	_, err = BuildSystem(SystemConfig{
		MaxFeedin: 0,
		Entities:  []EntityConfig{{ID: "wecs-0", PRated: 100}},
	})
	assert.Error(t, err, "invalid feed-in limit")

	_, err = BuildSystem(SystemConfig{
		MaxFeedin: 200,
		Entities: []EntityConfig{
			{ID: "wecs-0", PRated: 100},
			{ID: "wecs-0", PRated: 100},
		},
	})
	assert.Error(t, err, "duplicate entity")
}

func TestWecsAgent_Identity(t *testing.T) {
	pool := NewContainerPool(1)
	defer pool.Shutdown()

	a := SpawnWecsAgent(pool.Container(0), "wecs-0", 2000)
	b := SpawnWecsAgent(pool.Container(0), "wecs-1", 5000)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "wecs-0", a.Entity())
	assert.Equal(t, 2000.0, a.PRated())
	assert.Equal(t, Uncapped(), a.PMax())
}
