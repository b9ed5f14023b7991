package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPark(t *testing.T, n int, c WecsConfig) *Park {
	t.Helper()
	configs := make([]WecsConfig, n)
	for i := range configs {
		configs[i] = c
	}
	park, err := NewPark(configs)
	require.NoError(t, err)
	return park
}

func TestPark_Step_PowerCurve(t *testing.T) {
	// GIVEN six identical WECS with rated power 10 kW at 10 m/s
	park := testPark(t, 6, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})

	// WHEN stepping across the whole curve: calm, just above cut-in,
	// partial, rated, between rated and cut-out, beyond cut-out
	require.NoError(t, park.Step([]float64{0, 1, 5, 10, 15, 20}))

	// THEN the cubic curve with cut-in/cut-out boundaries applies
	want := []float64{0, 0.01, 1.25, 10, 10, 0}
	got := park.P()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "wecs-%d", i)
	}
}

func TestPark_Step_WithPowerLimits(t *testing.T) {
	park := testPark(t, 6, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})

	require.NoError(t, park.SetPMax([]float64{0, 0, 5, 5, 10, 10}))
	require.NoError(t, park.Step([]float64{0, 10, 5, 10, 10, 10}))

	want := []float64{0, 0, 1.25, 5, 10, 10}
	got := park.P()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "wecs-%d", i)
	}
}

func TestPark_Step_MonotonicBetweenCutInAndRated(t *testing.T) {
	park := testPark(t, 1, WecsConfig{PRated: 5000, VRated: 13, VMin: 3.5, VMax: 25})

	last := 0.0
	for v := 3.5; v <= 13.0; v += 0.1 {
		require.NoError(t, park.Step([]float64{v}))
		p := park.P()[0]
		assert.GreaterOrEqual(t, p, last, "output must not decrease at v=%.1f", v)
		assert.LessOrEqual(t, p, 5000.0)
		last = p
	}
	// At rated speed and above (up to cut-out) the output is the rated power.
	require.NoError(t, park.Step([]float64{13}))
	assert.InDelta(t, 5000.0, park.P()[0], 1e-9)
	require.NoError(t, park.Step([]float64{20}))
	assert.InDelta(t, 5000.0, park.P()[0], 1e-9)
}

func TestPark_Step_NegativeWindRejected(t *testing.T) {
	park := testPark(t, 2, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})
	require.NoError(t, park.Step([]float64{5, 5}))

	err := park.Step([]float64{5, -0.1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wind speed must be >= 0")

	// The failed step must not have touched park state.
	assert.InDelta(t, 1.25, park.P()[0], 1e-9)
	assert.InDelta(t, 1.25, park.P()[1], 1e-9)
}

func TestPark_Step_LengthMismatch(t *testing.T) {
	park := testPark(t, 3, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})
	assert.Error(t, park.Step([]float64{5, 5}))
}

func TestPark_SetPMax_Validation(t *testing.T) {
	park := testPark(t, 2, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})

	assert.Error(t, park.SetPMax([]float64{5}), "length mismatch")
	assert.Error(t, park.SetPMax([]float64{-1, 5}), "negative limit")
	assert.Error(t, park.SetPMax([]float64{5, 11}), "limit above rated power")
	assert.NoError(t, park.SetPMax([]float64{0, 10}))
}

func TestWecsConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config WecsConfig
		ok     bool
	}{
		{"valid", WecsConfig{PRated: 5000, VRated: 13, VMin: 3.5, VMax: 25}, true},
		{"zero rated power", WecsConfig{PRated: 0, VRated: 13, VMin: 3.5, VMax: 25}, false},
		{"negative rated power", WecsConfig{PRated: -1, VRated: 13, VMin: 3.5, VMax: 25}, false},
		{"cut-in above rated speed", WecsConfig{PRated: 5000, VRated: 13, VMin: 14, VMax: 25}, false},
		{"cut-out below rated speed", WecsConfig{PRated: 5000, VRated: 13, VMin: 3.5, VMax: 12}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewPark_AssignsEntityIDs(t *testing.T) {
	park := testPark(t, 3, WecsConfig{PRated: 10, VRated: 10, VMin: 1, VMax: 15})
	assert.Equal(t, []string{"wecs-0", "wecs-1", "wecs-2"}, park.IDs())
}

func TestNewPark_Empty(t *testing.T) {
	_, err := NewPark(nil)
	assert.Error(t, err)
}
