package sim

import (
	"fmt"
	"math"
)

// WecsConfig holds the physical parameters of a single wind energy
// conversion system (WECS).
type WecsConfig struct {
	PRated float64 // nominal power in kW, reached at VRated
	VRated float64 // wind speed (m/s) at which PRated is reached
	VMin   float64 // cut-in wind speed; below it the WECS is off
	VMax   float64 // cut-out wind speed; above it the WECS shuts down
}

// Validate checks the physical plausibility of a WECS parameter set.
func (c WecsConfig) Validate() error {
	if c.PRated <= 0 {
		return fmt.Errorf("p_rated must be > 0, got %v", c.PRated)
	}
	if !(c.VMin < c.VRated && c.VRated < c.VMax) {
		return fmt.Errorf("wind speed thresholds must satisfy v_min < v_rated < v_max, got %v/%v/%v",
			c.VMin, c.VRated, c.VMax)
	}
	return nil
}

// Park is the vectorized simulation model for all WECS of a wind park.
// Instead of one object per turbine it keeps one slice per attribute, so a
// park of any size is stepped with a single call.
//
// The active power for wind speed v is
//
//	P = 0                                 if v < v_min or v > v_max
//	P = min((v/v_rated)^3 * P_rated,
//	        P_rated, P_max)               otherwise
//
// The cubic term is standardized by v_rated so it stays in [0, 1] below
// rated speed. Turbine inertia and power-slope smoothing are ignored; the
// model is only meant for step sizes around 15 minutes.
type Park struct {
	ids    []string
	pRated []float64
	vRated []float64
	vMin   []float64
	vMax   []float64

	pMax []float64 // current power limit per WECS; PRated when uncapped
	p    []float64 // active power computed by the last Step
	v    []float64 // wind speeds used by the last Step
}

// NewPark creates the park model from one config per WECS. Entity ids are
// assigned positionally as "wecs-0", "wecs-1", ...
func NewPark(configs []WecsConfig) (*Park, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("a park needs at least one WECS")
	}
	park := &Park{
		ids:    make([]string, len(configs)),
		pRated: make([]float64, len(configs)),
		vRated: make([]float64, len(configs)),
		vMin:   make([]float64, len(configs)),
		vMax:   make([]float64, len(configs)),
		pMax:   make([]float64, len(configs)),
		p:      make([]float64, len(configs)),
		v:      make([]float64, len(configs)),
	}
	for i, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("wecs-%d: %w", i, err)
		}
		park.ids[i] = fmt.Sprintf("wecs-%d", i)
		park.pRated[i] = c.PRated
		park.vRated[i] = c.VRated
		park.vMin[i] = c.VMin
		park.vMax[i] = c.VMax
		park.pMax[i] = c.PRated
	}
	return park, nil
}

// Count returns the number of WECS in the park.
func (park *Park) Count() int {
	return len(park.ids)
}

// IDs returns the entity id of every WECS, in park order.
func (park *Park) IDs() []string {
	ids := make([]string, len(park.ids))
	copy(ids, park.ids)
	return ids
}

// Step advances every WECS by one step given the wind speed vector v.
// A negative wind speed is an input-validation error and leaves the park
// state untouched.
func (park *Park) Step(v []float64) error {
	if len(v) != park.Count() {
		return fmt.Errorf("wind vector has %d entries, park has %d WECS", len(v), park.Count())
	}
	for i, vi := range v {
		if vi < 0 {
			return fmt.Errorf("%s: wind speed must be >= 0, got %v", park.ids[i], vi)
		}
	}
	copy(park.v, v)
	for i, vi := range v {
		park.p[i] = park.output(i, vi)
	}
	return nil
}

// output applies the power curve of a single WECS.
func (park *Park) output(i int, v float64) float64 {
	if v < park.vMin[i] || v > park.vMax[i] {
		return 0
	}
	p := math.Pow(v/park.vRated[i], 3) * park.pRated[i]
	p = math.Min(p, park.pRated[i])
	return math.Min(p, park.pMax[i])
}

// SetPMax installs new power limits, one per WECS. Every value must lie in
// [0, PRated] of its WECS; passing PRated removes the cap.
func (park *Park) SetPMax(pMax []float64) error {
	if len(pMax) != park.Count() {
		return fmt.Errorf("cap vector has %d entries, park has %d WECS", len(pMax), park.Count())
	}
	for i, limit := range pMax {
		if limit < 0 || limit > park.pRated[i] {
			return fmt.Errorf("%s: power limit %v outside [0, %v]", park.ids[i], limit, park.pRated[i])
		}
	}
	copy(park.pMax, pMax)
	return nil
}

// P returns the active power of every WECS after the last Step.
func (park *Park) P() []float64 {
	p := make([]float64, len(park.p))
	copy(p, park.p)
	return p
}

// V returns the wind speeds used by the last Step.
func (park *Park) V() []float64 {
	v := make([]float64, len(park.v))
	copy(v, park.v)
	return v
}

// PMax returns the power limit currently in effect for every WECS.
func (park *Park) PMax() []float64 {
	pMax := make([]float64, len(park.pMax))
	copy(pMax, park.pMax)
	return pMax
}

// PRated returns the rated power of every WECS.
func (park *Park) PRated() []float64 {
	pRated := make([]float64, len(park.pRated))
	copy(pRated, park.pRated)
	return pRated
}
