// Package archive is the append-only data sink of a simulation run. It
// stores one row per (time, WECS) pair and guarantees that a later read
// recovers exactly the rows written, in write order.
package archive

import "math"

// Record is one archived row of a completed step.
type Record struct {
	Time int64   // simulation time in seconds
	Wecs string  // park entity id
	V    float64 // wind speed in m/s
	P    float64 // active power in kW
	PMax float64 // power limit in effect; +Inf when uncapped
}

// Uncapped reports whether the row was recorded without a power limit.
func (r Record) Uncapped() bool {
	return math.IsInf(r.PMax, 1)
}
