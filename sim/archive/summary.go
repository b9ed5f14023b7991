package archive

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates statistics over an archived run.
type Summary struct {
	Steps       int     // number of distinct time points
	Wecs        int     // number of distinct entities
	MeanFeedin  float64 // mean park feed-in per step, kW
	MaxFeedin   float64 // maximum park feed-in over the run, kW
	CappedSteps int     // steps during which at least one WECS had a cap
}

// Summarize computes aggregate statistics from archive records.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(records []Record) *Summary {
	summary := &Summary{}
	if len(records) == 0 {
		return summary
	}

	wecs := make(map[string]bool)
	var feedin []float64 // park total per step, in time order
	lastTime := records[0].Time - 1
	capped := false
	for _, r := range records {
		wecs[r.Wecs] = true
		if r.Time != lastTime {
			feedin = append(feedin, 0)
			if capped {
				summary.CappedSteps++
			}
			capped = false
			lastTime = r.Time
		}
		feedin[len(feedin)-1] += r.P
		if !r.Uncapped() {
			capped = true
		}
	}
	if capped {
		summary.CappedSteps++
	}

	summary.Steps = len(feedin)
	summary.Wecs = len(wecs)
	summary.MeanFeedin = stat.Mean(feedin, nil)
	summary.MaxFeedin = floats.Max(feedin)
	return summary
}
