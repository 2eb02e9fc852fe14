// Ranking and summary statistics over a completed batch, grounded on
// original_source's integrated_analyzer/result_analyzer.py.
package integrate

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metric names a ranking criterion "Ranking".
type Metric string

const (
	MetricSystemEfficiency Metric = "system_efficiency"
	MetricRuntime          Metric = "runtime"
	MetricMaxSpeed         Metric = "max_speed"
	MetricPowerDensity     Metric = "power_density"
	MetricEnergyDensity    Metric = "energy_density"
	MetricLowestCurrent    Metric = "lowest_cruise_current"
)

// MetricStats is a min/max/mean summary for one numeric field across the
// valid results of a batch.
type MetricStats struct {
	Min, Max, Mean float64
	Count          int
}

// Statistics is the batch-level summary
type Statistics struct {
	Total           int
	ValidCount      int
	InvalidCount    int
	ThermalLimited  int

	SystemEfficiency MetricStats
	Runtime          MetricStats
	CruiseCurrent    MetricStats
}

// BestBy collects the "best by X" singletons: highest efficiency, longest
// runtime, and fastest top speed across a batch.
type BestBy struct {
	Efficiency *Result
	Runtime    *Result
	MaxSpeed   *Result
}

func metricValue(r Result, m Metric) float64 {
	switch m {
	case MetricSystemEfficiency:
		return r.CruiseResult.SystemEta
	case MetricRuntime:
		return r.RuntimeMinutesAtCruise
	case MetricMaxSpeed:
		if r.MaxSpeedResult != nil {
			return r.MaxSpeedResult.AirspeedMS
		}
		return 0
	case MetricPowerDensity:
		return r.PowerDensityWPerKg
	case MetricEnergyDensity:
		return r.EnergyDensityWhPerKg
	case MetricLowestCurrent:
		return -r.CruiseResult.BatteryCurrentA // negated: "lowest" ranks ascending current as best
	default:
		return 0
	}
}

// Rank sorts the valid entries of results by metric, descending (best
// first), stable on ties.
func Rank(results []Result, metric Metric) []Result {
	var valid []Result
	for _, r := range results {
		if r.Valid {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return metricValue(valid[i], metric) > metricValue(valid[j], metric)
	})
	return valid
}

// Summarize computes the batch statistics and "best by" pointers over a
// completed batch, using gonum/stat for the mean of each numeric field.
func Summarize(results []Result) (Statistics, BestBy) {
	stats := Statistics{Total: len(results)}
	var best BestBy

	var effs, runtimes, currents []float64

	for i := range results {
		r := &results[i]
		if !r.Valid {
			stats.InvalidCount++
			if r.InvalidityReason == ReasonThermalExceeded {
				stats.ThermalLimited++
			}
			continue
		}
		stats.ValidCount++

		effs = append(effs, r.CruiseResult.SystemEta)
		runtimes = append(runtimes, r.RuntimeMinutesAtCruise)
		currents = append(currents, r.CruiseResult.BatteryCurrentA)

		if best.Efficiency == nil || r.CruiseResult.SystemEta > best.Efficiency.CruiseResult.SystemEta {
			best.Efficiency = r
		}
		if best.Runtime == nil || r.RuntimeMinutesAtCruise > best.Runtime.RuntimeMinutesAtCruise {
			best.Runtime = r
		}
		if r.MaxSpeedResult != nil && (best.MaxSpeed == nil || r.MaxSpeedResult.AirspeedMS > best.MaxSpeed.MaxSpeedResult.AirspeedMS) {
			best.MaxSpeed = r
		}
	}

	stats.SystemEfficiency = summarizeField(effs)
	stats.Runtime = summarizeField(runtimes)
	stats.CruiseCurrent = summarizeField(currents)

	return stats, best
}

func summarizeField(values []float64) MetricStats {
	if len(values) == 0 {
		return MetricStats{}
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return MetricStats{
		Min:   minV,
		Max:   maxV,
		Mean:  stat.Mean(values, nil),
		Count: len(values),
	}
}
