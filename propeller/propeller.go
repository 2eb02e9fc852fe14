// Package propeller implements a bidirectional propeller performance
// lookup: a 2-D interpolation over a tabulated thrust/power database
// indexed by airspeed and RPM, plus an inverse solve for RPM given a
// required thrust.
//
// The interpolation itself is adapted from a JSBSim-style breakpoint
// table interpolator (bilinear-on-a-rectangular-grid), generalized to
// report an explicit out-of-envelope sentinel instead of clamping, since a
// prop performance table (unlike a JSBSim aero table) must be able to say
// "I don't know" outside its tested envelope.
package propeller

import (
	"fmt"
	"sort"
)

// OutOfEnvelope is the sentinel thrust/power value returned for queries
// outside the convex hull of the sample set.
const OutOfEnvelope = -99.0

// Sample is one measured point in the prop performance database.
type Sample struct {
	V       float64 // m/s
	RPM     float64
	ThrustN float64
	PowerW  float64
}

// Envelope describes the rectangular bounds of a Table's sample set.
type Envelope struct {
	VMin, VMax     float64
	RPMMin, RPMMax float64
}

// Table is an immutable, read-once-constructed performance lookup for one
// propeller identifier.
type Table struct {
	ID string

	vBreaks   []float64
	rpmBreaks []float64
	thrust    [][]float64 // [vIndex][rpmIndex]
	power     [][]float64
}

// NewTable builds a Table from a rectangular sample grid: samples must
// cover every combination of a set of distinct airspeeds and a set of
// distinct RPMs (the shape an externally supplied prop database is
// expected to already have).
func NewTable(id string, samples []Sample) (*Table, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("propeller %q: empty sample set", id)
	}

	vSet := map[float64]bool{}
	rpmSet := map[float64]bool{}
	for _, s := range samples {
		vSet[s.V] = true
		rpmSet[s.RPM] = true
	}
	vBreaks := sortedKeys(vSet)
	rpmBreaks := sortedKeys(rpmSet)

	thrust := make([][]float64, len(vBreaks))
	power := make([][]float64, len(vBreaks))
	filled := make([][]bool, len(vBreaks))
	for i := range thrust {
		thrust[i] = make([]float64, len(rpmBreaks))
		power[i] = make([]float64, len(rpmBreaks))
		filled[i] = make([]bool, len(rpmBreaks))
	}

	vIndex := indexOf(vBreaks)
	rpmIndex := indexOf(rpmBreaks)

	for _, s := range samples {
		i, j := vIndex[s.V], rpmIndex[s.RPM]
		thrust[i][j] = s.ThrustN
		power[i][j] = s.PowerW
		filled[i][j] = true
	}
	for i := range filled {
		for j := range filled[i] {
			if !filled[i][j] {
				return nil, fmt.Errorf("propeller %q: sample grid is not rectangular, missing (V=%g, RPM=%g)", id, vBreaks[i], rpmBreaks[j])
			}
		}
	}

	return &Table{
		ID:        id,
		vBreaks:   vBreaks,
		rpmBreaks: rpmBreaks,
		thrust:    thrust,
		power:     power,
	}, nil
}

func sortedKeys(m map[float64]bool) []float64 {
	out := make([]float64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

func indexOf(sorted []float64) map[float64]int {
	m := make(map[float64]int, len(sorted))
	for i, v := range sorted {
		m[v] = i
	}
	return m
}

// Envelope returns the rectangular bounds of this Table's sample set.
func (t *Table) Envelope() Envelope {
	return Envelope{
		VMin:   t.vBreaks[0],
		VMax:   t.vBreaks[len(t.vBreaks)-1],
		RPMMin: t.rpmBreaks[0],
		RPMMax: t.rpmBreaks[len(t.rpmBreaks)-1],
	}
}

func (t *Table) inEnvelope(v, rpm float64) bool {
	e := t.Envelope()
	return v >= e.VMin && v <= e.VMax && rpm >= e.RPMMin && rpm <= e.RPMMax
}

// Thrust returns interpolated thrust (N) at (V, RPM), or OutOfEnvelope if
// the query falls outside the tested grid.
func (t *Table) Thrust(v, rpm float64) float64 {
	if !t.inEnvelope(v, rpm) {
		return OutOfEnvelope
	}
	return bilinear(t.vBreaks, t.rpmBreaks, t.thrust, v, rpm)
}

// Power returns interpolated shaft power (W) at (V, RPM), or OutOfEnvelope
// if the query falls outside the tested grid.
func (t *Table) Power(v, rpm float64) float64 {
	if !t.inEnvelope(v, rpm) {
		return OutOfEnvelope
	}
	return bilinear(t.vBreaks, t.rpmBreaks, t.power, v, rpm)
}

// Efficiency is T*V/P, defined to be 0 when V=0 or P<=0.
func (t *Table) Efficiency(v, rpm float64) float64 {
	if v <= 0 {
		return 0
	}
	thrust := t.Thrust(v, rpm)
	power := t.Power(v, rpm)
	if power <= 0 {
		return 0
	}
	return thrust * v / power
}

// bracketFind locates the breakpoint interval containing x and returns the
// lower index and the fractional position within [lo, lo+1].
func bracketFind(breaks []float64, x float64) (lo int, frac float64) {
	n := len(breaks)
	if n == 1 {
		return 0, 0
	}
	if x <= breaks[0] {
		return 0, 0
	}
	if x >= breaks[n-1] {
		return n - 2, 1
	}
	// sort.Search finds first index i such that breaks[i] >= x.
	i := sort.Search(n, func(i int) bool { return breaks[i] >= x })
	if breaks[i] == x {
		if i == n-1 {
			return i - 1, 1
		}
		return i, 0
	}
	lo = i - 1
	span := breaks[i] - breaks[lo]
	if span == 0 {
		return lo, 0
	}
	return lo, (x - breaks[lo]) / span
}

func bilinear(vBreaks, rpmBreaks []float64, grid [][]float64, v, rpm float64) float64 {
	vi, vf := bracketFind(vBreaks, v)
	ri, rf := bracketFind(rpmBreaks, rpm)

	viHi := vi + 1
	if viHi >= len(vBreaks) {
		viHi = vi
	}
	riHi := ri + 1
	if riHi >= len(rpmBreaks) {
		riHi = ri
	}

	v00 := grid[vi][ri]
	v01 := grid[vi][riHi]
	v10 := grid[viHi][ri]
	v11 := grid[viHi][riHi]

	top := v00 + rf*(v01-v00)
	bot := v10 + rf*(v11-v10)
	return top + vf*(bot-top)
}
