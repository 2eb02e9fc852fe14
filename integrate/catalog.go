// Package integrate implements the batch permutation engine: it
// enumerates motor x prop x cell x (S,P) x thermal
// environment x cruise speed, drives the FlightSolver on a worker pool
// for each combination, and ranks the results.
//
// The worker-pool shape (channel of work items, a fixed goroutine count,
// a WaitGroup, a separate goroutine closing the result channel) is
// grounded on PossumXI-Asgard_Arobi's
// Valkyrie/internal/simulation/montecarlo.go MonteCarloRunner, adapted
// from mutex-guarded counters to atomic counters per this engine's
// "writes must be atomic" progress-counter contract.
package integrate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/motor"
	"github.com/cameronsima/powertrainx/propeller"
)

// MotorPreset is the keyed motor record used by the batch catalog.
type MotorPreset struct {
	ID     string
	Params motor.Parameters
	MassG  float64
	Poles  int
}

// MotorCatalog is the read-only motor preset store plus category map used
// by batch catalog filtering.
type MotorCatalog struct {
	Motors     map[string]MotorPreset
	Categories map[string][]string
}

// SelectByCategories returns the union of motors across the given
// category names.
func (c MotorCatalog) SelectByCategories(categories []string) []MotorPreset {
	seen := map[string]bool{}
	var out []MotorPreset
	for _, cat := range categories {
		for _, id := range c.Categories[cat] {
			if seen[id] {
				continue
			}
			seen[id] = true
			if p, ok := c.Motors[id]; ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// PropEntry is one named entry in the prop database, with its
// pre-parsed diameter/pitch for filtering.
type PropEntry struct {
	ID         string
	Table      *propeller.Table
	DiameterIn float64
	PitchIn    float64
}

// PropCatalog is the read-only prop database.
type PropCatalog struct {
	Props map[string]PropEntry
}

// ParsePropDimensions parses a "DxP" or "DxP<suffix>" prop size label
// (e.g. "5x4.3", "9x4.5CF") into diameter and pitch, both in inches.
func ParsePropDimensions(label string) (diameterIn, pitchIn float64, err error) {
	parts := strings.SplitN(strings.ToLower(label), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("integrate: malformed prop size label %q", label)
	}

	d, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("integrate: malformed prop diameter in %q: %w", label, err)
	}

	pitchStr := parts[1]
	end := len(pitchStr)
	for end > 0 && !isDigitOrDot(pitchStr[end-1]) {
		end--
	}
	p, err := strconv.ParseFloat(pitchStr[:end], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("integrate: malformed prop pitch in %q: %w", label, err)
	}
	return d, p, nil
}

func isDigitOrDot(b byte) bool { return (b >= '0' && b <= '9') || b == '.' }

// DiameterPitchRange is a post-filter applied after category/geometry
// matching.
type DiameterPitchRange struct {
	DiameterMinIn, DiameterMaxIn float64
	PitchMinIn, PitchMaxIn       float64
}

// FilterProps returns the entries whose ID parses as "DxP[suffix]" and
// falls within the given diameter/pitch range.
func (c PropCatalog) FilterProps(r DiameterPitchRange) []PropEntry {
	var out []PropEntry
	for _, entry := range c.Props {
		d, p := entry.DiameterIn, entry.PitchIn
		if d == 0 && p == 0 {
			var err error
			d, p, err = ParsePropDimensions(entry.ID)
			if err != nil {
				continue
			}
		}
		if d < r.DiameterMinIn || d > r.DiameterMaxIn {
			continue
		}
		if p < r.PitchMinIn || p > r.PitchMaxIn {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// CellCatalog is the read-only cell database keyed by cell name.
type CellCatalog struct {
	Cells map[string]battery.CellSpec
}
