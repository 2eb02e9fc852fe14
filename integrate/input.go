package integrate

import "github.com/cameronsima/powertrainx/battery"

// Airframe is the airframe description used to compute cruise drag and
// total weight for a batch run.
type Airframe struct {
	WingAreaM2       float64
	WingSpanM        float64
	DryWeightN       float64
	Cd0              float64
	OswaldEfficiency float64
	NumMotors        int
}

// SpeedSpec is either a single cruise speed or a swept range.
type SpeedSpec struct {
	Single   float64 // used when VMaxMS or StepMS is zero
	VMinMS   float64
	VMaxMS   float64
	StepMS   float64
}

// Speeds materializes the concrete airspeed list this spec represents.
func (s SpeedSpec) Speeds() []float64 {
	if s.VMaxMS == 0 || s.StepMS == 0 {
		return []float64{s.Single}
	}
	var out []float64
	for v := s.VMinMS; v <= s.VMaxMS+1e-9; v += s.StepMS {
		out = append(out, v)
	}
	return out
}

// ParallelSet lets callers supply either a flat set of P values applied
// to every S, or a per-S set of valid P values.
type ParallelSet struct {
	Flat []int
	ByS  map[int][]int
}

// ForSeries returns the parallel values applicable to a given series count.
func (ps ParallelSet) ForSeries(series int) []int {
	if ps.ByS != nil {
		if p, ok := ps.ByS[series]; ok {
			return p
		}
		return nil
	}
	return ps.Flat
}

// BatchInput is the full input to a batch run.
type BatchInput struct {
	Airframe Airframe

	MotorCategories []string
	PropFilter      DiameterPitchRange

	CellIDs      []string
	SeriesValues []int
	ParallelSet  ParallelSet
	ThermalEnvs  []battery.ThermalEnvironment

	AnalysisSOCPercent float64
	AmbientTempC       float64
	MaxCellTempC       float64
	CutoffVoltagePerCell float64

	CruiseSpeed     SpeedSpec
	EnableSpeedSweep bool
	EnableMaxSpeed   bool

	NumWorkers int
}
