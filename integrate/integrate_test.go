package integrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/flight"
	"github.com/cameronsima/powertrainx/motor"
	"github.com/cameronsima/powertrainx/propeller"
)

func mkFlightResultForStats(eta float64) flight.Result {
	return flight.Result{SystemEta: eta}
}

func TestParsePropDimensionsPlain(t *testing.T) {
	d, p, err := ParsePropDimensions("5x4.3")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-9)
	assert.InDelta(t, 4.3, p, 1e-9)
}

func TestParsePropDimensionsWithSuffix(t *testing.T) {
	d, p, err := ParsePropDimensions("9x4.5CF")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, d, 1e-9)
	assert.InDelta(t, 4.5, p, 1e-9)
}

func TestParsePropDimensionsMalformedReturnsError(t *testing.T) {
	_, _, err := ParsePropDimensions("not-a-prop")
	assert.Error(t, err)
}

func TestFilterPropsRespectsRange(t *testing.T) {
	tbl := testPropTable(t)
	catalog := PropCatalog{Props: map[string]PropEntry{
		"5x4.3":  {ID: "5x4.3", Table: tbl},
		"9x4.5":  {ID: "9x4.5", Table: tbl},
		"13x6.5": {ID: "13x6.5", Table: tbl},
	}}

	filtered := catalog.FilterProps(DiameterPitchRange{DiameterMinIn: 4, DiameterMaxIn: 10, PitchMinIn: 0, PitchMaxIn: 10})
	assert.Len(t, filtered, 2)
}

func TestSpeedSpecSingle(t *testing.T) {
	s := SpeedSpec{Single: 22.0}
	assert.Equal(t, []float64{22.0}, s.Speeds())
}

func TestSpeedSpecSweep(t *testing.T) {
	s := SpeedSpec{VMinMS: 10, VMaxMS: 20, StepMS: 5}
	speeds := s.Speeds()
	assert.Equal(t, []float64{10, 15, 20}, speeds)
}

func TestParallelSetForSeriesFlatVsByS(t *testing.T) {
	flat := ParallelSet{Flat: []int{1, 2}}
	assert.Equal(t, []int{1, 2}, flat.ForSeries(6))

	byS := ParallelSet{ByS: map[int][]int{6: {2, 3}}}
	assert.Equal(t, []int{2, 3}, byS.ForSeries(6))
	assert.Nil(t, byS.ForSeries(4))
}

func testPropTable(t *testing.T) *propeller.Table {
	t.Helper()
	var samples []propeller.Sample
	for _, v := range []float64{0, 5, 10, 15, 20} {
		for _, rpm := range []float64{3000, 5000, 7000, 9000, 11000} {
			thrust := 0.00002*rpm*rpm - 0.05*v*rpm
			power := 0.0000015 * rpm * rpm * rpm
			samples = append(samples, propeller.Sample{V: v, RPM: rpm, ThrustN: thrust, PowerW: power})
		}
	}
	tbl, err := propeller.NewTable("test-prop", samples)
	require.NoError(t, err)
	return tbl
}

func testEngineInputs(t *testing.T) (*Engine, BatchInput) {
	t.Helper()

	m, err := motor.NewParameters("test-motor", 1000, 0.05, 0.5, 5000, 40, 500, 0)
	require.NoError(t, err)

	motors := MotorCatalog{
		Motors:     map[string]MotorPreset{"test-motor": {ID: "test-motor", Params: m, MassG: 80}},
		Categories: map[string][]string{"standard": {"test-motor"}},
	}

	tbl := testPropTable(t)
	props := PropCatalog{Props: map[string]PropEntry{
		"9x4.5": {ID: "9x4.5", Table: tbl, DiameterIn: 9, PitchIn: 4.5},
	}}

	cell, err := battery.NewCellSpec(battery.CellSpec{
		Name: "P45B", Chemistry: battery.NMC, FormFactor: battery.Cylindrical21700,
		CapacityMAh: 4500, NominalVoltage: 3.6, MaxVoltage: 4.2, MinVoltage: 2.5,
		MaxContinuousDischarge: 45, DCIRmOhm: 12, MassG: 70, DiameterMM: 21.3, LengthMM: 70.4,
	})
	require.NoError(t, err)

	cells := CellCatalog{Cells: map[string]battery.CellSpec{"P45B": cell}}

	engine := NewEngine(motors, props, cells)

	input := BatchInput{
		Airframe: Airframe{
			WingAreaM2: 0.25, WingSpanM: 1.5, DryWeightN: 15.0,
			Cd0: 0.03, OswaldEfficiency: 0.8, NumMotors: 1,
		},
		MotorCategories: []string{"standard"},
		PropFilter:      DiameterPitchRange{DiameterMinIn: 1, DiameterMaxIn: 20, PitchMinIn: 0, PitchMaxIn: 20},
		CellIDs:         []string{"P45B"},
		SeriesValues:    []int{6},
		ParallelSet:     ParallelSet{Flat: []int{2}},
		ThermalEnvs:     []battery.ThermalEnvironment{battery.DroneInFlight},
		AnalysisSOCPercent:   50,
		AmbientTempC:         25,
		MaxCellTempC:         60,
		CutoffVoltagePerCell: 3.0,
		CruiseSpeed:          SpeedSpec{Single: 12.0},
		NumWorkers:           2,
	}
	return engine, input
}

func TestEngineRunProducesOneResultPerPermutation(t *testing.T) {
	engine, input := testEngineInputs(t)
	results, err := engine.Run(input, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "test-motor", results[0].MotorID)
	assert.Equal(t, "9x4.5", results[0].PropID)
	assert.Equal(t, "P45B", results[0].CellID)
	assert.Greater(t, results[0].PackMassKg, 0.0)
	assert.Greater(t, results[0].PowerDensityWPerKg, 0.0)
	assert.Greater(t, results[0].EnergyDensityWhPerKg, 0.0)
}

func TestEngineRunInvokesProgressObserver(t *testing.T) {
	engine, input := testEngineInputs(t)
	calls := 0
	_, err := engine.Run(input, func(p Progress) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestEngineRunNoMatchingMotorsErrors(t *testing.T) {
	engine, input := testEngineInputs(t)
	input.MotorCategories = []string{"nonexistent"}
	_, err := engine.Run(input, nil)
	assert.Error(t, err)
}

func TestEngineCancelStopsBeforeCompletionOnLargeBatch(t *testing.T) {
	engine, input := testEngineInputs(t)
	input.SeriesValues = []int{6}
	input.ParallelSet = ParallelSet{Flat: []int{1, 2}}
	input.ThermalEnvs = []battery.ThermalEnvironment{battery.StillAir, battery.DroneInFlight, battery.ActiveCooling}
	input.CruiseSpeed = SpeedSpec{VMinMS: 5, VMaxMS: 25, StepMS: 1}

	engine.Cancel()
	results, err := engine.Run(input, nil)
	require.NoError(t, err)
	assert.Less(t, len(results), 2*3*21)
}

func TestSummarizeCountsValidAndInvalid(t *testing.T) {
	results := []Result{
		{Valid: true, CruiseResult: mkFlightResultForStats(0.4), RuntimeMinutesAtCruise: 10},
		{Valid: true, CruiseResult: mkFlightResultForStats(0.6), RuntimeMinutesAtCruise: 20},
		{Valid: false, InvalidityReason: ReasonThermalExceeded},
	}
	stats, best := Summarize(results)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ValidCount)
	assert.Equal(t, 1, stats.InvalidCount)
	assert.Equal(t, 1, stats.ThermalLimited)
	require.NotNil(t, best.Efficiency)
	assert.InDelta(t, 0.6, best.Efficiency.CruiseResult.SystemEta, 1e-9)
}

func TestRankOrdersDescendingByMetric(t *testing.T) {
	results := []Result{
		{Valid: true, CruiseResult: mkFlightResultForStats(0.3)},
		{Valid: true, CruiseResult: mkFlightResultForStats(0.9)},
		{Valid: false, CruiseResult: mkFlightResultForStats(0.99)},
	}
	ranked := Rank(results, MetricSystemEfficiency)
	require.Len(t, ranked, 2)
	assert.InDelta(t, 0.9, ranked[0].CruiseResult.SystemEta, 1e-9)
}

func TestRankOrdersDescendingByDensityMetrics(t *testing.T) {
	results := []Result{
		{Valid: true, PowerDensityWPerKg: 150, EnergyDensityWhPerKg: 180},
		{Valid: true, PowerDensityWPerKg: 300, EnergyDensityWhPerKg: 90},
	}

	byPower := Rank(results, MetricPowerDensity)
	require.Len(t, byPower, 2)
	assert.InDelta(t, 300, byPower[0].PowerDensityWPerKg, 1e-9)

	byEnergy := Rank(results, MetricEnergyDensity)
	require.Len(t, byEnergy, 2)
	assert.InDelta(t, 180, byEnergy[0].EnergyDensityWhPerKg, 1e-9)
}
