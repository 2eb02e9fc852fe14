package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsima/powertrainx/drag"
	"github.com/cameronsima/powertrainx/motor"
	"github.com/cameronsima/powertrainx/propeller"
)

func testSolver(t *testing.T) Solver {
	t.Helper()

	d, err := drag.NewFixedWing(0.03, 0.25, 1.5, 18.0, 0.8)
	require.NoError(t, err)

	var samples []propeller.Sample
	for _, v := range []float64{0, 5, 10, 15, 20} {
		for _, rpm := range []float64{3000, 5000, 7000, 9000, 11000} {
			thrust := 0.00002*rpm*rpm - 0.05*v*rpm
			power := 0.0000015 * rpm * rpm * rpm
			samples = append(samples, propeller.Sample{
				V: v, RPM: rpm, ThrustN: thrust, PowerW: power,
			})
		}
	}
	tbl, err := propeller.NewTable("test-prop", samples)
	require.NoError(t, err)

	m, err := motor.NewParameters("test-motor", 1000, 0.05, 0.5, 5000, 40, 500, 0)
	require.NoError(t, err)

	return NewSolver(d, tbl, m)
}

func TestSolveCruiseProducesThrustEqualsDrag(t *testing.T) {
	s := testSolver(t)
	r := s.SolveCruise(22.2, 15.0, 0, 0, 25, 1)

	if !r.Valid {
		t.Skipf("operating point not reachable at this airspeed with the synthetic test table: %s", r.InvalidityReason)
	}
	assert.InDelta(t, r.DragN, r.ThrustN, 1e-6, "thrust always equals required drag by construction")
}

func TestSolveCruiseSystemEfficiencyInUnitRange(t *testing.T) {
	s := testSolver(t)
	r := s.SolveCruise(22.2, 10.0, 0, 0, 25, 1)

	if !r.Valid {
		t.Skipf("operating point not reachable at this airspeed with the synthetic test table: %s", r.InvalidityReason)
	}
	assert.GreaterOrEqual(t, r.SystemEta, 0.0)
	assert.LessOrEqual(t, r.SystemEta, 1.0)
}

func TestSolveCruiseUnachievableThrustIsInvalid(t *testing.T) {
	s := testSolver(t)
	r := s.SolveCruise(22.2, 20.0, 0, 0, 25, 1)
	assert.False(t, r.Valid)
}

func TestSpeedSweepReturnsOneResultPerAirspeed(t *testing.T) {
	s := testSolver(t)
	speeds := []float64{5, 10, 15, 20}
	results := s.SpeedSweep(22.2, speeds, 0, 0, 25, 1)
	require.Len(t, results, len(speeds))
	for i, r := range results {
		assert.InDelta(t, speeds[i], r.AirspeedMS, 1e-9)
	}
}

func TestFindMaxSpeedIsBoundedAndValid(t *testing.T) {
	s := testSolver(t)
	r, ok := s.FindMaxSpeed(22.2, 0, 0, 25, 1)
	if !ok {
		t.Skip("no valid airspeed at V=1 m/s for this synthetic table")
	}
	assert.True(t, r.Valid)
	assert.LessOrEqual(t, r.ThrottlePercent, 100.0+1e-6)
	assert.GreaterOrEqual(t, r.AirspeedMS, 1.0)
	assert.LessOrEqual(t, r.AirspeedMS, 100.0)
}

func TestFindBestEfficiencySpeedPicksAValidPoint(t *testing.T) {
	s := testSolver(t)
	r, ok := s.FindBestEfficiencySpeed(22.2, 0, 0, 25, 1)
	if ok {
		assert.True(t, r.Valid)
		assert.GreaterOrEqual(t, r.AirspeedMS, 5.0)
		assert.LessOrEqual(t, r.AirspeedMS, 50.0)
	}
}

func TestMultiMotorSplitsRequiredThrust(t *testing.T) {
	s := testSolver(t)
	r1 := s.SolveCruise(22.2, 10.0, 0, 0, 25, 1)
	r2 := s.SolveCruise(22.2, 10.0, 0, 0, 25, 2)

	assert.InDelta(t, r1.DragN, r2.DragN, 1e-9)
	if r1.Valid && r2.Valid {
		assert.InDelta(t, r1.ThrustN, 2*r2.ThrustN, 1e-6)
	}
}
