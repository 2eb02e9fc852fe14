package propeller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleTable creates a small synthetic grid roughly resembling a
// "10x5" APC-style thrust/power table: thrust falls with V, rises with RPM;
// power rises with both.
func buildSimpleTable(t *testing.T) *Table {
	t.Helper()
	vs := []float64{0, 10, 20, 30}
	rpms := []float64{4000, 6000, 8000, 10000, 12000}

	var samples []Sample
	for _, v := range vs {
		for _, rpm := range rpms {
			thrust := 0.00002*rpm*rpm/1000 - 0.05*v*v/10
			if thrust < 0 {
				thrust = 0
			}
			power := 0.000002*rpm*rpm*rpm/1e6 + 0.01*v
			samples = append(samples, Sample{V: v, RPM: rpm, ThrustN: thrust, PowerW: power})
		}
	}

	tbl, err := NewTable("10x5", samples)
	require.NoError(t, err)
	return tbl
}

func TestEnvelope(t *testing.T) {
	tbl := buildSimpleTable(t)
	e := tbl.Envelope()
	assert.Equal(t, 0.0, e.VMin)
	assert.Equal(t, 30.0, e.VMax)
	assert.Equal(t, 4000.0, e.RPMMin)
	assert.Equal(t, 12000.0, e.RPMMax)
}

func TestOutOfEnvelopeSentinel(t *testing.T) {
	tbl := buildSimpleTable(t)
	assert.Equal(t, OutOfEnvelope, tbl.Thrust(100, 8000))
	assert.Equal(t, OutOfEnvelope, tbl.Thrust(15, 20000))
	assert.Equal(t, OutOfEnvelope, tbl.Power(-5, 8000))
}

func TestThrustMonotonicWithRPM(t *testing.T) {
	tbl := buildSimpleTable(t)
	low := tbl.Thrust(15, 5000)
	high := tbl.Thrust(15, 11000)
	assert.Greater(t, high, low)
}

func TestEfficiencyBounds(t *testing.T) {
	tbl := buildSimpleTable(t)
	for _, v := range []float64{0, 10, 20} {
		for _, rpm := range []float64{4000, 8000, 12000} {
			eta := tbl.Efficiency(v, rpm)
			assert.GreaterOrEqual(t, eta, 0.0)
		}
	}
	assert.Equal(t, 0.0, tbl.Efficiency(0, 8000))
}

// rpm_for_thrust(V, thrust(V, RPM)) == RPM
// within solver tolerance, for an interior point.
func TestRPMForThrustRoundTrip(t *testing.T) {
	tbl := buildSimpleTable(t)
	const v = 15.0
	const rpmExpected = 9000.0

	tReq := tbl.Thrust(v, rpmExpected)
	rpm, err := tbl.RPMForThrust(v, tReq)
	require.NoError(t, err)
	assert.InDelta(t, rpmExpected, rpm, 1.0)
}

func TestRPMForThrustUnachievable(t *testing.T) {
	tbl := buildSimpleTable(t)
	_, err := tbl.RPMForThrust(15, 1e6)
	assert.ErrorIs(t, err, ErrThrustUnachievable)
}

func TestRPMForThrustOutOfEnvelopeAirspeed(t *testing.T) {
	tbl := buildSimpleTable(t)
	_, err := tbl.RPMForThrust(100, 10)
	assert.ErrorIs(t, err, ErrOutOfEnvelope)
}

func TestPowerForThrustComposesRootFind(t *testing.T) {
	tbl := buildSimpleTable(t)
	power, rpm, err := tbl.PowerForThrust(10, 1)
	require.NoError(t, err)
	assert.InDelta(t, tbl.Power(10, rpm), power, 1e-9)
}

func TestNonRectangularGridRejected(t *testing.T) {
	samples := []Sample{
		{V: 0, RPM: 4000, ThrustN: 1, PowerW: 1},
		{V: 10, RPM: 6000, ThrustN: 1, PowerW: 1},
	}
	_, err := NewTable("bad", samples)
	assert.Error(t, err)
}
