package thermaleval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsima/powertrainx/battery"
)

func testPack(t *testing.T) *battery.Pack {
	t.Helper()
	cell, err := battery.NewCellSpec(battery.CellSpec{
		Name:                   "P45B",
		Chemistry:              battery.NMC,
		FormFactor:             battery.Cylindrical21700,
		CapacityMAh:            4500,
		NominalVoltage:         3.6,
		MaxVoltage:             4.2,
		MinVoltage:             2.5,
		MaxContinuousDischarge: 45,
		DCIRmOhm:               12,
		MassG:                  70,
		DiameterMM:             21.3,
		LengthMM:               70.4,
	})
	require.NoError(t, err)

	pack, err := battery.NewPack(cell, 6, 2, battery.DefaultConfig())
	require.NoError(t, err)
	return pack
}

func TestEvaluateZeroCurrentReturnsAmbientAndInfiniteMargin(t *testing.T) {
	pack := testPack(t)
	e := Evaluate(pack, 0, 50)

	assert.InDelta(t, pack.Config.AmbientTempC, e.SteadyStateTempC, 1e-9)
	assert.True(t, math.IsInf(e.MarginC, 1))
	assert.True(t, e.WithinLimits)
	assert.Equal(t, LimitNone, e.LimitingFactor)
}

func TestEvaluateHighCurrentIsOutsideLimits(t *testing.T) {
	pack := testPack(t)
	e := Evaluate(pack, 200, 50)

	assert.False(t, e.WithinLimits)
	assert.NotEqual(t, LimitNone, e.LimitingFactor)
}

func TestEvaluateMarginShrinksWithCurrent(t *testing.T) {
	pack := testPack(t)
	low := Evaluate(pack, 10, 50)
	high := Evaluate(pack, 30, 50)
	assert.Less(t, high.MarginC, low.MarginC)
}

func TestEvaluateReportsCRateScaledByParallelCount(t *testing.T) {
	pack := testPack(t)
	e := Evaluate(pack, 30, 50)
	wantCRate := pack.Cell.CRateAtCurrent(pack.Parallel, 30)
	assert.InDelta(t, wantCRate, e.CRate, 1e-9)
}

func TestEvaluateZeroCurrentHasZeroCRate(t *testing.T) {
	pack := testPack(t)
	e := Evaluate(pack, 0, 50)
	assert.Zero(t, e.CRate)
}

func TestFindMaxSafeThrottleCruiseAlreadyUnsafeReturnsZero(t *testing.T) {
	pack := testPack(t)
	throttle, current := FindMaxSafeThrottle(pack, 50, 60, 500, 600, nil)
	assert.Zero(t, throttle)
	assert.Zero(t, current)
}

func TestFindMaxSafeThrottleFullThrottleSafeReturnsHundred(t *testing.T) {
	pack := testPack(t)
	throttle, current := FindMaxSafeThrottle(pack, 50, 50, 1, 2, nil)
	assert.InDelta(t, 100.0, throttle, 1e-9)
	assert.InDelta(t, 2.0, current, 1e-9)
}

func TestFindMaxSafeThrottleBinarySearchBetweenBounds(t *testing.T) {
	pack := testPack(t)
	throttle, current := FindMaxSafeThrottle(pack, 50, 50, 10, 200, nil)
	assert.GreaterOrEqual(t, throttle, 50.0)
	assert.LessOrEqual(t, throttle, 100.0)
	e := Evaluate(pack, current, 50)
	assert.True(t, e.WithinLimits || throttle <= 50.0+1.0)
}
