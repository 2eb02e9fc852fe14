package motor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParams(t *testing.T, kv, rmRef, i0Ref, rpmI0Ref, iMax, pMax, kSat float64) Parameters {
	t.Helper()
	p, err := NewParameters("test", kv, rmRef, i0Ref, rpmI0Ref, iMax, pMax, kSat)
	require.NoError(t, err)
	return p
}

func TestKtDerivedFromKv(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	expected := 60.0 / (2 * math.Pi * 1000)
	assert.InDelta(t, expected, p.Kt(), 1e-9)
}

// TestBackEMFExceedsSupply covers back-EMF exceeding supply voltage.
func TestBackEMFExceedsSupply(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	_, err := p.StateAtRPM(14.8, 15000, 25)
	assert.ErrorIs(t, err, ErrBackEMFExceedsSupply)
}

// TestStateAtRPMZero covers state at RPM=0.
func TestStateAtRPMZero(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	st, err := p.StateAtRPM(14.8, 0, 25)
	require.NoError(t, err)

	rm := p.RmAt(25)
	expectedI := 14.8 / rm
	assert.InDelta(t, expectedI, st.CurrentA, 1e-9)

	expectedTorque := p.Kt() * (expectedI - 0)
	assert.InDelta(t, expectedTorque, st.TorqueNm, 1e-9)
	assert.Equal(t, 0.0, st.EfficiencyPc)
}

// TestStateAtBEMFEqualsSupply covers back-EMF saturation at the equality
// boundary: when V_bemf == V_supply exactly, current collapses to zero and
// the operating point is rejected the same as when back-EMF exceeds supply.
func TestStateAtBEMFEqualsSupply(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	rpmAtEquality := 1000 * 14.8 // RPM/Kv == Vsupply
	_, err := p.StateAtRPM(14.8, rpmAtEquality, 25)
	assert.ErrorIs(t, err, ErrBackEMFExceedsSupply)
}

func TestResistanceRisesWithTemperature(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	assert.Greater(t, p.RmAt(80), p.RmAt(25))
	assert.InDelta(t, p.RmRefOhm, p.RmAt(25), 1e-12)
}

func TestKtEffClampedToBand(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 10, 500, 2.0)
	eff := p.KtEffAt(100) // way over I_max, should clamp to 0.8*Kt
	assert.InDelta(t, 0.8*p.Kt(), eff, 1e-9)
	assert.LessOrEqual(t, eff, p.Kt())
}

// TestSolveEquilibriumReproducible covers equilibrium solve reproducibility.
func TestSolveEquilibriumReproducible(t *testing.T) {
	p := mustParams(t, 900, 0.030, 1.5, 9000, 40, 600, 0)

	// Pick a load torque that is achievable well within rated current.
	loadTorque := 0.25

	st1, err := p.Solve(14.8, loadTorque, 80)
	require.NoError(t, err)
	st2, err := p.Solve(14.8, loadTorque, 80)
	require.NoError(t, err)

	assert.InDelta(t, st1.RPM, st2.RPM, 0.01)
	assert.InDelta(t, st1.CurrentA, st2.CurrentA, 0.001)
	assert.InDelta(t, loadTorque, st1.TorqueNm, loadTorque*0.02)
}

func TestSolveOverCurrentAbandons(t *testing.T) {
	p := mustParams(t, 900, 0.030, 1.5, 9000, 5, 100, 0)
	_, err := p.Solve(14.8, 50, 80) // absurd load torque
	assert.Error(t, err)
}

func TestEstimateWindingTemp(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	tw := p.EstimateWindingTemp(25, 10, 2.0)
	assert.Greater(t, tw, 25.0)
}

func TestEfficiencyMapOmitsBackEMFSaturatedPoints(t *testing.T) {
	p := mustParams(t, 1000, 0.03, 1.0, 8000, 40, 500, 0)
	voltages := []float64{5, 14.8}
	rpms := []float64{1000, 5000, 15000} // 15000 RPM saturates back-EMF at V=5

	points := p.EfficiencyMap(voltages, rpms, 25)
	for _, pt := range points {
		assert.Less(t, pt.RPM/p.KvRPMPerVolt, pt.VSupply)
		assert.GreaterOrEqual(t, pt.EfficiencyPc, 0.0)
		assert.LessOrEqual(t, pt.EfficiencyPc, 1.0)
	}
	assert.Less(t, len(points), len(voltages)*len(rpms))
}
