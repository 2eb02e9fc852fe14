package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawIsConstant(t *testing.T) {
	r, err := NewRaw(5.0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, r.Drag(0, 0, 0))
	assert.Equal(t, 5.0, r.Drag(50, 3000, 10))
}

func TestZeroVelocityZeroDragExceptRaw(t *testing.T) {
	coef, _ := NewCoefficient(1.0, 0.02)
	fp, _ := NewFlatPlate(0.05)
	multi, _ := NewMultirotor(0.01, 1.2)
	fw, _ := NewFixedWing(0.02, 0.2, 1.2, 10, 0.8)

	for _, m := range []Model{coef, fp, multi, fw} {
		assert.Equal(t, 0.0, m.Drag(0, 0, 0), "%T", m)
	}
}

// FixedWing drag sanity check.
func TestFixedWingDragScenarioD(t *testing.T) {
	fw, err := NewFixedWing(0.025, 0.15, 1.0, 9.81, 0.8)
	require.NoError(t, err)

	d := fw.Drag(20, 0, 0)
	assert.InDelta(t, 1.08, d, 0.02)

	c := fw.Breakdown(20, 0, 0)
	assert.InDelta(t, d, c.Total(), 1e-9)
	assert.Greater(t, c.Parasitic, c.Induced)
}

func TestFixedWingInvariants(t *testing.T) {
	_, err := NewFixedWing(0.02, 0.2, 1.2, 0, 0.8)
	assert.Error(t, err, "weight must be > 0")

	_, err = NewFixedWing(0.02, 0.2, 1.2, 10, 0)
	assert.Error(t, err, "oswald efficiency must be in (0,1]")

	_, err = NewFixedWing(0.02, 0.2, 1.2, 10, 1.2)
	assert.Error(t, err, "oswald efficiency must be in (0,1]")

	_, err = NewFixedWing(-0.1, 0.2, 1.2, 10, 0.8)
	assert.Error(t, err, "Cd0 must be non-negative")
}

func TestOnlyFixedWingHasInducedDrag(t *testing.T) {
	coef, _ := NewCoefficient(1.0, 0.02)
	c := coef.Breakdown(20, 0, 0)
	assert.Equal(t, 0.0, c.Induced)

	fw, _ := NewFixedWing(0.025, 0.15, 1.0, 9.81, 0.8)
	fc := fw.Breakdown(20, 0, 0)
	assert.Greater(t, fc.Induced, 0.0)
}
