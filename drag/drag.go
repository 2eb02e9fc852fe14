// Package drag implements the five drag-model variants as a closed set of
// tagged structs. Dynamic pressure and the FixedWing lift/induced-drag
// coupling are computed through atmosphere.
package drag

import (
	"fmt"
	"math"

	"github.com/cameronsima/powertrainx/atmosphere"
)

// Components is the diagnostic parasitic/induced breakdown returned by
// Breakdown. Only FixedWing produces a non-zero induced term.
type Components struct {
	Parasitic float64
	Induced   float64
}

// Total is the sum of the two components; it must equal Model.Drag's
// return value for the same inputs.
func (c Components) Total() float64 { return c.Parasitic + c.Induced }

// Model is the common interface every drag variant satisfies.
type Model interface {
	// Drag returns the drag force (N) at the given true airspeed (m/s),
	// altitude (m) and temperature offset (K).
	Drag(v, altitudeM, deltaTempK float64) float64

	// Breakdown returns the parasitic/induced decomposition of Drag's
	// result at the same operating point.
	Breakdown(v, altitudeM, deltaTempK float64) Components
}

func dynamicPressure(v, altitudeM, deltaTempK float64) float64 {
	rho := atmosphere.Density(altitudeM, deltaTempK)
	return 0.5 * rho * v * v
}

// Raw is a constant-force drag model, independent of airspeed.
type Raw struct {
	ForceN float64
}

// NewRaw validates and constructs a Raw drag model.
func NewRaw(forceN float64) (Raw, error) {
	if forceN < 0 {
		return Raw{}, fmt.Errorf("drag: Raw force_N must be non-negative, got %g", forceN)
	}
	return Raw{ForceN: forceN}, nil
}

func (r Raw) Drag(v, altitudeM, deltaTempK float64) float64 { return r.ForceN }

func (r Raw) Breakdown(v, altitudeM, deltaTempK float64) Components {
	return Components{Parasitic: r.ForceN}
}

// Coefficient is a classic q*Cd*A drag model.
type Coefficient struct {
	Cd            float64
	ReferenceArea float64 // m^2
}

func NewCoefficient(cd, referenceAreaM2 float64) (Coefficient, error) {
	if cd < 0 || referenceAreaM2 < 0 {
		return Coefficient{}, fmt.Errorf("drag: Coefficient requires non-negative Cd and reference_area_m2")
	}
	return Coefficient{Cd: cd, ReferenceArea: referenceAreaM2}, nil
}

func (c Coefficient) Drag(v, altitudeM, deltaTempK float64) float64 {
	return dynamicPressure(v, altitudeM, deltaTempK) * c.Cd * c.ReferenceArea
}

func (c Coefficient) Breakdown(v, altitudeM, deltaTempK float64) Components {
	return Components{Parasitic: c.Drag(v, altitudeM, deltaTempK)}
}

// FlatPlate models drag via an equivalent flat-plate area f (m^2).
type FlatPlate struct {
	AreaM2 float64
}

func NewFlatPlate(areaM2 float64) (FlatPlate, error) {
	if areaM2 < 0 {
		return FlatPlate{}, fmt.Errorf("drag: FlatPlate f_m2 must be non-negative")
	}
	return FlatPlate{AreaM2: areaM2}, nil
}

func (f FlatPlate) Drag(v, altitudeM, deltaTempK float64) float64 {
	return dynamicPressure(v, altitudeM, deltaTempK) * f.AreaM2
}

func (f FlatPlate) Breakdown(v, altitudeM, deltaTempK float64) Components {
	return Components{Parasitic: f.Drag(v, altitudeM, deltaTempK)}
}

// Multirotor models frame drag via frontal area and a frame drag coefficient.
type Multirotor struct {
	FrontalAreaM2 float64
	FrameCd       float64
}

func NewMultirotor(frontalAreaM2, frameCd float64) (Multirotor, error) {
	if frontalAreaM2 < 0 || frameCd < 0 {
		return Multirotor{}, fmt.Errorf("drag: Multirotor requires non-negative frontal_area_m2 and frame_Cd")
	}
	return Multirotor{FrontalAreaM2: frontalAreaM2, FrameCd: frameCd}, nil
}

func (m Multirotor) Drag(v, altitudeM, deltaTempK float64) float64 {
	return dynamicPressure(v, altitudeM, deltaTempK) * m.FrameCd * m.FrontalAreaM2
}

func (m Multirotor) Breakdown(v, altitudeM, deltaTempK float64) Components {
	return Components{Parasitic: m.Drag(v, altitudeM, deltaTempK)}
}

// FixedWing couples parasitic drag with induced drag from the lift
// required to support WeightN in steady level flight.
type FixedWing struct {
	Cd0              float64
	WingAreaM2       float64
	WingSpanM        float64
	WeightN          float64
	OswaldEfficiency float64
}

func NewFixedWing(cd0, wingAreaM2, wingSpanM, weightN, oswaldEfficiency float64) (FixedWing, error) {
	if cd0 < 0 || wingAreaM2 < 0 || wingSpanM < 0 {
		return FixedWing{}, fmt.Errorf("drag: FixedWing requires non-negative Cd0, wing_area_m2, wingspan_m")
	}
	if weightN <= 0 {
		return FixedWing{}, fmt.Errorf("drag: FixedWing weight_N must be > 0, got %g", weightN)
	}
	if oswaldEfficiency <= 0 || oswaldEfficiency > 1 {
		return FixedWing{}, fmt.Errorf("drag: FixedWing oswald_efficiency must be in (0,1], got %g", oswaldEfficiency)
	}
	return FixedWing{
		Cd0:              cd0,
		WingAreaM2:       wingAreaM2,
		WingSpanM:        wingSpanM,
		WeightN:          weightN,
		OswaldEfficiency: oswaldEfficiency,
	}, nil
}

// AspectRatio returns b^2/S.
func (f FixedWing) AspectRatio() float64 {
	if f.WingAreaM2 == 0 {
		return 0
	}
	return (f.WingSpanM * f.WingSpanM) / f.WingAreaM2
}

// Cl returns the lift coefficient required to support WeightN at the given
// operating point. Returns 0 at V=0 (q=0) to avoid a division by zero;
// callers treat V=0 as a degenerate, non-cruising case.
func (f FixedWing) Cl(v, altitudeM, deltaTempK float64) float64 {
	q := dynamicPressure(v, altitudeM, deltaTempK)
	if q <= 0 || f.WingAreaM2 <= 0 {
		return 0
	}
	return f.WeightN / (q * f.WingAreaM2)
}

func (f FixedWing) Drag(v, altitudeM, deltaTempK float64) float64 {
	c := f.Breakdown(v, altitudeM, deltaTempK)
	return c.Total()
}

func (f FixedWing) Breakdown(v, altitudeM, deltaTempK float64) Components {
	q := dynamicPressure(v, altitudeM, deltaTempK)
	parasitic := q * f.WingAreaM2 * f.Cd0

	ar := f.AspectRatio()
	var induced float64
	if q > 0 && ar > 0 && f.OswaldEfficiency > 0 {
		cl := f.Cl(v, altitudeM, deltaTempK)
		cdi := (cl * cl) / (math.Pi * ar * f.OswaldEfficiency)
		induced = q * f.WingAreaM2 * cdi
	}

	return Components{Parasitic: parasitic, Induced: induced}
}
