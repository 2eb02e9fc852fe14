// Package motor implements an equivalent-circuit BLDC motor model:
// resistance and no-load current corrections, torque-constant saturation,
// and both a forward state query (V, RPM) and an equilibrium solve
// (V, load torque).
//
// The equilibrium solve is grounded on and translated near
// statement-for-statement from original_source's
// motor_analyzer/core.py:solve_operating_point - a damped Newton
// iteration using the analytical torque/RPM sensitivity.
package motor

import (
	"fmt"
	"math"
)

const (
	copperTempCoeff   = 0.00393 // alpha_Cu, per degC
	defaultTempRefC   = 25.0
	solverMaxIter     = 30
	solverDamping     = 0.65 // within the stable damping band for this sensitivity
	solverRPMTol      = 1.0
	currentOverloadFx = 1.5 // x I_max abandon threshold
)

// Parameters is the immutable per-motor specification.
type Parameters struct {
	ID string

	KvRPMPerVolt float64
	RmRefOhm     float64 // at TRefC
	TRefC        float64 // default 25

	I0RefA     float64
	RPMI0RefA  float64 // RPM at which I0RefA was measured

	IMaxA float64
	PMaxW float64

	KSat float64 // optional saturation coefficient, 0 disables saturation
}

// NewParameters validates and constructs Parameters, defaulting TRefC to
// 25 degC when left zero.
func NewParameters(id string, kv, rmRef, i0Ref, rpmI0Ref, iMax, pMax, kSat float64) (Parameters, error) {
	if kv <= 0 {
		return Parameters{}, fmt.Errorf("motor %q: Kv must be > 0", id)
	}
	if rmRef <= 0 {
		return Parameters{}, fmt.Errorf("motor %q: Rm_ref must be > 0", id)
	}
	if i0Ref < 0 || rpmI0Ref <= 0 {
		return Parameters{}, fmt.Errorf("motor %q: I0_ref must be >= 0 and RPM_I0_ref must be > 0", id)
	}
	if iMax <= 0 {
		return Parameters{}, fmt.Errorf("motor %q: I_max must be > 0", id)
	}
	return Parameters{
		ID: id, KvRPMPerVolt: kv, RmRefOhm: rmRef, TRefC: defaultTempRefC,
		I0RefA: i0Ref, RPMI0RefA: rpmI0Ref, IMaxA: iMax, PMaxW: pMax, KSat: kSat,
	}, nil
}

// Kt is the torque constant derived from Kv: 60/(2*pi*Kv), N*m/A.
func (p Parameters) Kt() float64 {
	return 60.0 / (2 * math.Pi * p.KvRPMPerVolt)
}

// RmAt returns winding resistance (ohm) adjusted for winding temperature.
func (p Parameters) RmAt(windingTempC float64) float64 {
	return p.RmRefOhm * (1 + copperTempCoeff*(windingTempC-p.TRefC))
}

// I0At returns no-load current (A) adjusted for RPM. I0At(0) is 0.
func (p Parameters) I0At(rpm float64) float64 {
	if rpm <= 0 {
		return 0
	}
	return p.I0RefA * math.Sqrt(rpm/p.RPMI0RefA)
}

// KtEffAt returns the saturation-adjusted torque constant at the given
// current, clamped to [0.8*Kt, Kt].
func (p Parameters) KtEffAt(current float64) float64 {
	kt := p.Kt()
	if p.KSat == 0 {
		return kt
	}
	ratio := current / p.IMaxA
	eff := kt * (1 - p.KSat*ratio*ratio)
	lo, hi := 0.8*kt, kt
	if eff < lo {
		return lo
	}
	if eff > hi {
		return hi
	}
	return eff
}

// State is the full motor operating point returned by StateAtRPM and Solve.
type State struct {
	RPM          float64
	CurrentA     float64
	TorqueNm     float64
	PowerElecW   float64
	PowerMechW   float64
	EfficiencyPc float64 // clamp01(P_mech/P_elec)
	CopperLossW  float64
	IronLossW    float64
	VBemf        float64
	VSupply      float64
	WindingTempC float64
}

// StateAtRPM computes the forward motor state at a known RPM ("state
// at known RPM"). It returns ErrBackEMFExceedsSupply if RPM/Kv >= VSupply.
func (p Parameters) StateAtRPM(vSupply, rpm, windingTempC float64) (State, error) {
	rm := p.RmAt(windingTempC)
	vBemf := rpm / p.KvRPMPerVolt

	if vBemf >= vSupply {
		return State{}, ErrBackEMFExceedsSupply
	}

	current := (vSupply - vBemf) / rm
	i0 := p.I0At(rpm)
	iTorque := current - i0
	ktEff := p.KtEffAt(current)
	torque := ktEff * iTorque

	pElec := vSupply * current
	omega := rpm * 2 * math.Pi / 60
	pMech := torque * omega

	eta := 0.0
	if pElec > 0 {
		eta = pMech / pElec
		if eta < 0 {
			eta = 0
		}
		if eta > 1 {
			eta = 1
		}
	}

	return State{
		RPM: rpm, CurrentA: current, TorqueNm: torque,
		PowerElecW: pElec, PowerMechW: pMech, EfficiencyPc: eta,
		CopperLossW: current * current * rm, IronLossW: i0 * vBemf,
		VBemf: vBemf, VSupply: vSupply, WindingTempC: windingTempC,
	}, nil
}

// Solve finds the equilibrium RPM at which motor torque equals the
// supplied load torque ("equilibrium at given load torque"). It uses a
// damped Newton iteration on RPM with the analytical
// sensitivity d(tau)/d(RPM) ~= -Kt/(Rm*Kv), bounded to
// [100, 1.1*Kv*VSupply], converging when |delta RPM| < 1.
func (p Parameters) Solve(vSupply, torqueLoad, windingTempC float64) (State, error) {
	rm := p.RmAt(windingTempC)
	kt := p.Kt()

	rpm := p.KvRPMPerVolt * vSupply * 0.8
	rpmMax := 1.1 * p.KvRPMPerVolt * vSupply

	for i := 0; i < solverMaxIter; i++ {
		vBemf := rpm / p.KvRPMPerVolt
		if vSupply <= vBemf {
			rpm *= 0.9
			continue
		}

		current := (vSupply - vBemf) / rm
		if current > currentOverloadFx*p.IMaxA {
			return State{}, ErrOverCurrent
		}

		i0 := p.I0At(rpm)
		iTorque := current - i0
		ktEff := p.KtEffAt(current)
		torqueMotor := ktEff * iTorque
		torqueError := torqueMotor - torqueLoad

		dTorqueDRPM := -kt / (rm * p.KvRPMPerVolt)
		var rpmCorrection float64
		if math.Abs(dTorqueDRPM) > 1e-10 {
			rpmCorrection = -torqueError / dTorqueDRPM
		}

		rpmNew := rpm + solverDamping*rpmCorrection
		if rpmNew < 100 {
			rpmNew = 100
		}
		if rpmNew > rpmMax {
			rpmNew = rpmMax
		}

		if math.Abs(rpmNew-rpm) < solverRPMTol {
			return p.StateAtRPM(vSupply, rpmNew, windingTempC)
		}
		rpm = rpmNew
	}

	return State{}, ErrSolverNonConvergent
}

// EstimateWindingTemp is a supplemented diagnostic, grounded on
// motor_analyzer/core.py:estimate_winding_temp: a
// steady-state winding temperature estimate from ambient plus the copper
// loss at a reference current, used as the default T_winding for
// FlightSolver callers that don't pin one explicitly.
func (p Parameters) EstimateWindingTemp(ambientTempC, current, thermalResistanceCPerW float64) float64 {
	rm := p.RmAt(ambientTempC)
	copperLoss := current * current * rm
	return ambientTempC + copperLoss*thermalResistanceCPerW
}

// EfficiencyPoint is one cell of an EfficiencyMap grid.
type EfficiencyPoint struct {
	VSupply      float64
	RPM          float64
	EfficiencyPc float64
	CurrentA     float64
}

// EfficiencyMap is a supplemented diagnostic, grounded on
// motor_analyzer/core.py:generate_efficiency_map: it evaluates StateAtRPM
// over a dense (voltage, RPM) grid and reports the resulting efficiency
// at every point, for callers building an efficiency contour plot or
// otherwise inspecting a motor's operating envelope outside the hot batch
// path. Points where back-EMF exceeds supply are omitted.
func (p Parameters) EfficiencyMap(voltages, rpms []float64, windingTempC float64) []EfficiencyPoint {
	out := make([]EfficiencyPoint, 0, len(voltages)*len(rpms))
	for _, v := range voltages {
		for _, rpm := range rpms {
			state, err := p.StateAtRPM(v, rpm, windingTempC)
			if err != nil {
				continue
			}
			out = append(out, EfficiencyPoint{
				VSupply: v, RPM: rpm,
				EfficiencyPc: state.EfficiencyPc, CurrentA: state.CurrentA,
			})
		}
	}
	return out
}
