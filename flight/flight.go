// Package flight implements a level-flight equilibrium solver: for a
// given airspeed and battery voltage, it couples a DragModel, a
// propeller performance Table, and a motor's Parameters into the single
// operating point where thrust equals drag.
//
// The fixed-point structure (drag -> required thrust -> inverse prop
// solve -> forward motor solve -> throttle/efficiency bookkeeping) is
// grounded on original_source's flight_analyzer/flight_solver.py, with
// the same invalidity flags that source distinguishes.
package flight

import (
	"math"

	"github.com/cameronsima/powertrainx/drag"
	"github.com/cameronsima/powertrainx/motor"
	"github.com/cameronsima/powertrainx/propeller"
)

// InvalidityReason enumerates the combination-invalidating conditions a
// cruise solve can hit.
type InvalidityReason string

const (
	ReasonNone                    InvalidityReason = ""
	ReasonThrustExceedsPropCapability InvalidityReason = "ThrustExceedsPropCapability"
	ReasonPropOutOfEnvelope       InvalidityReason = "PropOutOfEnvelope"
	ReasonBackEMFExceedsSupply    InvalidityReason = "BackEMFExceedsSupply"
	ReasonThrottleSaturated       InvalidityReason = "ThrottleSaturated"
	ReasonOverCurrent             InvalidityReason = "OverCurrent"
)

// Result is the full cruise-solve result tuple.
type Result struct {
	AirspeedMS float64
	DragN      float64
	ThrustN    float64

	PropRPM    float64
	PropPShaftW float64
	PropEta    float64

	MotorCurrentA float64
	MotorVoltageV float64
	MotorPElecW   float64
	MotorPMechW   float64
	MotorEta      float64
	MotorTorqueNm float64

	ThrottlePercent float64

	BatteryCurrentA float64
	BatteryPowerW   float64
	SystemEta       float64

	Valid            bool
	InvalidityReason InvalidityReason
	ThrottleSaturated bool
	OverCurrent       bool
}

// Solver couples a DragModel, a propeller Table, and motor Parameters
// into level-flight operating points.
type Solver struct {
	Drag  drag.Model
	Prop  *propeller.Table
	Motor motor.Parameters
}

// NewSolver constructs a Solver.
func NewSolver(d drag.Model, p *propeller.Table, m motor.Parameters) Solver {
	return Solver{Drag: d, Prop: p, Motor: m}
}

// SolveCruise solves the level-flight fixed point at the given airspeed,
// altitude, battery voltage, and winding temperature, spread across
// numMotors identical motor/prop units.
func (s Solver) SolveCruise(vBattery, airspeedMS, altitudeM, deltaTempK, windingTempC float64, numMotors int) Result {
	if numMotors < 1 {
		numMotors = 1
	}

	d := s.Drag.Drag(airspeedMS, altitudeM, deltaTempK)
	requiredThrustPerMotor := d / float64(numMotors)

	rpm, err := s.Prop.RPMForThrust(airspeedMS, requiredThrustPerMotor)
	if err != nil {
		reason := ReasonThrustExceedsPropCapability
		if err == propeller.ErrOutOfEnvelope {
			reason = ReasonPropOutOfEnvelope
		}
		return Result{
			AirspeedMS: airspeedMS, DragN: d, ThrustN: requiredThrustPerMotor,
			Valid: false, InvalidityReason: reason,
		}
	}

	pShaft := s.Prop.Power(airspeedMS, rpm)
	etaProp := s.Prop.Efficiency(airspeedMS, rpm)

	motorState, err := s.Motor.StateAtRPM(vBattery, rpm, windingTempC)
	if err != nil {
		return Result{
			AirspeedMS: airspeedMS, DragN: d, ThrustN: requiredThrustPerMotor,
			PropRPM: rpm, PropPShaftW: pShaft, PropEta: etaProp,
			Valid: false, InvalidityReason: ReasonBackEMFExceedsSupply,
		}
	}

	vMotorTerminal := motorState.VBemf + motorState.CurrentA*s.Motor.RmAt(windingTempC)
	throttlePercent := (vMotorTerminal / vBattery) * 100.0

	throttleSaturated := throttlePercent > 100.0
	overCurrent := motorState.CurrentA > s.Motor.IMaxA

	batteryCurrent := motorState.CurrentA * float64(numMotors)
	batteryPower := motorState.PowerElecW * float64(numMotors)

	systemEta := 0.0
	if batteryPower > 0 {
		systemEta = (d * airspeedMS) / batteryPower
	}

	reason := ReasonNone
	valid := true
	switch {
	case throttleSaturated:
		reason, valid = ReasonThrottleSaturated, false
	case overCurrent:
		reason, valid = ReasonOverCurrent, false
	}

	return Result{
		AirspeedMS: airspeedMS, DragN: d, ThrustN: requiredThrustPerMotor,
		PropRPM: rpm, PropPShaftW: pShaft, PropEta: etaProp,
		MotorCurrentA: motorState.CurrentA, MotorVoltageV: vMotorTerminal,
		MotorPElecW: motorState.PowerElecW, MotorPMechW: motorState.PowerMechW,
		MotorEta: motorState.EfficiencyPc, MotorTorqueNm: motorState.TorqueNm,
		ThrottlePercent: throttlePercent,
		BatteryCurrentA: batteryCurrent, BatteryPowerW: batteryPower,
		SystemEta: systemEta,
		Valid: valid, InvalidityReason: reason,
		ThrottleSaturated: throttleSaturated, OverCurrent: overCurrent,
	}
}

// SpeedSweep invokes SolveCruise across the caller-supplied airspeed grid.
func (s Solver) SpeedSweep(vBattery float64, airspeedsMS []float64, altitudeM, deltaTempK, windingTempC float64, numMotors int) []Result {
	results := make([]Result, len(airspeedsMS))
	for i, v := range airspeedsMS {
		results[i] = s.SolveCruise(vBattery, v, altitudeM, deltaTempK, windingTempC, numMotors)
	}
	return results
}

// FindMaxSpeed binary-searches airspeed in [1, 100] m/s for the largest
// airspeed whose cruise solve is valid with throttle <= 100%, to 0.1 m/s
// tolerance over 20 iterations.
func (s Solver) FindMaxSpeed(vBattery, altitudeM, deltaTempK, windingTempC float64, numMotors int) (Result, bool) {
	const (
		vLoInit = 1.0
		vHiInit = 100.0
		tol     = 0.1
		iters   = 20
	)

	validAt := func(v float64) (Result, bool) {
		r := s.SolveCruise(vBattery, v, altitudeM, deltaTempK, windingTempC, numMotors)
		return r, r.Valid && r.ThrottlePercent <= 100.0
	}

	loResult, loOK := validAt(vLoInit)
	if !loOK {
		return Result{}, false
	}

	lo, hi := vLoInit, vHiInit
	best := loResult
	for i := 0; i < iters && hi-lo > tol; i++ {
		mid := (lo + hi) / 2
		r, ok := validAt(mid)
		if ok {
			lo = mid
			best = r
		} else {
			hi = mid
		}
	}
	return best, true
}

// FindBestEfficiencySpeed performs a dense sweep (~30 points) over
// [5, 50] m/s and returns the valid point with the highest system
// efficiency.
func (s Solver) FindBestEfficiencySpeed(vBattery, altitudeM, deltaTempK, windingTempC float64, numMotors int) (Result, bool) {
	const (
		vMin   = 5.0
		vMax   = 50.0
		points = 30
	)

	var best Result
	found := false
	bestEta := -math.MaxFloat64

	step := (vMax - vMin) / float64(points-1)
	for i := 0; i < points; i++ {
		v := vMin + float64(i)*step
		r := s.SolveCruise(vBattery, v, altitudeM, deltaTempK, windingTempC, numMotors)
		if r.Valid && r.SystemEta > bestEta {
			bestEta = r.SystemEta
			best = r
			found = true
		}
	}
	return best, found
}
