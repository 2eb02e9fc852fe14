// Package thermaleval implements battery thermal-margin evaluation,
// grounded on original_source's
// integrated_analyzer/thermal_evaluator.py.
package thermaleval

import (
	"math"

	"github.com/cameronsima/powertrainx/battery"
)

// LimitingFactor names what bounds a pack's continuous current at the
// evaluated operating point, mirroring battery.LimitReason plus the
// zero-current "none" tag.
type LimitingFactor string

const (
	LimitNone     LimitingFactor = "none"
	LimitThermal  LimitingFactor = "thermal"
	LimitRating   LimitingFactor = "rating"
	LimitVoltage  LimitingFactor = "voltage"
)

// Eval is the thermal evaluation result at one operating point.
type Eval struct {
	CurrentA          float64
	CRate             float64
	SteadyStateTempC  float64
	HeatW             float64
	MarginC           float64
	WithinLimits      bool
	LimitingFactor    LimitingFactor
	MaxContinuousA    float64
}

// Evaluate computes the thermal evaluation at the given current and state
// of charge. Current 0 returns ambient temperature,
// +Inf margin, and the "none" limiting factor.
func Evaluate(pack *battery.Pack, currentA, socPercent float64) Eval {
	maxCurrent := pack.MaxContinuousCurrent(socPercent)

	if currentA == 0 {
		return Eval{
			CurrentA:         0,
			CRate:            0,
			SteadyStateTempC: pack.Config.AmbientTempC,
			HeatW:            0,
			MarginC:          math.Inf(1),
			WithinLimits:     true,
			LimitingFactor:   LimitNone,
			MaxContinuousA:   maxCurrent.CurrentA,
		}
	}

	tempSS := pack.SelfConsistentSteadyStateTempC(currentA, socPercent)
	heat := pack.HeatW(currentA, socPercent, tempSS)
	margin := pack.Config.MaxCellTempC - tempSS

	withinLimits := margin >= 0 && currentA <= maxCurrent.CurrentA

	factor := LimitNone
	if !withinLimits {
		switch maxCurrent.Reason {
		case battery.LimitThermal:
			factor = LimitThermal
		case battery.LimitRating:
			factor = LimitRating
		case battery.LimitVoltage:
			factor = LimitVoltage
		}
	}

	return Eval{
		CurrentA:         currentA,
		CRate:            pack.Cell.CRateAtCurrent(pack.Parallel, currentA),
		SteadyStateTempC: tempSS,
		HeatW:            heat,
		MarginC:          margin,
		WithinLimits:     withinLimits,
		LimitingFactor:   factor,
		MaxContinuousA:   maxCurrent.CurrentA,
	}
}

// ThrottleToCurrent maps throttle percent (0-100) to current (A). A nil
// map defaults to linear interpolation between (throttleCruise, iCruise)
// and (100, iMaxThrottle).
type ThrottleToCurrent func(throttlePercent float64) float64

func linearThrottleMap(throttleCruise, iCruise, throttleMax, iMax float64) ThrottleToCurrent {
	return func(throttlePercent float64) float64 {
		if throttleMax == throttleCruise {
			return iCruise
		}
		frac := (throttlePercent - throttleCruise) / (throttleMax - throttleCruise)
		return iCruise + frac*(iMax-iCruise)
	}
}

// FindMaxSafeThrottle binary-searches throttle in [throttleCruise, 100%]
// for the highest throttle whose current stays within the pack's thermal
// and electrical limits, 20 iterations, 1% tolerance. mapFn may be nil
// to use linear interpolation between the cruise
// and max-throttle operating points.
func FindMaxSafeThrottle(pack *battery.Pack, socPercent, throttleCruise, iCruise, iMaxThrottle float64, mapFn ThrottleToCurrent) (float64, float64) {
	cruiseEval := Evaluate(pack, iCruise, socPercent)
	if !cruiseEval.WithinLimits {
		return 0, 0
	}

	maxEval := Evaluate(pack, iMaxThrottle, socPercent)
	if maxEval.WithinLimits {
		return 100.0, iMaxThrottle
	}

	if mapFn == nil {
		mapFn = linearThrottleMap(throttleCruise, iCruise, 100.0, iMaxThrottle)
	}

	lo, hi := throttleCruise, 100.0
	for i := 0; i < 20 && hi-lo > 1.0; i++ {
		mid := (lo + hi) / 2
		current := mapFn(mid)
		if Evaluate(pack, current, socPercent).WithinLimits {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, mapFn(lo)
}
