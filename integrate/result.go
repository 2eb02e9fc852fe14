package integrate

import (
	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/flight"
	"github.com/cameronsima/powertrainx/thermaleval"
)

// InvalidityReason enumerates the per-item failure tags surfaced on
// IntegratedResult.InvalidityReason.
type InvalidityReason string

const (
	ReasonNone                InvalidityReason = ""
	ReasonEnvelope             InvalidityReason = "Envelope"
	ReasonThrustUnachievable   InvalidityReason = "ThrustUnachievable"
	ReasonBackEMFSaturation    InvalidityReason = "BackEMFSaturation"
	ReasonOverCurrent          InvalidityReason = "OverCurrent"
	ReasonThrottleSaturated    InvalidityReason = "ThrottleSaturated"
	ReasonPackVoltageFloor     InvalidityReason = "PackVoltageFloor"
	ReasonThermalExceeded      InvalidityReason = "ThermalExceeded"
	ReasonSolverNonConvergent  InvalidityReason = "SolverNonConvergent"
	ReasonMissingMotorPreset   InvalidityReason = "MissingMotorPreset"
	ReasonMissingPropEntry     InvalidityReason = "MissingPropEntry"
	ReasonInvalidPackConfig    InvalidityReason = "InvalidPackConfig"
)

// ThermalEvals is the cruise/max-speed thermal evaluation pair.
type ThermalEvals struct {
	Cruise   thermaleval.Eval
	MaxSpeed *thermaleval.Eval
}

// Result is the per-combination IntegratedResult record.
type Result struct {
	MotorID     string
	PropID      string
	CellID      string
	Series      int
	Parallel    int
	ThermalEnv  battery.ThermalEnvironment

	CruiseResult      flight.Result
	SpeedSweep        []flight.Result
	MaxSpeedResult    *flight.Result
	ThermalEvals      ThermalEvals
	ThermalThrottleLimitPercent *float64

	RuntimeMinutesAtCruise float64

	PackMassKg           float64
	PowerDensityWPerKg   float64
	EnergyDensityWhPerKg float64

	Valid            bool
	InvalidityReason InvalidityReason
}

// workItem is one (motor, prop, cell, S, P, thermal_env, speed) tuple.
type workItem struct {
	motor      MotorPreset
	prop       PropEntry
	cellID     string
	cell       battery.CellSpec
	series     int
	parallel   int
	thermalEnv battery.ThermalEnvironment
	cruiseSpeedMS float64
}
