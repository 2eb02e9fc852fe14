package battery

// ThermalEnvironment enumerates the recognized cooling environments.
// Values are grounded on original_source/.../models/thermal.py's
// ThermalEnvironment enum, which carried 5 of these 8 tags
// (bare_still_air, shrinkwrap_still_air,
// light_airflow, active_cooling, liquid_cooling); the three this spec
// adds (drone_in_flight, high_airflow, active_cooling_flight) are
// assigned intermediate resistances that preserve the expected
// cooling-quality ordering of the full set.
type ThermalEnvironment string

const (
	StillAir            ThermalEnvironment = "still_air"
	ShrinkwrapStillAir  ThermalEnvironment = "shrinkwrap_still_air"
	LightAirflow        ThermalEnvironment = "light_airflow"
	DroneInFlight       ThermalEnvironment = "drone_in_flight"
	HighAirflow         ThermalEnvironment = "high_airflow"
	ActiveCooling        ThermalEnvironment = "active_cooling"
	ActiveCoolingFlight  ThermalEnvironment = "active_cooling_flight"
	LiquidCooling        ThermalEnvironment = "liquid_cooling"
)

// thermalResistanceCPerW maps each environment to its per-cell thermal
// resistance (degC/W).
var thermalResistanceCPerW = map[ThermalEnvironment]float64{
	StillAir:           20.0,
	ShrinkwrapStillAir: 28.0,
	LightAirflow:       12.0,
	DroneInFlight:      8.0,
	HighAirflow:        6.0,
	ActiveCooling:       5.0,
	ActiveCoolingFlight: 3.5,
	LiquidCooling:       2.0,
}

// ThermalResistance returns the per-cell thermal resistance (degC/W) for
// this environment, defaulting to StillAir's value for an unrecognized tag.
func (e ThermalEnvironment) ThermalResistance() float64 {
	if r, ok := thermalResistanceCPerW[e]; ok {
		return r
	}
	return thermalResistanceCPerW[StillAir]
}
