// Package atmosphere implements the ISA standard-atmosphere density model
// used by every component that needs air density at altitude.
package atmosphere

import "math"

// ISA reference constants at sea level.
const (
	seaLevelTempK     = 288.15   // K (15 degC)
	seaLevelPressurePa = 101325.0 // Pa
	tempLapseRateKPerM = 0.0065  // K/m, valid to 11 km
	gasConstant       = 287.05   // J/(kg*K), dry air
	gravity           = 9.80665  // m/s^2
	tropopauseAltM    = 11000.0
	tropopauseTempK   = 216.65

	// SeaLevelDensity is rho_0, the ISA sea-level standard density.
	SeaLevelDensity = 1.225 // kg/m^3
)

// Density returns air density (kg/m^3) from the ISA lapse formula at the
// given altitude (m) and an additional temperature offset (K) applied on
// top of the standard-day temperature at that altitude. Negative altitude
// is clamped to sea level; deltaTempK may be negative (colder than
// standard) or positive (hotter).
func Density(altitudeM, deltaTempK float64) float64 {
	alt := altitudeM
	if alt < 0 {
		alt = 0
	}

	var tempK, pressurePa float64
	if alt <= tropopauseAltM {
		tempK = seaLevelTempK - tempLapseRateKPerM*alt
		pressurePa = seaLevelPressurePa * math.Pow(tempK/seaLevelTempK, gravity/(gasConstant*tempLapseRateKPerM))
	} else {
		tempK = tropopauseTempK
		p11 := seaLevelPressurePa * math.Pow(tropopauseTempK/seaLevelTempK, gravity/(gasConstant*tempLapseRateKPerM))
		pressurePa = p11 * math.Exp(-gravity*(alt-tropopauseAltM)/(gasConstant*tropopauseTempK))
	}

	// The offset only affects the density calculation, not the pressure
	// profile, matching a "hot/cold day" correction to an otherwise
	// standard atmosphere.
	tempK += deltaTempK
	if tempK <= 0 {
		tempK = 1e-6
	}

	return pressurePa / (gasConstant * tempK)
}
