package battery

import "math"

// ThermalState is the lumped thermal state of a cell at one point in time.
type ThermalState struct {
	CellTempC    float64
	AmbientTempC float64
	TimeS        float64
}

// TempRiseC is the temperature rise above ambient.
func (s ThermalState) TempRiseC() float64 { return s.CellTempC - s.AmbientTempC }

// ThermalModel is the lumped first-order R*C thermal model, grounded on
// original_source/.../models/thermal.py:ThermalModel.
type ThermalModel struct {
	TotalMassG             float64
	SpecificHeatJPerGC     float64
	ThermalResistanceCPerW float64
}

// NewThermalModel constructs a ThermalModel. SpecificHeatJPerGC defaults
// to 1.0 when left zero.
func NewThermalModel(totalMassG, specificHeatJPerGC, thermalResistanceCPerW float64) ThermalModel {
	if specificHeatJPerGC == 0 {
		specificHeatJPerGC = 1.0
	}
	return ThermalModel{
		TotalMassG:             totalMassG,
		SpecificHeatJPerGC:     specificHeatJPerGC,
		ThermalResistanceCPerW: thermalResistanceCPerW,
	}
}

// ThermalMassJPerC is C_th = m*cp.
func (m ThermalModel) ThermalMassJPerC() float64 {
	return m.TotalMassG * m.SpecificHeatJPerGC
}

// TimeConstantS is tau = C_th * R_th.
func (m ThermalModel) TimeConstantS() float64 {
	return m.ThermalMassJPerC() * m.ThermalResistanceCPerW
}

// SteadyStateTempC is T_ss(P_heat, T_amb) = T_amb + P_heat*R_th.
func (m ThermalModel) SteadyStateTempC(heatW, ambientTempC float64) float64 {
	return ambientTempC + heatW*m.ThermalResistanceCPerW
}

// tempRiseRate is dT/dt = (P_heat - (T_cell-T_amb)/R_th) / C_th.
func (m ThermalModel) tempRiseRate(heatW, cellTempC, ambientTempC float64) float64 {
	dissipated := (cellTempC - ambientTempC) / m.ThermalResistanceCPerW
	return (heatW - dissipated) / m.ThermalMassJPerC()
}

// Step advances the thermal state by dtS seconds using explicit Euler
// integration.
func (m ThermalModel) Step(state ThermalState, heatW, dtS float64) ThermalState {
	rate := m.tempRiseRate(heatW, state.CellTempC, state.AmbientTempC)
	return ThermalState{
		CellTempC:    state.CellTempC + rate*dtS,
		AmbientTempC: state.AmbientTempC,
		TimeS:        state.TimeS + dtS,
	}
}

// TimeTo returns the time (s) to reach targetTempC under a constant heatW,
// via the closed-form exponential approach; returns +Inf if the target is
// unreachable given the implied steady state.
func (m ThermalModel) TimeTo(targetTempC, heatW, ambientTempC, startTempC float64) float64 {
	steady := m.SteadyStateTempC(heatW, ambientTempC)

	if targetTempC >= steady {
		return math.Inf(1)
	}
	if startTempC >= targetTempC {
		return 0
	}

	tau := m.TimeConstantS()
	numerator := steady - targetTempC
	denominator := steady - startTempC
	if denominator <= 0 {
		return 0
	}
	return -tau * math.Log(numerator/denominator)
}

// MaxCurrentThermal is the generic max_current(T_max, T_amb, R_total, eps')
// closed form, solving
// T_max = T_amb + I^2*R_total*eps'*R_th for I.
func (m ThermalModel) MaxCurrentThermal(maxTempC, ambientTempC, totalIROhm, entropicFactor float64) float64 {
	maxRise := maxTempC - ambientTempC
	if maxRise <= 0 {
		return 0
	}
	denom := totalIROhm * entropicFactor * m.ThermalResistanceCPerW
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(maxRise / denom)
}
