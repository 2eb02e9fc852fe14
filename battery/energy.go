package battery

import "math"

// peukertExponent is the chemistry's Peukert exponent n, grounded on
// calculations/energy.py's PEUKERT_EXPONENTS table (values not recovered
// verbatim in extraction; these are the chemistry-typical literature
// defaults used as an Open Question resolution - see DESIGN.md).
var peukertExponent = map[Chemistry]float64{
	NMC:  1.05,
	NCA:  1.05,
	LCO:  1.06,
	LiPo: 1.05,
	LFP:  1.01,
}

const peukertReferenceCRate = 1.0 // the C-rate the nameplate capacity is rated at

// PeukertExponent returns the chemistry's Peukert exponent, defaulting to
// the NMC value for an unrecognized chemistry.
func (c CellSpec) PeukertExponent() float64 {
	if n, ok := peukertExponent[c.Chemistry]; ok {
		return n
	}
	return peukertExponent[NMC]
}

// peukertCapacityFactor returns the fraction of nameplate capacity
// actually available at the given C-rate, per the Peukert relation
// C_eff/C_rated = (C_rate_ref/C_rate)^(n-1). A C-rate below the reference
// never inflates capacity above nameplate; the factor is clamped to 1.0.
func peukertCapacityFactor(cRate, n float64) float64 {
	if cRate <= 0 {
		return 1.0
	}
	factor := math.Pow(peukertReferenceCRate/cRate, n-1)
	if factor > 1.0 {
		factor = 1.0
	}
	return factor
}

// EffectiveCapacityAh is the Peukert-corrected pack capacity (Ah)
// available when discharged continuously at currentA.
func (p *Pack) EffectiveCapacityAh(currentA float64) float64 {
	rated := p.CapacityAh()
	if currentA <= 0 {
		return rated
	}
	cRate := currentA / rated
	return rated * peukertCapacityFactor(cRate, p.Cell.PeukertExponent())
}

// UsableEnergyResult is the output of UsableEnergy.
type UsableEnergyResult struct {
	UsableEnergyWh float64
	UsableCapacityAh float64
	EndSOCPercent  float64
	RuntimeMinutes float64
}

// UsableEnergy finds, via binary search on the ending state of charge, how
// far a pack can be discharged at a constant currentA before its loaded
// voltage falls to the configured cutoff, then reports the Peukert-derated
// usable energy and the implied runtime, grounded on
// calculations/energy.py's binary-search depth-of-discharge solver.
func (p *Pack) UsableEnergy(currentA, startSOCPercent, tempC float64) UsableEnergyResult {
	cutoff := p.Config.CutoffVoltagePerCell * float64(p.Series)

	reachesCutoff := func(soc float64) bool {
		return p.LoadedVoltage(currentA, soc, tempC) <= cutoff
	}

	if reachesCutoff(startSOCPercent) {
		return UsableEnergyResult{EndSOCPercent: startSOCPercent}
	}

	lo, hi := 0.0, startSOCPercent
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if reachesCutoff(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	endSOC := hi

	dodFraction := (startSOCPercent - endSOC) / 100.0
	effectiveAh := p.EffectiveCapacityAh(currentA)
	usableAh := dodFraction * effectiveAh

	avgVoltage := (p.LoadedVoltage(currentA, startSOCPercent, tempC) + p.LoadedVoltage(currentA, endSOC, tempC)) / 2.0
	usableWh := usableAh * avgVoltage

	runtimeMinutes := 0.0
	if currentA > 0 {
		runtimeMinutes = (usableAh / currentA) * 60.0
	}

	return UsableEnergyResult{
		UsableEnergyWh:   usableWh,
		UsableCapacityAh: usableAh,
		EndSOCPercent:    endSOC,
		RuntimeMinutes:   runtimeMinutes,
	}
}

// RuntimeMinutes is a convenience wrapper returning just the runtime
// estimate of UsableEnergy.
func (p *Pack) RuntimeMinutes(currentA, startSOCPercent, tempC float64) float64 {
	return p.UsableEnergy(currentA, startSOCPercent, tempC).RuntimeMinutes
}
