package battery

import "sort"

// ocvTableNMC and ocvTableLFP are piecewise-linear SOC->OCV tables. The
// retrieved Python source's SOC_TO_OCV_NMC/LFP
// constant dicts were truncated on extraction (see DESIGN.md); the
// endpoints below are fixed at their known reference values (NMC
// 100%->4.20V, LFP 100%->3.60V) and the intermediate points follow the
// chemistry-typical discharge-curve shape: a broad NMC plateau through
// mid-SOC with a knee below ~20%, and a flatter, lower LFP plateau.
var ocvTableNMC = map[float64]float64{
	0:   3.00,
	5:   3.30,
	10:  3.50,
	20:  3.65,
	30:  3.73,
	40:  3.79,
	50:  3.84,
	60:  3.89,
	70:  3.95,
	80:  4.02,
	90:  4.10,
	100: 4.20,
}

var ocvTableLFP = map[float64]float64{
	0:   2.50,
	5:   2.90,
	10:  3.05,
	20:  3.20,
	30:  3.24,
	40:  3.27,
	50:  3.29,
	60:  3.31,
	70:  3.33,
	80:  3.36,
	90:  3.42,
	100: 3.60,
}

// CellOCV converts state of charge (0-100%) to open-circuit voltage via
// linear interpolation of the chemistry's lookup table. NMC, NCA, and LiPo
// all use the NMC-like table; LFP uses the LFP table.
func CellOCV(socPercent float64, chem Chemistry) float64 {
	soc := socPercent
	if soc < 0 {
		soc = 0
	}
	if soc > 100 {
		soc = 100
	}

	table := ocvTableNMC
	if chem == LFP {
		table = ocvTableLFP
	}

	if v, ok := table[soc]; ok {
		return v
	}

	points := make([]float64, 0, len(table))
	for k := range table {
		points = append(points, k)
	}
	sort.Float64s(points)

	lower, upper := points[0], points[len(points)-1]
	for _, p := range points {
		if p <= soc {
			lower = p
		}
		if p >= soc {
			upper = p
			break
		}
	}
	if lower == upper {
		return table[lower]
	}

	lowV, highV := table[lower], table[upper]
	frac := (soc - lower) / (upper - lower)
	return lowV + frac*(highV-lowV)
}
