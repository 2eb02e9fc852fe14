package battery

import (
	"fmt"
	"math"
)

// Mass constants for the optional pack mass breakdown, grounded on
// original_source/.../models/pack.py's NICKEL_STRIP/WIRE/BMS constants
// (values not recovered verbatim in extraction - see DESIGN.md for the
// reasonable drone-pack defaults used here).
const (
	nickelStripMassPerConnectionG = 0.8
	wireMassPerConnectionG        = 0.5
	enclosureMassPerCellG         = 3.0
	bmsMassPerSG                  = 5.0

	defaultEntropicFactor = 0.10 // epsilon_entropic default
)

// Config is the per-batch pack configuration: thermal environment,
// safety cutoffs, and which optional mass terms to include.
type Config struct {
	ThermalEnv          ThermalEnvironment
	AmbientTempC        float64
	MaxCellTempC        float64
	CutoffVoltagePerCell float64

	IncludeInterconnectMass bool
	IncludeEnclosureMass    bool
	IncludeBMSMass          bool

	EntropicFactor float64 // 0 means use defaultEntropicFactor
}

func (c Config) entropic() float64 {
	if c.EntropicFactor == 0 {
		return defaultEntropicFactor
	}
	return c.EntropicFactor
}

// DefaultConfig returns a reasonable default pack configuration.
func DefaultConfig() Config {
	return Config{
		ThermalEnv:           ShrinkwrapStillAir,
		AmbientTempC:         25.0,
		MaxCellTempC:         60.0,
		CutoffVoltagePerCell: 3.0,
		IncludeInterconnectMass: true,
		IncludeEnclosureMass:    true,
		IncludeBMSMass:          true,
	}
}

// Pack is the battery pack model: a cell type wired S in series, P in
// parallel.
type Pack struct {
	Cell     CellSpec
	Series   int
	Parallel int
	Config   Config

	thermal ThermalModel
}

// NewPack validates S in [1,12], P in [1,8], and wires up the per-cell ->
// per-pack thermal-resistance scaling: convection is per cell; the
// pack-level lumped-mass R is R_cell_thermal / N_cells.
func NewPack(cell CellSpec, series, parallel int, cfg Config) (*Pack, error) {
	if series < 1 || series > 12 {
		return nil, fmt.Errorf("pack: series must be 1-12, got %d", series)
	}
	if parallel < 1 || parallel > 8 {
		return nil, fmt.Errorf("pack: parallel must be 1-8, got %d", parallel)
	}

	p := &Pack{Cell: cell, Series: series, Parallel: parallel, Config: cfg}

	cellThermalR := cell.ThermalResistanceCPerW
	if cellThermalR == 0 {
		cellThermalR = cfg.ThermalEnv.ThermalResistance()
	}
	packThermalR := cellThermalR / float64(p.TotalCells())

	p.thermal = NewThermalModel(p.totalMassGWithoutThermalModel(), cell.SpecificHeatJPerGC, packThermalR)
	return p, nil
}

// TotalCells is S*P.
func (p *Pack) TotalCells() int { return p.Series * p.Parallel }

// ConfigurationString is e.g. "6S2P".
func (p *Pack) ConfigurationString() string {
	return fmt.Sprintf("%dS%dP", p.Series, p.Parallel)
}

func (p *Pack) totalMassGWithoutThermalModel() float64 {
	return p.cellMassG() + p.interconnectMassG() + p.enclosureMassG() + p.bmsMassG()
}

func (p *Pack) cellMassG() float64 { return p.Cell.MassG * float64(p.TotalCells()) }

func (p *Pack) interconnectMassG() float64 {
	if !p.Config.IncludeInterconnectMass {
		return 0
	}
	connections := float64(p.TotalCells() * 2)
	if p.Cell.FormFactor == Pouch {
		return connections * wireMassPerConnectionG
	}
	return connections * nickelStripMassPerConnectionG
}

func (p *Pack) enclosureMassG() float64 {
	if !p.Config.IncludeEnclosureMass {
		return 0
	}
	return float64(p.TotalCells()) * enclosureMassPerCellG
}

func (p *Pack) bmsMassG() float64 {
	if !p.Config.IncludeBMSMass {
		return 0
	}
	return float64(p.Series) * bmsMassPerSG
}

// MassBreakdownG returns the detailed pack mass breakdown (g).
func (p *Pack) MassBreakdownG() map[string]float64 {
	return map[string]float64{
		"cells":         p.cellMassG(),
		"interconnects": p.interconnectMassG(),
		"enclosure":     p.enclosureMassG(),
		"bms":           p.bmsMassG(),
		"total":         p.totalMassGWithoutThermalModel(),
	}
}

// MassKg is the total pack mass in kg.
func (p *Pack) MassKg() float64 { return p.totalMassGWithoutThermalModel() / 1000.0 }

// NominalVoltage is the pack's nominal voltage (V).
func (p *Pack) NominalVoltage() float64 { return p.Cell.NominalVoltage * float64(p.Series) }

// MinVoltage is the pack's minimum safe voltage (V).
func (p *Pack) MinVoltage() float64 { return p.Cell.MinVoltage * float64(p.Series) }

// CapacityAh is total pack capacity.
func (p *Pack) CapacityAh() float64 { return (p.Cell.CapacityMAh * float64(p.Parallel)) / 1000.0 }

// EnergyWh is nominal pack energy.
func (p *Pack) EnergyWh() float64 { return p.CapacityAh() * p.NominalVoltage() }

// PackIRmOhm is R_cell(SOC,T)*S/P.
func (p *Pack) PackIRmOhm(socPercent, tempC float64) float64 {
	return p.Cell.AdjustedIRmOhm(socPercent, tempC) * float64(p.Series) / float64(p.Parallel)
}

// OCV is S * cell_OCV(SOC, chemistry).
func (p *Pack) OCV(socPercent float64) float64 {
	return float64(p.Series) * CellOCV(socPercent, p.Cell.Chemistry)
}

// VoltageSag is I*R_pack.
func (p *Pack) VoltageSag(currentA, socPercent, tempC float64) float64 {
	return currentA * (p.PackIRmOhm(socPercent, tempC) / 1000.0)
}

// LoadedVoltage is OCV - sag.
func (p *Pack) LoadedVoltage(currentA, socPercent, tempC float64) float64 {
	return p.OCV(socPercent) - p.VoltageSag(currentA, socPercent, tempC)
}

// HeatW is I^2*R_pack*(1+epsilon_entropic).
func (p *Pack) HeatW(currentA, socPercent, tempC float64) float64 {
	rPackOhm := p.PackIRmOhm(socPercent, tempC) / 1000.0
	return currentA * currentA * rPackOhm * (1 + p.Config.entropic())
}

// ThermalResistanceCPerW is the pack-level lumped thermal resistance
// (R_cell_thermal / N_cells).
func (p *Pack) ThermalResistanceCPerW() float64 { return p.thermal.ThermalResistanceCPerW }

// ThermalModel exposes the pack's underlying lumped thermal model.
func (p *Pack) ThermalModel() ThermalModel { return p.thermal }

// CurrentForPower finds the current (A) drawing the given electrical
// power via the fixed-point iteration: seed with
// I = P/OCV, then I <- I + (P - V_loaded(I)*I)/V_loaded(I), clamped >= 0,
// stopping when |P - V_loaded*I| < 0.01W or after 20 iterations.
func (p *Pack) CurrentForPower(powerW, socPercent, tempC float64) float64 {
	ocv := p.OCV(socPercent)
	if ocv <= 0 {
		return 0
	}
	current := powerW / ocv

	for i := 0; i < 20; i++ {
		vLoaded := p.LoadedVoltage(current, socPercent, tempC)
		if vLoaded <= 0 {
			break
		}
		residual := powerW - vLoaded*current
		if math.Abs(residual) < 0.01 {
			break
		}
		current += residual / vLoaded
		if current < 0 {
			current = 0
		}
	}
	return current
}

// SelfConsistentSteadyStateTempC solves for the steady-state cell
// temperature at a given current, accounting for the fact that IR depends
// on temperature while temperature depends on IR-driven heat generation.
// Seeded with ambient, it recomputes heat at the current temperature
// estimate and re-derives T_ss, iterating up to 10 times with a 0.1 degC
// tolerance.
func (p *Pack) SelfConsistentSteadyStateTempC(currentA, socPercent float64) float64 {
	temp := p.Config.AmbientTempC

	for i := 0; i < 10; i++ {
		heat := p.HeatW(currentA, socPercent, temp)
		newTemp := p.thermal.SteadyStateTempC(heat, p.Config.AmbientTempC)
		if math.Abs(newTemp-temp) < 0.1 {
			temp = newTemp
			break
		}
		temp = newTemp
	}
	return temp
}
