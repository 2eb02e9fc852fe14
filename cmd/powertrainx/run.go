package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/config"
	"github.com/cameronsima/powertrainx/integrate"
	"github.com/cameronsima/powertrainx/logging"
	"github.com/cameronsima/powertrainx/motor"
	"github.com/cameronsima/powertrainx/propeller"
)

var (
	motorsFile string
	propsFile  string
	cellsFile  string
	rankMetric string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch permutation sweep and print the ranked results",
	RunE:  runBatch,
}

func init() {
	runCmd.Flags().StringVar(&motorsFile, "motors", "", "motor preset catalog (JSON)")
	runCmd.Flags().StringVar(&propsFile, "props", "", "propeller performance database (JSON)")
	runCmd.Flags().StringVar(&cellsFile, "cells", "", "cell specification database (JSON)")
	runCmd.Flags().StringVar(&rankMetric, "rank-by", string(integrate.MetricSystemEfficiency), "ranking metric")
}

// The *File types below are the on-disk JSON shapes for the motor/prop/cell
// catalogs.
// Physical storage format is left as an implementation detail by the
// design this tool implements; JSON was chosen here since nothing
// mandates a specific format and this keeps catalog files easy to hand-edit.
type motorPresetFile struct {
	ID         string  `json:"id"`
	KvRPMPerV  float64 `json:"kv_rpm_per_volt"`
	RmColdOhm  float64 `json:"rm_cold_ohm"`
	I0RefA     float64 `json:"i0_ref_a"`
	RPMI0RefA  float64 `json:"rpm_i0_ref"`
	IMaxA      float64 `json:"i_max_a"`
	PMaxW      float64 `json:"p_max_w"`
	KSat       float64 `json:"k_sat"`
	MassG      float64 `json:"mass_g"`
}

type motorCatalogFile struct {
	Motors     []motorPresetFile   `json:"motors"`
	Categories map[string][]string `json:"categories"`
}

type propSampleFile struct {
	V       float64 `json:"v_ms"`
	RPM     float64 `json:"rpm"`
	ThrustN float64 `json:"thrust_n"`
	PowerW  float64 `json:"power_w"`
}

type propEntryFile struct {
	ID      string           `json:"id"`
	Samples []propSampleFile `json:"samples"`
}

type propCatalogFile struct {
	Props []propEntryFile `json:"props"`
}

type cellCatalogFile struct {
	Cells []battery.CellSpec `json:"cells"`
}

func loadMotorCatalog(path string) (integrate.MotorCatalog, error) {
	var raw motorCatalogFile
	if err := loadJSON(path, &raw); err != nil {
		return integrate.MotorCatalog{}, err
	}

	catalog := integrate.MotorCatalog{
		Motors:     map[string]integrate.MotorPreset{},
		Categories: raw.Categories,
	}
	for _, m := range raw.Motors {
		params, err := motor.NewParameters(m.ID, m.KvRPMPerV, m.RmColdOhm, m.I0RefA, m.RPMI0RefA, m.IMaxA, m.PMaxW, m.KSat)
		if err != nil {
			return integrate.MotorCatalog{}, fmt.Errorf("motor %q: %w", m.ID, err)
		}
		catalog.Motors[m.ID] = integrate.MotorPreset{ID: m.ID, Params: params, MassG: m.MassG}
	}
	return catalog, nil
}

func loadPropCatalog(path string) (integrate.PropCatalog, error) {
	var raw propCatalogFile
	if err := loadJSON(path, &raw); err != nil {
		return integrate.PropCatalog{}, err
	}

	catalog := integrate.PropCatalog{Props: map[string]integrate.PropEntry{}}
	for _, p := range raw.Props {
		samples := make([]propeller.Sample, len(p.Samples))
		for i, s := range p.Samples {
			samples[i] = propeller.Sample{V: s.V, RPM: s.RPM, ThrustN: s.ThrustN, PowerW: s.PowerW}
		}
		tbl, err := propeller.NewTable(p.ID, samples)
		if err != nil {
			return integrate.PropCatalog{}, fmt.Errorf("prop %q: %w", p.ID, err)
		}

		diameterIn, pitchIn, _ := integrate.ParsePropDimensions(p.ID)
		catalog.Props[p.ID] = integrate.PropEntry{ID: p.ID, Table: tbl, DiameterIn: diameterIn, PitchIn: pitchIn}
	}
	return catalog, nil
}

func loadCellCatalog(path string) (integrate.CellCatalog, error) {
	var raw cellCatalogFile
	if err := loadJSON(path, &raw); err != nil {
		return integrate.CellCatalog{}, err
	}

	catalog := integrate.CellCatalog{Cells: map[string]battery.CellSpec{}}
	for _, c := range raw.Cells {
		spec, err := battery.NewCellSpec(c)
		if err != nil {
			return integrate.CellCatalog{}, fmt.Errorf("cell %q: %w", c.Name, err)
		}
		catalog.Cells[c.Name] = spec
	}
	return catalog, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	fc, err := config.Load(configFile)
	if err != nil {
		return err
	}
	input := fc.ToBatchInput()

	motors, err := loadMotorCatalog(motorsFile)
	if err != nil {
		return err
	}
	props, err := loadPropCatalog(propsFile)
	if err != nil {
		return err
	}
	cells, err := loadCellCatalog(cellsFile)
	if err != nil {
		return err
	}

	engine := integrate.NewEngine(motors, props, cells)

	results, err := engine.Run(input, func(p integrate.Progress) {
		logging.Log.WithFields(map[string]interface{}{
			"index":   p.CurrentIndex,
			"total":   p.Total,
			"valid":   p.ValidCount,
			"invalid": p.InvalidCount,
		}).Debug("work item completed")
	})
	if err != nil {
		return err
	}

	stats, best := integrate.Summarize(results)
	logging.Log.WithFields(map[string]interface{}{
		"total":   stats.Total,
		"valid":   stats.ValidCount,
		"invalid": stats.InvalidCount,
	}).Info("batch complete")

	ranked := integrate.Rank(results, integrate.Metric(rankMetric))
	for i, r := range ranked {
		fmt.Printf("%3d. %-16s %-12s %-10s %dS%dP  eta=%.3f  runtime=%.1fmin\n",
			i+1, r.MotorID, r.PropID, r.CellID, r.Series, r.Parallel,
			r.CruiseResult.SystemEta, r.RuntimeMinutesAtCruise)
	}

	if best.Efficiency != nil {
		fmt.Printf("\nbest efficiency: %s/%s/%s\n", best.Efficiency.MotorID, best.Efficiency.PropID, best.Efficiency.CellID)
	}
	if best.Runtime != nil {
		fmt.Printf("best runtime:    %s/%s/%s\n", best.Runtime.MotorID, best.Runtime.PropID, best.Runtime.CellID)
	}
	return nil
}
