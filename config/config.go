// Package config loads a batch run's airframe, catalog-filter, and
// sweep parameters from a TOML/YAML/JSON file via viper, grounded on
// spatialmodel-inmap's inmap/cmd config-file pattern (ReadConfigFile plus
// a persistent --config flag on the root command), adapted from that
// project's single global ConfigData struct to this one's BatchInput.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/integrate"
)

// FileConfig mirrors integrate.BatchInput's shape as a serializable,
// viper-bindable document.
type FileConfig struct {
	Airframe struct {
		WingAreaM2       float64 `mapstructure:"wing_area_m2"`
		WingSpanM        float64 `mapstructure:"wingspan_m"`
		DryWeightN       float64 `mapstructure:"dry_weight_n"`
		Cd0              float64 `mapstructure:"cd0"`
		OswaldEfficiency float64 `mapstructure:"oswald_efficiency"`
		NumMotors        int     `mapstructure:"num_motors"`
	} `mapstructure:"airframe"`

	MotorCategories []string `mapstructure:"motor_categories"`

	PropFilter struct {
		DiameterMinIn float64 `mapstructure:"diameter_min_in"`
		DiameterMaxIn float64 `mapstructure:"diameter_max_in"`
		PitchMinIn    float64 `mapstructure:"pitch_min_in"`
		PitchMaxIn    float64 `mapstructure:"pitch_max_in"`
	} `mapstructure:"prop_filter"`

	CellIDs      []string `mapstructure:"cell_ids"`
	SeriesValues []int    `mapstructure:"series_values"`
	ParallelFlat []int    `mapstructure:"parallel_values"`
	ThermalEnvs  []string `mapstructure:"thermal_envs"`

	AnalysisSOCPercent   float64 `mapstructure:"analysis_soc_percent"`
	AmbientTempC         float64 `mapstructure:"ambient_temp_c"`
	MaxCellTempC         float64 `mapstructure:"max_cell_temp_c"`
	CutoffVoltagePerCell float64 `mapstructure:"cutoff_voltage_per_cell"`

	CruiseSpeedMS    float64 `mapstructure:"cruise_speed_ms"`
	SpeedSweepMinMS  float64 `mapstructure:"speed_sweep_min_ms"`
	SpeedSweepMaxMS  float64 `mapstructure:"speed_sweep_max_ms"`
	SpeedSweepStepMS float64 `mapstructure:"speed_sweep_step_ms"`
	EnableSpeedSweep bool    `mapstructure:"enable_speed_sweep"`
	EnableMaxSpeed   bool    `mapstructure:"enable_max_speed"`

	NumWorkers int `mapstructure:"num_workers"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configFile (TOML/YAML/JSON, format inferred from extension)
// via viper and unmarshals it into a FileConfig. An empty configFile
// yields the built-in defaults, overridden by any POWERTRAINX_-prefixed
// environment variables.
func Load(configFile string) (FileConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("POWERTRAINX")
	v.AutomaticEnv()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return FileConfig{}, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return fc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis_soc_percent", 50.0)
	v.SetDefault("ambient_temp_c", 25.0)
	v.SetDefault("max_cell_temp_c", 60.0)
	v.SetDefault("cutoff_voltage_per_cell", 3.0)
	v.SetDefault("num_workers", 4)
	v.SetDefault("log_level", "info")
}

// ToBatchInput converts a loaded FileConfig into the integrate.BatchInput
// the Engine consumes.
func (fc FileConfig) ToBatchInput() integrate.BatchInput {
	envs := make([]battery.ThermalEnvironment, len(fc.ThermalEnvs))
	for i, e := range fc.ThermalEnvs {
		envs[i] = battery.ThermalEnvironment(e)
	}

	speed := integrate.SpeedSpec{Single: fc.CruiseSpeedMS}
	if fc.EnableSpeedSweep {
		speed = integrate.SpeedSpec{
			VMinMS: fc.SpeedSweepMinMS,
			VMaxMS: fc.SpeedSweepMaxMS,
			StepMS: fc.SpeedSweepStepMS,
		}
	}

	return integrate.BatchInput{
		Airframe: integrate.Airframe{
			WingAreaM2:       fc.Airframe.WingAreaM2,
			WingSpanM:        fc.Airframe.WingSpanM,
			DryWeightN:       fc.Airframe.DryWeightN,
			Cd0:              fc.Airframe.Cd0,
			OswaldEfficiency: fc.Airframe.OswaldEfficiency,
			NumMotors:        fc.Airframe.NumMotors,
		},
		MotorCategories: fc.MotorCategories,
		PropFilter: integrate.DiameterPitchRange{
			DiameterMinIn: fc.PropFilter.DiameterMinIn,
			DiameterMaxIn: fc.PropFilter.DiameterMaxIn,
			PitchMinIn:    fc.PropFilter.PitchMinIn,
			PitchMaxIn:    fc.PropFilter.PitchMaxIn,
		},
		CellIDs:              fc.CellIDs,
		SeriesValues:         fc.SeriesValues,
		ParallelSet:          integrate.ParallelSet{Flat: fc.ParallelFlat},
		ThermalEnvs:          envs,
		AnalysisSOCPercent:   fc.AnalysisSOCPercent,
		AmbientTempC:         fc.AmbientTempC,
		MaxCellTempC:         fc.MaxCellTempC,
		CutoffVoltagePerCell: fc.CutoffVoltagePerCell,
		CruiseSpeed:          speed,
		EnableSpeedSweep:     fc.EnableSpeedSweep,
		EnableMaxSpeed:       fc.EnableMaxSpeed,
		NumWorkers:           fc.NumWorkers,
	}
}
