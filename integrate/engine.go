package integrate

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cameronsima/powertrainx/battery"
	"github.com/cameronsima/powertrainx/drag"
	"github.com/cameronsima/powertrainx/flight"
	"github.com/cameronsima/powertrainx/thermaleval"
)

const (
	motorThermalResistanceCPerW = 6.0 // typical air-cooled FPV motor, used for the winding-temp estimate
	gravityMPerS2               = 9.80665
	voltageIterMaxSteps         = 5
	voltageIterTolFraction      = 0.01
)

// Progress is the progress-observer snapshot
// Every field is read independently via atomic loads; callers must not
// assume cross-field consistency.
type Progress struct {
	CurrentIndex   int64
	Total          int64
	ValidCount     int64
	InvalidCount   int64
	MotorLabel     string
	PropLabel      string
	SpeedLabel     string
	ElapsedS       float64
	BestEffSoFar   float64
}

// ProgressObserver is invoked at work-item boundaries.
type ProgressObserver func(Progress)

// Engine drives the batch permutation enumeration
// across a bounded worker pool.
type Engine struct {
	Motors MotorCatalog
	Props  PropCatalog
	Cells  CellCatalog

	total        int64
	completed    int64
	validCount   int64
	invalidCount int64
	bestEffBits  int64 // atomic-stored float64 bits

	currentMotorLabel atomic.Value
	currentPropLabel  atomic.Value
	currentSpeedLabel atomic.Value

	cancelled int32
}

// NewEngine constructs an Engine over the given read-only catalogs.
func NewEngine(motors MotorCatalog, props PropCatalog, cells CellCatalog) *Engine {
	e := &Engine{Motors: motors, Props: props, Cells: cells}
	e.currentMotorLabel.Store("")
	e.currentPropLabel.Store("")
	e.currentSpeedLabel.Store("")
	return e
}

// Cancel sets the cooperative cancellation flag. New
// work-item dispatch stops; in-flight items run to completion.
func (e *Engine) Cancel() { atomic.StoreInt32(&e.cancelled, 1) }

func (e *Engine) cancelledNow() bool { return atomic.LoadInt32(&e.cancelled) != 0 }

// Progress returns a best-effort snapshot of the engine's progress
// counters.
func (e *Engine) Progress(startedAt time.Time) Progress {
	return Progress{
		CurrentIndex: atomic.LoadInt64(&e.completed),
		Total:        atomic.LoadInt64(&e.total),
		ValidCount:   atomic.LoadInt64(&e.validCount),
		InvalidCount: atomic.LoadInt64(&e.invalidCount),
		MotorLabel:   e.currentMotorLabel.Load().(string),
		PropLabel:    e.currentPropLabel.Load().(string),
		SpeedLabel:   e.currentSpeedLabel.Load().(string),
		ElapsedS:     time.Since(startedAt).Seconds(),
		BestEffSoFar: loadFloat64(&e.bestEffBits),
	}
}

func loadFloat64(bits *int64) float64 {
	return math.Float64frombits(uint64(atomic.LoadInt64(bits)))
}

// recordEfficiency atomically ratchets the best-efficiency-so-far
// counter upward via compare-and-swap, storing the float64's raw bits in
// the int64 word.
func (e *Engine) recordEfficiency(eta float64) {
	for {
		cur := atomic.LoadInt64(&e.bestEffBits)
		if math.Float64frombits(uint64(cur)) >= eta {
			return
		}
		next := int64(math.Float64bits(eta))
		if atomic.CompareAndSwapInt64(&e.bestEffBits, cur, next) {
			return
		}
	}
}

func (e *Engine) buildWorkItems(input BatchInput) ([]workItem, error) {
	motors := e.Motors.SelectByCategories(input.MotorCategories)
	if len(motors) == 0 {
		return nil, fmt.Errorf("integrate: no motors matched categories %v", input.MotorCategories)
	}

	props := e.Props.FilterProps(input.PropFilter)
	if len(props) == 0 {
		return nil, fmt.Errorf("integrate: no props matched filter %+v", input.PropFilter)
	}

	speeds := input.CruiseSpeed.Speeds()

	var items []workItem
	for _, m := range motors {
		for _, p := range props {
			for _, cellID := range input.CellIDs {
				cell, ok := e.Cells.Cells[cellID]
				if !ok {
					continue
				}
				for _, series := range input.SeriesValues {
					for _, parallel := range input.ParallelSet.ForSeries(series) {
						for _, env := range input.ThermalEnvs {
							for _, speed := range speeds {
								items = append(items, workItem{
									motor: m, prop: p, cellID: cellID, cell: cell,
									series: series, parallel: parallel, thermalEnv: env,
									cruiseSpeedMS: speed,
								})
							}
						}
					}
				}
			}
		}
	}
	return items, nil
}

// Run enumerates and solves every permutation of input across a worker
// pool of input.NumWorkers goroutines (defaulting to 4), invoking observe
// (if non-nil) at every work-item boundary.
func (e *Engine) Run(input BatchInput, observe ProgressObserver) ([]Result, error) {
	items, err := e.buildWorkItems(input)
	if err != nil {
		return nil, err
	}

	workers := input.NumWorkers
	if workers <= 0 {
		workers = 4
	}

	atomic.StoreInt64(&e.total, int64(len(items)))
	atomic.StoreInt64(&e.completed, 0)
	atomic.StoreInt64(&e.validCount, 0)
	atomic.StoreInt64(&e.invalidCount, 0)
	atomic.StoreInt64(&e.bestEffBits, 0)

	workChan := make(chan workItem, len(items))
	resultChan := make(chan Result, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.worker(input, &wg, workChan, resultChan)
	}

	go func() {
		for _, item := range items {
			if e.cancelledNow() {
				break
			}
			workChan <- item
		}
		close(workChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	startedAt := time.Now()
	results := make([]Result, 0, len(items))
	for r := range resultChan {
		results = append(results, r)

		atomic.AddInt64(&e.completed, 1)
		if r.Valid {
			atomic.AddInt64(&e.validCount, 1)
			e.recordEfficiency(r.CruiseResult.SystemEta)
		} else {
			atomic.AddInt64(&e.invalidCount, 1)
		}
		e.currentMotorLabel.Store(r.MotorID)
		e.currentPropLabel.Store(r.PropID)
		e.currentSpeedLabel.Store(fmt.Sprintf("%.1f m/s", r.CruiseResult.AirspeedMS))

		if observe != nil {
			observe(e.Progress(startedAt))
		}
	}

	sortResults(results)
	return results, nil
}

func (e *Engine) worker(input BatchInput, wg *sync.WaitGroup, tasks <-chan workItem, results chan<- Result) {
	defer wg.Done()
	for item := range tasks {
		results <- solveWorkItem(input, item)
	}
}

// sortResults imposes a deterministic ordering: by motor, prop, cell, S,
// P, thermal environment, and speed.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MotorID != b.MotorID {
			return a.MotorID < b.MotorID
		}
		if a.PropID != b.PropID {
			return a.PropID < b.PropID
		}
		if a.CellID != b.CellID {
			return a.CellID < b.CellID
		}
		if a.Series != b.Series {
			return a.Series < b.Series
		}
		if a.Parallel != b.Parallel {
			return a.Parallel < b.Parallel
		}
		if a.ThermalEnv != b.ThermalEnv {
			return a.ThermalEnv < b.ThermalEnv
		}
		return a.CruiseResult.AirspeedMS < b.CruiseResult.AirspeedMS
	})
}

// solveWorkItem implements the nine-step per-combination procedure,
// grounded on original_source's
// integrated_analyzer/integrated_solver.py.
func solveWorkItem(input BatchInput, item workItem) Result {
	result := Result{
		MotorID: item.motor.ID, PropID: item.prop.ID, CellID: item.cellID,
		Series: item.series, Parallel: item.parallel, ThermalEnv: item.thermalEnv,
	}

	cfg := battery.Config{
		ThermalEnv:              item.thermalEnv,
		AmbientTempC:            input.AmbientTempC,
		MaxCellTempC:            input.MaxCellTempC,
		CutoffVoltagePerCell:    input.CutoffVoltagePerCell,
		IncludeInterconnectMass: true,
		IncludeEnclosureMass:    true,
		IncludeBMSMass:          true,
	}

	pack, err := battery.NewPack(item.cell, item.series, item.parallel, cfg)
	if err != nil {
		result.InvalidityReason = ReasonInvalidPackConfig
		return result
	}

	result.PackMassKg = pack.MassKg()
	if result.PackMassKg > 0 {
		totalCells := float64(pack.TotalCells())
		result.PowerDensityWPerKg = item.cell.MaxContinuousPowerW() * totalCells / result.PackMassKg

		cellMassKg := item.cell.MassG / 1000.0
		result.EnergyDensityWhPerKg = item.cell.EnergyDensityWhPerKg() * cellMassKg * totalCells / result.PackMassKg
	}

	totalWeightN := input.Airframe.DryWeightN + pack.MassKg()*gravityMPerS2
	dragModel, err := drag.NewFixedWing(input.Airframe.Cd0, input.Airframe.WingAreaM2, input.Airframe.WingSpanM, totalWeightN, input.Airframe.OswaldEfficiency)
	if err != nil {
		result.InvalidityReason = ReasonInvalidPackConfig
		return result
	}

	solver := flight.NewSolver(dragModel, item.prop.Table, item.motor.Params)

	windingTempEstimate := item.motor.Params.EstimateWindingTemp(input.AmbientTempC, item.motor.Params.IMaxA*0.5, motorThermalResistanceCPerW)

	voltage := pack.NominalVoltage()
	var cruise flight.Result
	prevCurrent := 0.0
	for i := 0; i < voltageIterMaxSteps; i++ {
		cruise = solver.SolveCruise(voltage, item.cruiseSpeedMS, 0, 0, windingTempEstimate, input.Airframe.NumMotors)
		if !cruise.Valid {
			break
		}
		voltage = pack.LoadedVoltage(cruise.BatteryCurrentA, input.AnalysisSOCPercent, input.AmbientTempC)

		if prevCurrent > 0 {
			delta := (cruise.BatteryCurrentA - prevCurrent) / prevCurrent
			if delta < 0 {
				delta = -delta
			}
			if delta < voltageIterTolFraction {
				break
			}
		}
		prevCurrent = cruise.BatteryCurrentA
	}
	result.CruiseResult = cruise

	if !cruise.Valid {
		result.InvalidityReason = mapFlightInvalidity(cruise.InvalidityReason)
		return result
	}

	cutoffV := pack.Config.CutoffVoltagePerCell * float64(pack.Series)
	maxContinuous := pack.MaxContinuousCurrent(input.AnalysisSOCPercent)

	switch {
	case voltage <= cutoffV:
		result.InvalidityReason = ReasonPackVoltageFloor
		return result
	case cruise.BatteryCurrentA > maxContinuous.CurrentA:
		result.InvalidityReason = mapLimitReason(maxContinuous.Reason)
		return result
	}

	if input.EnableSpeedSweep {
		speeds := input.CruiseSpeed.Speeds()
		result.SpeedSweep = solver.SpeedSweep(voltage, speeds, 0, 0, windingTempEstimate, input.Airframe.NumMotors)
	}

	if input.EnableMaxSpeed {
		if maxResult, ok := solver.FindMaxSpeed(voltage, 0, 0, windingTempEstimate, input.Airframe.NumMotors); ok {
			result.MaxSpeedResult = &maxResult
		}
	}

	cruiseEval := thermaleval.Evaluate(pack, cruise.BatteryCurrentA, input.AnalysisSOCPercent)
	result.ThermalEvals.Cruise = cruiseEval

	if result.MaxSpeedResult != nil {
		maxEval := thermaleval.Evaluate(pack, result.MaxSpeedResult.BatteryCurrentA, input.AnalysisSOCPercent)
		result.ThermalEvals.MaxSpeed = &maxEval

		if cruiseEval.WithinLimits && !maxEval.WithinLimits {
			throttle, _ := thermaleval.FindMaxSafeThrottle(pack, input.AnalysisSOCPercent, cruise.ThrottlePercent, cruise.BatteryCurrentA, result.MaxSpeedResult.BatteryCurrentA, nil)
			result.ThermalThrottleLimitPercent = &throttle
		}
	}

	if !cruiseEval.WithinLimits {
		result.InvalidityReason = ReasonThermalExceeded
		return result
	}

	result.RuntimeMinutesAtCruise = pack.RuntimeMinutes(cruise.BatteryCurrentA, input.AnalysisSOCPercent, input.AmbientTempC)
	result.Valid = true
	return result
}

func mapLimitReason(r battery.LimitReason) InvalidityReason {
	switch r {
	case battery.LimitThermal:
		return ReasonThermalExceeded
	case battery.LimitVoltage:
		return ReasonPackVoltageFloor
	default:
		return ReasonOverCurrent
	}
}

func mapFlightInvalidity(r flight.InvalidityReason) InvalidityReason {
	switch r {
	case flight.ReasonThrustExceedsPropCapability:
		return ReasonThrustUnachievable
	case flight.ReasonPropOutOfEnvelope:
		return ReasonEnvelope
	case flight.ReasonBackEMFExceedsSupply:
		return ReasonBackEMFSaturation
	case flight.ReasonThrottleSaturated:
		return ReasonThrottleSaturated
	case flight.ReasonOverCurrent:
		return ReasonOverCurrent
	default:
		return ReasonSolverNonConvergent
	}
}
