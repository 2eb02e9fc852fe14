package battery

import "errors"

var (
	ErrInvalidSeriesCount   = errors.New("battery: series count out of range")
	ErrInvalidParallelCount = errors.New("battery: parallel count out of range")
	ErrCellBelowCutoff      = errors.New("battery: cell already at or below cutoff voltage")
)
