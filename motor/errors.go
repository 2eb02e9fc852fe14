package motor

import "errors"

// ErrBackEMFExceedsSupply is returned by StateAtRPM when RPM/Kv >= VSupply:
// the requested RPM cannot be sustained by the given supply voltage.
var ErrBackEMFExceedsSupply = errors.New("motor: back-EMF exceeds supply voltage")

// ErrOverCurrent is returned by Solve when the current at an iterate
// exceeds 1.5x I_max: "Abandons if current exceeds 1.5*I_max".
var ErrOverCurrent = errors.New("motor: equilibrium current exceeds 1.5x rated I_max")

// ErrSolverNonConvergent is returned by Solve when the Newton iteration
// does not converge within its iteration budget.
var ErrSolverNonConvergent = errors.New("motor: equilibrium solve did not converge")
