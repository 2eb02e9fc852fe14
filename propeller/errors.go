package propeller

import "errors"

// ErrOutOfEnvelope is returned when a query falls outside the tested
// (V, RPM) convex hull.
var ErrOutOfEnvelope = errors.New("propeller: query outside tested envelope")

// ErrThrustUnachievable is returned when the required thrust exceeds the
// propeller's capability at the given airspeed, even at RPMMax.
var ErrThrustUnachievable = errors.New("propeller: required thrust exceeds propeller capability")
