package propeller

import "math"

const (
	maxRootFindIterations = 30
	rootFindTolerance     = 1e-3 // RPM
)

// RPMForThrust inverse-solves for the RPM at which this propeller produces
// tReq newtons of thrust at airspeed v, using a bracketed Brent-style
// root-find over [RPMMin, RPMMax]. It fails with
// ErrThrustUnachievable if thrust(v, RPMMax) < tReq, and ErrOutOfEnvelope
// if v itself is outside the table's tested airspeed range.
func (t *Table) RPMForThrust(v, tReq float64) (float64, error) {
	env := t.Envelope()
	if v < env.VMin || v > env.VMax {
		return 0, ErrOutOfEnvelope
	}

	residual := func(rpm float64) float64 {
		return t.Thrust(v, rpm) - tReq
	}

	lo, hi := env.RPMMin, env.RPMMax
	fLo, fHi := residual(lo), residual(hi)

	if fHi < 0 {
		return 0, ErrThrustUnachievable
	}
	if fLo >= 0 {
		// Required thrust already met (or exceeded) at RPMMin.
		return lo, nil
	}

	rpm, err := brent(residual, lo, hi, fLo, fHi, maxRootFindIterations, rootFindTolerance)
	if err != nil {
		return 0, err
	}
	return rpm, nil
}

// PowerForThrust composes RPMForThrust with Power: returns the shaft power
// and equilibrium RPM required to produce tReq newtons of thrust at v.
func (t *Table) PowerForThrust(v, tReq float64) (powerW, rpm float64, err error) {
	rpm, err = t.RPMForThrust(v, tReq)
	if err != nil {
		return 0, 0, err
	}
	return t.Power(v, rpm), rpm, nil
}

// brent is a standard bracketed Brent's-method root-find: it falls back to
// bisection whenever inverse-quadratic/secant interpolation would step
// outside the current bracket, guaranteeing convergence within the
// iteration cap.
func brent(f func(float64) float64, a, b, fa, fb float64, maxIter int, tol float64) (float64, error) {
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	mflag := true
	var d float64

	for i := 0; i < maxIter; i++ {
		if math.Abs(b-a) < tol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant method.
			s = b - fb*(b-a)/(fb-fa)
		}

		lowBound := (3*a + b) / 4
		cond1 := (s < lowBound || s > b) && lowBound <= b || (s > lowBound || s < b) && lowBound > b
		useBisection := cond1 ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < tol) ||
			(!mflag && math.Abs(c-d) < tol)

		if useBisection {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d, c, fc = c, b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return b, nil
}
