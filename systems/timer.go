package systems

// timerEpsilon absorbs float drift when a countdown lands on zero.
const timerEpsilon = 1e-9

// AdvanceTimer counts t down by dt. When it expires it re-arms by adding
// period and reports true. A timer fires at most once per call.
func AdvanceTimer(t *float64, period, dt float64) bool {
	*t -= dt
	if *t > timerEpsilon {
		return false
	}
	*t += period
	if *t < 0 {
		*t = 0
	}
	return true
}
