package telemetry

// Rand is the random source used by the model. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Per-tick transition thresholds, cumulative within each status.
const (
	runToIdle   = 0.010
	runToFault  = 0.012
	idleToRun   = 0.100
	idleToFault = 0.120
	faultToIdle = 0.400
)

// NextStatus advances the status chain by one tick using a single draw.
func NextStatus(prev Status, rnd Rand) Status {
	r := rnd.Float64()
	switch prev {
	case StatusRun:
		if r < runToIdle {
			return StatusIdle
		}
		if r < runToFault {
			return StatusFault
		}
		return StatusRun
	case StatusIdle:
		if r < idleToRun {
			return StatusRun
		}
		if r < idleToFault {
			return StatusFault
		}
		return StatusIdle
	case StatusFault:
		if r < faultToIdle {
			return StatusIdle
		}
		return StatusFault
	}
	return StatusRun
}
