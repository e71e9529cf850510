package telemetry

// Range is a closed physical bound.
type Range struct {
	Lo float64
	Hi float64
}

// Bounds are the physical limits of each signal, in SignalVector field order.
var Bounds = [6]Range{
	{0, 90},   // temperature
	{0, 40},   // stack pressure
	{0, 40},   // outlet pressure
	{0, 450},  // DC voltage
	{0, 2000}, // DC current
	{90, 100}, // purity
}

// DefaultNoise holds the per-tick noise amplitude of each signal.
var DefaultNoise = SignalVector{
	TempC:          0.05,
	StackPressBar:  0.03,
	OutletPressBar: 0.02,
	DCVoltageV:     0.2,
	DCCurrentA:     1.5,
	PurityPct:      0.0005,
}

// DefaultKappa is the mean reversion rate per tick.
const DefaultKappa = 0.05

// Stepper advances signals toward their targets with uniform jitter.
type Stepper struct {
	Kappa float64
	Noise SignalVector
	rand  Rand
}

// NewStepper creates a Stepper with the default noise amplitudes.
func NewStepper(kappa float64, rnd Rand) *Stepper {
	return &Stepper{Kappa: kappa, Noise: DefaultNoise, rand: rnd}
}

// Step moves every signal a fraction Kappa of the way to its target and adds
// noise drawn from U(-sigma, sigma).
func (s *Stepper) Step(cur, target SignalVector) SignalVector {
	next := cur
	nf := next.fields()
	tf := target.fields()
	sf := s.Noise.fields()
	for i := range nf {
		v := *nf[i]
		*nf[i] = (1-s.Kappa)*v + s.Kappa*(*tf[i]) + uniform(s.rand, *sf[i])
	}
	return next
}

// uniform draws from U(-sigma, sigma).
func uniform(rnd Rand, sigma float64) float64 {
	return -sigma + 2*sigma*rnd.Float64()
}

// Clamp saturates every signal into its physical range.
func Clamp(v SignalVector) SignalVector {
	out := v
	for i, p := range out.fields() {
		b := Bounds[i]
		if *p < b.Lo {
			*p = b.Lo
		}
		if *p > b.Hi {
			*p = b.Hi
		}
	}
	return out
}
