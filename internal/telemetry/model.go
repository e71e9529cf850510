package telemetry

// targetModels maps each supported facility type to its target function.
var targetModels = map[string]func(Status, FacilitySpec) SignalVector{
	TypePEM: pemTargets,
}

// CanonicalType maps a facility type onto a supported model.
// Types without a model of their own are simulated as PEM.
func CanonicalType(facilityType string) string {
	if _, ok := targetModels[facilityType]; ok {
		return facilityType
	}
	return TypePEM
}

// TargetsFor returns the steady-state signal targets for a status.
// Unknown statuses fall back to the RUN targets.
func TargetsFor(facilityType string, status Status, spec FacilitySpec) SignalVector {
	return targetModels[CanonicalType(facilityType)](status, spec)
}

// pemTargets is tuned for a 500kW PEM stack.
func pemTargets(status Status, spec FacilitySpec) SignalVector {
	switch status {
	case StatusIdle:
		return SignalVector{
			TempC:          40.0,
			StackPressBar:  12.0,
			OutletPressBar: spec.PressureBar - 0.5,
			DCVoltageV:     30.0,
			DCCurrentA:     5.0,
			PurityPct:      spec.PurityPct - 0.004,
		}
	case StatusFault:
		return SignalVector{
			TempC:          32.0,
			StackPressBar:  0.3,
			OutletPressBar: 0.2,
			DCVoltageV:     0.0,
			DCCurrentA:     0.0,
			PurityPct:      spec.PurityPct - 0.02,
		}
	default:
		return SignalVector{
			TempC:          68.0,
			StackPressBar:  30.0,
			OutletPressBar: spec.PressureBar,
			DCVoltageV:     400.0,
			DCCurrentA:     1250.0,
			PurityPct:      spec.PurityPct,
		}
	}
}
