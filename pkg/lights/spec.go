package lights

// Phase is one step of a light's animation cycle.
type Phase int

const (
	BecomingActive Phase = iota
	PrimaryActive
	SecondaryActive
	BecomingInactive
	PrimaryInactive
	SecondaryInactive

	PhaseCount
)

func (p Phase) String() string {
	switch p {
	case BecomingActive:
		return "becoming-active"
	case PrimaryActive:
		return "primary-active"
	case SecondaryActive:
		return "secondary-active"
	case BecomingInactive:
		return "becoming-inactive"
	case PrimaryInactive:
		return "primary-inactive"
	case SecondaryInactive:
		return "secondary-inactive"
	default:
		return "unknown"
	}
}

// Active reports whether the phase belongs to the "on" half of the cycle.
func (p Phase) Active() bool {
	return p == BecomingActive || p == PrimaryActive || p == SecondaryActive
}

// transitions maps a finished phase to its successor. The second index is 1
// for stateless lights, which run the whole on/off cycle on their own;
// stateful lights loop between their primary and secondary phases until
// switched with SetActive.
var transitions = [PhaseCount][2]Phase{
	BecomingActive:    {PrimaryActive, PrimaryActive},
	PrimaryActive:     {SecondaryActive, SecondaryActive},
	SecondaryActive:   {PrimaryActive, BecomingInactive},
	BecomingInactive:  {PrimaryInactive, PrimaryInactive},
	PrimaryInactive:   {SecondaryInactive, SecondaryInactive},
	SecondaryInactive: {PrimaryInactive, BecomingActive},
}

// Next returns the phase that follows p.
func Next(p Phase, stateless bool) Phase {
	i := 0
	if stateless {
		i = 1
	}
	return transitions[p][i]
}

// Spec is the static description of a light.
type Spec struct {
	Stateless       bool `json:"stateless,omitempty"`
	InitiallyActive bool `json:"initiallyActive"`
	// Phase is the tick offset into the initial phase.
	Phase int `json:"phase,omitempty"`

	PrimaryActive     Function `json:"primaryActive"`
	SecondaryActive   Function `json:"secondaryActive"`
	BecomingActive    Function `json:"becomingActive"`
	PrimaryInactive   Function `json:"primaryInactive"`
	SecondaryInactive Function `json:"secondaryInactive"`
	BecomingInactive  Function `json:"becomingInactive"`
}

// Function returns the curve for phase p.
func (s Spec) Function(p Phase) Function {
	switch p {
	case BecomingActive:
		return s.BecomingActive
	case PrimaryActive:
		return s.PrimaryActive
	case SecondaryActive:
		return s.SecondaryActive
	case BecomingInactive:
		return s.BecomingInactive
	case PrimaryInactive:
		return s.PrimaryInactive
	default:
		return s.SecondaryInactive
	}
}

// NormalLight is a steady light that fades over one second when switched.
func NormalLight(intensity float64, active bool) Spec {
	on := Function{Kind: Constant, Period: 30, Intensity: intensity}
	off := Function{Kind: Constant, Period: 30}
	return Spec{
		InitiallyActive:   active,
		PrimaryActive:     on,
		SecondaryActive:   on,
		BecomingActive:    Function{Kind: Smooth, Period: 30, Intensity: intensity},
		PrimaryInactive:   off,
		SecondaryInactive: off,
		BecomingInactive:  Function{Kind: Smooth, Period: 30},
	}
}

// StrobeLight alternates between full and dim every half second.
func StrobeLight() Spec {
	return Spec{
		Stateless:         true,
		InitiallyActive:   true,
		PrimaryActive:     Function{Kind: Constant, Period: 15, Intensity: 1},
		SecondaryActive:   Function{Kind: Constant, Period: 15, Intensity: 0.25},
		BecomingActive:    Function{Kind: Linear, Period: 5, Intensity: 1},
		PrimaryInactive:   Function{Kind: Constant, Period: 15, Intensity: 0.25},
		SecondaryInactive: Function{Kind: Constant, Period: 15, Intensity: 1},
		BecomingInactive:  Function{Kind: Linear, Period: 5, Intensity: 0.25},
	}
}

// FlickerLight is a failing fluorescent tube.
func FlickerLight() Spec {
	return Spec{
		InitiallyActive:   true,
		PrimaryActive:     Function{Kind: Flicker, Period: 20, DeltaPeriod: 40, Intensity: 0.75, DeltaIntensity: 0.25},
		SecondaryActive:   Function{Kind: Flicker, Period: 5, DeltaPeriod: 10, Intensity: 0.2, DeltaIntensity: 0.2},
		BecomingActive:    Function{Kind: Smooth, Period: 30, Intensity: 0.75},
		PrimaryInactive:   Function{Kind: Constant, Period: 30},
		SecondaryInactive: Function{Kind: Constant, Period: 30},
		BecomingInactive:  Function{Kind: Smooth, Period: 30},
	}
}

// TideLight slowly oscillates; liquids use it to rise and fall.
func TideLight(period int) Spec {
	return Spec{
		Stateless:         true,
		InitiallyActive:   true,
		PrimaryActive:     Function{Kind: Smooth, Period: period, Intensity: 1},
		SecondaryActive:   Function{Kind: Smooth, Period: period},
		BecomingActive:    Function{Kind: Smooth, Period: period, Intensity: 1},
		PrimaryInactive:   Function{Kind: Smooth, Period: period},
		SecondaryInactive: Function{Kind: Smooth, Period: period, Intensity: 1},
		BecomingInactive:  Function{Kind: Smooth, Period: period},
	}
}
