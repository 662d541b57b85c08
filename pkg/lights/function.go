// Package lights animates map lights. Each light cycles through six phases,
// and every phase interpolates the light's intensity towards a (jittered)
// target over a (jittered) period using one of four curve kinds.
package lights

import (
	"math"
)

// MaxIntensity is full brightness in the fixed-point intensity scale.
const MaxIntensity = 0xffff

// Kind selects the curve a phase uses to reach its target intensity.
type Kind int

const (
	Constant Kind = iota // snap to the target
	Linear               // straight ramp
	Smooth               // raised cosine ramp
	Flicker              // raised cosine plus noise bounded by the remaining delta
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	case Smooth:
		return "smooth"
	case Flicker:
		return "flicker"
	default:
		return "unknown"
	}
}

// Function describes one phase: how long it lasts in ticks and how bright
// it ends. DeltaPeriod and DeltaIntensity add a random amount in [0, delta].
// Intensities are fractions of full brightness.
type Function struct {
	Kind           Kind    `json:"kind"`
	Period         int     `json:"period"`
	DeltaPeriod    int     `json:"deltaPeriod,omitempty"`
	Intensity      float64 `json:"intensity"`
	DeltaIntensity float64 `json:"deltaIntensity,omitempty"`
}

// Source is the random number source driving period and intensity jitter
// and flicker noise. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

func toFixed(f float64) int {
	return int(math.Round(f * MaxIntensity))
}

// evaluate returns the intensity at phase/period of the way from initial
// to final.
func (f Function) evaluate(initial, final, phase, period int, rng Source) int {
	if period <= 0 || phase >= period {
		return final
	}
	frac := float64(phase) / float64(period)
	span := float64(final - initial)

	switch f.Kind {
	case Linear:
		return initial + int(span*frac)
	case Smooth:
		return initial + int(span*(1-math.Cos(math.Pi*frac))/2)
	case Flicker:
		smooth := initial + int(span*(1-math.Cos(math.Pi*frac))/2)
		delta := final - smooth
		switch {
		case delta > 0:
			return smooth + rng.Intn(delta)
		case delta < 0:
			return smooth - rng.Intn(-delta)
		default:
			return final
		}
	default:
		return final
	}
}
