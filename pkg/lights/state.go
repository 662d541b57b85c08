package lights

import (
	"math/rand"

	"github.com/taigrr/pfhor/pkg/math3d"
)

// State is the running animation of one light.
type State struct {
	spec Spec
	rng  Source

	phase     Phase
	ticks     int
	period    int
	initial   int
	final     int
	intensity int
}

// New creates the animation state for spec. A nil rng uses an unseeded
// math/rand source; tests pass a seeded one.
func New(spec Spec, rng Source) *State {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	s := &State{spec: spec, rng: rng}

	start := PrimaryInactive
	if spec.InitiallyActive {
		start = PrimaryActive
	}
	s.enter(start)
	s.initial = s.final
	s.intensity = s.final
	s.AdvanceTicks(max(spec.Phase, 0))
	return s
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	return s.phase
}

// Active reports whether the light is in the "on" half of its cycle.
func (s *State) Active() bool {
	return s.phase.Active()
}

// Intensity returns the current brightness in [0, 1].
func (s *State) Intensity() float64 {
	return float64(s.intensity) / MaxIntensity
}

// Raw returns the current brightness in fixed point, [0, MaxIntensity].
func (s *State) Raw() int {
	return s.intensity
}

// AdvanceTicks moves the animation forward by n ticks, stepping through as
// many phases as elapse.
func (s *State) AdvanceTicks(n int) {
	if n > 0 {
		s.ticks += n
	}
	for s.ticks >= s.period {
		s.ticks -= s.period
		s.intensity = s.final
		s.enter(Next(s.phase, s.spec.Stateless))
	}
	fn := s.spec.Function(s.phase)
	v := fn.evaluate(s.initial, s.final, s.ticks, s.period, s.rng)
	s.intensity = math3d.Clamp(v, 0, MaxIntensity)
}

// SetActive switches the light on or off, starting the matching
// "becoming" phase from the current brightness. It does nothing if the
// light is already in the requested half of its cycle.
func (s *State) SetActive(active bool) {
	if s.Active() == active {
		return
	}
	next := BecomingInactive
	if active {
		next = BecomingActive
	}
	s.ticks = 0
	s.enter(next)
	s.AdvanceTicks(0)
}

// enter starts phase p, rolling its period and target intensity. The new
// phase ramps from the intensity the previous one resolved to.
func (s *State) enter(p Phase) {
	fn := s.spec.Function(p)
	s.phase = p
	s.initial = s.intensity
	s.period = max(fn.Period+s.jitter(fn.DeltaPeriod), 1)
	target := toFixed(fn.Intensity) + s.jitter(toFixed(fn.DeltaIntensity))
	s.final = math3d.Clamp(target, 0, MaxIntensity)
}

// jitter returns a random value in [0, delta].
func (s *State) jitter(delta int) int {
	if delta <= 0 {
		return 0
	}
	return s.rng.Intn(delta + 1)
}
