package main

import "github.com/charmbracelet/harmonica"

// Axis is one degree of freedom of the viewer. Input sets a target speed;
// the actual speed follows it on a critically damped spring, so starts and
// stops ease in and out.
type Axis struct {
	Velocity float64
	Target   float64

	spring harmonica.Spring
	accel  float64
}

// NewAxis creates an axis updated fps times a second.
func NewAxis(fps int, frequency float64) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0)}
}

// Update advances the spring one frame and returns the distance covered.
func (a *Axis) Update(dt float64) float64 {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, a.Target)
	return a.Velocity * dt
}

// Reset brings the axis to rest at once.
func (a *Axis) Reset() {
	a.Velocity, a.Target, a.accel = 0, 0, 0
}

// Motion holds the viewer's walking, strafing, turning and looking axes.
type Motion struct {
	Forward, Strafe, Turn, Look Axis
}

// NewMotion creates resting axes.
func NewMotion(fps int) *Motion {
	return &Motion{
		Forward: NewAxis(fps, 6),
		Strafe:  NewAxis(fps, 6),
		Turn:    NewAxis(fps, 8),
		Look:    NewAxis(fps, 8),
	}
}

// Decay pulls every target toward rest. Key releases are not reported by
// every terminal, so held keys keep refreshing their target instead.
func (m *Motion) Decay(factor float64) {
	m.Forward.Target *= factor
	m.Strafe.Target *= factor
	m.Turn.Target *= factor
	m.Look.Target *= factor
}

// Stop zeroes all targets.
func (m *Motion) Stop() {
	m.Decay(0)
}
