package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{X: 3, Y: 4}
	b := Vector{X: 1, Y: 2}

	assert.Equal(t, Vector{X: 4, Y: 6}, a.Add(b))
	assert.Equal(t, Vector{X: 2, Y: 2}, a.Sub(b))
	assert.Equal(t, Vector{X: 6, Y: 8}, a.Scale(2))
	assert.InDelta(t, 5.0, a.Mag(), 1e-9)
	assert.InDelta(t, 11.0, a.Dot(b), 1e-9)
}

func TestVectorNormZero(t *testing.T) {
	assert.Equal(t, Vector{}, Vector{}.Norm())

	a := Vector{X: 3, Y: 4}
	n := a.Norm()
	assert.InDelta(t, 1.0, n.Mag(), 1e-9)
}

func TestVectorDist(t *testing.T) {
	a := Vector{X: 0, Y: 0}
	b := Vector{X: 3, Y: 4}
	assert.InDelta(t, 5.0, a.Dist(b), 1e-9)
}

func TestDampAngleShortestDirection(t *testing.T) {
	// from near +pi to near -pi is a short step across the wrap (0.1 rad
	// total), not the long way around through 0 (> 6 rad); a generous
	// step budget should close nearly all of it in one call.
	from := math.Pi - 0.05
	to := -math.Pi + 0.05
	got := DampAngle(from, to, 1.0)

	// angular distance between got and to, wrapped to [-pi, pi]
	d := math.Mod(got-to+math.Pi, 2*math.Pi) - math.Pi
	assert.InDelta(t, 0, d, 1e-6)
}

func TestDampAngleClampsStep(t *testing.T) {
	got := DampAngle(0, math.Pi/2, 0.1)
	assert.InDelta(t, 0.1, got, 1e-9)
}
