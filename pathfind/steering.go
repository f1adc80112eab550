package pathfind

import "math"

// Vec2 is a minimal local vector type so this package stays independent
// of core's Vector (pathfind is a leaf package the core's movement phase
// depends on, not the other way around).
type Vec2 struct{ X, Y float64 }

func (v Vec2) add(o Vec2) Vec2   { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) sub(o Vec2) Vec2   { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) mag() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) norm() Vec2 {
	m := v.mag()
	if m < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / m, v.Y / m}
}
func (v Vec2) perp() Vec2 { return Vec2{-v.Y, v.X} }
func (v Vec2) rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Neighbor is another entity close enough to influence separation and
// whisker avoidance.
type Neighbor struct {
	Pos    Vec2
	Radius float64
}

// SteerState is the persistent per-unit steering memory (stuck/unstuck
// detection, velocity smoothing) that survives across ticks.
type SteerState struct {
	AvgVel       Vec2
	HasAvgVel    bool
	StuckTimer   int
	UnstuckDir   Vec2
	HasUnstuckDir bool
	UnstuckTimer int
}

// SteerInput bundles one tick's worth of steering context for a unit.
type SteerInput struct {
	Pos, PrevPos Vec2
	Speed        float64
	Target       Vec2 // next path waypoint or the direct target
	HasPath      bool
	NearDock     bool // disables whisker avoidance near a harvester dock
	Neighbors    []Neighbor
	Grid         *CollisionGrid
	SelfRadius   float64
}

const (
	stuckSpeedFrac  = 0.15
	stuckTicks      = 20
	unstuckDuration = 25
)

// Steer computes the next tick's velocity for a unit following the full
// model of spec.md §4.6: avgVel smoothing, stuck/unstuck detection,
// whisker avoidance, keep-right bias, backward-direction snap, and
// 0.4:0.6 velocity blending against the previous tick's velocity.
// Grounded on the teacher's Steer (seek+separation), extended per spec.
func Steer(st *SteerState, in SteerInput, prevVel Vec2) Vec2 {
	frameDelta := in.Pos.sub(in.PrevPos)
	if st.HasAvgVel {
		st.AvgVel = st.AvgVel.scale(0.8).add(frameDelta.scale(0.2))
	} else {
		st.AvgVel = frameDelta
		st.HasAvgVel = true
	}

	if st.AvgVel.mag() < stuckSpeedFrac*in.Speed {
		st.StuckTimer++
	} else {
		st.StuckTimer = 0
	}

	toTarget := in.Target.sub(in.Pos)
	dist := toTarget.mag()
	if dist < 1e-6 {
		return Vec2{}
	}
	seek := toTarget.norm()

	if st.StuckTimer > stuckTicks && st.UnstuckTimer <= 0 {
		st.UnstuckDir = seek.perp()
		st.HasUnstuckDir = true
		st.UnstuckTimer = unstuckDuration
	}
	if st.UnstuckTimer > 0 {
		st.UnstuckTimer--
		desired := st.UnstuckDir.scale(in.Speed)
		return blend(prevVel, desired)
	}

	dir := seek

	// Separation force against nearby neighbors.
	sep := Vec2{}
	for _, n := range in.Neighbors {
		away := in.Pos.sub(n.Pos)
		d := away.mag()
		minDist := in.SelfRadius + n.Radius + 3
		if d > 0.001 && d < minDist {
			force := (minDist - d) / minDist
			sep = sep.add(away.norm().scale(force))
		}
	}
	if sep.mag() > 1e-9 {
		dir = dir.add(sep.scale(0.6))
	}

	// Whisker avoidance against the collision grid: fewer whiskers when a
	// path already exists (the path itself already avoids hard obstacles).
	if in.Grid != nil && !in.NearDock {
		numWhiskers := 5
		if in.HasPath {
			numWhiskers = 3
		}
		dir = applyWhiskers(dir, in, numWhiskers)
	}

	// Keep-right bias when neighbors are nearby, to break symmetric
	// head-on congestion.
	if len(in.Neighbors) > 0 {
		dir = dir.add(dir.perp().scale(-0.15))
	}

	dir = dir.norm()

	// Backward-direction snap: if the combined steering direction points
	// backward relative to the intended seek direction, snap to
	// perpendicular rather than let the unit spin in place.
	if dir.dot(seek) < 0 {
		dir = seek.perp()
	}

	desired := dir.scale(in.Speed)
	return blend(prevVel, desired)
}

// blend combines the previous velocity and the newly desired velocity at
// a fixed 0.4:0.6 ratio to damp frame-to-frame jitter.
func blend(prev, desired Vec2) Vec2 {
	return prev.scale(0.4).add(desired.scale(0.6))
}

func applyWhiskers(dir Vec2, in SteerInput, count int) Vec2 {
	baseAngle := math.Atan2(dir.Y, dir.X)
	spread := math.Pi / 4
	var angles []float64
	switch count {
	case 3:
		angles = []float64{0, -spread, spread}
	default:
		angles = []float64{0, -spread / 2, spread / 2, -spread, spread}
	}

	result := dir
	for _, a := range angles {
		probeDir := Vec2{X: math.Cos(baseAngle + a), Y: math.Sin(baseAngle + a)}
		probePos := in.Pos.add(probeDir.scale(in.SelfRadius * 2.5))
		cell := WorldToCell(probePos.X, probePos.Y)
		if !in.Grid.Passable(cell) {
			result = result.sub(probeDir.scale(0.5))
		}
	}
	return result
}
