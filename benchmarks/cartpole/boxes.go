package cartpole

import (
	"math"

	"github.com/zeu5/pole-balancing/core"
)

const (
	oneDegree     = 0.0174532
	sixDegrees    = 0.1047192
	twelveDegrees = 0.2094384
	fiftyDegrees  = 0.87266

	// PositionBound and AngleBound delimit the failure envelope
	PositionBound = 2.4
	AngleBound    = twelveDegrees

	// NumBoxes is the size of the region range. Band indices start at 1, so
	// only 2 position x 2 velocity x 5 angle x 2 angular velocity boxes in
	// [67, 161] are ever visited.
	NumBoxes = 162
)

// Offsets of one band on each axis
const (
	positionOffset        = 1
	velocityOffset        = 3
	angleOffset           = 9
	angularVelocityOffset = 54
)

// Bands are the per-axis band indices of a state inside the envelope.
type Bands struct {
	Position        int
	Velocity        int
	Angle           int
	AngularVelocity int
}

// Box returns the region sum of the band offsets.
func (b Bands) Box() int {
	return b.Position*positionOffset +
		b.Velocity*velocityOffset +
		b.Angle*angleOffset +
		b.AngularVelocity*angularVelocityOffset
}

// InEnvelope reports whether the cart and the pole are within bounds. A NaN
// position or angle is outside.
func InEnvelope(s State) bool {
	if math.IsNaN(s.X) || math.IsNaN(s.Theta) {
		return false
	}
	return !(s.X < -PositionBound || s.X > PositionBound || s.Theta < -AngleBound || s.Theta > AngleBound)
}

// Band buckets each axis of s. The result is meaningless outside the envelope.
// Angles below -6 degrees share the band of [-1, 0) degrees.
func Band(s State) Bands {
	b := Bands{Position: 2, Velocity: 2, AngularVelocity: 2}

	if s.X >= -0.8 && s.X < 0.8 {
		b.Position = 1
	}
	if s.XDot >= -0.5 && s.XDot < 0.5 {
		b.Velocity = 1
	}

	switch {
	case s.Theta >= -sixDegrees && s.Theta < -oneDegree:
		b.Angle = 1
	case s.Theta < 0:
		b.Angle = 2
	case s.Theta < oneDegree:
		b.Angle = 3
	case s.Theta < sixDegrees:
		b.Angle = 4
	default:
		b.Angle = 5
	}

	if s.ThetaDot >= -fiftyDegrees && s.ThetaDot < fiftyDegrees {
		b.AngularVelocity = 1
	}
	return b
}

// Box maps s to its region in [0, NumBoxes), or core.FailedRegion when s is
// outside the envelope.
func Box(s State) int {
	if !InEnvelope(s) {
		return core.FailedRegion
	}
	return Band(s).Box()
}
