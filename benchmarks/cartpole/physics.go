package cartpole

import (
	"math"

	"github.com/zeu5/pole-balancing/core"
)

// State of the plant: cart position (m) and velocity (m/s), pole angle
// (rad) and angular velocity (rad/s).
type State struct {
	X        float64 `json:"x"`
	XDot     float64 `json:"x_dot"`
	Theta    float64 `json:"theta"`
	ThetaDot float64 `json:"theta_dot"`
}

// Physics holds the constants of the cart-pole model.
type Physics struct {
	Gravity  float64
	MassCart float64
	MassPole float64
	// HalfLength is half the length of the pole
	HalfLength float64
	ForceMag   float64
	// Tau is the duration of a tick in seconds
	Tau float64
}

func DefaultPhysics() Physics {
	return Physics{
		Gravity:    9.8,
		MassCart:   1.0,
		MassPole:   0.1,
		HalfLength: 0.5,
		ForceMag:   10.0,
		Tau:        0.02,
	}
}

// Step integrates the plant over one tick under a push of fixed magnitude,
// using Euler's method.
func (p Physics) Step(action core.Action, s State) State {
	totalMass := p.MassPole + p.MassCart
	poleMassLength := p.MassPole * p.HalfLength

	force := -p.ForceMag
	if action == core.PushPositive {
		force = p.ForceMag
	}
	cosTheta := math.Cos(s.Theta)
	sinTheta := math.Sin(s.Theta)

	temp := (force + poleMassLength*s.ThetaDot*s.ThetaDot*sinTheta) / totalMass
	thetaAcc := (p.Gravity*sinTheta - cosTheta*temp) /
		(p.HalfLength * (4.0/3.0 - p.MassPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	return State{
		X:        s.X + p.Tau*s.XDot,
		XDot:     s.XDot + p.Tau*xAcc,
		Theta:    s.Theta + p.Tau*s.ThetaDot,
		ThetaDot: s.ThetaDot + p.Tau*thetaAcc,
	}
}
