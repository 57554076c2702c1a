package pager

import (
	"fmt"
	"math"
	"time"
)

// Easing is a CSS cubic-bezier timing function
type Easing struct {
	Name           string
	X1, Y1, X2, Y2 float64
}

var (
	// EaseOut matches the CSS ease-out keyword
	EaseOut = Easing{Name: "ease-out", X1: 0, Y1: 0, X2: 0.58, Y2: 1}
	// EaseOutQuad is the full-motion settle curve
	EaseOutQuad = Easing{X1: 0.25, Y1: 0.46, X2: 0.45, Y2: 0.94}
)

// CSS renders the easing as a transition timing function
func (e Easing) CSS() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", e.X1, e.Y1, e.X2, e.Y2)
}

// At maps linear progress p in [0,1] to eased progress
func (e Easing) At(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return bezier(e.Y1, e.Y2, e.solve(p))
}

// solve finds t with x(t) = p: Newton first, bisection if it wanders off
func (e Easing) solve(p float64) float64 {
	t := p
	for i := 0; i < 8; i++ {
		x := bezier(e.X1, e.X2, t) - p
		if math.Abs(x) < 1e-7 {
			return t
		}
		d := bezierSlope(e.X1, e.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= x / d
	}
	if t >= 0 && t <= 1 && math.Abs(bezier(e.X1, e.X2, t)-p) < 1e-7 {
		return t
	}

	low, high := 0.0, 1.0
	t = p
	for i := 0; i < 64; i++ {
		x := bezier(e.X1, e.X2, t)
		if math.Abs(x-p) < 1e-7 {
			break
		}
		if x < p {
			low = t
		} else {
			high = t
		}
		t = (low + high) / 2
	}
	return t
}

// bezier evaluates one axis of a cubic with endpoints 0 and 1
func bezier(a1, a2, t float64) float64 {
	u := 1 - t
	return 3*a1*u*u*t + 3*a2*u*t*t + t*t*t
}

func bezierSlope(a1, a2, t float64) float64 {
	u := 1 - t
	return 3*a1*u*u + 6*(a2-a1)*u*t + 3*(1-a2)*t*t
}

// Motion is a settle duration and curve
type Motion struct {
	Duration time.Duration
	Easing   Easing
}

// SettleFor picks the settle motion: short ease-out when motion is reduced,
// longer eased curve otherwise
func SettleFor(reducedMotion bool) Motion {
	if reducedMotion {
		return Motion{Duration: 200 * time.Millisecond, Easing: EaseOut}
	}
	return Motion{Duration: 350 * time.Millisecond, Easing: EaseOutQuad}
}

// Between builds the settle animation from one offset to another
func (m Motion) Between(from, to float64) Settle {
	return Settle{From: from, To: to, Motion: m}
}

// Settle animates the strip offset (percent) after a release
type Settle struct {
	From, To float64
	Motion
}

// At returns the offset after elapsed. It is exactly To once the duration
// has passed.
func (s Settle) At(elapsed time.Duration) float64 {
	if elapsed >= s.Duration || s.Duration <= 0 {
		return s.To
	}
	if elapsed <= 0 {
		return s.From
	}
	p := s.Easing.At(float64(elapsed) / float64(s.Duration))
	return s.From + (s.To-s.From)*p
}
