package lattice

import (
	"github.com/tanema/gween/ease"
)

// EaseName identifies a parametric easing curve for keyframe spans with
// InterpEase mode. Names match the project interchange format. The short
// names (easeIn, easeOut, easeInOut) are the editor's defaults and map to
// the cubic family; the explicit names expose the full set.
type EaseName string

const (
	EaseLinear  EaseName = "linear"
	EaseIn      EaseName = "easeIn"    // alias for easeInCubic
	EaseOut     EaseName = "easeOut"   // alias for easeOutCubic
	EaseInOut   EaseName = "easeInOut" // alias for easeInOutCubic
	EaseBounce  EaseName = "bounce"    // decaying bounce toward the target
	EaseElastic EaseName = "elastic"   // overshooting spring toward the target
)

// easeTable maps easing names to gween curves. Progress is computed by
// sampling the curve over a unit span.
var easeTable = map[EaseName]ease.TweenFunc{
	EaseLinear:  ease.Linear,
	EaseIn:      ease.InCubic,
	EaseOut:     ease.OutCubic,
	EaseInOut:   ease.InOutCubic,
	EaseBounce:  ease.OutBounce,
	EaseElastic: ease.OutElastic,

	"easeInQuad":       ease.InQuad,
	"easeOutQuad":      ease.OutQuad,
	"easeInOutQuad":    ease.InOutQuad,
	"easeInCubic":      ease.InCubic,
	"easeOutCubic":     ease.OutCubic,
	"easeInOutCubic":   ease.InOutCubic,
	"easeInQuart":      ease.InQuart,
	"easeOutQuart":     ease.OutQuart,
	"easeInOutQuart":   ease.InOutQuart,
	"easeInQuint":      ease.InQuint,
	"easeOutQuint":     ease.OutQuint,
	"easeInOutQuint":   ease.InOutQuint,
	"easeInSine":       ease.InSine,
	"easeOutSine":      ease.OutSine,
	"easeInOutSine":    ease.InOutSine,
	"easeInExpo":       ease.InExpo,
	"easeOutExpo":      ease.OutExpo,
	"easeInOutExpo":    ease.InOutExpo,
	"easeInCirc":       ease.InCirc,
	"easeOutCirc":      ease.OutCirc,
	"easeInOutCirc":    ease.InOutCirc,
	"easeInBack":       ease.InBack,
	"easeOutBack":      ease.OutBack,
	"easeInOutBack":    ease.InOutBack,
	"easeInBounce":     ease.InBounce,
	"easeOutBounce":    ease.OutBounce,
	"easeInOutBounce":  ease.InOutBounce,
	"easeInElastic":    ease.InElastic,
	"easeOutElastic":   ease.OutElastic,
	"easeInOutElastic": ease.InOutElastic,
}

// ApplyEase returns the eased progress for a normalized time t in [0, 1].
// Unknown names fall back to linear, so stale project data degrades rather
// than failing.
func ApplyEase(name EaseName, t float64) float64 {
	t = clamp01(t)
	fn, ok := easeTable[name]
	if !ok {
		fn = ease.Linear
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// bezierProgress maps a normalized time u through the cubic bezier defined by
// keyframe handle offsets. The curve runs from (0,0) to (1,1); out is the
// handle offset from the left keyframe, in the offset from the right one.
// Handle X components are clamped to keep x(s) monotonic so the solve is
// well-defined.
func bezierProgress(out, in Vec2, u float64) float64 {
	u = clamp01(u)
	x1 := clamp01(out.X)
	y1 := out.Y
	x2 := clamp01(1 + in.X)
	y2 := 1 + in.Y

	// Solve x(s) = u by bisection, then sample y(s). 32 halvings put the
	// error well under visible precision.
	lo, hi := 0.0, 1.0
	s := u
	for i := 0; i < 32; i++ {
		if cubicAt(x1, x2, s) < u {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return cubicAt(y1, y2, s)
}

// cubicAt evaluates a 1D cubic bezier with endpoints 0 and 1 and inner
// control values c1, c2 at parameter s.
func cubicAt(c1, c2, s float64) float64 {
	inv := 1 - s
	return 3*inv*inv*s*c1 + 3*inv*s*s*c2 + s*s*s
}
