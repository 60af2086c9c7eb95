package lattice

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func scalarKey(frame, value float64) ScalarKeyframe {
	return ScalarKeyframe{Keyframe: Keyframe{Frame: frame}, Value: value}
}

// --- Static properties ---

func TestScalarStaticValue(t *testing.T) {
	p := ScalarProperty{Value: 42}
	if p.Animated() {
		t.Error("property without keyframes should not be animated")
	}
	assertNear(t, "frame 0", p.ValueAt(0), 42)
	assertNear(t, "frame -5", p.ValueAt(-5), 42)
	assertNear(t, "frame 1000", p.ValueAt(1000), 42)
}

func TestScalarSingleKeyframe(t *testing.T) {
	p := ScalarProperty{
		Value: 7, // ignored once keyframes exist
		Keys:  []ScalarKeyframe{scalarKey(10, 3)},
	}
	if !p.Animated() {
		t.Error("property with keyframes should be animated")
	}
	assertNear(t, "before", p.ValueAt(0), 3)
	assertNear(t, "at", p.ValueAt(10), 3)
	assertNear(t, "after", p.ValueAt(50), 3)
}

// --- Boundary clamping ---

func TestScalarClampsBeforeFirstKeyframe(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{scalarKey(10, 1), scalarKey(20, 5)}}
	assertNear(t, "frame 0", p.ValueAt(0), 1)
	assertNear(t, "frame -10", p.ValueAt(-10), 1)
	assertNear(t, "frame 10", p.ValueAt(10), 1)
}

func TestScalarClampsAfterLastKeyframe(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{scalarKey(10, 1), scalarKey(20, 5)}}
	assertNear(t, "frame 20", p.ValueAt(20), 5)
	assertNear(t, "frame 100", p.ValueAt(100), 5)
}

// --- Linear interpolation ---

func TestScalarLinearInterpolation(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{scalarKey(10, 1), scalarKey(20, 5)}}
	assertNear(t, "midpoint", p.ValueAt(15), 3)
	assertNear(t, "quarter", p.ValueAt(12.5), 2)
	assertNear(t, "fractional frame", p.ValueAt(17.5), 4)
}

func TestScalarMultiSpanPicksBracket(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		scalarKey(0, 0),
		scalarKey(10, 100),
		scalarKey(30, 50),
	}}
	assertNear(t, "first span", p.ValueAt(5), 50)
	assertNear(t, "at middle key", p.ValueAt(10), 100)
	assertNear(t, "second span", p.ValueAt(20), 75)
}

// --- Hold interpolation ---

func TestScalarHoldKeepsLeftValue(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{Keyframe: Keyframe{Frame: 10, Interp: InterpHold}, Value: 1},
		scalarKey(20, 5),
	}}
	assertNear(t, "just after left", p.ValueAt(10.5), 1)
	assertNear(t, "near right", p.ValueAt(19.9), 1)
	assertNear(t, "at right", p.ValueAt(20), 5)
}

// --- Eased interpolation ---

func TestScalarEaseInOutMidpoint(t *testing.T) {
	// InOutCubic is symmetric: the midpoint of the span is exactly halfway.
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{Keyframe: Keyframe{Frame: 0, Interp: InterpEase, Ease: EaseInOut}, Value: 0},
		scalarKey(20, 100),
	}}
	if got := p.ValueAt(10); math.Abs(got-50) > 1e-4 {
		t.Errorf("eased midpoint = %v, want ~50", got)
	}
}

func TestScalarEaseInLagsLinear(t *testing.T) {
	eased := ScalarProperty{Keys: []ScalarKeyframe{
		{Keyframe: Keyframe{Frame: 0, Interp: InterpEase, Ease: EaseIn}, Value: 0},
		scalarKey(20, 100),
	}}
	linear := ScalarProperty{Keys: []ScalarKeyframe{scalarKey(0, 0), scalarKey(20, 100)}}
	if eased.ValueAt(5) >= linear.ValueAt(5) {
		t.Errorf("easeIn at quarter = %v, should lag linear %v", eased.ValueAt(5), linear.ValueAt(5))
	}
	// Endpoints still meet.
	assertNear(t, "start", eased.ValueAt(0), 0)
	assertNear(t, "end", eased.ValueAt(20), 100)
}

func TestScalarUnknownEaseFallsBackToLinear(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{Keyframe: Keyframe{Frame: 0, Interp: InterpEase, Ease: "notAnEase"}, Value: 0},
		scalarKey(10, 10),
	}}
	if got := p.ValueAt(5); math.Abs(got-5) > 1e-4 {
		t.Errorf("unknown ease at midpoint = %v, want ~5 (linear)", got)
	}
}

// --- Bezier interpolation ---

func TestScalarBezierLinearHandles(t *testing.T) {
	// Handles on the diagonal reproduce a straight line.
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{
			Keyframe: Keyframe{
				Frame:     0,
				Interp:    InterpBezier,
				OutHandle: Vec2{X: 1.0 / 3.0, Y: 1.0 / 3.0},
			},
			Value: 0,
		},
		{
			Keyframe: Keyframe{Frame: 10, InHandle: Vec2{X: -1.0 / 3.0, Y: -1.0 / 3.0}},
			Value:    10,
		},
	}}
	for _, f := range []float64{1, 2.5, 5, 7.5, 9} {
		if got := p.ValueAt(f); math.Abs(got-f) > 1e-4 {
			t.Errorf("bezier(diagonal) at %v = %v, want ~%v", f, got, f)
		}
	}
}

func TestScalarBezierMonotonicAndBounded(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{
			Keyframe: Keyframe{
				Frame:     0,
				Interp:    InterpBezier,
				OutHandle: Vec2{X: 0.42, Y: 0},
			},
			Value: 0,
		},
		{
			Keyframe: Keyframe{Frame: 100, InHandle: Vec2{X: -0.42, Y: 0}},
			Value:    1,
		},
	}}
	prev := -1.0
	for f := 0.0; f <= 100; f++ {
		v := p.ValueAt(f)
		if v < prev-1e-9 {
			t.Fatalf("bezier not monotonic: value at %v dropped from %v to %v", f, prev, v)
		}
		if v < -1e-9 || v > 1+1e-9 {
			t.Fatalf("bezier at %v = %v, outside [0, 1]", f, v)
		}
		prev = v
	}
	assertNear(t, "start", p.ValueAt(0), 0)
	if got := p.ValueAt(100); math.Abs(got-1) > 1e-6 {
		t.Errorf("end = %v, want ~1", got)
	}
}

// --- Degenerate keyframe data ---

func TestScalarDuplicateFramesNoNaN(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		scalarKey(5, 1),
		scalarKey(10, 2),
		scalarKey(10, 9),
		scalarKey(20, 4),
	}}
	for f := 0.0; f <= 25; f += 0.5 {
		v := p.ValueAt(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("value at %v = %v", f, v)
		}
	}
}

// --- Vec3 and Color properties ---

func TestVec3Interpolation(t *testing.T) {
	p := Vec3Property{Keys: []Vec3Keyframe{
		{Keyframe: Keyframe{Frame: 0}, Value: Vec3{0, 0, 0}},
		{Keyframe: Keyframe{Frame: 10}, Value: Vec3{100, 50, -20}},
	}}
	got := p.ValueAt(5)
	assertNear(t, "x", got.X, 50)
	assertNear(t, "y", got.Y, 25)
	assertNear(t, "z", got.Z, -10)

	before := p.ValueAt(-1)
	assertNear(t, "clamped x", before.X, 0)
}

func TestColorInterpolation(t *testing.T) {
	p := ColorProperty{Keys: []ColorKeyframe{
		{Keyframe: Keyframe{Frame: 0}, Value: Color{R: 1, G: 0, B: 0, A: 1}},
		{Keyframe: Keyframe{Frame: 10}, Value: Color{R: 0, G: 1, B: 0, A: 0}},
	}}
	got := p.ValueAt(5)
	assertNear(t, "r", got.R, 0.5)
	assertNear(t, "g", got.G, 0.5)
	assertNear(t, "b", got.B, 0)
	assertNear(t, "a", got.A, 0.5)
}

func TestVec3StaticValue(t *testing.T) {
	p := Vec3Property{Value: Vec3{1, 2, 3}}
	if p.Animated() {
		t.Error("static Vec3Property reported animated")
	}
	got := p.ValueAt(99)
	assertNear(t, "x", got.X, 1)
	assertNear(t, "y", got.Y, 2)
	assertNear(t, "z", got.Z, 3)
}

// --- Order independence ---

func TestScalarEvaluationOrderIrrelevant(t *testing.T) {
	p := ScalarProperty{Keys: []ScalarKeyframe{
		{Keyframe: Keyframe{Frame: 0, Interp: InterpEase, Ease: EaseOut}, Value: 0},
		scalarKey(40, 10),
		scalarKey(80, -10),
	}}
	forward := make([]float64, 81)
	for f := 0; f <= 80; f++ {
		forward[f] = p.ValueAt(float64(f))
	}
	for f := 80; f >= 0; f-- {
		if got := p.ValueAt(float64(f)); got != forward[f] {
			t.Fatalf("value at %d = %v on reverse pass, want %v", f, got, forward[f])
		}
	}
}
