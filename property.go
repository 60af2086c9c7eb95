package lattice

// Keyframe is the header shared by all typed keyframes: the frame it anchors,
// the interpolation mode for the span running to the next keyframe, and the
// mode's parameters (easing name, bezier handle offsets). The left keyframe
// of a bracketing pair governs the span.
type Keyframe struct {
	Frame     float64    `json:"frame"`
	Interp    InterpMode `json:"interp,omitempty"`
	Ease      EaseName   `json:"ease,omitempty"`
	OutHandle Vec2       `json:"outHandle"`
	InHandle  Vec2       `json:"inHandle"`
}

// ScalarKeyframe anchors a float value (opacity, rotation, FOV, ...).
type ScalarKeyframe struct {
	Keyframe
	Value float64 `json:"value"`
}

// Vec3Keyframe anchors a 3D vector value (position, origin, scale).
type Vec3Keyframe struct {
	Keyframe
	Value Vec3 `json:"value"`
}

// ColorKeyframe anchors a color value (fills, light color, effect tints).
type ColorKeyframe struct {
	Keyframe
	Value Color `json:"value"`
}

// ScalarProperty is a float value optionally driven by keyframes. A property
// with no keyframes is static and evaluates to Value at every frame; the
// distinction is made here, at the data model, never inferred at evaluation
// time. Keys must be sorted by frame.
type ScalarProperty struct {
	Value float64          `json:"value"`
	Keys  []ScalarKeyframe `json:"keyframes,omitempty"`
}

// Vec3Property is a Vec3 value optionally driven by keyframes.
type Vec3Property struct {
	Value Vec3           `json:"value"`
	Keys  []Vec3Keyframe `json:"keyframes,omitempty"`
}

// ColorProperty is a Color value optionally driven by keyframes.
type ColorProperty struct {
	Value Color           `json:"value"`
	Keys  []ColorKeyframe `json:"keyframes,omitempty"`
}

// Animated reports whether the property is keyframe-driven.
func (p ScalarProperty) Animated() bool { return len(p.Keys) > 0 }

// Animated reports whether the property is keyframe-driven.
func (p Vec3Property) Animated() bool { return len(p.Keys) > 0 }

// Animated reports whether the property is keyframe-driven.
func (p ColorProperty) Animated() bool { return len(p.Keys) > 0 }

// ValueAt evaluates the property at a frame. Static properties return Value
// unchanged. Keyframed properties clamp to the boundary keyframe value before
// the first and after the last keyframe, and interpolate across the bracketing
// span otherwise. Evaluation is side-effect-free and independent of any other
// frame, so callers may sample frames in any order.
func (p ScalarProperty) ValueAt(frame float64) float64 {
	if len(p.Keys) == 0 {
		return p.Value
	}
	i, t := spanAt(p.Keys, frame)
	if i >= len(p.Keys)-1 {
		return p.Keys[len(p.Keys)-1].Value
	}
	return lerp(p.Keys[i].Value, p.Keys[i+1].Value, t)
}

// ValueAt evaluates the property at a frame. See ScalarProperty.ValueAt.
func (p Vec3Property) ValueAt(frame float64) Vec3 {
	if len(p.Keys) == 0 {
		return p.Value
	}
	i, t := spanAt(p.Keys, frame)
	if i >= len(p.Keys)-1 {
		return p.Keys[len(p.Keys)-1].Value
	}
	return p.Keys[i].Value.Lerp(p.Keys[i+1].Value, t)
}

// ValueAt evaluates the property at a frame. See ScalarProperty.ValueAt.
func (p ColorProperty) ValueAt(frame float64) Color {
	if len(p.Keys) == 0 {
		return p.Value
	}
	i, t := spanAt(p.Keys, frame)
	if i >= len(p.Keys)-1 {
		return p.Keys[len(p.Keys)-1].Value
	}
	return p.Keys[i].Value.Lerp(p.Keys[i+1].Value, t)
}

type spanKeyframe interface {
	span() Keyframe
}

func (k ScalarKeyframe) span() Keyframe { return k.Keyframe }

func (k Vec3Keyframe) span() Keyframe { return k.Keyframe }

func (k ColorKeyframe) span() Keyframe { return k.Keyframe }

// spanAt locates the span containing frame and returns the left keyframe's
// index plus the eased progress across the span. Frames at or outside the
// keyframe range pin to the boundary keyframe with zero progress. Keyframe
// lists are short, so the bracketing pair is found by linear scan.
func spanAt[K spanKeyframe](keys []K, frame float64) (int, float64) {
	if frame <= keys[0].span().Frame {
		return 0, 0
	}
	last := len(keys) - 1
	if frame >= keys[last].span().Frame {
		return last, 0
	}

	i := 0
	for i < last-1 && keys[i+1].span().Frame <= frame {
		i++
	}
	a := keys[i].span()
	b := keys[i+1].span()

	span := b.Frame - a.Frame
	if span <= 0 {
		return i, 0
	}
	u := (frame - a.Frame) / span

	switch a.Interp {
	case InterpHold:
		return i, 0
	case InterpBezier:
		return i, bezierProgress(a.OutHandle, b.InHandle, u)
	case InterpEase:
		return i, ApplyEase(a.Ease, u)
	default:
		return i, u
	}
}
