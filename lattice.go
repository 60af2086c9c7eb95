package lattice

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication, if needed, is the rendering layer's concern.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorWhite is the default solid/text fill (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Lerp returns the component-wise linear interpolation between c and other at t.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: lerp(c.R, other.R, t),
		G: lerp(c.G, other.G, t),
		B: lerp(c.B, other.B, t),
		A: lerp(c.A, other.A, t),
	}
}

// Gain returns c with RGB scaled by g (alpha untouched), clamped to [0, 1].
// Audio-reactive color modifiers are applied through this.
func (c Color) Gain(g float64) Color {
	return Color{
		R: clamp(c.R*g, 0, 1),
		G: clamp(c.G*g, 0, 1),
		B: clamp(c.B*g, 0, 1),
		A: c.A,
	}
}

// Vec2 is a 2D vector used for bezier handle offsets and screen-space sizes.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a 3D vector used for positions, origins, scales, and rotation
// triples throughout the evaluated state.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of v and other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns the component-wise difference of v and other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v with every component multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Lerp returns the component-wise linear interpolation between v and other at t.
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{
		X: lerp(v.X, other.X, t),
		Y: lerp(v.Y, other.Y, t),
		Z: lerp(v.Z, other.Z, t),
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Range is a general-purpose min/max range. Used by the particle system
// (ParticleConfig) for per-particle attribute spreads.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// At returns the value at normalized position t within the range.
// t=0 yields Min, t=1 yields Max.
func (r Range) At(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// BlendMode selects a compositing operation for a layer. Values match the
// project interchange format; the rendering layer maps them to its own
// blend states.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"     // source-over (standard alpha blending)
	BlendAdd        BlendMode = "add"        // additive / lighter
	BlendMultiply   BlendMode = "multiply"   // multiply (only darkens)
	BlendScreen     BlendMode = "screen"     // screen (only brightens)
	BlendOverlay    BlendMode = "overlay"    // multiply below 0.5, screen above
	BlendSoftLight  BlendMode = "softLight"  // gentler overlay
	BlendDifference BlendMode = "difference" // absolute channel difference
)

// LayerType distinguishes evaluation behavior for a Layer.
type LayerType string

const (
	LayerSolid      LayerType = "solid"      // flat color fill
	LayerText       LayerType = "text"       // text block
	LayerMedia      LayerType = "media"      // image or video source
	LayerCamera     LayerType = "camera"     // 3D camera; evaluated via the camera pipeline
	LayerParticles  LayerType = "particles"  // particle system; consults the snapshot registry
	LayerLight      LayerType = "light"      // scene light
	LayerAdjustment LayerType = "adjustment" // effect-only layer affecting those below
	LayerNull       LayerType = "null"       // invisible transform parent
)

// InterpMode selects how a keyframe span interpolates to the next keyframe.
// The left (outgoing) keyframe of a bracketing pair declares the span's mode.
type InterpMode string

const (
	InterpLinear InterpMode = "linear" // straight lerp across the span
	InterpHold   InterpMode = "hold"   // left value until the next keyframe
	InterpBezier InterpMode = "bezier" // cubic bezier shaped by handle offsets
	InterpEase   InterpMode = "ease"   // named parametric easing (see EaseName)
)

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(t float64) float64 {
	return clamp(t, 0, 1)
}
