package lattice

import "math"

// MotionKind selects a procedural motion preset for a layer: small ambient
// animation layered on top of the keyframed transform without authoring
// keyframes for it.
type MotionKind string

const (
	MotionSway    MotionKind = "sway"    // pendulum rotation with slight lateral follow
	MotionBreathe MotionKind = "breathe" // gentle scale oscillation
	MotionPulse   MotionKind = "pulse"   // rhythmic opacity and scale pulse
	MotionDrift   MotionKind = "drift"   // slow positional wander
	MotionFloat   MotionKind = "float"   // vertical bobbing
	MotionNoise   MotionKind = "noise"   // fine positional jitter
	MotionRotate  MotionKind = "rotate"  // constant angular velocity spin
)

// IntensityName grades a preset's strength. Unknown names read as moderate.
type IntensityName string

const (
	IntensityVerySubtle IntensityName = "very_subtle"
	IntensitySubtle     IntensityName = "subtle"
	IntensityModerate   IntensityName = "moderate"
	IntensityStrong     IntensityName = "strong"
	IntensityDramatic   IntensityName = "dramatic"
)

func intensityGain(name IntensityName) float64 {
	switch name {
	case IntensityVerySubtle:
		return 0.25
	case IntensitySubtle:
		return 0.5
	case IntensityStrong:
		return 2
	case IntensityDramatic:
		return 4
	default:
		return 1
	}
}

// MotionPreset attaches procedural motion to a layer. Offsets are a pure
// function of (Seed, frame, config); the seed staggers phase so identical
// presets on different layers do not move in lockstep.
type MotionPreset struct {
	Kind       MotionKind    `json:"kind"`
	Intensity  IntensityName `json:"intensity,omitempty"`
	Frequency  float64       `json:"frequency,omitempty"` // cycles per second; default per kind
	Seed       int64         `json:"seed"`
	StartFrame int           `json:"startFrame,omitempty"`
	Duration   int           `json:"duration,omitempty"` // frames; 0 runs to the end
}

// MotionOffsets is the additive contribution of a preset at one frame.
// Scale is a percent delta, Rotation degrees, Opacity a pre-clamp delta.
type MotionOffsets struct {
	Position Vec3
	Rotation float64
	Scale    float64
	Opacity  float64
}

// motionOffsets evaluates a preset at a frame. Outside the preset's window
// the contribution is zero.
func motionOffsets(p *MotionPreset, frame int, frameRate float64) MotionOffsets {
	if p == nil || p.Kind == "" {
		return MotionOffsets{}
	}
	local := frame - p.StartFrame
	if local < 0 {
		return MotionOffsets{}
	}
	if p.Duration > 0 && local > p.Duration {
		return MotionOffsets{}
	}
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	gain := intensityGain(p.Intensity)
	seed := uint64(p.Seed)
	tSec := float64(local) / frameRate
	freq := p.Frequency
	if freq <= 0 {
		freq = defaultMotionFrequency(p.Kind)
	}
	// Seed-derived phase offset keeps layers out of lockstep.
	ph := 2*math.Pi*freq*tSec + hash01(seed, 20, 0)*2*math.Pi

	var out MotionOffsets
	switch p.Kind {
	case MotionSway:
		out.Rotation = math.Sin(ph) * 3 * gain
		out.Position.X = math.Sin(ph-0.5) * 2 * gain
	case MotionBreathe:
		out.Scale = math.Sin(ph) * 2.5 * gain
	case MotionPulse:
		pulse := (math.Sin(ph) + 1) / 2
		out.Opacity = pulse * 12 * gain
		out.Scale = pulse * 2 * gain
	case MotionDrift:
		out.Position.X = valueNoise(seed, 21, freq*tSec) * 12 * gain
		out.Position.Y = valueNoise(seed, 22, freq*tSec) * 12 * gain
	case MotionFloat:
		out.Position.Y = math.Sin(ph) * 8 * gain
		out.Position.X = math.Sin(ph*0.5+1.3) * 2 * gain
	case MotionNoise:
		out.Position.X = valueNoise(seed, 23, freq*tSec*6) * 4 * gain
		out.Position.Y = valueNoise(seed, 24, freq*tSec*6) * 4 * gain
	case MotionRotate:
		out.Rotation = 15 * gain * tSec * freq
	}
	return out
}

func defaultMotionFrequency(kind MotionKind) float64 {
	switch kind {
	case MotionBreathe:
		return 0.2
	case MotionDrift:
		return 0.1
	case MotionNoise:
		return 1.5
	case MotionRotate:
		return 1
	default:
		return 0.4
	}
}
