package lattice

import "math"

// ShakeType selects the character of procedural camera shake.
type ShakeType string

const (
	ShakeHandheld   ShakeType = "handheld"   // wandering drift with fine jitter on top
	ShakeDrift      ShakeType = "drift"      // slow smooth wander, no jitter
	ShakeBump       ShakeType = "bump"       // sparse sharp impulses
	ShakeEarthquake ShakeType = "earthquake" // violent broadband rumble
)

// ShakeConfig enables procedural camera shake. The offset at a frame is a
// pure function of (Seed, frame, config): same seed and frame always yields
// the same offset, with no dependence on wall clock or call order.
type ShakeConfig struct {
	Enabled    bool      `json:"enabled"`
	Type       ShakeType `json:"type,omitempty"`
	Intensity  float64   `json:"intensity"`           // positional excursion in world units
	Frequency  float64   `json:"frequency,omitempty"` // oscillations per second; default 2
	Seed       int64     `json:"seed"`
	StartFrame int       `json:"startFrame,omitempty"`
	Duration   int       `json:"duration,omitempty"` // frames; 0 runs to the end
	Decay      float64   `json:"decay,omitempty"`    // exponential falloff per second
	Rotation   bool      `json:"rotation,omitempty"` // also emit a roll offset
}

// ShakeOffset is the displacement shake contributes at one frame. Rotation
// is a roll offset in degrees.
type ShakeOffset struct {
	Position Vec3
	Rotation float64
}

// evaluateShake computes the shake offset for a frame. boost widens the
// intensity (audio-reactive shake amount); frameRate converts frames to
// seconds so Frequency and Decay are time-based.
func evaluateShake(cfg *ShakeConfig, frame int, frameRate float64, boost float64) ShakeOffset {
	if cfg == nil || !cfg.Enabled {
		return ShakeOffset{}
	}
	amp := cfg.Intensity + boost
	if amp <= 0 {
		return ShakeOffset{}
	}
	local := frame - cfg.StartFrame
	if local < 0 {
		return ShakeOffset{}
	}
	if cfg.Duration > 0 && local > cfg.Duration {
		return ShakeOffset{}
	}
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	freq := cfg.Frequency
	if freq <= 0 {
		freq = 2
	}

	tSec := float64(local) / frameRate
	phase := tSec * freq
	if cfg.Decay > 0 {
		amp *= math.Exp(-cfg.Decay * tSec)
	}
	seed := uint64(cfg.Seed)

	var x, y, z float64
	switch cfg.Type {
	case ShakeDrift:
		x = valueNoise(seed, 1, phase*0.3)
		y = valueNoise(seed, 2, phase*0.3)
		z = valueNoise(seed, 3, phase*0.3) * 0.5
	case ShakeBump:
		// Cubing sharpens the noise into sparse impulses.
		x = cube(valueNoise(seed, 1, phase)) * 1.5
		y = cube(valueNoise(seed, 2, phase)) * 1.5
		z = cube(valueNoise(seed, 3, phase)) * 0.75
	case ShakeEarthquake:
		x = valueNoise(seed, 1, phase) + 0.5*valueNoise(seed, 4, phase*2.7) + 0.25*valueNoise(seed, 7, phase*6.1)
		y = valueNoise(seed, 2, phase) + 0.5*valueNoise(seed, 5, phase*2.7) + 0.25*valueNoise(seed, 8, phase*6.1)
		z = (valueNoise(seed, 3, phase) + 0.5*valueNoise(seed, 6, phase*2.7)) * 0.5
	default: // handheld
		x = valueNoise(seed, 1, phase) + 0.35*valueNoise(seed, 4, phase*7)
		y = valueNoise(seed, 2, phase) + 0.35*valueNoise(seed, 5, phase*7)
		z = valueNoise(seed, 3, phase) * 0.5
	}

	off := ShakeOffset{Position: Vec3{x * amp, y * amp, z * amp}}
	if cfg.Rotation {
		off.Rotation = valueNoise(seed, 9, phase) * amp * 0.1
	}
	return off
}

func cube(v float64) float64 { return v * v * v }

// valueNoise returns smooth noise in [-1, 1] at continuous position t.
// Lattice values come from an integer hash of (seed, channel, cell), so the
// function is stateless and identical across processes.
func valueNoise(seed, channel uint64, t float64) float64 {
	cell := math.Floor(t)
	f := t - cell
	i := int64(cell)
	a := hash01(seed, channel, uint64(i))
	b := hash01(seed, channel, uint64(i+1))
	u := f * f * (3 - 2*f)
	return lerp(a, b, u)*2 - 1
}

// hash01 maps (seed, channel, k) to a uniform value in [0, 1) using the
// splitmix64 finalizer.
func hash01(seed, channel, k uint64) float64 {
	x := seed ^ (channel * 0xA24BAED4963EE407) ^ (k * 0x9E3779B97F4A7C15)
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return float64(x>>11) / float64(1<<53)
}
