package lattice

import "math"

// ParticleConfig controls a particle layer's simulation. Attribute ranges
// are sampled per particle from the config's seed, so the same config always
// produces the same population. Angles are radians; lifetimes are seconds;
// positions are relative to the layer's origin.
type ParticleConfig struct {
	// MaxParticles caps concurrent particles. Spawns beyond the cap are
	// dropped. Defaults to 128.
	MaxParticles int `json:"maxParticles,omitempty"`
	// EmitRate is the number of particles spawned per second.
	EmitRate float64 `json:"emitRate"`
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range `json:"lifetime"`
	// Speed is the range of initial speeds in units per second.
	Speed Range `json:"speed"`
	// Angle is the range of emission angles in radians, in the XY plane.
	Angle Range `json:"angle"`
	// StartScale is the scale at birth, interpolated to EndScale over life.
	StartScale Range `json:"startScale"`
	// EndScale is the scale at death.
	EndScale Range `json:"endScale"`
	// StartAlpha is the alpha at birth, interpolated to EndAlpha over life.
	StartAlpha Range `json:"startAlpha"`
	// EndAlpha is the alpha at death.
	EndAlpha Range `json:"endAlpha"`
	// Gravity is the constant acceleration applied to all particles.
	Gravity Vec3 `json:"gravity"`
	// StartColor is the tint at birth, interpolated to EndColor over life.
	StartColor Color `json:"startColor"`
	// EndColor is the tint at death.
	EndColor Color `json:"endColor"`
	// BlendMode is the compositing operation for particle rendering.
	BlendMode BlendMode `json:"blendMode,omitempty"`
	// Seed drives per-particle attribute sampling.
	Seed int64 `json:"seed"`
}

// ParticleInstance is one live particle in a snapshot.
type ParticleInstance struct {
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Scale    float64 `json:"scale"`
	Alpha    float64 `json:"alpha"`
	Color    Color   `json:"color"`
	Progress float64 `json:"progress"` // life fraction in [0, 1)
}

// ParticleSnapshot is the complete particle population of one layer at one
// layer-relative frame. Particles are ordered oldest first.
type ParticleSnapshot struct {
	Frame     int                `json:"frame"`
	Particles []ParticleInstance `json:"particles"`
}

// AliveCount returns the number of particles in the snapshot.
func (s ParticleSnapshot) AliveCount() int {
	return len(s.Particles)
}

// ParticleRegistry supplies particle snapshots to the evaluation pipeline.
// Implementations must be deterministic: identical (layerID, relativeFrame,
// cfg) inputs yield identical snapshots regardless of call order or history.
// The engine treats the registry as an opaque pure function.
type ParticleRegistry interface {
	EvaluateLayer(layerID string, relativeFrame int, cfg *ParticleConfig) ParticleSnapshot
}

// SimRegistry is the in-process reference ParticleRegistry. Each particle's
// trajectory is computed in closed form from its birth attributes (constant
// acceleration integrates exactly), so a snapshot at frame N never depends
// on having evaluated frame N-1. Hosts with GPU particle systems swap in
// their own registry.
type SimRegistry struct {
	// FrameRate converts layer-relative frames to seconds. Zero falls back
	// to DefaultFrameRate.
	FrameRate float64
}

// EvaluateLayer computes the particle population at a layer-relative frame.
// With steady emission, particle i is born at i/EmitRate seconds on the
// layer's local clock; the population is every particle already born whose
// lifetime has not yet run out, oldest first, capped at MaxParticles.
func (r SimRegistry) EvaluateLayer(layerID string, relativeFrame int, cfg *ParticleConfig) ParticleSnapshot {
	snap := ParticleSnapshot{Frame: relativeFrame, Particles: []ParticleInstance{}}
	if cfg == nil || cfg.EmitRate <= 0 || relativeFrame < 0 {
		return snap
	}
	fps := r.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	max := cfg.MaxParticles
	if max <= 0 {
		max = 128
	}
	seed := particleSeed(layerID, cfg.Seed)

	now := float64(relativeFrame) / fps
	maxLife := cfg.Lifetime.Max
	if maxLife <= 0 {
		maxLife = 1
	}

	// Candidate birth indices: anything older than maxLife is certainly dead.
	first := int(math.Ceil((now - maxLife) * cfg.EmitRate))
	if first < 0 {
		first = 0
	}
	last := int(math.Floor(now * cfg.EmitRate))

	for i := first; i <= last; i++ {
		if len(snap.Particles) >= max {
			break
		}
		birth := float64(i) / cfg.EmitRate
		age := now - birth

		life := cfg.Lifetime.At(hash01(seed, 1, uint64(i)))
		if life <= 0 {
			life = 1
		}
		if age < 0 || age >= life {
			continue
		}

		angle := cfg.Angle.At(hash01(seed, 2, uint64(i)))
		speed := cfg.Speed.At(hash01(seed, 3, uint64(i)))
		v0 := Vec3{math.Cos(angle) * speed, math.Sin(angle) * speed, 0}

		t := age / life
		p := ParticleInstance{
			Position: Vec3{
				X: v0.X*age + 0.5*cfg.Gravity.X*age*age,
				Y: v0.Y*age + 0.5*cfg.Gravity.Y*age*age,
				Z: 0.5 * cfg.Gravity.Z * age * age,
			},
			Velocity: Vec3{
				X: v0.X + cfg.Gravity.X*age,
				Y: v0.Y + cfg.Gravity.Y*age,
				Z: cfg.Gravity.Z * age,
			},
			Scale: lerp(
				cfg.StartScale.At(hash01(seed, 4, uint64(i))),
				cfg.EndScale.At(hash01(seed, 5, uint64(i))),
				t,
			),
			Alpha: lerp(
				cfg.StartAlpha.At(hash01(seed, 6, uint64(i))),
				cfg.EndAlpha.At(hash01(seed, 7, uint64(i))),
				t,
			),
			Color:    cfg.StartColor.Lerp(cfg.EndColor, t),
			Progress: t,
		}
		snap.Particles = append(snap.Particles, p)
	}
	return snap
}

// particleSeed folds the layer id into the config seed so two layers sharing
// a config do not emit mirrored populations.
func particleSeed(layerID string, seed int64) uint64 {
	h := uint64(seed)
	for i := 0; i < len(layerID); i++ {
		h = (h ^ uint64(layerID[i])) * 0x100000001B3
	}
	return h
}
