package lattice

import "time"

// EngineOptions configures an Engine. Zero values take package defaults.
type EngineOptions struct {
	CacheCapacity int
	CacheTTL      time.Duration
	Registry      ParticleRegistry // nil uses the built-in closed-form simulator
}

// Engine evaluates project frames into FrameState snapshots. Evaluation is
// pure: the project is never mutated, no wall-clock time or randomness is
// consulted, and the same inputs always produce the same snapshot. The
// embedded frame cache is an invisible accelerator; hitting or missing it
// never changes a result. Safe for concurrent use as long as callers do not
// mutate the project mid-evaluation.
type Engine struct {
	cache    *FrameCache
	registry ParticleRegistry
}

// NewEngine builds an engine with its own frame cache.
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		cache:    NewFrameCache(opts.CacheCapacity, opts.CacheTTL),
		registry: opts.Registry,
	}
}

// Cache exposes the engine's frame cache for host-driven invalidation.
func (e *Engine) Cache() *FrameCache {
	return e.cache
}

// EvalOptions selects what one evaluation sees beyond the project itself.
type EvalOptions struct {
	// CompositionID picks the composition to evaluate; empty uses the
	// project's active composition.
	CompositionID string

	// Audio and Mappings drive audio-reactive deltas. Either may be nil.
	Audio    *AudioAnalysis
	Mappings []AudioMapping

	// ActiveCameraID forces a camera layer (even one flagged invisible, so
	// editors can preview a hidden camera). Empty picks the first visible
	// camera layer in stack order.
	ActiveCameraID string

	// DisableCache bypasses the frame cache for this call, neither reading
	// nor storing.
	DisableCache bool
}

// Evaluate resolves one frame of one composition. A missing composition
// yields an empty FrameState carrying only the frame number and the
// requested id.
func (e *Engine) Evaluate(p *Project, frame int, opt EvalOptions) FrameState {
	id := opt.CompositionID
	var comp *Composition
	if p != nil {
		if id == "" {
			id = p.ActiveCompositionID
		}
		comp = p.Composition(id)
	}
	if comp == nil {
		return FrameState{Frame: frame, CompositionID: id}
	}

	// Out-of-range requests clamp to the timeline instead of failing: a
	// scrub can overshoot the last frame dozens of times per second.
	if frame < 0 {
		frame = 0
	}
	if comp.FrameCount > 0 && frame > comp.FrameCount-1 {
		frame = comp.FrameCount - 1
	}

	hash := evalHash(StructuralHash(p, comp), opt)
	if !opt.DisableCache {
		if st, ok := e.cache.Get(comp.ID, frame, hash); ok {
			return st
		}
	}

	st := e.evaluateFrame(comp, frame, opt)
	if !opt.DisableCache {
		e.cache.Set(comp.ID, frame, hash, st)
	}
	return st
}

// evaluateFrame does the actual work: per-layer property resolution, audio
// deltas, motion presets, particles, world matrices, and the camera.
func (e *Engine) evaluateFrame(comp *Composition, frame int, opt EvalOptions) FrameState {
	st := FrameState{
		Frame:         frame,
		CompositionID: comp.ID,
		Settings: CompositionSettings{
			Width:      comp.Width,
			Height:     comp.Height,
			FrameCount: comp.FrameCount,
			FrameRate:  comp.FrameRate,
		},
		Audio: opt.Audio.At(frame),
	}

	mapper := NewAudioMapper(opt.Audio, opt.Mappings)
	registry := e.registry
	if registry == nil {
		registry = SimRegistry{FrameRate: comp.FrameRate}
	}

	f := float64(frame)
	st.Layers = make([]EvaluatedLayer, 0, len(comp.Layers))
	for _, l := range comp.Layers {
		mods := mapper.ModifiersFor(l.ID, frame)
		motion := motionOffsets(l.Motion, frame, comp.FrameRate)

		tr := EvaluatedTransform{
			Position:  l.Transform.Position.ValueAt(f).Add(mods.Position).Add(motion.Position),
			Origin:    l.Transform.Origin.ValueAt(f),
			Scale:     l.Transform.Scale.ValueAt(f),
			Rotation:  l.Transform.Rotation.ValueAt(f) + mods.Rotation + motion.Rotation,
			RotationX: l.Transform.RotationX.ValueAt(f),
			RotationY: l.Transform.RotationY.ValueAt(f),
		}
		if d := mods.Scale + motion.Scale; d != 0 {
			tr.Scale = tr.Scale.Add(Vec3{d, d, d})
		}

		ev := EvaluatedLayer{
			ID:        l.ID,
			Type:      l.Type,
			Visible:   l.VisibleAt(frame),
			Opacity:   clamp(l.Opacity.ValueAt(f)+mods.Opacity+motion.Opacity, 0, 100),
			Transform: tr,
			BlendMode: l.BlendMode,
			ThreeD:    l.ThreeD,
			ParentID:  l.ParentID,
			Effects:   resolveEffects(l.Effects, f, mods),
			Audio:     mods,
			Source:    l,
		}
		resolveTypeProps(&ev, l, frame, f, mods)

		if l.Type == LayerParticles && l.Particles != nil && ev.Visible {
			if st.Particles == nil {
				st.Particles = make(map[string]ParticleSnapshot)
			}
			st.Particles[l.ID] = registry.EvaluateLayer(l.ID, l.RelativeFrame(frame), l.Particles)
		}

		st.Layers = append(st.Layers, ev)
	}
	resolveWorldMatrices(st.Layers)

	if cam := activeCameraLayer(comp, frame, opt.ActiveCameraID); cam != nil {
		st.Camera = evaluateCamera(cam, comp, frame, mapper.ModifiersFor(cam.ID, frame))
	}
	return st
}

// resolveTypeProps fills the layer's Props and Colors bags from its
// type-specific settings. Audio color gain lands on resolved layer colors;
// effect parameter colors stay raw.
func resolveTypeProps(ev *EvaluatedLayer, l *Layer, frame int, f float64, mods AudioModifiers) {
	prop := func(name string, v float64) {
		if ev.Props == nil {
			ev.Props = make(map[string]float64, 4)
		}
		ev.Props[name] = v
	}
	color := func(name string, c Color) {
		if ev.Colors == nil {
			ev.Colors = make(map[string]Color, 2)
		}
		if mods.ColorGain != 0 {
			c = c.Gain(1 + mods.ColorGain)
		}
		ev.Colors[name] = c
	}

	if l.TimeRemap != nil {
		prop("timeRemap", l.TimeRemap.ValueAt(f))
	}

	switch l.Type {
	case LayerText:
		if l.Text != nil {
			prop("fontSize", l.Text.FontSize.ValueAt(f))
			prop("tracking", l.Text.Tracking.ValueAt(f))
			color("fill", l.Text.FillColor.ValueAt(f))
		}
	case LayerSolid, LayerAdjustment:
		if l.Solid != nil {
			color("color", l.Solid.Color.ValueAt(f))
		}
	case LayerMedia:
		if l.Media != nil {
			prop("volume", l.Media.Volume.ValueAt(f))
			src := float64(l.RelativeFrame(frame))
			if l.TimeRemap != nil {
				src = l.TimeRemap.ValueAt(f)
			}
			prop("sourceFrame", src)
		}
	case LayerLight:
		if l.Light != nil {
			prop("intensity", l.Light.Intensity.ValueAt(f))
			prop("coneAngle", l.Light.ConeAngle.ValueAt(f))
			color("color", l.Light.Color.ValueAt(f))
		}
	}
}

// activeCameraLayer picks the camera layer to resolve. An explicit request
// wins when that layer exists and is a camera; otherwise the first camera
// layer visible at the frame.
func activeCameraLayer(comp *Composition, frame int, requestedID string) *Layer {
	if requestedID != "" {
		if l := comp.Layer(requestedID); l != nil && l.Type == LayerCamera {
			return l
		}
	}
	for _, l := range comp.Layers {
		if l.Type == LayerCamera && l.VisibleAt(frame) {
			return l
		}
	}
	return nil
}
