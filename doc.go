// Package lattice is a deterministic animation evaluation engine for
// keyframed motion-graphics compositions.
//
// Lattice resolves a declarative project description (compositions, layers,
// keyframed properties, cameras, particles, audio mappings) into complete
// per-frame snapshots. Evaluation is a pure function of (project, frame,
// options): no wall-clock time, no hidden randomness, no stored simulation
// state, so any frame can be computed at any time in any order and always
// comes out the same. Rendering is out of scope; a [FrameState] is
// everything a renderer needs, with no further time sampling required.
//
// # Quick start
//
// Build or load a project, then evaluate frames through an [Engine]:
//
//	p, err := lattice.ReadProject("project.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine := lattice.NewEngine(lattice.EngineOptions{})
//	state := engine.Evaluate(p, 12, lattice.EvalOptions{})
//	for _, layer := range state.Layers {
//		// layer.Transform, layer.Opacity, layer.World ...
//	}
//
// Projects can equally be assembled in code:
//
//	p := lattice.NewProject("demo")
//	comp := p.AddComposition("main", 1920, 1080)
//	layer := comp.AddLayer(lattice.LayerSolid, "box")
//	layer.Transform.Position = lattice.Vec3Property{
//		Keys: []lattice.Vec3Keyframe{
//			{Keyframe: lattice.Keyframe{Frame: 0}, Value: lattice.Vec3{X: 0}},
//			{Keyframe: lattice.Keyframe{Frame: 40}, Value: lattice.Vec3{X: 500}},
//		},
//	}
//
// # Properties and keyframes
//
// Every animatable value is a property ([ScalarProperty], [Vec3Property],
// [ColorProperty]) holding a static value and an optional keyframe list.
// Keyframes interpolate linearly, hold, follow cubic bezier handles, or
// apply a named easing curve; frames outside the keyframe range clamp to
// the boundary keyframes.
//
// # Audio, cameras, particles
//
// [AnalyzeWAV] turns a WAV file into per-frame feature arrays; mappings
// route features (bass, RMS, onsets, beats) onto layer and camera
// parameters as additive deltas. Camera layers resolve through fixed
// precedence (animated base, trajectory override, procedural shake, rack
// focus). Particle layers are simulated closed-form, so a particle
// snapshot at frame 500 never requires stepping through frames 0..499.
//
// # Caching
//
// Evaluated frames are memoized per (composition, frame), validated by a
// structural hash of the composition, and evicted LRU. The cache is
// observationally transparent; [FrameCache.Invalidate] and
// [Project.Touch] cover edits the hash cannot see.
package lattice
