package lattice

// defaultFOV is the vertical field of view, in degrees, used when a camera
// resolves to a zero or negative FOV.
const defaultFOV = 50.0

// CameraSettings configures a camera layer beyond its transform. Position
// comes from the layer's animated transform; everything here layers on top:
// explicit trajectory samples replace position/target, procedural shake adds
// an offset, rack focus overrides focus distance during its window.
type CameraSettings struct {
	FOV          ScalarProperty       `json:"fov"`              // vertical, degrees
	FocalLength  ScalarProperty       `json:"focalLength"`      // millimeters
	Target       *Vec3Property        `json:"target,omitempty"` // nil looks at the composition center
	DepthOfField DepthOfFieldSettings `json:"depthOfField"`
	Trajectory   *Trajectory          `json:"trajectory,omitempty"`
	Shake        *ShakeConfig         `json:"shake,omitempty"`
	RackFocus    *RackFocusConfig     `json:"rackFocus,omitempty"`
}

// DepthOfFieldSettings holds the animatable depth-of-field properties.
// FocusDistance is overridden while a rack focus window is active; the
// other properties always resolve from here.
type DepthOfFieldSettings struct {
	Enabled       bool           `json:"enabled"`
	FocusDistance ScalarProperty `json:"focusDistance"`
	Aperture      ScalarProperty `json:"aperture"`
	BlurLevel     ScalarProperty `json:"blurLevel"`
}

// TrajectoryKeyframe is one explicit camera path sample. Trajectories are
// raw (frame, value) pairs interpolated linearly; easing belongs to the
// camera's animated properties, not to trajectory overrides.
type TrajectoryKeyframe struct {
	Frame float64 `json:"frame"`
	Value Vec3    `json:"value"`
}

// Trajectory replaces the camera's animated position and/or look target
// with explicit samples. An empty list leaves the corresponding base value
// in effect.
type Trajectory struct {
	Position []TrajectoryKeyframe `json:"position,omitempty"`
	Target   []TrajectoryKeyframe `json:"target,omitempty"`
}

// sampleTrajectory resolves a trajectory at a frame: an exact frame match
// wins, frames before the range clamp to the first sample, after the range
// to the last, and anything between brackets interpolates linearly. Sample
// lists are short; a linear scan finds the bracket.
func sampleTrajectory(keys []TrajectoryKeyframe, frame float64) Vec3 {
	if frame <= keys[0].Frame {
		return keys[0].Value
	}
	last := len(keys) - 1
	if frame >= keys[last].Frame {
		return keys[last].Value
	}
	for i := 0; i < last; i++ {
		a, b := keys[i], keys[i+1]
		if frame < a.Frame || frame > b.Frame {
			continue
		}
		if frame == a.Frame {
			return a.Value
		}
		if frame == b.Frame {
			return b.Value
		}
		span := b.Frame - a.Frame
		if span <= 0 {
			return a.Value
		}
		return a.Value.Lerp(b.Value, (frame-a.Frame)/span)
	}
	return keys[last].Value
}

// RackFocusConfig drives focus distance through a timed curve: hold From for
// HoldIn frames, travel to To over Duration frames with the given easing,
// hold To for HoldOut frames. While the window is active the resolved focus
// distance is replaced outright; outside the window the camera's animated
// focus distance applies.
type RackFocusConfig struct {
	Enabled    bool     `json:"enabled"`
	From       float64  `json:"from"`
	To         float64  `json:"to"`
	StartFrame int      `json:"startFrame"`
	Duration   int      `json:"duration"`
	Easing     EaseName `json:"easing,omitempty"`
	HoldIn     int      `json:"holdIn,omitempty"`
	HoldOut    int      `json:"holdOut,omitempty"`
}

// rackFocusDistance returns the overridden focus distance for a frame and
// whether the rack focus window is active there.
func rackFocusDistance(rf *RackFocusConfig, frame int) (float64, bool) {
	if rf == nil || !rf.Enabled {
		return 0, false
	}
	local := frame - rf.StartFrame
	if local < 0 {
		return 0, false
	}
	dur := rf.Duration
	if dur <= 0 {
		dur = 1
	}
	if local > rf.HoldIn+dur+rf.HoldOut {
		return 0, false
	}
	travel := local - rf.HoldIn
	if travel <= 0 {
		return rf.From, true
	}
	if travel >= dur {
		return rf.To, true
	}
	u := float64(travel) / float64(dur)
	ease := rf.Easing
	if ease == "" {
		ease = EaseLinear
	}
	return lerp(rf.From, rf.To, ApplyEase(ease, u)), true
}

// keyframeTotal counts keyframes across camera curves, trajectory samples
// included: editing a trajectory is a structural change like any other
// keyframe edit.
func (cs *CameraSettings) keyframeTotal() int {
	n := len(cs.FOV.Keys) +
		len(cs.FocalLength.Keys) +
		len(cs.DepthOfField.FocusDistance.Keys) +
		len(cs.DepthOfField.Aperture.Keys) +
		len(cs.DepthOfField.BlurLevel.Keys)
	if cs.Target != nil {
		n += len(cs.Target.Keys)
	}
	if cs.Trajectory != nil {
		n += len(cs.Trajectory.Position) + len(cs.Trajectory.Target)
	}
	return n
}

// evaluateCamera resolves one camera layer at a frame, applying the four
// control layers in fixed precedence: animated base properties, trajectory
// override, procedural shake, rack focus. Audio camera modifiers (FOV,
// dolly along the view axis, shake widening) land between shake and rack
// focus resolution.
func evaluateCamera(layer *Layer, comp *Composition, frame int, mods AudioModifiers) *EvaluatedCamera {
	cs := layer.Camera
	f := float64(frame)

	// 1. Base: animated transform and camera properties.
	pos := layer.Transform.Position.ValueAt(f)
	target := comp.Center()
	fov := defaultFOV
	var focal float64
	if cs != nil {
		if cs.Target != nil {
			target = cs.Target.ValueAt(f)
		}
		if v := cs.FOV.ValueAt(f); v > 0 {
			fov = v
		}
		focal = cs.FocalLength.ValueAt(f)
	}

	// 2. Trajectory override replaces, never blends.
	if cs != nil && cs.Trajectory != nil {
		if len(cs.Trajectory.Position) > 0 {
			pos = sampleTrajectory(cs.Trajectory.Position, f)
		}
		if len(cs.Trajectory.Target) > 0 {
			target = sampleTrajectory(cs.Trajectory.Target, f)
		}
	}

	// 3. Procedural shake, widened by the audio shake amount.
	var roll float64
	if cs != nil {
		off := evaluateShake(cs.Shake, frame, comp.FrameRate, mods.CameraShake)
		pos = pos.Add(off.Position)
		roll = off.Rotation
	}

	// Audio FOV and dolly. Dolly moves along the current view axis.
	fov += mods.CameraFOV
	if mods.CameraDolly != 0 {
		pos = pos.Add(target.Sub(pos).Normalized().Scale(mods.CameraDolly))
	}

	// 4. Depth of field; rack focus overrides only the focus distance.
	var dof EvaluatedDOF
	if cs != nil {
		dof = EvaluatedDOF{
			Enabled:       cs.DepthOfField.Enabled,
			FocusDistance: cs.DepthOfField.FocusDistance.ValueAt(f),
			Aperture:      cs.DepthOfField.Aperture.ValueAt(f),
			BlurLevel:     cs.DepthOfField.BlurLevel.ValueAt(f),
		}
		if d, active := rackFocusDistance(cs.RackFocus, frame); active {
			dof.FocusDistance = d
		}
	}

	return &EvaluatedCamera{
		LayerID:      layer.ID,
		Position:     pos,
		Target:       target,
		Roll:         roll,
		FOV:          fov,
		FocalLength:  focal,
		DepthOfField: dof,
	}
}
