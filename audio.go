package lattice

// FeatureName identifies one sampled audio feature. Flag features (onset,
// beat) read as 0 or 1 when used as mapping sources.
type FeatureName string

const (
	FeatureAmplitude FeatureName = "amplitude" // peak level per frame window
	FeatureRMS       FeatureName = "rms"       // perceived loudness
	FeatureBass      FeatureName = "bass"      // low band energy
	FeatureMid       FeatureName = "mid"       // mid band energy
	FeatureHigh      FeatureName = "high"      // high band energy
	FeatureCentroid  FeatureName = "centroid"  // spectral brightness
	FeatureOnset     FeatureName = "onset"     // transient detected this frame
	FeatureBeat      FeatureName = "beat"      // frame lands on the beat grid
)

// TargetParam identifies the parameter an audio mapping drives. Layer
// targets apply per mapped layer; camera targets apply to the active camera.
type TargetParam string

const (
	TargetOpacity     TargetParam = "opacity"
	TargetScale       TargetParam = "scale"
	TargetRotation    TargetParam = "rotation"
	TargetPositionX   TargetParam = "positionX"
	TargetPositionY   TargetParam = "positionY"
	TargetPositionZ   TargetParam = "positionZ"
	TargetColorGain   TargetParam = "colorGain"
	TargetBlur        TargetParam = "blur"
	TargetGlow        TargetParam = "glow"
	TargetCameraFOV   TargetParam = "cameraFov"
	TargetCameraDolly TargetParam = "cameraDolly"
	TargetCameraShake TargetParam = "cameraShake"
)

// AudioAnalysis holds precomputed per-frame feature arrays sampled at the
// composition's frame rate, plus the detected tempo. Arrays are normalized
// to [0, 1]; BPM is absolute. Analyses arrive fully computed (AnalyzeWAV or
// the host's own pipeline) and are read-only during evaluation.
type AudioAnalysis struct {
	FrameRate float64   `json:"frameRate"`
	BPM       float64   `json:"bpm"`
	Amplitude []float64 `json:"amplitude"`
	RMS       []float64 `json:"rms"`
	Bass      []float64 `json:"bass"`
	Mid       []float64 `json:"mid"`
	High      []float64 `json:"high"`
	Centroid  []float64 `json:"centroid"`
	Onset     []bool    `json:"onset"`
	Beat      []bool    `json:"beat"`
}

// FrameCount returns the number of analyzed frames.
func (a *AudioAnalysis) FrameCount() int {
	return len(a.Amplitude)
}

// Feature returns one feature's value at a frame. Out-of-range frames clamp
// to the nearest analyzed frame; flag features read as 0 or 1; unknown
// names read as 0.
func (a *AudioAnalysis) Feature(name FeatureName, frame int) float64 {
	switch name {
	case FeatureAmplitude:
		return sampleAt(a.Amplitude, frame)
	case FeatureRMS:
		return sampleAt(a.RMS, frame)
	case FeatureBass:
		return sampleAt(a.Bass, frame)
	case FeatureMid:
		return sampleAt(a.Mid, frame)
	case FeatureHigh:
		return sampleAt(a.High, frame)
	case FeatureCentroid:
		return sampleAt(a.Centroid, frame)
	case FeatureOnset:
		return flagAt(a.Onset, frame)
	case FeatureBeat:
		return flagAt(a.Beat, frame)
	default:
		return 0
	}
}

// At returns the frame's complete feature slice for embedding in a
// FrameState. A nil analysis yields the zero block with HasAudio false.
func (a *AudioAnalysis) At(frame int) EvaluatedAudio {
	if a == nil || a.FrameCount() == 0 {
		return EvaluatedAudio{}
	}
	return EvaluatedAudio{
		HasAudio:  true,
		Amplitude: sampleAt(a.Amplitude, frame),
		RMS:       sampleAt(a.RMS, frame),
		Bass:      sampleAt(a.Bass, frame),
		Mid:       sampleAt(a.Mid, frame),
		High:      sampleAt(a.High, frame),
		Centroid:  sampleAt(a.Centroid, frame),
		Onset:     flagAt(a.Onset, frame) != 0,
		Beat:      flagAt(a.Beat, frame) != 0,
		BPM:       a.BPM,
	}
}

func sampleAt(values []float64, frame int) float64 {
	if len(values) == 0 {
		return 0
	}
	if frame < 0 {
		frame = 0
	}
	if frame >= len(values) {
		frame = len(values) - 1
	}
	return values[frame]
}

func flagAt(flags []bool, frame int) float64 {
	if len(flags) == 0 {
		return 0
	}
	if frame < 0 {
		frame = 0
	}
	if frame >= len(flags) {
		frame = len(flags) - 1
	}
	if flags[frame] {
		return 1
	}
	return 0
}

// AudioMapping routes one feature to one target parameter. LayerID limits a
// layer-target mapping to one layer; empty applies to every layer (and, for
// camera targets, to the active camera). Scale multiplies the feature value
// into the delta; a zero scale contributes nothing. Curve optionally shapes
// the normalized feature before scaling.
type AudioMapping struct {
	LayerID string      `json:"layerId,omitempty" yaml:"layerId,omitempty"`
	Target  TargetParam `json:"target" yaml:"target"`
	Feature FeatureName `json:"feature" yaml:"feature"`
	Scale   float64     `json:"scale" yaml:"scale"`
	Curve   EaseName    `json:"curve,omitempty" yaml:"curve,omitempty"`
}

// AudioModifiers is the additive delta bag one layer (or the camera)
// receives at a frame. Deltas are applied on top of keyframe-evaluated
// values; opacity is clamped to [0, 100] after its delta lands. ColorGain is
// a gain delta: the final RGB multiplier is 1 + ColorGain.
type AudioModifiers struct {
	Opacity     float64 `json:"opacity,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Rotation    float64 `json:"rotation,omitempty"`
	Position    Vec3    `json:"position"`
	ColorGain   float64 `json:"colorGain,omitempty"`
	Blur        float64 `json:"blur,omitempty"`
	Glow        float64 `json:"glow,omitempty"`
	CameraFOV   float64 `json:"cameraFov,omitempty"`
	CameraDolly float64 `json:"cameraDolly,omitempty"`
	CameraShake float64 `json:"cameraShake,omitempty"`
}

// AudioMapper computes modifier bags from an analysis and a mapping list.
// Built per evaluation; holds no mutable state, so any (layer, frame) pair
// is computable independently and in any order.
type AudioMapper struct {
	analysis *AudioAnalysis
	mappings []AudioMapping
}

// NewAudioMapper pairs an analysis with mapping rules. Either may be nil or
// empty; the mapper then yields zero modifiers.
func NewAudioMapper(analysis *AudioAnalysis, mappings []AudioMapping) *AudioMapper {
	return &AudioMapper{analysis: analysis, mappings: mappings}
}

// ModifiersFor returns the additive deltas for one layer at one frame.
func (m *AudioMapper) ModifiersFor(layerID string, frame int) AudioModifiers {
	var out AudioModifiers
	if m == nil || m.analysis == nil {
		return out
	}
	for _, rule := range m.mappings {
		if rule.LayerID != "" && rule.LayerID != layerID {
			continue
		}
		v := m.analysis.Feature(rule.Feature, frame)
		if rule.Curve != "" {
			v = ApplyEase(rule.Curve, v)
		}
		delta := v * rule.Scale

		switch rule.Target {
		case TargetOpacity:
			out.Opacity += delta
		case TargetScale:
			out.Scale += delta
		case TargetRotation:
			out.Rotation += delta
		case TargetPositionX:
			out.Position.X += delta
		case TargetPositionY:
			out.Position.Y += delta
		case TargetPositionZ:
			out.Position.Z += delta
		case TargetColorGain:
			out.ColorGain += delta
		case TargetBlur:
			out.Blur += delta
		case TargetGlow:
			out.Glow += delta
		case TargetCameraFOV:
			out.CameraFOV += delta
		case TargetCameraDolly:
			out.CameraDolly += delta
		case TargetCameraShake:
			out.CameraShake += delta
		}
	}
	return out
}
