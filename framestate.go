package lattice

// FrameState is the complete evaluated snapshot for one frame: everything
// the rendering layer needs, with no further time sampling required. It
// carries no wall-clock time and no random values; two evaluations of
// identical project content at the same frame are structurally identical.
// Construct via Engine.Evaluate only; never mutate after receipt.
type FrameState struct {
	Frame         int                         `json:"frame"`
	CompositionID string                      `json:"compositionId"`
	Settings      CompositionSettings         `json:"settings"`
	Layers        []EvaluatedLayer            `json:"layers"`
	Camera        *EvaluatedCamera            `json:"camera,omitempty"`
	Audio         EvaluatedAudio              `json:"audio"`
	Particles     map[string]ParticleSnapshot `json:"particles,omitempty"`
}

// CompositionSettings is the value copy of the owning composition's timeline
// settings embedded in every FrameState.
type CompositionSettings struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frameCount"`
	FrameRate  float64 `json:"frameRate"`
}

// EvaluatedLayer is one layer's resolved values at a frame. Source points at
// the static layer record for metadata (name, type-specific settings the
// host needs); it must never be re-evaluated downstream.
type EvaluatedLayer struct {
	ID        string             `json:"id"`
	Type      LayerType          `json:"type"`
	Visible   bool               `json:"visible"`
	Opacity   float64            `json:"opacity"`
	Transform EvaluatedTransform `json:"transform"`
	BlendMode BlendMode          `json:"blendMode,omitempty"`
	ThreeD    bool               `json:"threeD,omitempty"`
	ParentID  string             `json:"parentId,omitempty"`
	Effects   []EvaluatedEffect  `json:"effects,omitempty"`
	Props     map[string]float64 `json:"props,omitempty"`
	Colors    map[string]Color   `json:"colors,omitempty"`
	Audio     AudioModifiers     `json:"audio"`
	World     Mat4               `json:"world"`
	Source    *Layer             `json:"-"`
}

// EvaluatedTransform holds resolved transform values. Scale is in percent,
// rotations in degrees, matching the authored properties.
type EvaluatedTransform struct {
	Position  Vec3    `json:"position"`
	Origin    Vec3    `json:"origin"`
	Scale     Vec3    `json:"scale"`
	Rotation  float64 `json:"rotation"`
	RotationX float64 `json:"rotationX,omitempty"`
	RotationY float64 `json:"rotationY,omitempty"`
}

// EvaluatedEffect is one effect instance with every parameter resolved to a
// plain value.
type EvaluatedEffect struct {
	Type    string             `json:"type"`
	Enabled bool               `json:"enabled"`
	Params  map[string]float64 `json:"params,omitempty"`
	Colors  map[string]Color   `json:"colors,omitempty"`
}

// EvaluatedCamera is the single resolved camera for a frame. Nil on the
// FrameState when no camera layer exists or none is visible; the host then
// falls back to its default view.
type EvaluatedCamera struct {
	LayerID      string       `json:"layerId"`
	Position     Vec3         `json:"position"`
	Target       Vec3         `json:"target"`
	Roll         float64      `json:"roll"` // degrees, from shake
	FOV          float64      `json:"fov"`
	FocalLength  float64      `json:"focalLength"`
	DepthOfField EvaluatedDOF `json:"depthOfField"`
}

// EvaluatedDOF holds resolved depth-of-field parameters.
type EvaluatedDOF struct {
	Enabled       bool    `json:"enabled"`
	FocusDistance float64 `json:"focusDistance"`
	Aperture      float64 `json:"aperture"`
	BlurLevel     float64 `json:"blurLevel"`
}

// EvaluatedAudio is the frame's slice of the audio analysis. HasAudio is
// false (and every feature zero) when no analysis was supplied.
type EvaluatedAudio struct {
	HasAudio  bool    `json:"hasAudio"`
	Amplitude float64 `json:"amplitude"`
	RMS       float64 `json:"rms"`
	Bass      float64 `json:"bass"`
	Mid       float64 `json:"mid"`
	High      float64 `json:"high"`
	Centroid  float64 `json:"centroid"`
	Onset     bool    `json:"onset"`
	Beat      bool    `json:"beat"`
	BPM       float64 `json:"bpm"`
}
