package lattice

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Composition timeline defaults. The frame count follows the 4N+1 sample
// pattern video models expect; hosts override both freely.
const (
	DefaultFrameCount = 81
	DefaultFrameRate  = 16.0
)

// --- Project ---

// ProjectMeta carries editor-facing bookkeeping. Created and Modified are
// RFC 3339 strings maintained at the persistence boundary; they never enter
// evaluation.
type ProjectMeta struct {
	Name     string `json:"name"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// Project is the root of the declarative scene description: compositions by
// id, the composition the editor currently targets, and a monotonic revision
// counter. Editors bump the counter (Touch) on every mutating action so the
// cache can distinguish value-only edits that the structural shape fields
// cannot see.
type Project struct {
	Meta                ProjectMeta             `json:"meta"`
	Compositions        map[string]*Composition `json:"compositions"`
	ActiveCompositionID string                  `json:"activeComposition"`
	Revision            uint64                  `json:"revision"`
}

// NewProject creates an empty project with no compositions.
func NewProject(name string) *Project {
	return &Project{
		Meta:         ProjectMeta{Name: name},
		Compositions: map[string]*Composition{},
		Revision:     1,
	}
}

// Touch bumps the revision counter. Call after any project edit the
// structural fields (layer list, visibility, ranges, keyframe counts) do not
// capture, such as changing a keyframe's value in place.
func (p *Project) Touch() {
	p.Revision++
}

// Composition returns the composition with the given id, or nil.
func (p *Project) Composition(id string) *Composition {
	return p.Compositions[id]
}

// ActiveComposition returns the composition the project currently targets,
// or nil when none is set.
func (p *Project) ActiveComposition() *Composition {
	return p.Compositions[p.ActiveCompositionID]
}

// AddComposition creates a composition with default timeline settings,
// registers it, and makes it active if no composition was active before.
func (p *Project) AddComposition(name string, width, height int) *Composition {
	c := &Composition{
		ID:         uuid.NewString(),
		Name:       name,
		Width:      width,
		Height:     height,
		FrameCount: DefaultFrameCount,
		FrameRate:  DefaultFrameRate,
	}
	p.Compositions[c.ID] = c
	if p.ActiveCompositionID == "" {
		p.ActiveCompositionID = c.ID
	}
	p.Touch()
	return c
}

// --- Composition ---

// Composition is one timeline: output dimensions, frame count and rate, and
// an ordered layer stack. Layer order is declaration order; evaluation and
// rendering both honor it.
type Composition struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	FrameCount int      `json:"frameCount"`
	FrameRate  float64  `json:"frameRate"`
	Layers     []*Layer `json:"layers"`
}

// Center returns the composition's center point at depth zero, the default
// camera look target.
func (c *Composition) Center() Vec3 {
	return Vec3{float64(c.Width) / 2, float64(c.Height) / 2, 0}
}

// AddLayer creates a layer of the given type with editor defaults (visible,
// full timeline span, centered, opacity 100, scale 100%) and appends it to
// the stack.
func (c *Composition) AddLayer(t LayerType, name string) *Layer {
	l := &Layer{
		ID:         uuid.NewString(),
		Type:       t,
		Name:       name,
		Visible:    true,
		StartFrame: 0,
		EndFrame:   c.FrameCount - 1,
		Transform:  defaultTransform(c.Center()),
		Opacity:    ScalarProperty{Value: 100},
	}
	c.Layers = append(c.Layers, l)
	return l
}

// Layer returns the layer with the given id, or nil.
func (c *Composition) Layer(id string) *Layer {
	for _, l := range c.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// RemoveLayer detaches the layer with the given id from the stack.
// Returns false if no layer has that id.
func (c *Composition) RemoveLayer(id string) bool {
	for i, l := range c.Layers {
		if l.ID == id {
			copy(c.Layers[i:], c.Layers[i+1:])
			c.Layers[len(c.Layers)-1] = nil
			c.Layers = c.Layers[:len(c.Layers)-1]
			return true
		}
	}
	return false
}

// MoveLayer reorders the stack, moving the layer at from to position to.
// Panics if either index is out of range.
func (c *Composition) MoveLayer(from, to int) {
	if from < 0 || from >= len(c.Layers) || to < 0 || to >= len(c.Layers) {
		panic("lattice: MoveLayer: layer index out of range")
	}
	l := c.Layers[from]
	copy(c.Layers[from:], c.Layers[from+1:])
	c.Layers[len(c.Layers)-1] = nil
	c.Layers = c.Layers[:len(c.Layers)-1]
	c.Layers = append(c.Layers, nil)
	copy(c.Layers[to+1:], c.Layers[to:])
	c.Layers[to] = l
}

// --- Layer ---

// Layer is one element of a composition's stack. A single flat record covers
// all layer types; the type-specific pointers are nil for types that do not
// use them. All animatable fields are tagged properties, so whether a value
// is static or keyframed is fixed when the record is built.
type Layer struct {
	ID         string    `json:"id"`
	Type       LayerType `json:"type"`
	Name       string    `json:"name"`
	Visible    bool      `json:"visible"`
	StartFrame int       `json:"startFrame"`
	EndFrame   int       `json:"endFrame"`
	ParentID   string    `json:"parentId,omitempty"`
	BlendMode  BlendMode `json:"blendMode,omitempty"`
	ThreeD     bool      `json:"threeD,omitempty"`

	Transform LayerTransform `json:"transform"`
	Opacity   ScalarProperty `json:"opacity"`

	Effects []*EffectInstance `json:"effects,omitempty"`
	Motion  *MotionPreset     `json:"motion,omitempty"`

	// Type-specific settings.
	Camera    *CameraSettings `json:"camera,omitempty"`
	Particles *ParticleConfig `json:"particles,omitempty"`
	TimeRemap *ScalarProperty `json:"timeRemap,omitempty"`
	Text      *TextSettings   `json:"text,omitempty"`
	Solid     *SolidSettings  `json:"solid,omitempty"`
	Media     *MediaSettings  `json:"media,omitempty"`
	Light     *LightSettings  `json:"light,omitempty"`

	// Legacy interchange names. Consumed once by normalization after decode
	// and cleared, so saves only ever carry the canonical fields.
	LegacyInPoint  *int          `json:"inPoint,omitempty"`
	LegacyOutPoint *int          `json:"outPoint,omitempty"`
	LegacyAnchor   *Vec3Property `json:"anchor,omitempty"`
}

// LayerTransform groups the animatable transform properties. Scale is in
// percent (100 = identity); rotations are degrees. RotationX/RotationY apply
// only to 3-D layers.
type LayerTransform struct {
	Position  Vec3Property   `json:"position"`
	Origin    Vec3Property   `json:"origin"`
	Scale     Vec3Property   `json:"scale"`
	Rotation  ScalarProperty `json:"rotation"`
	RotationX ScalarProperty `json:"rotationX"`
	RotationY ScalarProperty `json:"rotationY"`
}

func defaultTransform(center Vec3) LayerTransform {
	return LayerTransform{
		Position: Vec3Property{Value: center},
		Scale:    Vec3Property{Value: Vec3{100, 100, 100}},
	}
}

// UnmarshalJSON decodes a layer with editor defaults applied first, so
// absent fields land on their defaults (visible, opacity 100, scale 100%)
// instead of Go zero values. EndFrame defaults to -1 and is resolved against
// the owning composition during normalization.
func (l *Layer) UnmarshalJSON(data []byte) error {
	type layerAlias Layer
	tmp := layerAlias{
		Visible:    true,
		StartFrame: -1,
		EndFrame:   -1,
		Opacity:    ScalarProperty{Value: 100},
		Transform: LayerTransform{
			Scale: Vec3Property{Value: Vec3{100, 100, 100}},
		},
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*l = Layer(tmp)
	return nil
}

// VisibleAt reports whether the layer is visible at a frame: the explicit
// flag combined with the start/end range test, both ends inclusive.
func (l *Layer) VisibleAt(frame int) bool {
	return l.Visible && frame >= l.StartFrame && frame <= l.EndFrame
}

// RelativeFrame converts a composition frame to this layer's local clock,
// zero at the layer's start frame. Particle simulation and time remapping
// both run on the local clock.
func (l *Layer) RelativeFrame(frame int) int {
	return frame - l.StartFrame
}

// KeyframeTotal counts every keyframe on the layer across transform,
// opacity, effects, type-specific settings, and camera curves. Feeds the
// structural hash: a changed keyframe count invalidates cached frames.
func (l *Layer) KeyframeTotal() int {
	n := len(l.Transform.Position.Keys) +
		len(l.Transform.Origin.Keys) +
		len(l.Transform.Scale.Keys) +
		len(l.Transform.Rotation.Keys) +
		len(l.Transform.RotationX.Keys) +
		len(l.Transform.RotationY.Keys) +
		len(l.Opacity.Keys)
	for _, fx := range l.Effects {
		n += fx.keyframeTotal()
	}
	if l.TimeRemap != nil {
		n += len(l.TimeRemap.Keys)
	}
	if l.Camera != nil {
		n += l.Camera.keyframeTotal()
	}
	if l.Text != nil {
		n += len(l.Text.FontSize.Keys) + len(l.Text.Tracking.Keys) + len(l.Text.FillColor.Keys)
	}
	if l.Solid != nil {
		n += len(l.Solid.Color.Keys)
	}
	if l.Media != nil {
		n += len(l.Media.Volume.Keys)
	}
	if l.Light != nil {
		n += len(l.Light.Intensity.Keys) + len(l.Light.Color.Keys) + len(l.Light.ConeAngle.Keys)
	}
	return n
}

// --- Type-specific settings ---

// TextSettings configures a text layer. Content and font are static; size,
// tracking, and fill animate.
type TextSettings struct {
	Content   string         `json:"content"`
	FontID    string         `json:"fontId,omitempty"`
	FontSize  ScalarProperty `json:"fontSize"`
	Tracking  ScalarProperty `json:"tracking"`
	FillColor ColorProperty  `json:"fillColor"`
}

// SolidSettings configures a solid color layer.
type SolidSettings struct {
	Color ColorProperty `json:"color"`
}

// MediaSettings configures an image or video layer. Source is an opaque
// reference resolved by the host; the engine only evaluates volume and
// reports the source through the evaluated state.
type MediaSettings struct {
	Source string         `json:"source"`
	Loop   bool           `json:"loop,omitempty"`
	Volume ScalarProperty `json:"volume"`
}

// LightSettings configures a light layer. Intensity is in percent.
type LightSettings struct {
	Kind      string         `json:"kind,omitempty"`
	Intensity ScalarProperty `json:"intensity"`
	Color     ColorProperty  `json:"color"`
	ConeAngle ScalarProperty `json:"coneAngle"`
}

// --- Interchange ---

// ParseProject decodes project JSON and runs the one-time normalization
// pass: legacy field names are migrated to their canonical forms, layer
// ranges are resolved and clamped, and the revision counter is initialized
// when absent.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p.normalize()
	return &p, nil
}

// ReadProject loads and normalizes a project file.
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return ParseProject(data)
}

// WriteProject saves a project as indented JSON, stamping Modified (and
// Created, if empty) with the current UTC time. Only canonical field names
// are written.
func WriteProject(path string, p *Project) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if p.Meta.Created == "" {
		p.Meta.Created = now
	}
	p.Meta.Modified = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// normalize migrates legacy fields and resolves defaults. Runs once per
// load; evaluation never consults legacy names.
func (p *Project) normalize() {
	if p.Compositions == nil {
		p.Compositions = map[string]*Composition{}
	}
	if p.Revision == 0 {
		p.Revision = 1
	}
	for id, c := range p.Compositions {
		if c.ID == "" {
			c.ID = id
		}
		if c.FrameCount <= 0 {
			c.FrameCount = DefaultFrameCount
		}
		if c.FrameRate <= 0 {
			c.FrameRate = DefaultFrameRate
		}
		for _, l := range c.Layers {
			normalizeLayer(l, c)
		}
	}
}

func normalizeLayer(l *Layer, c *Composition) {
	// Canonical names win when both are present; legacy fills gaps only.
	if l.StartFrame < 0 {
		if l.LegacyInPoint != nil {
			l.StartFrame = *l.LegacyInPoint
		} else {
			l.StartFrame = 0
		}
	}
	if l.EndFrame < 0 {
		if l.LegacyOutPoint != nil {
			l.EndFrame = *l.LegacyOutPoint
		} else {
			l.EndFrame = c.FrameCount - 1
		}
	}
	if l.LegacyAnchor != nil && !l.Transform.Origin.Animated() && l.Transform.Origin.Value == (Vec3{}) {
		l.Transform.Origin = *l.LegacyAnchor
	}
	l.LegacyInPoint = nil
	l.LegacyOutPoint = nil
	l.LegacyAnchor = nil

	if l.StartFrame < 0 {
		l.StartFrame = 0
	}
	if l.EndFrame > c.FrameCount-1 {
		l.EndFrame = c.FrameCount - 1
	}
	if l.EndFrame < l.StartFrame {
		l.EndFrame = l.StartFrame
	}
}
