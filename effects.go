package lattice

import "encoding/json"

// Known effect types. The set is open: unrecognized types still evaluate,
// they just receive no audio deltas.
const (
	EffectBlur         = "blur"
	EffectGlow         = "glow"
	EffectTint         = "tint"
	EffectVignette     = "vignette"
	EffectNoise        = "noise"
	EffectChromatic    = "chromaticAberration"
	EffectColorBalance = "colorBalance"
)

// EffectInstance is one effect in a layer's stack. Every parameter is an
// animatable property; renderers interpret the resolved values. Disabled
// instances stay in the project but contribute nothing to a frame.
type EffectInstance struct {
	ID      string                     `json:"id,omitempty"`
	Type    string                     `json:"type"`
	Enabled bool                       `json:"enabled"`
	Params  map[string]*ScalarProperty `json:"params,omitempty"`
	Colors  map[string]*ColorProperty  `json:"colors,omitempty"`
}

// UnmarshalJSON decodes an effect with Enabled defaulting to true, so hand
// written documents need not spell it out.
func (e *EffectInstance) UnmarshalJSON(data []byte) error {
	type alias EffectInstance
	tmp := alias{Enabled: true}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*e = EffectInstance(tmp)
	return nil
}

func (e *EffectInstance) keyframeTotal() int {
	n := 0
	for _, p := range e.Params {
		if p != nil {
			n += len(p.Keys)
		}
	}
	for _, c := range e.Colors {
		if c != nil {
			n += len(c.Keys)
		}
	}
	return n
}

// audioParam names the parameter an audio blur or glow delta lands on for a
// given effect type. Empty means the type takes no audio deltas.
func audioParam(effectType string) string {
	switch effectType {
	case EffectBlur:
		return "radius"
	case EffectGlow:
		return "intensity"
	default:
		return ""
	}
}

// resolveEffects evaluates a layer's enabled effects at a frame. Audio blur
// and glow deltas are added to the matching effect's primary parameter;
// deltas with no matching effect are dropped (the bag still reports them on
// the layer for renderers that synthesize effects).
func resolveEffects(effects []*EffectInstance, frame float64, mods AudioModifiers) []EvaluatedEffect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]EvaluatedEffect, 0, len(effects))
	for _, fx := range effects {
		if fx == nil || !fx.Enabled {
			continue
		}
		ev := EvaluatedEffect{Type: fx.Type, Enabled: true}
		if len(fx.Params) > 0 {
			ev.Params = make(map[string]float64, len(fx.Params))
			for name, p := range fx.Params {
				if p != nil {
					ev.Params[name] = p.ValueAt(frame)
				}
			}
		}
		if len(fx.Colors) > 0 {
			ev.Colors = make(map[string]Color, len(fx.Colors))
			for name, c := range fx.Colors {
				if c != nil {
					ev.Colors[name] = c.ValueAt(frame)
				}
			}
		}

		var delta float64
		switch fx.Type {
		case EffectBlur:
			delta = mods.Blur
		case EffectGlow:
			delta = mods.Glow
		}
		if delta != 0 {
			if ev.Params == nil {
				ev.Params = make(map[string]float64, 1)
			}
			ev.Params[audioParam(fx.Type)] += delta
		}
		out = append(out, ev)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
