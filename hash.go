package lattice

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

type hasher struct {
	h   hash.Hash64
	buf [8]byte
}

func newHasher() *hasher {
	return &hasher{h: fnv.New64a()}
}

func (w *hasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:], v)
	w.h.Write(w.buf[:])
}

func (w *hasher) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *hasher) str(s string) {
	w.u64(uint64(len(s)))
	w.h.Write([]byte(s))
}

func (w *hasher) flag(b bool) {
	if b {
		w.u64(1)
	} else {
		w.u64(0)
	}
}

func (w *hasher) sum() uint64 {
	return w.h.Sum64()
}

// StructuralHash fingerprints everything about a composition that makes a
// cached frame stale: output settings, the layer list, each layer's identity
// and timing, and every keyframe count. The project revision counter is
// folded in so value-only edits (which keep structure intact) still miss
// once the host bumps it via Touch.
func StructuralHash(p *Project, comp *Composition) uint64 {
	w := newHasher()
	if p != nil {
		w.u64(p.Revision)
	}
	if comp == nil {
		return w.sum()
	}
	w.str(comp.ID)
	w.u64(uint64(comp.Width))
	w.u64(uint64(comp.Height))
	w.u64(uint64(comp.FrameCount))
	w.f64(comp.FrameRate)
	w.u64(uint64(len(comp.Layers)))
	for _, l := range comp.Layers {
		w.str(l.ID)
		w.str(string(l.Type))
		w.flag(l.Visible)
		w.u64(uint64(int64(l.StartFrame)))
		w.u64(uint64(int64(l.EndFrame)))
		w.str(l.ParentID)
		w.u64(uint64(l.KeyframeTotal()))
		w.u64(uint64(len(l.Effects)))
	}
	return w.sum()
}

// evalHash extends a structural hash with the per-evaluation inputs that
// live outside the project: camera selection, audio analysis identity, and
// the mapping list. A changed input invalidates exactly like a structural
// edit would.
func evalHash(structural uint64, opt EvalOptions) uint64 {
	w := newHasher()
	w.u64(structural)
	w.str(opt.ActiveCameraID)
	if opt.Audio != nil {
		w.u64(uint64(opt.Audio.FrameCount()))
		w.f64(opt.Audio.BPM)
	}
	w.u64(uint64(len(opt.Mappings)))
	for _, m := range opt.Mappings {
		w.str(m.LayerID)
		w.str(string(m.Target))
		w.str(string(m.Feature))
		w.f64(m.Scale)
		w.str(string(m.Curve))
	}
	return w.sum()
}
