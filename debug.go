package lattice

import (
	"fmt"
	"strings"
)

// CacheStats counts frame cache traffic since the cache was built. Hits and
// Misses tally Get outcomes; Evicted counts entries dropped at capacity;
// Expired counts entries dropped past their TTL. Explicit invalidation is
// host-driven and not counted.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Evicted uint64
	Expired uint64
}

// HitRate returns hits as a fraction of all lookups, zero before any ran.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache's traffic counters.
func (c *FrameCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Summary renders a frame state as indented diagnostic text: a header line,
// one line per layer, then camera and audio lines when present. Meant for
// debug logs and the CLI's text output; renderers consume the structured
// fields instead.
func (st FrameState) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %d | comp %s | %dx%d, %d frames @ %g fps\n",
		st.Frame, st.CompositionID,
		st.Settings.Width, st.Settings.Height, st.Settings.FrameCount, st.Settings.FrameRate)

	for _, l := range st.Layers {
		vis := "hidden"
		if l.Visible {
			vis = "visible"
		}
		fmt.Fprintf(&b, "  %-12s %-10s %-7s opacity %5.1f pos (%.1f, %.1f, %.1f)",
			l.ID, l.Type, vis, l.Opacity,
			l.Transform.Position.X, l.Transform.Position.Y, l.Transform.Position.Z)
		if l.Transform.Rotation != 0 {
			fmt.Fprintf(&b, " rot %.1f", l.Transform.Rotation)
		}
		if snap, ok := st.Particles[l.ID]; ok {
			fmt.Fprintf(&b, " particles %d", snap.AliveCount())
		}
		b.WriteByte('\n')
	}

	if cam := st.Camera; cam != nil {
		fmt.Fprintf(&b, "  camera %s pos (%.1f, %.1f, %.1f) target (%.1f, %.1f, %.1f) fov %.1f",
			cam.LayerID,
			cam.Position.X, cam.Position.Y, cam.Position.Z,
			cam.Target.X, cam.Target.Y, cam.Target.Z,
			cam.FOV)
		if cam.DepthOfField.Enabled {
			fmt.Fprintf(&b, " focus %.0f", cam.DepthOfField.FocusDistance)
		}
		b.WriteByte('\n')
	}

	if st.Audio.HasAudio {
		fmt.Fprintf(&b, "  audio amp %.2f rms %.2f bass %.2f mid %.2f high %.2f",
			st.Audio.Amplitude, st.Audio.RMS, st.Audio.Bass, st.Audio.Mid, st.Audio.High)
		if st.Audio.Beat {
			b.WriteString(" beat")
		}
		if st.Audio.Onset {
			b.WriteString(" onset")
		}
		if st.Audio.BPM > 0 {
			fmt.Fprintf(&b, " bpm %.1f", st.Audio.BPM)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
