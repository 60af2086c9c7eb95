package lattice

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// scrubStep represents a single action in a scrub script.
type scrubStep struct {
	Action      string `json:"action"`
	Frame       int    `json:"frame,omitempty"`
	From        int    `json:"from,omitempty"`
	To          int    `json:"to,omitempty"`
	Count       int    `json:"count,omitempty"`
	Composition string `json:"composition,omitempty"`
	Direct      bool   `json:"direct,omitempty"` // bypass the cache for this step
}

// scrubScript is the top-level JSON structure for a scrub script.
type scrubScript struct {
	Steps []scrubStep `json:"steps"`
}

// ScrubRunner replays scripted evaluation sequences against an engine the
// way an editor timeline would: single evaluations, sweeps across ranges,
// cache invalidations, and repeated evaluations that cross-check results
// for drift.
type ScrubRunner struct {
	steps []scrubStep
}

// LoadScrubScript parses a JSON scrub script.
func LoadScrubScript(jsonData []byte) (*ScrubRunner, error) {
	var script scrubScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scrub script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scrub script: no steps")
	}
	return &ScrubRunner{steps: script.Steps}, nil
}

// ScrubResult summarizes one script run.
type ScrubResult struct {
	Evaluations int
	Mismatches  int // repeat steps whose states diverged
	Last        *FrameState
}

// Run executes the script in order. Repeat steps evaluate the same frame
// several times and count a mismatch whenever a later state differs from the
// first; with a correct engine and an untouched project that count stays
// zero whether or not the cache participates.
func (r *ScrubRunner) Run(e *Engine, p *Project, opt EvalOptions) ScrubResult {
	var res ScrubResult
	for _, st := range r.steps {
		stepOpt := opt
		if st.Composition != "" {
			stepOpt.CompositionID = st.Composition
		}
		if st.Direct {
			stepOpt.DisableCache = true
		}

		switch st.Action {
		case "evaluate":
			s := e.Evaluate(p, st.Frame, stepOpt)
			res.Evaluations++
			res.Last = &s

		case "sweep":
			dir := 1
			if st.To < st.From {
				dir = -1
			}
			for f := st.From; ; f += dir {
				s := e.Evaluate(p, f, stepOpt)
				res.Evaluations++
				res.Last = &s
				if f == st.To {
					break
				}
			}

		case "repeat":
			count := st.Count
			if count < 2 {
				count = 2
			}
			first := e.Evaluate(p, st.Frame, stepOpt)
			res.Evaluations++
			for i := 1; i < count; i++ {
				again := e.Evaluate(p, st.Frame, stepOpt)
				res.Evaluations++
				if !reflect.DeepEqual(first, again) {
					res.Mismatches++
				}
			}
			res.Last = &first

		case "invalidate":
			e.Cache().Invalidate(scrubCompID(p, stepOpt), st.Frame)

		case "invalidateAll":
			e.Cache().InvalidateComposition(scrubCompID(p, stepOpt))

		case "touch":
			p.Touch()
		}
	}
	return res
}

func scrubCompID(p *Project, opt EvalOptions) string {
	if opt.CompositionID != "" {
		return opt.CompositionID
	}
	return p.ActiveCompositionID
}
