package lattice

import (
	"strings"
	"testing"
)

func TestLoadScrubScriptErrors(t *testing.T) {
	if _, err := LoadScrubScript([]byte("{not json")); err == nil {
		t.Error("malformed json accepted")
	} else if !strings.Contains(err.Error(), "parse scrub script") {
		t.Errorf("error %q lacks context", err)
	}
	if _, err := LoadScrubScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("empty script accepted")
	}
}

func TestScrubEvaluateAndSweep(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{
		"steps": [
			{"action": "evaluate", "frame": 5},
			{"action": "sweep", "from": 0, "to": 4},
			{"action": "sweep", "from": 4, "to": 0}
		]
	}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	p, comp := engineProject()
	comp.Layers = []*Layer{solidLayer("hero", 0, 80)}
	res := runner.Run(NewEngine(EngineOptions{}), p, EvalOptions{})

	// One evaluate plus two inclusive five-frame sweeps.
	if res.Evaluations != 11 {
		t.Errorf("%d evaluations, want 11", res.Evaluations)
	}
	if res.Last == nil || res.Last.Frame != 0 {
		t.Errorf("last state %+v, want frame 0", res.Last)
	}
}

func TestScrubRepeatDetectsNoDrift(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{
		"steps": [
			{"action": "repeat", "frame": 12, "count": 4},
			{"action": "repeat", "frame": 12, "count": 4, "direct": true}
		]
	}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	res := runner.Run(NewEngine(EngineOptions{}), richProject(), richOptions())
	if res.Mismatches != 0 {
		t.Errorf("%d mismatches on a stable project", res.Mismatches)
	}
	if res.Evaluations != 8 {
		t.Errorf("%d evaluations, want 8", res.Evaluations)
	}
}

func TestScrubRepeatDefaultsToTwo(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{"steps": [{"action": "repeat", "frame": 3}]}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	p, comp := engineProject()
	comp.Layers = []*Layer{solidLayer("hero", 0, 80)}
	res := runner.Run(NewEngine(EngineOptions{}), p, EvalOptions{})
	if res.Evaluations != 2 {
		t.Errorf("%d evaluations, want 2", res.Evaluations)
	}
}

func TestScrubInvalidateSteps(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{
		"steps": [
			{"action": "sweep", "from": 0, "to": 3},
			{"action": "invalidate", "frame": 1}
		]
	}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	p, comp := engineProject()
	comp.Layers = []*Layer{solidLayer("hero", 0, 80)}
	e := NewEngine(EngineOptions{})
	runner.Run(e, p, EvalOptions{})
	if got := e.Cache().Len(); got != 3 {
		t.Errorf("cache holds %d frames, want 3", got)
	}

	clearAll, err := LoadScrubScript([]byte(`{"steps": [{"action": "invalidateAll"}]}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	clearAll.Run(e, p, EvalOptions{})
	if got := e.Cache().Len(); got != 0 {
		t.Errorf("cache holds %d frames after invalidateAll", got)
	}
}

func TestScrubTouchBumpsRevision(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{"steps": [{"action": "touch"}, {"action": "evaluate", "frame": 0}]}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	p, comp := engineProject()
	comp.Layers = []*Layer{solidLayer("hero", 0, 80)}
	before := p.Revision
	runner.Run(NewEngine(EngineOptions{}), p, EvalOptions{})
	if p.Revision != before+1 {
		t.Errorf("revision %d, want %d", p.Revision, before+1)
	}
}

func TestScrubCompositionOverride(t *testing.T) {
	runner, err := LoadScrubScript([]byte(`{
		"steps": [{"action": "evaluate", "frame": 2, "composition": "alt"}]
	}`))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	p, _ := engineProject()
	alt := &Composition{ID: "alt", Width: 640, Height: 480, FrameCount: 81, FrameRate: 16}
	alt.Layers = []*Layer{solidLayer("only", 0, 80)}
	p.Compositions[alt.ID] = alt

	res := runner.Run(NewEngine(EngineOptions{}), p, EvalOptions{})
	if res.Last == nil || res.Last.CompositionID != "alt" {
		t.Errorf("last state %+v, want composition alt", res.Last)
	}
}
