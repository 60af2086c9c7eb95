package lattice

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// frameStateFootprint is the rough per-frame memory estimate used when
// sizing the worker pool against available memory.
const frameStateFootprint = 1 << 20

// RenderPlan is the YAML description of a batch evaluation: which
// composition, which frames, how parallel, and what audio drives it.
type RenderPlan struct {
	Version     string     `yaml:"version,omitempty"`
	Composition string     `yaml:"composition,omitempty"`
	Frames      FrameRange `yaml:"frames"`
	Workers     int        `yaml:"workers,omitempty"` // 0 picks automatically
	Camera      string     `yaml:"camera,omitempty"`
	Audio       *PlanAudio `yaml:"audio,omitempty"`
}

// FrameRange selects frames [Start, End] inclusive, Step apart. Step 0
// means every frame.
type FrameRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
	Step  int `yaml:"step,omitempty"`
}

// PlanAudio points a plan at a WAV file and the mappings it drives.
type PlanAudio struct {
	File     string         `yaml:"file"`
	Mappings []AudioMapping `yaml:"mappings,omitempty"`
}

// ReadPlan loads a render plan from a YAML file.
func ReadPlan(path string) (*RenderPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan RenderPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return &plan, nil
}

// WritePlan saves a render plan as YAML.
func WritePlan(path string, plan *RenderPlan) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// RunPlan executes a plan against a project: analyzes the plan's audio (if
// any) at the target composition's frame rate, then evaluates the frame
// range. States come back in ascending frame order.
func RunPlan(ctx context.Context, e *Engine, p *Project, plan *RenderPlan) ([]FrameState, error) {
	opt := EvalOptions{
		CompositionID:  plan.Composition,
		ActiveCameraID: plan.Camera,
	}

	if plan.Audio != nil && plan.Audio.File != "" {
		comp := p.ActiveComposition()
		if plan.Composition != "" {
			comp = p.Composition(plan.Composition)
		}
		rate := DefaultFrameRate
		if comp != nil {
			rate = comp.FrameRate
		}
		analysis, err := AnalyzeWAV(plan.Audio.File, rate)
		if err != nil {
			return nil, err
		}
		opt.Audio = analysis
		opt.Mappings = plan.Audio.Mappings
	}

	return EvaluateRange(ctx, e, p, plan.Frames, plan.Workers, opt)
}

// EvaluateRange evaluates a frame range in parallel. Every frame is an
// independent evaluation, so order of execution cannot affect results; the
// returned slice is in ascending frame order regardless of which worker
// finished first. A canceled context abandons remaining frames and returns
// the context's error.
func EvaluateRange(ctx context.Context, e *Engine, p *Project, r FrameRange, workers int, opt EvalOptions) ([]FrameState, error) {
	step := r.Step
	if step <= 0 {
		step = 1
	}
	if r.End < r.Start {
		return nil, fmt.Errorf("evaluate range: end %d before start %d", r.End, r.Start)
	}

	frames := make([]int, 0, (r.End-r.Start)/step+1)
	for f := r.Start; f <= r.End; f += step {
		frames = append(frames, f)
	}

	if workers <= 0 {
		workers = autoWorkers()
	}

	results := make([]FrameState, len(frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, frame := range frames {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = e.Evaluate(p, frame, opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// autoWorkers sizes the pool from CPU count, backing off when available
// memory could not hold that many in-flight frames.
func autoWorkers() int {
	n := runtime.NumCPU()
	vm, err := mem.VirtualMemory()
	if err == nil {
		if byMem := int(vm.Available / frameStateFootprint); byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
