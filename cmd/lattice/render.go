package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weyl-ai/lattice"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Plan    string
	Start   int
	End     int
	Step    int
	Workers int
	Output  string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <project.json>",
		Short: "Evaluate a frame range",
		Long: `Evaluate a range of frames and write one JSON frame state per line.

A render plan supplies the range, worker count, and audio wiring; without
one the --start/--end flags select the range directly.

Example:
  lattice render --plan plan.yaml --out frames.jsonl ./project.json
  lattice render --start 0 --end 80 ./project.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "", "render plan YAML file")
	cmd.Flags().IntVar(&opts.Start, "start", 0, "first frame")
	cmd.Flags().IntVar(&opts.End, "end", -1, "last frame (default: composition end)")
	cmd.Flags().IntVar(&opts.Step, "step", 1, "frame step")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel workers (0 = auto)")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write frames to file instead of stdout")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	p, err := lattice.ReadProject(path)
	if err != nil {
		return err
	}

	var plan *lattice.RenderPlan
	if opts.Plan != "" {
		plan, err = lattice.ReadPlan(opts.Plan)
		if err != nil {
			return err
		}
	} else {
		end := opts.End
		if end < 0 {
			comp := p.ActiveComposition()
			if comp == nil {
				return fmt.Errorf("render: project has no active composition")
			}
			end = comp.FrameCount - 1
		}
		plan = &lattice.RenderPlan{
			Frames:  lattice.FrameRange{Start: opts.Start, End: end, Step: opts.Step},
			Workers: opts.Workers,
		}
	}

	engine := lattice.NewEngine(lattice.EngineOptions{})
	start := time.Now()
	states, err := lattice.RunPlan(cmd.Context(), engine, p, plan)
	if err != nil {
		return err
	}
	slog.Info("range evaluated",
		"frames", len(states),
		"workers", plan.Workers,
		"elapsed", time.Since(start).Round(time.Millisecond))

	out := cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	for i := range states {
		if err := enc.Encode(&states[i]); err != nil {
			return err
		}
	}
	return nil
}
