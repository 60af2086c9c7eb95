package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weyl-ai/lattice"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Frame       int
	Composition string
	Camera      string
	AudioFile   string
	Output      string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <project.json>",
		Short: "Evaluate a single frame",
		Long: `Evaluate one frame of a project and print the frame state.

The default text format is a readable summary; --format json (or --out)
emits the full structured state.

Example:
  lattice eval --frame 12 ./project.json
  lattice eval --frame 12 --audio track.wav --out frame12.json ./project.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Frame, "frame", 0, "frame to evaluate")
	cmd.Flags().StringVar(&opts.Composition, "comp", "", "composition id (default: active)")
	cmd.Flags().StringVar(&opts.Camera, "camera", "", "camera layer id (default: first visible)")
	cmd.Flags().StringVar(&opts.AudioFile, "audio", "", "WAV file for audio-reactive mappings")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write frame state to file instead of stdout")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	p, err := lattice.ReadProject(path)
	if err != nil {
		return err
	}

	evalOpt := lattice.EvalOptions{
		CompositionID:  opts.Composition,
		ActiveCameraID: opts.Camera,
	}
	if opts.AudioFile != "" {
		comp := p.ActiveComposition()
		if opts.Composition != "" {
			comp = p.Composition(opts.Composition)
		}
		rate := lattice.DefaultFrameRate
		if comp != nil {
			rate = comp.FrameRate
		}
		slog.Debug("analyzing audio", "file", opts.AudioFile, "rate", rate)
		analysis, err := lattice.AnalyzeWAV(opts.AudioFile, rate)
		if err != nil {
			return err
		}
		evalOpt.Audio = analysis
	}

	engine := lattice.NewEngine(lattice.EngineOptions{})
	state := engine.Evaluate(p, opts.Frame, evalOpt)
	slog.Debug("frame evaluated", "frame", opts.Frame, "layers", len(state.Layers))

	if opts.Output == "" && opts.Format == "text" {
		fmt.Fprint(cmd.OutOrStdout(), state.Summary())
		return nil
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if opts.Output != "" {
		return os.WriteFile(opts.Output, data, 0o644)
	}
	cmd.OutOrStdout().Write(data)
	cmd.OutOrStdout().Write([]byte("\n"))
	return nil
}
