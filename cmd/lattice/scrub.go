package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weyl-ai/lattice"
)

// ScrubOptions holds flags for the scrub command.
type ScrubOptions struct {
	*RootOptions
	Script      string
	Composition string
	AudioFile   string
}

// NewScrubCommand creates the scrub command.
func NewScrubCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScrubOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scrub <project.json>",
		Short: "Replay a scripted evaluation sequence",
		Long: `Replay a JSON scrub script against a project: evaluations, sweeps,
cache invalidations, and repeat steps that cross-check determinism.

Exits non-zero when any repeat step observes diverging frame states.

Example:
  lattice scrub --script scrub.json ./project.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrub(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Script, "script", "", "scrub script JSON file (required)")
	cmd.Flags().StringVar(&opts.Composition, "comp", "", "composition id (default: active)")
	cmd.Flags().StringVar(&opts.AudioFile, "audio", "", "WAV file for audio-reactive mappings")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runScrub(opts *ScrubOptions, path string, cmd *cobra.Command) error {
	p, err := lattice.ReadProject(path)
	if err != nil {
		return err
	}
	scriptData, err := os.ReadFile(opts.Script)
	if err != nil {
		return err
	}
	runner, err := lattice.LoadScrubScript(scriptData)
	if err != nil {
		return err
	}

	evalOpt := lattice.EvalOptions{CompositionID: opts.Composition}
	if opts.AudioFile != "" {
		comp := p.ActiveComposition()
		if opts.Composition != "" {
			comp = p.Composition(opts.Composition)
		}
		rate := lattice.DefaultFrameRate
		if comp != nil {
			rate = comp.FrameRate
		}
		analysis, err := lattice.AnalyzeWAV(opts.AudioFile, rate)
		if err != nil {
			return err
		}
		evalOpt.Audio = analysis
	}

	engine := lattice.NewEngine(lattice.EngineOptions{})
	result := runner.Run(engine, p, evalOpt)
	stats := engine.Cache().Stats()
	slog.Info("scrub complete",
		"evaluations", result.Evaluations,
		"mismatches", result.Mismatches,
		"cacheHits", stats.Hits,
		"cacheMisses", stats.Misses)

	fmt.Fprintf(cmd.OutOrStdout(), "Evaluations: %d\nMismatches: %d\n",
		result.Evaluations, result.Mismatches)
	fmt.Fprintf(cmd.OutOrStdout(), "Cache: %d hits, %d misses (%.0f%% hit rate), %d evicted, %d expired\n",
		stats.Hits, stats.Misses, stats.HitRate()*100, stats.Evicted, stats.Expired)
	if result.Mismatches > 0 {
		return fmt.Errorf("scrub: %d repeat steps diverged", result.Mismatches)
	}
	return nil
}
