package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weyl-ai/lattice"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	FrameRate float64
	Output    string
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <audio.wav>",
		Short: "Analyze a WAV file into per-frame features",
		Long: `Analyze a WAV file at a composition frame rate and print the
per-frame feature arrays (amplitude, RMS, bands, onsets, tempo).

Example:
  lattice scan track.wav
  lattice scan --rate 24 --out analysis.json track.wav`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.FrameRate, "rate", lattice.DefaultFrameRate, "composition frame rate")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write analysis JSON to file instead of stdout")

	return cmd
}

func runScan(opts *ScanOptions, path string, cmd *cobra.Command) error {
	analysis, err := lattice.AnalyzeWAV(path, opts.FrameRate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "text" && opts.Output == "" {
		onsets := 0
		for _, o := range analysis.Onset {
			if o {
				onsets++
			}
		}
		fmt.Fprintf(out, "Frames: %d @ %g fps\n", analysis.FrameCount(), analysis.FrameRate)
		fmt.Fprintf(out, "Tempo: %.1f BPM\n", analysis.BPM)
		fmt.Fprintf(out, "Onsets: %d\n", onsets)
		return nil
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	if opts.Output != "" {
		return os.WriteFile(opts.Output, data, 0o644)
	}
	out.Write(data)
	out.Write([]byte("\n"))
	return nil
}
