package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/weyl-ai/lattice"
)

// InfoOptions holds flags for the info command.
type InfoOptions struct {
	*RootOptions
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InfoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "info <project.json>",
		Short: "Summarize a project file",
		Long: `Load a project file and print its compositions and layers.

Example:
  lattice info ./project.json
  lattice info --format json ./project.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(opts, args[0], cmd)
		},
	}

	return cmd
}

type compInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frameCount"`
	FrameRate  float64 `json:"frameRate"`
	Layers     int     `json:"layers"`
	Keyframes  int     `json:"keyframes"`
	Active     bool    `json:"active"`
}

type projectInfo struct {
	Name         string     `json:"name"`
	Revision     uint64     `json:"revision"`
	Compositions []compInfo `json:"compositions"`
}

func runInfo(opts *InfoOptions, path string, cmd *cobra.Command) error {
	p, err := lattice.ReadProject(path)
	if err != nil {
		return err
	}

	info := projectInfo{Name: p.Meta.Name, Revision: p.Revision}
	ids := make([]string, 0, len(p.Compositions))
	for id := range p.Compositions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := p.Compositions[id]
		ci := compInfo{
			ID:         c.ID,
			Name:       c.Name,
			Width:      c.Width,
			Height:     c.Height,
			FrameCount: c.FrameCount,
			FrameRate:  c.FrameRate,
			Layers:     len(c.Layers),
			Active:     id == p.ActiveCompositionID,
		}
		for _, l := range c.Layers {
			ci.Keyframes += l.KeyframeTotal()
		}
		info.Compositions = append(info.Compositions, ci)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Project: %s (revision %d)\n", info.Name, info.Revision)
	for _, ci := range info.Compositions {
		marker := " "
		if ci.Active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s (%s): %dx%d, %d frames @ %g fps, %d layers, %d keyframes\n",
			marker, ci.Name, ci.ID, ci.Width, ci.Height, ci.FrameCount, ci.FrameRate, ci.Layers, ci.Keyframes)
	}
	return nil
}
