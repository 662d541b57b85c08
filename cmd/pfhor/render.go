package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taigrr/pfhor/internal/config"
	"github.com/taigrr/pfhor/pkg/assets"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output string
		ticks  int
	)
	cmd := &cobra.Command{
		Use:   "render [map]",
		Short: "Render one frame from the start position",
		Long: `Render one frame from the level's start position. The software backend
writes a PNG; the gpu backend records its vertex batches and prints what
it would have submitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(args)
			if err != nil {
				return err
			}
			return a.renderFrame(cmd.Context(), cmd.OutOrStdout(), m, output, ticks)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "frame.png", "PNG written by the software backend")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "game ticks to run before rendering")
	return cmd
}

func (a *app) renderFrame(ctx context.Context, out io.Writer, m *mapdata.Map, output string, ticks int) error {
	provider, err := a.newProvider()
	if err != nil {
		return err
	}
	defer provider.Close()
	if err := provider.Preload(ctx, assets.Descriptors(m)); err != nil {
		return fmt.Errorf("preload textures: %w", err)
	}

	w := a.newWorld(m)
	w.AdvanceTicks(ticks)
	view := render.NewView(a.newPlayer(w), a.cfg.Width, a.cfg.Height)

	if a.cfg.Backend == config.BackendGPU {
		device := &render.RecordingDevice{}
		backend := render.NewGPUBackend(device, provider, render.DefaultMaxGPUVertices)
		stats, err := render.NewRenderer(w, backend, a.renderOptions()).RenderFrame(view)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return printReport(out, "gpu frame", append(frameRows(stats),
			row{"submissions", backend.Stats.Submits},
			row{"draw calls", backend.Stats.Calls},
			row{"vertices", backend.Stats.Vertices},
			row{"recorded calls", len(device.Calls())},
		))
	}

	fb := render.NewFramebuffer(a.cfg.Width, a.cfg.Height)
	backend := render.NewSoftwareBackend(fb, provider)
	backend.Miner = a.minerLight()
	stats, err := render.NewRenderer(w, backend, a.renderOptions()).RenderFrame(view)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := fb.SavePNG(output); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	a.log.WithFields(logrus.Fields{"file": output, "entries": stats.Entries}).Info("frame saved")
	return printReport(out, output, append(frameRows(stats),
		row{"pixels", backend.Stats.Pixels},
		row{"skipped", backend.Stats.Skipped},
	))
}

func frameRows(s render.Stats) []row {
	return []row{
		{"polygons", s.Polygons},
		{"portals", s.Portals},
		{"entries", s.Entries},
		{"flushes", s.Flushes},
	}
}
