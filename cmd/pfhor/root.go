package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taigrr/pfhor/internal/config"
	"github.com/taigrr/pfhor/internal/logging"
	"github.com/taigrr/pfhor/pkg/assets"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/models"
	"github.com/taigrr/pfhor/pkg/render"
	"github.com/taigrr/pfhor/pkg/world"
)

// app is the state shared by all commands once flags are parsed.
type app struct {
	cfg    config.Config
	log    *logrus.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pfhor",
		Short:         "Portal renderer for Marathon-style levels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(
		newViewCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newInspectCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load("", cmd.Flags())
	if err != nil {
		return err
	}
	l, closer, err := logging.New(logging.Options{
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, l, closer

	render.SetLogger(l)
	world.SetLogger(l)
	assets.SetLogger(l)
	models.SetLogger(l)

	l.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"backend": cfg.Backend,
		"size":    fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
	}).Info("starting")
	return nil
}

// loadMap reads the map named by args, or the demo level without one.
func loadMap(args []string) (*mapdata.Map, error) {
	if len(args) == 0 {
		return mapdata.Demo(), nil
	}
	m, err := mapdata.LoadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	return m, nil
}

func (a *app) newWorld(m *mapdata.Map) *world.World {
	return world.New(m, rand.New(rand.NewSource(a.cfg.Seed)))
}

func (a *app) newPlayer(w *world.World) world.Player {
	return w.NewPlayer(radians(a.cfg.HFov), radians(a.cfg.VFov))
}

func (a *app) newProvider() (*assets.Provider, error) {
	var loader assets.Loader = assets.Procedural{}
	if a.cfg.TextureDir != "" {
		loader = assets.DirLoader{Dir: a.cfg.TextureDir, Fallback: assets.Procedural{}}
	}
	return assets.NewProvider(loader, assets.Options{CacheSize: a.cfg.CacheSize})
}

func (a *app) renderOptions() render.Options {
	return render.Options{
		FlushThreshold: a.cfg.FlushThreshold,
		MaxPortalDepth: a.cfg.MaxPortalDepth,
	}
}

func (a *app) minerLight() render.MinerLight {
	return render.MinerLight{Intensity: a.cfg.MinerLight, Distance: a.cfg.MinerLightDistance}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
