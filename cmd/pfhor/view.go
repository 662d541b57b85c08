package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taigrr/pfhor/internal/config"
	"github.com/taigrr/pfhor/pkg/assets"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
	"github.com/taigrr/pfhor/pkg/world"
)

// Viewer speeds, per second.
const (
	walkSpeed = 2 * mapdata.WorldUnit
	turnSpeed = 2.5
	lookSpeed = 1.0
)

var errTerminalBackend = errors.New("only the software backend draws to the terminal")

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [map]",
		Short: "Walk through a level in the terminal",
		Long: `Walk through a level in the terminal. Without a map the built-in demo
level is shown.

Controls:
  W/S, up/down     walk
  A/D              strafe
  left/right, Q/E  turn
  R/F              look up and down
  space            level the view
  M                toggle the automap
  P                paint the surfaces connected to the one in the centre
  L                flip the light switch (tag 0)
  0-9              toggle the lights with that tag
  ?                toggle the status line
  Esc              quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Backend != config.BackendSoftware {
				return fmt.Errorf("view: %w", errTerminalBackend)
			}
			m, err := loadMap(args)
			if err != nil {
				return err
			}
			return a.view(cmd.Context(), m)
		},
	}
}

// viewer is the interactive state of the view command.
type viewer struct {
	world    *world.World
	player   world.Player
	renderer *render.Renderer
	backend  *render.SoftwareBackend
	automap  *render.Automap
	fb       *render.Framebuffer
	motion   *Motion
	hud      *HUD

	showMap bool
	paint   []mapdata.ShapeDescriptor
	next    int
	stats   render.Stats
}

func (a *app) view(ctx context.Context, m *mapdata.Map) error {
	provider, err := a.newProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	w := a.newWorld(m)
	fb := render.NewFramebuffer(width, height*2)
	backend := render.NewSoftwareBackend(fb, provider)
	backend.Miner = a.minerLight()
	v := &viewer{
		world:    w,
		player:   a.newPlayer(w),
		renderer: render.NewRenderer(w, backend, a.renderOptions()),
		backend:  backend,
		automap:  render.NewAutomap(fb),
		fb:       fb,
		motion:   NewMotion(a.cfg.FPS),
		hud:      NewHUD(m.Name, time.Now()),
		paint:    assets.Descriptors(m),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Events are applied between frames so the loop owns all state.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			a.log.WithError(err).Warn("terminal shutdown")
		}
	}

	targetDuration := time.Second / time.Duration(a.cfg.FPS)
	lastFrame := time.Now()
	var tickAcc float64
	frames := 0

	for {
		select {
		case <-ctx.Done():
			cleanup()
			a.log.WithFields(logrus.Fields{"frames": frames, "ticks": w.Ticks()}).Info("viewer stopped")
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					fb.Resize(width, height*2)
				case uv.KeyPressEvent:
					if v.handleKey(ev, time.Now()) {
						cancel()
					}
				case uv.KeyReleaseEvent:
					v.handleRelease(ev)
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		tickAcc += dt * mapdata.TicksPerSecond
		if n := int(tickAcc); n > 0 {
			w.AdvanceTicks(n)
			tickAcc -= float64(n)
		}
		v.step(dt)

		if err := v.draw(); err != nil {
			cleanup()
			return fmt.Errorf("render: %w", err)
		}
		line := v.hud.Line(now, v.player.Polygon, v.stats)
		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			fb.Draw(scr, area)
			v.hud.Draw(scr, area, line)
		}))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}
		v.hud.Tick(now)
		frames++

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// handleKey applies one key press and reports whether the viewer should
// quit.
func (v *viewer) handleKey(ev uv.KeyPressEvent, now time.Time) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return true
	case ev.MatchString("w", "up"):
		v.motion.Forward.Target = walkSpeed
	case ev.MatchString("s", "down"):
		v.motion.Forward.Target = -walkSpeed
	case ev.MatchString("a"):
		v.motion.Strafe.Target = -walkSpeed
	case ev.MatchString("d"):
		v.motion.Strafe.Target = walkSpeed
	case ev.MatchString("left", "q"):
		v.motion.Turn.Target = turnSpeed
	case ev.MatchString("right", "e"):
		v.motion.Turn.Target = -turnSpeed
	case ev.MatchString("r"):
		v.motion.Look.Target = lookSpeed
	case ev.MatchString("f"):
		v.motion.Look.Target = -lookSpeed
	case ev.MatchString("space"):
		v.player.Pitch = 0
		v.motion.Look.Reset()
	case ev.MatchString("m"):
		v.showMap = !v.showMap
	case ev.MatchString("p"):
		v.paintCentre(now)
	case ev.MatchString("?", "shift+/"):
		v.hud.Visible = !v.hud.Visible
	case ev.MatchString("l"):
		n := v.world.ToggleLight(0)
		v.hud.Say(now, "light switch: %d lights toggled", n)
	case ev.MatchString("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"):
		tag, _ := strconv.Atoi(ev.Text)
		n := v.world.ToggleLight(tag)
		v.hud.Say(now, "tag %d: %d lights toggled", tag, n)
	}
	return false
}

func (v *viewer) handleRelease(ev uv.KeyReleaseEvent) {
	switch {
	case ev.MatchString("w", "up", "s", "down"):
		v.motion.Forward.Target = 0
	case ev.MatchString("a", "d"):
		v.motion.Strafe.Target = 0
	case ev.MatchString("left", "right", "q", "e"):
		v.motion.Turn.Target = 0
	case ev.MatchString("r", "f"):
		v.motion.Look.Target = 0
	}
}

// step moves the player by one frame of motion.
func (v *viewer) step(dt float64) {
	forward := v.motion.Forward.Update(dt)
	strafe := v.motion.Strafe.Update(dt)
	turn := v.motion.Turn.Update(dt)
	look := v.motion.Look.Update(dt)
	// Key release events unreliable
	v.motion.Decay(0.9)

	v.player = v.player.Turn(turn, look)
	dir := v.player.Forward()
	right := dir.Perp().Scale(-1)
	delta := dir.Scale(forward).Add(right.Scale(strafe))
	if p, ok := v.world.StepPlayer(v.player, delta); ok {
		v.player = p
	}
}

func (v *viewer) draw() error {
	if v.showMap {
		v.automap.Draw(v.world.Map(), v.player)
		return nil
	}
	stats, err := v.renderer.RenderFrame(render.NewView(v.player, v.fb.Width, v.fb.Height))
	v.stats = stats
	return err
}

// paintCentre repaints the surface in the middle of the screen and every
// surface connected to it with the next texture of the level.
func (v *viewer) paintCentre(now time.Time) {
	if len(v.paint) == 0 {
		return
	}
	view := render.NewView(v.player, v.fb.Width, v.fb.Height)
	hit, ok := v.renderer.Pick(view, float64(v.fb.Width)/2, float64(v.fb.Height)/2)
	if !ok {
		v.hud.Say(now, "nothing to paint")
		return
	}
	tex := v.paint[v.next%len(v.paint)]
	v.next++
	v.world.ReplaceMap(v.world.PaintConnected(hit.Surface, tex, v.world.SameTexture(hit.Surface)))
	v.hud.Say(now, "painted %s with %s", hit.Surface, tex)
}
