// Command snapcursor loads a scene program and snaps a 3D cursor to it from
// the command line, a terminal viewport, or an HTTP service.
//
// Usage:
//
//	snapcursor [-config file] resolve -scene file.scn -x px -y px [-explain]
//	snapcursor [-config file] render  -scene file.scn -o out.png [-x px -y px]
//	snapcursor [-config file] view    -scene file.scn
//	snapcursor [-config file] serve   -scene file.scn [-addr :8080]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/config"
	"github.com/chazu/snapcursor/pkg/preview"
	"github.com/chazu/snapcursor/pkg/server"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `usage: snapcursor [-config file] <command> [flags]

commands:
  resolve   print the snap result for one pointer position
  render    write a PNG preview of the scene
  view      open the terminal viewport
  serve     serve snapping over HTTP and websocket
`

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapcursor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	cfgPath := fs.String("config", "snapcursor.toml", "config file (missing is fine)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	setupLogging(cfg, stderr)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	app := NewApp(cfg)
	switch cmd {
	case "resolve":
		err = runResolve(app, rest, stdout, stderr)
	case "render":
		err = runRender(app, rest, stderr)
	case "view":
		err = runView(app, rest, stderr)
	case "serve":
		err = runServe(app, cfg, rest, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// setupLogging installs a text handler at the configured level for the
// process and the snap packages.
func setupLogging(cfg config.Config, w io.Writer) {
	lvl, _ := cfg.Log.SlogLevel()
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(l)
	snap.SetLogger(l)
	log.SetOutput(w)
}

// sceneFlags are shared by every subcommand.
type sceneFlags struct {
	scene string
}

func (sf *sceneFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.scene, "scene", "", "scene program (.scn)")
}

func (sf *sceneFlags) load(app *App) (*Workspace, error) {
	if sf.scene == "" {
		return nil, errors.New("-scene is required")
	}
	return app.LoadFile(sf.scene)
}

func runResolve(app *App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var sf sceneFlags
	sf.register(fs)
	x := fs.Float64("x", 0, "pointer x in pixels")
	y := fs.Float64("y", 0, "pointer y in pixels")
	explain := fs.Bool("explain", false, "report every source's answer")
	free := fs.Bool("free", false, "skip snapping, place in free space")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ws, err := sf.load(app)
	if err != nil {
		return err
	}

	res := app.Resolver(ws)
	q := v2.Vec{X: *x, Y: *y}
	var c snap.Candidate
	if *free {
		c = res.FreeSpace(q)
	} else {
		c = res.Resolve(q)
	}

	out := struct {
		server.CandidateJSON
		Attempts []server.AttemptJSON `json:"attempts,omitempty"`
	}{CandidateJSON: server.EncodeCandidate(c)}
	if *explain {
		for _, a := range res.Explain(q) {
			aj := server.AttemptJSON{Source: a.Source}
			if a.OK {
				cj := server.EncodeCandidate(a.Candidate)
				aj.Candidate = &cj
			}
			out.Attempts = append(out.Attempts, aj)
		}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runRender(app *App, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var sf sceneFlags
	sf.register(fs)
	out := fs.String("o", "preview.png", "output PNG")
	x := fs.Float64("x", -1, "pointer x; negative draws no snap result")
	y := fs.Float64("y", -1, "pointer y")
	hidden := fs.Bool("hidden", false, "draw hidden objects dashed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ws, err := sf.load(app)
	if err != nil {
		return err
	}

	r := preview.New(ws.Camera.Width, ws.Camera.Height)
	r.Style.ShowHidden = *hidden
	var frame preview.Frame
	if *x >= 0 && *y >= 0 {
		ptr := v2.Vec{X: *x, Y: *y}
		c := app.Resolver(ws).Resolve(ptr)
		frame.Pointer, frame.Candidate, frame.Cursor = &ptr, &c, &c.Point
	}
	if err := r.SavePNG(*out, ws.Scene, ws.Camera, frame); err != nil {
		return err
	}
	log.Printf("wrote %s", *out)
	return nil
}

func runView(app *App, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var sf sceneFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ws, err := sf.load(app)
	if err != nil {
		return err
	}
	// The terminal owns stderr while the program runs.
	snap.SetLogger(nil)

	var target v3.Vec
	if g := ws.Graph; g != nil && g.Camera != nil {
		t := g.Camera.Target
		target = v3.Vec{X: t.X, Y: t.Y, Z: t.Z}
	}
	return tui.Run(tui.Options{
		Title:    sf.scene,
		Scene:    ws.Scene,
		Camera:   ws.Camera,
		Target:   target,
		Settings: app.cfg.SnapSettings(),
	})
}

func runServe(app *App, cfg config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var sf sceneFlags
	sf.register(fs)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ws, err := sf.load(app)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv := server.New(server.Options{
		Addr:     *addr,
		Scene:    ws.Scene,
		Camera:   ws.Camera,
		Settings: cfg.SnapSettings(),
		Logger:   slog.Default(),
	})
	return srv.ListenAndServe(ctx)
}
