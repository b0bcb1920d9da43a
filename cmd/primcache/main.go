// Command primcache builds border scenes through the primitive cache and
// inspects captured cache state.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/gogpu/primcache"
	"github.com/gogpu/primcache/capture"
	"github.com/gogpu/primcache/config"
	"github.com/gogpu/primcache/frame"
	"github.com/gogpu/primcache/gpucache"
)

var (
	version = "dev"
	commit  = "unknown"
)

// CLI is the top-level command structure for primcache.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Build   BuildCmd         `cmd:"" help:"Build frames from a scene file."`
	Inspect InspectCmd       `cmd:"" help:"Print a summary of a capture file."`
}

// BuildCmd builds a scene for a number of frames and reports per-frame
// cache activity.
type BuildCmd struct {
	Scene   string   `help:"Scene YAML file." required:"" type:"existingfile"`
	Frames  int      `help:"Number of frames to build." default:"1"`
	Config  []string `help:"Config files, later files override earlier ones." type:"path"`
	Capture string   `help:"Write a capture of the final state to this file." type:"path"`
	Plain   bool     `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// InspectCmd prints a capture file summary.
type InspectCmd struct {
	File    string `arg:"" help:"Capture file." type:"existingfile"`
	Verbose bool   `help:"List every template." short:"v"`
}

// Run executes the build command.
func (c *BuildCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(ctx, os.Stdout, os.Stderr)
}

func (c *BuildCmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	if c.Frames <= 0 {
		return fmt.Errorf("build: --frames must be positive, got %d", c.Frames)
	}
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	level, _ := cfg.SlogLevel()
	primcache.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer primcache.SetLogger(nil)

	sf, err := loadScene(c.Scene)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	store := frame.NewStore(cfg.FrameOptions())
	if err := sf.registerImages(store, filepath.Dir(c.Scene)); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	up, err := gpucache.NewUploader(memCreator{})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	defer up.Close()

	rep := report{}
	for range c.Frames {
		b := store.NewScene()
		if err := sf.populate(b); err != nil {
			return fmt.Errorf("build: %w", err)
		}
		scene, err := b.Finish(ctx)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		stats := store.BuildFrame(scene)
		if _, err := store.Upload(up); err != nil {
			return fmt.Errorf("build: uploading frame %d: %w", stats.Frame, err)
		}
		rep.frames = append(rep.frames, stats)
	}
	rep.gpu = store.GPUCache().Stats()
	rep.normal, rep.image = store.StoreStats()
	rep.fullUploads, rep.partialUploads = up.Uploads()

	rep.render(stdout, !c.Plain && isTTY(stdout))

	if c.Capture != "" {
		if err := writeCapture(c.Capture, store, cfg.Capture.Compress); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	}
	return nil
}

// Run executes the inspect command.
func (c *InspectCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *InspectCmd) run(w io.Writer) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	defer f.Close()
	snap, err := capture.Read(f)
	if err != nil {
		return fmt.Errorf("inspect: %s: %w", c.File, err)
	}
	printSnapshot(w, snap, c.Verbose)
	return nil
}

// loadConfig loads layered config files and applies environment overrides.
func loadConfig(paths []string) (*config.Config, error) {
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeCapture(path string, store *frame.Store, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return capture.Write(f, store.Snapshot(), compress)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("primcache"),
		kong.Description("Border primitive cache driver."),
		kong.Vars{"version": version + " " + commit},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
