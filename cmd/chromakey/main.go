// Command chromakey keys an image sequence against a background and writes
// the composited frames as numbered PNG files, optionally previewing them in
// the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/chromakey"
	"github.com/gogpu/chromakey/internal/config"
	"github.com/gogpu/chromakey/internal/sequence"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	switch {
	case errors.Is(err, flag.ErrHelp):
	case err != nil:
		fmt.Fprintf(os.Stderr, "chromakey: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command with the given arguments until the input ends,
// the frame limit is reached, the preview is closed or ctx is canceled.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, configPath, watch, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	chromakey.SetLogger(logger)
	defer chromakey.SetLogger(nil)

	src, err := sequence.Open(cfg.Input.Path, sequence.WithLoop(cfg.Input.Loop))
	if err != nil {
		return err
	}
	w, h := src.Size()

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	interp, err := cfg.Interpolation()
	if err != nil {
		return err
	}

	out := newOutput(cfg.Render.Frames)
	if cfg.Output.Dir != "" {
		fw, err := newFileWriter(cfg.Output.Dir, cfg.Output.Pattern, w, h)
		if err != nil {
			return err
		}
		defer fw.Close()
		out.add(fw)
	}
	var pv *preview
	if cfg.Output.Preview {
		pv, err = openPreview()
		if err != nil {
			return err
		}
		defer pv.Close()
		out.add(pv)
	}

	failed := make(chan error, 1)
	session, err := chromakey.NewSession(src,
		chromakey.WithFrameInterval(cfg.FrameInterval()),
		chromakey.WithWorkers(cfg.Render.Workers),
		chromakey.WithInterpolation(interp),
		chromakey.WithSettings(settings),
		chromakey.WithPresenter(out),
		chromakey.WithErrorHandler(func(err error) {
			select {
			case failed <- err:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := applyBackground(session, cfg); err != nil {
		return err
	}

	if watch && configPath != "" {
		loader := config.NewLoader(configPath)
		if _, err := loader.Load(); err != nil {
			logger.Warn("config not watchable, ignoring -watch", "err", err)
		} else {
			loader.OnChange(func(c *config.Config) { reconfigure(session, c, logger) })
			if err := loader.Watch(); err != nil {
				return err
			}
			defer loader.Close()

			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go logWatchErrors(wctx, loader, logger)
		}
	}

	logger.Info("keying",
		"input", cfg.Input.Path, "frames", src.Len(),
		"size", fmt.Sprintf("%dx%d", w, h), "session", session.ID())
	if err := session.Start(); err != nil {
		return err
	}

	var quit <-chan struct{}
	if pv != nil {
		quit = pv.Done()
	}

	select {
	case <-ctx.Done():
	case <-out.Done():
	case <-quit:
	case err := <-failed:
		if !errors.Is(err, io.EOF) {
			return err
		}
	}
	session.Stop()

	logger.Info("done", "frames", out.Count())
	return nil
}

// parseConfig merges the config file (if any) with the command-line flags.
// Flags given explicitly override file values.
func parseConfig(args []string, stderr io.Writer) (cfg *config.Config, path string, watch bool, err error) {
	fs := flag.NewFlagSet("chromakey", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "configuration file (.toml, .yaml, .json)")
		input      = fs.String("input", "", "input directory, image file or glob pattern")
		output     = fs.String("output", "", "directory for composited PNG frames")
		keyColor   = fs.String("color", config.DefaultKeyColor, "key color: #rrggbb, CSS name or r,g,b")
		threshold  = fs.Float64("threshold", config.DefaultThreshold, "caller-facing threshold; effective cutoff is 255 - threshold")
		bgColor    = fs.String("bg-color", config.DefaultKeyColor, "background color")
		bgImage    = fs.String("bg-image", "", "background image, stretched to the frame size")
		fps        = fs.Float64("fps", config.DefaultFPS, "frames per second")
		frames     = fs.Int("frames", 0, "stop after this many frames (0 = until input ends)")
		loop       = fs.Bool("loop", false, "loop the input sequence")
		workers    = fs.Int("workers", 1, "goroutines per frame")
		interp     = fs.String("interp", config.DefaultInterpolation, "background scaling: nearest, approx-bilinear, bilinear, catmull-rom")
		pv         = fs.Bool("preview", false, "preview frames in the terminal")
		watchFlag  = fs.Bool("watch", false, "reload the config file when it changes")
		logLevel   = fs.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
		logFormat  = fs.String("log-format", config.DefaultLogFormat, "log format: text or json")
	)
	if err := fs.Parse(args); err != nil {
		return nil, "", false, err
	}

	cfg = config.DefaultConfig()
	if *configPath != "" {
		cfg, err = config.Read(*configPath)
		if err != nil {
			return nil, "", false, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "output":
			cfg.Output.Dir = *output
		case "color":
			cfg.Key.Color = *keyColor
		case "threshold":
			cfg.Key.Threshold = *threshold
		case "bg-color":
			cfg.Background.Color = *bgColor
			cfg.Background.Image = ""
		case "bg-image":
			cfg.Background.Image = *bgImage
		case "fps":
			cfg.Render.FPS = *fps
		case "frames":
			cfg.Render.Frames = *frames
		case "loop":
			cfg.Input.Loop = *loop
		case "workers":
			cfg.Render.Workers = *workers
		case "interp":
			cfg.Render.Interpolation = *interp
		case "preview":
			cfg.Output.Preview = *pv
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})
	if fs.NArg() > 0 && cfg.Input.Path == "" {
		cfg.Input.Path = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, *configPath, *watchFlag, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// applyBackground sets the configured background on the session.
func applyBackground(s *chromakey.Session, cfg *config.Config) error {
	if cfg.Background.Image != "" {
		img, err := sequence.Load(cfg.Background.Image)
		if err != nil {
			return err
		}
		return s.SetBackgroundMedia(chromakey.StillImage(img))
	}
	c, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	s.SetBackgroundColor(c)
	return nil
}

// reconfigure applies a reloaded config to a running session. Only keying
// settings change; input, output and render settings need a restart.
func reconfigure(s *chromakey.Session, cfg *config.Config, logger *slog.Logger) {
	key, err := cfg.KeyColor()
	if err != nil {
		logger.Warn("reload: key color", "err", err)
		return
	}
	if err := s.SetThreshold(cfg.Key.Threshold); err != nil {
		logger.Warn("reload: threshold", "err", err)
		return
	}
	s.SetTargetColor(key)
	if err := applyBackground(s, cfg); err != nil {
		logger.Warn("reload: background", "err", err)
		return
	}
	bg := cfg.Background.Color
	if cfg.Background.Image != "" {
		bg = cfg.Background.Image
	}
	logger.Info("config reloaded", "color", key.String(), "threshold", cfg.Key.Threshold, "background", bg)
}

func logWatchErrors(ctx context.Context, l *config.Loader, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-l.Errors():
			logger.Warn("config watch", "err", err)
		}
	}
}
