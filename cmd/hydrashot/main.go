package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/example/hydrashot/internal/capture"
	"github.com/example/hydrashot/internal/config"
	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/notify"
	"github.com/example/hydrashot/internal/overlay"
	"github.com/example/hydrashot/internal/session"
	"github.com/example/hydrashot/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	logger        *slog.Logger
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	stitchAlerts  bool
	themeName     string
	activeTheme   *theme.Theme
	logLevel      string
	logJSON       bool
	pixelRatio    float64
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("hydrashot", flag.ContinueOnError),
		program:  "hydrashot",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.stitchAlerts, "notify-stitch", cfg.Notify.Stitch, "show a desktop notification when a long screenshot step cannot be matched")
	r.fs.StringVar(&r.themeName, "theme", "", "overlay theme name or file (default, dark, light)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level: debug, info, warn or error (env "+logLevelEnv+")")
	r.fs.BoolVar(&r.logJSON, "log-json", false, "write logs as JSON")
	r.fs.Float64Var(&r.pixelRatio, "pixel-ratio", cfg.PixelRatio, "device pixel ratio, 0 to detect (env "+capture.PixelRatioEnv+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) subcommand(name string) *root {
	sub := *r
	sub.program = strings.TrimSpace(r.program + " " + name)
	return &sub
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	level := r.logLevel
	if level == "" {
		level = os.Getenv(logLevelEnv)
	}
	logger, err := newLogger(os.Stderr, level, r.logJSON)
	if err != nil {
		return err
	}
	r.logger = logger
	slog.SetDefault(logger)

	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventStitch, r.stitchAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "capture":
		cmd, err = parseCaptureCmd(subArgs, r.subcommand(cmdName))
	case "long":
		cmd, err = parseLongCmd(subArgs, r.subcommand(cmdName))
	case "stitch":
		cmd, err = parseStitchCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{root: r.subcommand(cmdName)}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the overlay theme. Precedence: flag, env, config.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("HYDRASHOT_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			r.log().Warn("theme not loaded, using default", "theme", name, "error", err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

// ratio is the device pixel ratio used to map logical coordinates.
func (r *root) ratio() float64 {
	configured := r.cfg().PixelRatio
	if r != nil && r.pixelRatio > 0 {
		configured = r.pixelRatio
	}
	return capture.PixelRatio(configured)
}

var widthPresets = map[string]session.Width{
	config.WidthThin:   session.Thin,
	config.WidthMedium: session.Medium,
	config.WidthThick:  session.Thick,
}

// sessionOptions carries the annotation defaults and shortcuts from the
// configuration into an overlay session.
func (r *root) sessionOptions() []session.Option {
	cfg := r.cfg()
	a := cfg.Annotation
	opts := []session.Option{
		session.WithWidths(a.Thin, a.Medium, a.Thick),
		session.WithColor(a.Color),
		session.WithFont(editlog.Font{Family: a.Font, Size: a.FontSize}),
	}
	if w, ok := widthPresets[strings.ToLower(a.Width)]; ok {
		opts = append(opts, session.WithWidth(w))
	}
	keys, err := session.ParseShortcuts(cfg.Shortcuts)
	if err != nil {
		r.log().Warn("invalid shortcut configuration", "error", err)
		keys = session.DefaultShortcuts()
	}
	return append(opts, session.WithShortcuts(keys))
}

// overlayOptions configures an overlay from the theme and configuration.
// The configured annotation colour leads the toolbar palette.
func (r *root) overlayOptions(extra ...overlay.Option) []overlay.Option {
	palette := []color.RGBA{r.cfg().Annotation.Color}
	for _, c := range overlay.DefaultPalette {
		if c != palette[0] {
			palette = append(palette, c)
		}
	}
	opts := []overlay.Option{
		overlay.WithTheme(r.activeTheme),
		overlay.WithLogger(r.log()),
		overlay.WithSessionOptions(r.sessionOptions()...),
		overlay.WithPalette(palette),
	}
	return append(opts, extra...)
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

func (r *root) notifyStitchMiss(score float64) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.StitchMiss(score)
}
