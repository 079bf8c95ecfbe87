package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/categories"
	"github.com/example/annotator/internal/config"
	"github.com/example/annotator/internal/logging"
	"github.com/example/annotator/internal/notify"
	"github.com/example/annotator/internal/supabase"
	"github.com/example/annotator/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	config       *config.Config
	logger       *zap.Logger
	notifier     *notify.Notifier
	submitAlerts bool
	saveAlerts   bool
	copyAlerts   bool
	themeName    string
	logLevel     string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	if r == nil {
		return &root{program: name, config: config.New(), logger: zap.NewNop(), activeTheme: theme.Default()}
	}
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		config:      r.config,
		logger:      r.logger,
		notifier:    r.notifier,
		themeName:   r.themeName,
		activeTheme: r.activeTheme,
	}
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
		cfg.ApplyEnv(os.Getenv)
	}

	r := &root{
		fs:      flag.NewFlagSet("annotator", flag.ExitOnError),
		program: "annotator",
		config:  cfg,
		logger:  zap.NewNop(),
	}
	r.fs.BoolVar(&r.submitAlerts, "notify-submit", cfg.Notify.Submit, "show a desktop notification after a classification is submitted")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", "", "window theme (light, dark or a .theme file)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	r.fs.Usage = usageFunc(r)
	return r
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
		level = r.config.Log.Level
	}
	logger, err := logging.New(r.config.Log.Mode, level)
	if err != nil {
		return err
	}
	r.logger = logger.With(zap.String("version", version))
	defer logging.Sync(r.logger)

	r.notifier = notify.New(notify.LoadPreferences(os.Getenv), notify.WithLogger(r.logger))
	r.notifier.Enable(notify.EventSubmit, r.submitAlerts)
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)

	// Precedence: CLI > Env > Config > Default
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("ANNOTATOR_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}
	tl := theme.NewLoader()
	tl.Inline = r.config.Themes
	t, err := tl.Load(themeName)
	if err != nil {
		r.logger.Warn("theme not loaded, using default", zap.String("theme", themeName), zap.Error(err))
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "categories":
		cmd, err = parseCategoriesCmd(subArgs, r)
	case "anomalies":
		cmd, err = parseAnomaliesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r.subcommand("version")}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// table resolves a category table by name, falling back to the configured one.
func (r *root) table(name string) (*annotation.Table, error) {
	if name == "" {
		name = r.config.Categories
	}
	return categories.NewLoader().Load(name)
}

// client builds a Supabase client from the configuration.
func (r *root) client() (*supabase.Client, error) {
	s := r.config.Supabase
	return supabase.New(supabase.Config{
		URL:         s.URL,
		AnonKey:     s.AnonKey,
		AccessToken: s.AccessToken,
		Bucket:      s.Bucket,
		UserID:      s.UserID,
	}, supabase.WithLogger(r.logger.Named("supabase")))
}

// signIn resolves the current user. Being signed out is not an error: the
// session reports it when the user tries to submit.
func (r *root) signIn(ctx context.Context, c *supabase.Client) {
	if _, err := c.ResolveUser(ctx); err != nil {
		if errors.Is(err, supabase.ErrSignedOut) {
			r.logger.Info("not signed in, submissions are disabled")
			return
		}
		r.logger.Warn("could not resolve user", zap.Error(err))
	}
}

// backdropRef picks the image to annotate: an anomaly's picture, a file or
// URL, or the clipboard.
func (r *root) backdropRef(ctx context.Context, c *supabase.Client, anomaly int64, file string) (string, error) {
	if anomaly == 0 {
		return file, nil
	}
	if c == nil {
		return "", errors.New("-anomaly needs a configured supabase project")
	}
	a, err := c.Anomaly(ctx, anomaly)
	if err != nil {
		return "", err
	}
	return a.ImageURL()
}

func (r *root) notifySubmit(id int64, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Submit(id, img)
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
