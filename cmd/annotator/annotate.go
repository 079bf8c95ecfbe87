package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/annotator/internal/app"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/supabase"
	"github.com/example/annotator/internal/surface"
)

// annotateCmd opens the annotation window.
type annotateCmd struct {
	file      string
	anomaly   int64
	table     string
	ctype     string
	next      string
	output    string
	tool      string
	width     int
	parent    int64
	exit      bool
	clipboard bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r.subcommand("annotate"), fs: fs}
	cfg := a.root.config
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file or URL to annotate")
	fs.Int64Var(&a.anomaly, "anomaly", 0, "anomaly id to classify")
	fs.StringVar(&a.table, "categories", cfg.Categories, "category table name or YAML file")
	fs.StringVar(&a.ctype, "type", cfg.ClassificationType, "classification type recorded on submit")
	fs.StringVar(&a.next, "next", cfg.Next, "location reported after a successful submit")
	fs.StringVar(&a.output, "output", "", "file written by Ctrl+S")
	fs.StringVar(&a.tool, "tool", cfg.Annotate.Tool, "initial tool (pen or square)")
	fs.IntVar(&a.width, "width", cfg.Annotate.LineWidth, "initial line width")
	fs.Int64Var(&a.parent, "parent", 0, "parent classification id")
	fs.BoolVar(&a.exit, "exit-on-submit", false, "close the window after a successful submit")
	fs.BoolVar(&a.clipboard, "from-clipboard", false, "annotate the image on the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" && fs.NArg() > 0 {
		a.file = fs.Arg(0)
	}
	if a.clipboard {
		if a.file != "" || a.anomaly != 0 {
			return nil, errors.New("-from-clipboard cannot be combined with an image or -anomaly")
		}
		a.file = surface.ClipboardRef
	}
	if a.file != "" && a.anomaly != 0 {
		return nil, errors.New("use either an image or -anomaly, not both")
	}
	if a.output == "" {
		a.output = defaultOutput(cfg.SaveDir, a.anomaly)
	}
	return a, nil
}

func defaultOutput(dir string, anomaly int64) string {
	name := "annotation.png"
	if anomaly != 0 {
		name = fmt.Sprintf("annotation-%d.png", anomaly)
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (a *annotateCmd) Run() error {
	ctx := context.Background()
	tbl, err := a.root.table(a.table)
	if err != nil {
		return err
	}
	tool, err := session.ParseTool(a.tool)
	if err != nil {
		return err
	}

	var client *supabase.Client
	if a.root.config.Supabase.URL != "" {
		if client, err = a.root.client(); err != nil {
			return err
		}
		a.root.signIn(ctx, client)
	}
	ref, err := a.root.backdropRef(ctx, client, a.anomaly, a.file)
	if err != nil {
		return err
	}

	logger := a.root.logger
	var win *app.App
	opts := []session.Option{
		session.WithTable(tbl),
		session.WithTool(tool),
		session.WithLineWidth(a.width),
		session.WithLogger(logger.Named("session")),
		session.WithOnChange(func() {
			if win != nil {
				win.Invalidate()
			}
		}),
		session.WithNavigator(session.NavigatorFunc(func(path string) {
			if path != "" {
				logger.Info("next", zap.String("location", path))
			}
		})),
	}
	if client != nil {
		opts = append(opts,
			session.WithIdentity(client),
			session.WithAssetStore(client),
			session.WithRecordStore(client))
	}
	s := session.New(opts...)

	loader := surface.NewLoader(surface.WithLoaderLogger(logger))
	if ref != "" {
		// a failed load leaves a blank surface; the window says so
		_ = s.LoadBackdrop(ctx, loader, ref)
	}

	submit := session.SubmitOptions{
		Anomaly:            a.anomaly,
		ClassificationType: a.ctype,
		NextPath:           a.next,
	}
	if a.parent != 0 {
		parent := a.parent
		submit.Linkage.ParentClassification = &parent
	}
	win = app.New(s,
		app.WithTheme(a.root.activeTheme),
		app.WithNotifier(a.root.notifier),
		app.WithLoader(loader),
		app.WithLogger(logger.Named("app")),
		app.WithTitle(windowTitle(tbl.Title, a.anomaly)),
		app.WithOutput(a.output),
		app.WithSubmitOptions(submit),
		app.WithExitOnSubmit(a.exit),
	)
	win.Run()
	return nil
}

func windowTitle(table string, anomaly int64) string {
	if anomaly != 0 {
		return fmt.Sprintf("Annotator - %s - anomaly %d", table, anomaly)
	}
	return "Annotator - " + table
}
