package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/annotator/internal/clipboard"
	"github.com/example/annotator/internal/geom"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/supabase"
	"github.com/example/annotator/internal/surface"
)

// shapeSpec is one drawing given on the command line.
type shapeSpec struct {
	tool     session.Tool
	category string
	points   []geom.Point
}

// parseShape reads KIND:CATEGORY:x,y;x,y;... .
func parseShape(spec string) (shapeSpec, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return shapeSpec{}, fmt.Errorf("shape %q: want kind:category:points", spec)
	}
	tool, err := session.ParseTool(parts[0])
	if err != nil || tool == session.ToolErase {
		return shapeSpec{}, fmt.Errorf("shape %q: unknown kind %q", spec, parts[0])
	}
	sh := shapeSpec{tool: tool, category: strings.TrimSpace(parts[1])}
	if sh.category == "" {
		return shapeSpec{}, fmt.Errorf("shape %q: missing category", spec)
	}
	for _, pair := range strings.Split(parts[2], ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return shapeSpec{}, fmt.Errorf("shape %q: point %q is not x,y", spec, pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return shapeSpec{}, fmt.Errorf("shape %q: x in %q: %w", spec, pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return shapeSpec{}, fmt.Errorf("shape %q: y in %q: %w", spec, pair, err)
		}
		sh.points = append(sh.points, geom.Pt(x, y))
	}
	switch {
	case len(sh.points) == 0:
		return shapeSpec{}, fmt.Errorf("shape %q: no points", spec)
	case tool == session.ToolSquare && len(sh.points) != 2:
		return shapeSpec{}, fmt.Errorf("shape %q: a rectangle needs exactly two corners", spec)
	}
	return sh, nil
}

// fieldFlags collects repeated -field key=value flags.
type fieldFlags map[string]string

func (f fieldFlags) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f fieldFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("field %q: want key=value", s)
	}
	f[strings.TrimSpace(k)] = v
	return nil
}

// drawCmd annotates an image without a window.
type drawCmd struct {
	file        string
	anomaly     int64
	table       string
	output      string
	width       int
	fields      fieldFlags
	submit      bool
	ctype       string
	toClipboard bool
	shapes      []shapeSpec
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r.subcommand("draw"), fs: fs, fields: fieldFlags{}}
	cfg := d.root.config
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file, URL or clipboard:")
	fs.Int64Var(&d.anomaly, "anomaly", 0, "anomaly whose image to annotate")
	fs.StringVar(&d.table, "categories", cfg.Categories, "category table name or YAML file")
	fs.StringVar(&d.output, "output", "", "write the annotated PNG here")
	fs.IntVar(&d.width, "width", cfg.Annotate.LineWidth, "line width")
	fs.Var(d.fields, "field", "free-text answer as key=value (repeatable)")
	fs.BoolVar(&d.submit, "submit", false, "submit the result as a classification")
	fs.StringVar(&d.ctype, "type", cfg.ClassificationType, "classification type recorded on submit")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: d}
	}
	for _, spec := range fs.Args() {
		sh, err := parseShape(spec)
		if err != nil {
			return nil, err
		}
		d.shapes = append(d.shapes, sh)
	}
	if d.file == "" && d.anomaly == 0 {
		return nil, errors.New("an image is required: use -file or -anomaly")
	}
	if d.file != "" && d.anomaly != 0 {
		return nil, errors.New("use either -file or -anomaly, not both")
	}
	if d.output == "" && !d.toClipboard && !d.submit {
		return nil, errors.New("nothing to do: use -output, -to-clipboard or -submit")
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	ctx := context.Background()
	logger := d.root.logger
	tbl, err := d.root.table(d.table)
	if err != nil {
		return err
	}
	var client *supabase.Client
	if d.submit || d.anomaly != 0 {
		if client, err = d.root.client(); err != nil {
			return err
		}
	}
	ref, err := d.root.backdropRef(ctx, client, d.anomaly, d.file)
	if err != nil {
		return err
	}
	img, err := surface.NewLoader(surface.WithLoaderLogger(logger)).Load(ctx, ref)
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithTable(tbl),
		session.WithLineWidth(d.width),
		session.WithLogger(logger.Named("session")),
	}
	if client != nil {
		opts = append(opts,
			session.WithIdentity(client),
			session.WithAssetStore(client),
			session.WithRecordStore(client))
	}
	s := session.New(opts...)
	defer s.Close()
	s.SetBackdrop(img)
	// one surface unit per image pixel
	b := img.Bounds()
	s.Resize(float64(b.Dx()), float64(b.Dy()), 1)

	if err := applyShapes(s, d.shapes); err != nil {
		return err
	}
	for k, v := range d.fields {
		s.SetField(k, v)
	}

	if d.output != "" {
		data, err := s.Rasterize()
		if err != nil {
			return err
		}
		if err := os.WriteFile(d.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", d.output, err)
		}
		logger.Info("annotation saved", zap.String("path", d.output), zap.Int("drawings", len(s.Drawings())))
		d.root.notifySave(d.output)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(s.Snapshot()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		d.root.notifyCopy("annotation image")
	}
	if d.submit {
		d.root.signIn(ctx, client)
		preview := s.Snapshot()
		id, err := s.Submit(ctx, session.SubmitOptions{Anomaly: d.anomaly, ClassificationType: d.ctype})
		if err != nil {
			return fmt.Errorf("%s: %w", session.Message(err), err)
		}
		fmt.Println(id)
		d.root.notifySubmit(id, preview)
	}
	return nil
}

// applyShapes replays each shape as a gesture on s.
func applyShapes(s *session.Session, shapes []shapeSpec) error {
	for _, sh := range shapes {
		if err := s.SelectCategory(sh.category); err != nil {
			return err
		}
		s.SelectTool(sh.tool)
		s.StartGesture(sh.points[0])
		for _, p := range sh.points[1:] {
			s.ExtendGesture(p)
		}
		s.CommitGesture()
	}
	return nil
}
