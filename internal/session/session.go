// Package session ties a surface to the user's tool selection and submits the
// finished annotation as a classification.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
	"github.com/example/annotator/internal/surface"
)

// Session is the state of one annotation task: one backdrop, its drawings and
// the current tool selection. Load a different image by creating a new
// Session.
//
// Methods are safe for concurrent use. Submit releases the lock while it talks
// to the stores. Drawings committed meanwhile are not part of that submission
// and survive its success.
type Session struct {
	mu sync.Mutex

	surface  *surface.Surface
	table    *annotation.Table
	identity Identity
	assets   AssetStore
	records  RecordStore
	nav      Navigator
	logger   *zap.Logger
	onChange func()
	newName  func(anomaly int64) string

	tool       Tool
	category   string
	lineWidth  int
	fields     map[string]string
	submitting bool
	closed     bool
}

// Option configures a Session.
type Option func(*Session)

// WithSurface sets the surface. New creates one when omitted.
func WithSurface(s *surface.Surface) Option { return func(x *Session) { x.surface = s } }

// WithTable sets the category table.
func WithTable(t *annotation.Table) Option { return func(x *Session) { x.table = t } }

// WithIdentity sets the identity provider.
func WithIdentity(id Identity) Option { return func(x *Session) { x.identity = id } }

// WithAssetStore sets where rasterized annotations are uploaded.
func WithAssetStore(a AssetStore) Option { return func(x *Session) { x.assets = a } }

// WithRecordStore sets where classifications are written.
func WithRecordStore(r RecordStore) Option { return func(x *Session) { x.records = r } }

// WithNavigator sets the navigator used after a successful submission.
func WithNavigator(n Navigator) Option { return func(x *Session) { x.nav = n } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(x *Session) { x.logger = l } }

// WithOnChange registers a callback run after every change to the drawings
// or selection. It is called without the session lock held.
func WithOnChange(fn func()) Option { return func(x *Session) { x.onChange = fn } }

// WithTool sets the initial tool. ToolErase is ignored.
func WithTool(t Tool) Option {
	return func(x *Session) {
		if t != ToolErase {
			x.tool = t
		}
	}
}

// WithCategory sets the initial category key.
func WithCategory(key string) Option { return func(x *Session) { x.category = key } }

// WithLineWidth sets the initial stroke width.
func WithLineWidth(w int) Option { return func(x *Session) { x.lineWidth = w } }

var fallbackTable, _ = annotation.NewTable("default",
	annotation.Category{Key: "mark", Name: "Mark", Color: color.RGBA{255, 0, 0, 255}})

// New creates a Session.
func New(opts ...Option) *Session {
	s := &Session{
		tool:      ToolPen,
		lineWidth: DefaultLineWidth,
		fields:    make(map[string]string),
		logger:    zap.NewNop(),
		newName:   blobName,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.table.Len() == 0 {
		s.table = fallbackTable
	}
	if s.surface == nil {
		s.surface = surface.New(surface.WithLogger(s.logger))
	}
	if _, ok := s.table.Lookup(s.category); !ok {
		s.category = s.table.At(0).Key
	}
	s.lineWidth = ClampLineWidth(s.lineWidth)
	s.pushBrush()
	return s
}

func blobName(anomaly int64) string {
	if anomaly == 0 {
		return fmt.Sprintf("annotation-%s.png", uuid.NewString())
	}
	return fmt.Sprintf("%d-%s.png", anomaly, uuid.NewString())
}

// pushBrush hands the resolved tool state to the surface. Callers hold mu.
func (s *Session) pushBrush() {
	kind, ok := s.tool.Kind()
	if !ok {
		s.surface.SetBrush(nil)
		return
	}
	cat, _ := s.table.Lookup(s.category)
	s.surface.SetBrush(&surface.Brush{Kind: kind, Category: cat.Key, Color: cat.Color, Width: s.lineWidth})
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Table returns the category table.
func (s *Session) Table() *annotation.Table { return s.table }

// Tool returns the active drawing tool.
func (s *Session) Tool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// SelectTool switches tools. Selecting ToolErase clears every drawing and
// keeps the previous drawing tool active.
func (s *Session) SelectTool(t Tool) {
	s.mu.Lock()
	if t == ToolErase {
		s.surface.ClearAll()
		s.mu.Unlock()
		s.logger.Info("annotations cleared")
		s.changed()
		return
	}
	s.tool = t
	s.pushBrush()
	s.mu.Unlock()
	s.changed()
}

// Category returns the selected category key.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SelectCategory switches the category used for new drawings.
func (s *Session) SelectCategory(key string) error {
	s.mu.Lock()
	if _, ok := s.table.Lookup(key); !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown category %q in table %s", key, s.table.Name)
	}
	s.category = key
	s.pushBrush()
	s.mu.Unlock()
	s.changed()
	return nil
}

// LineWidth returns the stroke width for new drawings.
func (s *Session) LineWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineWidth
}

// SetLineWidth sets the stroke width, clamped to [MinLineWidth, MaxLineWidth].
func (s *Session) SetLineWidth(w int) {
	s.mu.Lock()
	s.lineWidth = ClampLineWidth(w)
	s.pushBrush()
	s.mu.Unlock()
	s.changed()
}

// SetField stores a free-text answer submitted with the classification. An
// empty value removes the field.
func (s *Session) SetField(key, value string) {
	s.mu.Lock()
	if strings.TrimSpace(value) == "" {
		delete(s.fields, key)
	} else {
		s.fields[key] = value
	}
	s.mu.Unlock()
	s.changed()
}

// Fields returns a copy of the free-text answers.
func (s *Session) Fields() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyFields(s.fields)
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Resize forwards a container change to the surface.
func (s *Session) Resize(w, h, ratio float64) {
	s.mu.Lock()
	s.surface.Resize(w, h, ratio)
	s.mu.Unlock()
	s.changed()
}

// SetBackdrop installs the backdrop image. It is meant for the first image of
// a session; use Restart to annotate a different one.
func (s *Session) SetBackdrop(img image.Image) {
	s.mu.Lock()
	s.surface.SetBackdrop(img)
	s.mu.Unlock()
	s.changed()
}

// LoadBackdrop fetches ref without holding the lock and installs the result.
// A failed load leaves the surface blank.
func (s *Session) LoadBackdrop(ctx context.Context, l *surface.Loader, ref string) error {
	img, err := l.Load(ctx, ref)
	if err != nil {
		s.logger.Warn("backdrop failed to load", zap.String("ref", ref), zap.Error(err))
		s.SetBackdrop(nil)
		return err
	}
	s.SetBackdrop(img)
	return nil
}

// BackdropBounds returns the bounds of the loaded backdrop.
func (s *Session) BackdropBounds() (image.Rectangle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.surface.Backdrop(); b != nil {
		return b.Bounds(), true
	}
	return image.Rectangle{}, false
}

// Interactive reports whether the surface accepts gestures.
func (s *Session) Interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Interactive()
}

// Size returns the surface size in logical units.
func (s *Session) Size() geom.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Size()
}

// Snapshot returns a copy of the rendered surface.
func (s *Session) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Snapshot()
}

// Rasterize encodes the rendered surface as PNG.
func (s *Session) Rasterize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Rasterize()
}

// StartGesture implements gesture.Target.
func (s *Session) StartGesture(p geom.Point) {
	s.mu.Lock()
	s.surface.StartGesture(p)
	s.mu.Unlock()
	s.changed()
}

// ExtendGesture implements gesture.Target.
func (s *Session) ExtendGesture(p geom.Point) {
	s.mu.Lock()
	s.surface.ExtendGesture(p)
	s.mu.Unlock()
	s.changed()
}

// CommitGesture implements gesture.Target.
func (s *Session) CommitGesture() {
	s.mu.Lock()
	s.surface.CommitGesture()
	n := len(s.surface.Drawings())
	s.mu.Unlock()
	s.logger.Debug("drawing committed", zap.Int("drawings", n))
	s.changed()
}

// ClearAll drops every drawing.
func (s *Session) ClearAll() { s.SelectTool(ToolErase) }

// Drawings returns the committed drawings.
func (s *Session) Drawings() []annotation.DrawingObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Drawings()
}

// Tally counts committed drawings per category.
func (s *Session) Tally() map[string]int {
	return annotation.Tally(s.Drawings())
}

// Labels returns the "Name (xN)" summary of the committed drawings.
func (s *Session) Labels() []string {
	return s.table.Labels(s.Tally())
}

// Submitting reports whether a submission is running.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Restart closes s and returns a Session for a different image. The new
// session shares the table, stores, navigator, logger, change callback and
// tool selection of s, and starts without a backdrop, drawings or fields.
func (s *Session) Restart() *Session {
	s.mu.Lock()
	s.closed = true
	opts := []Option{
		WithTable(s.table),
		WithIdentity(s.identity),
		WithAssetStore(s.assets),
		WithRecordStore(s.records),
		WithNavigator(s.nav),
		WithLogger(s.logger),
		WithOnChange(s.onChange),
		WithTool(s.tool),
		WithCategory(s.category),
		WithLineWidth(s.lineWidth),
	}
	s.mu.Unlock()
	n := New(opts...)
	n.newName = s.newName
	s.logger.Info("session restarted")
	return n
}

// Close abandons the session. Submissions already in flight finish their
// network calls but change nothing afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// SubmitOptions describes the classification being submitted.
type SubmitOptions struct {
	Anomaly            int64
	ClassificationType string
	Content            string
	Linkage            Linkage
	ExtraMedia         []Media
	// NextPath is where the navigator goes after success when OnComplete is
	// nil.
	NextPath   string
	OnComplete func(id int64)
}

// Submit rasterizes the surface, uploads it, and writes the classification.
// On success the submitted drawings and fields are cleared and OnComplete (or
// the navigator) runs. A zero Anomaly is left out of the record. On any failure local state is left as it was.
func (s *Session) Submit(ctx context.Context, opts SubmitOptions) (int64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, stageErr(ErrClosed, nil)
	}
	if s.submitting {
		s.mu.Unlock()
		return 0, stageErr(ErrBusy, nil)
	}
	var author string
	if s.identity != nil {
		author, _ = s.identity.CurrentUserID()
	}
	if author == "" {
		s.mu.Unlock()
		s.logger.Debug("submit skipped: nobody signed in")
		return 0, stageErr(ErrNoIdentity, nil)
	}
	if s.surface.Backdrop() == nil {
		s.mu.Unlock()
		return 0, stageErr(ErrNoBackdrop, nil)
	}
	data, err := s.surface.Rasterize()
	if err != nil {
		s.mu.Unlock()
		return 0, stageErr(ErrRasterize, err)
	}
	cfg := s.configurationLocked(opts.Linkage)
	sent := len(cfg.Drawings)
	sentFields := copyFields(s.fields)
	s.submitting = true
	s.mu.Unlock()

	id, err := s.send(ctx, author, data, cfg, opts)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("submit failed", zap.Int64("anomaly", opts.Anomaly), zap.Error(err))
		return 0, err
	}
	if s.closed {
		s.mu.Unlock()
		s.logger.Info("submit finished after session closed", zap.Int64("classification", id))
		return id, nil
	}
	s.surface.DropOldest(sent)
	for k, v := range sentFields {
		if s.fields[k] == v {
			delete(s.fields, k)
		}
	}
	s.mu.Unlock()

	s.logger.Info("classification submitted", zap.Int64("classification", id), zap.Int64("anomaly", opts.Anomaly))
	s.changed()
	switch {
	case opts.OnComplete != nil:
		opts.OnComplete(id)
	case s.nav != nil:
		s.nav.GoTo(opts.NextPath)
	}
	return id, nil
}

func (s *Session) send(ctx context.Context, author string, data []byte, cfg Configuration, opts SubmitOptions) (int64, error) {
	if s.assets == nil {
		return 0, stageErr(ErrUpload, errors.New("no asset store configured"))
	}
	if s.records == nil {
		return 0, stageErr(ErrPersist, errors.New("no record store configured"))
	}
	name := s.newName(opts.Anomaly)
	url, err := s.assets.Upload(ctx, data, name)
	if err != nil {
		return 0, stageErr(ErrUpload, err)
	}
	s.logger.Debug("annotation uploaded", zap.String("name", name), zap.String("url", url))

	media := append([]Media{{url, name}}, opts.ExtraMedia...)
	content := opts.Content
	if content == "" {
		content = strings.Join(cfg.AnnotationOptions, ", ")
	}
	rec := Classification{
		Author:             author,
		Content:            content,
		Media:              media,
		ClassificationType: opts.ClassificationType,
		Configuration:      cfg,
		Parent:             opts.Linkage.ParentClassification,
	}
	if opts.Anomaly != 0 {
		anomaly := opts.Anomaly
		rec.Anomaly = &anomaly
	}
	id, err := s.records.InsertClassification(ctx, rec)
	if err != nil {
		return 0, stageErr(ErrPersist, err)
	}
	return id, nil
}

// configurationLocked snapshots drawings, tally and fields. Callers hold mu.
func (s *Session) configurationLocked(link Linkage) Configuration {
	drawings := s.surface.Drawings()
	records := make([]DrawingRecord, len(drawings))
	for i, d := range drawings {
		records[i] = recordOf(d)
	}
	size := s.surface.Size()
	cfg := Configuration{
		AnnotationOptions:      s.table.Labels(annotation.Tally(drawings)),
		Drawings:               records,
		CategoryTable:          s.table.Name,
		Canvas:                 Canvas{Width: size.X, Height: size.Y, Ratio: s.surface.Ratio()},
		ParentPlanetLocation:   link.ParentLocation,
		ParentClassificationID: link.ParentClassification,
		CreatedBy:              link.CreatedBy,
	}
	if cfg.AnnotationOptions == nil {
		cfg.AnnotationOptions = []string{}
	}
	if len(s.fields) > 0 {
		cfg.AdditionalFields = copyFields(s.fields)
	}
	return cfg
}
