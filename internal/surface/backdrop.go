package surface

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/annotator/internal/clipboard"
)

// ClipboardRef is the backdrop reference that reads the image from the system
// clipboard.
const ClipboardRef = "clipboard:"

// maxBackdropBytes bounds remote downloads.
const maxBackdropBytes = 64 << 20

// Loader resolves a backdrop reference (file path, http(s) URL or
// ClipboardRef) into an image.
type Loader struct {
	Client *http.Client
	logger *zap.Logger

	readClipboard func() (image.Image, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote backdrops.
func WithHTTPClient(c *http.Client) LoaderOption { return func(l *Loader) { l.Client = c } }

// WithLoaderLogger sets the logger.
func WithLoaderLogger(lg *zap.Logger) LoaderOption { return func(l *Loader) { l.logger = lg } }

// WithClipboardReader replaces the system clipboard as the source of
// ClipboardRef images.
func WithClipboardReader(fn func() (image.Image, error)) LoaderOption {
	return func(l *Loader) { l.readClipboard = fn }
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{Client: http.DefaultClient, logger: zap.NewNop(), readClipboard: clipboard.ReadImage}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load fetches and decodes the image named by ref.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty backdrop reference")
	case ref == ClipboardRef:
		img, err := l.readClipboard()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	l.logger.Debug("backdrop decoded", zap.String("ref", ref), zap.String("format", format))
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	img, format, err := image.Decode(io.LimitReader(resp.Body, maxBackdropBytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	l.logger.Debug("backdrop fetched", zap.String("url", url), zap.String("format", format))
	return img, nil
}

// LoadBackdrop loads ref and installs it as the backdrop. On failure the
// surface is left blank and non-interactive; committed drawings are kept and
// the error is returned. There is no retry.
func (s *Surface) LoadBackdrop(ctx context.Context, l *Loader, ref string) error {
	img, err := l.Load(ctx, ref)
	if err != nil {
		s.logger.Warn("backdrop failed to load", zap.String("ref", ref), zap.Error(err))
		s.SetBackdrop(nil)
		return err
	}
	s.SetBackdrop(img)
	return nil
}
