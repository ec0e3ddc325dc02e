package render

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/frontmatter"
	"git.home.luguber.info/inful/reflectmd/internal/links"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of pages written at once.
const DefaultConcurrency = 8

// Output is a rendered page.
type Output struct {
	URL     string
	Content []byte
}

// Renderer drives a Theme over the pages of a URL build.
type Renderer struct {
	theme       Theme
	opts        options.Resolved
	recorder    metrics.Recorder
	logger      *slog.Logger
	concurrency int
}

// New returns a Renderer. A nil recorder discards metrics and a nil logger
// uses slog.Default.
func New(theme Theme, opts options.Resolved, recorder metrics.Recorder, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{theme: theme, opts: opts, recorder: metrics.OrNoop(recorder), logger: logger, concurrency: DefaultConcurrency}
}

// WithConcurrency sets the write concurrency; values below 1 are ignored.
func (r *Renderer) WithConcurrency(n int) *Renderer {
	if n > 0 {
		r.concurrency = n
	}
	return r
}

// Render renders every page of res in mapping order.
func (r *Renderer) Render(ctx context.Context, res *urlbuilder.Result) ([]Output, error) {
	start := time.Now()
	resolver := links.New(res, r.opts.PublicPath)
	out := make([]Output, len(res.URLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, m := range res.URLs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page := Page{URL: m.URL, Model: m.Model, Template: m.Template, Group: m.Group, Result: res, Links: resolver, Options: r.opts}
			body, err := r.theme.Render(page)
			if err != nil {
				return err
			}
			content, err := frontmatter.Compose(map[string]any{
				"title": page.Title(),
				"kind":  m.Model.Kind.String(),
			}, []byte(body))
			if err != nil {
				return ferrors.RenderError("compose frontmatter").WithCause(err).WithContext("url", m.URL).Build()
			}
			out[i] = Output{URL: m.URL, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.recorder.ObserveStageDuration("render", time.Since(start))
	return out, nil
}

// Write writes pages below outDir, creating directories as needed. A page
// whose URL would resolve outside outDir is rejected. Files already holding
// the same content are left alone; overwriting one whose fingerprint no
// longer matches its content logs a warning.
func (r *Renderer) Write(ctx context.Context, outDir string, pages []Output) error {
	start := time.Now()
	root, err := filepath.Abs(outDir)
	if err != nil {
		return ferrors.FileSystemError("resolve output directory").WithCause(err).WithContext("path", outDir).Build()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target, err := confine(root, p.URL)
			if err != nil {
				return err
			}
			if existing, err := os.ReadFile(target); err == nil {
				if bytes.Equal(existing, p.Content) {
					r.logger.Debug("Page unchanged", logfields.URL(p.URL), logfields.Path(target))
					return nil
				}
				if ok, _ := frontmatter.Verify(existing); !ok {
					r.logger.Warn("Overwriting page edited since it was generated", logfields.URL(p.URL), logfields.Path(target))
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return ferrors.FileSystemError("create page directory").WithCause(err).WithContext("path", target).Build()
			}
			if err := os.WriteFile(target, p.Content, 0o644); err != nil {
				return ferrors.FileSystemError("write page").WithCause(err).WithContext("path", target).Build()
			}
			r.logger.Debug("Wrote page", logfields.URL(p.URL), logfields.Path(target))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.recorder.ObserveStageDuration("write", time.Since(start))
	r.recorder.SetPagesWritten(len(pages))
	r.logger.Info("Pages written", logfields.Count(len(pages)), logfields.Path(root))
	return nil
}

// confine joins url onto root and rejects results that escape root.
func confine(root, url string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(url))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(url) {
		return "", ferrors.ValidationError("page URL escapes the output directory").WithContext("url", url).Build()
	}
	return target, nil
}
