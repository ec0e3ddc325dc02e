// Package generate runs a complete documentation pass: load the model and
// options, build URLs, render, verify links and write the output tree.
package generate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/linkcheck"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/navigation"
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/render"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
)

// NavigationFile is written next to the pages when navigation is requested.
const NavigationFile = "navigation.json"

// Request describes one pass.
type Request struct {
	ModelPath   string
	OptionsPath string // optional; empty means all defaults
	OutDir      string // overrides the out option when set

	CheckLinks        bool
	FailOnBrokenLinks bool
	Navigation        bool
}

// Report summarizes a finished pass.
type Report struct {
	BuildID     string
	OutDir      string
	Pages       int
	BrokenLinks []linkcheck.BrokenLink
	Duration    time.Duration
}

// Generator runs passes with a fixed theme and metrics sink.
type Generator struct {
	theme    render.Theme
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New returns a Generator. A nil recorder discards metrics and a nil logger
// uses slog.Default.
func New(theme render.Theme, recorder metrics.Recorder, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{theme: theme, recorder: metrics.OrNoop(recorder), logger: logger}
}

// Plan loads the inputs of req and builds its URL mappings without rendering.
func (g *Generator) Plan(req Request) (*urlbuilder.Result, options.Resolved, error) {
	return g.plan(req, g.logger)
}

func (g *Generator) plan(req Request, logger *slog.Logger) (*urlbuilder.Result, options.Resolved, error) {
	opts, err := LoadOptions(req.OptionsPath, logger)
	if err != nil {
		return nil, options.Resolved{}, err
	}
	if req.OutDir != "" {
		opts.Out = req.OutDir
	}
	project, err := LoadModel(req.ModelPath)
	if err != nil {
		return nil, options.Resolved{}, err
	}
	res := urlbuilder.New(opts, nil, g.recorder, logger).Build(project)
	return res, opts, nil
}

// Run executes a full pass.
func (g *Generator) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	logger := g.logger.With(logfields.BuildID(report.BuildID))

	err := g.run(ctx, req, report, logger)
	report.Duration = time.Since(start)
	g.recorder.ObserveBuildDuration(report.Duration)
	switch {
	case err != nil:
		g.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		logger.Error("Build failed", logfields.Error(err))
		return report, err
	case len(report.BrokenLinks) > 0:
		g.recorder.IncBuildOutcome(metrics.OutcomeWarning)
	default:
		g.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	}
	logger.Info("Build complete",
		logfields.Count(report.Pages),
		logfields.Path(report.OutDir),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (g *Generator) run(ctx context.Context, req Request, report *Report, logger *slog.Logger) error {
	res, opts, err := g.plan(req, logger)
	if err != nil {
		return err
	}
	report.OutDir = opts.Out

	renderer := render.New(g.theme, opts, g.recorder, logger)
	pages, err := renderer.Render(ctx, res)
	if err != nil {
		return err
	}
	report.Pages = len(pages)

	if req.CheckLinks {
		broken, err := linkcheck.New(linkcheck.Options{Fragments: opts.UseHTMLAnchors}, g.recorder, logger).Check(pages)
		if err != nil {
			return err
		}
		report.BrokenLinks = broken
	}

	if err := renderer.Write(ctx, opts.Out, pages); err != nil {
		return err
	}
	if req.Navigation {
		if err := writeNavigation(opts.Out, res); err != nil {
			return err
		}
	}
	if req.FailOnBrokenLinks && len(report.BrokenLinks) > 0 {
		return ferrors.NewError(ferrors.CategoryLinks, "broken links in rendered pages").
			WithContext("count", len(report.BrokenLinks)).Build()
	}
	return nil
}

// LoadOptions loads, normalizes and resolves the options file at path. An
// empty path resolves the defaults. Normalization warnings and option
// conflicts are logged, never returned.
func LoadOptions(path string, logger *slog.Logger) (options.Resolved, error) {
	o := &options.Options{}
	if path != "" {
		loaded, err := options.Load(path)
		if err != nil {
			return options.Resolved{}, err
		}
		o = loaded
	}
	for _, w := range options.Normalize(o).Warnings {
		logger.Warn("Option normalized", slog.String("detail", w))
	}
	return options.Resolve(o), nil
}

func writeNavigation(outDir string, res *urlbuilder.Result) error {
	path := filepath.Join(outDir, NavigationFile)
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return ferrors.FileSystemError("create navigation file").WithCause(err).WithContext("path", path).Build()
	}
	if err := navigation.WriteJSON(f, navigation.Build(res)); err != nil {
		_ = f.Close()
		return ferrors.FileSystemError("write navigation file").WithCause(err).WithContext("path", path).Build()
	}
	if err := f.Close(); err != nil {
		return ferrors.FileSystemError("close navigation file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
