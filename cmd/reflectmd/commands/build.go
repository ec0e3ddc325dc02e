package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/generate"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/render"
	"git.home.luguber.info/inful/reflectmd/internal/watch"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Model       string `arg:"" help:"Reflection model: TypeDoc JSON output or a YAML tree" type:"path"`
	Output      string `short:"o" help:"Output directory (overrides the out option)"`
	CheckLinks  bool   `name:"check-links" help:"Verify links between rendered pages" default:"true" negatable:""`
	Strict      bool   `help:"Fail when rendered pages contain broken links"`
	Navigation  bool   `help:"Write navigation.json next to the pages" default:"true" negatable:""`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each build"`
	Watch       bool   `short:"w" help:"Rebuild when the model or options file changes"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return b.run(ctx, g, root)
}

func (b *BuildCmd) run(ctx context.Context, g *Global, root *CLI) error {
	log := logger(g)
	theme, err := render.NewDefaultTheme()
	if err != nil {
		return err
	}

	var reg *prom.Registry
	var recorder metrics.Recorder
	if b.MetricsFile != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}
	gen := generate.New(theme, recorder, log)
	req := generate.Request{
		ModelPath:         b.Model,
		OptionsPath:       root.OptionsPath(),
		OutDir:            b.Output,
		CheckLinks:        b.CheckLinks,
		FailOnBrokenLinks: b.Strict,
		Navigation:        b.Navigation,
	}

	once := func(ctx context.Context) error {
		report, err := gen.Run(ctx, req)
		if reg != nil {
			if werr := metrics.WriteTextfile(reg, b.MetricsFile); werr != nil {
				log.Warn("Failed to write metrics", logfields.Error(werr))
			}
		}
		// A strict build still wrote its pages; list the links that failed it.
		if err != nil && !ferrors.HasCategory(err, ferrors.CategoryLinks) {
			return err
		}
		out := root.stdout()
		_, _ = fmt.Fprintf(out, "Wrote %d pages to %s\n", report.Pages, report.OutDir)
		for _, l := range report.BrokenLinks {
			_, _ = fmt.Fprintf(out, "broken link: %s -> %s (%s)\n", l.Page, l.Destination, l.Reason)
		}
		return err
	}

	if !b.Watch {
		return once(ctx)
	}

	if err := once(ctx); err != nil {
		log.Error("Initial build failed; waiting for changes", logfields.Error(err))
	}
	w, err := watch.New([]string{b.Model, req.OptionsPath}, watch.DefaultDebounce, log)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(root.stdout(), "Watching for changes (Ctrl+C to stop)")
	return w.Run(ctx, func(ctx context.Context) {
		if err := once(ctx); err != nil {
			log.Error("Rebuild failed", logfields.Error(err))
		}
	})
}
