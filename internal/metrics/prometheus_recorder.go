package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "reflectmd"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	mappings         *prom.CounterVec
	collisions       prom.Counter
	anchors          prom.Counter
	duplicateAnchors prom.Counter
	unplaced         *prom.CounterVec
	brokenLinks      prom.Counter
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	pagesWritten     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.mappings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "url_mappings_total",
			Help:      "Pages mapped, by template",
		}, []string{"template"})
		pr.collisions = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "url_collisions_total",
			Help:      "Page URLs that needed a numeric suffix to stay unique",
		})
		pr.anchors = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "anchors_total",
			Help:      "In-page anchors assigned",
		})
		pr.duplicateAnchors = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "anchor_duplicates_total",
			Help:      "Anchors that needed a numeric suffix within their page",
		})
		pr.unplaced = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unplaced_reflections_total",
			Help:      "Reflections left without a page or anchor, by kind",
		}, []string{"kind"})
		pr.brokenLinks = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Rendered links whose target page or fragment does not exist",
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pagesWritten = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_written",
			Help:      "Pages written by the last build",
		})
		reg.MustRegister(pr.mappings, pr.collisions, pr.anchors, pr.duplicateAnchors, pr.unplaced,
			pr.brokenLinks, pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.pagesWritten)
	})
	return pr
}

func (p *PrometheusRecorder) IncMapping(template string) {
	if p == nil || p.mappings == nil {
		return
	}
	p.mappings.WithLabelValues(template).Inc()
}

func (p *PrometheusRecorder) IncCollision() {
	if p == nil || p.collisions == nil {
		return
	}
	p.collisions.Inc()
}

func (p *PrometheusRecorder) IncAnchor() {
	if p == nil || p.anchors == nil {
		return
	}
	p.anchors.Inc()
}

func (p *PrometheusRecorder) IncDuplicateAnchor() {
	if p == nil || p.duplicateAnchors == nil {
		return
	}
	p.duplicateAnchors.Inc()
}

func (p *PrometheusRecorder) IncUnplaced(kind string) {
	if p == nil || p.unplaced == nil {
		return
	}
	p.unplaced.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncBrokenLink() {
	if p == nil || p.brokenLinks == nil {
		return
	}
	p.brokenLinks.Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPagesWritten(n int) {
	if p == nil || p.pagesWritten == nil {
		return
	}
	p.pagesWritten.Set(float64(n))
}
