// Package metrics provides the observability hooks for URL building and
// rendering.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	b := urlbuilder.New(opts, resolver, metrics.NoopRecorder{}, logger)
//
// The CLI swaps in a PrometheusRecorder when --metrics-file is given and
// writes the registry with WriteTextfile once the build finishes. There is no
// long-running process to scrape, so the textfile collector is the export path.
package metrics
