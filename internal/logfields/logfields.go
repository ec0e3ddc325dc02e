package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyURL        = "url"
	KeyAnchor     = "anchor"
	KeyKind       = "kind"
	KeyReflection = "reflection"
	KeyTemplate   = "template"
	KeyStrategy   = "strategy"
	KeyPackage    = "package"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Anchor(a string) slog.Attr         { return slog.String(KeyAnchor, a) }
func Kind(k string) slog.Attr           { return slog.String(KeyKind, k) }
func Reflection(name string) slog.Attr  { return slog.String(KeyReflection, name) }
func Template(name string) slog.Attr    { return slog.String(KeyTemplate, name) }
func Strategy(s string) slog.Attr       { return slog.String(KeyStrategy, s) }
func Package(name string) slog.Attr     { return slog.String(KeyPackage, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
