package metrics

import (
	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes everything in reg to path in the text exposition
// format, for pickup by a node_exporter textfile collector. The file is
// replaced atomically.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write metrics textfile").
			WithContext("path", path).Build()
	}
	return nil
}
