package generate

import (
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
)

// LoadModel reads a reflection tree from path. ".json" files are read as
// TypeDoc JSON output, ".yaml" and ".yml" files as fixture trees.
func LoadModel(path string) (*reflection.Reflection, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.InputError("model file not found").WithContext("path", path).Build()
		}
		return nil, ferrors.FileSystemError("open model file").WithCause(err).WithContext("path", path).Build()
	}
	defer func() { _ = f.Close() }()

	var project *reflection.Reflection
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		project, err = reflection.LoadJSON(f)
	case ".yaml", ".yml":
		project, err = reflection.LoadYAML(f)
	default:
		return nil, ferrors.InputError("unsupported model format").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInput, "load model").WithContext("path", path).Build()
	}
	return project, nil
}
