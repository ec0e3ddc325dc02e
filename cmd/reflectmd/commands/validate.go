package commands

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/options"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	path := root.OptionsPath()
	if path == "" {
		return ferrors.ConfigError("no options file found").WithContext("path", DefaultConfigFile).Build()
	}
	o, err := options.Load(path)
	if err != nil {
		return err
	}

	out := root.stdout()
	for _, w := range options.Normalize(o).Warnings {
		_, _ = fmt.Fprintf(out, "warning: %s\n", w)
	}
	failed := 0
	for _, c := range options.Validate(o) {
		level := "warning"
		if ferrors.GetSeverity(c) != ferrors.SeverityWarning {
			level = "error"
			failed++
		}
		_, _ = fmt.Fprintf(out, "%s: %v\n", level, c)
	}
	if failed > 0 {
		return ferrors.ValidationError("options file has conflicting settings").
			WithContext("path", path).WithContext("count", failed).Build()
	}
	_, _ = fmt.Fprintf(out, "%s is valid\n", path)
	return nil
}
