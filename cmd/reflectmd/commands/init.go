package commands

import (
	"fmt"

	"git.home.luguber.info/inful/reflectmd/internal/options"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing options file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = DefaultConfigFile
	}
	if err := options.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(root.stdout(), "Wrote options to %s\n", path)
	return nil
}
