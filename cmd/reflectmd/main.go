package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/reflectmd/cmd/reflectmd/commands"
	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
)

// version is set at link time.
var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("reflectmd"),
		kong.Description("Render a TypeDoc reflection model into Markdown pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
