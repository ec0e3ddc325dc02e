package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

// DefaultConfigFile is used when --config is not given and the file exists.
const DefaultConfigFile = "reflectmd.yaml"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Options file path (default reflectmd.yaml when present)" env:"REFLECTMD_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Render the model into Markdown pages"`
	URLs     URLsCmd     `cmd:"" name:"urls" help:"Print the URL mappings without rendering"`
	Validate ValidateCmd `cmd:"" help:"Check the options file for problems"`
	Init     InitCmd     `cmd:"" help:"Write an example options file"`

	out io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; set up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// OptionsPath is the options file to load, or "" for defaults.
func (c *CLI) OptionsPath() string {
	if c.Config != "" {
		return c.Config
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func logger(g *Global) *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// parseLogLevel maps -v and REFLECTMD_LOG_LEVEL to a level. The environment
// wins over the flag.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("REFLECTMD_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
