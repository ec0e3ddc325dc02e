// Package options loads, normalizes, validates and resolves the settings
// that drive URL building and rendering.
package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultMembersWithOwnFile lists the kinds that get a page under the
// members and categories strategies.
var DefaultMembersWithOwnFile = []string{"Class", "Interface", "Enum", "Variable", "Function", "TypeAlias"}

// Options is the on-disk configuration. Zero values mean "use the default".
type Options struct {
	Out                  string                    `yaml:"out,omitempty"`
	FileExtension        string                    `yaml:"file_extension,omitempty"`
	OutputFileStrategy   OutputFileStrategy        `yaml:"output_file_strategy,omitempty"`
	EntryPointStrategy   EntryPointStrategy        `yaml:"entry_point_strategy,omitempty"`
	ExcludeScopesInPaths bool                      `yaml:"exclude_scopes_in_paths,omitempty"`
	EntryFileName        string                    `yaml:"entry_file_name,omitempty"`
	ModulesFileName      string                    `yaml:"modules_file_name,omitempty"`
	EntryModule          string                    `yaml:"entry_module,omitempty"`
	FlattenOutputFiles   bool                      `yaml:"flatten_output_files,omitempty"`
	MergeReadme          bool                      `yaml:"merge_readme,omitempty"`
	AnchorPrefix         string                    `yaml:"anchor_prefix,omitempty"`
	PreserveAnchorCasing bool                      `yaml:"preserve_anchor_casing,omitempty"`
	CategorizeByGroup    bool                      `yaml:"categorize_by_group,omitempty"`
	MembersWithOwnFile   []string                  `yaml:"members_with_own_file,omitempty"`
	UseHTMLAnchors       bool                      `yaml:"use_html_anchors,omitempty"`
	PublicPath           string                    `yaml:"public_path,omitempty"`
	Packages             map[string]PackageOptions `yaml:"packages,omitempty"`
}

// PackageOptions are the per-package overrides honoured in packages mode.
type PackageOptions struct {
	OutputFileStrategy OutputFileStrategy `yaml:"output_file_strategy,omitempty"`
	EntryModule        string             `yaml:"entry_module,omitempty"`
	EntryFileName      string             `yaml:"entry_file_name,omitempty"`
}

// Load reads options from path. Variables from .env/.env.local are loaded
// first (never overriding the process environment) and ${VAR} references in
// the file are expanded.
func Load(path string) (*Options, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("options file not found").WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read options file").Fatal().
			WithContext("path", path).Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes options from YAML bytes. Unknown keys are rejected.
func Parse(data []byte) (*Options, error) {
	var o Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode options").Fatal().Build()
	}
	return &o, nil
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		// godotenv.Load keeps variables that are already set.
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", name, err)
		}
	}
}

// Init writes a default options file to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("options file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	example := Options{
		Out:                "./docs/api",
		FileExtension:      ".md",
		OutputFileStrategy: StrategyMembers,
		EntryPointStrategy: EntryPointsResolve,
		EntryFileName:      "README",
		MembersWithOwnFile: DefaultMembersWithOwnFile,
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal options").Fatal().Build()
	}
	header := "# reflectmd options. See output_file_strategy: modules | members | categories.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write options file").Fatal().
			WithContext("path", path).Build()
	}
	return nil
}
