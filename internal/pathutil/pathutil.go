// Package pathutil holds the pure string helpers used to turn reflection
// names into file names, directory names and path segments.
package pathutil

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultExtension is used when no file extension is configured.
const DefaultExtension = ".md"

var (
	separatorRun   = regexp.MustCompile(`[\s_]+`)
	illegalInNames = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

	markdownExtensions = []string{".markdown", ".mdx", ".md"}
)

// Slugify lowercases s, collapses runs of whitespace and underscores into a
// single hyphen and drops characters that are not allowed in file names.
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = separatorRun.ReplaceAllString(s, "-")
	return illegalInNames.ReplaceAllString(s, "")
}

// StripScope removes a leading npm scope segment ("@scope/pkg/x" -> "pkg/x").
// Backslashes are normalized first so Windows-style input gives the same result.
func StripScope(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	first, rest, found := strings.Cut(p, "/")
	if !found || !strings.HasPrefix(first, "@") {
		return p
	}
	return rest
}

// NormalizeExtension returns ext with exactly one leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	return "." + strings.TrimLeft(ext, ".")
}

// WithExtension gives name the extension ext. A name already ending in ext is
// returned unchanged and a trailing Markdown extension is swapped for ext, so
// the extension is never doubled.
func WithExtension(name, ext string) string {
	ext = NormalizeExtension(ext)
	if strings.HasSuffix(name, ext) {
		return name
	}
	lower := strings.ToLower(name)
	for _, known := range markdownExtensions {
		if strings.HasSuffix(lower, known) {
			return name[:len(name)-len(known)] + ext
		}
	}
	return name + ext
}

// TrimExtension removes ext (or any Markdown extension) from name.
func TrimExtension(name, ext string) string {
	ext = NormalizeExtension(ext)
	if strings.HasSuffix(name, ext) {
		return strings.TrimSuffix(name, ext)
	}
	lower := strings.ToLower(name)
	for _, known := range markdownExtensions {
		if strings.HasSuffix(lower, known) {
			return name[:len(name)-len(known)]
		}
	}
	return name
}

// IsQuoted reports whether name is wrapped in double quotes, which is how the
// host names modules declared with string literals (declare module "a/b").
func IsQuoted(name string) bool {
	return len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`)
}

// ToAlias converts a reflection name into a file-name-safe alias.
func ToAlias(name string) string {
	if IsQuoted(name) {
		name = strings.ReplaceAll(name, "/", "_")
	}
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.Trim(name, "_")
	return strings.NewReplacer("<", "-", ">", "-").Replace(name)
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ToTitleCase upper-cases the first letter of every alphanumeric token and
// joins the tokens with single spaces ("type_alias" -> "Type Alias").
func ToTitleCase(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	parts := tokens(s)
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, " ")
}

// ToPascalCase is ToTitleCase without separators ("Type Alias" -> "TypeAlias").
func ToPascalCase(s string) string {
	return strings.ReplaceAll(ToTitleCase(s), " ", "")
}

// Dir returns the forward-slash directory of p, or "" for a top-level name.
func Dir(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// Join joins the non-empty segments with "/".
func Join(segments ...string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" && s != "." {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}
