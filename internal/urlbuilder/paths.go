package urlbuilder

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/pathutil"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
)

// urlPath is the standard location of r's page:
// parent directory, kind directory, then file name.
func (b *build) urlPath(r *reflection.Reflection, ctx walkContext, directory string) string {
	alias := pathutil.ToAlias(r.Name)
	entryBase := path.Base(pathutil.TrimExtension(ctx.entryFileName, b.opts.FileExtension))

	var dir string
	switch {
	case r.Kind == reflection.KindCategory:
		if hasNamespaces(r) {
			dir = pathutil.Slugify(r.Name)
		}
	case r.Kind == reflection.KindNamespace:
		base := directory
		if ctx.strategy == options.StrategyCategories && ctx.category != "" {
			base = pathutil.Join(pathutil.Slugify(ctx.category), directory)
		}
		dir = pathutil.Join(base, alias)
	case r.Kind == reflection.KindModule:
		dir = alias
	case directory != "":
		dir = directory
	default:
		dir = pathutil.Slugify(r.Kind.Singular()) + "." + alias
	}

	var filename string
	switch {
	case r.Kind.Is(reflection.KindModule, reflection.KindNamespace) &&
		ctx.strategy == options.StrategyModules && !hasSubfolders(r):
		filename = ""
	case r.Kind.Is(reflection.KindModule, reflection.KindNamespace),
		r.Kind == reflection.KindCategory && hasNamespaces(r):
		filename = entryBase
	default:
		filename = alias
	}

	return pathutil.WithExtension(pathutil.Join(pathutil.Dir(ctx.parentURL), dir, filename), b.opts.FileExtension)
}

// url applies the entry module and index module rules to urlPath.
func (b *build) url(r *reflection.Reflection, urlPath string, ctx walkContext) string {
	if isEntryModule(r, ctx.entryModule) {
		return ctx.entryFileName
	}
	entryBase := path.Base(pathutil.TrimExtension(ctx.entryFileName, b.opts.FileExtension))
	if ctx.strategy == options.StrategyModules && r.Name == "index" && entryBase == "index" {
		ext := b.opts.FileExtension
		return strings.Replace(urlPath, "index"+ext, "module_index"+ext, 1)
	}
	return urlPath
}

// flattenedURL puts every page in one directory, joining the full name with
// dots and tagging non-module kinds ("a.b.Class.Baz.md"). A leading
// "@scope/" is dropped when scopes are excluded from paths.
func (b *build) flattenedURL(r *reflection.Reflection, ctx walkContext) string {
	if isEntryModule(r, ctx.entryModule) {
		return ctx.entryFileName
	}
	name := r.FullName(".")
	if b.opts.ExcludeScopesInPaths {
		name = pathutil.StripScope(name)
	}
	parts := strings.Split(strings.ReplaceAll(name, "/", "."), ".")
	if r.Kind != reflection.KindModule {
		last := len(parts) - 1
		tag := pathutil.ToPascalCase(r.Kind.Singular())
		parts = append(parts[:last], tag, parts[last])
	}
	url := strings.Join(parts, ".") + b.opts.FileExtension
	url = strings.ReplaceAll(url, `"`, "")
	url = strings.ReplaceAll(url, " ", "-")
	return strings.TrimPrefix(url, ".")
}

// indexFileName is the name of the generated index page of node.
func (b *build) indexFileName(node *reflection.Reflection, packages bool) string {
	ext := b.opts.FileExtension
	switch {
	case b.opts.ModulesFileName != "":
		return b.opts.ModulesFileName
	case packages:
		return pathutil.WithExtension("packages", ext)
	case allModules(node):
		return pathutil.WithExtension("modules", ext)
	default:
		return pathutil.WithExtension("globals", ext)
	}
}

// entryModule returns the child of node named name when it is listed in the
// first group and every child of node is a module.
func entryModule(node *reflection.Reflection, name string) *reflection.Reflection {
	if name == "" || len(node.Groups) == 0 || !allModules(node) {
		return nil
	}
	for _, c := range node.Groups[0].Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func isEntryModule(r *reflection.Reflection, name string) bool {
	return name != "" && r.Kind == reflection.KindModule && r.Name == name
}

func allModules(node *reflection.Reflection) bool {
	for _, c := range node.Children {
		if c.Kind != reflection.KindModule {
			return false
		}
	}
	return true
}

func hasSubfolders(r *reflection.Reflection) bool {
	for _, c := range r.ChildrenIncludingDocuments() {
		if c.Kind.Is(reflection.KindNamespace, reflection.KindDocument) {
			return true
		}
	}
	return false
}

func hasNamespaces(category *reflection.Reflection) bool {
	for _, m := range category.Members {
		if m.Kind == reflection.KindNamespace {
			return true
		}
	}
	return false
}
