// Package templatemap decides, per reflection kind and output file strategy,
// whether a reflection gets its own page, which directory holds that page
// and which template renders it.
package templatemap

import (
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/pathutil"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/util/sets"
)

// Template identifies a page template. The set is closed.
type Template int

const (
	TemplateProject Template = iota
	TemplateReadme
	TemplateModule
	TemplateNamespace
	TemplateReflection
	TemplateMember
	TemplateDocument
	TemplateCategory
)

var templateNames = [...]string{"project", "readme", "module", "namespace", "reflection", "member", "document", "category"}

func (t Template) String() string {
	if int(t) < len(templateNames) {
		return templateNames[t]
	}
	return "unknown"
}

// Mapping describes a kind that owns a page.
type Mapping struct {
	Kind      reflection.Kind
	Directory string // empty: the page sits in its parent's directory
	Template  Template
	// IsLeaf marks pages that never hold child pages of their own.
	IsLeaf bool
}

// Resolver answers Resolve from a table built once per option set.
type Resolver struct {
	tables map[options.OutputFileStrategy]map[reflection.Kind]Mapping
}

// New builds the lookup tables. membersWithOwnFile limits which declaration
// kinds get pages under the members and categories strategies.
func New(membersWithOwnFile sets.Set[reflection.Kind]) *Resolver {
	r := &Resolver{tables: map[options.OutputFileStrategy]map[reflection.Kind]Mapping{}}
	for _, s := range []options.OutputFileStrategy{options.StrategyModules, options.StrategyMembers, options.StrategyCategories} {
		r.tables[s] = buildTable(s, membersWithOwnFile)
	}
	return r
}

func buildTable(strategy options.OutputFileStrategy, members sets.Set[reflection.Kind]) map[reflection.Kind]Mapping {
	t := map[reflection.Kind]Mapping{
		reflection.KindModule:    {Kind: reflection.KindModule, Template: TemplateModule},
		reflection.KindNamespace: {Kind: reflection.KindNamespace, Directory: dirFor(reflection.KindNamespace), Template: TemplateNamespace},
		reflection.KindDocument:  {Kind: reflection.KindDocument, Directory: dirFor(reflection.KindDocument), Template: TemplateDocument},
	}
	if strategy == options.StrategyModules {
		return t
	}
	add := func(k reflection.Kind, tmpl Template, leaf bool) {
		if members.Has(k) {
			t[k] = Mapping{Kind: k, Directory: dirFor(k), Template: tmpl, IsLeaf: leaf}
		}
	}
	add(reflection.KindClass, TemplateReflection, false)
	add(reflection.KindInterface, TemplateReflection, false)
	add(reflection.KindEnum, TemplateReflection, false)
	add(reflection.KindFunction, TemplateMember, true)
	add(reflection.KindVariable, TemplateMember, true)
	add(reflection.KindTypeAlias, TemplateMember, true)

	if strategy == options.StrategyCategories {
		t[reflection.KindCategory] = Mapping{Kind: reflection.KindCategory, Template: TemplateCategory}
	}
	return t
}

func dirFor(k reflection.Kind) string { return pathutil.Slugify(k.Plural()) }

// Resolve returns the mapping for kind under strategy. The second result is
// false when reflections of that kind are rendered inline.
func (r *Resolver) Resolve(kind reflection.Kind, strategy options.OutputFileStrategy) (Mapping, bool) {
	t, ok := r.tables[strategy]
	if !ok {
		return Mapping{}, false
	}
	m, ok := t[kind]
	return m, ok
}
