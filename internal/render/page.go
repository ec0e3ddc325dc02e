package render

import (
	"git.home.luguber.info/inful/reflectmd/internal/links"
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
)

// Page is everything a Theme gets to render one output file.
type Page struct {
	URL      string
	Model    *reflection.Reflection
	Template templatemap.Template
	Group    string

	Result  *urlbuilder.Result
	Links   *links.Resolver
	Options options.Resolved
}

// Title is the page heading.
func (p Page) Title() string {
	switch {
	case p.Template == templatemap.TemplateReadme:
		return p.Model.Name
	case p.Model.Kind == reflection.KindProject:
		return p.Model.Name
	case p.Model.Kind == reflection.KindCategory:
		return p.Model.Name
	}
	return p.Model.Kind.Singular() + ": " + p.Model.Name
}

// Section is one group of a page's members. With categorize_by_group the
// categorized members move into Categories and Entries keeps the rest.
type Section struct {
	Title      string
	Entries    []Entry
	Categories []Section
}

// Entry is a member listed on a page. Members with their own page are linked;
// the rest are rendered inline below an anchor.
type Entry struct {
	Name    string
	Kind    string
	Href    string
	Anchor  string
	Inline  bool
	Members []Entry
}

// Sections lists the members of the page model by group. Category pages list
// their members as a single section.
func (p Page) Sections() []Section {
	if p.Model.Kind == reflection.KindCategory {
		return []Section{{Title: p.Model.Name, Entries: p.entries(p.Model.Members, true)}}
	}
	out := make([]Section, 0, len(p.Model.Groups))
	for _, g := range p.Model.Groups {
		if !p.Options.CategorizeByGroup || len(g.Categories) == 0 {
			out = append(out, Section{Title: g.Title, Entries: p.entries(g.Children, true)})
			continue
		}
		categorized := map[*reflection.Reflection]bool{}
		sec := Section{Title: g.Title}
		for _, c := range g.Categories {
			for _, m := range c.Members {
				categorized[m] = true
			}
			sec.Categories = append(sec.Categories, Section{Title: c.Name, Entries: p.entries(c.Members, true)})
		}
		var rest []*reflection.Reflection
		for _, c := range g.Children {
			if !categorized[c] {
				rest = append(rest, c)
			}
		}
		sec.Entries = p.entries(rest, true)
		out = append(out, sec)
	}
	return out
}

// InlineEntries lists, in section order, the entries rendered on this page
// below their anchors.
func (p Page) InlineEntries() []Entry {
	var out []Entry
	var collect func([]Section)
	collect = func(secs []Section) {
		for _, s := range secs {
			for _, e := range s.Entries {
				if e.Inline {
					out = append(out, e)
				}
			}
			collect(s.Categories)
		}
	}
	collect(p.Sections())
	return out
}

func (p Page) entries(children []*reflection.Reflection, nest bool) []Entry {
	out := make([]Entry, 0, len(children))
	for _, c := range children {
		e := Entry{Name: c.Name, Kind: c.Kind.String()}
		if target := p.Result.URL(c); target != "" {
			e.Href = p.Links.Relative(p.URL, target)
		}
		// Inline members are the ones placed on this very page.
		if !p.Result.HasOwnDocument(c) && p.Result.PageURL(c) == p.URL {
			e.Inline = true
			e.Anchor = p.Result.Anchor(c)
			if nest {
				e.Members = p.entries(c.Children, false)
			}
		}
		out = append(out, e)
	}
	return out
}

// Body is the free text attached to the model: the readme on readme pages,
// the document content on document pages.
func (p Page) Body() string {
	switch p.Template {
	case templatemap.TemplateReadme:
		return p.Model.Readme
	case templatemap.TemplateDocument:
		return p.Model.Content
	}
	return ""
}
