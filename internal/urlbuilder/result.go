package urlbuilder

import (
	"strings"

	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
)

// URLMapping is one page to render.
type URLMapping struct {
	URL      string
	Model    *reflection.Reflection
	Template templatemap.Template
	// Group is the title of the group the model was reached through, if any.
	Group string
}

// Placement is where a reflection ended up.
type Placement struct {
	URL            string
	Anchor         string
	HasOwnDocument bool
}

// Result is the output of one Build.
type Result struct {
	Project *reflection.Reflection
	URLs    []URLMapping

	placements map[*reflection.Reflection]Placement
}

// Placement returns the placement of r, if it has one.
func (r *Result) Placement(x *reflection.Reflection) (Placement, bool) {
	p, ok := r.placements[x]
	return p, ok
}

// URL returns the URL of x or "" when x was not placed.
func (r *Result) URL(x *reflection.Reflection) string { return r.placements[x].URL }

// Anchor returns the anchor of x or "" when x has none.
func (r *Result) Anchor(x *reflection.Reflection) string { return r.placements[x].Anchor }

// HasOwnDocument reports whether x is rendered as its own page.
func (r *Result) HasOwnDocument(x *reflection.Reflection) bool {
	return r.placements[x].HasOwnDocument
}

// PageURL returns the URL of the page x is rendered on, without fragment.
func (r *Result) PageURL(x *reflection.Reflection) string {
	return pageOf(r.placements[x].URL)
}

// Len returns the number of placed reflections.
func (r *Result) Len() int { return len(r.placements) }

func pageOf(url string) string {
	page, _, _ := strings.Cut(url, "#")
	return page
}
