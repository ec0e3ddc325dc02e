package urlbuilder

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/reflectmd/internal/reflection"
)

// anchorRegistry tracks the anchors handed out per page.
type anchorRegistry map[string]*pageAnchors

type pageAnchors struct {
	counts map[string]int
	used   map[string]struct{}
}

// allocate returns a unique anchor for id on page and whether it had to be
// suffixed.
func (a anchorRegistry) allocate(page, id string) (string, bool) {
	p, ok := a[page]
	if !ok {
		p = &pageAnchors{counts: map[string]int{}, used: map[string]struct{}{}}
		a[page] = p
	}
	n := p.counts[id]
	p.counts[id]++
	candidate := id
	if n > 0 {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	for {
		if _, taken := p.used[candidate]; !taken {
			break
		}
		n++
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	p.used[candidate] = struct{}{}
	return candidate, candidate != id
}

var anchorStrip = strings.NewReplacer(`\`, "", "[", "", "]", "")

// anchorName is the unnormalized anchor id for r, or "" when r is never
// anchored.
func anchorName(r *reflection.Reflection) string {
	switch r.Kind {
	case reflection.KindTypeParameter:
		return ""
	case reflection.KindConstructor:
		return "Constructors"
	}
	return anchorStrip.Replace(r.Name) + strings.Join(r.TypeParameterNames(), "-")
}

func (b *build) anchorID(r *reflection.Reflection) string {
	name := anchorName(r)
	if b.opts.PreserveAnchorCasing {
		return name
	}
	return strings.ToLower(name)
}

// applyAnchor places r inline on page. Under the members strategy the
// descendants of r are anchored on the same page as well.
func (b *build) applyAnchor(r *reflection.Reflection, page string, strategyFoldsMembers bool) {
	if _, done := b.placements[r]; !done {
		if id := b.anchorID(r); id != "" {
			anchor := b.mintAnchor(r, page, id)
			url := page + "#" + anchor
			if r.Kind == reflection.KindTypeLiteral {
				url = page
			}
			b.placements[r] = Placement{URL: url, Anchor: anchor}
		}
	}
	if strategyFoldsMembers {
		r.Traverse(func(child *reflection.Reflection) bool {
			b.applyAnchor(child, page, true)
			return true
		})
	}
}

func (b *build) mintAnchor(r *reflection.Reflection, page, id string) string {
	// A property nested in a type literal under another property shares the
	// outer property's anchor.
	if r.Kind == reflection.KindProperty {
		if gp := r.Ancestor(2); gp != nil && gp.Kind == reflection.KindProperty {
			if outer := b.placements[gp].Anchor; outer != "" {
				return outer
			}
		}
	}
	anchor, duplicate := b.anchors.allocate(page, id)
	b.recorder.IncAnchor()
	if duplicate {
		b.recorder.IncDuplicateAnchor()
	}
	return b.opts.AnchorPrefix + anchor
}
