// Package navigation derives a nested navigation tree from the pages a URL
// build produced.
package navigation

import (
	"encoding/json"
	"io"

	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
)

// Item is one navigation entry. Group entries have no URL and only collect
// the pages reached through the same group.
type Item struct {
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	IsGroup  bool    `json:"isGroup,omitempty"`
	Children []*Item `json:"children,omitempty"`
}

// Build nests every page under the page of its nearest ancestor that has one.
// Pages whose only such ancestor is the project are top-level. Siblings keep
// build order and are bucketed by group title.
func Build(res *urlbuilder.Result) []*Item {
	items := map[*reflection.Reflection]*Item{}
	var order []urlbuilder.URLMapping
	for _, m := range res.URLs {
		if m.Template == templatemap.TemplateReadme || m.Model == res.Project {
			continue
		}
		if _, dup := items[m.Model]; dup {
			continue
		}
		items[m.Model] = &Item{Title: m.Model.Name, URL: m.URL, Kind: m.Model.Kind.String()}
		order = append(order, m)
	}

	var top []*Item
	for _, m := range order {
		item := items[m.Model]
		owner := nearestPage(m.Model.Parent, items)
		if owner == nil {
			top = addGrouped(top, m.Group, item)
			continue
		}
		parent := items[owner]
		parent.Children = addGrouped(parent.Children, m.Group, item)
	}
	return top
}

func nearestPage(r *reflection.Reflection, items map[*reflection.Reflection]*Item) *reflection.Reflection {
	for p := r; p != nil; p = p.Parent {
		if _, ok := items[p]; ok {
			return p
		}
	}
	return nil
}

func addGrouped(list []*Item, group string, item *Item) []*Item {
	if group == "" {
		return append(list, item)
	}
	for _, existing := range list {
		if existing.IsGroup && existing.Title == group {
			existing.Children = append(existing.Children, item)
			return list
		}
	}
	return append(list, &Item{Title: group, IsGroup: true, Children: []*Item{item}})
}

// WriteJSON writes items as indented JSON.
func WriteJSON(w io.Writer, items []*Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
