package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"git.home.luguber.info/inful/reflectmd/internal/generate"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
)

// URLsCmd implements the 'urls' command.
type URLsCmd struct {
	Model   string `arg:"" help:"Reflection model: TypeDoc JSON output or a YAML tree" type:"path"`
	Format  string `short:"f" help:"Output format" enum:"text,json" default:"text"`
	Anchors bool   `short:"a" help:"Also list members placed as anchors"`
}

type urlEntry struct {
	URL      string `json:"url"`
	Template string `json:"template,omitempty"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`
}

func (u *URLsCmd) Run(g *Global, root *CLI) error {
	res, _, err := generate.New(nil, nil, logger(g)).Plan(generate.Request{
		ModelPath:   u.Model,
		OptionsPath: root.OptionsPath(),
	})
	if err != nil {
		return err
	}
	return u.print(root.stdout(), res)
}

func (u *URLsCmd) print(w io.Writer, res *urlbuilder.Result) error {
	entries := make([]urlEntry, 0, len(res.URLs))
	for _, m := range res.URLs {
		entries = append(entries, urlEntry{URL: m.URL, Template: m.Template.String(), Kind: m.Model.Kind.String(), Name: m.Model.Name, Group: m.Group})
	}
	if u.Anchors {
		reflection.Walk(res.Project, func(r *reflection.Reflection) {
			if p, ok := res.Placement(r); ok && p.Anchor != "" {
				entries = append(entries, urlEntry{URL: p.URL, Kind: r.Kind.String(), Name: r.Name})
			}
		})
	}

	if u.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		tmpl := e.Template
		if tmpl == "" {
			tmpl = "anchor"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s %s\n", e.URL, tmpl, e.Kind, e.Name); err != nil {
			return err
		}
	}
	return nil
}
