package reflection

import (
	"io"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// yamlNode is the compact, hand-written model format used by fixtures.
// Kinds are names, groups and categories refer to children by name, and
// groups are generated per kind when omitted.
type yamlNode struct {
	Name           string      `yaml:"name"`
	Kind           string      `yaml:"kind"`
	Children       []*yamlNode `yaml:"children,omitempty"`
	Signatures     []*yamlNode `yaml:"signatures,omitempty"`
	TypeParameters []string    `yaml:"typeParameters,omitempty"`
	Type           []*yamlNode `yaml:"type,omitempty"`
	Groups         []yamlGroup `yaml:"groups,omitempty"`
	Categories     []yamlGroup `yaml:"categories,omitempty"`
	Documents      []*yamlNode `yaml:"documents,omitempty"`
	Readme         string      `yaml:"readme,omitempty"`
	Content        string      `yaml:"content,omitempty"`
	PackageVersion string      `yaml:"packageVersion,omitempty"`
}

type yamlGroup struct {
	Title      string      `yaml:"title"`
	Children   []string    `yaml:"children"`
	Categories []yamlGroup `yaml:"categories,omitempty"`
}

// LoadYAML decodes a fixture model. The root must be a project.
func LoadYAML(r io.Reader) (*Reflection, error) {
	var raw yamlNode
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInput, "decode YAML model").Fatal().Build()
	}
	if raw.Kind == "" {
		raw.Kind = KindProject.String()
	}
	ids := 0
	project, err := fromYAML(&raw, &ids)
	if err != nil {
		return nil, err
	}
	if project.Kind != KindProject {
		return nil, ferrors.WrapError(ErrNotProject, ferrors.CategoryInput, "decode YAML model").
			Fatal().WithContext("kind", project.Kind.String()).Build()
	}
	Link(project)
	AutoGroup(project)
	return project, nil
}

func fromYAML(raw *yamlNode, ids *int) (*Reflection, error) {
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInput, "decode YAML model").
			Fatal().WithContext("reflection", raw.Name).Build()
	}
	r := &Reflection{
		ID:             *ids,
		Name:           raw.Name,
		Kind:           kind,
		Readme:         raw.Readme,
		Content:        raw.Content,
		PackageVersion: raw.PackageVersion,
	}
	*ids++

	for _, tp := range raw.TypeParameters {
		r.TypeParameters = append(r.TypeParameters, &Reflection{ID: *ids, Name: tp, Kind: KindTypeParameter})
		*ids++
	}
	lists := []struct {
		src []*yamlNode
		dst *[]*Reflection
	}{
		{raw.Children, &r.Children},
		{raw.Signatures, &r.Signatures},
		{raw.Documents, &r.Documents},
	}
	for _, l := range lists {
		for _, c := range l.src {
			child, err := fromYAML(c, ids)
			if err != nil {
				return nil, err
			}
			*l.dst = append(*l.dst, child)
		}
	}
	if len(raw.Type) > 0 {
		decl := &Reflection{ID: *ids, Name: "__type", Kind: KindTypeLiteral}
		*ids++
		for _, c := range raw.Type {
			child, err := fromYAML(c, ids)
			if err != nil {
				return nil, err
			}
			decl.Children = append(decl.Children, child)
		}
		r.TypeDeclaration = decl
	}

	byName := map[string]*Reflection{}
	for _, c := range r.ChildrenIncludingDocuments() {
		if _, seen := byName[c.Name]; !seen {
			byName[c.Name] = c
		}
	}
	resolve := func(names []string, where string) ([]*Reflection, error) {
		out := make([]*Reflection, 0, len(names))
		for _, n := range names {
			c, ok := byName[n]
			if !ok {
				return nil, ferrors.WrapError(ErrUnknownReference, ferrors.CategoryInput, "resolve "+where).
					Fatal().WithContext("reflection", raw.Name).WithContext("name", n).Build()
			}
			out = append(out, c)
		}
		return out, nil
	}
	for _, g := range raw.Groups {
		children, err := resolve(g.Children, "group "+g.Title)
		if err != nil {
			return nil, err
		}
		group := &Group{Title: g.Title, Children: children}
		for _, c := range g.Categories {
			members, err := resolve(c.Children, "category "+c.Title)
			if err != nil {
				return nil, err
			}
			group.Categories = append(group.Categories, NewCategory(r, c.Title, members))
		}
		r.Groups = append(r.Groups, group)
	}
	for _, c := range raw.Categories {
		members, err := resolve(c.Children, "category "+c.Title)
		if err != nil {
			return nil, err
		}
		r.Categories = append(r.Categories, NewCategory(r, c.Title, members))
	}
	return r, nil
}
