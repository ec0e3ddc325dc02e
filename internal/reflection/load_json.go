package reflection

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
)

// jsonReflection mirrors the subset of the host's serialized model we read.
type jsonReflection struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	Variant         string            `json:"variant"`
	Kind            int               `json:"kind"`
	Children        []*jsonReflection `json:"children"`
	Signatures      []*jsonReflection `json:"signatures"`
	IndexSignatures []*jsonReflection `json:"indexSignatures"`
	GetSignature    *jsonReflection   `json:"getSignature"`
	SetSignature    *jsonReflection   `json:"setSignature"`
	TypeParameters  []*jsonReflection `json:"typeParameters"`
	Type            *jsonType         `json:"type"`
	Groups          []jsonGroup       `json:"groups"`
	Categories      []jsonCategory    `json:"categories"`
	Documents       []*jsonReflection `json:"documents"`
	Readme          []jsonPart        `json:"readme"`
	Content         []jsonPart        `json:"content"`
	PackageVersion  string            `json:"packageVersion"`
}

type jsonType struct {
	Type        string          `json:"type"`
	Declaration *jsonReflection `json:"declaration"`
	ElementType *jsonType       `json:"elementType"`
}

type jsonGroup struct {
	Title      string         `json:"title"`
	Children   []int          `json:"children"`
	Categories []jsonCategory `json:"categories"`
}

type jsonCategory struct {
	Title    string `json:"title"`
	Children []int  `json:"children"`
}

type jsonPart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// LoadJSON decodes a project model serialized by the host compiler.
func LoadJSON(r io.Reader) (*Reflection, error) {
	var raw jsonReflection
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInput, "decode JSON model").Fatal().Build()
	}
	if Kind(raw.Kind) != KindProject {
		return nil, ferrors.WrapError(ErrNotProject, ferrors.CategoryInput, "decode JSON model").
			Fatal().WithContext("kind", raw.Kind).Build()
	}
	project, err := fromJSON(&raw)
	if err != nil {
		return nil, err
	}
	Link(project)
	return project, nil
}

func fromJSON(raw *jsonReflection) (*Reflection, error) {
	kind := Kind(raw.Kind)
	if !kind.Valid() {
		return nil, ferrors.WrapError(ErrUnknownKind, ferrors.CategoryInput, "decode JSON model").
			Fatal().WithContext("id", raw.ID).WithContext("kind", raw.Kind).Build()
	}
	r := &Reflection{
		ID:             raw.ID,
		Name:           raw.Name,
		Kind:           kind,
		Readme:         joinParts(raw.Readme),
		Content:        joinParts(raw.Content),
		PackageVersion: raw.PackageVersion,
	}

	var err error
	if r.Children, err = fromJSONList(raw.Children); err != nil {
		return nil, err
	}
	if r.TypeParameters, err = fromJSONList(raw.TypeParameters); err != nil {
		return nil, err
	}
	signatures := append([]*jsonReflection{}, raw.Signatures...)
	signatures = append(signatures, raw.IndexSignatures...)
	for _, accessor := range []*jsonReflection{raw.GetSignature, raw.SetSignature} {
		if accessor != nil {
			signatures = append(signatures, accessor)
		}
	}
	if r.Signatures, err = fromJSONList(signatures); err != nil {
		return nil, err
	}
	if r.Documents, err = fromJSONList(raw.Documents); err != nil {
		return nil, err
	}
	if decl := typeDeclaration(raw.Type); decl != nil {
		if r.TypeDeclaration, err = fromJSON(decl); err != nil {
			return nil, err
		}
	}

	byID := make(map[int]*Reflection, len(r.Children)+len(r.Documents))
	for _, c := range r.ChildrenIncludingDocuments() {
		byID[c.ID] = c
	}
	resolve := func(ids []int, where string) ([]*Reflection, error) {
		out := make([]*Reflection, 0, len(ids))
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				return nil, ferrors.WrapError(ErrUnknownReference, ferrors.CategoryInput, "resolve "+where).
					Fatal().WithContext("reflection", raw.Name).WithContext("id", id).Build()
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

func fromJSONList(raws []*jsonReflection) ([]*Reflection, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]*Reflection, 0, len(raws))
	for _, raw := range raws {
		r, err := fromJSON(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// typeDeclaration finds the object-literal declaration of a type, looking
// through array element types ({ a: string }[]).
func typeDeclaration(t *jsonType) *jsonReflection {
	for t != nil {
		switch t.Type {
		case "reflection":
			return t.Declaration
		case "array":
			t = t.ElementType
		default:
			return nil
		}
	}
	return nil
}

func joinParts(parts []jsonPart) string {
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// String renders a short description for logs.
func (r *Reflection) String() string {
	return fmt.Sprintf("%s %q", r.Kind, r.Name)
}
