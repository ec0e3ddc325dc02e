// Package reflection is the read-only documentation model reflectmd renders:
// a tree of projects, modules, namespaces, declarations and members, with
// the groups, categories and documents that partition them.
//
// The tree is produced by a loader (LoadJSON, LoadYAML) and is never
// mutated afterwards; everything computed about a node lives in side tables.
package reflection

import "strings"

// Reflection is one node of the documentation model.
type Reflection struct {
	ID   int
	Name string
	Kind Kind

	// Parent is a lookup-only back reference set by Link.
	Parent *Reflection

	Children       []*Reflection
	Signatures     []*Reflection
	TypeParameters []*Reflection
	// TypeDeclaration is the type-literal declaration describing the shape of
	// a property or variable typed with an object literal.
	TypeDeclaration *Reflection

	Groups     []*Group
	Categories []*Reflection
	Documents  []*Reflection

	// Members lists the reflections a category node references. They remain
	// owned by their real parent.
	Members []*Reflection

	Readme         string
	Content        string
	PackageVersion string
}

// Group is a presentation partition of a reflection's children by kind.
type Group struct {
	Title      string
	Children   []*Reflection
	Categories []*Reflection
}

// NewCategory returns a category node titled title whose members are owned by owner.
func NewCategory(owner *Reflection, title string, members []*Reflection) *Reflection {
	return &Reflection{Name: title, Kind: KindCategory, Parent: owner, Members: members}
}

// IsDocument reports whether r is a free-standing document.
func (r *Reflection) IsDocument() bool { return r.Kind == KindDocument }

// IsDeclaration reports whether r is a declaration: anything that is not the
// project, a document, a category node, a signature or a parameter.
func (r *Reflection) IsDeclaration() bool {
	return !r.Kind.Is(KindProject, KindDocument, KindCategory, KindCallSignature, KindIndexSignature,
		KindConstructorSignature, KindGetSignature, KindSetSignature, KindParameter, KindTypeParameter)
}

// HasReadme reports whether a readme is attached.
func (r *Reflection) HasReadme() bool { return strings.TrimSpace(r.Readme) != "" }

// Traverse calls fn for each direct descendant in host order: type
// parameters, children, signatures, the type declaration, then documents.
// Traversal stops early when fn returns false.
func (r *Reflection) Traverse(fn func(*Reflection) bool) {
	for _, list := range [][]*Reflection{r.TypeParameters, r.Children, r.Signatures} {
		for _, c := range list {
			if !fn(c) {
				return
			}
		}
	}
	if r.TypeDeclaration != nil && !fn(r.TypeDeclaration) {
		return
	}
	for _, d := range r.Documents {
		if !fn(d) {
			return
		}
	}
}

// ChildrenIncludingDocuments returns children followed by documents.
func (r *Reflection) ChildrenIncludingDocuments() []*Reflection {
	out := make([]*Reflection, 0, len(r.Children)+len(r.Documents))
	out = append(out, r.Children...)
	return append(out, r.Documents...)
}

// FullName joins the names from the top-most non-project ancestor down to r.
func (r *Reflection) FullName(sep string) string {
	if r.Parent == nil || r.Parent.Kind == KindProject {
		return r.Name
	}
	return r.Parent.FullName(sep) + sep + r.Name
}

// Ancestor returns the n-th ancestor (1 = parent) or nil.
func (r *Reflection) Ancestor(n int) *Reflection {
	cur := r
	for i := 0; i < n && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// TypeParameterNames returns the names of r's type parameters.
func (r *Reflection) TypeParameterNames() []string {
	names := make([]string, 0, len(r.TypeParameters))
	for _, tp := range r.TypeParameters {
		names = append(names, tp.Name)
	}
	return names
}

// Link sets Parent on every node below root. Category nodes keep the owner
// they were created with.
func Link(root *Reflection) {
	var walk func(parent *Reflection)
	walk = func(parent *Reflection) {
		parent.Traverse(func(child *Reflection) bool {
			child.Parent = parent
			walk(child)
			return true
		})
		for _, c := range parent.Categories {
			c.Parent = parent
		}
		for _, g := range parent.Groups {
			for _, c := range g.Categories {
				c.Parent = parent
			}
		}
	}
	root.Parent = nil
	walk(root)
}

// Walk visits root and all its descendants depth-first, pre-order.
func Walk(root *Reflection, fn func(*Reflection)) {
	fn(root)
	root.Traverse(func(child *Reflection) bool {
		Walk(child, fn)
		return true
	})
}

// AutoGroup builds kind-based groups for every node in the tree that has
// children but no explicit groups, in the host's group order.
func AutoGroup(root *Reflection) {
	Walk(root, func(r *Reflection) {
		if len(r.Groups) > 0 || len(r.ChildrenIncludingDocuments()) == 0 || r.Kind == KindCategory {
			return
		}
		byKind := map[Kind][]*Reflection{}
		for _, c := range r.ChildrenIncludingDocuments() {
			byKind[c.Kind] = append(byKind[c.Kind], c)
		}
		for _, k := range groupOrder {
			if members, ok := byKind[k]; ok {
				r.Groups = append(r.Groups, &Group{Title: k.Plural(), Children: members})
				delete(byKind, k)
			}
		}
		for k := Kind(1); k <= KindCategory; k <<= 1 {
			if members, ok := byKind[k]; ok {
				r.Groups = append(r.Groups, &Group{Title: k.Plural(), Children: members})
			}
		}
	})
}
