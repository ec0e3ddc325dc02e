package urlbuilder

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
	"github.com/stretchr/testify/require"
)

const twoModules = `
name: fixture
children:
  - name: module-1
    kind: Module
    children:
      - name: Foo
        kind: Class
        typeParameters: [T]
        children:
          - name: constructor
            kind: Constructor
          - name: bar
            kind: Property
          - name: baz
            kind: Method
            signatures:
              - {name: baz, kind: CallSignature}
      - name: helper
        kind: Function
  - name: module-2
    kind: Module
    categories:
      - title: Widgets
        children: [Widget]
    children:
      - name: Widget
        kind: Interface
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func load(t *testing.T, src string) *reflection.Reflection {
	t.Helper()
	project, err := reflection.LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	return project
}

func buildResult(t *testing.T, o options.Options, src string) *Result {
	t.Helper()
	opts := options.Resolve(&o)
	return New(opts, nil, nil, discardLogger()).Build(load(t, src))
}

func urlsOf(r *Result) []string {
	out := make([]string, 0, len(r.URLs))
	for _, m := range r.URLs {
		out = append(out, m.URL)
	}
	return out
}

func find(t *testing.T, root *reflection.Reflection, fullName string) *reflection.Reflection {
	t.Helper()
	var found *reflection.Reflection
	reflection.Walk(root, func(r *reflection.Reflection) {
		if found == nil && r.Kind != reflection.KindProject && r.FullName(".") == fullName {
			found = r
		}
	})
	require.NotNil(t, found, fullName)
	return found
}

func TestBuildMembersStrategy(t *testing.T) {
	res := buildResult(t, options.Options{}, twoModules)
	require.Equal(t, []string{
		"README.md",
		"module-1/README.md",
		"module-1/classes/Foo.md",
		"module-1/functions/helper.md",
		"module-2/README.md",
		"module-2/interfaces/Widget.md",
	}, urlsOf(res))

	require.Equal(t, templatemap.TemplateProject, res.URLs[0].Template)
	require.Equal(t, templatemap.TemplateModule, res.URLs[1].Template)
	require.Equal(t, "Modules", res.URLs[1].Group)
	require.Equal(t, templatemap.TemplateReflection, res.URLs[2].Template)
	require.Equal(t, "Classes", res.URLs[2].Group)
	require.Equal(t, templatemap.TemplateMember, res.URLs[3].Template)

	foo := find(t, res.Project, "module-1.Foo")
	require.True(t, res.HasOwnDocument(foo))
	require.Equal(t, "module-1/classes/Foo.md", res.URL(foo))

	bar := find(t, res.Project, "module-1.Foo.bar")
	require.False(t, res.HasOwnDocument(bar))
	require.Equal(t, "module-1/classes/Foo.md#bar", res.URL(bar))
	require.Equal(t, "bar", res.Anchor(bar))
	require.Equal(t, "module-1/classes/Foo.md", res.PageURL(bar))

	ctor := find(t, res.Project, "module-1.Foo.constructor")
	require.Equal(t, "constructors", res.Anchor(ctor))

	tp := find(t, res.Project, "module-1.Foo.T")
	_, placed := res.Placement(tp)
	require.False(t, placed, "type parameters are never anchored")
}

func TestBuildModulesStrategy(t *testing.T) {
	res := buildResult(t, options.Options{OutputFileStrategy: options.StrategyModules}, twoModules)
	require.Equal(t, []string{"README.md", "module-1.md", "module-2.md"}, urlsOf(res))

	foo := find(t, res.Project, "module-1.Foo")
	require.Equal(t, "module-1.md#foot", res.URL(foo))
	bar := find(t, res.Project, "module-1.Foo.bar")
	require.Equal(t, "module-1.md#bar", res.URL(bar))
	widget := find(t, res.Project, "module-2.Widget")
	require.Equal(t, "module-2.md#widget", res.URL(widget))
}

func TestBuildIsDeterministic(t *testing.T) {
	opts := options.Resolve(&options.Options{})
	b := New(opts, nil, nil, discardLogger())
	project := load(t, twoModules)

	first := b.Build(project)
	second := b.Build(project)
	require.Equal(t, urlsOf(first), urlsOf(second))

	reflection.Walk(project, func(r *reflection.Reflection) {
		p1, ok1 := first.Placement(r)
		p2, ok2 := second.Placement(r)
		require.Equal(t, ok1, ok2)
		require.Equal(t, p1, p2)
	})
}

func TestBuildUniquenessAndCoverage(t *testing.T) {
	strategies := []options.OutputFileStrategy{options.StrategyModules, options.StrategyMembers, options.StrategyCategories}
	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			res := buildResult(t, options.Options{OutputFileStrategy: s}, twoModules)

			seen := map[string]bool{}
			for _, m := range res.URLs {
				key := strings.ToLower(m.URL)
				require.False(t, seen[key], "duplicate url %s", m.URL)
				seen[key] = true
			}

			pages := map[*reflection.Reflection]int{}
			for _, m := range res.URLs {
				if m.Template != templatemap.TemplateReadme {
					pages[m.Model]++
				}
			}
			anchorsPerPage := map[string]map[string]*reflection.Reflection{}
			reflection.Walk(res.Project, func(r *reflection.Reflection) {
				p, ok := res.Placement(r)
				if !ok {
					return
				}
				if p.HasOwnDocument {
					require.Equal(t, 1, pages[r], r.Name)
					return
				}
				if r.Kind == reflection.KindProject {
					return
				}
				require.True(t, seen[strings.ToLower(res.PageURL(r))], "anchor container %s is not a page", p.URL)
				if r.Kind == reflection.KindTypeLiteral || (r.Kind == reflection.KindProperty && r.Ancestor(2).Kind == reflection.KindProperty) {
					return
				}
				page := res.PageURL(r)
				if anchorsPerPage[page] == nil {
					anchorsPerPage[page] = map[string]*reflection.Reflection{}
				}
				prev, dup := anchorsPerPage[page][p.Anchor]
				require.False(t, dup, "anchor %s used by %s and %s", p.Anchor, r.Name, nameOf(prev))
				anchorsPerPage[page][p.Anchor] = r
			})
		})
	}
}

func nameOf(r *reflection.Reflection) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func TestBuildCollisionSuffix(t *testing.T) {
	src := `
name: p
children:
  - {name: Foo, kind: Module}
  - {name: foo, kind: Module}
  - {name: FOO, kind: Module}
`
	res := buildResult(t, options.Options{OutputFileStrategy: options.StrategyModules}, src)
	require.Equal(t, []string{"README.md", "Foo.md", "foo-1.md", "FOO-2.md"}, urlsOf(res))

	res = buildResult(t, options.Options{}, src)
	require.Equal(t, []string{"README.md", "Foo/README.md", "foo/README-1.md", "FOO/README-2.md"}, urlsOf(res))
}

type countingRecorder struct {
	metrics.NoopRecorder
	collisions, anchors, duplicates int
}

func (c *countingRecorder) IncCollision()       { c.collisions++ }
func (c *countingRecorder) IncAnchor()          { c.anchors++ }
func (c *countingRecorder) IncDuplicateAnchor() { c.duplicates++ }

func TestBuildRecordsMetrics(t *testing.T) {
	src := `
name: p
children:
  - name: Foo
    kind: Module
    children:
      - {name: x, kind: Variable}
      - {name: X, kind: Variable}
  - {name: foo, kind: Module}
`
	rec := &countingRecorder{}
	opts := options.Resolve(&options.Options{OutputFileStrategy: options.StrategyModules})
	New(opts, nil, rec, discardLogger()).Build(load(t, src))
	require.Equal(t, 1, rec.collisions)
	require.Equal(t, 2, rec.anchors)
	require.Equal(t, 1, rec.duplicates)
}

func TestBuildScopeStripping(t *testing.T) {
	src := `
name: mono
children:
  - name: "@scope/widget"
    kind: Module
    children:
      - {name: Gizmo, kind: Class}
  - name: other
    kind: Module
    children:
      - {name: Thing, kind: Class}
`
	res := buildResult(t, options.Options{
		EntryPointStrategy:   options.EntryPointsPackages,
		ExcludeScopesInPaths: true,
	}, src)
	require.Equal(t, []string{
		"README.md",
		"widget/README.md",
		"widget/classes/Gizmo.md",
		"other/README.md",
		"other/classes/Thing.md",
	}, urlsOf(res))
	for _, u := range urlsOf(res) {
		require.False(t, strings.Contains(u, "scope"), u)
	}

	res = buildResult(t, options.Options{EntryPointStrategy: options.EntryPointsPackages}, src)
	require.Equal(t, "@scope/widget/README.md", urlsOf(res)[1])
}

func TestBuildFlattenedScopeStripping(t *testing.T) {
	src := `
name: mono
children:
  - name: "@scope/widget"
    kind: Module
    children:
      - {name: Gizmo, kind: Class}
  - name: other
    kind: Module
    children:
      - {name: Thing, kind: Class}
`
	res := buildResult(t, options.Options{
		EntryPointStrategy:   options.EntryPointsPackages,
		ExcludeScopesInPaths: true,
		FlattenOutputFiles:   true,
	}, src)
	require.Contains(t, urlsOf(res), "widget.Class.Gizmo.md")
	for _, u := range urlsOf(res) {
		require.NotContains(t, u, "scope", u)
	}

	res = buildResult(t, options.Options{
		EntryPointStrategy: options.EntryPointsPackages,
		FlattenOutputFiles: true,
	}, src)
	require.Contains(t, urlsOf(res), "@scope.widget.Class.Gizmo.md")
}

func TestBuildPackageOverrides(t *testing.T) {
	src := `
name: mono
readme: "# mono"
children:
  - name: widget
    kind: Module
    readme: "# widget"
    children:
      - {name: core, kind: Module, children: [{name: Gizmo, kind: Class}]}
  - name: other
    kind: Module
    children:
      - {name: Thing, kind: Class}
`
	res := buildResult(t, options.Options{
		EntryPointStrategy: options.EntryPointsPackages,
		Packages: map[string]options.PackageOptions{
			"widget": {OutputFileStrategy: options.StrategyModules, EntryModule: "core", EntryFileName: "index"},
		},
	}, src)
	require.Equal(t, []string{
		"README.md",
		"packages.md",
		"widget/readme_.md",
		"widget/index.md",
		"other/README.md",
		"other/classes/Thing.md",
	}, urlsOf(res))

	widget := find(t, res.Project, "widget")
	require.Equal(t, "widget/index.md", res.URL(widget))
	gizmo := find(t, res.Project, "widget.core.Gizmo")
	require.Equal(t, "widget/index.md#gizmo", res.URL(gizmo))
}

func TestBuildNestedPropertyReusesAnchor(t *testing.T) {
	src := `
name: p
children:
  - name: Box
    kind: Interface
    children:
      - name: options
        kind: Property
        type:
          - name: size
            kind: Property
            type:
              - {name: width, kind: Property}
      - name: size
        kind: Property
`
	for _, s := range []options.OutputFileStrategy{options.StrategyMembers, options.StrategyModules} {
		t.Run(string(s), func(t *testing.T) {
			res := buildResult(t, options.Options{OutputFileStrategy: s}, src)
			opts := find(t, res.Project, "Box.options")
			nested := find(t, res.Project, "Box.options.__type.size")
			deeper := find(t, res.Project, "Box.options.__type.size.__type.width")
			literal := find(t, res.Project, "Box.options.__type")

			require.Equal(t, "options", res.Anchor(opts))
			require.Equal(t, res.URL(opts), res.URL(nested))
			require.Equal(t, res.Anchor(opts), res.Anchor(nested))
			require.Equal(t, res.URL(opts), res.URL(deeper))
			require.Equal(t, res.PageURL(opts), res.URL(literal))

			sibling := find(t, res.Project, "Box.size")
			require.Equal(t, "size", res.Anchor(sibling))
		})
	}
}

func TestBuildAnchorNaming(t *testing.T) {
	src := `
name: p
children:
  - name: Api
    kind: Class
    groups:
      - title: Methods
        children: [get, Get, map]
      - title: Properties
        children: [get-1, "[key]"]
    children:
      - {name: get, kind: Method}
      - {name: Get, kind: Method}
      - {name: get-1, kind: Property}
      - {name: "[key]", kind: Property}
      - {name: map, kind: Method, typeParameters: [T, U]}
`
	res := buildResult(t, options.Options{AnchorPrefix: "md:"}, src)
	anchor := func(name string) string { return res.Anchor(find(t, res.Project, "Api."+name)) }
	require.Equal(t, "md:get", anchor("get"))
	require.Equal(t, "md:get-1", anchor("Get"))
	require.Equal(t, "md:get-1-1", anchor("get-1"))
	require.Equal(t, "md:key", anchor("[key]"))
	require.Equal(t, "md:mapt-u", anchor("map"))
	require.Equal(t, "classes/Api.md#md:get-1", res.URL(find(t, res.Project, "Api.Get")))

	res = buildResult(t, options.Options{PreserveAnchorCasing: true}, src)
	require.Equal(t, "Get", res.Anchor(find(t, res.Project, "Api.Get")))
	require.Equal(t, "mapT-U", res.Anchor(find(t, res.Project, "Api.map")))
}

func TestBuildFlattened(t *testing.T) {
	src := `
name: p
children:
  - name: a/b
    kind: Module
    children:
      - {name: Baz, kind: Class}
      - {name: make thing, kind: Function}
  - name: '"c/d"'
    kind: Module
    children:
      - {name: Qux, kind: Interface}
`
	res := buildResult(t, options.Options{FlattenOutputFiles: true}, src)
	require.Equal(t, []string{
		"README.md",
		"a.b.md",
		"a.b.Class.Baz.md",
		"a.b.Function.make-thing.md",
		"c.d.md",
		"c.d.Interface.Qux.md",
	}, urlsOf(res))
}

func TestBuildEntryModuleAbsorbsRoot(t *testing.T) {
	src := `
name: p
children:
  - name: main
    kind: Module
    children: [{name: App, kind: Class}]
  - name: util
    kind: Module
`
	res := buildResult(t, options.Options{EntryModule: "main"}, src)
	require.Equal(t, []string{"README.md", "main/classes/App.md", "util/README.md"}, urlsOf(res))
	require.Equal(t, templatemap.TemplateModule, res.URLs[0].Template)
	for _, m := range res.URLs {
		require.NotEqual(t, templatemap.TemplateProject, m.Template)
	}
	require.Equal(t, "README.md", res.URL(res.Project))
	require.False(t, res.HasOwnDocument(res.Project))

	withReadme := strings.Replace(src, "name: p\n", "name: p\nreadme: hello\n", 1)
	res = buildResult(t, options.Options{EntryModule: "main"}, withReadme)
	require.Equal(t, []string{"readme_.md", "README.md", "main/classes/App.md", "util/README.md"}, urlsOf(res))
	require.Equal(t, templatemap.TemplateReadme, res.URLs[0].Template)

	res = buildResult(t, options.Options{EntryModule: "missing"}, src)
	require.Equal(t, "README.md", urlsOf(res)[0])
	require.Equal(t, templatemap.TemplateProject, res.URLs[0].Template)
}

func TestBuildReadmeHandling(t *testing.T) {
	src := `
name: p
readme: "# Hello"
children:
  - {name: m, kind: Module}
`
	res := buildResult(t, options.Options{}, src)
	require.Equal(t, []string{"README.md", "modules.md", "m/README.md"}, urlsOf(res))
	require.Equal(t, templatemap.TemplateReadme, res.URLs[0].Template)
	require.Equal(t, templatemap.TemplateProject, res.URLs[1].Template)
	require.Equal(t, "modules.md", res.URL(res.Project))

	res = buildResult(t, options.Options{MergeReadme: true}, src)
	require.Equal(t, []string{"README.md", "m/README.md"}, urlsOf(res))

	res = buildResult(t, options.Options{ModulesFileName: "api", FileExtension: ".mdx"}, src)
	require.Equal(t, []string{"README.mdx", "api.mdx", "m/README.mdx"}, urlsOf(res))

	globals := `
name: p
readme: "# Hello"
children:
  - {name: f, kind: Function}
`
	res = buildResult(t, options.Options{}, globals)
	require.Equal(t, []string{"README.md", "globals.md", "functions/f.md"}, urlsOf(res))
}

func TestBuildIndexModuleUnderModulesStrategy(t *testing.T) {
	src := `
name: p
children:
  - {name: index, kind: Module}
  - {name: other, kind: Module}
`
	res := buildResult(t, options.Options{OutputFileStrategy: options.StrategyModules, EntryFileName: "index"}, src)
	require.Equal(t, []string{"index.md", "module_index.md", "other.md"}, urlsOf(res))
}

func TestBuildNamespaces(t *testing.T) {
	src := `
name: p
children:
  - name: m
    kind: Module
    children:
      - name: Ns
        kind: Namespace
        children: [{name: Inner, kind: Class}]
`
	res := buildResult(t, options.Options{}, src)
	require.Equal(t, []string{"README.md", "m/README.md", "m/namespaces/Ns/README.md", "m/namespaces/Ns/classes/Inner.md"}, urlsOf(res))

	res = buildResult(t, options.Options{OutputFileStrategy: options.StrategyModules}, src)
	require.Equal(t, []string{"README.md", "m/README.md", "m/namespaces/Ns.md"}, urlsOf(res))
	require.Equal(t, "m/namespaces/Ns.md#inner", res.URL(find(t, res.Project, "m.Ns.Inner")))
}

func TestBuildCategoriesStrategy(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	opts := options.Resolve(&options.Options{OutputFileStrategy: options.StrategyCategories, CategorizeByGroup: true})
	res := New(opts, nil, nil, logger).Build(load(t, twoModules))

	require.Equal(t, []string{
		"README.md",
		"module-1/README.md",
		"module-1/classes/Foo.md",
		"module-1/functions/helper.md",
		"module-2/README.md",
		"module-2/Widgets.md",
		"module-2/interfaces/Widget.md",
	}, urlsOf(res))
	require.Equal(t, templatemap.TemplateCategory, res.URLs[5].Template)
	require.Contains(t, buf.String(), "invalid option combination")
}

func TestBuildCategoryWithNamespaces(t *testing.T) {
	src := `
name: p
children:
  - name: m
    kind: Module
    categories:
      - title: Core Things
        children: [Ns]
    children:
      - {name: Ns, kind: Namespace}
`
	res := buildResult(t, options.Options{OutputFileStrategy: options.StrategyCategories}, src)
	require.Equal(t, []string{
		"README.md",
		"m/README.md",
		"m/core-things/README.md",
		"m/core-things/namespaces/Ns/README.md",
	}, urlsOf(res))
}

func TestBuildDocuments(t *testing.T) {
	src := `
name: p
documents:
  - {name: Guide, kind: Document}
children:
  - name: m
    kind: Module
    children:
      - name: Foo
        kind: Class
        documents:
          - {name: Usage, kind: Document}
`
	res := buildResult(t, options.Options{}, src)
	require.Equal(t, []string{
		"README.md",
		"documents/Guide.md",
		"m/README.md",
		"m/classes/Foo.md",
		"m/classes/documents/Class.Usage.md",
	}, urlsOf(res))
	require.Equal(t, templatemap.TemplateDocument, res.URLs[1].Template)

	res = buildResult(t, options.Options{FlattenOutputFiles: true}, src)
	require.Contains(t, urlsOf(res), "Document.Guide.md")
	require.Contains(t, urlsOf(res), "Document.Class.Usage.md")
}

func TestBuildWarnsAboutUnplaced(t *testing.T) {
	project := load(t, twoModules)
	orphan := &reflection.Reflection{Name: "Orphan", Kind: reflection.KindClass}
	mod := find(t, project, "module-1")
	mod.Children = append(mod.Children, orphan)
	orphan.Parent = mod

	var buf bytes.Buffer
	opts := options.Resolve(&options.Options{})
	res := New(opts, nil, nil, slog.New(slog.NewTextHandler(&buf, nil))).Build(project)
	_, ok := res.Placement(orphan)
	require.False(t, ok)
	require.Contains(t, buf.String(), "Reflection has no URL")
	require.Contains(t, buf.String(), "module-1.Orphan")
}
