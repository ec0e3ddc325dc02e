package urlbuilder

import (
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/pathutil"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
	"git.home.luguber.info/inful/reflectmd/internal/util/sets"
)

// Builder assigns URLs. It holds configuration only.
type Builder struct {
	opts     options.Resolved
	resolver *templatemap.Resolver
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New returns a Builder. A nil resolver is built from opts, a nil recorder
// discards metrics and a nil logger uses slog.Default.
func New(opts options.Resolved, resolver *templatemap.Resolver, recorder metrics.Recorder, logger *slog.Logger) *Builder {
	if resolver == nil {
		resolver = templatemap.New(opts.MembersWithOwnFile)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, resolver: resolver, recorder: metrics.OrNoop(recorder), logger: logger}
}

// build is the state of a single Build call.
type build struct {
	*Builder
	urls       []URLMapping
	taken      sets.Set[string]
	placements map[*reflection.Reflection]Placement
	anchors    anchorRegistry
}

// walkContext carries what a placement needs to know about where it was
// reached from.
type walkContext struct {
	parentURL     string
	directory     string
	category      string
	group         string
	strategy      options.OutputFileStrategy
	entryModule   string
	entryFileName string
}

// Build maps project to pages and anchors.
func (bl *Builder) Build(project *reflection.Reflection) *Result {
	start := time.Now()
	for _, err := range bl.opts.Conflicts() {
		ferrors.LogNonFatal(bl.logger, err)
	}

	b := &build{
		Builder:    bl,
		taken:      sets.New[string](),
		placements: map[*reflection.Reflection]Placement{},
		anchors:    anchorRegistry{},
	}
	root := walkContext{
		strategy:      bl.opts.OutputFileStrategy,
		entryModule:   bl.opts.EntryModule,
		entryFileName: bl.opts.EntryFileName,
	}

	absorbed := b.entryURLs(project)
	if bl.opts.EntryPointStrategy == options.EntryPointsPackages && len(project.Children) > 1 {
		for _, doc := range project.Documents {
			b.placeDocument(doc, root.strategy)
		}
		for _, pkg := range project.Children {
			b.packageURLs(pkg)
		}
	} else {
		b.walkProject(project, root)
	}
	if absorbed != nil {
		b.absorb(project, absorbed)
	}
	b.reportUnplaced(project)

	d := time.Since(start)
	bl.recorder.ObserveStageDuration("urls", d)
	bl.logger.Debug("URL mapping complete",
		logfields.Count(len(b.urls)),
		logfields.Strategy(string(bl.opts.OutputFileStrategy)),
		logfields.DurationMS(float64(d.Microseconds())/1000))

	return &Result{Project: project, URLs: b.urls, placements: b.placements}
}

// entryURLs emits the root pages: the readme when it is kept separate and the
// project index unless an entry module takes its place. It returns the entry
// module when one absorbs the root.
func (b *build) entryURLs(project *reflection.Reflection) *reflection.Reflection {
	ext := b.opts.FileExtension
	preserveReadme := project.HasReadme() && !b.opts.MergeReadme
	entry := entryModule(project, b.opts.EntryModule)
	index := b.indexFileName(project, b.opts.EntryPointStrategy == options.EntryPointsPackages)

	url := b.opts.EntryFileName
	if preserveReadme {
		readme := b.opts.EntryFileName
		if entry != nil {
			readme = pathutil.WithExtension("readme_", ext)
		}
		b.emit(readme, project, templatemap.TemplateReadme, "")
		url = index
	}
	if entry == nil {
		url = b.emit(url, project, templatemap.TemplateProject, "")
		b.placements[project] = Placement{URL: url, HasOwnDocument: true}
		return nil
	}
	b.placements[project] = Placement{URL: index}
	return entry
}

// packageURLs mirrors entryURLs for one package and walks it with the
// package's own overrides.
func (b *build) packageURLs(pkg *reflection.Reflection) {
	opts := b.opts.ForPackage(pkg.Name)
	ext := b.opts.FileExtension
	preserveReadme := pkg.HasReadme() && !b.opts.MergeReadme

	fullEntry := pathutil.WithExtension(pathutil.Join(pkg.Name, opts.EntryFileName), ext)
	fullIndex := pathutil.WithExtension(pathutil.Join(pkg.Name, b.indexFileName(pkg, false)), ext)
	if b.opts.ExcludeScopesInPaths {
		fullEntry = pathutil.StripScope(fullEntry)
		fullIndex = pathutil.StripScope(fullIndex)
	}
	index := fullEntry
	if preserveReadme {
		index = fullIndex
	}
	entry := entryModule(pkg, opts.EntryModule)

	if preserveReadme {
		readme := pathutil.Join(pathutil.Dir(index), opts.EntryFileName)
		if entry != nil {
			readme = pathutil.Join(pathutil.Dir(index), pathutil.WithExtension("readme_", ext))
		}
		b.emit(readme, pkg, templatemap.TemplateReadme, "")
	}
	if entry == nil {
		index = b.emit(index, pkg, templatemap.TemplateProject, "")
		b.placements[pkg] = Placement{URL: index, HasOwnDocument: true}
	} else {
		b.placements[pkg] = Placement{URL: index}
	}

	for _, doc := range pkg.Documents {
		b.placeDocument(doc, opts.OutputFileStrategy)
	}

	parentURL := index
	if !strings.Contains(index, "/") {
		parentURL = pkg.Name + "/" + index
	}
	b.walkProject(pkg, walkContext{
		parentURL:     parentURL,
		strategy:      opts.OutputFileStrategy,
		entryModule:   opts.EntryModule,
		entryFileName: fullEntry,
	})
	if entry != nil {
		b.absorb(pkg, entry)
	}
}

// absorb points owner at the page of the entry module that replaced its index.
func (b *build) absorb(owner, entry *reflection.Reflection) {
	if p, ok := b.placements[entry]; ok {
		b.placements[owner] = Placement{URL: p.URL}
	}
}

// walkProject places the documents, then the categories or groups, of a
// project or package.
func (b *build) walkProject(node *reflection.Reflection, ctx walkContext) {
	for _, doc := range node.Documents {
		b.placeDocument(doc, ctx.strategy)
	}
	if ctx.strategy == options.StrategyCategories && len(node.Categories) > 0 {
		for _, cat := range node.Categories {
			b.place(cat, ctx)
		}
	}
	for _, g := range node.Groups {
		for _, child := range g.Children {
			if child.IsDocument() {
				b.placeDocument(child, ctx.strategy)
				continue
			}
			c := ctx
			c.group = g.Title
			b.place(child, c)
		}
	}
}

// place gives r its own page when its kind owns one under the active
// strategy, and otherwise folds it into its parent's page.
func (b *build) place(r *reflection.Reflection, ctx walkContext) {
	if _, done := b.placements[r]; done {
		return
	}
	mapping, ok := b.resolver.Resolve(r.Kind, ctx.strategy)
	if !ok {
		if r.Parent != nil {
			b.traverseChildren(r, r.Parent, ctx.strategy)
		}
		return
	}

	var url, urlPath string
	if b.opts.FlattenOutputFiles {
		url = b.flattenedURL(r, ctx)
	} else {
		dir := ctx.directory
		if dir == "" {
			dir = mapping.Directory
		}
		urlPath = b.urlPath(r, ctx, dir)
		url = b.url(r, urlPath, ctx)
		if b.opts.ExcludeScopesInPaths {
			url = pathutil.StripScope(url)
		}
	}
	url = b.emit(url, r, mapping.Template, ctx.group)
	b.placements[r] = Placement{URL: url, HasOwnDocument: true}

	child := func(category, group string, c *reflection.Reflection) walkContext {
		dir := ""
		if m, ok := b.resolver.Resolve(c.Kind, ctx.strategy); ok {
			dir = m.Directory
		}
		return walkContext{
			parentURL:     urlPath,
			directory:     dir,
			category:      category,
			group:         group,
			strategy:      ctx.strategy,
			entryModule:   ctx.entryModule,
			entryFileName: ctx.entryFileName,
		}
	}

	walked := false
	if ctx.strategy == options.StrategyCategories {
		if r.Kind == reflection.KindCategory {
			for _, m := range r.Members {
				c := child(r.Name, "", m)
				c.parentURL = ctx.parentURL
				b.place(m, c)
			}
			walked = true
		}
		for _, cat := range r.Categories {
			b.place(cat, walkContext{parentURL: urlPath, category: cat.Name, strategy: ctx.strategy,
				entryModule: ctx.entryModule, entryFileName: ctx.entryFileName})
			for _, m := range cat.Members {
				b.place(m, child(cat.Name, "", m))
			}
			walked = true
		}
	}
	for _, g := range r.Groups {
		for _, c := range g.Children {
			if c.IsDocument() {
				b.placeDocument(c, ctx.strategy)
				continue
			}
			b.place(c, child("", g.Title, c))
		}
		walked = true
	}
	for _, doc := range r.Documents {
		b.placeDocument(doc, ctx.strategy)
	}
	if !walked {
		r.Traverse(func(c *reflection.Reflection) bool {
			b.applyAnchor(c, url, ctx.strategy == options.StrategyMembers)
			return true
		})
	}
}

// traverseChildren anchors r and its declarations on container's page.
// Documents found along the way still get pages of their own.
func (b *build) traverseChildren(r, container *reflection.Reflection, strategy options.OutputFileStrategy) {
	page := pageOf(b.placements[container].URL)
	if page != "" {
		b.applyAnchor(r, page, strategy == options.StrategyMembers)
	}
	r.Traverse(func(c *reflection.Reflection) bool {
		switch {
		case c.IsDocument():
			b.placeDocument(c, strategy)
		case c.IsDeclaration():
			b.traverseChildren(c, container, strategy)
		}
		return true
	})
}

// placeDocument gives a document a page next to its parent's page.
func (b *build) placeDocument(doc *reflection.Reflection, strategy options.OutputFileStrategy) {
	if _, done := b.placements[doc]; done {
		return
	}
	mapping, ok := b.resolver.Resolve(reflection.KindDocument, strategy)
	if !ok {
		return
	}
	base := ""
	if doc.Parent != nil {
		base = pathutil.Dir(pageOf(b.placements[doc.Parent].URL))
	}
	dir := mapping.Directory
	if b.opts.FlattenOutputFiles {
		dir = doc.Kind.Singular()
	}
	filename := pathutil.WithExtension(doc.Name, b.opts.FileExtension)
	if doc.Parent != nil && !doc.Parent.Kind.Is(reflection.KindModule, reflection.KindProject) {
		filename = pathutil.ToPascalCase(doc.Parent.Kind.Singular()) + "." + filename
	}
	url := pathutil.Join(base, dir, filename)
	if b.opts.FlattenOutputFiles {
		url = strings.ReplaceAll(url, "/", ".")
	}
	url = b.emit(url, doc, mapping.Template, "")
	b.placements[doc] = Placement{URL: url, HasOwnDocument: true}

	for _, c := range doc.Children {
		if c.IsDocument() {
			b.placeDocument(c, strategy)
		}
	}
}

// emit records a page, making url unique first, and returns the URL used.
func (b *build) emit(url string, model *reflection.Reflection, tmpl templatemap.Template, group string) string {
	unique := b.uniqueURL(url)
	if unique != url {
		b.recorder.IncCollision()
		b.logger.Debug("Renamed colliding page", logfields.URL(url), slog.String("renamed", unique))
	}
	b.taken.Add(strings.ToLower(unique))
	b.urls = append(b.urls, URLMapping{URL: unique, Model: model, Template: tmpl, Group: group})
	b.recorder.IncMapping(tmpl.String())
	b.logger.Debug("Mapped page",
		logfields.URL(unique),
		logfields.Reflection(model.Name),
		logfields.Kind(model.Kind.String()),
		logfields.Template(tmpl.String()))
	return unique
}

func (b *build) uniqueURL(url string) string {
	if !b.taken.Has(strings.ToLower(url)) {
		return url
	}
	ext := path.Ext(url)
	stem := strings.TrimSuffix(url, ext)
	for n := 1; ; n++ {
		candidate := stem + "-" + strconv.Itoa(n) + ext
		if !b.taken.Has(strings.ToLower(candidate)) {
			return candidate
		}
	}
}

// reportUnplaced warns about member declarations that ended up without a
// URL. Signatures, parameters and type literals are not expected to have one.
func (b *build) reportUnplaced(node *reflection.Reflection) {
	for _, c := range node.Children {
		if !c.IsDeclaration() {
			continue
		}
		if _, ok := b.placements[c]; !ok {
			b.recorder.IncUnplaced(c.Kind.String())
			b.logger.Warn("Reflection has no URL",
				logfields.Reflection(c.FullName(".")),
				logfields.Kind(c.Kind.String()))
		}
		b.reportUnplaced(c)
	}
}
