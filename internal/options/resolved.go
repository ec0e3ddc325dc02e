package options

import (
	"sort"

	"git.home.luguber.info/inful/reflectmd/internal/pathutil"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/util/sets"
)

const (
	DefaultEntryFileName = "README"
	DefaultOut           = "./docs"
)

// Resolved is the fully populated option record the builder consumes.
// Every field holds a concrete value; no lookups happen during a build.
type Resolved struct {
	Out                  string
	FileExtension        string // always with a leading dot
	OutputFileStrategy   OutputFileStrategy
	EntryPointStrategy   EntryPointStrategy
	ExcludeScopesInPaths bool
	EntryFileName        string // with FileExtension applied
	ModulesFileName      string // empty when unset
	EntryModule          string
	FlattenOutputFiles   bool
	MergeReadme          bool
	AnchorPrefix         string
	PreserveAnchorCasing bool
	CategorizeByGroup    bool
	MembersWithOwnFile   sets.Set[reflection.Kind]
	UseHTMLAnchors       bool
	PublicPath           string

	packages map[string]PackageOptions
}

// Resolve applies defaults to o. Options should be normalized first.
func Resolve(o *Options) Resolved {
	r := Resolved{
		Out:                  o.Out,
		FileExtension:        pathutil.NormalizeExtension(o.FileExtension),
		OutputFileStrategy:   o.OutputFileStrategy,
		EntryPointStrategy:   o.EntryPointStrategy,
		ExcludeScopesInPaths: o.ExcludeScopesInPaths,
		ModulesFileName:      o.ModulesFileName,
		EntryModule:          o.EntryModule,
		FlattenOutputFiles:   o.FlattenOutputFiles,
		MergeReadme:          o.MergeReadme,
		AnchorPrefix:         o.AnchorPrefix,
		PreserveAnchorCasing: o.PreserveAnchorCasing,
		CategorizeByGroup:    o.CategorizeByGroup,
		UseHTMLAnchors:       o.UseHTMLAnchors,
		PublicPath:           o.PublicPath,
		packages:             o.Packages,
	}
	if r.Out == "" {
		r.Out = DefaultOut
	}
	if r.OutputFileStrategy == "" {
		r.OutputFileStrategy = StrategyMembers
	}
	if r.EntryPointStrategy == "" {
		r.EntryPointStrategy = EntryPointsResolve
	}
	entry := o.EntryFileName
	if entry == "" {
		entry = DefaultEntryFileName
	}
	r.EntryFileName = pathutil.WithExtension(entry, r.FileExtension)
	if r.ModulesFileName != "" {
		r.ModulesFileName = pathutil.WithExtension(r.ModulesFileName, r.FileExtension)
	}

	names := o.MembersWithOwnFile
	if names == nil {
		names = DefaultMembersWithOwnFile
	}
	r.MembersWithOwnFile = sets.New[reflection.Kind]()
	for _, n := range names {
		if k, err := reflection.ParseKind(n); err == nil {
			r.MembersWithOwnFile.Add(k)
		}
	}
	return r
}

// ForPackage returns a copy of r with the overrides configured for the
// named package applied. Unset override fields keep the global value.
func (r Resolved) ForPackage(name string) Resolved {
	p, ok := r.packages[name]
	if !ok {
		return r
	}
	out := r
	if p.OutputFileStrategy != "" {
		out.OutputFileStrategy = p.OutputFileStrategy
	}
	if p.EntryModule != "" {
		out.EntryModule = p.EntryModule
	}
	if p.EntryFileName != "" {
		out.EntryFileName = pathutil.WithExtension(p.EntryFileName, r.FileExtension)
	}
	return out
}

// Packages returns the names that carry overrides, sorted.
func (r Resolved) Packages() []string { return sortedPackageNames(r.packages) }

func sortedPackageNames(m map[string]PackageOptions) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
