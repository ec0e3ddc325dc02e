package options

import "git.home.luguber.info/inful/reflectmd/internal/foundation/normalization"

// OutputFileStrategy governs which kinds get their own page.
type OutputFileStrategy string

const (
	StrategyModules    OutputFileStrategy = "modules"    // one page per module and namespace
	StrategyMembers    OutputFileStrategy = "members"    // plus one page per listed member kind
	StrategyCategories OutputFileStrategy = "categories" // plus one page per category
)

var outputFileStrategies = normalization.NewEnum(StrategyModules, StrategyMembers, StrategyCategories)

// NormalizeOutputFileStrategy canonicalizes user input returning empty string if unknown.
func NormalizeOutputFileStrategy(raw string) OutputFileStrategy {
	s, _ := outputFileStrategies.Lookup(raw)
	return s
}

// EntryPointStrategy mirrors the host setting that decides whether several
// packages are combined into one documentation set.
type EntryPointStrategy string

const (
	EntryPointsResolve  EntryPointStrategy = "resolve"
	EntryPointsExpand   EntryPointStrategy = "expand"
	EntryPointsPackages EntryPointStrategy = "packages"
	EntryPointsMerge    EntryPointStrategy = "merge"
)

var entryPointStrategies = normalization.NewEnum(EntryPointsResolve, EntryPointsExpand, EntryPointsPackages, EntryPointsMerge)

// NormalizeEntryPointStrategy canonicalizes user input returning empty string if unknown.
func NormalizeEntryPointStrategy(raw string) EntryPointStrategy {
	s, _ := entryPointStrategies.Lookup(raw)
	return s
}
