package options

import (
	stderrors "errors"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
)

// ErrGroupCategoriesConflict is matched by callers that want to treat the
// categories/categorize_by_group combination specially.
var ErrGroupCategoriesConflict = stderrors.New("categorize_by_group is not supported with the categories output file strategy")

// Validate reports configuration conflicts in o after defaults are applied.
func Validate(o *Options) []error {
	return Resolve(o).Conflicts()
}

// Conflicts reports option combinations that cannot be honoured. None of them
// are fatal: the returned errors carry error or warning severity and callers
// log them and continue with best-effort behaviour.
func (r Resolved) Conflicts() []error {
	var errs []error
	check := func(strategy OutputFileStrategy, pkg string) {
		if strategy != StrategyCategories || !r.CategorizeByGroup {
			return
		}
		b := ferrors.ConfigConflict("invalid option combination").WithCause(ErrGroupCategoriesConflict).
			WithContext("option", "categorize_by_group")
		if pkg != "" {
			b = b.WithContext("package", pkg)
		}
		errs = append(errs, b.Build())
	}
	check(r.OutputFileStrategy, "")
	for _, name := range r.Packages() {
		if s := r.packages[name].OutputFileStrategy; s != "" && s != r.OutputFileStrategy {
			check(s, name)
		}
	}
	if r.EntryModule != "" && r.EntryPointStrategy == EntryPointsPackages && len(r.packages) == 0 {
		errs = append(errs, ferrors.ConfigConflict("entry_module applies to every package; use packages.<name>.entry_module to scope it").
			Warning().WithContext("option", "entry_module").Build())
	}
	return errs
}
