package options

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/reflectmd/internal/reflection"
)

// NormalizationResult captures adjustments made while canonicalizing options.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enum-like fields in place. Unknown values fall back
// to their defaults and produce a warning rather than an error.
func Normalize(o *Options) *NormalizationResult {
	res := &NormalizationResult{}

	if o.OutputFileStrategy != "" {
		o.OutputFileStrategy = normalizeStrategy("output_file_strategy", o.OutputFileStrategy, res)
	}
	if o.EntryPointStrategy != "" {
		eps := NormalizeEntryPointStrategy(string(o.EntryPointStrategy))
		switch {
		case eps == "":
			res.Warnings = append(res.Warnings, warnUnknown("entry_point_strategy", string(o.EntryPointStrategy), string(EntryPointsResolve), entryPointStrategies.Names()))
			o.EntryPointStrategy = EntryPointsResolve
		case eps != o.EntryPointStrategy:
			res.Warnings = append(res.Warnings, warnChanged("entry_point_strategy", o.EntryPointStrategy, eps))
			o.EntryPointStrategy = eps
		}
	}
	for name, p := range o.Packages {
		if p.OutputFileStrategy != "" {
			p.OutputFileStrategy = normalizeStrategy("packages."+name+".output_file_strategy", p.OutputFileStrategy, res)
			o.Packages[name] = p
		}
	}

	if ext := strings.TrimSpace(o.FileExtension); ext != o.FileExtension {
		res.Warnings = append(res.Warnings, warnChanged("file_extension", o.FileExtension, ext))
		o.FileExtension = ext
	}
	o.MembersWithOwnFile = normalizeKinds(o.MembersWithOwnFile, res)
	return res
}

func normalizeStrategy(label string, raw OutputFileStrategy, res *NormalizationResult) OutputFileStrategy {
	s := NormalizeOutputFileStrategy(string(raw))
	switch {
	case s == "":
		res.Warnings = append(res.Warnings, warnUnknown(label, string(raw), string(StrategyMembers), outputFileStrategies.Names()))
		return StrategyMembers
	case s != raw:
		res.Warnings = append(res.Warnings, warnChanged(label, raw, s))
	}
	return s
}

// normalizeKinds keeps order, drops duplicates and canonicalizes kind names.
func normalizeKinds(in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[reflection.Kind]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		k, err := reflection.ParseKind(v)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("members_with_own_file: ignoring unknown kind %q", v))
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k.String())
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized members_with_own_file list (%d -> %d entries)", len(in), len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string, valid []string) string {
	return fmt.Sprintf("unknown %s '%s' (valid: %s), defaulting to %s", field, value, strings.Join(valid, ", "), def)
}
