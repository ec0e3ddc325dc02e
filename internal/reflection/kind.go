package reflection

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of reflection kinds. Values match the host's
// numeric flags so JSON models decode without a lookup.
type Kind int

const (
	KindProject              Kind = 1 << 0
	KindModule               Kind = 1 << 1
	KindNamespace            Kind = 1 << 2
	KindEnum                 Kind = 1 << 3
	KindEnumMember           Kind = 1 << 4
	KindVariable             Kind = 1 << 5
	KindFunction             Kind = 1 << 6
	KindClass                Kind = 1 << 7
	KindInterface            Kind = 1 << 8
	KindConstructor          Kind = 1 << 9
	KindProperty             Kind = 1 << 10
	KindMethod               Kind = 1 << 11
	KindCallSignature        Kind = 1 << 12
	KindIndexSignature       Kind = 1 << 13
	KindConstructorSignature Kind = 1 << 14
	KindParameter            Kind = 1 << 15
	KindTypeLiteral          Kind = 1 << 16
	KindTypeParameter        Kind = 1 << 17
	KindAccessor             Kind = 1 << 18
	KindGetSignature         Kind = 1 << 19
	KindSetSignature         Kind = 1 << 20
	KindTypeAlias            Kind = 1 << 21
	KindReference            Kind = 1 << 22
	KindDocument             Kind = 1 << 23
	// KindCategory is not a host kind: it marks the synthetic node that
	// represents a category when categories get their own pages.
	KindCategory Kind = 1 << 24
)

type kindInfo struct {
	name     string
	singular string
	plural   string
}

var kinds = map[Kind]kindInfo{
	KindProject:              {"Project", "Project", "Projects"},
	KindModule:               {"Module", "Module", "Modules"},
	KindNamespace:            {"Namespace", "Namespace", "Namespaces"},
	KindEnum:                 {"Enum", "Enumeration", "Enumerations"},
	KindEnumMember:           {"EnumMember", "Enumeration Member", "Enumeration Members"},
	KindVariable:             {"Variable", "Variable", "Variables"},
	KindFunction:             {"Function", "Function", "Functions"},
	KindClass:                {"Class", "Class", "Classes"},
	KindInterface:            {"Interface", "Interface", "Interfaces"},
	KindConstructor:          {"Constructor", "Constructor", "Constructors"},
	KindProperty:             {"Property", "Property", "Properties"},
	KindMethod:               {"Method", "Method", "Methods"},
	KindCallSignature:        {"CallSignature", "Call Signature", "Call Signatures"},
	KindIndexSignature:       {"IndexSignature", "Index Signature", "Index Signatures"},
	KindConstructorSignature: {"ConstructorSignature", "Constructor Signature", "Constructor Signatures"},
	KindParameter:            {"Parameter", "Parameter", "Parameters"},
	KindTypeLiteral:          {"TypeLiteral", "Type Literal", "Type Literals"},
	KindTypeParameter:        {"TypeParameter", "Type Parameter", "Type Parameters"},
	KindAccessor:             {"Accessor", "Accessor", "Accessors"},
	KindGetSignature:         {"GetSignature", "Get Signature", "Get Signatures"},
	KindSetSignature:         {"SetSignature", "Set Signature", "Set Signatures"},
	KindTypeAlias:            {"TypeAlias", "Type Alias", "Type Aliases"},
	KindReference:            {"Reference", "Reference", "References"},
	KindDocument:             {"Document", "Document", "Documents"},
	KindCategory:             {"Category", "Category", "Categories"},
}

// groupOrder is the order in which generated groups are emitted.
var groupOrder = []Kind{
	KindDocument, KindProject, KindModule, KindNamespace, KindEnum, KindEnumMember,
	KindClass, KindInterface, KindTypeAlias, KindConstructor, KindProperty,
	KindVariable, KindFunction, KindAccessor, KindMethod, KindReference,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// String returns the identifier-style name ("TypeAlias").
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Singular returns the display name ("Type Alias").
func (k Kind) Singular() string {
	if info, ok := kinds[k]; ok {
		return info.singular
	}
	return k.String()
}

// Plural returns the plural display name ("Type Aliases").
func (k Kind) Plural() string {
	if info, ok := kinds[k]; ok {
		return info.plural
	}
	return k.String()
}

// Is reports whether k is any of the given kinds.
func (k Kind) Is(others ...Kind) bool {
	for _, o := range others {
		if k == o {
			return true
		}
	}
	return false
}

// ParseKind accepts the identifier name, the singular display name or the
// numeric value, case-insensitively.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for k, info := range kinds {
		if strings.ToLower(info.name) == norm || strings.ToLower(strings.ReplaceAll(info.singular, " ", "")) == norm {
			return k, nil
		}
	}
	if n, err := strconv.Atoi(norm); err == nil && Kind(n).Valid() {
		return Kind(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
