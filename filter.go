package mixer

import (
	"go.uber.org/zap"
)

// Filter is a stateless, order-preserving transform over an attribute list.
// Apply never mutates its input; the output is always a subsequence of the
// input in original relative order.
type Filter interface {
	Apply(attributes []Attribute) []Attribute
}

// typeFilter matches an attribute when its declared element type is, or is a
// reference to, one of the target types. A reference to SceneRender matches
// even though the attribute itself is a pointer-valued property.
type typeFilter struct {
	targets []Type
}

func (f typeFilter) matches(attr Attribute) bool {
	element := attr.ElementType()
	for _, target := range f.targets {
		if element != nil && element.Key() == target.Key() {
			return true
		}
		if attr.IsReferenceTo(target) {
			return true
		}
	}
	return false
}

// TypeFilterIn keeps only attributes whose element type matches one of the
// target types.
type TypeFilterIn struct {
	typeFilter
}

// NewTypeFilterIn builds a TypeFilterIn over the given target types.
func NewTypeFilterIn(targets ...Type) TypeFilterIn {
	return TypeFilterIn{typeFilter{targets: targets}}
}

func (f TypeFilterIn) Apply(attributes []Attribute) []Attribute {
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if f.matches(attr) {
			kept = append(kept, attr)
		}
	}
	return kept
}

// TypeFilterOut drops attributes whose element type matches one of the
// target types and keeps everything else.
type TypeFilterOut struct {
	typeFilter
}

// NewTypeFilterOut builds a TypeFilterOut over the given target types.
func NewTypeFilterOut(targets ...Type) TypeFilterOut {
	return TypeFilterOut{typeFilter{targets: targets}}
}

func (f TypeFilterOut) Apply(attributes []Attribute) []Attribute {
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if !f.matches(attr) {
			kept = append(kept, attr)
		}
	}
	return kept
}

// CollectionFilterOut drops homogeneous-collection-valued attributes whose
// element type is one of the target types. Non-collection attributes pass
// through untouched regardless of their type.
type CollectionFilterOut struct {
	targets []Type
}

// NewCollectionFilterOut builds a CollectionFilterOut over the given
// collection element types.
func NewCollectionFilterOut(targets ...Type) CollectionFilterOut {
	return CollectionFilterOut{targets: targets}
}

func (f CollectionFilterOut) Apply(attributes []Attribute) []Attribute {
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if attr.IsCollection() && f.matchesElement(attr) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func (f CollectionFilterOut) matchesElement(attr Attribute) bool {
	for _, target := range f.targets {
		if attr.IsCollectionOf(target) {
			return true
		}
	}
	return false
}

// nameFilter matches attributes by name. Configured names that match no
// attribute in the input and are not in the exempt set are reported as
// possibly misspelled or stale; the diagnostic never alters the result.
type nameFilter struct {
	names   []string
	nameSet NameSet
	exempt  NameSet
}

func newNameFilter(names []string) nameFilter {
	return nameFilter{
		names:   names,
		nameSet: NewNameSet(names...),
		exempt:  AlwaysExcludedNames,
	}
}

func (f nameFilter) checkUnknown(attributes []Attribute) {
	present := make(NameSet, len(attributes))
	for _, attr := range attributes {
		present[attr.Name()] = struct{}{}
	}
	for _, name := range f.names {
		if f.exempt.Contains(name) || present.Contains(name) {
			continue
		}
		zap.S().Warnw("filtering unknown attribute, check spelling", "attribute", name)
	}
}

// NameFilterOut drops attributes whose name is in the configured name list.
type NameFilterOut struct {
	nameFilter
}

// NewNameFilterOut builds a NameFilterOut over the given names. Names absent
// from the global AlwaysExcludedNames set are checked against the input list
// on every application and warned about when they match nothing.
func NewNameFilterOut(names ...string) NameFilterOut {
	return NameFilterOut{newNameFilter(names)}
}

// WithExemptions returns a copy of the filter using the given set instead of
// AlwaysExcludedNames to suppress stale-name warnings.
func (f NameFilterOut) WithExemptions(exempt NameSet) NameFilterOut {
	f.exempt = exempt
	return f
}

func (f NameFilterOut) Apply(attributes []Attribute) []Attribute {
	f.checkUnknown(attributes)
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if !f.nameSet.Contains(attr.Name()) {
			kept = append(kept, attr)
		}
	}
	return kept
}

// NameFilterIn keeps only attributes whose name is in the configured name list.
type NameFilterIn struct {
	nameFilter
}

// NewNameFilterIn builds a NameFilterIn over the given names.
func NewNameFilterIn(names ...string) NameFilterIn {
	return NameFilterIn{newNameFilter(names)}
}

// WithExemptions returns a copy of the filter using the given set instead of
// AlwaysExcludedNames to suppress stale-name warnings.
func (f NameFilterIn) WithExemptions(exempt NameSet) NameFilterIn {
	f.exempt = exempt
	return f
}

func (f NameFilterIn) Apply(attributes []Attribute) []Attribute {
	f.checkUnknown(attributes)
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if f.nameSet.Contains(attr.Name()) {
			kept = append(kept, attr)
		}
	}
	return kept
}

// FuncFilterOut drops attributes matched by an arbitrary predicate. It is the
// extension point for filters that cannot be expressed by type or name
// matching; with a nil predicate it is the identity transform.
type FuncFilterOut struct {
	pred func(Attribute) bool
}

// NewFuncFilterOut builds a FuncFilterOut over the given predicate. A nil
// predicate yields an identity filter.
func NewFuncFilterOut(pred func(Attribute) bool) FuncFilterOut {
	return FuncFilterOut{pred: pred}
}

func (f FuncFilterOut) Apply(attributes []Attribute) []Attribute {
	if f.pred == nil {
		return attributes
	}
	kept := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if !f.pred(attr) {
			kept = append(kept, attr)
		}
	}
	return kept
}
