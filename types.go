// Package mixer selects, for every structural type in a host object graph,
// which named attributes participate in state synchronization between
// collaborating replicas. Selection rules respect type inheritance, can be
// overridden per concrete type, and compose from independently maintained
// rule sets (see FilterStack and SynchronizedProperties).
package mixer

// TypeKey is the canonical identity of a structural type in the host's
// type system. Two Type handles denote the same type iff their keys are
// equal; handle (pointer) identity is never used for comparison.
type TypeKey string

// WildcardKey is the key of the Wildcard pseudo-type.
const WildcardKey TypeKey = "*"

// Type is an opaque handle to a structural type in the host's object model.
// Types form a single-inheritance chain terminated by Wildcard.
type Type interface {
	Key() TypeKey
	Name() string
}

type wildcardType struct{}

func (wildcardType) Key() TypeKey { return WildcardKey }
func (wildcardType) Name() string { return "*" }

// Wildcard is the pseudo-type meaning "applies regardless of concrete type".
// It is always the terminal element of an ancestor chain.
var Wildcard Type = wildcardType{}

// Attribute is a named, typed member declared on exactly one Type.
type Attribute interface {
	// Name is unique among the attributes declared by the declaring type.
	Name() string
	DeclaringType() Type
	// ElementType is the declared element type used for type-based matching.
	ElementType() Type
	// IsReferenceTo reports whether the attribute is a reference (pointer)
	// to t, as opposed to a direct value of t.
	IsReferenceTo(t Type) bool
	// IsCollection reports whether the attribute is homogeneous-collection-valued.
	IsCollection() bool
	// IsCollectionOf reports whether the attribute is a homogeneous
	// collection whose element type is t.
	IsCollectionOf(t Type) bool
}

// AttributeProvider exposes the host object model to the evaluation engine.
// Implementations must return attributes in a stable, host-defined order
// across calls for an unchanged schema.
type AttributeProvider interface {
	// DeclaredAttributes returns the attributes declared directly on t,
	// excluding inherited ones.
	DeclaredAttributes(t Type) []Attribute
	// BaseType returns t's single base type, or false for a root type.
	BaseType(t Type) (Type, bool)
}

// ObjectModel is the full host schema surface consumed by the default rule
// configurations and the synchronization glue.
type ObjectModel interface {
	AttributeProvider
	// TypeByName resolves a type by its host name.
	TypeByName(name string) (Type, bool)
	// Root is the distinguished root/global-state type whose
	// collection-valued attributes are the top-level collections.
	Root() Type
	// TopLevelCollectionNames lists every top-level collection name known
	// to the host schema, in declaration order.
	TopLevelCollectionNames() []string
}

// NameSet is an immutable set of attribute names.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from the given names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set.
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// PropertyMap is an ordered mapping from attribute name to Attribute.
// Iteration order is the host declaration order; differential updates
// depend on attributes being delivered in the same order the host
// declares them.
type PropertyMap struct {
	names  []string
	byName map[string]Attribute
}

func newPropertyMap(attributes []Attribute) *PropertyMap {
	m := &PropertyMap{
		names:  make([]string, 0, len(attributes)),
		byName: make(map[string]Attribute, len(attributes)),
	}
	for _, attr := range attributes {
		if _, exists := m.byName[attr.Name()]; exists {
			continue
		}
		m.names = append(m.names, attr.Name())
		m.byName[attr.Name()] = attr
	}
	return m
}

// Len returns the number of attributes in the map.
func (m *PropertyMap) Len() int { return len(m.names) }

// Names returns the attribute names in declaration order.
func (m *PropertyMap) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Get returns the attribute with the given name.
func (m *PropertyMap) Get(name string) (Attribute, bool) {
	attr, ok := m.byName[name]
	return attr, ok
}

// Contains reports whether the map holds an attribute with the given name.
func (m *PropertyMap) Contains(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Attributes returns the attributes in declaration order.
func (m *PropertyMap) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(m.names))
	for _, name := range m.names {
		attrs = append(attrs, m.byName[name])
	}
	return attrs
}
