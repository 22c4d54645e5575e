package mixer

import (
	"sort"
	"sync"
)

// PropertyQuery selects the type to resolve properties for. Exactly one of
// Type and Attribute must be set; when Attribute is set, the query resolves
// the attribute's declared element type.
type PropertyQuery struct {
	Type      Type
	Attribute Attribute
}

// SynchronizedProperties keeps track of the attributes to synchronize for
// all types of one host object model, as narrowed by one FilterStack.
//
// Resolved attribute lists are memoized permanently: a cache entry is
// created lazily on first query and never invalidated or evicted for the
// lifetime of the instance. A schema change requires constructing a new
// instance; several instances may share the same FilterStack.
type SynchronizedProperties struct {
	model ObjectModel
	stack *FilterStack

	mu            sync.Mutex
	properties    map[TypeKey]*PropertyMap
	unhandled     []string
	unhandledDone bool
}

// NewSynchronizedProperties builds a query surface over model and stack.
func NewSynchronizedProperties(model ObjectModel, stack *FilterStack) *SynchronizedProperties {
	return &SynchronizedProperties{
		model:      model,
		stack:      stack,
		properties: make(map[TypeKey]*PropertyMap),
	}
}

// Model returns the host object model this instance resolves against.
func (s *SynchronizedProperties) Model() ObjectModel { return s.model }

// Properties returns the ordered name-to-attribute mapping to synchronize
// for the type selected by q. A query with neither or both of Type and
// Attribute set fails with an invalid-argument error.
func (s *SynchronizedProperties) Properties(q PropertyQuery) (*PropertyMap, error) {
	switch {
	case q.Type == nil && q.Attribute == nil:
		return nil, NewInvalidQueryError("exactly one of Type and Attribute must be provided, got neither")
	case q.Type != nil && q.Attribute != nil:
		return nil, NewAmbiguousQueryError("exactly one of Type and Attribute must be provided, got both")
	}
	t := q.Type
	if t == nil {
		t = q.Attribute.ElementType()
		if t == nil {
			return nil, NewInvalidQueryError("attribute has no element type").WithAttribute(q.Attribute.Name())
		}
	}
	return s.propertiesOf(t), nil
}

// PropertiesOf is shorthand for Properties with a Type query.
func (s *SynchronizedProperties) PropertiesOf(t Type) (*PropertyMap, error) {
	if t == nil {
		return nil, NewInvalidQueryError("type must not be nil")
	}
	return s.propertiesOf(t), nil
}

func (s *SynchronizedProperties) propertiesOf(t Type) *PropertyMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resolved, ok := s.properties[t.Key()]; ok {
		return resolved
	}

	// The provider returns only attributes declared directly on t; ancestor
	// filters narrow that same list, they do not add inherited attributes.
	filtered := s.stack.Evaluate(s.model, t, s.model.DeclaredAttributes(t))
	resolved := newPropertyMap(filtered)
	s.properties[t.Key()] = resolved
	return resolved
}

// UnhandledCollectionNames returns the sorted top-level collection names
// this configuration does not synchronize at all: every collection known to
// the host schema minus those kept at the root type. Computed once and
// memoized.
func (s *SynchronizedProperties) UnhandledCollectionNames() []string {
	s.mu.Lock()
	if s.unhandledDone {
		defer s.mu.Unlock()
		return s.unhandled
	}
	s.mu.Unlock()

	handled := s.propertiesOf(s.model.Root())
	var unhandled []string
	for _, name := range s.model.TopLevelCollectionNames() {
		if !handled.Contains(name) {
			unhandled = append(unhandled, name)
		}
	}
	sort.Strings(unhandled)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unhandledDone {
		s.unhandled = unhandled
		s.unhandledDone = true
	}
	return s.unhandled
}
