package mixer

// FilterSetEntry associates an ordered list of filters with a concrete type
// or with Wildcard.
type FilterSetEntry struct {
	Type    Type
	Filters []Filter
}

// Entry builds a FilterSetEntry. A nil type stands for Wildcard; passing a
// single filter yields a one-element list.
func Entry(t Type, filters ...Filter) FilterSetEntry {
	if t == nil {
		t = Wildcard
	}
	return FilterSetEntry{Type: t, Filters: filters}
}

// FilterSet maps a type (or Wildcard) to an ordered list of filters. It is
// pure data plus a lookup; built once and never mutated after construction.
type FilterSet struct {
	filters map[TypeKey][]Filter
}

// NewFilterSet builds a FilterSet from the given entries. Entries for the
// same type are concatenated in argument order.
func NewFilterSet(entries ...FilterSetEntry) *FilterSet {
	set := &FilterSet{filters: make(map[TypeKey][]Filter, len(entries))}
	for _, entry := range entries {
		t := entry.Type
		if t == nil {
			t = Wildcard
		}
		set.filters[t.Key()] = append(set.filters[t.Key()], entry.Filters...)
	}
	return set
}

// Filters returns the ordered filter list for t, or an empty list when the
// set has no entry for t.
func (s *FilterSet) Filters(t Type) []Filter {
	if t == nil {
		return nil
	}
	return s.filters[t.Key()]
}

// Len returns the number of types the set has filters for.
func (s *FilterSet) Len() int { return len(s.filters) }
