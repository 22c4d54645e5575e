package mixer

// FilterStack is an ordered, append-only sequence of FilterSet layers.
// Evaluation walks a type's ancestor chain (most specific first, Wildcard
// last) and, for each ancestor, applies every layer's filters for that
// ancestor in append order. Because every shipped filter is narrowing or
// allow-list, the outcome is the intersection of what each applicable
// layer/ancestor would keep alone, independent of nesting order.
type FilterStack struct {
	layers []*FilterSet
}

// NewFilterStack builds a stack from the given layers, first layer first.
func NewFilterStack(layers ...*FilterSet) *FilterStack {
	return &FilterStack{layers: layers}
}

// Append adds layer as the new last layer. There is no remove or replace.
func (s *FilterStack) Append(layer *FilterSet) {
	s.layers = append(s.layers, layer)
}

// Evaluate narrows attributes through every layer's filters along t's
// ancestor chain. Each filter's output becomes the next filter's input; the
// input slice itself is never mutated. Ancestors without filters in a layer
// contribute nothing.
func (s *FilterStack) Evaluate(provider AttributeProvider, t Type, attributes []Attribute) []Attribute {
	for _, ancestor := range AncestorChain(provider, t) {
		for _, layer := range s.layers {
			for _, filter := range layer.Filters(ancestor) {
				attributes = filter.Apply(attributes)
			}
		}
	}
	return attributes
}

// AncestorChain returns t, base(t), base(base(t)), ..., Wildcard. Host type
// hierarchies are acyclic and bounded; a base chain that cannot be resolved
// further, or that revisits a type, terminates at Wildcard rather than
// failing, so evaluation stays total.
func AncestorChain(provider AttributeProvider, t Type) []Type {
	var chain []Type
	seen := make(map[TypeKey]struct{})
	for current := t; current != nil && current.Key() != WildcardKey; {
		if _, visited := seen[current.Key()]; visited {
			break
		}
		seen[current.Key()] = struct{}{}
		chain = append(chain, current)
		base, ok := provider.BaseType(current)
		if !ok {
			break
		}
		current = base
	}
	return append(chain, Wildcard)
}
