package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestorChain(t *testing.T) {
	model := newFakeModel()
	id := model.addType("ID", nil)
	object := model.addType("Object", id)

	chain := AncestorChain(model, object)

	require.Len(t, chain, 3)
	assert.Equal(t, TypeKey("Object"), chain[0].Key())
	assert.Equal(t, TypeKey("ID"), chain[1].Key())
	assert.Equal(t, WildcardKey, chain[2].Key())
}

func TestAncestorChain_RootType(t *testing.T) {
	model := newFakeModel()
	root := model.addType("ID", nil)

	chain := AncestorChain(model, root)

	require.Len(t, chain, 2)
	assert.Equal(t, TypeKey("ID"), chain[0].Key())
	assert.Equal(t, WildcardKey, chain[1].Key())
}

func TestAncestorChain_CyclicBaseTerminates(t *testing.T) {
	model := newFakeModel()
	a := model.addType("A", nil)
	b := model.addType("B", a)
	model.bases[a.Key()] = b

	chain := AncestorChain(model, b)

	require.Equal(t, WildcardKey, chain[len(chain)-1].Key())
	assert.Len(t, chain, 3)
}

func TestEvaluate_AncestorRulesApplyToDerived(t *testing.T) {
	model := newFakeModel()
	x := model.addType("X", nil)
	str := model.addType("string", nil)
	base := model.addType("Base", nil)
	derived := model.addType("Derived", base)
	attrs := []Attribute{
		model.addAttr(derived, "name", str, kindScalar),
		model.addAttr(derived, "payload", x, kindScalar),
	}

	stack := NewFilterStack(NewFilterSet(
		Entry(base, NewTypeFilterOut(x)),
	))

	got := stack.Evaluate(model, derived, attrs)

	assert.Equal(t, []string{"name"}, attrNames(got))
}

func TestEvaluate_IntersectionAcrossLayersAndAncestors(t *testing.T) {
	model := newFakeModel()
	str := model.addType("string", nil)
	base := model.addType("Base", nil)
	derived := model.addType("Derived", base)
	attrs := []Attribute{
		model.addAttr(derived, "a", str, kindScalar),
		model.addAttr(derived, "b", str, kindScalar),
		model.addAttr(derived, "c", str, kindScalar),
		model.addAttr(derived, "d", str, kindScalar),
	}

	keep := NewNameFilterIn("a", "b", "c")
	drop := NewNameFilterOut("b")

	// the same narrowing rules attached at different ancestors and layers
	// must always yield the intersection
	placements := []struct {
		name  string
		stack *FilterStack
	}{
		{"both on derived, one layer", NewFilterStack(
			NewFilterSet(Entry(derived, keep, drop)),
		)},
		{"keep on wildcard, drop on derived", NewFilterStack(
			NewFilterSet(Entry(Wildcard, keep), Entry(derived, drop)),
		)},
		{"split across layers", NewFilterStack(
			NewFilterSet(Entry(base, keep)),
			NewFilterSet(Entry(Wildcard, drop)),
		)},
		{"reverse layer order", NewFilterStack(
			NewFilterSet(Entry(Wildcard, drop)),
			NewFilterSet(Entry(base, keep)),
		)},
	}

	for _, tt := range placements {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stack.Evaluate(model, derived, attrs)
			assert.Equal(t, []string{"a", "c"}, attrNames(got))
		})
	}
}

func TestEvaluate_MissingEntriesAreNoOps(t *testing.T) {
	model := newFakeModel()
	str := model.addType("string", nil)
	owner := model.addType("Owner", nil)
	attrs := []Attribute{
		model.addAttr(owner, "name", str, kindScalar),
	}

	stack := NewFilterStack(NewFilterSet())
	stack.Append(NewFilterSet(Entry(model.addType("Unrelated", nil), NewNameFilterOut("name"))))

	got := stack.Evaluate(model, owner, attrs)

	assert.Equal(t, []string{"name"}, attrNames(got))
}

func TestFilterSet_Lookup(t *testing.T) {
	model := newFakeModel()
	owner := model.addType("Owner", nil)
	other := model.addType("Other", nil)
	filter := NewNameFilterOut("name")

	set := NewFilterSet(
		Entry(owner, filter),
		Entry(nil, filter, filter),
	)

	assert.Len(t, set.Filters(owner), 1)
	assert.Len(t, set.Filters(Wildcard), 2)
	assert.Empty(t, set.Filters(other))
	assert.Empty(t, set.Filters(nil))
	assert.Equal(t, 2, set.Len())
}

func TestFilterStack_AppendOrderIsEvaluationOrder(t *testing.T) {
	model := newFakeModel()
	str := model.addType("string", nil)
	owner := model.addType("Owner", nil)
	attrs := []Attribute{
		model.addAttr(owner, "a", str, kindScalar),
		model.addAttr(owner, "b", str, kindScalar),
	}

	var order []string
	recording := func(tag string) Filter {
		return NewFuncFilterOut(func(Attribute) bool {
			if len(order) == 0 || order[len(order)-1] != tag {
				order = append(order, tag)
			}
			return false
		})
	}

	stack := NewFilterStack(NewFilterSet(Entry(owner, recording("first"))))
	stack.Append(NewFilterSet(Entry(owner, recording("second"))))
	stack.Evaluate(model, owner, attrs)

	assert.Equal(t, []string{"first", "second"}, order)
}
