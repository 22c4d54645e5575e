package mixer

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type attrKind int

const (
	kindScalar attrKind = iota
	kindPointer
	kindCollection
)

type fakeType struct {
	name string
}

func (t *fakeType) Key() TypeKey { return TypeKey(t.name) }
func (t *fakeType) Name() string { return t.name }

type fakeAttr struct {
	name      string
	declaring Type
	element   Type
	kind      attrKind
}

func (a *fakeAttr) Name() string        { return a.name }
func (a *fakeAttr) DeclaringType() Type { return a.declaring }
func (a *fakeAttr) ElementType() Type   { return a.element }

func (a *fakeAttr) IsReferenceTo(t Type) bool {
	return a.kind == kindPointer && a.element != nil && a.element.Key() == t.Key()
}

func (a *fakeAttr) IsCollection() bool { return a.kind == kindCollection }

func (a *fakeAttr) IsCollectionOf(t Type) bool {
	return a.kind == kindCollection && a.element != nil && a.element.Key() == t.Key()
}

// fakeModel is a minimal in-memory ObjectModel for engine tests.
type fakeModel struct {
	types map[string]Type
	bases map[TypeKey]Type
	attrs map[TypeKey][]Attribute
	root  Type
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		types: make(map[string]Type),
		bases: make(map[TypeKey]Type),
		attrs: make(map[TypeKey][]Attribute),
	}
}

func (m *fakeModel) addType(name string, base Type) Type {
	t := &fakeType{name: name}
	m.types[name] = t
	if base != nil {
		m.bases[t.Key()] = base
	}
	return t
}

func (m *fakeModel) addAttr(t Type, name string, element Type, kind attrKind) Attribute {
	attr := &fakeAttr{name: name, declaring: t, element: element, kind: kind}
	m.attrs[t.Key()] = append(m.attrs[t.Key()], attr)
	return attr
}

func (m *fakeModel) DeclaredAttributes(t Type) []Attribute {
	return m.attrs[t.Key()]
}

func (m *fakeModel) BaseType(t Type) (Type, bool) {
	base, ok := m.bases[t.Key()]
	return base, ok
}

func (m *fakeModel) TypeByName(name string) (Type, bool) {
	t, ok := m.types[name]
	return t, ok
}

func (m *fakeModel) Root() Type { return m.root }

func (m *fakeModel) TopLevelCollectionNames() []string {
	var names []string
	for _, attr := range m.attrs[m.root.Key()] {
		if attr.IsCollection() {
			names = append(names, attr.Name())
		}
	}
	return names
}

// countingFilter records how many times it is applied; used to observe
// memoization.
type countingFilter struct {
	calls *int
}

func (f countingFilter) Apply(attributes []Attribute) []Attribute {
	*f.calls++
	return attributes
}

// observeWarnings replaces the global logger with an observer core for the
// duration of the test and returns the captured logs.
func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func attrNames(attributes []Attribute) []string {
	names := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		names = append(names, attr.Name())
	}
	return names
}
