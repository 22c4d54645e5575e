package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/OpenWRLD/mixer"
)

// ObjectModelDocument is the on-disk description of a host object model:
// the structural types, their single-inheritance bases and their ordered
// attribute declarations.
type ObjectModelDocument struct {
	Name  string         `json:"name"`
	Root  string         `json:"root"`
	Types []TypeDocument `json:"types"`
}

// TypeDocument declares one structural type.
type TypeDocument struct {
	Name       string              `json:"name"`
	Base       string              `json:"base,omitempty"`
	Attributes []AttributeDocument `json:"attributes,omitempty"`
}

// AttributeDocument declares one attribute. Kind is scalar, pointer or
// collection; Type names the declared element type, either another declared
// type or a builtin.
type AttributeDocument struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

const (
	kindScalar     = "scalar"
	kindPointer    = "pointer"
	kindCollection = "collection"
)

// builtinElementTypes are leaf element types every model knows without
// declaring them.
var builtinElementTypes = []string{"string", "int", "float", "bool", "bytes"}

// objectModelSchema validates model documents before they are built.
const objectModelSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "root", "types"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "root": {"type": "string", "minLength": 1},
    "types": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "base": {"type": "string"},
          "attributes": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type", "kind"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "type": {"type": "string", "minLength": 1},
                "kind": {"type": "string", "enum": ["scalar", "pointer", "collection"]}
              }
            }
          }
        }
      }
    }
  }
}`

type hostType struct {
	name  string
	base  *hostType
	attrs []mixer.Attribute
}

func (t *hostType) Key() mixer.TypeKey { return mixer.TypeKey(t.name) }
func (t *hostType) Name() string       { return t.name }

type hostAttribute struct {
	name      string
	declaring *hostType
	element   *hostType
	kind      string
}

func (a *hostAttribute) Name() string { return a.name }

func (a *hostAttribute) DeclaringType() mixer.Type { return a.declaring }

func (a *hostAttribute) ElementType() mixer.Type {
	if a.element == nil {
		return nil
	}
	return a.element
}

func (a *hostAttribute) IsReferenceTo(t mixer.Type) bool {
	return a.kind == kindPointer && a.element != nil && a.element.Key() == t.Key()
}

func (a *hostAttribute) IsCollection() bool { return a.kind == kindCollection }

func (a *hostAttribute) IsCollectionOf(t mixer.Type) bool {
	return a.kind == kindCollection && a.element != nil && a.element.Key() == t.Key()
}

// Model is an immutable in-memory host object model. It implements
// mixer.ObjectModel and is safe for concurrent reads once built.
type Model struct {
	name  string
	root  *hostType
	types map[string]*hostType
}

// LoadModel reads and builds a model document from a file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mixer.NewModelUnavailableError(fmt.Sprintf("cannot read model file %s", path)).WithCause(err)
	}
	return ParseModel(data)
}

// ParseModel validates data against the model document schema and builds
// the model.
func ParseModel(data []byte) (*Model, error) {
	doc, err := ParseModelDocument(data)
	if err != nil {
		return nil, err
	}
	return NewModel(doc)
}

// ParseModelDocument validates data against the model document schema and
// decodes it without building the model.
func ParseModelDocument(data []byte) (ObjectModelDocument, error) {
	if err := validateModelDocument(data); err != nil {
		return ObjectModelDocument{}, mixer.NewModelInvalidError("model document failed schema validation").WithCause(err)
	}

	var doc ObjectModelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ObjectModelDocument{}, mixer.NewModelInvalidError("cannot decode model document").WithCause(err)
	}
	return doc, nil
}

func validateModelDocument(data []byte) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(objectModelSchema), &schema); err != nil {
		return fmt.Errorf("failed to unmarshal into jsonschema.Schema: %w", err)
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("failed to resolve JSON schema: %w", err)
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("failed to unmarshal model document: %w", err)
	}
	return resolved.Validate(document)
}

// NewModel builds an immutable model from a document. It fails on duplicate
// type or attribute names, unknown base or element types, base cycles and a
// missing root type.
func NewModel(doc ObjectModelDocument) (*Model, error) {
	model := &Model{
		name:  doc.Name,
		types: make(map[string]*hostType, len(doc.Types)+len(builtinElementTypes)),
	}
	for _, builtin := range builtinElementTypes {
		model.types[builtin] = &hostType{name: builtin}
	}

	for _, typeDoc := range doc.Types {
		if _, exists := model.types[typeDoc.Name]; exists {
			return nil, mixer.NewModelInvalidError("duplicate type declaration").WithTypeName(typeDoc.Name)
		}
		model.types[typeDoc.Name] = &hostType{name: typeDoc.Name}
	}

	for _, typeDoc := range doc.Types {
		t := model.types[typeDoc.Name]
		if typeDoc.Base != "" {
			base, ok := model.types[typeDoc.Base]
			if !ok {
				return nil, mixer.NewModelInvalidError(fmt.Sprintf("unknown base type %q", typeDoc.Base)).WithTypeName(typeDoc.Name)
			}
			t.base = base
		}

		seen := make(map[string]struct{}, len(typeDoc.Attributes))
		for _, attrDoc := range typeDoc.Attributes {
			if _, dup := seen[attrDoc.Name]; dup {
				return nil, mixer.NewModelInvalidError("duplicate attribute declaration").
					WithTypeName(typeDoc.Name).WithAttribute(attrDoc.Name)
			}
			seen[attrDoc.Name] = struct{}{}

			element, ok := model.types[attrDoc.Type]
			if !ok {
				return nil, mixer.NewModelInvalidError(fmt.Sprintf("unknown element type %q", attrDoc.Type)).
					WithTypeName(typeDoc.Name).WithAttribute(attrDoc.Name)
			}
			t.attrs = append(t.attrs, &hostAttribute{
				name:      attrDoc.Name,
				declaring: t,
				element:   element,
				kind:      attrDoc.Kind,
			})
		}
	}

	for _, typeDoc := range doc.Types {
		if err := checkBaseChain(model.types[typeDoc.Name]); err != nil {
			return nil, err
		}
	}

	root, ok := model.types[doc.Root]
	if !ok {
		return nil, mixer.NewModelInvalidError("root type not declared").WithTypeName(doc.Root)
	}
	model.root = root

	return model, nil
}

func checkBaseChain(t *hostType) error {
	seen := make(map[string]struct{})
	for current := t; current != nil; current = current.base {
		if _, visited := seen[current.name]; visited {
			return mixer.NewModelInvalidError("base chain contains a cycle").WithTypeName(t.name)
		}
		seen[current.name] = struct{}{}
	}
	return nil
}

// Name returns the model's declared name.
func (m *Model) Name() string { return m.name }

// DeclaredAttributes returns the attributes declared directly on t, in
// document order.
func (m *Model) DeclaredAttributes(t mixer.Type) []mixer.Attribute {
	host, ok := m.types[string(t.Key())]
	if !ok {
		return nil
	}
	return host.attrs
}

// BaseType returns t's base type, or false for a root type.
func (m *Model) BaseType(t mixer.Type) (mixer.Type, bool) {
	host, ok := m.types[string(t.Key())]
	if !ok || host.base == nil {
		return nil, false
	}
	return host.base, true
}

// TypeByName resolves a declared or builtin type by name.
func (m *Model) TypeByName(name string) (mixer.Type, bool) {
	t, ok := m.types[name]
	if !ok {
		return nil, false
	}
	return t, ok
}

// Root returns the distinguished root type.
func (m *Model) Root() mixer.Type { return m.root }

// TopLevelCollectionNames lists the collection-valued attributes of the
// root type, in declaration order.
func (m *Model) TopLevelCollectionNames() []string {
	var names []string
	for _, attr := range m.root.attrs {
		if attr.IsCollection() {
			names = append(names, attr.Name())
		}
	}
	return names
}

// TypeNames returns the declared type names, sorted, excluding builtins.
func (m *Model) TypeNames() []string {
	builtins := make(map[string]struct{}, len(builtinElementTypes))
	for _, builtin := range builtinElementTypes {
		builtins[builtin] = struct{}{}
	}
	names := make([]string, 0, len(m.types))
	for name := range m.types {
		if _, isBuiltin := builtins[name]; !isBuiltin {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
