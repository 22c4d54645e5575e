package mixer

import (
	"go.uber.org/zap"
)

// AlwaysExcludedNames are attribute names excluded from synchronization for
// every type: host bookkeeping, read-only runtime state, and the replica
// tracking id the engine manages itself. Names in this set are exempt from
// the stale-exclusion diagnostic.
var AlwaysExcludedNames = NewNameSet(
	"type_info",
	"dependency_graph",
	"type_descriptor",
	"is_evaluated",
	"original",
	"users",
	"use_fake_user",
	"tag",
	"is_library_indirect",
	"library",
	"override_library",
	"preview",
	"mixer_uuid",
)

// RootCollectionExcludes are top-level collections never synchronized, even
// by the broad diagnostic configuration. Collections that may be the target
// of a datablock reference must not be listed here, otherwise the reference
// would resolve to a full datablock instead of a datablock reference.
var RootCollectionExcludes = []string{
	// generates harmless warnings when enum attributes are initialized
	// with a value not in the enum
	"brushes",
	// actions hold a circular reference between group channels and curves
	"actions",
	"screens",
	"window_managers",
	"workspaces",
}

// SafeCollectionNames are the top-level collections the restrictive
// configuration synchronizes. The external differencer monitors exactly
// these collections for creation, removal and rename events.
var SafeCollectionNames = []string{
	"cameras",
	"collections",
	"grease_pencils",
	"images",
	"lattices",
	"lights",
	"materials",
	"meshes",
	"metaballs",
	"objects",
	"scenes",
	"sounds",
	"worlds",
}

// SafeUpdateTypeNames are the datablock types whose live updates are
// eligible for generic synchronization under the safe configuration.
var SafeUpdateTypeNames = []string{
	"Camera",
	"Collection",
	"Image",
	"Lattice",
	"Light",
	"Material",
	"MetaBall",
	"NodeTree",
	"Object",
	"Scene",
	"Sound",
	"World",
}

// lookupTypes resolves type names against the model. Unknown names are
// skipped with a warning so a host schema revision cannot stop rule
// assembly entirely.
func lookupTypes(model ObjectModel, names ...string) []Type {
	types := make([]Type, 0, len(names))
	for _, name := range names {
		t, ok := model.TypeByName(name)
		if !ok {
			zap.S().Warnw("rule references unknown host type, skipping", "type", name)
			continue
		}
		types = append(types, t)
	}
	return types
}

// entryFor builds a FilterSetEntry for a named type, or false when the model
// does not know the type.
func entryFor(model ObjectModel, typeName string, filters ...Filter) (FilterSetEntry, bool) {
	t, ok := model.TypeByName(typeName)
	if !ok {
		zap.S().Warnw("rule references unknown host type, skipping", "type", typeName)
		return FilterSetEntry{}, false
	}
	return Entry(t, filters...), true
}

// BaseExclusions is the shared base rule layer: generic exclusions at the
// wildcard level plus per-type overrides for attributes that are read-only
// views, involve circular references, or are handled by dedicated messages.
func BaseExclusions(model ObjectModel) *FilterSet {
	alwaysExcluded := make([]string, 0, len(AlwaysExcludedNames))
	for name := range AlwaysExcludedNames {
		alwaysExcluded = append(alwaysExcluded, name)
	}

	entries := []FilterSetEntry{
		Entry(Wildcard,
			NewTypeFilterOut(lookupTypes(model, "MeshVertex")...),
			// parent and child are involved in a circular reference
			NewTypeFilterOut(lookupTypes(model, "PoseBone")...),
			NewNameFilterOut(alwaysExcluded...),
		),
		// the root keeps only its collection-valued attributes, minus the
		// excluded collections
		Entry(model.Root(),
			NewNameFilterOut(RootCollectionExcludes...),
			NewFuncFilterOut(func(attr Attribute) bool { return !attr.IsCollection() }),
		),
	}

	perType := []struct {
		typeName string
		filters  []Filter
	}{
		{"ActionGroup", []Filter{NewNameFilterOut("channels")}},
		// makes a loop
		{"Bone", []Filter{NewNameFilterOut("parent")}},
		{"Collection", []Filter{NewNameFilterOut("all_objects")}},
		{"CurveMapPoint", []Filter{NewNameFilterOut("select")}},
		{"Image", []Filter{
			NewNameFilterOut("pixels"),
			// handled by image packing, meaningless to synchronize
			NewNameFilterOut("packed_file", "packed_files"),
		}},
		{"LayerCollection", []Filter{
			// a view of the master collection and its children
			NewNameFilterOut("collection", "children"),
		}},
		// handled by a dedicated mesh message; keep the datablock for its
		// tracking id but do not synchronize its contents
		{"GreasePencil", []Filter{NewNameFilterIn("name")}},
		{"Mesh", []Filter{NewNameFilterIn("name")}},
		{"MeshPolygon", []Filter{NewNameFilterOut("area")}},
		// vertex groups are updated via the owning object
		{"MeshVertex", []Filter{NewNameFilterOut("groups")}},
		{"Node", []Filter{
			// dimensions cannot be written, set by the editor
			NewNameFilterOut("internal_links", "dimensions"),
		}},
		{"NodeLink", []Filter{
			NewNameFilterOut("from_node", "from_socket", "to_node", "to_socket", "is_hidden"),
		}},
		{"NodeTree", []Filter{
			// read only
			NewNameFilterOut("view_center", "name"),
		}},
		{"Object", []Filter{
			NewNameFilterOut(
				// bounding box and dimensions are recomputed on load
				"dimensions",
				"bound_box",
				"material_slots",
				"field",
				// loop between active_shape_key and relative_key
				"active_shape_key",
				"vertex_groups",
			),
		}},
		{"RenderSettings", []Filter{
			// a view of "right" and "left" from the stereo views collection
			NewNameFilterOut("stereo_views"),
		}},
		{"Scene", []Filter{
			NewNameFilterOut(
				// setting either may reset the other to frame_start or frame_end
				"frame_preview_start",
				"frame_preview_end",
				// a view into the scene objects
				"objects",
				"tool_settings",
				"node_tree",
				"view_layers",
				"rigidbody_world",
			),
		}},
		{"SequenceEditor", []Filter{NewNameFilterOut("active_strip", "sequences_all")}},
		{"ViewLayer", []Filter{
			NewNameFilterOut("freestyle_settings"),
			// a view into the layer objects
			NewNameFilterOut("objects"),
			NewNameFilterOut("active_layer_collection"),
		}},
	}
	for _, rule := range perType {
		if entry, ok := entryFor(model, rule.typeName, rule.filters...); ok {
			entries = append(entries, entry)
		}
	}

	return NewFilterSet(entries...)
}

// TestFilterStack is the broad configuration for diagnostics and tests:
// only the shared base exclusions, every collection synchronized.
func TestFilterStack(model ObjectModel) *FilterStack {
	return NewFilterStack(BaseExclusions(model))
}

// SafeFilterStack is the restrictive configuration used for production
// synchronization: the shared base exclusions, a layer of safe-mode
// overrides, and an allow-list of top-level collections at the root.
func SafeFilterStack(model ObjectModel) *FilterStack {
	stack := NewFilterStack(BaseExclusions(model))
	// safe-mode per-type overrides; none at the moment
	stack.Append(NewFilterSet())
	stack.Append(NewFilterSet(
		Entry(model.Root(), NewNameFilterIn(SafeCollectionNames...)),
	))
	return stack
}

// TestProperties builds the broad query surface over model.
func TestProperties(model ObjectModel) *SynchronizedProperties {
	return NewSynchronizedProperties(model, TestFilterStack(model))
}

// SafeProperties builds the restrictive query surface over model. This is
// the configuration consulted by the differencer and changeset builder.
func SafeProperties(model ObjectModel) *SynchronizedProperties {
	return NewSynchronizedProperties(model, SafeFilterStack(model))
}

// SafeUpdateTypes resolves SafeUpdateTypeNames against model, skipping
// names the host schema does not declare.
func SafeUpdateTypes(model ObjectModel) []Type {
	return lookupTypes(model, SafeUpdateTypeNames...)
}
