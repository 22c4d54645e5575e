package internal

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OpenWRLD/mixer"
)

// DatablockRef identifies one top-level datablock in the live host graph.
// Transient datablocks (viewer images, render results) are never considered
// created, removed or renamed.
type DatablockRef struct {
	UUID      uuid.UUID
	Name      string
	Transient bool
}

// GraphState enumerates the live datablocks of a top-level collection, in
// host order.
type GraphState interface {
	Datablocks(collection string) []DatablockRef
}

// Snapshot is the previously synchronized graph state: per collection, the
// datablock names keyed by their tracking id.
type Snapshot map[string]map[uuid.UUID]string

// NewSnapshot returns an empty snapshot; every live datablock diffs as
// created against it.
func NewSnapshot() Snapshot {
	return make(Snapshot)
}

// Rename records a datablock whose tracking id survived under a new name.
type Rename struct {
	UUID    uuid.UUID
	OldName string
	NewName string
}

// CollectionDelta is the coarse difference of one top-level collection:
// created, removed and renamed datablocks, matched by tracking id.
type CollectionDelta struct {
	Collection string
	Created    []DatablockRef
	Removed    []uuid.UUID
	Renamed    []Rename
}

func (d CollectionDelta) empty() bool {
	return len(d.Created) == 0 && len(d.Removed) == 0 && len(d.Renamed) == 0
}

// GraphDiff computes the coarse datablock-level difference between a
// snapshot and the live graph, restricted to the collections the given
// configuration synchronizes at the root type.
type GraphDiff struct {
	reservedRemovalName string
	deltas              []CollectionDelta
}

// NewGraphDiff creates a differencer. Datablocks named reservedRemovalName
// are staged for removal by the engine itself and are ignored entirely.
func NewGraphDiff(reservedRemovalName string) *GraphDiff {
	return &GraphDiff{reservedRemovalName: reservedRemovalName}
}

// Diff walks every collection handled by props (in root declaration order)
// and records the per-collection deltas. Collections absent from the
// snapshot diff as all-created.
func (d *GraphDiff) Diff(props *mixer.SynchronizedProperties, prev Snapshot, live GraphState) error {
	handled, err := props.PropertiesOf(props.Model().Root())
	if err != nil {
		return err
	}

	d.deltas = d.deltas[:0]
	for _, collection := range handled.Names() {
		current := d.visible(live.Datablocks(collection))
		delta := diffCollection(collection, prev[collection], current)
		if !delta.empty() {
			zap.S().Debugw("collection delta",
				"collection", collection,
				"created", len(delta.Created),
				"removed", len(delta.Removed),
				"renamed", len(delta.Renamed))
		}
		d.deltas = append(d.deltas, delta)
	}
	return nil
}

// Deltas returns the per-collection deltas from the last Diff call, in root
// declaration order.
func (d *GraphDiff) Deltas() []CollectionDelta { return d.deltas }

// Empty reports whether the last Diff found no change at all.
func (d *GraphDiff) Empty() bool {
	for _, delta := range d.deltas {
		if !delta.empty() {
			return false
		}
	}
	return true
}

func (d *GraphDiff) visible(refs []DatablockRef) []DatablockRef {
	visible := make([]DatablockRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Transient || ref.Name == d.reservedRemovalName {
			continue
		}
		visible = append(visible, ref)
	}
	return visible
}

func diffCollection(collection string, prev map[uuid.UUID]string, current []DatablockRef) CollectionDelta {
	delta := CollectionDelta{Collection: collection}

	seen := make(map[uuid.UUID]struct{}, len(current))
	for _, ref := range current {
		seen[ref.UUID] = struct{}{}
		oldName, existed := prev[ref.UUID]
		switch {
		case !existed:
			delta.Created = append(delta.Created, ref)
		case oldName != ref.Name:
			delta.Renamed = append(delta.Renamed, Rename{UUID: ref.UUID, OldName: oldName, NewName: ref.Name})
		}
	}

	for id := range prev {
		if _, stillThere := seen[id]; !stillThere {
			delta.Removed = append(delta.Removed, id)
		}
	}
	// map iteration order is random; keep removals deterministic
	sort.Slice(delta.Removed, func(i, j int) bool {
		return delta.Removed[i].String() < delta.Removed[j].String()
	})

	return delta
}

// Apply folds a delta into the snapshot so the next Diff starts from the
// just-synchronized state.
func (s Snapshot) Apply(delta CollectionDelta) {
	items := s[delta.Collection]
	if items == nil {
		items = make(map[uuid.UUID]string)
		s[delta.Collection] = items
	}
	for _, ref := range delta.Created {
		items[ref.UUID] = ref.Name
	}
	for _, rename := range delta.Renamed {
		items[rename.UUID] = rename.NewName
	}
	for _, id := range delta.Removed {
		delete(items, id)
	}
}
