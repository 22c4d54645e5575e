package internal

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OpenWRLD/mixer"
)

// ChangeItem identifies one datablock-level change within a collection.
type ChangeItem struct {
	Collection string
	UUID       uuid.UUID
	Name       string
}

// RenameItem records a surviving datablock under its old and new names.
type RenameItem struct {
	Collection string
	UUID       uuid.UUID
	OldName    string
	NewName    string
}

// UpdateItem records a depsgraph update to an existing datablock. TypeName
// is the host type of the updated datablock.
type UpdateItem struct {
	Collection string
	UUID       uuid.UUID
	Name       string
	TypeName   string
}

// Changeset is one synchronization round's worth of changes, grouped by
// kind and ready to send.
type Changeset struct {
	Creations []ChangeItem
	Removals  []ChangeItem
	Renames   []RenameItem
	Updates   []UpdateItem
}

// Empty reports whether the changeset carries no change.
func (c *Changeset) Empty() bool {
	return len(c.Creations) == 0 && len(c.Removals) == 0 && len(c.Renames) == 0 && len(c.Updates) == 0
}

// BuildChangeset assembles a changeset from the per-collection deltas of a
// diff plus the raw depsgraph updates of the same round. Updates to
// datablocks that were created or removed in this round are dropped since
// the creation or removal already carries the full state.
func BuildChangeset(deltas []CollectionDelta, updates []UpdateItem) *Changeset {
	changeset := &Changeset{}

	createdOrRemoved := make(map[uuid.UUID]struct{})
	for _, delta := range deltas {
		for _, ref := range delta.Created {
			changeset.Creations = append(changeset.Creations, ChangeItem{
				Collection: delta.Collection, UUID: ref.UUID, Name: ref.Name,
			})
			createdOrRemoved[ref.UUID] = struct{}{}
		}
		for _, id := range delta.Removed {
			changeset.Removals = append(changeset.Removals, ChangeItem{
				Collection: delta.Collection, UUID: id,
			})
			createdOrRemoved[id] = struct{}{}
		}
		for _, rename := range delta.Renamed {
			changeset.Renames = append(changeset.Renames, RenameItem{
				Collection: delta.Collection,
				UUID:       rename.UUID,
				OldName:    rename.OldName,
				NewName:    rename.NewName,
			})
		}
	}

	for _, update := range updates {
		if _, skip := createdOrRemoved[update.UUID]; skip {
			continue
		}
		changeset.Updates = append(changeset.Updates, update)
	}

	return changeset
}

// FilterUpdatesByType drops updates whose datablock type is not in allowed,
// logging each dropped update once. Unsafe types (meshes under edit, grease
// pencil) are excluded from update synchronization this way.
func (c *Changeset) FilterUpdatesByType(allowed mixer.NameSet) {
	kept := c.Updates[:0]
	for _, update := range c.Updates {
		if !allowed.Contains(update.TypeName) {
			zap.S().Debugw("skipping update for unhandled type",
				"type", update.TypeName, "name", update.Name)
			continue
		}
		kept = append(kept, update)
	}
	c.Updates = kept
}

// Sender delivers one kind of change to the peers.
type Sender interface {
	SendCreation(ctx context.Context, item ChangeItem) error
	SendRemoval(ctx context.Context, item ChangeItem) error
	SendRename(ctx context.Context, item RenameItem) error
	SendUpdate(ctx context.Context, item UpdateItem) error
}

// Send delivers the changeset in dependency order. Creations go out before
// updates so that collection updates referencing new datablocks find a
// valid target on the receiving side; removals and renames go out before
// updates for the same reason.
func (c *Changeset) Send(ctx context.Context, sender Sender) error {
	for _, item := range c.Creations {
		if err := sender.SendCreation(ctx, item); err != nil {
			return err
		}
	}
	for _, item := range c.Removals {
		if err := sender.SendRemoval(ctx, item); err != nil {
			return err
		}
	}
	for _, item := range c.Renames {
		if err := sender.SendRename(ctx, item); err != nil {
			return err
		}
	}
	for _, item := range c.Updates {
		if err := sender.SendUpdate(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
