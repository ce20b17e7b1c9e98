package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

func TestAuditAction_IsValid(t *testing.T) {
	valid := []AuditAction{
		ActionRoomMove, ActionQuantityAdjustment, ActionSplit, ActionCombine,
		ActionDestroy, ActionCreateLot, ActionSale, ActionVoidSale, ActionUndo,
	}
	for _, action := range valid {
		assert.True(t, action.IsValid(), action.String())
	}
	assert.False(t, AuditAction("TELEPORT").IsValid())
	assert.False(t, AuditAction("").IsValid())
}

func TestAuditAction_IsUndoable(t *testing.T) {
	assert.True(t, ActionRoomMove.IsUndoable())
	assert.True(t, ActionQuantityAdjustment.IsUndoable())

	// Everything else requires re-creating rows or lineage the
	// snapshots do not capture, including the UNDO entry itself.
	notUndoable := []AuditAction{
		ActionSplit, ActionCombine, ActionDestroy, ActionCreateLot,
		ActionSale, ActionVoidSale, ActionUndo,
	}
	for _, action := range notUndoable {
		assert.False(t, action.IsUndoable(), action.String())
	}
}

func TestNewAuditLogEntry(t *testing.T) {
	t.Run("creates entry with snapshots", func(t *testing.T) {
		locationID := uuid.New()
		entityID := uuid.New()
		actorID := uuid.New()

		entry, err := NewAuditLogEntry(locationID, EntityInventoryItem, entityID,
			ActionRoomMove, `{"old":true}`, `{"new":true}`, "restock move", &actorID)

		require.NoError(t, err)
		assert.Equal(t, locationID, entry.LocationID)
		assert.Equal(t, entityID, entry.EntityID)
		assert.Equal(t, ActionRoomMove, entry.Action)
		assert.Equal(t, `{"old":true}`, entry.OldValue)
		assert.Equal(t, `{"new":true}`, entry.NewValue)
		assert.Equal(t, "restock move", entry.Reason)
		assert.Equal(t, &actorID, entry.ActorID)
		assert.False(t, entry.RecordedAt.IsZero())
	})

	t.Run("rejects empty location", func(t *testing.T) {
		_, err := NewAuditLogEntry(uuid.Nil, EntityInventoryItem, uuid.New(), ActionSale, "", "", "", nil)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects empty entity", func(t *testing.T) {
		_, err := NewAuditLogEntry(uuid.New(), EntityInventoryItem, uuid.Nil, ActionSale, "", "", "", nil)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		_, err := NewAuditLogEntry(uuid.New(), EntityInventoryItem, uuid.New(), AuditAction("NOPE"), "", "", "", nil)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestItemSnapshot_RoundTrip(t *testing.T) {
	t.Run("captures and restores all replayable fields", func(t *testing.T) {
		strainID := uuid.New()
		item, err := NewInventoryItem(uuid.New(), uuid.New(), uuid.New(), "ABC123", decimal.RequireFromString("100.5"))
		require.NoError(t, err)
		item.WithStrain(strainID).
			WithUsableWeight(decimal.RequireFromString("80.25")).
			WithSublot("PARENT-2")

		raw, err := item.Snapshot().Marshal()
		require.NoError(t, err)

		restored, err := UnmarshalItemSnapshot(raw)
		require.NoError(t, err)
		assert.Equal(t, "ABC123", restored.Barcode)
		assert.Equal(t, item.InventoryTypeID, restored.InventoryTypeID)
		assert.True(t, restored.Quantity.Equal(decimal.RequireFromString("100.5")))
		require.NotNil(t, restored.UsableWeight)
		assert.True(t, restored.UsableWeight.Equal(decimal.RequireFromString("80.25")))
		assert.Equal(t, item.RoomID, restored.RoomID)
		require.NotNil(t, restored.SublotID)
		assert.Equal(t, "PARENT-2", *restored.SublotID)
		assert.Nil(t, restored.DeletedAt)
	})

	t.Run("omits unset optional fields", func(t *testing.T) {
		item, err := NewInventoryItem(uuid.New(), uuid.New(), uuid.New(), "ABC123", decimal.NewFromInt(5))
		require.NoError(t, err)

		raw, err := item.Snapshot().Marshal()
		require.NoError(t, err)

		assert.NotContains(t, raw, "usable_weight")
		assert.NotContains(t, raw, "sublot_id")
		assert.NotContains(t, raw, "deleted_at")
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := UnmarshalItemSnapshot("{broken")
		assert.Error(t, err)
	})
}
