package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
)

// MoveItemRequest moves one item to another room at the same location
type MoveItemRequest struct {
	ItemID         uuid.UUID  `json:"item_id"`
	TargetRoomID   uuid.UUID  `json:"target_room_id"`
	Reason         string     `json:"reason"`
	ActorID        *uuid.UUID `json:"actor_id,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

// AdjustQuantityRequest applies a signed quantity delta to one item
type AdjustQuantityRequest struct {
	ItemID         uuid.UUID       `json:"item_id"`
	Delta          decimal.Decimal `json:"delta"`
	AdjustmentType string          `json:"adjustment_type"`
	Reason         string          `json:"reason"`
	ActorID        *uuid.UUID      `json:"actor_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// SplitPart describes one child produced by a split. RoomID defaults to
// the parent's room when nil.
type SplitPart struct {
	Quantity decimal.Decimal `json:"quantity"`
	RoomID   *uuid.UUID      `json:"room_id,omitempty"`
}

// SplitItemRequest carves one or more child items out of a parent
type SplitItemRequest struct {
	ItemID         uuid.UUID   `json:"item_id"`
	Parts          []SplitPart `json:"parts"`
	Reason         string      `json:"reason"`
	ActorID        *uuid.UUID  `json:"actor_id,omitempty"`
	IdempotencyKey string      `json:"idempotency_key,omitempty"`
}

// CombineItemsRequest merges source items into a target. When
// TargetItemID is nil a new item is created; TargetRoomID then picks its
// room, defaulting to the shared room of the sources.
type CombineItemsRequest struct {
	ItemIDs        []uuid.UUID `json:"item_ids"`
	TargetItemID   *uuid.UUID  `json:"target_item_id,omitempty"`
	TargetRoomID   *uuid.UUID  `json:"target_room_id,omitempty"`
	Reason         string      `json:"reason"`
	ActorID        *uuid.UUID  `json:"actor_id,omitempty"`
	IdempotencyKey string      `json:"idempotency_key,omitempty"`
}

// DestroyItemRequest destroys material into the location's waste type.
// A nil Amount destroys the item's full quantity.
type DestroyItemRequest struct {
	ItemID         uuid.UUID        `json:"item_id"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Method         string           `json:"method"`
	Reason         string           `json:"reason"`
	ActorID        *uuid.UUID       `json:"actor_id,omitempty"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
}

// CreateLotRequest groups source items into a new lot item. LotTypeID
// defaults to the location's LOT inventory type when nil.
type CreateLotRequest struct {
	ItemIDs        []uuid.UUID `json:"item_ids"`
	TargetRoomID   uuid.UUID   `json:"target_room_id"`
	LotName        string      `json:"lot_name"`
	LotTypeID      *uuid.UUID  `json:"lot_type_id,omitempty"`
	Reason         string      `json:"reason"`
	ActorID        *uuid.UUID  `json:"actor_id,omitempty"`
	IdempotencyKey string      `json:"idempotency_key,omitempty"`
}

// UndoRequest reverses a previously recorded undoable audit entry
type UndoRequest struct {
	AuditEntryID uuid.UUID  `json:"audit_entry_id"`
	Reason       string     `json:"reason"`
	ActorID      *uuid.UUID `json:"actor_id,omitempty"`
}

// ItemResponse is the read model of an inventory item
type ItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	Barcode         string           `json:"barcode"`
	InventoryTypeID uuid.UUID        `json:"inventory_type_id"`
	StrainID        *uuid.UUID       `json:"strain_id,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UsableWeight    *decimal.Decimal `json:"usable_weight,omitempty"`
	RoomID          uuid.UUID        `json:"room_id"`
	SublotID        *string          `json:"sublot_id,omitempty"`
	Retired         bool             `json:"retired"`
	Version         int              `json:"version"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToItemResponse converts an item to its read model
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		Barcode:         item.Barcode,
		InventoryTypeID: item.InventoryTypeID,
		StrainID:        item.StrainID,
		Quantity:        item.Quantity,
		UsableWeight:    item.UsableWeight,
		RoomID:          item.RoomID,
		SublotID:        item.SublotID,
		Retired:         !item.IsActive(),
		Version:         item.Version,
		UpdatedAt:       item.UpdatedAt,
	}
}

// AdjustQuantityResponse carries the adjusted item and the review flag
type AdjustQuantityResponse struct {
	Item    ItemResponse `json:"item"`
	RedFlag bool         `json:"red_flag"`
}

// SplitItemResponse carries the reduced parent and the created children
type SplitItemResponse struct {
	Parent   ItemResponse   `json:"parent"`
	Children []ItemResponse `json:"children"`
}

// CombineItemsResponse carries the combined item
type CombineItemsResponse struct {
	Combined    ItemResponse `json:"combined"`
	SourceCount int          `json:"source_count"`
}

// DestroyItemResponse carries the waste item and what remains of the source
type DestroyItemResponse struct {
	Source ItemResponse `json:"source"`
	Waste  ItemResponse `json:"waste"`
}

// CreateLotResponse carries the lot identity and its backing item
type CreateLotResponse struct {
	LotID   uuid.UUID    `json:"lot_id"`
	LotName string       `json:"lot_name"`
	LotItem ItemResponse `json:"lot_item"`
}

// UndoResponse carries the restored item and the correcting entry
type UndoResponse struct {
	Item         ItemResponse          `json:"item"`
	UndoneAction inventory.AuditAction `json:"undone_action"`
	UndoEntryID  uuid.UUID             `json:"undo_entry_id"`
}

// AuditEntryResponse is the read model of one audit entry
type AuditEntryResponse struct {
	ID         uuid.UUID             `json:"id"`
	EntityType inventory.EntityType  `json:"entity_type"`
	EntityID   uuid.UUID             `json:"entity_id"`
	Action     inventory.AuditAction `json:"action"`
	OldValue   string                `json:"old_value,omitempty"`
	NewValue   string                `json:"new_value,omitempty"`
	Reason     string                `json:"reason,omitempty"`
	ActorID    *uuid.UUID            `json:"actor_id,omitempty"`
	RecordedAt time.Time             `json:"recorded_at"`
	Undoable   bool                  `json:"undoable"`
}

// ToAuditEntryResponse converts an audit entry to its read model
func ToAuditEntryResponse(entry *inventory.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		OldValue:   entry.OldValue,
		NewValue:   entry.NewValue,
		Reason:     entry.Reason,
		ActorID:    entry.ActorID,
		RecordedAt: entry.RecordedAt,
		Undoable:   entry.Action.IsUndoable(),
	}
}
