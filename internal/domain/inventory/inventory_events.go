package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// AggregateTypeInventoryItem is the aggregate type name for events
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants for inventory events
const (
	EventTypeItemMoved        = "ItemMoved"
	EventTypeQuantityAdjusted = "QuantityAdjusted"
	EventTypeItemRetired      = "ItemRetired"
	EventTypeItemSplit        = "ItemSplit"
	EventTypeItemsCombined    = "ItemsCombined"
	EventTypeItemDestroyed    = "ItemDestroyed"
	EventTypeLotCreated       = "LotCreated"
	EventTypeOperationUndone  = "OperationUndone"
)

// ItemMovedEvent is raised when an item changes rooms
type ItemMovedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID `json:"item_id"`
	Barcode    string    `json:"barcode"`
	FromRoomID uuid.UUID `json:"from_room_id"`
	ToRoomID   uuid.UUID `json:"to_room_id"`
}

// NewItemMovedEvent creates a new ItemMovedEvent
func NewItemMovedEvent(item *InventoryItem, fromRoomID, toRoomID uuid.UUID) *ItemMovedEvent {
	return &ItemMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemMoved, AggregateTypeInventoryItem, item.ID, item.LocationID),
		ItemID:          item.ID,
		Barcode:         item.Barcode,
		FromRoomID:      fromRoomID,
		ToRoomID:        toRoomID,
	}
}

// QuantityAdjustedEvent is raised when an item's quantity is adjusted
type QuantityAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	Barcode     string          `json:"barcode"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	RedFlag     bool            `json:"red_flag"`
}

// NewQuantityAdjustedEvent creates a new QuantityAdjustedEvent
func NewQuantityAdjustedEvent(item *InventoryItem, oldQty, newQty decimal.Decimal, redFlag bool) *QuantityAdjustedEvent {
	return &QuantityAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuantityAdjusted, AggregateTypeInventoryItem, item.ID, item.LocationID),
		ItemID:          item.ID,
		Barcode:         item.Barcode,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
		RedFlag:         redFlag,
	}
}

// ItemRetiredEvent is raised when an item is tombstoned
type ItemRetiredEvent struct {
	shared.BaseDomainEvent
	ItemID  uuid.UUID `json:"item_id"`
	Barcode string    `json:"barcode"`
}

// NewItemRetiredEvent creates a new ItemRetiredEvent
func NewItemRetiredEvent(item *InventoryItem) *ItemRetiredEvent {
	return &ItemRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRetired, AggregateTypeInventoryItem, item.ID, item.LocationID),
		ItemID:          item.ID,
		Barcode:         item.Barcode,
	}
}

// ItemSplitEvent is raised when a parent item is split into children
type ItemSplitEvent struct {
	shared.BaseDomainEvent
	ParentItemID uuid.UUID       `json:"parent_item_id"`
	ChildItemIDs []uuid.UUID     `json:"child_item_ids"`
	TotalSplit   decimal.Decimal `json:"total_split"`
}

// NewItemSplitEvent creates a new ItemSplitEvent
func NewItemSplitEvent(parent *InventoryItem, childIDs []uuid.UUID, totalSplit decimal.Decimal) *ItemSplitEvent {
	return &ItemSplitEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemSplit, AggregateTypeInventoryItem, parent.ID, parent.LocationID),
		ParentItemID:    parent.ID,
		ChildItemIDs:    childIDs,
		TotalSplit:      totalSplit,
	}
}

// ItemsCombinedEvent is raised when source items are combined into a target
type ItemsCombinedEvent struct {
	shared.BaseDomainEvent
	TargetItemID  uuid.UUID       `json:"target_item_id"`
	SourceItemIDs []uuid.UUID     `json:"source_item_ids"`
	TotalCombined decimal.Decimal `json:"total_combined"`
}

// NewItemsCombinedEvent creates a new ItemsCombinedEvent
func NewItemsCombinedEvent(target *InventoryItem, sourceIDs []uuid.UUID, total decimal.Decimal) *ItemsCombinedEvent {
	return &ItemsCombinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemsCombined, AggregateTypeInventoryItem, target.ID, target.LocationID),
		TargetItemID:    target.ID,
		SourceItemIDs:   sourceIDs,
		TotalCombined:   total,
	}
}

// ItemDestroyedEvent is raised when material is destroyed into waste
type ItemDestroyedEvent struct {
	shared.BaseDomainEvent
	SourceItemID uuid.UUID       `json:"source_item_id"`
	WasteItemID  uuid.UUID       `json:"waste_item_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
}

// NewItemDestroyedEvent creates a new ItemDestroyedEvent
func NewItemDestroyedEvent(source *InventoryItem, wasteItemID uuid.UUID, amount decimal.Decimal, method string) *ItemDestroyedEvent {
	return &ItemDestroyedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDestroyed, AggregateTypeInventoryItem, source.ID, source.LocationID),
		SourceItemID:    source.ID,
		WasteItemID:     wasteItemID,
		Amount:          amount,
		Method:          method,
	}
}

// LotCreatedEvent is raised when source items are grouped into a lot
type LotCreatedEvent struct {
	shared.BaseDomainEvent
	LotID         uuid.UUID       `json:"lot_id"`
	LotItemID     uuid.UUID       `json:"lot_item_id"`
	LotName       string          `json:"lot_name"`
	SourceItemIDs []uuid.UUID     `json:"source_item_ids"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewLotCreatedEvent creates a new LotCreatedEvent
func NewLotCreatedEvent(lot *Lot, lotItem *InventoryItem, sourceIDs []uuid.UUID, total decimal.Decimal) *LotCreatedEvent {
	return &LotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotCreated, AggregateTypeInventoryItem, lotItem.ID, lotItem.LocationID),
		LotID:           lot.ID,
		LotItemID:       lotItem.ID,
		LotName:         lot.Name,
		SourceItemIDs:   sourceIDs,
		TotalQuantity:   total,
	}
}

// OperationUndoneEvent is raised when a prior audit entry is reversed
type OperationUndoneEvent struct {
	shared.BaseDomainEvent
	AuditEntryID uuid.UUID   `json:"audit_entry_id"`
	ItemID       uuid.UUID   `json:"item_id"`
	Action       AuditAction `json:"action"`
}

// NewOperationUndoneEvent creates a new OperationUndoneEvent
func NewOperationUndoneEvent(entry *AuditLogEntry, item *InventoryItem) *OperationUndoneEvent {
	return &OperationUndoneEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationUndone, AggregateTypeInventoryItem, item.ID, item.LocationID),
		AuditEntryID:    entry.ID,
		ItemID:          item.ID,
		Action:          entry.Action,
	}
}
