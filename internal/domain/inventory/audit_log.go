package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// AuditAction enumerates the state transitions recorded in the audit
// trail.
type AuditAction string

const (
	ActionRoomMove           AuditAction = "ROOM_MOVE"
	ActionQuantityAdjustment AuditAction = "QUANTITY_ADJUSTMENT"
	ActionSplit              AuditAction = "SPLIT"
	ActionCombine            AuditAction = "COMBINE"
	ActionDestroy            AuditAction = "DESTROY"
	ActionCreateLot          AuditAction = "CREATE_LOT"
	ActionSale               AuditAction = "SALE"
	ActionVoidSale           AuditAction = "VOID_SALE"
	ActionUndo               AuditAction = "UNDO"
)

// String returns the string representation of the action
func (a AuditAction) String() string {
	return string(a)
}

// IsValid returns true if the action is a known kind
func (a AuditAction) IsValid() bool {
	switch a {
	case ActionRoomMove, ActionQuantityAdjustment, ActionSplit, ActionCombine,
		ActionDestroy, ActionCreateLot, ActionSale, ActionVoidSale, ActionUndo:
		return true
	}
	return false
}

// IsUndoable returns true for actions whose stored snapshots fully
// describe the inverse transition. Split, combine and destroy are
// excluded: reversing them would require re-creating retired rows and
// re-deriving lineage, which the snapshots do not capture.
func (a AuditAction) IsUndoable() bool {
	return a == ActionRoomMove || a == ActionQuantityAdjustment
}

// EntityType identifies the kind of entity an audit entry describes
type EntityType string

const (
	EntityInventoryItem EntityType = "INVENTORY_ITEM"
	EntitySale          EntityType = "SALE"
)

// AuditLogEntry is an append-only record of one state transition. Once
// written it is never updated or removed; the stored snapshots are the
// sole source of truth for undo, so each entry must be independently
// replayable.
type AuditLogEntry struct {
	shared.BaseEntity
	LocationID uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_location_time,priority:1"`
	EntityType EntityType  `gorm:"type:varchar(30);not null"`
	EntityID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action     AuditAction `gorm:"type:varchar(30);not null;index"`
	OldValue   string      `gorm:"type:jsonb"`
	NewValue   string      `gorm:"type:jsonb"`
	Reason     string      `gorm:"type:varchar(255)"`
	ActorID    *uuid.UUID  `gorm:"type:uuid"`
	RecordedAt time.Time   `gorm:"type:timestamptz;not null;index:idx_audit_location_time,priority:2"`
}

// TableName returns the table name for GORM
func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// NewAuditLogEntry creates a new audit entry for one state transition
func NewAuditLogEntry(
	locationID uuid.UUID,
	entityType EntityType,
	entityID uuid.UUID,
	action AuditAction,
	oldValue, newValue string,
	reason string,
	actorID *uuid.UUID,
) (*AuditLogEntry, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ENTITY", "Entity ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewValidationError("INVALID_ACTION", "Unknown audit action")
	}

	return &AuditLogEntry{
		BaseEntity: shared.NewBaseEntity(),
		LocationID: locationID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   oldValue,
		NewValue:   newValue,
		Reason:     reason,
		ActorID:    actorID,
		RecordedAt: time.Now(),
	}, nil
}

// ItemSnapshot captures every InventoryItem field the undo coordinator
// needs to reverse a transition. Snapshots are stored verbatim in
// OldValue/NewValue; undo applies the stored values directly instead of
// re-deriving them arithmetically, to avoid compounding rounding drift.
type ItemSnapshot struct {
	Barcode         string           `json:"barcode"`
	InventoryTypeID uuid.UUID        `json:"inventory_type_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UsableWeight    *decimal.Decimal `json:"usable_weight,omitempty"`
	RoomID          uuid.UUID        `json:"room_id"`
	SublotID        *string          `json:"sublot_id,omitempty"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty"`
}

// Snapshot captures the item's current replayable state
func (i *InventoryItem) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		Barcode:         i.Barcode,
		InventoryTypeID: i.InventoryTypeID,
		Quantity:        i.Quantity,
		UsableWeight:    i.UsableWeight,
		RoomID:          i.RoomID,
		SublotID:        i.SublotID,
		DeletedAt:       i.DeletedAt,
	}
}

// Marshal serializes the snapshot for audit storage
func (s ItemSnapshot) Marshal() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", shared.NewInternalError("SNAPSHOT_MARSHAL", "Failed to serialize item snapshot")
	}
	return string(raw), nil
}

// UnmarshalItemSnapshot parses a stored snapshot
func UnmarshalItemSnapshot(raw string) (ItemSnapshot, error) {
	var s ItemSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return ItemSnapshot{}, shared.NewInternalError("SNAPSHOT_UNMARSHAL", "Failed to parse stored item snapshot")
	}
	return s, nil
}
