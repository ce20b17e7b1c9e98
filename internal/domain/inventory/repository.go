package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// InventoryItemRepository persists InventoryItem aggregates. All
// queries are location-scoped; active finders exclude tombstoned rows.
// The ForUpdate variants take row-level locks and must only be called
// inside a transaction scope.
type InventoryItemRepository interface {
	// FindByID finds an active item within the location scope
	FindByID(ctx context.Context, locationID, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate finds an active item and locks its row
	FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*InventoryItem, error)
	// FindByIDsForUpdate finds active items by ID and locks their rows.
	// Missing or tombstoned IDs are simply absent from the result.
	FindByIDsForUpdate(ctx context.Context, locationID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)
	// FindByIDIncludingRetired finds an item regardless of tombstone,
	// locking its row. Used only by void-sale restoration.
	FindByIDIncludingRetired(ctx context.Context, locationID, id uuid.UUID) (*InventoryItem, error)
	// FindByBarcode finds an active item by its barcode
	FindByBarcode(ctx context.Context, locationID uuid.UUID, barcode string) (*InventoryItem, error)
	// FindAll lists active items within the location scope
	FindAll(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)
	// Count counts active items within the location scope
	Count(ctx context.Context, locationID uuid.UUID, filter shared.Filter) (int64, error)
	// Create inserts a new item
	Create(ctx context.Context, item *InventoryItem) error
	// Save persists all fields of an existing item, enforcing the
	// optimistic version check
	Save(ctx context.Context, item *InventoryItem) error
}

// AuditLogRepository persists the append-only audit trail. There is no
// update or delete; corrections are recorded as new entries.
type AuditLogRepository interface {
	// Append writes a new entry
	Append(ctx context.Context, entry *AuditLogEntry) error
	// FindByID finds an entry within the location scope
	FindByID(ctx context.Context, locationID, id uuid.UUID) (*AuditLogEntry, error)
	// FindByEntity lists entries for one entity, newest first
	FindByEntity(ctx context.Context, locationID, entityID uuid.UUID, filter shared.Filter) ([]AuditLogEntry, error)
}

// LineageRepository persists the immutable lineage records produced by
// split, combine and lot creation.
type LineageRepository interface {
	CreateSplit(ctx context.Context, split *InventorySplit) error
	CreateCombination(ctx context.Context, combination *InventoryCombination) error
	CreateLot(ctx context.Context, lot *Lot) error
	// FindSplitsByParent lists the splits recorded for a parent item
	FindSplitsByParent(ctx context.Context, locationID, parentItemID uuid.UUID) ([]InventorySplit, error)
	// FindCombinationsByTarget lists the sources absorbed by a target item
	FindCombinationsByTarget(ctx context.Context, locationID, targetItemID uuid.UUID) ([]InventoryCombination, error)
	// FindLotByID finds a lot with its sources
	FindLotByID(ctx context.Context, locationID, lotID uuid.UUID) (*Lot, error)
}

// RoomRepository resolves room references for precondition checks
type RoomRepository interface {
	// Exists reports whether the room exists within the location scope
	Exists(ctx context.Context, locationID, roomID uuid.UUID) (bool, error)
}

// InventoryTypeRepository resolves inventory type references
type InventoryTypeRepository interface {
	// FindByID finds a type within the location scope
	FindByID(ctx context.Context, locationID, id uuid.UUID) (*InventoryType, error)
	// FindByKind finds the location's type of the given kind
	FindByKind(ctx context.Context, locationID uuid.UUID, kind TypeKind) (*InventoryType, error)
}
