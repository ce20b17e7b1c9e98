package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// Lineage records are created once and never mutated. They exist purely
// for traceability; quantity bookkeeping lives entirely on
// InventoryItem.

// InventorySplit links a parent item to one child item it produced
type InventorySplit struct {
	shared.BaseEntity
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ParentItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChildItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SublotID     string          `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (InventorySplit) TableName() string {
	return "inventory_splits"
}

// NewInventorySplit records that a split moved quantity from parent to child
func NewInventorySplit(locationID, parentItemID, childItemID uuid.UUID, quantity decimal.Decimal, sublotID string) *InventorySplit {
	return &InventorySplit{
		BaseEntity:   shared.NewBaseEntity(),
		LocationID:   locationID,
		ParentItemID: parentItemID,
		ChildItemID:  childItemID,
		Quantity:     quantity,
		SublotID:     sublotID,
	}
}

// InventoryCombination links one absorbed source item to the item that
// absorbed it
type InventoryCombination struct {
	shared.BaseEntity
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InventoryCombination) TableName() string {
	return "inventory_combinations"
}

// NewInventoryCombination records that a combine absorbed the source into the target
func NewInventoryCombination(locationID, sourceItemID, targetItemID uuid.UUID, quantity decimal.Decimal) *InventoryCombination {
	return &InventoryCombination{
		BaseEntity:   shared.NewBaseEntity(),
		LocationID:   locationID,
		SourceItemID: sourceItemID,
		TargetItemID: targetItemID,
		Quantity:     quantity,
	}
}

// Lot groups multiple source items into a new batch identity
type Lot struct {
	shared.BaseEntity
	LocationID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name       string      `gorm:"type:varchar(100);not null"`
	LotItemID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	Sources    []LotSource `gorm:"foreignKey:LotID;references:ID"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "lots"
}

// LotSource records one item absorbed into a lot
type LotSource struct {
	shared.BaseEntity
	LotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (LotSource) TableName() string {
	return "lot_sources"
}

// NewLot records the grouping of source items into a new lot item
func NewLot(locationID, lotItemID uuid.UUID, name string, sources []LotSource) (*Lot, error) {
	if name == "" {
		return nil, shared.NewValidationError("INVALID_LOT_NAME", "Lot name cannot be empty")
	}
	if len(sources) == 0 {
		return nil, shared.NewValidationError("INVALID_INPUT", "At least one source item is required")
	}

	lot := &Lot{
		BaseEntity: shared.NewBaseEntity(),
		LocationID: locationID,
		Name:       name,
		LotItemID:  lotItemID,
		Sources:    make([]LotSource, len(sources)),
	}
	for idx, src := range sources {
		src.BaseEntity = shared.NewBaseEntity()
		src.LotID = lot.ID
		lot.Sources[idx] = src
	}
	return lot, nil
}
