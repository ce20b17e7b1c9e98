package inventory

import (
	"github.com/google/uuid"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// Room is a physical space at a licensed location. Room administration
// is handled outside the ledger; operations only check existence within
// the caller's scope.
type Room struct {
	shared.BaseEntity
	LocationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// TypeKind classifies inventory types. Destroy targets the location's
// WASTE type; lot creation targets a LOT type.
type TypeKind string

const (
	TypeKindMaterial TypeKind = "MATERIAL"
	TypeKindWaste    TypeKind = "WASTE"
	TypeKindLot      TypeKind = "LOT"
)

// IsValid returns true if the kind is known
func (k TypeKind) IsValid() bool {
	switch k {
	case TypeKindMaterial, TypeKindWaste, TypeKindLot:
		return true
	}
	return false
}

// InventoryType categorizes the material an item holds
type InventoryType struct {
	shared.BaseEntity
	LocationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Kind       TypeKind  `gorm:"type:varchar(20);not null;default:'MATERIAL'"`
}

// TableName returns the table name for GORM
func (InventoryType) TableName() string {
	return "inventory_types"
}
