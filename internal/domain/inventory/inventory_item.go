package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// InventoryItem is a quantity of a specific material held in a room at
// a licensed location. It is the aggregate root of the ledger: every
// mutating operation acts on one or more items, and the quantity is
// never allowed to go negative.
//
// Items are never hard-deleted. Full destruction, combination and lot
// creation set the tombstone timestamp instead, so lineage joins stay
// resolvable; tombstoned items are excluded from active-quantity
// queries and from further mutation.
type InventoryItem struct {
	shared.LocationAggregateRoot
	Barcode         string           `gorm:"type:varchar(32);not null;uniqueIndex"`
	InventoryTypeID uuid.UUID        `gorm:"type:uuid;not null;index"`
	StrainID        *uuid.UUID       `gorm:"type:uuid;index"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	UsableWeight    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	RoomID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	SublotID        *string          `gorm:"type:varchar(64)"`
	DeletedAt       *time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new active inventory item
func NewInventoryItem(locationID, inventoryTypeID, roomID uuid.UUID, barcode string, quantity decimal.Decimal) (*InventoryItem, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if inventoryTypeID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_INVENTORY_TYPE", "Inventory type ID cannot be empty")
	}
	if roomID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ROOM", "Room ID cannot be empty")
	}
	if barcode == "" {
		return nil, shared.NewValidationError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	return &InventoryItem{
		LocationAggregateRoot: shared.NewLocationAggregateRoot(locationID),
		Barcode:               barcode,
		InventoryTypeID:       inventoryTypeID,
		Quantity:              quantity,
		RoomID:                roomID,
	}, nil
}

// WithStrain sets the strain reference
func (i *InventoryItem) WithStrain(strainID uuid.UUID) *InventoryItem {
	i.StrainID = &strainID
	return i
}

// WithUsableWeight sets the usable-weight portion of the quantity
func (i *InventoryItem) WithUsableWeight(weight decimal.Decimal) *InventoryItem {
	i.UsableWeight = &weight
	return i
}

// WithSublot sets the derived sublot identifier
func (i *InventoryItem) WithSublot(sublotID string) *InventoryItem {
	i.SublotID = &sublotID
	return i
}

// IsActive reports whether the item can participate in ledger operations
func (i *InventoryItem) IsActive() bool {
	return i.DeletedAt == nil
}

// CanFulfill reports whether the item holds at least the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.Quantity.GreaterThanOrEqual(quantity)
}

func (i *InventoryItem) ensureActive() error {
	if !i.IsActive() {
		return shared.NewConflictError("ITEM_RETIRED", "Inventory item has been retired and cannot be mutated")
	}
	return nil
}

// MoveToRoom moves the item to another room at the same location
func (i *InventoryItem) MoveToRoom(roomID uuid.UUID) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if roomID == uuid.Nil {
		return shared.NewValidationError("INVALID_ROOM", "Target room ID cannot be empty")
	}

	fromRoomID := i.RoomID
	i.RoomID = roomID
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemMovedEvent(i, fromRoomID, roomID))
	return nil
}

// Adjust applies a signed quantity delta. The returned red flag is set
// when the relative change exceeds the given threshold (a fraction,
// e.g. 0.10 for 10%); a zero starting quantity red-flags any nonzero
// delta since the relative change is unbounded.
func (i *InventoryItem) Adjust(delta decimal.Decimal, redFlagThreshold decimal.Decimal) (bool, error) {
	if err := i.ensureActive(); err != nil {
		return false, err
	}
	if err := EnsureNonNegativeResult(i.Quantity, delta); err != nil {
		return false, err
	}

	before := i.Quantity
	i.Quantity = i.Quantity.Add(delta)
	i.Touch()
	i.IncrementVersion()

	var redFlag bool
	if before.IsZero() {
		redFlag = !delta.IsZero()
	} else {
		redFlag = delta.Abs().Div(before).GreaterThan(redFlagThreshold)
	}

	i.AddDomainEvent(NewQuantityAdjustedEvent(i, before, i.Quantity, redFlag))
	return redFlag, nil
}

// Reduce removes a positive amount from the quantity, failing if the
// item cannot cover it.
func (i *InventoryItem) Reduce(amount decimal.Decimal) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Amount must be positive")
	}
	if err := EnsureSufficient(i.Quantity, amount); err != nil {
		return err
	}

	if i.UsableWeight != nil {
		remaining := i.UsableWeight.Sub(i.proportionalUsable(amount))
		i.UsableWeight = &remaining
	}
	i.Quantity = i.Quantity.Sub(amount)
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Increase adds a positive amount to the quantity
func (i *InventoryItem) Increase(amount decimal.Decimal) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Amount must be positive")
	}

	i.Quantity = i.Quantity.Add(amount)
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Absorb adds the source's full quantity and usable weight to the item.
// The caller retires the source in the same transaction; the source row
// keeps its last quantity for lineage.
func (i *InventoryItem) Absorb(source *InventoryItem) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if err := source.ensureActive(); err != nil {
		return err
	}
	if source.InventoryTypeID != i.InventoryTypeID {
		return shared.NewValidationError("TYPE_MISMATCH", "Source item inventory type does not match the target")
	}

	i.Quantity = i.Quantity.Add(source.Quantity)
	if source.UsableWeight != nil {
		combined := *source.UsableWeight
		if i.UsableWeight != nil {
			combined = i.UsableWeight.Add(*source.UsableWeight)
		}
		i.UsableWeight = &combined
	}
	i.Touch()
	i.IncrementVersion()
	return nil
}

// ProportionalUsable returns the usable weight carried by the given
// share of the quantity, or nil when the item tracks no usable weight.
func (i *InventoryItem) ProportionalUsable(amount decimal.Decimal) *decimal.Decimal {
	if i.UsableWeight == nil || i.Quantity.IsZero() {
		return nil
	}
	derived := i.proportionalUsable(amount)
	return &derived
}

func (i *InventoryItem) proportionalUsable(amount decimal.Decimal) decimal.Decimal {
	return i.UsableWeight.Mul(amount).Div(i.Quantity).Round(4)
}

// Retire tombstones the item. The row persists for lineage traceability.
func (i *InventoryItem) Retire() error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	now := time.Now()
	i.DeletedAt = &now
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemRetiredEvent(i))
	return nil
}

// RestoreRoom applies a previously recorded room without re-derivation.
// Used by the undo coordinator.
func (i *InventoryItem) RestoreRoom(roomID uuid.UUID) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	i.RoomID = roomID
	i.Touch()
	i.IncrementVersion()
	return nil
}

// RestoreQuantity applies a previously recorded quantity and usable
// weight without re-derivation. Used by the undo coordinator.
func (i *InventoryItem) RestoreQuantity(quantity decimal.Decimal, usableWeight *decimal.Decimal) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if quantity.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	i.Quantity = quantity
	i.UsableWeight = usableWeight
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Reinstate clears the tombstone. Used when voiding a sale must restore
// quantity to an item that was fully consumed in the meantime. The
// version is left alone; the quantity restoration that always follows
// bumps it once for the combined write.
func (i *InventoryItem) Reinstate() {
	if i.DeletedAt == nil {
		return
	}
	i.DeletedAt = nil
	i.Touch()
}
