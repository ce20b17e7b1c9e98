package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// GormRoomRepository implements RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Exists reports whether the room exists within the location scope
func (r *GormRoomRepository) Exists(ctx context.Context, locationID, roomID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Room{}).
		Where("location_id = ? AND id = ?", locationID, roomID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ inventory.RoomRepository = (*GormRoomRepository)(nil)

// GormInventoryTypeRepository implements InventoryTypeRepository using GORM
type GormInventoryTypeRepository struct {
	db *gorm.DB
}

// NewGormInventoryTypeRepository creates a new GormInventoryTypeRepository
func NewGormInventoryTypeRepository(db *gorm.DB) *GormInventoryTypeRepository {
	return &GormInventoryTypeRepository{db: db}
}

// FindByID finds a type within the location scope
func (r *GormInventoryTypeRepository) FindByID(ctx context.Context, locationID, id uuid.UUID) (*inventory.InventoryType, error) {
	var typ inventory.InventoryType
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND id = ?", locationID, id).
		First(&typ).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("TYPE_NOT_FOUND", "Inventory type not found")
		}
		return nil, err
	}
	return &typ, nil
}

// FindByKind finds the location's type of the given kind. Locations
// keep one type per special kind; the oldest wins if several exist.
func (r *GormInventoryTypeRepository) FindByKind(ctx context.Context, locationID uuid.UUID, kind inventory.TypeKind) (*inventory.InventoryType, error) {
	var typ inventory.InventoryType
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND kind = ?", locationID, kind).
		Order("created_at").
		First(&typ).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("TYPE_NOT_FOUND", "No inventory type of kind "+string(kind))
		}
		return nil, err
	}
	return &typ, nil
}

var _ inventory.InventoryTypeRepository = (*GormInventoryTypeRepository)(nil)
