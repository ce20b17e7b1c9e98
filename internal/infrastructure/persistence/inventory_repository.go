package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an active item within the location scope
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND id = ? AND deleted_at IS NULL", locationID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.MarkPersisted()
	return &item, nil
}

// FindByIDForUpdate finds an active item and locks its row
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("location_id = ? AND id = ? AND deleted_at IS NULL", locationID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.MarkPersisted()
	return &item, nil
}

// FindByIDsForUpdate finds active items by ID and locks their rows.
// Rows are fetched in a stable order to keep lock acquisition
// deadlock-free across concurrent multi-item operations.
func (r *GormInventoryItemRepository) FindByIDsForUpdate(ctx context.Context, locationID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("location_id = ? AND id IN ? AND deleted_at IS NULL", locationID, ids).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	for idx := range items {
		items[idx].MarkPersisted()
	}
	return items, nil
}

// FindByIDIncludingRetired finds an item regardless of tombstone,
// locking its row.
func (r *GormInventoryItemRepository) FindByIDIncludingRetired(ctx context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("location_id = ? AND id = ?", locationID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.MarkPersisted()
	return &item, nil
}

// FindByBarcode finds an active item by its barcode
func (r *GormInventoryItemRepository) FindByBarcode(ctx context.Context, locationID uuid.UUID, barcode string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND barcode = ? AND deleted_at IS NULL", locationID, barcode).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.MarkPersisted()
	return &item, nil
}

// FindAll lists active items within the location scope
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("location_id = ? AND deleted_at IS NULL", locationID),
		filter,
	)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	for idx := range items {
		items[idx].MarkPersisted()
	}
	return items, nil
}

// Count counts active items within the location scope
func (r *GormInventoryItemRepository) Count(ctx context.Context, locationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("location_id = ? AND deleted_at IS NULL", locationID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new item
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	item.MarkPersisted()
	return nil
}

// Save persists the mutable fields of an existing item, enforcing the
// optimistic version check against the version the row held when the
// item was read.
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.PersistedVersion()).
		Updates(map[string]interface{}{
			"quantity":      item.Quantity,
			"usable_weight": item.UsableWeight,
			"room_id":       item.RoomID,
			"sublot_id":     item.SublotID,
			"deleted_at":    item.DeletedAt,
			"version":       item.Version,
			"updated_at":    item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	item.MarkPersisted()
	return nil
}

func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormInventoryItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "room_id":
			query = query.Where("room_id = ?", value)
		case "inventory_type_id":
			query = query.Where("inventory_type_id = ?", value)
		case "strain_id":
			query = query.Where("strain_id = ?", value)
		case "has_quantity":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}
	if filter.Search != "" {
		query = query.Where("barcode ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
