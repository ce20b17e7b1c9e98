package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// GormLineageRepository implements LineageRepository using GORM
type GormLineageRepository struct {
	db *gorm.DB
}

// NewGormLineageRepository creates a new GormLineageRepository
func NewGormLineageRepository(db *gorm.DB) *GormLineageRepository {
	return &GormLineageRepository{db: db}
}

// CreateSplit inserts one split lineage record
func (r *GormLineageRepository) CreateSplit(ctx context.Context, split *inventory.InventorySplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

// CreateCombination inserts one combination lineage record
func (r *GormLineageRepository) CreateCombination(ctx context.Context, combination *inventory.InventoryCombination) error {
	return r.db.WithContext(ctx).Create(combination).Error
}

// CreateLot inserts a lot with its sources
func (r *GormLineageRepository) CreateLot(ctx context.Context, lot *inventory.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// FindSplitsByParent lists the splits recorded for a parent item,
// oldest first so sublot numbering stays stable.
func (r *GormLineageRepository) FindSplitsByParent(ctx context.Context, locationID, parentItemID uuid.UUID) ([]inventory.InventorySplit, error) {
	var splits []inventory.InventorySplit
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND parent_item_id = ?", locationID, parentItemID).
		Order("created_at").
		Find(&splits).Error; err != nil {
		return nil, err
	}
	return splits, nil
}

// FindCombinationsByTarget lists the sources absorbed by a target item
func (r *GormLineageRepository) FindCombinationsByTarget(ctx context.Context, locationID, targetItemID uuid.UUID) ([]inventory.InventoryCombination, error) {
	var combinations []inventory.InventoryCombination
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND target_item_id = ?", locationID, targetItemID).
		Order("created_at").
		Find(&combinations).Error; err != nil {
		return nil, err
	}
	return combinations, nil
}

// FindLotByID finds a lot with its sources
func (r *GormLineageRepository) FindLotByID(ctx context.Context, locationID, lotID uuid.UUID) (*inventory.Lot, error) {
	var lot inventory.Lot
	if err := r.db.WithContext(ctx).
		Preload("Sources").
		Where("location_id = ? AND id = ?", locationID, lotID).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

var _ inventory.LineageRepository = (*GormLineageRepository)(nil)
