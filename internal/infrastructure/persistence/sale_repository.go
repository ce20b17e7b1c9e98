package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts a sale with its line items
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return err
	}
	sale.MarkPersisted()
	return nil
}

// FindByID finds a sale with lines and refunds within the location scope
func (r *GormSaleRepository) FindByID(ctx context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Refunds").
		Where("location_id = ? AND id = ?", locationID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sale.MarkPersisted()
	return &sale, nil
}

// FindByIDForUpdate finds a sale and locks its header row. The line
// items never change after creation so only the header needs the lock.
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "sales"}}).
		Preload("Items").
		Preload("Refunds").
		Where("location_id = ? AND id = ?", locationID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sale.MarkPersisted()
	return &sale, nil
}

// Save persists header changes with the optimistic version check and
// inserts any refunds added since the sale was loaded.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).
		Model(sale).
		Where("id = ? AND version = ?", sale.ID, sale.PersistedVersion()).
		Updates(map[string]interface{}{
			"total_amount": sale.TotalAmount,
			"status":       sale.Status,
			"voided_at":    sale.VoidedAt,
			"void_reason":  sale.VoidReason,
			"version":      sale.Version,
			"updated_at":   sale.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	sale.MarkPersisted()

	if len(sale.Refunds) == 0 {
		return nil
	}
	// Existing refunds are immutable; OnConflict skips them so only
	// newly appended ones are inserted.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sale.Refunds).Error
}

// FindAll lists sales within the location scope
func (r *GormSaleRepository) FindAll(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var found []sales.Sale
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Refunds").
		Where("location_id = ?", locationID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	if err := query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&found).Error; err != nil {
		return nil, err
	}
	for idx := range found {
		found[idx].MarkPersisted()
	}
	return found, nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
