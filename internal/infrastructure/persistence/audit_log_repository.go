package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// GormAuditLogRepository implements AuditLogRepository using GORM. The
// trail is append-only: this repository exposes no update or delete.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append writes a new entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *inventory.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an entry within the location scope
func (r *GormAuditLogRepository) FindByID(ctx context.Context, locationID, id uuid.UUID) (*inventory.AuditLogEntry, error) {
	var entry inventory.AuditLogEntry
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND id = ?", locationID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByEntity lists entries for one entity, newest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, locationID, entityID uuid.UUID, filter shared.Filter) ([]inventory.AuditLogEntry, error) {
	var entries []inventory.AuditLogEntry
	query := r.db.WithContext(ctx).
		Where("location_id = ? AND entity_id = ?", locationID, entityID)

	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditSortFields, "recorded_at")
	if err := query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ inventory.AuditLogRepository = (*GormAuditLogRepository)(nil)
