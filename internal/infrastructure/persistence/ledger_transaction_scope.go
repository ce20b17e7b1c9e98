package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/application/ledger"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
)

// GormTransactionScope implements the ledger TransactionScope using
// GORM transactions. Every repository handed to the callback shares one
// transaction, so a failure anywhere rolls back the whole operation.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the transaction
func (r *gormTransactionalRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// AuditRepo returns the audit log repository scoped to the transaction
func (r *gormTransactionalRepositories) AuditRepo() inventory.AuditLogRepository {
	return NewGormAuditLogRepository(r.tx)
}

// LineageRepo returns the lineage repository scoped to the transaction
func (r *gormTransactionalRepositories) LineageRepo() inventory.LineageRepository {
	return NewGormLineageRepository(r.tx)
}

// RoomRepo returns the room repository scoped to the transaction
func (r *gormTransactionalRepositories) RoomRepo() inventory.RoomRepository {
	return NewGormRoomRepository(r.tx)
}

// TypeRepo returns the inventory type repository scoped to the transaction
func (r *gormTransactionalRepositories) TypeRepo() inventory.InventoryTypeRepository {
	return NewGormInventoryTypeRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the transaction
func (r *gormTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
