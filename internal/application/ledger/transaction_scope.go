package ledger

import (
	"context"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
)

// TransactionScope provides transactional access to the ledger
// repositories. Everything executed within one scope invocation commits
// or rolls back atomically: a failed audit append rolls back the
// quantity mutation it describes, and vice versa.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in
// one ledger transaction. All returned repositories share the same
// underlying database transaction.
type TransactionalRepositories interface {
	ItemRepo() inventory.InventoryItemRepository
	AuditRepo() inventory.AuditLogRepository
	LineageRepo() inventory.LineageRepository
	RoomRepo() inventory.RoomRepository
	TypeRepo() inventory.InventoryTypeRepository
	SaleRepo() sales.SaleRepository
}

// NoOpTransactionScope runs the function against fixed repositories
// without a real transaction. Useful in tests.
type NoOpTransactionScope struct {
	itemRepo    inventory.InventoryItemRepository
	auditRepo   inventory.AuditLogRepository
	lineageRepo inventory.LineageRepository
	roomRepo    inventory.RoomRepository
	typeRepo    inventory.InventoryTypeRepository
	saleRepo    sales.SaleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	auditRepo inventory.AuditLogRepository,
	lineageRepo inventory.LineageRepository,
	roomRepo inventory.RoomRepository,
	typeRepo inventory.InventoryTypeRepository,
	saleRepo sales.SaleRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:    itemRepo,
		auditRepo:   auditRepo,
		lineageRepo: lineageRepo,
		roomRepo:    roomRepo,
		typeRepo:    typeRepo,
		saleRepo:    saleRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository { return s.itemRepo }

// AuditRepo returns the audit log repository
func (s *NoOpTransactionScope) AuditRepo() inventory.AuditLogRepository { return s.auditRepo }

// LineageRepo returns the lineage repository
func (s *NoOpTransactionScope) LineageRepo() inventory.LineageRepository { return s.lineageRepo }

// RoomRepo returns the room repository
func (s *NoOpTransactionScope) RoomRepo() inventory.RoomRepository { return s.roomRepo }

// TypeRepo returns the inventory type repository
func (s *NoOpTransactionScope) TypeRepo() inventory.InventoryTypeRepository { return s.typeRepo }

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.saleRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
