package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/application/ledger"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// SaleService allocates inventory to sales. A sale decrements every
// line's quantity in one transaction with all rows locked up front, so
// the whole sale succeeds or nothing moves. Voiding restores exactly
// the decremented quantities, reinstating items that were fully
// consumed since.
type SaleService struct {
	scope          ledger.TransactionScope
	publisher      shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// SaleOption configures optional service collaborators
type SaleOption func(*SaleService)

// WithEventPublisher sets the post-commit event publisher
func WithEventPublisher(publisher shared.EventPublisher) SaleOption {
	return func(s *SaleService) {
		s.publisher = publisher
	}
}

// WithIdempotencyStore enables request deduplication with the given TTL
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) SaleOption {
	return func(s *SaleService) {
		s.idempotency = store
		s.idempotencyTTL = ttl
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) SaleOption {
	return func(s *SaleService) {
		s.logger = logger
	}
}

// NewSaleService creates a sale service
func NewSaleService(scope ledger.TransactionScope, opts ...SaleOption) *SaleService {
	s := &SaleService{
		scope:          scope,
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSale creates a sale and decrements the sold quantities
func (s *SaleService) CreateSale(ctx context.Context, locationID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("INVALID_INPUT", "A sale requires at least one line item")
	}

	var created *sales.Sale
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		// Lock every referenced item before mutating any of them.
		itemIDs := make([]uuid.UUID, 0, len(req.Items))
		seen := make(map[uuid.UUID]bool, len(req.Items))
		for _, line := range req.Items {
			if !seen[line.InventoryItemID] {
				seen[line.InventoryItemID] = true
				itemIDs = append(itemIDs, line.InventoryItemID)
			}
		}
		locked, err := repos.ItemRepo().FindByIDsForUpdate(ctx, locationID, itemIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*inventory.InventoryItem, len(locked))
		for idx := range locked {
			byID[locked[idx].ID] = &locked[idx]
		}

		sale, err := sales.NewSale(locationID, req.CustomerID)
		if err != nil {
			return err
		}

		// Verify every line is satisfiable before decrementing anything,
		// so a failing line rejects the sale with nothing moved.
		requested := make(map[uuid.UUID]decimal.Decimal, len(itemIDs))
		for _, line := range req.Items {
			item, ok := byID[line.InventoryItemID]
			if !ok {
				return shared.NewNotFoundError("ITEM_NOT_FOUND",
					fmt.Sprintf("Inventory item %s not found", line.InventoryItemID))
			}
			total := line.Quantity
			if prior, ok := requested[item.ID]; ok {
				total = prior.Add(line.Quantity)
			}
			if err := inventory.EnsureSufficient(item.Quantity, total); err != nil {
				return err
			}
			requested[item.ID] = total

			if err := sale.AddLine(line.InventoryItemID, line.Quantity, line.UnitPrice, line.Discount); err != nil {
				return err
			}
		}

		for _, id := range itemIDs {
			item := byID[id]
			before := item.Snapshot()
			if err := item.Reduce(requested[id]); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
			if err := s.recordItemAudit(ctx, repos, item, inventory.ActionSale, before,
				fmt.Sprintf("sale %s", sale.ID), req.ActorID); err != nil {
				return err
			}
		}

		if err := sale.Finalize(); err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}

		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)
	resp := ToSaleResponse(created)
	return &resp, nil
}

// VoidSale voids a completed sale and restores its quantities. Items
// fully consumed since the sale are reinstated from their tombstones.
func (s *SaleService) VoidSale(ctx context.Context, locationID uuid.UUID, req VoidSaleRequest) (*SaleResponse, error) {
	var voided *sales.Sale
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForUpdate(ctx, locationID, req.SaleID)
		if err != nil {
			return err
		}
		if err := sale.Void(req.Reason); err != nil {
			return err
		}

		for _, line := range sale.Items {
			item, err := repos.ItemRepo().FindByIDIncludingRetired(ctx, locationID, line.InventoryItemID)
			if err != nil {
				return err
			}
			before := item.Snapshot()
			item.Reinstate()
			if err := item.Increase(line.Quantity); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
			if err := s.recordItemAudit(ctx, repos, item, inventory.ActionVoidSale, before,
				fmt.Sprintf("void sale %s: %s", sale.ID, req.Reason), req.ActorID); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		voided = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, voided)
	resp := ToSaleResponse(voided)
	return &resp, nil
}

// AddRefund records a refund against a sale, bounded by the sale total
func (s *SaleService) AddRefund(ctx context.Context, locationID uuid.UUID, req AddRefundRequest) (*SaleResponse, error) {
	var refunded *sales.Sale
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForUpdate(ctx, locationID, req.SaleID)
		if err != nil {
			return err
		}
		if err := sale.AddRefund(req.Amount, req.Reason); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		refunded = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, refunded)
	resp := ToSaleResponse(refunded)
	return &resp, nil
}

// GetSale fetches one sale with its lines and refunds
func (s *SaleService) GetSale(ctx context.Context, locationID, saleID uuid.UUID) (*SaleResponse, error) {
	var resp *SaleResponse
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, locationID, saleID)
		if err != nil {
			return err
		}
		r := ToSaleResponse(sale)
		resp = &r
		return nil
	})
	return resp, err
}

// ListSales lists sales within the location scope
func (s *SaleService) ListSales(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]SaleResponse, error) {
	var responses []SaleResponse
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		found, err := repos.SaleRepo().FindAll(ctx, locationID, filter)
		if err != nil {
			return err
		}
		responses = make([]SaleResponse, 0, len(found))
		for idx := range found {
			responses = append(responses, ToSaleResponse(&found[idx]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *SaleService) recordItemAudit(ctx context.Context, repos ledger.TransactionalRepositories, item *inventory.InventoryItem, action inventory.AuditAction, before inventory.ItemSnapshot, reason string, actorID *uuid.UUID) error {
	oldValue, err := before.Marshal()
	if err != nil {
		return err
	}
	newValue, err := item.Snapshot().Marshal()
	if err != nil {
		return err
	}
	entry, err := inventory.NewAuditLogEntry(item.LocationID, inventory.EntityInventoryItem, item.ID, action, oldValue, newValue, reason, actorID)
	if err != nil {
		return err
	}
	return repos.AuditRepo().Append(ctx, entry)
}

func (s *SaleService) guardIdempotency(ctx context.Context, key string) error {
	if s.idempotency == nil || key == "" {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
	if err != nil {
		s.logger.Error("idempotency store unavailable", zap.Error(err))
		return shared.NewInternalError("IDEMPOTENCY_STORE", "Failed to check idempotency key")
	}
	if !fresh {
		return shared.ErrDuplicateRequest
	}
	return nil
}

func (s *SaleService) publishEvents(ctx context.Context, sale *sales.Sale) {
	events := sale.GetDomainEvents()
	sale.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
