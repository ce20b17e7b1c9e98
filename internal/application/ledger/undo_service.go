package ledger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// UndoService reverses undoable audit entries. Only room moves and
// quantity adjustments qualify: their stored snapshots fully describe
// the inverse transition, so undo applies the old snapshot directly
// instead of recomputing it. The reversal itself is recorded as a new
// UNDO entry with the snapshots swapped, keeping history forward-only.
// Undoing the same entry again is permitted and simply re-applies the
// stored snapshot.
type UndoService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// UndoOption configures optional service collaborators
type UndoOption func(*UndoService)

// WithUndoEventPublisher sets the post-commit event publisher
func WithUndoEventPublisher(publisher shared.EventPublisher) UndoOption {
	return func(s *UndoService) {
		s.publisher = publisher
	}
}

// WithUndoLogger sets the service logger
func WithUndoLogger(logger *zap.Logger) UndoOption {
	return func(s *UndoService) {
		s.logger = logger
	}
}

// NewUndoService creates an undo service
func NewUndoService(scope TransactionScope, opts ...UndoOption) *UndoService {
	s := &UndoService{
		scope:  scope,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Undo reverses the transition recorded by one audit entry
func (s *UndoService) Undo(ctx context.Context, locationID uuid.UUID, req UndoRequest) (*UndoResponse, error) {
	if req.Reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Undo reason is required")
	}

	var (
		restored  *inventory.InventoryItem
		undone    *inventory.AuditLogEntry
		undoEntry *inventory.AuditLogEntry
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.AuditRepo().FindByID(ctx, locationID, req.AuditEntryID)
		if err != nil {
			return err
		}
		if !entry.Action.IsUndoable() {
			return shared.ErrNotUndoable
		}

		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, locationID, entry.EntityID)
		if err != nil {
			return err
		}

		previous, err := inventory.UnmarshalItemSnapshot(entry.OldValue)
		if err != nil {
			return err
		}

		switch entry.Action {
		case inventory.ActionRoomMove:
			if err := item.RestoreRoom(previous.RoomID); err != nil {
				return err
			}
		case inventory.ActionQuantityAdjustment:
			if err := item.RestoreQuantity(previous.Quantity, previous.UsableWeight); err != nil {
				return err
			}
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		// The correcting entry swaps the original snapshots: what was
		// new is now the state being left, what was old is the state
		// being restored.
		correction, err := inventory.NewAuditLogEntry(locationID, inventory.EntityInventoryItem, item.ID,
			inventory.ActionUndo, entry.NewValue, entry.OldValue, req.Reason, req.ActorID)
		if err != nil {
			return err
		}
		if err := repos.AuditRepo().Append(ctx, correction); err != nil {
			return err
		}

		item.AddDomainEvent(inventory.NewOperationUndoneEvent(entry, item))
		restored = item
		undone = entry
		undoEntry = correction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("audit entry undone",
		zap.String("entry_id", undone.ID.String()),
		zap.String("action", undone.Action.String()),
		zap.String("item_id", restored.ID.String()))
	s.publishEvents(ctx, restored)

	return &UndoResponse{
		Item:         ToItemResponse(restored),
		UndoneAction: undone.Action,
		UndoEntryID:  undoEntry.ID,
	}, nil
}

func (s *UndoService) publishEvents(ctx context.Context, item *inventory.InventoryItem) {
	events := item.GetDomainEvents()
	item.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
