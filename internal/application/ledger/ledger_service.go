package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// DefaultRedFlagThreshold is the relative change above which an
// adjustment is flagged for review (10%).
var DefaultRedFlagThreshold = decimal.NewFromFloat(0.10)

// LedgerService coordinates the quantity-mutating operations of the
// ledger. Every operation runs inside one transaction scope: the row
// locks, the quantity mutation, the lineage records and the audit entry
// commit together or not at all. Domain events are published only after
// a successful commit.
type LedgerService struct {
	scope            TransactionScope
	barcodes         inventory.BarcodeGenerator
	publisher        shared.EventPublisher
	idempotency      shared.IdempotencyStore
	idempotencyTTL   time.Duration
	redFlagThreshold decimal.Decimal
	logger           *zap.Logger
}

// LedgerOption configures optional service collaborators
type LedgerOption func(*LedgerService)

// WithEventPublisher sets the post-commit event publisher
func WithEventPublisher(publisher shared.EventPublisher) LedgerOption {
	return func(s *LedgerService) {
		s.publisher = publisher
	}
}

// WithIdempotencyStore enables request deduplication with the given TTL
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) LedgerOption {
	return func(s *LedgerService) {
		s.idempotency = store
		s.idempotencyTTL = ttl
	}
}

// WithRedFlagThreshold overrides the adjustment review threshold
func WithRedFlagThreshold(threshold decimal.Decimal) LedgerOption {
	return func(s *LedgerService) {
		s.redFlagThreshold = threshold
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) LedgerOption {
	return func(s *LedgerService) {
		s.logger = logger
	}
}

// NewLedgerService creates a ledger service
func NewLedgerService(scope TransactionScope, barcodes inventory.BarcodeGenerator, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		scope:            scope,
		barcodes:         barcodes,
		idempotencyTTL:   shared.DefaultIdempotencyConfig().TTL,
		redFlagThreshold: DefaultRedFlagThreshold,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MoveItem moves an item to another room at the same location
func (s *LedgerService) MoveItem(ctx context.Context, locationID uuid.UUID, req MoveItemRequest) (*ItemResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	var moved *inventory.InventoryItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, locationID, req.ItemID)
		if err != nil {
			return err
		}

		exists, err := repos.RoomRepo().Exists(ctx, locationID, req.TargetRoomID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewNotFoundError("ROOM_NOT_FOUND", "Target room not found")
		}

		before := item.Snapshot()
		if err := item.MoveToRoom(req.TargetRoomID); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := s.recordItemAudit(ctx, repos, item, inventory.ActionRoomMove, before, req.Reason, req.ActorID); err != nil {
			return err
		}

		moved = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &moved.AggregateRoot)
	resp := ToItemResponse(moved)
	return &resp, nil
}

// AdjustQuantity applies a signed delta to an item's quantity. The
// response carries a red flag when the relative change exceeds the
// configured threshold; flagged adjustments still commit.
func (s *LedgerService) AdjustQuantity(ctx context.Context, locationID uuid.UUID, req AdjustQuantityRequest) (*AdjustQuantityResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}
	if req.Delta.IsZero() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if req.Reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Adjustment reason is required")
	}

	var (
		adjusted *inventory.InventoryItem
		redFlag  bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, locationID, req.ItemID)
		if err != nil {
			return err
		}

		before := item.Snapshot()
		redFlag, err = item.Adjust(req.Delta, s.redFlagThreshold)
		if err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		reason := req.Reason
		if req.AdjustmentType != "" {
			reason = fmt.Sprintf("%s: %s", req.AdjustmentType, req.Reason)
		}
		if err := s.recordItemAudit(ctx, repos, item, inventory.ActionQuantityAdjustment, before, reason, req.ActorID); err != nil {
			return err
		}

		adjusted = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if redFlag {
		s.logger.Warn("quantity adjustment flagged for review",
			zap.String("item_id", adjusted.ID.String()),
			zap.String("delta", req.Delta.String()))
	}
	s.publishEvents(ctx, &adjusted.AggregateRoot)
	return &AdjustQuantityResponse{Item: ToItemResponse(adjusted), RedFlag: redFlag}, nil
}

// SplitItem carves child items out of a parent. Each child receives a
// fresh barcode and a sublot identifier derived from the parent; usable
// weight transfers proportionally. The parent stays active even when
// split down to zero.
func (s *LedgerService) SplitItem(ctx context.Context, locationID uuid.UUID, req SplitItemRequest) (*SplitItemResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}
	if len(req.Parts) == 0 {
		return nil, shared.NewValidationError("INVALID_INPUT", "At least one split part is required")
	}

	var (
		parent   *inventory.InventoryItem
		children []*inventory.InventoryItem
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, locationID, req.ItemID)
		if err != nil {
			return err
		}

		amounts := make([]decimal.Decimal, len(req.Parts))
		total := decimal.Zero
		for idx, part := range req.Parts {
			amounts[idx] = part.Quantity
			total = total.Add(part.Quantity)
		}
		if err := inventory.EnsureSplitSumWithinParent(amounts, item.Quantity); err != nil {
			return err
		}

		// Sublot numbering continues across successive splits of the
		// same parent.
		prior, err := repos.LineageRepo().FindSplitsByParent(ctx, locationID, item.ID)
		if err != nil {
			return err
		}
		baseIndex := len(prior)

		before := item.Snapshot()
		created := make([]*inventory.InventoryItem, 0, len(req.Parts))
		for idx, part := range req.Parts {
			roomID := item.RoomID
			if part.RoomID != nil {
				exists, err := repos.RoomRepo().Exists(ctx, locationID, *part.RoomID)
				if err != nil {
					return err
				}
				if !exists {
					return shared.NewNotFoundError("ROOM_NOT_FOUND", "Target room not found")
				}
				roomID = *part.RoomID
			}

			// Usable share is derived from the parent's pre-split state.
			childUsable := item.ProportionalUsable(part.Quantity)

			child, err := inventory.NewInventoryItem(locationID, item.InventoryTypeID, roomID, s.barcodes.NewBarcode(), part.Quantity)
			if err != nil {
				return err
			}
			child.WithSublot(inventory.SublotID(item.Barcode, baseIndex+idx))
			if item.StrainID != nil {
				child.WithStrain(*item.StrainID)
			}
			if childUsable != nil {
				child.WithUsableWeight(*childUsable)
			}
			created = append(created, child)
		}

		if err := item.Reduce(total); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		childIDs := make([]uuid.UUID, 0, len(created))
		for _, child := range created {
			if err := repos.ItemRepo().Create(ctx, child); err != nil {
				return err
			}
			split := inventory.NewInventorySplit(locationID, item.ID, child.ID, child.Quantity, *child.SublotID)
			if err := repos.LineageRepo().CreateSplit(ctx, split); err != nil {
				return err
			}
			childIDs = append(childIDs, child.ID)
		}

		if err := s.recordItemAudit(ctx, repos, item, inventory.ActionSplit, before, req.Reason, req.ActorID); err != nil {
			return err
		}

		item.AddDomainEvent(inventory.NewItemSplitEvent(item, childIDs, total))
		parent = item
		children = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &parent.AggregateRoot)
	resp := &SplitItemResponse{
		Parent:   ToItemResponse(parent),
		Children: make([]ItemResponse, 0, len(children)),
	}
	for _, child := range children {
		resp.Children = append(resp.Children, ToItemResponse(child))
	}
	return resp, nil
}

// CombineItems merges source items of one inventory type into a target.
// Sources are tombstoned; their quantities and usable weights transfer
// in full. Without an explicit target a new item is created, taking the
// requested room or the room the sources share.
func (s *LedgerService) CombineItems(ctx context.Context, locationID uuid.UUID, req CombineItemsRequest) (*CombineItemsResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	sourceIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, id := range dedupeIDs(req.ItemIDs) {
		if req.TargetItemID != nil && id == *req.TargetItemID {
			continue
		}
		sourceIDs = append(sourceIDs, id)
	}
	if req.TargetItemID == nil && len(sourceIDs) < 2 {
		return nil, shared.NewValidationError("INVALID_INPUT", "Combining into a new item requires at least two sources")
	}
	if len(sourceIDs) == 0 {
		return nil, shared.NewValidationError("INVALID_INPUT", "At least one source item is required")
	}

	var (
		target      *inventory.InventoryItem
		sourceCount int
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sources, err := repos.ItemRepo().FindByIDsForUpdate(ctx, locationID, sourceIDs)
		if err != nil {
			return err
		}
		if err := ensureAllFound(sourceIDs, sources); err != nil {
			return err
		}
		if err := inventory.EnsureHomogeneous(sources); err != nil {
			return err
		}

		var combined *inventory.InventoryItem
		var targetBefore inventory.ItemSnapshot
		fresh := req.TargetItemID == nil
		if fresh {
			roomID, err := s.resolveCombineRoom(ctx, repos, locationID, req.TargetRoomID, sources)
			if err != nil {
				return err
			}
			combined, err = inventory.NewInventoryItem(locationID, sources[0].InventoryTypeID, roomID, s.barcodes.NewBarcode(), decimal.Zero)
			if err != nil {
				return err
			}
			if sources[0].StrainID != nil {
				combined.WithStrain(*sources[0].StrainID)
			}
		} else {
			combined, err = repos.ItemRepo().FindByIDForUpdate(ctx, locationID, *req.TargetItemID)
			if err != nil {
				return err
			}
			targetBefore = combined.Snapshot()
		}

		total := decimal.Zero
		absorbedIDs := make([]uuid.UUID, 0, len(sources))
		for idx := range sources {
			source := &sources[idx]
			sourceBefore := source.Snapshot()
			amount := source.Quantity

			if err := combined.Absorb(source); err != nil {
				return err
			}
			if err := source.Retire(); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, source); err != nil {
				return err
			}
			if err := repos.LineageRepo().CreateCombination(ctx, inventory.NewInventoryCombination(locationID, source.ID, combined.ID, amount)); err != nil {
				return err
			}
			if err := s.recordItemAudit(ctx, repos, source, inventory.ActionCombine, sourceBefore, req.Reason, req.ActorID); err != nil {
				return err
			}

			total = total.Add(amount)
			absorbedIDs = append(absorbedIDs, source.ID)
		}

		if fresh {
			if err := repos.ItemRepo().Create(ctx, combined); err != nil {
				return err
			}
			if err := s.recordItemCreation(ctx, repos, combined, inventory.ActionCombine, req.Reason, req.ActorID); err != nil {
				return err
			}
		} else {
			if err := repos.ItemRepo().Save(ctx, combined); err != nil {
				return err
			}
			if err := s.recordItemAudit(ctx, repos, combined, inventory.ActionCombine, targetBefore, req.Reason, req.ActorID); err != nil {
				return err
			}
		}

		combined.AddDomainEvent(inventory.NewItemsCombinedEvent(combined, absorbedIDs, total))
		target = combined
		sourceCount = len(sources)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &target.AggregateRoot)
	return &CombineItemsResponse{Combined: ToItemResponse(target), SourceCount: sourceCount}, nil
}

// DestroyItem destroys material into the location's waste type. The
// destroyed amount moves to a new waste item in the same room; a full
// destruction tombstones the source.
func (s *LedgerService) DestroyItem(ctx context.Context, locationID uuid.UUID, req DestroyItemRequest) (*DestroyItemResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Destruction reason is required")
	}

	var source, waste *inventory.InventoryItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, locationID, req.ItemID)
		if err != nil {
			return err
		}

		amount := item.Quantity
		if req.Amount != nil {
			amount = *req.Amount
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError("INVALID_QUANTITY", "Destruction amount must be positive")
		}

		wasteType, err := repos.TypeRepo().FindByKind(ctx, locationID, inventory.TypeKindWaste)
		if err != nil {
			return err
		}

		before := item.Snapshot()
		wasteUsable := item.ProportionalUsable(amount)
		full := amount.Equal(item.Quantity)

		if err := item.Reduce(amount); err != nil {
			return err
		}
		if full {
			if err := item.Retire(); err != nil {
				return err
			}
		}

		wasteItem, err := inventory.NewInventoryItem(locationID, wasteType.ID, item.RoomID, s.barcodes.NewBarcode(), amount)
		if err != nil {
			return err
		}
		if wasteUsable != nil {
			wasteItem.WithUsableWeight(*wasteUsable)
		}
		if item.StrainID != nil {
			wasteItem.WithStrain(*item.StrainID)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.ItemRepo().Create(ctx, wasteItem); err != nil {
			return err
		}

		reason := req.Reason
		if req.Method != "" {
			reason = fmt.Sprintf("%s: %s", req.Method, req.Reason)
		}
		if err := s.recordItemAudit(ctx, repos, item, inventory.ActionDestroy, before, reason, req.ActorID); err != nil {
			return err
		}

		item.AddDomainEvent(inventory.NewItemDestroyedEvent(item, wasteItem.ID, amount, req.Method))
		source = item
		waste = wasteItem
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &source.AggregateRoot)
	return &DestroyItemResponse{Source: ToItemResponse(source), Waste: ToItemResponse(waste)}, nil
}

// CreateLot groups source items into a new lot item holding their
// combined quantity. Sources are tombstoned; the lot records each
// source's contribution.
func (s *LedgerService) CreateLot(ctx context.Context, locationID uuid.UUID, req CreateLotRequest) (*CreateLotResponse, error) {
	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}
	sourceIDs := dedupeIDs(req.ItemIDs)
	if len(sourceIDs) == 0 {
		return nil, shared.NewValidationError("INVALID_INPUT", "At least one source item is required")
	}

	var (
		lot     *inventory.Lot
		lotItem *inventory.InventoryItem
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sources, err := repos.ItemRepo().FindByIDsForUpdate(ctx, locationID, sourceIDs)
		if err != nil {
			return err
		}
		if err := ensureAllFound(sourceIDs, sources); err != nil {
			return err
		}

		exists, err := repos.RoomRepo().Exists(ctx, locationID, req.TargetRoomID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewNotFoundError("ROOM_NOT_FOUND", "Target room not found")
		}

		var lotType *inventory.InventoryType
		if req.LotTypeID != nil {
			lotType, err = repos.TypeRepo().FindByID(ctx, locationID, *req.LotTypeID)
		} else {
			lotType, err = repos.TypeRepo().FindByKind(ctx, locationID, inventory.TypeKindLot)
		}
		if err != nil {
			return err
		}

		total := decimal.Zero
		var usableTotal *decimal.Decimal
		lotSources := make([]inventory.LotSource, 0, len(sources))
		for idx := range sources {
			source := &sources[idx]
			total = total.Add(source.Quantity)
			if source.UsableWeight != nil {
				sum := *source.UsableWeight
				if usableTotal != nil {
					sum = usableTotal.Add(*source.UsableWeight)
				}
				usableTotal = &sum
			}
			lotSources = append(lotSources, inventory.LotSource{
				SourceItemID: source.ID,
				Quantity:     source.Quantity,
			})
		}

		item, err := inventory.NewInventoryItem(locationID, lotType.ID, req.TargetRoomID, s.barcodes.NewBarcode(), total)
		if err != nil {
			return err
		}
		if usableTotal != nil {
			item.WithUsableWeight(*usableTotal)
		}

		created, err := inventory.NewLot(locationID, item.ID, req.LotName, lotSources)
		if err != nil {
			return err
		}

		sourceIDs := make([]uuid.UUID, 0, len(sources))
		for idx := range sources {
			source := &sources[idx]
			sourceBefore := source.Snapshot()
			if err := source.Retire(); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, source); err != nil {
				return err
			}
			if err := s.recordItemAudit(ctx, repos, source, inventory.ActionCreateLot, sourceBefore, req.Reason, req.ActorID); err != nil {
				return err
			}
			sourceIDs = append(sourceIDs, source.ID)
		}

		if err := repos.ItemRepo().Create(ctx, item); err != nil {
			return err
		}
		if err := repos.LineageRepo().CreateLot(ctx, created); err != nil {
			return err
		}
		if err := s.recordItemCreation(ctx, repos, item, inventory.ActionCreateLot, req.Reason, req.ActorID); err != nil {
			return err
		}

		item.AddDomainEvent(inventory.NewLotCreatedEvent(created, item, sourceIDs, total))
		lot = created
		lotItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &lotItem.AggregateRoot)
	return &CreateLotResponse{LotID: lot.ID, LotName: lot.Name, LotItem: ToItemResponse(lotItem)}, nil
}

// GetItem fetches one active item
func (s *LedgerService) GetItem(ctx context.Context, locationID, itemID uuid.UUID) (*ItemResponse, error) {
	var resp *ItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, locationID, itemID)
		if err != nil {
			return err
		}
		r := ToItemResponse(item)
		resp = &r
		return nil
	})
	return resp, err
}

// GetItemByBarcode fetches one active item by barcode
func (s *LedgerService) GetItemByBarcode(ctx context.Context, locationID uuid.UUID, barcode string) (*ItemResponse, error) {
	var resp *ItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByBarcode(ctx, locationID, barcode)
		if err != nil {
			return err
		}
		r := ToItemResponse(item)
		resp = &r
		return nil
	})
	return resp, err
}

// ListItems lists active items within the location scope
func (s *LedgerService) ListItems(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]ItemResponse, int64, error) {
	var (
		items []ItemResponse
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.ItemRepo().FindAll(ctx, locationID, filter)
		if err != nil {
			return err
		}
		total, err = repos.ItemRepo().Count(ctx, locationID, filter)
		if err != nil {
			return err
		}
		items = make([]ItemResponse, 0, len(found))
		for idx := range found {
			items = append(items, ToItemResponse(&found[idx]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetAuditTrail lists the audit entries recorded for one entity, newest
// first.
func (s *LedgerService) GetAuditTrail(ctx context.Context, locationID, entityID uuid.UUID, filter shared.Filter) ([]AuditEntryResponse, error) {
	var entries []AuditEntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.AuditRepo().FindByEntity(ctx, locationID, entityID, filter)
		if err != nil {
			return err
		}
		entries = make([]AuditEntryResponse, 0, len(found))
		for idx := range found {
			entries = append(entries, ToAuditEntryResponse(&found[idx]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *LedgerService) resolveCombineRoom(ctx context.Context, repos TransactionalRepositories, locationID uuid.UUID, targetRoomID *uuid.UUID, sources []inventory.InventoryItem) (uuid.UUID, error) {
	if targetRoomID != nil {
		exists, err := repos.RoomRepo().Exists(ctx, locationID, *targetRoomID)
		if err != nil {
			return uuid.Nil, err
		}
		if !exists {
			return uuid.Nil, shared.NewNotFoundError("ROOM_NOT_FOUND", "Target room not found")
		}
		return *targetRoomID, nil
	}

	roomID := sources[0].RoomID
	for _, source := range sources[1:] {
		if source.RoomID != roomID {
			return uuid.Nil, shared.NewValidationError("ROOM_MISMATCH", "Sources are in different rooms; specify a target room")
		}
	}
	return roomID, nil
}

// recordItemAudit appends one audit entry carrying before and after
// snapshots of the item.
func (s *LedgerService) recordItemAudit(ctx context.Context, repos TransactionalRepositories, item *inventory.InventoryItem, action inventory.AuditAction, before inventory.ItemSnapshot, reason string, actorID *uuid.UUID) error {
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

// recordItemCreation appends an audit entry for an item that did not
// exist before the operation; the old value is left empty.
func (s *LedgerService) recordItemCreation(ctx context.Context, repos TransactionalRepositories, item *inventory.InventoryItem, action inventory.AuditAction, reason string, actorID *uuid.UUID) error {
	newValue, err := item.Snapshot().Marshal()
	if err != nil {
		return err
	}
	entry, err := inventory.NewAuditLogEntry(item.LocationID, inventory.EntityInventoryItem, item.ID, action, "", newValue, reason, actorID)
	if err != nil {
		return err
	}
	return repos.AuditRepo().Append(ctx, entry)
}

func (s *LedgerService) guardIdempotency(ctx context.Context, key string) error {
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

func (s *LedgerService) publishEvents(ctx context.Context, aggregates ...*shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// dedupeIDs drops repeated IDs, preserving first-seen order
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ensureAllFound verifies that every requested ID came back from a
// locked batch fetch. Missing and tombstoned IDs are indistinguishable
// here; both are reported as not found.
func ensureAllFound(requested []uuid.UUID, found []inventory.InventoryItem) error {
	if len(found) == len(requested) {
		return nil
	}
	present := make(map[uuid.UUID]bool, len(found))
	for _, item := range found {
		present[item.ID] = true
	}
	for _, id := range requested {
		if !present[id] {
			return shared.NewNotFoundError("ITEM_NOT_FOUND", fmt.Sprintf("Inventory item %s not found", id))
		}
	}
	return nil
}
