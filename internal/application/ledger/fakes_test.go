package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// In-memory repository fakes backing the service tests. They honor the
// same contract as the GORM implementations: location scoping, tombstone
// filtering and the optimistic version check on Save.

func cloneItem(item *inventory.InventoryItem) *inventory.InventoryItem {
	copied := *item
	if item.StrainID != nil {
		v := *item.StrainID
		copied.StrainID = &v
	}
	if item.UsableWeight != nil {
		v := *item.UsableWeight
		copied.UsableWeight = &v
	}
	if item.SublotID != nil {
		v := *item.SublotID
		copied.SublotID = &v
	}
	if item.DeletedAt != nil {
		v := *item.DeletedAt
		copied.DeletedAt = &v
	}
	copied.ClearDomainEvents()
	copied.MarkPersisted()
	return &copied
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *memItemRepo) get(locationID, id uuid.UUID, includeRetired bool) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok || item.LocationID != locationID {
		return nil, shared.ErrNotFound
	}
	if !includeRetired && item.DeletedAt != nil {
		return nil, shared.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *memItemRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(locationID, id, false)
}

func (r *memItemRepo) FindByIDForUpdate(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(locationID, id, false)
}

func (r *memItemRepo) FindByIDsForUpdate(_ context.Context, locationID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.get(locationID, id, false)
		if err != nil {
			continue
		}
		found = append(found, *item)
	}
	sort.Slice(found, func(a, b int) bool {
		return found[a].ID.String() < found[b].ID.String()
	})
	return found, nil
}

func (r *memItemRepo) FindByIDIncludingRetired(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(locationID, id, true)
}

func (r *memItemRepo) FindByBarcode(_ context.Context, locationID uuid.UUID, barcode string) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.LocationID == locationID && item.Barcode == barcode && item.DeletedAt == nil {
			return cloneItem(item), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAll(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []inventory.InventoryItem
	for _, item := range r.items {
		if item.LocationID == locationID && item.DeletedAt == nil {
			items = append(items, *cloneItem(item))
		}
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].ID.String() < items[b].ID.String()
	})
	return items, nil
}

func (r *memItemRepo) Count(_ context.Context, locationID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if item.LocationID == locationID && item.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *memItemRepo) Create(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("duplicate item %s", item.ID)
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok || stored.Version != item.PersistedVersion() {
		return shared.ErrOptimisticLock
	}
	r.items[item.ID] = cloneItem(item)
	item.MarkPersisted()
	return nil
}

// seed inserts an item bypassing the version check
func (r *memItemRepo) seed(item *inventory.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneItem(item)
}

// stored returns the persisted state of an item
func (r *memItemRepo) stored(id uuid.UUID) *inventory.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil
	}
	return cloneItem(item)
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []inventory.AuditLogEntry
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{}
}

func (r *memAuditRepo) Append(_ context.Context, entry *inventory.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*inventory.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx := range r.entries {
		if r.entries[idx].ID == id && r.entries[idx].LocationID == locationID {
			entry := r.entries[idx]
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAuditRepo) FindByEntity(_ context.Context, locationID, entityID uuid.UUID, filter shared.Filter) ([]inventory.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []inventory.AuditLogEntry
	for idx := len(r.entries) - 1; idx >= 0; idx-- {
		entry := r.entries[idx]
		if entry.LocationID != locationID || entry.EntityID != entityID {
			continue
		}
		if action, ok := filter.Filters["action"]; ok && entry.Action != inventory.AuditAction(fmt.Sprint(action)) {
			continue
		}
		found = append(found, entry)
	}
	return found, nil
}

// byAction returns every recorded entry with the given action, oldest first
func (r *memAuditRepo) byAction(action inventory.AuditAction) []inventory.AuditLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []inventory.AuditLogEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			found = append(found, entry)
		}
	}
	return found
}

func (r *memAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type memLineageRepo struct {
	mu           sync.Mutex
	splits       []inventory.InventorySplit
	combinations []inventory.InventoryCombination
	lots         []inventory.Lot
}

func newMemLineageRepo() *memLineageRepo {
	return &memLineageRepo{}
}

func (r *memLineageRepo) CreateSplit(_ context.Context, split *inventory.InventorySplit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.splits = append(r.splits, *split)
	return nil
}

func (r *memLineageRepo) CreateCombination(_ context.Context, combination *inventory.InventoryCombination) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combinations = append(r.combinations, *combination)
	return nil
}

func (r *memLineageRepo) CreateLot(_ context.Context, lot *inventory.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots = append(r.lots, *lot)
	return nil
}

func (r *memLineageRepo) FindSplitsByParent(_ context.Context, locationID, parentItemID uuid.UUID) ([]inventory.InventorySplit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []inventory.InventorySplit
	for _, split := range r.splits {
		if split.LocationID == locationID && split.ParentItemID == parentItemID {
			found = append(found, split)
		}
	}
	return found, nil
}

func (r *memLineageRepo) FindCombinationsByTarget(_ context.Context, locationID, targetItemID uuid.UUID) ([]inventory.InventoryCombination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []inventory.InventoryCombination
	for _, combination := range r.combinations {
		if combination.LocationID == locationID && combination.TargetItemID == targetItemID {
			found = append(found, combination)
		}
	}
	return found, nil
}

func (r *memLineageRepo) FindLotByID(_ context.Context, locationID, lotID uuid.UUID) (*inventory.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx := range r.lots {
		if r.lots[idx].ID == lotID && r.lots[idx].LocationID == locationID {
			lot := r.lots[idx]
			return &lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]uuid.UUID // room ID -> location ID
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[uuid.UUID]uuid.UUID)}
}

func (r *memRoomRepo) addRoom(locationID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.rooms[id] = locationID
	return id
}

func (r *memRoomRepo) Exists(_ context.Context, locationID, roomID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.rooms[roomID]
	return ok && owner == locationID, nil
}

type memTypeRepo struct {
	mu    sync.Mutex
	types []inventory.InventoryType
}

func newMemTypeRepo() *memTypeRepo {
	return &memTypeRepo{}
}

func (r *memTypeRepo) addType(locationID uuid.UUID, kind inventory.TypeKind) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := inventory.InventoryType{
		BaseEntity: shared.NewBaseEntity(),
		LocationID: locationID,
		Name:       string(kind),
		Kind:       kind,
	}
	r.types = append(r.types, it)
	return it.ID
}

func (r *memTypeRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx := range r.types {
		if r.types[idx].ID == id && r.types[idx].LocationID == locationID {
			it := r.types[idx]
			return &it, nil
		}
	}
	return nil, shared.NewNotFoundError("TYPE_NOT_FOUND", "Inventory type not found")
}

func (r *memTypeRepo) FindByKind(_ context.Context, locationID uuid.UUID, kind inventory.TypeKind) (*inventory.InventoryType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx := range r.types {
		if r.types[idx].LocationID == locationID && r.types[idx].Kind == kind {
			it := r.types[idx]
			return &it, nil
		}
	}
	return nil, shared.NewNotFoundError("TYPE_NOT_FOUND", fmt.Sprintf("No inventory type of kind %s", kind))
}

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*sales.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[uuid.UUID]*sales.Sale)}
}

func cloneSale(sale *sales.Sale) *sales.Sale {
	copied := *sale
	copied.Items = append([]sales.SaleItem(nil), sale.Items...)
	copied.Refunds = append([]sales.Refund(nil), sale.Refunds...)
	if sale.VoidedAt != nil {
		v := *sale.VoidedAt
		copied.VoidedAt = &v
	}
	copied.ClearDomainEvents()
	copied.MarkPersisted()
	return &copied
}

func (r *memSaleRepo) Create(_ context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sales[sale.ID]; exists {
		return fmt.Errorf("duplicate sale %s", sale.ID)
	}
	r.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok || sale.LocationID != locationID {
		return nil, shared.ErrNotFound
	}
	return cloneSale(sale), nil
}

func (r *memSaleRepo) FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	return r.FindByID(ctx, locationID, id)
}

func (r *memSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[sale.ID]
	if !ok || stored.Version != sale.PersistedVersion() {
		return shared.ErrOptimisticLock
	}
	r.sales[sale.ID] = cloneSale(sale)
	sale.MarkPersisted()
	return nil
}

func (r *memSaleRepo) FindAll(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []sales.Sale
	for _, sale := range r.sales {
		if sale.LocationID == locationID {
			found = append(found, *cloneSale(sale))
		}
	}
	return found, nil
}

// seqBarcodes hands out deterministic barcodes for assertions
type seqBarcodes struct {
	mu   sync.Mutex
	next int
}

func (g *seqBarcodes) NewBarcode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("BC%06d", g.next)
}

// recordingPublisher captures every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, evt := range p.events {
		out = append(out, evt.EventType())
	}
	return out
}

// memIdempotency is a map-backed idempotency store without expiry
type memIdempotency struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{seen: make(map[string]bool)}
}

func (s *memIdempotency) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memIdempotency) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *memIdempotency) Close() error { return nil }

// ledgerEnv wires the fakes into a service under test
type ledgerEnv struct {
	locationID uuid.UUID
	roomID     uuid.UUID
	typeID     uuid.UUID
	items      *memItemRepo
	audits     *memAuditRepo
	lineage    *memLineageRepo
	rooms      *memRoomRepo
	types      *memTypeRepo
	saleRepo   *memSaleRepo
	publisher  *recordingPublisher
	scope      TransactionScope
}

func newLedgerEnv() *ledgerEnv {
	env := &ledgerEnv{
		locationID: uuid.New(),
		items:      newMemItemRepo(),
		audits:     newMemAuditRepo(),
		lineage:    newMemLineageRepo(),
		rooms:      newMemRoomRepo(),
		types:      newMemTypeRepo(),
		saleRepo:   newMemSaleRepo(),
		publisher:  &recordingPublisher{},
	}
	env.roomID = env.rooms.addRoom(env.locationID)
	env.typeID = env.types.addType(env.locationID, inventory.TypeKindMaterial)
	env.scope = NewNoOpTransactionScope(env.items, env.audits, env.lineage, env.rooms, env.types, env.saleRepo)
	return env
}

func (env *ledgerEnv) service(opts ...LedgerOption) *LedgerService {
	opts = append([]LedgerOption{WithEventPublisher(env.publisher)}, opts...)
	return NewLedgerService(env.scope, &seqBarcodes{}, opts...)
}

// seedItem creates and persists an item in the default room
func (env *ledgerEnv) seedItem(quantity string) *inventory.InventoryItem {
	item, err := inventory.NewInventoryItem(env.locationID, env.typeID, env.roomID,
		fmt.Sprintf("SEED%s", uuid.New().String()[:8]), decimal.RequireFromString(quantity))
	if err != nil {
		panic(err)
	}
	env.items.seed(item)
	return item
}

var _ inventory.InventoryItemRepository = (*memItemRepo)(nil)
var _ inventory.AuditLogRepository = (*memAuditRepo)(nil)
var _ inventory.LineageRepository = (*memLineageRepo)(nil)
var _ inventory.RoomRepository = (*memRoomRepo)(nil)
var _ inventory.InventoryTypeRepository = (*memTypeRepo)(nil)
var _ sales.SaleRepository = (*memSaleRepo)(nil)
var _ shared.EventPublisher = (*recordingPublisher)(nil)
var _ shared.IdempotencyStore = (*memIdempotency)(nil)
