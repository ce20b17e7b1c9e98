package sales

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/application/ledger"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// Map-backed fakes covering the repositories the sale flows touch.
// Lineage, room and type repositories are never reached and stay nil.

type fakeItemRepo struct {
	items map[uuid.UUID]*inventory.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func copyItem(item *inventory.InventoryItem) *inventory.InventoryItem {
	copied := *item
	if item.UsableWeight != nil {
		v := *item.UsableWeight
		copied.UsableWeight = &v
	}
	if item.DeletedAt != nil {
		v := *item.DeletedAt
		copied.DeletedAt = &v
	}
	copied.ClearDomainEvents()
	copied.MarkPersisted()
	return &copied
}

func (r *fakeItemRepo) seed(item *inventory.InventoryItem) {
	r.items[item.ID] = copyItem(item)
}

func (r *fakeItemRepo) stored(id uuid.UUID) *inventory.InventoryItem {
	item, ok := r.items[id]
	if !ok {
		return nil
	}
	return copyItem(item)
}

func (r *fakeItemRepo) find(locationID, id uuid.UUID, includeRetired bool) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok || item.LocationID != locationID {
		return nil, shared.ErrNotFound
	}
	if !includeRetired && item.DeletedAt != nil {
		return nil, shared.ErrNotFound
	}
	return copyItem(item), nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(locationID, id, false)
}

func (r *fakeItemRepo) FindByIDForUpdate(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(locationID, id, false)
}

func (r *fakeItemRepo) FindByIDsForUpdate(_ context.Context, locationID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	found := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.find(locationID, id, false)
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

func (r *fakeItemRepo) FindByIDIncludingRetired(_ context.Context, locationID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(locationID, id, true)
}

func (r *fakeItemRepo) FindByBarcode(_ context.Context, locationID uuid.UUID, barcode string) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.LocationID == locationID && item.Barcode == barcode && item.DeletedAt == nil {
			return copyItem(item), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r *fakeItemRepo) Create(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.ID] = copyItem(item)
	return nil
}

func (r *fakeItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	stored, ok := r.items[item.ID]
	if !ok || stored.Version != item.PersistedVersion() {
		return shared.ErrOptimisticLock
	}
	r.items[item.ID] = copyItem(item)
	item.MarkPersisted()
	return nil
}

type fakeAuditRepo struct {
	entries []inventory.AuditLogEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *inventory.AuditLogEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, _, id uuid.UUID) (*inventory.AuditLogEntry, error) {
	for idx := range r.entries {
		if r.entries[idx].ID == id {
			entry := r.entries[idx]
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAuditRepo) FindByEntity(_ context.Context, _, entityID uuid.UUID, _ shared.Filter) ([]inventory.AuditLogEntry, error) {
	var found []inventory.AuditLogEntry
	for _, entry := range r.entries {
		if entry.EntityID == entityID {
			found = append(found, entry)
		}
	}
	return found, nil
}

func (r *fakeAuditRepo) byAction(action inventory.AuditAction) []inventory.AuditLogEntry {
	var found []inventory.AuditLogEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			found = append(found, entry)
		}
	}
	return found
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*sales.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*sales.Sale)}
}

func copySale(sale *sales.Sale) *sales.Sale {
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

func (r *fakeSaleRepo) Create(_ context.Context, sale *sales.Sale) error {
	if _, exists := r.sales[sale.ID]; exists {
		return fmt.Errorf("duplicate sale %s", sale.ID)
	}
	r.sales[sale.ID] = copySale(sale)
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	sale, ok := r.sales[id]
	if !ok || sale.LocationID != locationID {
		return nil, shared.ErrNotFound
	}
	return copySale(sale), nil
}

func (r *fakeSaleRepo) FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*sales.Sale, error) {
	return r.FindByID(ctx, locationID, id)
}

func (r *fakeSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	stored, ok := r.sales[sale.ID]
	if !ok || stored.Version != sale.PersistedVersion() {
		return shared.ErrOptimisticLock
	}
	r.sales[sale.ID] = copySale(sale)
	sale.MarkPersisted()
	return nil
}

func (r *fakeSaleRepo) FindAll(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]sales.Sale, error) {
	var found []sales.Sale
	for _, sale := range r.sales {
		if sale.LocationID == locationID {
			found = append(found, *copySale(sale))
		}
	}
	return found, nil
}

type fakeIdempotency struct {
	seen map[string]bool
}

func (s *fakeIdempotency) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *fakeIdempotency) IsProcessed(_ context.Context, key string) (bool, error) {
	return s.seen[key], nil
}

func (s *fakeIdempotency) Close() error { return nil }

type saleEnv struct {
	locationID uuid.UUID
	items      *fakeItemRepo
	audits     *fakeAuditRepo
	saleRepo   *fakeSaleRepo
	scope      ledger.TransactionScope
}

func newSaleEnv() *saleEnv {
	env := &saleEnv{
		locationID: uuid.New(),
		items:      newFakeItemRepo(),
		audits:     &fakeAuditRepo{},
		saleRepo:   newFakeSaleRepo(),
	}
	env.scope = ledger.NewNoOpTransactionScope(env.items, env.audits, nil, nil, nil, env.saleRepo)
	return env
}

func (env *saleEnv) seedItem(quantity string) *inventory.InventoryItem {
	item, err := inventory.NewInventoryItem(env.locationID, uuid.New(), uuid.New(),
		fmt.Sprintf("SEED%s", uuid.New().String()[:8]), decimal.RequireFromString(quantity))
	if err != nil {
		panic(err)
	}
	env.items.seed(item)
	return item
}

var _ inventory.InventoryItemRepository = (*fakeItemRepo)(nil)
var _ inventory.AuditLogRepository = (*fakeAuditRepo)(nil)
var _ sales.SaleRepository = (*fakeSaleRepo)(nil)
var _ shared.IdempotencyStore = (*fakeIdempotency)(nil)

func TestSaleService_CreateSale(t *testing.T) {
	t.Run("decrements every line and records the sale", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		a := env.seedItem("10")
		b := env.seedItem("5")

		resp, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: a.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(10)},
				{InventoryItemID: b.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5), Discount: decimal.NewFromInt(1)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, sales.SaleStatusCompleted, resp.Status)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(39)))
		require.Len(t, resp.Items, 2)

		assert.True(t, env.items.stored(a.ID).Quantity.Equal(decimal.NewFromInt(7)))
		assert.True(t, env.items.stored(b.ID).Quantity.Equal(decimal.NewFromInt(3)))

		entries := env.audits.byAction(inventory.ActionSale)
		require.Len(t, entries, 2)
		assert.Contains(t, entries[0].Reason, "sale ")

		stored, err := env.saleRepo.FindByID(context.Background(), env.locationID, resp.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
	})

	t.Run("accumulates multiple lines for one item", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")

		resp, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(1)},
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1)},
			},
		})

		require.NoError(t, err)
		require.Len(t, resp.Items, 2)
		assert.True(t, env.items.stored(item.ID).Quantity.Equal(decimal.NewFromInt(1)))
		// One decrement per item, not per line.
		assert.Len(t, env.audits.byAction(inventory.ActionSale), 1)
	})

	t.Run("rejects the whole sale when one line is short", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		a := env.seedItem("10")
		b := env.seedItem("1")

		_, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: a.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(10)},
				{InventoryItemID: b.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5)},
			},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientQuantity)
		assert.True(t, env.items.stored(a.ID).Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, env.items.stored(b.ID).Quantity.Equal(decimal.NewFromInt(1)))
		assert.Empty(t, env.audits.entries)
		assert.Empty(t, env.saleRepo.sales)
	})

	t.Run("rejects cumulative lines exceeding one item", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")

		_, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(1)},
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1)},
			},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientQuantity)
		assert.True(t, env.items.stored(item.ID).Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("fails when an item is missing", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)

		_, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
			},
		})

		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects an empty sale", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)

		_, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects a replayed idempotency key", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope, WithIdempotencyStore(&fakeIdempotency{}, time.Hour))
		item := env.seedItem("10")

		req := CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
			},
			IdempotencyKey: "sale-1",
		}
		_, err := svc.CreateSale(context.Background(), env.locationID, req)
		require.NoError(t, err)

		_, err = svc.CreateSale(context.Background(), env.locationID, req)
		assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
		assert.True(t, env.items.stored(item.ID).Quantity.Equal(decimal.NewFromInt(9)))
	})
}

func TestSaleService_VoidSale(t *testing.T) {
	createSale := func(t *testing.T, env *saleEnv, svc *SaleService, itemID uuid.UUID, qty int64) *SaleResponse {
		t.Helper()
		resp, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: itemID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(10)},
			},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("restores the decremented quantities", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")
		sale := createSale(t, env, svc, item.ID, 4)

		resp, err := svc.VoidSale(context.Background(), env.locationID, VoidSaleRequest{
			SaleID: sale.ID,
			Reason: "customer returned order",
		})

		require.NoError(t, err)
		assert.Equal(t, sales.SaleStatusVoided, resp.Status)
		assert.Equal(t, "customer returned order", resp.VoidReason)
		assert.True(t, env.items.stored(item.ID).Quantity.Equal(decimal.NewFromInt(10)))

		entries := env.audits.byAction(inventory.ActionVoidSale)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Reason, "void sale ")
	})

	t.Run("reinstates an item fully consumed since the sale", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("4")
		sale := createSale(t, env, svc, item.ID, 4)

		// Simulate the item being retired after the sale consumed it.
		consumed := env.items.stored(item.ID)
		require.NoError(t, consumed.Retire())
		env.items.seed(consumed)

		_, err := svc.VoidSale(context.Background(), env.locationID, VoidSaleRequest{
			SaleID: sale.ID,
			Reason: "return",
		})

		require.NoError(t, err)
		restored := env.items.stored(item.ID)
		assert.Nil(t, restored.DeletedAt)
		assert.True(t, restored.Quantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("rejects voiding twice", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")
		sale := createSale(t, env, svc, item.ID, 4)

		_, err := svc.VoidSale(context.Background(), env.locationID, VoidSaleRequest{SaleID: sale.ID, Reason: "first"})
		require.NoError(t, err)

		_, err = svc.VoidSale(context.Background(), env.locationID, VoidSaleRequest{SaleID: sale.ID, Reason: "second"})
		assert.ErrorIs(t, err, shared.ErrAlreadyVoided)
		assert.True(t, env.items.stored(item.ID).Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("fails on unknown sale", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)

		_, err := svc.VoidSale(context.Background(), env.locationID, VoidSaleRequest{
			SaleID: uuid.New(), Reason: "missing",
		})

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestSaleService_AddRefund(t *testing.T) {
	t.Run("accumulates refunds up to the total", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")
		sale, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)},
			},
		})
		require.NoError(t, err)

		resp, err := svc.AddRefund(context.Background(), env.locationID, AddRefundRequest{
			SaleID: sale.ID, Amount: decimal.NewFromInt(60), Reason: "partial return",
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalRefunded.Equal(decimal.NewFromInt(60)))

		resp, err = svc.AddRefund(context.Background(), env.locationID, AddRefundRequest{
			SaleID: sale.ID, Amount: decimal.NewFromInt(40), Reason: "remainder",
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalRefunded.Equal(decimal.NewFromInt(100)))
		assert.Len(t, resp.Refunds, 2)
	})

	t.Run("rejects refunds beyond the total", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")
		sale, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
			},
		})
		require.NoError(t, err)

		_, err = svc.AddRefund(context.Background(), env.locationID, AddRefundRequest{
			SaleID: sale.ID, Amount: decimal.NewFromInt(51), Reason: "too much",
		})

		assert.ErrorIs(t, err, shared.ErrRefundExceedsTotal)
	})
}

func TestSaleService_Reads(t *testing.T) {
	t.Run("get and list sales", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")

		created, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
			},
		})
		require.NoError(t, err)

		fetched, err := svc.GetSale(context.Background(), env.locationID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Len(t, fetched.Items, 1)

		listed, err := svc.ListSales(context.Background(), env.locationID, shared.NewFilter())
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("scopes sales to the location", func(t *testing.T) {
		env := newSaleEnv()
		svc := NewSaleService(env.scope)
		item := env.seedItem("10")

		created, err := svc.CreateSale(context.Background(), env.locationID, CreateSaleRequest{
			Items: []SaleLineInput{
				{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
			},
		})
		require.NoError(t, err)

		_, err = svc.GetSale(context.Background(), uuid.New(), created.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}
