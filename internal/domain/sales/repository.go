package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// SaleRepository persists Sale aggregates with their line items and
// refunds. All queries are location-scoped.
type SaleRepository interface {
	// Create inserts a sale with its line items
	Create(ctx context.Context, sale *Sale) error
	// FindByID finds a sale with lines and refunds within the location scope
	FindByID(ctx context.Context, locationID, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate finds a sale and locks its row. Must only be
	// called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, locationID, id uuid.UUID) (*Sale, error)
	// Save persists sale header changes (void state) and any new refunds
	Save(ctx context.Context, sale *Sale) error
	// FindAll lists sales within the location scope
	FindAll(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]Sale, error)
}
