package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	// SaleStatusCompleted is the initial state: inventory has been decremented
	SaleStatusCompleted SaleStatus = "COMPLETED"
	// SaleStatusVoided means the decremented quantities were restored
	SaleStatusVoided SaleStatus = "VOIDED"
)

// Sale is a completed transaction against one or more inventory items.
// It owns an ordered set of line items and any refunds issued against
// it. Voiding a sale restores exactly the quantities decremented at
// creation; a sale can be voided at most once.
type Sale struct {
	shared.LocationAggregateRoot
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      SaleStatus      `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	VoidedAt    *time.Time
	VoidReason  string     `gorm:"type:varchar(255)"`
	Items       []SaleItem `gorm:"foreignKey:SaleID;references:ID"`
	Refunds     []Refund   `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Refund is a partial or full repayment against a sale
type Refund struct {
	shared.BaseEntity
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Refund) TableName() string {
	return "refunds"
}

// NewSale creates an empty sale in the completed state
func NewSale(locationID uuid.UUID, customerID *uuid.UUID) (*Sale, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &Sale{
		LocationAggregateRoot: shared.NewLocationAggregateRoot(locationID),
		CustomerID:            customerID,
		TotalAmount:           decimal.Zero,
		Status:                SaleStatusCompleted,
		Items:                 make([]SaleItem, 0),
		Refunds:               make([]Refund, 0),
	}, nil
}

// AddLine appends a line item and recomputes the sale total
func (s *Sale) AddLine(inventoryItemID uuid.UUID, quantity, unitPrice, discount decimal.Decimal) error {
	if inventoryItemID == uuid.Nil {
		return shared.NewValidationError("INVALID_ITEM", "Inventory item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	lineTotal := quantity.Mul(unitPrice).Sub(discount)
	if discount.IsNegative() || lineTotal.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative or exceed the line amount")
	}

	s.Items = append(s.Items, SaleItem{
		BaseEntity:      shared.NewBaseEntity(),
		SaleID:          s.ID,
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Discount:        discount,
		LineTotal:       lineTotal,
	})
	s.TotalAmount = s.TotalAmount.Add(lineTotal)
	s.Touch()
	return nil
}

// Finalize validates the completed sale and emits its event
func (s *Sale) Finalize() error {
	if len(s.Items) == 0 {
		return shared.NewValidationError("INVALID_INPUT", "A sale requires at least one line item")
	}
	s.AddDomainEvent(NewSaleCompletedEvent(s))
	return nil
}

// IsVoided reports whether the sale has been voided
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}

// Void marks the sale voided. The caller restores inventory quantities
// in the same transaction.
func (s *Sale) Void(reason string) error {
	if s.IsVoided() {
		return shared.NewConflictError("ALREADY_VOIDED", "Sale has already been voided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.VoidReason = reason
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleVoidedEvent(s, reason))
	return nil
}

// TotalRefunded sums the refunds issued so far
func (s *Sale) TotalRefunded() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Refunds {
		total = total.Add(r.Amount)
	}
	return total
}

// AddRefund issues a refund, bounded so that the refunded total never
// exceeds the sale total.
func (s *Sale) AddRefund(amount decimal.Decimal, reason string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if s.TotalRefunded().Add(amount).GreaterThan(s.TotalAmount) {
		return shared.NewValidationError("REFUND_EXCEEDS_TOTAL", "Refunds would exceed the sale total")
	}

	s.Refunds = append(s.Refunds, Refund{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     s.ID,
		Amount:     amount,
		Reason:     reason,
	})
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewRefundIssuedEvent(s, amount))
	return nil
}
