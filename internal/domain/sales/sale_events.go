package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// AggregateTypeSale is the aggregate type name for events
const AggregateTypeSale = "Sale"

// Event type constants for sale events
const (
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleVoided    = "SaleVoided"
	EventTypeRefundIssued  = "RefundIssued"
)

// SaleCompletedEvent is raised when a sale is created and inventory decremented
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	LineCount   int             `json:"line_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID, sale.LocationID),
		SaleID:          sale.ID,
		LineCount:       len(sale.Items),
		TotalAmount:     sale.TotalAmount,
	}
}

// SaleVoidedEvent is raised when a sale is voided and quantities restored
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
	Reason string    `json:"reason"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(sale *Sale, reason string) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, sale.ID, sale.LocationID),
		SaleID:          sale.ID,
		Reason:          reason,
	}
}

// RefundIssuedEvent is raised when a refund is recorded against a sale
type RefundIssuedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID       `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
}

// NewRefundIssuedEvent creates a new RefundIssuedEvent
func NewRefundIssuedEvent(sale *Sale, amount decimal.Decimal) *RefundIssuedEvent {
	return &RefundIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundIssued, AggregateTypeSale, sale.ID, sale.LocationID),
		SaleID:          sale.ID,
		Amount:          amount,
	}
}
