package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/sales"
)

// SaleLineInput is one requested sale line
type SaleLineInput struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Discount        decimal.Decimal `json:"discount"`
}

// CreateSaleRequest creates a sale and decrements the sold quantities.
// All lines succeed together or the whole sale is rejected.
type CreateSaleRequest struct {
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	Items          []SaleLineInput `json:"items"`
	ActorID        *uuid.UUID      `json:"actor_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// VoidSaleRequest voids a completed sale and restores the quantities
type VoidSaleRequest struct {
	SaleID  uuid.UUID  `json:"sale_id"`
	Reason  string     `json:"reason"`
	ActorID *uuid.UUID `json:"actor_id,omitempty"`
}

// AddRefundRequest records a refund against a sale
type AddRefundRequest struct {
	SaleID  uuid.UUID       `json:"sale_id"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
	ActorID *uuid.UUID      `json:"actor_id,omitempty"`
}

// SaleLineResponse is the read model of one sale line
type SaleLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Discount        decimal.Decimal `json:"discount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// RefundResponse is the read model of one refund
type RefundResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

// SaleResponse is the read model of a sale
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalRefunded decimal.Decimal    `json:"total_refunded"`
	Status        sales.SaleStatus   `json:"status"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	VoidReason    string             `json:"void_reason,omitempty"`
	Items         []SaleLineResponse `json:"items"`
	Refunds       []RefundResponse   `json:"refunds,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleResponse converts a sale to its read model
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            sale.ID,
		CustomerID:    sale.CustomerID,
		TotalAmount:   sale.TotalAmount,
		TotalRefunded: sale.TotalRefunded(),
		Status:        sale.Status,
		VoidedAt:      sale.VoidedAt,
		VoidReason:    sale.VoidReason,
		Items:         make([]SaleLineResponse, 0, len(sale.Items)),
		Refunds:       make([]RefundResponse, 0, len(sale.Refunds)),
		CreatedAt:     sale.CreatedAt,
	}
	for _, line := range sale.Items {
		resp.Items = append(resp.Items, SaleLineResponse{
			ID:              line.ID,
			InventoryItemID: line.InventoryItemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Discount:        line.Discount,
			LineTotal:       line.LineTotal,
		})
	}
	for _, refund := range sale.Refunds {
		resp.Refunds = append(resp.Refunds, RefundResponse{
			ID:     refund.ID,
			Amount: refund.Amount,
			Reason: refund.Reason,
		})
	}
	return resp
}
