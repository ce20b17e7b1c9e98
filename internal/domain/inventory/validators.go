package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/shared"
)

// Pure quantity checks invoked before any mutation is attempted. They
// have no side effects and report failures with enough detail for the
// caller to correct the request.

// EnsureSufficient fails when the requested amount exceeds the current
// quantity.
func EnsureSufficient(current, requested decimal.Decimal) error {
	if requested.GreaterThan(current) {
		return shared.NewConflictError("INSUFFICIENT_QUANTITY",
			fmt.Sprintf("Insufficient quantity: available=%s, requested=%s", current.String(), requested.String()))
	}
	return nil
}

// EnsureNonNegativeResult fails when applying the delta would drive the
// quantity below zero.
func EnsureNonNegativeResult(current, delta decimal.Decimal) error {
	if current.Add(delta).IsNegative() {
		return shared.NewConflictError("NEGATIVE_RESULT",
			fmt.Sprintf("Adjustment would drive quantity negative: current=%s, delta=%s", current.String(), delta.String()))
	}
	return nil
}

// EnsureSplitSumWithinParent fails when the split amounts together
// exceed the parent quantity.
func EnsureSplitSumWithinParent(splitAmounts []decimal.Decimal, parentQuantity decimal.Decimal) error {
	sum := decimal.Zero
	for _, amount := range splitAmounts {
		if amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError("INVALID_QUANTITY", "Split amounts must be positive")
		}
		sum = sum.Add(amount)
	}
	if sum.GreaterThan(parentQuantity) {
		return shared.NewValidationError("OVER_ALLOCATION",
			fmt.Sprintf("Requested split total %s exceeds parent quantity %s", sum.String(), parentQuantity.String()))
	}
	return nil
}

// EnsureHomogeneous fails unless every source item shares the same
// inventory type. Combining heterogeneous material would corrupt the
// type reference of the combined item.
func EnsureHomogeneous(items []InventoryItem) error {
	if len(items) == 0 {
		return shared.NewValidationError("INVALID_INPUT", "At least one source item is required")
	}
	typeID := items[0].InventoryTypeID
	for _, item := range items[1:] {
		if item.InventoryTypeID != typeID {
			return shared.NewValidationError("TYPE_MISMATCH",
				fmt.Sprintf("Item %s has inventory type %s, expected %s", item.ID, item.InventoryTypeID, typeID))
		}
	}
	return nil
}
