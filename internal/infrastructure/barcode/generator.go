package barcode

import (
	"strings"

	"github.com/google/uuid"

	"github.com/amarodesigns88-dot/complete-seed-to-sale-sub000/internal/domain/inventory"
)

// UUIDGenerator derives barcodes from random UUIDs, which makes
// collisions practically impossible without any coordination between
// instances. The dashes are stripped and the value uppercased to fit
// standard barcode symbologies.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID-backed barcode generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewBarcode returns a fresh 32-character barcode
func (g *UUIDGenerator) NewBarcode() string {
	raw := uuid.New().String()
	return strings.ToUpper(strings.ReplaceAll(raw, "-", ""))
}

var _ inventory.BarcodeGenerator = (*UUIDGenerator)(nil)
