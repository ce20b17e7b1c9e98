package inventory

import "fmt"

// BarcodeGenerator produces collision-resistant identifiers for new
// top-level items. Every call yields a fresh value; generation is not
// idempotent across retries. Implementations must be safe for
// concurrent use.
type BarcodeGenerator interface {
	NewBarcode() string
}

// SublotID derives the child identifier for the index-th part of a
// split from the parent barcode. The derivation is deterministic:
// the same parent and index always produce the same identifier.
func SublotID(parentBarcode string, index int) string {
	return fmt.Sprintf("%s-%d", parentBarcode, index+1)
}
