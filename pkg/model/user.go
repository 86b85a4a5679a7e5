package model

// UserID is the opaque principal identity of a journal owner. It is
// assigned by the identity layer, never generated here.
type UserID string

// User holds per-user bookkeeping for the curation pipeline.
type User struct {
	ID UserID `firestore:"-"`

	// ReceiptCount is a monotonic creation counter. It advances by exactly
	// one per created receipt and is never decremented, so deleting a
	// receipt does not change it.
	ReceiptCount int64 `firestore:"receiptCount"`
}
