package model

import (
	"time"

	"github.com/google/uuid"
)

type ReceiptID string

// NewReceiptID generates a new unique ReceiptID
func NewReceiptID() ReceiptID {
	return ReceiptID(uuid.New().String())
}

// Receipt is one raw note jotted by a user, the unit that gets rewritten
// into a journal entry.
type Receipt struct {
	ID      ReceiptID `firestore:"-" json:"id"`
	Message string    `firestore:"message" json:"message"`

	// CreatedAt is assigned once at creation and is the sole ordering key
	// for recent-entry retrieval.
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
