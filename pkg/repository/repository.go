package repository

import (
	"context"

	"github.com/tsuzuri-app/tsuzuri/pkg/model"
)

// Repository defines the interface for journal data persistence
type Repository interface {
	// PutReceipt saves a receipt under the given user
	PutReceipt(ctx context.Context, userID model.UserID, receipt *model.Receipt) error

	// GetReceipt retrieves one of the user's receipts by ID
	GetReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) (*model.Receipt, error)

	// UpdateReceiptMessage overwrites the message field of an existing receipt
	UpdateReceiptMessage(ctx context.Context, userID model.UserID, id model.ReceiptID, message string) error

	// DeleteReceipt removes one of the user's receipts
	DeleteReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) error

	// ListRecentReceipts retrieves up to limit receipts ordered by creation
	// time descending (newest first)
	ListRecentReceipts(ctx context.Context, userID model.UserID, limit int) ([]*model.Receipt, error)

	// GetMemory retrieves the user's memory summary, or nil if none exists yet
	GetMemory(ctx context.Context, userID model.UserID) (*model.Memory, error)

	// PutMemory upserts the memory summary with a server-assigned timestamp.
	// Field-level merge: it succeeds whether or not the document exists and
	// requires no prior read.
	PutMemory(ctx context.Context, userID model.UserID, summary string) error

	// RunUserTransaction executes fn atomically against the user's counter,
	// receipts and memory summary. The store may re-execute fn on conflict,
	// so fn must be safe to run from scratch; writes are applied only when
	// fn returns nil.
	RunUserTransaction(ctx context.Context, userID model.UserID, fn func(ctx context.Context, tx UserTx) error) error
}

// UserTx is the view of a single user's data inside a transaction. All
// reads must be issued before the first write.
type UserTx interface {
	// ReceiptCount reads the creation counter, treating an absent user
	// record as 0
	ReceiptCount() (int64, error)

	// SetReceiptCount upserts the creation counter
	SetReceiptCount(count int64) error

	// RecentReceipts retrieves up to limit receipts, newest first
	RecentReceipts(limit int) ([]*model.Receipt, error)

	// Memory retrieves the memory summary, or nil if none exists yet
	Memory() (*model.Memory, error)

	// SetMemory upserts the memory summary with a server-assigned timestamp,
	// replacing any prior value
	SetMemory(summary string) error
}
