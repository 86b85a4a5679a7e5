package journal

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/tsuzuri-app/tsuzuri/pkg/utils/logging"
)

// CreateReceipt persists a new receipt and fires the batch trigger. The
// trigger is fire-and-forget from the creation's perspective: its failure
// is logged but does not undo the created receipt, and the event is not
// retried.
func (u *UseCase) CreateReceipt(ctx context.Context, userID model.UserID, message string) (*model.Receipt, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if message == "" {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "message is required")
	}

	receipt := &model.Receipt{
		ID:        model.NewReceiptID(),
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := u.repo.PutReceipt(ctx, userID, receipt); err != nil {
		return nil, internal(ctx, err, "failed to create receipt")
	}

	if err := u.curator.OnReceiptCreated(ctx, userID); err != nil {
		logging.From(ctx).Warn("batch trigger failed",
			"userID", userID, "receiptID", receipt.ID, "error", err)
	}

	return receipt, nil
}

// EditReceipt overwrites the message of one of the caller's receipts
func (u *UseCase) EditReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID, message string) error {
	if err := requireCaller(userID); err != nil {
		return err
	}
	if id == "" || message == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "receipt ID and message are required")
	}

	if err := u.repo.UpdateReceiptMessage(ctx, userID, id, message); err != nil {
		return wrapStoreErr(ctx, err, "failed to edit receipt")
	}
	return nil
}

// DeleteReceipt removes one of the caller's receipts. The creation counter
// is monotonic and is not decremented.
func (u *UseCase) DeleteReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) error {
	if err := requireCaller(userID); err != nil {
		return err
	}
	if id == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "receipt ID is required")
	}

	if err := u.repo.DeleteReceipt(ctx, userID, id); err != nil {
		return wrapStoreErr(ctx, err, "failed to delete receipt")
	}
	return nil
}

// ListReceipts returns up to limit of the caller's receipts, newest first
func (u *UseCase) ListReceipts(ctx context.Context, userID model.UserID, limit int) ([]*model.Receipt, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	receipts, err := u.repo.ListRecentReceipts(ctx, userID, limit)
	if err != nil {
		return nil, internal(ctx, err, "failed to list receipts")
	}
	return receipts, nil
}

// ShowMemory returns the caller's current long-term memory summary, or nil
// if no refresh has run yet
func (u *UseCase) ShowMemory(ctx context.Context, userID model.UserID) (*model.Memory, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	memory, err := u.repo.GetMemory(ctx, userID)
	if err != nil {
		return nil, internal(ctx, err, "failed to get memory")
	}
	return memory, nil
}
