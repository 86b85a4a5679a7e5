package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/tsuzuri-app/tsuzuri/pkg/repository"
)

func TestMemoryReceiptCRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-1")

	receipt := &model.Receipt{
		ID:        model.NewReceiptID(),
		Message:   "first note",
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutReceipt(ctx, userID, receipt))

	got, err := repo.GetReceipt(ctx, userID, receipt.ID)
	gt.NoError(t, err)
	gt.V(t, got.Message).Equal("first note")

	gt.NoError(t, repo.UpdateReceiptMessage(ctx, userID, receipt.ID, "edited note"))
	got, err = repo.GetReceipt(ctx, userID, receipt.ID)
	gt.NoError(t, err)
	gt.V(t, got.Message).Equal("edited note")

	gt.NoError(t, repo.DeleteReceipt(ctx, userID, receipt.ID))
	_, err = repo.GetReceipt(ctx, userID, receipt.ID)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestMemoryReceiptIsolation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	receipt := &model.Receipt{
		ID:        model.NewReceiptID(),
		Message:   "mine",
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutReceipt(ctx, "owner", receipt))

	// Another user's view does not contain it
	_, err := repo.GetReceipt(ctx, "other", receipt.ID)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestMemoryListRecentReceipts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-order")

	base := time.Now()
	for i := 0; i < 6; i++ {
		gt.NoError(t, repo.PutReceipt(ctx, userID, &model.Receipt{
			ID:        model.NewReceiptID(),
			Message:   fmt.Sprintf("note %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	receipts, err := repo.ListRecentReceipts(ctx, userID, 4)
	gt.NoError(t, err)
	gt.A(t, receipts).Length(4)

	// Newest first
	gt.V(t, receipts[0].Message).Equal("note 5")
	gt.V(t, receipts[3].Message).Equal("note 2")
}

func TestMemoryMemoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-memory")

	memory, err := repo.GetMemory(ctx, userID)
	gt.NoError(t, err)
	gt.V(t, memory).Nil()

	// Upsert works without any prior document or read
	gt.NoError(t, repo.PutMemory(ctx, userID, "a summary"))

	memory, err = repo.GetMemory(ctx, userID)
	gt.NoError(t, err)
	gt.V(t, memory).NotNil()
	gt.V(t, memory.Summary).Equal("a summary")
	first := memory.LastUpdated

	gt.NoError(t, repo.PutMemory(ctx, userID, "a summary"))
	memory, err = repo.GetMemory(ctx, userID)
	gt.NoError(t, err)
	gt.V(t, memory.Summary).Equal("a summary")
	if memory.LastUpdated.Before(first) {
		t.Errorf("lastUpdated went backwards: %v -> %v", first, memory.LastUpdated)
	}
}

func TestMemoryTransactionCommit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-tx")

	err := repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		count, err := tx.ReceiptCount()
		gt.NoError(t, err)
		gt.V(t, count).Equal(int64(0))

		if err := tx.SetReceiptCount(count + 1); err != nil {
			return err
		}
		return tx.SetMemory("from tx")
	})
	gt.NoError(t, err)

	memory, err := repo.GetMemory(ctx, userID)
	gt.NoError(t, err)
	gt.V(t, memory).NotNil()
	gt.V(t, memory.Summary).Equal("from tx")

	err = repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		count, err := tx.ReceiptCount()
		gt.NoError(t, err)
		gt.V(t, count).Equal(int64(1))
		return nil
	})
	gt.NoError(t, err)
}

func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-rollback")

	boom := errors.New("boom")
	err := repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		if err := tx.SetReceiptCount(42); err != nil {
			return err
		}
		if err := tx.SetMemory("must not land"); err != nil {
			return err
		}
		return boom
	})
	gt.True(t, errors.Is(err, boom))

	// Nothing staged was applied
	memory, err := repo.GetMemory(ctx, userID)
	gt.NoError(t, err)
	gt.V(t, memory).Nil()

	err = repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		count, err := tx.ReceiptCount()
		gt.NoError(t, err)
		gt.V(t, count).Equal(int64(0))
		return nil
	})
	gt.NoError(t, err)
}

func TestMemoryTransactionReceiptView(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	userID := model.UserID("user-view")

	base := time.Now()
	for i := 0; i < 3; i++ {
		gt.NoError(t, repo.PutReceipt(ctx, userID, &model.Receipt{
			ID:        model.NewReceiptID(),
			Message:   fmt.Sprintf("note %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	err := repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		receipts, err := tx.RecentReceipts(2)
		gt.NoError(t, err)
		gt.A(t, receipts).Length(2)
		gt.V(t, receipts[0].Message).Equal("note 2")
		return nil
	})
	gt.NoError(t, err)
}
