package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
)

// memoryRepo implements Repository in process memory. It mirrors the
// Firestore semantics the pipeline relies on: per-user serialization of
// transactions, buffered writes applied only on success, and server-side
// timestamps on memory commits. Used for tests and local runs.
type memoryRepo struct {
	mu    sync.Mutex
	users map[model.UserID]*userState
}

type userState struct {
	// mu serializes transactions for this user. Plain CRUD takes it too,
	// so a transaction never observes a half-applied write.
	mu       sync.Mutex
	count    int64
	receipts map[model.ReceiptID]*storedReceipt
	memory   *model.Memory
	seq      int64
}

type storedReceipt struct {
	receipt model.Receipt
	seq     int64
}

// NewMemory creates a new in-memory repository
func NewMemory() Repository {
	return &memoryRepo{users: map[model.UserID]*userState{}}
}

func (r *memoryRepo) user(userID model.UserID) *userState {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		u = &userState{receipts: map[model.ReceiptID]*storedReceipt{}}
		r.users[userID] = u
	}
	return u
}

func (r *memoryRepo) PutReceipt(ctx context.Context, userID model.UserID, receipt *model.Receipt) error {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	u.seq++
	u.receipts[receipt.ID] = &storedReceipt{receipt: *receipt, seq: u.seq}
	return nil
}

func (r *memoryRepo) GetReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) (*model.Receipt, error) {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	stored, ok := u.receipts[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "receipt not found", goerr.Value("receiptID", id))
	}

	receipt := stored.receipt
	return &receipt, nil
}

func (r *memoryRepo) UpdateReceiptMessage(ctx context.Context, userID model.UserID, id model.ReceiptID, message string) error {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	stored, ok := u.receipts[id]
	if !ok {
		return goerr.Wrap(model.ErrNotFound, "receipt not found", goerr.Value("receiptID", id))
	}

	stored.receipt.Message = message
	return nil
}

func (r *memoryRepo) DeleteReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) error {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	delete(u.receipts, id)
	return nil
}

func (r *memoryRepo) ListRecentReceipts(ctx context.Context, userID model.UserID, limit int) ([]*model.Receipt, error) {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.recentReceipts(limit), nil
}

func (r *memoryRepo) GetMemory(ctx context.Context, userID model.UserID) (*model.Memory, error) {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.memory == nil {
		return nil, nil
	}
	memory := *u.memory
	return &memory, nil
}

func (r *memoryRepo) PutMemory(ctx context.Context, userID model.UserID, summary string) error {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	u.setMemory(summary)
	return nil
}

func (r *memoryRepo) RunUserTransaction(ctx context.Context, userID model.UserID, fn func(ctx context.Context, tx UserTx) error) error {
	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	tx := &memoryTx{user: u}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.apply()
	return nil
}

func (u *userState) recentReceipts(limit int) []*model.Receipt {
	stored := make([]*storedReceipt, 0, len(u.receipts))
	for _, s := range u.receipts {
		stored = append(stored, s)
	}

	// Newest first; seq breaks ties for receipts created within the clock
	// resolution
	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].receipt.CreatedAt.Equal(stored[j].receipt.CreatedAt) {
			return stored[i].receipt.CreatedAt.After(stored[j].receipt.CreatedAt)
		}
		return stored[i].seq > stored[j].seq
	})

	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	receipts := make([]*model.Receipt, len(stored))
	for i, s := range stored {
		receipt := s.receipt
		receipts[i] = &receipt
	}
	return receipts
}

func (u *userState) setMemory(summary string) {
	u.memory = &model.Memory{
		Summary:     summary,
		LastUpdated: time.Now(),
	}
}

// memoryTx buffers writes until the transaction function succeeds
type memoryTx struct {
	user *userState

	setCount   bool
	count      int64
	setSummary bool
	summary    string
}

func (t *memoryTx) ReceiptCount() (int64, error) {
	return t.user.count, nil
}

func (t *memoryTx) SetReceiptCount(count int64) error {
	t.setCount = true
	t.count = count
	return nil
}

func (t *memoryTx) RecentReceipts(limit int) ([]*model.Receipt, error) {
	return t.user.recentReceipts(limit), nil
}

func (t *memoryTx) Memory() (*model.Memory, error) {
	if t.user.memory == nil {
		return nil, nil
	}
	memory := *t.user.memory
	return &memory, nil
}

func (t *memoryTx) SetMemory(summary string) error {
	t.setSummary = true
	t.summary = summary
	return nil
}

func (t *memoryTx) apply() {
	if t.setCount {
		t.user.count = t.count
	}
	if t.setSummary {
		t.user.setMemory(t.summary)
	}
}
