package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionUsers    = "users"
	collectionReceipts = "receipts"
	collectionMemory   = "memory"

	// Singleton document ID for the per-user memory summary
	memoryDocID = "current"
)

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.Value("project", projectID), goerr.Value("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) userDoc(userID model.UserID) *firestore.DocumentRef {
	return r.client.Collection(collectionUsers).Doc(string(userID))
}

func (r *Firestore) receiptDoc(userID model.UserID, id model.ReceiptID) *firestore.DocumentRef {
	return r.userDoc(userID).Collection(collectionReceipts).Doc(string(id))
}

func (r *Firestore) memoryDoc(userID model.UserID) *firestore.DocumentRef {
	return r.userDoc(userID).Collection(collectionMemory).Doc(memoryDocID)
}

func (r *Firestore) recentQuery(userID model.UserID, limit int) firestore.Query {
	return r.userDoc(userID).Collection(collectionReceipts).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
}

func (r *Firestore) PutReceipt(ctx context.Context, userID model.UserID, receipt *model.Receipt) error {
	if _, err := r.receiptDoc(userID, receipt.ID).Set(ctx, receipt); err != nil {
		return goerr.Wrap(err, "failed to put receipt", goerr.Value("receiptID", receipt.ID))
	}
	return nil
}

func (r *Firestore) GetReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) (*model.Receipt, error) {
	doc, err := r.receiptDoc(userID, id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "receipt not found", goerr.Value("receiptID", id))
		}
		return nil, goerr.Wrap(err, "failed to get receipt", goerr.Value("receiptID", id))
	}

	var receipt model.Receipt
	if err := doc.DataTo(&receipt); err != nil {
		return nil, goerr.Wrap(err, "failed to decode receipt")
	}
	receipt.ID = id

	return &receipt, nil
}

func (r *Firestore) UpdateReceiptMessage(ctx context.Context, userID model.UserID, id model.ReceiptID, message string) error {
	_, err := r.receiptDoc(userID, id).Update(ctx, []firestore.Update{
		{Path: "message", Value: message},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "receipt not found", goerr.Value("receiptID", id))
		}
		return goerr.Wrap(err, "failed to update receipt", goerr.Value("receiptID", id))
	}
	return nil
}

func (r *Firestore) DeleteReceipt(ctx context.Context, userID model.UserID, id model.ReceiptID) error {
	if _, err := r.receiptDoc(userID, id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete receipt", goerr.Value("receiptID", id))
	}
	return nil
}

func (r *Firestore) ListRecentReceipts(ctx context.Context, userID model.UserID, limit int) ([]*model.Receipt, error) {
	iter := r.recentQuery(userID, limit).Documents(ctx)
	defer iter.Stop()

	return collectReceipts(iter)
}

func (r *Firestore) GetMemory(ctx context.Context, userID model.UserID) (*model.Memory, error) {
	doc, err := r.memoryDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get memory")
	}

	var memory model.Memory
	if err := doc.DataTo(&memory); err != nil {
		return nil, goerr.Wrap(err, "failed to decode memory")
	}

	return &memory, nil
}

func (r *Firestore) PutMemory(ctx context.Context, userID model.UserID, summary string) error {
	_, err := r.memoryDoc(userID).Set(ctx, map[string]any{
		"summary":     summary,
		"lastUpdated": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return goerr.Wrap(err, "failed to put memory")
	}
	return nil
}

func (r *Firestore) RunUserTransaction(ctx context.Context, userID model.UserID, fn func(ctx context.Context, tx UserTx) error) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{repo: r, tx: tx, userID: userID})
	})
	if err != nil {
		return goerr.Wrap(err, "user transaction failed", goerr.Value("userID", userID))
	}
	return nil
}

// firestoreTx adapts a Firestore transaction to UserTx. Firestore rejects
// reads issued after the first buffered write, which matches the UserTx
// reads-before-writes contract.
type firestoreTx struct {
	repo   *Firestore
	tx     *firestore.Transaction
	userID model.UserID
}

func (t *firestoreTx) ReceiptCount() (int64, error) {
	doc, err := t.tx.Get(t.repo.userDoc(t.userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, goerr.Wrap(err, "failed to get user record")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return 0, goerr.Wrap(err, "failed to decode user record")
	}

	return user.ReceiptCount, nil
}

func (t *firestoreTx) SetReceiptCount(count int64) error {
	err := t.tx.Set(t.repo.userDoc(t.userID), map[string]any{
		"receiptCount": count,
	}, firestore.MergeAll)
	if err != nil {
		return goerr.Wrap(err, "failed to set receipt count")
	}
	return nil
}

func (t *firestoreTx) RecentReceipts(limit int) ([]*model.Receipt, error) {
	iter := t.tx.Documents(t.repo.recentQuery(t.userID, limit))
	defer iter.Stop()

	return collectReceipts(iter)
}

func (t *firestoreTx) Memory() (*model.Memory, error) {
	doc, err := t.tx.Get(t.repo.memoryDoc(t.userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get memory")
	}

	var memory model.Memory
	if err := doc.DataTo(&memory); err != nil {
		return nil, goerr.Wrap(err, "failed to decode memory")
	}

	return &memory, nil
}

func (t *firestoreTx) SetMemory(summary string) error {
	err := t.tx.Set(t.repo.memoryDoc(t.userID), map[string]any{
		"summary":     summary,
		"lastUpdated": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return goerr.Wrap(err, "failed to set memory")
	}
	return nil
}

func collectReceipts(iter *firestore.DocumentIterator) ([]*model.Receipt, error) {
	var receipts []*model.Receipt
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate receipts")
		}

		var receipt model.Receipt
		if err := doc.DataTo(&receipt); err != nil {
			return nil, goerr.Wrap(err, "failed to decode receipt")
		}
		receipt.ID = model.ReceiptID(doc.Ref.ID)
		receipts = append(receipts, &receipt)
	}

	return receipts, nil
}
