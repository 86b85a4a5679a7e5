package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
)

// exportMaxReceipts bounds one export object. Journals this service
// targets stay well under it.
const exportMaxReceipts = 1000

type exportDocument struct {
	UserID     model.UserID     `json:"userId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Memory     *model.Memory    `json:"memory,omitempty"`
	Receipts   []*model.Receipt `json:"receipts"`
}

// Export writes the caller's journal (receipts plus memory summary) as a
// JSON object to storage and returns the object key.
func (u *UseCase) Export(ctx context.Context, userID model.UserID) (string, error) {
	if err := requireCaller(userID); err != nil {
		return "", err
	}
	if u.storage == nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "export storage is not configured")
	}

	receipts, err := u.repo.ListRecentReceipts(ctx, userID, exportMaxReceipts)
	if err != nil {
		return "", internal(ctx, err, "failed to collect receipts for export")
	}

	memory, err := u.repo.GetMemory(ctx, userID)
	if err != nil {
		return "", internal(ctx, err, "failed to collect memory for export")
	}

	doc := &exportDocument{
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		Memory:     memory,
		Receipts:   receipts,
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, doc.ExportedAt.Format("20060102-150405"))

	w, err := u.storage.Put(ctx, key)
	if err != nil {
		return "", internal(ctx, err, "failed to open export object")
	}

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		_ = w.Close()
		return "", internal(ctx, err, "failed to write export object")
	}
	if err := w.Close(); err != nil {
		return "", internal(ctx, err, "failed to finalize export object")
	}

	return key, nil
}
