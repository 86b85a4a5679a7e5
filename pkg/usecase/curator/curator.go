package curator

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/adapter"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/tsuzuri-app/tsuzuri/pkg/repository"
	"github.com/tsuzuri-app/tsuzuri/pkg/utils/logging"
)

// Curator runs the memory curation pipeline: it advances the per-user
// creation counter on every receipt and refreshes the long-term memory
// summary once per BatchSize creations, atomically against concurrent
// creations for the same user.
type Curator struct {
	repo   repository.Repository
	gemini adapter.Gemini
	cfg    *Config
}

// Option is a functional option for Curator
type Option func(*Curator)

// WithConfig overrides the default curation parameters
func WithConfig(cfg *Config) Option {
	return func(c *Curator) {
		c.cfg = cfg
	}
}

// New creates a new Curator instance
func New(repo repository.Repository, gemini adapter.Gemini, opts ...Option) *Curator {
	c := &Curator{
		repo:   repo,
		gemini: gemini,
		cfg:    DefaultConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns the active curation parameters
func (c *Curator) Config() *Config {
	return c.cfg
}

// OnReceiptCreated handles one receipt-creation event. Within a single
// transaction it advances the creation counter and, when the new count is
// a multiple of BatchSize, refreshes the memory summary. The transaction
// body may be re-executed on optimistic conflict; every read is re-issued
// and no write lands until commit, so re-execution is safe. A generative
// failure aborts the whole transaction: the counter rolls back together
// with the summary, and the next creation triggers the refresh again.
func (c *Curator) OnReceiptCreated(ctx context.Context, userID model.UserID) error {
	var refreshedAt int64

	err := c.repo.RunUserTransaction(ctx, userID, func(ctx context.Context, tx repository.UserTx) error {
		refreshedAt = 0

		count, err := tx.ReceiptCount()
		if err != nil {
			return goerr.Wrap(err, "failed to read receipt count")
		}

		newCount := count + 1

		if newCount%c.cfg.BatchSize == 0 {
			// All transactional reads and the generative call happen here,
			// before the first buffered write; the store rejects reads
			// issued after a write.
			if err := c.refresh(ctx, tx, userID); err != nil {
				return err
			}
			refreshedAt = newCount
		}

		return tx.SetReceiptCount(newCount)
	})
	if err != nil {
		return err
	}

	if refreshedAt > 0 {
		logging.From(ctx).Info("memory summary refreshed",
			"userID", userID, "receiptCount", refreshedAt)
	}

	return nil
}

// refresh reads the curation context through the transaction, generates a
// new summary and stages the overwrite. The staged write commits together
// with the counter advance.
func (c *Curator) refresh(ctx context.Context, tx repository.UserTx, userID model.UserID) error {
	receipts, err := tx.RecentReceipts(c.cfg.CurationWindow)
	if err != nil {
		return goerr.Wrap(err, "failed to read recent receipts for curation")
	}

	memory, err := tx.Memory()
	if err != nil {
		return goerr.Wrap(err, "failed to read memory for curation")
	}

	prompt, err := c.curationPrompt(memory, receipts)
	if err != nil {
		return err
	}

	summary, err := c.Generate(ctx, prompt)
	if err != nil {
		return goerr.Wrap(err, "failed to generate memory summary", goerr.Value("userID", userID))
	}

	return tx.SetMemory(summary)
}

// Generate invokes the generative backend with the deployment's timeout.
// Expiry fails the call rather than letting it hang an enclosing
// transaction.
func (c *Curator) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.GenerateTimeout))
		defer cancel()
	}

	return adapter.GenerateText(ctx, c.gemini, prompt)
}

// CommitSummary overwrites the memory summary outside any transaction.
// Field-level merge-upsert: it succeeds whether or not a summary exists
// and needs no prior read.
func (c *Curator) CommitSummary(ctx context.Context, userID model.UserID, summary string) error {
	if err := c.repo.PutMemory(ctx, userID, summary); err != nil {
		return goerr.Wrap(err, "failed to commit memory summary", goerr.Value("userID", userID))
	}
	return nil
}
