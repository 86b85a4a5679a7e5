package journal

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/adapter"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/tsuzuri-app/tsuzuri/pkg/repository"
	"github.com/tsuzuri-app/tsuzuri/pkg/usecase/curator"
	"github.com/tsuzuri-app/tsuzuri/pkg/utils/logging"
)

// UseCase provides the user-facing journal operations: note enhancement,
// receipt CRUD and export. Every operation requires a caller identity.
type UseCase struct {
	repo    repository.Repository
	curator *curator.Curator
	storage adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage enables journal export to object storage
func WithStorage(storage adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = storage
	}
}

// New creates a new journal UseCase instance
func New(repo repository.Repository, cur *curator.Curator, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:    repo,
		curator: cur,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func requireCaller(userID model.UserID) error {
	if userID == "" {
		return goerr.Wrap(model.ErrUnauthenticated, "caller identity is required")
	}
	return nil
}

// internal logs the full downstream error server-side and returns only the
// opaque Internal class. Provider diagnostics never cross the boundary.
func internal(ctx context.Context, err error, msg string) error {
	logging.From(ctx).Error(msg, "error", err)
	return goerr.Wrap(model.ErrInternal, msg)
}

// wrapStoreErr keeps NotFound visible to the caller and collapses every
// other store fault into Internal
func wrapStoreErr(ctx context.Context, err error, msg string) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	return internal(ctx, err, msg)
}
