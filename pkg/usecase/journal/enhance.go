package journal

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
)

// Enhance rewrites a raw note into a polished journal entry using the
// caller's long-term memory and recent entries as context. It has no
// persisted side effects; the rewritten text is returned verbatim.
func (u *UseCase) Enhance(ctx context.Context, userID model.UserID, note string) (string, error) {
	if err := requireCaller(userID); err != nil {
		return "", err
	}
	if note == "" {
		return "", goerr.Wrap(model.ErrInvalidArgument, "note text is required")
	}

	prompt, err := u.curator.EnhancementPrompt(ctx, userID, note)
	if err != nil {
		return "", internal(ctx, err, "failed to assemble enhancement context")
	}

	text, err := u.curator.Generate(ctx, prompt)
	if err != nil {
		return "", internal(ctx, err, "failed to enhance note")
	}

	return text, nil
}
