package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "tsuzuri",
		Usage: "Journal with a curated long-term memory",
		Commands: []*cli.Command{
			writeCommand(),
			enhanceCommand(),
			editCommand(),
			deleteCommand(),
			listCommand(),
			memoryCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
