package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func memoryCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "memory",
		Usage: "Show your current long-term memory summary",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			memory, err := uc.ShowMemory(ctx, cfg.user)
			if err != nil {
				return err
			}

			if memory == nil {
				fmt.Fprintln(c.Root().Writer, "No long-term memory yet.")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "%s\n\n(last updated: %s)\n",
				memory.Summary, memory.LastUpdated.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
