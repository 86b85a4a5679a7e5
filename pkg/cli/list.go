package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of entries to show",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List your most recent entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			receipts, err := uc.ListReceipts(ctx, cfg.user, int(limit))
			if err != nil {
				return err
			}

			for _, r := range receipts {
				fmt.Fprintf(c.Root().Writer, "%s  %s  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04"), r.ID, r.Message)
			}
			return nil
		},
	}
}
