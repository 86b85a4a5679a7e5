package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var cfg config

	flags := storageFlags(&cfg)
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export your journal to Cloud Storage as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			key, err := uc.Export(ctx, cfg.user)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Exported to gs://%s/%s\n", cfg.bucket, key)
			return nil
		},
	}
}
