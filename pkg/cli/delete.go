package cli

import (
	"context"
	"fmt"

	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var (
		cfg       config
		receiptID model.ReceiptID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Entry ID to delete",
			Required:    true,
			Destination: (*string)(&receiptID),
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "delete",
		Usage: "Delete one of your entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			if err := uc.DeleteReceipt(ctx, cfg.user, receiptID); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Entry deleted: %s\n", receiptID)
			return nil
		},
	}
}
