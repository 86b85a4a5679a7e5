package cli

import (
	"context"
	"fmt"

	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func editCommand() *cli.Command {
	var (
		cfg       config
		receiptID model.ReceiptID
		message   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Entry ID to edit",
			Required:    true,
			Destination: (*string)(&receiptID),
		},
		&cli.StringFlag{
			Name:        "message",
			Aliases:     []string{"m"},
			Usage:       "New entry text",
			Required:    true,
			Destination: &message,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "edit",
		Usage: "Overwrite the text of one of your entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			if err := uc.EditReceipt(ctx, cfg.user, receiptID, message); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Entry updated: %s\n", receiptID)
			return nil
		},
	}
}
