package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"
)

func enhanceCommand() *cli.Command {
	var (
		cfg  config
		text string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Raw note text to enhance",
			Destination: &text,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "enhance",
		Usage: "Preview a raw note rewritten as a journal entry (nothing is saved)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " polishing your note..."
			sp.Start()
			enhanced, err := uc.Enhance(ctx, cfg.user, text)
			sp.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", enhanced)
			return nil
		},
	}
}
