package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func writeCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "write",
		Usage: "Jot a raw note, polish it, and save it as a journal entry",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			uc, err := cfg.newJournal(ctx)
			if err != nil {
				return err
			}

			rl, err := readline.New("note> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open prompt")
			}
			defer rl.Close()

			line, err := rl.Readline()
			if err != nil {
				return goerr.Wrap(err, "failed to read note")
			}
			note := strings.TrimSpace(line)

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " polishing your note..."
			sp.Start()
			text, err := uc.Enhance(ctx, cfg.user, note)
			sp.Stop()
			if err != nil {
				return err
			}

			receipt, err := uc.CreateReceipt(ctx, cfg.user, text)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n\nSaved as entry %s\n", text, receipt.ID)
			return nil
		},
	}
}
