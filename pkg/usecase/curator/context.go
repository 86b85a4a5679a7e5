package curator

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
)

//go:embed prompt/enhance.md
var enhancePromptRaw string

//go:embed prompt/curate.md
var curatePromptRaw string

var (
	enhancePromptTmpl = template.Must(template.New("enhance").Parse(enhancePromptRaw))
	curatePromptTmpl  = template.Must(template.New("curate").Parse(curatePromptRaw))
)

const (
	// Placeholders shown to the generative backend when nothing is stored
	// yet
	noMemoryPlaceholder  = "No long-term memory yet."
	noEntriesPlaceholder = "(no entries yet)"
)

// promptContext carries the assembled context window into a prompt template
type promptContext struct {
	Memory   string
	Entries  string
	Note     string
	MaxChars int
}

// EnhancementPrompt assembles the context window for rewriting a raw note:
// the long-term summary plus the most recent receipts, in chronological
// order. Read-only; it never mutates the store.
func (c *Curator) EnhancementPrompt(ctx context.Context, userID model.UserID, note string) (string, error) {
	memory, err := c.repo.GetMemory(ctx, userID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get memory for enhancement")
	}

	receipts, err := c.repo.ListRecentReceipts(ctx, userID, c.cfg.EnhanceWindow)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list recent receipts for enhancement")
	}

	return renderPrompt(enhancePromptTmpl, &promptContext{
		Memory:   memoryText(memory, noMemoryPlaceholder),
		Entries:  entryLines(chronological(receipts)),
		Note:     note,
		MaxChars: c.cfg.EnhanceMaxChars,
	})
}

// curationPrompt assembles the context window for a summary refresh from
// data already read inside the enclosing transaction.
func (c *Curator) curationPrompt(memory *model.Memory, receipts []*model.Receipt) (string, error) {
	return renderPrompt(curatePromptTmpl, &promptContext{
		Memory:  memoryText(memory, noEntriesPlaceholder),
		Entries: entryLines(chronological(receipts)),
		// Curation has no raw note
		MaxChars: c.cfg.SummaryMaxChars,
	})
}

func renderPrompt(tmpl *template.Template, pc *promptContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pc); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt")
	}
	return buf.String(), nil
}

func memoryText(memory *model.Memory, placeholder string) string {
	if memory == nil || memory.Summary == "" {
		return placeholder
	}
	return memory.Summary
}

// chronological reverses a newest-first receipt list into creation order.
// The store retrieves recent receipts by timestamp descending; the
// generative backend must always see them oldest first.
func chronological(receipts []*model.Receipt) []*model.Receipt {
	ordered := make([]*model.Receipt, len(receipts))
	for i, r := range receipts {
		ordered[len(receipts)-1-i] = r
	}
	return ordered
}

func entryLines(receipts []*model.Receipt) string {
	if len(receipts) == 0 {
		return noEntriesPlaceholder
	}

	var sb strings.Builder
	for _, r := range receipts {
		sb.WriteString("- ")
		sb.WriteString(r.Message)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
