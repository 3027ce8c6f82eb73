package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/notes"
)

// Backup is the JSON document written by Export.
type Backup struct {
	ExportedAt time.Time      `json:"exportedAt"`
	Mode       string         `json:"mode"`
	Settings   local.Settings `json:"settings"`
	Notes      []notes.Note   `json:"notes"`
}

// Export writes settings and every note, most recently modified first.
func (c *Coordinator) Export(w io.Writer) error {
	b := Backup{
		ExportedAt: time.Now().UTC(),
		Mode:       c.Mode().String(),
		Settings:   c.Settings(),
		Notes:      notes.SortByRecency(c.notebook.All()),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to export notes: %w", err)
	}
	return nil
}

var sampleWords = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing
elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad
minim veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea
commodo consequat duis aute irure in reprehenderit voluptate velit esse cillum
fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa
qui officia deserunt mollit anim id est laborum`)

func sampleText(r *rand.Rand, minWords, maxWords int) string {
	n := minWords + r.IntN(maxWords-minWords+1)
	words := make([]string, n)
	for i := range words {
		words[i] = sampleWords[r.IntN(len(sampleWords))]
	}
	return strings.Join(words, " ")
}

// SampleContent builds a placeholder note: a capitalized heading followed by
// a few paragraphs.
func SampleContent(r *rand.Rand) string {
	title := sampleText(r, 2, 6)
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.ToUpper(title[:1]) + title[1:])
	b.WriteString("\n")

	for p := 1 + r.IntN(5); p > 0; p-- {
		sentences := make([]string, 4+r.IntN(5))
		for i := range sentences {
			s := sampleText(r, 4, 16)
			sentences[i] = strings.ToUpper(s[:1]) + s[1:] + "."
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(sentences, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// AddSampleNotes creates count placeholder notes. In local mode the snapshot
// is written once at the end.
func (c *Coordinator) AddSampleNotes(ctx context.Context, count int, r *rand.Rand) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("sample notes: count must be positive: %w", notes.ErrInvalidArgument)
	}
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	remote := c.Mode() == ModeRemote
	created := 0
	for range count {
		n := notes.New(SampleContent(r))
		if err := c.notebook.Add(n); err != nil {
			return created, err
		}
		if remote {
			if err := c.remote.Create(ctx, n); err != nil {
				return created + 1, err
			}
		}
		created++
	}

	if !remote {
		if err := c.saveLocal(); err != nil {
			return created, err
		}
	}
	return created, nil
}
