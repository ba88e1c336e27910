// Package report holds the append-only, faction-attributed message stream produced by a game.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Entry is one line of the report.
type Entry struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Faction string `json:"faction,omitempty"`
	Text    string `json:"text"`
}

func (e Entry) String() string {
	header := fmt.Sprintf("%s turn, %s", humanize.Ordinal(e.Turn), e.Phase)
	if e.Faction == "" {
		return fmt.Sprintf("[%s] %s", header, e.Text)
	}
	return fmt.Sprintf("[%s] %s: %s", header, e.Faction, e.Text)
}

// Report is append-only: entries are never modified or removed once added.
type Report struct {
	entries []Entry
}

func New() *Report {
	return &Report{}
}

func (r *Report) Add(turn int, phase, faction, text string) Entry {
	e := Entry{Seq: len(r.entries) + 1, Turn: turn, Phase: phase, Faction: faction, Text: text}
	r.entries = append(r.entries, e)
	return e
}

func (r *Report) Len() int {
	return len(r.entries)
}

// Entries returns a copy of all entries.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Since returns the entries added after the first n.
func (r *Report) Since(n int) []Entry {
	if n >= len(r.entries) {
		return nil
	}
	out := make([]Entry, len(r.entries)-n)
	copy(out, r.entries[n:])
	return out
}

// Contains reports whether any entry text contains substr.
func (r *Report) Contains(substr string) bool {
	for _, e := range r.entries {
		if strings.Contains(e.Text, substr) {
			return true
		}
	}
	return false
}

func (r *Report) Copy() *Report {
	return &Report{entries: r.Entries()}
}

func (r *Report) String() string {
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
