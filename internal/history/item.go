package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/suykerbuyk/reflow/internal/engine"
	"github.com/suykerbuyk/reflow/internal/registry"
)

const (
	previewLimit = 60
	previewKeep  = 57
)

// Item is one remembered copy. Identical content copied again updates the
// existing item instead of adding a new one.
type Item struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	SourceID     string    `json:"source_id,omitempty"`
	SourceName   string    `json:"source_name,omitempty"`
	FirstCopy    time.Time `json:"first_copy"`
	LastCopy     time.Time `json:"last_copy"`
	CopyCount    int       `json:"copy_count"`
	FromTerminal bool      `json:"from_terminal"`
	MixedSource  bool      `json:"mixed_source"`
	Pinned       bool      `json:"pinned"`
}

// NewItem returns a fresh item for content copied from src at t.
func NewItem(content string, src registry.Source, t time.Time) Item {
	return Item{
		ID:           uuid.NewString(),
		Content:      content,
		SourceID:     src.ID,
		SourceName:   src.Name,
		FirstCopy:    t,
		LastCopy:     t,
		CopyCount:    1,
		FromTerminal: src.Terminal,
		MixedSource:  src.MixedSource,
	}
}

// Source returns the application the item was copied from.
func (it Item) Source() registry.Source {
	return registry.Source{
		ID:          it.SourceID,
		Name:        it.SourceName,
		Terminal:    it.FromTerminal,
		MixedSource: it.MixedSource,
	}
}

// Preview returns the content on one line, cut to 60 characters.
func (it Item) Preview() string {
	line := strings.TrimSpace(strings.ReplaceAll(it.Content, "\n", " "))
	if uniseg.GraphemeClusterCount(line) <= previewLimit {
		return line
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(line)
	for n := 0; n < previewKeep && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString("...")
	return b.String()
}

// RelativeTimestamp describes how long before now the item was last copied.
func (it Item) RelativeTimestamp(now time.Time) string {
	d := now.Sub(it.LastCopy)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}

	days := int(d / (24 * time.Hour))
	if days == 1 {
		return "yesterday"
	}
	return fmt.Sprintf("%dd ago", days)
}

// SourceDisplayName returns the source application's name, or "Unknown".
func (it Item) SourceDisplayName() string {
	if it.SourceName == "" {
		return "Unknown"
	}
	return it.SourceName
}

// IsReflowCandidate reports whether the item came from a terminal, or from a
// mixed-source app and looks like terminal output.
func (it Item) IsReflowCandidate() bool {
	return it.FromTerminal || (it.MixedSource && engine.LooksLikeTerminalOutput(it.Content))
}
