package bubble

import (
	"time"

	"github.com/google/uuid"
)

// PreviewLength caps the text preview used in listings and debug logs.
const PreviewLength = 100

// Bubble is one live overlay instance. Position and size are in container
// coordinates; the engine owns all mutation after creation.
type Bubble struct {
	ID              string
	Class           ClassID
	X, Y            float64
	Size            float64
	Visible         bool
	Minimized       bool
	LastInteraction time.Time
	Payload         Payload
}

// New creates a bubble of the given class at its default footprint. Visible,
// minimized and size are provisional until the engine resolves them against
// the current keyboard state.
func New(c Class, p Payload, now time.Time) *Bubble {
	return &Bubble{
		ID:              uuid.New().String(),
		Class:           c.ID,
		Size:            c.DefaultSize,
		Visible:         true,
		LastInteraction: now,
		Payload:         p,
	}
}

// Radius is half the rendered footprint; the layout solver models bubbles
// as disks of this radius.
func (b *Bubble) Radius() float64 { return b.Size / 2 }

// Text returns the payload text for variants that carry any.
func (b *Bubble) Text() string {
	switch p := b.Payload.(type) {
	case PasteContent:
		return p.Text
	case PinnedItem:
		return p.Text
	case QuickAction:
		return p.Text
	case SystemAlert:
		return p.Title
	default:
		return ""
	}
}

// Preview returns the payload text truncated for display.
func (b *Bubble) Preview() string {
	return Truncate(b.Text(), PreviewLength)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
