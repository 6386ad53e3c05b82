package engine

import "github.com/kexlie/bobble/internal/bubble"

// EffectKind names what a tap on a bubble should do.
type EffectKind int

const (
	// EffectNone leaves the bubble alone; its activation is handled by the
	// platform's own affordances.
	EffectNone EffectKind = iota
	// EffectConsume delivers the payload text and destroys the bubble.
	EffectConsume
	// EffectToggleMinimized flips the bubble between full and minimized size.
	EffectToggleMinimized
)

func (k EffectKind) String() string {
	switch k {
	case EffectConsume:
		return "consume"
	case EffectToggleMinimized:
		return "toggle-minimized"
	default:
		return "none"
	}
}

// Effect describes the outcome of an interaction. The engine performs no
// I/O itself; the caller executes consume effects (deliver to the focused
// input, write back to the system clipboard).
type Effect struct {
	Kind        EffectKind
	Text        string
	ContentType string
}

// route maps a payload variant to its interaction effect. Pure; the switch
// is exhaustive over the closed variant set.
func route(p bubble.Payload) Effect {
	switch p := p.(type) {
	case bubble.PasteContent:
		return Effect{Kind: EffectConsume, Text: p.Text, ContentType: p.ContentType}
	case bubble.QuickAction:
		return Effect{Kind: EffectConsume, Text: p.Text}
	case bubble.ToolPanel:
		return Effect{Kind: EffectToggleMinimized}
	case bubble.PinnedItem, bubble.SystemAlert:
		return Effect{Kind: EffectNone}
	default:
		return Effect{Kind: EffectNone}
	}
}
