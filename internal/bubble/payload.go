package bubble

// Kind tags a payload variant.
type Kind string

const (
	KindPaste Kind = "paste"
	KindTool  Kind = "tool"
	KindPin   Kind = "pin"
	KindAlert Kind = "alert"
	KindQuick Kind = "quick"
)

// CaptureMode controls what happens to the newest paste bubble when new
// clipboard content is captured.
type CaptureMode string

const (
	// ModeExtend adds a new bubble for every capture.
	ModeExtend CaptureMode = "extend"
	// ModeReplace replaces the newest paste bubble instead of adding one.
	ModeReplace CaptureMode = "replace"
)

// Payload is the variant data a bubble carries. The set of implementations
// is closed; the engine's interaction router switches over Kind exhaustively.
type Payload interface {
	Kind() Kind
	payload() // marker; keeps the variant set closed to this package
}

// PasteContent is captured clipboard text waiting to be pasted.
type PasteContent struct {
	Text        string
	ContentType string // classifier tag, e.g. "text", "url", "email"
}

func (PasteContent) Kind() Kind { return KindPaste }
func (PasteContent) payload()   {}

// ToolPanel is the control bubble; its sub-state is the current capture mode.
type ToolPanel struct {
	Mode CaptureMode
}

func (ToolPanel) Kind() Kind { return KindTool }
func (ToolPanel) payload()   {}

// PinnedItem is text the user pinned to keep around indefinitely.
type PinnedItem struct {
	Text string
}

func (PinnedItem) Kind() Kind { return KindPin }
func (PinnedItem) payload()   {}

// SystemAlert is a transient system notification surfaced as a bubble.
type SystemAlert struct {
	Title   string
	Body    string
	AlertID string
}

func (SystemAlert) Kind() Kind { return KindAlert }
func (SystemAlert) payload()   {}

// QuickAction is a one-shot action carrying its argument text.
type QuickAction struct {
	Text string
}

func (QuickAction) Kind() Kind { return KindQuick }
func (QuickAction) payload()   {}

// ClassFor returns the class a payload variant must be created under.
func ClassFor(p Payload) ClassID {
	switch p.Kind() {
	case KindTool:
		return ClassTool
	case KindPin:
		return ClassPin
	case KindAlert:
		return ClassAlert
	case KindQuick:
		return ClassQuick
	default:
		return ClassPaste
	}
}
