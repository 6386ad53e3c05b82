// Package clip wraps the system clipboard for bobble: it is both the
// capture source (watching for new text to cut into bubbles) and the
// effect executor's write-back target for consumed paste bubbles.
//
// golang.design/x/clipboard backs the real implementation; when no display
// environment is available (headless server, container) a no-op backend is
// substituted so the daemon still runs for IPC-driven use.
package clip

import (
	"context"
	"log/slog"

	"golang.design/x/clipboard"
)

// Backend is the system clipboard as the daemon sees it. Bubbles carry text
// only, so the backend deals in strings.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text, or "" when the
	// clipboard is empty or holds no text representation.
	ReadText() string

	// WriteText sets the clipboard to the given text.
	WriteText(text string)

	// Watch returns a channel delivering the clipboard text each time it
	// changes, until ctx is cancelled.
	Watch(ctx context.Context) <-chan string
}

// New returns the system clipboard backend, or a headless no-op backend if
// the display environment is unavailable.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return systemBackend{}
}

type systemBackend struct{}

func (systemBackend) Name() string { return "system clipboard" }

func (systemBackend) ReadText() string {
	return string(clipboard.Read(clipboard.FmtText))
}

func (systemBackend) WriteText(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
}

func (systemBackend) Watch(ctx context.Context) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		for data := range clipboard.Watch(ctx, clipboard.FmtText) {
			if len(data) == 0 {
				continue
			}
			select {
			case out <- string(data):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// headlessBackend satisfies Backend where no clipboard exists. Reads are
// empty, writes vanish, and the watch channel stays silent until cancelled.
type headlessBackend struct{}

func (headlessBackend) Name() string     { return "headless (no clipboard)" }
func (headlessBackend) ReadText() string { return "" }
func (headlessBackend) WriteText(string) {}
func (headlessBackend) Watch(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}
