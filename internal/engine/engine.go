// Package engine implements the bubble orchestrator: the single owner of
// the live bubble collection. It applies class policy on add (evicting the
// oldest same-class bubble over the instance cap), reacts to keyboard and
// container geometry changes, expires idle bubbles on a periodic sweep, and
// routes interactions to payload-specific effects.
//
// All mutation is serialized through the engine's mutex; external signal
// sources (IPC handlers, the clipboard watcher, the sweep ticker) call the
// exported methods and never touch bubble state directly. A registered
// Listener receives a snapshot after every mutation.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kexlie/bobble/internal/bubble"
	"github.com/kexlie/bobble/internal/layout"
)

var (
	// ErrNotFound reports an operation on an id that is not in the
	// collection. Callers treat it as a no-op condition, not a failure.
	ErrNotFound = errors.New("bubble not found")
	// ErrUnknownClass reports an add with an unregistered class id.
	ErrUnknownClass = errors.New("unknown bubble class")
	// ErrPayloadMismatch reports a payload variant added under the wrong class.
	ErrPayloadMismatch = errors.New("payload incompatible with class")
	// ErrNotDraggable reports a position update for a class without drag support.
	ErrNotDraggable = errors.New("bubble class does not support dragging")
)

// spawnMargin is the inset from the container edge for newly added bubbles.
const spawnMargin = 16.0

// Listener is the rendering consumer. BubblesChanged is called outside the
// engine lock with a snapshot in draw order; the listener must not call back
// into the engine from it.
type Listener interface {
	BubblesChanged(snapshot []bubble.Bubble)
}

// Engine owns the authoritative bubble collection.
type Engine struct {
	reg    *bubble.Registry
	solver layout.Solver
	now    func() time.Time // injectable for tests

	mu            sync.RWMutex
	bubbles       map[string]*bubble.Bubble
	width, height float64
	keyboard      bool
	mode          bubble.CaptureMode

	listenerMu sync.RWMutex
	listener   Listener
}

// New returns an engine with an empty collection. The container is unmeasured
// until the first ContainerResized call.
func New(reg *bubble.Registry) *Engine {
	return &Engine{
		reg:     reg,
		solver:  layout.NewSolver(),
		now:     time.Now,
		bubbles: make(map[string]*bubble.Bubble),
		mode:    bubble.ModeExtend,
	}
}

// SetListener registers the rendering consumer. Only one listener is
// supported; calling again replaces it.
func (e *Engine) SetListener(l Listener) {
	e.listenerMu.Lock()
	e.listener = l
	e.listenerMu.Unlock()
}

// Add creates a bubble of the given class. If the class is at its instance
// cap, the oldest same-class bubble (by last interaction) is destroyed
// first. Exactly one bubble is ever evicted per add.
func (e *Engine) Add(classID bubble.ClassID, p bubble.Payload) (bubble.Bubble, error) {
	e.mu.Lock()
	class, ok := e.reg.Lookup(classID)
	if !ok {
		e.mu.Unlock()
		return bubble.Bubble{}, fmt.Errorf("%w: %s", ErrUnknownClass, classID)
	}
	if bubble.ClassFor(p) != classID {
		e.mu.Unlock()
		return bubble.Bubble{}, fmt.Errorf("%w: %s payload under class %s", ErrPayloadMismatch, p.Kind(), classID)
	}

	if evicted := e.evictLocked(class); evicted != nil {
		slog.Info("bubble evicted",
			"id", evicted.ID,
			"class", evicted.Class,
			"idle", e.now().Sub(evicted.LastInteraction).Round(time.Millisecond),
		)
	}

	b := bubble.New(class, p, e.now())
	b.Visible = class.ShouldBeVisible(e.keyboard)
	b.Minimized = class.ShouldBeMinimized(e.keyboard)
	b.Size = class.ResolvedSize(e.keyboard, b.Minimized)
	b.X, b.Y = e.spawnLocked(b)
	if b.Visible {
		b.X, b.Y = e.placeLocked(b)
	}
	e.bubbles[b.ID] = b

	out := *b
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("bubble added",
		"id", out.ID,
		"class", out.Class,
		"kind", out.Payload.Kind(),
		"visible", out.Visible,
	)
	slog.Debug("bubble content", "id", out.ID, "preview", out.Preview())
	e.notify(snap)
	return out, nil
}

// Capture submits clipboard text as a paste bubble, honouring the capture
// mode: in replace mode the newest paste bubble is destroyed first so the
// capture takes its slot.
func (e *Engine) Capture(text, contentType string) (bubble.Bubble, error) {
	e.mu.Lock()
	if e.mode == bubble.ModeReplace {
		if newest := e.newestLocked(bubble.ClassPaste); newest != nil {
			delete(e.bubbles, newest.ID)
			slog.Debug("bubble replaced", "id", newest.ID)
		}
	}
	e.mu.Unlock()
	return e.Add(bubble.ClassPaste, bubble.PasteContent{Text: text, ContentType: contentType})
}

// Interact marks the bubble as touched and routes the tap to its
// payload-specific effect. Consume effects destroy the bubble; executing
// the effect (clipboard write, paste delivery) is the caller's job.
func (e *Engine) Interact(id string) (Effect, error) {
	e.mu.Lock()
	b, ok := e.bubbles[id]
	if !ok {
		e.mu.Unlock()
		return Effect{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b.LastInteraction = e.now()

	eff := route(b.Payload)
	switch eff.Kind {
	case EffectConsume:
		delete(e.bubbles, id)
	case EffectToggleMinimized:
		class, _ := e.reg.Lookup(b.Class)
		b.Minimized = !b.Minimized
		b.Size = class.ResolvedSize(e.keyboard, b.Minimized)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("bubble interaction", "id", id, "effect", eff.Kind)
	e.notify(snap)
	return eff, nil
}

// UpdatePosition records a completed drag and re-runs the solver so the
// bubble settles clear of its neighbours.
func (e *Engine) UpdatePosition(id string, x, y float64) error {
	e.mu.Lock()
	b, ok := e.bubbles[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	class, _ := e.reg.Lookup(b.Class)
	if !class.SupportsDragging {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotDraggable, b.Class)
	}
	b.X, b.Y = x, y
	b.LastInteraction = e.now()
	if b.Visible {
		b.X, b.Y = e.placeLocked(b)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return nil
}

// Destroy removes the bubble from the collection.
func (e *Engine) Destroy(id string) error {
	e.mu.Lock()
	if _, ok := e.bubbles[id]; !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(e.bubbles, id)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("bubble dismissed", "id", id)
	e.notify(snap)
	return nil
}

// KeyboardVisibilityChanged recomputes every bubble's visibility, minimized
// state and size against the class policy. Reposition-policy bubbles and
// bubbles that just became visible get a fresh layout pass. Repeated calls
// with the same state are no-ops.
func (e *Engine) KeyboardVisibilityChanged(visible bool) {
	e.mu.Lock()
	if e.keyboard == visible {
		e.mu.Unlock()
		return
	}
	e.keyboard = visible

	for _, b := range e.bubbles {
		class, _ := e.reg.Lookup(b.Class)
		wasVisible := b.Visible
		b.Visible = class.ShouldBeVisible(visible)
		if class.Keyboard == bubble.MinimizeOnKeyboard {
			b.Minimized = visible
		}
		b.Size = class.ResolvedSize(visible, b.Minimized)

		if b.Visible && (class.Keyboard == bubble.RepositionOnKeyboard || !wasVisible) {
			b.X, b.Y = e.placeLocked(b)
		}
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("keyboard visibility changed", "visible", visible)
	e.notify(snap)
}

// ContainerResized records the new geometry and re-lays out every visible
// bubble, top of the stack first.
func (e *Engine) ContainerResized(width, height float64) {
	e.mu.Lock()
	e.width, e.height = width, height

	for _, b := range e.drawOrderLocked() {
		if !b.Visible {
			continue
		}
		b.X, b.Y = e.placeLocked(b)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("container resized", "width", width, "height", height)
	e.notify(snap)
}

// Sweep destroys every bubble whose class auto-hides and whose idle time has
// reached the class delay. Returns the number destroyed. Classes with a zero
// delay never expire.
func (e *Engine) Sweep(now time.Time) int {
	e.mu.Lock()
	var expired []string
	for id, b := range e.bubbles {
		class, _ := e.reg.Lookup(b.Class)
		if class.AutoHideDelay == 0 {
			continue
		}
		if now.Sub(b.LastInteraction) >= class.AutoHideDelay {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		slog.Info("bubble expired", "id", id, "class", e.bubbles[id].Class)
		delete(e.bubbles, id)
	}
	var snap []bubble.Bubble
	if len(expired) > 0 {
		snap = e.snapshotLocked()
	}
	e.mu.Unlock()

	if len(expired) > 0 {
		e.notify(snap)
	}
	return len(expired)
}

// Snapshot returns a copy of the collection in draw order: ascending stack
// priority, so later entries render on top.
func (e *Engine) Snapshot() []bubble.Bubble {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// KeyboardVisible reports the last observed soft-keyboard state.
func (e *Engine) KeyboardVisible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.keyboard
}

// ContainerSize returns the last observed container geometry; (0, 0) until
// the first resize event.
func (e *Engine) ContainerSize() (float64, float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.width, e.height
}

// CaptureMode returns the current capture mode.
func (e *Engine) CaptureMode() bubble.CaptureMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// SetCaptureMode switches between replace and extend capture, updating the
// tool panel's sub-state to match.
func (e *Engine) SetCaptureMode(m bubble.CaptureMode) {
	e.mu.Lock()
	e.mode = m
	for _, b := range e.bubbles {
		if _, ok := b.Payload.(bubble.ToolPanel); ok {
			b.Payload = bubble.ToolPanel{Mode: m}
		}
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	slog.Info("capture mode changed", "mode", m)
	e.notify(snap)
}

// evictLocked removes the oldest bubble of the class when it is at its cap.
// At most one bubble is ever evicted per add.
func (e *Engine) evictLocked(class bubble.Class) *bubble.Bubble {
	if class.MaxInstances == 0 {
		return nil
	}
	count := 0
	for _, b := range e.bubbles {
		if b.Class == class.ID {
			count++
		}
	}
	if count < class.MaxInstances {
		return nil
	}
	oldest := e.oldestLocked(class.ID)
	if oldest != nil {
		delete(e.bubbles, oldest.ID)
	}
	return oldest
}

// oldestLocked returns the bubble of the class with the lowest last
// interaction time, breaking ties by id so eviction stays deterministic.
func (e *Engine) oldestLocked(classID bubble.ClassID) *bubble.Bubble {
	var oldest *bubble.Bubble
	for _, b := range e.bubbles {
		if b.Class != classID {
			continue
		}
		if oldest == nil ||
			b.LastInteraction.Before(oldest.LastInteraction) ||
			(b.LastInteraction.Equal(oldest.LastInteraction) && b.ID < oldest.ID) {
			oldest = b
		}
	}
	return oldest
}

func (e *Engine) newestLocked(classID bubble.ClassID) *bubble.Bubble {
	var newest *bubble.Bubble
	for _, b := range e.bubbles {
		if b.Class != classID {
			continue
		}
		if newest == nil ||
			b.LastInteraction.After(newest.LastInteraction) ||
			(b.LastInteraction.Equal(newest.LastInteraction) && b.ID > newest.ID) {
			newest = b
		}
	}
	return newest
}

// spawnLocked picks the default entry position: just inside the top-right
// corner, where the overlay's capture affordance lives. The solver pushes
// subsequent bubbles apart from there.
func (e *Engine) spawnLocked(b *bubble.Bubble) (float64, float64) {
	r := b.Radius()
	if e.width <= 0 || e.height <= 0 {
		return r, r
	}
	return e.width - spawnMargin - r, spawnMargin + r
}

// placeLocked runs the layout solver for b against all other visible bubbles.
func (e *Engine) placeLocked(b *bubble.Bubble) (float64, float64) {
	others := make([]layout.Disk, 0, len(e.bubbles))
	for _, o := range e.bubbles {
		if o.ID == b.ID || !o.Visible {
			continue
		}
		others = append(others, layout.Disk{X: o.X, Y: o.Y, R: o.Radius()})
	}
	return e.solver.Place(
		layout.Disk{X: b.X, Y: b.Y, R: b.Radius()},
		others, e.width, e.height,
	)
}

func (e *Engine) snapshotLocked() []bubble.Bubble {
	out := make([]bubble.Bubble, 0, len(e.bubbles))
	for _, b := range e.drawOrderLocked() {
		out = append(out, *b)
	}
	return out
}

// drawOrderLocked sorts bubbles by ascending stack priority so higher
// priorities come last (on top), with stable tie-breaks.
func (e *Engine) drawOrderLocked() []*bubble.Bubble {
	out := make([]*bubble.Bubble, 0, len(e.bubbles))
	for _, b := range e.bubbles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, _ := e.reg.Lookup(out[i].Class)
		cj, _ := e.reg.Lookup(out[j].Class)
		if ci.StackPriority != cj.StackPriority {
			return ci.StackPriority < cj.StackPriority
		}
		if !out[i].LastInteraction.Equal(out[j].LastInteraction) {
			return out[i].LastInteraction.Before(out[j].LastInteraction)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) notify(snap []bubble.Bubble) {
	e.listenerMu.RLock()
	l := e.listener
	e.listenerMu.RUnlock()
	if l != nil {
		l.BubblesChanged(snap)
	}
}
