// Package bubble defines the core types of the overlay: the Class policy
// table, the Bubble record, and the payload variants a bubble can carry.
// All mutation of live bubbles happens in the engine; this package holds
// plain data and the pure policy functions derived from it.
package bubble

import (
	"fmt"
	"time"
)

// KeyboardPolicy determines how a bubble class reacts to the soft keyboard
// being shown or hidden.
type KeyboardPolicy int

const (
	// IgnoreKeyboard leaves the bubble untouched by keyboard state.
	IgnoreKeyboard KeyboardPolicy = iota
	// ShowOnKeyboard makes the bubble visible only while the keyboard is up.
	ShowOnKeyboard
	// HideOnKeyboard hides the bubble while the keyboard is up.
	HideOnKeyboard
	// MinimizeOnKeyboard shrinks the bubble while the keyboard is up.
	MinimizeOnKeyboard
	// RepositionOnKeyboard keeps the bubble visible but requests a fresh
	// layout pass whenever keyboard state flips.
	RepositionOnKeyboard
)

func (p KeyboardPolicy) String() string {
	switch p {
	case ShowOnKeyboard:
		return "show-on-keyboard"
	case HideOnKeyboard:
		return "hide-on-keyboard"
	case MinimizeOnKeyboard:
		return "minimize-on-keyboard"
	case RepositionOnKeyboard:
		return "reposition-on-keyboard"
	default:
		return "ignore-keyboard"
	}
}

// ClassID names a bubble class.
type ClassID string

const (
	ClassPaste ClassID = "paste"
	ClassTool  ClassID = "tool"
	ClassPin   ClassID = "pin"
	ClassAlert ClassID = "alert"
	ClassQuick ClassID = "quick"
)

// minimizedScale is the size factor applied to a minimized bubble.
const minimizedScale = 0.5

// Class is the immutable policy bundle shared by all bubbles of one kind.
// Policies are fixed at process start; the registry exposes no mutation.
type Class struct {
	ID               ClassID
	MaxInstances     int // 0 = unbounded
	DefaultSize      float64
	SupportsDragging bool
	AutoHideDelay    time.Duration // 0 = never auto-hide
	StackPriority    int           // higher sits on top
	Keyboard         KeyboardPolicy
}

// ShouldBeVisible reports whether a bubble of this class is rendered given
// the current keyboard state.
func (c Class) ShouldBeVisible(keyboardVisible bool) bool {
	switch c.Keyboard {
	case ShowOnKeyboard:
		return keyboardVisible
	case HideOnKeyboard:
		return !keyboardVisible
	default:
		return true
	}
}

// ShouldBeMinimized reports whether the class policy forces minimization for
// the given keyboard state. Only MinimizeOnKeyboard classes are ever forced;
// for all other policies the bubble keeps whatever minimized state the user
// toggled.
func (c Class) ShouldBeMinimized(keyboardVisible bool) bool {
	return c.Keyboard == MinimizeOnKeyboard && keyboardVisible
}

// ResolvedSize returns the rendered footprint for the given keyboard and
// minimized state.
func (c Class) ResolvedSize(keyboardVisible, minimized bool) float64 {
	if minimized || c.ShouldBeMinimized(keyboardVisible) {
		return c.DefaultSize * minimizedScale
	}
	return c.DefaultSize
}

func (c Class) validate() error {
	if c.ID == "" {
		return fmt.Errorf("class with empty id")
	}
	if c.MaxInstances < 0 {
		return fmt.Errorf("class %s: negative max instances", c.ID)
	}
	if c.DefaultSize <= 0 {
		return fmt.Errorf("class %s: non-positive default size", c.ID)
	}
	if c.AutoHideDelay < 0 {
		return fmt.Errorf("class %s: negative auto-hide delay", c.ID)
	}
	return nil
}
