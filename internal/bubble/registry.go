package bubble

import (
	"fmt"
	"time"
)

// Registry is the read-only class lookup table. It is built once at process
// start and never mutated afterwards, so it needs no synchronization.
type Registry struct {
	classes map[ClassID]Class
}

// NewRegistry builds a registry from the given classes. Duplicate IDs and
// invalid policy values are construction errors.
func NewRegistry(classes ...Class) (*Registry, error) {
	m := make(map[ClassID]Class, len(classes))
	for _, c := range classes {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, dup := m[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class id %q", c.ID)
		}
		m[c.ID] = c
	}
	return &Registry{classes: m}, nil
}

// Lookup returns the class for id.
func (r *Registry) Lookup(id ClassID) (Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Classes returns a copy of all registered classes.
func (r *Registry) Classes() []Class {
	out := make([]Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out
}

// Size-scale bounds, matching the five user-facing bubble size steps.
const (
	MinSizeStep     = 1
	MaxSizeStep     = 5
	DefaultSizeStep = 3

	baseBubbleSize = 60.0
)

// scaledSize maps a size step (1..5) onto a footprint edge length, with
// step 3 giving the base 60-unit bubble.
func scaledSize(step int) float64 {
	if step < MinSizeStep {
		step = MinSizeStep
	}
	if step > MaxSizeStep {
		step = MaxSizeStep
	}
	return baseBubbleSize * (0.6 + 0.2*float64(step-1))
}

// DefaultRegistry returns the built-in class table, with footprints scaled
// by the configured size step (1..5).
//
// The paste cap of 5 bounds how many capture bubbles can crowd the overlay
// at once; alerts and quick actions expire on their own, pins and the tool
// panel persist until dismissed.
func DefaultRegistry(sizeStep int) *Registry {
	size := scaledSize(sizeStep)
	r, err := NewRegistry(
		Class{
			ID:               ClassPaste,
			MaxInstances:     5,
			DefaultSize:      size,
			SupportsDragging: true,
			AutoHideDelay:    2 * time.Minute,
			StackPriority:    30,
			Keyboard:         ShowOnKeyboard,
		},
		Class{
			ID:               ClassTool,
			MaxInstances:     1,
			DefaultSize:      size,
			SupportsDragging: true,
			AutoHideDelay:    0,
			StackPriority:    20,
			Keyboard:         MinimizeOnKeyboard,
		},
		Class{
			ID:               ClassPin,
			MaxInstances:     0,
			DefaultSize:      size,
			SupportsDragging: true,
			AutoHideDelay:    0,
			StackPriority:    10,
			Keyboard:         RepositionOnKeyboard,
		},
		Class{
			ID:               ClassAlert,
			MaxInstances:     3,
			DefaultSize:      size * 1.2,
			SupportsDragging: false,
			AutoHideDelay:    30 * time.Second,
			StackPriority:    100,
			Keyboard:         HideOnKeyboard,
		},
		Class{
			ID:               ClassQuick,
			MaxInstances:     3,
			DefaultSize:      size * 0.8,
			SupportsDragging: true,
			AutoHideDelay:    time.Minute,
			StackPriority:    40,
			Keyboard:         IgnoreKeyboard,
		},
	)
	if err != nil {
		// The built-in table is static; a validation failure here is a bug.
		panic(err)
	}
	return r
}
