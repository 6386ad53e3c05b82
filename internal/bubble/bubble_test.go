package bubble

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	_, err := NewRegistry(
		Class{ID: "a", DefaultSize: 10},
		Class{ID: "a", DefaultSize: 20},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegistryRejectsInvalidPolicies(t *testing.T) {
	cases := map[string]Class{
		"empty id":      {DefaultSize: 10},
		"zero size":     {ID: "x"},
		"negative max":  {ID: "x", DefaultSize: 10, MaxInstances: -1},
		"negative hide": {ID: "x", DefaultSize: 10, AutoHideDelay: -time.Second},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(c)
			assert.Error(t, err)
		})
	}
}

func TestDefaultRegistryHasAllClasses(t *testing.T) {
	r := DefaultRegistry(DefaultSizeStep)
	for _, id := range []ClassID{ClassPaste, ClassTool, ClassPin, ClassAlert, ClassQuick} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, "class %s missing", id)
	}
	_, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestSizeStepScaling(t *testing.T) {
	small := DefaultRegistry(MinSizeStep)
	mid := DefaultRegistry(DefaultSizeStep)
	large := DefaultRegistry(MaxSizeStep)

	ps, _ := small.Lookup(ClassPaste)
	pm, _ := mid.Lookup(ClassPaste)
	pl, _ := large.Lookup(ClassPaste)

	assert.Less(t, ps.DefaultSize, pm.DefaultSize)
	assert.Less(t, pm.DefaultSize, pl.DefaultSize)
	assert.Equal(t, 60.0, pm.DefaultSize, "step 3 is the base size")

	// Out-of-range steps clamp instead of failing.
	clamped := DefaultRegistry(99)
	pc, _ := clamped.Lookup(ClassPaste)
	assert.Equal(t, pl.DefaultSize, pc.DefaultSize)
}

func TestKeyboardPolicyVisibility(t *testing.T) {
	cases := []struct {
		policy        KeyboardPolicy
		visibleKbUp   bool
		visibleKbDown bool
	}{
		{ShowOnKeyboard, true, false},
		{HideOnKeyboard, false, true},
		{MinimizeOnKeyboard, true, true},
		{RepositionOnKeyboard, true, true},
		{IgnoreKeyboard, true, true},
	}
	for _, tc := range cases {
		c := Class{ID: "x", DefaultSize: 40, Keyboard: tc.policy}
		assert.Equal(t, tc.visibleKbUp, c.ShouldBeVisible(true), "%s keyboard up", tc.policy)
		assert.Equal(t, tc.visibleKbDown, c.ShouldBeVisible(false), "%s keyboard down", tc.policy)
	}
}

func TestMinimizeOnKeyboardForcesMinimized(t *testing.T) {
	c := Class{ID: "tool", DefaultSize: 40, Keyboard: MinimizeOnKeyboard}
	assert.True(t, c.ShouldBeMinimized(true))
	assert.False(t, c.ShouldBeMinimized(false))

	other := Class{ID: "pin", DefaultSize: 40, Keyboard: IgnoreKeyboard}
	assert.False(t, other.ShouldBeMinimized(true))
}

func TestResolvedSize(t *testing.T) {
	c := Class{ID: "tool", DefaultSize: 40, Keyboard: MinimizeOnKeyboard}
	assert.Equal(t, 40.0, c.ResolvedSize(false, false))
	assert.Equal(t, 20.0, c.ResolvedSize(false, true), "manual minimize halves the footprint")
	assert.Equal(t, 20.0, c.ResolvedSize(true, false), "policy minimize halves the footprint")
}

func TestClassForPayloads(t *testing.T) {
	assert.Equal(t, ClassPaste, ClassFor(PasteContent{Text: "x"}))
	assert.Equal(t, ClassTool, ClassFor(ToolPanel{Mode: ModeExtend}))
	assert.Equal(t, ClassPin, ClassFor(PinnedItem{Text: "x"}))
	assert.Equal(t, ClassAlert, ClassFor(SystemAlert{Title: "x"}))
	assert.Equal(t, ClassQuick, ClassFor(QuickAction{Text: "x"}))
}

func TestBubblePreviewTruncates(t *testing.T) {
	c := Class{ID: ClassPaste, DefaultSize: 40}
	long := strings.Repeat("a", 300)
	b := New(c, PasteContent{Text: long}, time.Now())

	p := b.Preview()
	assert.Len(t, []rune(p), PreviewLength+1, "preview plus ellipsis")
	assert.True(t, strings.HasSuffix(p, "…"))

	short := New(c, PasteContent{Text: "hi"}, time.Now())
	assert.Equal(t, "hi", short.Preview())
}

func TestNewBubbleUniqueIDs(t *testing.T) {
	c := Class{ID: ClassPaste, DefaultSize: 40}
	a := New(c, PasteContent{Text: "a"}, time.Now())
	b := New(c, PasteContent{Text: "b"}, time.Now())
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 20.0, a.Radius())
}
