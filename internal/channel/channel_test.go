package channel

import (
	"testing"

	"lxcore/internal/lxcolor"
)

type constPattern struct{ c lxcolor.ARGB }

func (p constPattern) Advance(dtMs float64) {}
func (p constPattern) Render(out lxcolor.Buffer) {
	lxcolor.Clear(out, p.c)
}

func TestLoopRendersActivePatternAndMarksAnimating(t *testing.T) {
	c := New("chan1", nil, 4)
	c.Patterns = append(c.Patterns, constPattern{c: lxcolor.RGB(255, 0, 0)})

	if c.IsAnimating() {
		t.Fatal("should not be animating before first loop")
	}
	c.Loop(16)
	if !c.IsAnimating() {
		t.Fatal("expected isAnimating after a frame with output")
	}
	for i, v := range c.Colors {
		if v != lxcolor.RGB(255, 0, 0) {
			t.Errorf("pixel %d: expected red, got %#x", i, v)
		}
	}
}

func TestLoopWithNoPatternsDoesNotAnimate(t *testing.T) {
	c := New("empty", nil, 4)
	c.Loop(16)
	if c.IsAnimating() {
		t.Fatal("a channel with no patterns should not report animating")
	}
}

func TestTransitionBlendsActiveAndPendingByProgress(t *testing.T) {
	c := New("chan1", nil, 1)
	c.Patterns = append(c.Patterns, constPattern{c: lxcolor.RGB(0, 0, 0)})
	c.StartTransition(constPattern{c: lxcolor.RGB(255, 255, 255)}, 10)

	c.Loop(5) // halfway
	_, r, _, _ := c.Colors[0].Components()
	if r < 100 || r > 155 {
		t.Errorf("expected roughly mid-gray red channel, got %d", r)
	}

	c.Loop(10) // past completion
	if c.inTransition {
		t.Error("transition should have completed")
	}
	if c.Colors[0] != lxcolor.RGB(255, 255, 255) {
		t.Errorf("expected pending pattern to become active, got %#x", c.Colors[0])
	}
}

func TestGroupCompositesChildrenIntoOwnBuffer(t *testing.T) {
	g := NewGroup("grp", nil, 2)
	child := New("child", nil, 2)
	child.Patterns = append(child.Patterns, constPattern{c: lxcolor.RGB(0, 255, 0)})
	if err := g.AddChild(child); err != nil {
		t.Fatal(err)
	}
	child.Loop(16)

	background := lxcolor.NewBuffer(2, lxcolor.Black)
	g.Composite(background)

	for _, v := range g.Colors {
		if v != lxcolor.RGB(0, 255, 0) {
			t.Errorf("expected group buffer to equal child's color, got %#x", v)
		}
	}
}

func TestAddChildRejectsChannelAlreadyInAnotherGroup(t *testing.T) {
	g1 := NewGroup("g1", nil, 1)
	g2 := NewGroup("g2", nil, 1)
	c := New("c", nil, 1)
	if err := g1.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if err := g2.AddChild(c); err == nil {
		t.Fatal("expected error adding a channel already owned by a group")
	}
}
