package engine

import "testing"

func TestAddChannelAssignsSequentialIndices(t *testing.T) {
	e := New(Config{N: 4})
	a := e.AddChannel()
	b := e.AddChannel()

	if a.Index() != 0 || b.Index() != 1 {
		t.Fatalf("expected indices 0,1; got %d,%d", a.Index(), b.Index())
	}
	if e.FocusedChannelParam.GetValue() != float64(e.FocusedChannel) {
		t.Fatalf("focusedChannel param out of sync with field")
	}
}

func TestRemoveChannelReindexesRemainder(t *testing.T) {
	e := New(Config{N: 4})
	a := e.AddChannel()
	b := e.AddChannel()
	c := e.AddChannel()
	_ = a

	if err := e.RemoveChannel(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Index() != 1 {
		t.Fatalf("expected channel c reindexed to 1, got %d", c.Index())
	}
	if len(e.Channels) != 2 {
		t.Fatalf("expected 2 channels remaining, got %d", len(e.Channels))
	}
}

func TestRemoveChannelOnUnownedChannelIsContractViolation(t *testing.T) {
	e := New(Config{N: 4})
	other := New(Config{N: 4})
	foreign := other.AddChannel()

	if err := e.RemoveChannel(foreign); err == nil {
		t.Fatalf("expected error removing an unowned channel")
	}
}

func TestCueAAndCueBAreMutuallyExclusive(t *testing.T) {
	e := New(Config{N: 4})
	_ = e.CueA.SetBool(true)
	_ = e.CueB.SetBool(true)

	if !e.CueB.Bool() {
		t.Fatalf("expected cueB true after being set")
	}
	if e.CueA.Bool() {
		t.Fatalf("expected cueA to be reset false by the mutual-exclusion cascade")
	}
}

func TestGroupUngroupPromotesChildrenInPlace(t *testing.T) {
	e := New(Config{N: 4})
	g := e.AddGroup()
	c1 := e.AddChannel()
	_ = e.RemoveChannel(c1)
	_ = g.AddChild(c1)

	if err := e.Ungroup(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range e.Channels {
		if c == c1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ungrouped child to reappear in top-level channel list")
	}
}

func TestSceneBangIsEdgeTriggered(t *testing.T) {
	e := New(Config{N: 4})
	_ = e.Scenes[0].SetBool(true)
	if e.Scenes[0].Bool() {
		t.Fatalf("expected scene boolean to self-reset false after triggering")
	}
}
