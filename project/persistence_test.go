package project

import "testing"

func TestSaveLoadRoundTripPreservesChannelCountAndFader(t *testing.T) {
	e := newTestEngine(t)
	e.AddChannel()
	c2 := e.AddChannel()
	_ = c2.Fader.SetValue(0.42)
	_ = e.Speed.SetValue(1.5)

	tree, err := Save(e)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	loaded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	e2 := newTestEngine(t)
	if err := Load(e2, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(e2.Channels) != 2 {
		t.Fatalf("expected 2 channels after load, got %d", len(e2.Channels))
	}
	if got := e2.Channels[1].Fader.GetValue(); got != 0.42 {
		t.Fatalf("expected fader 0.42 after load, got %v", got)
	}
	if got := e2.Speed.GetValue(); got != 1.5 {
		t.Fatalf("expected speed 1.5 after load, got %v", got)
	}
}

func TestLoadWithNoChannelsCreatesOneDefaultChannel(t *testing.T) {
	e := newTestEngine(t)
	if err := Load(e, &Tree{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(e.Channels) != 1 {
		t.Fatalf("expected one default channel, got %d", len(e.Channels))
	}
	if got := e.Channels[0].Fader.GetValue(); got != 1 {
		t.Fatalf("expected default channel fader 1, got %v", got)
	}
}

func TestLoadAbortsOnMissingClass(t *testing.T) {
	e := newTestEngine(t)
	tree := &Tree{Channels: []ChannelState{{Class: ""}}}
	if err := Load(e, tree); err == nil {
		t.Fatalf("expected error loading a channel element with no class")
	}
}

func TestSaveGroupIncludesChildren(t *testing.T) {
	e := newTestEngine(t)
	g := e.AddGroup()
	child := e.AddChannel()
	_ = e.RemoveChannel(child)
	_ = g.AddChild(child)

	tree, err := Save(e)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(tree.Channels) != 1 {
		t.Fatalf("expected one top-level element (the group), got %d", len(tree.Channels))
	}
	if tree.Channels[0].Class != "group" {
		t.Fatalf("expected class %q, got %q", "group", tree.Channels[0].Class)
	}
	if len(tree.Channels[0].Children) != 1 {
		t.Fatalf("expected 1 child in saved group, got %d", len(tree.Channels[0].Children))
	}
}
