// Package project implements save/load against the opaque, gob-encoded
// persistence tree of spec.md §6 ("save(obj)/load(obj): persistence
// against an opaque tree"), grounded in the teacher's
// internal/emulator/savestate.go gob save-state mechanism.
package project

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"lxcore/internal/channel"
	"lxcore/internal/engine"
	"lxcore/internal/param"
)

func init() {
	gob.Register(ChannelState{})
	gob.Register(MasterState{})
	gob.Register(ParamState{})
	gob.Register(Tree{})
}

// ParamState is the persisted form of one named parameter: its raw
// float64 representation, sufficient to reconstruct Bounded, Compound,
// Boolean, and Discrete kinds via SetValue (spec.md §3 parameter
// substrate).
type ParamState struct {
	Value float64
}

// ChannelState is the persisted form of one channel or group element in
// the `channels` array (spec.md §6 persistence tree). Class identifies
// which constructor to reconstruct with; Patterns/Effects are owned by
// out-of-scope collaborators and are not part of this tree.
type ChannelState struct {
	Class          string // "channel" or "group"
	Label          string
	Params         map[string]ParamState
	CrossfadeGroup int
	Selected       bool
	Children       []ChannelState // group children, in order
}

// MasterState is the persisted form of the master channel's parameters.
type MasterState struct {
	Params map[string]ParamState
}

// Tree is the root of the opaque persistence tree (spec.md §6
// "Persistence tree (keys, at root of engine object)"). The fields for
// palette, tempo, audio, output, components, modulation, osc and midi
// are opaque byte payloads: Encode/Decode carry them unchanged, but
// Save leaves them empty and Load does not read them.
type Tree struct {
	Channels []ChannelState
	Master   MasterState
	Engine   map[string]ParamState

	Palette     []byte
	Tempo       []byte
	Audio       []byte
	Output      []byte
	Components  []byte
	Modulation  []byte
	OSC         []byte
	MIDI        []byte
}

// Save walks the engine's component tree into an opaque Tree
// (spec.md §6 "save(obj): persistence against an opaque tree").
func Save(e *engine.Engine) (*Tree, error) {
	t := &Tree{
		Engine: paramMapOf(e.Header),
	}

	for _, c := range e.Channels {
		if c.Group() != nil {
			continue // serialized as a child of its owning group below
		}
		if g, ok := e.GroupFor(c); ok {
			t.Channels = append(t.Channels, saveGroup(g))
			continue
		}
		t.Channels = append(t.Channels, saveChannel(c))
	}

	t.Master = MasterState{Params: paramMapOf(e.Master.Header)}

	return t, nil
}

func saveChannel(c *channel.Channel) ChannelState {
	return ChannelState{
		Class:          "channel",
		Label:          c.Header.Label(),
		Params:         paramMapOf(c.Header),
		CrossfadeGroup: int(c.CrossfadeGroup),
		Selected:       c.Selected,
	}
}

func saveGroup(g *channel.Group) ChannelState {
	s := saveChannel(g.Channel)
	s.Class = "group"
	for _, child := range g.Children {
		s.Children = append(s.Children, saveChannel(child))
	}
	return s
}

func paramMapOf(h *param.Header) map[string]ParamState {
	keys := h.ParameterKeys()
	out := make(map[string]ParamState, len(keys))
	for _, key := range keys {
		p, ok := h.Parameter(key)
		if !ok {
			continue
		}
		out[key] = ParamState{Value: p.GetValue()}
	}
	return out
}

// Encode gob-encodes a Tree to bytes for storage (spec.md §6, following
// the teacher's SaveState -> bytes.Buffer/gob.Encoder pattern).
func Encode(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("project: encode save tree: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Tree, error) {
	var t Tree
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("project: decode save tree: %w", err)
	}
	return &t, nil
}

// Load removes all channels, re-adds channels by class, then restores
// master and finally engine parameters, in that order; it does not
// clear modulation or load the opaque collaborator payloads. A missing
// `channels` key (nil or empty slice) creates one default channel with
// fader 1 (spec.md §7 "Persistence mismatch"). An element with an empty
// or unknown Class aborts loading that element only: the other elements
// and the parameters are still loaded, and the first such error is
// returned.
func Load(e *engine.Engine, t *Tree) error {
	for _, c := range append([]*channel.Channel(nil), e.Channels...) {
		_ = e.RemoveChannel(c)
	}

	var firstErr error
	if len(t.Channels) == 0 {
		c := e.AddChannel()
		_ = c.Fader.SetValue(1)
	} else {
		for _, cs := range t.Channels {
			if err := loadChannelState(e, cs); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	applyParamMap(e.Master.Header, t.Master.Params)
	applyParamMap(e.Header, t.Engine)

	return firstErr
}

func loadChannelState(e *engine.Engine, cs ChannelState) error {
	switch cs.Class {
	case "channel":
		c := e.AddChannel()
		applyParamMap(c.Header, cs.Params)
		c.CrossfadeGroup = channel.CrossfadeGroup(cs.CrossfadeGroup)
		c.Selected = cs.Selected
		return nil
	case "group":
		g := e.AddGroup()
		applyParamMap(g.Header, cs.Params)
		for _, childState := range cs.Children {
			if childState.Class == "" {
				return fmt.Errorf("project: channel element missing class: contract violation")
			}
			child := e.AddChannel()
			applyParamMap(child.Header, childState.Params)
			_ = e.RemoveChannel(child)
			_ = g.AddChild(child)
		}
		return nil
	default:
		return fmt.Errorf("project: channel element missing class: contract violation")
	}
}

func applyParamMap(h *param.Header, params map[string]ParamState) {
	for _, key := range h.ParameterKeys() {
		ps, ok := params[key]
		if !ok {
			continue
		}
		p, ok := h.Parameter(key)
		if !ok {
			continue
		}
		_ = p.SetValue(ps.Value)
	}
}
