package engine

import (
	"fmt"

	"lxcore/internal/channel"
)

// AddChannel appends a new, empty top-level channel and returns it
// (spec.md §6).
func (e *Engine) AddChannel() *channel.Channel {
	c := channel.New(fmt.Sprintf("channel%d", len(e.Channels)+1), e.Header, e.N)
	c.SetLogger(e.Logger)
	e.Channels = append(e.Channels, c)
	e.reindex()
	e.fireChannelAdded(c, c.Index())
	return c
}

// AddChannelWithPatterns appends a new channel pre-loaded with patterns.
func (e *Engine) AddChannelWithPatterns(patterns []channel.Pattern) *channel.Channel {
	c := e.AddChannel()
	c.Patterns = append(c.Patterns, patterns...)
	return c
}

// AddGroup appends a new, empty group channel and returns it.
func (e *Engine) AddGroup() *channel.Group {
	g := channel.NewGroup(fmt.Sprintf("group%d", len(e.Channels)+1), e.Header, e.N)
	g.SetLogger(e.Logger)
	e.Channels = append(e.Channels, g.Channel)
	e.Groups = append(e.Groups, g)
	e.reindex()
	e.fireChannelAdded(g.Channel, g.Channel.Index())
	return g
}

// GroupFor returns the Group wrapper owning c's embedded *Channel, if c
// is a group channel (spec.md §6, used by project.Save to detect group
// elements in the channel list).
func (e *Engine) GroupFor(c *channel.Channel) (*channel.Group, bool) {
	for _, g := range e.Groups {
		if g.Channel == c {
			return g, true
		}
	}
	return nil, false
}

// RemoveChannel removes c from the engine's channel list. Removing a
// channel the engine does not own is a contract violation (spec.md §7).
func (e *Engine) RemoveChannel(c *channel.Channel) error {
	idx := -1
	for i, existing := range e.Channels {
		if existing == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("engine: removeChannel on an unowned channel: contract violation")
	}
	e.Channels = append(e.Channels[:idx], e.Channels[idx+1:]...)
	if g := c.Group(); g != nil {
		g.RemoveChild(c)
	}
	if g, ok := e.GroupFor(c); ok {
		for i, existing := range e.Groups {
			if existing == g {
				e.Groups = append(e.Groups[:i], e.Groups[i+1:]...)
				break
			}
		}
	}
	if e.FocusedChannel > idx {
		e.FocusedChannel--
	}
	e.reindex()
	if e.FocusedChannel > len(e.Channels) {
		e.FocusedChannel = len(e.Channels)
	}
	e.fireChannelRemoved(c, idx)
	return nil
}

// RemoveSelectedChannels removes every channel currently marked
// Selected (spec.md §6).
func (e *Engine) RemoveSelectedChannels() {
	selected := make([]*channel.Channel, 0)
	for _, c := range e.Channels {
		if c.Selected {
			selected = append(selected, c)
		}
	}
	for _, c := range selected {
		_ = e.RemoveChannel(c)
	}
}

// MoveChannel relocates c to index newIndex in the top-level list.
func (e *Engine) MoveChannel(c *channel.Channel, newIndex int) error {
	oldIndex := -1
	for i, existing := range e.Channels {
		if existing == c {
			oldIndex = i
			break
		}
	}
	if oldIndex < 0 {
		return fmt.Errorf("engine: moveChannel on an unowned channel: contract violation")
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(e.Channels)-1 {
		newIndex = len(e.Channels) - 1
	}
	if newIndex == oldIndex {
		return nil
	}
	e.Channels = append(e.Channels[:oldIndex], e.Channels[oldIndex+1:]...)
	e.Channels = append(e.Channels[:newIndex], append([]*channel.Channel{c}, e.Channels[newIndex:]...)...)
	e.reindex()
	e.fireChannelMoved(c, oldIndex, newIndex)
	return nil
}

// Ungroup dissolves a group channel, promoting its children to
// top-level channels in their former relative order, replacing g at
// g's index (spec.md §6 "ungroup(c)").
func (e *Engine) Ungroup(g *channel.Group) error {
	idx := -1
	for i, existing := range e.Channels {
		if existing == g.Channel {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("engine: ungroup on an unowned group: contract violation")
	}
	children := append([]*channel.Channel(nil), g.Children...)
	for _, c := range children {
		g.RemoveChild(c)
	}
	newChannels := make([]*channel.Channel, 0, len(e.Channels)-1+len(children))
	newChannels = append(newChannels, e.Channels[:idx]...)
	newChannels = append(newChannels, children...)
	newChannels = append(newChannels, e.Channels[idx+1:]...)
	e.Channels = newChannels
	for i, existing := range e.Groups {
		if existing == g {
			e.Groups = append(e.Groups[:i], e.Groups[i+1:]...)
			break
		}
	}
	e.reindex()
	return nil
}

// reindex rewrites every channel's index to its position and clamps
// focusedChannel into [0, channelCount] (spec.md §3 invariant 5, §4.7).
// channelCount itself denotes the master channel.
func (e *Engine) reindex() {
	for i, c := range e.Channels {
		c.SetIndex(i)
	}
	if e.FocusedChannel > len(e.Channels) {
		e.FocusedChannel = len(e.Channels)
	}
	if e.FocusedChannel < 0 {
		e.FocusedChannel = 0
	}
	e.FocusedChannelParam.SetRange(0, float64(len(e.Channels)))
	_ = e.FocusedChannelParam.SetValue(float64(e.FocusedChannel))
}

func (e *Engine) fireChannelAdded(c *channel.Channel, index int) {
	for _, l := range e.listeners {
		l.ChannelAdded(c, index)
	}
}

func (e *Engine) fireChannelRemoved(c *channel.Channel, index int) {
	for _, l := range e.listeners {
		l.ChannelRemoved(c, index)
	}
	e.FocusedChannelParam.Bang()
}

func (e *Engine) fireChannelMoved(c *channel.Channel, from, to int) {
	for _, l := range e.listeners {
		l.ChannelMoved(c, from, to)
	}
}
