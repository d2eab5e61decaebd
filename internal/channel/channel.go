// Package channel implements the Channel/Group/Master/Clip components of
// spec.md §3–§4.2: per-channel generators advancing and rendering into
// an owned color buffer, optionally composited as a Group before the
// top-level mixer runs.
package channel

import (
	"fmt"

	"lxcore/internal/debug"
	"lxcore/internal/lxcolor"
	"lxcore/internal/param"
)

// CrossfadeGroup selects which mixer bus a top-level channel blends
// into (spec.md §3, §4.3).
type CrossfadeGroup int

const (
	GroupBypass CrossfadeGroup = iota
	GroupA
	GroupB
)

// Pattern is the pluggable generator capability: advance internal time
// by dt, then render into the channel's buffer (spec.md §1, §9 LoopTarget).
type Pattern interface {
	Advance(dtMs float64)
	Render(out lxcolor.Buffer)
}

// Effect is a pluggable post-process capability applied in order after
// pattern rendering (spec.md §4.2).
type Effect interface {
	Advance(dtMs float64)
	Render(buf lxcolor.Buffer)
}

// Clip is a triggerable time-bound entity attached to a channel; the
// core only observes Trigger/Stop (spec.md §3).
type Clip interface {
	Trigger()
	Stop()
}

// Channel is a component producing one color buffer per frame from a
// sequence of patterns and effects (spec.md §3).
type Channel struct {
	Header *param.Header

	Patterns       []Pattern
	activePattern  int
	pendingPattern int
	inTransition   bool
	transitionMs   float64
	transitionDur  float64

	Effects []Effect

	Fader          *param.Parameter
	BlendMode      lxcolor.BlendFunc
	CrossfadeGroup CrossfadeGroup
	Enabled        *param.Parameter
	CueActive      bool
	Selected       bool
	isAnimating    bool

	Clips [5]Clip

	Colors lxcolor.Buffer

	group *Group
	index int

	logger *debug.Logger
}

// SetLogger attaches the shared engine logger.
func (c *Channel) SetLogger(l *debug.Logger) { c.logger = l }

// New constructs a Channel with an owned buffer of length n.
func New(label string, parent *param.Header, n int) *Channel {
	h := param.NewHeader(label, parent)
	c := &Channel{
		Header:         h,
		Fader:          param.NewBounded("fader", 1, 0, 1, param.Unipolar),
		Enabled:        param.NewBoolean("enabled", true),
		BlendMode:      lxcolor.Normal,
		CrossfadeGroup: GroupBypass,
		Colors:         lxcolor.NewBuffer(n, lxcolor.Black),
	}
	_ = h.AddParameter("fader", c.Fader)
	_ = h.AddParameter("enabled", c.Enabled)
	h.AssignID()
	return c
}

// Index returns the channel's position in its owning list, maintained
// by the engine's reindexing pass (spec.md §4.7).
func (c *Channel) Index() int { return c.index }

// SetIndex is called by the engine after any structural change.
func (c *Channel) SetIndex(i int) { c.index = i }

// Group returns the owning group, or nil for a top-level channel.
func (c *Channel) Group() *Group { return c.group }

// IsAnimating reports whether the last loop() call produced output.
func (c *Channel) IsAnimating() bool { return c.isAnimating }

// StartTransition begins crossfading from the active pattern to p over
// durationMs, mirroring a "pending pattern" swap (spec.md §4.2).
func (c *Channel) StartTransition(p Pattern, durationMs float64) {
	c.Patterns = append(c.Patterns, p)
	c.pendingPattern = len(c.Patterns) - 1
	c.inTransition = true
	c.transitionMs = 0
	c.transitionDur = durationMs
	if c.transitionDur <= 0 {
		c.transitionDur = 1
	}
}

// Loop advances and renders this channel for one frame (spec.md §4.2
// "channel.loop(dt)"). It never resizes Colors; a pattern producing
// garbage colors is tolerated, a pattern resizing the buffer is not.
func (c *Channel) Loop(dtMs float64) {
	c.isAnimating = false
	if len(c.Patterns) == 0 {
		return
	}

	active := c.Patterns[c.activePattern]
	active.Advance(dtMs)

	if c.inTransition {
		pending := c.Patterns[c.pendingPattern]
		pending.Advance(dtMs)

		activeBuf := lxcolor.NewBuffer(len(c.Colors), lxcolor.Black)
		pendingBuf := lxcolor.NewBuffer(len(c.Colors), lxcolor.Black)
		active.Render(activeBuf)
		pending.Render(pendingBuf)

		c.transitionMs += dtMs
		p := c.transitionMs / c.transitionDur
		if p > 1 {
			p = 1
		}
		for i := range c.Colors {
			c.Colors[i] = mix(activeBuf[i], pendingBuf[i], p)
		}

		if p >= 1 {
			c.activePattern = c.pendingPattern
			c.inTransition = false
			if c.logger != nil {
				c.logger.LogChannel(debug.LogLevelDebug, "channel: pattern transition complete", map[string]interface{}{"path": c.Header.Path()})
			}
		}
	} else {
		active.Render(c.Colors)
	}

	for _, e := range c.Effects {
		e.Advance(dtMs)
		e.Render(c.Colors)
	}

	c.isAnimating = true
}

func mix(a, b lxcolor.ARGB, p float64) lxcolor.ARGB {
	aa, ar, ag, ab := a.Components()
	ba, br, bg, bb := b.Components()
	l := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*p)
	}
	return lxcolor.ARGBA(l(aa, ba), l(ar, br), l(ag, bg), l(ab, bb))
}

// Group is a channel specialization that composites an ordered list of
// sub-channels into its own buffer before the top-level mixer runs
// (spec.md §3, §4.2).
type Group struct {
	*Channel
	Children []*Channel

	scratch lxcolor.Buffer
}

// NewGroup constructs a Group channel with an owned buffer of length n.
func NewGroup(label string, parent *param.Header, n int) *Group {
	return &Group{
		Channel: New(label, parent, n),
		scratch: lxcolor.NewBuffer(n, lxcolor.Black),
	}
}

// AddChild appends c to the group's sub-channel list. A channel already
// belonging to another group is a contract violation (spec.md §3
// invariant 3).
func (g *Group) AddChild(c *Channel) error {
	if c.group != nil {
		return fmt.Errorf("channel: %q already belongs to a group", c.Header.Path())
	}
	c.group = g
	g.Children = append(g.Children, c)
	if g.logger != nil {
		c.SetLogger(g.logger)
	}
	return nil
}

// RemoveChild detaches c from the group.
func (g *Group) RemoveChild(c *Channel) {
	for i, existing := range g.Children {
		if existing == c {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			c.group = nil
			return
		}
	}
}

// Composite blends every sub-channel's buffer into the group's own
// buffer, in channel order, using the same accumulation rule the
// top-level mixer applies (spec.md §4.2). background seeds the first
// blend exactly like the mixer's background buffer.
func (g *Group) Composite(background lxcolor.Buffer) {
	lxcolor.CopyFrom(g.scratch, background)
	for _, child := range g.Children {
		if !child.Enabled.Bool() || !child.IsAnimating() {
			continue
		}
		fader := child.Fader.GetValue()
		if fader > 0 {
			child.BlendMode(g.scratch, child.Colors, fader, g.scratch)
		}
	}
	lxcolor.CopyFrom(g.Colors, g.scratch)
	g.isAnimating = true
}

// Master is the distinguished channel that has no patterns, only
// master effects applied to the final mixed output, and may own clips
// (spec.md §3).
type Master struct {
	Header  *param.Header
	Effects []Effect
	Clips   [5]Clip
}

// NewMaster constructs the master channel.
func NewMaster(parent *param.Header) *Master {
	return &Master{Header: param.NewHeader("master", parent)}
}

// Apply runs every master effect, in order, on buf (spec.md §4.1 step
// 11, §4.3 "Run each master effect").
func (m *Master) Apply(dtMs float64, buf lxcolor.Buffer) {
	for _, e := range m.Effects {
		e.Advance(dtMs)
		e.Render(buf)
	}
}
