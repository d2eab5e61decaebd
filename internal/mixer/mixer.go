// Package mixer implements the compositor: blending top-level channels
// into the MAIN/A/B buses, crossfading A against B, and producing a CUE
// preview bus (spec.md §4.3).
package mixer

import (
	"lxcore/internal/channel"
	"lxcore/internal/debug"
	"lxcore/internal/lxcolor"
)

// Mixer owns the four working buffers and runs one composite pass per
// frame over a list of top-level channels.
type Mixer struct {
	Background lxcolor.Buffer

	Main lxcolor.Buffer
	Left lxcolor.Buffer
	Right lxcolor.Buffer
	Cue  lxcolor.Buffer

	// CrossfaderBlend is the capability used to combine A against B
	// (spec.md §4.3 "crossfaderBlendMode").
	CrossfaderBlend lxcolor.BlendFunc

	logger *debug.Logger

	leftTouched  bool
	rightTouched bool
	cueTouched   bool
	anyTouched   bool
}

// SetLogger attaches the shared engine logger, mirroring the teacher's
// constructor-injection pattern for per-subsystem logging (e.g.
// internal/memory/bus.go's SetLogger).
func (m *Mixer) SetLogger(l *debug.Logger) { m.logger = l }

// New allocates the mixer's working buffers at length n and seeds
// Background with opaque black (spec.md §4.3).
func New(n int) *Mixer {
	return &Mixer{
		Background:      lxcolor.NewBuffer(n, lxcolor.Black),
		Main:            lxcolor.NewBuffer(n, lxcolor.Black),
		Left:            lxcolor.NewBuffer(n, lxcolor.Black),
		Right:           lxcolor.NewBuffer(n, lxcolor.Black),
		Cue:             lxcolor.NewBuffer(n, lxcolor.Black),
		CrossfaderBlend: lxcolor.Dissolve,
	}
}

// Input bundles everything the mixer needs to know about one top-level
// channel for a frame (its bus membership and composited color buffer).
type Input struct {
	Colors         lxcolor.Buffer
	Fader          float64
	BlendMode      lxcolor.BlendFunc
	CrossfadeGroup channel.CrossfadeGroup
	Enabled        bool
	Animating      bool
	CueActive      bool
}

// Mix composites channels into Main/Cue for one frame. crossfader is
// the 0..1 crossfader value, cueA/cueB select whole-bus cue preview
// (spec.md §4.3).
func (m *Mixer) Mix(channels []Input, crossfader float64, cueA, cueB bool) {
	m.leftTouched = false
	m.rightTouched = false
	m.cueTouched = false
	m.anyTouched = false

	// blendOutputMain is reseeded from background every frame, the same
	// way the A/B buses are implicitly seeded on their first contributing
	// channel — it must never carry stale content from the prior frame.
	lxcolor.CopyFrom(m.Main, m.Background)

	aActive := crossfader < 1 || cueA
	bActive := crossfader > 0 || cueB

	for _, ch := range channels {
		var dest, out lxcolor.Buffer
		var active bool
		switch ch.CrossfadeGroup {
		case channel.GroupA:
			if m.leftTouched {
				dest = m.Left
			} else {
				dest = m.Background
			}
			out = m.Left
			active = aActive
		case channel.GroupB:
			if m.rightTouched {
				dest = m.Right
			} else {
				dest = m.Background
			}
			out = m.Right
			active = bActive
		default: // BYPASS
			dest = m.Main
			out = m.Main
			active = true
		}

		if ch.Enabled && ch.Animating && active {
			if ch.Fader > 0 {
				ch.BlendMode(dest, ch.Colors, ch.Fader, out)
			} else if &dest[0] != &out[0] {
				lxcolor.CopyFrom(out, dest)
			}
			m.anyTouched = true
			switch ch.CrossfadeGroup {
			case channel.GroupA:
				m.leftTouched = true
			case channel.GroupB:
				m.rightTouched = true
			}
		}

		if ch.CueActive {
			if !m.cueTouched {
				lxcolor.CopyFrom(m.Cue, m.Background)
				m.cueTouched = true
			}
			lxcolor.Add(m.Cue, ch.Colors, 1, m.Cue)
		}
	}

	if cueA && m.leftTouched {
		lxcolor.CopyFrom(m.Cue, m.Left)
		m.cueTouched = true
	}
	if cueB && m.rightTouched {
		lxcolor.CopyFrom(m.Cue, m.Right)
		m.cueTouched = true
	}

	m.crossfadeAndAccumulate(crossfader)

	if !m.anyTouched {
		lxcolor.CopyFrom(m.Main, m.Background)
		if m.logger != nil {
			m.logger.LogMixer(debug.LogLevelDebug, "mixer: no channel contributed, main bus cleared to background", nil)
		}
	}
	if !m.cueTouched {
		lxcolor.CopyFrom(m.Cue, m.Background)
	}
}

func (m *Mixer) crossfadeAndAccumulate(x float64) {
	switch {
	case m.leftTouched && m.rightTouched:
		var dest, src lxcolor.Buffer
		var alpha float64
		if x <= 0.5 {
			dest, src = m.Left, m.Right
			alpha = min1(2 * x)
		} else {
			dest, src = m.Right, m.Left
			alpha = min1(2 * (1 - x))
		}
		m.CrossfaderBlend(dest, src, alpha, dest)
		lxcolor.Add(m.Main, dest, 1, m.Main)
		m.anyTouched = true
	case m.leftTouched:
		alpha := min1(2 * (1 - x))
		lxcolor.Add(m.Main, m.Left, alpha, m.Main)
		m.anyTouched = true
	case m.rightTouched:
		alpha := min1(2 * x)
		lxcolor.Add(m.Main, m.Right, alpha, m.Main)
		m.anyTouched = true
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// ApplyMasterEffects runs each master effect, in order, on Main
// (spec.md §4.3 "Run each master effect on blendOutputMain in order").
func (m *Mixer) ApplyMasterEffects(dtMs float64, master *channel.Master) {
	master.Apply(dtMs, m.Main)
}
