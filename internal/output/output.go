// Package output implements the Output Stage: per-sink framerate
// throttling, gamma/brightness correction, and fan-out to child sinks
// (spec.md §4.5), plus the network-thread variant that decouples send
// from rendering.
package output

import (
	"sync"
	"time"

	"lxcore/internal/debug"
	"lxcore/internal/lxcolor"
)

// Mode selects how a sink transforms its input buffer before sending.
type Mode int

const (
	Normal Mode = iota
	White
	Raw
	Off
)

// Sender is the subclass hook a concrete transport implements to
// actually emit a corrected color buffer (spec.md §4.5 step 3
// "invoke the subclass onSend").
type Sender interface {
	OnSend(colors lxcolor.Buffer)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(colors lxcolor.Buffer)

func (f SenderFunc) OnSend(colors lxcolor.Buffer) { f(colors) }

// Sink is one node in the output fan-out tree (spec.md §4.5, §9
// "tree of sink nodes with a typed capability set").
type Sink struct {
	Enabled         bool
	Mode            Mode
	FramesPerSecond float64 // 0 = uncapped
	GammaCorrection int     // 0..3
	Brightness      float64 // 0..1

	sender Sender
	children []*Sink

	lastFrame time.Time
	hasSent   bool

	// allWhite is a reusable scratch buffer rewritten every WHITE-mode
	// frame; it is not a cached constant (spec.md §9 open question).
	allWhite lxcolor.Buffer

	logger *debug.Logger

	mu sync.Mutex
}

// SetLogger attaches the shared engine logger to this sink and
// propagates it to every child already in the fan-out tree, mirroring
// the teacher's constructor-injection logging pattern.
func (s *Sink) SetLogger(l *debug.Logger) {
	s.logger = l
	for _, c := range s.children {
		c.SetLogger(l)
	}
}

// New constructs an enabled, NORMAL-mode sink with no correction.
func New(sender Sender) *Sink {
	return &Sink{
		Enabled:         true,
		Mode:            Normal,
		Brightness:      1,
		sender:          sender,
	}
}

// AddChild appends a child sink to the fan-out tree. Children receive
// the already-corrected buffer from their parent (spec.md §4.5 step 4).
func (s *Sink) AddChild(child *Sink) {
	s.children = append(s.children, child)
	if s.logger != nil {
		child.SetLogger(s.logger)
	}
}

// Send applies throttling, mode-based color correction, invokes the
// sender, then recurses into children (spec.md §4.5).
func (s *Sink) Send(colors lxcolor.Buffer) {
	if !s.Enabled {
		return
	}

	now := time.Now()
	if s.FramesPerSecond > 0 && s.hasSent {
		minInterval := time.Duration(1000/s.FramesPerSecond) * time.Millisecond
		if now.Sub(s.lastFrame) <= minInterval {
			if s.logger != nil {
				s.logger.LogOutput(debug.LogLevelDebug, "output: frame throttled", nil)
			}
			return
		}
	}

	chosen := s.choose(colors)

	if s.sender != nil {
		s.sender.OnSend(chosen)
	}
	for _, child := range s.children {
		child.Send(chosen)
	}

	s.lastFrame = now
	s.hasSent = true
}

func (s *Sink) choose(colors lxcolor.Buffer) lxcolor.Buffer {
	switch s.Mode {
	case Off:
		return lxcolor.NewBuffer(len(colors), lxcolor.Black)
	case White:
		s.mu.Lock()
		if len(s.allWhite) != len(colors) {
			s.allWhite = make(lxcolor.Buffer, len(colors))
		}
		white := lxcolor.WhiteAtBrightness(s.Brightness)
		lxcolor.Clear(s.allWhite, white)
		out := s.allWhite
		s.mu.Unlock()
		return out
	case Raw:
		return colors
	default: // Normal
		if s.GammaCorrection > 0 || s.Brightness < 1 {
			out := make(lxcolor.Buffer, len(colors))
			for i, c := range colors {
				out[i] = lxcolor.ApplyHSBCorrection(c, s.GammaCorrection, s.Brightness)
			}
			return out
		}
		return colors
	}
}
