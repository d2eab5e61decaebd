package engine

import (
	"testing"

	"lxcore/internal/lxcolor"
)

type constPattern struct{ c lxcolor.ARGB }

func (p constPattern) Advance(dtMs float64)      {}
func (p constPattern) Render(out lxcolor.Buffer) { lxcolor.Clear(out, p.c) }

func TestFixedDeltaProducesDeterministicMainAcrossRuns(t *testing.T) {
	run := func() lxcolor.Buffer {
		e := New(Config{N: 4})
		e.SetFixedDeltaMs(16)
		c := e.AddChannel()
		c.Patterns = append(c.Patterns, constPattern{c: lxcolor.RGB(10, 20, 30)})
		_ = c.Fader.SetValue(1)

		for i := 0; i < 5; i++ {
			e.Run()
		}
		out := make(lxcolor.Buffer, e.N)
		e.CopyUIBuffer(out)
		return out
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d diverged between deterministic runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPausedRunIsANoOp(t *testing.T) {
	e := New(Config{N: 4})
	e.SetFixedDeltaMs(16)
	c := e.AddChannel()
	c.Patterns = append(c.Patterns, constPattern{c: lxcolor.RGB(10, 20, 30)})
	_ = c.Fader.SetValue(1)

	e.Run()
	before := make(lxcolor.Buffer, e.N)
	e.CopyUIBuffer(before)

	e.SetPaused(true)
	e.Run()
	after := make(lxcolor.Buffer, e.N)
	e.CopyUIBuffer(after)

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("expected paused run to leave the published frame unchanged")
		}
	}
}

func TestSingleBypassChannelAtFullFaderProducesItsOwnColor(t *testing.T) {
	e := New(Config{N: 2})
	e.SetFixedDeltaMs(16)
	c := e.AddChannel()
	c.Patterns = append(c.Patterns, constPattern{c: lxcolor.RGB(100, 150, 200)})
	_ = c.Fader.SetValue(1)

	e.Run()

	out := make(lxcolor.Buffer, e.N)
	e.CopyUIBuffer(out)
	want := lxcolor.RGB(100, 150, 200)
	for i, got := range out {
		if got != want {
			t.Fatalf("pixel %d: got %#x want %#x", i, got, want)
		}
	}
}
