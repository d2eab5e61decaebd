package output

import (
	"testing"
	"time"

	"lxcore/internal/lxcolor"
)

func TestThrottleLimitsSendsToApproximatelyTargetFPS(t *testing.T) {
	var calls int
	sink := New(SenderFunc(func(colors lxcolor.Buffer) { calls++ }))
	sink.FramesPerSecond = 10 // cap at 10Hz = 100ms min interval

	buf := lxcolor.NewBuffer(4, lxcolor.Black)
	start := time.Now()
	for time.Since(start) < 290*time.Millisecond {
		sink.Send(buf)
		time.Sleep(10 * time.Millisecond) // driving calls at ~100Hz
	}

	if calls < 2 || calls > 4 {
		t.Errorf("expected roughly 3 (+-1) sends over ~290ms at 10fps cap, got %d", calls)
	}
}

func TestOffModeSendsAllBlack(t *testing.T) {
	var got lxcolor.Buffer
	sink := New(SenderFunc(func(colors lxcolor.Buffer) { got = colors }))
	sink.Mode = Off

	buf := lxcolor.NewBuffer(4, lxcolor.RGB(255, 255, 255))
	sink.Send(buf)
	for _, v := range got {
		if v != lxcolor.Black {
			t.Errorf("expected OFF mode to force black, got %#x", v)
		}
	}
}

func TestRawModePassesThroughUnchanged(t *testing.T) {
	var got lxcolor.Buffer
	sink := New(SenderFunc(func(colors lxcolor.Buffer) { got = colors }))
	sink.Mode = Raw

	red := lxcolor.RGB(255, 0, 0)
	buf := lxcolor.NewBuffer(4, red)
	sink.Send(buf)
	for _, v := range got {
		if v != red {
			t.Errorf("expected RAW mode to pass through, got %#x", v)
		}
	}
}

func TestChildrenReceiveAlreadyCorrectedBuffer(t *testing.T) {
	var parentGot, childGot lxcolor.Buffer
	child := New(SenderFunc(func(colors lxcolor.Buffer) { childGot = colors }))
	parent := New(SenderFunc(func(colors lxcolor.Buffer) { parentGot = colors }))
	parent.AddChild(child)
	parent.Mode = Off

	buf := lxcolor.NewBuffer(2, lxcolor.RGB(1, 2, 3))
	parent.Send(buf)

	for i := range parentGot {
		if parentGot[i] != childGot[i] {
			t.Errorf("child should see the same corrected buffer as parent's OnSend")
		}
	}
}

func TestDisabledSinkNeverSends(t *testing.T) {
	var calls int
	sink := New(SenderFunc(func(colors lxcolor.Buffer) { calls++ }))
	sink.Enabled = false
	sink.Send(lxcolor.NewBuffer(1, lxcolor.Black))
	if calls != 0 {
		t.Errorf("disabled sink should never invoke onSend, got %d calls", calls)
	}
}
