package dbuf

import (
	"testing"

	"lxcore/internal/lxcolor"
)

func TestFlipExposesJustWrittenFrameOnCopySide(t *testing.T) {
	d := New(4)
	lxcolor.Clear(d.Render(), lxcolor.RGB(1, 2, 3))
	d.Flip(false, true)

	dest := lxcolor.NewBuffer(4, lxcolor.Black)
	d.CopyInto(dest)
	for i, v := range dest {
		if v != lxcolor.RGB(1, 2, 3) {
			t.Errorf("pixel %d: expected written frame after flip, got %#x", i, v)
		}
	}
}

func TestCopyLengthAlwaysMatchesN(t *testing.T) {
	d := New(16)
	dest := lxcolor.NewBuffer(16, lxcolor.Black)
	d.CopyInto(dest)
	if len(dest) != 16 {
		t.Fatalf("expected copy length 16, got %d", len(dest))
	}
}

func TestSyncThenFlipPromotesRenderBeforeNextFrame(t *testing.T) {
	d := New(2)
	lxcolor.Clear(d.Render(), lxcolor.RGB(9, 9, 9))
	d.Sync()
	d.Flip(false, true)

	dest := lxcolor.NewBuffer(2, lxcolor.Black)
	d.CopyInto(dest)
	for _, v := range dest {
		if v != lxcolor.RGB(9, 9, 9) {
			t.Errorf("expected sync+flip to promote the pre-threaded frame, got %#x", v)
		}
	}
}

func TestCueOnFlagReflectsLastFlip(t *testing.T) {
	d := New(1)
	d.Flip(true, true)
	if !d.CueOn() {
		t.Error("expected cueOn true after flip(true)")
	}
	d.Flip(false, true)
	if d.CueOn() {
		t.Error("expected cueOn false after flip(false)")
	}
}
