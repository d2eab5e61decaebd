package lxcolor

import "testing"

func TestRGBIsFullyOpaque(t *testing.T) {
	c := RGB(10, 20, 30)
	a, r, g, b := c.Components()
	if a != 255 || r != 10 || g != 20 || b != 30 {
		t.Fatalf("got a=%d r=%d g=%d b=%d, want a=255 r=10 g=20 b=30", a, r, g, b)
	}
}

func TestCopyFromPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on buffer length mismatch")
		}
	}()
	CopyFrom(NewBuffer(2, Black), NewBuffer(3, Black))
}

func TestNormalAtZeroAlphaLeavesDstUnchanged(t *testing.T) {
	dst := NewBuffer(1, White)
	src := NewBuffer(1, Black)
	out := NewBuffer(1, Black)
	Normal(dst, src, 0, out)
	if out[0] != White {
		t.Fatalf("expected dst to pass through unchanged at alpha 0, got %#x", out[0])
	}
}

func TestNormalAtOneAlphaEqualsSrc(t *testing.T) {
	dst := NewBuffer(1, White)
	src := NewBuffer(1, Black)
	out := NewBuffer(1, Black)
	Normal(dst, src, 1, out)
	if out[0] != Black {
		t.Fatalf("expected src to pass through unchanged at alpha 1, got %#x", out[0])
	}
}

func TestAddAccumulatesTowardWhiteCeiling(t *testing.T) {
	dst := NewBuffer(1, RGB(200, 200, 200))
	src := NewBuffer(1, RGB(200, 200, 200))
	out := NewBuffer(1, Black)
	Add(dst, src, 1, out)
	_, r, g, b := out[0].Components()
	if r != 255 || g != 255 || b != 255 {
		t.Fatalf("expected additive blend to clamp at 255, got r=%d g=%d b=%d", r, g, b)
	}
}

func TestDissolveAtHalfAlphaAverages(t *testing.T) {
	dst := NewBuffer(1, RGB(0, 0, 0))
	src := NewBuffer(1, RGB(200, 200, 200))
	out := NewBuffer(1, Black)
	Dissolve(dst, src, 0.5, out)
	_, r, _, _ := out[0].Components()
	if r != 100 {
		t.Fatalf("expected dissolve at 0.5 to average to 100, got %d", r)
	}
}

func TestApplyHSBCorrectionAtZeroBrightnessIsBlack(t *testing.T) {
	c := ApplyHSBCorrection(RGB(255, 255, 255), 1, 0)
	_, r, g, b := c.Components()
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected zero brightness to produce black, got r=%d g=%d b=%d", r, g, b)
	}
}

func TestWhiteAtBrightnessIsGrayscale(t *testing.T) {
	c := WhiteAtBrightness(0.5)
	_, r, g, b := c.Components()
	if r != g || g != b {
		t.Fatalf("expected a neutral gray, got r=%d g=%d b=%d", r, g, b)
	}
}
