// Package lxcolor defines the fixed-length ARGB color point buffer and
// the pure blend-function contract used throughout the engine (spec.md §3).
package lxcolor

import "github.com/lucasb-eyer/go-colorful"

// ARGB is a 32-bit packed color: A in the high byte, then R, G, B.
type ARGB uint32

// RGB packs opaque red, green, blue components into an ARGB value.
func RGB(r, g, b uint8) ARGB {
	return ARGBA(255, r, g, b)
}

// ARGBA packs alpha, red, green, blue components into an ARGB value.
func ARGBA(a, r, g, b uint8) ARGB {
	return ARGB(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Components unpacks an ARGB value into its alpha, red, green, blue bytes.
func (c ARGB) Components() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

const (
	Black ARGB = 0xFF000000
	White ARGB = 0xFFFFFFFF
)

// Buffer is a fixed-length sequence of color points. All working buffers
// in the engine share one length N, allocated once and invariant
// afterwards (spec.md §3 invariant 1).
type Buffer []ARGB

// NewBuffer allocates a buffer of length n filled with fill.
func NewBuffer(n int, fill ARGB) Buffer {
	b := make(Buffer, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

// CopyFrom copies src into dst; both must share length N. It panics on a
// length mismatch, since a buffer-size mismatch is an invariant
// violation, not a recoverable error (spec.md §7).
func CopyFrom(dst, src Buffer) {
	if len(dst) != len(src) {
		panic("lxcolor: buffer length mismatch")
	}
	copy(dst, src)
}

// Clear fills buf with c.
func Clear(buf Buffer, c ARGB) {
	for i := range buf {
		buf[i] = c
	}
}

// BlendFunc is the pure blend contract every pattern/effect/crossfade
// capability exposes: combine src into dst at weight alpha, writing the
// result into out. dst, src, out may alias; implementations must read
// dst/src fully before writing out when they alias out (spec.md §2,
// GLOSSARY "Blend").
type BlendFunc func(dst, src Buffer, alpha float64, out Buffer)

// Normal overwrites dst with src scaled toward dst by alpha — the
// identity/"NORMAL" blend used in boundary-behavior tests (spec.md §8).
func Normal(dst, src Buffer, alpha float64, out Buffer) {
	for i := range out {
		if len(dst) == 0 {
			out[i] = lerp(0, src[i], alpha)
			continue
		}
		out[i] = lerp(dst[i], src[i], alpha)
	}
}

// Add additively blends src into dst at weight alpha (used for cue and
// crossfade accumulation, spec.md §4.3).
func Add(dst, src Buffer, alpha float64, out Buffer) {
	for i := range out {
		da, dr, dg, db := dst[i].Components()
		sa, sr, sg, sb := src[i].Components()
		a := addChannel(da, sa, alpha)
		r := addChannel(dr, sr, alpha)
		g := addChannel(dg, sg, alpha)
		b := addChannel(db, sb, alpha)
		out[i] = ARGBA(a, r, g, b)
	}
}

// Dissolve cross-dissolves dst and src by alpha, used by the
// crossfaderBlendMode in the two-channel crossfade test scenario
// (spec.md §8 scenario 2).
func Dissolve(dst, src Buffer, alpha float64, out Buffer) {
	for i := range out {
		out[i] = lerp(dst[i], src[i], alpha)
	}
}

func lerp(dst, src ARGB, alpha float64) ARGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	da, dr, dg, db := dst.Components()
	sa, sr, sg, sb := src.Components()
	a := lerpChannel(da, sa, alpha)
	r := lerpChannel(dr, sr, alpha)
	g := lerpChannel(dg, sg, alpha)
	b := lerpChannel(db, sb, alpha)
	return ARGBA(a, r, g, b)
}

func lerpChannel(d, s uint8, alpha float64) uint8 {
	v := float64(d) + (float64(s)-float64(d))*alpha
	return clampByte(v)
}

func addChannel(d, s uint8, alpha float64) uint8 {
	v := float64(d) + float64(s)*alpha
	return clampByte(v)
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ApplyHSBCorrection converts c to HSB, squares the brightness (value)
// channel gamma times (so v becomes v^(2^gamma)) and scales it by
// brightness, then converts back to ARGB. This backs the Output Stage's
// NORMAL-mode per-pixel correction (spec.md §4.5 step 2), implemented
// with go-colorful's Hsv conversion rather than a hand-rolled routine.
func ApplyHSBCorrection(c ARGB, gamma int, brightness float64) ARGB {
	a, r, g, b := c.Components()
	cc := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := cc.Hsv()
	for i := 0; i < gamma; i++ {
		v *= v
	}
	v *= brightness
	corrected := colorful.Hsv(h, s, v)
	cr, cg, cb := corrected.Clamped().RGB255()
	return ARGBA(a, cr, cg, cb)
}

// WhiteAtBrightness returns opaque HSB white scaled by brightness, used
// by the Output Stage's WHITE sink mode (spec.md §4.5 step 2).
func WhiteAtBrightness(brightness float64) ARGB {
	v := colorful.Hsv(0, 0, brightness)
	r, g, b := v.Clamped().RGB255()
	return ARGBA(255, r, g, b)
}
