// Package sdlsink is a real-time preview output sink: it blits the
// engine's corrected ARGB buffer into an SDL2 window every frame,
// grounded on the teacher's SDL2 framebuffer blit in
// internal/ui/ui_render.go (see DESIGN.md).
package sdlsink

import (
	"fmt"

	"lxcore/internal/lxcolor"

	"github.com/veandco/go-sdl2/sdl"
)

// Sink owns an SDL2 window/renderer/texture sized to a 1-D strip of n
// color points rendered as an n×1 stretched texture.
type Sink struct {
	n        int
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []uint32
}

// New creates an SDL2 window of the given display size showing n color
// points stretched to fill it. Call Close when done.
func New(title string, n, width, height int) (*Sink, error) {
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdlsink: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("sdlsink: create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, int32(n), 1)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("sdlsink: create texture: %w", err)
	}

	return &Sink{
		n:        n,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]uint32, n),
	}, nil
}

// OnSend implements output.Sender: it uploads colors into the streaming
// texture and presents a scaled copy to the window.
func (s *Sink) OnSend(colors lxcolor.Buffer) {
	if len(colors) != s.n {
		return
	}
	for i, c := range colors {
		s.pixels[i] = uint32(c)
	}

	if err := s.texture.Update(nil, pixelsToBytes(s.pixels), s.n*4); err != nil {
		return
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

// Close tears down the SDL2 resources.
func (s *Sink) Close() {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
}

func pixelsToBytes(px []uint32) []byte {
	out := make([]byte, len(px)*4)
	for i, v := range px {
		out[i*4+0] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	return out
}
