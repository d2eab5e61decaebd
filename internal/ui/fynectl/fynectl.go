// Package fynectl is the optional desktop control surface: a Fyne
// window exposing engine parameters as bound widgets, and a live
// thumbnail of the published MAIN frame (SPEC_FULL.md domain stack).
// Every control widget reads and writes through param.Parameter, the
// same substrate the rest of the engine uses; the thumbnail reads the
// published MAIN frame through the engine's MAIN double buffer.
package fynectl

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lxcore/internal/engine"
	"lxcore/internal/lxcolor"
	"lxcore/internal/output"
	"lxcore/internal/param"
)

// Window wraps a running Fyne application window bound to an Engine.
type Window struct {
	app    fyne.App
	win    fyne.Window
	engine *engine.Engine
	stop   chan struct{}
}

// New builds the control surface window for e. Call Run to block and
// pump the Fyne event loop.
func New(e *engine.Engine) *Window {
	a := app.New()
	w := a.NewWindow("lxcore")

	crossfader := boundSlider(e.Crossfader, "Crossfader")
	speed := boundSlider(e.Speed, "Speed")

	cueA := boundCheck(e.CueA, "Cue A")
	cueB := boundCheck(e.CueB, "Cue B")

	sceneButtons := container.NewHBox()
	for i := range e.Scenes {
		p := e.Scenes[i]
		btn := widget.NewButton(sceneLabel(i), func() {
			_ = p.SetBool(true)
		})
		sceneButtons.Add(btn)
	}

	preview := canvas.NewRasterFromImage(image.NewRGBA(image.Rect(0, 0, 256, 32)))
	preview.SetMinSize(fyne.NewSize(256, 32))

	w.SetContent(container.NewVBox(
		widget.NewLabel("lxcore control surface"),
		crossfader,
		speed,
		container.NewHBox(cueA, cueB),
		sceneButtons,
		preview,
	))

	win := &Window{app: a, win: w, engine: e, stop: make(chan struct{})}
	go win.refreshPreview(preview)
	return win
}

// Run blocks pumping the Fyne event loop until the window is closed.
func (w *Window) Run() {
	w.win.ShowAndRun()
	close(w.stop)
}

// refreshPreview redraws the MAIN-frame thumbnail about 15 times a
// second using output.Thumbnail, downsampling the full pixel strip via
// nfnt/resize into the widget's raster. It runs on its own goroutine,
// so it copies the frame under the buffer lock.
func (w *Window) refreshPreview(preview *canvas.Raster) {
	ticker := time.NewTicker(66 * time.Millisecond)
	defer ticker.Stop()
	frame := lxcolor.NewBuffer(w.engine.N, lxcolor.Black)
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.engine.MainBuf.CopyInto(frame)
			img := output.Thumbnail(frame, 256, 32)
			preview.Image = img
			canvas.Refresh(preview)
		}
	}
}

func boundSlider(p *param.Parameter, label string) fyne.CanvasObject {
	s := widget.NewSlider(0, 1)
	s.Value = p.GetValue()
	s.OnChanged = func(v float64) {
		_ = p.SetValue(v)
	}
	return container.NewVBox(widget.NewLabel(label), s)
}

func boundCheck(p *param.Parameter, label string) fyne.CanvasObject {
	c := widget.NewCheck(label, func(v bool) {
		_ = p.SetBool(v)
	})
	c.Checked = p.Bool()
	p.AddListener(param.ListenerFunc(func(p *param.Parameter) {
		c.Checked = p.Bool()
		c.Refresh()
	}))
	return c
}

func sceneLabel(i int) string {
	labels := [5]string{"Scene 1", "Scene 2", "Scene 3", "Scene 4", "Scene 5"}
	return labels[i]
}
