package engine

import (
	"sync"
	"time"

	"lxcore/internal/channel"
	"lxcore/internal/debug"
	"lxcore/internal/lxcolor"
	"lxcore/internal/mixer"
	"lxcore/internal/output"
)

// scheduler is the Frame Scheduler of spec.md §4.1: it owns timing
// state, engine-thread lifecycle, per-channel worker pool, and the
// network-thread variant, serializing all mode transitions under modeMu
// so the render loop never observes a torn thread-mode flag (spec.md §3
// invariant 6).
type scheduler struct {
	e *Engine

	lastMillis   float64
	haveLast     bool
	fixedDeltaMs float64

	paused bool

	measuredFPS float64

	modeMu sync.Mutex

	engineThreadRunning bool
	engineStop          chan struct{}
	engineWG            sync.WaitGroup

	workers map[*channel.Channel]*channel.Worker

	networkWorker  *output.NetworkWorker
	networkStarted bool
	outputRoot     *output.Sink
}

func newScheduler(e *Engine) *scheduler {
	return &scheduler{
		e:       e,
		workers: make(map[*channel.Channel]*channel.Worker),
	}
}

// SetFixedDeltaMs forces deterministic per-frame time advancement,
// overriding the wall clock (spec.md §4.1 step 2, used for the
// determinism property of spec.md §8).
func (e *Engine) SetFixedDeltaMs(d float64) {
	e.sched.fixedDeltaMs = d
}

// SetPaused pauses/unpauses the run loop (spec.md §4.1 step 3).
func (e *Engine) SetPaused(p bool) {
	e.sched.paused = p
}

// Paused reports the current pause state.
func (e *Engine) Paused() bool { return e.sched.paused }

// GetFPS returns the last measured frame rate.
func (e *Engine) GetFPS() float64 { return e.sched.measuredFPS }

// SetOutputRoot attaches the root output sink the scheduler dispatches
// the published MAIN frame to (spec.md §4.1 step 13).
func (e *Engine) SetOutputRoot(root *output.Sink) {
	e.sched.outputRoot = root
	if root != nil {
		root.SetLogger(e.Logger)
	}
}

// Run advances one frame synchronously; this is the non-threaded host
// entry point (spec.md §6 "run()").
func (e *Engine) Run() {
	e.sched.run()
}

// run executes the full per-frame contract of spec.md §4.1.
func (s *scheduler) run() {
	e := s.e

	nowMs := now()
	var deltaMs float64
	if !s.haveLast {
		deltaMs = 16
		s.haveLast = true
	} else {
		deltaMs = nowMs - s.lastMillis
	}
	s.lastMillis = nowMs

	if s.fixedDeltaMs > 0 {
		deltaMs = s.fixedDeltaMs
	}

	if s.paused {
		return
	}

	if e.MIDI != nil {
		e.MIDI.Dispatch()
	}
	if e.OSC != nil {
		e.OSC.Dispatch()
	}
	if e.UI != nil {
		e.UI.Dispatch()
	}

	if e.Tempo != nil {
		e.Tempo.Tick(deltaMs)
	}
	if e.Audio != nil {
		e.Audio.Tick(deltaMs)
	}

	scaledMs := deltaMs * e.Speed.GetValue()

	if e.Modulation != nil {
		e.Modulation.Tick(scaledMs)
	}
	if e.Palette != nil {
		e.Palette.Tick(scaledMs)
	}
	e.LoopTasks.TickAll(scaledMs)

	e.Tasks.RunAll()

	s.runChannelPipeline(scaledMs)
	s.runMixer(scaledMs)

	cueOn := s.anyCueActive()
	threaded := e.EngineThreaded.Bool() || e.NetworkThreaded.Bool()

	lxcolor.CopyFrom(e.MainBuf.Render(), e.Mixer.Main)
	lxcolor.CopyFrom(e.CueBuf.Render(), e.Mixer.Cue)
	e.MainBuf.Flip(cueOn, threaded)
	e.CueBuf.Flip(cueOn, threaded)

	s.dispatchOutput()
}

func (s *scheduler) anyCueActive() bool {
	e := s.e
	if e.CueA.Bool() || e.CueB.Bool() {
		return true
	}
	for _, c := range e.Channels {
		if c.CueActive {
			return true
		}
	}
	return false
}

func (s *scheduler) runChannelPipeline(dtMs float64) {
	e := s.e

	// Group sub-channels are looped through their group below, so any
	// that also remain in e.Channels (Group.AddChild does not remove a
	// channel from the top-level list) are skipped here; each channel
	// advances/renders exactly once per frame (spec.md §3, §4.2).
	loopable := make([]*channel.Channel, 0, len(e.Channels))
	for _, c := range e.Channels {
		if c.Group() == nil {
			loopable = append(loopable, c)
		}
	}
	for _, g := range e.Groups {
		loopable = append(loopable, g.Children...)
	}

	if e.ChannelThreaded.Bool() {
		for _, c := range loopable {
			s.workerFor(c).RequestWork(dtMs)
		}
		for _, c := range loopable {
			s.workerFor(c).WaitDone()
		}
	} else {
		for _, c := range loopable {
			c.Loop(dtMs)
		}
	}

	for _, g := range e.Groups {
		g.Composite(e.Mixer.Background)
	}
}

func (s *scheduler) workerFor(c *channel.Channel) *channel.Worker {
	w, ok := s.workers[c]
	if !ok {
		w = channel.NewWorker(c)
		s.workers[c] = w
	}
	return w
}

func (s *scheduler) runMixer(dtMs float64) {
	e := s.e
	// Only top-level channels are mixed: a group sub-channel left in
	// e.Channels is skipped, because its output already reaches the
	// mixer through its group's buffer, composited above.
	inputs := make([]mixer.Input, 0, len(e.Channels))
	for _, c := range e.Channels {
		if c.Group() != nil {
			continue
		}
		inputs = append(inputs, mixer.Input{
			Colors:         c.Colors,
			Fader:          c.Fader.GetValue(),
			BlendMode:      c.BlendMode,
			CrossfadeGroup: c.CrossfadeGroup,
			Enabled:        c.Enabled.Bool(),
			Animating:      c.IsAnimating(),
			CueActive:      c.CueActive,
		})
	}
	e.Mixer.Mix(inputs, e.Crossfader.Effective(), e.CueA.Bool(), e.CueB.Bool())
	e.Mixer.ApplyMasterEffects(dtMs, e.Master)
}

func (s *scheduler) dispatchOutput() {
	e := s.e
	if e.NetworkThreaded.Bool() && s.networkWorker != nil {
		s.networkWorker.Notify()
		return
	}
	if s.outputRoot != nil {
		buf := lxcolor.NewBuffer(e.N, lxcolor.Black)
		e.MainBuf.CopyInto(buf)
		s.outputRoot.Send(buf)
	}
}

func (s *scheduler) startNetworkThreadOnce() {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	if s.networkStarted || s.outputRoot == nil {
		return
	}
	s.networkStarted = true
	s.networkWorker = output.NewNetworkWorker(s.outputRoot, s.e.MainBuf, s.e.N)
	go s.networkWorker.Run()
	s.e.Logger.LogOutput(debug.LogLevelInfo, "network output thread started", nil)
}

// --- engine-threaded lifecycle ---

// Start launches the dedicated engine thread, which repeatedly calls
// run() with per-iteration sleep honoring framesPerSecond (spec.md §4.1
// "engineThreaded", §6 "start()"). Starting synchronizes both double
// buffers first so consumers never observe a half-written frame.
func (e *Engine) Start() error {
	s := e.sched
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	if s.engineThreadRunning {
		return nil
	}
	e.MainBuf.Sync()
	e.CueBuf.Sync()
	_ = e.EngineThreaded.SetBool(true)
	s.engineThreadRunning = true
	s.engineStop = make(chan struct{})
	s.engineWG.Add(1)
	go s.engineLoop()
	e.Logger.LogScheduler(debug.LogLevelInfo, "engine thread started", nil)
	return nil
}

// Stop ends the dedicated engine thread, blocking until it exits
// (spec.md §5 "Cancellation").
func (e *Engine) Stop() error {
	s := e.sched
	s.modeMu.Lock()
	if !s.engineThreadRunning {
		s.modeMu.Unlock()
		return nil
	}
	close(s.engineStop)
	s.engineThreadRunning = false
	_ = e.EngineThreaded.SetBool(false)
	s.modeMu.Unlock()

	s.engineWG.Wait()
	e.Logger.LogScheduler(debug.LogLevelInfo, "engine thread stopped", nil)
	return nil
}

func (s *scheduler) engineLoop() {
	defer s.engineWG.Done()
	e := s.e
	for {
		select {
		case <-s.engineStop:
			return
		default:
		}

		frameStart := time.Now()
		s.run()

		target := e.FPS.GetValue()
		if target > 0 {
			elapsedMs := float64(time.Since(frameStart).Microseconds()) / 1000
			budgetMs := 1000 / target
			s.measuredFPS = minFloat(1000/maxFloat(elapsedMs, 0.001), target)
			if elapsedMs < budgetMs {
				time.Sleep(time.Duration((budgetMs - elapsedMs) * float64(time.Millisecond)))
			}
		}
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
