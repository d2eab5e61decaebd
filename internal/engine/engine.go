// Package engine implements the Engine state, Frame Scheduler, and
// listener/scene plumbing of spec.md §3, §4.1, §4.7: it is the
// composition root that wires param, channel, mixer, dbuf, output, and
// task into one frame-scheduled lighting engine.
package engine

import (
	"fmt"
	"time"

	"lxcore/internal/channel"
	"lxcore/internal/dbuf"
	"lxcore/internal/debug"
	"lxcore/internal/lxcolor"
	"lxcore/internal/mixer"
	"lxcore/internal/param"
	"lxcore/internal/task"
)

// Ticker is the out-of-scope tick(dt) collaborator contract shared by
// tempo, audio, modulation, and palette (spec.md §1, §4.1 step 5/7).
type Ticker interface {
	Tick(deltaMs float64)
}

// TickerFunc adapts a function to Ticker.
type TickerFunc func(deltaMs float64)

func (f TickerFunc) Tick(deltaMs float64) { f(deltaMs) }

// InputPump is an out-of-scope "event pump" hook invoked once per
// frame. The Engine has three of them (MIDI, OSC, UI) and no other
// pump slot — spec.md §1, §4.1 step 4.
type InputPump interface {
	Dispatch()
}

// InputPumpFunc adapts a function to InputPump.
type InputPumpFunc func()

func (f InputPumpFunc) Dispatch() { f() }

// Listener observes structural channel-list changes (spec.md §4.7).
type Listener interface {
	ChannelAdded(c *channel.Channel, index int)
	ChannelRemoved(c *channel.Channel, index int)
	ChannelMoved(c *channel.Channel, from, to int)
}

// Engine owns the ordered channel list, the master channel, the double
// buffers, the mixer, the output tree, and the task queue, and drives
// the per-frame run loop (spec.md §3).
type Engine struct {
	Root   *param.Header // the "/lx" address-space root (spec.md §6)
	Header *param.Header
	Logger *debug.Logger

	N int // fixed pixel-buffer length

	Channels []*channel.Channel
	Groups   []*channel.Group
	Master   *channel.Master

	Mixer *mixer.Mixer

	MainBuf *dbuf.DoubleBuffer
	CueBuf  *dbuf.DoubleBuffer

	Crossfader *param.Parameter
	CueA       *param.Parameter
	CueB       *param.Parameter
	Speed      *param.Parameter
	FPS        *param.Parameter

	FocusedChannel      int
	FocusedChannelParam *param.Parameter // bounded mirror of FocusedChannel, set on reindex and banged on removal (spec.md §4.7)
	FocusedClip         int
	Scenes              [5]*param.Parameter

	// Thread-mode flags; transitions are serialized under modeMu
	// (spec.md §3 invariant 6, §4.1 "Engine-thread modes").
	EngineThreaded   *param.Parameter
	ChannelThreaded  *param.Parameter
	NetworkThreaded  *param.Parameter

	Tasks      *task.Queue
	LoopTasks  *task.Registry

	MIDI, OSC, UI InputPump
	Tempo, Audio, Modulation, Palette Ticker

	listeners []Listener

	sched *scheduler
}

// Config carries construction-time parameters, typically loaded from a
// TOML file by internal/config (spec.md SPEC_FULL ambient stack).
type Config struct {
	N               int
	FramesPerSecond float64
}

// New constructs an Engine with all buffers allocated at length
// cfg.N and every sub-collaborator wired, following the teacher's fixed
// global-init order: buffers -> blends(mixer) -> master channel ->
// listeners -> logger-backed subsystems (spec.md §9 "Global init
// ordering").
func New(cfg Config) *Engine {
	if cfg.N <= 0 {
		cfg.N = 1
	}
	if cfg.FramesPerSecond <= 0 {
		cfg.FramesPerSecond = 60
	}

	// Root is the "/lx" address-space root; the engine itself mounts
	// under it as "/lx/engine" and siblings (e.g. the output subsystem
	// at "/lx/output") mount under the same root (spec.md §6).
	root := param.NewHeader("lx", nil)
	h := param.NewHeader("engine", root)
	e := &Engine{
		Root:            root,
		Header:          h,
		Logger:          debug.NewLogger(10000),
		N:               cfg.N,
		Mixer:           mixer.New(cfg.N),
		MainBuf:         dbuf.New(cfg.N),
		CueBuf:          dbuf.New(cfg.N),
		Crossfader:      param.NewCompound("crossfader", 0.5, 0, 1, param.Bipolar),
		CueA:            param.NewBoolean("cueA", false),
		CueB:            param.NewBoolean("cueB", false),
		Speed:           param.NewBounded("speed", 1, 0, 2, param.Unipolar),
		FPS:             param.NewBounded("framesPerSecond", cfg.FramesPerSecond, 0, 300, param.Unipolar),
		EngineThreaded:  param.NewBoolean("engineThreaded", false),
		ChannelThreaded: param.NewBoolean("channelThreaded", false),
		NetworkThreaded: param.NewBoolean("networkThreaded", false),
		Tasks:           task.NewQueue(),
		LoopTasks:       task.NewRegistry(),
	}
	_ = h.AddParameter("crossfader", e.Crossfader)
	_ = h.AddParameter("cueA", e.CueA)
	_ = h.AddParameter("cueB", e.CueB)
	_ = h.AddParameter("speed", e.Speed)
	_ = h.AddParameter("framesPerSecond", e.FPS)

	e.Master = channel.NewMaster(h)

	e.FocusedChannelParam = param.NewBounded("focusedChannel", 0, 0, 0, param.Unipolar)
	_ = h.AddParameter("focusedChannel", e.FocusedChannelParam)

	for i := range e.Scenes {
		e.Scenes[i] = param.NewBoolean(fmt.Sprintf("scene%d", i+1), false)
		_ = h.AddParameter(fmt.Sprintf("scene%d", i+1), e.Scenes[i])
		idx := i
		e.Scenes[i].AddListener(param.ListenerFunc(func(p *param.Parameter) {
			if p.Bool() {
				e.launchScene(idx)
				_ = p.SetBool(false)
			}
		}))
	}

	e.Mixer.SetLogger(e.Logger)
	e.Tasks.SetLogger(e.Logger)
	e.LoopTasks.SetLogger(e.Logger)

	e.wireCueMutualExclusion()
	e.wireNetworkLatch()

	e.sched = newScheduler(e)

	return e
}

// wireCueMutualExclusion implements the cueA/cueB cross-reset as a
// synchronous listener cascade: setting one cue bus true resets the
// other within the same call stack (spec.md §8 determinism property).
// Safe against unbounded recursion because the counterpart's listener
// only re-fires when its own bus is still true, which is already false
// by the time its SetBool(false) call returns.
func (e *Engine) wireCueMutualExclusion() {
	e.CueA.AddListener(param.ListenerFunc(func(p *param.Parameter) {
		if p.Bool() && e.CueB.Bool() {
			_ = e.CueB.SetBool(false)
		}
	}))
	e.CueB.AddListener(param.ListenerFunc(func(p *param.Parameter) {
		if p.Bool() && e.CueA.Bool() {
			_ = e.CueA.SetBool(false)
		}
	}))
}

// wireNetworkLatch starts the network thread the first time
// networkThreaded becomes true; it is a one-way latch (spec.md §9 open
// question — the source never stops it symmetrically, so we document
// the behavior rather than silently diverge from it).
func (e *Engine) wireNetworkLatch() {
	e.NetworkThreaded.AddListener(param.ListenerFunc(func(p *param.Parameter) {
		if p.Bool() {
			e.sched.startNetworkThreadOnce()
		}
	}))
}

// AddListener registers an engine structural-change listener.
func (e *Engine) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

// AddTask enqueues a one-shot engine-thread action from any thread
// (spec.md §6).
func (e *Engine) AddTask(r task.Runnable) {
	e.Tasks.Add(r)
}

// AddLoopTask registers a per-frame hook (spec.md §6). Duplicate
// registration of the same task is a contract violation.
func (e *Engine) AddLoopTask(t task.LoopTask) error {
	return e.LoopTasks.Add(t)
}

// RemoveLoopTask unregisters a per-frame hook.
func (e *Engine) RemoveLoopTask(t task.LoopTask) {
	e.LoopTasks.Remove(t)
}

// CopyUIBuffer copies the current consumer-visible MAIN/CUE frame into
// dest under the buffer lock (threaded hosts) — spec.md §6.
func (e *Engine) CopyUIBuffer(dest lxcolor.Buffer) {
	if e.MainBuf.CueOn() {
		e.CueBuf.CopyInto(dest)
		return
	}
	e.MainBuf.CopyInto(dest)
}

// GetUIBufferNonThreadSafe returns the last published MAIN/CUE frame
// directly, without a lock or a copy, for non-threaded hosts (spec.md §6).
func (e *Engine) GetUIBufferNonThreadSafe() lxcolor.Buffer {
	if e.MainBuf.CueOn() {
		return e.CueBuf.RenderNonThreadSafe()
	}
	return e.MainBuf.RenderNonThreadSafe()
}

// now returns the current wall-clock time in milliseconds, the engine's
// single seam onto the wall clock (spec.md §4.1 step 1).
func now() float64 {
	return float64(time.Now().UnixNano()) / 1e6
}
