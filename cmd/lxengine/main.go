// Command lxengine hosts the lighting engine: it loads a TOML config,
// builds an Engine, wires an SDL2 preview sink and an optional
// websocket network sink, and runs the frame scheduler loop. Its flag
// handling and logger setup follow the teacher's cmd/emulator/main.go.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lxcore/internal/config"
	"lxcore/internal/debug"
	"lxcore/internal/engine"
	"lxcore/internal/output"
	"lxcore/internal/output/sdlsink"
	"lxcore/internal/output/wssink"
)

func main() {
	configPath := flag.String("config", "", "Path to engine.toml config file")
	enableLogging := flag.Bool("log", false, "Enable logging (disabled by default)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	e := engine.New(engine.Config{N: cfg.PixelCount, FramesPerSecond: cfg.FramesPerSecond})

	if *enableLogging {
		e.Logger.SetComponentEnabled(debug.ComponentScheduler, true)
		e.Logger.SetComponentEnabled(debug.ComponentChannel, true)
		e.Logger.SetComponentEnabled(debug.ComponentMixer, true)
		e.Logger.SetComponentEnabled(debug.ComponentOutput, true)
		e.Logger.SetComponentEnabled(debug.ComponentParam, true)
		e.Logger.SetComponentEnabled(debug.ComponentTask, true)
		e.Logger.SetComponentEnabled(debug.ComponentSystem, true)
	}

	root := buildOutputTree(e, cfg)
	e.SetOutputRoot(root)

	e.AddChannel()
	e.AddChannel()

	fmt.Println("lxcore lighting engine")
	fmt.Println("======================")
	fmt.Printf("pixels=%d fps=%.0f channels=%d\n", cfg.PixelCount, cfg.FramesPerSecond, len(e.Channels))

	if err := e.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting engine: %v\n", err)
		os.Exit(1)
	}
	defer e.Logger.Shutdown()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = e.Stop()
}

// buildOutputTree assembles the root output.Sink from config, attaching
// an SDL2 preview child sink and, if enabled, a websocket network sink
// served over HTTP (spec.md §4.5 fan-out tree).
func buildOutputTree(e *engine.Engine, cfg config.Config) *output.Sink {
	root := output.New(nil)

	if cfg.Output.Preview.Enabled {
		sink, err := sdlsink.New("lxcore preview", cfg.PixelCount, 800, 120)
		if err == nil {
			previewSink := output.New(sink)
			previewSink.GammaCorrection = cfg.Output.Preview.GammaCorrection
			previewSink.Brightness = cfg.Output.Preview.Brightness
			root.AddChild(previewSink)
		}
	}

	if cfg.Output.Network.Enabled {
		ws := wssink.New()
		http.HandleFunc("/ws", ws.Handler)
		go func() {
			_ = http.ListenAndServe(cfg.Output.Network.Addr, nil)
		}()
		networkSink := output.New(ws)
		root.AddChild(networkSink)
	}

	return root
}
