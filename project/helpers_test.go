package project

import (
	"testing"

	"lxcore/internal/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(engine.Config{N: 4})
}
