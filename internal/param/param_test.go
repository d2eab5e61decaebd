package param

import "testing"

func TestBoundedClampsOnSetValue(t *testing.T) {
	p := NewBounded("level", 0.5, 0, 1, Unipolar)
	if err := p.SetValue(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.GetValue(); got != 1 {
		t.Errorf("expected clamp to max 1, got %v", got)
	}
	if err := p.SetValue(-5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.GetValue(); got != 0 {
		t.Errorf("expected clamp to min 0, got %v", got)
	}
}

func TestDiscreteRoundsAndClamps(t *testing.T) {
	p := NewDiscrete("gamma", 0, 4) // [0,4)
	if err := p.SetValue(2.6); err != nil {
		t.Fatal(err)
	}
	if got := p.Int(); got != 3 {
		t.Errorf("expected rounded 3, got %d", got)
	}
	if err := p.SetValue(99); err != nil {
		t.Fatal(err)
	}
	if got := p.Int(); got != 3 {
		t.Errorf("expected clamp to k-1=3, got %d", got)
	}
}

func TestListenerNotifiedSynchronouslyOnChange(t *testing.T) {
	p := NewBounded("fader", 0, 0, 1, Unipolar)
	var notified int
	p.AddListener(ListenerFunc(func(p *Parameter) { notified++ }))

	if err := p.SetValue(0); err != nil {
		t.Fatal(err)
	}
	if notified != 0 {
		t.Errorf("setting to the same value should not notify, got %d calls", notified)
	}

	if err := p.SetValue(0.7); err != nil {
		t.Fatal(err)
	}
	if notified != 1 {
		t.Errorf("expected exactly one notification, got %d", notified)
	}

	p.Bang()
	if notified != 2 {
		t.Errorf("expected bang to force a second notification, got %d", notified)
	}
}

func TestComputedParameterRejectsSetValue(t *testing.T) {
	p := NewBounded("derived", 0, 0, 1, Unipolar)
	p.MarkComputed()
	if err := p.SetValue(1); err == nil {
		t.Fatal("expected contract violation error, got nil")
	}
}

func TestSetComponentIsOneShot(t *testing.T) {
	p := NewBounded("x", 0, 0, 1, Unipolar)
	h := NewHeader("test", nil)
	if err := p.SetComponent(h, "/test/x"); err != nil {
		t.Fatalf("first setComponent should succeed: %v", err)
	}
	if err := p.SetComponent(h, "/test/x"); err == nil {
		t.Fatal("second setComponent should be a contract violation")
	}
}

func TestHeaderRejectsDuplicateParameterKey(t *testing.T) {
	h := NewHeader("chan1", nil)
	if err := h.AddParameter("fader", NewBounded("fader", 1, 0, 1, Unipolar)); err != nil {
		t.Fatal(err)
	}
	if err := h.AddParameter("fader", NewBounded("fader", 1, 0, 1, Unipolar)); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

type constSource float64

func (c constSource) Value() float64 { return float64(c) }

func TestCompoundEffectiveIncludesModulationWithoutMutatingBase(t *testing.T) {
	p := NewCompound("speed", 0.5, 0, 1, Unipolar)
	if err := p.AddModulationSource(constSource(10)); err != nil {
		t.Fatal(err)
	}
	if got := p.Effective(); got != 1 {
		t.Errorf("expected modulated value clamped to max 1, got %v", got)
	}
	if got := p.GetValue(); got != 0.5 {
		t.Errorf("base value should be unaffected by modulation, got %v", got)
	}
}
