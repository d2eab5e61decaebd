// Package param implements the typed, observable parameter substrate
// that every addressable component in the engine is built from.
package param

import (
	"fmt"
	"math"
	"sync"
)

// Polarity describes whether a parameter's useful range is one- or two-sided.
type Polarity int

const (
	Unipolar Polarity = iota
	Bipolar
)

// Kind identifies the underlying value representation of a Parameter.
type Kind int

const (
	KindBounded Kind = iota
	KindCompound
	KindBoolean
	KindDiscrete
	KindEnum
	KindObject
)

// Listener is notified synchronously, on the mutating thread, whenever a
// Parameter's value changes.
type Listener interface {
	OnParameterChanged(p *Parameter)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(p *Parameter)

func (f ListenerFunc) OnParameterChanged(p *Parameter) { f(p) }

// Owner is the minimal contract a Component must satisfy to own
// parameters; it is implemented by Header.
type Owner interface {
	Path() string
}

// ModulationSource contributes a [-1,1] (bipolar) or [0,1] (unipolar)
// offset to a compound parameter each time Effective is read, mirroring the engine's
// out-of-scope modulation graph collaborator (spec.md §2/§4.6).
type ModulationSource interface {
	Value() float64
}

// Parameter is a named, typed, observable value. Exactly one of its
// fields is meaningful for a given Kind; the rest are zero.
type Parameter struct {
	mu sync.Mutex

	name     string
	kind     Kind
	polarity Polarity
	units    string

	// bounded / compound
	value    float64
	min, max float64

	// compound-only: layered modulation sources, summed and clamped
	// on top of the base value by Effective.
	modSources []ModulationSource

	// boolean
	boolValue bool

	// discrete: integer in [0,k)
	intValue int
	k        int

	// enum
	enumOptions []string
	enumIndex   int

	// object: pointer to one of a fixed set of owned instances
	objOptions []interface{}
	objIndex   int

	computed bool // true if this parameter rejects direct SetValue

	owner     Owner
	path      string
	ownerSet  bool

	listeners []Listener
}

// NewBounded creates a real-valued parameter clamped to [min,max].
func NewBounded(name string, value, min, max float64, polarity Polarity) *Parameter {
	p := &Parameter{name: name, kind: KindBounded, min: min, max: max, polarity: polarity}
	p.value = clamp(value, min, max)
	return p
}

// NewCompound creates a bounded real parameter that additionally accepts
// layered modulation sources (spec.md §3 "compound real").
func NewCompound(name string, value, min, max float64, polarity Polarity) *Parameter {
	p := NewBounded(name, value, min, max, polarity)
	p.kind = KindCompound
	return p
}

// NewBoolean creates a boolean parameter.
func NewBoolean(name string, value bool) *Parameter {
	return &Parameter{name: name, kind: KindBoolean, boolValue: value}
}

// NewDiscrete creates an integer parameter constrained to [0,k).
func NewDiscrete(name string, value, k int) *Parameter {
	p := &Parameter{name: name, kind: KindDiscrete, k: k}
	p.intValue = clampInt(value, 0, k-1)
	return p
}

// NewEnum creates a parameter restricted to a fixed set of string options.
func NewEnum(name string, options []string, index int) *Parameter {
	return &Parameter{name: name, kind: KindEnum, enumOptions: options, enumIndex: clampInt(index, 0, len(options)-1)}
}

// NewObject creates a parameter whose value is one of a fixed set of
// owned instances (e.g. the active blend mode implementation).
func NewObject(name string, options []interface{}, index int) *Parameter {
	return &Parameter{name: name, kind: KindObject, objOptions: options, objIndex: clampInt(index, 0, len(options)-1)}
}

// Name returns the parameter's key within its owning component.
func (p *Parameter) Name() string { return p.name }

// Kind reports the parameter's underlying representation.
func (p *Parameter) Kind() Kind { return p.kind }

// Polarity reports the parameter's polarity metadata.
func (p *Parameter) Polarity() Polarity { return p.polarity }

// SetRange adjusts a bounded/compound parameter's range and re-clamps
// its current value into it, without notifying listeners. Used by the
// engine to keep focusedChannel's upper bound in sync with the channel
// count as channels are added/removed (spec.md §4.7, §3 invariant 5).
func (p *Parameter) SetRange(min, max float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.min, p.max = min, max
	p.value = clamp(p.value, min, max)
}

// SetUnits attaches units metadata (e.g. "ms", "Hz").
func (p *Parameter) SetUnits(u string) { p.units = u }

// Units returns the units metadata.
func (p *Parameter) Units() string { return p.units }

// MarkComputed flags this parameter as derived; SetValue then returns a
// contract-violation error instead of mutating it (spec.md §7).
func (p *Parameter) MarkComputed() { p.computed = true }

// SetComponent binds the parameter to its owning component and path.
// It is one-shot: a second call is a contract violation.
func (p *Parameter) SetComponent(owner Owner, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ownerSet {
		return fmt.Errorf("param %q: setComponent called twice: contract violation", p.name)
	}
	p.owner = owner
	p.path = path
	p.ownerSet = true
	return nil
}

// Path returns the parameter's stable path, empty if not yet bound.
func (p *Parameter) Path() string { return p.path }

// AddListener registers l to be notified synchronously on change.
func (p *Parameter) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// RemoveListener unregisters l, if present.
func (p *Parameter) RemoveListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.listeners {
		if existing == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// Bang force-notifies all listeners without changing the value.
func (p *Parameter) Bang() {
	p.notify()
}

func (p *Parameter) notify() {
	p.mu.Lock()
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()
	for _, l := range listeners {
		l.OnParameterChanged(p)
	}
}

// SetValue sets the parameter's value, clamping/quantizing per its Kind,
// and notifies listeners if the clamped value differs from the prior one.
func (p *Parameter) SetValue(v float64) error {
	if p.computed {
		return fmt.Errorf("param %q: setValue on a computed parameter: contract violation", p.name)
	}
	changed := p.setValueSilent(v)
	if changed {
		p.notify()
	}
	return nil
}

// setValueSilent applies the clamped/quantized value without notifying,
// returning whether the stored value changed.
func (p *Parameter) setValueSilent(v float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.kind {
	case KindBounded, KindCompound:
		nv := clamp(v, p.min, p.max)
		if nv == p.value {
			return false
		}
		p.value = nv
		return true
	case KindDiscrete:
		ni := clampInt(int(math.Round(v)), 0, p.k-1)
		if ni == p.intValue {
			return false
		}
		p.intValue = ni
		return true
	case KindBoolean:
		nb := v != 0
		if nb == p.boolValue {
			return false
		}
		p.boolValue = nb
		return true
	}
	return false
}

// GetValue returns the current value as float64 (base value for
// compound parameters, excluding modulation contribution).
func (p *Parameter) GetValue() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.kind {
	case KindBounded, KindCompound:
		return p.value
	case KindDiscrete:
		return float64(p.intValue)
	case KindBoolean:
		if p.boolValue {
			return 1
		}
		return 0
	}
	return 0
}

// GetValuef is the single-precision variant of GetValue.
func (p *Parameter) GetValuef() float32 { return float32(p.GetValue()) }

// SetBool is a typed convenience for KindBoolean parameters.
func (p *Parameter) SetBool(v bool) error {
	if v {
		return p.SetValue(1)
	}
	return p.SetValue(0)
}

// Bool returns the current boolean value.
func (p *Parameter) Bool() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.boolValue
}

// Int returns the current discrete value.
func (p *Parameter) Int() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intValue
}

// SetEnumIndex selects an enum option by index.
func (p *Parameter) SetEnumIndex(i int) error {
	if p.kind != KindEnum {
		return fmt.Errorf("param %q: not an enum parameter", p.name)
	}
	p.mu.Lock()
	ni := clampInt(i, 0, len(p.enumOptions)-1)
	changed := ni != p.enumIndex
	p.enumIndex = ni
	p.mu.Unlock()
	if changed {
		p.notify()
	}
	return nil
}

// EnumString returns the currently selected enum option.
func (p *Parameter) EnumString() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.enumOptions) == 0 {
		return ""
	}
	return p.enumOptions[p.enumIndex]
}

// SetObjectIndex selects an object option by index.
func (p *Parameter) SetObjectIndex(i int) error {
	if p.kind != KindObject {
		return fmt.Errorf("param %q: not an object parameter", p.name)
	}
	p.mu.Lock()
	ni := clampInt(i, 0, len(p.objOptions)-1)
	changed := ni != p.objIndex
	p.objIndex = ni
	p.mu.Unlock()
	if changed {
		p.notify()
	}
	return nil
}

// Object returns the currently selected object instance.
func (p *Parameter) Object() interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.objOptions) == 0 {
		return nil
	}
	return p.objOptions[p.objIndex]
}

// AddModulationSource layers a modulation input onto a compound
// parameter; it contributes whenever Effective is read.
func (p *Parameter) AddModulationSource(s ModulationSource) error {
	if p.kind != KindCompound {
		return fmt.Errorf("param %q: not a compound parameter", p.name)
	}
	p.mu.Lock()
	p.modSources = append(p.modSources, s)
	p.mu.Unlock()
	return nil
}

// Effective returns the base value plus the sum of modulation sources,
// clamped to range, without mutating the stored base value.
func (p *Parameter) Effective() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.kind != KindCompound {
		return p.value
	}
	sum := p.value
	for _, s := range p.modSources {
		sum += s.Value()
	}
	return clamp(sum, p.min, p.max)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
