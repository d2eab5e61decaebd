package task

import "testing"

func TestQueueRunAllExecutesInEnqueueOrder(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Add(func() { order = append(order, 1) })
	q.Add(func() { order = append(order, 2) })
	q.Add(func() { order = append(order, 3) })

	q.RunAll()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", order)
	}
}

func TestQueueTaskAddedDuringRunDefersToNextDrain(t *testing.T) {
	q := NewQueue()
	var ran []string
	q.Add(func() {
		ran = append(ran, "first")
		q.Add(func() { ran = append(ran, "deferred") })
	})

	q.RunAll()
	if len(ran) != 1 || ran[0] != "first" {
		t.Fatalf("expected only the first task to run, got %v", ran)
	}

	q.RunAll()
	if len(ran) != 2 || ran[1] != "deferred" {
		t.Fatalf("expected the deferred task to run on the next drain, got %v", ran)
	}
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	lt := LoopTaskFunc(func(deltaMs float64) {})

	if err := r.Add(lt); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := r.Add(lt); err == nil {
		t.Fatalf("expected an error registering the same loop task twice")
	}
}

func TestRegistryTickAllInvokesInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	var order []int
	r.Add(LoopTaskFunc(func(deltaMs float64) { order = append(order, 1) }))
	r.Add(LoopTaskFunc(func(deltaMs float64) { order = append(order, 2) }))

	r.TickAll(16)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected [1 2], got %v", order)
	}
}

func TestRegistryRemoveIsNoOpForUnregisteredTask(t *testing.T) {
	r := NewRegistry()
	lt := LoopTaskFunc(func(deltaMs float64) {})
	r.Remove(lt) // must not panic
}
