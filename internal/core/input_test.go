package core

import "testing"

func TestInputFrameOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)
	f.Set(ActionLeft)

	if !f.Has(ActionUp) || !f.Has(ActionLeft) {
		t.Fatal("Has() should report every set action")
	}
	order := f.Ordered()
	if len(order) != 2 || order[0] != ActionUp || order[1] != ActionLeft {
		t.Errorf("Ordered() = %v, expected [Up Left]", order)
	}

	clone := f.Clone()
	f.Clear()
	if f.Has(ActionUp) || len(f.Ordered()) != 0 {
		t.Error("Clear() should drop all actions")
	}
	if !clone.Has(ActionLeft) || len(clone.Ordered()) != 2 {
		t.Error("Clone() should be independent of the original")
	}
}

func TestStepResultHas(t *testing.T) {
	r := StepResult{Events: []Event{EventAte}}
	if !r.Has(EventAte) {
		t.Error("Has(EventAte) should be true")
	}
	if r.Has(EventCollision) {
		t.Error("Has(EventCollision) should be false")
	}
}
