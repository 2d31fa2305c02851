package model

import "testing"

func TestBaseEstimator(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() {
		t.Fatal("zero value should not be fitted")
	}
	if e.State().String() != "not_fitted" {
		t.Errorf("State() = %v, want not_fitted", e.State())
	}

	e.SetFitted(120, 12)
	if !e.IsFitted() {
		t.Fatal("expected fitted after SetFitted")
	}
	if f, n := e.Dimensions(); f != 12 || n != 120 {
		t.Errorf("Dimensions() = (%d, %d), want (12, 120)", f, n)
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("expected not fitted after Reset")
	}
	if f, n := e.Dimensions(); f != 0 || n != 0 {
		t.Errorf("Dimensions() after Reset = (%d, %d), want (0, 0)", f, n)
	}
}
