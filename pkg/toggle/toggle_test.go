package toggle_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/toggle"
)

func TestToggle(t *testing.T) {
	var seen []bool
	tg := toggle.New(false, func(v bool) { seen = append(seen, v) })

	if tg.Toggle() != true || !tg.Value() {
		t.Fatalf("expected on after toggle")
	}
	tg.SetOn()
	tg.SetOff()
	tg.SetOff()
	tg.Toggle()

	if diff := cmp.Diff([]bool{true, false, true}, seen); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleZeroValue(t *testing.T) {
	var tg toggle.Toggle
	if tg.Value() {
		t.Fatalf("zero toggle must be off")
	}
	tg.SetOn()
	if !tg.Value() {
		t.Fatalf("expected on")
	}
}
