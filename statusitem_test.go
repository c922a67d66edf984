package traybridge

import (
	"errors"
	"fmt"
	"testing"
)

type fakeEvaluator struct {
	evaluated []string
	evalErr   error
	reported  []error
}

func (f *fakeEvaluator) Eval(callback string) error {
	f.evaluated = append(f.evaluated, callback)
	return f.evalErr
}

func (f *fakeEvaluator) ReportError(err error) {
	f.reported = append(f.reported, err)
}

// newDisabledItem returns a status item without a bus connection, which is
// the disabled mode a missing watcher also produces.
func newDisabledItem(evaluator Evaluator) *StatusItem {
	si := NewStatusItem(nil, "test", "Test", evaluator)
	if err := si.Initialize(); err != nil {
		panic(err)
	}
	return si
}

func TestInitializeWithoutWatcherIsSoftDisable(t *testing.T) {
	si := NewStatusItem(nil, "test", "Test", &fakeEvaluator{})

	if err := si.Initialize(); err != nil {
		t.Fatalf("initialize should soft-degrade, got %v", err)
	}
	if !si.Disabled() {
		t.Fatalf("item should be disabled without a watcher")
	}
	if si.Visible() {
		t.Fatalf("disabled item should not be visible")
	}
}

func TestDisabledItemMutatorsSucceed(t *testing.T) {
	si := newDisabledItem(&fakeEvaluator{})

	if err := si.SetIcon(&Icon{Width: 1, Height: 1, Bytes: []byte{0, 0, 0, 0}}); err != nil {
		t.Fatalf("SetIcon error: %v", err)
	}
	if err := si.SetTooltip("tip"); err != nil {
		t.Fatalf("SetTooltip error: %v", err)
	}
	if err := si.SetCallback("cb"); err != nil {
		t.Fatalf("SetCallback error: %v", err)
	}
}

func TestSetTooltipRejectsInvalidEncoding(t *testing.T) {
	si := newDisabledItem(&fakeEvaluator{})

	for _, text := range []string{"bad\xffutf8", "nul\x00byte"} {
		err := si.SetTooltip(text)
		if !errors.Is(err, ErrEncoding) {
			t.Fatalf("SetTooltip(%q): expected ErrEncoding, got %v", text, err)
		}
	}
}

func TestSetCallbackStoresTokenVerbatim(t *testing.T) {
	si := newDisabledItem(&fakeEvaluator{})

	token := "{puts clicked}"
	if err := si.SetCallback(token); err != nil {
		t.Fatalf("SetCallback error: %v", err)
	}
	if si.Callback() != token {
		t.Fatalf("callback mismatch: got %q, want %q", si.Callback(), token)
	}
}

func TestActivateEvaluatesStoredCallback(t *testing.T) {
	evaluator := &fakeEvaluator{}
	si := newDisabledItem(evaluator)
	si.SetCallback("puts clicked")

	if dbusErr := si.Activate(0, 0); dbusErr != nil {
		t.Fatalf("Activate error: %v", dbusErr)
	}

	if len(evaluator.evaluated) != 1 || evaluator.evaluated[0] != "puts clicked" {
		t.Fatalf("evaluated mismatch: %v", evaluator.evaluated)
	}
}

func TestActivateWithoutCallbackEvaluatesNothing(t *testing.T) {
	evaluator := &fakeEvaluator{}
	si := newDisabledItem(evaluator)

	if dbusErr := si.Activate(0, 0); dbusErr != nil {
		t.Fatalf("Activate error: %v", dbusErr)
	}
	if len(evaluator.evaluated) != 0 {
		t.Fatalf("callback evaluated without being set: %v", evaluator.evaluated)
	}
}

func TestActivateReportsEvaluationErrors(t *testing.T) {
	evalErr := fmt.Errorf("script failed")
	evaluator := &fakeEvaluator{evalErr: evalErr}
	si := newDisabledItem(evaluator)
	si.SetCallback("boom")

	if dbusErr := si.Activate(0, 0); dbusErr != nil {
		t.Fatalf("evaluation errors must not propagate to the tray host, got %v", dbusErr)
	}

	if len(evaluator.reported) != 1 || !errors.Is(evaluator.reported[0], evalErr) {
		t.Fatalf("error not reported to the host: %v", evaluator.reported)
	}
}

func TestOnlySingleLeftClickEvaluates(t *testing.T) {
	evaluator := &fakeEvaluator{}
	si := newDisabledItem(evaluator)
	si.SetCallback("puts clicked")

	si.SecondaryActivate(0, 0)
	si.ContextMenu(0, 0)
	si.Scroll(1, "vertical")

	if len(evaluator.evaluated) != 0 {
		t.Fatalf("non-left-click input evaluated the callback: %v", evaluator.evaluated)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	si := newDisabledItem(&fakeEvaluator{})

	if err := si.Destroy(); err != nil {
		t.Fatalf("first destroy error: %v", err)
	}
	if err := si.Destroy(); err != nil {
		t.Fatalf("second destroy error: %v", err)
	}
	if si.Visible() {
		t.Fatalf("destroyed item should not be visible")
	}
}
