package lesson

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ayusman/signite/internal/gesture"
)

func TestTracker_InitialState(t *testing.T) {
	tr := NewTracker()

	id, ok := tr.Active()
	if !ok || id != gesture.Zero {
		t.Fatalf("Active() = %q, %v; want %q, true", id, ok, gesture.Zero)
	}

	snap := tr.Snapshot()
	if len(snap) != len(gesture.Vocabulary()) {
		t.Fatalf("expected %d entries, got %d", len(gesture.Vocabulary()), len(snap))
	}
	for _, e := range snap[1:] {
		if e.State != StateLocked {
			t.Errorf("%s: expected locked, got %s", e.Gesture, e.State)
		}
	}
}

func TestTracker_Complete(t *testing.T) {
	tr := NewTracker()

	if tr.Complete(gesture.One) {
		t.Error("expected completing a non-active gesture to be ignored")
	}
	if !tr.Complete(gesture.Zero) {
		t.Fatal("expected completing the active gesture to succeed")
	}

	id, _ := tr.Active()
	if id != gesture.One {
		t.Errorf("Active() = %q after completing zero, want %q", id, gesture.One)
	}
	if tr.Snapshot()[0].State != StateDone {
		t.Error("expected zero to be done")
	}
}

func TestTracker_FinishesAfterLastGesture(t *testing.T) {
	tr := NewTracker()
	for range gesture.Vocabulary() {
		if _, ok := tr.Skip(); !ok {
			t.Fatal("Skip() failed before the lesson finished")
		}
	}

	if !tr.Finished() {
		t.Fatal("expected lesson to be finished")
	}
	if _, ok := tr.Skip(); ok {
		t.Error("expected Skip() to fail once finished")
	}
}

func TestTracker_Select(t *testing.T) {
	tr := NewTracker()
	tr.Complete(gesture.Zero)
	tr.Complete(gesture.One)

	if err := tr.Select(gesture.Five); !errors.Is(err, ErrNotDone) {
		t.Errorf("Select(locked) error = %v, want ErrNotDone", err)
	}
	if err := tr.Select("wave"); !errors.Is(err, ErrUnknownGesture) {
		t.Errorf("Select(unknown) error = %v, want ErrUnknownGesture", err)
	}

	if err := tr.Select(gesture.Zero); err != nil {
		t.Fatalf("Select(done) error = %v", err)
	}
	if id, _ := tr.Active(); id != gesture.Zero {
		t.Fatalf("Active() = %q, want %q", id, gesture.Zero)
	}

	snap := tr.Snapshot()
	if snap[2].State != StateLocked {
		t.Errorf("expected previous active gesture to be locked, got %s", snap[2].State)
	}

	// Completing the reviewed gesture walks forward even over done rows.
	tr.Complete(gesture.Zero)
	if id, _ := tr.Active(); id != gesture.One {
		t.Errorf("Active() = %q after review, want %q", id, gesture.One)
	}
}

func TestTracker_SnapshotRestore(t *testing.T) {
	tr := NewTracker()
	tr.Complete(gesture.Zero)
	tr.Complete(gesture.One)
	snap := tr.Snapshot()

	restored := NewTracker()
	restored.Restore(snap)

	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Errorf("restored snapshot differs:\n got  %+v\n want %+v", restored.Snapshot(), snap)
	}
}

func TestTracker_RestoreKeepsSingleActive(t *testing.T) {
	tr := NewTracker()
	tr.Restore([]Entry{
		{Gesture: gesture.Three, State: StateActive},
		{Gesture: "wave", State: StateDone},
		{Gesture: gesture.Four, State: "bogus"},
	})

	active := 0
	for _, e := range tr.Snapshot() {
		if e.State == StateActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active gesture, got %d", active)
	}
	if id, _ := tr.Active(); id != gesture.Zero {
		t.Errorf("Active() = %q, want the first active entry %q", id, gesture.Zero)
	}
}

func TestStepHighlight(t *testing.T) {
	tests := []struct {
		name       string
		step       *gesture.Step
		wantActive []int
		wantDone   []int
	}{
		{"nil", nil, nil, nil},
		{"first step", &gesture.Step{Gesture: gesture.Khobkhun, Index: 1}, []int{0}, nil},
		{"second step", &gesture.Step{Gesture: gesture.Sabaidee, Index: 2}, []int{1}, []int{0}},
		{"out of range", &gesture.Step{Gesture: gesture.Mairepen, Index: 3}, nil, nil},
		{"static gesture", &gesture.Step{Gesture: gesture.Five, Index: 1}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, done := StepHighlight(tt.step)
			if !reflect.DeepEqual(active, tt.wantActive) || !reflect.DeepEqual(done, tt.wantDone) {
				t.Errorf("StepHighlight() = %v, %v; want %v, %v", active, done, tt.wantActive, tt.wantDone)
			}
		})
	}
}
