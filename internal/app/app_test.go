package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/ayusman/signite/internal/detector"
	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/lesson"
	"github.com/ayusman/signite/internal/store"
)

var wrist = detector.Point3D{X: 0.5, Y: 0.7}

func fist() []detector.HandLandmarks {
	return []detector.HandLandmarks{detector.PoseLandmarks(detector.Pose{Wrist: wrist})}
}

func indexUp() []detector.HandLandmarks {
	return []detector.HandLandmarks{detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true})}
}

func newTestApp(t *testing.T, withStore bool) (*App, *store.Store) {
	t.Helper()

	var s *store.Store
	if withStore {
		var err error
		s, err = store.New(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("store.New() error = %v", err)
		}
		t.Cleanup(func() { s.Close() })
	}

	a := New(Config{Store: s, PluginDir: filepath.Join(t.TempDir(), "plugins")})
	a.SetDetector(detector.NewMockDetector())
	t.Cleanup(a.Close)
	return a, s
}

// hold feeds the same frame every 100ms from start to end inclusive and
// returns the last result.
func hold(s *Session, hands []detector.HandLandmarks, start, end int64) FrameResult {
	var res FrameResult
	for ts := start; ts <= end; ts += 100 {
		res = s.ProcessFrame(hands, ts)
	}
	return res
}

func TestApp_ProcessFrame_CompletesTarget(t *testing.T) {
	a, s := newTestApp(t, true)

	var events []Event
	a.OnEvent(func(ev Event) { events = append(events, ev) })

	if target, _ := a.Target(); target != gesture.Zero {
		t.Fatalf("initial target = %s, want zero", target)
	}

	res := a.ProcessFrame(fist(), 0)
	if res.Raw != gesture.Zero || res.Confirmed != gesture.None {
		t.Fatalf("first frame = %+v", res)
	}

	res = a.ProcessFrame(fist(), 400)
	if res.Confirmed != gesture.Zero || !res.Completed {
		t.Fatalf("dwell frame = %+v, want completed zero", res)
	}
	if res.Target != gesture.One {
		t.Errorf("Target after completion = %s, want one", res.Target)
	}

	if len(events) != 1 || events[0].Kind != EventCompleted || events[0].Gesture != gesture.Zero {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Session != a.session.ID() {
		t.Errorf("event session = %q, want %q", events[0].Session, a.session.ID())
	}
	if a.LastGesture() != gesture.Zero {
		t.Errorf("LastGesture() = %s, want zero", a.LastGesture())
	}

	completions, err := s.Completions().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(completions))
	}
	c := completions[0]
	if c.GestureID != "zero" || c.Source != store.SourceRecognized || c.FrameTS != 400 || c.SessionID != a.session.ID() {
		t.Errorf("unexpected completion %+v", c)
	}

	rows, err := s.Progress().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != len(gesture.Vocabulary()) {
		t.Fatalf("saved %d progress rows", len(rows))
	}
	if rows[0].State != "done" || rows[1].State != "active" {
		t.Errorf("saved states = %s, %s", rows[0].State, rows[1].State)
	}
}

func TestApp_ProcessFrame_WrongGestureDoesNotComplete(t *testing.T) {
	a, _ := newTestApp(t, false)

	res := hold(a.session, indexUp(), 0, 800)
	if res.Confirmed != gesture.One {
		t.Fatalf("Confirmed = %s, want one", res.Confirmed)
	}
	if res.Completed {
		t.Error("a gesture other than the target must not complete")
	}
	if target, _ := a.Target(); target != gesture.Zero {
		t.Errorf("target = %s, want zero", target)
	}
}

func TestApp_NextTargetAfterCooldown(t *testing.T) {
	a, _ := newTestApp(t, false)

	hold(a.session, fist(), 0, 400)
	if target, _ := a.Target(); target != gesture.One {
		t.Fatalf("target = %s, want one", target)
	}

	// Cooldown runs until 1400; the raised index confirms from 900 onwards
	// but only completes once the cooldown has lapsed.
	res := hold(a.session, indexUp(), 500, 1300)
	if res.Completed {
		t.Fatal("completed during cooldown")
	}
	res = a.ProcessFrame(indexUp(), 1400)
	if !res.Completed || res.Confirmed != gesture.One {
		t.Fatalf("frame after cooldown = %+v, want completed one", res)
	}
}

func TestApp_Skip(t *testing.T) {
	a, s := newTestApp(t, true)

	var got Event
	a.OnEvent(func(ev Event) { got = ev })

	id, ok := a.Skip()
	if !ok || id != gesture.Zero {
		t.Fatalf("Skip() = %s, %v", id, ok)
	}
	if got.Kind != EventSkipped || got.Target != gesture.One {
		t.Errorf("event = %+v", got)
	}

	completions, err := s.Completions().List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(completions) != 1 || completions[0].Source != store.SourceSkipped {
		t.Errorf("completions = %+v", completions)
	}
}

func TestApp_Skip_Finished(t *testing.T) {
	a, _ := newTestApp(t, false)

	for range gesture.Vocabulary() {
		if _, ok := a.Skip(); !ok {
			t.Fatal("Skip() failed before the lesson finished")
		}
	}
	if _, ok := a.Skip(); ok {
		t.Error("Skip() on a finished lesson should report false")
	}

	res := a.ProcessFrame(fist(), 0)
	if !res.Finished || res.Target != gesture.None {
		t.Errorf("result after finishing = %+v", res)
	}
}

func TestApp_SelectTarget(t *testing.T) {
	a, _ := newTestApp(t, false)

	if err := a.SelectTarget(gesture.Five); !errors.Is(err, lesson.ErrNotDone) {
		t.Errorf("SelectTarget(five) error = %v, want ErrNotDone", err)
	}
	if err := a.SelectTarget("bogus"); !errors.Is(err, lesson.ErrUnknownGesture) {
		t.Errorf("SelectTarget(bogus) error = %v, want ErrUnknownGesture", err)
	}

	a.Skip()
	if err := a.SelectTarget(gesture.Zero); err != nil {
		t.Fatalf("SelectTarget(zero) error = %v", err)
	}
	if target, _ := a.Target(); target != gesture.Zero {
		t.Errorf("target = %s, want zero", target)
	}
}

func TestSession_ResetsOnManualTargetChange(t *testing.T) {
	a, _ := newTestApp(t, false)
	s := a.NewSession()

	// Start a dwell on the fist, then change the target by hand. The
	// pending confirmation must not carry over.
	s.ProcessFrame(fist(), 0)
	a.Skip()
	if err := a.SelectTarget(gesture.Zero); err != nil {
		t.Fatal(err)
	}

	res := s.ProcessFrame(fist(), 400)
	if res.Confirmed != gesture.None {
		t.Errorf("Confirmed = %s right after a target change, want none", res.Confirmed)
	}
	res = s.ProcessFrame(fist(), 800)
	if !res.Completed {
		t.Errorf("expected completion after a fresh dwell, got %+v", res)
	}
}

func TestSession_Independent(t *testing.T) {
	a, _ := newTestApp(t, false)
	s1, s2 := a.NewSession(), a.NewSession()

	if s1.ID() == s2.ID() {
		t.Fatal("sessions share an id")
	}

	s1.ProcessFrame(fist(), 0)
	s2.ProcessFrame(indexUp(), 0)
	s2.ProcessFrame(indexUp(), 400)

	if res := s1.ProcessFrame(fist(), 400); !res.Completed {
		t.Errorf("s1 lost its dwell to s2: %+v", res)
	}
	if target, _ := a.Target(); target != gesture.One {
		t.Errorf("shared target = %s, want one", target)
	}
}

func TestSession_Acknowledge(t *testing.T) {
	a, _ := newTestApp(t, false)
	s := a.NewSession()

	hold(s, fist(), 0, 400)
	s.Acknowledge()

	// Without the cooldown the raised index completes as soon as it dwells.
	s.ProcessFrame(indexUp(), 500)
	if res := s.ProcessFrame(indexUp(), 900); !res.Completed {
		t.Errorf("expected completion after Acknowledge, got %+v", res)
	}
}

func TestApp_LoadProgress(t *testing.T) {
	a, s := newTestApp(t, true)
	a.Skip()
	a.Skip()

	b := New(Config{Store: s})
	b.SetDetector(detector.NewMockDetector())
	defer b.Close()

	if err := b.LoadProgress(); err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}
	if target, _ := b.Target(); target != gesture.Two {
		t.Errorf("restored target = %s, want two", target)
	}
}

func TestApp_LoadProgress_NoStore(t *testing.T) {
	a, _ := newTestApp(t, false)
	if err := a.LoadProgress(); err != nil {
		t.Errorf("LoadProgress() error = %v", err)
	}
}

func TestFrameResult_JSON(t *testing.T) {
	r := FrameResult{
		Session: "s-1",
		Result: gesture.Result{
			Raw:       gesture.Zero,
			Confirmed: gesture.Zero,
			Completed: true,
		},
		Target: gesture.One,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]any{"session": "s-1", "raw": "zero", "confirmed": "zero", "completed": true, "target": "one"} {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}
	if _, ok := got["step"]; ok {
		t.Error("step should be omitted when nil")
	}
}

func TestSession_StepHighlight(t *testing.T) {
	a, _ := newTestApp(t, false)
	s := a.NewSession()

	hands := []detector.HandLandmarks{
		detector.FlatHandLandmarks(detector.Point3D{X: 0.4, Y: 0.7}),
		detector.FlatHandLandmarks(detector.Point3D{X: 0.6, Y: 0.7}),
	}
	s.ProcessFrame(hands, 1000)
	res := s.ProcessFrame(hands, 1100)
	if res.Step == nil || res.Step.Gesture != gesture.Khobkhun {
		t.Fatalf("Step = %v, want khobkhun step", res.Step)
	}
	if len(res.ActiveSteps) != 1 || res.ActiveSteps[0] != 0 || len(res.DoneSteps) != 0 {
		t.Errorf("steps = %v / %v, want [0] / []", res.ActiveSteps, res.DoneSteps)
	}

	res = s.ProcessFrame(nil, 1200)
	if res.ActiveSteps != nil {
		t.Errorf("ActiveSteps = %v on a frame without a step", res.ActiveSteps)
	}
}

func TestApp_CompletionHooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell plugins are not supported on Windows")
	}

	pluginDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "events.log")
	dir := filepath.Join(pluginDir, "recorder")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name":"recorder","executable":"run.sh","events":["completed","skipped"]}`
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\ncat >> " + out + "\necho >> " + out + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	a := New(Config{PluginDir: pluginDir})
	a.SetDetector(detector.NewMockDetector())
	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}

	hold(a.session, fist(), 0, 400)
	a.Skip()
	a.Close()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read hook log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"event":"completed","gesture":"zero"`) {
		t.Errorf("completed hook not run: %s", got)
	}
	if !strings.Contains(got, `"event":"skipped","gesture":"one"`) {
		t.Errorf("skipped hook not run: %s", got)
	}
}

func TestApp_EnabledAndRunning(t *testing.T) {
	a, _ := newTestApp(t, false)

	if a.IsEnabled() || a.Running() {
		t.Fatal("new app should be disabled and stopped")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("SetEnabled(true) had no effect")
	}

	// Stop without Start is a no-op.
	a.Stop()
}

func TestApp_ConcurrentSessions(t *testing.T) {
	a, _ := newTestApp(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hold(a.NewSession(), fist(), 0, 400)
		}()
	}
	wg.Wait()

	// Only one session can move the shared target to done.
	done := 0
	for _, e := range a.Progress() {
		if e.State == lesson.StateDone {
			done++
		}
	}
	if done != 1 {
		t.Errorf("%d gestures done, want 1", done)
	}
}

func TestApp_Thresholds(t *testing.T) {
	a, _ := newTestApp(t, false)
	if a.Thresholds() != gesture.DefaultThresholds() {
		t.Error("zero config thresholds should select the defaults")
	}

	custom := gesture.DefaultThresholds()
	custom.ConfirmDwellMs = 200
	b := New(Config{Thresholds: custom})
	defer b.Close()
	b.SetDetector(detector.NewMockDetector())

	b.ProcessFrame(fist(), 0)
	if res := b.ProcessFrame(fist(), 200); !res.Completed {
		t.Errorf("custom dwell not applied: %+v", res)
	}
}
