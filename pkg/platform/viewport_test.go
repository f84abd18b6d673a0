package platform

import (
	"testing"
)

func viewportEventPayload(t *testing.T, entries []map[string]any) []byte {
	t.Helper()
	data, err := DefaultCodec.Encode(map[string]any{"entries": entries})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return data
}

func TestViewportObserveInvokesHost(t *testing.T) {
	bridge := setupRecordingBridge(t)

	if err := Viewport.Observe(7); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if err := Viewport.Unobserve(7); err != nil {
		t.Fatalf("Unobserve failed: %v", err)
	}

	if bridge.callCount("arbor/viewport/observe") != 1 {
		t.Errorf("expected one observe call, got %v", bridge.calls)
	}
	if bridge.callCount("arbor/viewport/unobserve") != 1 {
		t.Errorf("expected one unobserve call, got %v", bridge.calls)
	}
}

func TestViewportConfigure(t *testing.T) {
	bridge := setupRecordingBridge(t)

	if err := Viewport.Configure(0.15); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if bridge.callCount("arbor/viewport/configure") != 1 {
		t.Errorf("expected one configure call, got %v", bridge.calls)
	}
}

func TestViewportHandlerReceivesBatchedEntries(t *testing.T) {
	setupRecordingBridge(t)

	var batches [][]ViewportEntry
	remove := Viewport.AddHandler(func(entries []ViewportEntry) {
		batches = append(batches, entries)
	})
	defer remove()

	payload := viewportEventPayload(t, []map[string]any{
		{"target": 1, "ratio": 0.4, "intersecting": true},
		{"target": 2, "ratio": 0.0, "intersecting": false},
	})
	if err := HandleEvent("arbor/viewport/events", payload); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	entries := batches[0]
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Target != 1 || entries[0].Ratio != 0.4 || !entries[0].Intersecting {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Target != 2 || entries[1].Intersecting {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestViewportRemovedHandlerNotCalled(t *testing.T) {
	setupRecordingBridge(t)

	fired := 0
	remove := Viewport.AddHandler(func([]ViewportEntry) { fired++ })
	remove()

	payload := viewportEventPayload(t, []map[string]any{
		{"target": 1, "ratio": 1.0, "intersecting": true},
	})
	HandleEvent("arbor/viewport/events", payload)

	if fired != 0 {
		t.Errorf("removed handler fired %d times", fired)
	}
}

func TestParseViewportEventRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data any
	}{
		{"not a map", []any{"x"}},
		{"missing entries", map[string]any{"other": 1.0}},
		{"entry not a map", map[string]any{"entries": []any{"bad"}}},
		{"missing target", map[string]any{"entries": []any{map[string]any{"ratio": 0.5}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := parseViewportEvent(tc.data); ok {
				t.Error("expected parse failure")
			}
		})
	}
}

func TestParseViewportEventDefaults(t *testing.T) {
	entries, ok := parseViewportEvent(map[string]any{
		"entries": []any{map[string]any{"target": 3.0}},
	})
	if !ok {
		t.Fatal("expected parse success")
	}
	if entries[0].Ratio != 0 || entries[0].Intersecting {
		t.Errorf("missing fields should default to zero values: %+v", entries[0])
	}
}

func TestNotifierShowIncrementsID(t *testing.T) {
	bridge := setupRecordingBridge(t)

	id1, err := Notifier.Show("Update available", "Restart to apply")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	id2, _ := Notifier.Show("Another", "body")
	if id2 <= id1 {
		t.Errorf("expected increasing ids, got %d then %d", id1, id2)
	}
	if bridge.callCount("arbor/notify/show") != 2 {
		t.Errorf("expected two show calls, got %v", bridge.calls)
	}
}

func TestLifecycleStateUpdates(t *testing.T) {
	setupRecordingBridge(t)

	var states []LifecycleState
	remove := Lifecycle.AddHandler(func(s LifecycleState) { states = append(states, s) })
	defer remove()

	payload, _ := DefaultCodec.Encode(map[string]any{"state": "paused"})
	HandleEvent("arbor/lifecycle/events", payload)
	payload, _ = DefaultCodec.Encode(map[string]any{"state": "resumed"})
	HandleEvent("arbor/lifecycle/events", payload)

	if len(states) != 2 || states[0] != LifecycleStatePaused || states[1] != LifecycleStateResumed {
		t.Errorf("unexpected state sequence: %v", states)
	}
	if !Lifecycle.IsResumed() {
		t.Error("lifecycle should be resumed")
	}
}

func TestLifecycleDuplicateStateIgnored(t *testing.T) {
	setupRecordingBridge(t)

	fired := 0
	remove := Lifecycle.AddHandler(func(LifecycleState) { fired++ })
	defer remove()

	payload, _ := DefaultCodec.Encode(map[string]any{"state": "resumed"})
	HandleEvent("arbor/lifecycle/events", payload)

	if fired != 0 {
		t.Errorf("duplicate resumed state should not notify, fired %d", fired)
	}
}
