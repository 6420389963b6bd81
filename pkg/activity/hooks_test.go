package activity

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	keys := []string{"address"}
	meta := map[string]any{"k": "v", "keys": keys}
	evt := Event{
		Verb:     " fakevalues.loaded ",
		ActorID:  " actor ",
		TenantID: " tenant ",
		ObjectID: " en|address.yml|address| ",
		LoadID:   " load-1 ",
		Locale:   " en ",
		Resource: " en/address.yml ",
		Channel:  " fakevalues ",
		Metadata: meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != VerbSourceLoaded || got.ObjectType != ObjectTypeSource || got.ObjectID != "en|address.yml|address|" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "fakevalues" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.LoadID != "load-1" || got.Locale != "en" || got.Resource != "en/address.yml" {
		t.Fatalf("unexpected load fields: %+v", got)
	}
	if got.OccurredAt.IsZero() || got.OccurredAt.Location() != time.UTC {
		t.Fatalf("expected UTC OccurredAt, got %v", got.OccurredAt)
	}
	got.Metadata["k"] = "changed"
	got.Metadata["keys"].([]string)[0] = "changed"
	if evt.Metadata["k"] != "v" || keys[0] != "address" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbSourceLoaded}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n := len(capture.Recorded()); n != 0 {
		t.Fatalf("expected no events captured, got %d", n)
	}
}

func TestHooksEnabledIgnoresNilHooks(t *testing.T) {
	if (Hooks{nil, nil}).Enabled() {
		t.Fatalf("expected nil-only hooks to be disabled")
	}
	if !(Hooks{nil, &CaptureHook{}}).Enabled() {
		t.Fatalf("expected hooks to be enabled")
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(nil),
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	//nolint:staticcheck // nil context falls back to Background
	err := hooks.Notify(nil, Event{Verb: VerbSourceEmpty, ObjectID: "1"})
	if err == nil || !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if n := len(capture.Recorded()); n != 1 {
		t.Fatalf("expected event to be captured once, got %d", n)
	}
}

func TestOnlyFiltersVerbs(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{Only(capture, VerbSourceFailed, " "+VerbSourceEmpty+" ")}

	for _, verb := range []string{VerbSourceLoaded, VerbSourceEmpty, VerbSourceFailed} {
		if err := hooks.Notify(context.Background(), Event{Verb: verb, ObjectID: "1"}); err != nil {
			t.Fatalf("notify %s: %v", verb, err)
		}
	}
	want := []string{VerbSourceEmpty, VerbSourceFailed}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if Only(nil, VerbSourceLoaded) != nil {
		t.Fatalf("expected nil hook to stay nil")
	}
	if !(VerbFilter{}).Allows("anything") {
		t.Fatalf("expected empty filter to allow every verb")
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: VerbSourceLoaded, ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n := len(capture.Recorded()); n != 0 {
		t.Fatalf("expected no events captured when disabled, got %d", n)
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
	var nilEmitter *Emitter
	if nilEmitter.Enabled() || nilEmitter.Channel() != DefaultChannel {
		t.Fatalf("expected nil emitter to be inert")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: " "})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), Event{Verb: VerbSourceLoaded, ObjectID: "1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Recorded()
	if len(events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", events[0].Channel)
	}
}

func TestEmitterAppliesActorDefaults(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, ActorID: " svc ", TenantID: "acme"})

	_ = emitter.Emit(context.Background(), Event{Verb: VerbSourceLoaded, ObjectID: "1"})
	_ = emitter.Emit(context.Background(), Event{Verb: VerbSourceLoaded, ObjectID: "2", ActorID: "alice"})

	events := capture.Recorded()
	if events[0].ActorID != "svc" || events[0].TenantID != "acme" {
		t.Fatalf("expected defaults applied, got %+v", events[0])
	}
	if events[1].ActorID != "alice" {
		t.Fatalf("expected explicit actor preserved, got %q", events[1].ActorID)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbSourceLoaded,
		ObjectID:   "1",
		Channel:    "custom",
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Recorded()
	if events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", events[0].Channel)
	}
	if !events[0].OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at preserved, got %v", events[0].OccurredAt)
	}
}

func TestCaptureHookReset(t *testing.T) {
	boom := errors.New("boom")
	capture := &CaptureHook{Err: boom}
	if err := capture.Notify(context.Background(), Event{Verb: VerbSourceFailed}); !errors.Is(err, boom) {
		t.Fatalf("expected configured error, got %v", err)
	}
	capture.Reset()
	if n := len(capture.Recorded()); n != 0 {
		t.Fatalf("expected reset to drop events, got %d", n)
	}
}
