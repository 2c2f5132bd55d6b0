package components

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dispatchbot/dispatch/internal/events"
	"github.com/dispatchbot/dispatch/internal/llm"
)

func collectEvents(ch chan events.Event) []events.Event {
	close(ch)
	var got []events.Event
	for ev := range ch {
		got = append(got, ev)
	}
	return got
}

func TestStreamRelayEventSequence(t *testing.T) {
	ch := make(chan events.Event, 16)
	relay := newStreamRelay(ch)

	if err := relay.HandleTextChunk([]byte("Hel")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}
	if err := relay.HandleTextChunk([]byte("lo")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}
	if err := relay.HandleFunctionCallStart("call_1", "get_weather"); err != nil {
		t.Fatalf("HandleFunctionCallStart: %v", err)
	}
	if err := relay.HandleFunctionCallChunk(llm.FunctionCallChunk{
		Name:          "get_weather",
		ArgumentsJson: `{"location": "Bos`,
	}); err != nil {
		t.Fatalf("HandleFunctionCallChunk: %v", err)
	}
	if err := relay.HandleFunctionCallChunk(llm.FunctionCallChunk{
		Name:          "get_weather",
		ArgumentsJson: `ton"}`,
	}); err != nil {
		t.Fatalf("HandleFunctionCallChunk: %v", err)
	}
	if err := relay.HandleMessageDone(); err != nil {
		t.Fatalf("HandleMessageDone: %v", err)
	}

	got := collectEvents(ch)
	want := []events.Event{
		llm.TextEvent{Content: "Hel"},
		llm.TextEvent{Content: "lo"},
		llm.ToolCallStartEvent{ToolCallID: "call_1", FunctionName: "get_weather"},
		llm.ToolNewArgumentEvent{ToolCallID: "call_1", Name: "get_weather", ArgumentName: "location"},
		llm.ToolArgumentChunkEvent{ToolCallID: "call_1", Name: "get_weather", ArgumentName: "location", Chunk: "Bos"},
		llm.ToolArgumentChunkEvent{ToolCallID: "call_1", Name: "get_weather", ArgumentName: "location", Chunk: "ton"},
		llm.MessageCompleteEvent{Content: "Hello"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("event %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestStreamRelayResetClearsState(t *testing.T) {
	ch := make(chan events.Event, 16)
	relay := newStreamRelay(ch)

	if err := relay.HandleTextChunk([]byte("first")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}
	relay.Reset()
	if err := relay.HandleTextChunk([]byte("second")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}
	if err := relay.HandleMessageDone(); err != nil {
		t.Fatalf("HandleMessageDone: %v", err)
	}

	got := collectEvents(ch)
	last := got[len(got)-1]
	complete, ok := last.(llm.MessageCompleteEvent)
	if !ok {
		t.Fatalf("last event = %#v, want MessageCompleteEvent", last)
	}
	if complete.Content != "second" {
		t.Errorf("Content = %q, want %q", complete.Content, "second")
	}
}

func TestApplyStreamEventAccumulatesReply(t *testing.T) {
	m := &ChatView{}

	m.applyStreamEvent(llm.TextEvent{Content: "Checking "})
	m.applyStreamEvent(llm.TextEvent{Content: "the weather."})
	m.applyStreamEvent(llm.ToolCallStartEvent{ToolCallID: "call_1", FunctionName: "get_weather"})
	m.applyStreamEvent(llm.ToolNewArgumentEvent{ToolCallID: "call_1", Name: "get_weather", ArgumentName: "location"})
	m.applyStreamEvent(llm.ToolArgumentChunkEvent{ToolCallID: "call_1", Name: "get_weather", ArgumentName: "location", Chunk: "Boston"})

	if m.streamText != "Checking the weather." {
		t.Errorf("streamText = %q", m.streamText)
	}
	if len(m.streamCalls) != 1 {
		t.Fatalf("streamCalls = %d, want 1", len(m.streamCalls))
	}
	call := m.streamCalls[0]
	if call.name != "get_weather" {
		t.Errorf("call name = %q", call.name)
	}
	if call.args.String() != "location=Boston" {
		t.Errorf("call args = %q", call.args.String())
	}

	rendered := m.renderStream()
	if !strings.Contains(rendered, "Function: get_weather") {
		t.Errorf("rendered stream missing function line: %q", rendered)
	}
	if !strings.Contains(rendered, "location=Boston") {
		t.Errorf("rendered stream missing arguments: %q", rendered)
	}
}

func TestApplyStreamEventError(t *testing.T) {
	m := &ChatView{}
	wantErr := errors.New("provider unavailable")

	m.applyStreamEvent(events.ErrorEvent{Error: wantErr})

	if m.err != wantErr {
		t.Errorf("err = %v, want %v", m.err, wantErr)
	}
}
