package components

import (
	"strings"

	"github.com/dispatchbot/dispatch/internal/events"
	"github.com/dispatchbot/dispatch/internal/llm"
)

// streamRelay implements llm.StreamHandler by translating handler
// callbacks into typed events on a channel the bubbletea update loop
// drains. Argument JSON is fed through the incremental parser so the
// view can render arguments as they stream in.
type streamRelay struct {
	ch       chan<- events.Event
	parser   *llm.ToolCallArgumentParser
	text     strings.Builder
	callID   string
	callName string
}

func newStreamRelay(ch chan<- events.Event) *streamRelay {
	return &streamRelay{
		ch:     ch,
		parser: llm.NewToolCallArgumentParser(),
	}
}

func (r *streamRelay) HandleTextChunk(chunk []byte) error {
	r.text.Write(chunk)
	r.ch <- llm.TextEvent{Content: string(chunk)}
	return nil
}

func (r *streamRelay) HandleMessageDone() error {
	r.ch <- llm.MessageCompleteEvent{Content: r.text.String()}
	return nil
}

func (r *streamRelay) HandleFunctionCallStart(id, name string) error {
	r.callID = id
	r.callName = name
	r.parser.Reset()
	r.ch <- llm.ToolCallStartEvent{ToolCallID: id, FunctionName: name}
	return nil
}

func (r *streamRelay) HandleFunctionCallChunk(chunk llm.FunctionCallChunk) error {
	for _, ev := range r.parser.AddChunk(chunk.ArgumentsJson) {
		switch ev := ev.(type) {
		case llm.ToolNewArgumentEvent:
			ev.ToolCallID = r.callID
			ev.Name = r.callName
			r.ch <- ev
		case llm.ToolArgumentChunkEvent:
			ev.ToolCallID = r.callID
			ev.Name = r.callName
			r.ch <- ev
		default:
			r.ch <- ev
		}
	}
	return nil
}

func (r *streamRelay) Reset() {
	r.text.Reset()
	r.parser.Reset()
	r.callID = ""
	r.callName = ""
}
