package llm

import (
	"testing"

	"github.com/dispatchbot/dispatch/internal/events"
)

func collectEvents(p *ToolCallArgumentParser, chunks []string) []events.Event {
	var all []events.Event
	for _, chunk := range chunks {
		all = append(all, p.AddChunk(chunk)...)
	}
	return all
}

func TestArgumentParserSingleChunk(t *testing.T) {
	p := NewToolCallArgumentParser()
	p.AddChunk(`{"location": "Boston, MA", "unit": "celsius"}`)

	args := p.GetParsedArgs()
	if args["location"] != "Boston, MA" {
		t.Errorf("location = %q", args["location"])
	}
	if args["unit"] != "celsius" {
		t.Errorf("unit = %q", args["unit"])
	}
}

func TestArgumentParserSplitChunks(t *testing.T) {
	p := NewToolCallArgumentParser()
	chunks := []string{`{"loc`, `ation": "Bos`, `ton, MA"`, `}`}

	evts := collectEvents(p, chunks)

	args := p.GetParsedArgs()
	if args["location"] != "Boston, MA" {
		t.Errorf("location = %q", args["location"])
	}

	var newArgs int
	var value string
	for _, e := range evts {
		switch e := e.(type) {
		case ToolNewArgumentEvent:
			newArgs++
			if e.ArgumentName != "location" {
				t.Errorf("argument name = %q", e.ArgumentName)
			}
		case ToolArgumentChunkEvent:
			value += e.Chunk
		}
	}
	if newArgs != 1 {
		t.Errorf("expected 1 new-argument event, got %d", newArgs)
	}
	if value != "Boston, MA" {
		t.Errorf("reassembled value = %q", value)
	}
}

func TestArgumentParserEscapes(t *testing.T) {
	p := NewToolCallArgumentParser()
	p.AddChunk(`{"text": "say \"hi\", please"}`)

	args := p.GetParsedArgs()
	if args["text"] != `say \"hi\", please` {
		t.Errorf("text = %q", args["text"])
	}
}

func TestArgumentParserTracksRawJSON(t *testing.T) {
	p := NewToolCallArgumentParser()
	raw := `{"a": "1", "b": "2"}`
	p.AddChunk(raw[:7])
	p.AddChunk(raw[7:])

	if p.GetAllData() != raw {
		t.Errorf("GetAllData() = %q, want %q", p.GetAllData(), raw)
	}
}

func TestArgumentParserReset(t *testing.T) {
	p := NewToolCallArgumentParser()
	p.AddChunk(`{"a": "1"}`)
	p.Reset()

	if len(p.GetParsedArgs()) != 0 {
		t.Error("parsed args survived reset")
	}
	if p.GetAllData() != "" {
		t.Error("raw data survived reset")
	}

	p.AddChunk(`{"b": "2"}`)
	if p.GetParsedArgs()["b"] != "2" {
		t.Error("parser unusable after reset")
	}
}
