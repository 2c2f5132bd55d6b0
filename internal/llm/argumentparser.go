package llm

import (
	"strings"

	"github.com/dispatchbot/dispatch/internal/events"
)

// ToolCallArgumentParser handles incremental parsing of tool call
// arguments as they stream in. Providers deliver argument JSON in
// arbitrary fragments, so the parser scans character by character and
// emits an event when a new argument name appears and chunk events as
// its value grows.
type ToolCallArgumentParser struct {
	buffer           strings.Builder
	currentArg       string
	parsedArgs       map[string]string
	inKey            bool
	inString         bool
	escaped          bool
	keyBuffer        strings.Builder
	valueBuffer      strings.Builder
	valueBeforeChunk string // value buffer state before the current chunk
	completeJson     string
}

// NewToolCallArgumentParser creates a new parser instance
func NewToolCallArgumentParser() *ToolCallArgumentParser {
	return &ToolCallArgumentParser{
		parsedArgs: make(map[string]string),
	}
}

// AddChunk processes a new fragment of argument JSON and returns the
// events it produced.
func (p *ToolCallArgumentParser) AddChunk(chunk string) []events.Event {
	p.valueBeforeChunk = p.valueBuffer.String()

	p.buffer.WriteString(chunk)
	p.completeJson += chunk

	var updates []events.Event

	data := p.buffer.String()
	p.buffer.Reset()

	for _, r := range data {
		if p.escaped {
			p.writeRune(r)
			p.escaped = false
			continue
		}

		switch r {
		case '\\':
			p.escaped = true
			p.writeRune(r)
		case '"':
			p.inString = !p.inString
		case ':':
			if !p.inString && p.inKey {
				// Separator between key and value
				keyStr := p.keyBuffer.String()
				if len(keyStr) >= 2 && strings.HasPrefix(keyStr, "\"") && strings.HasSuffix(keyStr, "\"") {
					p.currentArg = keyStr[1 : len(keyStr)-1]
				} else {
					p.currentArg = strings.TrimSpace(keyStr)
				}
				p.inKey = false
				updates = append(updates, ToolNewArgumentEvent{ArgumentName: p.currentArg})
				p.keyBuffer.Reset()
			} else {
				p.writeRune(r)
			}
		case ',':
			if !p.inString {
				// End of a key-value pair
				if !p.inKey && p.currentArg != "" {
					p.parsedArgs[p.currentArg] = p.valueBuffer.String()

					if p.valueBuffer.Len() > 0 {
						valueStr := p.valueBuffer.String()
						updates = append(updates, ToolArgumentChunkEvent{
							ArgumentName: p.currentArg,
							Chunk:        valueStr[len(p.valueBeforeChunk):],
						})
					}

					p.valueBuffer.Reset()
					p.valueBeforeChunk = ""
				}
				p.inKey = true
				p.currentArg = ""
			} else {
				p.writeRune(r)
			}
		case '{':
			if p.keyBuffer.Len() == 0 && p.valueBuffer.Len() == 0 && p.currentArg == "" {
				// Opening brace of the argument object
				p.inKey = true
			} else {
				p.writeRune(r)
			}
		case '}':
			if !p.inString && !p.inKey && p.currentArg != "" {
				// End of object, store the final value
				p.parsedArgs[p.currentArg] = p.valueBuffer.String()
			} else {
				p.writeRune(r)
			}
		default:
			if p.inKey {
				p.keyBuffer.WriteRune(r)
			} else if p.inString {
				p.valueBuffer.WriteRune(r)
			}
		}
	}

	// Incremental update for a value still in flight
	currentValue := p.valueBuffer.String()
	if !p.inKey && p.currentArg != "" && len(currentValue) > len(p.valueBeforeChunk) {
		incremental := currentValue[len(p.valueBeforeChunk):]
		if len(incremental) > 0 {
			updates = append(updates, ToolArgumentChunkEvent{
				ArgumentName: p.currentArg,
				Chunk:        incremental,
			})
		}
	}

	return updates
}

func (p *ToolCallArgumentParser) writeRune(r rune) {
	if p.inKey {
		p.keyBuffer.WriteRune(r)
	} else {
		p.valueBuffer.WriteRune(r)
	}
}

// GetCurrentArgName returns the name of the argument currently being parsed
func (p *ToolCallArgumentParser) GetCurrentArgName() string {
	return p.currentArg
}

// GetCurrentValue returns the value of the current argument as it's being parsed
func (p *ToolCallArgumentParser) GetCurrentValue() string {
	return p.valueBuffer.String()
}

// GetAllData returns the complete JSON received so far
func (p *ToolCallArgumentParser) GetAllData() string {
	return p.completeJson
}

// GetParsedArgs returns all completely parsed arguments
func (p *ToolCallArgumentParser) GetParsedArgs() map[string]string {
	return p.parsedArgs
}

// Reset clears the parser state
func (p *ToolCallArgumentParser) Reset() {
	p.buffer.Reset()
	p.keyBuffer.Reset()
	p.valueBuffer.Reset()
	p.valueBeforeChunk = ""
	p.currentArg = ""
	p.parsedArgs = make(map[string]string)
	p.inKey = false
	p.inString = false
	p.escaped = false
	p.completeJson = ""
}
