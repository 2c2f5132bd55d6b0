package msg

import (
	"fmt"

	"github.com/dispatchbot/dispatch/internal/llm"
)

// CLIStreamHandler prints streamed output as it arrives. Text chunks go
// through the callback; function calls are printed in the same
// Function/Arguments form the non-streaming path uses.
type CLIStreamHandler struct {
	originalCallback func(chunk []byte) error
	sawText          bool
}

func (h *CLIStreamHandler) HandleTextChunk(chunk []byte) error {
	h.sawText = true
	return h.originalCallback(chunk)
}

func (h *CLIStreamHandler) HandleMessageDone() error {
	if h.sawText {
		fmt.Println()
	}
	return nil
}

func (h *CLIStreamHandler) HandleFunctionCallStart(id, name string) error {
	fmt.Printf("Function: %s\n", name)
	return nil
}

func (h *CLIStreamHandler) HandleFunctionCallChunk(chunk llm.FunctionCallChunk) error {
	fmt.Printf("Arguments: %s\n", chunk.ArgumentsJson)
	return nil
}

func (h *CLIStreamHandler) Reset() {
	h.sawText = false
}
