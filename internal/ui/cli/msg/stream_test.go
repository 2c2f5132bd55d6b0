package msg

import (
	"bytes"
	"testing"
)

func TestCLIStreamHandlerForwardsTextChunks(t *testing.T) {
	var buf bytes.Buffer
	h := &CLIStreamHandler{
		originalCallback: func(chunk []byte) error {
			_, err := buf.Write(chunk)
			return err
		},
	}

	if err := h.HandleTextChunk([]byte("Hel")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}
	if err := h.HandleTextChunk([]byte("lo")); err != nil {
		t.Fatalf("HandleTextChunk: %v", err)
	}

	if got := buf.String(); got != "Hello" {
		t.Errorf("callback received %q, want %q", got, "Hello")
	}
	if !h.sawText {
		t.Error("sawText = false after text chunks")
	}

	h.Reset()
	if h.sawText {
		t.Error("sawText = true after Reset")
	}
}
