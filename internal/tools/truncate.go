package tools

import (
	"context"
	"encoding/json"
)

const truncationNotice = "\n[output truncated]"

// TruncatingExecutor wraps an Executor and truncates tool output to
// maxRunes (0 = no truncation).
type TruncatingExecutor struct {
	next     Executor
	maxRunes int
}

func NewTruncatingExecutor(next Executor, maxRunes int) *TruncatingExecutor {
	return &TruncatingExecutor{next: next, maxRunes: maxRunes}
}

func (t *TruncatingExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	result, err := t.next.Execute(ctx, name, args)
	if err != nil {
		return "", err
	}
	return TruncateOutput(result, t.maxRunes), nil
}

// TruncateOutput cuts s down to maxRunes runes, appending a notice when
// anything was dropped.
func TruncateOutput(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + truncationNotice
}
