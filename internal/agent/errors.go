package agent

import (
	"fmt"

	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/safety"
)

// InputBlockedError is returned when the safety pipeline rejects input
type InputBlockedError struct {
	Details safety.Details
}

func (e *InputBlockedError) Error() string {
	switch {
	case e.Details.LengthExceeded:
		return "input blocked: maximum length exceeded"
	case e.Details.HarmfulContent:
		return "input blocked: content policy violation"
	case e.Details.PIIDetected:
		return "input blocked: personally identifiable information detected"
	default:
		return "input blocked"
	}
}

// PendingFunctionCallError is returned when a function call needs user
// approval before it can run
type PendingFunctionCallError struct {
	Message  *domain.Message
	ToolCall domain.ToolCall
}

func (e *PendingFunctionCallError) Error() string {
	return fmt.Sprintf("pending function call approval for %s", e.ToolCall.Name)
}
