package domain

import "fmt"

type NoConversationError struct{}

func (e NoConversationError) Error() string {
	return "no previous conversations found"
}

func IsNoConversationError(err error) bool {
	_, ok := err.(NoConversationError)
	return ok
}

type ToolNotFoundError struct {
	Name string
}

func (e ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

func IsToolNotFoundError(err error) bool {
	_, ok := err.(ToolNotFoundError)
	return ok
}
