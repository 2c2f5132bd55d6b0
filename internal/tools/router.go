package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dispatchbot/dispatch/internal/domain"
)

// Router dispatches tool calls between the local registry and an
// external executor. External tools carry a "server__tool" name.
type Router struct {
	local  Executor
	remote Executor
}

func NewRouter(local, remote Executor) *Router {
	return &Router{local: local, remote: remote}
}

func (r *Router) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if strings.Contains(name, "__") {
		if r.remote == nil {
			return "", domain.ToolNotFoundError{Name: name}
		}
		return r.remote.Execute(ctx, name, args)
	}
	return r.local.Execute(ctx, name, args)
}
