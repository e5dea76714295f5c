package interfaces

import (
	"context"

	"agentconsole/internal/model"
)

// AgentService creates and updates agent records on the agent service
type AgentService interface {
	// CreateAgent submits the multipart create payload. A result without an id means the record was not created.
	CreateAgent(ctx context.Context, payload *model.AgentPayload) (*model.CreateAgentResult, error)

	// UpdateAgent submits an update for the agent identified by id
	UpdateAgent(ctx context.Context, id string, payload map[string]interface{}) error
}

// AgentReader loads existing agent records
type AgentReader interface {
	GetAgent(ctx context.Context, id string) (*model.Agent, error)
}

// Navigator moves the user to another dashboard view
type Navigator interface {
	NavigateTo(ctx context.Context, path string)
}

// Notifier is a user-visible, non-blocking notification surface
type Notifier interface {
	NotifySuccess(ctx context.Context, message string)
	NotifyFailure(ctx context.Context, message string)
}

// Localizer resolves localized messages.
// defaultText is used when id has no translation; params fill template placeholders.
type Localizer interface {
	Resolve(id, defaultText string, params map[string]interface{}) string
}
