package domain

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

type Conversation struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Summary  string
	Messages []Message `gorm:"constraint:OnDelete:CASCADE"`
	gorm.Model
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	Role           Role      `gorm:"type:text"`
	Content        string
	ToolCalls      string // serialized []ToolCall, empty when none
	ModelName      string
	Provider       string
	gorm.Model
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ToolCall is a function invocation chosen by the model. Arguments is
// the raw serialized argument string exactly as the provider returned
// it; nothing parses it until a tool is about to execute.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
