package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dispatchbot/dispatch/internal/agent"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/dispatchbot/dispatch/internal/tui/components"
)

type AppState int

const (
	StateConversationList AppState = iota
	StateChat
)

type Model struct {
	state          AppState
	conversationCh chan *domain.Conversation
	agent          *agent.Agent
	repo           repository.ConversationRepository
	currentModel   tea.Model
}

func NewModel(a *agent.Agent, repo repository.ConversationRepository) Model {
	ch := make(chan *domain.Conversation, 1)
	list := components.NewConversationList(repo, ch)

	return Model{
		state:          StateConversationList,
		conversationCh: ch,
		agent:          a,
		repo:           repo,
		currentModel:   list,
	}
}

func (m Model) Init() tea.Cmd {
	return m.currentModel.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == StateConversationList {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}
		}
	}

	// Handle conversation selection
	select {
	case conv := <-m.conversationCh:
		if conv == nil {
			// Start a fresh conversation
			created, err := m.agent.NewConversation(context.Background())
			if err != nil {
				return m, tea.Quit
			}
			conv = created
		}
		m.state = StateChat
		m.currentModel = components.NewChatView(conv, m.agent, m.repo)
		return m, m.currentModel.Init()
	default:
	}

	// Update current model
	var newModel tea.Model
	newModel, cmd = m.currentModel.Update(msg)
	m.currentModel = newModel
	return m, cmd
}

func (m Model) View() string {
	return m.currentModel.View()
}
