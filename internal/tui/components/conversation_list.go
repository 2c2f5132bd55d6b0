package components

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/dispatchbot/dispatch/internal/tui/styles"
)

type ConversationItem struct {
	conversation *domain.Conversation
	title        string
}

func (i ConversationItem) Title() string       { return i.title }
func (i ConversationItem) Description() string { return "" }
func (i ConversationItem) FilterValue() string { return i.title }

type ConversationList struct {
	list     list.Model
	repo     repository.ConversationRepository
	selected chan *domain.Conversation
}

// NewConversationList builds the conversation picker. Selecting an
// item sends it on the selected channel; a nil value on the channel
// signals that a fresh conversation should be started.
func NewConversationList(repo repository.ConversationRepository, selected chan *domain.Conversation) *ConversationList {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Conversations"
	l.Styles.Title = styles.ListTitleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &ConversationList{
		list:     l,
		repo:     repo,
		selected: selected,
	}
}

func (m *ConversationList) Init() tea.Cmd {
	return m.loadConversations
}

func (m *ConversationList) loadConversations() tea.Msg {
	conversations, err := m.repo.List(context.Background(), 0)
	if err != nil {
		return conversationsLoadedMsg{}
	}

	items := make([]list.Item, len(conversations))
	for i, conv := range conversations {
		title := conv.Summary
		if title == "" {
			title = conv.ID.String()[:8]
		}
		items[i] = ConversationItem{
			conversation: conv,
			title:        title,
		}
	}
	return conversationsLoadedMsg{items}
}

type conversationsLoadedMsg struct {
	items []list.Item
}

func (m *ConversationList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Handle key presses before passing to list
		switch msg.String() {
		case "n":
			m.selected <- nil
			return m, nil
		case "enter":
			if i, ok := m.list.SelectedItem().(ConversationItem); ok {
				m.selected <- i.conversation
				return m, nil
			}
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.MouseMsg:
		if msg.Type == tea.MouseLeft {
			if i, ok := m.list.SelectedItem().(ConversationItem); ok {
				m.selected <- i.conversation
				return m, nil
			}
		}

	case conversationsLoadedMsg:
		m.list.SetItems(msg.items)
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ConversationList) View() string {
	return styles.DocStyle.Render(
		m.list.View() + "\n\nPress 'n' to start a new conversation",
	)
}
