package components

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dispatchbot/dispatch/internal/agent"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/events"
	"github.com/dispatchbot/dispatch/internal/llm"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/dispatchbot/dispatch/internal/tui/styles"
)

type ChatView struct {
	conversation *domain.Conversation
	viewport     viewport.Model
	textarea     textarea.Model
	messages     []domain.Message
	agent        *agent.Agent
	repo         repository.ConversationRepository
	status       string
	pendingCall  *domain.ToolCall
	err          error
	ready        bool
	waiting      bool

	// in-flight reply being streamed, rendered below the history
	streamCh    chan events.Event
	streamText  string
	streamCalls []*callPreview
}

// callPreview accumulates a streamed function call for display.
type callPreview struct {
	name string
	args strings.Builder
}

func NewChatView(conversation *domain.Conversation, a *agent.Agent, repo repository.ConversationRepository) *ChatView {
	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 0

	ta.SetWidth(30)
	ta.SetHeight(3)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	vp := viewport.New(30, 30)
	vp.SetContent("")

	return &ChatView{
		conversation: conversation,
		textarea:     ta,
		viewport:     vp,
		agent:        a,
		repo:         repo,
		messages:     make([]domain.Message, 0),
	}
}

func (m *ChatView) Init() tea.Cmd {
	return tea.Batch(
		m.loadMessages,
		textarea.Blink,
	)
}

type messagesLoadedMsg struct {
	messages []domain.Message
}

func (m *ChatView) loadMessages() tea.Msg {
	messages, err := m.repo.GetMessages(context.Background(), m.conversation.ID)
	if err != nil {
		return replyMsg{err: err}
	}
	return messagesLoadedMsg{messages}
}

type replyMsg struct {
	status  string
	pending *domain.ToolCall
	err     error
}

func (m *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-m.textarea.Height()-4)
			m.textarea.SetWidth(msg.Width)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - m.textarea.Height() - 4
			m.textarea.SetWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if !m.textarea.Focused() {
				m.textarea.Focus()
				return m, nil
			}
			if m.waiting {
				return m, nil
			}
			content := m.textarea.Value()
			if m.pendingCall != nil {
				call := *m.pendingCall
				m.pendingCall = nil
				m.textarea.Reset()
				m.waiting = true
				if content == "" {
					m.status = "Running " + call.Name + "..."
					return m, m.approveCall(call)
				}
				m.status = "Denying function call..."
				return m, m.denyCall(content)
			}
			if content == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.waiting = true
			m.status = "Waiting for response..."
			m.messages = append(m.messages, domain.Message{
				ConversationID: m.conversation.ID,
				Role:           domain.RoleHuman,
				Content:        content,
			})
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			return m, m.sendMessage(content)
		}

	case messagesLoadedMsg:
		m.messages = msg.messages
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()

	case streamEventMsg:
		if m.waiting {
			m.applyStreamEvent(msg.event)
			m.viewport.SetContent(m.renderMessages() + m.renderStream())
			m.viewport.GotoBottom()
		}
		return m, m.waitForStream(msg.ch)

	case streamClosedMsg:
		m.streamCh = nil

	case replyMsg:
		m.waiting = false
		m.status = msg.status
		m.pendingCall = msg.pending
		m.err = msg.err
		m.streamText = ""
		m.streamCalls = nil
		return m, m.loadMessages
	}

	if !m.waiting {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *ChatView) View() string {
	footer := m.textarea.View()
	if m.err != nil {
		footer = fmt.Sprintf("Error: %v\n%s", m.err, footer)
	} else if m.status != "" {
		footer = fmt.Sprintf("%s\n%s", styles.StatusMessageStyle(m.status), footer)
	}
	return fmt.Sprintf(
		"%s\n%s",
		m.viewport.View(),
		footer,
	)
}

func (m *ChatView) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case domain.RoleHuman:
			b.WriteString(styles.HighlightStyle.Render("You: "))
		case domain.RoleTool:
			b.WriteString(styles.HighlightStyle.Render("Tool: "))
		default:
			b.WriteString(styles.HighlightStyle.Render("Assistant: "))
		}
		b.WriteString(msg.Content)
		if calls := renderToolCalls(msg.ToolCalls); calls != "" {
			b.WriteString("\n")
			b.WriteString(styles.ToolStyle.Render(calls))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderToolCalls(serialized string) string {
	if serialized == "" {
		return ""
	}
	var calls []domain.ToolCall
	if err := json.Unmarshal([]byte(serialized), &calls); err != nil {
		return ""
	}
	var b strings.Builder
	for _, call := range calls {
		fmt.Fprintf(&b, "Function: %s\n", call.Name)
		fmt.Fprintf(&b, "Arguments: %s\n", string(call.Arguments))
	}
	return strings.TrimRight(b.String(), "\n")
}

type streamEventMsg struct {
	event events.Event
	ch    chan events.Event
}

type streamClosedMsg struct{}

func (m *ChatView) sendMessage(content string) tea.Cmd {
	ch := make(chan events.Event, 16)
	m.streamCh = ch

	send := func() tea.Msg {
		defer close(ch)
		_, err := m.agent.SendMessage(context.Background(), agent.SendMessageOptions{
			ConversationID: m.conversation.ID,
			Content:        content,
			StreamHandler:  newStreamRelay(ch),
		})

		var pending *agent.PendingFunctionCallError
		if err != nil && !errors.As(err, &pending) {
			ch <- events.ErrorEvent{Error: err}
		}
		return agentResult(err)
	}
	return tea.Batch(send, m.waitForStream(ch))
}

// waitForStream receives one streamed event and hands it to Update,
// which re-issues the command until the channel closes.
func (m *ChatView) waitForStream(ch chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: event, ch: ch}
	}
}

func (m *ChatView) applyStreamEvent(event events.Event) {
	switch event := event.(type) {
	case llm.TextEvent:
		m.streamText += event.Content
	case llm.ToolCallStartEvent:
		m.streamCalls = append(m.streamCalls, &callPreview{name: event.FunctionName})
	case llm.ToolNewArgumentEvent:
		if call := m.currentCall(); call != nil {
			if call.args.Len() > 0 {
				call.args.WriteString(", ")
			}
			call.args.WriteString(event.ArgumentName)
			call.args.WriteString("=")
		}
	case llm.ToolArgumentChunkEvent:
		if call := m.currentCall(); call != nil {
			call.args.WriteString(event.Chunk)
		}
	case llm.MessageCompleteEvent:
		if event.Content != "" {
			m.streamText = event.Content
		}
	case events.ErrorEvent:
		m.err = event.Error
	}
}

func (m *ChatView) currentCall() *callPreview {
	if len(m.streamCalls) == 0 {
		return nil
	}
	return m.streamCalls[len(m.streamCalls)-1]
}

func (m *ChatView) renderStream() string {
	if m.streamText == "" && len(m.streamCalls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.HighlightStyle.Render("Assistant: "))
	b.WriteString(m.streamText)
	for _, call := range m.streamCalls {
		b.WriteString("\n")
		line := fmt.Sprintf("Function: %s", call.name)
		if call.args.Len() > 0 {
			line += fmt.Sprintf("\nArguments: %s", call.args.String())
		}
		b.WriteString(styles.ToolStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *ChatView) approveCall(call domain.ToolCall) tea.Cmd {
	return func() tea.Msg {
		_, err := m.agent.ApproveFunctionCall(context.Background(), m.conversation.ID, call)
		return agentResult(err)
	}
}

func (m *ChatView) denyCall(reason string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.agent.DenyFunctionCall(context.Background(), m.conversation.ID, reason)
		return agentResult(err)
	}
}

// agentResult maps an agent error to a reply message, turning a
// pending function call into an approval prompt.
func agentResult(err error) tea.Msg {
	var pending *agent.PendingFunctionCallError
	if errors.As(err, &pending) {
		call := pending.ToolCall
		return replyMsg{
			status:  fmt.Sprintf("%s requires approval: press enter to run it, or type a reason and press enter to deny", call.Name),
			pending: &call,
		}
	}
	if err != nil {
		return replyMsg{err: err}
	}
	return replyMsg{}
}
