package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songle/internal/bot"
	"github.com/desertthunder/songle/internal/formatter"
)

// Model is the chat console state.
type Model struct {
	ctx        context.Context
	bot        *bot.Bot
	userID     string
	input      textinput.Model
	transcript viewport.Model
	entries    []string
	pending    int
	width      int
	height     int
	ready      bool
	help       help.Model
	keys       keyMap
}

// NewModel creates a console that sends commands to b on behalf of userID.
func NewModel(ctx context.Context, b *bot.Bot, userID string) *Model {
	input := textinput.New()
	input.Placeholder = "/start playlist <link>, /guess <title>, /help"
	input.Prompt = "> "
	input.CharLimit = 300
	input.Focus()

	return &Model{
		ctx:    ctx,
		bot:    b,
		userID: userID,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init shows the help card.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.send("/help"))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		height := max(msg.Height-m.chromeHeight(), 3)
		if !m.ready {
			m.transcript = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.transcript.Width = msg.Width
			m.transcript.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.clear):
			m.entries = nil
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.pageUp), key.Matches(msg, m.keys.pageDown):
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.send):
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.send(line)
		}

	case Msg:
		if msg.kind == MsgReply {
			reply := msg.data.(struct {
				line  string
				embed formatter.Embed
			})
			m.pending--
			if reply.line != "/help" || len(m.entries) > 0 {
				m.entries = append(m.entries, styles.help.Render(m.userID+": "+reply.line))
			}
			m.entries = append(m.entries, EmbedCard(reply.embed, m.width))
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send handles line off the UI goroutine.
func (m *Model) send(line string) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		return replyMsg(line, m.bot.HandleLine(m.ctx, m.userID, line))
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(strings.Join(m.entries, "\n\n"))
	m.transcript.GotoBottom()
}

// chromeHeight is the number of rows used by everything except the transcript.
func (m *Model) chromeHeight() int {
	return 6
}

// View renders the title, transcript, input line and help.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("songle"))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.transcript.View())
	} else {
		b.WriteString(strings.Join(m.entries, "\n\n"))
	}
	b.WriteString("\n\n")

	if m.pending > 0 {
		b.WriteString(styles.warn.Render("thinking..."))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Transcript returns the rendered transcript entries, oldest first.
func (m *Model) Transcript() []string {
	return append([]string(nil), m.entries...)
}
