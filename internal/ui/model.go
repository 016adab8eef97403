package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"CivicAsk/internal/askclient"
	"CivicAsk/internal/config"
	"CivicAsk/internal/querysession"
	"CivicAsk/internal/suggest"
	"CivicAsk/internal/voice"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ViewMode selects which face of a resolved answer is rendered.
type ViewMode int

const (
	ModeText ViewMode = iota
	ModeSources
)

// metadataClient fetches the startup metadata from the answering service.
type metadataClient interface {
	Models(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*askclient.StatsResponse, error)
}

// Model is the bubbletea model for the query client.
type Model struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    Styles
	renderer  *glamour.TermRenderer

	cfg    config.Config
	logger *slog.Logger

	controller *querysession.Controller
	meta       metadataClient
	voice      *voice.Controller

	models   []string
	model    string
	stats    *askclient.StatsResponse

	suggestions []string
	selected    int // highlighted suggestion, -1 for none

	historyIdx int // history browse cursor, -1 when not browsing

	viewMode    ViewMode
	isLoading   bool
	recording   bool
	voiceEvents <-chan voice.Event
	notice      string
	width       int
	height      int
	ready       bool
}

// Messages for tea updates
type (
	outcomeMsg     querysession.Outcome
	modelsMsg      []string
	statsMsg       *askclient.StatsResponse
	voiceEventMsg  voice.Event
	voiceClosedMsg struct{}
	clearNoticeMsg struct{}
)

// NewModel wires the interface to its collaborators.
func NewModel(cfg config.Config, controller *querysession.Controller, meta metadataClient, vc *voice.Controller, logger *slog.Logger) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about incidents... (Enter to submit, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	m := Model{
		textinput:  ti,
		viewport:   vp,
		spinner:    sp,
		styles:     styles,
		renderer:   renderer,
		cfg:        cfg,
		logger:     logger,
		controller: controller,
		meta:       meta,
		voice:      vc,
		models:     append([]string(nil), config.FallbackModels...),
		model:      cfg.Model,
		selected:   -1,
		historyIdx: -1,
	}
	m.viewport.SetContent(m.renderResult())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.fetchModels(),
		m.fetchStats(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			return m.handleSubmit()

		case tea.KeyTab:
			if len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
			}
			return m, nil

		case tea.KeyRight:
			if m.selected >= 0 && m.selected < len(m.suggestions) {
				m.textinput.SetValue(m.suggestions[m.selected])
				m.textinput.CursorEnd()
				m.refreshSuggestions()
				return m, nil
			}

		case tea.KeyUp:
			return m.browseHistory(1), nil

		case tea.KeyDown:
			return m.browseHistory(-1), nil

		case tea.KeyCtrlT:
			if m.viewMode == ModeText {
				m.viewMode = ModeSources
			} else {
				m.viewMode = ModeText
			}
			m.viewport.SetContent(m.renderResult())
			return m, nil

		case tea.KeyCtrlP:
			m.cycleModel()
			return m, nil

		case tea.KeyCtrlV:
			return m.toggleVoice()

		case tea.KeyCtrlY:
			return m.copyAnswer()

		case tea.KeyCtrlF:
			return m.recordFeedback("helpful")

		case tea.KeyCtrlX:
			return m.recordFeedback("not helpful")
		}

		m.textinput, tiCmd = m.textinput.Update(msg)
		m.historyIdx = -1
		m.refreshSuggestions()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		suggestionHeight := suggest.Limit + 1
		inputHeight := 1
		footerHeight := 2

		vpWidth := max(msg.Width-4, 20)
		vpHeight := max(msg.Height-headerHeight-suggestionHeight-inputHeight-footerHeight, 3)
		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.textinput.Width = max(msg.Width-4, 20)

		if renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(vpWidth-2, 20)),
		); err == nil {
			m.renderer = renderer
		}
		m.viewport.SetContent(m.renderResult())

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case outcomeMsg:
		applied := m.controller.Apply(context.Background(), querysession.Outcome(msg))
		if applied {
			m.isLoading = false
			m.viewMode = ModeText
			m.viewport.SetContent(m.renderResult())
			m.viewport.GotoTop()
		}
		return m, nil

	case modelsMsg:
		if len(msg) > 0 {
			m.models = msg
		}
		return m, nil

	case statsMsg:
		m.stats = msg
		return m, nil

	case voiceEventMsg:
		return m.handleVoiceEvent(voice.Event(msg))

	case voiceClosedMsg:
		m.recording = false
		m.voiceEvents = nil
		m.voice.Finish()
		return m, nil

	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	gen, err := m.controller.Begin(context.Background(), input)
	if err != nil {
		// Empty draft: nothing to submit.
		return m, nil
	}

	m.isLoading = true
	m.historyIdx = -1
	m.textinput.Reset()
	m.suggestions = nil
	m.selected = -1
	m.viewport.SetContent(m.renderResult())

	model := m.model
	numChunks := m.cfg.NumChunks
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return outcomeMsg(m.controller.Run(context.Background(), gen, input, model, numChunks))
		},
	)
}

func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/clear":
		m.textinput.Reset()
		m.suggestions = nil
		m.selected = -1
		m.historyIdx = -1
		return m, nil

	case "/help":
		m.textinput.Reset()
		m.notice = "Enter submit · Tab/→ suggestions · ↑/↓ history · ^T sources · ^P model · ^V voice · ^Y copy · ^F/^X feedback"
		return m, m.expireNotice()

	default:
		return m.showNotice("unknown command: " + input)
	}
}

// browseHistory moves the replay cursor and loads the selected entry into
// the input. Replaying never auto-submits.
func (m Model) browseHistory(dir int) Model {
	entries := m.controller.History()
	if len(entries) == 0 {
		return m
	}

	next := m.historyIdx + dir
	if next < -1 {
		next = -1
	}
	if next >= len(entries) {
		next = len(entries) - 1
	}
	m.historyIdx = next

	if next == -1 {
		m.textinput.Reset()
		m.suggestions = nil
		m.selected = -1
		return m
	}

	queryText, model := m.controller.Replay(entries[next])
	m.textinput.SetValue(queryText)
	m.textinput.CursorEnd()
	if model != "" {
		m.model = model
	}
	m.refreshSuggestions()
	return m
}

func (m *Model) cycleModel() {
	if len(m.models) == 0 {
		return
	}
	idx := 0
	for i, name := range m.models {
		if name == m.model {
			idx = (i + 1) % len(m.models)
			break
		}
	}
	m.model = m.models[idx]
}

func (m *Model) refreshSuggestions() {
	m.suggestions = suggest.Generate(m.textinput.Value())
	m.selected = -1
}

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	if m.recording {
		m.voice.Toggle(context.Background())
		m.recording = false
		m.voiceEvents = nil
		return m, nil
	}

	events, err := m.voice.Toggle(context.Background())
	if err != nil {
		return m.showNotice("voice capture unavailable: " + err.Error())
	}
	m.recording = true
	m.voiceEvents = events
	return m, m.waitVoiceEvent(events)
}

func (m Model) handleVoiceEvent(ev voice.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case voice.EventTranscript:
		m.textinput.SetValue(ev.Transcript)
		m.textinput.CursorEnd()
		m.refreshSuggestions()
		if m.voiceEvents != nil {
			return m, m.waitVoiceEvent(m.voiceEvents)
		}
		return m, nil

	case voice.EventError:
		m.recording = false
		m.voiceEvents = nil
		m.voice.Finish()
		return m.showNotice("voice capture failed: " + ev.Err.Error())

	default: // voice.EventEnded
		m.recording = false
		m.voiceEvents = nil
		m.voice.Finish()
		return m, nil
	}
}

func (m Model) waitVoiceEvent(events <-chan voice.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return voiceClosedMsg{}
		}
		return voiceEventMsg(ev)
	}
}

// copyAnswer and recordFeedback are presentation actions: they never touch
// the query session.
func (m Model) copyAnswer() (tea.Model, tea.Cmd) {
	sess := m.controller.Session()
	if sess.Status != querysession.StatusResolved {
		return m, nil
	}
	if err := clipboard.WriteAll(sess.Result.Answer); err != nil {
		return m.showNotice("copy failed: " + err.Error())
	}
	return m.showNotice("answer copied to clipboard")
}

func (m Model) recordFeedback(verdict string) (tea.Model, tea.Cmd) {
	if m.controller.Session().Status != querysession.StatusResolved {
		return m, nil
	}
	m.logger.Info("answer feedback", "verdict", verdict)
	return m.showNotice("feedback recorded: " + verdict)
}

func (m Model) showNotice(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	return m, m.expireNotice()
}

func (m Model) expireNotice() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

func (m Model) fetchModels() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		models, err := m.meta.Models(ctx)
		if err != nil {
			m.logger.Warn("model list unavailable, keeping fallback", "error", err)
			return modelsMsg(nil)
		}
		return modelsMsg(models)
	}
}

func (m Model) fetchStats() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stats, err := m.meta.Stats(ctx)
		if err != nil {
			m.logger.Warn("dataset stats unavailable, omitting overview", "error", err)
			return statsMsg(nil)
		}
		return statsMsg(stats)
	}
}
