package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"instagen/internal/client"
	"instagen/internal/logging"
	"instagen/internal/store"
	"instagen/internal/types"
	"instagen/internal/wizard"
)

const (
	minContentWidth  = 40
	promptCharLimit  = 500
	sessionQueueSize = 32
)

type uiMode int

const (
	uiModeWizard uiMode = iota
	uiModeSettings
	uiModeHistory
	uiModeEdit
)

type editField int

const (
	editCaption editField = iota
	editCallToAction
	editHashtags
)

type formRow int

const (
	rowPrompt formRow = iota
	rowPostType
	rowTone
	rowLength
	formRowCount
)

type Model struct {
	machine      *wizard.Machine
	updates      <-chan wizard.Session
	historyStore store.HistoryStore
	credStore    store.CredentialsStore

	session    wizard.Session
	ready      bool
	readyKnown bool

	mode     uiMode
	row      formRow
	typeIdx  int
	toneIdx  int
	lenIdx   int
	cursor   int
	variant  int
	carousel int
	field    editField

	prompt   textinput.Model
	editor   textarea.Model
	settings *SettingsController
	loader   spinner.Model

	postOptions   []types.PostOption
	toneOptions   []types.Tone
	lengthOptions []types.Length

	history []*types.HistoryRecord
	status  string
	width   int
	height  int
}

func NewModel(machine *wizard.Machine, updates <-chan wizard.Session, history store.HistoryStore, credentials store.CredentialsStore) Model {
	prompt := textinput.New()
	prompt.Placeholder = "Describe the post you want to create"
	prompt.CharLimit = promptCharLimit
	prompt.Width = minContentWidth
	prompt.Focus()

	editor := textarea.New()
	editor.CharLimit = 2200
	editor.SetWidth(minContentWidth)
	editor.SetHeight(6)

	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = lipgloss.NewStyle()

	return Model{
		machine:       machine,
		updates:       updates,
		historyStore:  history,
		credStore:     credentials,
		session:       machine.Snapshot(),
		prompt:        prompt,
		editor:        editor,
		settings:      NewSettingsController(minContentWidth),
		loader:        loader,
		postOptions:   types.PostOptions(),
		toneOptions:   types.ToneOptions(),
		lengthOptions: types.LengthOptions(),
	}
}

// Run wires the workflow machine to the terminal UI and blocks until the
// user quits.
func Run(cli *client.Client, repo store.Repository, logger logging.Logger) error {
	updates := make(chan wizard.Session, sessionQueueSize)
	machine := wizard.NewMachine(cli,
		wizard.WithRecorder(repo.History()),
		wizard.WithCredentialsSource(repo.Credentials()),
		wizard.WithLogger(logger),
		wizard.WithObserver(func(session wizard.Session) {
			updates <- session
		}),
	)
	model := NewModel(machine, updates, repo.History(), repo.Credentials())
	p := tea.NewProgram(&model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		waitSessionCmd(m.updates),
		checkReadyCmd(m.machine),
		fetchHistoryCmd(m.historyStore),
		m.loader.Tick,
		textinput.Blink,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := msg.Width - 4
		if width < minContentWidth {
			width = minContentWidth
		}
		m.prompt.Width = width
		m.editor.SetWidth(width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd

	case sessionMsg:
		return m.applySession(msg.session)

	case actionErrMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case readyMsg:
		m.ready = msg.ready
		m.readyKnown = true
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.status = "history error: " + msg.err.Error()
			return m, nil
		}
		m.history = msg.records
		return m, nil

	case historyClearedMsg:
		if msg.err != nil {
			m.status = "clear history error: " + msg.err.Error()
			return m, nil
		}
		m.status = "history cleared"
		return m, fetchHistoryCmd(m.historyStore)

	case credentialsMsg:
		if msg.err != nil {
			m.status = "credentials error: " + msg.err.Error()
			return m, nil
		}
		m.settings.SetCredentials(msg.creds)
		return m, nil

	case credentialsSavedMsg:
		if msg.err != nil {
			m.status = "save credentials error: " + msg.err.Error()
			return m, nil
		}
		m.status = "credentials saved"
		m.mode = uiModeWizard
		return m, checkReadyCmd(m.machine)

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy error: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied to clipboard"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applySession installs a fresh snapshot and keeps the UI cursors inside
// the new bounds.
func (m *Model) applySession(session wizard.Session) (tea.Model, tea.Cmd) {
	previous := m.session.Stage
	m.session = session

	if m.cursor >= len(session.Media) {
		m.cursor = 0
	}
	if session.Text != nil && m.variant >= len(session.Text.CaptionVariations) {
		m.variant = 0
	}
	if m.carousel >= len(session.Media) {
		m.carousel = 0
	}
	if session.Stage == wizard.StageIdle {
		m.cursor = 0
		m.variant = 0
		m.carousel = 0
		m.row = rowPrompt
		m.prompt.SetValue(session.Form.Prompt)
		m.prompt.Focus()
	}

	cmds := []tea.Cmd{waitSessionCmd(m.updates)}
	if session.Stage == wizard.StagePublished && previous != wizard.StagePublished {
		cmds = append(cmds, fetchHistoryCmd(m.historyStore))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case uiModeSettings:
		return m.handleSettingsKey(msg)
	case uiModeHistory:
		return m.handleHistoryKey(msg)
	case uiModeEdit:
		return m.handleEditKey(msg)
	}

	switch msg.String() {
	case "ctrl+o":
		m.mode = uiModeSettings
		m.settings.Focus(0)
		return m, loadCredentialsCmd(m.credStore)
	case "ctrl+g":
		m.mode = uiModeHistory
		return m, fetchHistoryCmd(m.historyStore)
	}

	switch m.session.Stage {
	case wizard.StageIdle:
		return m.handleIdleKey(msg)
	case wizard.StageSelectingImage:
		return m.handleSelectingKey(msg)
	case wizard.StagePreview:
		return m.handlePreviewKey(msg)
	case wizard.StagePublished:
		return m.handlePublishedKey(msg)
	case wizard.StageError:
		return m.handleErrorKey(msg)
	}
	return m, nil
}

func (m *Model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !m.prompt.Focused() && m.row != rowPrompt {
			m.setRow(rowPrompt)
			return m, nil
		}
		m.status = ""
		return m, submitPromptCmd(m.machine, m.form())
	case "up", "shift+tab":
		m.setRow((m.row - 1 + formRowCount) % formRowCount)
		return m, nil
	case "down", "tab":
		m.setRow((m.row + 1) % formRowCount)
		return m, nil
	}

	if m.row != rowPrompt {
		switch msg.String() {
		case "left", "h":
			m.cycleOption(-1)
			return m, nil
		case "right", "l", " ":
			m.cycleOption(1)
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleSelectingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.session.Media)
	switch msg.String() {
	case "left", "h", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "right", "l", "down":
		if m.cursor < count-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		m.status = ""
		return m, selectImageCmd(m.machine, m.cursor)
	case "esc":
		m.machine.Reset()
		return m, nil
	case "q":
		return m, tea.Quit
	}
	if index := digitKey(msg.String()); index >= 0 && index < count {
		m.cursor = index
		m.status = ""
		return m, selectImageCmd(m.machine, index)
	}
	return m, nil
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := m.session.Text
	switch msg.String() {
	case "tab", "down":
		if text != nil && len(text.CaptionVariations) > 0 {
			m.variant = (m.variant + 1) % len(text.CaptionVariations)
		}
		return m, nil
	case "shift+tab", "up":
		if text != nil && len(text.CaptionVariations) > 0 {
			m.variant = (m.variant - 1 + len(text.CaptionVariations)) % len(text.CaptionVariations)
		}
		return m, nil
	case "left":
		if m.session.Form.PostType == types.PostTypeCarousel && m.carousel > 0 {
			m.carousel--
		}
		return m, nil
	case "right":
		if m.session.Form.PostType == types.PostTypeCarousel && m.carousel < len(m.session.Media)-1 {
			m.carousel++
		}
		return m, nil
	case "e":
		return m.beginEdit(editCaption)
	case "c":
		return m.beginEdit(editCallToAction)
	case "t":
		return m.beginEdit(editHashtags)
	case "p", "enter":
		if text == nil || len(text.CaptionVariations) == 0 {
			return m, publishCmd(m.machine, types.CaptionVariation{}, m.carousel)
		}
		m.status = ""
		return m, publishCmd(m.machine, text.CaptionVariations[m.variant], m.carousel)
	case "esc":
		m.machine.Reset()
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handlePublishedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		if m.session.PublishedURL != "" {
			return m, copyTextCmd(m.session.PublishedURL)
		}
		return m, nil
	case "n", "enter":
		m.machine.Reset()
		return m, nil
	case "v":
		m.mode = uiModeHistory
		return m, fetchHistoryCmd(m.historyStore)
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.status = ""
		return m, retryCmd(m.machine)
	case "n", "esc":
		m.machine.Reset()
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = uiModeWizard
		return m, nil
	case "ctrl+s":
		return m, saveCredentialsCmd(m.credStore, m.settings.Credentials())
	case "tab", "down", "enter":
		m.settings.Next()
		return m, nil
	case "shift+tab", "up":
		m.settings.Prev()
		return m, nil
	}
	return m, m.settings.Update(msg)
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+g":
		m.mode = uiModeWizard
		return m, nil
	case "x":
		return m, clearHistoryCmd(m.historyStore)
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = uiModeWizard
		m.editor.Blur()
		return m, nil
	case "ctrl+s":
		m.applyEdit()
		m.mode = uiModeWizard
		m.editor.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) beginEdit(field editField) (tea.Model, tea.Cmd) {
	text := m.session.Text
	if text == nil || len(text.CaptionVariations) == 0 {
		return m, nil
	}
	m.field = field
	switch field {
	case editCaption:
		m.editor.SetValue(text.CaptionVariations[m.variant].Caption)
	case editCallToAction:
		m.editor.SetValue(text.CaptionVariations[m.variant].CallToAction)
	case editHashtags:
		m.editor.SetValue(text.Hashtags)
	}
	m.mode = uiModeEdit
	m.editor.Focus()
	return m, textarea.Blink
}

// applyEdit pushes the edited field back into the workflow session.
func (m *Model) applyEdit() {
	text := m.session.Text
	if text == nil || len(text.CaptionVariations) == 0 {
		return
	}
	variations := append([]types.CaptionVariation(nil), text.CaptionVariations...)
	hashtags := text.Hashtags
	value := m.editor.Value()
	switch m.field {
	case editCaption:
		variations[m.variant].Caption = value
	case editCallToAction:
		variations[m.variant].CallToAction = value
	case editHashtags:
		hashtags = value
	}
	m.machine.EditText(variations, hashtags)
}

func (m *Model) setRow(row formRow) {
	m.row = row
	if row == rowPrompt {
		m.prompt.Focus()
	} else {
		m.prompt.Blur()
	}
}

func (m *Model) cycleOption(delta int) {
	switch m.row {
	case rowPostType:
		m.typeIdx = (m.typeIdx + delta + len(m.postOptions)) % len(m.postOptions)
	case rowTone:
		m.toneIdx = (m.toneIdx + delta + len(m.toneOptions)) % len(m.toneOptions)
	case rowLength:
		m.lenIdx = (m.lenIdx + delta + len(m.lengthOptions)) % len(m.lengthOptions)
	}
}

func (m *Model) form() types.PostForm {
	return types.PostForm{
		Prompt:   m.prompt.Value(),
		PostType: m.postOptions[m.typeIdx].ID,
		Tone:     m.toneOptions[m.toneIdx],
		Length:   m.lengthOptions[m.lenIdx],
	}
}

func digitKey(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}
