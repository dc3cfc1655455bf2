package ui

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/internal/config"
	"github.com/alipala/ai-fantasy-rpg/internal/game"
	"github.com/alipala/ai-fantasy-rpg/pkg/quest"
	"github.com/alipala/ai-fantasy-rpg/pkg/session"
	"github.com/alipala/ai-fantasy-rpg/pkg/world"
)

const placeholderText = "What do you do?"

// genericFailure is shown for transport-level failures; logical errors
// from the backend are surfaced verbatim instead.
const genericFailure = "Sorry, something went wrong. Please try again."

type lineKind int

const (
	lineUser lineKind = iota
	lineBot
	lineError
	lineImage
)

// line is one transcript entry. The transcript is rebuilt for the
// current width on every change, teacher-style, so raw text is kept.
type line struct {
	kind lineKind
	text string
}

// invEntry is one rendered inventory row.
type invEntry struct {
	name  string
	count int
}

// Model is the bubbletea model for the whole client. Controllers mutate
// the session from command goroutines, so View renders exclusively from
// model-owned mirrors that Update refreshes as messages arrive.
type Model struct {
	cfg    *config.Config
	gw     game.Gateway
	logger *slog.Logger

	state *session.State
	nav   *game.Navigation
	ic    *game.Interaction
	comp  *game.Completion

	// Mirror of the session screen, advanced only inside Update.
	screen session.Screen

	// Option lists for the active selection screen.
	worlds     []world.World
	kingdoms   []world.Kingdom
	towns      []world.Town
	characters []world.Character
	cursor     int

	// Playing screen.
	chatViewport viewport.Model
	textarea     textarea.Model
	spinner      spinner.Model
	transcript   []line
	loading      bool

	// Side panel snapshots, taken from start and turn results.
	heroName  string
	worldName string
	inventory []invEntry
	examples  []string
	progress  *quest.Progress

	// Completion screen.
	completionView *game.View

	loadingList bool
	screenErr   string
	notice      string

	width  int
	height int
	ready  bool
}

type worldsMsg struct {
	token   uint64
	catalog *world.Catalog
	err     error
}

type charactersMsg struct {
	token uint64
	chars []world.Character
}

type gameStartedMsg struct {
	result *game.StartResult
	err    error
}

type turnMsg struct {
	result *game.TurnResult
	err    error
}

type completionMsg struct {
	view *game.View
	err  error
}

type shareCopiedMsg struct{ err error }

type imageSavedMsg struct {
	name string
	err  error
}

func NewModel(cfg *config.Config, gw game.Gateway, logger *slog.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	m := Model{
		cfg:          cfg,
		gw:           gw,
		logger:       logger,
		textarea:     ta,
		chatViewport: vp,
		spinner:      sp,
	}
	m.resetSession()
	return m
}

// resetSession builds a fresh session and fresh controllers. Used at
// startup and on replay; the equivalent of the browser's full reload.
func (m *Model) resetSession() {
	st := session.New()
	m.state = st
	m.nav = game.NewNavigation(st, m.gw, m.logger)
	m.ic = game.NewInteraction(st, m.gw, m.logger)
	m.comp = game.NewCompletion(st, m.gw, m.logger, m.cfg.ShareBaseURL, func() {})

	m.screen = session.ScreenStart
	m.worlds = nil
	m.kingdoms = nil
	m.towns = nil
	m.characters = nil
	m.cursor = 0
	m.transcript = nil
	m.heroName = ""
	m.worldName = ""
	m.inventory = nil
	m.examples = nil
	m.progress = nil
	m.completionView = nil
	m.loading = false
	m.loadingList = false
	m.screenErr = ""
	m.notice = ""
	m.textarea.Reset()
}

// inventoryEntries sorts the positive counts for display. Zero counts
// stay in the session but are never shown.
func inventoryEntries(inv session.Inventory) []invEntry {
	names := make([]string, 0, len(inv))
	for name, count := range inv {
		if count > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	entries := make([]invEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, invEntry{name: name, count: inv[name]})
	}
	return entries
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Commands

func (m Model) fetchWorldsCmd(token uint64) tea.Cmd {
	return func() tea.Msg {
		catalog, err := m.nav.FetchWorlds(context.Background())
		return worldsMsg{token: token, catalog: catalog, err: err}
	}
}

func (m Model) fetchCharactersCmd(token uint64, t world.Town) tea.Cmd {
	return func() tea.Msg {
		// Quest checks fail closed per character, so this never errors.
		chars := m.nav.FetchCharacters(context.Background(), t)
		return charactersMsg{token: token, chars: chars}
	}
}

func (m Model) startGameCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.ic.StartGame(context.Background())
		return gameStartedMsg{result: result, err: err}
	}
}

func (m Model) submitCmd(action string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.ic.Submit(context.Background(), action)
		return turnMsg{result: result, err: err}
	}
}

func (m Model) completionCmd(turn *game.TurnResult) tea.Cmd {
	return func() tea.Msg {
		view, err := m.comp.Run(context.Background(), turn)
		return completionMsg{view: view, err: err}
	}
}

func (m Model) copyShareCmd() tea.Cmd {
	view := m.completionView
	return func() tea.Msg {
		return shareCopiedMsg{err: m.comp.CopyShareLink(view)}
	}
}

func (m Model) downloadImageCmd() tea.Cmd {
	view := m.completionView
	return func() tea.Msg {
		name, err := m.comp.DownloadImage(context.Background(), view)
		return imageSavedMsg{name: name, err: err}
	}
}

// Update

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case worldsMsg:
		if m.nav.Stale(msg.token) {
			// A newer navigation superseded this fetch.
			return m, nil
		}
		m.loadingList = false
		if msg.err != nil {
			m.screenErr = describeError(msg.err, "Failed to load game worlds.")
			return m, nil
		}
		m.nav.ApplyCatalog(msg.token, msg.catalog)
		m.worlds = m.nav.Worlds()
		m.cursor = 0
		m.screenErr = ""
		return m, nil

	case charactersMsg:
		if m.nav.Stale(msg.token) {
			return m, nil
		}
		m.loadingList = false
		m.characters = msg.chars
		m.cursor = 0
		m.screenErr = ""
		return m, nil

	case gameStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.transcript = append(m.transcript, line{kind: lineError, text: describeError(msg.err, "Failed to initialize game.")})
			m.renderTranscript()
			return m, nil
		}
		m.inventory = inventoryEntries(msg.result.Inventory)
		m.examples = msg.result.Examples
		m.progress = msg.result.Progress
		m.transcript = append(m.transcript, line{kind: lineBot, text: msg.result.Welcome})
		if msg.result.Image != nil {
			m.transcript = append(m.transcript, imageLine(msg.result.Image))
		}
		m.renderTranscript()
		m.textarea.Focus()
		return m, textarea.Blink

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.transcript = append(m.transcript, line{kind: lineError, text: describeError(msg.err, genericFailure)})
			m.renderTranscript()
			m.textarea.Focus()
			return m, textarea.Blink
		}
		m.inventory = inventoryEntries(msg.result.Inventory)
		m.examples = msg.result.Examples
		m.progress = msg.result.Progress
		m.transcript = append(m.transcript, line{kind: lineBot, text: msg.result.Response})
		if msg.result.Image != nil {
			m.transcript = append(m.transcript, imageLine(msg.result.Image))
		}
		m.renderTranscript()
		if msg.result.Solved {
			// Hand off to the one-shot completion flow.
			m.loading = true
			m.screen = session.ScreenCompleted
			return m, m.completionCmd(msg.result)
		}
		m.textarea.Focus()
		return m, textarea.Blink

	case completionMsg:
		m.loading = false
		if msg.err != nil {
			// Double trigger; the flow already ran.
			return m, nil
		}
		m.completionView = msg.view
		return m, nil

	case shareCopiedMsg:
		if msg.err != nil {
			m.notice = "Could not copy the share link."
		} else {
			m.notice = "Share link copied to clipboard!"
		}
		return m, nil

	case imageSavedMsg:
		if msg.err != nil {
			m.notice = "Failed to download image. Please try again."
		} else {
			m.notice = "Image saved as " + msg.name
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case session.ScreenStart:
		if msg.Type == tea.KeyEnter {
			token := m.nav.Begin()
			m.screen = m.state.Screen
			m.loadingList = true
			return m, m.fetchWorldsCmd(token)
		}

	case session.ScreenWorldSelect:
		return m.handleListKey(msg, len(m.worlds), func() (tea.Model, tea.Cmd) {
			m.kingdoms = m.nav.SelectWorld(m.worlds[m.cursor])
			m.screen = m.state.Screen
			m.cursor = 0
			return m, nil
		})

	case session.ScreenKingdomSelect:
		return m.handleListKey(msg, len(m.kingdoms), func() (tea.Model, tea.Cmd) {
			towns, err := m.nav.SelectKingdom(m.kingdoms[m.cursor])
			if err != nil {
				m.screenErr = err.Error()
				return m, nil
			}
			m.screen = m.state.Screen
			m.towns = towns
			m.cursor = 0
			return m, nil
		})

	case session.ScreenTownSelect:
		return m.handleListKey(msg, len(m.towns), func() (tea.Model, tea.Cmd) {
			town := m.towns[m.cursor]
			token, err := m.nav.SelectTown(town)
			if err != nil {
				m.screenErr = err.Error()
				return m, nil
			}
			m.screen = m.state.Screen
			m.loadingList = true
			return m, m.fetchCharactersCmd(token, town)
		})

	case session.ScreenCharacterSelect:
		return m.handleListKey(msg, len(m.characters), func() (tea.Model, tea.Cmd) {
			char := m.characters[m.cursor]
			if err := m.nav.SelectCharacter(char); err != nil {
				m.notice = err.Error()
				return m, nil
			}
			m.screen = m.state.Screen
			m.heroName = char.Name
			m.worldName = m.state.World.Name
			m.loading = true
			m.notice = ""
			return m, m.startGameCmd()
		})

	case session.ScreenPlaying:
		return m.handlePlayingKey(msg)

	case session.ScreenCompleted:
		return m.handleCompletionKey(msg)
	}

	return m, nil
}

// handleListKey implements cursor movement, selection and back
// navigation shared by all selection screens.
func (m Model) handleListKey(msg tea.KeyMsg, count int, choose func() (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < count-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.loadingList || count == 0 {
			return m, nil
		}
		return choose()
	case tea.KeyEsc, tea.KeyBackspace:
		return m.goBack()
	}
	return m, nil
}

// goBack mirrors the browser back button. Returning to world selection
// re-fetches the catalog; other screens re-render from the tree that is
// already in the session.
func (m Model) goBack() (tea.Model, tea.Cmd) {
	if m.screen == session.ScreenWorldSelect {
		return m, nil
	}
	token := m.nav.Back()
	m.screen = m.state.Screen
	m.cursor = 0
	m.screenErr = ""
	m.notice = ""

	switch m.screen {
	case session.ScreenWorldSelect:
		m.loadingList = true
		return m, m.fetchWorldsCmd(token)
	case session.ScreenKingdomSelect:
		m.kingdoms = m.state.World.SortedKingdoms()
	case session.ScreenTownSelect:
		m.towns = m.state.Kingdom.SortedTowns()
	}
	return m, nil
}

func (m Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if m.loading {
			return m, nil
		}
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.loading = true

		// The player's line always renders before the reply of the
		// same turn, regardless of network latency.
		m.transcript = append(m.transcript, line{kind: lineUser, text: input})
		m.renderTranscript()
		return m, m.submitCmd(input)
	}

	// Number keys prefill example actions.
	if key := msg.String(); len(key) == 1 && key >= "1" && key <= "9" && m.textarea.Value() == "" {
		idx := int(key[0] - '1')
		if idx < len(m.examples) {
			m.textarea.SetValue(m.examples[idx])
			return m, nil
		}
	}

	return m.updateComponents(msg)
}

func (m Model) handleCompletionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "r":
		m.comp.Replay()
		m.resetSession()
		return m, m.Init()
	case "s":
		if m.completionView != nil {
			return m, m.copyShareCmd()
		}
	case "d":
		if m.completionView != nil && m.completionView.Image != nil {
			return m, m.downloadImageCmd()
		}
	}
	return m, nil
}

func (m *Model) layout() {
	chatWidth := int(float64(m.width)*0.7) - 4
	if chatWidth < 20 {
		chatWidth = m.width - 4
	}
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.textarea.SetWidth(chatWidth - 4)
	m.renderTranscript()
}

func imageLine(img *api.Image) line {
	caption := img.Context.Character
	if img.Context.Location != "" {
		if caption != "" {
			caption += " in "
		}
		caption += img.Context.Location
	}
	if caption == "" {
		caption = img.URL
	}
	return line{kind: lineImage, text: "Illustration: " + caption}
}

// describeError maps the error taxonomy to user-facing text: logical
// errors verbatim, everything else a generic retry suggestion.
func describeError(err error, generic string) string {
	var logicalErr *api.LogicalError
	if errors.As(err, &logicalErr) {
		return logicalErr.Message
	}
	if errors.Is(err, world.ErrEmptyCatalog) {
		return "No worlds are available right now."
	}
	if errors.Is(err, api.ErrMissingInventory) {
		return "Failed to load character inventory."
	}
	return generic
}
