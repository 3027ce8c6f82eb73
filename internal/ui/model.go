package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nzaccagnino/volon/internal/i18n"
	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/markdown"
	"github.com/nzaccagnino/volon/internal/notes"
	"github.com/nzaccagnino/volon/internal/syncer"
)

type Mode int

const (
	ModeSearch Mode = iota
	ModeList
	ModeEditing
	ModeHelp
)

const autosaveInterval = time.Second

// Options carries what the model needs besides the coordinator.
type Options struct {
	// Username is shown in the status bar when notes are synced.
	Username string
	// ExportDir receives HTML exports of single notes.
	ExportDir string
	Logger    *slog.Logger
}

type Model struct {
	coord *syncer.Coordinator
	md    *markdown.Renderer
	opts  Options

	list       []notes.Note
	selectedID string
	listOffset int

	mode     Mode
	search   textinput.Model
	textarea textarea.Model
	keys     KeyMap
	edKeys   KeyMap

	width  int
	height int

	loaded bool
	dirty  bool

	undoID    string
	undoTitle string
	undoUntil time.Time

	notice    string
	noticeErr bool
}

type tickMsg time.Time
type loadedMsg struct{ err error }
type createdMsg struct {
	note    notes.Note
	created bool
	err     error
}
type savedMsg struct {
	note notes.Note
	err  error
}
type deletedMsg struct {
	note notes.Note
	err  error
}
type undoneMsg struct {
	id       string
	restored bool
	err      error
}
type exportedMsg struct {
	path string
	err  error
}
type settingsMsg struct {
	notice string
	err    error
}

func NewModel(coord *syncer.Coordinator, opts Options) Model {
	t := i18n.T()

	si := textinput.New()
	si.Placeholder = t.SearchPlaceholder
	si.CharLimit = 256
	si.Prompt = "› "
	si.Focus()

	ta := textarea.New()
	ta.Placeholder = t.EditorPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("component", "ui")

	keys := NewKeyMap()
	return Model{
		coord:    coord,
		md:       markdown.NewRenderer(),
		opts:     opts,
		search:   si,
		textarea: ta,
		keys:     keys,
		edKeys:   keys.EditorKeys(),
		mode:     ModeSearch,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadNotes(), textinput.Blink, m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(autosaveInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Commands. Each runs on its own goroutine and reports back with a message.

func (m Model) loadNotes() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.coord.LoadNotesOnStartup(context.Background())}
	}
}

func (m Model) submitSearch(query, selectedID string) tea.Cmd {
	return func() tea.Msg {
		n, created, err := m.coord.SubmitSearch(context.Background(), query, selectedID)
		return createdMsg{note: n, created: created, err: err}
	}
}

func (m Model) createNote() tea.Cmd {
	return func() tea.Msg {
		n, err := m.coord.CreateNote(context.Background(), "")
		return createdMsg{note: n, created: true, err: err}
	}
}

func (m Model) saveNote(id, content string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.coord.SaveNoteContent(context.Background(), id, content)
		return savedMsg{note: n, err: err}
	}
}

func (m Model) deleteActive() tea.Cmd {
	return func() tea.Msg {
		n, err := m.coord.DeleteActiveNote(context.Background())
		return deletedMsg{note: n, err: err}
	}
}

func (m Model) undoDelete(id string) tea.Cmd {
	return func() tea.Msg {
		restored, err := m.coord.UndoDelete(context.Background(), id)
		return undoneMsg{id: id, restored: restored, err: err}
	}
}

func (m Model) exportActive() tea.Cmd {
	active, ok := m.coord.Active()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		page, err := m.md.RenderDocument(active.Content)
		if err != nil {
			return exportedMsg{err: err}
		}
		path := filepath.Join(m.opts.ExportDir, exportFileName(m.md.Title(active.Content), active.ID))
		if err := os.WriteFile(path, page, 0600); err != nil {
			return exportedMsg{err: fmt.Errorf("failed to write export: %w", err)}
		}
		return exportedMsg{path: path}
	}
}

func (m Model) updateSettings(fn func(*local.Settings), notice string) tea.Cmd {
	return func() tea.Msg {
		return settingsMsg{notice: notice, err: m.coord.UpdateSettings(fn)}
	}
}

// flush saves pending editor changes before the active note changes.
func (m *Model) flush() tea.Cmd {
	if !m.dirty {
		return nil
	}
	active, ok := m.coord.Active()
	if !ok {
		return nil
	}
	m.dirty = false
	return m.saveNote(active.ID, m.textarea.Value())
}

// State helpers

// refresh recomputes the displayed list from the query and order preference.
func (m *Model) refresh() {
	m.list = m.coord.OrderedNotes(m.coord.SearchByContent(m.search.Value()))
	if _, ok := m.coord.Active(); !ok && len(m.list) > 0 && m.mode != ModeEditing {
		m.coord.SetActive(m.list[0].ID)
	}
	m.scrollToActive()
}

// showActive loads the active note into the editor unless it is being edited.
func (m *Model) showActive() {
	if m.mode == ModeEditing {
		return
	}
	if active, ok := m.coord.Active(); ok {
		m.textarea.SetValue(active.Content)
	} else {
		m.textarea.SetValue("")
	}
}

func (m *Model) scrollToActive() {
	active, ok := m.coord.Active()
	if !ok {
		m.listOffset = 0
		return
	}
	idx := indexOf(m.list, active.ID)
	if idx < 0 {
		return
	}
	visible := m.visibleItems()
	if idx < m.listOffset {
		m.listOffset = idx
	}
	if visible > 0 && idx >= m.listOffset+visible {
		m.listOffset = idx - visible + 1
	}
}

func (m *Model) setNotice(msg string, isErr bool) {
	m.notice = msg
	m.noticeErr = isErr
}

func (m *Model) startEditing() tea.Cmd {
	if _, ok := m.coord.Active(); !ok {
		return nil
	}
	m.showActive()
	m.mode = ModeEditing
	m.search.Blur()
	return m.textarea.Focus()
}

func (m *Model) stopEditing(next Mode) tea.Cmd {
	cmd := m.flush()
	m.textarea.Blur()
	m.mode = next
	if next == ModeSearch {
		return tea.Batch(cmd, m.search.Focus())
	}
	return cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	t := i18n.T()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = m.width - 8
		m.textarea.SetWidth(m.contentWidth() - 4)
		m.textarea.SetHeight(m.bodyHeight() - 3)
		m.scrollToActive()

	case tickMsg:
		var cmds []tea.Cmd
		if m.mode == ModeEditing {
			cmds = append(cmds, m.flush())
		}
		if m.undoID != "" && time.Time(msg).After(m.undoUntil) {
			m.undoID = ""
		}
		cmds = append(cmds, m.tickCmd())
		return m, tea.Batch(cmds...)

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.opts.Logger.Error("failed to load notes", "error", msg.err)
			m.setNotice(msg.err.Error(), true)
		}
		ApplyTheme(m.coord.Settings().Theme)
		m.refresh()
		m.showActive()

	case createdMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf(t.SaveFailed, msg.err), true)
		}
		if msg.note.ID == "" {
			return m, nil
		}
		m.search.SetValue("")
		m.selectedID = ""
		m.refresh()
		cmd := m.startEditing()
		if msg.created {
			m.textarea.CursorEnd()
		}
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf(t.SaveFailed, msg.err), true)
		}
		m.refresh()

	case deletedMsg:
		if msg.note.ID == "" {
			if msg.err != nil {
				m.setNotice(msg.err.Error(), true)
			}
			return m, nil
		}
		title := m.noteTitle(msg.note)
		m.undoID = msg.note.ID
		m.undoTitle = title
		m.undoUntil = time.Now().Add(m.coord.UndoWindow())
		if msg.err != nil {
			m.setNotice(fmt.Sprintf(t.SaveFailed, msg.err), true)
		} else {
			m.setNotice(fmt.Sprintf(t.NoteDeleted, title), false)
		}
		m.refresh()
		m.showActive()

	case undoneMsg:
		if msg.id == m.undoID {
			m.undoID = ""
		}
		switch {
		case msg.err != nil:
			m.setNotice(msg.err.Error(), true)
		case msg.restored:
			m.setNotice(fmt.Sprintf(t.NoteRestored, m.undoTitle), false)
		default:
			m.setNotice(t.UndoExpired, false)
		}
		m.refresh()
		m.showActive()

	case exportedMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else {
			m.setNotice(fmt.Sprintf(t.NoteExported, msg.path), false)
		}

	case settingsMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else if msg.notice != "" {
			m.setNotice(msg.notice, false)
		}
		// the aside toggle changes the editor width
		m.textarea.SetWidth(m.contentWidth() - 4)
		m.refresh()

	case tea.KeyMsg:
		if !m.loaded {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.mode {
		case ModeHelp:
			if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
				m.mode = ModeList
			}
			return m, nil
		case ModeEditing:
			return m.handleEditingKeys(msg)
		case ModeSearch:
			return m.handleSearchKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}

	return m, nil
}

// handleCommonKeys handles the control-key actions available in every mode.
func (m Model) handleCommonKeys(msg tea.KeyMsg, keys KeyMap) (Model, tea.Cmd, bool) {
	t := i18n.T()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Sequence(m.flush(), tea.Quit), true

	case key.Matches(msg, keys.New):
		cmd := m.stopEditing(ModeList)
		return m, tea.Sequence(cmd, m.createNote()), true

	case key.Matches(msg, keys.Delete):
		if _, ok := m.coord.Active(); !ok {
			return m, nil, true
		}
		m.dirty = false
		m.textarea.Blur()
		if m.mode == ModeEditing {
			m.mode = ModeList
		}
		return m, m.deleteActive(), true

	case key.Matches(msg, keys.Undo):
		if m.undoID == "" {
			m.setNotice(t.UndoExpired, false)
			return m, nil, true
		}
		cmd := m.stopEditing(ModeList)
		return m, tea.Sequence(cmd, m.undoDelete(m.undoID)), true

	case key.Matches(msg, keys.Preview):
		return m, m.updateSettings(func(s *local.Settings) {
			s.MarkdownPreviewActive = !s.MarkdownPreviewActive
		}, ""), true

	case key.Matches(msg, keys.Aside):
		return m, m.updateSettings(func(s *local.Settings) {
			s.AsideActive = !s.AsideActive
		}, ""), true

	case key.Matches(msg, keys.Order):
		next, notice := local.OrderDateCreated, t.OrderCreated
		if m.coord.Settings().NoteOrderPreference == local.OrderDateCreated {
			next, notice = local.OrderDateModified, t.OrderModified
		}
		return m, m.updateSettings(func(s *local.Settings) {
			s.NoteOrderPreference = next
		}, notice), true

	case key.Matches(msg, keys.Export):
		return m, tea.Sequence(m.flush(), m.exportActive()), true
	}

	return m, nil, false
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKeys(msg, m.edKeys); ok {
		return next, cmd
	}

	switch msg.Type {
	case tea.KeyEsc:
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.selectedID = ""
			m.refresh()
			return m, nil
		}
		m.search.Blur()
		m.mode = ModeList
		return m, nil

	case tea.KeyDown, tea.KeyUp:
		var n notes.Note
		var moved bool
		if msg.Type == tea.KeyDown {
			n, moved = m.coord.NavigateNext(m.list)
		} else {
			n, moved = m.coord.NavigatePrevious(m.list)
		}
		if moved || n.ID != "" {
			m.selectedID = n.ID
		}
		m.scrollToActive()
		m.showActive()
		return m, nil

	case tea.KeyEnter:
		return m, m.submitSearch(m.search.Value(), m.selectedID)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.selectedID = ""
		m.refresh()
		m.showActive()
	}
	return m, cmd
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKeys(msg, m.keys); ok {
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, m.keys.Up):
		m.coord.NavigatePrevious(m.list)
		m.scrollToActive()
		m.showActive()

	case key.Matches(msg, m.keys.Down):
		m.coord.NavigateNext(m.list)
		m.scrollToActive()
		m.showActive()

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Edit):
		return m, m.startEditing()

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.selectedID = ""
		return m, m.search.Focus()
	}

	return m, nil
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKeys(msg, m.edKeys); ok {
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.stopEditing(ModeList)

	case key.Matches(msg, m.edKeys.Search):
		m.selectedID = ""
		return m, m.stopEditing(ModeSearch)

	case key.Matches(msg, m.keys.Save):
		return m, m.flush()
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.dirty = true
	}
	return m, cmd
}

// Layout

func (m Model) bodyHeight() int {
	// search bar (3) and status bar (1)
	return m.height - 4
}

func (m Model) listWidth() int {
	if !m.coord.Settings().AsideActive {
		return 0
	}
	return max(int(float64(m.width)*0.3), 20)
}

func (m Model) contentWidth() int {
	return m.width - m.listWidth()
}

// visibleItems is how many two-line list entries fit in the list panel.
func (m Model) visibleItems() int {
	return max((m.bodyHeight()-2)/2, 1)
}

// Rendering

func (m Model) View() string {
	t := i18n.T()

	if m.width == 0 || !m.loaded {
		return t.Loading
	}
	if m.mode == ModeHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderSearchBar(), m.renderBody(), m.renderStatus())
}

func (m Model) renderSearchBar() string {
	style := SearchBarStyle
	if m.mode == ModeSearch {
		style = ActiveSearchBarStyle
	}
	return style.Width(m.width - 2).Render(m.search.View())
}

func (m Model) renderBody() string {
	content := m.renderContent()
	if m.listWidth() == 0 {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), content)
}

func (m Model) renderList() string {
	t := i18n.T()

	style := PanelStyle
	if m.mode == ModeList || m.mode == ModeSearch {
		style = ActivePanelStyle
	}

	width := m.listWidth() - 4
	activeID := ""
	if active, ok := m.coord.Active(); ok {
		activeID = active.ID
	}
	showBody := m.coord.Settings().NotePreviewContents == local.PreviewNoteBody

	var items []string
	if len(m.list) == 0 {
		items = append(items, MutedStyle.Render(wrapText(t.NoMatches, width)))
	}
	for i := m.listOffset; i < len(m.list) && i < m.listOffset+m.visibleItems(); i++ {
		n := m.list[i]
		title := truncate(m.noteTitle(n), width-2)

		var sub string
		if showBody {
			sub = m.md.Excerpt(n.Content, width)
		} else {
			sub = n.LastModified.Local().Format("2006-01-02 15:04")
		}
		sub = truncate(sub, width-2)

		if n.ID == activeID {
			marker := "▶ "
			if n.ID == m.selectedID {
				marker = "» "
			}
			items = append(items,
				SelectedListItemStyle.Width(width).Render(marker+title),
				ListItemStyle.Render("  "+MutedStyle.Render(sub)))
		} else {
			items = append(items,
				ListItemStyle.Render("  "+title),
				ListItemStyle.Render("  "+MutedStyle.Render(sub)))
		}
	}

	return style.Width(m.listWidth() - 2).Height(m.bodyHeight() - 2).Render(strings.Join(items, "\n"))
}

func (m Model) renderContent() string {
	t := i18n.T()

	style := PanelStyle
	if m.mode == ModeEditing {
		style = ActivePanelStyle
	}
	width := m.contentWidth() - 4

	active, ok := m.coord.Active()
	var body string
	switch {
	case !ok:
		body = MutedStyle.Render(t.NoNoteSelected)
	case m.mode == ModeEditing:
		body = m.renderMeta(m.textarea.Value()) + "\n" + m.textarea.View()
	case m.coord.Settings().MarkdownPreviewActive:
		body = m.renderMeta(active.Content) + "\n" + renderPreview(active.Content, width)
	default:
		body = m.renderMeta(active.Content) + "\n" + wrapText(active.Content, width)
	}

	return style.Width(m.contentWidth() - 2).Height(m.bodyHeight() - 2).MaxHeight(m.bodyHeight()).Render(body)
}

func (m Model) renderMeta(content string) string {
	t := i18n.T()
	active, ok := m.coord.Active()
	if !ok {
		return ""
	}
	parts := []string{
		fmt.Sprintf("%s %s", t.CreatedAt, active.DateCreated.Local().Format("2006-01-02 15:04")),
		fmt.Sprintf("%s %s", t.ModifiedAt, active.LastModified.Local().Format("2006-01-02 15:04")),
		fmt.Sprintf("%s %d", t.Words, len(strings.Fields(content))),
		fmt.Sprintf("%s %d", t.Characters, utf8.RuneCountInString(content)),
	}
	return MutedStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderStatus() string {
	t := i18n.T()

	modeStr := t.ModeList
	switch m.mode {
	case ModeSearch:
		modeStr = t.ModeSearch
	case ModeEditing:
		modeStr = t.ModeEdit
	}

	left := ModeStyle.Render(modeStr) + fmt.Sprintf(" %d %s", len(m.list), t.Notes)
	if m.coord.Mode() == syncer.ModeRemote {
		sync := t.ModeRemote
		if m.opts.Username != "" {
			sync += " (" + m.opts.Username + ")"
		}
		left += " | " + SelectedStyle.Render(sync)
	} else {
		left += " | " + MutedStyle.Render(t.ModeLocal)
	}
	if m.dirty {
		left += " | * " + t.Unsaved
	}

	switch {
	case m.undoID != "":
		left += " " + ToastStyle.Render(fmt.Sprintf(t.NoteDeleted, m.undoTitle)+" · "+fmt.Sprintf(t.UndoHint, m.keys.Undo.Help().Key))
	case m.notice != "" && m.noticeErr:
		left += " " + ErrorStyle.Render(m.notice)
	case m.notice != "":
		left += " " + MutedStyle.Render(m.notice)
	}

	right := fmt.Sprintf("? %s | Ctrl+Q %s", t.Help, t.Exit)

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBarStyle.Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderHelp() string {
	t := i18n.T()

	var b strings.Builder
	row := func(k, desc string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", KeyStyle.Render(k), desc))
	}

	b.WriteString(LabelStyle.Render(t.HelpNavigation) + "\n")
	row("↑/k", t.HelpUp)
	row("↓/j", t.HelpDown)
	row("Enter/i", t.HelpOpen)
	row("Ctrl+K", t.HelpSearch)
	row("Enter", t.HelpSubmit)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpEditing) + "\n")
	row("i", t.HelpEdit)
	row("Esc", t.HelpExitEdit)
	row("Ctrl+S", t.HelpSave)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpActions) + "\n")
	row("Ctrl+N", t.HelpNew)
	row("Ctrl+D", t.HelpDelete)
	row("Ctrl+Z", t.HelpUndo)
	row("Ctrl+E", t.HelpExport)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpView) + "\n")
	row("Ctrl+P", t.HelpPreview)
	row("Ctrl+B", t.HelpAside)
	row("Ctrl+O", t.HelpOrder)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpGeneral) + "\n")
	row("?", t.HelpHelp)
	row("Ctrl+Q", t.HelpExit)
	b.WriteString("\n")

	b.WriteString(MutedStyle.Render(t.HelpClose))

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlight).
		Padding(1, 2).
		Align(lipgloss.Left)

	return helpStyle.Render(b.String())
}

func (m Model) noteTitle(n notes.Note) string {
	if title := m.md.Title(n.Content); title != "" {
		return title
	}
	return i18n.T().Untitled
}

func indexOf(list []notes.Note, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// exportFileName builds a file name from the note title, falling back to the id.
func exportFileName(title, id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = id
	}
	return name + ".html"
}
