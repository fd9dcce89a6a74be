package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/kmowens/promptdeck/internal/clipboard"
	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/service"
	"github.com/kmowens/promptdeck/internal/validation"
)

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	hasDarkBg := lipgloss.HasDarkBackground()

	var styleOption glamour.TermRendererOption

	if hasDarkBg {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("dark")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	} else {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("light")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// loadCompleteMsg carries the initial library load
type loadCompleteMsg struct {
	elements []models.Element
	history  []models.HistoryEntry
	err      error
}

// loadLibraryCmd loads elements and history synchronously (both tables are
// small CSV files)
func loadLibraryCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		elements, elemErr := svc.ListElements("all")
		if elemErr != nil {
			elements = []models.Element{}
		}

		history, histErr := svc.ListHistory()
		if histErr != nil {
			history = []models.HistoryEntry{}
		}

		err := elemErr
		if err == nil {
			err = histErr
		}

		return loadCompleteMsg{
			elements: elements,
			history:  history,
			err:      err,
		}
	}
}

type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewBuilder ViewMode = iota
	ViewSectionPicker
	ViewElements
	ViewElementDetail
	ViewElementForm
	ViewHistory
	ViewHistoryDetail
)

// Top-level tabs, in tab-key order
const (
	tabBuilder = iota
	tabElements
	tabHistory
)

func tabLabels() []string {
	return []string{"Builder", "Elements", "History"}
}

// elementItem adapts models.Element to the list item interface. Element's
// Title field would collide with the Title method the default delegate
// expects.
type elementItem struct {
	models.Element
}

func (i elementItem) Title() string { return i.Element.Title }

func (i elementItem) Description() string {
	return i.Element.Category.DisplayName() + " • " + firstLine(i.Element.Content, 60)
}

func (i elementItem) FilterValue() string {
	return i.Element.Title + " " + string(i.Element.Category) + " " + i.Element.Content
}

func elementListItems(elements []models.Element) []list.Item {
	items := make([]list.Item, len(elements))
	for i, e := range elements {
		items[i] = elementItem{e}
	}
	return items
}

func historyListItems(entries []models.HistoryEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	return items
}

// Model represents the TUI application state
type Model struct {
	service  *service.Service
	viewMode ViewMode

	// UI components
	elementList list.Model
	historyList list.Model
	viewport    viewport.Model
	previewView viewport.Model
	keys        KeyMap

	// Data
	elements []models.Element
	history  []models.HistoryEntry
	loading  bool

	selectedElement *models.Element
	selectedEntry   *models.HistoryEntry
	categoryFilter  int // 0 = all, otherwise 1-based index into Categories

	// Editing state
	elementForm   *ElementForm
	picker        *SectionPicker
	saveModal     *SaveNameModal
	editMode      bool
	deleteConfirm bool

	// Builder state
	selections      models.Selections
	requestFeedback bool
	builderCursor   int // section rows, then the feedback toggle row
	preview         string
	previewErr      string

	glamourRenderer *glamour.TermRenderer

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusType    string
	statusTimeout int

	// Error state
	err error

	pageTitle        string
	wideLayout       bool
	showExpandedHelp bool
}

// KeyMap defines all key bindings
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Enter      key.Binding
	Back       key.Binding
	Quit       key.Binding
	ExpandHelp key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Copy       key.Binding
	Save       key.Binding
	Export     key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Feedback   key.Binding
	FilterType key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "back"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "open"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ExpandHelp: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("Ctrl+g", "expand help"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next view"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("Shift+Tab", "previous view"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save to history"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new element"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Feedback: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "toggle feedback request"),
	),
	FilterType: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "filter by type"),
	),
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service) (*Model, error) {
	// Resolve adaptive colors before anything renders
	initializeColors()

	elementList := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	elementList.Title = ""
	elementList.SetShowStatusBar(false)
	elementList.SetFilteringEnabled(true)
	elementList.SetShowHelp(false)

	listKeyMap := list.DefaultKeyMap()
	listKeyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	)
	elementList.KeyMap = listKeyMap

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	historyList.Title = ""
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(true)
	historyList.SetShowHelp(false)
	historyList.KeyMap = listKeyMap

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	previewVp := viewport.New(80, 10)
	previewVp.Style = lipgloss.NewStyle()

	renderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		service:         svc,
		viewMode:        ViewBuilder,
		elementList:     elementList,
		historyList:     historyList,
		viewport:        vp,
		previewView:     previewVp,
		keys:            keys,
		loading:         true,
		selections:      make(models.Selections),
		glamourRenderer: renderer,
		statusType:      "success",
		pageTitle:       "Promptdeck",
	}, nil
}

// SetPageTitle overrides the header title shown on the top-level views.
func (m *Model) SetPageTitle(title string) {
	if title != "" {
		m.pageTitle = title
	}
}

// SetRequestFeedback sets the initial state of the feedback toggle.
func (m *Model) SetRequestFeedback(enabled bool) {
	m.requestFeedback = enabled
}

// SetWideLayout stretches text content to the terminal width instead of
// capping it at a readable column.
func (m *Model) SetWideLayout(wide bool) {
	m.wideLayout = wide
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return loadLibraryCmd(m.service)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}

	case loadCompleteMsg:
		m.loading = false
		m.elements = msg.elements
		m.history = msg.history
		m.elementList.SetItems(elementListItems(m.elements))
		m.historyList.SetItems(historyListItems(m.history))
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Warning: %v", msg.err), "warning", 100)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for title, tabs, help, status and margins
		const minReservedHeight = 8
		availableHeight := msg.Height - minReservedHeight
		if availableHeight < 5 {
			availableHeight = 5
		}

		m.elementList.SetSize(msg.Width, availableHeight)
		m.historyList.SetSize(msg.Width, availableHeight)

		margin := 20
		if m.wideLayout {
			margin = 4
		}
		viewportWidth := msg.Width - margin
		if viewportWidth < 40 {
			viewportWidth = 40
		}
		m.viewport.Width = viewportWidth
		m.viewport.Height = availableHeight + 1
		if renderer, err := createGlamourRenderer(viewportWidth); err == nil {
			m.glamourRenderer = renderer
		}

		// The builder shares its height with the section rows
		m.previewView.Width = viewportWidth
		previewHeight := availableHeight - 10
		if previewHeight < 3 {
			previewHeight = 3
		}
		m.previewView.Height = previewHeight

		if m.elementForm != nil {
			m.elementForm.Resize(msg.Width, availableHeight)
		}
		if m.saveModal != nil {
			m.saveModal.Resize(msg.Width, msg.Height)
		}

		if m.viewMode == ViewElementDetail && m.selectedElement != nil {
			m.renderElementPreview()
		}
		if m.viewMode == ViewHistoryDetail && m.selectedEntry != nil {
			m.renderHistoryPreview()
		}

	case tea.KeyMsg:
		// The save modal captures all input while active
		if m.saveModal != nil && m.saveModal.IsActive() {
			cmd := m.saveModal.Update(msg)

			if m.saveModal.IsSubmitted() {
				name := m.saveModal.Name()
				if _, err := m.service.SaveHistory(name, m.preview); err != nil {
					m.setStatus(fmt.Sprintf("Save failed: %v", err), "error", 3)
				} else {
					m.setStatus(fmt.Sprintf("Saved %q to history", name), "success", 2)
					if err := m.refreshHistoryList(); err != nil {
						m.setStatus(fmt.Sprintf("Failed to refresh history: %v", err), "error", 3)
					}
				}
				m.saveModal.SetActive(false)
				return m, clearStatusCmd()
			}

			return m, cmd
		}

		// Reset delete confirmation for any key except the delete keys
		if msg.String() != "d" && msg.String() != "ctrl+d" {
			m.deleteConfirm = false
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if msg.String() == "ctrl+c" || !m.isTyping() {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ExpandHelp):
			m.showExpandedHelp = !m.showExpandedHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			if m.isTopLevel() && !m.isTyping() {
				m.switchTab(1)
				return m, nil
			}

		case key.Matches(msg, m.keys.PrevTab):
			if m.isTopLevel() && !m.isTyping() {
				m.switchTab(-1)
				return m, nil
			}

		case key.Matches(msg, m.keys.Up):
			if m.viewMode == ViewBuilder {
				if m.builderCursor == 0 {
					m.builderCursor = m.builderRowCount() - 1
				} else {
					m.builderCursor--
				}
				return m, nil
			}

		case key.Matches(msg, m.keys.Down):
			if m.viewMode == ViewBuilder {
				if m.builderCursor == m.builderRowCount()-1 {
					m.builderCursor = 0
				} else {
					m.builderCursor++
				}
				return m, nil
			}

		case key.Matches(msg, m.keys.Enter):
			switch m.viewMode {
			case ViewBuilder:
				if !m.loading {
					m.openBuilderRow()
					return m, nil
				}
			case ViewElements:
				if !m.loading && !m.elementList.SettingFilter() {
					if item, ok := m.elementList.SelectedItem().(elementItem); ok {
						elem := item.Element
						m.selectedElement = &elem
						m.viewMode = ViewElementDetail
						if err := m.renderElementPreview(); err != nil {
							m.err = err
						}
						return m, nil
					}
				}
			case ViewHistory:
				if !m.loading && !m.historyList.SettingFilter() {
					if entry, ok := m.historyList.SelectedItem().(models.HistoryEntry); ok {
						m.selectedEntry = &entry
						m.viewMode = ViewHistoryDetail
						m.renderHistoryPreview()
						return m, nil
					}
				}
			}

		case key.Matches(msg, m.keys.Right):
			if m.viewMode == ViewBuilder && !m.loading {
				m.openBuilderRow()
				return m, nil
			}

		case key.Matches(msg, m.keys.Back):
			switch m.viewMode {
			case ViewElementForm:
				m.viewMode = ViewElements
				m.elementForm = nil
				m.editMode = false
				return m, nil
			case ViewElementDetail:
				m.viewMode = ViewElements
				m.selectedElement = nil
				return m, nil
			case ViewHistoryDetail:
				m.viewMode = ViewHistory
				m.selectedEntry = nil
				return m, nil
			}
			// Esc falls through so the picker and filtering lists see it

		case key.Matches(msg, m.keys.Left):
			switch m.viewMode {
			case ViewElementDetail:
				m.viewMode = ViewElements
				m.selectedElement = nil
				return m, nil
			case ViewHistoryDetail:
				m.viewMode = ViewHistory
				m.selectedEntry = nil
				return m, nil
			}

		case key.Matches(msg, m.keys.New):
			if m.viewMode == ViewElements && !m.loading && !m.elementList.SettingFilter() {
				m.elementForm = NewElementForm()
				m.elementForm.Resize(m.width, m.availableHeight())
				m.editMode = false
				m.viewMode = ViewElementForm
				return m, nil
			}

		case key.Matches(msg, m.keys.Edit):
			switch m.viewMode {
			case ViewElements:
				if !m.loading && !m.elementList.SettingFilter() {
					if item, ok := m.elementList.SelectedItem().(elementItem); ok {
						m.openEditForm(item.Element)
						return m, nil
					}
				}
			case ViewElementDetail:
				if m.selectedElement != nil {
					m.openEditForm(*m.selectedElement)
					return m, nil
				}
			}

		case key.Matches(msg, m.keys.Delete):
			var target *models.Element
			switch m.viewMode {
			case ViewElements:
				if !m.loading && !m.elementList.SettingFilter() {
					if item, ok := m.elementList.SelectedItem().(elementItem); ok {
						target = &item.Element
					}
				}
			case ViewElementDetail:
				target = m.selectedElement
			}
			if target != nil {
				if !m.deleteConfirm {
					m.deleteConfirm = true
					m.setStatus(fmt.Sprintf("Press d again to delete %q", target.Title), "warning", 100)
					return m, nil
				}
				m.deleteConfirm = false
				if err := m.service.DeleteElement(target.ID); err != nil {
					m.setStatus(fmt.Sprintf("Delete failed: %v", err), "error", 3)
				} else {
					m.setStatus(fmt.Sprintf("Deleted %q", target.Title), "success", 2)
					if err := m.refreshElementList(); err != nil {
						m.setStatus(fmt.Sprintf("Failed to refresh list: %v", err), "error", 3)
					}
					m.refreshPreview()
					if m.viewMode == ViewElementDetail {
						m.viewMode = ViewElements
						m.selectedElement = nil
					}
				}
				return m, clearStatusCmd()
			}

		case key.Matches(msg, m.keys.Copy):
			var text string
			switch m.viewMode {
			case ViewBuilder:
				text = m.preview
			case ViewElementDetail:
				if m.selectedElement != nil {
					text = m.selectedElement.Content
				}
			case ViewHistoryDetail:
				if m.selectedEntry != nil {
					text = m.selectedEntry.Prompt
				}
			}
			if text != "" {
				if statusMsg, err := clipboard.CopyWithFallback(text); err != nil {
					m.setStatus(fmt.Sprintf("Copy failed: %v", err), "error", 3)
				} else {
					m.setStatus(statusMsg, "success", 2)
				}
				return m, clearStatusCmd()
			}
			if m.viewMode == ViewBuilder {
				m.setStatus("Nothing to copy yet", "info", 2)
				return m, clearStatusCmd()
			}

		case key.Matches(msg, m.keys.Save):
			if m.viewMode == ViewBuilder {
				if m.previewErr != "" {
					m.setStatus("Fix the compose error before saving", "error", 3)
					return m, clearStatusCmd()
				}
				if m.preview == "" {
					m.setStatus("Nothing to save yet", "info", 2)
					return m, clearStatusCmd()
				}
				if m.saveModal == nil {
					m.saveModal = NewSaveNameModal()
				}
				m.saveModal.Resize(m.width, m.height)
				m.saveModal.SetActive(true)
				return m, nil
			}

		case key.Matches(msg, m.keys.Export):
			if m.viewMode == ViewHistory && !m.historyList.SettingFilter() {
				data, err := m.service.ExportHistory()
				if err != nil {
					m.setStatus(fmt.Sprintf("Export failed: %v", err), "error", 3)
					return m, clearStatusCmd()
				}
				filename := service.ExportFilename()
				if err := os.WriteFile(filename, data, 0644); err != nil {
					m.setStatus(fmt.Sprintf("Export failed: %v", err), "error", 3)
				} else {
					m.setStatus(fmt.Sprintf("Exported history to %s", filename), "success", 3)
				}
				return m, clearStatusCmd()
			}

		case key.Matches(msg, m.keys.Feedback):
			if m.viewMode == ViewBuilder {
				m.requestFeedback = !m.requestFeedback
				m.refreshPreview()
				return m, nil
			}

		case key.Matches(msg, m.keys.FilterType):
			if m.viewMode == ViewElements && !m.loading && !m.elementList.SettingFilter() {
				m.categoryFilter = (m.categoryFilter + 1) % (len(models.Categories()) + 1)
				m.applyCategoryFilter()
				return m, nil
			}

		default:
			if msg.String() == "ctrl+s" && m.viewMode == ViewElementForm && m.elementForm != nil {
				elem := m.elementForm.ToElement()
				if result := validation.ValidateElement(elem.Title, string(elem.Category), elem.Content); !result.Valid {
					m.setStatus("Save failed: "+result.Error(), "error", 3)
					return m, clearStatusCmd()
				}

				var err error
				if m.editMode {
					_, err = m.service.UpdateElement(elem.ID, elem.Title, elem.Category, elem.Content)
				} else {
					_, err = m.service.AddElement(elem.Title, elem.Category, elem.Content)
				}
				if err != nil {
					m.setStatus(fmt.Sprintf("Save failed: %v", err), "error", 3)
				} else {
					if m.editMode {
						m.setStatus("Element updated!", "success", 2)
					} else {
						m.setStatus("Element saved!", "success", 2)
					}
					if err := m.refreshElementList(); err != nil {
						m.setStatus(fmt.Sprintf("Failed to refresh list: %v", err), "error", 3)
					}
					m.refreshPreview()
					m.viewMode = ViewElements
					m.elementForm = nil
					m.editMode = false
				}
				return m, clearStatusCmd()
			}

			if msg.String() == "ctrl+d" && m.viewMode == ViewElementForm && m.editMode && m.elementForm != nil {
				if !m.deleteConfirm {
					m.deleteConfirm = true
					m.setStatus("Press Ctrl+d again to confirm deletion", "warning", 100)
					return m, nil
				}
				m.deleteConfirm = false
				if err := m.service.DeleteElement(m.elementForm.ToElement().ID); err != nil {
					m.setStatus(fmt.Sprintf("Delete failed: %v", err), "error", 3)
				} else {
					m.setStatus("Element deleted!", "success", 2)
					if err := m.refreshElementList(); err != nil {
						m.setStatus(fmt.Sprintf("Failed to refresh list: %v", err), "error", 3)
					}
					m.refreshPreview()
					m.viewMode = ViewElements
					m.elementForm = nil
					m.editMode = false
				}
				return m, clearStatusCmd()
			}
		}
	}

	// Update the appropriate component based on view mode
	switch m.viewMode {
	case ViewBuilder:
		var cmd tea.Cmd
		m.previewView, cmd = m.previewView.Update(msg)
		cmds = append(cmds, cmd)

	case ViewSectionPicker:
		if m.picker != nil {
			cmd := m.picker.Update(msg)
			cmds = append(cmds, cmd)

			if m.picker.IsSubmitted() {
				m.selections[m.picker.Category()] = m.picker.Selection()
				m.refreshPreview()
				m.viewMode = ViewBuilder
				m.picker = nil
			} else if m.picker.IsCanceled() {
				m.viewMode = ViewBuilder
				m.picker = nil
			}
		}

	case ViewElements:
		// Wraparound navigation when not typing in the filter
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.elementList.SettingFilter() {
			visibleCount := len(m.elementList.VisibleItems())
			if visibleCount > 0 {
				switch keyMsg.String() {
				case "up", "k":
					if m.elementList.Index() == 0 {
						m.elementList.Select(visibleCount - 1)
						return m, nil
					}
				case "down", "j":
					if m.elementList.Index() == visibleCount-1 {
						m.elementList.Select(0)
						return m, nil
					}
				}
			}
		}

		newListModel, cmd := m.elementList.Update(msg)
		m.elementList = newListModel
		cmds = append(cmds, cmd)

	case ViewElementDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case ViewElementForm:
		if m.elementForm != nil {
			cmd := m.elementForm.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ViewHistory:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.historyList.SettingFilter() {
			visibleCount := len(m.historyList.VisibleItems())
			if visibleCount > 0 {
				switch keyMsg.String() {
				case "up", "k":
					if m.historyList.Index() == 0 {
						m.historyList.Select(visibleCount - 1)
						return m, nil
					}
				case "down", "j":
					if m.historyList.Index() == visibleCount-1 {
						m.historyList.Select(0)
						return m, nil
					}
				}
			}
		}

		newListModel, cmd := m.historyList.Update(msg)
		m.historyList = newListModel
		cmds = append(cmds, cmd)

	case ViewHistoryDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press 'q' to quit.\n", m.err)
	}

	if m.saveModal != nil && m.saveModal.IsActive() {
		return CenterModal(m.saveModal.View(), m.width, m.height)
	}

	var mainView string
	switch m.viewMode {
	case ViewBuilder:
		mainView = m.renderBuilderView()
	case ViewSectionPicker:
		mainView = m.renderSectionPickerView()
	case ViewElements:
		mainView = m.renderElementsView()
	case ViewElementDetail:
		mainView = m.renderElementDetailView()
	case ViewElementForm:
		mainView = m.renderElementFormView()
	case ViewHistory:
		mainView = m.renderHistoryView()
	case ViewHistoryDetail:
		mainView = m.renderHistoryDetailView()
	default:
		mainView = "Unknown view mode"
	}

	if m.statusMsg != "" {
		statusBar := CreateStatus(m.statusMsg, m.statusType)
		return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left, mainView, statusBar))
	}

	return AddMainPadding(mainView)
}

// renderBuilderView renders the prompt builder: one row per section, the
// feedback toggle and the live preview.
func (m Model) renderBuilderView() string {
	title := CreateMainHeader(m.pageTitle)
	tabs := CreateTabBar(tabLabels(), tabBuilder)

	var rows []string
	for i, cat := range models.Categories() {
		rows = append(rows, m.renderBuilderRow(i, cat))
	}

	check := "[ ]"
	if m.requestFeedback {
		check = "[x]"
	}
	feedbackLabel := check + " Ask clarifying questions first"
	if m.builderCursor == len(models.Categories()) {
		rows = append(rows, StyleFocused.Render("▶ "+feedbackLabel))
	} else {
		rows = append(rows, StyleUnselected.Render("  "+feedbackLabel))
	}

	var preview string
	switch {
	case m.previewErr != "":
		preview = StyleError.Render("Compose failed: " + m.previewErr)
	case m.preview == "":
		preview = StyleTextMuted.Render("Pick sections above to build a prompt")
	default:
		preview = StyleContentContainer.Render(m.previewView.View())
	}

	essential := []string{"↑/↓ section • enter choose • f feedback"}
	additional := []string{"c copy • s save to history • tab next view", "q quit"}
	help := CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width)

	elements := []string{title, tabs, ""}
	if m.loading {
		elements = append(elements, StyleLoading.Render("⏳ Loading library..."))
	} else {
		elements = append(elements, rows...)
		elements = append(elements, preview)
	}
	elements = append(elements, help)

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

func (m Model) renderBuilderRow(i int, cat models.Category) string {
	label := cat.DisplayName() + ": " + selectionSummary(m.selections[cat])
	if m.builderCursor == i {
		return StyleFocused.Render("▶ " + label)
	}
	return StyleUnselected.Render("  " + label)
}

// selectionSummary describes a selection in one line for the builder rows.
func selectionSummary(sel models.Selection) string {
	switch {
	case sel.Skip:
		return "skipped"
	case sel.Empty():
		return "not set"
	case sel.Multi:
		var parts []string
		if sel.Custom {
			parts = append(parts, "your text")
		}
		parts = append(parts, sel.Titles...)
		return firstLine(strings.Join(parts, ", "), 50)
	case sel.Custom:
		return firstLine("\""+sel.CustomText+"\"", 50)
	default:
		return sel.Titles[0]
	}
}

func (m Model) renderSectionPickerView() string {
	if m.picker == nil {
		return "No section selected"
	}
	return m.picker.View(m.width, m.showExpandedHelp)
}

// renderElementsView renders the element library list
func (m Model) renderElementsView() string {
	title := CreateMainHeader(m.pageTitle)
	tabs := CreateTabBar(tabLabels(), tabElements)

	var filterLine string
	if m.categoryFilter > 0 {
		cat := models.Categories()[m.categoryFilter-1]
		filterLine = CreateMetadata(fmt.Sprintf("Type: %s • %d elements", cat.DisplayName(), len(m.elementList.Items())))
	}

	var help string
	if m.loading {
		help = CreateGuaranteedHelp("Loading elements... • q quit", m.width)
	} else {
		essential := []string{"enter view • n new • e edit • d delete"}
		additional := []string{"/ filter • t cycle type • tab next view", "q quit"}
		help = CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width)
	}

	elements := []string{title, tabs}
	if filterLine != "" {
		elements = append(elements, filterLine)
	}

	if m.loading {
		elements = append(elements, StyleLoading.Render("⏳ Loading elements..."))
	} else {
		elements = append(elements, m.elementList.View())
	}

	elements = append(elements, help)

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

// renderElementDetailView renders the selected element in full-page view
func (m Model) renderElementDetailView() string {
	if m.selectedElement == nil {
		return "No element selected"
	}

	headerLine := CreateSubPageHeader(m.selectedElement.Title)
	metadataLine := CreateMetadata(fmt.Sprintf("Type: %s • ID: %d",
		m.selectedElement.Category.DisplayName(), m.selectedElement.ID))

	essential := []string{"c copy • e edit • d delete"}
	additional := []string{"Esc back"}
	help := CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width)

	canScrollUp := !m.viewport.AtTop()
	canScrollDown := !m.viewport.AtBottom()
	topIndicator, bottomIndicator := CreateScrollIndicators(canScrollUp, canScrollDown, m.width-4)

	content := StyleContentContainer.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		topIndicator,
		m.viewport.View(),
		bottomIndicator,
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		metadataLine,
		content,
		help,
	)
}

// renderElementFormView renders the element create/edit form
func (m Model) renderElementFormView() string {
	headerText := "New Element"
	if m.editMode {
		headerText = "Edit Element"
	}
	headerLine := CreateSubPageHeader(headerText)

	if m.elementForm == nil {
		return lipgloss.JoinVertical(lipgloss.Left, headerLine, "", "No form available")
	}

	formFields := []string{
		StyleFormLabel.Render("Title:"),
		m.elementForm.titleInput.View(),
		"",
		StyleFormLabel.Render("Type:"),
		m.elementForm.categoryView(),
		"",
		StyleFormLabel.Render("Content:"),
		m.elementForm.textarea.View(),
		"",
	}

	helpText := "Tab next field • Ctrl+s save • Esc cancel"
	if m.editMode {
		helpText = "Tab next field • Ctrl+s save • Ctrl+d delete • Esc cancel"
	}
	help := CreateGuaranteedHelp(helpText, m.width)

	allElements := []string{headerLine, ""}
	allElements = append(allElements, formFields...)
	allElements = append(allElements, help)

	return lipgloss.JoinVertical(lipgloss.Left, allElements...)
}

// renderHistoryView renders the saved prompt list
func (m Model) renderHistoryView() string {
	title := CreateMainHeader(m.pageTitle)
	tabs := CreateTabBar(tabLabels(), tabHistory)

	var help string
	if m.loading {
		help = CreateGuaranteedHelp("Loading history... • q quit", m.width)
	} else {
		essential := []string{"enter view • c copy • x export CSV"}
		additional := []string{"/ filter • tab next view", "q quit"}
		help = CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width)
	}

	elements := []string{title, tabs}
	if m.loading {
		elements = append(elements, StyleLoading.Render("⏳ Loading history..."))
	} else {
		elements = append(elements, m.historyList.View())
	}
	elements = append(elements, help)

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

// renderHistoryDetailView renders one saved prompt in full
func (m Model) renderHistoryDetailView() string {
	if m.selectedEntry == nil {
		return "No entry selected"
	}

	headerLine := CreateSubPageHeader(m.selectedEntry.Title())
	metadataLine := CreateMetadata("Saved: " + m.selectedEntry.Timestamp)

	essential := []string{"c copy"}
	additional := []string{"Esc back"}
	help := CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width)

	canScrollUp := !m.viewport.AtTop()
	canScrollDown := !m.viewport.AtBottom()
	topIndicator, bottomIndicator := CreateScrollIndicators(canScrollUp, canScrollDown, m.width-4)

	content := StyleContentContainer.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		topIndicator,
		m.viewport.View(),
		bottomIndicator,
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		metadataLine,
		content,
		help,
	)
}

// openBuilderRow activates the row under the builder cursor: a section row
// opens its picker, the last row toggles the feedback request.
func (m *Model) openBuilderRow() {
	if m.builderCursor < len(models.Categories()) {
		cat := models.Categories()[m.builderCursor]
		m.picker = NewSectionPicker(cat, m.elements, m.selections[cat])
		m.viewMode = ViewSectionPicker
		return
	}
	m.requestFeedback = !m.requestFeedback
	m.refreshPreview()
}

func (m *Model) openEditForm(elem models.Element) {
	m.elementForm = NewElementForm()
	m.elementForm.LoadElement(elem)
	m.elementForm.Resize(m.width, m.availableHeight())
	m.editMode = true
	m.viewMode = ViewElementForm
}

func (m Model) builderRowCount() int {
	return len(models.Categories()) + 1 // sections plus the feedback toggle
}

func (m Model) isTopLevel() bool {
	switch m.viewMode {
	case ViewBuilder, ViewElements, ViewHistory:
		return true
	}
	return false
}

// isTyping reports whether a text input currently has focus, so printable
// keys must not trigger bindings.
func (m Model) isTyping() bool {
	if m.saveModal != nil && m.saveModal.IsActive() {
		return true
	}
	switch m.viewMode {
	case ViewElementForm:
		return true
	case ViewSectionPicker:
		return m.picker != nil && m.picker.EditingCustom()
	case ViewElements:
		return m.elementList.SettingFilter()
	case ViewHistory:
		return m.historyList.SettingFilter()
	}
	return false
}

func (m *Model) switchTab(delta int) {
	tabs := []ViewMode{ViewBuilder, ViewElements, ViewHistory}
	current := 0
	switch m.viewMode {
	case ViewElements:
		current = 1
	case ViewHistory:
		current = 2
	}
	m.viewMode = tabs[(current+delta+len(tabs))%len(tabs)]
}

func (m Model) availableHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) setStatus(text, statusType string, timeout int) {
	m.statusMsg = text
	m.statusType = statusType
	m.statusTimeout = timeout
}

// refreshElementList re-reads elements from the service and reapplies the
// category filter.
func (m *Model) refreshElementList() error {
	elements, err := m.service.ListElements("all")
	if err != nil {
		return fmt.Errorf("failed to list elements: %w", err)
	}
	m.elements = elements
	m.applyCategoryFilter()
	return nil
}

func (m *Model) applyCategoryFilter() {
	if m.categoryFilter == 0 {
		m.elementList.SetItems(elementListItems(m.elements))
		return
	}
	cat := models.Categories()[m.categoryFilter-1]
	var filtered []models.Element
	for _, e := range m.elements {
		if e.Category == cat {
			filtered = append(filtered, e)
		}
	}
	m.elementList.SetItems(elementListItems(filtered))
}

func (m *Model) refreshHistoryList() error {
	history, err := m.service.ListHistory()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	m.history = history
	m.historyList.SetItems(historyListItems(history))
	return nil
}

// refreshPreview recomposes the prompt from the current selections. A
// compose failure (a selection referencing a deleted element) keeps the
// last good preview and surfaces the error instead.
func (m *Model) refreshPreview() {
	prompt, err := m.service.ComposePrompt(m.selections, m.requestFeedback)
	if err != nil {
		m.previewErr = err.Error()
		return
	}
	m.previewErr = ""
	m.preview = prompt
	m.previewView.SetContent(prompt)
	m.previewView.GotoTop()
}

// renderElementPreview renders the selected element's content for display
func (m *Model) renderElementPreview() error {
	if m.selectedElement == nil {
		return fmt.Errorf("no element selected")
	}

	formatted, err := m.glamourRenderer.Render(m.selectedElement.Content)
	if err != nil {
		formatted = m.selectedElement.Content
	}

	m.viewport.SetContent(formatted)
	m.viewport.GotoTop()
	return nil
}

// renderHistoryPreview shows the saved prompt exactly as stored, so what
// the viewer reads is what copy puts on the clipboard.
func (m *Model) renderHistoryPreview() {
	if m.selectedEntry == nil {
		return
	}
	m.viewport.SetContent(m.selectedEntry.Prompt)
	m.viewport.GotoTop()
}
