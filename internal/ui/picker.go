package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmowens/promptdeck/internal/models"
)

// Fixed option slots that precede the element titles in every picker.
const (
	pickerOptionSkip = iota
	pickerOptionCustom
	pickerOptionFirstTitle
)

// SectionPicker chooses the content of one prompt section. Single-pick
// categories submit the highlighted option on enter. Multi-pick categories
// toggle options with space, in pick order, and submit the accumulated
// picks on enter. "Write your own" opens an inline text input whose value
// rides along with the submitted selection.
type SectionPicker struct {
	category models.Category
	titles   []string
	previews []string

	cursor int
	multi  bool
	picks  []int // toggled option indexes, in pick order

	customInput   textinput.Model
	editingCustom bool

	submitted bool
	canceled  bool
	result    models.Selection
}

// NewSectionPicker builds a picker for one category, offering that
// category's elements plus the skip and write-your-own options. The
// current selection pre-populates the picker state so reopening a section
// shows what was chosen before.
func NewSectionPicker(category models.Category, elements []models.Element, current models.Selection) *SectionPicker {
	var titles []string
	var previews []string
	for _, e := range elements {
		if e.Category != category {
			continue
		}
		titles = append(titles, e.Title)
		previews = append(previews, firstLine(e.Content, 60))
	}

	customInput := textinput.New()
	customInput.Placeholder = "Write the " + strings.ToLower(category.DisplayName()) + " text"
	customInput.CharLimit = 500
	customInput.Width = 50

	p := &SectionPicker{
		category:    category,
		titles:      titles,
		previews:    previews,
		multi:       category.Multi(),
		customInput: customInput,
	}
	p.prefill(current)
	return p
}

// prefill restores cursor and pick state from an existing selection.
func (p *SectionPicker) prefill(current models.Selection) {
	if current.Custom {
		p.customInput.SetValue(current.CustomText)
	}

	if p.multi {
		if current.Skip {
			return
		}
		if current.Custom {
			p.picks = append(p.picks, pickerOptionCustom)
		}
		for _, title := range current.Titles {
			if idx := p.titleIndex(title); idx >= 0 {
				p.picks = append(p.picks, idx)
			}
		}
		return
	}

	switch {
	case current.Skip:
		p.cursor = pickerOptionSkip
	case current.Custom:
		p.cursor = pickerOptionCustom
	case len(current.Titles) > 0:
		if idx := p.titleIndex(current.Titles[0]); idx >= 0 {
			p.cursor = idx
		}
	}
}

func (p *SectionPicker) titleIndex(title string) int {
	for i, t := range p.titles {
		if t == title {
			return pickerOptionFirstTitle + i
		}
	}
	return -1
}

func (p *SectionPicker) optionCount() int {
	return pickerOptionFirstTitle + len(p.titles)
}

// Category returns the category this picker selects for.
func (p *SectionPicker) Category() models.Category {
	return p.category
}

// EditingCustom reports whether the inline text input has focus.
func (p *SectionPicker) EditingCustom() bool {
	return p.editingCustom
}

// IsSubmitted reports whether a selection was confirmed.
func (p *SectionPicker) IsSubmitted() bool {
	return p.submitted
}

// IsCanceled reports whether the picker was dismissed without a selection.
func (p *SectionPicker) IsCanceled() bool {
	return p.canceled
}

// Selection returns the confirmed selection. Only valid after IsSubmitted
// reports true.
func (p *SectionPicker) Selection() models.Selection {
	return p.result
}

// Update handles input for the picker.
func (p *SectionPicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.editingCustom {
			var cmd tea.Cmd
			p.customInput, cmd = p.customInput.Update(msg)
			return cmd
		}
		return nil
	}

	if p.editingCustom {
		switch keyMsg.String() {
		case "esc":
			p.editingCustom = false
			p.customInput.Blur()
			return nil
		case "enter":
			p.editingCustom = false
			p.customInput.Blur()
			if p.multi {
				p.ensurePicked(pickerOptionCustom)
				return nil
			}
			p.submit(p.singleSelection(pickerOptionCustom))
			return nil
		}
		var cmd tea.Cmd
		p.customInput, cmd = p.customInput.Update(msg)
		return cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor == 0 {
			p.cursor = p.optionCount() - 1
		} else {
			p.cursor--
		}
	case "down", "j":
		if p.cursor == p.optionCount()-1 {
			p.cursor = 0
		} else {
			p.cursor++
		}
	case " ":
		if p.multi && p.cursor != pickerOptionSkip {
			p.togglePick(p.cursor)
		}
	case "esc":
		p.canceled = true
	case "enter":
		switch {
		case p.cursor == pickerOptionSkip:
			p.submit(models.SkipSelection())
		case p.cursor == pickerOptionCustom:
			p.editingCustom = true
			p.customInput.Focus()
		case p.multi:
			p.submit(p.multiSelection())
		default:
			p.submit(p.singleSelection(p.cursor))
		}
	}

	return nil
}

func (p *SectionPicker) togglePick(idx int) {
	for i, picked := range p.picks {
		if picked == idx {
			p.picks = append(p.picks[:i], p.picks[i+1:]...)
			return
		}
	}
	p.picks = append(p.picks, idx)
}

func (p *SectionPicker) ensurePicked(idx int) {
	for _, picked := range p.picks {
		if picked == idx {
			return
		}
	}
	p.picks = append(p.picks, idx)
}

func (p *SectionPicker) isPicked(idx int) bool {
	for _, picked := range p.picks {
		if picked == idx {
			return true
		}
	}
	return false
}

func (p *SectionPicker) submit(sel models.Selection) {
	p.result = sel
	p.submitted = true
}

func (p *SectionPicker) singleSelection(idx int) models.Selection {
	if idx == pickerOptionCustom {
		return models.WriteYourOwn(p.customInput.Value())
	}
	return models.TitleRef(p.titles[idx-pickerOptionFirstTitle])
}

// multiSelection collects the toggled picks in the order they were made.
// The custom text keeps its flag; the composer always places it first.
func (p *SectionPicker) multiSelection() models.Selection {
	sel := models.Selection{Multi: true}
	for _, idx := range p.picks {
		if idx == pickerOptionCustom {
			sel.Custom = true
			sel.CustomText = p.customInput.Value()
			continue
		}
		sel.Titles = append(sel.Titles, p.titles[idx-pickerOptionFirstTitle])
	}
	return sel
}

// View renders the picker as a subpage.
func (p *SectionPicker) View(width int, showExpandedHelp bool) string {
	headerLine := CreateSubPageHeader(p.category.DisplayName())

	var optionLines []string
	optionLines = append(optionLines, CreateOption("Skip this section", "", p.cursor == pickerOptionSkip)...)

	customDesc := firstLine(p.customInput.Value(), 60)
	if p.multi {
		optionLines = append(optionLines, CreateCheckOption("Write your own", customDesc, p.isPicked(pickerOptionCustom), p.cursor == pickerOptionCustom)...)
	} else {
		optionLines = append(optionLines, CreateOption("Write your own", customDesc, p.cursor == pickerOptionCustom)...)
	}

	for i, title := range p.titles {
		idx := pickerOptionFirstTitle + i
		if p.multi {
			optionLines = append(optionLines, CreateCheckOption(title, p.previews[i], p.isPicked(idx), p.cursor == idx)...)
		} else {
			optionLines = append(optionLines, CreateOption(title, p.previews[i], p.cursor == idx)...)
		}
	}

	allElements := []string{headerLine, ""}
	allElements = append(allElements, optionLines...)

	if p.editingCustom {
		allElements = append(allElements,
			StyleFormLabel.Render("Your text:"),
			p.customInput.View(),
			"")
		allElements = append(allElements, CreateGuaranteedHelp("Enter confirm • Esc back to options", width))
		return lipgloss.JoinVertical(lipgloss.Left, allElements...)
	}

	var essential []string
	var additional []string
	if p.multi {
		essential = []string{"space toggle • enter confirm"}
		additional = []string{"↑/↓ navigate • Esc cancel"}
	} else {
		essential = []string{"↑/↓ navigate • enter select"}
		additional = []string{"Esc cancel"}
	}
	allElements = append(allElements, CreateContextualHelp(essential, additional, showExpandedHelp, width))

	return lipgloss.JoinVertical(lipgloss.Left, allElements...)
}

// firstLine truncates text to its first line, capped at max runes.
func firstLine(text string, max int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return text
}
