package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// EditModel - Interactive position filter form
// =============================================================================

// editFocus names the form control receiving keys.
type editFocus int

const (
	focusText editFocus = iota
	focusChromosome
	focusStart
	focusEnd
	focusCount
)

// EditModel is the bubbletea model of the position filter form. The text
// field, the chromosome selector and the two cytoband selectors all edit
// one [coord.Fields] value, so every control reflects every edit.
type EditModel struct {
	Fields coord.Fields
	Err    error
	Done   bool

	ref     *genome.CytobandReference
	focus   editFocus
	options coord.CytobandOptions
	start   int
	end     int
}

// NewEditModel creates a form over ref, seeded with text. A nil ref
// disables the cytoband selectors.
func NewEditModel(ref *genome.CytobandReference, text string) EditModel {
	m := EditModel{ref: ref, start: -1, end: -1}
	m.Fields, m.Err = coord.NewFields().EditText(text)
	m.refresh()
	return m
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.Done = true
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	}

	switch m.focus {
	case focusText:
		m = m.updateText(key)
	case focusChromosome:
		m = m.updateChromosome(key)
	case focusStart, focusEnd:
		m = m.updateBand(key)
	}
	return m, nil
}

func (m EditModel) updateText(key tea.KeyMsg) EditModel {
	text := m.Fields.Text
	switch key.Type {
	case tea.KeyBackspace:
		if r := []rune(text); len(r) > 0 {
			text = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		text = ""
	case tea.KeyRunes, tea.KeySpace:
		text += string(key.Runes)
	default:
		return m
	}
	m.Fields, m.Err = m.Fields.EditText(text)
	m.refresh()
	return m
}

func (m EditModel) updateChromosome(key tea.KeyMsg) EditModel {
	// Position 0 is "any", then the reference order.
	i := 0
	if len(m.Fields.Selected) == 1 {
		i = m.Fields.Selected[0].Index() + 1
	}
	n := len(genome.ReferenceOrder) + 1
	switch key.String() {
	case "left", "h", "up", "k":
		i = (i + n - 1) % n
	case "right", "l", "down", "j":
		i = (i + 1) % n
	default:
		return m
	}

	var selected []genome.Chromosome
	if i > 0 {
		selected = []genome.Chromosome{genome.ReferenceOrder[i-1]}
	}
	m.Fields = m.Fields.SelectChromosomes(selected)
	m.Err = nil
	m.refresh()
	return m
}

func (m EditModel) updateBand(key tea.KeyMsg) EditModel {
	list, cursor := m.options.Start, m.start
	if m.focus == focusEnd {
		list, cursor = m.options.End, m.end
	}
	if len(list) == 0 {
		return m
	}

	switch key.String() {
	case "up", "k", "left", "h":
		cursor--
	case "down", "j", "right", "l":
		cursor++
	default:
		return m
	}
	cursor = min(max(cursor, 0), len(list)-1)

	if m.focus == focusStart {
		m.Fields = m.Fields.SelectStart(list[cursor])
	} else {
		m.Fields = m.Fields.SelectEnd(list[cursor])
	}
	m.Err = nil
	m.refresh()
	if m.focus == focusStart {
		m.start = cursor
	} else {
		m.end = cursor
	}
	return m
}

// refresh recomputes the cytoband selectors and points their cursors at
// the selected entries.
func (m *EditModel) refresh() {
	m.options = m.Fields.Options(m.ref)
	m.start = selectedIndex(m.options.Start)
	m.end = selectedIndex(m.options.End)
}

func selectedIndex(opts []coord.Option) int {
	for i, o := range opts {
		if o.Selected {
			return i
		}
	}
	return -1
}

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Position Filter"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab: next field  ←/→ ↑/↓: change  enter: done  esc: quit"))
	b.WriteString("\n\n")

	text := m.Fields.Text
	if m.focus == focusText {
		text += "▏"
	}
	b.WriteString(m.row(focusText, "Position", text))
	if m.Err != nil {
		b.WriteString("  " + StyleWarning.Render(m.Err.Error()))
	}
	b.WriteString("\n")

	chrom := "any"
	if len(m.Fields.Selected) > 0 {
		names := make([]string, len(m.Fields.Selected))
		for i, c := range m.Fields.Selected {
			names[i] = c.String()
		}
		chrom = strings.Join(names, ", ")
	}
	b.WriteString(m.row(focusChromosome, "Chromosome", "‹ "+chrom+" ›"))
	b.WriteString("\n")

	b.WriteString(m.row(focusStart, "Start band", optionLabel(m.options.Start, m.start)))
	b.WriteString("\n")
	b.WriteString(m.row(focusEnd, "End band", optionLabel(m.options.End, m.end)))
	b.WriteString("\n\n")

	query := coord.Format(m.Fields.Query)
	if query == "" {
		query = "(any)"
	}
	b.WriteString(listLabelStyle.Render("Query") + " " + StyleHighlight.Render(query))
	b.WriteString("\n")

	return b.String()
}

func (m EditModel) row(f editFocus, label, value string) string {
	cursor := "  "
	style := listNormalStyle
	if m.focus == f {
		cursor = "▸ "
		style = listSelectedStyle
	}
	return cursor + listLabelStyle.Render(label) + " " + style.Render(value)
}

func optionLabel(opts []coord.Option, i int) string {
	switch {
	case len(opts) == 0:
		return listDimStyle.Render("(select one chromosome)")
	case i < 0:
		return listDimStyle.Render(fmt.Sprintf("(%d bands)", len(opts)))
	}
	return fmt.Sprintf("%s  %s", opts[i].Label, listDimStyle.Render(fmt.Sprintf("[%d/%d]", i+1, len(opts))))
}
