package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/genome"
)

func testRef(t *testing.T) *genome.CytobandReference {
	t.Helper()
	ref, err := genome.ReadCytobands(strings.NewReader(testBands), genome.Build37)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func send(m EditModel, msgs ...tea.Msg) EditModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(EditModel)
	}
	return m
}

func typeText(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

// assertSynced checks that the three controls agree.
func assertSynced(t *testing.T, m EditModel) {
	t.Helper()
	f := m.Fields
	if f.Query.Chromosome.Valid() {
		if len(f.Selected) != 1 || f.Selected[0] != f.Query.Chromosome {
			t.Errorf("selected = %v, want [%s]", f.Selected, f.Query.Chromosome)
		}
	}
	if m.Err == nil && f.Query.HasRange() {
		if got := coord.Parse(f.Text); got != f.Query {
			t.Errorf("text %q parses to %+v, want %+v", f.Text, got, f.Query)
		}
	}
}

func TestEditModelTyping(t *testing.T) {
	m := NewEditModel(testRef(t), "")
	m = send(m, typeText("7:0-4500000")...)

	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if got := coord.Format(m.Fields.Query); got != "7:0-4500000" {
		t.Errorf("query = %q, want 7:0-4500000", got)
	}
	if m.start != 0 || m.end != 1 {
		t.Errorf("cursors = (%d, %d), want (0, 1)", m.start, m.end)
	}
	assertSynced(t, m)

	m = send(m, keyBack, keyBack, keyBack, keyBack, keyBack, keyBack, keyBack, keyBack)
	if m.Err == nil {
		t.Errorf("partial text %q should report an error", m.Fields.Text)
	}
	if !m.Fields.Query.IsAny() {
		t.Errorf("invalid text should fall back to any, got %+v", m.Fields.Query)
	}
}

func TestEditModelChromosome(t *testing.T) {
	m := NewEditModel(testRef(t), "7:1000-2000")
	m = send(m, keyTab, keyRight)

	if m.focus != focusChromosome {
		t.Fatalf("focus = %d, want chromosome", m.focus)
	}
	if got := m.Fields.Text; got != "8:1000-2000" {
		t.Errorf("text = %q, want 8:1000-2000", got)
	}
	assertSynced(t, m)

	m = send(m, keyLeft, keyLeft)
	if got := m.Fields.Text; got != "6:1000-2000" {
		t.Errorf("text = %q, want 6:1000-2000", got)
	}

	// Wrapping from "1" back to "any" clears the form.
	m = NewEditModel(testRef(t), "1")
	m = send(m, keyTab, keyLeft)
	if !m.Fields.Query.IsAny() || m.Fields.Text != "" {
		t.Errorf("any selection = %+v, want cleared", m.Fields)
	}
}

func TestEditModelBands(t *testing.T) {
	m := NewEditModel(testRef(t), "7")
	if len(m.options.Start) != 5 {
		t.Fatalf("start options = %d, want 5", len(m.options.Start))
	}

	// Pick the first start band, then the second end band.
	m = send(m, keyTab, keyTab, keyDown)
	if got := m.Fields.Text; got != "7" {
		t.Errorf("text with one bound = %q, want 7", got)
	}
	if !m.Fields.Query.Start.Valid || m.Fields.Query.Start.Value != 0 {
		t.Errorf("start = %+v, want 0", m.Fields.Query.Start)
	}

	m = send(m, keyTab, keyDown, keyDown)
	if got := m.Fields.Text; got != "7:0-4500000" {
		t.Errorf("text = %q, want 7:0-4500000", got)
	}
	assertSynced(t, m)
}

func TestEditModelWithoutReference(t *testing.T) {
	m := NewEditModel(nil, "7")
	m = send(m, keyTab, keyTab, keyDown)
	if m.Fields.Query.Start.Valid {
		t.Error("band selection without a reference should do nothing")
	}
	if !strings.Contains(m.View(), "select one chromosome") {
		t.Error("view should explain the empty band selector")
	}
}

func TestEditModelQuit(t *testing.T) {
	m := NewEditModel(nil, "7:1-2")
	done := send(m, keyEnter)
	if !done.Done {
		t.Error("enter should finish the form")
	}
	quit := send(m, keyEsc)
	if quit.Done {
		t.Error("esc should abandon the form")
	}
}

func TestEditModelView(t *testing.T) {
	m := NewEditModel(testRef(t), "7:0-2800000")
	view := m.View()
	for _, want := range []string{"Position Filter", "7:0-2800000", "p22.3 (start:0)", "p22.3 (end:2800000)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
