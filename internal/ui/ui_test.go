package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestFit(t *testing.T) {
	assert.Equal(t, "hi   ", fit("hi", 5))
	assert.Equal(t, "hello", fit("hello", 5))
	assert.Equal(t, "lume…", fit("lumen daily", 5))
	assert.Equal(t, "", fit("x", 0))
	assert.Equal(t, "ünï  ", fit("ünï", 5))
}

func TestTableRender(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 12}, {Title: "Address", Width: 14}})
	tbl.AddRow(Row{"lumen daily", "0xc0c0…0001"})
	tbl.AddRow(Row{"short"})

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Address")
	assert.Contains(t, lines[2], "lumen daily")
	assert.Contains(t, lines[2], "0xc0c0…0001")
	assert.Contains(t, lines[3], "short")
}

func TestKeyValueBlockKeepsOrder(t *testing.T) {
	out := KeyValueBlock("Chapter", [][2]string{
		{"Name", "lumen daily"},
		{"Fee", "2 LUX"},
		{"Hearers", "4"},
	})
	assert.Contains(t, out, "Chapter")
	name, fee, hearers := strings.Index(out, "Name"), strings.Index(out, "Fee"), strings.Index(out, "Hearers")
	assert.Less(t, name, fee)
	assert.Less(t, fee, hearers)
}

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0x9749…8A84", TruncateAddr("0x9749156E590d0a8689Bc30F108773D7509D48A84"))
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
}

func TestPostCutsLongBodies(t *testing.T) {
	out := Post("#3", strings.Repeat("ä", 300), 200)
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "…")
	assert.NotContains(t, Post("#1", "gm", 200), "…")
}

func TestMessageHelpers(t *testing.T) {
	assert.Contains(t, Success("done"), "done")
	assert.Contains(t, Warn("careful"), "careful")
	assert.Contains(t, Err("failed"), "failed")
	assert.Contains(t, Banner(), "chapters")
}

// ---------------------------------------------------------------------------
// Confirm
// ---------------------------------------------------------------------------

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, Confirm(strings.NewReader(tt.in), &out, "Proceed?"), tt.in)
		assert.Contains(t, out.String(), "Proceed?")
	}
}

func TestConfirmDanger(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, ConfirmDanger(strings.NewReader("y\n"), &out, "Give away the chapter?"))
	assert.Contains(t, out.String(), "Give away the chapter?")
}

// ---------------------------------------------------------------------------
// Spinner
// ---------------------------------------------------------------------------

func TestRunReturnsResult(t *testing.T) {
	var out bytes.Buffer
	v, err := Run(&out, "loading", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Contains(t, out.String(), "loading")
}

// ---------------------------------------------------------------------------
// Picker
// ---------------------------------------------------------------------------

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func items() []PickerItem {
	return []PickerItem{
		{Label: "lumen daily", SubLabel: "0xc0c0…0001", Value: "a"},
		{Label: "lumen weekly", SubLabel: "0xc0c0…0002", Value: "b"},
		{Label: "lux news", Value: "c"},
	}
}

func TestPickerSelects(t *testing.T) {
	m := press(pickerModel{title: "Chapters", items: items()}, "down", "down", "down", "up", "enter").(pickerModel)
	require.NotNil(t, m.selected)
	assert.Equal(t, "b", m.selected.Value)
}

func TestPickerJumpsAndVim(t *testing.T) {
	m := press(pickerModel{items: items()}, "G").(pickerModel)
	assert.Equal(t, 2, m.cursor)
	m = press(m, "k", "g").(pickerModel)
	assert.Equal(t, 0, m.cursor)
}

func TestPickerCancel(t *testing.T) {
	m := press(pickerModel{title: "Chapters", items: items()}, "esc").(pickerModel)
	assert.True(t, m.quitting)
	assert.Nil(t, m.selected)
	assert.Empty(t, m.View())
}

func TestPickerView(t *testing.T) {
	v := pickerModel{title: "Chapters", items: items()}.View()
	assert.Contains(t, v, "Chapters")
	assert.Contains(t, v, "lumen weekly")
	assert.Contains(t, v, "0xc0c0…0002")
}

func TestPickItemEmpty(t *testing.T) {
	_, err := PickItem("x", nil)
	assert.ErrorIs(t, err, ErrNothingToPick)
}
