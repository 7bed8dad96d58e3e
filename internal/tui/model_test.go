package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/service"
	"github.com/emrgen/linker/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m appModel, keys ...string) (appModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		next, c := m.Update(key(k))
		m, cmd = next.(appModel), c
	}
	return m, cmd
}

// run executes a command of the model itself and feeds its message back.
func run(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(appModel)
}

func newTestModel(t *testing.T) (appModel, *tester.Backend) {
	t.Helper()

	b := tester.NewBackend(t)
	b.Seed(t, []string{"car", "bike"}, []string{"color"})

	cfg := b.Config()
	ws := service.NewWorkspace(api.NewClient(cfg), service.OptionsFromConfig(cfg))
	m := newAppModel(context.Background(), ws)
	m = run(t, m, m.Init())
	require.False(t, m.loading)
	require.False(t, m.failed, m.status)

	return m, b
}

func TestAppModel_LinkSelected(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Len(t, m.rows(), 2)

	m, _ = press(t, m, " ")
	require.NotNil(t, m.ws.SelectedEntity())
	assert.Equal(t, "car", m.ws.SelectedEntity().Name)

	m, _ = press(t, m, "tab", " ")
	require.NotNil(t, m.ws.SelectedProperty())
	assert.Equal(t, "color", m.ws.SelectedProperty().Name)

	m, cmd := press(t, m, "tab", "a")
	assert.Equal(t, tabLinks, m.tab)
	m = run(t, m, cmd)
	assert.False(t, m.failed, m.status)

	rows := m.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "car - color", rows[0].label)
	assert.True(t, rows[0].referenced)

	// the pair is linked now
	m, cmd = press(t, m, "a")
	assert.Nil(t, cmd)
	assert.True(t, m.failed)
	assert.Equal(t, 1, m.ws.Links.Len())
}

func TestAppModel_SelectUnsavedLink(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, " ", "tab", " ")
	m, cmd := press(t, m, "tab", "a")
	m = run(t, m, cmd)
	require.False(t, m.failed, m.status)

	rows := m.rows()
	require.Len(t, rows, 1)
	require.Empty(t, rows[0].id)

	m, _ = press(t, m, " ")
	assert.False(t, m.failed, m.status)
	assert.Contains(t, m.status, "press r")
	_, selected := m.ws.Links.Selected()
	assert.False(t, selected)

	m, cmd = press(t, m, "r")
	m = run(t, m, cmd)
	require.False(t, m.failed, m.status)
	require.NotEmpty(t, m.rows()[0].id)

	m, _ = press(t, m, " ")
	assert.False(t, m.failed, m.status)
	link, selected := m.ws.Links.Selected()
	require.True(t, selected)
	assert.Equal(t, "car", link.EntityName)
	assert.True(t, m.rows()[0].selected)
}

func TestAppModel_AddAndRemove(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "a")
	assert.Equal(t, modeAdd, m.mode)

	m, _ = press(t, m, "truck")
	m, cmd := press(t, m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	m = run(t, m, cmd)
	assert.False(t, m.failed, m.status)
	assert.Equal(t, 3, m.ws.Entities.Len())

	// adding an existing name fails without a request
	m, _ = press(t, m, "a", "car")
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	assert.True(t, m.failed)
	assert.Equal(t, 3, m.ws.Entities.Len())

	m, _ = press(t, m, "d")
	assert.True(t, m.failed, "nothing is selected yet")

	m, _ = press(t, m, "j", " ", "d")
	assert.False(t, m.failed, m.status)
	assert.Equal(t, 2, m.ws.Entities.Len())
	assert.Nil(t, m.ws.SelectedEntity())
}

func TestAppModel_Search(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "/")
	assert.Equal(t, modeSearch, m.mode)

	m, _ = press(t, m, "BI")
	assert.Equal(t, "BI", m.ws.Entities.Query())
	rows := m.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "bike", rows[0].label)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.View(), "bike")
	assert.NotContains(t, m.View(), "car")

	m, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppModel_LoadFailure(t *testing.T) {
	b := tester.NewBackend(t)
	b.Handler.Fail("property", 500, "boom")

	cfg := b.Config()
	ws := service.NewWorkspace(api.NewClient(cfg), service.OptionsFromConfig(cfg))
	m := newAppModel(context.Background(), ws)
	m = run(t, m, m.Init())

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "boom")
	assert.True(t, m.ws.Entities.Loaded())
	assert.False(t, m.ws.Properties.Loaded())
}
