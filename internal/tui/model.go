package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/service"
	"github.com/emrgen/linker/internal/view"
)

type tab int

const (
	tabEntities tab = iota
	tabProperties
	tabLinks
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabEntities:
		return "Entities"
	case tabProperties:
		return "Properties"
	default:
		return "Links"
	}
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeAdd
)

type loadedMsg struct{ err error }

type createdMsg struct {
	what string
	err  error
}

// row is one line of a tab, whatever the record type.
type row struct {
	id         string
	label      string
	selected   bool
	referenced bool
}

type appModel struct {
	ctx context.Context
	ws  *service.Workspace

	width  int
	height int

	tab    tab
	mode   mode
	cursor [tabCount]int
	search [tabCount]textinput.Model
	input  textinput.Model

	loading bool
	status  string
	failed  bool
}

func newAppModel(ctx context.Context, ws *service.Workspace) appModel {
	m := appModel{ctx: ctx, ws: ws, loading: true}

	for i := range m.search {
		m.search[i] = textinput.New()
		m.search[i].Prompt = "/ "
		m.search[i].Placeholder = "search"
		m.search[i].CharLimit = 100
	}

	m.input = textinput.New()
	m.input.Prompt = "name: "
	m.input.CharLimit = 200
	m.input.Width = 40

	return m
}

func (m appModel) Init() tea.Cmd { return m.load() }

func (m appModel) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ws.Load(m.ctx)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("loaded")
		}
		m.clampCursor()
		return m, nil

	case createdMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("added " + msg.what)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd:
			return m.updateAdd(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
	case "up", "k":
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case "down", "j":
		if m.cursor[m.tab] < len(m.rows())-1 {
			m.cursor[m.tab]++
		}
	case " ", "enter":
		m.selectAtCursor()
	case "/":
		m.mode = modeSearch
		return m, m.search[m.tab].Focus()
	case "r":
		m.loading = true
		return m, m.load()
	case "a":
		return m.startAdd()
	case "d":
		m.removeSelected()
	}

	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeBrowse
		m.search[m.tab].Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search[m.tab], cmd = m.search[m.tab].Update(msg)
	m.list().SetQuery(m.search[m.tab].Value())
	m.clampCursor()

	return m, cmd
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, m.add(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) startAdd() (tea.Model, tea.Cmd) {
	if m.tab != tabLinks {
		m.mode = modeAdd
		m.input.Placeholder = strings.ToLower(m.tab.String())
		return m, m.input.Focus()
	}

	if !m.ws.CanAddLink() {
		m.setError(errors.New("select an entity and a property that are not linked yet"))
		return m, nil
	}

	entity, property := m.ws.SelectedEntity(), m.ws.SelectedProperty()
	what := fmt.Sprintf("link %s - %s", entity.Name, property.Name)
	return m, func() tea.Msg {
		_, err := m.ws.AddLink(m.ctx)
		return createdMsg{what: what, err: err}
	}
}

func (m appModel) add(name string) tea.Cmd {
	ws, ctx, t := m.ws, m.ctx, m.tab
	return func() tea.Msg {
		var err error
		switch t {
		case tabEntities:
			_, err = ws.Entities.Add(ctx, name)
		case tabProperties:
			_, err = ws.Properties.Add(ctx, name)
		}
		if errors.Is(err, view.ErrCannotCreate) {
			err = fmt.Errorf("%q already exists", name)
		}
		return createdMsg{what: name, err: err}
	}
}

func (m *appModel) selectAtCursor() {
	rows := m.rows()
	c := m.cursor[m.tab]
	if c >= len(rows) {
		return
	}
	// links added here have no id until the backend is read again
	if rows[c].id == "" {
		m.setStatus("not saved yet, press r to refresh")
		return
	}
	if err := m.list().Select(rows[c].id); err != nil {
		m.setError(err)
	}
}

func (m *appModel) removeSelected() {
	var id string
	switch m.tab {
	case tabEntities:
		if e := m.ws.SelectedEntity(); e != nil {
			id = e.ID
		}
	case tabProperties:
		if p := m.ws.SelectedProperty(); p != nil {
			id = p.ID
		}
	default:
		m.setError(errors.New("links cannot be removed"))
		return
	}

	if id == "" {
		m.setError(errors.New("nothing selected"))
		return
	}
	if err := m.list().Remove(id); err != nil {
		m.setError(err)
		return
	}

	m.setStatus("removed")
	m.clampCursor()
}

// list is the view model behind the current tab.
func (m appModel) list() interface {
	SetQuery(string)
	Select(string) error
	Remove(string) error
} {
	switch m.tab {
	case tabEntities:
		return m.ws.Entities
	case tabProperties:
		return m.ws.Properties
	default:
		return m.ws.Links
	}
}

func (m appModel) rows() []row {
	switch m.tab {
	case tabEntities:
		return namedRows(m.ws.Entities.Visible(), m.ws.SelectedEntity(), func(e model.Entity) (string, string) {
			return e.ID, e.Name
		})
	case tabProperties:
		return namedRows(m.ws.Properties.Visible(), m.ws.SelectedProperty(), func(p model.Property) (string, string) {
			return p.ID, p.Name
		})
	}

	links := m.ws.Links.Visible()
	rows := make([]row, 0, len(links))
	for _, l := range links {
		rows = append(rows, row{
			id:         l.ID,
			label:      l.EntityName + " - " + l.PropertyName,
			selected:   m.ws.Links.IsSelected(l.Key()),
			referenced: m.ws.IsReferenced(l),
		})
	}
	return rows
}

func namedRows[R any](records []R, selected *R, fields func(R) (string, string)) []row {
	selectedID := ""
	if selected != nil {
		selectedID, _ = fields(*selected)
	}

	rows := make([]row, 0, len(records))
	for _, r := range records {
		id, label := fields(r)
		rows = append(rows, row{id: id, label: label, selected: id == selectedID})
	}
	return rows
}

func (m *appModel) clampCursor() {
	for t := tab(0); t < tabCount; t++ {
		saved := m.tab
		m.tab = t
		n := len(m.rows())
		m.tab = saved
		if m.cursor[t] >= n {
			m.cursor[t] = max(n-1, 0)
		}
	}
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

// Run starts the interactive screen and blocks until the user quits.
func Run(ctx context.Context, ws *service.Workspace) error {
	_, err := tea.NewProgram(newAppModel(ctx, ws), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
