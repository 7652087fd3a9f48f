// Package tui is the interactive list: Bubble Tea event loop over the
// store. The remote load runs as a command; everything else is a
// synchronous store transition applied in Update.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yberkay/tudu/internal/model"
	"github.com/yberkay/tudu/internal/store"
	"github.com/yberkay/tudu/internal/ui"
)

// item adapts a model.Todo to bubbles/list.Item.
type item struct {
	todo model.Todo
}

func (i item) Title() string       { return i.todo.Title }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return i.todo.Title }

// delegate renders one todo per line.
type delegate struct{}

func (d delegate) Height() int                             { return 1 }
func (d delegate) Spacing() int                            { return 0 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	t := ui.Current()
	box := t.Muted.Render(t.BoxUnchecked)
	title := it.todo.Title
	if it.todo.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, box, title)
}

type todosLoadedMsg struct {
	items []model.Todo
}

type loadFailedMsg struct {
	err error
}

// App is the Bubble Tea model.
type App struct {
	store  *store.Store
	remote store.Fetcher

	list list.Model
	spin spinner.Model
	ti   textinput.Model

	// inline add/edit
	adding   bool
	editing  bool
	editID   int64
	inputErr string

	// single-level undo for delete
	canUndo bool
	undo    model.Todo

	width  int
	height int
}

func New(st *store.Store, f store.Fetcher) App {
	l := list.New(nil, delegate{}, 0, 0)
	t := ui.Current()
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // we filter by completion, not by text
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.SetStatusBarItemName("item", "items")

	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Accent

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = model.MaxTitleLen

	a := App{
		store:  st,
		remote: f,
		list:   l,
		spin:   sp,
		ti:     ti,
		width:  80,
		height: 24,
	}
	a.syncList()
	return a
}

// Run starts the interactive list and blocks until quit.
func Run(st *store.Store, f store.Fetcher) error {
	p := tea.NewProgram(New(st, f), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m App) Init() tea.Cmd {
	m.store.BeginLoad()
	return tea.Batch(m.spin.Tick, m.fetch())
}

// fetch runs the remote load off the update loop and reports back.
func (m App) fetch() tea.Cmd {
	f := m.remote
	return func() tea.Msg {
		items, err := f.FetchTodos(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return todosLoadedMsg{items: items}
	}
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.store.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		m.store.ApplyLoad(msg.items)
		m.canUndo = false
		m.syncList()
		return m, nil

	case loadFailedMsg:
		m.store.FailLoad(msg.err)
		m.syncList()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles the inline add/edit prompt.
func (m App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := model.ClampTitle(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.adding {
				m.store.Add(title)
			} else {
				m.store.Edit(m.editID, title)
			}
			m.closeInput()
			m.syncList()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *App) closeInput() {
	m.adding = false
	m.editing = false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.store.Err() != "" {
			m.store.ClearError()
			m.syncList()
			return m, nil
		}
		return m, tea.Quit

	case " ":
		if id, ok := m.selectedID(); ok {
			m.store.Toggle(id)
			m.syncList()
		}
		return m, nil

	case "d":
		if id, ok := m.selectedID(); ok {
			if t, deleted := m.store.Delete(id); deleted {
				m.undo = t
				m.canUndo = true
			}
			m.syncList()
		}
		return m, nil

	case "u":
		if m.canUndo && m.store.Restore(m.undo) {
			m.canUndo = false
			m.syncList()
		}
		return m, nil

	case "a":
		m.adding = true
		m.ti.Placeholder = "New item title..."
		m.ti.SetValue("")
		m.ti.Focus()
		return m, nil

	case "e":
		if id, ok := m.selectedID(); ok {
			for _, t := range m.store.Visible() {
				if t.ID == id {
					m.editing = true
					m.editID = id
					m.ti.Placeholder = "Edit item title..."
					m.ti.SetValue(t.Title)
					m.ti.CursorEnd()
					m.ti.Focus()
					break
				}
			}
		}
		return m, nil

	case "f":
		m.store.SetFilter(m.store.Filter().Next())
		m.syncList()
		return m, nil

	case "s":
		m.store.SetSortBy(m.store.SortBy().Next())
		m.syncList()
		return m, nil

	case "r":
		if m.store.Loading() {
			return m, nil
		}
		m.store.BeginLoad()
		m.syncList()
		return m, tea.Batch(m.spin.Tick, m.fetch())

	case "x":
		m.store.ClearError()
		m.syncList()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selectedID maps the list cursor back to a todo id.
func (m App) selectedID() (int64, bool) {
	li := m.list.SelectedItem()
	if li == nil {
		return 0, false
	}
	it, ok := li.(item)
	if !ok {
		return 0, false
	}
	return it.todo.ID, true
}

// syncList rebuilds the visible items and the header from store state.
func (m *App) syncList() {
	visible := m.store.Visible()
	items := make([]list.Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, item{todo: t})
	}
	m.list.SetItems(items)

	t := ui.Current()
	done, pending := model.Stats(m.store.Items())
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %s·%s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("view"), m.store.Filter(), m.store.SortBy(),
	)
}

func (m App) View() string {
	t := ui.Current()

	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight -= 2
	}
	if m.store.Err() != "" || m.store.Loading() {
		listHeight -= 1
	}
	m.list.SetSize(m.width-2, listHeight)

	var b strings.Builder
	b.WriteString(m.list.View())

	if m.store.Loading() {
		b.WriteString("\n" + m.spin.View() + t.Muted.Render(" fetching todos..."))
	} else if errMsg := m.store.Err(); errMsg != "" {
		b.WriteString("\n" + t.Error.Render("load failed: "+errMsg) +
			t.Muted.Render("  (r retry, x dismiss)"))
	}

	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " — " + t.Error.Render(m.inputErr)
		}
		b.WriteString("\n" + t.Border.Render(title+"\n"+m.ti.View()))
	}

	return ui.Panel([]string{b.String()})
}
