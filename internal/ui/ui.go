package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wishctl/internal/page"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ItemListView ViewState = iota
	AddItemView
	ShareView
	CreateView
)

const (
	opMark    = "mark"
	opDelete  = "delete"
	opRefresh = "refresh"
	opAdd     = "add"
	opCreate  = "create"
	opRecover = "recover"
	opShare   = "share"
	opCopy    = "copy"
	opOpen    = "open"
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	client  *page.Client
	doc     *page.Document
	items   list.Model
	form    *form
	version uint64
	pending int
	width   int
	height  int
	help    help.Model
	keys    keyMap
}

// form is a set of text inputs bound to document inputs.
type form struct {
	title  string
	op     string
	fields []page.Selector
	inputs []textinput.Model
	focus  int
}

func newForm(title, op string, fields []page.Selector, placeholders ...string) *form {
	f := &form{title: title, op: op, fields: fields, inputs: make([]textinput.Model, len(fields))}
	for i := range fields {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		if i < len(placeholders) {
			ti.Placeholder = placeholders[i]
		}
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// store copies the form values into the document.
func (f *form) store(doc *page.Document) {
	for i, sel := range f.fields {
		doc.SetInput(sel, f.inputs[i].Value())
	}
}

// load copies document values into the form.
func (f *form) load(doc *page.Document) {
	for i, sel := range f.fields {
		f.inputs[i].SetValue(doc.Input(sel))
	}
}

// cleared reports whether the document inputs behind the form are blank.
func (f *form) cleared(doc *page.Document) bool {
	for _, sel := range f.fields {
		if doc.Input(sel) != "" {
			return false
		}
	}
	return true
}

// NewModel creates a new TUI model over a page client.
//
// Without a wishlist id the model opens on [CreateView].
func NewModel(ctx context.Context, client *page.Client) *Model {
	items := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	items.Title = "Wishlist"
	items.SetShowHelp(false)
	items.SetFilteringEnabled(false)
	items.SetShowStatusBar(false)

	m := &Model{
		ctx:    ctx,
		view:   ItemListView,
		client: client,
		doc:    client.Document(),
		items:  items,
		help:   help.New(),
		keys:   newKeyMap(),
	}
	if client.WishlistID() == "" {
		m.openCreate()
	}
	return m
}

// View state accessors, mostly for tests.
func (m *Model) State() ViewState { return m.view }
func (m *Model) Pending() int     { return m.pending }

// Init initializes the TUI by loading the item list.
func (m *Model) Init() tea.Cmd {
	if m.view == CreateView {
		return textinput.Blink
	}
	return m.dispatch(opRefresh, func(ctx context.Context) { _ = m.client.ShowItems(ctx, "") })
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.items.SetSize(msg.Width-4, msg.Height-8)
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgDocumentChanged:
			return m, m.sync()
		case MsgHandlerDone:
			m.pending--
			cmd := m.sync()
			m.afterHandler(msg.op())
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ItemListView:
			return m.handleListKeys(msg)
		default:
			return m.handleFormKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	snap := m.doc.Snapshot()

	var b strings.Builder
	if banner := styles.banner(snap.Banners[page.DefaultBanner]); banner != "" {
		b.WriteString(banner + "\n\n")
	}

	switch m.view {
	case ItemListView:
		b.WriteString(m.renderList())
	default:
		b.WriteString(m.renderForm(snap))
	}

	if m.pending > 0 {
		b.WriteString("\n" + styles.warn.Render(fmt.Sprintf("%d request(s) in flight", m.pending)))
	}
	return b.String()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.mark):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		if _, ok := m.doc.Click(id); !ok {
			return m, nil
		}
		return m, tea.Batch(m.sync(), m.dispatch(opMark, func(ctx context.Context) { _ = m.client.MarkItem(ctx, id) }))
	case key.Matches(msg, m.keys.remove):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(opDelete, func(ctx context.Context) { m.client.DeleteItem(ctx, id) })
	case key.Matches(msg, m.keys.add):
		m.view = AddItemView
		m.form = newForm("Add item", opAdd,
			[]page.Selector{page.InputName, page.InputDescription, page.InputURL},
			"Name", "Description", "https://")
		m.form.load(m.doc)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.share):
		m.view = ShareView
		m.doc.ShowModal(page.ShareModal)
		m.form = newForm("Share wishlist", opShare, []page.Selector{page.InputShareEmail}, "friend@example.com")
		m.form.load(m.doc)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.copy):
		link := m.client.Location().String()
		return m, m.dispatch(opCopy, func(context.Context) { _ = m.client.CopyLink(link) })
	case key.Matches(msg, m.keys.open):
		return m, m.dispatch(opOpen, func(context.Context) {
			if err := m.client.Open(); err != nil {
				m.client.Notify(page.Error, err.Error())
			}
		})
	case key.Matches(msg, m.keys.refresh):
		return m, m.dispatch(opRefresh, func(ctx context.Context) { _ = m.client.ShowItems(ctx, "") })
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.view == CreateView {
			return m, nil
		}
		f.store(m.doc)
		if m.view == ShareView {
			m.doc.HideModal(page.ShareModal)
		}
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.keys.next):
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		f.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.submit):
		f.store(m.doc)
		return m, m.submit(f.op)
	case m.view == CreateView && key.Matches(msg, m.keys.recover):
		f.store(m.doc)
		return m, m.submit(opRecover)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m *Model) submit(op string) tea.Cmd {
	switch op {
	case opAdd:
		return m.dispatch(op, func(ctx context.Context) { _, _ = m.client.AddItem(ctx) })
	case opShare:
		return m.dispatch(op, func(ctx context.Context) { m.client.ShareEmail(ctx) })
	case opCreate:
		return m.dispatch(op, func(ctx context.Context) { _, _ = m.client.CreateWishlist(ctx) })
	case opRecover:
		return m.dispatch(op, func(ctx context.Context) { _, _ = m.client.Recover(ctx) })
	}
	return nil
}

// dispatch runs a handler as an independent command. Nothing is queued or deduplicated.
func (m *Model) dispatch(op string, fn func(context.Context)) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return handlerDoneMsg(op)
	}
}

// afterHandler leaves a form once its handler has cleared the inputs or hidden the modal.
func (m *Model) afterHandler(op string) {
	f := m.form
	if f == nil {
		return
	}

	switch {
	case op == opShare && f.op == opShare:
		if !m.doc.ModalVisible(page.ShareModal) {
			m.closeForm()
		}
	case op == opAdd && f.op == opAdd:
		if f.cleared(m.doc) {
			m.closeForm()
		}
	case (op == opCreate || op == opRecover) && f.op == opCreate:
		f.load(m.doc)
	}
}

func (m *Model) openCreate() {
	m.view = CreateView
	m.form = newForm("Create a wishlist", opCreate,
		[]page.Selector{page.InputName, page.InputUsername, page.InputEmail},
		"Birthday", "Your name", "you@example.com")
}

func (m *Model) closeForm() {
	m.form = nil
	m.view = ItemListView
}

// sync rebuilds the list from the document when it has changed.
func (m *Model) sync() tea.Cmd {
	snap := m.doc.Snapshot()
	if snap.Version == m.version {
		return nil
	}
	m.version = snap.Version
	return m.items.SetItems(rows(snap.Items))
}

func (m *Model) selectedID() (string, bool) {
	row, ok := m.items.SelectedItem().(itemRow)
	if !ok {
		return "", false
	}
	return row.item.ID, true
}

func (m *Model) renderList() string {
	if len(m.items.Items()) == 0 {
		empty := styles.help.Render("No items yet. Press a to add one.")
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(m.items.Title), empty, m.help.View(m.keys))
	}
	return fmt.Sprintf("%s\n\n%s", m.items.View(), m.help.View(m.keys))
}

func (m *Model) renderForm(snap page.Snapshot) string {
	f := m.form
	if f == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(f.title) + "\n")
	for i, sel := range f.fields {
		b.WriteString(styles.field.Render(strings.TrimPrefix(string(sel), "#")) + f.inputs[i].View() + "\n")
	}

	if m.view == ShareView {
		if banner := styles.banner(snap.Banners[page.ModalBanner]); banner != "" {
			b.WriteString("\n" + banner + "\n")
		}
	}

	helpKeys := []key.Binding{m.keys.submit, m.keys.next}
	if m.view == CreateView {
		helpKeys = append(helpKeys, m.keys.recover)
	} else {
		helpKeys = append(helpKeys, m.keys.back)
	}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}
