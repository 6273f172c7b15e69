package page

import (
	"sync"

	"github.com/desertthunder/wishctl/internal/models"
)

// Selector names a region of the document.
type Selector string

const (
	DefaultBanner Selector = "#msgbox"
	ModalBanner   Selector = "#modal_msgbox"
	ItemRegion    Selector = "#wishlist_items"
	ShareModal    Selector = "#share_email_modal"

	InputName        Selector = "#name"
	InputDescription Selector = "#description"
	InputURL         Selector = "#url"
	InputUsername    Selector = "#username"
	InputEmail       Selector = "#email"
	InputShareEmail  Selector = "#share_email_input"
)

// Inputs lists every form field on the page in display order.
var Inputs = []Selector{InputName, InputDescription, InputURL, InputUsername, InputEmail, InputShareEmail}

// Kind is the visual state of a banner.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Banner is a one-shot feedback region.
type Banner struct {
	Kind    Kind
	Message string
	Visible bool
}

// Checkbox is the state of an item's gotten control.
type Checkbox struct {
	Checked  bool
	Disabled bool
}

// Snapshot is a consistent copy of the document for rendering.
type Snapshot struct {
	Version   uint64
	Banners   map[Selector]Banner
	Inputs    map[Selector]string
	Modals    map[Selector]bool
	ItemsHTML string
	Items     []models.Item
}

// Document is the page state handlers patch. It is safe for concurrent use.
type Document struct {
	mu         sync.RWMutex
	version    uint64
	banners    map[Selector]Banner
	inputs     map[Selector]string
	modals     map[Selector]bool
	itemsHTML  string
	items      []models.Item
	checkboxes map[string]*Checkbox
	onChange   func()
}

// NewDocument creates an empty page with every known input present and blank.
func NewDocument() *Document {
	d := &Document{
		banners:    map[Selector]Banner{},
		inputs:     map[Selector]string{},
		modals:     map[Selector]bool{},
		checkboxes: map[string]*Checkbox{},
	}
	for _, sel := range Inputs {
		d.inputs[sel] = ""
	}
	return d
}

// OnChange registers fn to run after every mutation, outside the lock.
func (d *Document) OnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Document) mutate(fn func()) {
	d.mu.Lock()
	fn()
	d.version++
	notify := d.onChange
	d.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Version increases with every mutation.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Notify shows message in the target banner with exactly one visual state.
func (d *Document) Notify(kind Kind, message string, target Selector) {
	d.mutate(func() {
		d.banners[target] = Banner{Kind: kind, Message: message, Visible: true}
	})
}

// Banner returns the state of the target banner.
func (d *Document) Banner(target Selector) Banner {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.banners[target]
}

// SetInput sets a form field's value.
func (d *Document) SetInput(sel Selector, value string) {
	d.mutate(func() { d.inputs[sel] = value })
}

// Input returns a form field's value.
func (d *Document) Input(sel Selector) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inputs[sel]
}

// ClearInputs blanks every input on the page, not only the submitted form's.
func (d *Document) ClearInputs() {
	d.mutate(func() {
		for sel := range d.inputs {
			d.inputs[sel] = ""
		}
	})
}

// ShowModal reveals a modal dialog.
func (d *Document) ShowModal(sel Selector) {
	d.mutate(func() { d.modals[sel] = true })
}

// HideModal hides a modal dialog.
func (d *Document) HideModal(sel Selector) {
	d.mutate(func() { d.modals[sel] = false })
}

// ModalVisible reports whether a modal is shown.
func (d *Document) ModalVisible(sel Selector) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.modals[sel]
}

// ReplaceItems swaps the item-list region wholesale. Checkbox state is rebuilt from the rows.
func (d *Document) ReplaceItems(fragment string, items []models.Item) {
	d.mutate(func() {
		d.itemsHTML = fragment
		d.items = append([]models.Item(nil), items...)
		d.checkboxes = make(map[string]*Checkbox, len(items))
		for _, it := range items {
			d.checkboxes[it.ID] = &Checkbox{Checked: it.Gotten, Disabled: it.Disabled}
		}
	})
}

// RemoveItem removes the row keyed by id from the rows and from the raw fragment.
// It reports whether a row was removed.
func (d *Document) RemoveItem(id string) bool {
	removed := false
	d.mutate(func() {
		if fragment, ok := removeRow(d.itemsHTML, id); ok {
			d.itemsHTML = fragment
		}
		kept := d.items[:0]
		for _, it := range d.items {
			if it.ID == id {
				removed = true
				continue
			}
			kept = append(kept, it)
		}
		d.items = kept
		delete(d.checkboxes, id)
	})
	return removed
}

// Items returns the rows of the item list with current checkbox state.
func (d *Document) Items() []models.Item {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.itemsLocked()
}

func (d *Document) itemsLocked() []models.Item {
	out := make([]models.Item, len(d.items))
	for i, it := range d.items {
		if cb, ok := d.checkboxes[it.ID]; ok {
			it.Gotten = cb.Checked
			it.Disabled = cb.Disabled
		}
		out[i] = it
	}
	return out
}

// ItemsHTML returns the raw fragment last placed in the item-list region.
func (d *Document) ItemsHTML() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.itemsHTML
}

// Checkbox returns the control for an item.
func (d *Document) Checkbox(id string) (Checkbox, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cb, ok := d.checkboxes[id]
	if !ok {
		return Checkbox{}, false
	}
	return *cb, true
}

// Click toggles an enabled checkbox the way a user click does and returns its new checked state.
// Disabled or unknown controls do not change and ok is false.
func (d *Document) Click(id string) (checked bool, ok bool) {
	d.mutate(func() {
		cb, found := d.checkboxes[id]
		if !found || cb.Disabled {
			return
		}
		cb.Checked = !cb.Checked
		checked, ok = cb.Checked, true
	})
	return checked, ok
}

// SetChecked sets a control's checked state.
func (d *Document) SetChecked(id string, checked bool) {
	d.mutate(func() {
		if cb, ok := d.checkboxes[id]; ok {
			cb.Checked = checked
		}
	})
}

// SetDisabled sets a control's disabled state.
func (d *Document) SetDisabled(id string, disabled bool) {
	d.mutate(func() {
		if cb, ok := d.checkboxes[id]; ok {
			cb.Disabled = disabled
		}
	})
}

// Snapshot copies the whole document.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Snapshot{
		Version:   d.version,
		Banners:   make(map[Selector]Banner, len(d.banners)),
		Inputs:    make(map[Selector]string, len(d.inputs)),
		Modals:    make(map[Selector]bool, len(d.modals)),
		ItemsHTML: d.itemsHTML,
		Items:     d.itemsLocked(),
	}
	for k, v := range d.banners {
		s.Banners[k] = v
	}
	for k, v := range d.inputs {
		s.Inputs[k] = v
	}
	for k, v := range d.modals {
		s.Modals[k] = v
	}
	return s
}
