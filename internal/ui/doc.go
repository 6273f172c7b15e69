// Package ui implements an interactive terminal wishlist page using bubbletea's Elm architecture.
//
// The TUI renders a [page.Document] and dispatches the page handlers:
//  1. [ItemListView] : Browse items, mark them gotten, delete, copy or open the page
//  2. [AddItemView] : Fill the add item form
//  3. [ShareView] : Share modal with its own feedback banner
//  4. [CreateView] : Wishlist creation and link recovery, used when no wishlist is loaded
//
// Every handler runs as its own [tea.Cmd] and reports back with a [Msg]. Requests are never
// queued or cancelled; several may be in flight at once and the view re-renders from a
// document snapshot when any of them lands.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
