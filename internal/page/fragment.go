package page

import (
	"fmt"
	"strings"

	"github.com/desertthunder/wishctl/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseItems extracts item rows from the list fragment the service renders.
//
// A row is the outermost element carrying a data-item-id attribute. Without one, each
// checkbox with an id is a row keyed by that id, and its nearest containing element
// holds the rest of the row. Within a row the checkbox gives gotten/disabled,
// .item-name gives the name, .item-description the description, and the first
// link's href the url. A row with no .item-name is named by its text.
func ParseItems(fragment string) ([]models.Item, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	rows := findRows(nodes)
	items := make([]models.Item, 0, len(rows))
	for _, r := range rows {
		if r.box != nil {
			items = append(items, parseCheckboxRow(r.box, r.id))
		} else {
			items = append(items, parseRow(r.node, r.id))
		}
	}
	return items, nil
}

// removeRow drops the row keyed by id from fragment and renders the rest.
// It reports false, leaving fragment as is, when no such row exists.
func removeRow(fragment, id string) (string, bool) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return fragment, false
	}

	for _, r := range findRows(nodes) {
		if r.id != id {
			continue
		}

		target := r.node
		if r.box != nil && r.box.Parent != nil && countCheckboxes(r.box.Parent) == 1 {
			target = r.box.Parent
		}
		if target.Parent != nil {
			target.Parent.RemoveChild(target)
		} else {
			for i, n := range nodes {
				if n == target {
					nodes = append(nodes[:i], nodes[i+1:]...)
					break
				}
			}
		}

		var b strings.Builder
		for _, n := range nodes {
			if err := html.Render(&b, n); err != nil {
				return fragment, false
			}
		}
		return b.String(), true
	}
	return fragment, false
}

// rowNode is an item row found in a fragment. box is set when the row is known only by its checkbox.
type rowNode struct {
	id   string
	node *html.Node
	box  *html.Node
}

func parseFragment(fragment string) ([]*html.Node, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item fragment: %w", err)
	}
	return nodes, nil
}

func findRows(nodes []*html.Node) []rowNode {
	var rows []rowNode
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id, ok := attr(n, "data-item-id"); ok && id != "" {
				rows = append(rows, rowNode{id: id, node: n})
				return
			}
			if id, ok := attr(n, "id"); ok && id != "" && isCheckbox(n) {
				rows = append(rows, rowNode{id: id, node: n, box: n})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return rows
}

func parseRow(row *html.Node, id string) models.Item {
	item := models.Item{ID: id}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}

		switch {
		case isCheckbox(n):
			_, item.Gotten = attr(n, "checked")
			_, item.Disabled = attr(n, "disabled")
		case hasClass(n, "item-name"):
			item.Name = text(n)
		case hasClass(n, "item-description"):
			item.Description = text(n)
		}

		if n.DataAtom == atom.A && item.URL == "" {
			if href, ok := attr(n, "href"); ok {
				item.URL = href
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(row)

	if item.Name == "" {
		item.Name = text(row)
	}
	return item
}

// parseCheckboxRow reads a row identified only by its checkbox. The checkbox state
// comes from box itself, since siblings may share the container.
func parseCheckboxRow(box *html.Node, id string) models.Item {
	container := box
	if box.Parent != nil {
		container = box.Parent
	}

	item := parseRow(container, id)
	_, item.Gotten = attr(box, "checked")
	_, item.Disabled = attr(box, "disabled")
	if item.Name == "" {
		item.Name = id
	}
	return item
}

func countCheckboxes(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && isCheckbox(n) {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countCheckboxes(c)
	}
	return count
}

func isCheckbox(n *html.Node) bool {
	return n.DataAtom == atom.Input && attrEquals(n, "type", "checkbox")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrEquals(n *html.Node, key, want string) bool {
	v, ok := attr(n, key)
	return ok && strings.EqualFold(v, want)
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// text returns the collapsed text content of n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
