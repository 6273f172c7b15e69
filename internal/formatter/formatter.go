// package formatter provides functions to export wishlist items to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// ExportToCSV converts items to CSV format with columns: ID, Name, Description, URL, Gotten
func ExportToCSV(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Description", "URL", "Gotten"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			item.Description,
			item.URL,
			strconv.FormatBool(item.Gotten),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts items to a Markdown task list
func ExportToMarkdown(title string, items []models.Item) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	buf.WriteString(fmt.Sprintf("**Items**: %d (%d gotten)\n\n", len(items), gotten(items)))

	for _, item := range items {
		box := " "
		if item.Gotten {
			box = "x"
		}
		name := escapeMarkdown(item.Name)
		if item.URL != "" {
			name = fmt.Sprintf("[%s](%s)", name, item.URL)
		}
		line := fmt.Sprintf("- [%s] %s", box, name)
		if item.Description != "" {
			line += ": " + escapeMarkdown(item.Description)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts items to plain text, one checkbox row per item
func ExportToText(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer

	if len(items) == 0 {
		buf.WriteString("No items\n")
		return buf.Bytes(), nil
	}

	for _, item := range items {
		box := "[ ]"
		if item.Gotten {
			box = "[x]"
		}
		buf.WriteString(fmt.Sprintf("%s %s (%s)\n", box, item.Name, item.ID))

		var detail []string
		if item.Description != "" {
			detail = append(detail, item.Description)
		}
		if item.URL != "" {
			detail = append(detail, item.URL)
		}
		if len(detail) > 0 {
			buf.WriteString(fmt.Sprintf("    %s\n", strings.Join(detail, " • ")))
		}
	}

	return buf.Bytes(), nil
}

// Export renders items in the named format.
func Export(format, title string, items []models.Item) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "txt":
		return ExportToText(items)
	case FormatCSV:
		return ExportToCSV(items)
	case FormatMarkdown, "md":
		return ExportToMarkdown(title, items)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// WriteExport renders items and writes them to path.
func WriteExport(format, title string, items []models.Item, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := Export(format, title, items)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func gotten(items []models.Item) int {
	n := 0
	for _, item := range items {
		if item.Gotten {
			n++
		}
	}
	return n
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
