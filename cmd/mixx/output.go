package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/screen"
)

const defaultWidth = 80

// errorText is the one-line message printed for a failed command.
func errorText(err error) string {
	var (
		apiErr *api.Error
		verr   *screen.ValidationError
	)
	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		return "not logged in. Run `mixx login` first."
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &apiErr):
		if verbose {
			return screen.ErrorText(err) + " (" + err.Error() + ")"
		}
		return screen.ErrorText(err)
	}
	return err.Error()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth is the width of w, or defaultWidth when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints rows under headers in aligned columns. The last column is
// not padded. Cells are measured in terminal cells, not bytes.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	line(headers)
	rule := make([]string, len(headers))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	line(rule)
	for _, row := range rows {
		line(row)
	}
}

// wrap breaks text at word boundaries so no line exceeds width cells.
func wrap(text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return wordwrap.String(text, width)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
