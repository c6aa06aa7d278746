package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/randalmurphal/tasktrack/internal/config"
	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/task"
)

const defaultWidth = 100

// palette holds the colours for one theme.
type palette struct {
	accent, subtle, success, info, warning, danger lipgloss.Color
}

var (
	darkPalette = palette{
		accent:  "205",
		subtle:  "241",
		success: "42",
		info:    "39",
		warning: "214",
		danger:  "196",
	}
	lightPalette = palette{
		accent:  "127",
		subtle:  "245",
		success: "28",
		info:    "25",
		warning: "130",
		danger:  "160",
	}
)

// ui renders output for one writer.
type ui struct {
	r       *lipgloss.Renderer
	p       palette
	width   int
	dateFmt string
}

// newUI picks a colour profile from the configured colour mode and whether w
// is a terminal, and a palette from the theme.
func newUI(w io.Writer, display config.DisplayConfig, dark bool) *ui {
	r := lipgloss.NewRenderer(w)

	f, isFile := w.(*os.File)
	tty := isFile && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))

	switch display.Color {
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		if !tty || os.Getenv("NO_COLOR") != "" {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	r.SetHasDarkBackground(dark)

	width := defaultWidth
	if tty {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}

	p := lightPalette
	if dark {
		p = darkPalette
	}

	dateFmt := display.DateFormat
	if dateFmt == "" {
		dateFmt = task.DateLayout
	}
	return &ui{r: r, p: p, width: width, dateFmt: dateFmt}
}

func (u *ui) style(c lipgloss.Color) lipgloss.Style {
	return u.r.NewStyle().Foreground(c)
}

func (u *ui) title(s string) string {
	return u.r.NewStyle().Bold(true).Foreground(u.p.accent).Render(s)
}

func (u *ui) subtle(s string) string {
	return u.style(u.p.subtle).Render(s)
}

func (u *ui) priority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return u.style(u.p.danger).Render(string(p))
	case task.PriorityMedium:
		return u.style(u.p.warning).Render(string(p))
	default:
		return u.style(u.p.success).Render(string(p))
	}
}

// row styles a whole list row by task state.
func (u *ui) row(t *task.Task, overdue bool, line string) string {
	switch {
	case t.Completed:
		return u.r.NewStyle().Faint(true).Strikethrough(true).Render(line)
	case overdue:
		return u.style(u.p.danger).Render(line)
	default:
		return line
	}
}

// notification renders an event notification line.
func (u *ui) notification(level events.Level, msg string) string {
	var c lipgloss.Color
	var icon string
	switch level {
	case events.LevelSuccess:
		c, icon = u.p.success, "✓"
	case events.LevelWarning:
		c, icon = u.p.warning, "!"
	case events.LevelError:
		c, icon = u.p.danger, "✗"
	default:
		c, icon = u.p.info, "i"
	}
	return u.style(c).Render(icon + " " + msg)
}

func (u *ui) date(d *task.Date) string {
	if d == nil {
		return "-"
	}
	return d.Time().Format(u.dateFmt)
}

// truncate shortens s to limit runes, marking the cut with "…".
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
