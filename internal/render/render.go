// Package render formats tracker output for the terminal. Styling is
// applied only when writing to a TTY and NO_COLOR is unset.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

type palette struct {
	taken, overdue, dueSoon, upcoming, heading, muted lipgloss.Style
}

func newPalette(theme string) palette {
	p := palette{
		taken:    lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")),
		overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true),
		dueSoon:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706")),
		upcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")),
		heading:  lipgloss.NewStyle().Bold(true).Underline(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	}
	if theme == model.ThemeDark {
		p.taken = p.taken.Foreground(lipgloss.Color("#4ade80"))
		p.overdue = p.overdue.Foreground(lipgloss.Color("#f87171"))
		p.dueSoon = p.dueSoon.Foreground(lipgloss.Color("#fbbf24"))
		p.upcoming = p.upcoming.Foreground(lipgloss.Color("#60a5fa"))
		p.muted = p.muted.Foreground(lipgloss.Color("#9ca3af"))
	}
	return p
}

// Printer writes localized, optionally styled output.
type Printer struct {
	w       io.Writer
	lang    string
	color   bool
	style   palette
	updates <-chan model.Preferences
}

// New returns a Printer for w using the theme and language of prefs.
func New(w io.Writer, prefs model.Preferences) *Printer {
	return &Printer{
		w:     w,
		lang:  prefs.Language,
		color: IsTerminal(w) && os.Getenv("NO_COLOR") == "",
		style: newPalette(prefs.Theme),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Follow makes p pick up the theme and language of preferences received
// on updates before it renders anything further.
func (p *Printer) Follow(updates <-chan model.Preferences) *Printer {
	p.updates = updates
	return p
}

func (p *Printer) sync() {
	if p.updates == nil {
		return
	}
	for {
		select {
		case prefs := <-p.updates:
			p.lang = prefs.Language
			p.style = newPalette(prefs.Theme)
		default:
			return
		}
	}
}

// T returns the label for key in the printer's language.
func (p *Printer) T(key Key) string {
	p.sync()
	return T(p.lang, key)
}

// Printf writes formatted text.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Println writes a line.
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// Heading writes a styled section title.
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.w, p.paint(p.style.heading, title))
}

// Muted renders s in the secondary color.
func (p *Printer) Muted(s string) string {
	return p.paint(p.style.muted, s)
}

// Alert renders s in the overdue color.
func (p *Printer) Alert(s string) string {
	return p.paint(p.style.overdue, s)
}

// Status renders a dose status label, padded to a fixed width.
func (p *Printer) Status(s adherence.Status) string {
	p.sync()
	var st lipgloss.Style
	var key Key
	switch s {
	case adherence.Taken:
		st, key = p.style.taken, KeyTaken
	case adherence.Overdue:
		st, key = p.style.overdue, KeyOverdue
	case adherence.DueSoon:
		st, key = p.style.dueSoon, KeyDueSoon
	default:
		st, key = p.style.upcoming, KeyUpcoming
	}
	return p.paint(st, pad(p.T(key), 10))
}

// Lateness formats minutes late as "N minutes late" below an hour and
// "N hours late" (whole hours) otherwise.
func (p *Printer) Lateness(minutes int) string {
	p.sync()
	return Lateness(p.lang, minutes)
}

// Lateness is the language-aware lateness label.
func Lateness(lang string, minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, T(lang, KeyMinutesLate))
	}
	return fmt.Sprintf("%d %s", minutes/60, T(lang, KeyHoursLate))
}

// Bar draws a percentage bar of width cells.
func Bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := (percent*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (p *Printer) paint(st lipgloss.Style, s string) string {
	p.sync()
	if !p.color {
		return s
	}
	return st.Render(s)
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
