package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/plexvideo/internal/video"
	"golang.org/x/term"
)

// Color palette
var (
	plexOrange = lipgloss.Color("#E5A00D")
	dimGray    = lipgloss.Color("#6B7280")
	lightGray  = lipgloss.Color("#9CA3AF")
	white      = lipgloss.Color("#F9FAFB")
	green      = lipgloss.Color("#10B981")
	red        = lipgloss.Color("#EF4444")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(white).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lightGray).Width(12)
	dimStyle     = lipgloss.NewStyle().Foreground(dimGray)
	accentStyle  = lipgloss.NewStyle().Foreground(plexOrange)
	successStyle = lipgloss.NewStyle().Foreground(green)
	warnStyle    = lipgloss.NewStyle().Foreground(red)
	bannerStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(plexOrange).
			Padding(1, 2)
)

// Raw watch status characters (unstyled)
const (
	watchedChar   = "●"
	unwatchedChar = "○"
)

type printer struct {
	w     io.Writer
	plain bool
	width int
}

func newPrinter(f *os.File) *printer {
	p := &printer{w: f, width: 80}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		p.plain = true
		return p
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		p.width = w
	}
	return p
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) ok(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(successStyle, fmt.Sprintf(format, args...)))
}

func (p *printer) warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(warnStyle, fmt.Sprintf(format, args...)))
}

func (p *printer) field(label, value string) {
	if value == "" {
		return
	}
	if p.plain {
		fmt.Fprintf(p.w, "%s: %s\n", label, value)
		return
	}
	fmt.Fprintln(p.w, labelStyle.Render(label)+p.truncate(value, p.width-12))
}

func (p *printer) truncate(s string, n int) string {
	if p.plain || n <= 1 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func (p *printer) watchMark(item video.Item) string {
	if item.IsWatched() {
		return p.render(successStyle, watchedChar)
	}
	return p.render(dimStyle, unwatchedChar)
}

// listEntry prints one row of a season or episode listing
func (p *printer) listEntry(item video.Item) {
	v := item.Base()
	var prefix string
	switch item.(type) {
	case *video.Episode:
		prefix = fmt.Sprintf("S%02dE%02d", v.ParentIndex, v.Index)
	case *video.Season:
		prefix = fmt.Sprintf("%d/%d", v.ViewedLeafCount, v.LeafCount)
	}
	row := fmt.Sprintf("%s %-8s %s", p.watchMark(item), p.render(accentStyle, v.RatingKey), v.Title)
	if prefix != "" {
		row = fmt.Sprintf("%s %-8s %s  %s", p.watchMark(item), p.render(accentStyle, v.RatingKey), p.render(dimStyle, prefix), v.Title)
	}
	fmt.Fprintln(p.w, row)
}

// item prints the details of an item
func (p *printer) item(item video.Item) {
	v := item.Base()
	fmt.Fprintln(p.w, p.render(titleStyle, v.Title)+" "+p.watchMark(item))
	p.field("Type", v.Type)
	p.field("Key", v.Key)
	if v.Year > 0 {
		p.field("Year", fmt.Sprint(v.Year))
	}
	if v.Duration > 0 {
		p.field("Duration", v.Duration.Round(time.Second).String())
	}
	if v.ViewOffset > 0 {
		p.field("Resume at", v.ViewOffset.Round(time.Second).String())
	}
	p.field("Summary", v.Summary)

	switch it := item.(type) {
	case *video.Movie:
		p.field("Genres", tagList(it.Genres))
		p.field("Directors", tagList(it.Directors))
		p.field("Cast", tagList(it.Actors()))
		p.media(it.Media)
	case *video.Episode:
		p.field("Show", v.GrandparentTitle)
		p.field("Season", v.ParentTitle)
		p.field("Directors", tagList(it.Directors))
		p.field("Writers", tagList(it.Writers))
		p.media(it.Media)
	case *video.Show:
		p.field("Genres", tagList(it.Genres))
		p.field("Watched", fmt.Sprintf("%d/%d", v.ViewedLeafCount, v.LeafCount))
	case *video.Season:
		p.field("Show", v.ParentTitle)
		p.field("Watched", fmt.Sprintf("%d/%d", v.ViewedLeafCount, v.LeafCount))
	}
}

func (p *printer) media(versions []*video.MediaVersion) {
	for i, m := range versions {
		p.field(fmt.Sprintf("Version %d", i), m.Summary())
	}
}

func (p *printer) streams(title string, streams []*video.Stream) {
	fmt.Fprintln(p.w, p.render(titleStyle, title))
	if len(streams) == 0 {
		fmt.Fprintln(p.w, p.render(dimStyle, "  none"))
		return
	}
	for _, s := range streams {
		mark := " "
		if s.Selected {
			mark = p.render(successStyle, "*")
		}
		fmt.Fprintf(p.w, "  %s %-6s %s\n", mark, p.render(accentStyle, fmt.Sprint(s.ID)), s)
	}
}

// banner shows the account link instructions
func (p *printer) banner(linkURL, pin string) {
	text := fmt.Sprintf("Visit %s\nand enter code: %s", linkURL, pin)
	if p.plain {
		fmt.Fprintln(p.w, text)
		return
	}
	body := fmt.Sprintf("Visit %s\nand enter code: %s",
		p.render(accentStyle, linkURL), p.render(titleStyle, pin))
	fmt.Fprintln(p.w, bannerStyle.Render(body))
}

func tagList(tags []video.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return strings.Join(names, ", ")
}
