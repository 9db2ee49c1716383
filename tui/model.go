package tui

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-midistream/debug"
	"go-midistream/event"
	"go-midistream/theme"
	"go-midistream/widgets"
)

// FileInfo is the header line data
type FileInfo struct {
	Path           string
	Format         uint16
	PPQ            uint16
	Tracks         int
	DeclaredTracks uint16
}

// Row is one pulled event with its absolute tick
type Row struct {
	Abs   uint64
	Event event.Event
}

// stream pulls events on demand and keeps what has been pulled so far, so
// the list can scroll back over a single-pass sequence.
type stream struct {
	next func() (event.Event, bool)
	stop func()
	rows []Row
	abs  uint64
	done bool
	seen [16]bool
}

func (s *stream) fill(n int) {
	for !s.done && len(s.rows) < n {
		ev, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			debug.Log("viewer", "stream ended after %d events", len(s.rows))
			return
		}
		s.abs += ev.Delta()
		if ch, ok := event.ChannelOf(ev); ok {
			s.seen[ch&0x0F] = true
		}
		s.rows = append(s.rows, Row{Abs: s.abs, Event: ev})
		debug.LogEvery(10000, "viewer", "pulled %d events", len(s.rows))
	}
}

type Model struct {
	Info     FileInfo
	Theme    *theme.Theme
	Encoding string

	events   *stream
	offset   int
	pageSize int
	quitting bool
}

// chrome is the number of lines around the event list
const chrome = 11

func NewModel(info FileInfo, events iter.Seq[event.Event], th *theme.Theme, pageSize int, encoding string) Model {
	next, stop := iter.Pull(events)
	if pageSize <= 0 {
		pageSize = 20
	}
	m := Model{
		Info:     info,
		Theme:    th,
		Encoding: encoding,
		events:   &stream{next: next, stop: stop},
		pageSize: pageSize,
	}
	m.events.fill(pageSize)
	return m
}

// Close stops the underlying event sequence
func (m Model) Close() {
	if !m.events.done {
		m.events.stop()
		m.events.done = true
	}
}

// Rows returns the events pulled so far
func (m Model) Rows() []Row {
	return m.events.rows
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) scrollTo(offset int) Model {
	if offset < 0 {
		offset = 0
	}
	m.events.fill(offset + m.pageSize)
	if last := len(m.events.rows) - m.pageSize; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	m.offset = offset
	return m
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Close()
			return m, tea.Quit
		case "j", "down":
			m = m.scrollTo(m.offset + 1)
		case "k", "up":
			m = m.scrollTo(m.offset - 1)
		case " ", "f", "pgdown":
			m = m.scrollTo(m.offset + m.pageSize)
		case "b", "pgup":
			m = m.scrollTo(m.offset - m.pageSize)
		case "g", "home":
			m = m.scrollTo(0)
		case "G", "end":
			m.events.fill(int(^uint(0) >> 1))
			m = m.scrollTo(len(m.events.rows))
		}

	case tea.WindowSizeMsg:
		if h := msg.Height - chrome; h > 0 {
			m.pageSize = h
		}
		m = m.scrollTo(m.offset)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	header := headerStyle.Render(fmt.Sprintf("go-midistream  %s  format %d  ppq %d  tracks %d/%d",
		filepath.Base(m.Info.Path), m.Info.Format, m.Info.PPQ, m.Info.Tracks, m.Info.DeclaredTracks))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("  %10s %8s  %-16s %s", "tick", "delta", "kind", "")))
	out.WriteString("\n")

	rows := m.events.rows
	end := min(m.offset+m.pageSize, len(rows))
	for _, r := range rows[m.offset:end] {
		out.WriteString(m.renderRow(r))
		out.WriteString("\n")
	}

	status := fmt.Sprintf("events %d-%d of %d", m.offset+1, end, len(rows))
	if len(rows) == 0 {
		status = "no events"
	} else if !m.events.done {
		status += "+"
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(status))
	out.WriteString("\n")

	var colors [16][3]uint8
	for ch := range colors {
		colors[ch] = m.Theme.ChannelRGB(uint8(ch))
	}
	if legend := widgets.RenderChannelLegend(colors, m.events.seen); legend != "" {
		out.WriteString(legend)
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{
			{Key: "j/k", Desc: "scroll"},
			{Key: "space/b", Desc: "page down/up"},
			{Key: "g/G", Desc: "first/last event"},
			{Key: "q", Desc: "quit"},
		},
	}})))

	return out.String()
}

func (m Model) renderRow(r Row) string {
	style := lipgloss.NewStyle().Foreground(m.Theme.EventColor(r.Event))
	line := fmt.Sprintf("%c %10d %8d  %-16s %s",
		m.Theme.Symbol(r.Event), r.Abs, r.Event.Delta(), r.Event.Kind(), event.Describe(r.Event, m.Encoding))
	return style.Render(line)
}
