// Package ui renders interactive progress for long check runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"glean/internal/driver"
)

const statusColumn = 10

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type row struct {
	path     string
	label    string
	stage    driver.Stage
	finished bool
	findings int
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spin     spinner.Model
	bar      progress.Model
	rows     []row
	byPath   map[string]int
	width    int
	findings int
	finished bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows driver events for
// files until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:  title,
		events: events,
		spin:   sp,
		bar:    bar,
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f, label: string(driver.StatusQueued)}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s: %d/%d files", m.title, m.completed(), len(m.rows))
	if m.findings > 0 {
		header += countStyle.Render(fmt.Sprintf(", %d findings", m.findings))
	}
	if m.finished {
		header = "done " + header
	} else {
		header = m.spin.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, r := range m.rows {
		label := fmt.Sprintf("%*s", statusColumn, r.label)
		b.WriteString("  ")
		b.WriteString(labelStyle(r).Render(label))
		b.WriteString(" ")
		b.WriteString(truncate(r.path, nameWidth))
		if r.findings > 0 {
			b.WriteString(countStyle.Render(fmt.Sprintf(" (%d)", r.findings)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	if r.finished {
		return nil
	}
	r.stage = ev.Stage
	switch ev.Status {
	case driver.StatusQueued:
		r.label = string(driver.StatusQueued)
	case driver.StatusWorking:
		r.label = workingLabel(ev.Stage)
	case driver.StatusDone:
		r.finished = true
		r.label = "done"
		if ev.Stage == driver.StageCache {
			r.label = "cached"
		}
		r.findings = ev.Findings
		m.findings += ev.Findings
	case driver.StatusError:
		r.finished = true
		r.label = "error"
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) completed() int {
	n := 0
	for _, r := range m.rows {
		if r.finished {
			n++
		}
	}
	return n
}

// fraction: доля работы; незавершённые файлы считаются по стадии.
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range m.rows {
		if r.finished {
			total++
			continue
		}
		total += stageWeight(r.stage)
	}
	return total / float64(len(m.rows))
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageExtract:
		return 0.3
	case driver.StageCheck:
		return 0.7
	default:
		return 0
	}
}

func workingLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageExtract:
		return "extracting"
	case driver.StageCheck:
		return "checking"
	default:
		return string(stage)
	}
}

func labelStyle(r row) lipgloss.Style {
	switch {
	case r.label == "error":
		return errorStyle
	case r.finished:
		return doneStyle
	case r.label == string(driver.StatusQueued):
		return idleStyle
	default:
		return workingStyle
	}
}

// truncate shortens value to width display cells, keeping the tail of
// the path where the file name is.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.TruncateLeft(value, runewidth.StringWidth(value)-width, "")
	}
	return runewidth.TruncateLeft(value, runewidth.StringWidth(value)-width+3, "...")
}
