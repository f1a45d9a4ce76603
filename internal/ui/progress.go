package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"macplugins/internal/pipeline"
)

// fileState — где сейчас файл; порядок совпадает с долей выполненной работы.
type fileState uint8

const (
	stateQueued fileState = iota
	stateParsing
	stateExpanding
	stateWriting
	stateDone
	stateCached
	stateFailed
)

var stateInfo = [...]struct {
	label  string
	weight float64
	color  lipgloss.Color
}{
	stateQueued:    {"queued", 0, "8"},
	stateParsing:   {"parsing", 0.1, "6"},
	stateExpanding: {"expanding", 0.4, "6"},
	stateWriting:   {"writing", 0.8, "6"},
	stateDone:      {"done", 1, "2"},
	stateCached:    {"cached", 1, "2"},
	stateFailed:    {"error", 1, "1"},
}

func (s fileState) String() string { return stateInfo[s].label }

func (s fileState) finished() bool { return s >= stateDone }

// stateOf переводит событие конвейера в состояние файла; ok=false для
// событий, которые состояние не меняют.
func stateOf(ev pipeline.Event) (fileState, bool) {
	switch ev.Status {
	case pipeline.StatusQueued:
		return stateQueued, true
	case pipeline.StatusError:
		return stateFailed, true
	case pipeline.StatusDone:
		if ev.Cached {
			return stateCached, true
		}
		return stateDone, true
	case pipeline.StatusWorking:
		switch ev.Stage {
		case pipeline.StageParse:
			return stateParsing, true
		case pipeline.StageExpand:
			return stateExpanding, true
		case pipeline.StageWrite:
			return stateWriting, true
		}
	}
	return 0, false
}

// maxVisible ограничивает список: на больших пакетах видны только активные
// и последние завершённые файлы.
const maxVisible = 12

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	paths   []string
	states  []fileState
	index   map[string]int
	touched []int // индексы файлов в порядке последнего изменения
	width   int
	done    bool
}

type eventMsg pipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders expansion progress.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		paths:   files,
		states:  make([]fileState, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	m.bar.Width = m.width - 20
	for i, f := range files {
		m.index[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
		m.bar.Width = m.width - 20
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	i, known := m.index[ev.File]
	st, ok := stateOf(ev)
	if !known || !ok {
		return nil
	}
	m.states[i] = st
	m.touched = append(m.touched, i)
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.states) == 0 {
		return 0
	}
	var sum float64
	for _, st := range m.states {
		sum += stateInfo[st].weight
	}
	return sum / float64(len(m.states))
}

// visible: все файлы, если их мало; иначе maxVisible последних изменённых,
// от давних к свежим.
func (m *progressModel) visible() []int {
	if len(m.paths) <= maxVisible {
		out := make([]int, len(m.paths))
		for i := range out {
			out[i] = i
		}
		return out
	}
	seen := make(map[int]bool, maxVisible)
	var out []int
	for j := len(m.touched) - 1; j >= 0 && len(out) < maxVisible; j-- {
		if i := m.touched[j]; !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

func (m *progressModel) tally() string {
	var finished, failed, cached int
	for _, st := range m.states {
		if st.finished() {
			finished++
		}
		switch st {
		case stateFailed:
			failed++
		case stateCached:
			cached++
		}
	}
	s := fmt.Sprintf("%d/%d files", finished, len(m.states))
	if cached > 0 {
		s += fmt.Sprintf(", %d cached", cached)
	}
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

func (m *progressModel) View() string {
	if len(m.paths) == 0 {
		return ""
	}
	var b strings.Builder
	lead := m.spinner.View()
	if m.done {
		lead = "✓"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(lead + " " + m.title))
	b.WriteString("\n\n")

	nameWidth := max(m.width-14, 20)
	for _, i := range m.visible() {
		st := m.states[i]
		label := lipgloss.NewStyle().Foreground(stateInfo[st].color).Render(fmt.Sprintf("%10s", st))
		fmt.Fprintf(&b, "  %s  %s\n", label, truncate(m.paths[i], nameWidth))
	}
	if hidden := len(m.paths) - len(m.visible()); hidden > 0 {
		fmt.Fprintf(&b, "  %s\n", lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("… %d more", hidden)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("  " + m.tally() + "\n")
	return b.String()
}

// truncate режет по ширине на экране, а не по байтам.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
