// Package tui is the interactive front-end: it renders scan progress,
// lets the user hand-edit the curated frame set, and triggers handout
// generation. Presentation only; all pipeline logic lives below it.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/garyaschafer/vid-handout/internal/capture"
	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/handout"
	"github.com/garyaschafer/vid-handout/internal/media"
	"github.com/garyaschafer/vid-handout/internal/scan"
	"github.com/garyaschafer/vid-handout/internal/selector"
	"github.com/garyaschafer/vid-handout/internal/session"
)

// App bundles the pipeline pieces the UI drives.
type App struct {
	Session    *session.Session
	Scheduler  *scan.Scheduler
	Source     media.Source
	Extractor  *capture.Extractor
	Ranker     selector.Ranker
	Generator  handout.Generator
	OutputPath string
	VideoName  string
}

type state int

const (
	stateScanning state = iota
	stateCurate
	stateConfirmRescan
	stateGenerating
	stateDone
)

type item struct {
	f        frame.Frame
	selected bool
}

func (i item) FilterValue() string { return i.f.DisplayTime }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	checkbox := "☐"
	if i.selected {
		checkbox = "◼"
	}

	timestampLine := timestampStyle.Render(i.f.DisplayTime)
	str := fmt.Sprintf("%s frame at %s", checkbox, i.f.DisplayTime)

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprintf(w, "%s\n%s\n", timestampLine, fn(str))
}

// Model is the bubbletea model for the whole run.
type Model struct {
	app *App

	state    state
	spinner  spinner.Model
	list     list.Model
	progress scan.Progress
	statuses []string
	errMsg   string
	doc      *handout.Document
	frames   []frame.Frame
	quitting bool
}

// NewModel starts in the scanning state; the initial scan kicks off in
// Init. The curation list starts empty so a failed first scan still
// lands on a usable view with live keybindings.
func NewModel(app *App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		app:     app,
		state:   stateScanning,
		spinner: s,
		list:    newCandidateList(nil, nil),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanCmd(m.app, false))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgressMsg:
		m.progress = scan.Progress(msg)
		return m, nil

	case scanDoneMsg:
		m.statuses = append(m.statuses, fmt.Sprintf("Captured %d candidate frames, %d selected.",
			len(msg.candidates), len(msg.curated)))
		m.state = stateCurate
		m.list = newCandidateList(msg.candidates, msg.curated)
		return m, nil

	case handoutDoneMsg:
		m.statuses = append(m.statuses, "Handout generated.")
		m.statuses = append(m.statuses, "Saved output to "+msg.outputPath)
		m.state = stateDone
		m.doc = msg.doc
		m.frames = msg.frames
		return m, nil

	case errorMsg:
		m.errMsg = msg.err.Error()
		m.statuses = append(m.statuses, msg.err.Error())
		if m.state == stateScanning || m.state == stateGenerating {
			m.state = stateCurate
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == stateScanning || m.state == stateGenerating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateCurate {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter", " ":
		if m.state == stateCurate {
			m.toggleCurrent()
			return m, nil
		}

	case "r":
		if m.state == stateCurate {
			if len(m.app.Session.Curated()) > 0 {
				// Destructive: existing curated frames would be lost.
				m.state = stateConfirmRescan
				return m, nil
			}
			m.state = stateScanning
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, scanCmd(m.app, false))
		}

	case "y":
		if m.state == stateConfirmRescan {
			m.state = stateScanning
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, scanCmd(m.app, true))
		}

	case "n", "esc":
		if m.state == stateConfirmRescan {
			m.state = stateCurate
			m.statuses = append(m.statuses, "Rescan cancelled.")
			return m, nil
		}

	case "c":
		if m.state == stateCurate {
			f, err := m.app.Session.ManualCapture(m.app.Extractor, m.app.Source)
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.statuses = append(m.statuses, "Captured frame at "+f.DisplayTime+".")
			return m, nil
		}

	case "g":
		if m.state == stateCurate {
			if len(m.app.Session.Curated()) == 0 {
				m.errMsg = "select at least one frame before generating"
				return m, nil
			}
			m.state = stateGenerating
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, generateCmd(m.app))
		}
	}

	if m.state == stateCurate {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleCurrent() {
	items := m.list.Items()
	idx := m.list.Index()
	if idx < 0 || idx >= len(items) {
		return
	}
	i, ok := items[idx].(item)
	if !ok {
		return
	}

	if i.selected {
		m.app.Session.RemoveCurated(i.f.ID)
		i.selected = false
	} else {
		if err := m.app.Session.AddCurated(i.f); err != nil {
			m.errMsg = err.Error()
			return
		}
		i.selected = true
	}
	items[idx] = i
	m.list.SetItems(items)
}

func (m Model) View() string {
	if m.quitting {
		return styleStatuses(m.statuses)
	}

	switch m.state {
	case stateScanning:
		return m.scanView()
	case stateConfirmRescan:
		return styleStatuses(m.statuses) +
			errorStyle.Render("Rescanning discards your selected frames.") +
			textStyle.Render(" Continue? (y/n)") + "\n"
	case stateGenerating:
		return styleStatuses(m.statuses) +
			fmt.Sprintf("%s%s", m.spinner.View(), "Generating handout with the vision model...")
	case stateDone:
		return m.doneView()
	default:
		return m.curateView()
	}
}

func (m Model) scanView() string {
	var b strings.Builder
	b.WriteString(styleStatuses(m.statuses))
	b.WriteString(fmt.Sprintf("%sScanning %s (%d/%d)\n",
		m.spinner.View(), m.app.VideoName, m.progress.Step, m.progress.Total))
	for _, line := range m.app.Scheduler.Recent() {
		b.WriteString(dimStyle.Render("  "+line) + "\n")
	}
	return b.String()
}

func (m Model) curateView() string {
	var b strings.Builder
	b.WriteString(styleStatuses(m.statuses))
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(dimStyle.Render("  enter/space toggle · g generate · r rescan · c capture · q quit") + "\n")
	b.WriteString(m.list.View())
	return b.String()
}

func (m Model) doneView() string {
	var b strings.Builder
	b.WriteString(styleStatuses(m.statuses))
	b.WriteString(titleStyle.Render(m.doc.Title) + "\n")
	b.WriteString(textStyle.Render(m.doc.Summary) + "\n\n")
	for _, p := range handout.Pair(m.doc, m.frames) {
		ts := "—"
		if p.Frame != nil {
			ts = p.Frame.DisplayTime
		}
		b.WriteString(fmt.Sprintf("%s %s\n", titleStyle.Render(fmt.Sprintf("%d. %s", p.Step.StepNumber, p.Step.Title)), dimStyle.Render("["+ts+"]")))
		b.WriteString(itemStyle.Render(p.Step.Description) + "\n")
		if p.Step.Tip != "" {
			b.WriteString(itemStyle.Render(successStyle.Render("Tip: ")+p.Step.Tip) + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("Press 'q' to quit") + "\n")
	return b.String()
}

func newCandidateList(candidates, curated []frame.Frame) list.Model {
	inCurated := make(map[string]bool, len(curated))
	for _, f := range curated {
		inCurated[f.ID] = true
	}

	items := make([]list.Item, len(candidates))
	for i, f := range candidates {
		items[i] = item{f: f, selected: inCurated[f.ID]}
	}

	l := list.New(items, itemDelegate{}, 64, 16)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.SetShowPagination(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "capture")),
		}
	}
	return l
}

func styleStatuses(statuses []string) string {
	var b strings.Builder
	for _, s := range statuses {
		b.WriteString(bulletStyle.Render("├") + textStyle.Render(s) + "\n")
	}
	return b.String()
}
