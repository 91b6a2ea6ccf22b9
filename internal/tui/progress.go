// Package tui holds the minimal progress view shown while judging runs.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressMsg updates the view as projects complete.
type ProgressMsg struct {
	Project      string
	ProjectsDone int
	ProjectsAll  int
}

// DoneMsg ends the progress view.
type DoneMsg struct{}

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type progressModel struct {
	spinner      spinner.Model
	project      string
	projectsDone int
	projectsAll  int
	judgesTotal  int
	done         bool
}

// NewProgressProgram builds a bubbletea program showing judging progress.
// Drive it with ProgressMsg and finish it with DoneMsg via Send.
func NewProgressProgram(projects, judgesTotal int) *tea.Program {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return tea.NewProgram(progressModel{
		spinner:     s,
		projectsAll: projects,
		judgesTotal: judgesTotal,
	})
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case ProgressMsg:
		m.project = msg.Project
		m.projectsDone = msg.ProjectsDone
		m.projectsAll = msg.ProjectsAll
		return m, nil
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	status := fmt.Sprintf("judging with %d judges: %d/%d projects", m.judgesTotal, m.projectsDone, m.projectsAll)
	if m.project != "" {
		status += labelStyle.Render(fmt.Sprintf(" (last: %s)", m.project))
	}
	return m.spinner.View() + " " + status + "\n"
}
