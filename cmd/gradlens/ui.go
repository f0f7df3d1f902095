package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gradlens/internal/engine/resolver"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type browseModel struct {
	list        list.Model
	projectName string
	moduleCount int
	failedCount int
	cycleCount  int
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("%d modules", m.moduleCount))

	var summary string
	if m.failedCount == 0 && m.cycleCount == 0 {
		summary = successStyle.Render("✅ All modules resolved")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			failedStyle.Render(fmt.Sprintf("%d Failed", m.failedCount)),
			failedStyle.Render(fmt.Sprintf("%d Cycles", m.cycleCount)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Module Browser: "+m.projectName), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func moduleItem(mod resolver.Module) item {
	switch m := mod.(type) {
	case resolver.AndroidModule:
		return item{
			title: m.Path,
			desc: fmt.Sprintf("%s | variant %s | %d deps | %d source roots",
				m.Kind, m.SelectedVariant.Name, len(m.Dependencies), len(m.SourceRoots)),
		}
	case resolver.GenericModule:
		return item{title: m.Path, desc: fmt.Sprintf("generic | %d deps", len(m.Dependencies))}
	case resolver.FailedModule:
		return item{title: m.Path, desc: "failed: " + m.Detail}
	default:
		return item{title: mod.ModulePath(), desc: resolver.ModuleKindName(mod)}
	}
}

func browseInitialModel(project *resolver.Project, cycles [][]string) browseModel {
	items := make([]list.Item, 0, len(project.Modules)+len(cycles))
	for _, mod := range project.Modules {
		items = append(items, moduleItem(mod))
	}
	for _, cycle := range cycles {
		items = append(items, item{
			title: "Module Cycle",
			desc:  strings.Join(cycle, " -> "),
		})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Modules"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	counts := countModules(project)
	return browseModel{
		list:        l,
		projectName: project.Name,
		moduleCount: len(project.Modules),
		failedCount: counts.failed,
		cycleCount:  len(cycles),
	}
}

func (a *App) RunUI(project *resolver.Project, cycles [][]string) error {
	p := tea.NewProgram(browseInitialModel(project, cycles), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
