package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/module-engine/loader"
	"github.com/wippyai/module-engine/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateInputSpecifier
	stateShowNamespace
)

type recordInfo struct {
	key    string
	status registry.Status
	deps   int
}

type interactiveModel struct {
	loader   *loader.Loader
	records  []recordInfo
	input    textinput.Model
	selected int
	state    modelState
	result   string
	err      error
}

type importDoneMsg struct {
	err error
	ns  *registry.Namespace
}

func newInteractiveModel(l *loader.Loader) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "./main"
	ti.Prompt = "import: "
	ti.Width = 48
	return &interactiveModel{
		loader: l,
		input:  ti,
		state:  stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	m.refreshRecords()
	return nil
}

func (m *interactiveModel) refreshRecords() {
	var records []recordInfo
	m.loader.Registry().Range(func(key string, rec *registry.Record) bool {
		records = append(records, recordInfo{
			key:    key,
			status: rec.Status(),
			deps:   len(rec.Dependencies()),
		})
		return true
	})
	sort.Slice(records, func(i, j int) bool { return records[i].key < records[j].key })
	m.records = records
	if m.selected >= len(records) {
		m.selected = 0
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputSpecifier {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.records)-1 {
				m.selected++
			}

		case "i":
			if m.state == stateBrowse {
				m.state = stateInputSpecifier
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.records) > 0 {
					m.showNamespace(m.records[m.selected].key)
				}
			case stateInputSpecifier:
				specifier := m.input.Value()
				m.input.Blur()
				m.state = stateBrowse
				return m, m.importSpecifier(specifier)
			case stateShowNamespace:
				m.state = stateBrowse
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputSpecifier:
				m.input.Blur()
				m.state = stateBrowse
			case stateShowNamespace:
				m.state = stateBrowse
				m.result = ""
				m.err = nil
			}
		}

	case importDoneMsg:
		m.err = msg.err
		if msg.ns != nil {
			m.result = renderNamespace(msg.ns)
		}
		m.refreshRecords()
		m.state = stateShowNamespace
	}

	if m.state == stateInputSpecifier {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) importSpecifier(specifier string) tea.Cmd {
	return func() tea.Msg {
		ns, err := m.loader.Import(context.Background(), specifier)
		return importDoneMsg{ns: ns, err: err}
	}
}

func (m *interactiveModel) showNamespace(key string) {
	ns := m.loader.Get(key)
	if ns == nil {
		m.err = fmt.Errorf("module %s is not evaluated", key)
	} else {
		m.result = renderNamespace(ns)
	}
	m.state = stateShowNamespace
}

func renderNamespace(ns *registry.Namespace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", ns.Key(), ns.Tag())
	for _, name := range ns.Names() {
		value, set := ns.Get(name)
		if !set {
			fmt.Fprintf(&b, "  %s = <unset>\n", name)
			continue
		}
		fmt.Fprintf(&b, "  %s = %v\n", name, value)
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("module-engine registry"))
	b.WriteString("\n\n")

	switch m.state {
	case stateShowNamespace:
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc: back  q: quit"))

	case stateInputSpecifier:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: import  esc: cancel"))

	default:
		if len(m.records) == 0 {
			b.WriteString(helpStyle.Render("registry is empty"))
			b.WriteString("\n")
		}
		for i, rec := range m.records {
			line := fmt.Sprintf("%s %s (%d deps)",
				keyStyle.Render(rec.key),
				statusStyle.Render("["+string(rec.status)+"]"),
				rec.deps)
			if i == m.selected {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("i: import  enter: inspect  j/k: move  q: quit"))
	}

	b.WriteString("\n")
	return b.String()
}

func runInteractive(l *loader.Loader) error {
	p := tea.NewProgram(newInteractiveModel(l))
	_, err := p.Run()
	return err
}
