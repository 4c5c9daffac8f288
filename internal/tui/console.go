package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// returns a new gateway console
func NewConsole() *ConsoleModel {
	ti := textinput.New()
	ti.Placeholder = "parse <photo.jpg> | strategy | usage | clear"
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorLightGray)

	return &ConsoleModel{
		input:   ti,
		spinner: sp,
	}
}

func (m *ConsoleModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *ConsoleModel) Update(msg tea.Msg) (*ConsoleModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.executeCommand()

		case "ctrl+l":
			m.output = ""
			m.status = ""
			m.lastWorkout = nil
			m.isFetching = false
			m.syncViewport()
			return m, nil
		}

	case WorkoutParsedMsg:
		m.isFetching = false
		m.lastWorkout = msg.workout
		m.output = m.renderMarkdown(workoutMarkdown(msg.workout, msg.remaining))
		m.status = "workout parsed. type strategy to get a plan for it."
		m.syncViewport()
		m.input.Focus()
		return m, nil

	case StrategyMsg:
		m.isFetching = false
		m.output = m.renderMarkdown(strategyMarkdown(msg.strategy, msg.remaining))
		m.status = ""
		m.syncViewport()
		m.input.Focus()
		return m, nil

	case UsageMsg:
		m.isFetching = false
		m.output = m.renderMarkdown(usageMarkdown(msg.info))
		m.status = ""
		m.syncViewport()
		m.input.Focus()
		return m, nil

	case GatewayErrorMsg:
		m.isFetching = false
		m.output = fmt.Sprintf("Error: %v", msg.err)
		m.status = ""
		m.syncViewport()
		m.input.Focus()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := msg.Height - 8
		if viewportHeight < 5 {
			viewportHeight = 5
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
			if err == nil {
				m.glamourRenderer = renderer
			}
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}

		m.syncViewport()

	case spinner.TickMsg:
		if m.isFetching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ConsoleModel) executeCommand() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return nil
	}

	m.input.SetValue("")

	gatewayClient := m.gatewayClient
	if gatewayClient == nil {
		var err error
		gatewayClient, err = newGatewayClient()
		if err != nil {
			m.output = fmt.Sprintf("Error: %v", err)
			m.syncViewport()
			return nil
		}
		m.gatewayClient = gatewayClient
	}

	fields := strings.Fields(line)

	switch fields[0] {
	case "parse":
		if len(fields) < 2 {
			m.output = "usage: parse <path-to-photo>"
			m.syncViewport()
			return nil
		}
		m.isFetching = true
		m.status = "parsing whiteboard photo..."
		return tea.Batch(m.spinner.Tick, parseImage(gatewayClient, fields[1]))

	case "strategy":
		if m.lastWorkout == nil {
			m.output = "no parsed workout yet, run parse <photo> first"
			m.syncViewport()
			return nil
		}
		m.isFetching = true
		m.status = "generating strategy..."
		return tea.Batch(m.spinner.Tick, requestStrategy(gatewayClient, m.lastWorkout))

	case "usage":
		m.isFetching = true
		m.status = "fetching usage..."
		return tea.Batch(m.spinner.Tick, fetchUsage(gatewayClient))

	case "clear":
		m.output = ""
		m.status = ""
		m.lastWorkout = nil
		m.syncViewport()
		return nil

	default:
		m.output = fmt.Sprintf("unknown command: %s", fields[0])
		m.syncViewport()
		return nil
	}
}

func (m *ConsoleModel) renderMarkdown(md string) string {
	if m.glamourRenderer == nil {
		return md
	}

	rendered, err := m.glamourRenderer.Render(md)
	if err != nil {
		return md
	}

	return rendered
}

func (m *ConsoleModel) syncViewport() {
	if !m.ready {
		return
	}

	content := m.output
	if content == "" {
		content = infoStyle.Render("ready! parse a whiteboard photo to get started.")
	}

	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *ConsoleModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("GATEWAY CONSOLE")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Run] [Ctrl+L: Clear] [Ctrl+C: Back]")

	padding := m.width - len("GATEWAY CONSOLE") - len("[Enter: Run] [Ctrl+L: Clear] [Ctrl+C: Back]") - 2
	if padding < 0 {
		padding = 0
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, header, strings.Repeat(" ", padding), help))
	b.WriteString("\n\n")

	if m.ready {
		outputBox := lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Width(m.width - 4).
			Padding(0, 1).
			Render(m.viewport.View())

		b.WriteString(outputBox)
		b.WriteString("\n")
	}

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render(" " + m.status))
	} else if m.status != "" {
		b.WriteString(infoStyle.Render(m.status))
	}

	return b.String()
}
