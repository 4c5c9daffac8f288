package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wodwise/gateway/internal/tui"
)

func main() {
	env := os.Getenv("ENVIRONMENT")

	if env == "" {
		env = "development"
	}

	app := tui.NewApp(env)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running wodwise console: %v\n", err)
		os.Exit(1)
	}
}
