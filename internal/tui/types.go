package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/wodwise/gateway/internal/client"
	"github.com/wodwise/gateway/internal/coach"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateConsole
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	console *ConsoleModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the console state
type EnterConsoleMsg struct{}

// interactive gateway console
type ConsoleModel struct {
	input           textinput.Model
	viewport        viewport.Model
	width           int
	height          int
	isFetching      bool
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer
	ready           bool
	gatewayClient   *client.Client
	lastWorkout     *coach.ParsedWorkout
	output          string
	status          string
}

// sent when the gateway returns a parsed workout
type WorkoutParsedMsg struct {
	workout   *coach.ParsedWorkout
	remaining int
}

// sent when the gateway returns a strategy
type StrategyMsg struct {
	strategy  *coach.WodStrategy
	remaining int
}

// sent when the gateway returns the caller's usage standing
type UsageMsg struct {
	info *client.UsageInfo
}

// sent when a gateway call fails
type GatewayErrorMsg struct {
	err error
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}
