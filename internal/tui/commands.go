package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wodwise/gateway/internal/client"
	"github.com/wodwise/gateway/internal/coach"
)

const defaultEndpoint = "http://localhost:8080"

func newGatewayClient() (*client.Client, error) {
	token := os.Getenv("WODWISE_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("WODWISE_TOKEN not set, generate one with scripts/gen_test_token")
	}

	endpoint := os.Getenv("WODWISE_API_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return client.New(endpoint, token), nil
}

func parseImage(gatewayClient *client.Client, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path typed by the developer at the console
		if err != nil {
			return GatewayErrorMsg{err: fmt.Errorf("failed to read image: %w", err)}
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "image/jpeg"
		}

		workout, remaining, err := gatewayClient.ParseWOD(
			context.Background(),
			base64.StdEncoding.EncodeToString(data),
			mimeType,
		)
		if err != nil {
			return GatewayErrorMsg{err: err}
		}

		return WorkoutParsedMsg{workout: workout, remaining: remaining}
	}
}

func requestStrategy(gatewayClient *client.Client, workout *coach.ParsedWorkout) tea.Cmd {
	return func() tea.Msg {
		strategy, remaining, err := gatewayClient.GenerateStrategy(context.Background(), workout, nil)
		if err != nil {
			return GatewayErrorMsg{err: err}
		}

		return StrategyMsg{strategy: strategy, remaining: remaining}
	}
}

func fetchUsage(gatewayClient *client.Client) tea.Cmd {
	return func() tea.Msg {
		info, err := gatewayClient.Usage(context.Background())
		if err != nil {
			return GatewayErrorMsg{err: err}
		}

		return UsageMsg{info: info}
	}
}
