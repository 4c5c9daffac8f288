package main

import (
	"fmt"

	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/llm"
)

// creates and configures all service clients
func InitializeServices() (*Services, error) {
	backend, err := llm.NewModelBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to create model backend: %w", err)
	}

	return &Services{
		Backend: backend,
		Coach:   coach.New(backend),
	}, nil
}
