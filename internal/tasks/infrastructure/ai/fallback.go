package ai

import (
	"context"
	"fmt"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/commands"
)

// FallbackSteps returns the generic breakdown used whenever no model
// answer is available. Clients rely on always getting suggestions back,
// so this path never fails.
func FallbackSteps(title string) []string {
	return []string{
		fmt.Sprintf("Research best practices for: %s", title),
		"Create a draft outline",
		"Review and refine details",
		"Finalize execution plan",
	}
}

// StaticProvider serves the generic fallback breakdown without calling
// any model. Used when no API key is configured.
type StaticProvider struct{}

// NewStaticProvider creates a provider that only serves generic steps.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Breakdown implements commands.BreakdownProvider.
func (p *StaticProvider) Breakdown(_ context.Context, req commands.BreakdownRequest) ([]string, error) {
	return FallbackSteps(req.Title), nil
}
