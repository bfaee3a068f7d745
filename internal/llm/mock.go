package llm

import (
	"context"
	"strings"
)

// MockClient returns canned text without contacting any backend.
type MockClient struct{}

const mockCompletion = `Here is a sample response while no generation backend is configured.

1. The code defines a function and calls it with an example input.
2. Each step is explained in order, followed by suggestions for improvement.
3. Try modifying the example and running it again to see what changes.`

// Generate echoes the first line of the prompt followed by a fixed sample.
func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	return "[" + first + "]\n\n" + mockCompletion, nil
}
