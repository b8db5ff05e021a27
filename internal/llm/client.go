package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"braindump/internal/config"
)

// ContextTask is the slice of an existing task that accompanies a prompt so
// the model can avoid suggesting duplicates.
type ContextTask struct {
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// Client generates a raw text reply for a prompt.
//
// Error semantics follow the plugin's failure taxonomy: configuration gaps and
// provider-side HTTP failures come back as plain-text messages standing in for
// the reply (the response parser then surfaces them to the user), while
// transport-level failures (unreachable endpoint, cancelled context) are
// returned as errors so callers can fall back to the heuristic mock.
type Client interface {
	Generate(ctx context.Context, prompt string, contextTasks []ContextTask) (string, error)
}

// New selects a client for the configured provider. Unwired providers get a
// placeholder client so the rest of the pipeline stays usable.
func New(cfg *config.Config) Client {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	switch cfg.Provider {
	case config.ProviderPrivate:
		return &PrivateClient{cfg: cfg, http: httpClient}
	case config.ProviderAzureOpenAI:
		return &AzureClient{cfg: cfg, http: httpClient}
	default:
		return &pendingClient{provider: cfg.Provider}
	}
}

// buildFullPrompt prepends the serialized task context to the user prompt.
func buildFullPrompt(prompt string, contextTasks []ContextTask) (string, error) {
	if contextTasks == nil {
		contextTasks = []ContextTask{}
	}
	ctxJSON, err := json.Marshal(contextTasks)
	if err != nil {
		return "", fmt.Errorf("serialize context tasks: %w", err)
	}
	return fmt.Sprintf("Context: %s\n\nUser: %s", ctxJSON, prompt), nil
}

// pendingClient stands in for providers without a wired integration.
type pendingClient struct {
	provider string
}

func (c *pendingClient) Generate(ctx context.Context, prompt string, contextTasks []ContextTask) (string, error) {
	return fmt.Sprintf("Provider %q integration pending.", c.provider), nil
}
