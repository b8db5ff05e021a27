package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"braindump/internal/config"
	"braindump/internal/errors"
)

// AzureClient calls an Azure OpenAI chat-completions deployment (BYOK).
type AzureClient struct {
	cfg  *config.Config
	http *http.Client
}

// NewAzureClient creates a client for an Azure OpenAI deployment. The http
// client may be nil, in which case http.DefaultClient is used.
func NewAzureClient(cfg *config.Config, httpClient *http.Client) *AzureClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AzureClient{cfg: cfg, http: httpClient}
}

type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureRequest struct {
	Messages    []azureMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
}

type azureResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// missingField names the first unset required setting, or "" when complete.
// Checked before any network call per the configuration-error policy.
func (c *AzureClient) missingField() string {
	switch {
	case c.cfg.APIKey == "":
		return "apiKey"
	case c.cfg.AzureEndpoint == "":
		return "azureEndpoint"
	case c.cfg.AzureDeployment == "":
		return "azureDeployment"
	case c.cfg.AzureAPIVersion == "":
		return "azureApiVersion"
	}
	return ""
}

// endpointURL assembles the deployment chat-completions URL.
func (c *AzureClient) endpointURL() string {
	base := strings.TrimRight(c.cfg.AzureEndpoint, "/")
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		base, url.PathEscape(c.cfg.AzureDeployment), url.QueryEscape(c.cfg.AzureAPIVersion))
}

// Generate posts a single-user-message chat completion. Configuration gaps and
// provider errors come back as reply text; transport failures as errors.
func (c *AzureClient) Generate(ctx context.Context, prompt string, contextTasks []ContextTask) (string, error) {
	if field := c.missingField(); field != "" {
		return fmt.Sprintf("Azure OpenAI is not configured: set %s in the AI settings.", field), nil
	}

	fullPrompt, err := buildFullPrompt(prompt, contextTasks)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	body, err := json.Marshal(azureRequest{
		Messages:    []azureMessage{{Role: "user", Content: fullPrompt}},
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(), bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.NewProviderUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("Azure OpenAI error (%d).", resp.StatusCode), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderUnavailable(err)
	}

	var parsed azureResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "Azure OpenAI returned an unexpected response.", nil
	}
	if len(parsed.Choices) == 0 {
		return "Azure OpenAI returned no choices.", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
