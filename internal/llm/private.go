package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"braindump/internal/config"
	"braindump/internal/errors"
)

// PrivateClient calls a managed backend endpoint with an optional license key.
type PrivateClient struct {
	cfg  *config.Config
	http *http.Client
}

// NewPrivateClient creates a client for the managed endpoint. The http client
// may be nil, in which case http.DefaultClient is used.
func NewPrivateClient(cfg *config.Config, httpClient *http.Client) *PrivateClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PrivateClient{cfg: cfg, http: httpClient}
}

// privateRequest is the wire body for the managed endpoint.
type privateRequest struct {
	Prompt string `json:"prompt"`
}

// privateResponse covers both reply field spellings the endpoint may use.
type privateResponse struct {
	Text     string `json:"text"`
	Response string `json:"response"`
}

// Generate posts the prompt to the private endpoint. Quota and provider
// errors come back as reply text; transport failures are returned as errors.
func (c *PrivateClient) Generate(ctx context.Context, prompt string, contextTasks []ContextTask) (string, error) {
	if c.cfg.PrivateEndpointURL == "" {
		return "Private endpoint URL is not configured.", nil
	}

	fullPrompt, err := buildFullPrompt(prompt, contextTasks)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	body, err := json.Marshal(privateRequest{Prompt: fullPrompt})
	if err != nil {
		return "", errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PrivateEndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.LicenseKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.LicenseKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.NewProviderUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusForbidden {
		return "Quota exceeded or unpaid plan. Please check your license.", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("Private endpoint error (%d).", resp.StatusCode), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderUnavailable(err)
	}

	var parsed privateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "Private endpoint returned an unexpected response.", nil
	}
	if parsed.Text != "" {
		return parsed.Text, nil
	}
	if parsed.Response != "" {
		return parsed.Response, nil
	}
	return "Private endpoint returned an unexpected response.", nil
}
