package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"braindump/internal/config"
	"braindump/internal/errors"
)

func TestPrivateClient_ReturnsTextField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer lk-123" {
			t.Errorf("Authorization = %q, want Bearer lk-123", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if !strings.Contains(body["prompt"], "User: hello") {
			t.Errorf("prompt missing user section: %q", body["prompt"])
		}
		if !strings.Contains(body["prompt"], `"content":"Buy milk"`) {
			t.Errorf("prompt missing serialized context: %q", body["prompt"])
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "reply text"})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderPrivate
	cfg.PrivateEndpointURL = srv.URL
	cfg.LicenseKey = "lk-123"

	client := NewPrivateClient(cfg, srv.Client())
	got, err := client.Generate(context.Background(), "hello", []ContextTask{{Content: "Buy milk"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "reply text" {
		t.Errorf("Generate = %q, want %q", got, "reply text")
	}
}

func TestPrivateClient_ResponseFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "alt reply"})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.PrivateEndpointURL = srv.URL

	client := NewPrivateClient(cfg, srv.Client())
	got, err := client.Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "alt reply" {
		t.Errorf("Generate = %q, want %q", got, "alt reply")
	}
}

func TestPrivateClient_QuotaStatusBecomesMessage(t *testing.T) {
	for _, status := range []int{http.StatusPaymentRequired, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		cfg := config.DefaultConfig()
		cfg.PrivateEndpointURL = srv.URL

		client := NewPrivateClient(cfg, srv.Client())
		got, err := client.Generate(context.Background(), "hi", nil)
		srv.Close()

		if err != nil {
			t.Fatalf("status %d: Generate returned error %v, want message", status, err)
		}
		if !strings.Contains(got, "Quota exceeded") {
			t.Errorf("status %d: Generate = %q, want quota message", status, got)
		}
	}
}

func TestPrivateClient_ServerErrorBecomesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.PrivateEndpointURL = srv.URL

	client := NewPrivateClient(cfg, srv.Client())
	got, err := client.Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Generate returned error %v, want message", err)
	}
	if got != "Private endpoint error (500)." {
		t.Errorf("Generate = %q, want %q", got, "Private endpoint error (500).")
	}
}

func TestPrivateClient_UnreachableEndpointIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	cfg := config.DefaultConfig()
	cfg.PrivateEndpointURL = srv.URL

	client := NewPrivateClient(cfg, nil)
	_, err := client.Generate(context.Background(), "hi", nil)
	if !errors.Is(err, errors.ErrProviderUnavailable) {
		t.Errorf("err = %v, want PROVIDER_UNAVAILABLE", err)
	}
}

func TestPrivateClient_MissingURLIsMessage(t *testing.T) {
	cfg := config.DefaultConfig()
	client := NewPrivateClient(cfg, nil)

	got, err := client.Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Generate returned error %v, want message", err)
	}
	if got != "Private endpoint URL is not configured." {
		t.Errorf("Generate = %q, want config message", got)
	}
}

func TestPrivateClient_CancelledContextIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.PrivateEndpointURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewPrivateClient(cfg, srv.Client())
	_, err := client.Generate(ctx, "hi", nil)
	if err == nil {
		t.Fatal("Generate should fail on cancelled context")
	}
}

func TestAzureClient_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	var gotBody azureRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "azure reply"}},
			},
		})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderAzureOpenAI
	cfg.APIKey = "az-key"
	cfg.AzureEndpoint = srv.URL
	cfg.AzureDeployment = "gpt-4o"
	cfg.AzureAPIVersion = "2024-06-01"
	cfg.Temperature = 0.3

	client := NewAzureClient(cfg, srv.Client())
	got, err := client.Generate(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got != "azure reply" {
		t.Errorf("Generate = %q, want %q", got, "azure reply")
	}
	if gotPath != "/openai/deployments/gpt-4o/chat/completions" {
		t.Errorf("path = %q, want deployment chat/completions path", gotPath)
	}
	if gotQuery != "api-version=2024-06-01" {
		t.Errorf("query = %q, want api-version=2024-06-01", gotQuery)
	}
	if gotKey != "az-key" {
		t.Errorf("api-key header = %q, want az-key", gotKey)
	}
	if gotBody.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want single user message", gotBody.Messages)
	}
}

func TestAzureClient_MissingConfigDetectedBeforeCall(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
		want  string
	}{
		{
			name:  "missing api key",
			setup: func(c *config.Config) { c.APIKey = "" },
			want:  "apiKey",
		},
		{
			name:  "missing endpoint",
			setup: func(c *config.Config) { c.AzureEndpoint = "" },
			want:  "azureEndpoint",
		},
		{
			name:  "missing deployment",
			setup: func(c *config.Config) { c.AzureDeployment = "" },
			want:  "azureDeployment",
		},
		{
			name:  "missing api version",
			setup: func(c *config.Config) { c.AzureAPIVersion = "" },
			want:  "azureApiVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.APIKey = "k"
			cfg.AzureEndpoint = "https://example.openai.azure.com"
			cfg.AzureDeployment = "d"
			cfg.AzureAPIVersion = "v"
			tt.setup(cfg)

			client := NewAzureClient(cfg, nil)
			got, err := client.Generate(context.Background(), "hi", nil)
			if err != nil {
				t.Fatalf("Generate returned error %v, want message", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Generate = %q, want mention of %q", got, tt.want)
			}
		})
	}
}

func TestNew_ProviderSelection(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Provider = config.ProviderPrivate
	if _, ok := New(cfg).(*PrivateClient); !ok {
		t.Error("private provider should yield PrivateClient")
	}

	cfg.Provider = config.ProviderAzureOpenAI
	if _, ok := New(cfg).(*AzureClient); !ok {
		t.Error("azure-openai provider should yield AzureClient")
	}

	cfg.Provider = config.ProviderGemini
	got, err := New(cfg).Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("pending client returned error: %v", err)
	}
	if !strings.Contains(got, "integration pending") {
		t.Errorf("pending client reply = %q, want integration pending note", got)
	}
}
