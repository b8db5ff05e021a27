package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Provider names accepted in Config.Provider.
const (
	ProviderPrivate     = "private"
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure-openai"
	ProviderGemini      = "gemini"
	ProviderAnthropic   = "anthropic"
)

// DefaultTaskBreakdownPrompt is the built-in template for the breakdown wizard.
// {{task}} is replaced with the task text.
const DefaultTaskBreakdownPrompt = `Break down the task into 3-8 meaningful, do-able subtasks.

Rules:
- Each line is a concrete action that can be done in one sitting (15-60 minutes).
- Start each line with a strong verb (Draft, Call, Decide, Write, Fix, Test, Book...).
- Avoid vague steps like "work on", "handle", "do research" unless you specify exactly what to produce.
- Include an explicit first next action.
- No numbering, no extra text.

Task: {{task}}`

// Config holds plugin configuration: provider selection, credentials, feature
// toggles, and prompt templates. Every field has a defined default.
//
// Two persistence tiers exist: the local file keeps the full copy including
// secrets; the synced file holds the same shape minus apiKey/licenseKey. On
// load, synced non-secret fields override local fields, which override
// defaults.
type Config struct {
	Provider           string  `json:"provider"`
	APIKey             string  `json:"apiKey,omitempty"`
	Model              string  `json:"model"`
	Temperature        float64 `json:"temperature"`
	PrivateEndpointURL string  `json:"privateEndpointUrl,omitempty"`
	LicenseKey         string  `json:"licenseKey,omitempty"`

	// Azure OpenAI (BYOK)
	AzureEndpoint   string `json:"azureEndpoint"`
	AzureAPIVersion string `json:"azureApiVersion"`
	AzureDeployment string `json:"azureDeployment"`

	VoiceModeEnabled     bool   `json:"voiceModeEnabled"`
	SpeechToTextProvider string `json:"speechToTextProvider"`
	SpeechLanguage       string `json:"speechLanguage"`
	ShowVoiceTranscript  bool   `json:"showVoiceTranscript"`

	// SceneLabelsJSON holds optional per-user overrides for scene labels,
	// stored as a JSON object keyed by scene id.
	SceneLabelsJSON string `json:"brainDumpSceneLabelsJson,omitempty"`

	// DefaultSceneID is the scene preselected when a capture session opens.
	DefaultSceneID string `json:"brainDumpDefaultSceneId"`

	// IncludeCompletedByDefault controls whether completed tasks are part of
	// the LLM context by default.
	IncludeCompletedByDefault bool `json:"brainDumpIncludeCompletedByDefault"`

	SmartTagsEnabled     bool   `json:"smartTagsEnabled"`
	TaskBreakdownEnabled bool   `json:"taskBreakdownEnabled"`
	TaskBreakdownPrompt  string `json:"taskBreakdownPrompt"`
	ChatEnabled          bool   `json:"chatEnabled"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabledTools,omitempty"`

	// DBMaxOpenConns / DBMaxIdleConns tune the run-archive connection pool.
	// 0 means use the sql.DB default.
	DBMaxOpenConns int `json:"dbMaxOpenConns,omitempty"`
	DBMaxIdleConns int `json:"dbMaxIdleConns,omitempty"`
}

// fileConfig mirrors Config with pointer fields so a merge can distinguish
// "absent" from an explicit zero value (e.g. voiceModeEnabled: false).
type fileConfig struct {
	Provider           *string  `json:"provider"`
	APIKey             *string  `json:"apiKey"`
	Model              *string  `json:"model"`
	Temperature        *float64 `json:"temperature"`
	PrivateEndpointURL *string  `json:"privateEndpointUrl"`
	LicenseKey         *string  `json:"licenseKey"`

	AzureEndpoint   *string `json:"azureEndpoint"`
	AzureAPIVersion *string `json:"azureApiVersion"`
	AzureDeployment *string `json:"azureDeployment"`

	VoiceModeEnabled     *bool   `json:"voiceModeEnabled"`
	SpeechToTextProvider *string `json:"speechToTextProvider"`
	SpeechLanguage       *string `json:"speechLanguage"`
	ShowVoiceTranscript  *bool   `json:"showVoiceTranscript"`

	SceneLabelsJSON           *string `json:"brainDumpSceneLabelsJson"`
	DefaultSceneID            *string `json:"brainDumpDefaultSceneId"`
	IncludeCompletedByDefault *bool   `json:"brainDumpIncludeCompletedByDefault"`

	SmartTagsEnabled     *bool   `json:"smartTagsEnabled"`
	TaskBreakdownEnabled *bool   `json:"taskBreakdownEnabled"`
	TaskBreakdownPrompt  *string `json:"taskBreakdownPrompt"`
	ChatEnabled          *bool   `json:"chatEnabled"`

	DisabledTools  []string `json:"disabledTools"`
	DBMaxOpenConns *int     `json:"dbMaxOpenConns"`
	DBMaxIdleConns *int     `json:"dbMaxIdleConns"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:                  ProviderOpenAI,
		Temperature:               0.2,
		VoiceModeEnabled:          true,
		SpeechToTextProvider:      "webSpeech",
		SpeechLanguage:            "auto",
		ShowVoiceTranscript:       true,
		DefaultSceneID:            "brain-dump",
		IncludeCompletedByDefault: true,
		SmartTagsEnabled:          true,
		TaskBreakdownEnabled:      true,
		TaskBreakdownPrompt:       DefaultTaskBreakdownPrompt,
	}
}

// LocalPath returns the path of the full (secret-bearing) config file.
func LocalPath(baseDir string) string {
	return filepath.Join(baseDir, "config.json")
}

// SyncedPath returns the path of the secret-stripped synced config file.
func SyncedPath(baseDir string) string {
	return filepath.Join(baseDir, "config.synced.json")
}

// Load reads both tiers from baseDir and merges them over the defaults.
// Missing files are not an error. The baseDir parameter allows tests to use
// t.TempDir() instead of ~/.braindump.
func Load(baseDir string) (*Config, error) {
	local, err := loadFile(LocalPath(baseDir))
	if err != nil {
		return nil, err
	}
	synced, err := loadFile(SyncedPath(baseDir))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	apply(cfg, local, true)
	// Synced copy never carries secrets; even if one slips in, ignore it so
	// the local tier stays the only source of credentials.
	apply(cfg, synced, false)
	return cfg, nil
}

// SaveLocal writes the full config, secrets included, to the local tier.
func SaveLocal(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return writeFile(LocalPath(baseDir), cfg)
}

// SaveSynced writes the secret-stripped copy to the synced tier.
func SaveSynced(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return writeFile(SyncedPath(baseDir), StripSecrets(cfg))
}

// StripSecrets returns a copy of cfg with apiKey and licenseKey cleared.
func StripSecrets(cfg *Config) *Config {
	out := *cfg
	out.APIKey = ""
	out.LicenseKey = ""
	return &out
}

// loadFile reads one tier. A missing file returns nil (merge no-op).
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	fc := &fileConfig{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return fc, nil
}

func writeFile(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// apply overlays fc onto cfg. Fields present in fc win; absent fields keep
// their current value. Secrets are applied only when allowSecrets is set.
func apply(cfg *Config, fc *fileConfig, allowSecrets bool) {
	if fc == nil {
		return
	}

	setString(&cfg.Provider, fc.Provider)
	setString(&cfg.Model, fc.Model)
	if fc.Temperature != nil {
		cfg.Temperature = *fc.Temperature
	}
	setString(&cfg.PrivateEndpointURL, fc.PrivateEndpointURL)

	if allowSecrets {
		setString(&cfg.APIKey, fc.APIKey)
		setString(&cfg.LicenseKey, fc.LicenseKey)
	}

	setString(&cfg.AzureEndpoint, fc.AzureEndpoint)
	setString(&cfg.AzureAPIVersion, fc.AzureAPIVersion)
	setString(&cfg.AzureDeployment, fc.AzureDeployment)

	setBool(&cfg.VoiceModeEnabled, fc.VoiceModeEnabled)
	setString(&cfg.SpeechToTextProvider, fc.SpeechToTextProvider)
	setString(&cfg.SpeechLanguage, fc.SpeechLanguage)
	setBool(&cfg.ShowVoiceTranscript, fc.ShowVoiceTranscript)

	setString(&cfg.SceneLabelsJSON, fc.SceneLabelsJSON)
	setString(&cfg.DefaultSceneID, fc.DefaultSceneID)
	setBool(&cfg.IncludeCompletedByDefault, fc.IncludeCompletedByDefault)

	setBool(&cfg.SmartTagsEnabled, fc.SmartTagsEnabled)
	setBool(&cfg.TaskBreakdownEnabled, fc.TaskBreakdownEnabled)
	setString(&cfg.TaskBreakdownPrompt, fc.TaskBreakdownPrompt)
	setBool(&cfg.ChatEnabled, fc.ChatEnabled)

	if fc.DisabledTools != nil {
		cfg.DisabledTools = fc.DisabledTools
	}
	if fc.DBMaxOpenConns != nil {
		cfg.DBMaxOpenConns = *fc.DBMaxOpenConns
	}
	if fc.DBMaxIdleConns != nil {
		cfg.DBMaxIdleConns = *fc.DBMaxIdleConns
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
