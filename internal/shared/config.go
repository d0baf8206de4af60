package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override provider credentials from the config file.
const (
	EnvGeniusToken = "GENIUS_ACCESS_TOKEN"
	EnvGroqKey     = "GROQ_API_KEY"
	EnvYouTubeKey  = "YOUTUBE_API_KEY"
)

// placeholders are the template values shipped in config.example.toml and .env.example.
// A credential equal to one of these is reported as not configured.
var placeholders = map[string]bool{
	"your_actual_genius_token_here": true,
	"your_actual_groq_api_key_here": true,
	"your_youtube_api_key":          true,
}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Web         WebConfig         `toml:"web"`
}

// CredentialsConfig contains provider-specific credentials and endpoints.
type CredentialsConfig struct {
	Genius  GeniusConfig  `toml:"genius"`
	Groq    GroqConfig    `toml:"groq"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// GeniusConfig contains Genius API credentials used for lyrics and artist lookups.
type GeniusConfig struct {
	AccessToken       string  `toml:"access_token"`
	APIURL            string  `toml:"api_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GroqConfig contains settings for the OpenAI-compatible completion endpoint used for mood classification.
type GroqConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	MaxLyricsChars    int     `toml:"max_lyrics_chars"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// YouTubeConfig contains YouTube Data API credentials used for video search.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	APIURL            string  `toml:"api_url"`
	MaxResults        int     `toml:"max_results"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the storage HTTP server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WebConfig contains settings for the web form server and the storage resource it talks to.
type WebConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	StorageURL string `toml:"storage_url"`
}

// Addr returns the host:port listen address.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides provider credentials with non-empty values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvGeniusToken)); v != "" {
		c.Credentials.Genius.AccessToken = v
	}
	if v := strings.TrimSpace(getenv(EnvGroqKey)); v != "" {
		c.Credentials.Groq.APIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvYouTubeKey)); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
}

// Configured reports whether a credential is present and not a template placeholder.
//
// Only presence is checked, not validity.
func Configured(credential string) bool {
	credential = strings.TrimSpace(credential)
	return credential != "" && !placeholders[credential]
}

// CredentialStatus reports whether one provider credential is configured.
type CredentialStatus struct {
	Name       string
	Configured bool
}

// CredentialStatuses lists the configuration state of every provider credential.
func (c *Config) CredentialStatuses() []CredentialStatus {
	return []CredentialStatus{
		{Name: "Genius API", Configured: Configured(c.Credentials.Genius.AccessToken)},
		{Name: "Groq API", Configured: Configured(c.Credentials.Groq.APIKey)},
		{Name: "YouTube API", Configured: Configured(c.Credentials.YouTube.APIKey)},
	}
}
