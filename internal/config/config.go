package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"golang.org/x/oauth2"
)

const (
	DirName         = "ghsearch"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"

	DefaultBaseURL = "https://api.github.com"
)

// TokenEnvVars lists the environment variables searched for a GitHub token, in order.
var TokenEnvVars = []string{"GITHUB_API_TOKEN", "GITHUB_TOKEN"}

var ErrMissingToken = errors.New("github token not set (export GITHUB_API_TOKEN or add it to .env)")

// Config contains client and search defaults.
type Config struct {
	BaseURL            string `json:"base_url"`
	PerPage            int    `json:"per_page"`
	RateLimitRetries   int    `json:"rate_limit_retries"`
	RetryDelaySeconds  int    `json:"retry_delay_seconds"`
	CommitDelaySeconds int    `json:"commit_delay_seconds"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
	FailOpen           bool   `json:"fail_open"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:            envString("GHSEARCH_BASE_URL", DefaultBaseURL),
		PerPage:            envInt("GHSEARCH_PER_PAGE", 100),
		RateLimitRetries:   envInt("GHSEARCH_RATE_LIMIT_RETRIES", 2),
		RetryDelaySeconds:  envInt("GHSEARCH_RETRY_DELAY", 5),
		CommitDelaySeconds: envInt("GHSEARCH_COMMIT_DELAY", 5),
		TimeoutSeconds:     envInt("GHSEARCH_TIMEOUT", 30),
		FailOpen:           envBool("GHSEARCH_FAIL_OPEN", true),
	}
}

func (c Config) RetryDelay() time.Duration {
	return seconds(c.RetryDelaySeconds)
}

func (c Config) CommitDelay() time.Duration {
	return seconds(c.CommitDelaySeconds)
}

func (c Config) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads config.json from the user config directory. A missing file
// yields the defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a JSON5 config file over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// TokenSource returns a static token source for the first non-empty token
// variable.
func TokenSource() (oauth2.TokenSource, error) {
	for _, key := range TokenEnvVars {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}), nil
		}
	}
	return nil, ErrMissingToken
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("GHSEARCH_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
