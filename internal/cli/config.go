package cli

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	EventID   string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("SEATCTL_SERVER", "http://localhost:8080"),
		EventID:   os.Getenv("SEATCTL_EVENT"),
		Token:     os.Getenv("SEATCTL_TOKEN"),
		TokenFile: getEnvOrDefault("SEATCTL_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// EventPath returns the API path of the selected event
func (c *Config) EventPath() (string, error) {
	if c.EventID == "" {
		return "", errors.New("no event selected: pass --event or set SEATCTL_EVENT")
	}
	return "/api/v1/events/" + url.PathEscape(c.EventID), nil
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seatctl/token"
	}
	return filepath.Join(home, ".seatctl", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
