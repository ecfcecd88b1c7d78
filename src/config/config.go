// Package config provides configuration management for buildbeacon.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/patterns"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultSerialDevice  = "COM3"
	DefaultSerialBaud    = 115200
	DefaultSerialTimeout = time.Second
	DefaultPollInterval  = 30 * time.Second
	DefaultFragmentBytes = 256
	DefaultRPS           = 5.0
)

// Config holds the application configuration.
type Config struct {
	// JenkinsURL is the CI server address, "host[:port]" or a full URL.
	JenkinsURL   string
	JenkinsUser  string
	JenkinsToken string

	// ProjectPrefix drives build-name parsing and the default machine names.
	ProjectPrefix string
	// Machines are the monitored node names in display order.
	Machines []string
	// View is the Jenkins view for the batched last-completed query; empty means the root view.
	View string
	// RequestsPerSecond caps Jenkins API calls; <= 0 disables the limit.
	RequestsPerSecond float64

	SerialDevice  string
	SerialBaud    int
	SerialTimeout time.Duration
	PollInterval  time.Duration
	FragmentBytes int

	// RedpandaBrokers enables broadcast mode when non-empty.
	RedpandaBrokers []string
	Topic           string

	Debug bool
}

// Secrets mirrors the secrets file: JSON or YAML with url, user and pword keys.
type Secrets struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"pword"`
}

// LoadSecrets reads a secrets file. JSON files parse as YAML.
func LoadSecrets(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file %s: %w", path, err)
	}
	return &s, nil
}

// LoadFromEnv loads configuration from environment variables, falling back to the
// secrets file named by BUILDBEACON_SECRETS for the server address and credentials.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		JenkinsURL:    os.Getenv("JENKINS_URL"),
		JenkinsUser:   os.Getenv("JENKINS_USER"),
		JenkinsToken:  os.Getenv("JENKINS_TOKEN"),
		ProjectPrefix: strings.TrimSpace(os.Getenv("BUILDBEACON_PROJECT_PREFIX")),
		View:          os.Getenv("JENKINS_VIEW"),
		SerialDevice:  envOr("SERIAL_DEVICE", DefaultSerialDevice),
		Topic:         envOr("BUILDBEACON_TOPIC", contracts.TopicSnapshots),
	}

	if path := os.Getenv("BUILDBEACON_SECRETS"); path != "" {
		secrets, err := LoadSecrets(path)
		if err != nil {
			return nil, err
		}
		cfg.applySecrets(secrets)
	}

	var err error
	if cfg.RequestsPerSecond, err = envFloat("JENKINS_RPS", DefaultRPS); err != nil {
		return nil, err
	}
	if cfg.SerialBaud, err = envInt("SERIAL_BAUD", DefaultSerialBaud); err != nil {
		return nil, err
	}
	if cfg.FragmentBytes, err = envInt("FRAGMENT_BYTES", DefaultFragmentBytes); err != nil {
		return nil, err
	}
	if cfg.SerialTimeout, err = envDuration("SERIAL_TIMEOUT", DefaultSerialTimeout); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = envDuration("POLL_INTERVAL", DefaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.Debug, err = envBool("BUILDBEACON_DEBUG"); err != nil {
		return nil, err
	}

	cfg.RedpandaBrokers = splitList(os.Getenv("REDPANDA_BROKERS"))
	cfg.Machines = splitList(os.Getenv("BUILDBEACON_NODES"))
	if len(cfg.Machines) == 0 && cfg.ProjectPrefix != "" {
		cfg.Machines = DefaultMachines(cfg.ProjectPrefix)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// DefaultMachines returns the three standard node names of a project.
func DefaultMachines(prefix string) []string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	return []string{
		prefix + " Node 1",
		prefix + " Node 2",
		prefix + " Node 3",
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.JenkinsURL == "" {
		errs = append(errs, errors.New("JENKINS_URL (or url in the secrets file) is required"))
	}
	if c.JenkinsUser == "" || c.JenkinsToken == "" {
		errs = append(errs, errors.New("JENKINS_USER and JENKINS_TOKEN (or user/pword in the secrets file) are required"))
	}
	if _, err := buildname.New(c.ProjectPrefix); err != nil {
		errs = append(errs, fmt.Errorf("BUILDBEACON_PROJECT_PREFIX: %w", err))
	}
	if len(c.Machines) == 0 {
		errs = append(errs, errors.New("at least one machine is required"))
	}
	if c.SerialBaud <= 0 {
		errs = append(errs, fmt.Errorf("SERIAL_BAUD must be positive, got %d", c.SerialBaud))
	}
	if c.SerialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SERIAL_TIMEOUT must be positive, got %s", c.SerialTimeout))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.FragmentBytes <= 0 {
		errs = append(errs, fmt.Errorf("FRAGMENT_BYTES must be positive, got %d", c.FragmentBytes))
	}

	return errors.Join(errs...)
}

// Hostname is the logical CI host that replaces raw addresses in build URLs.
func (c *Config) Hostname() string {
	return patterns.LogicalHost(c.JenkinsURL)
}

func (c *Config) applySecrets(s *Secrets) {
	if c.JenkinsURL == "" {
		c.JenkinsURL = s.URL
	}
	if c.JenkinsUser == "" {
		c.JenkinsUser = s.User
	}
	if c.JenkinsToken == "" {
		c.JenkinsToken = s.Password
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func envBool(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
