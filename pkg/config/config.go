package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/envault"
	ConfigFileName    = "envault.yml"
)

// ValidLogLevels lists the accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds all envault server configuration settings
type Config struct {
	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For header is honoured
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// APIListLimitMax is the maximum number of results for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// CLITokenDefaultExpiryDays is used when a token request carries no expiry
	CLITokenDefaultExpiryDays int `yaml:"cli_token_default_expiry_days" json:"cli_token_default_expiry_days"`

	// CLITokenMaxExpiryDays caps the lifetime of a CLI token
	CLITokenMaxExpiryDays int `yaml:"cli_token_max_expiry_days" json:"cli_token_max_expiry_days"`

	// MaxCLITokens is the number of active CLI tokens a user may hold
	MaxCLITokens int `yaml:"max_cli_tokens" json:"max_cli_tokens"`

	// RateLimitPerMinute is the per-user request budget
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`

	// RedisURL enables the shared rate limiter when set
	RedisURL string `yaml:"redis_url" json:"redis_url"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFile switches application logs to a rotated JSON file
	LogFile string `yaml:"log_file" json:"log_file"`

	// AuditEnabled toggles audit logging
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AdminEmails are always treated as administrators
	AdminEmails []string `yaml:"admin_emails" json:"admin_emails"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = NewDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// NewDefault returns a config with default values
func NewDefault() *Config {
	return &Config{
		TrustedProxies:            []string{},
		APIListLimitMax:           1000,
		CLITokenDefaultExpiryDays: 90,
		CLITokenMaxExpiryDays:     365,
		MaxCLITokens:              10,
		RateLimitPerMinute:        120,
		LogLevel:                  "info",
		AuditEnabled:              true,
		AdminEmails:               []string{},
		sources:                   make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := NewDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ENVAULT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig fileValues
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

// fileValues mirrors Config with pointer booleans so an explicit false in
// the file can be told apart from an absent key.
type fileValues struct {
	TrustedProxies            []string `yaml:"trusted_proxies"`
	APIListLimitMax           int      `yaml:"api_list_limit_max"`
	CLITokenDefaultExpiryDays int      `yaml:"cli_token_default_expiry_days"`
	CLITokenMaxExpiryDays     int      `yaml:"cli_token_max_expiry_days"`
	MaxCLITokens              int      `yaml:"max_cli_tokens"`
	RateLimitPerMinute        int      `yaml:"rate_limit_per_minute"`
	RedisURL                  string   `yaml:"redis_url"`
	LogLevel                  string   `yaml:"log_level"`
	LogFile                   string   `yaml:"log_file"`
	AuditEnabled              *bool    `yaml:"audit_enabled"`
	AdminEmails               []string `yaml:"admin_emails"`
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "api_list_limit_max",
		"cli_token_default_expiry_days", "cli_token_max_expiry_days",
		"max_cli_tokens", "rate_limit_per_minute", "redis_url",
		"log_level", "log_file", "audit_enabled", "admin_emails",
	}
}

func (c *Config) applyFileConfig(file *fileValues) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.CLITokenDefaultExpiryDays != 0 {
		c.CLITokenDefaultExpiryDays = file.CLITokenDefaultExpiryDays
		c.sources["cli_token_default_expiry_days"] = "file"
	}
	if file.CLITokenMaxExpiryDays != 0 {
		c.CLITokenMaxExpiryDays = file.CLITokenMaxExpiryDays
		c.sources["cli_token_max_expiry_days"] = "file"
	}
	if file.MaxCLITokens != 0 {
		c.MaxCLITokens = file.MaxCLITokens
		c.sources["max_cli_tokens"] = "file"
	}
	if file.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = file.RateLimitPerMinute
		c.sources["rate_limit_per_minute"] = "file"
	}
	if file.RedisURL != "" {
		c.RedisURL = file.RedisURL
		c.sources["redis_url"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFile != "" {
		c.LogFile = file.LogFile
		c.sources["log_file"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if len(file.AdminEmails) > 0 {
		c.AdminEmails = file.AdminEmails
		c.sources["admin_emails"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("ENVAULT_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	c.envInt("ENVAULT_API_LIST_LIMIT_MAX", "api_list_limit_max", &c.APIListLimitMax)
	c.envInt("ENVAULT_CLI_TOKEN_DEFAULT_EXPIRY_DAYS", "cli_token_default_expiry_days", &c.CLITokenDefaultExpiryDays)
	c.envInt("ENVAULT_CLI_TOKEN_MAX_EXPIRY_DAYS", "cli_token_max_expiry_days", &c.CLITokenMaxExpiryDays)
	c.envInt("ENVAULT_MAX_CLI_TOKENS", "max_cli_tokens", &c.MaxCLITokens)
	c.envInt("ENVAULT_RATE_LIMIT_PER_MINUTE", "rate_limit_per_minute", &c.RateLimitPerMinute)
	if val := os.Getenv("ENVAULT_REDIS_URL"); val != "" {
		c.RedisURL = val
		c.sources["redis_url"] = "environment"
	}
	if val := os.Getenv("ENVAULT_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("ENVAULT_LOG_FILE"); val != "" {
		c.LogFile = val
		c.sources["log_file"] = "environment"
	}
	if val := os.Getenv("ENVAULT_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("ENVAULT_ADMIN_EMAILS"); val != "" {
		c.AdminEmails = splitAndTrim(val)
		c.sources["admin_emails"] = "environment"
	}
}

func (c *Config) envInt(envName, attr string, dst *int) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return
	}
	*dst = i
	c.sources[attr] = "environment"
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// CLITokenDefaultExpiry returns the default CLI token lifetime
func (c *Config) CLITokenDefaultExpiry() time.Duration {
	return time.Duration(c.CLITokenDefaultExpiryDays) * 24 * time.Hour
}

// IsAdminEmail reports whether email is listed in admin_emails
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	positive := map[string]int{
		"api_list_limit_max":            c.APIListLimitMax,
		"cli_token_default_expiry_days": c.CLITokenDefaultExpiryDays,
		"cli_token_max_expiry_days":     c.CLITokenMaxExpiryDays,
		"max_cli_tokens":                c.MaxCLITokens,
		"rate_limit_per_minute":         c.RateLimitPerMinute,
	}
	for _, name := range attributeNames() {
		if v, ok := positive[name]; ok && v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}

	if c.CLITokenDefaultExpiryDays > c.CLITokenMaxExpiryDays {
		return fmt.Errorf("cli_token_default_expiry_days (%d) exceeds cli_token_max_expiry_days (%d)",
			c.CLITokenDefaultExpiryDays, c.CLITokenMaxExpiryDays)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "cli_token_default_expiry_days", Value: strconv.Itoa(c.CLITokenDefaultExpiryDays), Source: c.Source("cli_token_default_expiry_days")},
		{Name: "cli_token_max_expiry_days", Value: strconv.Itoa(c.CLITokenMaxExpiryDays), Source: c.Source("cli_token_max_expiry_days")},
		{Name: "max_cli_tokens", Value: strconv.Itoa(c.MaxCLITokens), Source: c.Source("max_cli_tokens")},
		{Name: "rate_limit_per_minute", Value: strconv.Itoa(c.RateLimitPerMinute), Source: c.Source("rate_limit_per_minute")},
		{Name: "redis_url", Value: redact(c.RedisURL), Source: c.Source("redis_url")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_file", Value: c.LogFile, Source: c.Source("log_file")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "admin_emails", Value: strings.Join(c.AdminEmails, ","), Source: c.Source("admin_emails")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// redact hides the password portion of a URL-ish value
func redact(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	userinfo := raw[scheme+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return raw[:scheme+3] + userinfo[:colon] + ":****" + raw[at:]
	}
	return raw
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
