// Package config loads and hot-reloads the site-wide pagemark
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/asmlabs/pagemark/internal/content"
	"github.com/asmlabs/pagemark/internal/schema"
	"github.com/asmlabs/pagemark/internal/toc"
)

// Config is the full site configuration.
type Config struct {
	Site      SiteConfig      `mapstructure:"site" yaml:"site"`
	TOC       TOCConfig       `mapstructure:"toc" yaml:"toc"`
	Schema    SchemaConfig    `mapstructure:"schema" yaml:"schema"`
	Admin     AdminConfig     `mapstructure:"admin" yaml:"admin"`
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator"`
}

// SiteConfig identifies the site.
type SiteConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	URL         string `mapstructure:"url" yaml:"url"`
	Description string `mapstructure:"description" yaml:"description"`
	Logo        string `mapstructure:"logo" yaml:"logo"`
}

// TOCConfig holds the site-wide table of contents settings.
type TOCConfig struct {
	Enable      bool   `mapstructure:"enable" yaml:"enable"`
	MinHeadings int    `mapstructure:"min_headings" yaml:"min_headings"`
	Title       string `mapstructure:"title" yaml:"title"`
	Position    string `mapstructure:"position" yaml:"position"`
	Width       int    `mapstructure:"width" yaml:"width"`
	Toggle      bool   `mapstructure:"toggle" yaml:"toggle"`
}

// Options converts the settings into compiler options.
func (t TOCConfig) Options() toc.Options {
	opts := toc.DefaultOptions()
	if t.MinHeadings > 0 {
		opts.MinHeadings = t.MinHeadings
	}
	if t.Title != "" {
		opts.Title = t.Title
	}
	if t.Position != "" {
		opts.Position = toc.Position(t.Position)
	}
	if t.Width > 0 {
		opts.WidthPercent = t.Width
	}
	opts.ShowToggle = t.Toggle
	return opts
}

// SchemaConfig holds the site-wide structured data settings.
type SchemaConfig struct {
	Enable         bool              `mapstructure:"enable" yaml:"enable"`
	Entity         string            `mapstructure:"entity" yaml:"entity"`
	EntityName     string            `mapstructure:"entity_name" yaml:"entity_name"`
	EntityLogo     string            `mapstructure:"entity_logo" yaml:"entity_logo"`
	SocialProfiles []string          `mapstructure:"social_profiles" yaml:"social_profiles"`
	DefaultTypes   map[string]string `mapstructure:"default_types" yaml:"default_types"`
	CacheTTL       time.Duration     `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// AdminConfig secures the admin API. Token values may reference
// environment variables with ${VAR} syntax.
type AdminConfig struct {
	Token       string `mapstructure:"token" yaml:"token"`
	NonceSecret string `mapstructure:"nonce_secret" yaml:"nonce_secret"`
}

// ValidatorConfig points at the external rich-results testing endpoint.
type ValidatorConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SchemaSite converts the configuration into the assembler's site entity
// input.
func (c *Config) SchemaSite() schema.Site {
	entity := schema.EntityOrganization
	if c.Schema.Entity == string(schema.EntityPerson) {
		entity = schema.EntityPerson
	}

	defaults := make(map[content.Kind]string, len(c.Schema.DefaultTypes))
	for kind, typ := range c.Schema.DefaultTypes {
		defaults[content.Kind(kind)] = typ
	}

	return schema.Site{
		Name:           c.Site.Name,
		URL:            c.Site.URL,
		Description:    c.Site.Description,
		Entity:         entity,
		EntityName:     c.Schema.EntityName,
		EntityLogo:     c.Schema.EntityLogo,
		SocialProfiles: c.Schema.SocialProfiles,
		DefaultTypes:   defaults,
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and the config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("site", defaults.Site)
	viper.SetDefault("toc", defaults.TOC)
	viper.SetDefault("schema", defaults.Schema)
	viper.SetDefault("admin", defaults.Admin)
	viper.SetDefault("validator", defaults.Validator)

	viper.SetEnvPrefix("PAGEMARK")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.pagemark")
	}

	// The config file is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Admin.Token = ResolveEnvVars(cfg.Admin.Token)
	cfg.Admin.NonceSecret = ResolveEnvVars(cfg.Admin.NonceSecret)
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Pagemark configuration
# Secrets use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export PAGEMARK_ADMIN_TOKEN=xxx PAGEMARK_NONCE_SECRET=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
