package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotcommander/screenscore/internal/discovery"
	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// Config represents the screenscore configuration
type Config struct {
	Root           string              `mapstructure:"root" json:"root"`
	Include        []string            `mapstructure:"include" json:"include,omitempty"`
	Exclude        []string            `mapstructure:"exclude" json:"exclude,omitempty"`
	FollowSymlinks bool                `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string              `mapstructure:"format" json:"format"`
	Output         string              `mapstructure:"output" json:"output,omitempty"`
	FailOn         string              `mapstructure:"failOn" json:"failOn"`
	Quiet          bool                `mapstructure:"quiet" json:"quiet"`
	Verbose        bool                `mapstructure:"verbose" json:"verbose"`
	LogFormat      string              `mapstructure:"logFormat" json:"logFormat"`
	Viewer         string              `mapstructure:"viewer" json:"viewer"`
	Schemas        SchemaConfig        `mapstructure:"schemas" json:"schemas"`
	Concurrency    int                 `mapstructure:"concurrency" json:"concurrency"`
	Parallel       bool                `mapstructure:"parallel" json:"parallel"`
	GradeRules     []scoring.GradeRule `mapstructure:"gradeRules" json:"gradeRules,omitempty"`
	GradeRulesMode string              `mapstructure:"gradeRulesMode" json:"gradeRulesMode"`
}

// SchemaConfig contains schema configuration
type SchemaConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// Fail-on levels.
const (
	FailOnCritical = "critical"
	FailOnWatch    = "watch"
	FailOnNone     = "none"
)

// Grade rule modes.
const (
	GradeRulesExtend  = "extend"
	GradeRulesReplace = "replace"
)

// ConfigFiles are the rc file names, in lookup order.
var ConfigFiles = []string{".screenscorerc.json", ".screenscorerc.yaml", ".screenscorerc.yml"}

// LoadConfig loads configuration from various sources. A non-empty rootPath
// is both the directory searched for an rc file and the screening root;
// otherwise the rc file is read from the working directory.
func LoadConfig(rootPath string) (*Config, error) {
	dir := rootPath
	if dir == "" {
		dir = "."
	}
	return load(dir, rootPath)
}

// LoadConfigFrom loads configuration with the rc file read from dir. A
// relative root set by the rc file or environment resolves against dir.
func LoadConfigFrom(dir string) (*Config, error) {
	return load(dir, "")
}

func load(dir, rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("include", discovery.DefaultInclude)
	viper.SetDefault("exclude", discovery.DefaultExclude)
	viper.SetDefault("format", "console")
	viper.SetDefault("failOn", FailOnCritical)
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("viewer", string(visibility.RoleAdmin))
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("parallel", true)
	viper.SetDefault("schemas.enabled", true)
	viper.SetDefault("gradeRulesMode", GradeRulesExtend)

	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		break
	}

	// Environment variables
	viper.SetEnvPrefix("SCREENSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	switch {
	case rootPath != "":
		config.Root = rootPath
	case !filepath.IsAbs(config.Root):
		config.Root = filepath.Join(dir, config.Root)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration and canonicalizes enum values
func validateConfig(config *Config) error {
	if config.Format != "console" && config.Format != "json" && config.Format != "markdown" {
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.FailOn != FailOnCritical && config.FailOn != FailOnWatch && config.FailOn != FailOnNone {
		return fmt.Errorf("invalid fail-on level: %s. Must be 'critical', 'watch', or 'none'", config.FailOn)
	}

	if config.LogFormat != "text" && config.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s. Must be 'text' or 'json'", config.LogFormat)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.Quiet && config.Verbose {
		return fmt.Errorf("quiet and verbose cannot both be set")
	}

	role, err := visibility.ParseRole(config.Viewer)
	if err != nil {
		return err
	}
	config.Viewer = string(role)

	if err := discovery.ValidatePatterns(config.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := discovery.ValidatePatterns(config.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}

	if config.GradeRulesMode != GradeRulesExtend && config.GradeRulesMode != GradeRulesReplace {
		return fmt.Errorf("invalid gradeRulesMode: %s. Must be 'extend' or 'replace'", config.GradeRulesMode)
	}

	for i := range config.GradeRules {
		rule := &config.GradeRules[i]
		grade, err := scoring.ParseGradeLevel(string(rule.Grade))
		if err != nil {
			return fmt.Errorf("gradeRules[%d]: %w", i, err)
		}
		rule.Grade = grade
		rule.Severity = scoring.Severity(strings.ToUpper(string(rule.Severity)))
		if err := scoring.ValidateGradeRule(*rule); err != nil {
			return fmt.Errorf("gradeRules[%d]: %w", i, err)
		}
	}

	return nil
}

// EngineOptions turns the configured grade rules into scoring options.
func (c *Config) EngineOptions() []scoring.Option {
	// An empty replace list disables the built-in rules.
	if c.GradeRulesMode == GradeRulesReplace {
		return []scoring.Option{scoring.WithGradeRules(c.GradeRules)}
	}
	if len(c.GradeRules) == 0 {
		return nil
	}
	return []scoring.Option{scoring.WithExtraGradeRules(c.GradeRules...)}
}

// ViewerRole returns the validated viewer role.
func (c *Config) ViewerRole() visibility.Role {
	return visibility.Role(c.Viewer)
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
