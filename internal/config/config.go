package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ShiftTemplate defines a recurring shift series that addRecurring can
// expand without retyping the shift details each time. The rrule must be
// bounded with COUNT or UNTIL so expansion is finite.
type ShiftTemplate struct {
	Name       string `yaml:"name" validate:"required"`
	RRule      string `yaml:"rrule" validate:"required"`
	Type       string `yaml:"type" validate:"required"`
	TeamID     string `yaml:"teamID" validate:"required"`
	LocationID string `yaml:"locationID" validate:"required"`
	Hours      int    `yaml:"hours" validate:"required,min=1"`
}

// Config represents the application configuration
type Config struct {
	// DataFile is the JSON snapshot path used when no database is configured
	DataFile string `yaml:"dataFile,omitempty"`
	// DatabaseURL switches persistence to PostgreSQL when set
	DatabaseURL    string          `yaml:"databaseURL,omitempty"`
	ResolverUserID string          `yaml:"resolverUserID" validate:"required"`
	NotifyByEmail  bool            `yaml:"notifyByEmail,omitempty"`
	EmailSubject   string          `yaml:"emailSubject,omitempty"`
	GmailSender    string          `yaml:"gmailSender,omitempty"`
	ShiftTemplates []ShiftTemplate `yaml:"shiftTemplates,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from einsatzplan.yaml.
// It looks for the config file in the current directory first, then in the user's home directory.
// When env is non-empty the file name becomes einsatzplan.<env>.yaml.
func Load(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks template rrules
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DataFile == "" && cfg.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: one of dataFile or databaseURL must be set")
	}

	if cfg.NotifyByEmail && cfg.GmailSender == "" {
		return fmt.Errorf("config validation failed: gmailSender is required when notifyByEmail is set")
	}

	// Validate rrule syntax and boundedness for each template
	for i, template := range cfg.ShiftTemplates {
		rule, err := rrule.StrToRRule(template.RRule)
		if err != nil {
			return fmt.Errorf("invalid rrule in shiftTemplates[%d]: %w", i, err)
		}
		if rule.OrigOptions.Count == 0 && rule.OrigOptions.Until.IsZero() {
			return fmt.Errorf("rrule in shiftTemplates[%d] must be bounded with COUNT or UNTIL", i)
		}
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "einsatzplan.yaml"
	if env != "" {
		configFileName = fmt.Sprintf("einsatzplan.%s.yaml", env)
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
