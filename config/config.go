package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete replay configuration
type Config struct {
	Bank    BankConfig    `json:"bank" yaml:"bank"`
	Workers int           `json:"workers" yaml:"workers"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// BankConfig sizes the account set. Ids run from 0 to Accounts-1.
type BankConfig struct {
	Accounts int `json:"accounts" yaml:"accounts"`
}

// LedgerConfig points at the transaction file to replay
type LedgerConfig struct {
	Path string `json:"path" yaml:"path"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	OutcomesFile string `json:"outcomes_file,omitempty" yaml:"outcomes_file,omitempty"`
	BalancesFile string `json:"balances_file,omitempty" yaml:"balances_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig enables the Prometheus textfile export when File is set
type MetricsConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LogConfig controls diagnostics logging, not the activity log
type LogConfig struct {
	Debug bool   `json:"debug" yaml:"debug"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Bank.Accounts <= 0 {
		return fmt.Errorf("bank.accounts must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.OutcomesFile == "" || c.Journal.BalancesFile == "" {
			return fmt.Errorf("journal outcomes_file and balances_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Bank:    BankConfig{Accounts: 10},
		Workers: 4,
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
