package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedDocument is one entry in a seed file. Documents with an empty ID get
// one assigned when inserted into the store.
type SeedDocument struct {
	ID        string `yaml:"id" json:"id,omitempty"`
	Module    string `yaml:"module" json:"module"`
	Type      string `yaml:"type" json:"type"`
	UserID    string `yaml:"user_id" json:"user_id,omitempty"`
	SourceRow *int   `yaml:"source_row" json:"source_row,omitempty"`
	Content   string `yaml:"content" json:"content"`
}

// SeedFile is the on-disk shape of a seed data file.
type SeedFile struct {
	Documents []SeedDocument `yaml:"documents" json:"documents"`
}

// LoadSeedFile reads and validates a YAML seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	validator, err := NewSeedValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateAll(&seed); err != nil {
		return nil, err
	}

	return &seed, nil
}
