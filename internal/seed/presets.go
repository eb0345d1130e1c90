package seed

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset describes a repeatable seed profile. Presets can be built in or
// loaded from a YAML file.
type Preset struct {
	Name      string `yaml:"name"`
	Users     int    `yaml:"users"`
	Questions int    `yaml:"questions"`
}

var builtInPresets = map[string]Preset{
	"Starter": {
		Name:      "Starter",
		Users:     10,
		Questions: 25,
	},
	"MegaPopulated": {
		Name:      "MegaPopulated",
		Users:     500,
		Questions: 2000,
	},
}

// LoadPreset reads a preset definition from a YAML file.
func LoadPreset(path string) (Preset, error) {
	var preset Preset
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return preset, fmt.Errorf("read preset file: %w", err)
	}
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return preset, fmt.Errorf("parse preset file: %w", err)
	}
	if preset.Users <= 0 || preset.Questions < 0 {
		return preset, fmt.Errorf("preset %q: users must be positive and questions non-negative", preset.Name)
	}
	return preset, nil
}

// ApplyPreset runs a built-in preset by name.
func (s *Seeder) ApplyPreset(name string) error {
	preset, ok := builtInPresets[name]
	if !ok {
		known := make([]string, 0, len(builtInPresets))
		for k := range builtInPresets {
			known = append(known, k)
		}
		return fmt.Errorf("unknown preset %q (available: %v)", name, known)
	}
	return s.Apply(preset)
}

// Apply runs the given preset.
func (s *Seeder) Apply(preset Preset) error {
	log.Printf("Applying preset %q: %d users, %d questions", preset.Name, preset.Users, preset.Questions)

	users, err := s.SeedCommunity(preset.Users)
	if err != nil {
		return fmt.Errorf("preset %q users: %w", preset.Name, err)
	}
	if _, err := s.SeedEngagement(users, preset.Questions); err != nil {
		return fmt.Errorf("preset %q engagement: %w", preset.Name, err)
	}
	return nil
}
