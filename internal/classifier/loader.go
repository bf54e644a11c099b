package classifier

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML layout accepted by LoadRulesFile. Lists are evaluated top to bottom.
type RulesFile struct {
	Categories []Rule        `yaml:"categories"`
	Urgency    []UrgencyRule `yaml:"urgency"`
}

// LoadRulesFile builds a classifier from a YAML rules file.
// A section left out of the file keeps the built-in rules for that section.
func LoadRulesFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classifier: read rules %s", path)
	}
	return ParseRules(data)
}

// ParseRules builds a classifier from YAML bytes.
func ParseRules(data []byte) (*Classifier, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "classifier: parse rules")
	}
	rules := file.Categories
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	urgency := file.Urgency
	if len(urgency) == 0 {
		urgency = DefaultUrgencyRules()
	}
	return New(rules, urgency)
}

// LoadOrDefault returns the built-in classifier when path is empty.
func LoadOrDefault(path string) (*Classifier, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRulesFile(path)
}
