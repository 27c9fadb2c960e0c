// Package policy loads the optional archival policy file: extra restricted
// URL prefixes and skip substrings on top of the built-in defaults.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
)

// Loader handles loading and parsing of policy.yaml.
type Loader struct {
	filePath string
}

// NewLoader creates a policy loader. An empty path means "no file": Load
// returns the default policy.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the policy file, merged over the built-in defaults.
func (l *Loader) Load() (domain.Policy, error) {
	pol := domain.DefaultPolicy()
	if l.filePath == "" {
		return pol, nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return domain.Policy{}, fmt.Errorf("failed to parse policy yaml: %w", err)
	}

	for _, prefix := range schema.RestrictedPrefixes {
		if prefix != "" {
			pol.RestrictedPrefixes = append(pol.RestrictedPrefixes, prefix)
		}
	}
	for _, sub := range schema.SkipURLContains {
		if sub != "" {
			pol.SkipURLContains = append(pol.SkipURLContains, sub)
		}
	}
	return pol, nil
}
