// Package navigation loads the back-office menu tree from YAML.
package navigation

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// Load reads the menu from path, or the built-in menu when path is empty.
func Load(path string) ([]domain.MenuItem, error) {
	if path == "" {
		return Parse(defaultMenu)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("navigation: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML menu and checks that keys are unique and every role
// is known.
func Parse(data []byte) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("navigation: decode: %w", err)
	}
	if err := validate(items, make(map[string]bool)); err != nil {
		return nil, err
	}
	return items, nil
}

func validate(items []domain.MenuItem, seen map[string]bool) error {
	for i, it := range items {
		if it.Key == "" {
			return fmt.Errorf("navigation: item %d (%q) has no key", i, it.Label)
		}
		if seen[it.Key] {
			return fmt.Errorf("navigation: duplicate key %q", it.Key)
		}
		seen[it.Key] = true
		for _, r := range it.RequiredRoles {
			if !r.Valid() {
				return fmt.Errorf("navigation: item %q: %w: %q", it.Key, domain.ErrInvalidRole, r)
			}
		}
		if err := validate(it.Children, seen); err != nil {
			return err
		}
	}
	return nil
}
