package config

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// AccessMap decides which portal views a role code may open
type AccessMap struct {
	AdminRoles []string            `yaml:"admin_roles"`
	Views      map[string][]string `yaml:"views"` // view name -> role codes
}

// DefaultAccessMap returns the built-in role table
func DefaultAccessMap() *AccessMap {
	admins := []string{"0a", "1a", "2a"}
	participants := []string{"3", "4", "user"}
	everyone := append(slices.Clone(admins), participants...)

	return &AccessMap{
		AdminRoles: admins,
		Views: map[string][]string{
			"dashboard":         everyone,
			"quran":             everyone,
			"mutabaah":          participants,
			"id-card":           participants,
			"attendance-scan":   admins,
			"participants":      admins,
			"participants-edit": {"0a", "1a"},
			"admin-management":  {"0a"},
		},
	}
}

// LoadAccessMap reads the role table from a YAML file.
// An empty path yields the built-in table.
func LoadAccessMap(path string) (*AccessMap, error) {
	if path == "" {
		return DefaultAccessMap(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}

	var m AccessMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	if len(m.AdminRoles) == 0 {
		return nil, fmt.Errorf("parse roles file: admin_roles must not be empty")
	}
	if m.Views == nil {
		m.Views = map[string][]string{}
	}
	return &m, nil
}

// IsAdmin reports whether role may open administrative views
func (m *AccessMap) IsAdmin(role string) bool {
	return slices.Contains(m.AdminRoles, role)
}

// Allows reports whether role may open view
func (m *AccessMap) Allows(role, view string) bool {
	return slices.Contains(m.Views[view], role)
}

// ViewsFor lists the views reachable by role, sorted by name
func (m *AccessMap) ViewsFor(role string) []string {
	views := []string{}
	for view, roles := range m.Views {
		if slices.Contains(roles, role) {
			views = append(views, view)
		}
	}
	sort.Strings(views)
	return views
}
