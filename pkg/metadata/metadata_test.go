// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := New()
	if m.Version != DefaultVersion {
		t.Errorf("New().Version = %q, want %q", m.Version, DefaultVersion)
	}
	if m.Name != "" {
		t.Errorf("New().Name = %q, want empty", m.Name)
	}
	if m.Dependencies == nil || m.Platforms == nil || m.Providing == nil || m.Recipes == nil {
		t.Error("New() should initialize every map")
	}
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.2.3", "1.2.3", false},
		{"1.2", "1.2.0", false},
		{" 0.10.0 ", "0.10.0", false},
		{"1", "", true},
		{"1.2.3.4", "", true},
		{"v1.2.3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeVersion(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("NormalizeVersion(%q) error = %v, want ErrInvalidValue", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeVersion(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeConstraint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{">= 1.0", ">= 1.0", false},
		{"~>2.1.3", "~> 2.1.3", false},
		{"<= 3", "<= 3", false},
		{"1.0.0", "= 1.0.0", false},
		{"!= 0.1", "!= 0.1", false},
		{"=> 1.0", "", true},
		{">= one", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeConstraint(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("NormalizeConstraint(%q) error = %v, want ErrInvalidValue", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeConstraint(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeConstraint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeclare(t *testing.T) {
	t.Parallel()

	m := New()
	steps := []struct {
		keyword string
		args    []string
	}{
		{"name", []string{"apache2"}},
		{"version", []string{"5.1"}},
		{"depends", []string{"apt"}},
		{"depends", []string{"logrotate", "~> 1.2"}},
		{"supports", []string{"ubuntu", ">= 20.04"}},
		{"provides", []string{"service[apache2]"}},
		{"recipe", []string{"apache2::default", "Installs apache"}},
		{"chef_version", []string{">= 15", "< 19"}},
		{"privacy", []string{"true"}},
	}
	for _, step := range steps {
		if err := m.Declare(step.keyword, step.args...); err != nil {
			t.Fatalf("Declare(%q, %v) error = %v", step.keyword, step.args, err)
		}
	}

	if m.Name != "apache2" {
		t.Errorf("Name = %q, want %q", m.Name, "apache2")
	}
	if m.Version != "5.1.0" {
		t.Errorf("Version = %q, want %q", m.Version, "5.1.0")
	}
	if got := m.Dependencies["apt"]; got != DefaultConstraint {
		t.Errorf("Dependencies[apt] = %q, want %q", got, DefaultConstraint)
	}
	if got := m.Dependencies["logrotate"]; got != "~> 1.2" {
		t.Errorf("Dependencies[logrotate] = %q, want %q", got, "~> 1.2")
	}
	if got := m.Platforms["ubuntu"]; got != ">= 20.04" {
		t.Errorf("Platforms[ubuntu] = %q, want %q", got, ">= 20.04")
	}
	if got := m.Providing["service[apache2]"]; got != DefaultConstraint {
		t.Errorf("Providing[service[apache2]] = %q, want %q", got, DefaultConstraint)
	}
	if got := m.Recipes["apache2::default"]; got != "Installs apache" {
		t.Errorf("Recipes[apache2::default] = %q, want %q", got, "Installs apache")
	}
	if len(m.ChefVersions) != 1 || len(m.ChefVersions[0]) != 2 || m.ChefVersions[0][1] != "< 19" {
		t.Errorf("ChefVersions = %v, want [[>= 15 < 19]]", m.ChefVersions)
	}
	if !m.Privacy {
		t.Error("Privacy = false, want true")
	}
}

func TestDeclare_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		keyword string
		args    []string
		want    error
	}{
		{"unknown keyword", "attribute", []string{"x"}, ErrUnknownDeclaration},
		{"name needs one argument", "name", []string{"a", "b"}, ErrInvalidValue},
		{"bad version", "version", []string{"latest"}, ErrInvalidValue},
		{"bad constraint", "depends", []string{"apt", "newest"}, ErrInvalidValue},
		{"recipe without description", "recipe", []string{"apache2::mod"}, ErrInvalidValue},
		{"privacy must be boolean", "privacy", []string{"yes"}, ErrInvalidValue},
		{"chef_version needs a constraint", "chef_version", nil, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := New().Declare(tt.keyword, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Declare(%q, %v) error = %v, want %v", tt.keyword, tt.args, err, tt.want)
			}
		})
	}
}

func TestDeclare_ZeroValue(t *testing.T) {
	t.Parallel()

	var m Metadata
	if err := m.Declare("depends", "apt"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if _, ok := m.Dependencies["apt"]; !ok {
		t.Error("Declare() on zero Metadata should initialize Dependencies")
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	m := New()
	m.Dependencies["old"] = DefaultConstraint

	err := m.FromMap(map[string]any{
		"name":         "ntp",
		"version":      "3.0.1",
		"license":      "Apache-2.0",
		"privacy":      false,
		"dependencies": map[string]any{"apt": ">= 2.0"},
		"recipes":      map[string]any{"ntp::default": "Installs ntp"},
		"chef_versions": []any{
			[]any{">= 15"},
			">= 12",
		},
		"attributes": map[string]any{"ignored": true},
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	if m.Name != "ntp" || m.Version != "3.0.1" || m.License != "Apache-2.0" {
		t.Errorf("FromMap() scalars = %q %q %q", m.Name, m.Version, m.License)
	}
	if _, ok := m.Dependencies["old"]; ok {
		t.Error("dependencies map should be replaced, not merged")
	}
	if got := m.Dependencies["apt"]; got != ">= 2.0" {
		t.Errorf("Dependencies[apt] = %q, want %q", got, ">= 2.0")
	}
	if len(m.ChefVersions) != 2 || m.ChefVersions[1][0] != ">= 12" {
		t.Errorf("ChefVersions = %v", m.ChefVersions)
	}
}

func TestFromMap_WrongTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data map[string]any
	}{
		{"name not string", map[string]any{"name": 42}},
		{"version not string", map[string]any{"version": 1.0}},
		{"privacy not bool", map[string]any{"privacy": "true"}},
		{"dependencies not object", map[string]any{"dependencies": []any{"apt"}}},
		{"dependency constraint not string", map[string]any{"dependencies": map[string]any{"apt": 2}}},
		{"chef_versions not list", map[string]any{"chef_versions": ">= 15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := New().FromMap(tt.data)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("FromMap() error = %v, want ErrInvalidValue", err)
			}
			var verr *ValueError
			if !errors.As(err, &verr) {
				t.Errorf("FromMap() error %T is not *ValueError", err)
			}
		})
	}
}

func TestToMap(t *testing.T) {
	t.Parallel()

	m := New()
	m.Name = "ntp"
	m.Dependencies["apt"] = ">= 2.0"
	m.ChefVersions = [][]string{{">= 15"}}

	out := m.ToMap()
	if out["name"] != "ntp" || out["version"] != DefaultVersion {
		t.Errorf("ToMap() name/version = %v/%v", out["name"], out["version"])
	}

	back := New()
	if err := back.FromMap(out); err != nil {
		t.Fatalf("FromMap(ToMap()) error = %v", err)
	}
	if back.Dependencies["apt"] != ">= 2.0" || back.ChefVersions[0][0] != ">= 15" {
		t.Errorf("FromMap(ToMap()) lost data: %+v", back)
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	m := New()
	m.Dependencies["apt"] = DefaultConstraint
	m.ChefVersions = [][]string{{">= 15"}}

	c := m.Clone()
	c.Dependencies["yum"] = DefaultConstraint
	c.ChefVersions[0][0] = ">= 16"

	if _, ok := m.Dependencies["yum"]; ok {
		t.Error("Clone() shares Dependencies with the original")
	}
	if m.ChefVersions[0][0] != ">= 15" {
		t.Error("Clone() shares ChefVersions with the original")
	}
}
