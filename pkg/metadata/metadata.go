// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

const (
	// DefaultVersion is the version of a cookbook that declares none.
	DefaultVersion = "0.0.0"
	// DefaultConstraint is the constraint used when a declaration names no
	// version requirement.
	DefaultConstraint = ">= 0.0.0"
)

var (
	// ErrUnknownDeclaration is returned for metadata.rb keywords outside the
	// supported declaration subset.
	ErrUnknownDeclaration = errors.New("unknown metadata declaration")

	// ErrInvalidValue is returned when a declaration or map entry carries a
	// value of the wrong shape.
	ErrInvalidValue = errors.New("invalid metadata value")

	versionPattern    = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)
	constraintPattern = regexp.MustCompile(`^\s*(=|>=|>|<|<=|~>|!=)?\s*(\d+(?:\.\d+){0,2})\s*$`)
)

type (
	// Metadata is the resolved metadata of a cookbook.
	Metadata struct {
		Name            string
		Version         string
		Description     string
		LongDescription string
		Maintainer      string
		MaintainerEmail string
		License         string
		SourceURL       string
		IssuesURL       string
		Privacy         bool

		// Platforms maps a platform name to its version constraint.
		Platforms map[string]string
		// Dependencies maps a cookbook name to its version constraint.
		Dependencies map[string]string
		// Providing maps a provided recipe or resource to a version constraint.
		Providing map[string]string
		// Recipes maps a recipe name to its description.
		Recipes map[string]string
		// ChefVersions lists the supported client version requirements. Each
		// requirement is a list of constraints that must all hold.
		ChefVersions [][]string
	}

	// ValueError describes a metadata value that could not be applied.
	ValueError struct {
		Field  string
		Value  any
		Reason string
	}
)

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *ValueError) Unwrap() error { return ErrInvalidValue }

// New returns a Metadata with defaults applied.
func New() *Metadata {
	return &Metadata{
		Version:      DefaultVersion,
		Platforms:    map[string]string{},
		Dependencies: map[string]string{},
		Providing:    map[string]string{},
		Recipes:      map[string]string{},
	}
}

// Declare applies a single metadata.rb style declaration. Map valued
// declarations (depends, supports, provides, recipe) add one entry; scalar
// declarations replace the previous value.
func (m *Metadata) Declare(keyword string, args ...string) error {
	m.ensureMaps()

	switch keyword {
	case "name", "description", "long_description", "maintainer", "maintainer_email",
		"license", "source_url", "issues_url":
		value, err := single(keyword, args)
		if err != nil {
			return err
		}
		m.setString(keyword, value)
	case "version":
		value, err := single(keyword, args)
		if err != nil {
			return err
		}
		v, err := NormalizeVersion(value)
		if err != nil {
			return err
		}
		m.Version = v
	case "privacy":
		value, err := single(keyword, args)
		if err != nil {
			return err
		}
		switch value {
		case "true":
			m.Privacy = true
		case "false":
			m.Privacy = false
		default:
			return &ValueError{Field: keyword, Value: value, Reason: "must be true or false"}
		}
	case "depends":
		return m.declareConstraint(m.Dependencies, keyword, args)
	case "supports":
		return m.declareConstraint(m.Platforms, keyword, args)
	case "provides":
		return m.declareConstraint(m.Providing, keyword, args)
	case "recipe":
		if len(args) != 2 {
			return &ValueError{Field: keyword, Value: args, Reason: "expects a recipe name and a description"}
		}
		m.Recipes[args[0]] = args[1]
	case "chef_version":
		if len(args) == 0 {
			return &ValueError{Field: keyword, Value: args, Reason: "expects at least one constraint"}
		}
		requirement := make([]string, 0, len(args))
		for _, arg := range args {
			c, err := NormalizeConstraint(arg)
			if err != nil {
				return err
			}
			requirement = append(requirement, c)
		}
		m.ChefVersions = append(m.ChefVersions, requirement)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDeclaration, keyword)
	}
	return nil
}

// FromMap applies the known keys of a metadata.json style map. Unknown keys
// are ignored. Map valued keys replace the whole map.
func (m *Metadata) FromMap(data map[string]any) error {
	for _, key := range []string{
		"name", "description", "long_description", "maintainer", "maintainer_email",
		"license", "source_url", "issues_url",
	} {
		raw, ok := data[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return &ValueError{Field: key, Value: raw, Reason: "must be a string"}
		}
		m.setString(key, s)
	}

	if raw, ok := data["version"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return &ValueError{Field: "version", Value: raw, Reason: "must be a string"}
		}
		v, err := NormalizeVersion(s)
		if err != nil {
			return err
		}
		m.Version = v
	}

	if raw, ok := data["privacy"]; ok && raw != nil {
		b, ok := raw.(bool)
		if !ok {
			return &ValueError{Field: "privacy", Value: raw, Reason: "must be a boolean"}
		}
		m.Privacy = b
	}

	for _, field := range []struct {
		key        string
		target     *map[string]string
		constraint bool
	}{
		{"platforms", &m.Platforms, true},
		{"dependencies", &m.Dependencies, true},
		{"providing", &m.Providing, true},
		{"recipes", &m.Recipes, false},
	} {
		raw, ok := data[field.key]
		if !ok || raw == nil {
			continue
		}
		parsed, err := stringMap(field.key, raw, field.constraint)
		if err != nil {
			return err
		}
		*field.target = parsed
	}

	if raw, ok := data["chef_versions"]; ok && raw != nil {
		versions, err := chefVersions(raw)
		if err != nil {
			return err
		}
		m.ChefVersions = versions
	}

	return nil
}

// ToMap renders the metadata using the metadata.json key layout.
func (m *Metadata) ToMap() map[string]any {
	chefVersions := make([]any, 0, len(m.ChefVersions))
	for _, requirement := range m.ChefVersions {
		constraints := make([]any, 0, len(requirement))
		for _, c := range requirement {
			constraints = append(constraints, c)
		}
		chefVersions = append(chefVersions, constraints)
	}

	return map[string]any{
		"name":             m.Name,
		"version":          m.Version,
		"description":      m.Description,
		"long_description": m.LongDescription,
		"maintainer":       m.Maintainer,
		"maintainer_email": m.MaintainerEmail,
		"license":          m.License,
		"source_url":       m.SourceURL,
		"issues_url":       m.IssuesURL,
		"privacy":          m.Privacy,
		"platforms":        anyMap(m.Platforms),
		"dependencies":     anyMap(m.Dependencies),
		"providing":        anyMap(m.Providing),
		"recipes":          anyMap(m.Recipes),
		"chef_versions":    chefVersions,
	}
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	out := *m
	out.Platforms = maps.Clone(m.Platforms)
	out.Dependencies = maps.Clone(m.Dependencies)
	out.Providing = maps.Clone(m.Providing)
	out.Recipes = maps.Clone(m.Recipes)
	out.ChefVersions = make([][]string, 0, len(m.ChefVersions))
	for _, requirement := range m.ChefVersions {
		out.ChefVersions = append(out.ChefVersions, slices.Clone(requirement))
	}
	return &out
}

// NormalizeVersion validates an x.y or x.y.z version and returns it in x.y.z
// form.
func NormalizeVersion(v string) (string, error) {
	match := versionPattern.FindStringSubmatch(strings.TrimSpace(v))
	if match == nil {
		return "", &ValueError{Field: "version", Value: v, Reason: "must be x.y or x.y.z"}
	}
	patch := match[3]
	if patch == "" {
		patch = "0"
	}
	return match[1] + "." + match[2] + "." + patch, nil
}

// NormalizeConstraint validates a version constraint such as "~> 1.2" and
// returns it as "<operator> <version>". A bare version means an exact match.
func NormalizeConstraint(c string) (string, error) {
	match := constraintPattern.FindStringSubmatch(c)
	if match == nil {
		return "", &ValueError{Field: "constraint", Value: c, Reason: "must be [operator] x[.y[.z]]"}
	}
	op := match[1]
	if op == "" {
		op = "="
	}
	return op + " " + match[2], nil
}

func (m *Metadata) ensureMaps() {
	if m.Platforms == nil {
		m.Platforms = map[string]string{}
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.Providing == nil {
		m.Providing = map[string]string{}
	}
	if m.Recipes == nil {
		m.Recipes = map[string]string{}
	}
}

func (m *Metadata) setString(key, value string) {
	switch key {
	case "name":
		m.Name = value
	case "description":
		m.Description = value
	case "long_description":
		m.LongDescription = value
	case "maintainer":
		m.Maintainer = value
	case "maintainer_email":
		m.MaintainerEmail = value
	case "license":
		m.License = value
	case "source_url":
		m.SourceURL = value
	case "issues_url":
		m.IssuesURL = value
	}
}

func (m *Metadata) declareConstraint(target map[string]string, keyword string, args []string) error {
	switch len(args) {
	case 1:
		target[args[0]] = DefaultConstraint
	case 2:
		c, err := NormalizeConstraint(args[1])
		if err != nil {
			return err
		}
		target[args[0]] = c
	default:
		return &ValueError{Field: keyword, Value: args, Reason: "expects a name and an optional constraint"}
	}
	return nil
}

func single(keyword string, args []string) (string, error) {
	if len(args) != 1 {
		return "", &ValueError{Field: keyword, Value: args, Reason: "expects exactly one argument"}
	}
	return args[0], nil
}

func stringMap(key string, raw any, constraint bool) (map[string]string, error) {
	in, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValueError{Field: key, Value: raw, Reason: "must be an object"}
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		s, ok := v.(string)
		if !ok {
			return nil, &ValueError{Field: key + "." + k, Value: v, Reason: "must be a string"}
		}
		if constraint {
			c, err := NormalizeConstraint(s)
			if err != nil {
				return nil, err
			}
			s = c
		}
		out[k] = s
	}
	return out, nil
}

func chefVersions(raw any) ([][]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &ValueError{Field: "chef_versions", Value: raw, Reason: "must be a list"}
	}
	out := make([][]string, 0, len(list))
	for _, item := range list {
		var constraints []any
		switch v := item.(type) {
		case string:
			constraints = []any{v}
		case []any:
			constraints = v
		default:
			return nil, &ValueError{Field: "chef_versions", Value: item, Reason: "entries must be strings or lists of strings"}
		}
		requirement := make([]string, 0, len(constraints))
		for _, c := range constraints {
			s, ok := c.(string)
			if !ok {
				return nil, &ValueError{Field: "chef_versions", Value: c, Reason: "constraints must be strings"}
			}
			normalized, err := NormalizeConstraint(s)
			if err != nil {
				return nil, err
			}
			requirement = append(requirement, normalized)
		}
		out = append(out, requirement)
	}
	return out, nil
}

func anyMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
