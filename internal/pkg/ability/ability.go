// Package ability turns the caller's roles into a company condition that
// repositories compile into SQL.
package ability

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/querybuilder"

	"gopkg.in/yaml.v3"
)

// Actions
const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
)

const wildcard = "*"

//go:embed policy.yaml
var defaultPolicy []byte

// Rule grants actions to users of some company roles and user roles
type Rule struct {
	CompanyRoles []string       `yaml:"companyRoles"`
	UserRoles    []string       `yaml:"userRoles"`
	Actions      []string       `yaml:"actions"`
	Condition    map[string]any `yaml:"condition"`
}

// Policy is the ordered rule set
type Policy struct {
	Rules []Rule `yaml:"rules"`
}

// Subject is the authenticated caller
type Subject struct {
	UserID      string
	Role        string
	CompanyID   int64
	CompanyRole string
	Country     string
}

// Ability is a policy bound to one subject
type Ability struct {
	subject Subject
	rules   []Rule
}

// Parse parses a YAML policy
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse ability policy: %w", err)
	}
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("ability policy has no rules")
	}
	for i, r := range p.Rules {
		if len(r.Actions) == 0 {
			return nil, fmt.Errorf("ability rule %d has no actions", i)
		}
	}
	return &p, nil
}

// Load reads the policy at path, or the built-in policy when path is empty
func Load(path string) (*Policy, error) {
	if path == "" {
		return Parse(defaultPolicy)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ability policy: %w", err)
	}
	return Parse(data)
}

// For binds the policy to a subject
func (p *Policy) For(s Subject) *Ability {
	var rules []Rule
	for _, r := range p.Rules {
		if matches(r.CompanyRoles, s.CompanyRole) && matches(r.UserRoles, s.Role) {
			rules = append(rules, r)
		}
	}
	return &Ability{subject: s, rules: rules}
}

// Subject returns the caller the ability was built for
func (a *Ability) Subject() Subject {
	return a.subject
}

// Can reports whether any rule grants the action
func (a *Ability) Can(action string) bool {
	_, err := a.Condition(action)
	return err == nil
}

// Condition returns the company condition under which the action is allowed.
// A nil condition means unrestricted. ErrForbidden means no rule grants it.
func (a *Ability) Condition(action string) (querybuilder.Condition, error) {
	var branches []any
	for _, r := range a.rules {
		if !matches(r.Actions, action) {
			continue
		}
		if len(r.Condition) == 0 {
			return nil, nil
		}
		branches = append(branches, a.fill(r.Condition))
	}

	switch len(branches) {
	case 0:
		return nil, fmt.Errorf("%s companies: %w", action, domain.ErrForbidden)
	case 1:
		return querybuilder.Condition(branches[0].(map[string]any)), nil
	default:
		return querybuilder.Condition{"$or": branches}, nil
	}
}

// fill copies a condition template with the subject's placeholders resolved
func (a *Ability) fill(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = a.fill(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = a.fill(val)
		}
		return out
	case string:
		if t == "${companyId}" {
			return a.subject.CompanyID
		}
		return strings.NewReplacer(
			"${country}", a.subject.Country,
			"${userId}", a.subject.UserID,
		).Replace(t)
	default:
		return v
	}
}

func matches(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == wildcard || strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}
