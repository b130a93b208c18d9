package crewdoc

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"seacrew/internal/domain"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// LeadingSubstitution replaces the first character of a document number.
type LeadingSubstitution struct {
	From       string            `yaml:"from"`
	To         string            `yaml:"to"`
	Confidence domain.Confidence `yaml:"confidence"`
	Reason     string            `yaml:"reason"`
}

// NumberRule is one declarative correction rule.
type NumberRule struct {
	Name                 string                `yaml:"name"`
	Nationalities        []string              `yaml:"nationalities"`
	DocumentTypes        []domain.DocumentType `yaml:"document_types"`
	Pattern              string                `yaml:"pattern"`
	LeadingSubstitutions []LeadingSubstitution `yaml:"leading_substitutions"`

	re *regexp.Regexp
}

// RuleTable is the immutable set of document-number correction rules.
type RuleTable struct {
	NationalityRules []NumberRule `yaml:"nationality_rules"`
	GeneralRules     []NumberRule `yaml:"general_rules"`
}

// DefaultRuleTable returns the embedded rule table.
func DefaultRuleTable() *RuleTable {
	t, err := ParseRuleTable(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("crewdoc: embedded rule table is invalid: %v", err))
	}
	return t
}

// LoadRuleTable reads a rule table from path. An empty path yields the default table.
func LoadRuleTable(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRuleTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule table %s: %w", path, err)
	}
	return ParseRuleTable(data)
}

// ParseRuleTable decodes and compiles a YAML rule table.
func ParseRuleTable(data []byte) (*RuleTable, error) {
	var t RuleTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRuleTable, err)
	}
	for _, group := range [][]NumberRule{t.NationalityRules, t.GeneralRules} {
		for i := range group {
			if err := group[i].compile(); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range t.NationalityRules {
		if len(r.Nationalities) == 0 {
			return nil, fmt.Errorf("%w: rule %q lists no nationalities", domain.ErrInvalidRuleTable, r.Name)
		}
	}
	return &t, nil
}

func (r *NumberRule) compile() error {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("%w: rule %q: %v", domain.ErrInvalidRuleTable, r.Name, err)
	}
	r.re = re
	for _, s := range r.LeadingSubstitutions {
		if len(s.From) != 1 || len(s.To) != 1 {
			return fmt.Errorf("%w: rule %q: substitutions must replace one character", domain.ErrInvalidRuleTable, r.Name)
		}
		if s.Confidence.Rank() == 0 {
			return fmt.Errorf("%w: rule %q: unknown confidence %q", domain.ErrInvalidRuleTable, r.Name, s.Confidence)
		}
	}
	return nil
}

func (r *NumberRule) appliesToNationality(nationality string) bool {
	n := strings.ToUpper(strings.TrimSpace(nationality))
	if n == "" {
		return false
	}
	for _, alias := range r.Nationalities {
		if strings.ToUpper(alias) == n {
			return true
		}
	}
	return false
}

// appliesToType treats an empty docType as unknown, which every rule accepts.
func (r *NumberRule) appliesToType(docType domain.DocumentType) bool {
	if docType == "" || len(r.DocumentTypes) == 0 {
		return true
	}
	for _, t := range r.DocumentTypes {
		if t == docType {
			return true
		}
	}
	return false
}

// apply returns the substitution that fires on value, if any.
func (r *NumberRule) apply(value string) (LeadingSubstitution, bool) {
	if !r.re.MatchString(value) {
		return LeadingSubstitution{}, false
	}
	for _, s := range r.LeadingSubstitutions {
		if strings.HasPrefix(value, s.From) {
			return s, true
		}
	}
	return LeadingSubstitution{}, false
}
