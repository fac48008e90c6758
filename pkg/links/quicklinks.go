package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/cleaner"
)

type Kind string

const (
	KindWeb   Kind = "web"
	KindEmail Kind = "email"
	KindPhone Kind = "phone"
	KindSkip  Kind = "skip"
)

// QuickLink is one button in the quick links list.
type QuickLink struct {
	Name  string `json:"name" groups:"basic"`
	Value string `json:"value" groups:"basic"`
	Kind  Kind   `json:"kind" groups:"basic"`
	Href  string `json:"href" groups:"basic"`
	Style string `json:"style" groups:"basic"`
}

// RuleConfig classifies a quick link when the When expression is true. Expressions see
// Name, Value and Digits (the count of decimal digits in Value).
type RuleConfig struct {
	When     string `yaml:"when"`
	Kind     Kind   `yaml:"kind"`
	Fallback string `yaml:"fallback"`
}

// DefaultQuickLinkRules are evaluated in order; the first match wins.
var DefaultQuickLinkRules = []RuleConfig{
	{When: `lower(Name) contains "elba"`, Kind: KindEmail, Fallback: "elba.peru@email.com"},
	{When: `Value contains "http"`, Kind: KindWeb},
	{When: `Value contains "@"`, Kind: KindEmail},
	{When: `Digits >= 10`, Kind: KindPhone},
	{When: `Digits > 0`, Kind: KindSkip},
	{When: `true`, Kind: KindWeb},
}

type LinkEnv struct {
	Name   string
	Value  string
	Digits int
}

type compiledRule struct {
	RuleConfig
	program *vm.Program
}

func compileRules(configs []RuleConfig) ([]compiledRule, error) {
	rules := make([]compiledRule, 0, len(configs))

	for _, config := range configs {
		switch config.Kind {
		case KindWeb, KindEmail, KindPhone, KindSkip:
		default:
			return nil, fmt.Errorf("quick link rule %q has unknown kind %q", config.When, config.Kind)
		}

		program, err := expr.Compile(config.When, expr.Env(LinkEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile quick link rule %q: %w", config.When, err)
		}

		rules = append(rules, compiledRule{RuleConfig: config, program: program})
	}

	return rules, nil
}

var linkStyles = map[Kind]string{
	KindWeb:   "btn-blue",
	KindEmail: "btn-pink",
	KindPhone: "btn-purple",
}

// QuickLink classifies a name/value pair from the quick links feed. The second return value
// is false when the row should not be shown.
func (b *Builder) QuickLink(name string, value string) (QuickLink, bool) {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	if cleaner.IsBlank(value) {
		return QuickLink{}, false
	}

	env := LinkEnv{Name: name, Value: value, Digits: len(Digits(value))}

	for _, rule := range b.rules {
		matched, err := expr.Run(rule.program, env)
		if err != nil {
			log.Warn().Err(err).Str("rule", rule.When).Msg("Quick link rule failed")
			continue
		}
		if matched != true {
			continue
		}

		link := QuickLink{Name: name, Value: value, Kind: rule.Kind, Style: linkStyles[rule.Kind]}

		switch rule.Kind {
		case KindEmail:
			address := value
			if !strings.Contains(address, "@") {
				address = rule.Fallback
			}
			if address == "" {
				return QuickLink{}, false
			}
			link.Href = Mail(address)
		case KindPhone:
			link.Href = "tel:" + Digits(value)
		case KindWeb:
			href, ok := webHref(value)
			if !ok {
				return QuickLink{}, false
			}
			link.Href = href
		default:
			return QuickLink{}, false
		}

		return link, true
	}

	return QuickLink{}, false
}

func webHref(value string) (string, bool) {
	if !strings.Contains(value, "://") {
		value = "https://" + value
	}

	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}

	return parsed.String(), true
}
