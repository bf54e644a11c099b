package classifier

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/civicdesk/issue-service/internal/domain"
)

// Rule maps a keyword set to a category. A rule matches when any keyword occurs in the text.
type Rule struct {
	Category domain.Category `yaml:"category" json:"category"`
	Keywords []string        `yaml:"keywords" json:"keywords"`
}

// UrgencyRule maps a keyword set to an urgency level.
type UrgencyRule struct {
	Urgency  domain.Urgency `yaml:"urgency" json:"urgency"`
	Keywords []string       `yaml:"keywords" json:"keywords"`
}

// Decision explains a category assignment.
type Decision struct {
	Category       domain.Category `json:"category"`
	MatchedKeyword string          `json:"matched_keyword,omitempty"`
	RuleIndex      int             `json:"rule_index"`
	Fallback       bool            `json:"fallback"`
}

// Classifier evaluates ordered rules; the first matching rule wins.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules   []Rule
	urgency []UrgencyRule
}

// New validates and normalizes the rules. Order is preserved exactly as given.
func New(rules []Rule, urgency []UrgencyRule) (*Classifier, error) {
	c := &Classifier{
		rules:   make([]Rule, 0, len(rules)),
		urgency: make([]UrgencyRule, 0, len(urgency)),
	}
	for i, rule := range rules {
		if !rule.Category.Valid() {
			return nil, eris.Errorf("classifier: rule %d: unknown category %q", i, rule.Category)
		}
		if rule.Category == domain.CategoryFallback {
			return nil, eris.Errorf("classifier: rule %d: %q is the fallback category", i, rule.Category)
		}
		keywords, err := normalizeKeywords(rule.Keywords)
		if err != nil {
			return nil, eris.Wrapf(err, "classifier: rule %d", i)
		}
		c.rules = append(c.rules, Rule{Category: rule.Category, Keywords: keywords})
	}
	for i, rule := range urgency {
		if !rule.Urgency.Valid() {
			return nil, eris.Errorf("classifier: urgency rule %d: unknown urgency %q", i, rule.Urgency)
		}
		keywords, err := normalizeKeywords(rule.Keywords)
		if err != nil {
			return nil, eris.Wrapf(err, "classifier: urgency rule %d", i)
		}
		c.urgency = append(c.urgency, UrgencyRule{Urgency: rule.Urgency, Keywords: keywords})
	}
	return c, nil
}

// Default returns the built-in rule set.
func Default() *Classifier {
	c, err := New(DefaultRules(), DefaultUrgencyRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns exactly one category for the description. It never fails.
func (c *Classifier) Classify(description string) domain.Category {
	return c.Explain(description).Category
}

// Explain classifies the description and reports which rule decided it.
func (c *Classifier) Explain(description string) Decision {
	text := normalizeText(description)
	if text == "" {
		return fallbackDecision()
	}
	for i, rule := range c.rules {
		if keyword, ok := firstKeyword(text, rule.Keywords); ok {
			return Decision{Category: rule.Category, MatchedKeyword: keyword, RuleIndex: i}
		}
	}
	return fallbackDecision()
}

// AssessUrgency returns the urgency of the first matching urgency rule, or UrgencyFallback.
func (c *Classifier) AssessUrgency(description string) domain.Urgency {
	text := normalizeText(description)
	if text == "" {
		return domain.UrgencyFallback
	}
	for _, rule := range c.urgency {
		if _, ok := firstKeyword(text, rule.Keywords); ok {
			return rule.Urgency
		}
	}
	return domain.UrgencyFallback
}

// Rules returns a copy of the category rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, rule := range c.rules {
		out[i] = Rule{Category: rule.Category, Keywords: append([]string(nil), rule.Keywords...)}
	}
	return out
}

// UrgencyRules returns a copy of the urgency rules in evaluation order.
func (c *Classifier) UrgencyRules() []UrgencyRule {
	out := make([]UrgencyRule, len(c.urgency))
	for i, rule := range c.urgency {
		out[i] = UrgencyRule{Urgency: rule.Urgency, Keywords: append([]string(nil), rule.Keywords...)}
	}
	return out
}

func fallbackDecision() Decision {
	return Decision{Category: domain.CategoryFallback, RuleIndex: -1, Fallback: true}
}

func firstKeyword(text string, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return keyword, true
		}
	}
	return "", false
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeKeywords(keywords []string) ([]string, error) {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		k := normalizeText(keyword)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, eris.New("no keywords")
	}
	return out, nil
}
