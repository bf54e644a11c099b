package classifier

import "github.com/civicdesk/issue-service/internal/domain"

// DefaultRules is the built-in category order. Earlier rules win when a description
// mentions keywords from several categories, e.g. "water on the road" is Infrastructure.
func DefaultRules() []Rule {
	return []Rule{
		{Category: domain.CategoryInfrastructure, Keywords: []string{"pothole", "road", "street", "bridge"}},
		{Category: domain.CategorySanitation, Keywords: []string{"garbage", "trash", "waste", "clean"}},
		{Category: domain.CategoryUtilities, Keywords: []string{"water", "pipe", "leak", "supply"}},
		{Category: domain.CategoryPublicSafety, Keywords: []string{"safety", "crime", "police", "security"}},
		{Category: domain.CategoryEnvironment, Keywords: []string{"park", "tree", "environment", "pollution"}},
	}
}

// DefaultUrgencyRules checks High before Low; anything else is Medium.
func DefaultUrgencyRules() []UrgencyRule {
	return []UrgencyRule{
		{Urgency: domain.UrgencyHigh, Keywords: []string{
			"danger", "accident", "fire", "flood", "injur", "emergency", "collapse", "live wire",
		}},
		{Urgency: domain.UrgencyLow, Keywords: []string{"graffiti", "cosmetic", "minor", "bench"}},
	}
}
