package domain

// Category labels the nature of a reported issue.
type Category string

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategorySanitation     Category = "Sanitation"
	CategoryUtilities      Category = "Utilities"
	CategoryPublicSafety   Category = "Public Safety"
	CategoryEnvironment    Category = "Environment"
	CategoryGeneral        Category = "General"
)

// CategoryFallback is assigned when no classification rule matches.
const CategoryFallback = CategoryGeneral

// Categories lists the closed category set in display order.
var Categories = []Category{
	CategoryInfrastructure,
	CategorySanitation,
	CategoryUtilities,
	CategoryPublicSafety,
	CategoryEnvironment,
	CategoryGeneral,
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Urgency is a severity label, independent of the category.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// UrgencyFallback is assigned when no urgency rule matches.
const UrgencyFallback = UrgencyMedium

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}
