package dto

import "github.com/civicdesk/issue-service/internal/domain"

// ClassifyRequest payload.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse shows what a description would be filed under.
type ClassifyResponse struct {
	Category       domain.Category `json:"category"`
	Urgency        domain.Urgency  `json:"urgency_level"`
	MatchedKeyword string          `json:"matched_keyword,omitempty"`
	Fallback       bool            `json:"fallback"`
}

// ClassifierRuleResponse is one entry of the evaluation order.
type ClassifierRuleResponse struct {
	Order    int             `json:"order"`
	Category domain.Category `json:"category"`
	Keywords []string        `json:"keywords"`
}
