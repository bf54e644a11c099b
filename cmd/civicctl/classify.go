package main

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicdesk/issue-service/internal/classifier"
	"github.com/civicdesk/issue-service/internal/domain"
)

type classifyOutput struct {
	Category       domain.Category `json:"category"`
	Urgency        domain.Urgency  `json:"urgency_level"`
	MatchedKeyword string          `json:"matched_keyword,omitempty"`
	Fallback       bool            `json:"fallback"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify [description...]",
	Short: "Show the category and urgency a description would get",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesPath, _ := cmd.Flags().GetString("rules")
		if rulesPath == "" {
			rulesPath = cfg.Classifier.RulesPath
		}
		c, err := classifier.LoadOrDefault(rulesPath)
		if err != nil {
			return eris.Wrap(err, "classify")
		}

		description := strings.Join(args, " ")
		decision := c.Explain(description)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(classifyOutput{
			Category:       decision.Category,
			Urgency:        c.AssessUrgency(description),
			MatchedKeyword: decision.MatchedKeyword,
			Fallback:       decision.Fallback,
		})
	},
}

func init() {
	classifyCmd.Flags().String("rules", "", "YAML rules file (defaults to CLASSIFIER_RULES_PATH, then built-in rules)")
	rootCmd.AddCommand(classifyCmd)
}
