package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fllint/internal/logging"
	"github.com/yaklabco/fllint/pkg/lint"
)

type rulesFlags struct {
	format string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Fixable        bool   `json:"fixable"`
	HasSuggestions bool   `json:"hasSuggestions"`
	URL            string `json:"url,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, categories, descriptions,
and whether they support auto-fixing.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			metas := registeredMetas()

			// Handle JSON output format.
			if flags.format == formatJSON {
				return outputRulesJSON(metas)
			}

			// Default to text output.
			logger := logging.NewInteractive()

			if len(metas) == 0 {
				logger.Info("no rules registered")
				return nil
			}

			logger.Info("available rules")

			for _, meta := range metas {
				fixable := "-"
				if meta.Fixable {
					fixable = "yes"
				}

				logger.Info(meta.ID,
					logging.FieldFixable, fixable,
					logging.FieldDescription, meta.Description,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// registeredMetas collects rule metadata from the default registry in
// sorted ID order.
func registeredMetas() []lint.Meta {
	ids := lint.DefaultRegistry.IDs()
	metas := make([]lint.Meta, 0, len(ids))
	for _, id := range ids {
		if rule, ok := lint.DefaultRegistry.Get(id); ok {
			metas = append(metas, rule.Meta())
		}
	}
	return metas
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(metas []lint.Meta) error {
	infos := make([]ruleInfo, 0, len(metas))
	for _, meta := range metas {
		infos = append(infos, ruleInfo{
			ID:             meta.ID,
			Category:       string(meta.Category),
			Description:    meta.Description,
			Fixable:        meta.Fixable,
			HasSuggestions: meta.HasSuggestions,
			URL:            meta.URL,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
