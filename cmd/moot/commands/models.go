package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/internal/provider"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available for debates",
	Long: `List every model that can be assigned as a debater or adjudicator,
grouped by provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := provider.AvailableModels()

		families := make([]string, 0, len(catalog))
		for family := range catalog {
			families = append(families, family)
		}
		sort.Strings(families)

		for _, family := range families {
			printer.Printf("%s:\n", family)
			for _, model := range catalog[family] {
				printer.Printf("  %s\n", model)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
