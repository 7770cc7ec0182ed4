/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/spf13/cobra"
)

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in field templates",
	Long: `List the built-in field templates that can seed a new block.
Use --category to show only one category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("failed to load template catalog: %w", err)
		}
		category, _ := cmd.Flags().GetString("category")

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tITEMS")
		for _, t := range service.NewTemplateService(cat).List(category) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, t.Name, t.Category, len(t.Items))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().String("category", "", "Only list templates in this category")
}
