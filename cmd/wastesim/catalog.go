package main

import (
	"github.com/spf13/cobra"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/internal/render"
)

func catalogCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the waste types the simulator can report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			if asYAML {
				return classifier.WriteCatalog(cmd.OutOrStdout(), catalog)
			}
			render.CatalogTable(cmd.OutOrStdout(), catalog)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the catalog as a YAML override file")

	return cmd
}
