package main

import (
	"encoding/json"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/atinyakov/GreenFacade/internal/service"
	"github.com/spf13/cobra"
)

func newOptionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the selectable filter values as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := service.NewCatalogService(repository.NewCSVPlantRepository(g.dataFile))
			view, err := catalog.Browse(cmd.Context(), models.NewFilterSelection())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view.Options)
		},
	}
}
