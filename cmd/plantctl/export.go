package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/atinyakov/GreenFacade/internal/config"
	"github.com/atinyakov/GreenFacade/internal/export"
	"github.com/atinyakov/GreenFacade/internal/filter"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/atinyakov/GreenFacade/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		output string
		logos  []string
		sel    = models.NewFilterSelection()
	)

	cmd := &cobra.Command{
		Use:   "export <xlsx|pdf>",
		Short: "Export the filtered plant selection",
		Long: `Export the plants matching the given filters.

Without filters the whole table is exported. Repeat a filter flag to accept
several values of the same attribute.

Examples:
  plantctl export xlsx
  plantctl export pdf --standort Sonne --standort Halbschatten --insekten
  plantctl export pdf --immergruen Ja -o auswahl.pdf`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"xlsx", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if sel.Evergreen != "" && !slices.Contains(filter.EvergreenChoices, sel.Evergreen) {
				return fmt.Errorf("invalid --immergruen %q (want one of %v)", sel.Evergreen, filter.EvergreenChoices)
			}

			catalog := service.NewCatalogService(repository.NewCSVPlantRepository(g.dataFile), logos...)
			table, err := catalog.Filtered(cmd.Context(), sel)
			if err != nil {
				return err
			}

			var (
				data     []byte
				filename string
			)
			switch args[0] {
			case "xlsx":
				filename = export.SpreadsheetFilename
				data, err = export.Spreadsheet(table)
			case "pdf":
				filename = export.ReportFilename
				logo, _ := catalog.Logo()
				data, err = export.Report(table, export.ReportOptions{LogoPath: logo, Logger: g.logger()})
			default:
				return fmt.Errorf("unknown format %q (want xlsx or pdf)", args[0])
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = filename
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			g.logger().Info("export written", zap.String("file", output), zap.Int("records", table.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d Pflanzen, %s\n", output, table.Len(), humanize.Bytes(uint64(len(data))))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default: pflanzen.xlsx or report.pdf)")
	f.StringArrayVar(&logos, "logo", config.DefaultLogos, "logo candidates for the report title")
	f.StringArrayVar(&sel.Location, "standort", nil, "location")
	f.StringArrayVar(&sel.ClimbingType, "klettertyp", nil, "climbing type")
	f.StringArrayVar(&sel.Water, "wasserbedarf", nil, "water need")
	f.StringArrayVar(&sel.WinterHardiness, "winterhaerte", nil, "winter hardiness")
	f.StringArrayVar(&sel.Soil, "boden", nil, "soil")
	f.StringArrayVar(&sel.Growth, "wuchsstaerke", nil, "growth strength")
	f.StringVar(&sel.Evergreen, "immergruen", models.EvergreenAll, "evergreen (Alle, Ja, Nein)")
	f.BoolVar(&sel.InsectFriendly, "insekten", false, "insect friendly only")
	return cmd
}
