package main

import (
	"github.com/atinyakov/GreenFacade/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dataFile string
	logLevel string
	log      *logger.Logger
}

func (g *globalFlags) logger() *zap.Logger {
	return g.log.Log
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{log: logger.New()}

	root := &cobra.Command{
		Use:   "plantctl",
		Short: "Facade greening plant catalog tool",
		Long: `plantctl works on the same plant table as the catalog server.

It exports filtered selections as spreadsheet or PDF report, prints the
available filter values, registers accounts in the credential database and
creates server certificates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.logLevel == "" {
				return nil
			}
			return g.log.Init(g.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&g.dataFile, "data", "pflanzen.csv", "plant table (semicolon separated)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "enable logging at this level")

	root.AddCommand(
		newExportCmd(g),
		newOptionsCmd(g),
		newUserAddCmd(),
		newGenCertCmd(),
	)
	return root
}
