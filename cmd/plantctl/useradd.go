package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atinyakov/GreenFacade/internal/db"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/spf13/cobra"
)

func newUserAddCmd() *cobra.Command {
	var (
		dsn      string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "useradd <login>",
		Short: "Create or update an account in the credential database",
		Long: `Create or update an account in the PostgreSQL credential database used
by the server when it runs with -d / DATABASE_DSN.

Examples:
  plantctl useradd architekt --password planer2024 --dsn postgres://localhost/plants
  DATABASE_DSN=postgres://localhost/plants plantctl useradd demo --password gast --role guest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(role)
			if r != models.RoleFull && r != models.RoleGuest {
				return fmt.Errorf("invalid --role %q (want %s or %s)", role, models.RoleFull, models.RoleGuest)
			}
			if password == "" {
				return errors.New("--password is required")
			}
			if dsn == "" {
				dsn = os.Getenv("DATABASE_DSN")
			}
			if dsn == "" {
				return errors.New("--dsn or DATABASE_DSN is required")
			}

			conn, err := db.InitPostgres(dsn)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			users := repository.NewPostgresCredentialRepository(conn)
			existed, err := users.UserExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := users.RegisterUser(cmd.Context(), args[0], password, r); err != nil {
				return err
			}

			verb := "created"
			if existed {
				verb = "updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, args[0], r)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (default: $DATABASE_DSN)")
	f.StringVarP(&password, "password", "p", "", "account password")
	f.StringVar(&role, "role", string(models.RoleFull), "account role (full or guest)")
	return cmd
}
