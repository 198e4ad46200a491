package main

import (
	"context"
	"log"
	"time"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	"orderdesk/internal/repositories"
	"orderdesk/internal/services"

	"github.com/spf13/cobra"
)

var userFlags struct {
	name     string
	email    string
	password string
	role     string
}

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Create an API user",
	Long: `Create a user that can log in through POST /api/auth/login.

Example:
  orderdesk useradd --name "Ana" --email ana@example.com --password 's3cret-pass' --role manager`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := intconfig.LoadEnv()
		d := intdb.DialectFor(env.DBDriver)
		db, err := intconfig.ConnectDB(d.DriverName, env.DBDSN)
		if err != nil {
			return err
		}
		defer intconfig.CloseDB()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		svc := services.AuthService{
			Users:     repositories.UserRepository{DB: db, Dialect: d},
			RequestID: "cli",
		}
		u, err := svc.Register(ctx, userFlags.name, userFlags.email, userFlags.password, userFlags.role)
		if err != nil {
			return err
		}
		log.Printf("[USER] created id=%s email=%s role=%s", u.ID, u.Email, u.Role)
		return nil
	},
}

func init() {
	useraddCmd.Flags().StringVar(&userFlags.name, "name", "", "display name")
	useraddCmd.Flags().StringVar(&userFlags.email, "email", "", "login email")
	useraddCmd.Flags().StringVar(&userFlags.password, "password", "", "password (min 8 chars)")
	useraddCmd.Flags().StringVar(&userFlags.role, "role", "staff", "role: viewer, staff, manager or admin")
	_ = useraddCmd.MarkFlagRequired("email")
	_ = useraddCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(useraddCmd)
}
