package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"catalogadmin/internal/db"
)

var migrateReset bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, gormDB, err := open()
		if err != nil {
			return err
		}
		if migrateReset {
			if err := db.Reset(gormDB); err != nil {
				return err
			}
			fmt.Println("Tables dropped")
		}
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
		fmt.Println("Database migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo users, categories and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := a.Seeder.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d users, %d categories, %d products\n", res.Users, res.Categories, res.Products)
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage issued access tokens",
}

var tokensPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := a.Tokens.DeleteExpired(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired tokens\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, tokensCmd)
	tokensCmd.AddCommand(tokensPruneCmd)

	migrateCmd.Flags().BoolVar(&migrateReset, "reset", false, "Drop all tables before migrating")
}
