/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/database"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in sample schedules",
	Long: `Load the built-in sample schedules into the configured database.
Existing schedules are left untouched unless --force is given,
in which case the whole collection is replaced by the samples.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.UsesDatabase() {
			return fmt.Errorf("storage driver %s is not persistent, nothing to seed", cfg.Storage.Driver)
		}
		force, _ := cmd.Flags().GetBool("force")

		db, err := database.Connect(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer database.Close(db)
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		seed, err := catalog.SeedSchedules()
		if err != nil {
			return fmt.Errorf("failed to load seed schedules: %w", err)
		}

		st := store.New(repository.NewScheduleRepository(db), catalog.MustDefault())
		ctx := cmd.Context()
		if force {
			if err := st.Load(ctx); err != nil {
				return fmt.Errorf("failed to load schedules: %w", err)
			}
			if err := st.Replace(ctx, seed); err != nil {
				return fmt.Errorf("failed to replace schedules: %w", err)
			}
			logrus.WithField("schedules", len(seed)).Info("schedules replaced with samples")
			return nil
		}

		seeded, err := st.LoadOrSeed(ctx, seed)
		if err != nil {
			return err
		}
		if !seeded {
			logrus.WithField("schedules", st.Len()).Info("database already has schedules, skipped")
			return nil
		}
		logrus.WithField("schedules", st.Len()).Info("sample schedules loaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Bool("force", false, "Replace existing schedules with the samples")
}
